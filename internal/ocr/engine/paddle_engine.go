package engine

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"docscan/internal/logger"
)

const defaultPaddleOCRURL = "http://localhost:8502/ocr"

// PaddleEngine calls a PaddleOCR sidecar that forwards ocr() output as is.
// The shape of that output depends on the PaddleOCR version, see paddle_shape.go.
type PaddleEngine struct {
	url    string
	lang   []string
	client *http.Client
}

func NewPaddleEngine(url string, lang []string, client *http.Client) *PaddleEngine {
	if url == "" {
		url = defaultPaddleOCRURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &PaddleEngine{url: url, lang: lang, client: client}
}

func (p *PaddleEngine) Name() string { return PaddleOCR }

func (p *PaddleEngine) ProcessImage(ctx context.Context, imagePath string) (string, error) {
	result, err := postImage(ctx, p.client, p.url, imagePath, p.lang)
	if err != nil {
		return "", fmt.Errorf("paddleocr: %w", err)
	}
	texts, skipped := decodePaddleOutput(result)
	if skipped > 0 {
		logger.DebugLog("[paddleocr]: skipped %d items with unrecognised shape", skipped)
	}
	return strings.Join(texts, "\n"), nil
}

func (p *PaddleEngine) Close() error {
	return nil
}
