//go:build cgo

package engine

import (
	"context"
	"fmt"

	"github.com/otiai10/gosseract/v2"
)

const tesseractBuilt = true

// GosseractEngine runs Tesseract on the whole image. A fresh client per call
// keeps the engine safe for concurrent requests.
type GosseractEngine struct {
	lang string
	psm  gosseract.PageSegMode
}

func NewGosseractEngine(lang string, psm int) (*GosseractEngine, error) {
	if lang == "" {
		lang = "eng"
	}
	mode := gosseract.PSM_AUTO
	if psm > 0 {
		mode = gosseract.PageSegMode(psm)
	}
	return &GosseractEngine{lang: lang, psm: mode}, nil
}

func (g *GosseractEngine) Name() string { return Tesseract }

func (g *GosseractEngine) ProcessImage(ctx context.Context, imagePath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(g.lang); err != nil {
		return "", fmt.Errorf("tesseract: setting language %s: %w", g.lang, err)
	}
	if err := client.SetPageSegMode(g.psm); err != nil {
		return "", fmt.Errorf("tesseract: setting page segmentation mode: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("tesseract: loading image %s: %w", imagePath, err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("failed to extract text from image %s: %w", imagePath, err)
	}
	return text, nil
}

func (g *GosseractEngine) Close() error {
	return nil
}
