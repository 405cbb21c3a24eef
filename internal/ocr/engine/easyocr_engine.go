package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

const defaultEasyOCRURL = "http://localhost:8501/readtext"

// EasyOCREngine calls an EasyOCR sidecar whose result is the readtext()
// list of [region, text, confidence] triples.
type EasyOCREngine struct {
	url    string
	lang   []string
	client *http.Client
}

func NewEasyOCREngine(url string, lang []string, client *http.Client) *EasyOCREngine {
	if url == "" {
		url = defaultEasyOCRURL
	}
	if client == nil {
		client = &http.Client{}
	}
	return &EasyOCREngine{url: url, lang: lang, client: client}
}

func (e *EasyOCREngine) Name() string { return EasyOCR }

func (e *EasyOCREngine) ProcessImage(ctx context.Context, imagePath string) (string, error) {
	result, err := postImage(ctx, e.client, e.url, imagePath, e.lang)
	if err != nil {
		return "", fmt.Errorf("easyocr: %w", err)
	}
	return decodeEasyOCRLines(result)
}

func (e *EasyOCREngine) Close() error {
	return nil
}

func decodeEasyOCRLines(raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", nil
	}
	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return "", fmt.Errorf("easyocr: unexpected result shape: %w", err)
	}

	lines := make([]string, 0, len(entries))
	for _, entry := range entries {
		var fields []json.RawMessage
		if err := json.Unmarshal(entry, &fields); err != nil || len(fields) < 2 {
			continue
		}
		var text string
		if err := json.Unmarshal(fields[1], &text); err != nil {
			continue
		}
		lines = append(lines, text)
	}
	return strings.Join(lines, "\n"), nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	return trimmed == "" || trimmed == "null"
}
