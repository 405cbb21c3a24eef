package ocr

import "context"

// Engine turns an image on disk into plain text. Implementations are created
// once at startup and must be safe for concurrent use.
type Engine interface {
	Name() string
	ProcessImage(ctx context.Context, imagePath string) (string, error)
	Close() error
}

// OCRResult is the outcome of one engine call. A failed call keeps its error
// here; the pipeline decides how to degrade it.
type OCRResult struct {
	Engine string
	Text   string
	Error  error
}

// Ok reports whether the call produced text without error.
func (r OCRResult) Ok() bool {
	return r.Error == nil
}

// TextOrEmpty is the fail-soft view of a result: failures read as no text.
func (r OCRResult) TextOrEmpty() string {
	if r.Error != nil {
		return ""
	}
	return r.Text
}
