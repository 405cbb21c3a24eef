//go:build !cgo

package engine

import "context"

const tesseractBuilt = false

// GosseractEngine without cgo cannot reach libtesseract, so construction
// fails and a misconfigured deployment stops at startup.
type GosseractEngine struct{}

func NewGosseractEngine(lang string, psm int) (*GosseractEngine, error) {
	return nil, ErrTesseractUnavailable
}

func (g *GosseractEngine) Name() string { return Tesseract }

func (g *GosseractEngine) ProcessImage(ctx context.Context, imagePath string) (string, error) {
	return "", ErrTesseractUnavailable
}

func (g *GosseractEngine) Close() error {
	return nil
}
