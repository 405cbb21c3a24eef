package engine

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"docscan/internal/logger"
	"docscan/internal/ocr"
)

const (
	EasyOCR   = "easyocr"
	Tesseract = "tesseract"
	PaddleOCR = "paddleocr"
	Ollama    = "ollama"
)

// DefaultEngines is the engine set and report order used when none is configured.
var DefaultEngines = []string{EasyOCR, Tesseract, PaddleOCR}

var (
	ErrUnknownEngine        = errors.New("unknown engine type")
	ErrTesseractUnavailable = errors.New("tesseract support not compiled in (build with cgo and libtesseract)")
)

type Config struct {
	EasyOCRURL   string
	PaddleOCRURL string
	OllamaURL    string
	OllamaModel  string

	// Languages sent to the sidecar engines, e.g. ["en"].
	Languages []string

	TesseractLang string
	TesseractPSM  int

	HTTPTimeout time.Duration
}

func (c Config) httpClient() *http.Client {
	timeout := c.HTTPTimeout
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &http.Client{Timeout: timeout}
}

// New builds one engine by name.
func New(engineType string, cfg Config) (ocr.Engine, error) {
	switch strings.ToLower(strings.TrimSpace(engineType)) {
	case EasyOCR:
		return NewEasyOCREngine(cfg.EasyOCRURL, cfg.Languages, cfg.httpClient()), nil
	case Tesseract:
		e, err := NewGosseractEngine(cfg.TesseractLang, cfg.TesseractPSM)
		if err != nil {
			return nil, err
		}
		return e, nil
	case PaddleOCR:
		return NewPaddleEngine(cfg.PaddleOCRURL, cfg.Languages, cfg.httpClient()), nil
	case Ollama:
		return NewOllamaEngine(cfg.OllamaURL, cfg.OllamaModel, cfg.httpClient()), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownEngine, engineType)
	}
}

// NewAll builds every named engine in order. Engines already built are
// closed if a later one fails.
func NewAll(names []string, cfg Config) ([]ocr.Engine, error) {
	if len(names) == 0 {
		names = DefaultEngines
	}
	engines := make([]ocr.Engine, 0, len(names))
	for _, name := range names {
		e, err := New(name, cfg)
		if err != nil {
			CloseAll(engines)
			return nil, fmt.Errorf("creating engine %q: %w", name, err)
		}
		logger.DebugLog("engine %s initialised", e.Name())
		engines = append(engines, e)
	}
	return engines, nil
}

func CloseAll(engines []ocr.Engine) {
	for _, e := range engines {
		if err := e.Close(); err != nil {
			logger.Warn("closing engine failed", "engine", e.Name(), "error", err)
		}
	}
}
