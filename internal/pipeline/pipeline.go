package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"docscan/internal/data"
	"docscan/internal/image"
	"docscan/internal/logger"
	"docscan/internal/ocr"
)

var ErrMissingImage = errors.New("image is required")

type Options struct {
	// EngineTimeout bounds each engine call; zero disables it.
	EngineTimeout time.Duration
	// Parallel runs the engines concurrently. The report is identical either way.
	Parallel bool
	// Enhance preprocesses the upload before OCR, falling back to the
	// original image if preprocessing fails.
	Enhance bool
}

// Pipeline runs every engine over one image and reconciles their output.
// Engines and store are shared across requests; everything else is built
// per call.
type Pipeline struct {
	engines []ocr.Engine
	store   *image.Store
	opts    Options
}

func New(engines []ocr.Engine, store *image.Store, opts Options) *Pipeline {
	return &Pipeline{engines: engines, store: store, opts: opts}
}

// Engines returns the engine names in report order.
func (p *Pipeline) Engines() []string {
	names := make([]string, len(p.engines))
	for i, e := range p.engines {
		names[i] = e.Name()
	}
	return names
}

// Process stores the image for the duration of the call, runs the engines
// and builds the report. Only missing input and storage errors fail the
// call; engine failures degrade to empty text.
func (p *Pipeline) Process(ctx context.Context, imageData []byte, filename string) (*data.Report, error) {
	if len(imageData) == 0 {
		return nil, ErrMissingImage
	}

	imagePath, cleanup, err := p.store.Save(imageData, filename)
	if err != nil {
		return nil, fmt.Errorf("storing image: %w", err)
	}
	defer cleanup()

	ocrPath := imagePath
	if p.opts.Enhance {
		enhanced, err := p.store.EnhanceQuality(imagePath)
		if err != nil {
			logger.Warn("image enhancement failed, using original", "file", filename, "error", err)
		} else {
			defer p.store.Cleanup(enhanced)
			ocrPath = enhanced
		}
	}

	logger.DebugLog("Pipeline started for %s with engines=%v", filename, p.Engines())
	results := p.performOcr(ctx, ocrPath)
	report := buildReport(results)
	logger.DebugLog("Pipeline finished for %s, combined text %d chars", filename, len(report.CombinedResult.CleanedText))
	return report, nil
}

// ProcessFile reads an image from disk and processes it.
func (p *Pipeline) ProcessFile(ctx context.Context, path string) (*data.Report, error) {
	imageData, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image %s: %w", path, err)
	}
	return p.Process(ctx, imageData, filepath.Base(path))
}
