package pipeline

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"docscan/internal/logger"
	"docscan/internal/ocr"
)

// performOcr returns one result per engine, in engine order.
func (p *Pipeline) performOcr(ctx context.Context, imagePath string) []ocr.OCRResult {
	results := make([]ocr.OCRResult, len(p.engines))

	if !p.opts.Parallel {
		for i, e := range p.engines {
			results[i] = p.runEngine(ctx, e, imagePath)
		}
		return results
	}

	var g errgroup.Group
	for i, e := range p.engines {
		g.Go(func() error {
			results[i] = p.runEngine(ctx, e, imagePath)
			return nil
		})
	}
	_ = g.Wait()
	return results
}

type engineOutput struct {
	text string
	err  error
}

// runEngine never fails: errors, panics and timeouts end up in the result
// and are logged. An engine that ignores its context is abandoned once the
// timeout fires; its late answer is dropped.
func (p *Pipeline) runEngine(ctx context.Context, e ocr.Engine, imagePath string) ocr.OCRResult {
	name := e.Name()
	if p.opts.EngineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.opts.EngineTimeout)
		defer cancel()
	}

	start := time.Now()
	done := make(chan engineOutput, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- engineOutput{err: fmt.Errorf("engine panicked: %v", r)}
			}
		}()
		text, err := e.ProcessImage(ctx, imagePath)
		done <- engineOutput{text: text, err: err}
	}()

	var out engineOutput
	select {
	case out = <-done:
	case <-ctx.Done():
		out = engineOutput{err: fmt.Errorf("engine did not finish: %w", ctx.Err())}
	}

	result := ocr.OCRResult{Engine: name, Text: out.text, Error: out.err}
	if !result.Ok() {
		logger.Warn("engine failed, using empty text", "engine", name, "error", result.Error, "elapsed", time.Since(start))
	} else {
		logger.DebugLog("[performOcr]: %s returned %d chars in %s", name, len(result.Text), time.Since(start))
	}
	return result
}
