package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"docscan/internal/data"
	"docscan/internal/logger"
	"docscan/internal/writer"
)

type result[T any] struct {
	path string
	data T
	err  error
}

type writeResult[T any] struct {
	mu       sync.Mutex
	writes   map[string]T
	failures map[string]error
}

// RunBatch scans every image in directory and appends one CSV row per image
// to outputFile. Per-file failures are collected, never fatal.
func RunBatch(ctx context.Context, p *Pipeline, directory, outputFile string, workers int) (writes map[string]data.ScanRecord, failures map[string]error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	logger.DebugLog("Batch started with directory=%s, output=%s, workers=%d", directory, outputFile, workers)

	if workers <= 0 {
		workers = 2
	}

	csvWriter := writer.NewCSVWriter(data.MapCSVRecord, data.GetCSVHeader)

	errChan := make(chan error, 10)
	files := make(chan string)
	scanned := make(chan result[data.ScanRecord], workers)
	results := &writeResult[data.ScanRecord]{
		writes:   make(map[string]data.ScanRecord),
		failures: make(map[string]error),
	}

	go func() {
		defer close(files)
		logger.DebugLog("Starting [walkFiles] goroutine")
		walkFiles(ctx, directory, files, errChan)
		logger.DebugLog("[walkFiles] goroutine finished")
	}()

	var g errgroup.Group
	for i := range workers {
		g.Go(func() error {
			logger.DebugLog("Starting [scanFiles] worker #%d", i+1)
			scanFiles(ctx, p, files, scanned)
			logger.DebugLog("[scanFiles] worker #%d finished", i+1)
			return nil
		})
	}
	go func() {
		_ = g.Wait()
		logger.DebugLog("All [scanFiles] workers finished, closing scanned")
		close(scanned)
	}()

	writeOutput(ctx, csvWriter, outputFile, scanned, results)

	close(errChan)
	for err := range errChan {
		logger.DebugLog("Error received in errChan: %v", err)
		results.addFailure("batch_error", err)
	}

	logger.DebugLog("Batch finished")
	return results.writes, results.failures
}

func scanFiles(ctx context.Context, p *Pipeline, files <-chan string, out chan<- result[data.ScanRecord]) {
	for path := range files {
		if ctx.Err() != nil {
			logger.DebugLog("[scanFiles]: context cancelled")
			return
		}

		logger.DebugLog("[scanFiles]: processing image %s", path)
		report, err := p.ProcessFile(ctx, path)
		res := result[data.ScanRecord]{path: path, err: err}
		if err == nil {
			res.data = data.ScanRecord{Filename: filepath.Base(path), Report: *report}
		} else {
			res.err = fmt.Errorf("processing %s: %w", path, err)
		}

		select {
		case out <- res:
		case <-ctx.Done():
			logger.DebugLog("[scanFiles]: context done while sending result for %s", path)
			return
		}
	}
}

func (r *writeResult[T]) addWrite(path string, data T) {
	r.mu.Lock()
	r.writes[path] = data
	r.mu.Unlock()
}

func (r *writeResult[T]) addFailure(path string, err error) {
	r.mu.Lock()
	r.failures[path] = err
	r.mu.Unlock()
}
