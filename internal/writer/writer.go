package writer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var ErrWriterClosed = errors.New("writer is closed")

type WriteMode int

const (
	ModeReplace WriteMode = iota
	ModeAppend
)

type MapperFunc[T any] func(T) []string

type HeaderFunc func() []string

type writeRequest[T any] struct {
	rows       []T
	outputPath string
	mode       WriteMode
	response   chan error
}

// CSVWriter serialises writes from many goroutines through one worker, so
// rows from concurrent batch workers never interleave.
type CSVWriter[T any] struct {
	queue    chan writeRequest[T]
	shutdown chan struct{}
	wg       sync.WaitGroup
	once     sync.Once

	// paths whose header is already on disk; only the worker touches it
	headerWritten map[string]bool

	mapper MapperFunc[T]
	header HeaderFunc
}

func NewCSVWriter[T any](mapper MapperFunc[T], header HeaderFunc) *CSVWriter[T] {
	cw := &CSVWriter[T]{
		queue:         make(chan writeRequest[T], 100),
		shutdown:      make(chan struct{}),
		headerWritten: make(map[string]bool),
		mapper:        mapper,
		header:        header,
	}
	cw.wg.Add(1)
	go cw.run()
	return cw
}

func (cw *CSVWriter[T]) run() {
	defer cw.wg.Done()
	for {
		select {
		case req := <-cw.queue:
			req.response <- cw.write(req.rows, req.outputPath, req.mode)
		case <-cw.shutdown:
			return
		}
	}
}

// Close stops the worker. Writes after Close return ErrWriterClosed.
func (cw *CSVWriter[T]) Close() {
	cw.once.Do(func() {
		close(cw.shutdown)
		cw.wg.Wait()
	})
}

// WriteToFile appends rows, or replaces the file when overwrite is true.
func (cw *CSVWriter[T]) WriteToFile(ctx context.Context, rows []T, outputPath string, overwrite ...bool) error {
	if len(overwrite) > 0 && overwrite[0] {
		return cw.WriteWithMode(ctx, rows, outputPath, ModeReplace)
	}
	return cw.WriteWithMode(ctx, rows, outputPath, ModeAppend)
}

func (cw *CSVWriter[T]) WriteWithMode(ctx context.Context, rows []T, outputPath string, mode WriteMode) error {
	req := writeRequest[T]{
		rows:       rows,
		outputPath: outputPath,
		mode:       mode,
		response:   make(chan error, 1),
	}

	select {
	case <-cw.shutdown:
		return ErrWriterClosed
	default:
	}

	select {
	case cw.queue <- req:
	case <-cw.shutdown:
		return ErrWriterClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-req.response:
		return err
	case <-cw.shutdown:
		// The worker may have taken the request just before stopping.
		select {
		case err := <-req.response:
			return err
		default:
			return ErrWriterClosed
		}
	}
}

func (cw *CSVWriter[T]) write(rows []T, outputPath string, mode WriteMode) error {
	if len(rows) == 0 && mode == ModeAppend {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	hasHeader := cw.headerWritten[outputPath]
	if mode == ModeAppend && !hasHeader && nonEmptyFile(outputPath) {
		// left over from an earlier run; keep appending under its header
		hasHeader = true
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if mode == ModeReplace {
		flags = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
		hasHeader = false
	}

	file, err := os.OpenFile(outputPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("opening CSV file: %w", err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if !hasHeader && len(rows) > 0 {
		if err := w.Write(cw.header()); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
		hasHeader = true
	}
	for _, row := range rows {
		if err := w.Write(cw.mapper(row)); err != nil {
			return fmt.Errorf("writing CSV record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	cw.headerWritten[outputPath] = hasHeader
	return nil
}

func nonEmptyFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Size() > 0
}
