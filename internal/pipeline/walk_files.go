package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"docscan/internal/image"
	"docscan/internal/logger"
)

// walkFiles feeds the images directly inside directory to out, in name
// order. Subdirectories and enhancement leftovers are skipped.
func walkFiles(ctx context.Context, directory string, out chan<- string, errChan chan<- error) {
	entries, err := os.ReadDir(directory)
	if err != nil {
		errChan <- fmt.Errorf("reading image directory %s: %w", directory, err)
		return
	}

	images := make([]string, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || isProcessedFile(name) || !image.IsImageFile(name) {
			continue
		}
		images = append(images, filepath.Join(directory, name))
	}
	slices.Sort(images)
	logger.DebugLog("[walkFiles]: %d of %d entries in %s are images", len(images), len(entries), directory)

	for _, path := range images {
		select {
		case out <- path:
		case <-ctx.Done():
			logger.DebugLog("[walkFiles]: stopped before %s: %v", path, ctx.Err())
			return
		}
	}
}

// isProcessedFile skips enhancement leftovers from earlier runs.
func isProcessedFile(filename string) bool {
	return strings.Contains(filename, "_processed")
}
