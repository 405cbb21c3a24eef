package image

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"

	"docscan/internal/logger"
)

// Store owns the transient copies of uploaded images. Every saved file gets a
// generated name, so concurrent uploads with the same filename never collide
// and client-supplied names never reach the filesystem.
type Store struct {
	dir string
}

func NewStore(dir string) (*Store, error) {
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "docscan-uploads")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory %s: %w", dir, err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) Dir() string {
	return s.dir
}

// Save writes data to a new file and returns its path with a cleanup func
// that removes it. Cleanup is safe to call more than once.
func (s *Store) Save(data []byte, filename string) (path string, cleanup func(), err error) {
	path = filepath.Join(s.dir, uuid.NewString()+safeExt(filename))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", nil, fmt.Errorf("saving upload: %w", err)
	}
	logger.DebugLog("[image.Save]: stored %d bytes at %s", len(data), path)
	return path, func() { s.Cleanup(path) }, nil
}

// Cleanup removes a transient file. Failures are logged, not returned: the
// report has already been built by the time cleanup runs.
func (s *Store) Cleanup(filePath string) {
	if err := os.Remove(filePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("transient image cleanup failed", "path", filePath, "error", err)
	}
}

// EnhanceQuality writes a preprocessed copy next to path and returns it:
// small images are upscaled, then grayscale, contrast and sharpen.
func (s *Store) EnhanceQuality(path string) (string, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening image %s: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() < 300 || bounds.Dy() < 300 {
		img = imaging.Resize(img, bounds.Dx()*2, bounds.Dy()*2, imaging.Lanczos)
	}

	gray := imaging.Grayscale(img)
	contrast := imaging.AdjustContrast(gray, 10)
	sharp := imaging.Sharpen(contrast, 1.1)

	extension := filepath.Ext(path)
	if _, err := imaging.FormatFromExtension(extension); err != nil {
		extension = ".png"
	}
	processed := strings.TrimSuffix(path, filepath.Ext(path)) + "_processed" + extension
	if err := imaging.Save(sharp, processed); err != nil {
		return "", fmt.Errorf("saving processed image: %w", err)
	}
	return processed, nil
}

var knownExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// safeExt keeps a recognised image extension from the client filename so
// engines that sniff by extension still work. Anything else is dropped.
func safeExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if knownExtensions[ext] {
		return ext
	}
	return ""
}

// IsImageFile reports whether a filename has a supported image extension.
func IsImageFile(filename string) bool {
	return safeExt(filename) != ""
}
