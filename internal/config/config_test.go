package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENGINES", "ENGINE_TIMEOUT", "PARALLEL_ENGINES", "TRUST_PROXY_HEADERS"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "5000" {
		t.Errorf("expected default port 5000, got %s", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.Engines, []string{"easyocr", "tesseract", "paddleocr"}) {
		t.Errorf("unexpected default engines %v", cfg.Engines)
	}
	if cfg.EngineTimeout != 60*time.Second {
		t.Errorf("unexpected default engine timeout %s", cfg.EngineTimeout)
	}
	if !cfg.ParallelEngines {
		t.Errorf("expected parallel engines by default")
	}
	if cfg.TrustProxyHeaders {
		t.Errorf("expected proxy headers to be untrusted by default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	// Arrange
	t.Setenv("PORT", "9090")
	t.Setenv("ENGINES", " tesseract , ollama ,")
	t.Setenv("ENGINE_TIMEOUT", "5s")
	t.Setenv("PARALLEL_ENGINES", "false")
	t.Setenv("MAX_IMAGE_BYTES", "not-a-number")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	// Act
	cfg := Load()

	// Assert
	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.Engines, []string{"tesseract", "ollama"}) {
		t.Errorf("unexpected engines %v", cfg.Engines)
	}
	if cfg.EngineTimeout != 5*time.Second {
		t.Errorf("expected 5s engine timeout, got %s", cfg.EngineTimeout)
	}
	if cfg.ParallelEngines {
		t.Errorf("expected parallel engines disabled")
	}
	if cfg.MaxImageBytes != 20<<20 {
		t.Errorf("invalid value should fall back to default, got %d", cfg.MaxImageBytes)
	}
	if !cfg.TrustProxyHeaders {
		t.Errorf("expected proxy headers to be trusted")
	}
}

func TestLoadFile_OverlaysYAML(t *testing.T) {
	// Arrange
	t.Setenv("PORT", "7000")
	path := filepath.Join(t.TempDir(), "docscan.yaml")
	content := `
engines: [paddleocr, easyocr]
engine_timeout: 15s
enhance_images: true
paddleocr_url: http://paddle:9000/ocr
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	// Act
	cfg, err := LoadFile(path)

	// Assert
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Port != "7000" {
		t.Errorf("env value should survive when missing from file, got %s", cfg.Port)
	}
	if !reflect.DeepEqual(cfg.Engines, []string{"paddleocr", "easyocr"}) {
		t.Errorf("unexpected engines %v", cfg.Engines)
	}
	if cfg.EngineTimeout != 15*time.Second {
		t.Errorf("expected 15s, got %s", cfg.EngineTimeout)
	}
	if !cfg.EnhanceImages || cfg.PaddleOCRURL != "http://paddle:9000/ocr" {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestLoadFile_Errors(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Errorf("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	_ = os.WriteFile(bad, []byte("engines: [unclosed"), 0o644)
	if _, err := LoadFile(bad); err == nil {
		t.Errorf("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	base := Load()

	testCases := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "no engines", mutate: func(c *Config) { c.Engines = nil }, wantErr: "at least one engine"},
		{name: "unknown engine", mutate: func(c *Config) { c.Engines = []string{"abbyy"} }, wantErr: "unknown engine"},
		{name: "duplicate engine", mutate: func(c *Config) { c.Engines = []string{"easyocr", "EasyOCR"} }, wantErr: "listed twice"},
		{name: "bad psm", mutate: func(c *Config) { c.TesseractPSM = 42 }, wantErr: "tesseract_psm"},
		{name: "zero concurrency", mutate: func(c *Config) { c.MaxConcurrentRequests = 0 }, wantErr: "max_concurrent_requests"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := base
			cfg.Engines = append([]string(nil), base.Engines...)
			tc.mutate(&cfg)

			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}
