package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var knownEngines = map[string]bool{"easyocr": true, "tesseract": true, "paddleocr": true, "ollama": true}

type Config struct {
	// Server
	Port string `yaml:"port"`

	// Logging
	LogLevel string `yaml:"log_level"`
	LogJSON  bool   `yaml:"log_json"`

	// Storage
	UploadDir     string `yaml:"upload_dir"`
	MaxImageBytes int64  `yaml:"max_image_bytes"`

	// Engines, in report order
	Engines       []string      `yaml:"engines"`
	Languages     []string      `yaml:"languages"`
	EasyOCRURL    string        `yaml:"easyocr_url"`
	PaddleOCRURL  string        `yaml:"paddleocr_url"`
	OllamaURL     string        `yaml:"ollama_url"`
	OllamaModel   string        `yaml:"ollama_model"`
	TesseractLang string        `yaml:"tesseract_lang"`
	TesseractPSM  int           `yaml:"tesseract_psm"`
	EngineTimeout time.Duration `yaml:"engine_timeout"`

	// Pipeline
	ParallelEngines bool `yaml:"parallel_engines"`
	EnhanceImages   bool `yaml:"enhance_images"`
	BatchWorkers    int  `yaml:"batch_workers"`

	// Concurrency
	MaxConcurrentRequests int64 `yaml:"max_concurrent_requests"`

	// Server timeouts
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	ProcessTimeout    time.Duration `yaml:"process_timeout"`

	// rate limiting (per IP)
	RateLimitEvery time.Duration `yaml:"rate_limit_every"`
	RateLimitBurst int           `yaml:"rate_limit_burst"`

	// TrustProxyHeaders keys the rate limit on X-Forwarded-For/X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers"`
}

func Load() Config {
	return Config{
		Port: envStr("PORT", "5000"),

		LogLevel: envStr("LOG_LEVEL", "info"),
		LogJSON:  envBool("LOG_JSON", false),

		UploadDir:     envStr("UPLOAD_DIR", ""),
		MaxImageBytes: int64(envInt("MAX_IMAGE_BYTES", 20<<20)),

		Engines:       envList("ENGINES", []string{"easyocr", "tesseract", "paddleocr"}),
		Languages:     envList("OCR_LANGUAGES", []string{"en"}),
		EasyOCRURL:    envStr("EASYOCR_URL", "http://localhost:8501/readtext"),
		PaddleOCRURL:  envStr("PADDLEOCR_URL", "http://localhost:8502/ocr"),
		OllamaURL:     envStr("OLLAMA_URL", "http://localhost:11434"),
		OllamaModel:   envStr("OLLAMA_MODEL", "llama3.2-vision"),
		TesseractLang: envStr("TESSERACT_LANG", "eng"),
		TesseractPSM:  envInt("TESSERACT_PSM", 3),
		EngineTimeout: envDur("ENGINE_TIMEOUT", 60*time.Second),

		ParallelEngines: envBool("PARALLEL_ENGINES", true),
		EnhanceImages:   envBool("ENHANCE_IMAGES", false),
		BatchWorkers:    envInt("BATCH_WORKERS", 2),

		MaxConcurrentRequests: int64(envInt("MAX_CONCURRENT_REQUESTS", 8)),

		ReadHeaderTimeout: envDur("READ_HEADER_TIMEOUT", 10*time.Second),
		ReadTimeout:       envDur("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:      envDur("WRITE_TIMEOUT", 300*time.Second),
		IdleTimeout:       envDur("IDLE_TIMEOUT", 60*time.Second),
		ProcessTimeout:    envDur("PROCESS_TIMEOUT", 240*time.Second),

		RateLimitEvery: envDur("RATE_LIMIT_EVERY", 600*time.Millisecond),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 20),

		TrustProxyHeaders: envBool("TRUST_PROXY_HEADERS", false),
	}
}

// LoadFile overlays a YAML file on top of the environment configuration.
// Keys missing from the file keep their environment/default value.
func LoadFile(path string) (Config, error) {
	cfg := Load()
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.Engines) == 0 {
		return fmt.Errorf("at least one engine must be configured")
	}
	seen := make(map[string]bool, len(c.Engines))
	for _, e := range c.Engines {
		name := strings.ToLower(strings.TrimSpace(e))
		if !knownEngines[name] {
			return fmt.Errorf("unknown engine %q", e)
		}
		if seen[name] {
			return fmt.Errorf("engine %q listed twice", e)
		}
		seen[name] = true
	}
	if c.MaxImageBytes <= 0 {
		return fmt.Errorf("max_image_bytes must be > 0")
	}
	if c.MaxConcurrentRequests <= 0 {
		return fmt.Errorf("max_concurrent_requests must be > 0")
	}
	if c.TesseractPSM < 0 || c.TesseractPSM > 13 {
		return fmt.Errorf("tesseract_psm must be between 0 and 13")
	}
	return nil
}

func envStr(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func envBool(key string, fallback bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func envDur(key string, fallback time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

// envList reads a comma separated list.
func envList(key string, fallback []string) []string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
