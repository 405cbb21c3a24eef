package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docscan/internal/config"
	"docscan/internal/image"
	"docscan/internal/logger"
	"docscan/internal/ocr/engine"
	"docscan/internal/pipeline"
	"docscan/internal/server"
)

const usage = `usage: docscan <command> [flags]

commands:
  serve   run the HTTP API (default)
  scan    process one image and print the report as JSON
  batch   process a directory of images into a CSV file
`

type CLI struct {
	configFile string
	engines    string

	imagePath string
	imagesDir string
	outputDir string
	workers   int

	stdout io.Writer
}

func NewCLI() *CLI {
	return &CLI{
		imagesDir: "images",
		outputDir: "output",
		stdout:    os.Stdout,
	}
}

func (c *CLI) Run(ctx context.Context, args []string) error {
	cmd := "serve"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("docscan "+cmd, flag.ContinueOnError)
	fs.StringVar(&c.configFile, "config", c.configFile, "YAML config file (overlays environment)")
	fs.StringVar(&c.engines, "engines", c.engines, "Comma separated engines (easyocr, tesseract, paddleocr, ollama)")

	switch cmd {
	case "serve":
	case "scan":
		fs.StringVar(&c.imagePath, "image", c.imagePath, "Image to process")
	case "batch":
		fs.StringVar(&c.imagesDir, "images", c.imagesDir, "Directory containing images to process")
		fs.StringVar(&c.outputDir, "output", c.outputDir, "Output directory for results")
		fs.IntVar(&c.workers, "workers", c.workers, "Concurrent images (0 uses config)")
	case "help":
		fmt.Fprint(c.stdout, usage)
		return nil
	default:
		return fmt.Errorf("unknown command %q\n%s", cmd, usage)
	}

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parsing flags: %w", err)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	p, closeEngines, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer closeEngines()

	switch cmd {
	case "scan":
		return c.scan(ctx, p)
	case "batch":
		return c.batch(ctx, p, cfg)
	default:
		return server.New(p, cfg).ListenAndServe(ctx)
	}
}

func (c *CLI) loadConfig() (config.Config, error) {
	cfg := config.Load()
	if c.configFile != "" {
		var err error
		if cfg, err = config.LoadFile(c.configFile); err != nil {
			return cfg, err
		}
	}
	if c.engines != "" {
		cfg.Engines = splitList(c.engines)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func buildPipeline(cfg config.Config) (*pipeline.Pipeline, func(), error) {
	engines, err := engine.NewAll(cfg.Engines, engine.Config{
		EasyOCRURL:    cfg.EasyOCRURL,
		PaddleOCRURL:  cfg.PaddleOCRURL,
		OllamaURL:     cfg.OllamaURL,
		OllamaModel:   cfg.OllamaModel,
		Languages:     cfg.Languages,
		TesseractLang: cfg.TesseractLang,
		TesseractPSM:  cfg.TesseractPSM,
		HTTPTimeout:   cfg.EngineTimeout,
	})
	if err != nil {
		return nil, nil, err
	}

	store, err := image.NewStore(cfg.UploadDir)
	if err != nil {
		engine.CloseAll(engines)
		return nil, nil, err
	}

	p := pipeline.New(engines, store, pipeline.Options{
		EngineTimeout: cfg.EngineTimeout,
		Parallel:      cfg.ParallelEngines,
		Enhance:       cfg.EnhanceImages,
	})
	return p, func() { engine.CloseAll(engines) }, nil
}

func (c *CLI) scan(ctx context.Context, p *pipeline.Pipeline) error {
	if c.imagePath == "" {
		return errors.New("scan needs -image")
	}
	report, err := p.ProcessFile(ctx, c.imagePath)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func (c *CLI) batch(ctx context.Context, p *pipeline.Pipeline, cfg config.Config) error {
	if err := os.MkdirAll(c.outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	workers := c.workers
	if workers <= 0 {
		workers = cfg.BatchWorkers
	}
	outputFile := filepath.Join(c.outputDir, fmt.Sprintf("%s_extracted_data.csv", strings.Join(p.Engines(), "-")))

	results, failures := pipeline.RunBatch(ctx, p, c.imagesDir, outputFile, workers)
	for path, err := range failures {
		fmt.Fprintf(c.stdout, "Error processing %s: %v\n", path, err)
	}
	for path, rec := range results {
		fmt.Fprintf(c.stdout, "Processed %s: %d engines with text\n", path, len(rec.Report.EnginesWithText()))
	}
	fmt.Fprintf(c.stdout, "\nProcessing complete! Results saved to: %s\n", outputFile)
	fmt.Fprintf(c.stdout, "Processed %d records\n", len(results)+len(failures))
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
