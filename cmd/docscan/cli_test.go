package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRun_Commands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
		wantOut string
	}{
		{name: "help", args: []string{"help"}, wantOut: "usage: docscan"},
		{name: "unknown command", args: []string{"frobnicate"}, wantErr: `unknown command "frobnicate"`},
		{name: "bad flag", args: []string{"scan", "-nope"}, wantErr: "parsing flags"},
		{name: "unknown engine", args: []string{"scan", "-engines", "abbyy", "-image", "x.png"}, wantErr: "unknown engine"},
		{name: "scan without image", args: []string{"scan", "-engines", "easyocr"}, wantErr: "scan needs -image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var out bytes.Buffer
			cli := NewCLI()
			cli.stdout = &out

			// Act
			err := cli.Run(context.Background(), tt.args)

			// Assert
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("Run() error = %v, want containing %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("output = %q, want containing %q", out.String(), tt.wantOut)
			}
		})
	}
}

func TestLoadConfig_EnginesFlagOverridesFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "docscan.yaml")
	if err := os.WriteFile(path, []byte("engines: [tesseract]\nport: \"9000\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cli := NewCLI()
	cli.configFile = path
	cli.engines = "paddleocr, easyocr"

	// Act
	cfg, err := cli.loadConfig()

	// Assert
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if want := []string{"paddleocr", "easyocr"}; !reflect.DeepEqual(cfg.Engines, want) {
		t.Errorf("Engines = %v, want %v", cfg.Engines, want)
	}
	if cfg.Port != "9000" {
		t.Errorf("Port = %q, want 9000", cfg.Port)
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" easyocr, ,tesseract ,")
	if want := []string{"easyocr", "tesseract"}; !reflect.DeepEqual(got, want) {
		t.Errorf("splitList() = %v, want %v", got, want)
	}
}
