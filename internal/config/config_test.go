package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func validConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Port:    8080,
			Address: "0.0.0.0",
			Enabled: true,
		},
		Scorer: ScorerConfig{
			WindowSize: 512,
			HopSize:    256,
		},
		Segmentation: SegmentationConfig{
			Onset:  0.5,
			Offset: 0.5,
		},
		Chunking: ChunkingConfig{
			ChunkSize: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Errorf("valid config failed validation: %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		errPart string
	}{
		{
			name:    "http port zero",
			mutate:  func(c *Config) { c.HTTP.Port = 0 },
			errPart: "port",
		},
		{
			name:    "http address empty",
			mutate:  func(c *Config) { c.HTTP.Address = "" },
			errPart: "address",
		},
		{
			name:    "http disabled skips http checks",
			mutate:  func(c *Config) { c.HTTP = HTTPConfig{Enabled: false} },
			errPart: "",
		},
		{
			name:    "window size too small",
			mutate:  func(c *Config) { c.Scorer.WindowSize = 16 },
			errPart: "window_size",
		},
		{
			name:    "hop size exceeds window",
			mutate:  func(c *Config) { c.Scorer.HopSize = 1024 },
			errPart: "hop_size",
		},
		{
			name:    "onset out of range",
			mutate:  func(c *Config) { c.Segmentation.Onset = 1.5 },
			errPart: "onset",
		},
		{
			name:    "offset negative",
			mutate:  func(c *Config) { c.Segmentation.Offset = -0.1 },
			errPart: "offset",
		},
		{
			name:    "negative min duration on",
			mutate:  func(c *Config) { c.Segmentation.MinDurationOn = -1 },
			errPart: "min_duration_on",
		},
		{
			name: "max duration with padding",
			mutate: func(c *Config) {
				c.Segmentation.MaxDuration = 15
				c.Segmentation.PadOnset = 0.1
			},
			errPart: "max_duration",
		},
		{
			name: "max duration with gap fill",
			mutate: func(c *Config) {
				c.Segmentation.MaxDuration = 15
				c.Segmentation.MinDurationOff = 0.5
			},
			errPart: "max_duration",
		},
		{
			name:    "max duration alone is fine",
			mutate:  func(c *Config) { c.Segmentation.MaxDuration = 15 },
			errPart: "",
		},
		{
			name:    "chunk size zero",
			mutate:  func(c *Config) { c.Chunking.ChunkSize = 0 },
			errPart: "chunk_size",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			errPart: "level",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Logging.Format = "xml" },
			errPart: "format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.errPart == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errPart) {
				t.Errorf("error %q does not mention %q", err.Error(), tt.errPart)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	content := `
http:
  enabled: true
  address: "127.0.0.1"
  port: 9090

scorer:
  window_size: 512
  hop_size: 256

segmentation:
  onset: 0.6
  offset: 0.4
  min_duration_on: 0.25
  min_duration_off: 0.1

chunking:
  chunk_size: 25.0

logging:
  level: debug
  format: json
  output: stderr
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("http port = %d, want 9090", cfg.HTTP.Port)
	}
	if cfg.Segmentation.Onset != 0.6 || cfg.Segmentation.Offset != 0.4 {
		t.Errorf("thresholds = %g/%g, want 0.6/0.4", cfg.Segmentation.Onset, cfg.Segmentation.Offset)
	}
	if cfg.Chunking.ChunkSize != 25 {
		t.Errorf("chunk_size = %g, want 25", cfg.Chunking.ChunkSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("log level = %q, want debug", cfg.Logging.Level)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("http: [not: valid"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid YAML")
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	content := `
http:
  enabled: false

scorer:
  window_size: 512

segmentation:
  onset: 0.5
  max_duration: 10
  pad_onset: 0.2

chunking:
  chunk_size: 30

logging:
  level: info
  format: text
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "max_duration") {
		t.Errorf("error %q does not mention max_duration", err.Error())
	}
}
