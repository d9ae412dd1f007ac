package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration
type Config struct {
	HTTP         HTTPConfig         `yaml:"http"`
	Scorer       ScorerConfig       `yaml:"scorer"`
	Segmentation SegmentationConfig `yaml:"segmentation"`
	Chunking     ChunkingConfig     `yaml:"chunking"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// HTTPConfig contains HTTP API server configuration
type HTTPConfig struct {
	Port    int    `yaml:"port"`
	Address string `yaml:"address"`
	Enabled bool   `yaml:"enabled"`
}

// ScorerConfig contains the built-in energy scorer configuration
type ScorerConfig struct {
	WindowSize int `yaml:"window_size"` // samples per frame
	HopSize    int `yaml:"hop_size"`    // samples between frames, 0 = window/2
}

// SegmentationConfig contains hysteresis binarization parameters.
// All durations are seconds.
type SegmentationConfig struct {
	Onset          float64 `yaml:"onset"`
	Offset         float64 `yaml:"offset"`
	MinDurationOn  float64 `yaml:"min_duration_on"`
	MinDurationOff float64 `yaml:"min_duration_off"`
	PadOnset       float64 `yaml:"pad_onset"`
	PadOffset      float64 `yaml:"pad_offset"`
	MaxDuration    float64 `yaml:"max_duration"` // 0 = unlimited
}

// ChunkingConfig contains chunk packing parameters
type ChunkingConfig struct {
	ChunkSize float64 `yaml:"chunk_size"` // seconds
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate performs comprehensive validation of the configuration
func (c *Config) Validate() error {
	if err := c.HTTP.Validate(); err != nil {
		return fmt.Errorf("http config: %w", err)
	}

	if err := c.Scorer.Validate(); err != nil {
		return fmt.Errorf("scorer config: %w", err)
	}

	if err := c.Segmentation.Validate(); err != nil {
		return fmt.Errorf("segmentation config: %w", err)
	}

	if err := c.Chunking.Validate(); err != nil {
		return fmt.Errorf("chunking config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates HTTP configuration
func (h *HTTPConfig) Validate() error {
	if h.Enabled {
		if h.Port < 1 || h.Port > 65535 {
			return fmt.Errorf("port must be between 1 and 65535, got %d", h.Port)
		}

		if h.Address == "" {
			return fmt.Errorf("address cannot be empty when HTTP is enabled")
		}
	}

	return nil
}

// Validate validates scorer configuration
func (s *ScorerConfig) Validate() error {
	if s.WindowSize < 256 || s.WindowSize > 8192 {
		return fmt.Errorf("window_size must be between 256 and 8192 samples, got %d", s.WindowSize)
	}

	if s.HopSize < 0 {
		return fmt.Errorf("hop_size cannot be negative, got %d", s.HopSize)
	}

	if s.HopSize > s.WindowSize {
		return fmt.Errorf("hop_size (%d) cannot exceed window_size (%d)", s.HopSize, s.WindowSize)
	}

	return nil
}

// Validate validates segmentation configuration
func (s *SegmentationConfig) Validate() error {
	if s.Onset < 0 || s.Onset > 1 {
		return fmt.Errorf("onset must be between 0 and 1, got %f", s.Onset)
	}

	if s.Offset < 0 || s.Offset > 1 {
		return fmt.Errorf("offset must be between 0 and 1, got %f", s.Offset)
	}

	if s.MinDurationOn < 0 {
		return fmt.Errorf("min_duration_on cannot be negative, got %f", s.MinDurationOn)
	}

	if s.MinDurationOff < 0 {
		return fmt.Errorf("min_duration_off cannot be negative, got %f", s.MinDurationOff)
	}

	if s.MaxDuration < 0 {
		return fmt.Errorf("max_duration cannot be negative, got %f", s.MaxDuration)
	}

	// A finite max duration splits runs that a later support merge would
	// rejoin, so the two cannot be combined.
	if s.MaxDuration > 0 && (s.PadOnset > 0 || s.PadOffset > 0 || s.MinDurationOff > 0) {
		return fmt.Errorf("max_duration (%f) cannot be combined with pad_onset, pad_offset or min_duration_off",
			s.MaxDuration)
	}

	return nil
}

// Validate validates chunking configuration
func (c *ChunkingConfig) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %f", c.ChunkSize)
	}

	return nil
}

// Validate validates logging configuration
func (l *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[l.Level] {
		return fmt.Errorf("level must be one of [debug, info, warn, error], got '%s'", l.Level)
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("format must be 'json' or 'text', got '%s'", l.Format)
	}

	return nil
}
