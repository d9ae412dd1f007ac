// Package config provides configuration loading and validation for the
// VAD segmentation service. It handles YAML-based configuration with
// per-section struct validation.
package config
