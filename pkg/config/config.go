// Package config handles configuration for uidriver.
package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the workspace configuration (config.yaml).
type Config struct {
	// Engine settings
	Driver         string `yaml:"driver"`         // Platform adapter name (windows, darwin, linux, mock)
	DefaultTimeout int    `yaml:"timeoutMs"`      // Default resolution timeout in milliseconds
	PollInterval   int    `yaml:"pollIntervalMs"` // Delay between resolution attempts in milliseconds
	MaxDepth       int    `yaml:"maxDepth"`       // Tree traversal depth bound, 0 = unbounded

	// Mock driver settings
	TreeFixture string `yaml:"treeFixture"` // YAML tree file for the mock driver

	// Highlight defaults
	Highlight HighlightConfig `yaml:"highlight"`

	// Logging
	LogFile string `yaml:"logFile"` // Log file path, empty = <home>/logs/uidriver.log
}

// HighlightConfig holds default overlay appearance.
type HighlightConfig struct {
	Color        uint32 `yaml:"color"`      // BGR color value
	Duration     int    `yaml:"durationMs"` // Overlay lifetime in milliseconds
	TextPosition string `yaml:"textPosition"`
	FontStyle    string `yaml:"fontStyle"`
}

// Timeout returns the configured default timeout as a duration, or
// zero when unset.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.DefaultTimeout) * time.Millisecond
}

// Poll returns the configured poll interval as a duration, or zero
// when unset.
func (c *Config) Poll() time.Duration {
	return time.Duration(c.PollInterval) * time.Millisecond
}

// Load loads configuration from a file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromDir looks for config.yaml or config.yml in the directory.
func LoadFromDir(dir string) (*Config, error) {
	// Try config.yaml first
	configPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// Try config.yml
	configPath = filepath.Join(dir, "config.yml")
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	}

	// No config file found, return empty config
	return &Config{}, nil
}
