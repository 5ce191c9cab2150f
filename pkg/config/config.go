// Package config provides configuration loading and validation for the
// oracle aggregator.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

// Load loads configuration from a YAML file, expanding environment variables
// and applying struct-tag defaults for everything left unset.
func Load(path string) (*Config, error) {
	// Validate and sanitize path
	cleanPath := filepath.Clean(path)
	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("invalid config path: %w", err)
	}

	data, err := os.ReadFile(absPath) // #nosec G304 -- Path sanitized with filepath.Clean and filepath.Abs
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in YAML
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}

	return &cfg, nil
}

// Default returns a configuration with every default applied, for running
// without a config file.
func Default() (*Config, error) {
	var cfg Config
	if err := defaults.Set(&cfg); err != nil {
		return nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	return &cfg, nil
}

// NormalizeMode converts mode string to lowercase.
func (c *Config) NormalizeMode() string {
	return strings.ToLower(c.Mode)
}

// IsServerMode returns true if the aggregation server should run.
func (c *Config) IsServerMode() bool {
	mode := c.NormalizeMode()
	return mode == ModeBoth || mode == ModeServer
}

// IsReporterMode returns true if the reporter node should run.
func (c *Config) IsReporterMode() bool {
	mode := c.NormalizeMode()
	return mode == ModeBoth || mode == ModeReporter
}
