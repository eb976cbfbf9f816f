// Package config loads pnglayer's optional YAML configuration file.
// Precedence: built-in defaults < config file < command-line flags; the
// flag layer is applied by the command, not here.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds the tunable defaults. All durations are milliseconds, the
// same unit the command line uses.
type Config struct {
	// Background is the 16-bit packed RGBA background color. 0 disables
	// the background panel entirely.
	Background uint16 `yaml:"background"`

	// Display is the RandR output index.
	Display int `yaml:"display"`

	// Layer is the z-index of the image layer. Must be > 0; z 0 is
	// reserved for the background panel.
	Layer int `yaml:"layer"`

	// TimeoutMs is the overall run timeout; 0 runs until signaled.
	TimeoutMs int `yaml:"timeout_ms"`

	Interactive bool `yaml:"interactive"`
	Monitor     bool `yaml:"monitor"`

	// Loop timing. Overriding these changes the tick cadence, the file
	// watch throttle and the reload retry backoff.
	TickMs          int `yaml:"tick_ms"`
	WatchMs         int `yaml:"watch_ms"`
	ReloadBackoffMs int `yaml:"reload_backoff_ms"`

	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration: opaque black background,
// first output, image layer at z 1, interactive on, monitor off.
func Default() *Config {
	return &Config{
		Background:      0x000F,
		Display:         0,
		Layer:           1,
		TimeoutMs:       0,
		Interactive:     true,
		Monitor:         false,
		TickMs:          10,
		WatchMs:         1000,
		ReloadBackoffMs: 200,
		LogLevel:        "info",
	}
}

// DefaultPath returns ~/.config/pnglayer/config.yaml.
func DefaultPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pnglayer", "config.yaml"), nil
}

// Load reads the config file at path, layered over the defaults. A
// missing file is only an error when the path was given explicitly;
// unknown keys always are. An empty path loads from the default location.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// An empty file decodes to EOF; treat it as all-defaults.
		if errors.Is(err, io.EOF) {
			return cfg, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the viewer cannot run with.
func (c *Config) Validate() error {
	if c.Layer <= 0 {
		return fmt.Errorf("layer must be > 0 (z 0 is reserved for the background), got %d", c.Layer)
	}
	if c.TickMs <= 0 {
		return fmt.Errorf("tick_ms must be > 0, got %d", c.TickMs)
	}
	if c.WatchMs <= 0 {
		return fmt.Errorf("watch_ms must be > 0, got %d", c.WatchMs)
	}
	if c.ReloadBackoffMs <= 0 {
		return fmt.Errorf("reload_backoff_ms must be > 0, got %d", c.ReloadBackoffMs)
	}
	if c.TimeoutMs < 0 {
		return fmt.Errorf("timeout_ms must be >= 0, got %d", c.TimeoutMs)
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be one of debug|info|warn|error, got %q", c.LogLevel)
	}
	return nil
}
