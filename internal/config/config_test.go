package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestDefaultValues(t *testing.T) {
	cfg := Default()
	assert.Equal(t, uint16(0x000F), cfg.Background)
	assert.Equal(t, 0, cfg.Display)
	assert.Equal(t, 1, cfg.Layer)
	assert.True(t, cfg.Interactive)
	assert.False(t, cfg.Monitor)
	assert.Equal(t, 10, cfg.TickMs)
	assert.Equal(t, 1000, cfg.WatchMs)
	assert.Equal(t, 200, cfg.ReloadBackoffMs)
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "# empty\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, "layer: 5\nmonitor: true\ntick_ms: 20\nlog_level: debug\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.Layer)
	assert.True(t, cfg.Monitor)
	assert.Equal(t, 20, cfg.TickMs)
	assert.Equal(t, "debug", cfg.LogLevel)
	// Untouched keys keep their defaults.
	assert.Equal(t, uint16(0x000F), cfg.Background)
	assert.True(t, cfg.Interactive)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, "laver: 5\n")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadMissingExplicitPathFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero layer", func(c *Config) { c.Layer = 0 }},
		{"negative layer", func(c *Config) { c.Layer = -1 }},
		{"zero tick", func(c *Config) { c.TickMs = 0 }},
		{"zero watch", func(c *Config) { c.WatchMs = 0 }},
		{"zero backoff", func(c *Config) { c.ReloadBackoffMs = 0 }},
		{"negative timeout", func(c *Config) { c.TimeoutMs = -1 }},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
