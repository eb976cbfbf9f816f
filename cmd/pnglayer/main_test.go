package main

import (
	"testing"

	"github.com/pnglayer/pnglayer/internal/config"
)

func TestParseBackground(t *testing.T) {
	tests := []struct {
		in      string
		want    uint16
		wantErr bool
	}{
		{"0x000F", 0x000F, false},
		{"000F", 0x000F, false},
		{"0", 0, false},
		{"FFFF", 0xFFFF, false},
		{"0XF00F", 0xF00F, false},
		{"10000", 0, true}, // does not fit 16 bits
		{"zz", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseBackground(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("parseBackground(%q) expected error, got %#04x", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseBackground(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("parseBackground(%q) = %#04x, want %#04x", tt.in, got, tt.want)
			}
		})
	}
}

func TestApplyFlagsOverridesConfig(t *testing.T) {
	cfg := config.Default()

	cmd := rootCmd
	if err := cmd.Flags().Set("layer", "3"); err != nil {
		t.Fatalf("set layer: %v", err)
	}
	if err := cmd.Flags().Set("background", "0"); err != nil {
		t.Fatalf("set background: %v", err)
	}
	if err := cmd.Flags().Set("non-interactive", "true"); err != nil {
		t.Fatalf("set non-interactive: %v", err)
	}
	// pflag has no way to reset Changed, so later tests see these flags
	// as set; keep their values parseable.
	t.Cleanup(func() {
		opts.layer = 1
		opts.nonInteractive = false
	})

	if err := applyFlags(cfg, cmd); err != nil {
		t.Fatalf("applyFlags: %v", err)
	}
	if cfg.Layer != 3 {
		t.Errorf("layer = %d, want 3", cfg.Layer)
	}
	if cfg.Background != 0 {
		t.Errorf("background = %#04x, want 0 (disabled)", cfg.Background)
	}
	if cfg.Interactive {
		t.Errorf("interactive should be disabled by -n")
	}
}

func TestApplyFlagsRejectsInvalidResult(t *testing.T) {
	cfg := config.Default()

	cmd := rootCmd
	if err := cmd.Flags().Set("layer", "0"); err != nil {
		t.Fatalf("set layer: %v", err)
	}
	t.Cleanup(func() { opts.layer = 1 })

	if err := applyFlags(cfg, cmd); err == nil {
		t.Fatalf("expected validation error for layer 0")
	}
}
