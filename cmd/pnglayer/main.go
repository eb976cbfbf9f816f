// Package main provides the pnglayer command: display a PNG full-screen
// on a compositing layer, nudge it interactively, hot-reload it on file
// change or SIGTSTP.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pnglayer/pnglayer/internal/compositor"
	"github.com/pnglayer/pnglayer/internal/config"
	"github.com/pnglayer/pnglayer/internal/keyboard"
	"github.com/pnglayer/pnglayer/internal/runstate"
	"github.com/pnglayer/pnglayer/internal/source"
	"github.com/pnglayer/pnglayer/internal/viewer"
)

// Build-time variables (set via ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var opts struct {
	background     string
	display        int
	layer          int
	xOffset        int
	yOffset        int
	timeoutMs      int
	nonInteractive bool
	monitor        bool

	configPath   string
	logLevel     string
	listDisplays bool
}

var rootCmd = &cobra.Command{
	Use:   "pnglayer [flags] <file.png | ->",
	Short: "Display a PNG image on a compositing layer",
	Long: `pnglayer displays a PNG image full-screen on a dedicated compositing
layer, above or below other content depending on the chosen z-index.

While running, the image can be nudged with the keyboard (w/a/s/d, +/- to
change the step, escape to quit) and reloaded from disk, either on demand
(send SIGTSTP, e.g. "killall -s SIGTSTP pnglayer") or automatically with
-m when the file's modification time changes.

Pass "-" as the path to read the image once from stdin; a stdin source
cannot be reloaded.`,
	Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildTime),
	SilenceUsage: true,
	Args: func(cmd *cobra.Command, args []string) error {
		if opts.listDisplays {
			return cobra.MaximumNArgs(0)(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	RunE: run,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.background, "background", "b", "",
		"16-bit packed background color, e.g. 0x000F is opaque black; 0 disables the background")
	f.IntVarP(&opts.display, "display", "d", 0, "display (output) index")
	f.IntVarP(&opts.layer, "layer", "l", 1, "z-index for the image layer")
	f.IntVarP(&opts.xOffset, "x-offset", "x", 0, "pixels from the left; centered if omitted")
	f.IntVarP(&opts.yOffset, "y-offset", "y", 0, "pixels from the top; centered if omitted")
	f.IntVarP(&opts.timeoutMs, "timeout", "t", 0, "run timeout in ms; 0 runs until signaled")
	f.BoolVarP(&opts.nonInteractive, "non-interactive", "n", false, "disable keyboard control")
	f.BoolVarP(&opts.monitor, "monitor", "m", false, "poll the file for changes and reload")

	f.StringVar(&opts.configPath, "config", "",
		"config file path (default: ~/.config/pnglayer/config.yaml)")
	f.StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")
	f.BoolVar(&opts.listDisplays, "list-displays", false, "list available displays and exit")
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, cmd); err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if opts.listDisplays {
		return listDisplays(cmd)
	}

	src := source.New(args[0])

	img, err := src.Load()
	if err != nil {
		return fmt.Errorf("unable to load %s: %w", src.Path(), err)
	}

	sess, err := compositor.Open(cfg.Display)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			logger.Warn("closing display", "error", err)
		}
	}()

	layer, err := compositor.NewLayer(sess, img, cfg.Layer)
	if err != nil {
		return err
	}
	defer func() {
		if err := layer.Destroy(); err != nil {
			logger.Warn("destroying image layer", "error", err)
		}
	}()

	var background *compositor.Background
	if cfg.Background > 0 {
		background, err = compositor.NewBackground(sess, cfg.Background)
		if err != nil {
			return err
		}
		defer func() {
			if err := background.Destroy(); err != nil {
				logger.Warn("destroying background", "error", err)
			}
		}()
	}

	// Centering is computed once from the initial image size; reloads
	// never reposition the layer, even when dimensions change.
	displayWidth, displayHeight := sess.Geometry()
	imageWidth, imageHeight := layer.Size()
	x, y := opts.xOffset, opts.yOffset
	if !cmd.Flags().Changed("x-offset") {
		x = viewer.DefaultOffset(displayWidth, imageWidth)
	}
	if !cmd.Flags().Changed("y-offset") {
		y = viewer.DefaultOffset(displayHeight, imageHeight)
	}

	// One batch attaches everything: background first so it sits at the
	// bottom of the stack, then the image layer.
	batch := sess.Begin()
	if background != nil {
		background.Attach(batch)
	}
	layer.Attach(batch, x, y)
	if err := sess.Submit(batch); err != nil {
		return err
	}

	logger.Info("displaying image",
		"path", src.Path(),
		"size", fmt.Sprintf("%dx%d", imageWidth, imageHeight),
		"position", fmt.Sprintf("%d,%d", x, y),
		"layer", cfg.Layer)

	state := runstate.New()
	release := state.Notify()
	defer release()

	var keys viewer.KeyPoller
	interactive := cfg.Interactive && !src.IsStdin()
	if interactive {
		kb, err := keyboard.Open(os.Stdin)
		if err != nil {
			logger.Warn("keyboard unavailable, running non-interactive", "error", err)
			interactive = false
		} else {
			defer func() {
				if err := kb.Close(); err != nil {
					logger.Warn("releasing keyboard", "error", err)
				}
			}()
			keys = kb
		}
	}

	var watch viewer.FileWatcher
	monitor := cfg.Monitor && !src.IsStdin()
	if monitor {
		watch = viewer.NewModWatcher(src)
	}

	loop := viewer.New(viewer.Options{
		Tick:          time.Duration(cfg.TickMs) * time.Millisecond,
		WatchInterval: time.Duration(cfg.WatchMs) * time.Millisecond,
		ReloadBackoff: time.Duration(cfg.ReloadBackoffMs) * time.Millisecond,
		Timeout:       time.Duration(cfg.TimeoutMs) * time.Millisecond,
		Interactive:   interactive,
		Monitor:       monitor,
		CanReload:     !src.IsStdin(),
		X:             x,
		Y:             y,
	}, state, &layerScreen{sess: sess, layer: layer, src: src}, keys, watch, logger)

	return loop.Run()
}

// applyFlags layers changed command-line flags over the config file.
func applyFlags(cfg *config.Config, cmd *cobra.Command) error {
	flags := cmd.Flags()

	if flags.Changed("background") {
		bg, err := parseBackground(opts.background)
		if err != nil {
			return err
		}
		cfg.Background = bg
	}
	if flags.Changed("display") {
		cfg.Display = opts.display
	}
	if flags.Changed("layer") {
		cfg.Layer = opts.layer
	}
	if flags.Changed("timeout") {
		cfg.TimeoutMs = opts.timeoutMs
	}
	if opts.nonInteractive {
		cfg.Interactive = false
	}
	if opts.monitor {
		cfg.Monitor = true
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}

	return cfg.Validate()
}

// parseBackground reads a 16-bit packed RGBA hex value, with or without
// a 0x prefix.
func parseBackground(s string) (uint16, error) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	v, err := strconv.ParseUint(trimmed, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid background color %q (expected 16-bit hex like 0x000F): %w", s, err)
	}
	return uint16(v), nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

func listDisplays(cmd *cobra.Command) error {
	outputs, err := compositor.ListOutputs()
	if err != nil {
		return err
	}
	for _, out := range outputs {
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%dx%d+%d+%d\n",
			out.Index, out.Name, out.Width, out.Height, out.X, out.Y)
	}
	return nil
}
