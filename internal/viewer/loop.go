// Package viewer runs the single-threaded tick loop that merges signals,
// keyboard input and file modification checks into serialized layer
// updates.
package viewer

import (
	"log/slog"
	"time"

	"github.com/pnglayer/pnglayer/internal/runstate"
)

// Loop timing defaults. These are configuration, not magic numbers: the
// config file can override all three.
const (
	DefaultTick          = 10 * time.Millisecond
	DefaultWatchInterval = 1000 * time.Millisecond
	DefaultReloadBackoff = 200 * time.Millisecond
)

const keyEscape byte = 0x1b

// Screen is the loop's view of the displayed image layer. Move submits
// one position batch; Reload decodes the source fresh and swaps the
// layer's pixels in place.
type Screen interface {
	Move(x, y int) error
	Reload() error
}

// KeyPoller yields at most one pending keystroke per call, never blocking.
type KeyPoller interface {
	Poll() (byte, bool)
}

// FileWatcher reports whether the source file changed since last asked.
type FileWatcher interface {
	Check() bool
}

// Options fixes the loop's cadence and feature switches.
type Options struct {
	Tick          time.Duration // tick cadence; DefaultTick if zero
	WatchInterval time.Duration // min elapsed time between file checks
	ReloadBackoff time.Duration // sleep after a failed reload decode
	Timeout       time.Duration // overall run timeout; 0 = disabled

	Interactive bool // poll the keyboard each tick
	Monitor     bool // poll the file watcher
	CanReload   bool // false for a stdin source: reload requests are ignored

	X, Y int // starting offset of the image layer
}

// Loop is the control core. One logical thread: every event source is
// polled inside the tick, and the only blocking operation it performs is
// batch submission inside Screen calls.
type Loop struct {
	opts   Options
	state  *runstate.State
	screen Screen
	keys   KeyPoller
	watch  FileWatcher
	log    *slog.Logger

	x, y, step int

	// sleep is swapped out by tests to run the loop at full speed.
	sleep func(time.Duration)
}

// New assembles a loop. keys and watch may be nil when the matching mode
// is disabled.
func New(opts Options, state *runstate.State, screen Screen, keys KeyPoller, watch FileWatcher, log *slog.Logger) *Loop {
	if opts.Tick <= 0 {
		opts.Tick = DefaultTick
	}
	if opts.WatchInterval <= 0 {
		opts.WatchInterval = DefaultWatchInterval
	}
	if opts.ReloadBackoff <= 0 {
		opts.ReloadBackoff = DefaultReloadBackoff
	}
	if log == nil {
		log = slog.Default()
	}
	return &Loop{
		opts:   opts,
		state:  state,
		screen: screen,
		keys:   keys,
		watch:  watch,
		log:    log,
		x:      opts.X,
		y:      opts.Y,
		step:   stepSequence[0],
		sleep:  time.Sleep,
	}
}

// Position returns the image layer's current offset.
func (l *Loop) Position() (x, y int) {
	return l.x, l.y
}

// Step returns the current nudge distance.
func (l *Loop) Step() int {
	return l.step
}

// Run ticks until the state stops. Elapsed time accumulates in whole
// ticks, so a 50 ms timeout is exactly five ticks regardless of how long
// the work inside each tick took. Returns the first compositor error, or
// nil on a graceful stop.
func (l *Loop) Run() error {
	var elapsed, lastCheck time.Duration

	for l.state.Running() {
		// File-watch check, throttled by elapsed run time.
		if l.opts.Monitor && l.watch != nil && elapsed-lastCheck >= l.opts.WatchInterval {
			lastCheck = elapsed
			if l.watch.Check() {
				l.state.RequestReload()
			}
		}

		// Reload handling. A failed decode leaves the flag set so the
		// next tick retries; the backoff keeps us from tight-looping on
		// a partially written file.
		if l.state.ReloadRequested() {
			if !l.opts.CanReload {
				l.state.ClearReload()
			} else if err := l.screen.Reload(); err != nil {
				l.log.Warn("reload failed, retrying", "error", err)
				l.sleep(l.opts.ReloadBackoff)
			} else {
				l.log.Debug("image reloaded")
				l.state.ClearReload()
			}
		}

		// Interactive input: at most one keystroke per tick.
		if l.opts.Interactive && l.keys != nil {
			if key, ok := l.keys.Poll(); ok {
				if err := l.handleKey(key); err != nil {
					return err
				}
			}
		}

		l.sleep(l.opts.Tick)
		elapsed += l.opts.Tick
		if l.opts.Timeout > 0 && elapsed >= l.opts.Timeout {
			l.state.Stop()
		}
	}

	return nil
}

// handleKey applies one keystroke. An offset change submits exactly one
// move batch before the tick ends.
func (l *Loop) handleKey(key byte) error {
	if key >= 'A' && key <= 'Z' {
		key += 'a' - 'A'
	}

	moved := false
	switch key {
	case keyEscape:
		l.state.Stop()
	case 'a':
		l.x -= l.step
		moved = true
	case 'd':
		l.x += l.step
		moved = true
	case 'w':
		l.y -= l.step
		moved = true
	case 's':
		l.y += l.step
		moved = true
	case '+':
		l.step = stepUp(l.step)
	case '-':
		l.step = stepDown(l.step)
	}

	if moved {
		return l.screen.Move(l.x, l.y)
	}
	return nil
}
