// Package runstate holds the process-wide flags shared between the
// signal handler and the viewer loop.
package runstate

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// State carries the two flags the loop reads once per tick. Each flag has
// a single asynchronous writer; a write during a tick is observed by the
// start of the next tick.
type State struct {
	running atomic.Bool
	reload  atomic.Bool
}

// New returns a State in the running state with no reload pending.
func New() *State {
	s := &State{}
	s.running.Store(true)
	return s
}

// Running reports whether the loop should keep ticking.
func (s *State) Running() bool {
	return s.running.Load()
}

// Stop requests a graceful shutdown. Takes effect at the top of the
// next tick.
func (s *State) Stop() {
	s.running.Store(false)
}

// ReloadRequested reports whether a reload is pending.
func (s *State) ReloadRequested() bool {
	return s.reload.Load()
}

// RequestReload marks a reload as pending. Set by the signal handler and
// by the file watcher; cleared by the loop once the reload succeeds or is
// ignored.
func (s *State) RequestReload() {
	s.reload.Store(true)
}

// ClearReload clears a pending reload request.
func (s *State) ClearReload() {
	s.reload.Store(false)
}

// Notify installs the signal handlers: SIGINT and SIGTERM request shutdown,
// SIGTSTP requests a reload from disk. Catching SIGTSTP also keeps the
// process from being suspended, which is what we want for a display utility
// that uses it as a refresh trigger. The returned function removes the
// handlers and stops the goroutine.
func (s *State) Notify() func() {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM, syscall.SIGTSTP)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case sig := <-ch:
				switch sig {
				case syscall.SIGTSTP:
					s.RequestReload()
				case syscall.SIGINT, syscall.SIGTERM:
					s.Stop()
				}
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
