package runstate

import (
	"syscall"
	"testing"
	"time"
)

func TestNewStateDefaults(t *testing.T) {
	s := New()
	if !s.Running() {
		t.Fatalf("expected new state to be running")
	}
	if s.ReloadRequested() {
		t.Fatalf("expected no reload pending on new state")
	}
}

func TestStopAndReloadFlags(t *testing.T) {
	s := New()

	s.RequestReload()
	if !s.ReloadRequested() {
		t.Fatalf("expected reload pending after RequestReload")
	}
	s.ClearReload()
	if s.ReloadRequested() {
		t.Fatalf("expected reload cleared after ClearReload")
	}

	s.Stop()
	if s.Running() {
		t.Fatalf("expected state stopped after Stop")
	}
}

func TestNotifySignals(t *testing.T) {
	s := New()
	release := s.Notify()
	defer release()

	pid := syscall.Getpid()

	if err := syscall.Kill(pid, syscall.SIGTSTP); err != nil {
		t.Fatalf("kill SIGTSTP: %v", err)
	}
	waitFor(t, s.ReloadRequested, "reload flag after SIGTSTP")

	if err := syscall.Kill(pid, syscall.SIGTERM); err != nil {
		t.Fatalf("kill SIGTERM: %v", err)
	}
	waitFor(t, func() bool { return !s.Running() }, "stop flag after SIGTERM")
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
