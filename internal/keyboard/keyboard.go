// Package keyboard provides non-blocking single-key input from a
// terminal placed in raw mode.
package keyboard

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// Keyboard reads single keystrokes from a raw-mode terminal. A reader
// goroutine feeds a buffered channel so the viewer loop can poll without
// blocking.
type Keyboard struct {
	f       *os.File
	restore *term.State
	keys    chan byte
}

// Open puts f into raw mode and starts the key reader. Fails if f is not
// a terminal (for example when the image itself was piped in on stdin).
func Open(f *os.File) (*Keyboard, error) {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return nil, fmt.Errorf("%s is not a terminal", f.Name())
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return nil, fmt.Errorf("set raw mode: %w", err)
	}

	k := &Keyboard{f: f, restore: oldState}
	k.keys = readKeys(f)
	return k, nil
}

// Poll returns one pending keystroke, if any. Never blocks.
func (k *Keyboard) Poll() (byte, bool) {
	select {
	case b, ok := <-k.keys:
		return b, ok
	default:
		return 0, false
	}
}

// Close restores the terminal state. The reader goroutine exits on its
// next read error once the process tears the fd down; it only ever
// touches the channel.
func (k *Keyboard) Close() error {
	if k.restore == nil {
		return nil
	}
	err := term.Restore(int(k.f.Fd()), k.restore)
	k.restore = nil
	if err != nil {
		return fmt.Errorf("restore terminal: %w", err)
	}
	return nil
}

// readKeys pumps single bytes from r into a buffered channel until the
// reader fails. Split out so the poll path is testable without a pty.
func readKeys(r io.Reader) chan byte {
	keys := make(chan byte, 16)
	go func() {
		defer close(keys)
		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				keys <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()
	return keys
}
