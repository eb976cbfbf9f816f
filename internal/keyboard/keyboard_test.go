package keyboard

import (
	"strings"
	"testing"
	"time"
)

func TestReadKeysDeliversBytesInOrder(t *testing.T) {
	k := Keyboard{keys: readKeys(strings.NewReader("ad+"))}

	var got []byte
	deadline := time.Now().Add(2 * time.Second)
	for len(got) < 3 && time.Now().Before(deadline) {
		if b, ok := k.Poll(); ok {
			got = append(got, b)
		} else {
			time.Sleep(time.Millisecond)
		}
	}

	if string(got) != "ad+" {
		t.Fatalf("got %q, want %q", got, "ad+")
	}
}

func TestPollNeverBlocksWhenEmpty(t *testing.T) {
	k := Keyboard{keys: make(chan byte, 1)}
	if b, ok := k.Poll(); ok {
		t.Fatalf("expected no key, got %q", b)
	}
}

func TestPollAfterReaderClosed(t *testing.T) {
	keys := readKeys(strings.NewReader("x"))
	k := Keyboard{keys: keys}

	// Drain the single key, then the closed channel must report no key
	// without blocking forever.
	deadline := time.Now().Add(2 * time.Second)
	seen := false
	for time.Now().Before(deadline) {
		b, ok := k.Poll()
		if ok && b == 'x' {
			seen = true
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !seen {
		t.Fatalf("never saw the queued key")
	}
}

func TestCloseWithoutRawStateIsNoop(t *testing.T) {
	k := &Keyboard{}
	if err := k.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}
