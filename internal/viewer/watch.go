package viewer

import (
	"time"

	"github.com/pnglayer/pnglayer/internal/source"
)

// ModWatcher detects changes to the source file by comparing modification
// timestamps. It is a deliberate polling design; the loop throttles how
// often Check runs, so reload latency is bounded by that interval.
type ModWatcher struct {
	src  *source.Source
	last time.Time
}

// NewModWatcher records the file's current modification time as the
// baseline so the initial load does not count as a change.
func NewModWatcher(src *source.Source) *ModWatcher {
	w := &ModWatcher{src: src}
	if mt, err := src.ModTime(); err == nil {
		w.last = mt
	}
	return w
}

// Check stats the file and reports whether its modification time differs
// from the last observed value. The new value becomes the baseline either
// way. A stat failure reports no change; the next check retries.
func (w *ModWatcher) Check() bool {
	mt, err := w.src.ModTime()
	if err != nil {
		return false
	}
	changed := !mt.Equal(w.last)
	w.last = mt
	return changed
}
