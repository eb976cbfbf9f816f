package compositor

import "fmt"

// Batch collects layer add/move/remove operations so they are issued to
// the server as one unit. It is created by Session.Begin, populated by
// the layer methods, and handed back to Session.Submit exactly once.
type Batch struct {
	ops       []func() error
	submitted bool
}

func (b *Batch) add(op func() error) {
	b.ops = append(b.ops, op)
}

// Len returns the number of queued operations.
func (b *Batch) Len() int {
	return len(b.ops)
}

// flush runs the queued operations in insertion order. A batch flushes
// exactly once; a second attempt is a programming error.
func (b *Batch) flush() error {
	if b.submitted {
		return fmt.Errorf("%w: batch already submitted", ErrCompositor)
	}
	b.submitted = true
	for _, op := range b.ops {
		if err := op(); err != nil {
			return err
		}
	}
	return nil
}
