package shutdown

import "sync/atomic"

// Latch is a one way continue -> terminate flag. It is safe to share between
// a single writer goroutine and any number of readers and is never reset.
type Latch struct {
	terminate atomic.Bool
}

// Trigger sets the latch and reports whether this call performed the
// transition. Repeated calls are no-ops.
func (l *Latch) Trigger() bool {
	return l.terminate.CompareAndSwap(false, true)
}

func (l *Latch) Triggered() bool {
	return l.terminate.Load()
}
