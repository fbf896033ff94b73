package attach

import "sync/atomic"

// Ledger tracks process-wide attachment counts for the ceiling check and
// diagnostics. The current count moves with owned attach/detach; the peak is
// monotonic and updated lock-free.
type Ledger struct {
	current atomic.Int32
	peak    atomic.Int32
}

// Inc records an owned attach and returns the new current count.
func (l *Ledger) Inc() int32 {
	n := l.current.Add(1)

	// Compare-and-retry keeps the peak monotonic without a lock.
	for {
		p := l.peak.Load()
		if n <= p || l.peak.CompareAndSwap(p, n) {
			break
		}
	}

	return n
}

// Dec records an owned detach and returns the new current count.
func (l *Ledger) Dec() int32 {
	return l.current.Add(-1)
}

// Current returns the number of currently attached threads.
func (l *Ledger) Current() int32 {
	return l.current.Load()
}

// Peak returns the highest concurrent attachment count ever observed.
func (l *Ledger) Peak() int32 {
	return l.peak.Load()
}
