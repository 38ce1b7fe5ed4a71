package duorc

import "sync/atomic"

// spinLock is a two-level test-and-test-and-set lock: a failed
// acquire attempt spins on a plain load instead of retrying the swap,
// so contending goroutines don't keep hammering the same cache line
// with writes while the holder is still inside the critical section.
//
// Guards only O(1) work (a single field-slot swap), so a park-based
// lock would add more overhead than it removes.
type spinLock struct {
	held atomic.Bool
}

func (l *spinLock) lock() {
	for {
		if !l.held.Swap(true) {
			return
		}
		for l.held.Load() {
		}
	}
}

func (l *spinLock) unlock() {
	l.held.Store(false)
}
