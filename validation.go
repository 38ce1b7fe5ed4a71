package duorc

import "sync/atomic"

// Validation gates the live-object counter and the instrumentation
// counters below. Tests and the benchmark CLI's -validate flag flip
// it; production embeddings are expected to leave it false.
var Validation = false

var liveCount atomic.Int64

// LiveCount returns the number of nodes currently allocated but not
// yet deallocated. Only meaningful while Validation is true; it does
// not change while Validation is false, since recordAlloc/recordFree
// are no-ops then.
func LiveCount() int64 {
	return liveCount.Load()
}

func recordAlloc() {
	if Validation {
		liveCount.Add(1)
	}
}

func recordFree() {
	if Validation {
		liveCount.Add(-1)
	}
}

// stats counts operations on the atomic path and to_mutex node visits,
// per the instrumentation counters scenario 1 and scenario 6 call for.
// It rides the same Validation toggle as the live-object counter.
type stats struct {
	atomicOps      atomic.Uint64
	soloOps        atomic.Uint64
	propagateVisit atomic.Uint64
}

var globalStats stats

func recordAtomicOp() {
	if Validation {
		globalStats.atomicOps.Add(1)
	}
}

func recordSoloOp() {
	if Validation {
		globalStats.soloOps.Add(1)
	}
}

func recordPropagateVisit() {
	if Validation {
		globalStats.propagateVisit.Add(1)
	}
}

// Stats is a snapshot of the instrumentation counters.
type Stats struct {
	AtomicOps      uint64
	SoloOps        uint64
	PropagateVisit uint64
}

// ReadStats returns the current instrumentation snapshot.
func ReadStats() Stats {
	return Stats{
		AtomicOps:      globalStats.atomicOps.Load(),
		SoloOps:        globalStats.soloOps.Load(),
		PropagateVisit: globalStats.propagateVisit.Load(),
	}
}

// ResetStats zeroes the instrumentation counters. Tests call this
// between scenarios so counts aren't cumulative across the suite.
func ResetStats() {
	globalStats.atomicOps.Store(0)
	globalStats.soloOps.Store(0)
	globalStats.propagateVisit.Store(0)
}
