package duorc

// Handle is the dynamic handle: the one meant for production
// use. Every operation reads the target node's is_mutex flag and
// dispatches to the plain-memory protocol or the atomic,
// spin-locked protocol accordingly. The flag only ever moves
// false→true, via MarkShared or the same walk run by Set on a shared
// parent, so once a node is shared every future
// operation on it takes the atomic path permanently.
type Handle struct {
	n *node
}

// Allocate returns a fresh handle over a node with arity field slots,
// count one, all slots nil, solo mode.
func Allocate(arity int) Handle {
	return Handle{n: allocate(arity)}
}

// Clone duplicates the handle, incrementing the node's count on
// whichever protocol the node is currently in.
func (h Handle) Clone() Handle {
	incrementDynamic(h.n)
	return Handle{n: h.n}
}

// Drop releases this handle's reference. The decrement that drives a
// node's count to zero recurses into every field slot, each child
// dispatching independently on its own flag since a solo node may
// hold an already-shared child, then frees the node.
func (h Handle) Drop() {
	dynamicRelease(h.n, 0)
}

// Set replaces slot index's occupant with child (or nil, if ok is
// false), via a four-step algorithm:
//
//  1. If a child is supplied, its count is incremented first, on the
//     child's own protocol, not the parent's, so the child can never
//     be observed at a transient zero.
//  2. If the parent is shared, the incoming subtree is propagated to
//     shared mode (MarkShared's walk) before the parent's lock is
//     taken, then the slot is swapped under that lock.
//  3. If the parent is solo, the slot is swapped with a plain pair.
//  4. The slot's prior occupant, if any, is released afterward.
//
// Set does not consume child: the caller still owns the handle it
// passed in and must Drop it separately if it no longer needs its own
// reference, mirroring how a local variable's own scope exit is a
// distinct event from the field write in the system this is modeled
// on.
func (h Handle) Set(index int, child Handle, ok bool) {
	var incoming *node
	if ok {
		incoming = child.n
		incrementDynamic(incoming)
	}
	var old *node
	if h.n.isMutex.Load() {
		if incoming != nil {
			toMutex(incoming, 0)
		}
		h.n.lock.lock()
		old = h.n.fields[index]
		h.n.fields[index] = incoming
		h.n.lock.unlock()
	} else {
		recordSoloOp()
		old = h.n.fields[index]
		h.n.fields[index] = incoming
	}
	if old != nil {
		dynamicRelease(old, 0)
	}
}

// Get clones slot index's occupant into a new handle. The second
// return value is false if the slot is nil.
func (h Handle) Get(index int) (Handle, bool) {
	var child *node
	if h.n.isMutex.Load() {
		h.n.lock.lock()
		child = h.n.fields[index]
		if child != nil {
			// The propagation invariant guarantees a shared
			// parent's child is already shared too, so no
			// per-child branch is needed here.
			recordAtomicOp()
			child.referenceCount.Add(1)
		}
		h.n.lock.unlock()
	} else {
		recordSoloOp()
		child = h.n.fields[index]
		if child != nil {
			incrementDynamic(child)
		}
	}
	if child == nil {
		return Handle{}, false
	}
	return Handle{n: child}, true
}

// MarkShared promotes this node and every node reachable from it to
// shared mode. Callers publishing a subgraph to a second goroutine
// must call this before the other goroutine can observe the subgraph,
// and must not perform concurrent operations of their own against the
// subgraph while the walk is in flight. MarkShared assumes the
// subgraph is quiescent with respect to its own thread during the
// call. This is a documented precondition on the caller, not a
// runtime check: checking it would require exactly the synchronization
// the dynamic handle exists to avoid.
func (h Handle) MarkShared() {
	toMutex(h.n, 0)
}

func incrementDynamic(n *node) {
	if n.isMutex.Load() {
		recordAtomicOp()
		n.referenceCount.Add(1)
		return
	}
	recordSoloOp()
	n.referenceCount.Store(n.referenceCount.Load() + 1)
}

// dynamicRelease decrements n on its own protocol; on the decrement
// that observes the count reach zero it recurses into every field
// slot, each child dispatching independently on its own flag, then
// deallocates. Below maxRecursionDepth this recurses directly; at or
// beyond it, remaining work drains through an explicit worklist.
func dynamicRelease(n *node, depth int) {
	if !decrementToZero(n) {
		return
	}
	if depth+1 < maxRecursionDepth {
		for _, child := range n.fields {
			if child != nil {
				dynamicRelease(child, depth+1)
			}
		}
		deallocate(n)
		return
	}
	work := []*node{n}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		children := cur.fields
		deallocate(cur)
		for _, child := range children {
			if child != nil && decrementToZero(child) {
				work = append(work, child)
			}
		}
	}
}

// decrementToZero subtracts one from n's count on n's own protocol
// and reports whether that decrement observed the count reach zero.
func decrementToZero(n *node) bool {
	if n.isMutex.Load() {
		recordAtomicOp()
		return n.referenceCount.Add(^uintptr(0)) == 0
	}
	recordSoloOp()
	remaining := n.referenceCount.Load() - 1
	n.referenceCount.Store(remaining)
	return remaining == 0
}

// toMutex is the depth-first propagation walk. A node whose flag is
// already true is pruned immediately (by invariant, everything below
// it is already marked); otherwise the flag is set and the walk
// continues into every non-null field. No locking is taken here: the
// walk only ever reaches nodes no other goroutine can yet observe,
// since publication of the parent hasn't happened yet.
func toMutex(n *node, depth int) {
	recordPropagateVisit()
	if n.isMutex.Load() {
		return
	}
	n.isMutex.Store(true)
	if depth+1 < maxRecursionDepth {
		for _, child := range n.fields {
			if child != nil {
				toMutex(child, depth+1)
			}
		}
		return
	}
	work := make([]*node, 0, len(n.fields))
	for _, child := range n.fields {
		if child != nil {
			work = append(work, child)
		}
	}
	for len(work) > 0 {
		cur := work[len(work)-1]
		work = work[:len(work)-1]
		recordPropagateVisit()
		if cur.isMutex.Load() {
			continue
		}
		cur.isMutex.Store(true)
		for _, child := range cur.fields {
			if child != nil {
				work = append(work, child)
			}
		}
	}
}
