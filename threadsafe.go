package duorc

// ThreadSafeHandle is the shared-only handle: every count
// manipulation is atomic and every field read/write is serialized by
// the node's spin-lock. Safe to copy, drop, and mutate fields of
// concurrently from any number of goroutines.
type ThreadSafeHandle struct {
	n *node
}

// AllocateThreadSafe returns a fresh handle over a node with arity
// field slots, count one, all slots nil.
func AllocateThreadSafe(arity int) ThreadSafeHandle {
	recordAtomicOp()
	return ThreadSafeHandle{n: allocate(arity)}
}

// Clone duplicates the handle with a relaxed fetch-add. The calling
// goroutine already holds a live reference, so this can never race the
// decrement that drives the count to zero.
func (h ThreadSafeHandle) Clone() ThreadSafeHandle {
	recordAtomicOp()
	h.n.referenceCount.Add(1)
	return ThreadSafeHandle{n: h.n}
}

// Drop releases this handle's reference. The thread that observes the
// count drop from one to zero reclaims: it releases every field slot,
// then frees the node. Reclamation is not retried or shared; it runs
// to completion on that one thread.
func (h ThreadSafeHandle) Drop() {
	threadSafeRelease(h.n, 0)
}

// Set replaces slot index's occupant with child (or nil, if ok is
// false). The child's count is incremented outside the lock before the
// swap; the slot swap itself happens under the node's spin-lock; the
// prior occupant, if any, is released after the lock is dropped.
func (h ThreadSafeHandle) Set(index int, child ThreadSafeHandle, ok bool) {
	var incoming *node
	if ok {
		incoming = child.n
		recordAtomicOp()
		incoming.referenceCount.Add(1)
	}
	h.n.lock.lock()
	old := h.n.fields[index]
	h.n.fields[index] = incoming
	h.n.lock.unlock()
	if old != nil {
		threadSafeRelease(old, 0)
	}
}

// Get clones slot index's occupant into a new handle under the node's
// spin-lock. The second return value is false if the slot is nil.
func (h ThreadSafeHandle) Get(index int) (ThreadSafeHandle, bool) {
	h.n.lock.lock()
	child := h.n.fields[index]
	if child != nil {
		recordAtomicOp()
		child.referenceCount.Add(1)
	}
	h.n.lock.unlock()
	if child == nil {
		return ThreadSafeHandle{}, false
	}
	return ThreadSafeHandle{n: child}, true
}

// threadSafeRelease fetch-subs n's count; on the decrement that
// observes it reach zero, it recurses into every field slot before
// deallocating. Below maxRecursionDepth this recurses directly; at or
// beyond it, remaining work drains through an explicit worklist.
func threadSafeRelease(n *node, depth int) {
	recordAtomicOp()
	if n.referenceCount.Add(^uintptr(0)) != 0 {
		return
	}
	if depth+1 < maxRecursionDepth {
		for _, child := range n.fields {
			if child != nil {
				threadSafeRelease(child, depth+1)
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
			if child == nil {
				continue
			}
			recordAtomicOp()
			if child.referenceCount.Add(^uintptr(0)) == 0 {
				work = append(work, child)
			}
		}
	}
}
