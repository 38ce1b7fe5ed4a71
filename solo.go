package duorc

// SoloHandle is the single-thread-only handle: every count
// manipulation is plain arithmetic over a separate load and store, with
// no atomic read-modify-write and no locking. Using one
// from more than one goroutine concurrently is a contract violation
// the type does nothing to detect.
type SoloHandle struct {
	n *node
}

// AllocateSolo returns a fresh handle over a node with arity field
// slots, count one, all slots nil.
func AllocateSolo(arity int) SoloHandle {
	recordSoloOp()
	return SoloHandle{n: allocate(arity)}
}

// Clone duplicates the handle, adding one to the node's count.
func (h SoloHandle) Clone() SoloHandle {
	recordSoloOp()
	cur := h.n.referenceCount.Load()
	h.n.referenceCount.Store(cur + 1)
	return SoloHandle{n: h.n}
}

// Drop releases this handle's reference. On the decrement that
// observes the count reach zero, every field slot is released in turn
// and the node's storage is freed.
func (h SoloHandle) Drop() {
	soloRelease(h.n, 0)
}

// Set replaces slot index's occupant with child (or nil, if ok is
// false), taking ownership of the incoming reference: child's count is
// incremented here, and the slot's prior occupant, if any, is
// released after the swap.
func (h SoloHandle) Set(index int, child SoloHandle, ok bool) {
	recordSoloOp()
	var incoming *node
	if ok {
		incoming = child.n
		incoming.referenceCount.Store(incoming.referenceCount.Load() + 1)
	}
	old := h.n.fields[index]
	h.n.fields[index] = incoming
	if old != nil {
		soloRelease(old, 0)
	}
}

// Get clones slot index's occupant into a new handle. The second
// return value is false if the slot is nil.
func (h SoloHandle) Get(index int) (SoloHandle, bool) {
	recordSoloOp()
	child := h.n.fields[index]
	if child == nil {
		return SoloHandle{}, false
	}
	child.referenceCount.Store(child.referenceCount.Load() + 1)
	return SoloHandle{n: child}, true
}

// soloRelease decrements n's count and, if it reaches zero, recurses
// into every field slot before deallocating. Below maxRecursionDepth
// this recurses directly; at or beyond it, remaining work is drained
// through an explicit worklist.
func soloRelease(n *node, depth int) {
	recordSoloOp()
	remaining := n.referenceCount.Load() - 1
	n.referenceCount.Store(remaining)
	if remaining != 0 {
		return
	}
	if depth+1 < maxRecursionDepth {
		for _, child := range n.fields {
			if child != nil {
				soloRelease(child, depth+1)
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
			recordSoloOp()
			left := child.referenceCount.Load() - 1
			child.referenceCount.Store(left)
			if left == 0 {
				work = append(work, child)
			}
		}
	}
}
