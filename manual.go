package duorc

// ManualHandle bypasses counting entirely: it wraps a raw node
// pointer, and nothing about assigning, copying, or discarding a
// ManualHandle value touches the node's storage. The caller is solely
// responsible for an explicit, exactly-once Delete, recursing into
// every field slot first. Exists only to give the benchmark harness a
// zero-overhead baseline; never use this outside a benchmark.
type ManualHandle struct {
	n *node
}

// AllocateManual returns a handle over a node with arity field slots,
// all slots nil. The returned node's count field is unused by this
// handle kind.
func AllocateManual(arity int) ManualHandle {
	recordSoloOp()
	return ManualHandle{n: allocate(arity)}
}

// Clone returns a second handle over the same node. No count is
// touched; this exists only so ManualHandle satisfies the same shape
// as the counted handle kinds for the benchmark harness.
func (h ManualHandle) Clone() ManualHandle {
	return ManualHandle{n: h.n}
}

// Drop is a no-op: manual handles are reclaimed only via Delete.
func (h ManualHandle) Drop() {}

// Set replaces slot index's occupant with child (or nil, if ok is
// false). The prior occupant, if any, is not touched; the caller is
// responsible for deleting anything it detaches.
func (h ManualHandle) Set(index int, child ManualHandle, ok bool) {
	var incoming *node
	if ok {
		incoming = child.n
	}
	h.n.fields[index] = incoming
}

// Get returns a handle over slot index's occupant. The second return
// value is false if the slot is nil.
func (h ManualHandle) Get(index int) (ManualHandle, bool) {
	child := h.n.fields[index]
	if child == nil {
		return ManualHandle{}, false
	}
	return ManualHandle{n: child}, true
}

// Delete recursively frees h's node and every node reachable from it,
// unconditionally; it does not check whether another handle still
// refers to any of them, since manual mode keeps no count to check.
func (h ManualHandle) Delete() {
	manualDelete(h.n, 0)
}

func manualDelete(n *node, depth int) {
	if depth+1 < maxRecursionDepth {
		for _, child := range n.fields {
			if child != nil {
				manualDelete(child, depth+1)
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
			if child != nil {
				work = append(work, child)
			}
		}
	}
}
