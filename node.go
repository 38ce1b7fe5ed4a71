package duorc

import "sync/atomic"

// node is the heap block every handle kind ultimately points at: a
// header plus a fixed-length field vector. Go gives us garbage
// collection underneath, so "deallocate" below doesn't return memory
// to an allocator; it severs the node's own outgoing pointers so
// nothing keeps the block reachable once its count hits zero, and
// adjusts the validation counter the same way the original's
// malloc/free pair did.
type node struct {
	referenceCount atomic.Uintptr
	isMutex        atomic.Bool
	lock           spinLock
	fields         []*node
}

// allocate lays out a fresh node with the given field arity. Freshly
// allocated nodes have reference_count = 1 (the handle returned to the
// caller), is_mutex = false, every slot nil, and the spin lock
// released.
func allocate(arity int) *node {
	n := &node{
		fields: make([]*node, arity),
	}
	n.referenceCount.Store(1)
	recordAlloc()
	return n
}

// deallocate releases a node's storage. It is invoked only by the
// decrement that observes the count drop from one to zero, never
// directly by a handle kind's public surface.
func deallocate(n *node) {
	n.fields = nil
	recordFree()
}

// fieldLength returns the node's immutable field-slot count.
func (n *node) fieldLength() int {
	return len(n.fields)
}

// maxRecursionDepth bounds plain-recursive decrement-to-zero and
// to_mutex propagation. Below this depth a direct recursive call is
// used (simpler to read, and every goroutine already has a growable
// stack); at or beyond it the caller spills to an explicit worklist
// so a pathologically deep chain can't blow the stack.
const maxRecursionDepth = 4096

