package duorc

import "testing"

func TestSoloAllocateAndDrop(t *testing.T) {
	Validation = true
	defer func() { Validation = false; ResetStats() }()

	before := LiveCount()
	h := AllocateSolo(2)
	h.Drop()
	if LiveCount() != before {
		t.Fatalf("expected no leak, live count delta %d", LiveCount()-before)
	}
}

func TestSoloCloneIncrementsCount(t *testing.T) {
	h := AllocateSolo(0)
	defer h.Drop()
	clone := h.Clone()
	defer clone.Drop()
	if got := h.n.referenceCount.Load(); got != 2 {
		t.Errorf("expected count 2 after clone, got %d", got)
	}
}

func TestSoloSetTakesOwnershipAndReleasesOld(t *testing.T) {
	Validation = true
	defer func() { Validation = false; ResetStats() }()

	root := AllocateSolo(1)
	defer root.Drop()

	y := AllocateSolo(0)
	root.Set(0, y, true)
	y.Drop() // caller's own reference, per Set's no-consume contract

	if got := root.n.fields[0].referenceCount.Load(); got != 1 {
		t.Errorf("expected y's count 1 after set+drop, got %d", got)
	}
	yNode := root.n.fields[0]

	z := AllocateSolo(0)
	root.Set(0, z, true)
	z.Drop()

	// y should have been released to zero and freed when replaced.
	if yNode.fields != nil {
		t.Error("expected y deallocated once its count reached zero")
	}
	if got := root.n.fields[0].referenceCount.Load(); got != 1 {
		t.Errorf("expected z's count 1, got %d", got)
	}
}

func TestSoloGetClonesSlot(t *testing.T) {
	root := AllocateSolo(1)
	defer root.Drop()
	child := AllocateSolo(0)
	root.Set(0, child, true)
	child.Drop()

	got, ok := root.Get(0)
	if !ok {
		t.Fatal("expected slot 0 to be populated")
	}
	defer got.Drop()
	if count := root.n.fields[0].referenceCount.Load(); count != 2 {
		t.Errorf("expected count 2 after Get, got %d", count)
	}
}

func TestSoloGetNilSlot(t *testing.T) {
	root := AllocateSolo(1)
	defer root.Drop()
	_, ok := root.Get(0)
	if ok {
		t.Error("expected nil slot to report ok=false")
	}
}

func TestSoloSelfReferenceDoesNotTransientlyFree(t *testing.T) {
	Validation = true
	defer func() { Validation = false; ResetStats() }()

	x := AllocateSolo(1)
	before := x.n.referenceCount.Load()

	x.Set(0, x, true)
	liveBefore := LiveCount()
	x.Set(0, SoloHandle{}, false)
	if LiveCount() != liveBefore {
		t.Errorf("expected no node freed by clearing a self-reference, live count moved by %d", LiveCount()-liveBefore)
	}
	if got := x.n.referenceCount.Load(); got != before {
		t.Errorf("expected count to return to %d, got %d", before, got)
	}
	x.Drop()
}

func TestSoloTreeBuildAndTeardown(t *testing.T) {
	Validation = true
	defer func() { Validation = false; ResetStats() }()

	before := LiveCount()
	tree := BuildTree(AllocateSolo, 2, 6)
	tree.Drop()
	if LiveCount() != before {
		t.Errorf("expected no leak after teardown, delta %d", LiveCount()-before)
	}
}
