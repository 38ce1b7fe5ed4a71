package duorc

import "testing"

func TestManualSetAndGet(t *testing.T) {
	root := AllocateManual(1)
	child := AllocateManual(0)
	root.Set(0, child, true)

	got, ok := root.Get(0)
	if !ok {
		t.Fatal("expected populated slot")
	}
	if got.n != child.n {
		t.Error("expected Get to return the same node Set stored")
	}
	root.Delete()
}

func TestManualDropIsNoop(t *testing.T) {
	Validation = true
	defer func() { Validation = false; ResetStats() }()

	before := LiveCount()
	h := AllocateManual(0)
	h.Drop()
	if LiveCount() != before+1 {
		t.Errorf("expected Drop to leave the node allocated, delta %d", LiveCount()-before)
	}
	h.Delete()
	if LiveCount() != before {
		t.Errorf("expected Delete to free the node, delta %d", LiveCount()-before)
	}
}

func TestManualTreeDelete(t *testing.T) {
	Validation = true
	defer func() { Validation = false; ResetStats() }()

	before := LiveCount()
	tree := BuildTree(AllocateManual, 2, 6)
	tree.Delete()
	if LiveCount() != before {
		t.Errorf("expected no leak after Delete, delta %d", LiveCount()-before)
	}
}
