package duorc

import "testing"

func TestAllocateInitializesHeader(t *testing.T) {
	n := allocate(3)
	if got := n.referenceCount.Load(); got != 1 {
		t.Errorf("expected reference count 1, got %d", got)
	}
	if n.isMutex.Load() {
		t.Error("freshly allocated node should not be shared")
	}
	if n.fieldLength() != 3 {
		t.Errorf("expected field length 3, got %d", n.fieldLength())
	}
	for i, f := range n.fields {
		if f != nil {
			t.Errorf("expected slot %d nil, got non-nil", i)
		}
	}
}

func TestAllocateZeroArity(t *testing.T) {
	n := allocate(0)
	if n.fieldLength() != 0 {
		t.Errorf("expected field length 0, got %d", n.fieldLength())
	}
}

func TestValidationTracksLiveCount(t *testing.T) {
	Validation = true
	defer func() { Validation = false; ResetStats() }()

	before := LiveCount()
	n := allocate(2)
	if LiveCount() != before+1 {
		t.Fatalf("expected live count to increase by 1, got delta %d", LiveCount()-before)
	}
	deallocate(n)
	if LiveCount() != before {
		t.Fatalf("expected live count to return to %d, got %d", before, LiveCount())
	}
}
