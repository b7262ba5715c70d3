package bitset

import "testing"

func TestFastBitSet(t *testing.T) {
	b := NewFast(100)

	if b.TestAndSet(10) {
		t.Errorf("expected bit 10 to be unset before first TestAndSet")
	}
	if !b.TestAndSet(10) {
		t.Errorf("expected bit 10 to be reported as already set")
	}
	if b.TestAndSet(20) {
		t.Errorf("expected bit 20 to be unset")
	}

	b.Reset()
	if b.TestAndSet(10) || b.TestAndSet(20) {
		t.Errorf("expected all bits cleared after reset")
	}
	if len(b.dirty) != 2 {
		t.Errorf("expected 2 dirty bits after reuse, got %d", len(b.dirty))
	}
}

func TestFastBitSet_Grow(t *testing.T) {
	b := NewFast(0)

	b.TestAndSet(5)
	b.TestAndSet(100000)

	if !b.TestAndSet(5) {
		t.Errorf("expected bit 5 to persist after grow")
	}
	if !b.TestAndSet(100000) {
		t.Errorf("expected bit 100000 to be set")
	}
	if b.TestAndSet(99999) {
		t.Errorf("expected bit 99999 to be unset")
	}
}
