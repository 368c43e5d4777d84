package handle

import "testing"

func TestAllocatorIssuesDistinctHandles(t *testing.T) {
	var a Allocator
	seen := make(map[Handle]bool)
	for i := 0; i < 100; i++ {
		h := a.Alloc()
		if h.IsNil() {
			t.Fatal("allocator issued nil handle")
		}
		if seen[h] {
			t.Fatalf("duplicate handle %v", h)
		}
		seen[h] = true
	}
	if a.Len() != 100 {
		t.Errorf("expected 100 live handles, got %d", a.Len())
	}
}

func TestAllocatorRecyclesWithNewGeneration(t *testing.T) {
	var a Allocator
	h1 := a.Alloc()
	if !a.Free(h1) {
		t.Fatal("Free of live handle returned false")
	}
	if a.Alive(h1) {
		t.Error("freed handle still alive")
	}
	if a.Free(h1) {
		t.Error("double free should be rejected")
	}

	h2 := a.Alloc()
	if h2.Index() != h1.Index() {
		t.Errorf("expected slot %d reused, got %d", h1.Index(), h2.Index())
	}
	if h2.Generation() != h1.Generation()+1 {
		t.Errorf("expected generation %d, got %d", h1.Generation()+1, h2.Generation())
	}
	if h1 == h2 {
		t.Error("recycled handle must differ from stale one")
	}
}

func TestNilHandle(t *testing.T) {
	var a Allocator
	if a.Alive(Nil) {
		t.Error("nil handle reported alive")
	}
	if Nil.String() != "handle(nil)" {
		t.Errorf("unexpected nil string %q", Nil.String())
	}
	if got := Make(3, 2).String(); got != "handle(3:2)" {
		t.Errorf("unexpected string %q", got)
	}
}
