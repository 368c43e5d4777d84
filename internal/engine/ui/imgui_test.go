package ui

import "testing"

func TestCloseNil(t *testing.T) {
	var b *Backend
	b.Close()
}

func TestCloseAfterRunIsNoOp(t *testing.T) {
	// backend is nil, so reaching the SDL loop would panic.
	b := &Backend{closed: true}
	b.Close()
	if !b.closed {
		t.Error("backend reopened")
	}
}
