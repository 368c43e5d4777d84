// Package handle provides generation-checked resource identifiers.
//
// A Handle packs a slot index and the generation of that slot. Handles order
// by (generation, index) as plain integers, which keeps sorting by handle
// reproducible across runs regardless of where resources live in memory.
package handle

import "fmt"

// Handle identifies a resource slot. The zero Handle is never issued.
type Handle uint64

// Nil is the zero handle.
const Nil Handle = 0

// Make builds a handle from its parts.
func Make(index, generation uint32) Handle {
	return Handle(uint64(generation)<<32 | uint64(index))
}

// Index returns the slot index.
func (h Handle) Index() uint32 { return uint32(h) }

// Generation returns the slot generation. Issued handles have generation >= 1.
func (h Handle) Generation() uint32 { return uint32(h >> 32) }

// IsNil reports whether h is the zero handle.
func (h Handle) IsNil() bool { return h == Nil }

func (h Handle) String() string {
	if h.IsNil() {
		return "handle(nil)"
	}
	return fmt.Sprintf("handle(%d:%d)", h.Index(), h.Generation())
}

// Allocator issues handles and recycles freed slots with a bumped generation.
type Allocator struct {
	generations []uint32
	free        []uint32
}

// Alloc returns a fresh handle.
func (a *Allocator) Alloc() Handle {
	if n := len(a.free); n > 0 {
		idx := a.free[n-1]
		a.free = a.free[:n-1]
		return Make(idx, a.generations[idx])
	}
	idx := uint32(len(a.generations))
	a.generations = append(a.generations, 1)
	return Make(idx, 1)
}

// Free releases h. Stale or nil handles are ignored.
func (a *Allocator) Free(h Handle) bool {
	if !a.Alive(h) {
		return false
	}
	idx := h.Index()
	a.generations[idx]++
	a.free = append(a.free, idx)
	return true
}

// Alive reports whether h was issued by a and has not been freed.
func (a *Allocator) Alive(h Handle) bool {
	idx := h.Index()
	if h.IsNil() || int(idx) >= len(a.generations) {
		return false
	}
	return a.generations[idx] == h.Generation()
}

// Len returns the number of live handles.
func (a *Allocator) Len() int {
	return len(a.generations) - len(a.free)
}
