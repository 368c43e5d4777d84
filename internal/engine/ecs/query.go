package ecs

// Queries visit matching entities in the dense order of the first component
// type, which is insertion order until something is removed. Returning false
// from the callback stops the iteration.

// Query1 visits every entity carrying A.
func Query1[A any](w *World, fn func(Entity, *A) bool) {
	sa := lookup[A](w)
	if sa == nil {
		return
	}
	for i := range sa.dense {
		if !fn(sa.owners[i], &sa.dense[i]) {
			return
		}
	}
}

// Query2 visits every entity carrying both A and B.
func Query2[A, B any](w *World, fn func(Entity, *A, *B) bool) {
	sa, sb := lookup[A](w), lookup[B](w)
	if sa == nil || sb == nil {
		return
	}
	for i := range sa.dense {
		e := sa.owners[i]
		j := sb.find(e)
		if j < 0 {
			continue
		}
		if !fn(e, &sa.dense[i], &sb.dense[j]) {
			return
		}
	}
}

// Query3 visits every entity carrying A, B and C.
func Query3[A, B, C any](w *World, fn func(Entity, *A, *B, *C) bool) {
	sa, sb, sc := lookup[A](w), lookup[B](w), lookup[C](w)
	if sa == nil || sb == nil || sc == nil {
		return
	}
	for i := range sa.dense {
		e := sa.owners[i]
		j := sb.find(e)
		if j < 0 {
			continue
		}
		k := sc.find(e)
		if k < 0 {
			continue
		}
		if !fn(e, &sa.dense[i], &sb.dense[j], &sc.dense[k]) {
			return
		}
	}
}
