// Package ecs is the scene store: entities with typed components kept in
// sparse sets, one dense array per component type.
package ecs

import (
	"reflect"

	"github.com/Faultbox/hexview/internal/engine/handle"
)

// Entity identifies a row in a World. Destroyed entities never match again,
// even after their slot is reused.
type Entity handle.Handle

func (e Entity) index() uint32 { return handle.Handle(e).Index() }

func (e Entity) String() string { return "entity" + handle.Handle(e).String()[6:] }

type storage interface {
	remove(e Entity) bool
	size() int
}

// World owns entities and their components. It is not safe for concurrent use,
// and components must not be added or removed while a query is running.
type World struct {
	entities handle.Allocator
	storages map[reflect.Type]storage
}

// NewWorld returns an empty world.
func NewWorld() *World {
	return &World{storages: make(map[reflect.Type]storage)}
}

// Spawn creates an entity with no components.
func (w *World) Spawn() Entity {
	return Entity(w.entities.Alloc())
}

// Alive reports whether e exists.
func (w *World) Alive(e Entity) bool {
	return w.entities.Alive(handle.Handle(e))
}

// Destroy removes e and all of its components.
func (w *World) Destroy(e Entity) bool {
	if !w.Alive(e) {
		return false
	}
	for _, s := range w.storages {
		s.remove(e)
	}
	return w.entities.Free(handle.Handle(e))
}

// Len returns the number of live entities.
func (w *World) Len() int {
	return w.entities.Len()
}

type sparseSet[T any] struct {
	sparse []int32 // entity index -> dense position + 1
	dense  []T
	owners []Entity
}

func (s *sparseSet[T]) find(e Entity) int {
	idx := e.index()
	if int(idx) >= len(s.sparse) {
		return -1
	}
	pos := int(s.sparse[idx]) - 1
	if pos < 0 || s.owners[pos] != e {
		return -1
	}
	return pos
}

func (s *sparseSet[T]) set(e Entity, c T) {
	if pos := s.find(e); pos >= 0 {
		s.dense[pos] = c
		return
	}
	idx := int(e.index())
	if idx >= len(s.sparse) {
		grown := make([]int32, idx+1, max(idx+1, 2*len(s.sparse)))
		copy(grown, s.sparse)
		s.sparse = grown
	}
	s.dense = append(s.dense, c)
	s.owners = append(s.owners, e)
	s.sparse[idx] = int32(len(s.dense))
}

func (s *sparseSet[T]) remove(e Entity) bool {
	pos := s.find(e)
	if pos < 0 {
		return false
	}
	last := len(s.dense) - 1
	if pos != last {
		s.dense[pos] = s.dense[last]
		s.owners[pos] = s.owners[last]
		s.sparse[s.owners[pos].index()] = int32(pos + 1)
	}
	var zero T
	s.dense[last] = zero
	s.dense = s.dense[:last]
	s.owners = s.owners[:last]
	s.sparse[e.index()] = 0
	return true
}

func (s *sparseSet[T]) size() int { return len(s.dense) }

func lookup[T any](w *World) *sparseSet[T] {
	s, ok := w.storages[reflect.TypeFor[T]()]
	if !ok {
		return nil
	}
	return s.(*sparseSet[T])
}

func lookupOrCreate[T any](w *World) *sparseSet[T] {
	if s := lookup[T](w); s != nil {
		return s
	}
	s := &sparseSet[T]{}
	w.storages[reflect.TypeFor[T]()] = s
	return s
}

// Add attaches c to e, replacing any existing component of the same type.
// It returns false if e is not alive.
func Add[T any](w *World, e Entity, c T) bool {
	if !w.Alive(e) {
		return false
	}
	lookupOrCreate[T](w).set(e, c)
	return true
}

// Get returns a pointer to e's component of type T. The pointer is valid
// until the next Add or Remove of that type.
func Get[T any](w *World, e Entity) (*T, bool) {
	s := lookup[T](w)
	if s == nil {
		return nil, false
	}
	pos := s.find(e)
	if pos < 0 {
		return nil, false
	}
	return &s.dense[pos], true
}

// Has reports whether e carries a component of type T.
func Has[T any](w *World, e Entity) bool {
	_, ok := Get[T](w, e)
	return ok
}

// Remove detaches e's component of type T.
func Remove[T any](w *World, e Entity) bool {
	s := lookup[T](w)
	if s == nil {
		return false
	}
	return s.remove(e)
}

// Count returns how many entities carry a component of type T.
func Count[T any](w *World) int {
	s := lookup[T](w)
	if s == nil {
		return 0
	}
	return s.size()
}
