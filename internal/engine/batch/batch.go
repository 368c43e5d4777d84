// Package batch turns the scene store into instanced draw batches.
package batch

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/ecs"
	"github.com/Faultbox/hexview/internal/engine/handle"
	"github.com/Faultbox/hexview/internal/engine/material"
	"github.com/Faultbox/hexview/internal/engine/mesh"
	"github.com/Faultbox/hexview/internal/engine/scene"
)

// DrawItem is one mesh occurrence for the current frame.
type DrawItem struct {
	Material *material.Material // nil for shadow-only casters
	Mesh     *mesh.Mesh
	Model    mgl32.Mat4
}

// Batch is every item sharing a (Material, Mesh) key, drawn with one
// instanced call.
type Batch struct {
	Material  *material.Material
	Mesh      *mesh.Mesh
	Instances []mgl32.Mat4
}

// Frame is the output of one Build.
type Frame struct {
	// Items carry a material and feed the shaded pass, sorted by key.
	Items []DrawItem
	// Batches groups Items.
	Batches []Batch
	// Casters feed the shadow pass: Items plus entities without a material.
	Casters []DrawItem
}

// Instances returns the total number of instances across batches.
func (f *Frame) Instances() int {
	n := 0
	for _, b := range f.Batches {
		n += len(b.Instances)
	}
	return n
}

func materialHandle(m *material.Material) handle.Handle {
	if m == nil {
		return handle.Nil
	}
	return m.Handle
}

func meshHandle(m *mesh.Mesh) handle.Handle {
	if m == nil {
		return handle.Nil
	}
	return m.Handle
}

func compareKey(a, b DrawItem) int {
	if c := cmp.Compare(materialHandle(a.Material), materialHandle(b.Material)); c != 0 {
		return c
	}
	return cmp.Compare(meshHandle(a.Mesh), meshHandle(b.Mesh))
}

// Build collects (Transform, Mesh) and (Transform, Model) entities, with or
// without a Material, and groups the shaded ones into batches. Models expand
// into one item per submesh sharing the model matrix.
func Build(w *ecs.World) Frame {
	var f Frame

	emit := func(mat *material.Material, m *mesh.Mesh, model mgl32.Mat4) {
		if m == nil {
			return
		}
		item := DrawItem{Material: mat, Mesh: m, Model: model}
		f.Casters = append(f.Casters, item)
		if mat != nil {
			f.Items = append(f.Items, item)
		}
	}

	ecs.Query2(w, func(e ecs.Entity, t *scene.Transform, ref *scene.MeshRef) bool {
		emit(materialOf(w, e), ref.Mesh, t.Matrix())
		return true
	})
	ecs.Query2(w, func(e ecs.Entity, t *scene.Transform, ref *scene.ModelRef) bool {
		if ref.Model == nil {
			return true
		}
		mat := materialOf(w, e)
		model := t.Matrix()
		for _, sub := range ref.Model.Meshes {
			emit(mat, sub, model)
		}
		return true
	})

	f.Batches = Group(f.Items)
	return f
}

func materialOf(w *ecs.World, e ecs.Entity) *material.Material {
	if ref, ok := ecs.Get[scene.MaterialRef](w, e); ok {
		return ref.Material
	}
	return nil
}

// Group sorts items in place by (Material, Mesh) handle and folds runs of
// equal keys into batches. Instance order inside a batch follows the input
// order of its items.
func Group(items []DrawItem) []Batch {
	slices.SortStableFunc(items, compareKey)
	return scan(items, func(a, b DrawItem) bool { return compareKey(a, b) == 0 })
}

// GroupByMesh groups items by mesh alone, ignoring materials. items is not
// modified.
func GroupByMesh(items []DrawItem) []Batch {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b DrawItem) int {
		return cmp.Compare(meshHandle(a.Mesh), meshHandle(b.Mesh))
	})
	batches := scan(sorted, func(a, b DrawItem) bool { return meshHandle(a.Mesh) == meshHandle(b.Mesh) })
	for i := range batches {
		batches[i].Material = nil
	}
	return batches
}

func scan(items []DrawItem, sameKey func(a, b DrawItem) bool) []Batch {
	var batches []Batch
	for i, item := range items {
		if i == 0 || !sameKey(items[i-1], item) {
			batches = append(batches, Batch{Material: item.Material, Mesh: item.Mesh})
		}
		last := &batches[len(batches)-1]
		last.Instances = append(last.Instances, item.Model)
	}
	return batches
}

// Bounds returns the world-space box around every item.
func Bounds(items []DrawItem) mesh.AABB {
	b := mesh.EmptyAABB()
	for _, item := range items {
		if item.Mesh == nil {
			continue
		}
		b = b.Union(item.Mesh.Bounds.Transform(item.Model))
	}
	return b
}
