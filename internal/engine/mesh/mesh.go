// Package mesh holds GPU-resident geometry and the library that owns it.
package mesh

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/engine/handle"
	"github.com/Faultbox/hexview/internal/logger"
)

// Mesh is indexed geometry with its own instance buffer. Meshes are shared
// between entities and identified by Handle.
type Mesh struct {
	Handle      handle.Handle
	Name        string
	VertexArray gpu.VertexArray
	IndexCount  int32
	Bounds      AABB
}

// Drawable reports whether the mesh has geometry and an instance buffer.
func (m *Mesh) Drawable() bool {
	return m != nil && m.VertexArray.Valid() && m.VertexArray.InstanceVBO != 0 && m.IndexCount > 0
}

// Model is an ordered list of submeshes drawn with one shared transform.
type Model struct {
	Name   string
	Meshes []*Mesh
}

// NewModel groups meshes into a model, dropping nil entries.
func NewModel(name string, meshes ...*Mesh) *Model {
	m := &Model{Name: name}
	for _, sub := range meshes {
		if sub != nil {
			m.Meshes = append(m.Meshes, sub)
		}
	}
	return m
}

// Bounds returns the union of the submesh bounds.
func (m *Model) Bounds() AABB {
	b := EmptyAABB()
	for _, sub := range m.Meshes {
		b = b.Union(sub.Bounds)
	}
	return b
}

// Library allocates meshes on a device and releases them on Close.
type Library struct {
	dev    gpu.Device
	alloc  handle.Allocator
	meshes map[handle.Handle]*Mesh
}

// NewLibrary creates an empty mesh library.
func NewLibrary(dev gpu.Device) *Library {
	return &Library{dev: dev, meshes: make(map[handle.Handle]*Mesh)}
}

// Create uploads geometry. A failed upload is logged and yields a mesh that
// the renderer will skip.
func (l *Library) Create(name string, vertices []gpu.Vertex, indices []uint32) *Mesh {
	m := &Mesh{
		Handle:      l.alloc.Alloc(),
		Name:        name,
		VertexArray: l.dev.CreateVertexArray(vertices, indices),
		IndexCount:  int32(len(indices)),
		Bounds:      EmptyAABB(),
	}
	for _, v := range vertices {
		m.Bounds = m.Bounds.ExtendPoint(v.Position)
	}
	if !m.Drawable() {
		logger.Named("mesh").Warn("mesh upload failed",
			zap.String("name", name),
			zap.Uint32("vao", m.VertexArray.VAO),
			zap.Int("vertices", len(vertices)),
			zap.Int("indices", len(indices)))
	}
	l.meshes[m.Handle] = m
	return m
}

// Get returns the mesh for h.
func (l *Library) Get(h handle.Handle) (*Mesh, bool) {
	m, ok := l.meshes[h]
	return m, ok
}

// Len returns the number of live meshes.
func (l *Library) Len() int { return len(l.meshes) }

// Destroy releases one mesh.
func (l *Library) Destroy(h handle.Handle) {
	m, ok := l.meshes[h]
	if !ok {
		return
	}
	l.dev.DeleteVertexArray(m.VertexArray)
	m.VertexArray = gpu.VertexArray{}
	delete(l.meshes, h)
	l.alloc.Free(h)
}

// Close releases every mesh.
func (l *Library) Close() {
	for h := range l.meshes {
		l.Destroy(h)
	}
}

// Cube creates a unit cube mesh of the given color.
func (l *Library) Cube(name string, size float32, color mgl32.Vec3) *Mesh {
	v, i := CubeGeometry(size, color)
	return l.Create(name, v, i)
}

// Plane creates a square ground plane mesh on y = 0.
func (l *Library) Plane(name string, size float32, color mgl32.Vec3) *Mesh {
	v, i := PlaneGeometry(size, color)
	return l.Create(name, v, i)
}
