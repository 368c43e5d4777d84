// Package scene defines the components the renderer reads from the store.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/material"
	"github.com/Faultbox/hexview/internal/engine/mesh"
)

// Transform places an entity in the world.
type Transform struct {
	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3
}

// Identity returns a transform at the origin with unit scale.
func Identity() Transform {
	return Transform{Rotation: mgl32.QuatIdent(), Scale: mgl32.Vec3{1, 1, 1}}
}

// At returns an identity transform moved to p.
func At(p mgl32.Vec3) Transform {
	t := Identity()
	t.Position = p
	return t
}

// Matrix returns translation × rotation × scale.
func (t Transform) Matrix() mgl32.Mat4 {
	return mgl32.Translate3D(t.Position[0], t.Position[1], t.Position[2]).
		Mul4(t.Rotation.Normalize().Mat4()).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}

// MeshRef attaches one shared mesh.
type MeshRef struct {
	Mesh *mesh.Mesh
}

// ModelRef attaches a multi-mesh model.
type ModelRef struct {
	Model *mesh.Model
}

// MaterialRef attaches the material used in the shaded pass. Entities
// without one still cast shadows.
type MaterialRef struct {
	Material *material.Material
}
