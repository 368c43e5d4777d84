// Package picking casts rays from screen positions into the scene store.
package picking

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/ecs"
	"github.com/Faultbox/hexview/internal/engine/mesh"
	"github.com/Faultbox/hexview/internal/engine/scene"
)

// Ray is a half-line with a unit direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// ScreenToRay unprojects a pixel position (origin top-left) through the
// camera. ok is false when the inverse view-projection is degenerate.
func ScreenToRay(x, y, width, height float32, view, projection mgl32.Mat4) (Ray, bool) {
	if width <= 0 || height <= 0 {
		return Ray{}, false
	}
	inv := projection.Mul4(view).Inv()
	ndcX := 2*x/width - 1
	ndcY := 1 - 2*y/height

	near := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, -1, 1})
	far := inv.Mul4x1(mgl32.Vec4{ndcX, ndcY, 1, 1})
	if near.W() == 0 || far.W() == 0 {
		return Ray{}, false
	}

	origin := near.Vec3().Mul(1 / near.W())
	dir := far.Vec3().Mul(1 / far.W()).Sub(origin)
	if dir.Len() == 0 {
		return Ray{}, false
	}
	return Ray{Origin: origin, Direction: dir.Normalize()}, true
}

// IntersectAABB returns the distance to the box along the ray using the
// slab test. A ray starting inside the box hits at its exit distance.
func (r Ray) IntersectAABB(box mesh.AABB) (float32, bool) {
	if box.IsEmpty() {
		return 0, false
	}
	tmin := float32(math.Inf(-1))
	tmax := float32(math.Inf(1))

	for i := range 3 {
		if r.Direction[i] == 0 {
			if r.Origin[i] < box.Min[i] || r.Origin[i] > box.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (box.Min[i] - r.Origin[i]) / r.Direction[i]
		t2 := (box.Max[i] - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tmin = max(tmin, t1)
		tmax = min(tmax, t2)
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is the closest entity along a ray.
type Hit struct {
	Entity   ecs.Entity
	Distance float32
	Point    mgl32.Vec3
	Bounds   mesh.AABB // world space
}

// Pick returns the nearest mesh or model entity whose world bounds the ray
// crosses.
func Pick(w *ecs.World, r Ray) (Hit, bool) {
	best := Hit{Distance: float32(math.Inf(1))}
	found := false

	test := func(e ecs.Entity, local mesh.AABB, model mgl32.Mat4) {
		bounds := local.Transform(model)
		if t, ok := r.IntersectAABB(bounds); ok && t < best.Distance {
			best = Hit{Entity: e, Distance: t, Point: r.At(t), Bounds: bounds}
			found = true
		}
	}

	ecs.Query2(w, func(e ecs.Entity, t *scene.Transform, m *scene.MeshRef) bool {
		if m.Mesh != nil {
			test(e, m.Mesh.Bounds, t.Matrix())
		}
		return true
	})
	ecs.Query2(w, func(e ecs.Entity, t *scene.Transform, m *scene.ModelRef) bool {
		if m.Model != nil {
			test(e, m.Model.Bounds(), t.Matrix())
		}
		return true
	})
	return best, found
}
