package shadow

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/mesh"
)

// nearPlane is the light-space near clip distance.
const nearPlane = 0.1

// LightView looks from center - dir*radius towards center. dir points from
// the light into the scene and does not need to be normalized.
func LightView(dir, center mgl32.Vec3, radius float32) mgl32.Mat4 {
	if dir.Len() == 0 {
		dir = mgl32.Vec3{0, -1, 0}
	}
	dir = dir.Normalize()
	eye := center.Sub(dir.Mul(radius))

	up := mgl32.Vec3{0, 1, 0}
	// A vertical light is parallel to Y.
	if abs32(dir.Y()) > 0.99 {
		up = mgl32.Vec3{0, 0, 1}
	}
	return mgl32.LookAtV(eye, center, up)
}

// LightProjection is an orthographic box of half-extent radius with depth
// range [0.1, 2*radius]. The vertical axis runs from +radius to -radius.
func LightProjection(radius float32) mgl32.Mat4 {
	return mgl32.Ortho(-radius, radius, radius, -radius, nearPlane, 2*radius)
}

// Fit returns the center and radius of the light volume for a set of
// caster bounds. Empty bounds fall back to the origin and fallback.
func Fit(bounds mesh.AABB, fallback float32) (mgl32.Vec3, float32) {
	if bounds.IsEmpty() {
		return mgl32.Vec3{}, fallback
	}
	r := bounds.Radius()
	if r < nearPlane {
		r = fallback
	}
	return bounds.Center(), r
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
