package mesh

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/gpu"
)

var placeholderTangent = mgl32.Vec3{1, 0, 0}

// cubeFaces lists each face as its normal and four corners in
// counter-clockwise order seen from outside.
var cubeFaces = [6]struct {
	normal  mgl32.Vec3
	corners [4]mgl32.Vec3
}{
	{mgl32.Vec3{0, 0, 1}, [4]mgl32.Vec3{{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1}}},
	{mgl32.Vec3{0, 0, -1}, [4]mgl32.Vec3{{1, -1, -1}, {-1, -1, -1}, {-1, 1, -1}, {1, 1, -1}}},
	{mgl32.Vec3{-1, 0, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {-1, -1, 1}, {-1, 1, 1}, {-1, 1, -1}}},
	{mgl32.Vec3{1, 0, 0}, [4]mgl32.Vec3{{1, -1, 1}, {1, -1, -1}, {1, 1, -1}, {1, 1, 1}}},
	{mgl32.Vec3{0, 1, 0}, [4]mgl32.Vec3{{-1, 1, 1}, {1, 1, 1}, {1, 1, -1}, {-1, 1, -1}}},
	{mgl32.Vec3{0, -1, 0}, [4]mgl32.Vec3{{-1, -1, -1}, {1, -1, -1}, {1, -1, 1}, {-1, -1, 1}}},
}

// CubeGeometry returns a cube centered on the origin with flat per-face normals.
func CubeGeometry(size float32, color mgl32.Vec3) ([]gpu.Vertex, []uint32) {
	half := size / 2
	vertices := make([]gpu.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)

	for _, f := range cubeFaces {
		base := uint32(len(vertices))
		for _, c := range f.corners {
			vertices = append(vertices, gpu.Vertex{
				Position: c.Mul(half),
				Color:    color,
				Normal:   f.normal,
				Tangent:  placeholderTangent,
			})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}
	return vertices, indices
}

// PlaneGeometry returns a size×size quad on y = 0 facing +Y.
func PlaneGeometry(size float32, color mgl32.Vec3) ([]gpu.Vertex, []uint32) {
	h := size / 2
	up := mgl32.Vec3{0, 1, 0}
	corners := [4]mgl32.Vec3{{-h, 0, h}, {h, 0, h}, {h, 0, -h}, {-h, 0, -h}}

	vertices := make([]gpu.Vertex, 4)
	for i, c := range corners {
		vertices[i] = gpu.Vertex{Position: c, Color: color, Normal: up, Tangent: placeholderTangent}
	}
	return vertices, []uint32{0, 1, 2, 2, 3, 0}
}
