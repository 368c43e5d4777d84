package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestIdentityMatrix(t *testing.T) {
	if m := Identity().Matrix(); !m.ApproxEqual(mgl32.Ident4()) {
		t.Errorf("identity transform produced %v", m)
	}
}

func TestMatrixOrder(t *testing.T) {
	tr := Transform{
		Position: mgl32.Vec3{10, 0, 0},
		Rotation: mgl32.QuatRotate(mgl32.DegToRad(90), mgl32.Vec3{0, 1, 0}),
		Scale:    mgl32.Vec3{2, 2, 2},
	}

	// Scale, then rotate +X onto -Z, then translate.
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, tr.Matrix())
	want := mgl32.Vec3{10, 0, -2}
	if got.Sub(want).Len() > 1e-5 {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestAt(t *testing.T) {
	m := At(mgl32.Vec3{1, 2, 3}).Matrix()
	if m.Col(3) != (mgl32.Vec4{1, 2, 3, 1}) {
		t.Errorf("unexpected translation column %v", m.Col(3))
	}
}
