package lighting

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestSunDirection(t *testing.T) {
	tests := []struct {
		name     string
		lon, lat float32
		want     mgl32.Vec3
	}{
		{"zenith", 0, 90, mgl32.Vec3{0, 1, 0}},
		{"south horizon", 0, 0, mgl32.Vec3{0, 0, 1}},
		{"east horizon", 90, 0, mgl32.Vec3{1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunDirection(tt.lon, tt.lat)
			if !closeTo(got, tt.want, 1e-5) {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestSunAnglesRoundTrip(t *testing.T) {
	for _, in := range [][2]float32{{30, 45}, {-120, 10}, {170, 80}} {
		lon, lat := SunAngles(SunDirection(in[0], in[1]))
		if !mgl32.FloatEqualThreshold(lon, in[0], 1e-3) || !mgl32.FloatEqualThreshold(lat, in[1], 1e-3) {
			t.Errorf("angles %v came back as (%g, %g)", in, lon, lat)
		}
	}
}

func TestLightPointsAwayFromSun(t *testing.T) {
	l := FromSun(0, 90, mgl32.Vec3{1, 1, 1})
	if !closeTo(l.Normalized(), mgl32.Vec3{0, -1, 0}, 1e-5) {
		t.Errorf("overhead sun should shine down, got %v", l.Direction)
	}

	l.SetAngles(90, 30)
	lon, lat := l.Angles()
	if !mgl32.FloatEqualThreshold(lon, 90, 1e-3) || !mgl32.FloatEqualThreshold(lat, 30, 1e-3) {
		t.Errorf("expected (90, 30), got (%g, %g)", lon, lat)
	}
}

func TestNormalizedZero(t *testing.T) {
	var l DirectionalLight
	if l.Normalized() != (mgl32.Vec3{0, -1, 0}) {
		t.Errorf("zero direction should fall back to down, got %v", l.Normalized())
	}
}

// closeTo compares by absolute distance. Relative comparison breaks down
// against exact zero components.
func closeTo(a, b mgl32.Vec3, tol float32) bool {
	return a.Sub(b).Len() < tol
}

func TestSunDirectionAxisResidue(t *testing.T) {
	// cos(90deg) in float32 is about -4.4e-8, not zero.
	tests := []struct {
		lon, lat float32
		axis     int
	}{
		{0, 90, 1},
		{90, 0, 0},
	}
	for _, tt := range tests {
		got := SunDirection(tt.lon, tt.lat)
		for i := range 3 {
			want := float32(0)
			if i == tt.axis {
				want = 1
			}
			if d := got[i] - want; d > 1e-6 || d < -1e-6 {
				t.Errorf("SunDirection(%g, %g)[%d] = %g, want %g", tt.lon, tt.lat, i, got[i], want)
			}
		}
	}
}
