package lighting

import "github.com/go-gl/mathgl/mgl32"

// Sky holds the background gradient and scattering settings.
type Sky struct {
	Top    mgl32.Vec3
	Bottom mgl32.Vec3
	MieG   float32
}

// DirectionalLight is a light at infinity. Direction points from the light
// into the scene.
type DirectionalLight struct {
	Direction mgl32.Vec3
	Color     mgl32.Vec3
	Sky       Sky
}

// Default returns a white light slightly off vertical under a blue sky.
func Default() DirectionalLight {
	return DirectionalLight{
		Direction: mgl32.Vec3{-0.2, -1.0, -0.3},
		Color:     mgl32.Vec3{1, 1, 1},
		Sky: Sky{
			Top:    mgl32.Vec3{0.53, 0.81, 0.92},
			Bottom: mgl32.Vec3{0.87, 0.94, 1.0},
			MieG:   0.8,
		},
	}
}

// FromSun builds a light shining from the sun at the given angles.
func FromSun(longitude, latitude float32, color mgl32.Vec3) DirectionalLight {
	l := Default()
	l.Direction = SunDirection(longitude, latitude).Mul(-1)
	l.Color = color
	return l
}

// Normalized returns the unit light direction, or straight down for a zero
// direction.
func (l DirectionalLight) Normalized() mgl32.Vec3 {
	if l.Direction.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return l.Direction.Normalize()
}

// Angles returns the sun longitude and latitude for the light.
func (l DirectionalLight) Angles() (longitude, latitude float32) {
	return SunAngles(l.Direction.Mul(-1))
}

// SetAngles points the light from the sun at the given angles.
func (l *DirectionalLight) SetAngles(longitude, latitude float32) {
	l.Direction = SunDirection(longitude, latitude).Mul(-1)
}
