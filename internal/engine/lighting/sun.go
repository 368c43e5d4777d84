// Package lighting holds the scene's directional light.
package lighting

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// SunDirection converts longitude/latitude angles in degrees to a unit
// vector pointing towards the sun. Longitude rotates around Y, latitude is
// the elevation above the horizon.
func SunDirection(longitude, latitude float32) mgl32.Vec3 {
	lonRad := float64(mgl32.DegToRad(longitude))
	latRad := float64(mgl32.DegToRad(latitude))

	x := float32(math.Cos(latRad) * math.Sin(lonRad))
	y := float32(math.Sin(latRad))
	z := float32(math.Cos(latRad) * math.Cos(lonRad))

	return mgl32.Vec3{x, y, z}
}

// SunAngles is the inverse of SunDirection. A zero vector yields (0, 0).
func SunAngles(toSun mgl32.Vec3) (longitude, latitude float32) {
	if toSun.Len() == 0 {
		return 0, 0
	}
	toSun = toSun.Normalize()
	latitude = mgl32.RadToDeg(float32(math.Asin(float64(mgl32.Clamp(toSun.Y(), -1, 1)))))
	longitude = mgl32.RadToDeg(float32(math.Atan2(float64(toSun.X()), float64(toSun.Z()))))
	return longitude, latitude
}
