// Package camera provides the first-person camera that drives the view and
// projection uniforms.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Limits on orientation and field of view, in degrees.
const (
	MaxPitch = 89.0
	MinZoom  = 1.0
	MaxZoom  = 90.0
)

// boostFactor multiplies movement speed while MoveBoost is held.
const boostFactor = 5.0

// Movement is a bitmask of movement keys held during a frame.
type Movement uint8

const (
	MoveForward Movement = 1 << iota
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
	MoveBoost
)

// Config holds the initial camera state. Angles are in degrees.
type Config struct {
	Position    mgl32.Vec3
	Yaw         float32
	Pitch       float32
	Zoom        float32 // vertical field of view
	AspectRatio float32
	Near        float32
	Far         float32
	Speed       float32 // units per second
	Sensitivity float32 // degrees per mouse unit
}

// DefaultConfig looks at the origin from above and to the side.
func DefaultConfig() Config {
	return Config{
		Position:    mgl32.Vec3{-10, 10, 10},
		Yaw:         -45,
		Pitch:       -20,
		Zoom:        60,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		Speed:       2.5,
		Sensitivity: 0.1,
	}
}

// Camera is a yaw/pitch first-person camera with a cached perspective projection.
type Camera struct {
	position mgl32.Vec3
	forward  mgl32.Vec3
	right    mgl32.Vec3
	up       mgl32.Vec3

	yaw, pitch  float32
	zoom        float32
	aspect      float32
	near, far   float32
	speed       float32
	sensitivity float32

	projection mgl32.Mat4
}

// New creates a camera with its basis vectors and projection already derived.
func New(cfg Config) *Camera {
	c := &Camera{
		position:    cfg.Position,
		yaw:         cfg.Yaw,
		pitch:       clampf(cfg.Pitch, -MaxPitch, MaxPitch),
		zoom:        clampf(cfg.Zoom, MinZoom, MaxZoom),
		aspect:      cfg.AspectRatio,
		near:        cfg.Near,
		far:         cfg.Far,
		speed:       cfg.Speed,
		sensitivity: cfg.Sensitivity,
	}
	if c.aspect <= 0 {
		c.aspect = 16.0 / 9.0
	}
	c.updateVectors()
	c.updateProjection()
	return c
}

// ViewMatrix looks from the camera position along the forward vector.
func (c *Camera) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.position, c.position.Add(c.forward), c.up)
}

// ProjectionMatrix returns the cached perspective projection.
func (c *Camera) ProjectionMatrix() mgl32.Mat4 {
	return c.projection
}

// SetAspectRatio rebuilds the projection for a new width/height ratio.
// Non-positive or non-finite ratios are ignored.
func (c *Camera) SetAspectRatio(aspect float32) {
	if !(aspect > 0) || math.IsInf(float64(aspect), 0) {
		return
	}
	c.aspect = aspect
	c.updateProjection()
}

// ProcessMouseInput turns the camera. Positive dy looks up.
func (c *Camera) ProcessMouseInput(dx, dy float32, constrainPitch bool) {
	c.yaw += dx * c.sensitivity
	c.pitch += dy * c.sensitivity

	if constrainPitch {
		c.pitch = clampf(c.pitch, -MaxPitch, MaxPitch)
	}
	c.updateVectors()
}

// ProcessMouseScroll zooms in for positive dy.
func (c *Camera) ProcessMouseScroll(dy float32) {
	c.zoom = clampf(c.zoom-dy, MinZoom, MaxZoom)
	c.updateProjection()
}

// ProcessKeyboard moves the camera along its basis for dt seconds.
func (c *Camera) ProcessKeyboard(m Movement, dt float32) {
	if m == 0 || dt <= 0 {
		return
	}
	velocity := c.speed * dt
	if m&MoveBoost != 0 {
		velocity *= boostFactor
	}

	var dir mgl32.Vec3
	if m&MoveForward != 0 {
		dir = dir.Add(c.forward)
	}
	if m&MoveBackward != 0 {
		dir = dir.Sub(c.forward)
	}
	if m&MoveRight != 0 {
		dir = dir.Add(c.right)
	}
	if m&MoveLeft != 0 {
		dir = dir.Sub(c.right)
	}
	if m&MoveUp != 0 {
		dir = dir.Add(c.up)
	}
	if m&MoveDown != 0 {
		dir = dir.Sub(c.up)
	}
	c.position = c.position.Add(dir.Mul(velocity))
}

var worldUp = mgl32.Vec3{0, 1, 0}

// updateVectors converts yaw/pitch to an orthonormal basis.
func (c *Camera) updateVectors() {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))

	c.forward = mgl32.Vec3{
		float32(math.Cos(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(math.Sin(yaw) * math.Cos(pitch)),
	}.Normalize()

	// Unconstrained pitch can pass straight up; keep the previous right vector.
	if r := c.forward.Cross(worldUp); r.Len() > 1e-6 {
		c.right = r.Normalize()
	} else if c.right.Len() == 0 {
		c.right = mgl32.Vec3{1, 0, 0}
	}
	c.up = c.right.Cross(c.forward).Normalize()
}

func (c *Camera) updateProjection() {
	c.projection = mgl32.Perspective(mgl32.DegToRad(c.zoom), c.aspect, c.near, c.far)
}

// Position returns the eye position.
func (c *Camera) Position() mgl32.Vec3 { return c.position }

// SetPosition moves the eye without changing orientation.
func (c *Camera) SetPosition(p mgl32.Vec3) { c.position = p }

func (c *Camera) Forward() mgl32.Vec3 { return c.forward }
func (c *Camera) Right() mgl32.Vec3   { return c.right }
func (c *Camera) Up() mgl32.Vec3      { return c.up }

// Yaw returns the heading in degrees.
func (c *Camera) Yaw() float32 { return c.yaw }

// Pitch returns the elevation in degrees.
func (c *Camera) Pitch() float32 { return c.pitch }

// Zoom returns the vertical field of view in degrees.
func (c *Camera) Zoom() float32 { return c.zoom }

// AspectRatio returns the current width/height ratio.
func (c *Camera) AspectRatio() float32 { return c.aspect }

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
