// Package shadow renders the directional light's depth map.
package shadow

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/engine/batch"
	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/engine/shader"
	"github.com/Faultbox/hexview/internal/logger"
)

// Default settings.
const (
	DefaultResolution = 2048
	DefaultRadius     = 10
	DefaultBiasFactor = 2
	DefaultBiasUnits  = 4
)

// Config controls the shadow map.
type Config struct {
	Resolution int32
	// Radius is the half-extent of the light volume around the origin.
	Radius float32
	// FitToScene derives center and radius from the caster bounds each frame.
	FitToScene bool
	BiasFactor float32
	BiasUnits  float32
}

// DefaultConfig returns the fixed-radius configuration.
func DefaultConfig() Config {
	return Config{
		Resolution: DefaultResolution,
		Radius:     DefaultRadius,
		BiasFactor: DefaultBiasFactor,
		BiasUnits:  DefaultBiasUnits,
	}
}

// Map is a depth-only render target plus the light matrices of the last
// Render. Its resolution never changes.
type Map struct {
	dev     gpu.Device
	program *shader.Program
	cfg     Config

	fbo          uint32
	depthTexture uint32

	lightView       mgl32.Mat4
	lightProjection mgl32.Mat4
}

// NewMap allocates the depth texture and framebuffer. Allocation failures
// are logged; Render then skips drawing.
func NewMap(dev gpu.Device, program *shader.Program, cfg Config) *Map {
	log := logger.Named("shadow")
	if cfg.Resolution <= 0 {
		cfg.Resolution = DefaultResolution
	}
	if cfg.Radius <= 0 {
		cfg.Radius = DefaultRadius
	}

	m := &Map{
		dev:             dev,
		program:         program,
		cfg:             cfg,
		lightView:       mgl32.Ident4(),
		lightProjection: LightProjection(cfg.Radius),
	}

	m.fbo = dev.CreateFramebuffer()
	m.depthTexture = dev.CreateDepthTexture(cfg.Resolution)
	if m.fbo == 0 || m.depthTexture == 0 {
		log.Error("shadow map allocation failed",
			zap.Uint32("fbo", m.fbo), zap.Uint32("depth", m.depthTexture))
		return m
	}

	dev.AttachDepthTexture(m.fbo, m.depthTexture)
	dev.DisableColorBuffers(m.fbo)
	if status := dev.FramebufferStatus(m.fbo); status != gpu.FramebufferComplete {
		log.Error("shadow framebuffer incomplete",
			zap.Stringer("status", status), zap.String("reason", status.Reason()))
	}
	dev.BindFramebuffer(0)

	log.Debug("shadow map created", zap.Int32("resolution", cfg.Resolution))
	return m
}

// Valid reports whether the target and the depth program exist.
func (m *Map) Valid() bool {
	return m != nil && m.fbo != 0 && m.depthTexture != 0 && m.program.Valid()
}

// Render draws the casters' depth from the light and returns the number of
// draw calls. lightDir points from the light into the scene. On return the
// window framebuffer is bound with a width x height viewport, back faces are
// culled with culling disabled, polygon offset is off and color writes are
// on, whether or not anything was drawn.
func (m *Map) Render(items []batch.DrawItem, lightDir mgl32.Vec3, width, height int32) int {
	defer m.restore(width, height)

	center, radius := mgl32.Vec3{}, m.cfg.Radius
	if m.cfg.FitToScene {
		center, radius = Fit(batch.Bounds(items), m.cfg.Radius)
	}
	m.lightView = LightView(lightDir, center, radius)
	m.lightProjection = LightProjection(radius)

	if !m.Valid() {
		return 0
	}

	m.dev.BindFramebuffer(m.fbo)
	m.dev.Viewport(0, 0, m.cfg.Resolution, m.cfg.Resolution)
	m.dev.Clear(gpu.ClearDepth)
	m.dev.Enable(gpu.DepthTest)
	m.dev.Enable(gpu.CullFace)
	m.dev.CullFace(gpu.FaceFront)
	m.dev.Enable(gpu.PolygonOffsetFill)
	m.dev.PolygonOffset(m.cfg.BiasFactor, m.cfg.BiasUnits)
	m.dev.ColorMask(false)

	if len(items) == 0 {
		return 0
	}

	m.program.Use()
	m.program.SetMat4("light_view", m.lightView)
	m.program.SetMat4("light_projection", m.lightProjection)

	draws := 0
	for _, b := range batch.GroupByMesh(items) {
		if !b.Mesh.Drawable() {
			continue
		}
		// The geometry pass uploads this mesh's instances again after the
		// shadow draw; nothing reads the buffer across passes.
		m.dev.UploadInstances(b.Mesh.VertexArray.InstanceVBO, b.Instances)
		m.dev.DrawElementsInstanced(b.Mesh.VertexArray.VAO, b.Mesh.IndexCount, int32(len(b.Instances)))
		draws++
	}
	return draws
}

func (m *Map) restore(width, height int32) {
	m.dev.ColorMask(true)
	m.dev.Disable(gpu.PolygonOffsetFill)
	m.dev.CullFace(gpu.FaceBack)
	m.dev.Disable(gpu.CullFace)
	m.dev.BindFramebuffer(0)
	m.dev.Viewport(0, 0, width, height)
}

// LightView returns the view matrix of the last Render.
func (m *Map) LightView() mgl32.Mat4 { return m.lightView }

// LightProjection returns the projection matrix of the last Render.
func (m *Map) LightProjection() mgl32.Mat4 { return m.lightProjection }

// LightSpace returns LightProjection * LightView.
func (m *Map) LightSpace() mgl32.Mat4 { return m.lightProjection.Mul4(m.lightView) }

// DepthTexture returns the depth texture for sampling and debug display.
func (m *Map) DepthTexture() uint32 { return m.depthTexture }

// Resolution returns the side length of the depth texture.
func (m *Map) Resolution() int32 { return m.cfg.Resolution }

// Config returns the active settings.
func (m *Map) Config() Config { return m.cfg }

// SetFitToScene toggles deriving the light volume from caster bounds.
func (m *Map) SetFitToScene(fit bool) { m.cfg.FitToScene = fit }

// Destroy releases the GPU resources.
func (m *Map) Destroy() {
	if m.fbo != 0 {
		m.dev.DeleteFramebuffer(m.fbo)
		m.fbo = 0
	}
	if m.depthTexture != 0 {
		m.dev.DeleteTexture(m.depthTexture)
		m.depthTexture = 0
	}
}
