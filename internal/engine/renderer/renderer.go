// Package renderer drives the per-frame pass sequence: uniforms, shadow
// depth, sky background and the batched geometry pass.
package renderer

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/engine/batch"
	"github.com/Faultbox/hexview/internal/engine/camera"
	"github.com/Faultbox/hexview/internal/engine/ecs"
	"github.com/Faultbox/hexview/internal/engine/framebuffer"
	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/engine/lighting"
	"github.com/Faultbox/hexview/internal/engine/material"
	"github.com/Faultbox/hexview/internal/engine/shader"
	"github.com/Faultbox/hexview/internal/engine/shadow"
	"github.com/Faultbox/hexview/internal/engine/uniform"
	"github.com/Faultbox/hexview/internal/logger"
)

// ShadowUnit is the texture unit the shadow map is bound to during the
// geometry pass. Materials cannot claim it.
const ShadowUnit = material.ShadowUnit

// Surface is the window side of presentation.
type Surface interface {
	// FramebufferSize returns the drawable size of the window in pixels.
	FramebufferSize() (width, height int32)
	// Present shows the finished frame.
	Present()
}

// Frame is the per-frame input to Tick. It is read once and never stored.
type Frame struct {
	Wireframe bool

	Movement       camera.Movement
	MouseDX        float32
	MouseDY        float32
	Scroll         float32
	ConstrainPitch bool
}

// FrameStats describes what a Tick submitted.
type FrameStats struct {
	Items           int
	Batches         int
	Instances       int
	DrawCalls       int
	ShadowDrawCalls int
}

// Config holds the pipeline settings.
type Config struct {
	ClearColor mgl32.Vec3
	Shadow     shadow.Config
	Light      lighting.DirectionalLight
}

// DefaultConfig returns the stock settings.
func DefaultConfig() Config {
	return Config{
		ClearColor: mgl32.Vec3{0.08, 0.10, 0.12},
		Shadow:     shadow.DefaultConfig(),
		Light:      lighting.Default(),
	}
}

// Pipeline owns every GPU resource of the frame and renders the scene
// store into an off-screen target.
type Pipeline struct {
	dev     gpu.Device
	world   *ecs.World
	camera  *camera.Camera
	surface Surface

	shaders *shader.Library
	target  *framebuffer.Manager
	shadows *shadow.Map
	sync    *uniform.Sync
	skyVAO  gpu.VertexArray

	clearColor mgl32.Vec3
	light      lighting.DirectionalLight
	stats      FrameStats
}

// New compiles the built-in programs and allocates the off-screen target at
// the surface size.
func New(dev gpu.Device, world *ecs.World, cam *camera.Camera, surface Surface, cfg Config) (*Pipeline, error) {
	log := logger.Named("renderer")

	info := dev.Info()
	log.Info("renderer info",
		zap.String("version", info.Version),
		zap.String("glsl", info.GLSL),
		zap.String("gpu", info.Renderer),
		zap.String("vendor", info.Vendor))

	shaders := shader.NewLibrary(dev)
	if err := shaders.LoadBuiltin(); err != nil {
		shaders.Close()
		return nil, fmt.Errorf("loading shaders: %w", err)
	}
	shadowProgram, err := shaders.Get(shader.Shadow)
	if err != nil {
		shaders.Close()
		return nil, fmt.Errorf("loading shaders: %w", err)
	}

	p := &Pipeline{
		dev:        dev,
		world:      world,
		camera:     cam,
		surface:    surface,
		shaders:    shaders,
		target:     framebuffer.NewManager(dev, cam),
		shadows:    shadow.NewMap(dev, shadowProgram, cfg.Shadow),
		sync:       uniform.NewSync(dev),
		skyVAO:     dev.CreateVertexArray(nil, nil),
		clearColor: cfg.ClearColor,
		light:      cfg.Light,
	}
	if !p.skyVAO.Valid() {
		log.Error("failed to allocate sky vertex array")
	}

	w, h := surface.FramebufferSize()
	p.target.Init(w, h)
	return p, nil
}

// Tick advances the camera and renders one frame. Passes run in a fixed
// order and are never abandoned halfway.
func (p *Pipeline) Tick(dt float32, f Frame) FrameStats {
	p.advanceCamera(dt, f)

	width, height := p.surface.FramebufferSize()
	p.dev.BindFramebuffer(0)
	p.dev.Viewport(0, 0, width, height)
	p.dev.ClearColor(p.clearColor[0], p.clearColor[1], p.clearColor[2], 1)
	p.dev.Clear(gpu.ClearColor | gpu.ClearDepth)

	built := batch.Build(p.world)
	lightDir := p.light.Normalized()
	p.sync.Update(p.camera, lightDir, p.light.Color, f.Wireframe)

	stats := FrameStats{
		Items:     len(built.Items),
		Batches:   len(built.Batches),
		Instances: built.Instances(),
	}

	if !f.Wireframe {
		stats.ShadowDrawCalls = p.shadows.Render(built.Casters, lightDir, width, height)
	}

	p.target.Bind()
	if !f.Wireframe {
		p.drawSky(lightDir)
	}
	stats.DrawCalls = p.drawGeometry(built.Batches, f.Wireframe)
	p.target.Unbind()

	p.surface.Present()

	p.stats = stats
	return stats
}

func (p *Pipeline) advanceCamera(dt float32, f Frame) {
	if f.MouseDX != 0 || f.MouseDY != 0 {
		p.camera.ProcessMouseInput(f.MouseDX, f.MouseDY, f.ConstrainPitch)
	}
	if f.Scroll != 0 {
		p.camera.ProcessMouseScroll(f.Scroll)
	}
	if f.Movement != 0 {
		p.camera.ProcessKeyboard(f.Movement, dt)
	}
}

// Resize changes the off-screen target size. Non-positive sizes are ignored.
func (p *Pipeline) Resize(width, height int32) {
	p.target.Resize(width, height)
}

// ColorTexture returns the off-screen color attachment.
func (p *Pipeline) ColorTexture() uint32 { return p.target.ColorTexture() }

// ShadowTexture returns the shadow depth texture.
func (p *Pipeline) ShadowTexture() uint32 { return p.shadows.DepthTexture() }

// Target returns the off-screen target.
func (p *Pipeline) Target() *framebuffer.Manager { return p.target }

// Shadows returns the shadow map.
func (p *Pipeline) Shadows() *shadow.Map { return p.shadows }

// Camera returns the camera driven by Tick.
func (p *Pipeline) Camera() *camera.Camera { return p.camera }

// Light returns the directional light.
func (p *Pipeline) Light() lighting.DirectionalLight { return p.light }

// SetLight replaces the directional light from the next frame on.
func (p *Pipeline) SetLight(l lighting.DirectionalLight) { p.light = l }

// Uniforms returns the last uploaded RenderData block.
func (p *Pipeline) Uniforms() uniform.RenderData { return p.sync.Data() }

// Shaders returns the program library, for building materials.
func (p *Pipeline) Shaders() *shader.Library { return p.shaders }

// Stats returns the statistics of the last Tick.
func (p *Pipeline) Stats() FrameStats { return p.stats }

// Close releases every GPU resource the pipeline owns.
func (p *Pipeline) Close() {
	logger.Named("renderer").Info("closing renderer")
	if p.skyVAO.Valid() {
		p.dev.DeleteVertexArray(p.skyVAO)
		p.skyVAO = gpu.VertexArray{}
	}
	p.sync.Close()
	p.shadows.Destroy()
	p.target.Destroy()
	p.shaders.Close()
}
