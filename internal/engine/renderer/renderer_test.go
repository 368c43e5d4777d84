package renderer

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/camera"
	"github.com/Faultbox/hexview/internal/engine/ecs"
	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/engine/gpu/gputest"
	"github.com/Faultbox/hexview/internal/engine/material"
	"github.com/Faultbox/hexview/internal/engine/mesh"
	"github.com/Faultbox/hexview/internal/engine/scene"
	"github.com/Faultbox/hexview/internal/engine/shader"
)

type fakeSurface struct {
	dev      *gputest.Recorder
	w, h     int32
	presents []int // call log length at each Present
}

func (s *fakeSurface) FramebufferSize() (int32, int32) { return s.w, s.h }
func (s *fakeSurface) Present()                        { s.presents = append(s.presents, len(s.dev.Calls)) }

type harness struct {
	dev       *gputest.Recorder
	surface   *fakeSurface
	world     *ecs.World
	pipeline  *Pipeline
	meshes    *mesh.Library
	materials *material.Library
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dev := gputest.NewRecorder()
	surface := &fakeSurface{dev: dev, w: 1280, h: 720}
	world := ecs.NewWorld()
	cam := camera.New(camera.DefaultConfig())

	p, err := New(dev, world, cam, surface, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(p.Close)

	return &harness{
		dev:       dev,
		surface:   surface,
		world:     world,
		pipeline:  p,
		meshes:    mesh.NewLibrary(dev),
		materials: material.NewLibrary(dev),
	}
}

func (h *harness) litMaterial(name string) *material.Material {
	return h.materials.Create(name, h.pipeline.Shaders().MustGet(shader.Lit))
}

func (h *harness) spawn(t scene.Transform, m *mesh.Mesh, mat *material.Material) {
	e := h.world.Spawn()
	ecs.Add(h.world, e, t)
	ecs.Add(h.world, e, scene.MeshRef{Mesh: m})
	if mat != nil {
		ecs.Add(h.world, e, scene.MaterialRef{Material: mat})
	}
}

func TestNewCompileFailure(t *testing.T) {
	dev := gputest.NewRecorder()
	dev.CompileErr = errors.New("syntax error")
	surface := &fakeSurface{dev: dev, w: 10, h: 10}

	_, err := New(dev, ecs.NewWorld(), camera.New(camera.DefaultConfig()), surface, DefaultConfig())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, dev.CompileErr) {
		t.Errorf("expected wrapped compile error, got %v", err)
	}
}

func TestNewSizesTargetAndCamera(t *testing.T) {
	h := newHarness(t)
	w, ht := h.pipeline.Target().Size()
	if w != 1280 || ht != 720 {
		t.Errorf("expected 1280x720 target, got %dx%d", w, ht)
	}
	if got := h.pipeline.Camera().AspectRatio(); !mgl32.FloatEqual(got, 1280.0/720.0) {
		t.Errorf("camera aspect not updated: %g", got)
	}
	if h.pipeline.ColorTexture() == 0 || h.pipeline.ShadowTexture() == 0 {
		t.Error("expected allocated textures")
	}
}

func TestTickEmptySceneOnlyClears(t *testing.T) {
	h := newHarness(t)
	h.dev.Reset()

	stats := h.pipeline.Tick(0.016, Frame{})

	if stats != (FrameStats{}) {
		t.Errorf("expected zero stats, got %+v", stats)
	}
	if n := h.dev.Count("DrawElementsInstanced") + h.dev.Count("UploadInstances"); n != 0 {
		t.Errorf("empty scene issued %d batch calls: %v", n, h.dev.Names())
	}
	if h.dev.Count("Clear") < 3 {
		t.Errorf("expected window, shadow and target clears, got %d", h.dev.Count("Clear"))
	}
	if len(h.surface.presents) != 1 {
		t.Errorf("expected one present, got %d", len(h.surface.presents))
	}
}

func TestTickSharedMeshAndMaterialIsOneBatch(t *testing.T) {
	h := newHarness(t)
	m := h.meshes.Cube("M", 1, mgl32.Vec3{1, 1, 1})
	a := h.litMaterial("A")
	moved := scene.At(mgl32.Vec3{4, 0, 0})
	h.spawn(scene.Identity(), m, a)
	h.spawn(moved, m, a)
	h.dev.Reset()

	stats := h.pipeline.Tick(0.016, Frame{})

	if stats.Batches != 1 || stats.Instances != 2 || stats.DrawCalls != 1 || stats.ShadowDrawCalls != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
	got := h.dev.Instances(m.VertexArray.InstanceVBO)
	if len(got) != 2 || got[0] != mgl32.Ident4() || got[1] != moved.Matrix() {
		t.Errorf("expected [identity, T], got %v", got)
	}
	draws := h.dev.Find("DrawElementsInstanced")
	last := draws[len(draws)-1]
	if last.Args[0] != m.VertexArray.VAO || last.Args[1] != int32(36) || last.Args[2] != int32(2) {
		t.Errorf("unexpected geometry draw %v", last)
	}
}

func TestTickPassOrder(t *testing.T) {
	h := newHarness(t)
	m := h.meshes.Cube("M", 1, mgl32.Vec3{1, 1, 1})
	h.spawn(scene.Identity(), m, h.litMaterial("A"))
	h.dev.Reset()

	h.pipeline.Tick(0.016, Frame{})

	names := h.dev.Names()
	uniforms := h.dev.Index("UpdateUniformBuffer")
	shadowOff := indexAfter(names, "ColorMask", 0)
	targetBind := indexOfBind(h.dev, h.pipeline.Target().FBO())
	sky := h.dev.Index("DrawArrays")
	geometry := lastIndex(names, "DrawElementsInstanced")
	unbind := lastIndex(names, "BindFramebuffer")

	order := []int{0, uniforms, shadowOff, targetBind, sky, geometry, unbind, h.surface.presents[0]}
	for i := 1; i < len(order); i++ {
		if order[i] < 0 || order[i] <= order[i-1] {
			t.Fatalf("passes out of order: %v in %v", order, names)
		}
	}
	if names[0] != "BindFramebuffer" || h.dev.Calls[0].Args[0] != uint32(0) {
		t.Errorf("frame should start by binding the window framebuffer, got %v", h.dev.Calls[0])
	}

	// The shadow map is sampled from its fixed unit.
	var bound bool
	for _, c := range h.dev.Find("BindTextureUnit") {
		if c.Args[0] == uint32(ShadowUnit) && c.Args[1] == h.pipeline.ShadowTexture() {
			bound = true
		}
	}
	if !bound {
		t.Error("shadow map not bound to its texture unit")
	}
}

func TestTickWireframeSkipsShadowAndSky(t *testing.T) {
	h := newHarness(t)
	m := h.meshes.Cube("M", 1, mgl32.Vec3{1, 1, 1})
	h.spawn(scene.Identity(), m, h.litMaterial("A"))
	h.dev.Reset()

	stats := h.pipeline.Tick(0.016, Frame{Wireframe: true})

	if stats.ShadowDrawCalls != 0 || stats.DrawCalls != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
	if h.dev.Count("DrawArrays") != 0 {
		t.Error("sky pass ran in wireframe mode")
	}
	if h.dev.Count("DrawElementsInstanced") != 1 {
		t.Errorf("expected only the geometry draw, got %d", h.dev.Count("DrawElementsInstanced"))
	}
	for _, c := range h.dev.Find("BindFramebuffer") {
		if c.Args[0] != uint32(0) && c.Args[0] != h.pipeline.Target().FBO() {
			t.Errorf("shadow framebuffer bound in wireframe mode: %v", c)
		}
	}

	modes := h.dev.Find("PolygonMode")
	if len(modes) != 2 || modes[0].Args[0] != gpu.PolygonLine || modes[1].Args[0] != gpu.PolygonFill {
		t.Fatalf("expected Line then Fill, got %v", modes)
	}
	draw := h.dev.Index("DrawElementsInstanced")
	if line := h.dev.Index("PolygonMode"); line > draw {
		t.Error("line mode set after the draw")
	}
	if h.pipeline.Uniforms().Wireframe != 1 {
		t.Error("wireframe flag not uploaded")
	}

	// Mode is read fresh every frame.
	h.dev.Reset()
	h.pipeline.Tick(0.016, Frame{})
	if h.dev.Count("PolygonMode") != 0 || h.dev.Count("DrawArrays") != 1 {
		t.Errorf("shaded frame after wireframe: %v", h.dev.Names())
	}
	if h.pipeline.Uniforms().Wireframe != 0 {
		t.Error("wireframe flag not cleared")
	}
}

func TestTickSkipsInvalidBatches(t *testing.T) {
	h := newHarness(t)
	good := h.meshes.Cube("good", 1, mgl32.Vec3{1, 1, 1})
	broken := &mesh.Mesh{Name: "broken"}
	noProgram := h.materials.Create("none", nil)

	h.spawn(scene.Identity(), good, h.litMaterial("A"))
	h.spawn(scene.Identity(), broken, h.litMaterial("B"))
	h.spawn(scene.Identity(), good, noProgram)
	h.dev.Reset()

	stats := h.pipeline.Tick(0.016, Frame{})
	if stats.Batches != 3 || stats.DrawCalls != 1 {
		t.Errorf("expected 3 batches and 1 draw, got %+v", stats)
	}
}

func TestTickShadowOnlyCasters(t *testing.T) {
	h := newHarness(t)
	m := h.meshes.Cube("M", 1, mgl32.Vec3{1, 1, 1})
	h.spawn(scene.Identity(), m, nil)
	h.dev.Reset()

	stats := h.pipeline.Tick(0.016, Frame{})
	if stats.Batches != 0 || stats.DrawCalls != 0 || stats.ShadowDrawCalls != 1 {
		t.Errorf("unexpected stats %+v", stats)
	}
}

func TestTickAdvancesCamera(t *testing.T) {
	h := newHarness(t)
	cam := h.pipeline.Camera()
	start := cam.Position()
	yaw := cam.Yaw()

	h.pipeline.Tick(0.5, Frame{Movement: camera.MoveForward, MouseDX: 10, ConstrainPitch: true})

	if cam.Position() == start {
		t.Error("camera did not move")
	}
	if cam.Yaw() == yaw {
		t.Error("camera did not turn")
	}
	if got := h.pipeline.Uniforms().ViewPos; got != cam.Position() {
		t.Errorf("uniforms not synced to camera: %v vs %v", got, cam.Position())
	}
}

func TestResize(t *testing.T) {
	h := newHarness(t)
	before := h.pipeline.ColorTexture()

	h.pipeline.Resize(0, 300)
	if h.pipeline.ColorTexture() != before {
		t.Error("invalid resize replaced the target")
	}

	h.pipeline.Resize(400, 400)
	if h.pipeline.ColorTexture() == before {
		t.Error("resize kept the old target")
	}
	if got := h.pipeline.Camera().AspectRatio(); got != 1 {
		t.Errorf("expected aspect 1, got %g", got)
	}
}

func TestCloseReleasesResources(t *testing.T) {
	dev := gputest.NewRecorder()
	surface := &fakeSurface{dev: dev, w: 64, h: 64}
	p, err := New(dev, ecs.NewWorld(), camera.New(camera.DefaultConfig()), surface, DefaultConfig())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	p.Close()
	for _, kind := range []string{"framebuffer", "texture", "renderbuffer", "buffer", "vertexarray", "program"} {
		if n := dev.Live(kind); n != 0 {
			t.Errorf("%d %s handles leaked", n, kind)
		}
	}
}

func indexAfter(names []string, name string, from int) int {
	for i := from; i < len(names); i++ {
		if names[i] == name {
			return i
		}
	}
	return -1
}

func lastIndex(names []string, name string) int {
	for i := len(names) - 1; i >= 0; i-- {
		if names[i] == name {
			return i
		}
	}
	return -1
}

func indexOfBind(dev *gputest.Recorder, fbo uint32) int {
	for i, c := range dev.Calls {
		if c.Name == "BindFramebuffer" && c.Args[0] == fbo {
			return i
		}
	}
	return -1
}
