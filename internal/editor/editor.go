// Package editor is the cimgui-go front end: the scene renders into a
// viewport panel next to metrics, scene and lighting tools.
package editor

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/app"
	"github.com/Faultbox/hexview/internal/config"
	"github.com/Faultbox/hexview/internal/engine/camera"
	"github.com/Faultbox/hexview/internal/engine/debug"
	"github.com/Faultbox/hexview/internal/engine/ecs"
	"github.com/Faultbox/hexview/internal/engine/material"
	"github.com/Faultbox/hexview/internal/engine/mesh"
	"github.com/Faultbox/hexview/internal/engine/renderer"
	"github.com/Faultbox/hexview/internal/engine/shader"
	"github.com/Faultbox/hexview/internal/engine/ui"
	"github.com/Faultbox/hexview/internal/logger"
)

// Editor owns the UI backend and the pipeline it displays.
type Editor struct {
	cfg     *config.Config
	session app.Session
	log     *zap.Logger

	backend   *ui.Backend
	world     *ecs.World
	meshes    *mesh.Library
	materials *material.Library
	pipeline  *renderer.Pipeline
	capture   *debug.ScreenshotCapture

	// Panel visibility
	showMetrics  bool
	showScene    bool
	showLighting bool
	wireframe    bool

	lastFrame time.Time
	history   *frameHistory
	preview   shadowPreview

	sunLon, sunLat float32
	fitToScene     bool
	selected       selection

	viewportHovered bool
	lastMouse       imgui.Vec2
	mouseDelta      mgl32.Vec2
	look            mgl32.Vec2 // right-drag delta this frame, in pixels

	// Written by the dialog goroutine, drained on the UI thread.
	savePaths chan string
	statusMsg string
	statusAt  time.Time
}

// New creates the window and pipeline and builds the demo scene.
func New(cfg *config.Config) (*Editor, error) {
	session := app.NewSession()
	e := &Editor{
		cfg:          cfg,
		session:      session,
		log:          logger.Named("editor").With(session.Field()),
		showMetrics:  true,
		showScene:    true,
		showLighting: true,
		wireframe:    cfg.Render.Wireframe,
		history:      newFrameHistory(120),
		preview:      newShadowPreview(),
		savePaths:    make(chan string, 1),
	}

	var err error
	e.backend, err = ui.NewBackend("hexeditor", int32(cfg.Graphics.Width), int32(cfg.Graphics.Height))
	if err != nil {
		return nil, fmt.Errorf("creating ui backend: %w", err)
	}
	if cfg.Graphics.FPSLimit > 0 {
		e.backend.SetTargetFPS(uint(cfg.Graphics.FPSLimit))
	}

	dev := e.backend.Device()
	e.world = ecs.NewWorld()
	e.pipeline, err = renderer.New(dev, e.world, camera.New(app.CameraConfig(cfg)), e.backend, app.PipelineConfig(cfg))
	if err != nil {
		e.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	e.meshes = mesh.NewLibrary(dev)
	e.materials = material.NewLibrary(dev)
	lit, err := e.pipeline.Shaders().Get(shader.Lit)
	if err != nil {
		e.Close()
		return nil, err
	}
	demo := app.BuildDemoScene(e.world, e.meshes, e.materials, lit, cfg.Scene)
	e.log.Info("demo scene built", zap.Int("entities", len(demo.Entities)))

	e.sunLon, e.sunLat = e.pipeline.Light().Angles()
	e.fitToScene = cfg.Shadow.FitToScene

	e.capture = debug.NewScreenshotCapture(cfg.Screenshot.Dir, "hexeditor_"+session.Short(), cfg.Screenshot.Format)
	return e, nil
}

// Run blocks until the window is closed.
func (e *Editor) Run() {
	e.lastFrame = time.Now()
	e.backend.Run(e.frame)
}

// frame builds the UI, then renders the scene. The UI is drawn by the
// backend after frame returns, so the viewport image shows this frame.
func (e *Editor) frame() {
	now := time.Now()
	dt := float32(now.Sub(e.lastFrame).Seconds())
	e.lastFrame = now
	e.history.add(dt * 1000)

	e.drainSaveRequests()
	e.handleShortcuts()

	mouse := imgui.MousePos()
	e.mouseDelta = mgl32.Vec2{mouse.X - e.lastMouse.X, mouse.Y - e.lastMouse.Y}
	e.lastMouse = mouse

	e.renderMenuBar()
	e.renderPanels()

	app.Animate(e.world, dt)
	e.pipeline.Tick(dt, e.frameInput())
}

// frameInput turns the viewport's mouse and keyboard state into camera
// input. Looking around requires dragging with the right mouse button.
func (e *Editor) frameInput() renderer.Frame {
	f := renderer.Frame{
		Wireframe:      e.wireframe,
		ConstrainPitch: e.cfg.Camera.ConstrainPitch,
	}
	if !e.viewportHovered {
		return f
	}

	f.Scroll = imgui.CurrentIO().MouseWheel()
	f.MouseDX, f.MouseDY = e.look[0], -e.look[1]
	for _, k := range movementKeys {
		if ui.IsKeyDown(k.key) {
			f.Movement |= k.move
		}
	}
	return f
}

var movementKeys = []struct {
	key  imgui.Key
	move camera.Movement
}{
	{imgui.KeyW, camera.MoveForward},
	{imgui.KeyS, camera.MoveBackward},
	{imgui.KeyA, camera.MoveLeft},
	{imgui.KeyD, camera.MoveRight},
	{imgui.KeySpace, camera.MoveUp},
	{imgui.KeyLeftCtrl, camera.MoveDown},
	{imgui.KeyLeftShift, camera.MoveBoost},
}

func (e *Editor) handleShortcuts() {
	if imgui.IsAnyItemActive() {
		return
	}
	if ui.IsKeyPressed(imgui.KeyF1) {
		e.wireframe = !e.wireframe
	}
	if ui.IsKeyPressed(imgui.KeyF12) {
		e.saveScreenshot("")
	}
}

// saveScreenshotAs asks for a path on a goroutine; the native dialog must
// not block the render loop.
func (e *Editor) saveScreenshotAs() {
	dir := e.cfg.Screenshot.Dir
	go func() {
		path, err := dialog.File().
			Filter("PNG Image", "png").
			Filter("BMP Image", "bmp").
			Title("Save Screenshot").
			SetStartDir(dir).
			Save()
		if err != nil {
			if err != dialog.ErrCancelled {
				e.log.Error("file dialog failed", zap.Error(err))
			}
			return
		}
		select {
		case e.savePaths <- path:
		default:
		}
	}()
}

func (e *Editor) drainSaveRequests() {
	select {
	case path := <-e.savePaths:
		e.saveScreenshot(path)
	default:
	}
}

// saveScreenshot writes the off-screen target to path, or to a generated
// name in the screenshot directory when path is empty.
func (e *Editor) saveScreenshot(path string) {
	target := e.pipeline.Target()
	w, h := target.Size()
	pixels := target.ReadPixels()

	var err error
	if path == "" {
		path, err = e.capture.CaptureFromPixels(pixels, int(w), int(h))
	} else {
		err = savePixels(path, pixels, int(w), int(h))
	}
	if err != nil {
		e.log.Error("screenshot failed", zap.Error(err))
		e.setStatus("Screenshot failed: " + err.Error())
		return
	}
	e.log.Info("screenshot saved", zap.String("path", path))
	e.setStatus("Saved " + filepath.Base(path))
}

func savePixels(path string, pixels []byte, width, height int) error {
	img, err := debug.FlipRGBA(pixels, width, height)
	if err != nil {
		return err
	}
	return debug.SaveImage(path, img)
}

func (e *Editor) setStatus(msg string) {
	e.statusMsg = msg
	e.statusAt = time.Now()
}

// Close releases GPU resources and, if Run never started, the window. It
// also unwinds a partially built editor when New fails.
func (e *Editor) Close() {
	e.log.Info("closing editor")
	if e.materials != nil {
		e.materials.Close()
	}
	if e.meshes != nil {
		e.meshes.Close()
	}
	if e.pipeline != nil {
		e.pipeline.Close()
	}
	e.backend.Close()
}
