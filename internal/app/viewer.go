// Package app runs the SDL2 viewer: a window, the render pipeline and the
// generated demo scene.
package app

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/config"
	"github.com/Faultbox/hexview/internal/engine/camera"
	"github.com/Faultbox/hexview/internal/engine/debug"
	"github.com/Faultbox/hexview/internal/engine/ecs"
	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/engine/input"
	"github.com/Faultbox/hexview/internal/engine/material"
	"github.com/Faultbox/hexview/internal/engine/mesh"
	"github.com/Faultbox/hexview/internal/engine/renderer"
	"github.com/Faultbox/hexview/internal/engine/shader"
	"github.com/Faultbox/hexview/internal/engine/window"
	"github.com/Faultbox/hexview/internal/logger"
)

// Viewer is the standalone viewer application.
type Viewer struct {
	cfg     *config.Config
	session Session
	log     *zap.Logger

	window    *window.Window
	input     *input.Input
	world     *ecs.World
	meshes    *mesh.Library
	materials *material.Library
	pipeline  *renderer.Pipeline
	capture   *debug.ScreenshotCapture

	running       bool
	wireframe     bool
	mouseCaptured bool
}

// windowSurface presents by blitting the off-screen target into the window.
type windowSurface struct {
	v *Viewer
}

func (s windowSurface) FramebufferSize() (int32, int32) {
	return s.v.window.FramebufferSize()
}

func (s windowSurface) Present() {
	if s.v.pipeline != nil {
		s.v.pipeline.Target().BlitTo(s.v.window.FramebufferSize())
	}
	s.v.window.SwapBuffers()
}

// NewViewer creates the window, the GL context and the pipeline, and fills
// the scene store with the demo scene.
func NewViewer(cfg *config.Config) (*Viewer, error) {
	session := NewSession()
	v := &Viewer{
		cfg:       cfg,
		session:   session,
		log:       logger.Named("viewer").With(session.Field()),
		wireframe: cfg.Render.Wireframe,
	}
	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height))

	var err error
	v.window, err = window.New(window.Config{
		Title:      "hexview",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	dev, err := gpu.NewGL()
	if err != nil {
		v.window.Close()
		return nil, err
	}

	v.world = ecs.NewWorld()
	cam := camera.New(CameraConfig(cfg))
	v.pipeline, err = renderer.New(dev, v.world, cam, windowSurface{v: v}, PipelineConfig(cfg))
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("creating renderer: %w", err)
	}

	v.meshes = mesh.NewLibrary(dev)
	v.materials = material.NewLibrary(dev)
	lit, err := v.pipeline.Shaders().Get(shader.Lit)
	if err != nil {
		v.Close()
		return nil, err
	}
	demo := BuildDemoScene(v.world, v.meshes, v.materials, lit, cfg.Scene)
	v.log.Info("demo scene built", zap.Int("entities", len(demo.Entities)), zap.Int("meshes", v.meshes.Len()))

	v.input = input.New()
	v.capture = debug.NewScreenshotCapture(cfg.Screenshot.Dir, "hexview_"+session.Short(), cfg.Screenshot.Format)
	v.setMouseCaptured(true)

	return v, nil
}

// Run drives frames until the window closes or Escape is pressed. The
// close signal is checked at the top of each frame only.
func (v *Viewer) Run() error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()
	var frameBudget time.Duration
	if v.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	v.log.Info("starting render loop")

	for v.running {
		frameStart := time.Now()
		dt := float32(frameStart.Sub(lastTime).Seconds())
		lastTime = frameStart

		if v.input.Update() {
			break
		}
		screenshot := v.handleEvents()
		if !v.running {
			break
		}

		Animate(v.world, dt)

		frame := renderer.Frame{
			Wireframe:      v.wireframe,
			Movement:       v.input.Movement(),
			Scroll:         v.input.Scroll(),
			ConstrainPitch: v.cfg.Camera.ConstrainPitch,
		}
		if v.mouseCaptured {
			frame.MouseDX, frame.MouseDY = v.input.MouseDelta()
		}
		stats := v.pipeline.Tick(dt, frame)

		if screenshot {
			v.saveScreenshot()
		}

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.window.SetTitle(fmt.Sprintf("hexview | %d fps | %d batches | %d draws | %d shadow draws",
				frameCount, stats.Batches, stats.DrawCalls, stats.ShadowDrawCalls))
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("instances", stats.Instances),
				zap.Float32("dt_ms", dt*1000))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if rest := frameBudget - time.Since(frameStart); rest > 0 {
				time.Sleep(rest)
			}
		}
	}

	return nil
}

// handleEvents applies window and key events. It reports whether a
// screenshot was requested.
func (v *Viewer) handleEvents() bool {
	screenshot := false
	for _, event := range v.input.Events() {
		switch event.Type {
		case input.EventQuit:
			v.running = false
		case input.EventWindowResize:
			v.pipeline.Resize(v.window.FramebufferSize())
		case input.EventKeyDown:
			if event.Repeat {
				continue
			}
			switch event.Key {
			case sdl.SCANCODE_ESCAPE:
				v.running = false
			case sdl.SCANCODE_F1:
				v.wireframe = !v.wireframe
				v.log.Info("wireframe toggled", zap.Bool("on", v.wireframe))
			case sdl.SCANCODE_TAB:
				v.setMouseCaptured(!v.mouseCaptured)
			case sdl.SCANCODE_F12:
				screenshot = true
			}
		}
	}
	return screenshot
}

func (v *Viewer) setMouseCaptured(on bool) {
	v.mouseCaptured = on
	v.window.SetRelativeMouse(on)
}

func (v *Viewer) saveScreenshot() {
	w, h := v.pipeline.Target().Size()
	path, err := v.capture.CaptureFromPixels(v.pipeline.Target().ReadPixels(), int(w), int(h))
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

// Close releases GPU resources, then the window.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.materials != nil {
		v.materials.Close()
	}
	if v.meshes != nil {
		v.meshes.Close()
	}
	if v.pipeline != nil {
		v.pipeline.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}
