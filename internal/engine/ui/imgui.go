// Package ui wraps the cimgui-go SDL backend that hosts the editor.
package ui

import (
	"fmt"

	"github.com/AllenDang/cimgui-go/backend"
	"github.com/AllenDang/cimgui-go/backend/sdlbackend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/logger"
)

// Backend owns the SDL window, the GL context and the ImGui context. It
// also serves as the pipeline's presentation surface: the backend swaps
// buffers itself after drawing the UI.
type Backend struct {
	backend backend.Backend[sdlbackend.SDLWindowFlags]
	device  *gpu.GL
	width   int32
	height  int32
	closed  bool
}

// NewBackend creates the window and loads OpenGL for its context.
func NewBackend(title string, width, height int32) (*Backend, error) {
	b := &Backend{
		width:  width,
		height: height,
	}

	var err error
	b.backend, err = backend.CreateBackend(sdlbackend.NewSDLBackend())
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	b.backend.SetBgColor(imgui.NewVec4(0.08, 0.10, 0.12, 1.0))
	b.backend.CreateWindow(title, int(width), int(height))

	b.device, err = gpu.NewGL()
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("init opengl: %w", err)
	}

	logger.Named("ui").Info("ui backend created",
		zap.String("title", title), zap.Int32("width", width), zap.Int32("height", height))
	return b, nil
}

// Device returns the GL device bound to the backend's context.
func (b *Backend) Device() *gpu.GL {
	return b.device
}

// Run starts the main render loop. loop is called once per UI frame. The
// window and both contexts are destroyed when it returns.
func (b *Backend) Run(loop func()) {
	b.backend.Run(loop)
	b.closed = true
}

// Close destroys a backend whose loop never ran. The SDL backend only tears
// down inside its run loop, so Close queues a quit and runs a single empty
// frame. It is a no-op after Run.
func (b *Backend) Close() {
	if b == nil || b.closed {
		return
	}
	b.closed = true
	b.requestQuit()
	b.backend.Run(func() {})
	logger.Named("ui").Info("ui backend closed")
}

// SetWindowTitle updates the window title.
func (b *Backend) SetWindowTitle(title string) {
	b.backend.SetWindowTitle(title)
}

// SetTargetFPS caps the frame rate; 0 removes the cap.
func (b *Backend) SetTargetFPS(fps uint) {
	b.backend.SetTargetFPS(fps)
}

// SetShouldClose asks the loop to exit after the current frame. The SDL
// backend ignores its own flag, so a quit event is queued as well.
func (b *Backend) SetShouldClose(close bool) {
	b.backend.SetShouldClose(close)
	if close {
		b.requestQuit()
	}
}

func (b *Backend) requestQuit() {
	if _, err := sdl.PushEvent(&sdl.QuitEvent{Type: sdl.QUIT}); err != nil {
		logger.Named("ui").Warn("queueing quit event failed", zap.Error(err))
	}
}

// FramebufferSize returns the window size in pixels, falling back to the
// creation size before the first frame.
func (b *Backend) FramebufferSize() (int32, int32) {
	io := imgui.CurrentIO()
	size := io.DisplaySize()
	scale := io.DisplayFramebufferScale()
	w, h := int32(size.X*scale.X), int32(size.Y*scale.Y)
	if w <= 0 || h <= 0 {
		return b.width, b.height
	}
	return w, h
}

// Present is a no-op; the backend presents after rendering the UI.
func (b *Backend) Present() {}

// GetViewport returns the main viewport work area.
func (b *Backend) GetViewport() (posX, posY, width, height float32) {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()
	return workPos.X, workPos.Y, workSize.X, workSize.Y
}

// Image draws a GL texture. Render targets have their origin at the bottom
// left, so flipV should be set for them.
func Image(texture uint32, width, height float32, flipV bool) {
	uv0, uv1 := imgui.NewVec2(0, 0), imgui.NewVec2(1, 1)
	if flipV {
		uv0, uv1 = imgui.NewVec2(0, 1), imgui.NewVec2(1, 0)
	}
	ImageUV(texture, width, height, uv0, uv1)
}

// ImageUV draws a sub-rectangle of a GL texture.
func ImageUV(texture uint32, width, height float32, uv0, uv1 imgui.Vec2) {
	texRef := imgui.NewTextureRefTextureID(imgui.TextureID(texture))
	imgui.ImageWithBgV(
		*texRef,
		imgui.NewVec2(width, height),
		uv0,
		uv1,
		imgui.NewVec4(0.15, 0.15, 0.15, 1.0),
		imgui.NewVec4(1, 1, 1, 1),
	)
}

// IsKeyPressed checks if a key was pressed this frame.
func IsKeyPressed(key imgui.Key) bool {
	return imgui.IsKeyChordPressed(imgui.KeyChord(key))
}

// IsKeyDown checks if a key is currently held down.
func IsKeyDown(key imgui.Key) bool {
	return imgui.IsKeyDown(key)
}
