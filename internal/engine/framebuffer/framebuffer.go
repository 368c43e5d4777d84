// Package framebuffer manages the off-screen color + depth-stencil target the
// scene is rendered into.
package framebuffer

import (
	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/logger"
)

// AspectSetter receives the aspect ratio of the target after every resize.
type AspectSetter interface {
	SetAspectRatio(aspect float32)
}

// Manager owns the off-screen target. The fbo, color texture and
// renderbuffer are always replaced together.
type Manager struct {
	dev    gpu.Device
	aspect AspectSetter

	fbo          uint32
	colorTexture uint32
	depthRBO     uint32
	width        int32
	height       int32
	status       gpu.FramebufferStatus

	// Size of the last allocation that came back empty. Retried only when
	// a different size is requested.
	failedWidth  int32
	failedHeight int32
}

// NewManager creates a manager with nothing allocated. aspect may be nil.
func NewManager(dev gpu.Device, aspect AspectSetter) *Manager {
	return &Manager{dev: dev, aspect: aspect}
}

// Init allocates the target at the given size.
func (m *Manager) Init(width, height int32) {
	m.recreate(width, height)
}

// Resize reallocates the target if the size changed. Non-positive sizes
// are logged and ignored.
func (m *Manager) Resize(width, height int32) {
	if width == m.width && height == m.height && m.fbo != 0 {
		return
	}
	if width == m.failedWidth && height == m.failedHeight {
		return
	}
	m.recreate(width, height)
}

func (m *Manager) recreate(width, height int32) {
	log := logger.Named("framebuffer")
	if width <= 0 || height <= 0 {
		log.Warn("ignoring invalid framebuffer size",
			zap.Int32("width", width), zap.Int32("height", height))
		return
	}

	m.release()

	m.width, m.height = width, height
	m.fbo = m.dev.CreateFramebuffer()
	m.colorTexture = m.dev.CreateColorTexture(width, height)
	m.depthRBO = m.dev.CreateDepthStencilRenderbuffer(width, height)

	m.failedWidth, m.failedHeight = 0, 0
	if m.fbo == 0 || m.colorTexture == 0 || m.depthRBO == 0 {
		m.failedWidth, m.failedHeight = width, height
		log.Error("framebuffer allocation failed",
			zap.Uint32("fbo", m.fbo),
			zap.Uint32("color", m.colorTexture),
			zap.Uint32("depth_stencil", m.depthRBO))
	}

	if m.fbo != 0 {
		m.dev.AttachColorTexture(m.fbo, m.colorTexture)
		m.dev.AttachDepthStencilRenderbuffer(m.fbo, m.depthRBO)
		m.status = m.dev.FramebufferStatus(m.fbo)
		if m.status != gpu.FramebufferComplete {
			// Rendering continues into the incomplete target.
			log.Error("framebuffer incomplete",
				zap.Stringer("status", m.status),
				zap.String("reason", m.status.Reason()),
				zap.Int32("width", width), zap.Int32("height", height))
		}
		m.dev.BindFramebuffer(0)
	}

	if m.aspect != nil {
		m.aspect.SetAspectRatio(float32(width) / float32(height))
	}

	log.Debug("framebuffer created",
		zap.Int32("width", width), zap.Int32("height", height),
		zap.Uint32("fbo", m.fbo))
}

func (m *Manager) release() {
	if m.fbo != 0 {
		m.dev.DeleteFramebuffer(m.fbo)
		m.fbo = 0
	}
	if m.colorTexture != 0 {
		m.dev.DeleteTexture(m.colorTexture)
		m.colorTexture = 0
	}
	if m.depthRBO != 0 {
		m.dev.DeleteRenderbuffer(m.depthRBO)
		m.depthRBO = 0
	}
}

// Bind makes the target current, sets the viewport, clears it to black and
// enables depth testing.
func (m *Manager) Bind() {
	m.dev.BindFramebuffer(m.fbo)
	m.dev.Viewport(0, 0, m.width, m.height)
	m.dev.ClearColor(0, 0, 0, 1)
	m.dev.Clear(gpu.ClearColor | gpu.ClearDepth | gpu.ClearStencil)
	m.dev.Enable(gpu.DepthTest)
}

// Unbind restores the window framebuffer.
func (m *Manager) Unbind() {
	m.dev.BindFramebuffer(0)
}

// ColorTexture returns the color attachment for display by a compositor.
func (m *Manager) ColorTexture() uint32 { return m.colorTexture }

// FBO returns the framebuffer object.
func (m *Manager) FBO() uint32 { return m.fbo }

// Size returns the target dimensions.
func (m *Manager) Size() (width, height int32) { return m.width, m.height }

// Status returns the completeness status from the last allocation.
func (m *Manager) Status() gpu.FramebufferStatus { return m.status }

// ReadPixels returns the color attachment as RGBA, bottom row first.
func (m *Manager) ReadPixels() []byte {
	if m.fbo == 0 {
		return nil
	}
	return m.dev.ReadPixels(m.fbo, m.width, m.height)
}

// BlitTo copies the target into the window framebuffer at the given size.
func (m *Manager) BlitTo(width, height int32) {
	if m.fbo == 0 {
		return
	}
	m.dev.BlitToDefault(m.fbo, m.width, m.height, width, height)
}

// Destroy releases all GPU resources.
func (m *Manager) Destroy() {
	m.release()
	m.width, m.height = 0, 0
}
