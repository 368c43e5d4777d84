package uniform

import (
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/logger"
)

// View is the camera state the block needs.
type View interface {
	ViewMatrix() mgl32.Mat4
	ProjectionMatrix() mgl32.Mat4
	Position() mgl32.Vec3
}

// Sync owns the RenderData uniform buffer.
type Sync struct {
	dev  gpu.Device
	ubo  uint32
	data RenderData
}

// NewSync allocates the uniform buffer and binds it to Binding.
func NewSync(dev gpu.Device) *Sync {
	s := &Sync{dev: dev, ubo: dev.CreateUniformBuffer(Size, Binding)}
	if s.ubo == 0 {
		logger.Named("uniform").Error("failed to allocate uniform buffer", zap.Int("size", Size))
	}
	return s
}

// Update rebuilds the block from the camera and light and uploads it.
func (s *Sync) Update(view View, lightDir, lightColor mgl32.Vec3, wireframe bool) {
	s.data = RenderData{
		View:       view.ViewMatrix(),
		Projection: view.ProjectionMatrix(),
		ViewPos:    view.Position(),
		LightDir:   lightDir,
		LightColor: lightColor,
	}
	if wireframe {
		s.data.Wireframe = 1
	}
	if s.ubo == 0 {
		return
	}
	s.dev.UpdateUniformBuffer(s.ubo, s.data.Marshal())
}

// Data returns the last uploaded block.
func (s *Sync) Data() RenderData { return s.data }

// Buffer returns the uniform buffer handle.
func (s *Sync) Buffer() uint32 { return s.ubo }

// Close releases the uniform buffer.
func (s *Sync) Close() {
	if s.ubo != 0 {
		s.dev.DeleteBuffer(s.ubo)
		s.ubo = 0
	}
}
