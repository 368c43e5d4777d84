package app

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/config"
	"github.com/Faultbox/hexview/internal/engine/camera"
	"github.com/Faultbox/hexview/internal/engine/lighting"
	"github.com/Faultbox/hexview/internal/engine/renderer"
	"github.com/Faultbox/hexview/internal/engine/shadow"
)

// CameraConfig maps the camera section onto the engine camera. The aspect
// ratio follows the window and is corrected once the target is allocated.
func CameraConfig(cfg *config.Config) camera.Config {
	c := cfg.Camera
	aspect := float32(16.0 / 9.0)
	if cfg.Graphics.Width > 0 && cfg.Graphics.Height > 0 {
		aspect = float32(cfg.Graphics.Width) / float32(cfg.Graphics.Height)
	}
	return camera.Config{
		Position:    mgl32.Vec3(c.Position),
		Yaw:         c.Yaw,
		Pitch:       c.Pitch,
		Zoom:        c.FOV,
		AspectRatio: aspect,
		Near:        c.Near,
		Far:         c.Far,
		Speed:       c.MovementSpeed,
		Sensitivity: c.Sensitivity,
	}
}

// PipelineConfig maps the render, shadow and lighting sections.
func PipelineConfig(cfg *config.Config) renderer.Config {
	l := cfg.Lighting
	return renderer.Config{
		ClearColor: mgl32.Vec3(cfg.Render.ClearColor),
		Shadow: shadow.Config{
			Resolution: cfg.Shadow.Resolution,
			Radius:     cfg.Shadow.SceneRadius,
			FitToScene: cfg.Shadow.FitToScene,
			BiasFactor: cfg.Shadow.BiasFactor,
			BiasUnits:  cfg.Shadow.BiasUnits,
		},
		Light: lighting.DirectionalLight{
			Direction: mgl32.Vec3(l.Direction),
			Color:     mgl32.Vec3(l.Color),
			Sky: lighting.Sky{
				Top:    mgl32.Vec3(l.SkyTop),
				Bottom: mgl32.Vec3(l.SkyBottom),
				MieG:   l.MieG,
			},
		},
	}
}
