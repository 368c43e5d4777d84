// Package config handles renderer configuration loading and management.
package config

import "fmt"

// Config holds all viewer settings.
type Config struct {
	Graphics   GraphicsConfig   `yaml:"graphics"`
	Camera     CameraConfig     `yaml:"camera"`
	Lighting   LightingConfig   `yaml:"lighting"`
	Shadow     ShadowConfig     `yaml:"shadow"`
	Render     RenderConfig     `yaml:"render"`
	Scene      SceneConfig      `yaml:"scene"`
	Screenshot ScreenshotConfig `yaml:"screenshot"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit"`
}

// CameraConfig holds the initial camera pose and controls. Angles are in degrees.
type CameraConfig struct {
	Position       [3]float32 `yaml:"position"`
	Yaw            float32    `yaml:"yaw"`
	Pitch          float32    `yaml:"pitch"`
	FOV            float32    `yaml:"fov"`
	Near           float32    `yaml:"near"`
	Far            float32    `yaml:"far"`
	MovementSpeed  float32    `yaml:"movement_speed"`
	Sensitivity    float32    `yaml:"sensitivity"`
	ConstrainPitch bool       `yaml:"constrain_pitch"`
}

// LightingConfig holds the directional light and sky settings.
type LightingConfig struct {
	Direction [3]float32 `yaml:"direction"`
	Color     [3]float32 `yaml:"color"`
	SkyTop    [3]float32 `yaml:"sky_top"`
	SkyBottom [3]float32 `yaml:"sky_bottom"`
	MieG      float32    `yaml:"mie_g"`
}

// ShadowConfig holds shadow map settings.
type ShadowConfig struct {
	Resolution  int32   `yaml:"resolution"`
	SceneRadius float32 `yaml:"scene_radius"`
	FitToScene  bool    `yaml:"fit_to_scene"` // derive radius from caster bounds instead of SceneRadius
	BiasFactor  float32 `yaml:"bias_factor"`
	BiasUnits   float32 `yaml:"bias_units"`
}

// RenderConfig holds pipeline toggles.
type RenderConfig struct {
	Wireframe  bool       `yaml:"wireframe"`
	ClearColor [3]float32 `yaml:"clear_color"`
}

// SceneConfig controls the generated demo scene.
type SceneConfig struct {
	GridSize      int     `yaml:"grid_size"`
	Spacing       float32 `yaml:"spacing"`
	GroundTexture string  `yaml:"ground_texture"` // png, bmp or tga; checkerboard when empty
}

// ScreenshotConfig holds screenshot output settings.
type ScreenshotConfig struct {
	Dir    string `yaml:"dir"`
	Format string `yaml:"format"` // png or bmp
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1600,
			Height:     900,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Camera: CameraConfig{
			Position:       [3]float32{-10, 10, 10},
			Yaw:            -45,
			Pitch:          -20,
			FOV:            60,
			Near:           0.1,
			Far:            1000,
			MovementSpeed:  2.5,
			Sensitivity:    0.1,
			ConstrainPitch: true,
		},
		Lighting: LightingConfig{
			Direction: [3]float32{-0.2, -1.0, -0.3},
			Color:     [3]float32{1, 1, 1},
			SkyTop:    [3]float32{0.53, 0.81, 0.92},
			SkyBottom: [3]float32{0.87, 0.94, 1.0},
			MieG:      0.8,
		},
		Shadow: ShadowConfig{
			Resolution:  2048,
			SceneRadius: 10,
			FitToScene:  false,
			BiasFactor:  2,
			BiasUnits:   4,
		},
		Render: RenderConfig{
			Wireframe:  false,
			ClearColor: [3]float32{0.08, 0.10, 0.12},
		},
		Scene: SceneConfig{
			GridSize: 8,
			Spacing:  2,
		},
		Screenshot: ScreenshotConfig{
			Dir:    "screenshots",
			Format: "png",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate replaces values the renderer cannot work with by their defaults.
// It returns one message per corrected field.
func (c *Config) Validate() []string {
	def := Default()
	var fixed []string

	if c.Graphics.Width <= 0 || c.Graphics.Height <= 0 {
		fixed = append(fixed, fmt.Sprintf("graphics size %dx%d reset to %dx%d",
			c.Graphics.Width, c.Graphics.Height, def.Graphics.Width, def.Graphics.Height))
		c.Graphics.Width, c.Graphics.Height = def.Graphics.Width, def.Graphics.Height
	}
	if c.Camera.FOV < 1 || c.Camera.FOV > 90 {
		fixed = append(fixed, fmt.Sprintf("camera fov %.1f reset to %.1f", c.Camera.FOV, def.Camera.FOV))
		c.Camera.FOV = def.Camera.FOV
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		fixed = append(fixed, fmt.Sprintf("camera clip range [%g, %g] reset", c.Camera.Near, c.Camera.Far))
		c.Camera.Near, c.Camera.Far = def.Camera.Near, def.Camera.Far
	}
	if c.Lighting.Direction == [3]float32{} {
		fixed = append(fixed, "lighting direction is zero, reset to default")
		c.Lighting.Direction = def.Lighting.Direction
	}
	if c.Shadow.Resolution <= 0 {
		fixed = append(fixed, fmt.Sprintf("shadow resolution %d reset to %d", c.Shadow.Resolution, def.Shadow.Resolution))
		c.Shadow.Resolution = def.Shadow.Resolution
	}
	if c.Shadow.SceneRadius <= 0 {
		fixed = append(fixed, fmt.Sprintf("shadow scene radius %g reset to %g", c.Shadow.SceneRadius, def.Shadow.SceneRadius))
		c.Shadow.SceneRadius = def.Shadow.SceneRadius
	}
	if c.Scene.GridSize < 0 {
		fixed = append(fixed, fmt.Sprintf("scene grid size %d reset to 0", c.Scene.GridSize))
		c.Scene.GridSize = 0
	}
	switch c.Screenshot.Format {
	case "png", "bmp":
	default:
		fixed = append(fixed, fmt.Sprintf("screenshot format %q reset to %q", c.Screenshot.Format, def.Screenshot.Format))
		c.Screenshot.Format = def.Screenshot.Format
	}

	return fixed
}
