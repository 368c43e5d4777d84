package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Graphics.Width != 1600 || cfg.Graphics.Height != 900 {
		t.Errorf("expected 1600x900, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	if cfg.Camera.Position != [3]float32{-10, 10, 10} {
		t.Errorf("unexpected camera position %v", cfg.Camera.Position)
	}
	if cfg.Camera.Yaw != -45 || cfg.Camera.Pitch != -20 {
		t.Errorf("expected yaw -45 pitch -20, got %v %v", cfg.Camera.Yaw, cfg.Camera.Pitch)
	}
	if cfg.Camera.FOV != 60 {
		t.Errorf("expected fov 60, got %v", cfg.Camera.FOV)
	}

	if cfg.Shadow.Resolution != 2048 {
		t.Errorf("expected shadow resolution 2048, got %d", cfg.Shadow.Resolution)
	}
	if cfg.Shadow.SceneRadius != 10 {
		t.Errorf("expected scene radius 10, got %v", cfg.Shadow.SceneRadius)
	}
	if cfg.Shadow.FitToScene {
		t.Error("expected fit_to_scene to be false by default")
	}

	if cfg.Render.Wireframe {
		t.Error("expected wireframe to be false by default")
	}
	if cfg.Screenshot.Format != "png" {
		t.Errorf("expected png screenshots, got %s", cfg.Screenshot.Format)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}

	if fixed := cfg.Validate(); len(fixed) != 0 {
		t.Errorf("defaults should validate cleanly, got %v", fixed)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true

camera:
  fov: 75
  position: [1, 2, 3]

shadow:
  resolution: 4096
  fit_to_scene: true

render:
  wireframe: true

scene:
  grid_size: 3

logging:
  level: "debug"
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if cfg.Graphics.Width != 1920 || cfg.Graphics.Height != 1080 {
		t.Errorf("expected 1920x1080, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Camera.FOV != 75 {
		t.Errorf("expected fov 75, got %v", cfg.Camera.FOV)
	}
	if cfg.Camera.Position != [3]float32{1, 2, 3} {
		t.Errorf("expected position [1 2 3], got %v", cfg.Camera.Position)
	}
	if cfg.Shadow.Resolution != 4096 || !cfg.Shadow.FitToScene {
		t.Errorf("unexpected shadow config %+v", cfg.Shadow)
	}
	if !cfg.Render.Wireframe {
		t.Error("expected wireframe to be true")
	}
	if cfg.Scene.GridSize != 3 {
		t.Errorf("expected grid size 3, got %d", cfg.Scene.GridSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level, got %s", cfg.Logging.Level)
	}

	// Keys absent from the file keep their defaults.
	if cfg.Camera.Yaw != -45 {
		t.Errorf("expected default yaw, got %v", cfg.Camera.Yaw)
	}
	if cfg.Shadow.SceneRadius != 10 {
		t.Errorf("expected default scene radius, got %v", cfg.Shadow.SceneRadius)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Shadow.Resolution = 1024
	cfg.Lighting.Direction = [3]float32{0, -1, 0}
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if loaded.Shadow.Resolution != 1024 {
		t.Errorf("expected resolution 1024, got %d", loaded.Shadow.Resolution)
	}
	if loaded.Lighting.Direction != [3]float32{0, -1, 0} {
		t.Errorf("unexpected light direction %v", loaded.Lighting.Direction)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Graphics.Width = 0
	cfg.Camera.FOV = 120
	cfg.Camera.Near = 5
	cfg.Camera.Far = 1
	cfg.Lighting.Direction = [3]float32{}
	cfg.Shadow.Resolution = -1
	cfg.Shadow.SceneRadius = 0
	cfg.Scene.GridSize = -4
	cfg.Screenshot.Format = "gif"

	fixed := cfg.Validate()
	if len(fixed) != 8 {
		t.Errorf("expected 8 corrections, got %d: %v", len(fixed), fixed)
	}

	def := Default()
	if cfg.Graphics.Width != def.Graphics.Width {
		t.Errorf("width not reset: %d", cfg.Graphics.Width)
	}
	if cfg.Camera.FOV != def.Camera.FOV {
		t.Errorf("fov not reset: %v", cfg.Camera.FOV)
	}
	if cfg.Camera.Near != def.Camera.Near || cfg.Camera.Far != def.Camera.Far {
		t.Errorf("clip range not reset: %v %v", cfg.Camera.Near, cfg.Camera.Far)
	}
	if cfg.Lighting.Direction != def.Lighting.Direction {
		t.Errorf("light direction not reset: %v", cfg.Lighting.Direction)
	}
	if cfg.Shadow.Resolution != def.Shadow.Resolution || cfg.Shadow.SceneRadius != def.Shadow.SceneRadius {
		t.Errorf("shadow not reset: %+v", cfg.Shadow)
	}
	if cfg.Scene.GridSize != 0 {
		t.Errorf("grid size not clamped: %d", cfg.Scene.GridSize)
	}
	if cfg.Screenshot.Format != "png" {
		t.Errorf("format not reset: %s", cfg.Screenshot.Format)
	}
}

func TestConfigDir(t *testing.T) {
	if dir := ConfigDir(); dir == "" {
		t.Error("ConfigDir returned empty path")
	}
}

func TestLoadFileEmptyKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("empty file should load: %v", err)
	}
	if cfg.Graphics.Width != Default().Graphics.Width {
		t.Errorf("width changed to %d", cfg.Graphics.Width)
	}
}

func TestFirstExistingSkipsDirectories(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(file, []byte("scene:\n  grid_size: 1\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if got := firstExisting(filepath.Join(dir, "missing.yaml"), dir, file); got != file {
		t.Errorf("firstExisting = %q, want %q", got, file)
	}
	if got := firstExisting(dir); got != "" {
		t.Errorf("directory accepted as config file: %q", got)
	}
}

func TestConfigDirHonorsXDG(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG_CONFIG_HOME applies on linux")
	}
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := ConfigDir(); got != filepath.Join("/tmp/xdg", "hexview") {
		t.Errorf("ConfigDir = %q", got)
	}
}
