package editor

import (
	"fmt"
	"math"
	"time"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/ui"
)

const panelFlags = imgui.WindowFlagsNoMove | imgui.WindowFlagsNoResize | imgui.WindowFlagsNoCollapse

func (e *Editor) renderMenuBar() {
	if !imgui.BeginMainMenuBar() {
		return
	}
	if imgui.BeginMenu("File") {
		if imgui.MenuItemBoolV("Save Screenshot", "F12", false, true) {
			e.saveScreenshot("")
		}
		if imgui.MenuItemBool("Save Screenshot As...") {
			e.saveScreenshotAs()
		}
		imgui.Separator()
		if imgui.MenuItemBool("Exit") {
			e.backend.SetShouldClose(true)
		}
		imgui.EndMenu()
	}
	if imgui.BeginMenu("View") {
		if imgui.MenuItemBoolV("Rendering Metrics", "", e.showMetrics, true) {
			e.showMetrics = !e.showMetrics
		}
		if imgui.MenuItemBoolV("Scene Information", "", e.showScene, true) {
			e.showScene = !e.showScene
		}
		if imgui.MenuItemBoolV("Lighting Tool", "", e.showLighting, true) {
			e.showLighting = !e.showLighting
		}
		imgui.Separator()
		if imgui.MenuItemBoolV("Wireframe", "F1", e.wireframe, true) {
			e.wireframe = !e.wireframe
		}
		imgui.EndMenu()
	}
	imgui.EndMainMenuBar()
}

// renderPanels lays out and draws every visible window.
func (e *Editor) renderPanels() {
	viewport := imgui.MainViewport()
	workPos := viewport.WorkPos()
	workSize := viewport.WorkSize()

	var tools []func()
	if e.showMetrics {
		tools = append(tools, e.renderMetrics)
	}
	if e.showScene {
		tools = append(tools, e.renderSceneInfo)
	}
	if e.showLighting {
		tools = append(tools, e.renderLighting)
	}
	l := computeLayout(mgl32.Vec2{workPos.X, workPos.Y}, mgl32.Vec2{workSize.X, workSize.Y}, len(tools))

	placeNext(l.viewport)
	if imgui.BeginV("Viewport", nil, panelFlags|imgui.WindowFlagsNoScrollbar) {
		e.renderViewport()
	}
	imgui.End()

	for i, draw := range tools {
		placeNext(l.tools[i])
		draw()
	}

	placeNext(l.status)
	if imgui.BeginV("##StatusBar", nil, panelFlags|imgui.WindowFlagsNoTitleBar|imgui.WindowFlagsNoScrollbar) {
		e.renderStatusBar()
	}
	imgui.End()
}

func placeNext(r rect) {
	imgui.SetNextWindowPos(imgui.NewVec2(r.pos.X(), r.pos.Y()))
	imgui.SetNextWindowSize(imgui.NewVec2(r.size.X(), r.size.Y()))
}

// renderViewport resizes the off-screen target to the panel and shows it.
func (e *Editor) renderViewport() {
	avail := imgui.ContentRegionAvail()
	width, height := int32(avail.X), int32(avail.Y)
	if width <= 0 || height <= 0 {
		e.viewportHovered = false
		return
	}
	e.pipeline.Resize(width, height)

	origin := imgui.CursorScreenPos()
	ui.Image(e.pipeline.ColorTexture(), float32(width), float32(height), true)
	e.viewportHovered = imgui.IsItemHovered()

	if imgui.IsItemClicked() {
		mouse := imgui.MousePos()
		e.selectAt(mgl32.Vec2{mouse.X - origin.X, mouse.Y - origin.Y}, mgl32.Vec2{float32(width), float32(height)})
	}

	e.look = mgl32.Vec2{}
	if e.viewportHovered && imgui.IsMouseDragging(imgui.MouseButtonRight) {
		e.look = e.mouseDelta
	}
}

func (e *Editor) renderMetrics() {
	if imgui.BeginV("Rendering Metrics", nil, panelFlags) {
		avg := e.history.average()
		fps := float32(0)
		if avg > 0 {
			fps = 1000 / avg
		}
		imgui.Text(fmt.Sprintf("FPS: %.1f", fps))
		imgui.Text(fmt.Sprintf("Frame time: %.2f ms", avg))
		imgui.Separator()

		stats := e.pipeline.Stats()
		imgui.Text(fmt.Sprintf("Draw items: %d", stats.Items))
		imgui.Text(fmt.Sprintf("Batches: %d", stats.Batches))
		imgui.Text(fmt.Sprintf("Instances: %d", stats.Instances))
		imgui.Text(fmt.Sprintf("Draw calls: %d", stats.DrawCalls))
		imgui.Text(fmt.Sprintf("Shadow draw calls: %d", stats.ShadowDrawCalls))
		imgui.Separator()

		w, h := e.pipeline.Target().Size()
		imgui.Text(fmt.Sprintf("Target: %dx%d", w, h))
		imgui.Text(fmt.Sprintf("Shadow map: %d", e.pipeline.Shadows().Resolution()))
		if e.wireframe {
			imgui.TextColored(imgui.NewVec4(1, 0.8, 0, 1), "Wireframe")
		}
	}
	imgui.End()
}

func (e *Editor) renderSceneInfo() {
	if imgui.BeginV("Scene Information", nil, panelFlags) {
		cam := e.pipeline.Camera()
		pos := cam.Position()
		imgui.Text(fmt.Sprintf("Entities: %d", e.world.Len()))
		imgui.Text(fmt.Sprintf("Camera: (%.2f, %.2f, %.2f)", pos.X(), pos.Y(), pos.Z()))
		imgui.Text(fmt.Sprintf("Yaw %.1f  Pitch %.1f  FOV %.1f", cam.Yaw(), cam.Pitch(), cam.Zoom()))

		imgui.Separator()
		if hit, ok := e.selected.current(e.world); ok {
			c := hit.Bounds.Center()
			imgui.Text(fmt.Sprintf("Selected: %s", hit.Entity))
			imgui.Text(fmt.Sprintf("Distance: %.2f", hit.Distance))
			imgui.Text(fmt.Sprintf("Bounds center: (%.2f, %.2f, %.2f)", c.X(), c.Y(), c.Z()))
			if imgui.Button("Clear selection") {
				e.selected = selection{}
			}
		} else {
			imgui.TextDisabled("Click the viewport to select")
		}
		imgui.Separator()

		if imgui.TreeNodeExStrV("View matrix", imgui.TreeNodeFlagsNone) {
			matrixText(cam.ViewMatrix())
			imgui.TreePop()
		}
		if imgui.TreeNodeExStrV("Projection matrix", imgui.TreeNodeFlagsNone) {
			matrixText(cam.ProjectionMatrix())
			imgui.TreePop()
		}
		if imgui.TreeNodeExStrV("Light space matrix", imgui.TreeNodeFlagsNone) {
			matrixText(e.pipeline.Shadows().LightSpace())
			imgui.TreePop()
		}
		imgui.Spacing()
		imgui.TextDisabled("Right-drag to look, WASD to move, wheel to zoom")
	}
	imgui.End()
}

func matrixText(m mgl32.Mat4) {
	for row := range 4 {
		r := m.Row(row)
		imgui.Text(fmt.Sprintf("%8.3f %8.3f %8.3f %8.3f", r[0], r[1], r[2], r[3]))
	}
}

func (e *Editor) renderLighting() {
	if imgui.BeginV("Lighting Tool", nil, panelFlags) {
		changed := imgui.SliderFloatV("Longitude", &e.sunLon, -180, 180, "%.0f deg", imgui.SliderFlagsNone)
		changed = imgui.SliderFloatV("Latitude", &e.sunLat, 1, 90, "%.0f deg", imgui.SliderFlagsNone) || changed

		light := e.pipeline.Light()
		changed = imgui.SliderFloatV("Mie g", &light.Sky.MieG, 0, 0.99, "%.2f", imgui.SliderFlagsNone) || changed
		if changed {
			light.SetAngles(e.sunLon, e.sunLat)
			e.pipeline.SetLight(light)
		}
		dir := light.Normalized()
		imgui.TextDisabled(fmt.Sprintf("Direction (%.2f, %.2f, %.2f)", dir.X(), dir.Y(), dir.Z()))

		if imgui.Checkbox("Fit shadow to scene", &e.fitToScene) {
			e.pipeline.Shadows().SetFitToScene(e.fitToScene)
		}

		imgui.Separator()
		e.renderShadowPreview()
	}
	imgui.End()
}

// renderShadowPreview shows the depth map. Wheel zooms, left-drag pans.
func (e *Editor) renderShadowPreview() {
	imgui.Text(fmt.Sprintf("Shadow map (zoom %.1fx)", e.preview.zoom))
	imgui.SameLine()
	if imgui.Button("Reset##shadow") {
		e.preview.reset()
	}

	avail := imgui.ContentRegionAvail()
	size := min(avail.X, avail.Y)
	if size <= 0 {
		return
	}
	uv0, uv1 := e.preview.uv()
	ui.ImageUV(e.pipeline.ShadowTexture(), size, size, imgui.NewVec2(uv0.X(), uv0.Y()), imgui.NewVec2(uv1.X(), uv1.Y()))

	if !imgui.IsItemHovered() {
		return
	}
	if wheel := imgui.CurrentIO().MouseWheel(); wheel != 0 {
		e.preview.zoomBy(float32(math.Pow(1.25, float64(wheel))))
	}
	if imgui.IsMouseDragging(imgui.MouseButtonLeft) {
		e.preview.drag(e.mouseDelta.X(), e.mouseDelta.Y(), size, size)
	}
}

func (e *Editor) renderStatusBar() {
	imgui.Text(fmt.Sprintf("Session %s", e.session.Short()))
	if e.statusMsg != "" && time.Since(e.statusAt) < 3*time.Second {
		imgui.SameLine()
		imgui.TextDisabled("|")
		imgui.SameLine()
		imgui.Text(e.statusMsg)
	}
}
