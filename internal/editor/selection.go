package editor

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/camera"
	"github.com/Faultbox/hexview/internal/engine/ecs"
	"github.com/Faultbox/hexview/internal/engine/picking"
)

// selection is the entity last clicked in the viewport.
type selection struct {
	hit   picking.Hit
	valid bool
}

// pickAt casts a ray through a pixel of the viewport image, measured from
// its top-left corner.
func pickAt(w *ecs.World, cam *camera.Camera, pixel, size mgl32.Vec2) (picking.Hit, bool) {
	r, ok := picking.ScreenToRay(pixel.X(), pixel.Y(), size.X(), size.Y(), cam.ViewMatrix(), cam.ProjectionMatrix())
	if !ok {
		return picking.Hit{}, false
	}
	return picking.Pick(w, r)
}

func (e *Editor) selectAt(pixel, size mgl32.Vec2) {
	hit, ok := pickAt(e.world, e.pipeline.Camera(), pixel, size)
	e.selected = selection{hit: hit, valid: ok}
}

// current drops the selection once its entity is gone.
func (s *selection) current(w *ecs.World) (picking.Hit, bool) {
	if s.valid && !w.Alive(s.hit.Entity) {
		s.valid = false
	}
	return s.hit, s.valid
}
