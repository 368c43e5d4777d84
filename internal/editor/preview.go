package editor

import "github.com/go-gl/mathgl/mgl32"

// Zoom limits of the shadow map preview.
const (
	minPreviewZoom = 1
	maxPreviewZoom = 16
)

// shadowPreview is the pan/zoom state of the shadow map viewer. Pan is the
// UV of the visible window's center.
type shadowPreview struct {
	zoom float32
	pan  mgl32.Vec2
}

func newShadowPreview() shadowPreview {
	return shadowPreview{zoom: 1, pan: mgl32.Vec2{0.5, 0.5}}
}

// zoomBy multiplies the zoom and keeps the view inside the texture.
func (p *shadowPreview) zoomBy(factor float32) {
	p.zoom = mgl32.Clamp(p.zoom*factor, minPreviewZoom, maxPreviewZoom)
	p.clamp()
}

// drag pans by a pixel delta measured on an image of the given size.
func (p *shadowPreview) drag(dx, dy, width, height float32) {
	if width <= 0 || height <= 0 {
		return
	}
	p.pan[0] -= dx / width / p.zoom
	p.pan[1] += dy / height / p.zoom
	p.clamp()
}

func (p *shadowPreview) reset() {
	*p = newShadowPreview()
}

func (p *shadowPreview) clamp() {
	half := 0.5 / p.zoom
	p.pan[0] = mgl32.Clamp(p.pan[0], half, 1-half)
	p.pan[1] = mgl32.Clamp(p.pan[1], half, 1-half)
}

// uv returns the texture coordinates of the top-left and bottom-right
// corners. V is flipped because the depth texture is stored bottom-up.
func (p *shadowPreview) uv() (uv0, uv1 mgl32.Vec2) {
	half := 0.5 / p.zoom
	return mgl32.Vec2{p.pan[0] - half, p.pan[1] + half}, mgl32.Vec2{p.pan[0] + half, p.pan[1] - half}
}

// frameHistory keeps the last frame times for the metrics plot.
type frameHistory struct {
	samples []float32
	next    int
	full    bool
}

func newFrameHistory(n int) *frameHistory {
	return &frameHistory{samples: make([]float32, n)}
}

func (h *frameHistory) add(ms float32) {
	h.samples[h.next] = ms
	h.next = (h.next + 1) % len(h.samples)
	if h.next == 0 {
		h.full = true
	}
}

// values returns the samples oldest first.
func (h *frameHistory) values() []float32 {
	if !h.full {
		return append([]float32(nil), h.samples[:h.next]...)
	}
	return append(append([]float32(nil), h.samples[h.next:]...), h.samples[:h.next]...)
}

// average returns the mean of the recorded samples.
func (h *frameHistory) average() float32 {
	v := h.values()
	if len(v) == 0 {
		return 0
	}
	var sum float32
	for _, s := range v {
		sum += s
	}
	return sum / float32(len(v))
}
