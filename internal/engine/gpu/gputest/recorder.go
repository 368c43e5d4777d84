// Package gputest provides a recording gpu.Device for tests.
package gputest

import (
	"fmt"
	"slices"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/gpu"
)

// Call is one recorded device call.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Name, c.Args)
}

// Recorder implements gpu.Device without a context. Every call is appended
// to Calls; allocations hand out increasing non-zero handles.
type Recorder struct {
	Calls []Call

	// Status is returned by FramebufferStatus.
	Status gpu.FramebufferStatus
	// FailAllocations makes every Create* method return 0.
	FailAllocations bool
	// CompileErr is returned by CompileProgram when set.
	CompileErr error

	next      uint32
	instances map[uint32][]mgl32.Mat4
	uniforms  map[uint32][]byte
	live      map[uint32]string
}

var _ gpu.Device = (*Recorder)(nil)

// NewRecorder returns an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{
		instances: make(map[uint32][]mgl32.Mat4),
		uniforms:  make(map[uint32][]byte),
		live:      make(map[uint32]string),
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

func (r *Recorder) alloc(kind string) uint32 {
	if r.FailAllocations {
		return 0
	}
	r.next++
	r.live[r.next] = kind
	return r.next
}

func (r *Recorder) free(h uint32) {
	delete(r.live, h)
}

// Reset clears the call log, keeping allocated resources.
func (r *Recorder) Reset() {
	r.Calls = nil
}

// Count returns how many calls named name were recorded.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Names returns the recorded call names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Index returns the position of the first call named name, or -1.
func (r *Recorder) Index(name string) int {
	return slices.IndexFunc(r.Calls, func(c Call) bool { return c.Name == name })
}

// Find returns all calls named name.
func (r *Recorder) Find(name string) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Instances returns the last matrices uploaded to an instance buffer.
func (r *Recorder) Instances(vbo uint32) []mgl32.Mat4 {
	return r.instances[vbo]
}

// UniformData returns the last bytes written to a uniform buffer.
func (r *Recorder) UniformData(ubo uint32) []byte {
	return r.uniforms[ubo]
}

// Live returns how many allocated handles of the given kind have not been
// deleted. Kinds are "framebuffer", "texture", "renderbuffer", "buffer",
// "vertexarray" and "program".
func (r *Recorder) Live(kind string) int {
	n := 0
	for _, k := range r.live {
		if k == kind {
			n++
		}
	}
	return n
}

// IsLive reports whether handle h is allocated and not deleted.
func (r *Recorder) IsLive(h uint32) bool {
	_, ok := r.live[h]
	return ok
}

func (r *Recorder) Info() gpu.Info {
	return gpu.Info{Version: "4.1 gputest", Renderer: "recorder", Vendor: "hexview", GLSL: "4.10"}
}

func (r *Recorder) CreateFramebuffer() uint32 {
	h := r.alloc("framebuffer")
	r.record("CreateFramebuffer", h)
	return h
}

func (r *Recorder) DeleteFramebuffer(fbo uint32) {
	r.free(fbo)
	r.record("DeleteFramebuffer", fbo)
}

func (r *Recorder) BindFramebuffer(fbo uint32) {
	r.record("BindFramebuffer", fbo)
}

func (r *Recorder) AttachColorTexture(fbo, tex uint32) {
	r.record("AttachColorTexture", fbo, tex)
}

func (r *Recorder) AttachDepthTexture(fbo, tex uint32) {
	r.record("AttachDepthTexture", fbo, tex)
}

func (r *Recorder) AttachDepthStencilRenderbuffer(fbo, rbo uint32) {
	r.record("AttachDepthStencilRenderbuffer", fbo, rbo)
}

func (r *Recorder) DisableColorBuffers(fbo uint32) {
	r.record("DisableColorBuffers", fbo)
}

func (r *Recorder) FramebufferStatus(fbo uint32) gpu.FramebufferStatus {
	r.record("FramebufferStatus", fbo)
	return r.Status
}

func (r *Recorder) BlitToDefault(src uint32, srcW, srcH, dstW, dstH int32) {
	r.record("BlitToDefault", src, srcW, srcH, dstW, dstH)
}

// ReadPixels returns a gradient image so flips are observable: every pixel
// of row y has all four channels set to byte(y).
func (r *Recorder) ReadPixels(fbo uint32, width, height int32) []byte {
	r.record("ReadPixels", fbo, width, height)
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := make([]byte, width*height*4)
	for y := int32(0); y < height; y++ {
		for i := y * width * 4; i < (y+1)*width*4; i++ {
			pixels[i] = byte(y)
		}
	}
	return pixels
}

func (r *Recorder) CreateColorTexture(width, height int32) uint32 {
	h := r.alloc("texture")
	r.record("CreateColorTexture", width, height)
	return h
}

func (r *Recorder) CreateDepthTexture(size int32) uint32 {
	h := r.alloc("texture")
	r.record("CreateDepthTexture", size)
	return h
}

func (r *Recorder) CreateRGBATexture(width, height int32, pixels []byte) uint32 {
	if int(width*height*4) != len(pixels) {
		r.record("CreateRGBATexture", width, height)
		return 0
	}
	h := r.alloc("texture")
	r.record("CreateRGBATexture", width, height)
	return h
}

func (r *Recorder) DeleteTexture(tex uint32) {
	r.free(tex)
	r.record("DeleteTexture", tex)
}

func (r *Recorder) BindTextureUnit(unit, tex uint32) {
	r.record("BindTextureUnit", unit, tex)
}

func (r *Recorder) CreateDepthStencilRenderbuffer(width, height int32) uint32 {
	h := r.alloc("renderbuffer")
	r.record("CreateDepthStencilRenderbuffer", width, height)
	return h
}

func (r *Recorder) DeleteRenderbuffer(rbo uint32) {
	r.free(rbo)
	r.record("DeleteRenderbuffer", rbo)
}

func (r *Recorder) CreateUniformBuffer(size int, binding uint32) uint32 {
	h := r.alloc("buffer")
	r.record("CreateUniformBuffer", size, binding)
	return h
}

func (r *Recorder) UpdateUniformBuffer(ubo uint32, data []byte) {
	r.uniforms[ubo] = slices.Clone(data)
	r.record("UpdateUniformBuffer", ubo, len(data))
}

func (r *Recorder) DeleteBuffer(buf uint32) {
	r.free(buf)
	r.record("DeleteBuffer", buf)
}

func (r *Recorder) CreateVertexArray(vertices []gpu.Vertex, indices []uint32) gpu.VertexArray {
	var va gpu.VertexArray
	va.VAO = r.alloc("vertexarray")
	if len(vertices) > 0 && va.VAO != 0 {
		va.VBO = r.alloc("buffer")
		if len(indices) > 0 {
			va.EBO = r.alloc("buffer")
		}
		va.InstanceVBO = r.alloc("buffer")
	}
	r.record("CreateVertexArray", len(vertices), len(indices))
	return va
}

func (r *Recorder) DeleteVertexArray(va gpu.VertexArray) {
	for _, h := range []uint32{va.VAO, va.VBO, va.EBO, va.InstanceVBO} {
		r.free(h)
	}
	r.record("DeleteVertexArray", va.VAO)
}

func (r *Recorder) UploadInstances(vbo uint32, matrices []mgl32.Mat4) {
	r.instances[vbo] = slices.Clone(matrices)
	r.record("UploadInstances", vbo, len(matrices))
}

func (r *Recorder) Viewport(x, y, width, height int32) {
	r.record("Viewport", x, y, width, height)
}

func (r *Recorder) ClearColor(cr, cg, cb, ca float32) {
	r.record("ClearColor", cr, cg, cb, ca)
}

func (r *Recorder) Clear(mask gpu.ClearMask) {
	r.record("Clear", mask)
}

func (r *Recorder) Enable(c gpu.Capability) {
	r.record("Enable", c)
}

func (r *Recorder) Disable(c gpu.Capability) {
	r.record("Disable", c)
}

func (r *Recorder) CullFace(f gpu.Face) {
	r.record("CullFace", f)
}

func (r *Recorder) PolygonOffset(factor, units float32) {
	r.record("PolygonOffset", factor, units)
}

func (r *Recorder) PolygonMode(m gpu.PolygonMode) {
	r.record("PolygonMode", m)
}

func (r *Recorder) ColorMask(enabled bool) {
	r.record("ColorMask", enabled)
}

func (r *Recorder) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	r.record("CompileProgram")
	if r.CompileErr != nil {
		return 0, r.CompileErr
	}
	return r.alloc("program"), nil
}

func (r *Recorder) DeleteProgram(program uint32) {
	r.free(program)
	r.record("DeleteProgram", program)
}

func (r *Recorder) UseProgram(program uint32) {
	r.record("UseProgram", program)
}

func (r *Recorder) BindUniformBlock(program uint32, block string, binding uint32) {
	r.record("BindUniformBlock", program, block, binding)
}

// UniformLocation hands out a distinct location per call so tests can
// match setters to names through the call log.
func (r *Recorder) UniformLocation(program uint32, name string) int32 {
	r.record("UniformLocation", program, name)
	return int32(len(r.Calls))
}

func (r *Recorder) UniformMatrix4(location int32, m mgl32.Mat4) {
	r.record("UniformMatrix4", location, m)
}

func (r *Recorder) Uniform1i(location int32, v int32) {
	r.record("Uniform1i", location, v)
}

func (r *Recorder) Uniform1f(location int32, v float32) {
	r.record("Uniform1f", location, v)
}

func (r *Recorder) Uniform3f(location int32, v mgl32.Vec3) {
	r.record("Uniform3f", location, v)
}

func (r *Recorder) DrawElementsInstanced(vao uint32, indexCount, instances int32) {
	r.record("DrawElementsInstanced", vao, indexCount, instances)
}

func (r *Recorder) DrawArrays(vao uint32, first, count int32) {
	r.record("DrawArrays", vao, first, count)
}
