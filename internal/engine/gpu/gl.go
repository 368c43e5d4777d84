package gpu

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const mat4Size = 16 * 4

// GL is the OpenGL 4.1 core implementation of Device.
// All methods must be called on the thread that owns the context.
type GL struct{}

var _ Device = (*GL)(nil)

// NewGL loads the OpenGL function pointers for the current context.
func NewGL() (*GL, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("initializing OpenGL: %w", err)
	}
	return &GL{}, nil
}

// Info returns driver strings for the current context.
func (d *GL) Info() Info {
	return Info{
		Version:  gl.GoStr(gl.GetString(gl.VERSION)),
		Renderer: gl.GoStr(gl.GetString(gl.RENDERER)),
		Vendor:   gl.GoStr(gl.GetString(gl.VENDOR)),
		GLSL:     gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
	}
}

func (d *GL) CreateFramebuffer() uint32 {
	var fbo uint32
	gl.GenFramebuffers(1, &fbo)
	return fbo
}

func (d *GL) DeleteFramebuffer(fbo uint32) {
	gl.DeleteFramebuffers(1, &fbo)
}

func (d *GL) BindFramebuffer(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
}

func (d *GL) AttachColorTexture(fbo, tex uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, tex, 0)
}

func (d *GL) AttachDepthTexture(fbo, tex uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.TEXTURE_2D, tex, 0)
}

func (d *GL) AttachDepthStencilRenderbuffer(fbo, rbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_STENCIL_ATTACHMENT, gl.RENDERBUFFER, rbo)
}

// DisableColorBuffers marks a depth-only framebuffer as having no color output.
func (d *GL) DisableColorBuffers(fbo uint32) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.DrawBuffer(gl.NONE)
	gl.ReadBuffer(gl.NONE)
}

func (d *GL) FramebufferStatus(fbo uint32) FramebufferStatus {
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	switch gl.CheckFramebufferStatus(gl.FRAMEBUFFER) {
	case gl.FRAMEBUFFER_COMPLETE:
		return FramebufferComplete
	case gl.FRAMEBUFFER_UNDEFINED:
		return FramebufferUndefined
	case gl.FRAMEBUFFER_INCOMPLETE_ATTACHMENT:
		return FramebufferIncompleteAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_MISSING_ATTACHMENT:
		return FramebufferMissingAttachment
	case gl.FRAMEBUFFER_INCOMPLETE_DRAW_BUFFER:
		return FramebufferIncompleteDrawBuffer
	case gl.FRAMEBUFFER_INCOMPLETE_READ_BUFFER:
		return FramebufferIncompleteReadBuffer
	case gl.FRAMEBUFFER_UNSUPPORTED:
		return FramebufferUnsupported
	case gl.FRAMEBUFFER_INCOMPLETE_MULTISAMPLE:
		return FramebufferIncompleteMultisample
	case gl.FRAMEBUFFER_INCOMPLETE_LAYER_TARGETS:
		return FramebufferIncompleteLayerTargets
	default:
		return FramebufferUnknown
	}
}

// BlitToDefault copies the color attachment of src into the window framebuffer.
func (d *GL) BlitToDefault(src uint32, srcW, srcH, dstW, dstH int32) {
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, src)
	gl.BindFramebuffer(gl.DRAW_FRAMEBUFFER, 0)
	gl.BlitFramebuffer(0, 0, srcW, srcH, 0, 0, dstW, dstH, gl.COLOR_BUFFER_BIT, gl.LINEAR)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// ReadPixels reads the color attachment of fbo as tightly packed RGBA rows,
// bottom row first.
func (d *GL) ReadPixels(fbo uint32, width, height int32) []byte {
	if width <= 0 || height <= 0 {
		return nil
	}
	pixels := make([]byte, width*height*4)

	var prevFBO int32
	gl.GetIntegerv(gl.FRAMEBUFFER_BINDING, &prevFBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, fbo)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.FRAMEBUFFER, uint32(prevFBO))

	return pixels
}

func (d *GL) CreateColorTexture(width, height int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGB, width, height, 0, gl.RGB, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

// CreateDepthTexture allocates a square 32-bit float depth texture set up
// for hardware shadow comparison.
func (d *GL) CreateDepthTexture(size int32) uint32 {
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.DEPTH_COMPONENT32F, size, size, 0, gl.DEPTH_COMPONENT, gl.FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)

	// Outside the light frustum reads as fully lit.
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_BORDER)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_BORDER)
	borderColor := []float32{1.0, 1.0, 1.0, 1.0}
	gl.TexParameterfv(gl.TEXTURE_2D, gl.TEXTURE_BORDER_COLOR, &borderColor[0])

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_MODE, gl.COMPARE_REF_TO_TEXTURE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_COMPARE_FUNC, gl.LEQUAL)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (d *GL) CreateRGBATexture(width, height int32, pixels []byte) uint32 {
	if int(width*height*4) != len(pixels) {
		return 0
	}
	var tex uint32
	gl.GenTextures(1, &tex)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, width, height, 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.REPEAT)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.REPEAT)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return tex
}

func (d *GL) DeleteTexture(tex uint32) {
	gl.DeleteTextures(1, &tex)
}

func (d *GL) BindTextureUnit(unit, tex uint32) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, tex)
}

func (d *GL) CreateDepthStencilRenderbuffer(width, height int32) uint32 {
	var rbo uint32
	gl.GenRenderbuffers(1, &rbo)
	gl.BindRenderbuffer(gl.RENDERBUFFER, rbo)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH24_STENCIL8, width, height)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	return rbo
}

func (d *GL) DeleteRenderbuffer(rbo uint32) {
	gl.DeleteRenderbuffers(1, &rbo)
}

// CreateUniformBuffer allocates a uniform buffer and binds it to a binding point.
func (d *GL) CreateUniformBuffer(size int, binding uint32) uint32 {
	var ubo uint32
	gl.GenBuffers(1, &ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, ubo)
	gl.BufferData(gl.UNIFORM_BUFFER, size, nil, gl.DYNAMIC_DRAW)
	gl.BindBufferBase(gl.UNIFORM_BUFFER, binding, ubo)
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
	return ubo
}

func (d *GL) UpdateUniformBuffer(ubo uint32, data []byte) {
	if len(data) == 0 {
		return
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, ubo)
	gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(data), gl.Ptr(data))
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (d *GL) DeleteBuffer(buf uint32) {
	gl.DeleteBuffers(1, &buf)
}

// CreateVertexArray uploads interleaved vertices and indices and reserves an
// instance buffer wired to attribute locations 4..7. With no vertices it
// returns a bare VAO for attribute-less draws.
func (d *GL) CreateVertexArray(vertices []Vertex, indices []uint32) VertexArray {
	var va VertexArray
	gl.GenVertexArrays(1, &va.VAO)
	if len(vertices) == 0 {
		return va
	}
	gl.BindVertexArray(va.VAO)

	gl.GenBuffers(1, &va.VBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*VertexSize, gl.Ptr(vertices), gl.STATIC_DRAW)

	for i := uint32(0); i < 4; i++ {
		gl.EnableVertexAttribArray(i)
		gl.VertexAttribPointerWithOffset(i, 3, gl.FLOAT, false, VertexSize, uintptr(i*12))
	}

	if len(indices) > 0 {
		gl.GenBuffers(1, &va.EBO)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, va.EBO)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.GenBuffers(1, &va.InstanceVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, va.InstanceVBO)
	gl.BufferData(gl.ARRAY_BUFFER, mat4Size, nil, gl.STREAM_DRAW)
	for i := uint32(0); i < 4; i++ {
		loc := 4 + i
		gl.EnableVertexAttribArray(loc)
		gl.VertexAttribPointerWithOffset(loc, 4, gl.FLOAT, false, mat4Size, uintptr(i*16))
		gl.VertexAttribDivisor(loc, 1)
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	return va
}

func (d *GL) DeleteVertexArray(va VertexArray) {
	for _, buf := range []uint32{va.VBO, va.EBO, va.InstanceVBO} {
		if buf != 0 {
			gl.DeleteBuffers(1, &buf)
		}
	}
	if va.VAO != 0 {
		gl.DeleteVertexArrays(1, &va.VAO)
	}
}

// UploadInstances replaces the whole contents of an instance buffer. The
// previous storage is orphaned so a draw still in flight keeps its data.
func (d *GL) UploadInstances(vbo uint32, matrices []mgl32.Mat4) {
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	if len(matrices) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, mat4Size, nil, gl.STREAM_DRAW)
	} else {
		gl.BufferData(gl.ARRAY_BUFFER, len(matrices)*mat4Size, unsafe.Pointer(&matrices[0][0]), gl.STREAM_DRAW)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
}

func (d *GL) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *GL) ClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *GL) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if mask&ClearStencil != 0 {
		bits |= gl.STENCIL_BUFFER_BIT
	}
	gl.Clear(bits)
}

func (d *GL) Enable(c Capability) {
	gl.Enable(glCapability(c))
}

func (d *GL) Disable(c Capability) {
	gl.Disable(glCapability(c))
}

func glCapability(c Capability) uint32 {
	switch c {
	case CullFace:
		return gl.CULL_FACE
	case PolygonOffsetFill:
		return gl.POLYGON_OFFSET_FILL
	default:
		return gl.DEPTH_TEST
	}
}

func (d *GL) CullFace(f Face) {
	if f == FaceFront {
		gl.CullFace(gl.FRONT)
		return
	}
	gl.CullFace(gl.BACK)
}

func (d *GL) PolygonOffset(factor, units float32) {
	gl.PolygonOffset(factor, units)
}

func (d *GL) PolygonMode(m PolygonMode) {
	if m == PolygonLine {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		return
	}
	gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
}

func (d *GL) ColorMask(enabled bool) {
	gl.ColorMask(enabled, enabled, enabled, enabled)
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
func (d *GL) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(program, logLen, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", strings.TrimRight(log, "\x00"))
	}

	return program, nil
}

func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetShaderInfoLog(shader, logLen, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", stage, strings.TrimRight(log, "\x00"))
	}

	return shader, nil
}

func (d *GL) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *GL) UseProgram(program uint32) {
	gl.UseProgram(program)
}

// BindUniformBlock connects a named uniform block of program to a binding
// point. Programs that do not declare the block are left untouched.
func (d *GL) BindUniformBlock(program uint32, block string, binding uint32) {
	idx := gl.GetUniformBlockIndex(program, gl.Str(block+"\x00"))
	if idx == gl.INVALID_INDEX {
		return
	}
	gl.UniformBlockBinding(program, idx, binding)
}

func (d *GL) UniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (d *GL) UniformMatrix4(location int32, m mgl32.Mat4) {
	gl.UniformMatrix4fv(location, 1, false, &m[0])
}

func (d *GL) Uniform1i(location int32, v int32) {
	gl.Uniform1i(location, v)
}

func (d *GL) Uniform1f(location int32, v float32) {
	gl.Uniform1f(location, v)
}

func (d *GL) Uniform3f(location int32, v mgl32.Vec3) {
	gl.Uniform3f(location, v[0], v[1], v[2])
}

func (d *GL) DrawElementsInstanced(vao uint32, indexCount, instances int32) {
	gl.BindVertexArray(vao)
	gl.DrawElementsInstanced(gl.TRIANGLES, indexCount, gl.UNSIGNED_INT, nil, instances)
	gl.BindVertexArray(0)
}

func (d *GL) DrawArrays(vao uint32, first, count int32) {
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.TRIANGLES, first, count)
	gl.BindVertexArray(0)
}
