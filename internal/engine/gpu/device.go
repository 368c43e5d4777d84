// Package gpu defines the narrow slice of the graphics API the renderer uses.
//
// Everything above this package talks to a Device instead of calling OpenGL
// directly, so passes can be exercised without a context (see gputest).
package gpu

import "github.com/go-gl/mathgl/mgl32"

// Capability is a server-side state toggle.
type Capability int

const (
	DepthTest Capability = iota
	CullFace
	PolygonOffsetFill
)

func (c Capability) String() string {
	switch c {
	case DepthTest:
		return "DepthTest"
	case CullFace:
		return "CullFace"
	case PolygonOffsetFill:
		return "PolygonOffsetFill"
	default:
		return "Unknown"
	}
}

// Face selects which polygon faces are culled.
type Face int

const (
	FaceBack Face = iota
	FaceFront
)

// PolygonMode selects filled or line rasterization.
type PolygonMode int

const (
	PolygonFill PolygonMode = iota
	PolygonLine
)

// ClearMask selects the buffers cleared by Device.Clear.
type ClearMask uint32

const (
	ClearColor ClearMask = 1 << iota
	ClearDepth
	ClearStencil
)

// FramebufferStatus is the completeness state of a framebuffer object.
type FramebufferStatus int

const (
	FramebufferComplete FramebufferStatus = iota
	FramebufferUndefined
	FramebufferIncompleteAttachment
	FramebufferMissingAttachment
	FramebufferIncompleteDrawBuffer
	FramebufferIncompleteReadBuffer
	FramebufferUnsupported
	FramebufferIncompleteMultisample
	FramebufferIncompleteLayerTargets
	FramebufferUnknown
)

func (s FramebufferStatus) String() string {
	switch s {
	case FramebufferComplete:
		return "COMPLETE"
	case FramebufferUndefined:
		return "UNDEFINED"
	case FramebufferIncompleteAttachment:
		return "INCOMPLETE_ATTACHMENT"
	case FramebufferMissingAttachment:
		return "INCOMPLETE_MISSING_ATTACHMENT"
	case FramebufferIncompleteDrawBuffer:
		return "INCOMPLETE_DRAW_BUFFER"
	case FramebufferIncompleteReadBuffer:
		return "INCOMPLETE_READ_BUFFER"
	case FramebufferUnsupported:
		return "UNSUPPORTED"
	case FramebufferIncompleteMultisample:
		return "INCOMPLETE_MULTISAMPLE"
	case FramebufferIncompleteLayerTargets:
		return "INCOMPLETE_LAYER_TARGETS"
	default:
		return "UNKNOWN"
	}
}

// Reason describes why a framebuffer is not complete.
func (s FramebufferStatus) Reason() string {
	switch s {
	case FramebufferComplete:
		return "framebuffer is complete"
	case FramebufferUndefined:
		return "default framebuffer does not exist"
	case FramebufferIncompleteAttachment:
		return "an attachment point is framebuffer incomplete"
	case FramebufferMissingAttachment:
		return "no images are attached to the framebuffer"
	case FramebufferIncompleteDrawBuffer:
		return "a draw buffer names an attachment point with no image"
	case FramebufferIncompleteReadBuffer:
		return "the read buffer names an attachment point with no image"
	case FramebufferUnsupported:
		return "attachment formats are not supported by the implementation"
	case FramebufferIncompleteMultisample:
		return "attachments do not share the same sample count"
	case FramebufferIncompleteLayerTargets:
		return "attachments are not all layered or all non-layered"
	default:
		return "unknown framebuffer status"
	}
}

// Vertex is the interleaved vertex layout shared by every mesh.
// Locations: 0 position, 1 color, 2 normal, 3 tangent, 4..7 instance matrix.
type Vertex struct {
	Position mgl32.Vec3
	Color    mgl32.Vec3
	Normal   mgl32.Vec3
	Tangent  mgl32.Vec3
}

// VertexSize is the byte stride of Vertex.
const VertexSize = 12 * 4

// VertexArray holds the buffer objects backing one piece of geometry.
type VertexArray struct {
	VAO         uint32
	VBO         uint32
	EBO         uint32
	InstanceVBO uint32 // per-instance model matrices, rewritten on every upload
}

// Valid reports whether the vertex array object was allocated.
func (v VertexArray) Valid() bool {
	return v.VAO != 0
}

// Info describes the active context.
type Info struct {
	Version  string
	Renderer string
	Vendor   string
	GLSL     string
}

// Device is a synchronous, single-threaded handle to the graphics API.
// Allocation methods return 0 on failure, matching the underlying API.
type Device interface {
	Info() Info

	// Framebuffers
	CreateFramebuffer() uint32
	DeleteFramebuffer(fbo uint32)
	BindFramebuffer(fbo uint32)
	AttachColorTexture(fbo, tex uint32)
	AttachDepthTexture(fbo, tex uint32)
	AttachDepthStencilRenderbuffer(fbo, rbo uint32)
	DisableColorBuffers(fbo uint32)
	FramebufferStatus(fbo uint32) FramebufferStatus
	BlitToDefault(src uint32, srcW, srcH, dstW, dstH int32)
	ReadPixels(fbo uint32, width, height int32) []byte

	// Textures and renderbuffers
	CreateColorTexture(width, height int32) uint32
	CreateDepthTexture(size int32) uint32
	CreateRGBATexture(width, height int32, pixels []byte) uint32
	DeleteTexture(tex uint32)
	BindTextureUnit(unit, tex uint32)
	CreateDepthStencilRenderbuffer(width, height int32) uint32
	DeleteRenderbuffer(rbo uint32)

	// Buffers and geometry
	CreateUniformBuffer(size int, binding uint32) uint32
	UpdateUniformBuffer(ubo uint32, data []byte)
	DeleteBuffer(buf uint32)
	CreateVertexArray(vertices []Vertex, indices []uint32) VertexArray
	DeleteVertexArray(va VertexArray)
	UploadInstances(vbo uint32, matrices []mgl32.Mat4)

	// Fixed-function state
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask ClearMask)
	Enable(c Capability)
	Disable(c Capability)
	CullFace(f Face)
	PolygonOffset(factor, units float32)
	PolygonMode(m PolygonMode)
	ColorMask(enabled bool)

	// Programs
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)
	UseProgram(program uint32)
	BindUniformBlock(program uint32, block string, binding uint32)
	UniformLocation(program uint32, name string) int32
	UniformMatrix4(location int32, m mgl32.Mat4)
	Uniform1i(location int32, v int32)
	Uniform1f(location int32, v float32)
	Uniform3f(location int32, v mgl32.Vec3)

	// Draws
	DrawElementsInstanced(vao uint32, indexCount, instances int32)
	DrawArrays(vao uint32, first, count int32)
}
