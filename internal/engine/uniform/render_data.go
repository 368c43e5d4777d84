// Package uniform packs per-frame camera and light state into the std140
// RenderData block shared by every lit shader.
package uniform

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// BlockName is the uniform block name declared in GLSL.
	BlockName = "RenderData"
	// Binding is the uniform buffer binding point of the block.
	Binding uint32 = 0
	// Size is the std140 size of the block in bytes.
	Size = 192
)

// RenderData mirrors the GLSL RenderData block (std140). Every vec3 is
// followed by an explicit float so the next member starts on 16 bytes.
type RenderData struct {
	View       mgl32.Mat4 // offset   0
	Projection mgl32.Mat4 // offset  64
	ViewPos    mgl32.Vec3 // offset 128
	_          float32    // offset 140
	LightDir   mgl32.Vec3 // offset 144
	_          float32    // offset 156
	LightColor mgl32.Vec3 // offset 160
	_          float32    // offset 172
	Wireframe  int32      // offset 176
	_          [3]float32 // offset 180: pad to 192
}

// Field offsets within the marshalled block.
const (
	offsetView       = 0
	offsetProjection = 64
	offsetViewPos    = 128
	offsetLightDir   = 144
	offsetLightColor = 160
	offsetWireframe  = 176
)

func putFloats(buf []byte, offset int, values []float32) {
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[offset+i*4:], math.Float32bits(v))
	}
}

// Marshal serializes the block for upload. Padding bytes are zero.
func (r *RenderData) Marshal() []byte {
	buf := make([]byte, Size)
	putFloats(buf, offsetView, r.View[:])
	putFloats(buf, offsetProjection, r.Projection[:])
	putFloats(buf, offsetViewPos, r.ViewPos[:])
	putFloats(buf, offsetLightDir, r.LightDir[:])
	putFloats(buf, offsetLightColor, r.LightColor[:])
	binary.LittleEndian.PutUint32(buf[offsetWireframe:], uint32(r.Wireframe))
	return buf
}

// RenderData must stay exactly Size bytes.
var _ [Size - unsafe.Sizeof(RenderData{})]struct{}
var _ [unsafe.Sizeof(RenderData{}) - Size]struct{}
