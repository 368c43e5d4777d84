package uniform

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/gpu/gputest"
)

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestRenderDataLayout(t *testing.T) {
	var r RenderData
	if got := unsafe.Sizeof(r); got != Size {
		t.Fatalf("RenderData is %d bytes, want %d", got, Size)
	}

	offsets := []struct {
		name string
		got  uintptr
		want uintptr
	}{
		{"View", unsafe.Offsetof(r.View), 0},
		{"Projection", unsafe.Offsetof(r.Projection), 64},
		{"ViewPos", unsafe.Offsetof(r.ViewPos), 128},
		{"LightDir", unsafe.Offsetof(r.LightDir), 144},
		{"LightColor", unsafe.Offsetof(r.LightColor), 160},
		{"Wireframe", unsafe.Offsetof(r.Wireframe), 176},
	}
	for _, o := range offsets {
		if o.got != o.want {
			t.Errorf("%s at offset %d, want %d", o.name, o.got, o.want)
		}
		if o.want%16 != 0 && o.name != "Wireframe" {
			t.Errorf("%s is not 16-byte aligned", o.name)
		}
	}
}

func TestMarshalPlacesFields(t *testing.T) {
	r := RenderData{
		View:       mgl32.Translate3D(1, 2, 3),
		Projection: mgl32.Scale3D(4, 5, 6),
		ViewPos:    mgl32.Vec3{7, 8, 9},
		LightDir:   mgl32.Vec3{-0.2, -1, -0.3},
		LightColor: mgl32.Vec3{1, 0.5, 0.25},
		Wireframe:  1,
	}
	buf := r.Marshal()
	if len(buf) != Size {
		t.Fatalf("marshalled %d bytes, want %d", len(buf), Size)
	}

	// Column-major: translation lives in elements 12..14.
	if floatAt(buf, 12*4) != 1 || floatAt(buf, 13*4) != 2 || floatAt(buf, 14*4) != 3 {
		t.Error("view translation not at column 3")
	}
	if floatAt(buf, 64) != 4 || floatAt(buf, 64+5*4) != 5 || floatAt(buf, 64+10*4) != 6 {
		t.Error("projection diagonal misplaced")
	}
	if floatAt(buf, 128) != 7 || floatAt(buf, 136) != 9 {
		t.Error("view_pos misplaced")
	}
	if floatAt(buf, 148) != -1 {
		t.Error("light_dir misplaced")
	}
	if floatAt(buf, 164) != 0.5 {
		t.Error("light_color misplaced")
	}
	if binary.LittleEndian.Uint32(buf[176:]) != 1 {
		t.Error("wireframe flag misplaced")
	}

	for _, pad := range []int{140, 156, 172, 180, 184, 188} {
		if binary.LittleEndian.Uint32(buf[pad:]) != 0 {
			t.Errorf("padding at %d is not zero", pad)
		}
	}
}

type fixedView struct{}

func (fixedView) ViewMatrix() mgl32.Mat4       { return mgl32.Ident4() }
func (fixedView) ProjectionMatrix() mgl32.Mat4 { return mgl32.Ident4() }
func (fixedView) Position() mgl32.Vec3         { return mgl32.Vec3{1, 2, 3} }

func TestSyncUploadsBlock(t *testing.T) {
	dev := gputest.NewRecorder()
	s := NewSync(dev)

	calls := dev.Find("CreateUniformBuffer")
	if len(calls) != 1 || calls[0].Args[0] != Size || calls[0].Args[1] != Binding {
		t.Fatalf("unexpected uniform buffer allocation %v", calls)
	}

	s.Update(fixedView{}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, true)

	data := dev.UniformData(s.Buffer())
	if len(data) != Size {
		t.Fatalf("uploaded %d bytes, want %d", len(data), Size)
	}
	if binary.LittleEndian.Uint32(data[176:]) != 1 {
		t.Error("wireframe flag not uploaded")
	}
	if s.Data().ViewPos != (mgl32.Vec3{1, 2, 3}) {
		t.Errorf("unexpected view pos %v", s.Data().ViewPos)
	}

	s.Close()
	if dev.Live("buffer") != 0 {
		t.Error("uniform buffer not released")
	}
}

func TestSyncWithoutBufferSkipsUpload(t *testing.T) {
	dev := gputest.NewRecorder()
	dev.FailAllocations = true
	s := NewSync(dev)

	s.Update(fixedView{}, mgl32.Vec3{0, -1, 0}, mgl32.Vec3{1, 1, 1}, false)
	if dev.Count("UpdateUniformBuffer") != 0 {
		t.Error("upload issued without a buffer")
	}
}
