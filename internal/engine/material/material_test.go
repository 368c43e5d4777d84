package material

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/hexview/internal/engine/gpu/gputest"
	"github.com/Faultbox/hexview/internal/engine/shader"
)

func TestApplyBindsProgramAndTextures(t *testing.T) {
	dev := gputest.NewRecorder()
	prog, err := shader.NewProgram(dev, "lit", "", "")
	if err != nil {
		t.Fatal(err)
	}
	lib := NewLibrary(dev)
	tex := lib.SolidTexture(255, 255, 255, 255)

	m := lib.Create("white", prog,
		TextureBinding{Unit: 0, Texture: tex, Sampler: "albedo"},
		TextureBinding{Unit: 2, Texture: 99},
	)

	dev.Reset()
	if !m.Apply() {
		t.Fatal("Apply returned false for valid material")
	}

	if dev.Index("UseProgram") != 0 {
		t.Errorf("program must be bound first, got %v", dev.Names())
	}
	binds := dev.Find("BindTextureUnit")
	if len(binds) != 2 {
		t.Fatalf("expected 2 texture binds, got %d", len(binds))
	}
	if binds[0].Args[0] != uint32(0) || binds[0].Args[1] != tex {
		t.Errorf("unexpected first bind %v", binds[0])
	}
	if binds[1].Args[0] != uint32(2) || binds[1].Args[1] != uint32(99) {
		t.Errorf("unexpected second bind %v", binds[1])
	}
	if dev.Count("Uniform1i") != 1 {
		t.Errorf("expected sampler uniform set once, got %d", dev.Count("Uniform1i"))
	}
}

func TestApplyWithoutProgram(t *testing.T) {
	dev := gputest.NewRecorder()
	lib := NewLibrary(dev)
	m := lib.Create("broken", nil)

	dev.Reset()
	if m.Apply() {
		t.Error("Apply should fail without a program")
	}
	if len(dev.Calls) != 0 {
		t.Errorf("Apply touched GPU state: %v", dev.Names())
	}
}

func TestHandlesDistinct(t *testing.T) {
	lib := NewLibrary(gputest.NewRecorder())
	a := lib.Create("a", nil)
	b := lib.Create("b", nil)
	if a.Handle == b.Handle {
		t.Error("materials share a handle")
	}
	if got, ok := lib.Get(b.Handle); !ok || got != b {
		t.Error("Get did not return the material")
	}
}

func TestCheckerTextureAndClose(t *testing.T) {
	dev := gputest.NewRecorder()
	lib := NewLibrary(dev)

	if tex := lib.CheckerTexture(4, 220, 160); tex == 0 {
		t.Fatal("checker texture not created")
	}
	if tex := lib.Texture(2, 2, []byte{1, 2, 3}); tex != 0 {
		t.Error("mismatched pixel buffer should fail")
	}

	lib.Close()
	if dev.Live("texture") != 0 {
		t.Error("Close leaked textures")
	}
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "albedo.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, 4, 2))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	dev := gputest.NewRecorder()
	lib := NewLibrary(dev)
	tex, err := lib.LoadTexture(path)
	if err != nil {
		t.Fatalf("LoadTexture: %v", err)
	}
	if tex == 0 || !dev.IsLive(tex) {
		t.Fatal("texture not uploaded")
	}
	if c := dev.Find("CreateRGBATexture")[0]; c.Args[0] != int32(4) || c.Args[1] != int32(2) {
		t.Errorf("upload = %v, want 4x2", c)
	}

	if _, err := lib.LoadTexture(filepath.Join(t.TempDir(), "nope.tga")); err == nil {
		t.Error("missing file loaded")
	}

	dev.FailAllocations = true
	if _, err := lib.LoadTexture(path); err == nil {
		t.Error("failed upload not reported")
	}
}

func TestCreateDropsShadowUnitBinding(t *testing.T) {
	dev := gputest.NewRecorder()
	prog, err := shader.NewProgram(dev, "lit", "", "")
	if err != nil {
		t.Fatal(err)
	}
	lib := NewLibrary(dev)

	m := lib.Create("clash", prog,
		TextureBinding{Unit: 0, Texture: 7, Sampler: "albedo"},
		TextureBinding{Unit: ShadowUnit, Texture: 8, Sampler: "detail"},
	)
	if len(m.Textures) != 1 || m.Textures[0].Unit != 0 {
		t.Fatalf("shadow unit binding kept: %+v", m.Textures)
	}

	dev.Reset()
	m.Apply()
	for _, c := range dev.Find("BindTextureUnit") {
		if c.Args[0] == uint32(ShadowUnit) {
			t.Errorf("material bound texture %v on the shadow unit", c.Args[1])
		}
	}
}
