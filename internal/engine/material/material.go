// Package material pairs a shader program with its texture bindings.
package material

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/engine/handle"
	"github.com/Faultbox/hexview/internal/engine/shader"
	"github.com/Faultbox/hexview/internal/engine/texture"
	"github.com/Faultbox/hexview/internal/logger"
)

// ShadowUnit is reserved for the shadow map. Bindings on it are dropped
// because the geometry pass would overwrite them.
const ShadowUnit = 5

// TextureBinding binds a texture to a sampler uniform on a texture unit.
type TextureBinding struct {
	Unit    uint32
	Texture uint32
	Sampler string // sampler uniform name, set to Unit on Apply
}

// Material is a program plus textures, identified by Handle for batching.
type Material struct {
	Handle   handle.Handle
	Name     string
	Program  *shader.Program
	Textures []TextureBinding

	dev gpu.Device
}

// Valid reports whether the material has a usable program.
func (m *Material) Valid() bool {
	return m != nil && m.Program.Valid()
}

// Apply binds the program and every texture unit. It returns false, without
// touching GPU state, if the program is missing.
func (m *Material) Apply() bool {
	if !m.Valid() {
		return false
	}
	m.Program.Use()
	for _, t := range m.Textures {
		m.dev.BindTextureUnit(t.Unit, t.Texture)
		if t.Sampler != "" {
			m.Program.SetInt(t.Sampler, int32(t.Unit))
		}
	}
	return true
}

// Library issues material handles and owns the textures it creates.
type Library struct {
	dev       gpu.Device
	alloc     handle.Allocator
	materials map[handle.Handle]*Material
	textures  []uint32
}

// NewLibrary returns an empty material library.
func NewLibrary(dev gpu.Device) *Library {
	return &Library{dev: dev, materials: make(map[handle.Handle]*Material)}
}

// Create registers a material.
func (l *Library) Create(name string, program *shader.Program, textures ...TextureBinding) *Material {
	log := logger.Named("material")
	kept := make([]TextureBinding, 0, len(textures))
	for _, t := range textures {
		if t.Unit == ShadowUnit {
			log.Warn("dropping texture bound to the shadow map unit",
				zap.String("name", name), zap.Uint32("unit", t.Unit),
				zap.String("sampler", t.Sampler))
			continue
		}
		kept = append(kept, t)
	}
	m := &Material{
		Handle:   l.alloc.Alloc(),
		Name:     name,
		Program:  program,
		Textures: kept,
		dev:      l.dev,
	}
	if !m.Valid() {
		log.Warn("material has no program", zap.String("name", name))
	}
	l.materials[m.Handle] = m
	return m
}

// Get returns the material for h.
func (l *Library) Get(h handle.Handle) (*Material, bool) {
	m, ok := l.materials[h]
	return m, ok
}

// Len returns the number of registered materials.
func (l *Library) Len() int { return len(l.materials) }

// SolidTexture creates a 1×1 texture of the given color, owned by the library.
func (l *Library) SolidTexture(r, g, b, a byte) uint32 {
	return l.Texture(1, 1, []byte{r, g, b, a})
}

// CheckerTexture creates a size×size two-tone checkerboard.
func (l *Library) CheckerTexture(size int32, light, dark byte) uint32 {
	pixels := make([]byte, 0, size*size*4)
	for y := int32(0); y < size; y++ {
		for x := int32(0); x < size; x++ {
			v := dark
			if (x+y)%2 == 0 {
				v = light
			}
			pixels = append(pixels, v, v, v, 255)
		}
	}
	return l.Texture(size, size, pixels)
}

// Texture uploads RGBA pixels as a texture owned by the library.
func (l *Library) Texture(width, height int32, pixels []byte) uint32 {
	tex := l.dev.CreateRGBATexture(width, height, pixels)
	if tex == 0 {
		logger.Named("material").Warn("texture upload failed",
			zap.Int32("width", width), zap.Int32("height", height))
		return 0
	}
	l.textures = append(l.textures, tex)
	return tex
}

// LoadTexture decodes an image file and uploads it.
func (l *Library) LoadTexture(path string) (uint32, error) {
	img, err := texture.Load(path)
	if err != nil {
		return 0, err
	}
	b := img.Bounds()
	tex := l.Texture(int32(b.Dx()), int32(b.Dy()), img.Pix)
	if tex == 0 {
		return 0, fmt.Errorf("uploading %s: texture creation failed", path)
	}
	return tex, nil
}

// Close releases owned textures and forgets every material. Programs belong
// to the shader library.
func (l *Library) Close() {
	for _, tex := range l.textures {
		l.dev.DeleteTexture(tex)
	}
	l.textures = nil
	clear(l.materials)
}
