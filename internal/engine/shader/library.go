package shader

import (
	_ "embed"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/engine/uniform"
	"github.com/Faultbox/hexview/internal/logger"
)

// Built-in program names.
const (
	Shadow = "shadow"
	Sky    = "sky"
	Lit    = "lit"
)

// ErrUnknownProgram is returned by Library.Get for names that were never loaded.
var ErrUnknownProgram = errors.New("unknown shader program")

//go:embed glsl/shadow.vert
var shadowVertexShader string

//go:embed glsl/shadow.frag
var shadowFragmentShader string

//go:embed glsl/sky.vert
var skyVertexShader string

//go:embed glsl/sky.frag
var skyFragmentShader string

//go:embed glsl/lit.vert
var litVertexShader string

//go:embed glsl/lit.frag
var litFragmentShader string

var builtins = []struct {
	name, vert, frag string
}{
	{Shadow, shadowVertexShader, shadowFragmentShader},
	{Sky, skyVertexShader, skyFragmentShader},
	{Lit, litVertexShader, litFragmentShader},
}

// Library owns named programs.
type Library struct {
	dev      gpu.Device
	programs map[string]*Program
}

// NewLibrary returns an empty library.
func NewLibrary(dev gpu.Device) *Library {
	return &Library{dev: dev, programs: make(map[string]*Program)}
}

// LoadBuiltin compiles the shadow, sky and lit programs.
func (l *Library) LoadBuiltin() error {
	for _, b := range builtins {
		if _, err := l.Load(b.name, b.vert, b.frag); err != nil {
			return err
		}
	}
	return nil
}

// Load compiles a program and registers it under name, replacing any
// previous program with that name. The RenderData block is bound if declared.
func (l *Library) Load(name, vertexSrc, fragmentSrc string) (*Program, error) {
	p, err := NewProgram(l.dev, name, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}
	l.dev.BindUniformBlock(p.ID, uniform.BlockName, uniform.Binding)

	if old, ok := l.programs[name]; ok {
		old.Delete()
	}
	l.programs[name] = p

	logger.Named("shader").Debug("program loaded", zap.String("name", name), zap.Uint32("id", p.ID))
	return p, nil
}

// Get returns the program registered under name.
func (l *Library) Get(name string) (*Program, error) {
	p, ok := l.programs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownProgram, name)
	}
	return p, nil
}

// MustGet returns the program registered under name and panics otherwise.
func (l *Library) MustGet(name string) *Program {
	p, err := l.Get(name)
	if err != nil {
		panic(err)
	}
	return p
}

// Close deletes every program.
func (l *Library) Close() {
	for name, p := range l.programs {
		p.Delete()
		delete(l.programs, name)
	}
}
