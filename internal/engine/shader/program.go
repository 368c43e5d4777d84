// Package shader compiles GLSL programs and exposes named uniform setters.
package shader

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/gpu"
)

// Program is a linked shader program with cached uniform locations.
type Program struct {
	Name string
	ID   uint32

	dev       gpu.Device
	locations map[string]int32
}

// NewProgram compiles and links a program.
func NewProgram(dev gpu.Device, name, vertexSrc, fragmentSrc string) (*Program, error) {
	id, err := dev.CompileProgram(vertexSrc, fragmentSrc)
	if err != nil {
		return nil, fmt.Errorf("compiling %s program: %w", name, err)
	}
	if id == 0 {
		return nil, fmt.Errorf("compiling %s program: no program object", name)
	}
	return &Program{
		Name:      name,
		ID:        id,
		dev:       dev,
		locations: make(map[string]int32),
	}, nil
}

// Valid reports whether the program can be used for drawing.
func (p *Program) Valid() bool {
	return p != nil && p.ID != 0
}

// Use binds the program.
func (p *Program) Use() {
	p.dev.UseProgram(p.ID)
}

// Location returns the uniform location for name, or -1 if the program does
// not use it. Lookups are cached per program.
func (p *Program) Location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := p.dev.UniformLocation(p.ID, name)
	p.locations[name] = loc
	return loc
}

// Setters silently skip uniforms the linker removed.

func (p *Program) SetMat4(name string, m mgl32.Mat4) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.UniformMatrix4(loc, m)
	}
}

func (p *Program) SetInt(name string, v int32) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.Uniform1i(loc, v)
	}
}

func (p *Program) SetFloat(name string, v float32) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.Uniform1f(loc, v)
	}
}

func (p *Program) SetVec3(name string, v mgl32.Vec3) {
	if loc := p.Location(name); loc >= 0 {
		p.dev.Uniform3f(loc, v)
	}
}

// Delete releases the program object.
func (p *Program) Delete() {
	if p.ID != 0 {
		p.dev.DeleteProgram(p.ID)
		p.ID = 0
	}
}
