package app

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/hexview/internal/config"
	"github.com/Faultbox/hexview/internal/engine/ecs"
	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/engine/material"
	"github.com/Faultbox/hexview/internal/engine/mesh"
	"github.com/Faultbox/hexview/internal/engine/scene"
	"github.com/Faultbox/hexview/internal/engine/shader"
	"github.com/Faultbox/hexview/internal/logger"
)

// Spin rotates an entity around Y at Speed radians per second.
type Spin struct {
	Speed float32
}

var cubeColors = []mgl32.Vec3{
	{0.85, 0.33, 0.31},
	{0.36, 0.72, 0.36},
	{0.26, 0.55, 0.79},
}

// DemoScene is the generated scene: a grid of cubes on a ground plane with
// a two-part pillar model at each corner.
type DemoScene struct {
	Ground   *mesh.Mesh
	Cubes    []*mesh.Mesh
	Pillar   *mesh.Model
	Entities []ecs.Entity
}

// BuildDemoScene fills world with the demo content. lit may be nil, in
// which case every entity only casts shadows.
func BuildDemoScene(w *ecs.World, meshes *mesh.Library, materials *material.Library, lit *shader.Program, cfg config.SceneConfig) DemoScene {
	var d DemoScene
	n := max(cfg.GridSize, 0)
	spacing := cfg.Spacing
	if spacing <= 0 {
		spacing = 2
	}
	extent := float32(n) * spacing

	ground := groundTexture(materials, cfg.GroundTexture)
	white := materials.SolidTexture(255, 255, 255, 255)
	var groundMat, cubeMat *material.Material
	if lit != nil {
		groundMat = materials.Create("ground", lit, material.TextureBinding{Unit: 0, Texture: ground, Sampler: "albedo"})
		cubeMat = materials.Create("cube", lit, material.TextureBinding{Unit: 0, Texture: white, Sampler: "albedo"})
	}

	d.Ground = meshes.Plane("ground", max(extent+2*spacing, 10), mgl32.Vec3{0.8, 0.8, 0.8})
	spawn(&d, w, scene.Identity(), scene.MeshRef{Mesh: d.Ground}, groundMat)

	for i, c := range cubeColors {
		d.Cubes = append(d.Cubes, meshes.Cube(fmt.Sprintf("cube-%d", i), 1, c))
	}

	origin := -extent/2 + spacing/2
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			t := scene.At(mgl32.Vec3{origin + float32(x)*spacing, 0.5, origin + float32(z)*spacing})
			e := spawn(&d, w, t, scene.MeshRef{Mesh: d.Cubes[(x+z)%len(d.Cubes)]}, cubeMat)
			if (x+z)%4 == 0 {
				ecs.Add(w, e, Spin{Speed: 0.5 + float32(x%3)*0.25})
			}
		}
	}

	d.Pillar = buildPillar(meshes)
	if n > 0 {
		corner := extent/2 + spacing/2
		for _, c := range [][2]float32{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
			t := scene.At(mgl32.Vec3{c[0] * corner, 0, c[1] * corner})
			spawn(&d, w, t, scene.ModelRef{Model: d.Pillar}, cubeMat)
		}
	}
	return d
}

func spawn[R scene.MeshRef | scene.ModelRef](d *DemoScene, w *ecs.World, t scene.Transform, ref R, mat *material.Material) ecs.Entity {
	e := w.Spawn()
	ecs.Add(w, e, t)
	ecs.Add(w, e, ref)
	if mat != nil {
		ecs.Add(w, e, scene.MaterialRef{Material: mat})
	}
	d.Entities = append(d.Entities, e)
	return e
}

// groundTexture loads the configured ground image, falling back to a
// checkerboard.
func groundTexture(materials *material.Library, path string) uint32 {
	if path != "" {
		tex, err := materials.LoadTexture(path)
		if err == nil {
			return tex
		}
		logger.Named("app").Warn("ground texture unavailable, using checkerboard",
			zap.String("path", path), zap.Error(err))
	}
	return materials.CheckerTexture(8, 200, 140)
}

// buildPillar stacks a wide base and a narrow column into one model.
func buildPillar(meshes *mesh.Library) *mesh.Model {
	stone := mgl32.Vec3{0.75, 0.72, 0.65}
	baseV, baseI := mesh.CubeGeometry(1.2, stone)
	colV, colI := mesh.CubeGeometry(0.6, stone)

	offset(baseV, mgl32.Vec3{0, 0.3, 0}, mgl32.Vec3{1, 0.5, 1})
	offset(colV, mgl32.Vec3{0, 1.8, 0}, mgl32.Vec3{1, 4, 1})

	return mesh.NewModel("pillar",
		meshes.Create("pillar-base", baseV, baseI),
		meshes.Create("pillar-column", colV, colI),
	)
}

// offset scales then translates vertex positions in place.
func offset(vertices []gpu.Vertex, translate, scale mgl32.Vec3) {
	for i := range vertices {
		p := vertices[i].Position
		vertices[i].Position = mgl32.Vec3{p[0] * scale[0], p[1] * scale[1], p[2] * scale[2]}.Add(translate)
	}
}

// Animate advances every spinning entity by dt seconds.
func Animate(w *ecs.World, dt float32) {
	ecs.Query2(w, func(_ ecs.Entity, t *scene.Transform, s *Spin) bool {
		t.Rotation = mgl32.QuatRotate(s.Speed*dt, mgl32.Vec3{0, 1, 0}).Mul(t.Rotation).Normalize()
		return true
	})
}
