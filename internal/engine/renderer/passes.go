package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/hexview/internal/engine/batch"
	"github.com/Faultbox/hexview/internal/engine/gpu"
	"github.com/Faultbox/hexview/internal/engine/shader"
)

// skyVertices is the full-screen pair of triangles generated from
// gl_VertexID in the sky vertex shader.
const skyVertices = 6

// drawSky paints the background with depth testing off.
func (p *Pipeline) drawSky(lightDir mgl32.Vec3) {
	sky, err := p.shaders.Get(shader.Sky)
	if err != nil || !sky.Valid() || !p.skyVAO.Valid() {
		return
	}

	p.dev.Disable(gpu.DepthTest)
	sky.Use()
	sky.SetMat4("inverse_projection", p.camera.ProjectionMatrix().Inv())
	sky.SetMat4("inverse_view", p.camera.ViewMatrix().Inv())
	sky.SetVec3("light_dir", lightDir)
	sky.SetVec3("light_color", p.light.Color)
	sky.SetVec3("top_color", p.light.Sky.Top)
	sky.SetVec3("bottom_color", p.light.Sky.Bottom)
	sky.SetFloat("mie_g", p.light.Sky.MieG)
	p.dev.DrawArrays(p.skyVAO.VAO, 0, skyVertices)
	p.dev.Enable(gpu.DepthTest)
}

// drawGeometry issues one instanced draw per batch and returns the number
// of draws.
func (p *Pipeline) drawGeometry(batches []batch.Batch, wireframe bool) int {
	if len(batches) == 0 {
		return 0
	}

	if wireframe {
		p.dev.PolygonMode(gpu.PolygonLine)
		defer p.dev.PolygonMode(gpu.PolygonFill)
	}

	shade := int32(1)
	if wireframe {
		shade = 0
	}
	lightSpace := p.shadows.LightSpace()

	draws := 0
	for _, b := range batches {
		if !b.Mesh.Drawable() || !b.Material.Valid() {
			continue
		}
		// The shadow pass grouped this mesh differently and already drew
		// from the buffer; the upload below is consumed by the next draw.
		p.dev.UploadInstances(b.Mesh.VertexArray.InstanceVBO, b.Instances)
		if !b.Material.Apply() {
			continue
		}
		prog := b.Material.Program
		prog.SetMat4("light_space_matrix", lightSpace)
		prog.SetInt("should_shade", shade)
		prog.SetInt("shadow_map", ShadowUnit)
		p.dev.BindTextureUnit(ShadowUnit, p.shadows.DepthTexture())

		p.dev.DrawElementsInstanced(b.Mesh.VertexArray.VAO, b.Mesh.IndexCount, int32(len(b.Instances)))
		draws++
	}
	return draws
}
