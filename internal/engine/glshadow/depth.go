package glshadow

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/shadowcast/internal/engine/glshadow/shaders"
)

// Occluder is a box drawn into shadow maps.
type Occluder struct {
	Center mgl32.Vec3
	Size   mgl32.Vec3
}

// DepthPass draws a ground plane and box occluders into shadow targets.
type DepthPass struct {
	program   uint32
	locMatrix int32
	locModel  int32

	vao, vbo, ebo uint32
	groundModel   mgl32.Mat4
	boxes         []mgl32.Mat4
}

// Unit cube, the ground is its bottom face scaled flat.
var cubeVertices = []float32{
	-0.5, -0.5, -0.5, 0.5, -0.5, -0.5, 0.5, 0.5, -0.5, -0.5, 0.5, -0.5,
	-0.5, -0.5, 0.5, 0.5, -0.5, 0.5, 0.5, 0.5, 0.5, -0.5, 0.5, 0.5,
}

var cubeIndices = []uint32{
	0, 1, 2, 2, 3, 0, // back
	4, 6, 5, 6, 4, 7, // front
	0, 3, 7, 7, 4, 0, // left
	1, 5, 6, 6, 2, 1, // right
	0, 4, 5, 5, 1, 0, // bottom
	3, 2, 6, 6, 7, 3, // top
}

// NewDepthPass compiles the depth program and uploads the occluder mesh.
// extent is the side length of the square ground plane centered at the
// origin.
func NewDepthPass(extent float32, occluders []Occluder) (*DepthPass, error) {
	program, err := compileProgram(shaders.DepthVertexShader, shaders.DepthFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("depth shader: %w", err)
	}

	p := &DepthPass{
		program:     program,
		locMatrix:   uniform(program, "uLightViewProj"),
		locModel:    uniform(program, "uModel"),
		groundModel: mgl32.Scale3D(extent, 0.01, extent),
	}
	for _, o := range occluders {
		p.boxes = append(p.boxes, mgl32.Translate3D(o.Center.X(), o.Center.Y(), o.Center.Z()).
			Mul4(mgl32.Scale3D(o.Size.X(), o.Size.Y(), o.Size.Z())))
	}

	gl.GenVertexArrays(1, &p.vao)
	gl.BindVertexArray(p.vao)

	gl.GenBuffers(1, &p.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, p.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(cubeVertices)*4, gl.Ptr(cubeVertices), gl.STATIC_DRAW)

	gl.GenBuffers(1, &p.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, p.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(cubeIndices)*4, gl.Ptr(cubeIndices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*4, 0)
	gl.EnableVertexAttribArray(0)
	gl.BindVertexArray(0)

	return p, nil
}

// Render binds target, draws every occluder with the light matrix and
// restores the previous framebuffer.
func (p *DepthPass) Render(target *Target, lightViewProj mgl32.Mat4) {
	target.Bind()
	defer target.Unbind()

	gl.UseProgram(p.program)
	gl.UniformMatrix4fv(p.locMatrix, 1, false, &lightViewProj[0])
	gl.BindVertexArray(p.vao)

	p.draw(p.groundModel)
	for _, model := range p.boxes {
		p.draw(model)
	}

	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

func (p *DepthPass) draw(model mgl32.Mat4) {
	gl.UniformMatrix4fv(p.locModel, 1, false, &model[0])
	gl.DrawElements(gl.TRIANGLES, int32(len(cubeIndices)), gl.UNSIGNED_INT, nil)
}

// Destroy releases the program and the mesh.
func (p *DepthPass) Destroy() {
	if p.ebo != 0 {
		gl.DeleteBuffers(1, &p.ebo)
		p.ebo = 0
	}
	if p.vbo != 0 {
		gl.DeleteBuffers(1, &p.vbo)
		p.vbo = 0
	}
	if p.vao != 0 {
		gl.DeleteVertexArrays(1, &p.vao)
		p.vao = 0
	}
	if p.program != 0 {
		gl.DeleteProgram(p.program)
		p.program = 0
	}
}
