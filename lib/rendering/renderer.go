package rendering

import (
	"github.com/fosdem/glexperiment/lib/rendering/shaders"
	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// Renderer draws one piece of geometry with one program per frame.
type Renderer struct {
	program     shaders.Program
	geometry    *GeometryBuffers
	clearColour mgl32.Vec4
}

func NewRenderer(program shaders.Program, geometry *GeometryBuffers, clearColour mgl32.Vec4) *Renderer {
	return &Renderer{
		program:     program,
		geometry:    geometry,
		clearColour: clearColour,
	}
}

func (r *Renderer) Start() {
	c := r.clearColour
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

func (r *Renderer) DrawFrame() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
	r.program.Use()
	r.geometry.Draw()
}

func (r *Renderer) Program() shaders.Program {
	return r.program
}

// SwapProgram makes p the active program and frees the previous one.
func (r *Renderer) SwapProgram(p shaders.Program) {
	old := r.program
	r.program = p
	if old.Valid() && old != p {
		old.Delete()
	}
}

func (r *Renderer) Delete() {
	r.geometry.Delete()
	if r.program.Valid() {
		r.program.Delete()
	}
}
