package rendering

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	f32 = 4
	u32 = 4
)

// Mesh is indexed triangle-list geometry with a position-only layout.
type Mesh struct {
	Vertices []mgl32.Vec3
	Indices  []uint32
}

// RectangleMesh is a centred 1x1 quad made of two triangles.
func RectangleMesh() Mesh {
	return Mesh{
		Vertices: []mgl32.Vec3{
			{0.5, 0.5, 0.0},   // top right
			{0.5, -0.5, 0.0},  // bottom right
			{-0.5, -0.5, 0.0}, // bottom left
			{-0.5, 0.5, 0.0},  // top left
		},
		Indices: []uint32{
			0, 1, 3,
			1, 2, 3,
		},
	}
}

func TriangleMesh() Mesh {
	return Mesh{
		Vertices: []mgl32.Vec3{
			{-0.5, -0.5, 0.0}, // left
			{0.5, -0.5, 0.0},  // right
			{0.0, 0.5, 0.0},   // top
		},
		Indices: []uint32{0, 1, 2},
	}
}

func (m Mesh) Validate() error {
	if len(m.Vertices) == 0 {
		return fmt.Errorf("mesh has no vertices")
	}
	if len(m.Indices) == 0 || len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh needs a non-zero multiple of 3 indices, has %d", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Vertices) {
			return fmt.Errorf("index %d refers to vertex %d, but there are only %d", i, idx, len(m.Vertices))
		}
	}
	return nil
}

// Flatten lays the vertices out as tightly packed xyz floats.
func (m Mesh) Flatten() []float32 {
	out := make([]float32, 0, len(m.Vertices)*3)
	for _, v := range m.Vertices {
		out = append(out, v[0], v[1], v[2])
	}
	return out
}

// GeometryBuffers are the GL objects holding one uploaded Mesh. They are
// never written to after UploadMesh.
type GeometryBuffers struct {
	VAO uint32
	VBO uint32
	EBO uint32

	IndexCount int32
}

func UploadMesh(m Mesh) (*GeometryBuffers, error) {
	err := m.Validate()
	if err != nil {
		return nil, fmt.Errorf("refusing to upload mesh: %w", err)
	}

	g := &GeometryBuffers{IndexCount: int32(len(m.Indices))}
	vertices := m.Flatten()

	gl.GenVertexArrays(1, &g.VAO)
	gl.GenBuffers(1, &g.VBO)
	gl.GenBuffers(1, &g.EBO)

	gl.BindVertexArray(g.VAO)

	gl.BindBuffer(gl.ARRAY_BUFFER, g.VBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*f32, gl.Ptr(vertices), gl.STATIC_DRAW)

	// the element buffer binding is recorded in the VAO, so it stays bound
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, g.EBO)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(m.Indices)*u32, gl.Ptr(m.Indices), gl.STATIC_DRAW)

	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, 3*f32, 0)
	gl.EnableVertexAttribArray(0)

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return g, nil
}

func (g *GeometryBuffers) Draw() {
	gl.BindVertexArray(g.VAO)
	gl.DrawElements(gl.TRIANGLES, g.IndexCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
	gl.BindVertexArray(0)
}

func (g *GeometryBuffers) Delete() {
	gl.DeleteVertexArrays(1, &g.VAO)
	gl.DeleteBuffers(1, &g.VBO)
	gl.DeleteBuffers(1, &g.EBO)
}
