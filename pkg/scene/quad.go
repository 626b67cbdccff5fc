package scene

import (
	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/render"
)

// quadTriangles splits a quad along the 1-2 diagonal.
var quadTriangles = [][3]int{{0, 1, 2}, {1, 2, 3}}

// Quad is a flat rectangle in its local XY plane, facing +Z. Vertices are
// bottom-left, bottom-right, top-left, top-right.
type Quad struct {
	Object
	Material

	vertices [4]math3d.Vec3
	uvs      [4]math3d.Vec2
	colors   *[4]render.Tint
}

var (
	_ Renderable = (*Quad)(nil)
	_ Colored    = (*Quad)(nil)
)

// NewQuad creates a width x height quad centered on its origin. The
// texture's first row maps to the top edge.
func NewQuad(width, height float64) *Quad {
	w, h := width/2, height/2
	return &Quad{
		Object: NewObject(),
		vertices: [4]math3d.Vec3{
			math3d.V3(-w, -h, 0),
			math3d.V3(w, -h, 0),
			math3d.V3(-w, h, 0),
			math3d.V3(w, h, 0),
		},
		uvs: [4]math3d.Vec2{
			math3d.V2(0, 1),
			math3d.V2(1, 1),
			math3d.V2(0, 0),
			math3d.V2(1, 0),
		},
	}
}

// SetVertexColors sets a tint per corner, in vertex order.
func (q *Quad) SetVertexColors(c [4]render.Tint) {
	q.colors = &c
}

// VertexCount returns 4.
func (q *Quad) VertexCount() int { return len(q.vertices) }

// Vertex returns the local position of vertex i.
func (q *Quad) Vertex(i int) math3d.Vec3 { return q.vertices[i] }

// TexCoord returns the texture coordinate of vertex i.
func (q *Quad) TexCoord(i int) math3d.Vec2 { return q.uvs[i] }

// Triangles returns the fixed two-triangle index table.
func (q *Quad) Triangles() [][3]int { return quadTriangles }

// VertexColor returns the tint of vertex i, if colors were set.
func (q *Quad) VertexColor(i int) (render.Tint, bool) {
	if q.colors == nil {
		return render.Tint{}, false
	}
	return q.colors[i], true
}
