package scene

import (
	"github.com/taigrr/softras/pkg/math3d"
)

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Object
	Material

	Name     string
	Vertices []math3d.Vec3
	UVs      []math3d.Vec2 // Optional; missing entries read as (0,0)
	Faces    [][3]int      // Indices into Vertices
}

var _ Renderable = (*Mesh)(nil)

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{
		Object: NewObject(),
		Name:   name,
	}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// Vertex returns the local position of vertex i.
func (m *Mesh) Vertex(i int) math3d.Vec3 {
	return m.Vertices[i]
}

// TexCoord returns the texture coordinate of vertex i.
func (m *Mesh) TexCoord(i int) math3d.Vec2 {
	if i < len(m.UVs) {
		return m.UVs[i]
	}
	return math3d.Vec2{}
}

// Triangles returns the face index table.
func (m *Mesh) Triangles() [][3]int {
	return m.Faces
}

// Validate reports ErrInvalidIndex if a face references a missing vertex.
func (m *Mesh) Validate() error {
	return validate(len(m.Vertices), m.Faces)
}

// Bounds returns the axis-aligned bounding box of the vertices.
func (m *Mesh) Bounds() (lo, hi math3d.Vec3) {
	if len(m.Vertices) == 0 {
		return
	}
	lo, hi = m.Vertices[0], m.Vertices[0]
	for _, v := range m.Vertices[1:] {
		lo = lo.Min(v)
		hi = hi.Max(v)
	}
	return lo, hi
}

// Fit recenters the vertex data on the origin and scales it uniformly so
// the largest dimension equals size.
func (m *Mesh) Fit(size float64) {
	lo, hi := m.Bounds()
	center := lo.Add(hi).Scale(0.5)
	dim := hi.Sub(lo)
	maxDim := max(dim.X, dim.Y, dim.Z)
	if maxDim <= 0 {
		return
	}

	fit := math3d.Scale(math3d.Splat3(size / maxDim)).Mul(math3d.Translate(center.Negate()))
	for i, v := range m.Vertices {
		m.Vertices[i] = fit.MulPoint(v)
	}
}
