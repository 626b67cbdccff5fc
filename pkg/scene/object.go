// Package scene holds the renderable entities of a softras frame: textured
// quads and meshes placed with an Object transform, collected in paint
// order by a Scene.
package scene

import (
	"errors"
	"fmt"

	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/render"
)

// ErrInvalidIndex is returned when a triangle references a vertex that
// does not exist.
var ErrInvalidIndex = errors.New("triangle index out of range")

// Object places an entity in the world. Rotation holds Euler angles in
// radians applied X, then Y, then Z. Spin is added to Rotation on every
// Animate call.
type Object struct {
	Position math3d.Vec3
	Rotation math3d.Vec3
	Scale    math3d.Vec3
	Spin     math3d.Vec3
}

// NewObject returns an Object at the origin with unit scale.
func NewObject() Object {
	return Object{Scale: math3d.Splat3(1)}
}

// Transform returns the model matrix
// Scale * Translate * RotateX * RotateY * RotateZ. Translation therefore
// happens in the scaled frame.
func (o Object) Transform() math3d.Mat4 {
	return math3d.ModelMatrix(o.Position, o.Rotation, o.Scale)
}

// Animate advances Rotation by Spin.
func (o *Object) Animate() {
	o.Rotation = o.Rotation.Add(o.Spin)
}

// Base returns the object itself. Types embedding Object expose it
// through Renderable.
func (o *Object) Base() *Object {
	return o
}

// Material binds a texture, and the file it came from, to a renderable.
type Material struct {
	texture *render.Texture
	path    string
}

// Texture returns the bound texture, or nil for the default checker.
func (m *Material) Texture() *render.Texture {
	return m.texture
}

// TexturePath returns the file the texture was loaded from, if any.
func (m *Material) TexturePath() string {
	return m.path
}

// SetTexture binds tex. path may be empty for generated textures.
func (m *Material) SetTexture(tex *render.Texture, path string) {
	m.texture = tex
	m.path = path
}

// Renderable is anything the frame loop can rasterize.
type Renderable interface {
	VertexCount() int
	Vertex(i int) math3d.Vec3
	TexCoord(i int) math3d.Vec2
	Triangles() [][3]int
	Transform() math3d.Mat4
	Texture() *render.Texture
	TexturePath() string
	SetTexture(tex *render.Texture, path string)
	Base() *Object
}

// Colored is implemented by renderables that may carry per-vertex colors.
type Colored interface {
	VertexColor(i int) (render.Tint, bool)
}

// validate checks every index in tris against n vertices.
func validate(n int, tris [][3]int) error {
	for _, t := range tris {
		for _, i := range t {
			if i < 0 || i >= n {
				return fmt.Errorf("%w: %d of %d vertices", ErrInvalidIndex, i, n)
			}
		}
	}
	return nil
}
