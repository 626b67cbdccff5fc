package render

import "github.com/taigrr/softras/pkg/math3d"

// Attribute is a per-vertex value that can be blended across a triangle.
// math3d.Vec2, math3d.Vec3 and Tint satisfy it.
type Attribute[T any] interface {
	Add(T) T
	Scale(float64) T
}

// ComputeVertexAttribute interpolates attr at fragment with plain
// screen-space barycentric weights. Under perspective this warps texture
// coordinates; use ComputeCorrectedVertexAttribute for those.
func ComputeVertexAttribute[T Attribute[T]](tri Triangle, attr [3]T, fragment math3d.Vec3) T {
	return Interpolate(BarycentricCoords(fragment, tri[0], tri[1], tri[2]), attr)
}

// ComputeCorrectedVertexAttribute interpolates attr at fragment with
// perspective correction using each vertex's post-divide depth:
//
//	z = 1 / sum(w_i / z_i)
//	attr = z * sum(w_i * attr_i / z_i)
func ComputeCorrectedVertexAttribute[T Attribute[T]](tri Triangle, attr [3]T, fragment math3d.Vec3) T {
	w := BarycentricCoords(fragment, tri[0], tri[1], tri[2])
	return InterpolateCorrected(w, tri.depths(), attr)
}

// Interpolate blends attr with precomputed barycentric weights.
func Interpolate[T Attribute[T]](w math3d.Vec3, attr [3]T) T {
	return attr[0].Scale(w.X).Add(attr[1].Scale(w.Y)).Add(attr[2].Scale(w.Z))
}

// InterpolateCorrected blends attr with precomputed barycentric weights,
// dividing each vertex's contribution by its depth z[i].
func InterpolateCorrected[T Attribute[T]](w, z math3d.Vec3, attr [3]T) T {
	w0, w1, w2 := w.X/z.X, w.Y/z.Y, w.Z/z.Z
	depth := 1 / (w0 + w1 + w2)
	return Interpolate(math3d.V3(w0*depth, w1*depth, w2*depth), attr)
}

func (t Triangle) depths() math3d.Vec3 {
	return math3d.V3(t[0].Z, t[1].Z, t[2].Z)
}
