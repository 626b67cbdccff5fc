package render

import "github.com/taigrr/softras/pkg/math3d"

// Triangle is a triangle in screen space. X and Y are pixel coordinates; Z
// is the post-divide depth, kept only for perspective-correct
// interpolation.
type Triangle [3]math3d.Vec3

// Area returns twice the signed screen-space area of the triangle.
func (t Triangle) Area() float64 {
	return EdgeFunction(t[0], t[1], t[2])
}

// Bounds returns the screen-space bounding box of the triangle.
func (t Triangle) Bounds() (lo, hi math3d.Vec3) {
	return t[0].Min(t[1]).Min(t[2]), t[0].Max(t[1]).Max(t[2])
}

// EdgeFunction returns (c-a) x (b-a) in 2D: twice the signed area of
// (a, b, c). Only X and Y are used.
func EdgeFunction(a, b, c math3d.Vec3) float64 {
	return (c.X-a.X)*(b.Y-a.Y) - (c.Y-a.Y)*(b.X-a.X)
}

// BarycentricCoords returns the weights of p with respect to (v0, v1, v2).
//
// The weights are normalized by the triangle area only when all three edge
// values are non-negative. Otherwise the raw edge values are returned, and
// they are not barycentric weights. A zero-area triangle divides by zero
// and yields non-finite weights.
func BarycentricCoords(p, v0, v1, v2 math3d.Vec3) math3d.Vec3 {
	area := EdgeFunction(v0, v1, v2)
	w := math3d.V3(
		EdgeFunction(v1, v2, p),
		EdgeFunction(v2, v0, p),
		EdgeFunction(v0, v1, p),
	)
	if w.X >= 0 && w.Y >= 0 && w.Z >= 0 {
		return w.Scale(1 / area)
	}
	return w
}

// IsPointInsideTriangle reports whether p lies inside or on the boundary
// of (p0, p1, p2), for either winding. Only X and Y are used.
func IsPointInsideTriangle(p, p0, p1, p2 math3d.Vec3) bool {
	s := cross2(p2, p0, p)
	t := cross2(p0, p1, p)

	if (s < 0) != (t < 0) && s != 0 && t != 0 {
		return false
	}

	d := cross2(p1, p2, p)
	st := s + t
	return d == 0 || st == 0 || (d < 0) == (st < 0)
}

// cross2 is the z component of (b-a) x (p-a).
func cross2(a, b, p math3d.Vec3) float64 {
	return (b.X-a.X)*(p.Y-a.Y) - (b.Y-a.Y)*(p.X-a.X)
}
