package math3d

import "math"

// Mat4 is a 4x4 matrix stored in column-major order, matching OpenGL.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Vectors are columns and are multiplied on the right: M * v. Composing
// a.Mul(b) applies b first, then a.
type Mat4 [16]float64

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	m := Identity()
	m[12], m[13], m[14] = v.X, v.Y, v.Z
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	m := Identity()
	m[0], m[5], m[10] = v.X, v.Y, v.Z
	return m
}

// RotateX creates a right-handed rotation around the X axis.
func RotateX(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m[5], m[6] = c, s
	m[9], m[10] = -s, c
	return m
}

// RotateY creates a right-handed rotation around the Y axis.
func RotateY(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m[0], m[2] = c, -s
	m[8], m[10] = s, c
	return m
}

// RotateZ creates a right-handed rotation around the Z axis.
func RotateZ(angle float64) Mat4 {
	s, c := math.Sincos(angle)
	m := Identity()
	m[0], m[1] = c, s
	m[4], m[5] = -s, c
	return m
}

// Perspective creates an OpenGL-style perspective projection.
// fovy is the vertical field of view in radians and aspect is width/height.
// Camera space looks down -Z; clip W receives the view-space distance -z.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum float64
			for k := range 4 {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a homogeneous vector.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulPoint transforms v as a point (W = 1) and drops the resulting W.
// Use it only with affine matrices; projections go through MulVec4.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return m.MulVec4(Point(v)).Vec3()
}

// MulDir transforms v as a direction (W = 0), ignoring translation.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return m.MulVec4(Direction(v)).Vec3()
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	var t Mat4
	for row := range 4 {
		for col := range 4 {
			t[col+row*4] = m[row+col*4]
		}
	}
	return t
}

// minors holds the twelve 2x2 sub-determinants shared by Determinant and
// Inverse. s* come from the top two rows, c* from the bottom two.
type minors struct {
	s0, s1, s2, s3, s4, s5 float64
	c0, c1, c2, c3, c4, c5 float64
}

func (m Mat4) minors() minors {
	a := func(r, c int) float64 { return m[r+c*4] }
	return minors{
		s0: a(0, 0)*a(1, 1) - a(1, 0)*a(0, 1),
		s1: a(0, 0)*a(1, 2) - a(1, 0)*a(0, 2),
		s2: a(0, 0)*a(1, 3) - a(1, 0)*a(0, 3),
		s3: a(0, 1)*a(1, 2) - a(1, 1)*a(0, 2),
		s4: a(0, 1)*a(1, 3) - a(1, 1)*a(0, 3),
		s5: a(0, 2)*a(1, 3) - a(1, 2)*a(0, 3),
		c5: a(2, 2)*a(3, 3) - a(3, 2)*a(2, 3),
		c4: a(2, 1)*a(3, 3) - a(3, 1)*a(2, 3),
		c3: a(2, 1)*a(3, 2) - a(3, 1)*a(2, 2),
		c2: a(2, 0)*a(3, 3) - a(3, 0)*a(2, 3),
		c1: a(2, 0)*a(3, 2) - a(3, 0)*a(2, 2),
		c0: a(2, 0)*a(3, 1) - a(3, 0)*a(2, 1),
	}
}

func (n minors) det() float64 {
	return n.s0*n.c5 - n.s1*n.c4 + n.s2*n.c3 + n.s3*n.c2 - n.s4*n.c1 + n.s5*n.c0
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	return m.minors().det()
}

// Inverse returns the inverse of the matrix using Laplace expansion over
// 2x2 minors. A singular matrix yields the identity; callers are expected to
// only invert rigid or uniformly scaled transforms.
func (m Mat4) Inverse() Mat4 {
	n := m.minors()
	det := n.det()
	if det == 0 {
		return Identity()
	}
	inv := 1 / det
	a := func(r, c int) float64 { return m[r+c*4] }

	var out Mat4
	set := func(r, c int, v float64) { out[r+c*4] = v * inv }

	set(0, 0, a(1, 1)*n.c5-a(1, 2)*n.c4+a(1, 3)*n.c3)
	set(0, 1, -a(0, 1)*n.c5+a(0, 2)*n.c4-a(0, 3)*n.c3)
	set(0, 2, a(3, 1)*n.s5-a(3, 2)*n.s4+a(3, 3)*n.s3)
	set(0, 3, -a(2, 1)*n.s5+a(2, 2)*n.s4-a(2, 3)*n.s3)

	set(1, 0, -a(1, 0)*n.c5+a(1, 2)*n.c2-a(1, 3)*n.c1)
	set(1, 1, a(0, 0)*n.c5-a(0, 2)*n.c2+a(0, 3)*n.c1)
	set(1, 2, -a(3, 0)*n.s5+a(3, 2)*n.s2-a(3, 3)*n.s1)
	set(1, 3, a(2, 0)*n.s5-a(2, 2)*n.s2+a(2, 3)*n.s1)

	set(2, 0, a(1, 0)*n.c4-a(1, 1)*n.c2+a(1, 3)*n.c0)
	set(2, 1, -a(0, 0)*n.c4+a(0, 1)*n.c2-a(0, 3)*n.c0)
	set(2, 2, a(3, 0)*n.s4-a(3, 1)*n.s2+a(3, 3)*n.s0)
	set(2, 3, -a(2, 0)*n.s4+a(2, 1)*n.s2-a(2, 3)*n.s0)

	set(3, 0, -a(1, 0)*n.c3+a(1, 1)*n.c1-a(1, 2)*n.c0)
	set(3, 1, a(0, 0)*n.c3-a(0, 1)*n.c1+a(0, 2)*n.c0)
	set(3, 2, -a(3, 0)*n.s3+a(3, 1)*n.s1-a(3, 2)*n.s0)
	set(3, 3, a(2, 0)*n.s3-a(2, 1)*n.s1+a(2, 2)*n.s0)

	return out
}
