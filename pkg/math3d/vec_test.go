package math3d

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVec3(t *testing.T) {
	a, b := V3(1, 2, 3), V3(4, -5, 6)

	assert.Equal(t, V3(5, -3, 9), a.Add(b))
	assert.Equal(t, V3(-3, 7, -3), a.Sub(b))
	assert.Equal(t, V3(2, 4, 6), a.Scale(2))
	assert.Equal(t, V3(-1, -2, -3), a.Negate())
	assert.Equal(t, 12.0, a.Dot(b))
	assertVec3(t, V3(0, 0, 1), V3(1, 0, 0).Cross(V3(0, 1, 0)))
	assert.Equal(t, V3(1, -5, 3), a.Min(b))
	assert.Equal(t, V3(4, 2, 6), a.Max(b))
	assert.Equal(t, V2(1, 2), a.XY())
	assert.Equal(t, Splat3(7), V3(7, 7, 7))
}

func TestVec3Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   Vec3
		want Vec3
	}{
		{"axis", V3(0, 0, -3), V3(0, 0, -1)},
		{"diagonal", V3(1, 1, 1), Splat3(1 / math.Sqrt(3))},
		{"zero", Vec3{}, Vec3{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assertVec3(t, tt.want, got)
			if tt.in != (Vec3{}) {
				assert.InDelta(t, 1, got.Len(), tol)
			}
		})
	}
}

func TestVec2(t *testing.T) {
	a, b := V2(1, 2), V2(3, -4)

	assert.Equal(t, V2(4, -2), a.Add(b))
	assert.Equal(t, V2(-2, 6), a.Sub(b))
	assert.Equal(t, V2(0.5, 1), a.Scale(0.5))
	assert.Equal(t, -5.0, a.Dot(b))
	assert.Equal(t, a, a.Lerp(b, 0))
	assert.Equal(t, b, a.Lerp(b, 1))
	assert.Equal(t, V2(2, -1), a.Lerp(b, 0.5))
}

func TestVec4(t *testing.T) {
	p := Point(V3(1, 2, 3))
	d := Direction(V3(1, 2, 3))
	assert.Equal(t, V4(1, 2, 3, 1), p)
	assert.Equal(t, V4(1, 2, 3, 0), d)
	assert.Equal(t, V4(2, 4, 6, 1), p.Add(d))
	assert.Equal(t, V4(3, 6, 9, 3), p.Scale(3))
	assert.Equal(t, V3(1, 2, 3), p.Vec3())

	m := Translate(V3(10, 0, 0))
	assert.Equal(t, V3(11, 2, 3), m.MulPoint(V3(1, 2, 3)))
	assert.Equal(t, V3(1, 2, 3), m.MulDir(V3(1, 2, 3)), "directions ignore translation")
}
