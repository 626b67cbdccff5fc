package render

import (
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// Wireframe draws triangle outlines and vertex markers over a surface,
// using the rasterizer's projection and viewport.
type Wireframe struct {
	rast *Rasterizer
	dst  Surface
	set  func(x, y int, c Color)
}

// NewWireframe creates a wireframe overlay drawing to dst.
func NewWireframe(rast *Rasterizer, dst Surface) *Wireframe {
	return &Wireframe{
		rast: rast,
		dst:  dst,
		set:  pixelWriter(dst),
	}
}

// DrawLine3D draws a line between two camera-space points. Lines with an
// endpoint at or behind the camera plane are skipped.
func (w *Wireframe) DrawLine3D(p1, p2 math3d.Vec3, color Color) {
	x1, y1, ok1 := w.screen(p1)
	x2, y2, ok2 := w.screen(p2)
	if !ok1 || !ok2 {
		return
	}
	width, height := w.dst.Size()
	bresenham(x1, y1, x2, y2, func(x, y int) {
		if x >= 0 && x < width && y >= 0 && y < height {
			w.set(x, y, color)
		}
	})
}

// DrawTriangle outlines a camera-space triangle.
func (w *Wireframe) DrawTriangle(v [3]math3d.Vec3, color Color) {
	w.DrawLine3D(v[0], v[1], color)
	w.DrawLine3D(v[1], v[2], color)
	w.DrawLine3D(v[2], v[0], color)
}

// DrawPoint marks a camera-space point with a size x size square.
func (w *Wireframe) DrawPoint(p math3d.Vec3, size int, color Color) {
	x, y, ok := w.screen(p)
	if !ok {
		return
	}
	w.dst.FillRect(x-size/2, y-size/2, size, size, color)
}

// maxCoord keeps projected endpoints near the viewport so Bresenham
// terminates quickly for points that project far off screen.
const maxCoord = 1 << 15

func (w *Wireframe) screen(p math3d.Vec3) (int, int, bool) {
	if !(p.Z < 0) {
		return 0, 0, false
	}
	s := w.rast.ProjectPoint(p)
	if math.Abs(s.X) > maxCoord || math.Abs(s.Y) > maxCoord || math.IsNaN(s.X) || math.IsNaN(s.Y) {
		return 0, 0, false
	}
	return int(math.Floor(s.X)), int(math.Floor(s.Y)), true
}
