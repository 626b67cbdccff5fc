package render

import (
	"math"
	"sync"

	"github.com/taigrr/softras/pkg/math3d"
)

// minBandRows is the smallest row band handed to a worker.
const minBandRows = 16

// fallbackTexture shades primitives submitted without a texture.
var fallbackTexture = DefaultChecker()

// Options controls how the rasterizer maps and shades triangles.
type Options struct {
	// FlipY maps NDC +Y to the top of the surface.
	FlipY bool
	// PerspectiveCorrect interpolates texture coordinates and tints with
	// depth correction. When false, plain screen-space weights are used.
	PerspectiveCorrect bool
	// Workers is the number of goroutines sharing one triangle's rows.
	Workers int
}

// DefaultOptions returns FlipY and perspective correction on, single
// worker.
func DefaultOptions() Options {
	return Options{FlipY: true, PerspectiveCorrect: true, Workers: 1}
}

// Stats counts rasterizer work since the last ResetStats.
type Stats struct {
	Submitted  int // Triangles handed to DrawTriangle
	Drawn      int // Triangles that reached pixel coverage
	Degenerate int // Zero-area or non-finite triangles skipped
	Behind     int // Triangles with a vertex at or behind the camera plane
	Pixels     int // Pixels written
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Submitted += o.Submitted
	s.Drawn += o.Drawn
	s.Degenerate += o.Degenerate
	s.Behind += o.Behind
	s.Pixels += o.Pixels
}

// Primitive is one triangle ready for rasterization: camera-space
// positions plus the attributes to interpolate.
type Primitive struct {
	Positions [3]math3d.Vec3 // Camera space; the camera looks down -Z
	UV        [3]math3d.Vec2
	Tint      *[3]Tint // Optional per-vertex color, multiplied with the texel
	Texture   *Texture
}

// Rasterizer projects camera-space triangles to the screen and fills the
// pixels they cover. There is no depth buffer: triangles are drawn in
// submission order and later triangles overwrite earlier ones.
type Rasterizer struct {
	projection math3d.Mat4
	width      int
	height     int
	opts       Options

	Stats Stats // Statistics for debugging/benchmarking
}

// NewRasterizer creates a rasterizer for a width x height viewport.
func NewRasterizer(projection math3d.Mat4, width, height int, opts Options) *Rasterizer {
	return &Rasterizer{
		projection: projection,
		width:      width,
		height:     height,
		opts:       opts,
	}
}

// Projection returns the projection matrix.
func (r *Rasterizer) Projection() math3d.Mat4 { return r.projection }

// SetProjection replaces the projection matrix.
func (r *Rasterizer) SetProjection(m math3d.Mat4) { r.projection = m }

// Width returns the viewport width.
func (r *Rasterizer) Width() int { return r.width }

// Height returns the viewport height.
func (r *Rasterizer) Height() int { return r.height }

// Resize changes the viewport. The projection is left unchanged.
func (r *Rasterizer) Resize(width, height int) {
	r.width, r.height = width, height
}

// Options returns the current options.
func (r *Rasterizer) Options() Options { return r.opts }

// SetOptions replaces the current options.
func (r *Rasterizer) SetOptions(opts Options) { r.opts = opts }

// ResetStats resets the statistics (call once per frame).
func (r *Rasterizer) ResetStats() { r.Stats = Stats{} }

// ProjectPoint maps a camera-space point to the screen: projection,
// perspective divide, then viewport mapping. Z is the post-divide depth.
func (r *Rasterizer) ProjectPoint(v math3d.Vec3) math3d.Vec3 {
	ndc := r.projection.MulVec4(math3d.Point(v)).PerspectiveDivide()
	hw, hh := float64(r.width)/2, float64(r.height)/2

	x := ndc.X*hw + hw
	y := ndc.Y*hh + hh
	if r.opts.FlipY {
		y = (1 - ndc.Y) * hh
	}
	return math3d.V3(x, y, ndc.Z)
}

// ProjectTriangle maps three camera-space vertices to a screen-space
// Triangle.
func (r *Rasterizer) ProjectTriangle(v [3]math3d.Vec3) Triangle {
	return Triangle{r.ProjectPoint(v[0]), r.ProjectPoint(v[1]), r.ProjectPoint(v[2])}
}

// DrawTriangle projects p and writes every covered pixel to dst.
func (r *Rasterizer) DrawTriangle(dst Surface, p Primitive) {
	r.Stats.Submitted++

	// No clipping: anything touching the camera plane is dropped whole.
	for _, v := range p.Positions {
		if !(v.Z < 0) {
			r.Stats.Behind++
			return
		}
	}

	tri := r.ProjectTriangle(p.Positions)
	uv := p.UV
	var tint [3]Tint
	if p.Tint != nil {
		tint = *p.Tint
	}

	area := tri.Area()
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		r.Stats.Degenerate++
		return
	}
	// Both windings are drawn. Reorder so the barycentric weights of
	// interior points are non-negative.
	if area < 0 {
		tri[1], tri[2] = tri[2], tri[1]
		uv[1], uv[2] = uv[2], uv[1]
		tint[1], tint[2] = tint[2], tint[1]
	}

	tex := p.Texture
	if tex == nil {
		tex = fallbackTexture
	}
	// NDC depth crosses zero close to the near plane, where 1/z has a pole.
	corrected := r.opts.PerspectiveCorrect && tri[0].Z > 0 && tri[1].Z > 0 && tri[2].Z > 0
	depth := tri.depths()
	tinted := p.Tint != nil

	shade := func(w math3d.Vec3) Color {
		var st math3d.Vec2
		if corrected {
			st = InterpolateCorrected(w, depth, uv)
		} else {
			st = Interpolate(w, uv)
		}
		c := tex.Sample(st)
		if tinted {
			var k Tint
			if corrected {
				k = InterpolateCorrected(w, depth, tint)
			} else {
				k = Interpolate(w, tint)
			}
			c = k.Modulate(c)
		}
		return c
	}

	n := r.fill(dst, tri, shade)
	r.Stats.Drawn++
	r.Stats.Pixels += n
}

// fill runs shade for every pixel center covered by tri, which must have
// positive area, and writes the result to dst. It returns the number of
// pixels written.
func (r *Rasterizer) fill(dst Surface, tri Triangle, shade func(w math3d.Vec3) Color) int {
	lo, hi := tri.Bounds()
	minX := max(0, int(math.Floor(lo.X)))
	maxX := min(r.width-1, int(math.Ceil(hi.X)))
	minY := max(0, int(math.Floor(lo.Y)))
	maxY := min(r.height-1, int(math.Ceil(hi.Y)))
	if minX > maxX || minY > maxY {
		return 0
	}

	owner := tri.topLeft()
	set := pixelWriter(dst)

	band := func(y0, y1 int) int {
		n := 0
		for y := y0; y <= y1; y++ {
			for x := minX; x <= maxX; x++ {
				p := math3d.V3(float64(x)+0.5, float64(y)+0.5, 0)
				w := tri.edges(p)
				if w.X < 0 || w.Y < 0 || w.Z < 0 || !owner.owns(w) {
					continue
				}
				sum := w.X + w.Y + w.Z
				if !(sum > 0) {
					continue
				}
				set(x, y, shade(w.Scale(1/sum)))
				n++
			}
		}
		return n
	}

	rows := maxY - minY + 1
	workers := r.opts.Workers
	if workers <= 1 || rows < 2*minBandRows {
		return band(minY, maxY)
	}

	size := max(minBandRows, (rows+workers-1)/workers)
	counts := make([]int, (rows+size-1)/size)
	var wg sync.WaitGroup
	for i := range counts {
		y0 := minY + i*size
		y1 := min(maxY, y0+size-1)
		wg.Go(func() {
			counts[i] = band(y0, y1)
		})
	}
	wg.Wait()

	total := 0
	for _, c := range counts {
		total += c
	}
	return total
}

func pixelWriter(dst Surface) func(x, y int, c Color) {
	if ps, ok := dst.(pixelSetter); ok {
		return ps.SetPixel
	}
	return func(x, y int, c Color) { dst.FillRect(x, y, 1, 1, c) }
}

// topLeftEdges records, per barycentric weight, whether the opposite edge
// is a top or left edge and so owns pixel centers lying exactly on it.
type topLeftEdges [3]bool

// topLeft classifies the edges of a positive-area triangle. Edge i is
// the one opposite vertex i. An edge owns its boundary when its edge
// function increases along +X, or along +Y when it is parallel to X.
// Two triangles sharing an edge see it with opposite gradients, so
// exactly one of them owns it.
func (t Triangle) topLeft() topLeftEdges {
	owns := func(a, b math3d.Vec3) bool {
		gx := b.Y - a.Y
		gy := a.X - b.X
		return gx > 0 || (gx == 0 && gy > 0)
	}
	return topLeftEdges{owns(t[1], t[2]), owns(t[2], t[0]), owns(t[0], t[1])}
}

// edges returns the edge values of p for a positive-area triangle, edge i
// being the one opposite vertex i. All three are non-negative inside.
func (t Triangle) edges(p math3d.Vec3) math3d.Vec3 {
	return math3d.V3(
		orderedEdge(t[1], t[2], p),
		orderedEdge(t[2], t[0], p),
		orderedEdge(t[0], t[1], p),
	)
}

// orderedEdge is EdgeFunction(a, b, p) evaluated with the endpoints sorted
// by X then Y. An edge shared by two triangles is walked in opposite
// directions by each, and the sorted form makes the two results exact
// negations of each other, zero included.
func orderedEdge(a, b, p math3d.Vec3) float64 {
	if b.X < a.X || (b.X == a.X && b.Y < a.Y) {
		return -EdgeFunction(b, a, p)
	}
	return EdgeFunction(a, b, p)
}

func (e topLeftEdges) owns(w math3d.Vec3) bool {
	return (w.X != 0 || e[0]) && (w.Y != 0 || e[1]) && (w.Z != 0 || e[2])
}
