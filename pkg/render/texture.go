package render

import (
	"image"
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// AddressMode determines how texel coordinates outside the texture are
// resolved.
type AddressMode int

const (
	// ClampToCorner returns texel (0,0) for any coordinate out of range.
	ClampToCorner AddressMode = iota
	// Repeat tiles the texture in both axes.
	Repeat
	// ClampToEdge clamps each axis independently to the nearest edge.
	ClampToEdge
)

func (m AddressMode) String() string {
	switch m {
	case Repeat:
		return "repeat"
	case ClampToEdge:
		return "clamp-to-edge"
	default:
		return "clamp-to-corner"
	}
}

// Texture is an immutable grid of RGBA texels. It is safe to share between
// goroutines once constructed.
type Texture struct {
	Width  int
	Height int
	Pixels []Color // Row-major pixel data
	Mode   AddressMode
}

// NewTexture creates a texture from row-major pixels. The slice is owned by
// the texture afterwards. An empty texture gets a single black texel so Get
// always has a corner to fall back to.
func NewTexture(width, height int, pixels []Color) *Texture {
	if width <= 0 || height <= 0 || len(pixels) < width*height {
		return &Texture{Width: 1, Height: 1, Pixels: []Color{ColorBlack}}
	}
	return &Texture{Width: width, Height: height, Pixels: pixels}
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()

	pixels := make([]Color, width*height)
	for y := range height {
		for x := range width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			pixels[y*width+x] = Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			}
		}
	}
	return NewTexture(width, height, pixels)
}

// NewCheckerTexture creates a size x size checkerboard of tile x tile
// squares. Tile (0,0) uses a.
func NewCheckerTexture(size, tile int, a, b Color) *Texture {
	if tile <= 0 {
		tile = 1
	}
	pixels := make([]Color, size*size)
	for y := range size {
		for x := range size {
			if (x/tile+y/tile)%2 == 0 {
				pixels[y*size+x] = a
			} else {
				pixels[y*size+x] = b
			}
		}
	}
	return NewTexture(size, size, pixels)
}

// DefaultChecker returns the 64x64 gray checkerboard with 8 pixel tiles
// used when an object has no texture of its own.
func DefaultChecker() *Texture {
	return NewCheckerTexture(64, 8, ColorLight, ColorDark)
}

// WithMode returns a shallow copy of the texture using a different address
// mode. The pixel data is shared.
func (t *Texture) WithMode(mode AddressMode) *Texture {
	c := *t
	c.Mode = mode
	return &c
}

// Get returns the texel at (x, y), resolving out-of-range coordinates with
// the texture's address mode. A texture built without NewTexture and
// holding fewer than Width*Height texels reads as black.
func (t *Texture) Get(x, y int) Color {
	if t.Width <= 0 || t.Height <= 0 || len(t.Pixels) < t.Width*t.Height {
		return ColorBlack
	}
	switch t.Mode {
	case Repeat:
		x = wrap(x, t.Width)
		y = wrap(y, t.Height)
	case ClampToEdge:
		x = clampInt(x, 0, t.Width-1)
		y = clampInt(y, 0, t.Height-1)
	default:
		if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
			return t.Pixels[0]
		}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the nearest lower texel for normalized coordinates.
// uv (0,0) is the first texel of the first row; values outside [0,1)
// resolve through Get.
func (t *Texture) Sample(uv math3d.Vec2) Color {
	x := math.Floor(uv.X * float64(t.Width))
	y := math.Floor(uv.Y * float64(t.Height))
	return t.Get(toInt(x), toInt(y))
}

// toInt converts a floored coordinate, mapping non-finite and huge values
// to -1 so they resolve as out of range.
func toInt(f float64) int {
	if math.IsNaN(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return -1
	}
	return int(f)
}

func wrap(x, size int) int {
	x %= size
	if x < 0 {
		x += size
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
