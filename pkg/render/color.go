package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack = color.RGBA{0, 0, 0, 255}
	ColorWhite = color.RGBA{255, 255, 255, 255}
	ColorGreen = color.RGBA{0, 255, 128, 255}
	ColorLight = color.RGBA{200, 200, 200, 255}
	ColorDark  = color.RGBA{100, 100, 100, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) Color {
	return color.RGBA{r, g, b, 255}
}

// Tint is a floating point RGB color carried per vertex and interpolated
// across triangles. Components are nominally in [0,1].
type Tint colorful.Color

// White leaves a texture sample unchanged when used as a tint.
var White = Tint{R: 1, G: 1, B: 1}

// ParseTint parses a "#rrggbb" or "#rgb" hex string.
func ParseTint(s string) (Tint, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return Tint{}, err
	}
	return Tint(c), nil
}

// TintOf converts an 8-bit color to a Tint, dropping alpha.
func TintOf(c Color) Tint {
	col, _ := colorful.MakeColor(c)
	return Tint(col)
}

// Add returns the component-wise sum.
func (t Tint) Add(o Tint) Tint {
	return Tint{R: t.R + o.R, G: t.G + o.G, B: t.B + o.B}
}

// Scale returns the tint multiplied by s.
func (t Tint) Scale(s float64) Tint {
	return Tint{R: t.R * s, G: t.G * s, B: t.B * s}
}

// Modulate multiplies c by the tint, clamping to the displayable range.
func (t Tint) Modulate(c Color) Color {
	k := colorful.Color(t).Clamped()
	return Color{
		R: uint8(float64(c.R)*k.R + 0.5),
		G: uint8(float64(c.G)*k.G + 0.5),
		B: uint8(float64(c.B)*k.B + 0.5),
		A: c.A,
	}
}

// Hex formats the tint as "#rrggbb".
func (t Tint) Hex() string {
	return colorful.Color(t).Clamped().Hex()
}
