// Package render implements the softras rasterization core: camera,
// textures, screen-space triangle math and the brute-force rasterizer,
// plus the framebuffer and terminal presentation it draws into.
package render

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
)

// Surface is a display target that accepts whole-frame clears and
// pixel-rectangle writes. The rasterizer never reads pixels back.
//
// When a Rasterizer runs with more than one worker, FillRect is called
// concurrently for disjoint rows.
type Surface interface {
	Size() (width, height int)
	Clear(c Color)
	FillRect(x, y, w, h int, c Color)
}

// pixelSetter is implemented by surfaces with a cheaper single-pixel write
// than a 1x1 FillRect.
type pixelSetter interface {
	SetPixel(x, y int, c Color)
}

// Framebuffer is an in-memory RGBA Surface.
// For terminal output the height is twice the number of rows, since every
// cell shows two pixels using half-block characters (▀).
type Framebuffer struct {
	Width  int     // Width in pixels (same as terminal columns)
	Height int     // Height in pixels (2x terminal rows)
	Pixels []Color // Row-major pixel data
}

var _ Surface = (*Framebuffer)(nil)

// NewFramebuffer creates a new framebuffer with the given dimensions.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Size returns the framebuffer dimensions.
func (fb *Framebuffer) Size() (int, int) {
	return fb.Width, fb.Height
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	// Copy-doubling is faster than a per-pixel loop for large buffers.
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Out-of-bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// FillRect fills the w x h rectangle at (x, y), clipped to the buffer.
func (fb *Framebuffer) FillRect(x, y, w, h int, c Color) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, fb.Width), min(y+h, fb.Height)
	for py := y0; py < y1; py++ {
		row := fb.Pixels[py*fb.Width : (py+1)*fb.Width]
		for px := x0; px < x1; px++ {
			row[px] = c
		}
	}
}

// DrawLine draws a line from (x0, y0) to (x1, y1).
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c Color) {
	bresenham(x0, y0, x1, y1, func(x, y int) { fb.SetPixel(x, y, c) })
}

// bresenham calls plot for every pixel on the line from (x0, y0) to
// (x1, y1), endpoints included.
func bresenham(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	if err := imgio.Save(path, fb.ToImage(), imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
