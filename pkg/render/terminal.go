package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Display is a cell screen that can present its contents, such as
// *uv.Terminal.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents a Framebuffer on a terminal. Each cell shows
// two vertically stacked pixels, so the framebuffer is twice as tall as
// the terminal.
type TerminalRenderer struct {
	scr  Display
	cols int
	rows int
}

// NewTerminalRenderer creates a renderer for a cols x rows terminal.
func NewTerminalRenderer(scr Display, cols, rows int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, cols: cols, rows: rows}
}

// FramebufferSize returns the framebuffer dimensions that fill the
// terminal.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.cols, t.rows * 2
}

// Render copies fb into the terminal's cell buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.scr, uv.Rect(0, 0, t.cols, t.rows))
}

// Flush presents the cell buffer.
func (t *TerminalRenderer) Flush() error {
	return t.scr.Display()
}

// Draw converts the framebuffer to half-block cells on scr. It implements
// uv.Drawable.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// ▀ with fg=top pixel and bg=bottom pixel.
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: cellColor(fb.GetPixel(x, topY)),
					Bg: cellColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// cellColor maps transparent pixels to the terminal default color.
func cellColor(c Color) color.Color {
	if c.A == 0 {
		return nil
	}
	return c
}
