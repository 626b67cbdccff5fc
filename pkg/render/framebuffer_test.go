package render

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/softras/pkg/math3d"
)

func TestFramebufferClearAndFillRect(t *testing.T) {
	fb := NewFramebuffer(5, 3)
	fb.Clear(ColorDark)
	for _, p := range fb.Pixels {
		require.Equal(t, ColorDark, p)
	}

	fb.FillRect(3, 1, 10, 10, ColorWhite)
	assert.Equal(t, ColorDark, fb.GetPixel(2, 1))
	assert.Equal(t, ColorWhite, fb.GetPixel(3, 1))
	assert.Equal(t, ColorWhite, fb.GetPixel(4, 2))
	assert.Equal(t, ColorDark, fb.GetPixel(4, 0))

	fb.FillRect(-2, -2, 3, 3, ColorBlack)
	assert.Equal(t, ColorBlack, fb.GetPixel(0, 0))
	assert.Equal(t, ColorDark, fb.GetPixel(1, 0))

	assert.Equal(t, Color{}, fb.GetPixel(-1, 0))
	w, h := fb.Size()
	assert.Equal(t, 5, w)
	assert.Equal(t, 3, h)
}

func TestFramebufferDrawLine(t *testing.T) {
	fb := NewFramebuffer(4, 4)
	fb.DrawLine(0, 0, 3, 3, ColorWhite)
	for i := range 4 {
		assert.Equal(t, ColorWhite, fb.GetPixel(i, i))
	}
	assert.Equal(t, Color{}, fb.GetPixel(1, 0))

	// Endpoints outside the buffer are clipped, not fatal.
	fb.DrawLine(-5, 1, 10, 1, ColorGreen)
	assert.Equal(t, ColorGreen, fb.GetPixel(0, 1))
	assert.Equal(t, ColorGreen, fb.GetPixel(3, 1))
}

func TestFramebufferSavePNG(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.SetPixel(2, 1, RGB(10, 20, 30))

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, fb.SavePNG(path))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)

	assert.Equal(t, 3, img.Bounds().Dx())
	r, g, b, _ := img.At(2, 1).RGBA()
	assert.Equal(t, []uint32{10, 20, 30}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestFramebufferDrawHalfBlocks(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.SetPixel(0, 0, ColorWhite)
	fb.SetPixel(0, 1, ColorDark)

	scr := uv.NewScreenBuffer(2, 2)
	fb.Draw(scr, uv.Rect(0, 0, 2, 2))

	cell := scr.CellAt(0, 0)
	require.NotNil(t, cell)
	assert.Equal(t, "▀", cell.Content)
	assert.Equal(t, ColorWhite, cell.Style.Fg)
	assert.Equal(t, ColorDark, cell.Style.Bg)

	// Transparent pixels fall back to the terminal default.
	assert.Nil(t, scr.CellAt(1, 1).Style.Fg)
}

type fakeDisplay struct {
	uv.ScreenBuffer
	displayed int
}

func (d *fakeDisplay) Display() error {
	d.displayed++
	return nil
}

func TestTerminalRenderer(t *testing.T) {
	d := &fakeDisplay{ScreenBuffer: uv.NewScreenBuffer(3, 2)}
	tr := NewTerminalRenderer(d, 3, 2)

	w, h := tr.FramebufferSize()
	require.Equal(t, 3, w)
	require.Equal(t, 4, h)

	fb := NewFramebuffer(w, h)
	fb.Clear(ColorDark)
	fb.SetPixel(2, 3, ColorWhite)
	tr.Render(fb)
	require.NoError(t, tr.Flush())

	assert.Equal(t, 1, d.displayed)
	assert.Equal(t, ColorWhite, d.CellAt(2, 1).Style.Bg)
	assert.Equal(t, ColorDark, d.CellAt(2, 1).Style.Fg)
}

func TestWireframeOverlay(t *testing.T) {
	r := NewRasterizer(unitProjection(), 16, 16, DefaultOptions())
	fb := NewFramebuffer(16, 16)
	wf := NewWireframe(r, fb)

	wf.DrawTriangle([3]math3d.Vec3{
		math3d.V3(-0.5, -0.5, -1),
		math3d.V3(0.5, -0.5, -1),
		math3d.V3(-0.5, 0.5, -1),
	}, ColorGreen)

	// Vertices land on (4,12), (12,12) and (4,4).
	assert.Equal(t, ColorGreen, fb.GetPixel(4, 12))
	assert.Equal(t, ColorGreen, fb.GetPixel(8, 12))
	assert.Equal(t, ColorGreen, fb.GetPixel(4, 8))
	assert.Equal(t, Color{}, fb.GetPixel(6, 10))

	wf.DrawPoint(math3d.V3(0, 0, -1), 2, ColorWhite)
	assert.Equal(t, ColorWhite, fb.GetPixel(7, 7))
	assert.Equal(t, ColorWhite, fb.GetPixel(8, 8))

	// Lines touching the camera plane are skipped.
	wf.DrawLine3D(math3d.V3(0, 0, -1), math3d.V3(0, 0, 1), ColorWhite)
	assert.Equal(t, Color{}, fb.GetPixel(8, 4))
}
