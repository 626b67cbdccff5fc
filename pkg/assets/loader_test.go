package assets

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/softras/pkg/render"
)

func writePNG(t *testing.T, path string, w, h int, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestLoadTexture(t *testing.T) {
	path := filepath.Join(t.TempDir(), "red.png")
	red := color.RGBA{255, 0, 0, 255}
	writePNG(t, path, 8, 4, red)

	tex, err := LoadTexture(path)
	require.NoError(t, err)
	assert.Equal(t, 8, tex.Width)
	assert.Equal(t, 4, tex.Height)
	assert.Equal(t, render.ClampToCorner, tex.Mode)
	assert.Equal(t, red, tex.Get(7, 3))
}

func TestLoaderDownscales(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wide.png")
	writePNG(t, path, 64, 16, color.RGBA{0, 0, 255, 255})

	l := &Loader{MaxSize: 32, Mode: render.Repeat}
	tex, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 32, tex.Width)
	assert.Equal(t, 8, tex.Height)
	assert.Equal(t, render.Repeat, tex.Mode)

	l.MaxSize = 0
	tex, err = l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 64, tex.Width, "zero MaxSize keeps the original size")
}

func TestLoadTextureErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadTexture(filepath.Join(dir, "missing.png"))
	assert.ErrorIs(t, err, ErrTextureLoad)

	garbage := filepath.Join(dir, "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = LoadTexture(garbage)
	assert.ErrorIs(t, err, ErrTextureLoad)
	assert.Contains(t, err.Error(), garbage)
}
