package assets

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsReplacedFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	writePNG(t, path, 2, 2, color.RGBA{255, 0, 0, 255})

	w, err := NewWatcher(nil, nil, path)
	require.NoError(t, err)
	defer w.Close()

	// Replace atomically so the watcher never sees a half-written file.
	green := color.RGBA{0, 255, 0, 255}
	tmp := filepath.Join(dir, "tex.tmp")
	writePNG(t, tmp, 2, 2, green)
	require.NoError(t, os.Rename(tmp, path))

	select {
	case r := <-w.Reloads():
		assert.Equal(t, path, r.Path)
		require.NotNil(t, r.Texture)
		assert.Equal(t, green, r.Texture.Get(0, 0))
	case <-time.After(5 * time.Second):
		t.Fatal("no reload received")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tex.png")
	writePNG(t, path, 2, 2, color.RGBA{255, 0, 0, 255})

	w, err := NewWatcher(nil, nil, path)
	require.NoError(t, err)
	defer w.Close()

	writePNG(t, filepath.Join(dir, "other.png"), 2, 2, color.RGBA{0, 0, 255, 255})

	select {
	case r := <-w.Reloads():
		t.Fatalf("unexpected reload of %s", r.Path)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tex.png")
	writePNG(t, path, 1, 1, color.RGBA{A: 255})

	w, err := NewWatcher(NewLoader(), nil, path)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.NoError(t, w.Close(), "second Close is a no-op")

	_, open := <-w.Reloads()
	assert.False(t, open)
}

func TestNewWatcherMissingDir(t *testing.T) {
	_, err := NewWatcher(nil, nil, filepath.Join(t.TempDir(), "nope", "tex.png"))
	assert.Error(t, err)
}
