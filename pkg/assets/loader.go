// Package assets loads textures from image files and watches them for
// changes.
package assets

import (
	"errors"
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/taigrr/softras/pkg/render"
)

// ErrTextureLoad wraps every failure to open or decode a texture.
var ErrTextureLoad = errors.New("texture load failed")

// DefaultMaxSize caps texture dimensions. The rasterizer samples nearest
// texels, so anything much larger than the viewport is wasted memory.
const DefaultMaxSize = 1024

// Loader decodes image files into textures.
type Loader struct {
	// MaxSize is the largest allowed width or height. Larger images are
	// downscaled, keeping their aspect ratio. Zero disables the limit.
	MaxSize int
	// Mode is the address mode of loaded textures.
	Mode render.AddressMode
}

// NewLoader returns a Loader with DefaultMaxSize.
func NewLoader() *Loader {
	return &Loader{MaxSize: DefaultMaxSize}
}

// LoadTexture loads path with a default Loader.
func LoadTexture(path string) (*render.Texture, error) {
	return NewLoader().Load(path)
}

// Load opens and decodes path. PNG, JPEG, GIF, BMP, TIFF and WebP are
// understood.
func (l *Loader) Load(path string) (*render.Texture, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTextureLoad, path, err)
	}
	if b := img.Bounds(); b.Dx() == 0 || b.Dy() == 0 {
		return nil, fmt.Errorf("%w: %s: empty image", ErrTextureLoad, path)
	}

	return l.FromImage(img), nil
}

// FromImage converts an already decoded image, applying MaxSize and Mode.
func (l *Loader) FromImage(img image.Image) *render.Texture {
	tex := render.TextureFromImage(l.fit(img))
	tex.Mode = l.Mode
	return tex
}

func (l *Loader) fit(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if l.MaxSize <= 0 || (w <= l.MaxSize && h <= l.MaxSize) {
		return img
	}
	if w >= h {
		h = max(1, h*l.MaxSize/w)
		w = l.MaxSize
	} else {
		w = max(1, w*l.MaxSize/h)
		h = l.MaxSize
	}
	return transform.Resize(img, w, h, transform.Linear)
}
