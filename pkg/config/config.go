// Package config describes a softras scene and viewer settings, read from
// a TOML file layered over built-in defaults.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/taigrr/softras/pkg/render"
)

var (
	// ErrInvalidViewport is returned for a non-positive viewport size or
	// an unusable projection.
	ErrInvalidViewport = errors.New("invalid viewport")
	// ErrInvalidConfig is returned for any other rejected setting.
	ErrInvalidConfig = errors.New("invalid config")
)

// Config is the complete viewer configuration.
type Config struct {
	Viewport Viewport `toml:"viewport"`
	Camera   Camera   `toml:"camera"`
	Render   Render   `toml:"render"`
	Input    Input    `toml:"input"`
	Log      Log      `toml:"log"`
	Quads    []Quad   `toml:"quad"`
	Meshes   []Mesh   `toml:"mesh"`
}

// Viewport sets the framebuffer size and the projection.
type Viewport struct {
	Width  int     `toml:"width"`
	Height int     `toml:"height"`
	FOV    float64 `toml:"fov"` // Vertical, degrees
	Near   float64 `toml:"near"`
	Far    float64 `toml:"far"`
}

// Aspect returns width / height.
func (v Viewport) Aspect() float64 {
	return float64(v.Width) / float64(v.Height)
}

// Camera is the initial camera placement. Yaw and Pitch are degrees.
type Camera struct {
	Position [3]float64 `toml:"position"`
	Target   [3]float64 `toml:"target"`
	Yaw      float64    `toml:"yaw"`
	Pitch    float64    `toml:"pitch"`
}

// Render holds rasterizer and presentation switches.
type Render struct {
	Workers            int    `toml:"workers"`
	FlipY              bool   `toml:"flip_y"`
	PerspectiveCorrect bool   `toml:"perspective_correct"`
	Wireframe          bool   `toml:"wireframe"`
	Background         string `toml:"background"`
	FPS                int    `toml:"fps"`
}

// Options converts the switches to rasterizer options.
func (r Render) Options() render.Options {
	return render.Options{
		FlipY:              r.FlipY,
		PerspectiveCorrect: r.PerspectiveCorrect,
		Workers:            max(1, r.Workers),
	}
}

// BackgroundColor parses Background. It must already be validated.
func (r Render) BackgroundColor() render.Color {
	t, err := render.ParseTint(r.Background)
	if err != nil {
		return render.ColorBlack
	}
	return t.Modulate(render.ColorWhite)
}

// Input tunes camera control. Steps are per frame; TurnStep is degrees.
type Input struct {
	MoveStep         float64 `toml:"move_step"`
	TurnStep         float64 `toml:"turn_step"`
	MouseSensitivity float64 `toml:"mouse_sensitivity"` // Degrees per cell
	Smoothing        bool    `toml:"smoothing"`
}

// Log configures the logger.
type Log struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Placement positions a scene entity. Angles are degrees; Spin is added
// to Rotation every frame. A zero Scale means unit scale.
type Placement struct {
	Position [3]float64 `toml:"position"`
	Rotation [3]float64 `toml:"rotation"`
	Scale    [3]float64 `toml:"scale"`
	Spin     [3]float64 `toml:"spin"`
}

// Quad is a textured rectangle. Without Texture, a checkerboard with
// Checker pixel tiles is used. Colors, if set, holds four "#rrggbb" vertex
// tints in bottom-left, bottom-right, top-left, top-right order.
type Quad struct {
	Name    string     `toml:"name"`
	Size    [2]float64 `toml:"size"`
	Texture string     `toml:"texture"`
	Checker int        `toml:"checker"`
	Colors  []string   `toml:"colors"`
	Placement
}

// Mesh is a glTF model. Texture overrides the model's embedded image. A
// positive Fit rescales the model so its largest extent equals Fit.
type Mesh struct {
	Name    string  `toml:"name"`
	Path    string  `toml:"path"`
	Texture string  `toml:"texture"`
	Fit     float64 `toml:"fit"`
	Placement
}

// Default returns a 640x480 view of one 2x2 checkered quad at the origin,
// seen from (0, 0, 5).
func Default() *Config {
	return &Config{
		Viewport: Viewport{Width: 640, Height: 480, FOV: 60, Near: 0.1, Far: 100},
		Camera:   Camera{Position: [3]float64{0, 0, 5}},
		Render: Render{
			Workers:            1,
			FlipY:              true,
			PerspectiveCorrect: true,
			Background:         "#000000",
			FPS:                30,
		},
		Input: Input{
			MoveStep:         0.05,
			TurnStep:         2,
			MouseSensitivity: 0.5,
			Smoothing:        true,
		},
		Log:   Log{Level: "info"},
		Quads: defaultQuads(),
	}
}

func defaultQuads() []Quad {
	return []Quad{{Name: "quad", Size: [2]float64{2, 2}, Checker: 8}}
}

// Load reads path over the defaults and validates the result. When the
// file declares no quads or meshes, the default quad is kept.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes TOML data over the defaults and validates the result.
// Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	cfg.Quads = nil

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidConfig, strict.String())
		}
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if len(cfg.Quads) == 0 && len(cfg.Meshes) == 0 {
		cfg.Quads = defaultQuads()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first unusable setting.
func (c *Config) Validate() error {
	v := c.Viewport
	switch {
	case v.Width <= 0 || v.Height <= 0:
		return fmt.Errorf("%w: size %dx%d", ErrInvalidViewport, v.Width, v.Height)
	case !(v.FOV > 0 && v.FOV < 180):
		return fmt.Errorf("%w: fov %g", ErrInvalidViewport, v.FOV)
	case !(v.Near > 0 && v.Near < v.Far):
		return fmt.Errorf("%w: near %g, far %g", ErrInvalidViewport, v.Near, v.Far)
	}

	if c.Render.Workers < 0 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Render.Workers)
	}
	if c.Render.FPS <= 0 {
		return fmt.Errorf("%w: fps %d", ErrInvalidConfig, c.Render.FPS)
	}
	if _, err := render.ParseTint(c.Render.Background); err != nil {
		return fmt.Errorf("%w: background %q", ErrInvalidConfig, c.Render.Background)
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level %q", ErrInvalidConfig, c.Log.Level)
	}

	for i, q := range c.Quads {
		if q.Size[0] < 0 || q.Size[1] < 0 {
			return fmt.Errorf("%w: quad %d: negative size", ErrInvalidConfig, i)
		}
		if q.Checker < 0 {
			return fmt.Errorf("%w: quad %d: checker %d", ErrInvalidConfig, i, q.Checker)
		}
		if _, err := q.Tints(); err != nil {
			return fmt.Errorf("%w: quad %d: %w", ErrInvalidConfig, i, err)
		}
	}
	for i, m := range c.Meshes {
		if m.Path == "" {
			return fmt.Errorf("%w: mesh %d: missing path", ErrInvalidConfig, i)
		}
	}
	return nil
}

// Tints parses Colors. It returns nil when no colors are set.
func (q Quad) Tints() (*[4]render.Tint, error) {
	if len(q.Colors) == 0 {
		return nil, nil
	}
	if len(q.Colors) != 4 {
		return nil, fmt.Errorf("want 4 colors, got %d", len(q.Colors))
	}
	var out [4]render.Tint
	for i, s := range q.Colors {
		t, err := render.ParseTint(s)
		if err != nil {
			return nil, fmt.Errorf("color %q: %w", s, err)
		}
		out[i] = t
	}
	return &out, nil
}

// Dimensions returns the quad size, defaulting to 2x2.
func (q Quad) Dimensions() (w, h float64) {
	w, h = q.Size[0], q.Size[1]
	if w == 0 {
		w = 2
	}
	if h == 0 {
		h = 2
	}
	return w, h
}

// LogLevel returns the parsed log level, InfoLevel when unset.
func (c *Config) LogLevel() log.Level {
	lvl, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
