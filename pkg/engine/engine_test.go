package engine

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taigrr/softras/pkg/assets"
	"github.com/taigrr/softras/pkg/config"
	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/render"
	"github.com/taigrr/softras/pkg/scene"
)

const tolerance = 1e-9

func vecNear(t *testing.T, want, got math3d.Vec3) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, tolerance, "x")
	assert.InDelta(t, want.Y, got.Y, tolerance, "y")
	assert.InDelta(t, want.Z, got.Z, tolerance, "z")
}

func newDefault(t *testing.T) *Engine {
	t.Helper()
	cfg := config.Default()
	cfg.Input.Smoothing = false
	e, err := Build(cfg, nil, nil)
	require.NoError(t, err)
	return e
}

// coverage returns the bounding box and count of pixels differing from bg.
func coverage(fb *render.Framebuffer, bg render.Color) (image.Rectangle, int) {
	box := image.Rectangle{Min: image.Pt(fb.Width, fb.Height)}
	n := 0
	for y := range fb.Height {
		for x := range fb.Width {
			if fb.GetPixel(x, y) == bg {
				continue
			}
			n++
			box.Min.X = min(box.Min.X, x)
			box.Min.Y = min(box.Min.Y, y)
			box.Max.X = max(box.Max.X, x+1)
			box.Max.Y = max(box.Max.Y, y+1)
		}
	}
	return box, n
}

func TestQuadCenteredAndGrowsAsCameraApproaches(t *testing.T) {
	e := newDefault(t)
	fb := render.NewFramebuffer(640, 480)

	prev := 0
	for z := 5.0; z >= 2.0; z -= 0.5 {
		e.Camera().SetPosition(math3d.V3(0, 0, z))
		stats := e.RenderFrame(fb)

		box, n := coverage(fb, render.ColorBlack)
		require.Positive(t, n, "z=%g", z)
		assert.Equal(t, n, stats.Pixels, "z=%g", z)
		assert.Equal(t, 2, stats.Drawn, "z=%g", z)

		cx := float64(box.Min.X+box.Max.X) / 2
		cy := float64(box.Min.Y+box.Max.Y) / 2
		assert.InDelta(t, 320, cx, 1, "z=%g horizontal center", z)
		assert.InDelta(t, 240, cy, 1, "z=%g vertical center", z)

		assert.Greater(t, n, prev, "z=%g", z)
		prev = n
	}
}

func TestYawHalfTurnNegatesForward(t *testing.T) {
	e := newDefault(t)
	cam := e.Camera()
	before := cam.DirectionForward()

	cam.Rotate(math3d.V2(math.Pi, 0))
	vecNear(t, before.Negate(), cam.DirectionForward())
}

func TestUpdateMovesAndTurnsCamera(t *testing.T) {
	e := newDefault(t)
	step := config.Default().Input.MoveStep

	var in InputState
	in.Keys.Press(KeyForward)
	e.Update(in)
	vecNear(t, math3d.V3(0, 0, 5-step), e.Camera().Position())

	in.Keys.Release(KeyForward)
	in.Keys.Press(KeyRight)
	in.Keys.Press(KeyUp)
	e.Update(in)
	vecNear(t, math3d.V3(step, step, 5-step), e.Camera().Position())

	in = InputState{}
	in.Keys.Press(KeyTurnRight)
	in.Keys.Press(KeyLookUp)
	e.Update(in)
	turn := math3d.Radians(config.Default().Input.TurnStep)
	assert.InDelta(t, turn, e.Camera().Angle().X, tolerance)
	assert.InDelta(t, -turn, e.Camera().Angle().Y, tolerance)

	e.Update(InputState{MouseDelta: math3d.V2(-2, 0)})
	mouse := 2 * math3d.Radians(config.Default().Input.MouseSensitivity)
	assert.InDelta(t, turn-mouse, e.Camera().Angle().X, tolerance)

	assert.Equal(t, uint64(4), e.Frame())
}

func TestOpposingKeysCancel(t *testing.T) {
	e := newDefault(t)
	var in InputState
	in.Keys.Press(KeyForward)
	in.Keys.Press(KeyBack)
	e.Update(in)
	vecNear(t, math3d.V3(0, 0, 5), e.Camera().Position())
}

func TestUpdateAnimatesSpin(t *testing.T) {
	q := scene.NewQuad(2, 2)
	q.Spin = math3d.V3(0.01, 0.01, 0)
	sc := scene.New()
	sc.Add("cube-face", q)

	e := New(config.Default(), sc, nil)
	for range 3 {
		e.Update(InputState{})
	}
	vecNear(t, math3d.V3(0.03, 0.03, 0), q.Rotation)
}

func TestStepStopsOnQuit(t *testing.T) {
	e := newDefault(t)
	fb := render.NewFramebuffer(64, 48)

	_, ok := e.Step(fb, InputState{})
	assert.True(t, ok)
	assert.Equal(t, uint64(1), e.Frame())

	stats, ok := e.Step(fb, InputState{Quit: true})
	assert.False(t, ok)
	assert.Equal(t, 2, stats.Submitted, "the quitting frame is still drawn")
	assert.Equal(t, uint64(1), e.Frame())
}

func TestSmoothingRampsVelocity(t *testing.T) {
	cfg := config.Default()
	cfg.Input.Smoothing = true
	e := New(cfg, nil, nil)

	var in InputState
	in.Keys.Press(KeyForward)
	e.Update(in)
	moved := 5 - e.Camera().Position().Z
	assert.Positive(t, moved)
	assert.Less(t, moved, cfg.Input.MoveStep)

	for range 120 {
		e.Update(in)
	}
	assert.InDelta(t, cfg.Input.MoveStep, e.motion.Forward.Velocity, 1e-3)

	for range 120 {
		e.Update(InputState{})
	}
	assert.InDelta(t, 0, e.motion.Forward.Velocity, 1e-3)
}

func TestRenderFrameFollowsSurfaceSize(t *testing.T) {
	e := newDefault(t)
	e.RenderFrame(render.NewFramebuffer(100, 50))
	assert.Equal(t, 100, e.Rasterizer().Width())
	assert.Equal(t, 50, e.Rasterizer().Height())

	want := math3d.Perspective(math3d.Radians(60), 2, 0.1, 100)
	assert.Equal(t, want, e.Rasterizer().Projection())
}

func TestVertexTintsReachPixels(t *testing.T) {
	q := scene.NewQuad(2, 2)
	q.SetTexture(render.NewTexture(1, 1, []render.Color{render.ColorWhite}), "")
	red := render.Tint{R: 1}
	q.SetVertexColors([4]render.Tint{red, red, red, red})
	sc := scene.New()
	sc.Add("red", q)

	e := New(config.Default(), sc, nil)
	fb := render.NewFramebuffer(64, 48)
	e.RenderFrame(fb)
	assert.Equal(t, render.RGB(255, 0, 0), fb.GetPixel(29, 24))
}

func TestWireframeOverlay(t *testing.T) {
	e := newDefault(t)
	fb := render.NewFramebuffer(640, 480)

	e.RenderFrame(fb)
	assert.Zero(t, countColor(fb, render.ColorGreen))

	e.SetWireframe(true)
	assert.True(t, e.Wireframe())
	e.RenderFrame(fb)
	assert.Positive(t, countColor(fb, render.ColorGreen))
}

func countColor(fb *render.Framebuffer, c render.Color) int {
	n := 0
	for _, p := range fb.Pixels {
		if p == c {
			n++
		}
	}
	return n
}

func TestTogglePerspective(t *testing.T) {
	e := newDefault(t)
	assert.False(t, e.TogglePerspective())
	assert.False(t, e.Rasterizer().Options().PerspectiveCorrect)
	assert.True(t, e.TogglePerspective())
}

func writePNG(t *testing.T, path string, c color.RGBA) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+1], img.Pix[i+2], img.Pix[i+3] = c.R, c.G, c.B, c.A
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

func TestBuildScene(t *testing.T) {
	dir := t.TempDir()
	texPath := filepath.Join(dir, "blue.png")
	writePNG(t, texPath, color.RGBA{0, 0, 255, 255})

	cfg := config.Default()
	cfg.Quads = []config.Quad{
		{Name: "textured", Texture: texPath},
		{Checker: 4, Colors: []string{"#f00", "#0f0", "#00f", "#fff"},
			Placement: config.Placement{Position: [3]float64{1, 0, 0}, Rotation: [3]float64{90, 0, 0}}},
	}

	sc, err := BuildScene(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, 2, sc.Len())
	assert.Equal(t, 4, sc.TriangleCount())

	var entries []scene.Entry
	sc.Each(func(en scene.Entry) { entries = append(entries, en) })

	assert.Equal(t, "textured", entries[0].Name)
	assert.Equal(t, texPath, entries[0].Item.TexturePath())
	assert.Equal(t, render.RGB(0, 0, 255), entries[0].Item.Texture().Get(0, 0))
	assert.Equal(t, math3d.Splat3(1), entries[0].Item.Base().Scale)

	assert.Equal(t, "quad-1", entries[1].Name)
	assert.Equal(t, 64, entries[1].Item.Texture().Width)
	assert.InDelta(t, math.Pi/2, entries[1].Item.Base().Rotation.X, tolerance)
	colored, ok := entries[1].Item.(scene.Colored)
	require.True(t, ok)
	tint, ok := colored.VertexColor(1)
	require.True(t, ok)
	assert.Equal(t, "#00ff00", tint.Hex())
}

func TestBuildSceneErrors(t *testing.T) {
	cfg := config.Default()
	cfg.Quads[0].Texture = filepath.Join(t.TempDir(), "missing.png")
	_, err := BuildScene(cfg, nil)
	assert.ErrorIs(t, err, assets.ErrTextureLoad)

	cfg = config.Default()
	cfg.Meshes = []config.Mesh{{Path: filepath.Join(t.TempDir(), "missing.glb")}}
	_, err = Build(cfg, assets.NewLoader(), nil)
	assert.Error(t, err)
}

func TestBuildSceneKeepsFileOrder(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Quads = nil
	for i := range 12 {
		path := filepath.Join(dir, fmt.Sprintf("q%d.png", i))
		writePNG(t, path, color.RGBA{R: uint8(i), A: 255})
		cfg.Quads = append(cfg.Quads, config.Quad{Name: fmt.Sprintf("q%d", i), Texture: path})
	}

	sc, err := BuildScene(cfg, nil)
	require.NoError(t, err)

	i := 0
	sc.Each(func(en scene.Entry) {
		assert.Equal(t, fmt.Sprintf("q%d", i), en.Name)
		assert.Equal(t, render.RGB(uint8(i), 0, 0), en.Item.Texture().Get(0, 0))
		i++
	})
	assert.Equal(t, 12, i)

	cfg.Quads[7].Texture = filepath.Join(dir, "missing.png")
	_, err = BuildScene(cfg, nil)
	require.ErrorIs(t, err, assets.ErrTextureLoad)
	assert.Contains(t, err.Error(), "quad 7")
}

func TestReplaceTexture(t *testing.T) {
	sc := scene.New()
	a, b := scene.NewQuad(1, 1), scene.NewQuad(1, 1)
	old := render.DefaultChecker()
	a.SetTexture(old, "brick.png")
	b.SetTexture(old, "stone.png")
	sc.Add("a", a)
	sc.Add("b", b)

	e := New(config.Default(), sc, nil)
	fresh := render.NewTexture(1, 1, []render.Color{render.ColorWhite})
	assert.Equal(t, 1, e.ReplaceTexture("brick.png", fresh))
	assert.Same(t, fresh, a.Texture())
	assert.Same(t, old, b.Texture())
	assert.Zero(t, e.ReplaceTexture("missing.png", fresh))
}
