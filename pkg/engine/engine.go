// Package engine drives softras frames: it renders a scene through the
// camera into a surface, then applies input and animation for the next
// frame.
package engine

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/taigrr/softras/pkg/config"
	"github.com/taigrr/softras/pkg/math3d"
	"github.com/taigrr/softras/pkg/render"
	"github.com/taigrr/softras/pkg/scene"
)

// Engine owns the scene, the camera and the rasterizer. It is not safe for
// concurrent use; the front end calls it from one loop.
type Engine struct {
	scene  *scene.Scene
	camera *render.Camera
	rast   *render.Rasterizer
	logger *log.Logger

	viewport   config.Viewport
	input      config.Input
	background render.Color
	wireframe  bool
	motion     *Motion // nil without smoothing

	frame uint64
	stats render.Stats
	verts []math3d.Vec3
}

// New creates an engine for sc using the viewport, camera, render and
// input settings of cfg. A nil logger discards output.
func New(cfg *config.Config, sc *scene.Scene, logger *log.Logger) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if sc == nil {
		sc = scene.New()
	}

	cam := render.NewCamera(vec3(cfg.Camera.Position), vec3(cfg.Camera.Target))
	cam.SetAngle(math3d.V2(math3d.Radians(cfg.Camera.Yaw), math3d.Radians(cfg.Camera.Pitch)))

	e := &Engine{
		scene:      sc,
		camera:     cam,
		logger:     logger.WithPrefix("engine"),
		viewport:   cfg.Viewport,
		input:      cfg.Input,
		background: cfg.Render.BackgroundColor(),
		wireframe:  cfg.Render.Wireframe,
	}
	if cfg.Input.Smoothing {
		e.motion = NewMotion(cfg.Render.FPS)
	}
	e.rast = render.NewRasterizer(e.projection(), cfg.Viewport.Width, cfg.Viewport.Height, cfg.Render.Options())
	return e
}

func (e *Engine) projection() math3d.Mat4 {
	v := e.viewport
	return math3d.Perspective(math3d.Radians(v.FOV), v.Aspect(), v.Near, v.Far)
}

// Scene returns the rendered scene.
func (e *Engine) Scene() *scene.Scene { return e.scene }

// Camera returns the camera.
func (e *Engine) Camera() *render.Camera { return e.camera }

// Rasterizer returns the rasterizer.
func (e *Engine) Rasterizer() *render.Rasterizer { return e.rast }

// Stats returns the statistics of the last rendered frame.
func (e *Engine) Stats() render.Stats { return e.stats }

// Frame returns the number of completed updates.
func (e *Engine) Frame() uint64 { return e.frame }

// Wireframe reports whether triangle outlines are drawn.
func (e *Engine) Wireframe() bool { return e.wireframe }

// SetWireframe turns the outline overlay on or off.
func (e *Engine) SetWireframe(on bool) { e.wireframe = on }

// TogglePerspective flips perspective-correct interpolation and returns
// the new setting.
func (e *Engine) TogglePerspective() bool {
	opts := e.rast.Options()
	opts.PerspectiveCorrect = !opts.PerspectiveCorrect
	e.rast.SetOptions(opts)
	return opts.PerspectiveCorrect
}

// Resize changes the viewport and rebuilds the projection for the new
// aspect ratio. Non-positive sizes are ignored.
func (e *Engine) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	if width == e.viewport.Width && height == e.viewport.Height {
		return
	}
	e.viewport.Width, e.viewport.Height = width, height
	e.rast.Resize(width, height)
	e.rast.SetProjection(e.projection())
	e.logger.Debug("viewport resized", "width", width, "height", height)
}

// RenderFrame clears dst and draws every scene entry in order. The
// viewport follows dst's size.
func (e *Engine) RenderFrame(dst render.Surface) render.Stats {
	e.Resize(dst.Size())
	e.rast.ResetStats()
	dst.Clear(e.background)

	view := e.camera.Transform()
	e.scene.Each(func(en scene.Entry) {
		e.draw(dst, view, en.Item)
	})
	if e.wireframe {
		wf := render.NewWireframe(e.rast, dst)
		e.scene.Each(func(en scene.Entry) {
			e.outline(wf, view, en.Item)
		})
	}

	e.stats = e.rast.Stats
	return e.stats
}

// toCamera transforms the vertices of r into camera space. The returned
// slice is reused by the next call.
func (e *Engine) toCamera(view math3d.Mat4, r scene.Renderable) []math3d.Vec3 {
	mv := view.Mul(r.Transform())
	n := r.VertexCount()
	if cap(e.verts) < n {
		e.verts = make([]math3d.Vec3, n)
	}
	e.verts = e.verts[:n]
	for i := range n {
		e.verts[i] = mv.MulPoint(r.Vertex(i))
	}
	return e.verts
}

func (e *Engine) draw(dst render.Surface, view math3d.Mat4, r scene.Renderable) {
	verts := e.toCamera(view, r)
	colored, _ := r.(scene.Colored)
	tex := r.Texture()

	for _, t := range r.Triangles() {
		p := render.Primitive{Texture: tex}
		for k, i := range t {
			p.Positions[k] = verts[i]
			p.UV[k] = r.TexCoord(i)
		}
		if colored != nil {
			p.Tint = vertexTints(colored, t)
		}
		e.rast.DrawTriangle(dst, p)
	}
}

// vertexTints returns the tints of triangle t, or nil unless all three
// vertices carry one.
func vertexTints(c scene.Colored, t [3]int) *[3]render.Tint {
	var out [3]render.Tint
	for k, i := range t {
		tint, ok := c.VertexColor(i)
		if !ok {
			return nil
		}
		out[k] = tint
	}
	return &out
}

func (e *Engine) outline(wf *render.Wireframe, view math3d.Mat4, r scene.Renderable) {
	verts := e.toCamera(view, r)
	for _, t := range r.Triangles() {
		wf.DrawTriangle([3]math3d.Vec3{verts[t[0]], verts[t[1]], verts[t[2]]}, render.ColorGreen)
	}
}

// Update applies one frame of input: held keys move and turn the camera,
// mouse motion turns it, and every object advances by its spin.
func (e *Engine) Update(in InputState) {
	k := in.Keys
	target := Velocity{
		Move: math3d.V3(
			k.axis(KeyBack, KeyForward),
			k.axis(KeyLeft, KeyRight),
			k.axis(KeyDown, KeyUp),
		).Scale(e.input.MoveStep),
		Turn: math3d.V2(
			k.axis(KeyTurnLeft, KeyTurnRight),
			k.axis(KeyLookUp, KeyLookDown),
		).Scale(math3d.Radians(e.input.TurnStep)),
	}
	v := target
	if e.motion != nil {
		v = e.motion.Update(target)
	}

	move := e.camera.DirectionForward().Scale(v.Move.X).
		Add(e.camera.DirectionRight().Scale(v.Move.Y)).
		Add(e.camera.DirectionUp().Scale(v.Move.Z))
	e.camera.Move(move)
	e.camera.Rotate(v.Turn.Add(in.MouseDelta.Scale(math3d.Radians(e.input.MouseSensitivity))))

	e.scene.Animate()
	e.frame++
}

// Step renders one frame into dst and then applies in. It returns false
// once in asks to quit; the frame is still rendered.
func (e *Engine) Step(dst render.Surface, in InputState) (render.Stats, bool) {
	stats := e.RenderFrame(dst)
	if in.Quit {
		return stats, false
	}
	e.Update(in)
	return stats, true
}

// ReplaceTexture binds tex to every entry whose texture came from path and
// returns how many were updated.
func (e *Engine) ReplaceTexture(path string, tex *render.Texture) int {
	n := 0
	e.scene.Each(func(en scene.Entry) {
		if en.Item.TexturePath() != path {
			return
		}
		en.Item.SetTexture(tex, path)
		n++
		e.logger.Debug("texture swapped", "entry", en.Name, "id", en.ID)
	})
	return n
}
