package main

import (
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/stretchr/testify/assert"

	"github.com/taigrr/softras/pkg/engine"
	"github.com/taigrr/softras/pkg/math3d"
)

func TestControlsHeldKeys(t *testing.T) {
	c := newControls()
	t0 := time.Unix(0, 0)

	c.handle(uv.KeyPressEvent{Code: 'w'}, t0)
	c.handle(uv.KeyPressEvent{Code: 'a'}, t0)
	in, _ := c.frame(t0.Add(10 * time.Millisecond))
	assert.True(t, in.Keys.Has(engine.KeyForward))
	assert.True(t, in.Keys.Has(engine.KeyLeft))
	assert.False(t, in.Keys.Has(engine.KeyBack))

	c.handle(uv.KeyReleaseEvent{Code: 'a'}, t0)
	in, _ = c.frame(t0.Add(20 * time.Millisecond))
	assert.True(t, in.Keys.Has(engine.KeyForward))
	assert.False(t, in.Keys.Has(engine.KeyLeft), "released")

	in, _ = c.frame(t0.Add(holdTimeout + time.Millisecond))
	assert.False(t, in.Keys.Has(engine.KeyForward), "no repeat within the hold timeout")
}

func TestControlsToggles(t *testing.T) {
	c := newControls()
	now := time.Now()

	c.handle(uv.KeyPressEvent{Code: 'x'}, now)
	c.handle(uv.KeyPressEvent{Code: 'p'}, now)
	_, toggles := c.frame(now)
	assert.Equal(t, []toggle{toggleWireframe, togglePerspective}, toggles)

	_, toggles = c.frame(now)
	assert.Empty(t, toggles, "toggles fire once")

	c.handle(uv.KeyPressEvent{Code: uv.KeyEscape}, now)
	in, _ := c.frame(now)
	assert.True(t, in.Quit)
}

func TestControlsMouseDrag(t *testing.T) {
	c := newControls()
	now := time.Now()

	c.handle(uv.MouseMotionEvent{X: 5, Y: 5}, now)
	in, _ := c.frame(now)
	assert.Equal(t, math3d.Vec2{}, in.MouseDelta, "motion without a button does not look")

	c.handle(uv.MouseClickEvent{X: 1, Y: 1}, now)
	c.handle(uv.MouseMotionEvent{X: 3, Y: 2}, now)
	c.handle(uv.MouseMotionEvent{X: 4, Y: 3}, now)
	c.handle(uv.MouseReleaseEvent{X: 4, Y: 3}, now)
	c.handle(uv.MouseMotionEvent{X: 9, Y: 9}, now)

	in, _ = c.frame(now)
	assert.Equal(t, math3d.V2(3, 2), in.MouseDelta)

	in, _ = c.frame(now)
	assert.Equal(t, math3d.Vec2{}, in.MouseDelta, "delta resets every frame")
}
