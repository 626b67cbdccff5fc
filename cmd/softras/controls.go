package main

import (
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/softras/pkg/engine"
	"github.com/taigrr/softras/pkg/math3d"
)

// holdTimeout releases a key that has not repeated for this long. Most
// terminals never report key releases, only auto-repeated presses.
const holdTimeout = 150 * time.Millisecond

// bindings maps key names, as understood by MatchString, to controls.
var bindings = []struct {
	name string
	key  engine.Key
}{
	{"w", engine.KeyForward},
	{"s", engine.KeyBack},
	{"a", engine.KeyLeft},
	{"d", engine.KeyRight},
	{"r", engine.KeyUp},
	{"f", engine.KeyDown},
	{"left", engine.KeyTurnLeft},
	{"right", engine.KeyTurnRight},
	{"up", engine.KeyLookUp},
	{"down", engine.KeyLookDown},
}

// toggle is a one-shot view command.
type toggle int

const (
	toggleWireframe toggle = iota
	togglePerspective
	toggleHUD
)

// controls collects terminal events on the event goroutine and hands them
// to the frame loop once per frame.
type controls struct {
	mu      sync.Mutex
	pressed map[engine.Key]time.Time
	toggles []toggle
	quit    bool

	dragging     bool
	lastX, lastY int
	mouse        math3d.Vec2
}

func newControls() *controls {
	return &controls{pressed: make(map[engine.Key]time.Time)}
}

// handle records one terminal event at time now.
func (c *controls) handle(ev uv.Event, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch ev := ev.(type) {
	case uv.KeyPressEvent:
		switch {
		case ev.MatchString("esc", "ctrl+c"):
			c.quit = true
		case ev.MatchString("x"):
			c.toggles = append(c.toggles, toggleWireframe)
		case ev.MatchString("p"):
			c.toggles = append(c.toggles, togglePerspective)
		case ev.MatchString("?", "shift+/"):
			c.toggles = append(c.toggles, toggleHUD)
		default:
			for _, b := range bindings {
				if ev.MatchString(b.name) {
					c.pressed[b.key] = now
				}
			}
		}

	case uv.KeyReleaseEvent:
		for _, b := range bindings {
			if ev.MatchString(b.name) {
				delete(c.pressed, b.key)
			}
		}

	case uv.MouseClickEvent:
		c.dragging = true
		c.lastX, c.lastY = ev.X, ev.Y

	case uv.MouseReleaseEvent:
		c.dragging = false

	case uv.MouseMotionEvent:
		if c.dragging {
			c.mouse = c.mouse.Add(math3d.V2(float64(ev.X-c.lastX), float64(ev.Y-c.lastY)))
			c.lastX, c.lastY = ev.X, ev.Y
		}
	}
}

// frame returns the input for the next frame and the pending toggles, and
// resets the accumulated mouse motion.
func (c *controls) frame(now time.Time) (engine.InputState, []toggle) {
	c.mu.Lock()
	defer c.mu.Unlock()

	in := engine.InputState{MouseDelta: c.mouse, Quit: c.quit}
	for k, at := range c.pressed {
		if now.Sub(at) > holdTimeout {
			delete(c.pressed, k)
			continue
		}
		in.Keys.Press(k)
	}
	c.mouse = math3d.Vec2{}

	toggles := c.toggles
	c.toggles = nil
	return in, toggles
}
