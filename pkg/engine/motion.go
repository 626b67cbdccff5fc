package engine

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/softras/pkg/math3d"
)

// Axis eases one velocity component toward a target with a critically
// damped spring, so held keys ramp up and released keys coast to a stop.
type Axis struct {
	Velocity float64
	accel    float64 // spring velocity of Velocity itself
	spring   harmonica.Spring
}

// NewAxis creates an axis stepped fps times per second.
func NewAxis(fps int) Axis {
	// Frequency 6 settles in a few frames; damping 1 never overshoots.
	return Axis{spring: harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0)}
}

// Update moves Velocity one step toward target and returns it.
func (a *Axis) Update(target float64) float64 {
	a.Velocity, a.accel = a.spring.Update(a.Velocity, a.accel, target)
	return a.Velocity
}

// Velocity is a per-frame camera displacement: Move along the camera's
// forward, right and up directions, Turn as yaw and pitch in radians.
type Velocity struct {
	Move math3d.Vec3 // X forward, Y right, Z up
	Turn math3d.Vec2
}

// Motion smooths camera velocity across frames.
type Motion struct {
	Forward, Right, Up Axis
	Yaw, Pitch         Axis
	fps                int
}

// NewMotion creates a Motion for the given frame rate.
func NewMotion(fps int) *Motion {
	m := &Motion{fps: max(1, fps)}
	m.Reset()
	return m
}

// Update steps every axis toward target.
func (m *Motion) Update(target Velocity) Velocity {
	return Velocity{
		Move: math3d.V3(
			m.Forward.Update(target.Move.X),
			m.Right.Update(target.Move.Y),
			m.Up.Update(target.Move.Z),
		),
		Turn: math3d.V2(
			m.Yaw.Update(target.Turn.X),
			m.Pitch.Update(target.Turn.Y),
		),
	}
}

// Reset stops all motion.
func (m *Motion) Reset() {
	m.Forward = NewAxis(m.fps)
	m.Right = NewAxis(m.fps)
	m.Up = NewAxis(m.fps)
	m.Yaw = NewAxis(m.fps)
	m.Pitch = NewAxis(m.fps)
}
