package render

import (
	"github.com/taigrr/softras/pkg/math3d"
)

// Camera is a free-fly camera described by a position and a yaw/pitch
// angle. Angle.X is yaw around +Y, Angle.Y is pitch around +X, both in
// radians.
//
// Nothing is cached: every query recomputes the view matrix from the
// current state, so a matrix obtained before a mutation is stale.
type Camera struct {
	position math3d.Vec3
	target   math3d.Vec3
	angle    math3d.Vec2
}

// NewCamera creates a camera at position with the given look-at target.
// The target is recorded only; orientation comes from the angle.
func NewCamera(position, target math3d.Vec3) *Camera {
	return &Camera{position: position, target: target}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.position = pos
}

// Position returns the camera position.
func (c *Camera) Position() math3d.Vec3 {
	return c.position
}

// SetTarget records a look-at target. Transform does not consume it.
func (c *Camera) SetTarget(target math3d.Vec3) {
	c.target = target
}

// Target returns the recorded look-at target.
func (c *Camera) Target() math3d.Vec3 {
	return c.target
}

// Angle returns the current yaw (X) and pitch (Y).
func (c *Camera) Angle() math3d.Vec2 {
	return c.angle
}

// SetAngle replaces the current yaw and pitch.
func (c *Camera) SetAngle(angle math3d.Vec2) {
	c.angle = angle
}

// Rotate adds delta to the current yaw and pitch.
func (c *Camera) Rotate(delta math3d.Vec2) {
	c.angle = c.angle.Add(delta)
}

// Move translates the camera by delta in world space.
func (c *Camera) Move(delta math3d.Vec3) {
	c.position = c.position.Add(delta)
}

// Transform returns the world-to-view matrix:
// RotateY(yaw) * RotateX(pitch) * Translate(-position).
func (c *Camera) Transform() math3d.Mat4 {
	return math3d.ViewMatrix(c.position, c.angle)
}

// DirectionForward returns the world-space direction the camera looks
// along. The result is not re-normalized.
func (c *Camera) DirectionForward() math3d.Vec3 {
	return c.direction(math3d.V3(0, 0, -1))
}

// DirectionRight returns the world-space right vector.
func (c *Camera) DirectionRight() math3d.Vec3 {
	return c.direction(math3d.V3(1, 0, 0))
}

// DirectionUp returns the world-space up vector.
func (c *Camera) DirectionUp() math3d.Vec3 {
	return c.direction(math3d.V3(0, 1, 0))
}

func (c *Camera) direction(axis math3d.Vec3) math3d.Vec3 {
	return c.Transform().Inverse().MulDir(axis)
}
