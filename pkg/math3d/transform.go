package math3d

import "math"

// ModelMatrix composes an object transform as
// Scale(scale) * Translate(position) * RotateX * RotateY * RotateZ.
//
// Each factor is right-multiplied onto the previous one, so the translation
// is expressed in the scaled frame and rotation happens about the object's
// local origin before anything else. Renderers that need to match existing
// scenes must keep this order.
func ModelMatrix(position, rotation, scale Vec3) Mat4 {
	return Scale(scale).
		Mul(Translate(position)).
		Mul(RotateX(rotation.X)).
		Mul(RotateY(rotation.Y)).
		Mul(RotateZ(rotation.Z))
}

// ViewMatrix composes a camera transform as
// RotateY(angle.X) * RotateX(angle.Y) * Translate(-position), which moves the
// world opposite to the camera. angle.X is yaw and angle.Y is pitch.
func ViewMatrix(position Vec3, angle Vec2) Mat4 {
	return RotateY(angle.X).
		Mul(RotateX(angle.Y)).
		Mul(Translate(position.Negate()))
}

// Radians converts degrees to radians.
func Radians(deg float64) float64 {
	return deg * math.Pi / 180
}
