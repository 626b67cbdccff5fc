package engine

import "github.com/taigrr/softras/pkg/math3d"

// Key is a logical control, independent of the physical key bound to it.
type Key uint8

const (
	KeyForward Key = iota
	KeyBack
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
	KeyTurnLeft
	KeyTurnRight
	KeyLookUp
	KeyLookDown
	keyCount
)

var keyNames = [keyCount]string{
	"forward", "back", "left", "right", "up", "down",
	"turn-left", "turn-right", "look-up", "look-down",
}

func (k Key) String() string {
	if k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// Keys is the set of held keys.
type Keys uint16

// Has reports whether k is held.
func (s Keys) Has(k Key) bool {
	return s&(1<<k) != 0
}

// Press marks k as held.
func (s *Keys) Press(k Key) {
	*s |= 1 << k
}

// Release marks k as released.
func (s *Keys) Release(k Key) {
	*s &^= 1 << k
}

// axis returns -1, 0 or 1 for a pair of opposing keys.
func (s Keys) axis(neg, pos Key) float64 {
	var v float64
	if s.Has(neg) {
		v--
	}
	if s.Has(pos) {
		v++
	}
	return v
}

// InputState is what the front end collected since the previous frame.
type InputState struct {
	Keys Keys
	// MouseDelta is pointer motion in cells or pixels. +X turns right, +Y
	// looks down.
	MouseDelta math3d.Vec2
	Quit       bool
}
