// Package xrinput models the input source behind a tracked VR controller and
// resolves per-frame locomotion axes from it, falling back to the keyboard.
package xrinput

// xr-standard gamepad axis layout.
const (
	AxisTouchpadX   = 0
	AxisTouchpadY   = 1
	AxisThumbstickX = 2
	AxisThumbstickY = 3
)

type Hand int

const (
	HandLeft Hand = iota
	HandRight
)

func (h Hand) String() string {
	switch h {
	case HandLeft:
		return "left"
	case HandRight:
		return "right"
	default:
		return "unknown"
	}
}

// Source is the input source of one controller.
type Source interface {
	// Axis returns the analog value at index i in [-1, 1] and whether the
	// source exposes that axis.
	Axis(i int) (float64, bool)
}

// KeyboardOnly is a controller without a gamepad. It exposes no axes, so
// every lookup falls back to the keyboard.
type KeyboardOnly struct{}

func (KeyboardOnly) Axis(int) (float64, bool) { return 0, false }

// Gamepad is a gamepad-present source with a fixed axes array.
type Gamepad struct {
	Axes []float64
}

func (g *Gamepad) Axis(i int) (float64, bool) {
	if g == nil || i < 0 || i >= len(g.Axes) {
		return 0, false
	}
	return g.Axes[i], true
}
