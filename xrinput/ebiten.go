package xrinput

import "github.com/hajimehoshi/ebiten/v2"

// EbitenGamepad exposes the first connected standard-layout gamepad as one
// controller: the left hand reads the left stick and the right hand the
// right stick. It reports no axes while no such gamepad is connected.
type EbitenGamepad struct {
	Hand Hand
	ids  []ebiten.GamepadID
}

func NewEbitenGamepad(hand Hand) *EbitenGamepad {
	return &EbitenGamepad{Hand: hand}
}

func (g *EbitenGamepad) Axis(i int) (float64, bool) {
	if g == nil {
		return 0, false
	}
	id, ok := g.gamepad()
	if !ok {
		return 0, false
	}

	horizontal := ebiten.StandardGamepadAxisLeftStickHorizontal
	vertical := ebiten.StandardGamepadAxisLeftStickVertical
	if g.Hand == HandRight {
		horizontal = ebiten.StandardGamepadAxisRightStickHorizontal
		vertical = ebiten.StandardGamepadAxisRightStickVertical
	}

	switch i {
	case AxisTouchpadX, AxisTouchpadY:
		return 0, true
	case AxisThumbstickX:
		return ebiten.StandardGamepadAxisValue(id, horizontal), true
	case AxisThumbstickY:
		return ebiten.StandardGamepadAxisValue(id, vertical), true
	default:
		return 0, false
	}
}

func (g *EbitenGamepad) gamepad() (ebiten.GamepadID, bool) {
	g.ids = ebiten.AppendGamepadIDs(g.ids[:0])
	for _, id := range g.ids {
		if ebiten.IsStandardGamepadLayoutAvailable(id) {
			return id, true
		}
	}
	return 0, false
}
