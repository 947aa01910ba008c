package xrinput

// Bindings names the key codes used when a source lacks an axis.
type Bindings struct {
	Left        string `yaml:"left"`
	Right       string `yaml:"right"`
	Forward     string `yaml:"forward"`
	Back        string `yaml:"back"`
	RotateLeft  string `yaml:"rotate_left"`
	RotateRight string `yaml:"rotate_right"`
}

func DefaultBindings() Bindings {
	return Bindings{
		Left:        "KeyA",
		Right:       "KeyD",
		Forward:     "KeyW",
		Back:        "KeyS",
		RotateLeft:  "ArrowLeft",
		RotateRight: "ArrowRight",
	}
}

// WithDefaults fills empty bindings from DefaultBindings.
func (b Bindings) WithDefaults() Bindings {
	d := DefaultBindings()
	if b.Left == "" {
		b.Left = d.Left
	}
	if b.Right == "" {
		b.Right = d.Right
	}
	if b.Forward == "" {
		b.Forward = d.Forward
	}
	if b.Back == "" {
		b.Back = d.Back
	}
	if b.RotateLeft == "" {
		b.RotateLeft = d.RotateLeft
	}
	if b.RotateRight == "" {
		b.RotateRight = d.RotateRight
	}
	return b
}

// KeyState is the part of input.Keyboard the resolver reads.
type KeyState interface {
	Axis(neg, pos string) float64
}

// Axes is one frame of resolved locomotion input. X strafes right, Y moves
// forward and Rot turns right, each in [-1, 1].
type Axes struct {
	X   float64
	Y   float64
	Rot float64
}

// Resolve reads the left thumbstick for movement and the right thumbstick X
// for rotation, using the bound keys for any axis a source does not expose.
// Pushing a thumbstick forward reports a negative raw Y, hence the negation.
func Resolve(keys KeyState, b Bindings, left, right Source) Axes {
	if left == nil {
		left = KeyboardOnly{}
	}
	if right == nil {
		right = KeyboardOnly{}
	}

	x, ok := left.Axis(AxisThumbstickX)
	if !ok {
		x = keyAxis(keys, b.Left, b.Right)
	}
	y, ok := left.Axis(AxisThumbstickY)
	if !ok {
		// forward key maps to the raw "pushed forward" value
		y = keyAxis(keys, b.Forward, b.Back)
	}
	rot, ok := right.Axis(AxisThumbstickX)
	if !ok {
		rot = keyAxis(keys, b.RotateLeft, b.RotateRight)
	}
	return Axes{X: x, Y: -y, Rot: rot}
}

func keyAxis(keys KeyState, neg, pos string) float64 {
	if keys == nil {
		return 0
	}
	return keys.Axis(neg, pos)
}

// Zero reports whether both movement axes are exactly zero.
func (a Axes) Zero() bool {
	return a.X == 0 && a.Y == 0
}
