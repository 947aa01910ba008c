package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrrig/input"
	"github.com/milk9111/vrrig/xrinput"
)

const (
	DefaultWalkSpeed     = 6.0
	DefaultRotationSpeed = 3.0
	// RotationDeadzone is the rotation axis magnitude that must be exceeded
	// before the rig yaws.
	RotationDeadzone = 0.05
)

// Movement drives a rig's physics velocity from head-relative input and
// yaws the rig from the rotation axis. Entity references are raw ecs.Entity
// handles; zero means unset.
type Movement struct {
	Rig             uint64
	Head            uint64
	LeftController  uint64
	RightController uint64
	WalkSpeed       float64
	RotationSpeed   float64
	Bindings        xrinput.Bindings

	SpawnPoint  mgl64.Vec3
	Keys        *input.Keyboard
	Unsubscribe func()

	// Ready flips once both controllers expose ControllerInput; Left and
	// Right are resolved at that moment and kept.
	Ready bool
	Left  *ControllerInput
	Right *ControllerInput

	LastInput xrinput.Axes

	// scratch, overwritten every frame
	MoveDir       mgl64.Vec3
	Velocity      mgl64.Vec3
	DesiredMove   mgl64.Vec3
	HeadForward   mgl64.Vec3
	HeadRight     mgl64.Vec3
	RigRotation   mgl64.Quat
	DeltaRotation mgl64.Quat
}

// NewMovement returns a Movement with default speeds and bindings.
func NewMovement() *Movement {
	return &Movement{
		WalkSpeed:     DefaultWalkSpeed,
		RotationSpeed: DefaultRotationSpeed,
		Bindings:      xrinput.DefaultBindings(),
		RigRotation:   mgl64.QuatIdent(),
		DeltaRotation: mgl64.QuatIdent(),
	}
}

var MovementComponent = NewComponent[Movement]()
