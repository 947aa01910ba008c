package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrrig/common"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
	"github.com/milk9111/vrrig/input"
	"github.com/milk9111/vrrig/xrinput"
)

// MovementSystem turns resolved locomotion input into rig yaw and a
// horizontal physics velocity.
type MovementSystem struct{}

func NewMovementSystem() *MovementSystem {
	return &MovementSystem{}
}

// Start prepares the Movement on e: it records the rig's world position as
// the spawn point, activates the body on e, and subscribes a fresh key set
// to d. Stop undoes the subscription.
func (s *MovementSystem) Start(w *ecs.World, e ecs.Entity, d *input.Dispatcher) bool {
	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	if !ok {
		return false
	}

	if pos, _, ok := WorldPose(w, e); ok {
		m.SpawnPoint = pos
	}

	body, hasBody := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if hasBody {
		body.Active = true
	}

	if m.Unsubscribe != nil {
		m.Unsubscribe()
	}
	m.Keys = input.NewKeyboard(func() {
		// look the body up again; it may have been swapped since Start
		if b, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			b.ZeroHorizontal()
		}
	})
	m.Unsubscribe = d.Subscribe(m.Keys)
	m.Ready = false
	m.Left, m.Right = nil, nil
	m.RigRotation = mgl64.QuatIdent()
	m.DeltaRotation = mgl64.QuatIdent()
	return true
}

// Stop removes the key listener registered by Start.
func (s *MovementSystem) Stop(w *ecs.World, e ecs.Entity) {
	m, ok := ecs.Get(w, e, component.MovementComponent.Kind())
	if !ok {
		return
	}
	if m.Unsubscribe != nil {
		m.Unsubscribe()
		m.Unsubscribe = nil
	}
}

func (s *MovementSystem) Update(w *ecs.World, dt float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.MovementComponent.Kind(), func(e ecs.Entity, m *component.Movement) {
		if !m.Ready {
			if !resolveControllers(w, m) {
				return
			}
			m.Ready = true
			w.Events().Push(ecs.Event{Type: ecs.EventControllersReady, Entity: e})
		}

		axes := xrinput.Resolve(m.Keys, m.Bindings, m.Left.InputSource(), m.Right.InputSource())
		m.LastInput = axes

		rotateRig(w, m, axes.Rot, dt)

		body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			return
		}
		applyVelocity(w, m, body, axes)
	})
}

// resolveControllers reports whether both controllers are alive and carry
// ControllerInput, caching the handles on m when they do.
func resolveControllers(w *ecs.World, m *component.Movement) bool {
	if m.LeftController == 0 || m.RightController == 0 {
		return false
	}
	left, ok := ecs.Get(w, ecs.Entity(m.LeftController), component.ControllerInputComponent.Kind())
	if !ok {
		return false
	}
	right, ok := ecs.Get(w, ecs.Entity(m.RightController), component.ControllerInputComponent.Kind())
	if !ok {
		return false
	}
	m.Left, m.Right = left, right
	return true
}

func rotateRig(w *ecs.World, m *component.Movement, rot, dt float64) {
	if m.Rig == 0 || math.Abs(rot) <= component.RotationDeadzone {
		return
	}
	rig := ecs.Entity(m.Rig)
	_, current, ok := WorldPose(w, rig)
	if !ok {
		return
	}

	yaw := -rot * m.RotationSpeed * dt
	m.RigRotation = current
	m.DeltaRotation = common.YawRotation(yaw)
	m.RigRotation = m.DeltaRotation.Mul(m.RigRotation)
	SetWorldRotation(w, rig, m.RigRotation)
}

func applyVelocity(w *ecs.World, m *component.Movement, body *component.PhysicsBody, axes xrinput.Axes) {
	m.Velocity = body.LinearVelocity()

	if axes.Zero() {
		m.Velocity[0] = 0
		m.Velocity[2] = 0
		body.SetLinearVelocity(m.Velocity)
		return
	}

	if !updateMoveDirection(w, m, axes.X, axes.Y) {
		// degenerate heading: stop instead of pushing NaN into the body
		m.Velocity[0] = 0
		m.Velocity[2] = 0
		body.SetLinearVelocity(m.Velocity)
		return
	}

	m.DesiredMove = m.MoveDir.Mul(m.WalkSpeed)
	m.Velocity[0] = m.DesiredMove[0]
	m.Velocity[2] = m.DesiredMove[2]
	body.SetLinearVelocity(m.Velocity)
}

// updateMoveDirection sets m.MoveDir to the unit horizontal direction of
// forward*y + right*x taken from the head. It reports false when the head is
// missing or the combination has no horizontal length.
func updateMoveDirection(w *ecs.World, m *component.Movement, x, y float64) bool {
	if m.Head == 0 {
		return false
	}
	head := ecs.Entity(m.Head)
	fwd, ok := Forward(w, head)
	if !ok {
		return false
	}
	right, _ := Right(w, head)

	m.HeadForward, _ = common.Normalize(common.Flatten(fwd))
	m.HeadRight, _ = common.Normalize(common.Flatten(right))

	m.MoveDir = mgl64.Vec3{}
	m.MoveDir = m.MoveDir.Add(m.HeadForward.Mul(y))
	m.MoveDir = m.MoveDir.Add(m.HeadRight.Mul(x))

	dir, ok := common.Normalize(m.MoveDir)
	m.MoveDir = dir
	return ok
}

// ApplyTuning updates speeds on every Movement, ignoring non-positive values.
func ApplyTuning(w *ecs.World, walkSpeed, rotationSpeed float64) {
	ecs.ForEach(w, component.MovementComponent.Kind(), func(_ ecs.Entity, m *component.Movement) {
		if walkSpeed > 0 {
			m.WalkSpeed = walkSpeed
		}
		if rotationSpeed > 0 {
			m.RotationSpeed = rotationSpeed
		}
	})
}
