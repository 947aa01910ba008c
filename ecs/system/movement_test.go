package system

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrrig/common"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
	"github.com/milk9111/vrrig/input"
	"github.com/milk9111/vrrig/xrinput"
)

const epsilon = 1e-9

type rigFixture struct {
	w    *ecs.World
	d    *input.Dispatcher
	sys  *MovementSystem
	rig  ecs.Entity
	head ecs.Entity
	left ecs.Entity
	righ ecs.Entity
	m    *component.Movement
	body *component.PhysicsBody
}

func mustAdd[T any](t *testing.T, w *ecs.World, e ecs.Entity, kind component.ComponentKind[T], v *T) {
	t.Helper()
	if err := ecs.Add(w, e, kind, v); err != nil {
		t.Fatalf("add component: %v", err)
	}
}

func newRigFixture(t *testing.T, withBody bool) *rigFixture {
	t.Helper()
	f := &rigFixture{w: ecs.NewWorld(), d: input.NewDispatcher(), sys: NewMovementSystem()}
	w := f.w

	f.rig = w.CreateEntity()
	f.head = w.CreateEntity()
	f.left = w.CreateEntity()
	f.righ = w.CreateEntity()

	mustAdd(t, w, f.rig, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{1, 0, 2}))
	mustAdd(t, w, f.head, component.TransformComponent.Kind(), component.NewTransform(mgl64.Vec3{0, 1.6, 0}))
	mustAdd(t, w, f.head, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(f.rig)})
	mustAdd(t, w, f.head, component.HeadTagComponent.Kind(), &component.HeadTag{})
	mustAdd(t, w, f.left, component.XRControllerComponent.Kind(), &component.XRController{Hand: xrinput.HandLeft})
	mustAdd(t, w, f.righ, component.XRControllerComponent.Kind(), &component.XRController{Hand: xrinput.HandRight})

	if withBody {
		f.body = component.NewPhysicsBody(0.3, 70)
		mustAdd(t, w, f.rig, component.PhysicsBodyComponent.Kind(), f.body)
	}

	f.m = component.NewMovement()
	f.m.Rig = uint64(f.rig)
	f.m.Head = uint64(f.head)
	f.m.LeftController = uint64(f.left)
	f.m.RightController = uint64(f.righ)
	mustAdd(t, w, f.rig, component.MovementComponent.Kind(), f.m)

	if !f.sys.Start(w, f.rig, f.d) {
		t.Fatalf("start failed")
	}
	return f
}

func (f *rigFixture) attachInputs(t *testing.T, left, right xrinput.Source) {
	t.Helper()
	mustAdd(t, f.w, f.left, component.ControllerInputComponent.Kind(), &component.ControllerInput{Source: left})
	mustAdd(t, f.w, f.righ, component.ControllerInputComponent.Kind(), &component.ControllerInput{Source: right})
}

func (f *rigFixture) setHeadYaw(yaw float64) {
	t, _ := ecs.Get(f.w, f.head, component.TransformComponent.Kind())
	t.Rotation = common.YawRotation(yaw)
}

func (f *rigFixture) rigRotation() mgl64.Quat {
	t, _ := ecs.Get(f.w, f.rig, component.TransformComponent.Kind())
	return t.Rotation
}

// vecClose and quatClose compare by absolute distance; mgl64's
// ApproxEqualThreshold only allows epsilon squared next to an exact zero.
func vecClose(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < epsilon
}

func quatDistance(a, b mgl64.Quat) float64 {
	d := a.Sub(b)
	return math.Sqrt(d.W*d.W + d.V.Dot(d.V))
}

// quatClose treats q and -q as the same rotation.
func quatClose(a, b mgl64.Quat) bool {
	return quatDistance(a, b) < epsilon || quatDistance(a, b.Scale(-1)) < epsilon
}

func countEvents(events []ecs.Event, typ ecs.EventType) int {
	n := 0
	for _, ev := range events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func TestMovementStart(t *testing.T) {
	f := newRigFixture(t, true)

	if f.m.SpawnPoint != (mgl64.Vec3{1, 0, 2}) {
		t.Fatalf("spawn = %v, want rig world position", f.m.SpawnPoint)
	}
	if !f.body.Active {
		t.Fatalf("body should be active after start")
	}
	if f.m.Keys == nil || f.d.Len() != 1 {
		t.Fatalf("expected key set subscribed, listeners=%d", f.d.Len())
	}

	// restarting replaces the subscription instead of stacking listeners
	f.sys.Start(f.w, f.rig, f.d)
	if f.d.Len() != 1 {
		t.Fatalf("listeners after restart = %d, want 1", f.d.Len())
	}
}

func TestMovementStartWithoutMovement(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	if NewMovementSystem().Start(w, e, input.NewDispatcher()) {
		t.Fatalf("start should fail without a Movement component")
	}
}

func TestMovementReadinessGate(t *testing.T) {
	f := newRigFixture(t, true)
	f.body.SetLinearVelocity(mgl64.Vec3{3, -1, 4})
	f.d.KeyDown("KeyW")
	f.d.KeyDown("ArrowRight")
	before := f.rigRotation()

	tests := []struct {
		name  string
		setup func()
	}{
		{"no_inputs", func() {}},
		{"left_only", func() {
			mustAdd(t, f.w, f.left, component.ControllerInputComponent.Kind(), &component.ControllerInput{})
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.setup()
			f.sys.Update(f.w, 0.1)
			if f.m.Ready {
				t.Fatalf("ready before both controllers resolved")
			}
			if got := f.body.LinearVelocity(); got != (mgl64.Vec3{3, -1, 4}) {
				t.Fatalf("velocity changed while gated: %v", got)
			}
			if f.rigRotation() != before {
				t.Fatalf("rig rotated while gated")
			}
		})
	}

	mustAdd(t, f.w, f.righ, component.ControllerInputComponent.Kind(), &component.ControllerInput{})
	f.sys.Update(f.w, 0.1)
	if !f.m.Ready {
		t.Fatalf("expected ready once both controllers resolve")
	}

	// losing the input component later does not re-close the gate
	ecs.Remove(f.w, f.left, component.ControllerInputComponent.Kind())
	for i := 0; i < 3; i++ {
		f.sys.Update(f.w, 0.1)
	}
	if got := countEvents(f.w.Events().Drain(), ecs.EventControllersReady); got != 1 {
		t.Fatalf("controllers_ready events = %d, want 1", got)
	}
	if v := f.body.LinearVelocity(); math.Abs(math.Hypot(v[0], v[2])-component.DefaultWalkSpeed) > epsilon {
		t.Fatalf("expected movement after gate opened, got %v", v)
	}
}

func TestMovementZeroInputStops(t *testing.T) {
	f := newRigFixture(t, true)
	f.attachInputs(t, nil, nil)
	f.body.SetLinearVelocity(mgl64.Vec3{3, -2.5, 4})

	f.sys.Update(f.w, 1.0/60)

	got := f.body.LinearVelocity()
	if got[0] != 0 || got[2] != 0 {
		t.Fatalf("horizontal velocity = (%v, %v), want exactly 0", got[0], got[2])
	}
	if got[1] != -2.5 {
		t.Fatalf("vertical velocity = %v, want untouched -2.5", got[1])
	}
}

func TestMovementZeroGamepadStops(t *testing.T) {
	f := newRigFixture(t, true)
	f.attachInputs(t, &xrinput.Gamepad{Axes: []float64{0, 0, 0, 0}}, &xrinput.Gamepad{Axes: []float64{0, 0, 0, 0}})
	f.body.SetLinearVelocity(mgl64.Vec3{-5, 0, 1})
	// held keys are ignored while the gamepad exposes the axes
	f.d.KeyDown("KeyW")

	f.sys.Update(f.w, 1.0/60)

	if got := f.body.LinearVelocity(); got[0] != 0 || got[2] != 0 {
		t.Fatalf("horizontal velocity = %v, want exactly 0", got)
	}
}

func TestMovementWalkSpeed(t *testing.T) {
	tests := []struct {
		name    string
		keys    []string
		headYaw float64
		x, y    float64
	}{
		{"forward", []string{"KeyW"}, 0, 0, 1},
		{"back", []string{"KeyS"}, 0, 0, -1},
		{"strafe_left", []string{"KeyA"}, 0, -1, 0},
		{"strafe_right", []string{"KeyD"}, 0, 1, 0},
		{"diagonal", []string{"KeyW", "KeyD"}, 0, 1, 1},
		{"turned_head", []string{"KeyW"}, 0.7, 0, 1},
		{"turned_head_diagonal", []string{"KeyS", "KeyA"}, -2.1, -1, -1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newRigFixture(t, true)
			f.attachInputs(t, nil, nil)
			f.setHeadYaw(tc.headYaw)
			for _, k := range tc.keys {
				f.d.KeyDown(k)
			}

			f.sys.Update(f.w, 1.0/60)

			fwd := mgl64.Vec3{-math.Sin(tc.headYaw), 0, -math.Cos(tc.headYaw)}
			right := mgl64.Vec3{math.Cos(tc.headYaw), 0, -math.Sin(tc.headYaw)}
			want := fwd.Mul(tc.y).Add(right.Mul(tc.x)).Normalize().Mul(component.DefaultWalkSpeed)

			got := f.body.LinearVelocity()
			if math.Abs(math.Hypot(got[0], got[2])-component.DefaultWalkSpeed) > epsilon {
				t.Fatalf("speed = %v, want %v", math.Hypot(got[0], got[2]), component.DefaultWalkSpeed)
			}
			if math.Abs(got[0]-want[0]) > epsilon || math.Abs(got[2]-want[2]) > epsilon {
				t.Fatalf("velocity = %v, want %v", got, want)
			}
			if n := f.m.MoveDir.Len(); math.Abs(n-1) > epsilon {
				t.Fatalf("move direction length = %v, want 1", n)
			}
		})
	}
}

func TestMovementKeyWFollowsHeadForward(t *testing.T) {
	f := newRigFixture(t, true)
	f.attachInputs(t, nil, nil)

	// rig yawed, head yawed and pitched down: only the horizontal heading counts
	rt, _ := ecs.Get(f.w, f.rig, component.TransformComponent.Kind())
	rt.Rotation = common.YawRotation(0.4)
	ht, _ := ecs.Get(f.w, f.head, component.TransformComponent.Kind())
	ht.Rotation = common.YawRotation(0.3).Mul(mgl64.QuatRotate(-0.6, common.LocalRight))
	f.body.SetLinearVelocity(mgl64.Vec3{0, -3, 0})
	f.d.KeyDown("KeyW")

	f.sys.Update(f.w, 1.0/60)

	want := mgl64.Vec3{-math.Sin(0.7), 0, -math.Cos(0.7)}.Mul(6)
	got := f.body.LinearVelocity()
	if math.Abs(got[0]-want[0]) > epsilon || math.Abs(got[2]-want[2]) > epsilon {
		t.Fatalf("velocity = %v, want %v", got, want)
	}
	if got[1] != -3 {
		t.Fatalf("vertical velocity = %v, want -3", got[1])
	}
}

func TestMovementGamepadAxes(t *testing.T) {
	f := newRigFixture(t, true)
	f.attachInputs(t, &xrinput.Gamepad{Axes: []float64{0, 0, 0.3, -0.3}}, xrinput.KeyboardOnly{})
	f.m.WalkSpeed = 2

	f.sys.Update(f.w, 1.0/60)

	// analog deflection only picks the direction; speed is always WalkSpeed
	want := mgl64.Vec3{1, 0, -1}.Normalize().Mul(2)
	got := f.body.LinearVelocity()
	if math.Abs(got[0]-want[0]) > epsilon || math.Abs(got[2]-want[2]) > epsilon {
		t.Fatalf("velocity = %v, want %v", got, want)
	}
	if f.m.LastInput != (xrinput.Axes{X: 0.3, Y: 0.3}) {
		t.Fatalf("last input = %+v", f.m.LastInput)
	}
}

func TestMovementRotation(t *testing.T) {
	tilt := mgl64.QuatRotate(0.2, mgl64.Vec3{1, 0, 0}).Mul(common.YawRotation(1.1))

	tests := []struct {
		name    string
		keys    []string
		right   xrinput.Source
		speed   float64
		dt      float64
		wantYaw float64
		rotates bool
	}{
		{"arrow_right", []string{"ArrowRight"}, nil, 3, 0.1, -0.3, true},
		{"arrow_left", []string{"ArrowLeft"}, nil, 3, 0.1, 0.3, true},
		{"stick_half", nil, &xrinput.Gamepad{Axes: []float64{0, 0, 0.5, 0}}, 2, 0.05, -0.05, true},
		{"stick_in_deadzone", nil, &xrinput.Gamepad{Axes: []float64{0, 0, 0.05, 0}}, 3, 0.1, 0, false},
		{"stick_negative_deadzone", nil, &xrinput.Gamepad{Axes: []float64{0, 0, -0.04, 0}}, 3, 0.1, 0, false},
		{"idle", nil, nil, 3, 0.1, 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newRigFixture(t, true)
			f.attachInputs(t, nil, tc.right)
			f.m.RotationSpeed = tc.speed
			rt, _ := ecs.Get(f.w, f.rig, component.TransformComponent.Kind())
			rt.Rotation = tilt
			for _, k := range tc.keys {
				f.d.KeyDown(k)
			}

			f.sys.Update(f.w, tc.dt)

			got := f.rigRotation()
			if !tc.rotates {
				if got != tilt {
					t.Fatalf("rotation changed inside deadzone: %v", got)
				}
				return
			}
			want := mgl64.QuatRotate(tc.wantYaw, mgl64.Vec3{0, 1, 0}).Mul(tilt)
			if !quatClose(got, want) {
				t.Fatalf("rotation = %v, want %v", got, want)
			}
		})
	}
}

func TestMovementRotationWithoutBody(t *testing.T) {
	f := newRigFixture(t, false)
	f.attachInputs(t, nil, nil)
	f.d.KeyDown("ArrowRight")

	f.sys.Update(f.w, 0.1)

	want := common.YawRotation(-0.3)
	if !quatClose(f.rigRotation(), want) {
		t.Fatalf("rotation = %v, want %v", f.rigRotation(), want)
	}
}

func TestMovementWithoutRigSkipsRotation(t *testing.T) {
	f := newRigFixture(t, true)
	f.attachInputs(t, nil, nil)
	f.m.Rig = 0
	f.d.KeyDown("ArrowRight")
	f.d.KeyDown("KeyW")

	f.sys.Update(f.w, 0.1)

	if f.rigRotation() != mgl64.QuatIdent() {
		t.Fatalf("rig rotated without a rig reference")
	}
	if v := f.body.LinearVelocity(); math.Abs(math.Hypot(v[0], v[2])-6) > epsilon {
		t.Fatalf("movement should still apply, got %v", v)
	}
}

func TestMovementDegenerateHeading(t *testing.T) {
	f := newRigFixture(t, true)
	f.attachInputs(t, nil, nil)
	ht, _ := ecs.Get(f.w, f.head, component.TransformComponent.Kind())
	// looking straight down leaves no horizontal forward
	ht.Rotation = mgl64.QuatRotate(-math.Pi/2, common.LocalRight)
	f.body.SetLinearVelocity(mgl64.Vec3{2, 0, 2})
	f.d.KeyDown("KeyW")

	f.sys.Update(f.w, 1.0/60)

	got := f.body.LinearVelocity()
	for i, v := range got {
		if math.IsNaN(v) {
			t.Fatalf("velocity[%d] is NaN", i)
		}
	}
	if math.Abs(got[0]) > 1e-6 || math.Abs(got[2]) > 1e-6 {
		t.Fatalf("velocity = %v, want stopped", got)
	}
}

func TestMovementBlur(t *testing.T) {
	f := newRigFixture(t, true)
	f.attachInputs(t, nil, nil)
	f.d.KeyDown("KeyW")
	f.d.KeyDown("ArrowLeft")
	f.sys.Update(f.w, 1.0/60)
	f.body.SetLinearVelocity(mgl64.Vec3{4, -1, 3})

	f.d.Blur()

	if f.m.Keys.Len() != 0 {
		t.Fatalf("held keys after blur: %v", f.m.Keys.Codes())
	}
	got := f.body.LinearVelocity()
	if got[0] != 0 || got[2] != 0 {
		t.Fatalf("horizontal velocity after blur = %v", got)
	}
	if got[1] != -1 {
		t.Fatalf("vertical velocity after blur = %v, want -1", got[1])
	}
}

func TestMovementBlurWithoutBody(t *testing.T) {
	f := newRigFixture(t, false)
	f.d.KeyDown("KeyW")
	f.d.Blur()
	if f.m.Keys.Len() != 0 {
		t.Fatalf("held keys after blur: %v", f.m.Keys.Codes())
	}
}

func TestMovementStop(t *testing.T) {
	f := newRigFixture(t, true)
	f.attachInputs(t, nil, nil)

	f.sys.Stop(f.w, f.rig)
	f.sys.Stop(f.w, f.rig)
	if f.d.Len() != 0 {
		t.Fatalf("listeners after stop = %d", f.d.Len())
	}

	f.d.KeyDown("KeyW")
	f.sys.Update(f.w, 1.0/60)
	if f.m.Keys.Pressed("KeyW") {
		t.Fatalf("stopped movement still receives keys")
	}
	if v := f.body.LinearVelocity(); v[0] != 0 || v[2] != 0 {
		t.Fatalf("stopped movement moved: %v", v)
	}
}

func TestApplyTuning(t *testing.T) {
	f := newRigFixture(t, true)

	ApplyTuning(f.w, 4, 0)
	if f.m.WalkSpeed != 4 || f.m.RotationSpeed != component.DefaultRotationSpeed {
		t.Fatalf("tuning = (%v, %v)", f.m.WalkSpeed, f.m.RotationSpeed)
	}
	ApplyTuning(f.w, -1, 1.5)
	if f.m.WalkSpeed != 4 || f.m.RotationSpeed != 1.5 {
		t.Fatalf("tuning = (%v, %v)", f.m.WalkSpeed, f.m.RotationSpeed)
	}
}
