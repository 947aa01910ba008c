package entity

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
	"github.com/milk9111/vrrig/ecs/system"
	"github.com/milk9111/vrrig/input"
	"github.com/milk9111/vrrig/prefabs"
	"github.com/milk9111/vrrig/xrinput"
)

func testSpec() *prefabs.RigSpec {
	spec := &prefabs.RigSpec{
		WalkSpeed:     4,
		RotationSpeed: 2,
		Transform:     prefabs.TransformSpec{X: 1, Y: 0, Z: -3, Yaw: 90},
		Head:          prefabs.HeadSpec{Height: 1.7},
		Controllers:   prefabs.ControllersSpec{HandOffsetX: 0.2, HandOffsetY: 1.0},
	}
	spec.ApplyDefaults()
	return spec
}

func TestBuildRig(t *testing.T) {
	w := ecs.NewWorld()
	d := input.NewDispatcher()
	mv := system.NewMovementSystem()

	rig, err := BuildRig(w, testSpec(), d, mv)
	if err != nil {
		t.Fatalf("BuildRig: %v", err)
	}

	for _, e := range rig.Entities() {
		if !ecs.IsAlive(w, e) {
			t.Fatalf("expected %v to be alive", e)
		}
	}
	if !ecs.Has(w, rig.Root, component.RigTagComponent.Kind()) {
		t.Fatal("expected rig tag on root")
	}
	if !ecs.Has(w, rig.Head, component.HeadTagComponent.Kind()) {
		t.Fatal("expected head tag on head")
	}

	m, ok := ecs.Get(w, rig.Root, component.MovementComponent.Kind())
	if !ok {
		t.Fatal("expected movement on root")
	}
	if m.WalkSpeed != 4 || m.RotationSpeed != 2 {
		t.Fatalf("unexpected speeds walk=%v rot=%v", m.WalkSpeed, m.RotationSpeed)
	}
	if ecs.Entity(m.Head) != rig.Head || ecs.Entity(m.LeftController) != rig.Left || ecs.Entity(m.RightController) != rig.Right {
		t.Fatalf("movement references do not match rig %+v", rig)
	}
	if m.SpawnPoint != (mgl64.Vec3{1, 0, -3}) {
		t.Fatalf("expected spawn point (1,0,-3), got %v", m.SpawnPoint)
	}
	if m.Keys == nil || d.Len() != 1 {
		t.Fatalf("expected one subscribed key set, got %d", d.Len())
	}

	body, ok := ecs.Get(w, rig.Root, component.PhysicsBodyComponent.Kind())
	if !ok || !body.Active {
		t.Fatal("expected an active physics body on root")
	}

	headPos, _, ok := system.WorldPose(w, rig.Head)
	if !ok || math.Abs(headPos[1]-1.7) > 1e-9 {
		t.Fatalf("expected head at height 1.7, got %v", headPos)
	}

	// yaw 90 degrees turns -Z toward -X
	fwd, ok := system.Forward(w, rig.Head)
	if !ok || math.Abs(fwd[0]+1) > 1e-9 || math.Abs(fwd[2]) > 1e-9 {
		t.Fatalf("expected head forward (-1,0,0), got %v", fwd)
	}

	for _, tc := range []struct {
		name string
		e    ecs.Entity
		hand xrinput.Hand
	}{
		{"left", rig.Left, xrinput.HandLeft},
		{"right", rig.Right, xrinput.HandRight},
	} {
		t.Run(tc.name, func(t *testing.T) {
			c, ok := ecs.Get(w, tc.e, component.XRControllerComponent.Kind())
			if !ok || c.Hand != tc.hand {
				t.Fatalf("expected %v controller", tc.hand)
			}
			if ecs.Has(w, tc.e, component.ControllerInputComponent.Kind()) {
				t.Fatal("expected controller input to be attached later")
			}
		})
	}
}

func TestBuildRigErrors(t *testing.T) {
	w := ecs.NewWorld()
	d := input.NewDispatcher()

	if _, err := BuildRig(nil, testSpec(), d, nil); err == nil {
		t.Fatal("expected error for nil world")
	}
	if _, err := BuildRig(w, nil, d, nil); err == nil {
		t.Fatal("expected error for nil spec")
	}
	if _, err := BuildRig(w, testSpec(), nil, nil); err == nil {
		t.Fatal("expected error for nil dispatcher")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("expected no entities after failed builds, got %d", n)
	}
}

func TestDestroyRig(t *testing.T) {
	w := ecs.NewWorld()
	d := input.NewDispatcher()
	mv := system.NewMovementSystem()

	rig, err := BuildRig(w, testSpec(), d, mv)
	if err != nil {
		t.Fatalf("BuildRig: %v", err)
	}
	DestroyRig(w, rig, mv)

	if d.Len() != 0 {
		t.Fatalf("expected listener removed, got %d", d.Len())
	}
	for _, e := range rig.Entities() {
		if ecs.IsAlive(w, e) {
			t.Fatalf("expected %v destroyed", e)
		}
	}
	if _, ok := FindRig(w); ok {
		t.Fatal("expected no rig after destroy")
	}
}

func TestFindRig(t *testing.T) {
	w := ecs.NewWorld()
	rig, err := BuildRig(w, testSpec(), input.NewDispatcher(), nil)
	if err != nil {
		t.Fatalf("BuildRig: %v", err)
	}
	found, ok := FindRig(w)
	if !ok || found != rig {
		t.Fatalf("FindRig = %+v, %v; want %+v", found, ok, rig)
	}
}

func TestRigWalksOnceControllersAttach(t *testing.T) {
	w := ecs.NewWorld()
	d := input.NewDispatcher()
	mv := system.NewMovementSystem()
	spec := testSpec()
	spec.Transform.Yaw = 0

	rig, err := BuildRig(w, spec, d, mv)
	if err != nil {
		t.Fatalf("BuildRig: %v", err)
	}
	w.AddSystem(system.NewControllerAttachSystem(0, nil))
	w.AddSystem(mv)

	d.KeyDown("KeyW")
	w.Update(1.0 / 60.0)

	body, _ := ecs.Get(w, rig.Root, component.PhysicsBodyComponent.Kind())
	v := body.LinearVelocity()
	if math.Abs(v[2]+4) > 1e-9 || math.Abs(v[0]) > 1e-9 {
		t.Fatalf("expected velocity (0,_,-4), got %v", v)
	}
}
