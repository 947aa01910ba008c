package entity

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrrig/common"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
	"github.com/milk9111/vrrig/ecs/system"
	"github.com/milk9111/vrrig/input"
	"github.com/milk9111/vrrig/prefabs"
	"github.com/milk9111/vrrig/xrinput"
)

// Rig holds the entities that make up a player rig.
type Rig struct {
	Root  ecs.Entity
	Head  ecs.Entity
	Left  ecs.Entity
	Right ecs.Entity
}

// Entities lists the rig's entities, root first.
func (r Rig) Entities() []ecs.Entity {
	return []ecs.Entity{r.Root, r.Head, r.Left, r.Right}
}

// BuildRig creates a rig from spec and starts its movement against d. The
// controllers are created without ControllerInput; movement stays gated until
// something attaches it.
func BuildRig(w *ecs.World, spec *prefabs.RigSpec, d *input.Dispatcher, mv *system.MovementSystem) (Rig, error) {
	if w == nil {
		return Rig{}, fmt.Errorf("build rig: world is nil")
	}
	if spec == nil {
		return Rig{}, fmt.Errorf("build rig: spec is nil")
	}
	if d == nil {
		return Rig{}, fmt.Errorf("build rig: dispatcher is nil")
	}
	if mv == nil {
		mv = system.NewMovementSystem()
	}
	spec.ApplyDefaults()

	var rig Rig
	rig.Root = ecs.CreateEntity(w)
	rig.Head = ecs.CreateEntity(w)
	rig.Left = ecs.CreateEntity(w)
	rig.Right = ecs.CreateEntity(w)

	if err := buildRoot(w, rig, spec); err != nil {
		destroyAll(w, rig)
		return Rig{}, fmt.Errorf("build rig: root: %w", err)
	}
	if err := buildHead(w, rig, spec); err != nil {
		destroyAll(w, rig)
		return Rig{}, fmt.Errorf("build rig: head: %w", err)
	}
	offsetX, offsetY := spec.Controllers.HandOffsetX, spec.Controllers.HandOffsetY
	if err := buildController(w, rig.Left, rig.Root, xrinput.HandLeft, mgl64.Vec3{-offsetX, offsetY, 0}); err != nil {
		destroyAll(w, rig)
		return Rig{}, fmt.Errorf("build rig: left controller: %w", err)
	}
	if err := buildController(w, rig.Right, rig.Root, xrinput.HandRight, mgl64.Vec3{offsetX, offsetY, 0}); err != nil {
		destroyAll(w, rig)
		return Rig{}, fmt.Errorf("build rig: right controller: %w", err)
	}

	if !mv.Start(w, rig.Root, d) {
		destroyAll(w, rig)
		return Rig{}, fmt.Errorf("build rig: start movement failed")
	}
	return rig, nil
}

func buildRoot(w *ecs.World, rig Rig, spec *prefabs.RigSpec) error {
	t := component.NewTransform(mgl64.Vec3{spec.Transform.X, spec.Transform.Y, spec.Transform.Z})
	if spec.Transform.Yaw != 0 {
		t.Rotation = common.YawRotation(mgl64.DegToRad(spec.Transform.Yaw))
	}
	if err := ecs.Add(w, rig.Root, component.TransformComponent.Kind(), t); err != nil {
		return err
	}
	if err := ecs.Add(w, rig.Root, component.RigTagComponent.Kind(), &component.RigTag{}); err != nil {
		return err
	}

	body := component.NewPhysicsBody(spec.Body.Radius, spec.Body.Mass)
	body.Friction = spec.Body.Friction
	if err := ecs.Add(w, rig.Root, component.PhysicsBodyComponent.Kind(), body); err != nil {
		return err
	}

	m := component.NewMovement()
	m.Rig = uint64(rig.Root)
	m.Head = uint64(rig.Head)
	m.LeftController = uint64(rig.Left)
	m.RightController = uint64(rig.Right)
	m.WalkSpeed = spec.WalkSpeed
	m.RotationSpeed = spec.RotationSpeed
	m.Bindings = spec.Bindings
	return ecs.Add(w, rig.Root, component.MovementComponent.Kind(), m)
}

func buildHead(w *ecs.World, rig Rig, spec *prefabs.RigSpec) error {
	t := component.NewTransform(mgl64.Vec3{0, spec.Head.Height, 0})
	if err := ecs.Add(w, rig.Head, component.TransformComponent.Kind(), t); err != nil {
		return err
	}
	if err := ecs.Add(w, rig.Head, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(rig.Root)}); err != nil {
		return err
	}
	return ecs.Add(w, rig.Head, component.HeadTagComponent.Kind(), &component.HeadTag{})
}

func buildController(w *ecs.World, e, root ecs.Entity, hand xrinput.Hand, offset mgl64.Vec3) error {
	if err := ecs.Add(w, e, component.TransformComponent.Kind(), component.NewTransform(offset)); err != nil {
		return err
	}
	if err := ecs.Add(w, e, component.ParentComponent.Kind(), &component.Parent{Entity: uint64(root)}); err != nil {
		return err
	}
	return ecs.Add(w, e, component.XRControllerComponent.Kind(), &component.XRController{Hand: hand})
}

// DestroyRig stops movement and removes every rig entity.
func DestroyRig(w *ecs.World, rig Rig, mv *system.MovementSystem) {
	if w == nil {
		return
	}
	if mv != nil {
		mv.Stop(w, rig.Root)
	}
	destroyAll(w, rig)
}

func destroyAll(w *ecs.World, rig Rig) {
	for _, e := range rig.Entities() {
		if e.Valid() {
			ecs.DestroyEntity(w, e)
		}
	}
}

// FindRig returns the first rig in w.
func FindRig(w *ecs.World) (Rig, bool) {
	if w == nil {
		return Rig{}, false
	}
	root, ok := w.First(component.MovementComponent.Kind())
	if !ok {
		return Rig{}, false
	}
	m, ok := ecs.Get(w, root, component.MovementComponent.Kind())
	if !ok {
		return Rig{}, false
	}
	return Rig{
		Root:  root,
		Head:  ecs.Entity(m.Head),
		Left:  ecs.Entity(m.LeftController),
		Right: ecs.Entity(m.RightController),
	}, true
}
