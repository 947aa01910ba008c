package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrrig/common"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
)

// maxParentDepth bounds parent chain walks so a cycle cannot hang a frame.
const maxParentDepth = 32

// WorldPose resolves e's world position and rotation through its Parent
// chain.
func WorldPose(w *ecs.World, e ecs.Entity) (mgl64.Vec3, mgl64.Quat, bool) {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return mgl64.Vec3{}, mgl64.QuatIdent(), false
	}
	pos, rot := t.Position, t.Rotation

	cur := e
	for depth := 0; depth < maxParentDepth; depth++ {
		p, ok := ecs.Get(w, cur, component.ParentComponent.Kind())
		if !ok {
			break
		}
		parent := ecs.Entity(p.Entity)
		pt, ok := ecs.Get(w, parent, component.TransformComponent.Kind())
		if !ok {
			break
		}
		pos = pt.Position.Add(pt.Rotation.Rotate(pos))
		rot = pt.Rotation.Mul(rot)
		cur = parent
	}
	return pos, rot, true
}

// SetWorldRotation writes rot as e's world rotation, converting to the
// parent's space when e has one.
func SetWorldRotation(w *ecs.World, e ecs.Entity, rot mgl64.Quat) bool {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return false
	}
	if p, ok := ecs.Get(w, e, component.ParentComponent.Kind()); ok {
		if _, parentRot, ok := WorldPose(w, ecs.Entity(p.Entity)); ok {
			rot = parentRot.Inverse().Mul(rot)
		}
	}
	t.Rotation = rot.Normalize()
	return true
}

// Forward returns e's world forward vector (-Z in object space).
func Forward(w *ecs.World, e ecs.Entity) (mgl64.Vec3, bool) {
	_, rot, ok := WorldPose(w, e)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return rot.Rotate(common.LocalForward), true
}

// Right returns e's world right vector (+X in object space).
func Right(w *ecs.World, e ecs.Entity) (mgl64.Vec3, bool) {
	_, rot, ok := WorldPose(w, e)
	if !ok {
		return mgl64.Vec3{}, false
	}
	return rot.Rotate(common.LocalRight), true
}
