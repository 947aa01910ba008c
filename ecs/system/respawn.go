package system

import (
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
)

// RespawnSystem returns rigs to the spawn point recorded by
// MovementSystem.Start. It should run after the PhysicsSystem so the
// teleport is not undone by the same frame's step.
type RespawnSystem struct {
	physics *PhysicsSystem
	// KillHeight triggers a respawn for rigs whose Y drops below it. Zero
	// disables the check.
	KillHeight float64
}

func NewRespawnSystem(physics *PhysicsSystem, killHeight float64) *RespawnSystem {
	return &RespawnSystem{physics: physics, KillHeight: killHeight}
}

func (s *RespawnSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}

	ecs.ForEach(w, component.MovementComponent.Kind(), func(e ecs.Entity, m *component.Movement) {
		requested := ecs.Has(w, e, component.RespawnRequestComponent.Kind())
		if !requested && !s.fellOut(w, e) {
			return
		}
		_ = ecs.Remove(w, e, component.RespawnRequestComponent.Kind())

		spawn := m.SpawnPoint
		s.physics.Teleport(w, e, spawn[0], spawn[1], spawn[2])
		w.Events().Push(ecs.Event{Type: ecs.EventRespawned, Entity: e, Data: spawn})
	})

	// requests on entities without Movement would otherwise linger
	for _, e := range w.Query(component.RespawnRequestComponent.Kind()) {
		_ = ecs.Remove(w, e, component.RespawnRequestComponent.Kind())
	}
}

func (s *RespawnSystem) fellOut(w *ecs.World, e ecs.Entity) bool {
	if s.KillHeight == 0 {
		return false
	}
	pos, _, ok := WorldPose(w, e)
	return ok && pos[1] < s.KillHeight
}
