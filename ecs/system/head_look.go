package system

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrrig/common"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
)

const maxHeadPitch = 89 * math.Pi / 180

// LookDelta reports this frame's head yaw and pitch change in radians.
type LookDelta func() (yaw, pitch float64)

// HeadLookSystem simulates HMD orientation for heads without tracking by
// accumulating yaw and pitch into the head's local rotation.
type HeadLookSystem struct {
	delta LookDelta
	yaw   map[ecs.Entity]float64
	pitch map[ecs.Entity]float64
}

func NewHeadLookSystem(delta LookDelta) *HeadLookSystem {
	return &HeadLookSystem{
		delta: delta,
		yaw:   make(map[ecs.Entity]float64),
		pitch: make(map[ecs.Entity]float64),
	}
}

func (s *HeadLookSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	s.prune(w)
	if s.delta == nil {
		return
	}
	dyaw, dpitch := s.delta()
	if dyaw == 0 && dpitch == 0 {
		return
	}

	for _, e := range w.Query(component.HeadTagComponent.Kind(), component.TransformComponent.Kind()) {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok {
			continue
		}
		yaw := s.yaw[e] + dyaw
		pitch := mgl64.Clamp(s.pitch[e]+dpitch, -maxHeadPitch, maxHeadPitch)
		s.yaw[e], s.pitch[e] = yaw, pitch

		t.Rotation = common.YawRotation(yaw).Mul(mgl64.QuatRotate(pitch, common.LocalRight))
	}
}

// prune forgets heads that were destroyed or lost their head tag.
func (s *HeadLookSystem) prune(w *ecs.World) {
	for e := range s.yaw {
		if !ecs.IsAlive(w, e) || !ecs.Has(w, e, component.HeadTagComponent.Kind()) {
			delete(s.yaw, e)
			delete(s.pitch, e)
		}
	}
}
