package system

import (
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
	"github.com/milk9111/vrrig/xrinput"
)

// SourceFactory returns the input source for a newly tracked controller.
type SourceFactory func(hand xrinput.Hand) xrinput.Source

// ControllerAttachSystem stands in for asynchronous controller tracking: it
// attaches ControllerInput to every XRController after DelayFrames frames.
type ControllerAttachSystem struct {
	DelayFrames int
	factory     SourceFactory
	frames      int
}

func NewControllerAttachSystem(delayFrames int, factory SourceFactory) *ControllerAttachSystem {
	return &ControllerAttachSystem{DelayFrames: delayFrames, factory: factory}
}

func (s *ControllerAttachSystem) Update(w *ecs.World, _ float64) {
	if w == nil {
		return
	}
	if s.frames < s.DelayFrames {
		s.frames++
		return
	}

	ecs.ForEach(w, component.XRControllerComponent.Kind(), func(e ecs.Entity, c *component.XRController) {
		if ecs.Has(w, e, component.ControllerInputComponent.Kind()) {
			return
		}
		var src xrinput.Source
		if s.factory != nil {
			src = s.factory(c.Hand)
		}
		if err := ecs.Add(w, e, component.ControllerInputComponent.Kind(), &component.ControllerInput{Source: src}); err != nil {
			panic("controller attach system: add input: " + err.Error())
		}
	})
}
