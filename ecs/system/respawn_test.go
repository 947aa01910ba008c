package system

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
)

func TestRespawn(t *testing.T) {
	tests := []struct {
		name    string
		request bool
		y       float64
		want    bool
	}{
		{"idle", false, 0, false},
		{"requested", true, 0, true},
		{"fell_out", false, -25, true},
		{"above_kill_height", false, -19, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newRigFixture(t, true)
			ps := NewPhysicsSystem(PhysicsConfig{})
			rs := NewRespawnSystem(ps, -20)

			tr, _ := ecs.Get(f.w, f.rig, component.TransformComponent.Kind())
			tr.Position = mgl64.Vec3{9, tc.y, 9}
			f.body.SetLinearVelocity(mgl64.Vec3{1, -4, 1})
			if tc.request {
				mustAdd(t, f.w, f.rig, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})
			}

			rs.Update(f.w, 1.0/60)

			respawned := countEvents(f.w.Events().Drain(), ecs.EventRespawned) == 1
			if respawned != tc.want {
				t.Fatalf("respawned = %v, want %v", respawned, tc.want)
			}
			if ecs.Has(f.w, f.rig, component.RespawnRequestComponent.Kind()) {
				t.Fatalf("request not cleared")
			}
			if !tc.want {
				return
			}
			if tr.Position != f.m.SpawnPoint {
				t.Fatalf("position = %v, want spawn %v", tr.Position, f.m.SpawnPoint)
			}
			if v := f.body.LinearVelocity(); v != (mgl64.Vec3{}) {
				t.Fatalf("velocity = %v, want zero", v)
			}
		})
	}
}

func TestRespawnClearsStrayRequests(t *testing.T) {
	w := ecs.NewWorld()
	e := w.CreateEntity()
	mustAdd(t, w, e, component.RespawnRequestComponent.Kind(), &component.RespawnRequest{})

	NewRespawnSystem(nil, 0).Update(w, 0)

	if ecs.Has(w, e, component.RespawnRequestComponent.Kind()) {
		t.Fatalf("stray request not cleared")
	}
}
