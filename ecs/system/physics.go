package system

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/vrrig/ecs"
	"github.com/milk9111/vrrig/ecs/component"
)

const (
	collisionTypeBody cp.CollisionType = iota + 1
	collisionTypeWall
)

const wallThickness = 1.0

// PhysicsConfig configures the simulated ground.
type PhysicsConfig struct {
	// Gravity is the vertical acceleration, negative pulls down.
	Gravity float64
	// FloorHeight is the world Y bodies rest on.
	FloorHeight float64
	// ArenaHalfExtent bounds the floor to |x|, |z| <= half. Zero means an
	// unbounded floor.
	ArenaHalfExtent float64
	// Walls encloses the arena with static boxes and keeps bodies inside it.
	Walls bool
}

// PhysicsSystem simulates the horizontal plane with Chipmunk2D and
// integrates the vertical axis itself.
type PhysicsSystem struct {
	space *cp.Space
	cfg   PhysicsConfig
	walls []*cp.Shape

	entities map[ecs.Entity]*bodyInfo
}

type bodyInfo struct {
	body   *cp.Body
	shape  *cp.Shape
	radius float64
}

func NewPhysicsSystem(cfg PhysicsConfig) *PhysicsSystem {
	ps := &PhysicsSystem{
		cfg:      cfg,
		entities: make(map[ecs.Entity]*bodyInfo),
	}
	ps.space = newSpace()
	ps.buildWalls()
	return ps
}

func newSpace() *cp.Space {
	space := cp.NewSpace()
	space.Iterations = 20
	// the cp plane is horizontal; gravity is applied on world Y separately
	space.SetGravity(cp.Vector{})
	return space
}

func (ps *PhysicsSystem) Space() *cp.Space {
	if ps == nil {
		return nil
	}
	return ps.space
}

func (ps *PhysicsSystem) Config() PhysicsConfig {
	if ps == nil {
		return PhysicsConfig{}
	}
	return ps.cfg
}

func (ps *PhysicsSystem) Update(w *ecs.World, dt float64) {
	if ps == nil || w == nil {
		return
	}
	if ps.space == nil {
		ps.space = newSpace()
		ps.walls = nil
		ps.entities = make(map[ecs.Entity]*bodyInfo)
		ps.buildWalls()
	}

	ps.cleanupEntities(w)
	ps.syncEntities(w)

	if dt > 0 {
		ps.space.Step(dt)
	}
	ps.clampToArena()

	ps.integrateVertical(w, dt)
	ps.syncTransforms(w)
}

func (ps *PhysicsSystem) buildWalls() {
	if !ps.cfg.Walls || ps.cfg.ArenaHalfExtent <= 0 || ps.space == nil {
		return
	}
	h, t := ps.cfg.ArenaHalfExtent, wallThickness
	// inner faces sit on the arena edge
	boxes := []cp.BB{
		{L: -h - t, B: -h - t, R: -h, T: h + t},
		{L: h, B: -h - t, R: h + t, T: h + t},
		{L: -h, B: -h - t, R: h, T: -h},
		{L: -h, B: h, R: h, T: h + t},
	}
	for _, bb := range boxes {
		wall := cp.NewBox2(ps.space.StaticBody, bb, 0)
		wall.SetFriction(0)
		wall.SetElasticity(0)
		wall.SetCollisionType(collisionTypeWall)
		ps.space.AddShape(wall)
		ps.walls = append(ps.walls, wall)
	}
}

// cleanupEntities drops bodies whose entity died, lost its PhysicsBody, or
// was deactivated.
func (ps *PhysicsSystem) cleanupEntities(w *ecs.World) {
	for e, info := range ps.entities {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if ok && bodyComp.Active && bodyComp.Body == info.body {
			continue
		}
		ps.removeInfo(info)
		delete(ps.entities, e)
	}
}

func (ps *PhysicsSystem) removeInfo(info *bodyInfo) {
	if info == nil || ps.space == nil {
		return
	}
	if info.shape != nil {
		ps.space.RemoveShape(info.shape)
	}
	if info.body != nil {
		ps.space.RemoveBody(info.body)
	}
}

func (ps *PhysicsSystem) syncEntities(w *ecs.World) {
	entities := w.Query(component.PhysicsBodyComponent.Kind(), component.TransformComponent.Kind())
	for _, e := range entities {
		if _, ok := ps.entities[e]; ok {
			continue
		}
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok || !bodyComp.Active {
			continue
		}

		if bodyComp.Body == nil || bodyComp.Shape == nil {
			fresh := component.NewPhysicsBody(bodyComp.Radius, bodyComp.Mass)
			bodyComp.Body = fresh.Body
			bodyComp.Shape = fresh.Shape
		}
		bodyComp.Shape.SetFriction(bodyComp.Friction)
		bodyComp.Shape.SetElasticity(bodyComp.Elasticity)
		bodyComp.Shape.SetCollisionType(collisionTypeBody)

		if pos, _, ok := WorldPose(w, e); ok {
			bodyComp.Body.SetPosition(cp.Vector{X: pos[0], Y: pos[2]})
		}

		ps.space.AddBody(bodyComp.Body)
		ps.space.AddShape(bodyComp.Shape)
		ps.entities[e] = &bodyInfo{body: bodyComp.Body, shape: bodyComp.Shape, radius: bodyComp.Radius}
	}
}

// clampToArena keeps bodies inside the walls. Movement rewrites velocity
// every frame, which lets cp integrate a body into a wall faster than
// contacts push it back out.
func (ps *PhysicsSystem) clampToArena() {
	if !ps.cfg.Walls || ps.cfg.ArenaHalfExtent <= 0 {
		return
	}
	for _, info := range ps.entities {
		limit := ps.cfg.ArenaHalfExtent - info.radius
		if limit < 0 {
			limit = 0
		}
		p, v := info.body.Position(), info.body.Velocity()
		clamped := p
		clamped.X = mgl64.Clamp(p.X, -limit, limit)
		clamped.Y = mgl64.Clamp(p.Y, -limit, limit)
		if clamped == p {
			continue
		}
		// drop the velocity pushing into the wall
		if clamped.X != p.X && p.X*v.X > 0 {
			v.X = 0
		}
		if clamped.Y != p.Y && p.Y*v.Y > 0 {
			v.Y = 0
		}
		info.body.SetPosition(clamped)
		info.body.SetVelocityVector(v)
	}
}

func (ps *PhysicsSystem) integrateVertical(w *ecs.World, dt float64) {
	for e := range ps.entities {
		bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
		if !ok {
			continue
		}
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || ecs.Has(w, e, component.ParentComponent.Kind()) {
			continue
		}

		bodyComp.VelocityY += ps.cfg.Gravity * bodyComp.GravityScale * dt
		y := t.Position[1] + bodyComp.VelocityY*dt

		bodyComp.Grounded = false
		p := bodyComp.Body.Position()
		if ps.overFloor(p.X, p.Y) && t.Position[1] >= ps.cfg.FloorHeight && y <= ps.cfg.FloorHeight {
			y = ps.cfg.FloorHeight
			if bodyComp.VelocityY < 0 {
				bodyComp.VelocityY = 0
			}
			bodyComp.Grounded = true
		}
		t.Position[1] = y
	}
}

func (ps *PhysicsSystem) overFloor(x, z float64) bool {
	h := ps.cfg.ArenaHalfExtent
	if h <= 0 {
		return true
	}
	return x >= -h && x <= h && z >= -h && z <= h
}

// syncTransforms copies cp positions back onto root transforms.
func (ps *PhysicsSystem) syncTransforms(w *ecs.World) {
	for e, info := range ps.entities {
		t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
		if !ok || ecs.Has(w, e, component.ParentComponent.Kind()) {
			continue
		}
		p := info.body.Position()
		t.Position[0] = p.X
		t.Position[2] = p.Y
	}
}

// Teleport moves e's body and transform to (x, y, z) and clears its velocity.
func (ps *PhysicsSystem) Teleport(w *ecs.World, e ecs.Entity, x, y, z float64) {
	if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
		t.Position[0], t.Position[1], t.Position[2] = x, y, z
	}
	bodyComp, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind())
	if !ok || bodyComp.Body == nil {
		return
	}
	// cp reindexes dynamic shapes on the next Step
	bodyComp.Body.SetPosition(cp.Vector{X: x, Y: z})
	bodyComp.Body.SetVelocityVector(cp.Vector{})
	bodyComp.VelocityY = 0
	bodyComp.Grounded = false
}
