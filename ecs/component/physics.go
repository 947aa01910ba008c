package component

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
)

// PhysicsBody stores Chipmunk2D runtime data for a body moving on the
// horizontal plane. World X maps to cp X and world Z maps to cp Y; the
// vertical channel is integrated outside the cp space.
type PhysicsBody struct {
	Body         *cp.Body
	Shape        *cp.Shape
	Radius       float64
	Mass         float64
	Friction     float64
	Elasticity   float64
	GravityScale float64
	VelocityY    float64
	Grounded     bool
	Active       bool
}

// NewPhysicsBody builds a spin-free circular body. It joins a space once
// Active is set and the physics system sees it.
func NewPhysicsBody(radius, mass float64) *PhysicsBody {
	if radius <= 0 {
		radius = 0.3
	}
	if mass <= 0 {
		mass = 1
	}
	body := cp.NewBody(mass, cp.INFINITY)
	shape := cp.NewCircle(body, radius, cp.Vector{})
	shape.SetFriction(0)
	shape.SetElasticity(0)
	return &PhysicsBody{
		Body:         body,
		Shape:        shape,
		Radius:       radius,
		Mass:         mass,
		GravityScale: 1,
	}
}

// LinearVelocity returns the body velocity in world space.
func (b *PhysicsBody) LinearVelocity() mgl64.Vec3 {
	if b == nil || b.Body == nil {
		return mgl64.Vec3{}
	}
	v := b.Body.Velocity()
	return mgl64.Vec3{v.X, b.VelocityY, v.Y}
}

// SetLinearVelocity overwrites the body velocity in world space.
func (b *PhysicsBody) SetLinearVelocity(v mgl64.Vec3) {
	if b == nil || b.Body == nil {
		return
	}
	b.Body.SetVelocityVector(cp.Vector{X: v[0], Y: v[2]})
	b.VelocityY = v[1]
}

// ZeroHorizontal clears the X and Z velocity components.
func (b *PhysicsBody) ZeroHorizontal() {
	if b == nil || b.Body == nil {
		return
	}
	b.Body.SetVelocityVector(cp.Vector{})
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
