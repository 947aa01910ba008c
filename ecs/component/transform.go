package component

import "github.com/go-gl/mathgl/mgl64"

// Transform is an entity's pose relative to its Parent, or to the world when
// it has none.
type Transform struct {
	Position mgl64.Vec3
	Rotation mgl64.Quat
}

// NewTransform returns an identity transform at position.
func NewTransform(position mgl64.Vec3) *Transform {
	return &Transform{Position: position, Rotation: mgl64.QuatIdent()}
}

var TransformComponent = NewComponent[Transform]()
