package component

// Parent links an entity's Transform to another entity's world pose. The
// entity is stored as its raw handle to keep this package free of ecs.
type Parent struct {
	Entity uint64
}

var ParentComponent = NewComponent[Parent]()
