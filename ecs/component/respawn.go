package component

// RespawnRequest is a marker component indicating a rig should be
// teleported back to its spawn point. RespawnSystem runs after physics and
// removes the marker.
type RespawnRequest struct{}

var RespawnRequestComponent = NewComponent[RespawnRequest]()
