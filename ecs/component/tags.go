package component

type RigTag struct{}

var RigTagComponent = NewComponent[RigTag]()

type HeadTag struct{}

var HeadTagComponent = NewComponent[HeadTag]()
