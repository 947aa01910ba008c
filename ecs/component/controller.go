package component

import "github.com/milk9111/vrrig/xrinput"

// XRController marks a tracked controller entity.
type XRController struct {
	Hand xrinput.Hand
}

var XRControllerComponent = NewComponent[XRController]()

// ControllerInput is attached to a controller once its hardware is tracked.
// A nil Source behaves as keyboard-only.
type ControllerInput struct {
	Source xrinput.Source
}

// InputSource returns the attached source, or KeyboardOnly.
func (c *ControllerInput) InputSource() xrinput.Source {
	if c == nil || c.Source == nil {
		return xrinput.KeyboardOnly{}
	}
	return c.Source
}

var ControllerInputComponent = NewComponent[ControllerInput]()
