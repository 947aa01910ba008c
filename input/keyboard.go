// Package input tracks keyboard state delivered by the host as discrete
// key and focus events.
package input

import "sort"

// Listener receives host keyboard and focus events.
type Listener interface {
	KeyDown(code string)
	KeyUp(code string)
	Blur()
}

// Keyboard is the set of currently held key codes. Codes follow the DOM
// KeyboardEvent.code naming, e.g. "KeyW" or "ArrowLeft".
type Keyboard struct {
	pressed map[string]struct{}
	onBlur  func()
}

// NewKeyboard returns an empty key set. onBlur, when non-nil, runs after the
// set is cleared by a focus loss.
func NewKeyboard(onBlur func()) *Keyboard {
	return &Keyboard{pressed: make(map[string]struct{}), onBlur: onBlur}
}

func (k *Keyboard) KeyDown(code string) {
	if k == nil || code == "" {
		return
	}
	if k.pressed == nil {
		k.pressed = make(map[string]struct{})
	}
	k.pressed[code] = struct{}{}
}

func (k *Keyboard) KeyUp(code string) {
	if k == nil {
		return
	}
	delete(k.pressed, code)
}

// Blur drops every held key. Key-up events are not delivered while the
// window is unfocused, so anything left in the set would stick.
func (k *Keyboard) Blur() {
	if k == nil {
		return
	}
	clear(k.pressed)
	if k.onBlur != nil {
		k.onBlur()
	}
}

// Pressed reports whether code is held.
func (k *Keyboard) Pressed(code string) bool {
	if k == nil {
		return false
	}
	_, ok := k.pressed[code]
	return ok
}

// Axis maps a key pair to -1, +1 or 0. neg wins when both are held.
func (k *Keyboard) Axis(neg, pos string) float64 {
	switch {
	case k.Pressed(neg):
		return -1
	case k.Pressed(pos):
		return 1
	default:
		return 0
	}
}

func (k *Keyboard) Len() int {
	if k == nil {
		return 0
	}
	return len(k.pressed)
}

// Codes returns the held codes in sorted order.
func (k *Keyboard) Codes() []string {
	if k == nil {
		return nil
	}
	out := make([]string, 0, len(k.pressed))
	for code := range k.pressed {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
