package input

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Poller turns ebiten's polled key and focus state into Dispatcher events.
// Call Poll once at the top of every ebiten Update.
type Poller struct {
	dispatcher *Dispatcher
	keys       []ebiten.Key
	focused    bool
}

func NewPoller(d *Dispatcher) *Poller {
	return &Poller{dispatcher: d, focused: true}
}

func (p *Poller) Poll() {
	if p == nil || p.dispatcher == nil {
		return
	}

	focused := ebiten.IsFocused()
	if p.focused && !focused {
		p.dispatcher.Blur()
	}
	p.focused = focused
	if !focused {
		return
	}

	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.dispatcher.KeyUp(Code(k))
	}
	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		p.dispatcher.KeyDown(Code(k))
	}
}

// Code maps an ebiten key to its DOM KeyboardEvent.code name. ebiten's key
// names already follow that scheme except for letters, which drop the "Key"
// prefix.
func Code(k ebiten.Key) string {
	name := k.String()
	if len(name) == 1 && name[0] >= 'A' && name[0] <= 'Z' {
		return "Key" + name
	}
	return name
}
