package input

type subscription struct {
	id       int
	listener Listener
}

// Dispatcher fans host events out to subscribed listeners in subscription
// order. It is driven from the frame loop and is not safe for concurrent use.
type Dispatcher struct {
	subs   []subscription
	nextID int
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{}
}

// Subscribe registers l and returns a function that removes it. The returned
// function may be called more than once.
func (d *Dispatcher) Subscribe(l Listener) func() {
	if d == nil || l == nil {
		return func() {}
	}
	d.nextID++
	id := d.nextID
	d.subs = append(d.subs, subscription{id: id, listener: l})
	return func() { d.unsubscribe(id) }
}

func (d *Dispatcher) unsubscribe(id int) {
	for i, s := range d.subs {
		if s.id == id {
			d.subs = append(d.subs[:i], d.subs[i+1:]...)
			return
		}
	}
}

// Len returns the number of live subscriptions.
func (d *Dispatcher) Len() int {
	if d == nil {
		return 0
	}
	return len(d.subs)
}

func (d *Dispatcher) KeyDown(code string) {
	for _, s := range d.snapshot() {
		s.listener.KeyDown(code)
	}
}

func (d *Dispatcher) KeyUp(code string) {
	for _, s := range d.snapshot() {
		s.listener.KeyUp(code)
	}
}

func (d *Dispatcher) Blur() {
	for _, s := range d.snapshot() {
		s.listener.Blur()
	}
}

// snapshot lets listeners unsubscribe while an event is being delivered.
func (d *Dispatcher) snapshot() []subscription {
	if d == nil || len(d.subs) == 0 {
		return nil
	}
	return append([]subscription(nil), d.subs...)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	OnKeyDown func(code string)
	OnKeyUp   func(code string)
	OnBlur    func()
}

func (f ListenerFuncs) KeyDown(code string) {
	if f.OnKeyDown != nil {
		f.OnKeyDown(code)
	}
}

func (f ListenerFuncs) KeyUp(code string) {
	if f.OnKeyUp != nil {
		f.OnKeyUp(code)
	}
}

func (f ListenerFuncs) Blur() {
	if f.OnBlur != nil {
		f.OnBlur()
	}
}
