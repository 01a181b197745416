package dom

// Event is dispatched through the host tree.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	Bubbles       bool

	// Value and Checked carry form state reported by the client.
	Value   string
	Checked bool

	// Detail carries event-specific data (key codes, coordinates).
	Detail map[string]any

	stopped          bool
	defaultPrevented bool
}

// NewEvent creates a bubbling event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// StopPropagation prevents the event from reaching further nodes.
func (e *Event) StopPropagation() { e.stopped = true }

// PreventDefault marks the default action as cancelled.
func (e *Event) PreventDefault() { e.defaultPrevented = true }

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// EventListener receives dispatched events. Listener identity is the
// interface value, so implementations should be pointer types.
type EventListener interface {
	HandleEvent(e *Event)
}

type listenerEntry struct {
	typ      string
	listener EventListener
	capture  bool
}

// AddEventListener registers l for events of type typ. Registering the same
// (type, listener, capture) triple twice has no effect.
func (n *Node) AddEventListener(typ string, l EventListener, capture bool) {
	if l == nil || n.hasListener(typ, l, capture) {
		return
	}
	n.listeners = append(n.listeners, listenerEntry{typ: typ, listener: l, capture: capture})
	n.doc.record(Mutation{Kind: MutListen, Node: n.id, Name: typ, Flag: capture})
}

// RemoveEventListener unregisters a listener added with the same arguments.
func (n *Node) RemoveEventListener(typ string, l EventListener, capture bool) {
	for i, e := range n.listeners {
		if e.typ == typ && e.listener == l && e.capture == capture {
			n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
			n.doc.record(Mutation{Kind: MutUnlisten, Node: n.id, Name: typ, Flag: capture})
			return
		}
	}
}

// ListenerCount returns the number of listeners registered for typ.
func (n *Node) ListenerCount(typ string) int {
	c := 0
	for _, e := range n.listeners {
		if e.typ == typ {
			c++
		}
	}
	return c
}

func (n *Node) hasListener(typ string, l EventListener, capture bool) bool {
	for _, e := range n.listeners {
		if e.typ == typ && e.listener == l && e.capture == capture {
			return true
		}
	}
	return false
}

// Dispatch delivers e to n and its ancestors: capture listeners from the
// root down, then every listener on n, then bubbling listeners up to the
// root when e.Bubbles is set.
func (n *Node) Dispatch(e *Event) {
	e.Target = n
	var path []*Node
	for p := n.parent; p != nil; p = p.parent {
		path = append(path, p)
	}

	for i := len(path) - 1; i >= 0 && !e.stopped; i-- {
		path[i].invoke(e, true, false)
	}
	if !e.stopped {
		n.invoke(e, false, true)
	}
	if e.Bubbles {
		for _, p := range path {
			if e.stopped {
				break
			}
			p.invoke(e, false, false)
		}
	}
	e.CurrentTarget = nil
}

func (n *Node) invoke(e *Event, capture, atTarget bool) {
	// Listeners may be removed while handling; iterate a snapshot.
	entries := append([]listenerEntry(nil), n.listeners...)
	e.CurrentTarget = n
	for _, l := range entries {
		if l.typ != e.Type || (!atTarget && l.capture != capture) {
			continue
		}
		l.listener.HandleEvent(e)
		if e.stopped {
			return
		}
	}
}
