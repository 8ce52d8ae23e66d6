package dom

// Event carries a dispatched occurrence through the tree. Handlers receive
// the same Event value at every step of propagation; CurrentTarget tracks
// the node whose listener is running.
type Event struct {
	Type          string
	Target        *Node
	CurrentTarget *Node
	Detail        map[string]any
	Bubbles       bool
	Cancelable    bool

	defaultPrevented   bool
	propagationStopped bool
}

// NewEvent returns a bubbling, non-cancelable event of the given type.
func NewEvent(typ string) *Event {
	return &Event{Type: typ, Bubbles: true}
}

// PreventDefault marks a cancelable event as canceled. Non-cancelable
// events ignore the call.
func (e *Event) PreventDefault() {
	if e.Cancelable {
		e.defaultPrevented = true
	}
}

// DefaultPrevented reports whether PreventDefault was honored.
func (e *Event) DefaultPrevented() bool { return e.defaultPrevented }

// StopPropagation halts the event after the current node's listeners run.
func (e *Event) StopPropagation() { e.propagationStopped = true }

// Handler is a listener callback.
type Handler func(*Event)

type listener struct {
	fn Handler
}

// On registers a listener for the event type and returns a function that
// removes it. Listeners fire in registration order.
func (n *Node) On(typ string, fn Handler) (off func()) {
	if n.listeners == nil {
		n.listeners = make(map[string][]*listener)
	}
	l := &listener{fn: fn}
	n.listeners[typ] = append(n.listeners[typ], l)
	return func() {
		ls := n.listeners[typ]
		for i, cur := range ls {
			if cur == l {
				n.listeners[typ] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

// Dispatch runs the event against the node and, for bubbling events, each
// ancestor in turn. It returns false when a listener canceled the event via
// PreventDefault.
func (n *Node) Dispatch(e *Event) bool {
	e.Target = n

	// Snapshot the propagation path up front so listener-driven tree edits
	// cannot reroute an in-flight event.
	path := []*Node{n}
	if e.Bubbles {
		for cur := n.parent; cur != nil; cur = cur.parent {
			path = append(path, cur)
		}
	}

	for _, node := range path {
		e.CurrentTarget = node
		ls := node.listeners[e.Type]
		snapshot := make([]*listener, len(ls))
		copy(snapshot, ls)
		for _, l := range snapshot {
			l.fn(e)
		}
		if e.propagationStopped {
			break
		}
	}
	e.CurrentTarget = nil
	return !e.defaultPrevented
}

// FireInput dispatches a bubbling input event from the node, as a user
// keystroke in a control would.
func (n *Node) FireInput() { n.Dispatch(NewEvent("input")) }

// FireChange dispatches a bubbling change event from the node, as a control
// committing its value would.
func (n *Node) FireChange() { n.Dispatch(NewEvent("change")) }

// FireClick dispatches a bubbling click event from the node.
func (n *Node) FireClick() { n.Dispatch(NewEvent("click")) }
