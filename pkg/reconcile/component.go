package reconcile

import (
	"maps"
	"strings"

	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/vdom"
)

// State is a component's local state.
type State map[string]any

// Component is a stateful component. Implementations embed Base.
type Component interface {
	Render(props vdom.Props, state State, ctx vdom.Context) *vdom.VNode
	base() *Base
}

// Lifecycle hooks. A component implements the ones it needs.
type (
	WillMounter interface{ ComponentWillMount() }
	DidMounter  interface{ ComponentDidMount() }

	PropsReceiver interface {
		ComponentWillReceiveProps(next vdom.Props, ctx vdom.Context)
	}
	ShouldUpdater interface {
		ShouldComponentUpdate(next vdom.Props, state State, ctx vdom.Context) bool
	}
	WillUpdater interface {
		ComponentWillUpdate(next vdom.Props, state State, ctx vdom.Context)
	}
	DidUpdater interface {
		ComponentDidUpdate(prev vdom.Props, prevState State, prevCtx vdom.Context)
	}

	WillUnmounter interface{ ComponentWillUnmount() }
	DidUnmounter  interface{ ComponentDidUnmount() }

	// ChildContexter contributes entries to the context seen by descendants.
	ChildContexter interface{ ChildContext() vdom.Context }
)

// Class describes a component type. Its pointer identity is the component's
// constructor identity for matching and pooling.
type Class struct {
	Name         string
	New          func(props vdom.Props, ctx vdom.Context) Component
	DefaultProps vdom.Props
}

// NewClass returns a Class with the given name and constructor.
func NewClass(name string, fn func(props vdom.Props, ctx vdom.Context) Component) *Class {
	return &Class{Name: name, New: fn}
}

// ComponentName implements vdom.ComponentType.
func (c *Class) ComponentName() string { return c.Name }

// Base carries the reconciler-owned bookkeeping of a component instance.
type Base struct {
	r     *Reconciler
	self  Component
	class *Class

	props   vdom.Props
	state   State
	context vdom.Context

	prevProps   vdom.Props
	prevState   State
	prevContext vdom.Context

	dirty    bool
	disabled bool

	host     *dom.Node
	nextBase *dom.Node
	parent   *Base
	child    *Base

	key       string
	ref       vdom.Ref
	callbacks []func()
	linked    map[string]func(*dom.Event)
}

func (b *Base) base() *Base { return b }

// ClassOf returns the class c was created from.
func ClassOf(c Component) *Class { return c.base().class }

// Props returns the current props.
func (b *Base) Props() vdom.Props { return b.props }

// State returns the current state.
func (b *Base) State() State { return b.state }

// Context returns the current context.
func (b *Base) Context() vdom.Context { return b.context }

// Host returns the host node the component currently renders to.
func (b *Base) Host() *dom.Node { return b.host }

// Key returns the key the component was rendered with.
func (b *Base) Key() string { return b.key }

// Class returns the component's class.
func (b *Base) Class() *Class { return b.class }

// Mounted reports whether the component has a host node and has not been unmounted.
func (b *Base) Mounted() bool { return b.host != nil && !b.disabled }

// InitState sets the initial state. Call it from the class constructor.
func (b *Base) InitState(s State) { b.state = s }

// SetState merges patch into the state and schedules a re-render. Callbacks
// run after the next render of this component.
func (b *Base) SetState(patch State, callbacks ...func()) {
	b.stashState()
	maps.Copy(b.state, patch)
	b.schedule(callbacks)
}

// UpdateState is SetState with a patch computed from the current state and props.
func (b *Base) UpdateState(fn func(state State, props vdom.Props) State, callbacks ...func()) {
	b.stashState()
	maps.Copy(b.state, fn(b.state, b.props))
	b.schedule(callbacks)
}

// ForceUpdate re-renders synchronously, bypassing ShouldComponentUpdate.
func (b *Base) ForceUpdate(callbacks ...func()) {
	b.callbacks = append(b.callbacks, callbacks...)
	if b.r != nil {
		b.r.renderComponent(b, renderForce, false, false, scope{})
	}
}

func (b *Base) stashState() {
	if b.state == nil {
		b.state = State{}
	}
	if b.prevState == nil {
		b.prevState = maps.Clone(b.state)
	}
}

func (b *Base) schedule(callbacks []func()) {
	b.callbacks = append(b.callbacks, callbacks...)
	if b.r != nil {
		b.r.enqueue(b)
	}
}

// LinkState returns a handler that writes an event value into the state at
// key, a dot-separated path. With an empty eventPath the value is the
// target's checked property for checkboxes and radios and its value
// otherwise; a non-empty eventPath is looked up in the event's Detail.
// Handlers are cached per key and path.
func (b *Base) LinkState(key, eventPath string) func(*dom.Event) {
	id := key + "\x00" + eventPath
	if h, ok := b.linked[id]; ok {
		return h
	}
	h := func(e *dom.Event) {
		var v any
		if eventPath != "" {
			v = lookupPath(e.Detail, eventPath)
		} else {
			v = eventValue(e)
		}
		b.SetState(nestState(b.state, key, v))
	}
	if b.linked == nil {
		b.linked = make(map[string]func(*dom.Event))
	}
	b.linked[id] = h
	return h
}

func eventValue(e *dom.Event) any {
	t := e.Target
	if t == nil || !t.IsElement() {
		if e.Detail != nil {
			if _, ok := e.Detail["checked"]; ok {
				return e.Checked
			}
		}
		return e.Value
	}
	typ, _ := t.GetAttribute("type")
	typ = strings.ToLower(typ)
	if strings.HasPrefix(typ, "che") || strings.HasPrefix(typ, "rad") {
		if v, ok := t.Property("checked").(bool); ok {
			return v
		}
		return e.Checked
	}
	if v := t.Property("value"); v != nil {
		return v
	}
	return e.Value
}

func lookupPath(m map[string]any, path string) any {
	var cur any = m
	for _, part := range strings.Split(path, ".") {
		next, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = next[part]
	}
	return cur
}

// nestState builds the patch for a dotted key. Intermediate maps are taken
// from the current state so sibling entries survive the merge.
func nestState(state State, key string, v any) State {
	parts := strings.Split(key, ".")
	patch := State{}
	if len(parts) == 1 {
		patch[key] = v
		return patch
	}
	obj := map[string]any(patch)
	for i, part := range parts[:len(parts)-1] {
		next, ok := obj[part].(map[string]any)
		if !ok {
			if i == 0 {
				next, _ = state[part].(map[string]any)
			}
			if next == nil {
				next = map[string]any{}
			}
			obj[part] = next
		}
		obj = next
	}
	obj[parts[len(parts)-1]] = v
	return patch
}
