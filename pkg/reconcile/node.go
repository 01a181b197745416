package reconcile

import (
	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/vdom"
)

// nodeMeta is what the reconciler remembers about a host node it wrote.
type nodeMeta struct {
	// cached marks a node as written by this reconciler. Nodes without it
	// are treated as foreign markup during hydration.
	cached bool

	// props is the last applied attribute set of an element.
	props map[string]any

	component *Base
	class     *Class
	name      string

	handlers map[string]func(*dom.Event)
	listener *dispatcher
}

func (r *Reconciler) metaOf(n *dom.Node) *nodeMeta {
	return r.meta[n]
}

func (r *Reconciler) ensureMeta(n *dom.Node) *nodeMeta {
	m := r.meta[n]
	if m == nil {
		m = &nodeMeta{}
		r.meta[n] = m
	}
	return m
}

func (r *Reconciler) hasCache(n *dom.Node) bool {
	m := r.meta[n]
	return m != nil && m.cached
}

func (r *Reconciler) componentOf(n *dom.Node) *Base {
	if m := r.meta[n]; m != nil {
		return m.component
	}
	return nil
}

// nodeKey returns the key a host child is matched by: its component's key,
// or the key attribute it was last rendered with.
func (r *Reconciler) nodeKey(n *dom.Node) string {
	m := r.meta[n]
	if m == nil {
		return ""
	}
	if m.component != nil {
		return m.component.key
	}
	if m.props != nil {
		return vdom.KeyString(m.props["key"])
	}
	return ""
}

// isSameNodeType reports whether n can be diffed against v without being
// replaced.
func (r *Reconciler) isSameNodeType(n *dom.Node, v *vdom.VNode) bool {
	switch v.Kind {
	case vdom.KindText:
		return n.IsText()
	case vdom.KindElement:
		m := r.meta[n]
		if m != nil && m.class != nil {
			return false
		}
		return r.isNamedNode(n, v.Tag)
	case vdom.KindComponent:
		m := r.meta[n]
		if m != nil && m.class != nil {
			return vdom.ComponentType(m.class) == v.Type
		}
		return true
	}
	return true
}

func (r *Reconciler) isNamedNode(n *dom.Node, tag string) bool {
	if !n.IsElement() {
		return false
	}
	if m := r.meta[n]; m != nil && m.name != "" && m.name == tag {
		return true
	}
	return r.toLower(n.NodeName()) == r.toLower(tag)
}

// refOf extracts a ref callback from an attribute or prop value.
func refOf(v any) vdom.Ref {
	switch f := v.(type) {
	case vdom.Ref:
		return f
	case func(any):
		return f
	}
	return nil
}
