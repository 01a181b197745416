package reconcile

import (
	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/vdom"
)

// createNode returns a recycled element for tag, or a new one.
func (r *Reconciler) createNode(tag string, svg bool) *dom.Node {
	key := r.poolKey(tag, svg)
	var n *dom.Node
	if list := r.nodePool[key]; len(list) > 0 {
		n = list[len(list)-1]
		r.nodePool[key] = list[:len(list)-1]
	} else if svg {
		n = r.doc.CreateElementNS(dom.SVGNamespace, tag)
	} else {
		n = r.doc.CreateElement(tag)
	}
	r.ensureMeta(n).name = tag
	return n
}

// collectNode detaches n and offers it for reuse. Elements are pooled by
// tag; text nodes are dropped.
func (r *Reconciler) collectNode(n *dom.Node) {
	n.Remove()
	if !n.IsElement() {
		delete(r.meta, n)
		r.doc.Forget(n)
		return
	}
	m := r.ensureMeta(n)
	m.component = nil
	m.class = nil
	key := r.poolKey(n.NodeName(), n.Namespace() == dom.SVGNamespace)
	r.nodePool[key] = append(r.nodePool[key], n)
}

func (r *Reconciler) poolKey(tag string, svg bool) string {
	if svg {
		return "svg:" + r.toLower(tag)
	}
	return r.toLower(tag)
}

// collectComponent retains an unmounted instance so a later instance of
// the same class can start from its host node.
func (r *Reconciler) collectComponent(c *Base) {
	r.components[c.class] = append(r.components[c.class], c)
}

// createComponent instantiates class, adopting the host node of a pooled
// instance of the same class when one is available.
func (r *Reconciler) createComponent(class *Class, props vdom.Props, ctx vdom.Context) *Base {
	inst := class.New(props, ctx)
	b := inst.base()
	b.r = r
	b.self = inst
	b.class = class
	b.props = props
	b.context = ctx
	b.dirty = true
	if b.state == nil {
		b.state = State{}
	}

	if list := r.components[class]; len(list) > 0 {
		pooled := list[len(list)-1]
		r.components[class] = list[:len(list)-1]
		b.nextBase = pooled.nextBase
		pooled.nextBase = nil
	}
	return b
}

// PooledNodes returns the number of recycled elements held for tag.
func (r *Reconciler) PooledNodes(tag string) int {
	return len(r.nodePool[r.poolKey(tag, false)])
}

// PooledComponents returns the number of unmounted instances held for class.
func (r *Reconciler) PooledComponents(class *Class) int {
	return len(r.components[class])
}
