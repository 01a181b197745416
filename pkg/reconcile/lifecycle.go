package reconcile

import (
	"maps"
	"reflect"

	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/vdom"
)

// setComponentProps hands new props to c and renders or schedules it
// according to mode.
func (r *Reconciler) setComponentProps(c *Base, props vdom.Props, mode renderMode, ctx vdom.Context, mountAll bool, sc scope) {
	if c.disabled {
		return
	}
	c.disabled = true

	c.ref = refOf(props["ref"])
	c.key = vdom.KeyString(props["key"])
	delete(props, "ref")
	delete(props, "key")

	if c.host == nil || mountAll {
		if h, ok := c.self.(WillMounter); ok {
			h.ComponentWillMount()
		}
	} else if h, ok := c.self.(PropsReceiver); ok {
		h.ComponentWillReceiveProps(props, ctx)
	}

	if ctx != nil && !sameMap(ctx, c.context) {
		if c.prevContext == nil {
			c.prevContext = c.context
		}
		c.context = ctx
	}
	if c.prevProps == nil {
		c.prevProps = c.props
	}
	c.props = props

	c.disabled = false

	if mode != renderNone {
		if mode == renderSync || !r.opts.AsyncPropUpdates || c.host == nil {
			r.renderComponent(c, renderSync, mountAll, false, sc)
		} else {
			r.enqueue(c)
		}
	}

	if c.ref != nil {
		c.ref(c.self)
	}
}

// renderComponent renders c and reconciles its output against its host
// node, or against its child component when the output is a component.
func (r *Reconciler) renderComponent(c *Base, mode renderMode, mountAll, isChild bool, sc scope) {
	if c.disabled {
		return
	}

	props, state, ctx := c.props, c.state, c.context
	prevProps := orProps(c.prevProps, props)
	prevState := orState(c.prevState, state)
	prevContext := orContext(c.prevContext, ctx)
	isUpdate := c.host != nil
	nextBase := c.nextBase
	initialBase := c.host
	if initialBase == nil {
		initialBase = nextBase
	}
	initialChild := c.child
	skip := false

	if isUpdate {
		c.props, c.state, c.context = prevProps, prevState, prevContext
		if h, ok := c.self.(ShouldUpdater); ok && mode != renderForce && !h.ShouldComponentUpdate(props, state, ctx) {
			skip = true
		} else if h, ok := c.self.(WillUpdater); ok {
			h.ComponentWillUpdate(props, state, ctx)
		}
		c.props, c.state, c.context = props, state, ctx
	}

	c.prevProps, c.prevState, c.prevContext, c.nextBase = nil, nil, nil, nil
	c.dirty = false

	if !skip {
		rendered := c.self.Render(props, state, ctx)

		if h, ok := c.self.(ChildContexter); ok {
			merged := maps.Clone(ctx)
			if merged == nil {
				merged = vdom.Context{}
			}
			maps.Copy(merged, h.ChildContext())
			ctx = merged
		}

		for rendered != nil && rendered.Kind == vdom.KindFunc {
			rendered = r.callFunc(rendered, ctx)
		}
		if rendered != nil {
			rendered = r.normalize(rendered)
		}

		var (
			inst      *Base
			toUnmount *Base
			base      *dom.Node
		)

		if rendered != nil && rendered.Kind == vdom.KindComponent {
			class := rendered.Type.(*Class)
			childProps := rendered.ComponentProps(class.DefaultProps)
			inst = initialChild

			if inst != nil && inst.class == class && vdom.KeyString(childProps["key"]) == inst.key {
				r.setComponentProps(inst, childProps, renderSync, ctx, false, sc)
			} else {
				toUnmount = inst
				inst = r.createComponent(class, childProps, ctx)
				if inst.nextBase == nil {
					inst.nextBase = nextBase
				}
				inst.parent = c
				c.child = inst
				r.setComponentProps(inst, childProps, renderNone, ctx, false, sc)
				r.renderComponent(inst, renderSync, mountAll, true, sc)
			}
			base = inst.host
		} else {
			cbase := initialBase
			toUnmount = initialChild
			if toUnmount != nil {
				cbase = nil
				c.child = nil
			}
			if initialBase != nil || mode == renderSync {
				if cbase != nil {
					r.ensureMeta(cbase).component = nil
				}
				var parent *dom.Node
				if initialBase != nil {
					parent = initialBase.ParentNode()
				}
				base = r.diff(cbase, rendered, ctx, mountAll || !isUpdate, parent, true, sc)
			}
		}

		if initialBase != nil && base != initialBase && inst != initialChild {
			if p := initialBase.ParentNode(); p != nil && base != p {
				p.ReplaceChild(base, initialBase)
				if toUnmount == nil {
					r.ensureMeta(initialBase).component = nil
					r.recollectNodeTree(initialBase, false)
				}
			}
		}

		if toUnmount != nil {
			r.unmountComponent(toUnmount, base != initialBase)
		}

		c.host = base
		if base != nil && !isChild {
			owner := c
			for t := c.parent; t != nil; t = t.parent {
				owner = t
				t.host = base
			}
			m := r.ensureMeta(base)
			m.component = owner
			m.class = owner.class
		}
	}

	if !isUpdate || mountAll {
		r.mounts = append(r.mounts, c)
	} else if !skip {
		if h, ok := c.self.(DidUpdater); ok {
			h.ComponentDidUpdate(prevProps, prevState, prevContext)
		}
		if r.opts.AfterUpdate != nil {
			r.opts.AfterUpdate(c.self)
		}
	}

	for len(c.callbacks) > 0 {
		fn := c.callbacks[len(c.callbacks)-1]
		c.callbacks = c.callbacks[:len(c.callbacks)-1]
		fn()
	}

	if r.depth == 0 && !isChild {
		r.flushMounts()
	}
}

// buildComponentFromVNode reconciles a component node against node, reusing
// the component that owns node when it has the same class.
func (r *Reconciler) buildComponentFromVNode(node *dom.Node, v *vdom.VNode, ctx vdom.Context, mountAll bool, sc scope) *dom.Node {
	class := v.Type.(*Class)
	c := r.componentOf(node)
	oldDom := node
	isDirectOwner := false
	if c != nil {
		if m := r.metaOf(node); m != nil {
			isDirectOwner = m.class == class
		}
	}
	isOwner := isDirectOwner
	props := v.ComponentProps(class.DefaultProps)

	for c != nil && !isOwner {
		c = c.parent
		if c != nil {
			isOwner = c.class == class
		}
	}

	if c != nil && isOwner && (!mountAll || c.child != nil) {
		r.setComponentProps(c, props, renderAsync, ctx, mountAll, sc)
		return c.host
	}

	if c != nil && !isDirectOwner {
		r.unmountComponent(c, true)
		node, oldDom = nil, nil
	}

	c = r.createComponent(class, props, ctx)
	if node != nil && c.nextBase == nil {
		c.nextBase = node
		oldDom = nil
	}
	r.setComponentProps(c, props, renderSync, ctx, mountAll, sc)
	node = c.host

	if oldDom != nil && node != oldDom {
		r.ensureMeta(oldDom).component = nil
		r.recollectNodeTree(oldDom, false)
	}
	return node
}

// unmountComponent tears c down. With remove set its host node is detached
// and c is pooled; otherwise only lifecycle runs.
func (r *Reconciler) unmountComponent(c *Base, remove bool) {
	if r.opts.BeforeUnmount != nil {
		r.opts.BeforeUnmount(c.self)
	}

	base := c.host
	c.disabled = true

	if h, ok := c.self.(WillUnmounter); ok {
		h.ComponentWillUnmount()
	}

	c.host = nil

	if inner := c.child; inner != nil {
		r.unmountComponent(inner, remove)
	} else if base != nil {
		if m := r.metaOf(base); m != nil {
			if ref := refOf(m.props["ref"]); ref != nil {
				ref(nil)
			}
			if remove {
				r.detachHandlers(base, m)
			}
		}
		c.nextBase = base
		if remove {
			base.Remove()
			r.collectComponent(c)
		}
		r.recollectChildren(base, !remove)
	}

	if c.ref != nil {
		c.ref(nil)
	}
	if h, ok := c.self.(DidUnmounter); ok {
		h.ComponentDidUnmount()
	}
}

func sameMap(a, b map[string]any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
}

func orProps(p, fallback vdom.Props) vdom.Props {
	if p == nil {
		return fallback
	}
	return p
}

func orState(s, fallback State) State {
	if s == nil {
		return fallback
	}
	return s
}

func orContext(c, fallback vdom.Context) vdom.Context {
	if c == nil {
		return fallback
	}
	return c
}
