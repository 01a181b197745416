package reconcile

import (
	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/vdom"
)

var emptyText = vdom.Text("")

// idiff reconciles a single host node against v and returns the node that
// now represents v. It may be node itself or a replacement.
func (r *Reconciler) idiff(node *dom.Node, v *vdom.VNode, ctx vdom.Context, mountAll bool, sc scope) *dom.Node {
	var ref vdom.Ref
	if v != nil && v.Attrs != nil {
		ref = refOf(v.Attrs["ref"])
	}

	for v != nil && v.Kind == vdom.KindFunc {
		v = r.callFunc(v, ctx)
	}
	if v == nil {
		v = emptyText
	}
	v = r.normalize(v)

	if v.Kind == vdom.KindText {
		return r.diffText(node, v.Text)
	}
	if v.Kind == vdom.KindComponent {
		return r.buildComponentFromVNode(node, v, ctx, mountAll, sc)
	}

	// foreignObject is itself an SVG element; only its children leave SVG.
	inSVG := sc.svg
	switch v.Tag {
	case "svg":
		inSVG, sc.svg = true, true
	case "foreignObject":
		sc.svg = false
	}

	out := node
	if node == nil {
		out = r.createNode(v.Tag, inSVG)
	} else if !r.isNamedNode(node, v.Tag) {
		out = r.createNode(v.Tag, inSVG)
		for c := node.FirstChild(); c != nil; c = node.FirstChild() {
			out.AppendChild(c)
		}
		if p := node.ParentNode(); p != nil {
			p.ReplaceChild(out, node)
		}
		r.recollectNodeTree(node, false)
	}

	m := r.ensureMeta(out)
	if m.props == nil {
		m.props = make(map[string]any)
		for _, a := range out.Attributes() {
			m.props[a.Name] = a.Value
		}
	}
	m.cached = true

	r.diffAttributes(out, v.Attrs, m, inSVG)

	fc := out.FirstChild()
	children := v.Children
	if !sc.hydrating && len(children) == 1 && children[0] != nil && children[0].Kind == vdom.KindText &&
		fc.IsText() && fc.NextSibling() == nil {
		if fc.NodeValue() != children[0].Text {
			fc.SetNodeValue(children[0].Text)
		}
	} else if len(children) > 0 || fc != nil {
		r.innerDiffNode(out, children, ctx, mountAll, sc)
	}

	if ref != nil {
		m.props["ref"] = ref
		ref(out)
	}
	return out
}

func (r *Reconciler) diffText(node *dom.Node, text string) *dom.Node {
	if node.IsText() {
		if node.NodeValue() != text {
			node.SetNodeValue(text)
		}
	} else {
		out := r.doc.CreateTextNode(text)
		if node != nil {
			if p := node.ParentNode(); p != nil {
				p.ReplaceChild(out, node)
			}
			r.recollectNodeTree(node, false)
		}
		node = out
	}
	r.ensureMeta(node).cached = true
	return node
}

// normalize turns a component node whose type the reconciler cannot
// instantiate into an element named after the type.
func (r *Reconciler) normalize(v *vdom.VNode) *vdom.VNode {
	if v.Kind != vdom.KindComponent {
		return v
	}
	if _, ok := v.Type.(*Class); ok {
		return v
	}
	name := "component"
	if v.Type != nil {
		name = v.Type.ComponentName()
	}
	return &vdom.VNode{Kind: vdom.KindElement, Tag: name, Attrs: v.Attrs, Children: v.Children, Key: v.Key}
}

func (r *Reconciler) callFunc(v *vdom.VNode, ctx vdom.Context) *vdom.VNode {
	if v.Func == nil {
		return nil
	}
	return v.Func(v.ComponentProps(nil), ctx)
}

// innerDiffNode reconciles the children of node against vchildren. Existing
// children are matched by key first and then, in order, by type.
func (r *Reconciler) innerDiffNode(node *dom.Node, vchildren []*vdom.VNode, ctx vdom.Context, mountAll bool, sc scope) {
	original := node.ChildNodes()
	length := len(original)
	vlen := len(vchildren)

	var (
		keyed      map[string]*dom.Node
		keyOrder   []string
		keyedLen   int
		children   []*dom.Node
		dupes      []*dom.Node
		min        int
		childCount int
	)

	for _, child := range original {
		key := ""
		if vlen > 0 {
			key = r.nodeKey(child)
		}
		switch {
		case key != "":
			if keyed == nil {
				keyed = make(map[string]*dom.Node)
			}
			if prev, ok := keyed[key]; ok {
				dupes = append(dupes, prev)
			} else {
				keyOrder = append(keyOrder, key)
				keyedLen++
			}
			keyed[key] = child
		case sc.hydrating || r.hasCache(child):
			children = append(children, child)
			childCount++
		}
	}

	for i, vchild := range vchildren {
		if vchild == nil {
			vchild = emptyText
		}
		var child *dom.Node

		if key := vchild.Key; key != "" {
			if keyedLen > 0 {
				if c := keyed[key]; c != nil {
					child = c
					keyed[key] = nil
					keyedLen--
				}
			}
		} else if min < childCount {
			for j := min; j < childCount; j++ {
				c := children[j]
				if c != nil && r.isSameNodeType(c, vchild) {
					child = c
					children[j] = nil
					if j == childCount-1 {
						childCount--
					}
					if j == min {
						min++
					}
					break
				}
			}
		}

		child = r.idiff(child, vchild, ctx, mountAll, sc)

		if child == nil || child == node {
			continue
		}
		if i >= length {
			node.AppendChild(child)
		} else if child != node.ChildAt(i) {
			if child == node.ChildAt(i+1) {
				node.ChildAt(i).Remove()
			}
			node.InsertBefore(child, node.ChildAt(i))
		}
	}

	if keyedLen > 0 {
		for _, key := range keyOrder {
			if c := keyed[key]; c != nil {
				r.recollectNodeTree(c, false)
			}
		}
	}
	for _, c := range dupes {
		r.recollectNodeTree(c, false)
	}

	for min <= childCount {
		if childCount < len(children) {
			if c := children[childCount]; c != nil {
				r.recollectNodeTree(c, false)
			}
		}
		childCount--
	}
}

// recollectNodeTree releases node and its subtree. Components are
// unmounted; elements are pooled unless unmountOnly is set, in which case
// only lifecycle and refs are run and the nodes stay in place.
func (r *Reconciler) recollectNodeTree(node *dom.Node, unmountOnly bool) {
	if c := r.componentOf(node); c != nil {
		r.unmountComponent(c, !unmountOnly)
		return
	}
	if m := r.metaOf(node); m != nil && m.props != nil {
		if ref := refOf(m.props["ref"]); ref != nil {
			ref(nil)
		}
	}
	if !unmountOnly {
		r.collectNode(node)
	}
	r.recollectChildren(node, unmountOnly)
}

func (r *Reconciler) recollectChildren(node *dom.Node, unmountOnly bool) {
	if unmountOnly {
		kids := node.ChildNodes()
		for i := len(kids) - 1; i >= 0; i-- {
			r.recollectNodeTree(kids[i], true)
		}
		return
	}
	for c := node.LastChild(); c != nil; c = node.LastChild() {
		r.recollectNodeTree(c, false)
	}
}
