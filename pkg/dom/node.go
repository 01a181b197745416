package dom

import (
	"errors"
	"slices"
)

// NodeType is the host node type discriminator.
type NodeType uint8

const (
	ElementNode NodeType = 1
	TextNode    NodeType = 3
)

// Tree errors.
var (
	ErrNotChild      = errors.New("dom: node is not a child of this node")
	ErrHierarchy     = errors.New("dom: node cannot be inserted here")
	ErrNotElement    = errors.New("dom: operation requires an element")
	ErrWrongDocument = errors.New("dom: node belongs to another document")
)

// Attr is a single host attribute.
type Attr struct {
	Namespace string
	Name      string
	Value     string
}

// Node is an element or text node owned by a Document.
type Node struct {
	doc      *Document
	id       uint64
	typ      NodeType
	tag      string
	ns       string
	value    string
	parent   *Node
	children []*Node

	attrs     []Attr
	props     map[string]any
	style     *Style
	innerHTML string
	listeners []listenerEntry
}

// ID returns the node's stable identifier within its document.
func (n *Node) ID() uint64 { return n.id }

// Type returns the node type.
func (n *Node) Type() NodeType { return n.typ }

// IsElement reports whether n is an element.
func (n *Node) IsElement() bool { return n != nil && n.typ == ElementNode }

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n != nil && n.typ == TextNode }

// NodeName returns the tag name for elements and "#text" for text nodes.
func (n *Node) NodeName() string { return n.tag }

// Namespace returns the element namespace; empty for HTML.
func (n *Node) Namespace() string { return n.ns }

// Document returns the owning document.
func (n *Node) Document() *Document { return n.doc }

// NodeValue returns the text of a text node.
func (n *Node) NodeValue() string { return n.value }

// SetNodeValue replaces the text of a text node.
func (n *Node) SetNodeValue(v string) {
	if n.typ != TextNode {
		return
	}
	n.value = v
	n.doc.record(Mutation{Kind: MutSetText, Node: n.id, Value: v})
}

// ParentNode returns the parent, or nil when detached.
func (n *Node) ParentNode() *Node { return n.parent }

// ChildCount returns the number of children.
func (n *Node) ChildCount() int { return len(n.children) }

// ChildAt returns the child at index i, or nil when out of range.
// Indexes reflect the live tree.
func (n *Node) ChildAt(i int) *Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// ChildNodes returns a snapshot of the children.
func (n *Node) ChildNodes() []*Node {
	return slices.Clone(n.children)
}

// FirstChild returns the first child, or nil.
func (n *Node) FirstChild() *Node { return n.ChildAt(0) }

// LastChild returns the last child, or nil.
func (n *Node) LastChild() *Node { return n.ChildAt(len(n.children) - 1) }

// NextSibling returns the following sibling, or nil.
func (n *Node) NextSibling() *Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	return n.parent.ChildAt(i + 1)
}

// AppendChild appends child, moving it from its current parent if needed.
func (n *Node) AppendChild(child *Node) error {
	return n.InsertBefore(child, nil)
}

// InsertBefore inserts child before ref. A nil ref appends.
func (n *Node) InsertBefore(child, ref *Node) error {
	if child == nil {
		return ErrHierarchy
	}
	if n.typ != ElementNode {
		return ErrNotElement
	}
	if child.doc != n.doc {
		return ErrWrongDocument
	}
	if child == ref {
		return nil
	}
	if child == n || child.contains(n) {
		return ErrHierarchy
	}
	if ref != nil && ref.parent != n {
		return ErrNotChild
	}

	if child.parent != nil {
		child.parent.detach(child)
	}

	idx := len(n.children)
	var before uint64
	if ref != nil {
		idx = n.indexOf(ref)
		before = ref.id
	}
	n.children = slices.Insert(n.children, idx, child)
	child.parent = n
	n.innerHTML = ""
	n.doc.record(Mutation{Kind: MutInsert, Node: child.id, Parent: n.id, Before: before})
	return nil
}

// RemoveChild detaches child from n.
func (n *Node) RemoveChild(child *Node) error {
	if child == nil || child.parent != n {
		return ErrNotChild
	}
	n.detach(child)
	n.doc.record(Mutation{Kind: MutRemove, Node: child.id})
	return nil
}

// ReplaceChild puts next in old's position and detaches old.
func (n *Node) ReplaceChild(next, old *Node) error {
	if old == nil || old.parent != n {
		return ErrNotChild
	}
	if next == old {
		return nil
	}
	if err := n.InsertBefore(next, old); err != nil {
		return err
	}
	return n.RemoveChild(old)
}

// Remove detaches n from its parent, if any.
func (n *Node) Remove() {
	if n.parent != nil {
		_ = n.parent.RemoveChild(n)
	}
}

func (n *Node) indexOf(child *Node) int {
	return slices.Index(n.children, child)
}

func (n *Node) detach(child *Node) {
	if i := n.indexOf(child); i >= 0 {
		n.children = slices.Delete(n.children, i, i+1)
	}
	child.parent = nil
}

func (n *Node) contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}

// Attributes returns a snapshot of the element's attributes in insertion
// order. A non-empty style is reported as a trailing "style" attribute.
func (n *Node) Attributes() []Attr {
	attrs := slices.Clone(n.attrs)
	if n.style != nil && n.style.Len() > 0 {
		attrs = append(attrs, Attr{Name: "style", Value: n.style.CSSText()})
	}
	return attrs
}

// GetAttribute returns a non-namespaced attribute.
func (n *Node) GetAttribute(name string) (string, bool) {
	return n.GetAttributeNS("", name)
}

// GetAttributeNS returns a namespaced attribute.
func (n *Node) GetAttributeNS(namespace, name string) (string, bool) {
	if namespace == "" && name == "style" && n.style != nil && n.style.Len() > 0 {
		return n.style.CSSText(), true
	}
	for _, a := range n.attrs {
		if a.Namespace == namespace && a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// HasAttribute reports whether a non-namespaced attribute is present.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.GetAttribute(name)
	return ok
}

// SetAttribute sets a non-namespaced attribute. Setting "style" replaces the
// style declarations.
func (n *Node) SetAttribute(name, value string) {
	if name == "style" {
		n.Style().SetCSSText(value)
		return
	}
	n.SetAttributeNS("", name, value)
}

// SetAttributeNS sets a namespaced attribute.
func (n *Node) SetAttributeNS(namespace, name, value string) {
	if n.typ != ElementNode {
		return
	}
	found := false
	for i := range n.attrs {
		if n.attrs[i].Namespace == namespace && n.attrs[i].Name == name {
			n.attrs[i].Value = value
			found = true
			break
		}
	}
	if !found {
		n.attrs = append(n.attrs, Attr{Namespace: namespace, Name: name, Value: value})
	}
	n.doc.record(Mutation{Kind: MutSetAttr, Node: n.id, Namespace: namespace, Name: name, Value: value})
}

// RemoveAttribute removes a non-namespaced attribute. Missing attributes are ignored.
func (n *Node) RemoveAttribute(name string) {
	if name == "style" && n.style != nil && n.style.Len() > 0 {
		n.style.SetCSSText("")
		return
	}
	n.RemoveAttributeNS("", name)
}

// RemoveAttributeNS removes a namespaced attribute. Missing attributes are ignored.
func (n *Node) RemoveAttributeNS(namespace, name string) {
	for i, a := range n.attrs {
		if a.Namespace == namespace && a.Name == name {
			n.attrs = slices.Delete(n.attrs, i, i+1)
			n.doc.record(Mutation{Kind: MutRemoveAttr, Node: n.id, Namespace: namespace, Name: name})
			return
		}
	}
}

// ClassName returns the class attribute.
func (n *Node) ClassName() string {
	v, _ := n.GetAttribute("class")
	return v
}

// SetClassName sets the class attribute.
func (n *Node) SetClassName(v string) {
	n.SetAttribute("class", v)
}

// Style returns the element's style declarations, creating them on first use.
func (n *Node) Style() *Style {
	if n.style == nil {
		n.style = &Style{node: n, values: make(map[string]string)}
	}
	return n.style
}

// InnerHTML returns the raw HTML last assigned with SetInnerHTML.
func (n *Node) InnerHTML() string { return n.innerHTML }

// SetInnerHTML replaces the element's content with raw, unparsed HTML.
// Existing children are detached.
func (n *Node) SetInnerHTML(html string) {
	if n.typ != ElementNode {
		return
	}
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
	n.innerHTML = html
	n.doc.record(Mutation{Kind: MutSetInnerHTML, Node: n.id, Value: html})
}
