package dom

import "strings"

// Namespaces understood by the host tree.
const (
	HTMLNamespace  = ""
	SVGNamespace   = "http://www.w3.org/2000/svg"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
)

// Document owns a tree of nodes and records every mutation made to it.
type Document struct {
	nextID    uint64
	body      *Node
	nodes     map[uint64]*Node
	mutations []Mutation
}

// NewDocument creates an empty document with a body element.
// The body's creation is not recorded: clients are expected to provide
// their own mount point and map it to Body().ID().
func NewDocument() *Document {
	d := &Document{nodes: make(map[uint64]*Node)}
	d.body = d.newNode(ElementNode, "body", HTMLNamespace)
	return d
}

// Body returns the document's root element.
func (d *Document) Body() *Node {
	return d.body
}

// CreateElement creates a detached HTML element. The tag is lowercased.
func (d *Document) CreateElement(tag string) *Node {
	n := d.newNode(ElementNode, strings.ToLower(tag), HTMLNamespace)
	d.record(Mutation{Kind: MutCreateElement, Node: n.id, Name: n.tag})
	return n
}

// CreateElementNS creates a detached element in the given namespace.
// The tag keeps its case (SVG has mixed-case tags such as foreignObject).
func (d *Document) CreateElementNS(namespace, tag string) *Node {
	if namespace == HTMLNamespace {
		return d.CreateElement(tag)
	}
	n := d.newNode(ElementNode, tag, namespace)
	d.record(Mutation{Kind: MutCreateElement, Node: n.id, Name: n.tag, Namespace: namespace})
	return n
}

// CreateTextNode creates a detached text node.
func (d *Document) CreateTextNode(text string) *Node {
	n := d.newNode(TextNode, "#text", HTMLNamespace)
	n.value = text
	d.record(Mutation{Kind: MutCreateText, Node: n.id, Value: text})
	return n
}

// NodeByID returns the node with the given ID, or nil.
// Nodes stay addressable for the lifetime of the document, even when detached.
func (d *Document) NodeByID(id uint64) *Node {
	return d.nodes[id]
}

// TakeMutations returns the recorded mutations and clears the log.
func (d *Document) TakeMutations() []Mutation {
	muts := d.mutations
	d.mutations = nil
	return muts
}

// Mutations returns the recorded mutations without clearing the log.
func (d *Document) Mutations() []Mutation {
	return d.mutations
}

// PendingMutations returns the number of mutations not yet taken.
func (d *Document) PendingMutations() int {
	return len(d.mutations)
}

// Forget drops a node from the ID index. The reconciler calls this for
// detached text nodes that can never be reused.
func (d *Document) Forget(n *Node) {
	if n == nil || n == d.body {
		return
	}
	delete(d.nodes, n.id)
}

func (d *Document) newNode(t NodeType, tag, namespace string) *Node {
	d.nextID++
	n := &Node{doc: d, id: d.nextID, typ: t, tag: tag, ns: namespace}
	d.nodes[n.id] = n
	return n
}

func (d *Document) record(m Mutation) {
	d.mutations = append(d.mutations, m)
}
