package reconcile

import (
	"strings"
	"sync"

	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/vdom"
)

// Render modes.
type renderMode uint8

const (
	renderNone  renderMode = iota // update props only
	renderSync                    // render now
	renderForce                   // render now, skipping ShouldComponentUpdate
	renderAsync                   // render now unless async prop updates are enabled
)

// Options configures a Reconciler. The zero value renders prop updates
// synchronously and defers state flushes to the microtask queue.
type Options struct {
	// Debounce schedules a flush of the dirty queue. When nil the flush is
	// queued as a microtask.
	Debounce func(flush func())

	// AsyncPropUpdates defers re-renders caused by new props from an owner to
	// the scheduler instead of rendering them in the owner's pass.
	AsyncPropUpdates bool

	// Observation hooks.
	AfterMount    func(c Component)
	AfterUpdate   func(c Component)
	BeforeUnmount func(c Component)

	// Event normalizes an event before it reaches a handler. Returning nil
	// keeps the original event.
	Event func(e *dom.Event) *dom.Event

	// OnIdle runs on the loop after a batch of posted tasks and their
	// microtasks has drained.
	OnIdle func()
}

// Reconciler owns the diff state for one host document: the pass depth, the
// pending mount queue, the dirty queue, the recycling pools and the host
// node metadata.
type Reconciler struct {
	doc  *dom.Document
	opts Options

	depth  int
	mounts []*Base
	dirty  []*Base

	meta       map[*dom.Node]*nodeMeta
	nodePool   map[string][]*dom.Node
	components map[*Class][]*Base
	lower      map[string]string

	microtasks []func()

	mu      sync.Mutex
	ingress []func()
	wake    chan struct{}
	closed  bool
}

// scope is the per-pass diff context threaded through the recursion.
type scope struct {
	svg       bool
	hydrating bool
}

// New returns a Reconciler that creates host nodes in doc.
func New(doc *dom.Document, opts Options) *Reconciler {
	return &Reconciler{
		doc:        doc,
		opts:       opts,
		meta:       make(map[*dom.Node]*nodeMeta),
		nodePool:   make(map[string][]*dom.Node),
		components: make(map[*Class][]*Base),
		lower:      make(map[string]string),
		wake:       make(chan struct{}, 1),
	}
}

// Document returns the host document.
func (r *Reconciler) Document() *dom.Document { return r.doc }

// Render diffs v into the host tree. With a nil merge a new host subtree is
// built; otherwise merge is updated in place. The resulting node is appended
// to parent when parent is non-nil and not already its parent. Mount hooks
// of every component created by the pass run before Render returns.
func (r *Reconciler) Render(v *vdom.VNode, parent, merge *dom.Node) *dom.Node {
	return r.diff(merge, v, vdom.Context{}, false, parent, false, scope{})
}

// diff is the entry point for a (possibly nested) diff pass. The outermost
// call derives the scope from the target and flushes pending mounts on exit.
func (r *Reconciler) diff(node *dom.Node, v *vdom.VNode, ctx vdom.Context, mountAll bool, parent *dom.Node, componentRoot bool, sc scope) *dom.Node {
	if r.depth == 0 {
		sc = scope{
			svg:       isSVGContainer(parent),
			hydrating: node != nil && !r.hasCache(node),
		}
	}

	r.depth++
	done := false
	defer func() {
		if !done {
			r.depth--
		}
	}()

	ret := r.idiff(node, v, ctx, mountAll, sc)
	if parent != nil && ret != nil && ret.ParentNode() != parent {
		parent.AppendChild(ret)
	}

	r.depth--
	done = true
	if r.depth == 0 && !componentRoot {
		r.flushMounts()
	}
	return ret
}

func (r *Reconciler) flushMounts() {
	for len(r.mounts) > 0 {
		c := r.mounts[0]
		r.mounts = r.mounts[1:]
		if r.opts.AfterMount != nil {
			r.opts.AfterMount(c.self)
		}
		if h, ok := c.self.(DidMounter); ok {
			h.ComponentDidMount()
		}
	}
	r.mounts = nil
}

func isSVGContainer(n *dom.Node) bool {
	return n.IsElement() && n.Namespace() == dom.SVGNamespace && n.NodeName() != "foreignObject"
}

func (r *Reconciler) toLower(s string) string {
	if l, ok := r.lower[s]; ok {
		return l
	}
	l := strings.ToLower(s)
	r.lower[s] = l
	return l
}
