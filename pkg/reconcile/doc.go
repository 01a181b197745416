// Package reconcile keeps a host tree (package dom) in sync with virtual
// trees built by package vdom.
//
// A Reconciler diffs a virtual tree against the live host nodes, reusing
// nodes by key or by type, and writes only the attributes, text and
// structure that changed. Stateful components embed Base and implement
// Render; state changes are batched and flushed by the scheduler. Detached
// host elements and component bases are pooled per tag and per class and
// reused by later renders.
//
// A Reconciler is confined to one goroutine. Post and Run provide a
// single-threaded loop for callers that receive work from elsewhere.
//
//	r := reconcile.New(doc, reconcile.Options{})
//	r.Render(vdom.H(Counter, vdom.Props{"start": 1}), doc.Body(), nil)
package reconcile
