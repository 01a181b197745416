// Package vdom provides the virtual node model and the tree builder.
//
// A VNode is an immutable description of desired UI: a host element, a text
// node, a stateful component or a function component, together with its
// attributes, ordered children and an optional reconciliation key. VNodes are
// built fresh on every render and handed to the reconciler, which mutates the
// live host tree to match.
//
// # Building trees
//
// H is the general constructor. It accepts arbitrarily nested child
// arguments, drops nil and false, stringifies numbers and true, and merges
// adjacent text into a single text node:
//
//	vdom.H("div", vdom.Props{"id": "foo"},
//	    vdom.H("span", nil, "Hello ", name),
//	)
//
// The element factories build the same structure from Attr values:
//
//	vdom.Div(vdom.ID("foo"),
//	    vdom.Span("Hello ", name),
//	    vdom.Button(vdom.OnClick(handler), "Click"),
//	)
//
// # Tags
//
// A tag is resolved once at construction into a Kind: a string becomes an
// element, a ComponentType a stateful component, and a FuncComponent (or a
// plain func(Props, Context) *VNode) a function component.
package vdom
