// Package dom is an in-memory, DOM-like host tree.
//
// A Document owns element and text nodes. Nodes carry attributes (optionally
// namespaced), live properties such as value and checked, a style map, raw
// inner HTML and event listeners. Every mutation is appended to the
// document's mutation log, identified by stable integer node IDs, so that a
// remote client can replay the exact same changes:
//
//	doc := dom.NewDocument()
//	div := doc.CreateElement("div")
//	div.SetAttribute("id", "main")
//	doc.Body().AppendChild(div)
//	muts := doc.TakeMutations() // CreateElement, SetAttr, Insert
//
// The tree is not safe for concurrent use. Confine a Document to a single
// goroutine, as the reconciler does.
package dom
