package vdom

import (
	"fmt"
	"strconv"
)

// Builder constructs VNodes. Normalize, when set, receives every node the
// builder creates before it is returned.
type Builder struct {
	Normalize func(*VNode)
}

// Default is the builder used by H and the element factories.
var Default = &Builder{}

// H builds a VNode with the Default builder.
func H(tag any, attrs Props, children ...any) *VNode {
	return Default.H(tag, attrs, children...)
}

// H builds a VNode. Children may be strings, numbers, booleans, *VNode,
// []*VNode, []any, []string or nested mixtures of those; nil and false are
// dropped and adjacent text is merged. "children" is always removed from
// attrs; it supplies the children only when no positional ones are given.
func (b *Builder) H(tag any, attrs Props, children ...any) *VNode {
	if c, ok := attrs["children"]; ok {
		if len(children) == 0 {
			children = []any{c}
		}
		rest := make(Props, len(attrs))
		for k, v := range attrs {
			if k != "children" {
				rest[k] = v
			}
		}
		attrs = rest
	}
	if len(attrs) == 0 {
		attrs = nil
	}

	node := &VNode{Attrs: attrs}
	resolveTag(node, tag)
	if attrs != nil {
		node.Key = KeyString(attrs["key"])
	}

	f := flattener{}
	for _, c := range children {
		f.add(c)
	}
	node.Children = f.out

	if b != nil && b.Normalize != nil {
		b.Normalize(node)
	}
	return node
}

func resolveTag(node *VNode, tag any) {
	switch t := tag.(type) {
	case string:
		node.Kind = KindElement
		node.Tag = t
	case ComponentType:
		node.Kind = KindComponent
		node.Type = t
	case FuncComponent:
		node.Kind = KindFunc
		node.Func = t
	case func(Props, Context) *VNode:
		node.Kind = KindFunc
		node.Func = t
	default:
		// Unresolvable tags render as a recognizable placeholder element.
		node.Kind = KindElement
		node.Tag = fmt.Sprint(tag)
	}
}

// flattener accumulates children in order, merging adjacent text.
type flattener struct {
	out        []*VNode
	lastSimple bool
}

func (f *flattener) add(child any) {
	switch c := child.(type) {
	case nil:
	case bool:
		if c {
			f.text("true")
		}
	case string:
		f.text(c)
	case int:
		f.text(strconv.Itoa(c))
	case int64:
		f.text(strconv.FormatInt(c, 10))
	case int32:
		f.text(strconv.FormatInt(int64(c), 10))
	case uint:
		f.text(strconv.FormatUint(uint64(c), 10))
	case uint64:
		f.text(strconv.FormatUint(c, 10))
	case float64:
		f.text(strconv.FormatFloat(c, 'f', -1, 64))
	case float32:
		f.text(strconv.FormatFloat(float64(c), 'f', -1, 32))
	case *VNode:
		if c == nil {
			return
		}
		if c.Kind == KindText {
			f.text(c.Text)
			return
		}
		f.out = append(f.out, c)
		f.lastSimple = false
	case []*VNode:
		for _, n := range c {
			f.add(n)
		}
	case []any:
		for _, n := range c {
			f.add(n)
		}
	case []string:
		for _, s := range c {
			f.text(s)
		}
	case Attr, []Attr, Props:
		// attributes are collected by the element factories
	case fmt.Stringer:
		f.text(c.String())
	}
}

func (f *flattener) text(s string) {
	if f.lastSimple {
		last := f.out[len(f.out)-1]
		f.out[len(f.out)-1] = Text(last.Text + s)
		return
	}
	f.out = append(f.out, Text(s))
	f.lastSimple = true
}
