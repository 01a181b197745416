package vdom

import (
	"fmt"
	"strconv"
)

// VKind is the node type discriminator.
type VKind uint8

const (
	KindElement   VKind = iota // <div>, <button>, etc.
	KindText                   // Plain text node
	KindComponent              // Stateful component
	KindFunc                   // Function component
)

// String returns the string representation of the VKind.
func (k VKind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComponent:
		return "Component"
	case KindFunc:
		return "Func"
	default:
		return "Unknown"
	}
}

// Props holds attributes, event handlers and component props.
type Props map[string]any

// Context is the implicit data passed from ancestor components to their
// descendants.
type Context map[string]any

// ComponentType identifies a stateful component constructor. Identity is the
// interface value itself, so implementations should be pointer types.
type ComponentType interface {
	ComponentName() string
}

// FuncComponent is a stateless component rendered from its props.
type FuncComponent func(props Props, ctx Context) *VNode

// VNode is the virtual DOM node. It must not be modified after construction.
type VNode struct {
	Kind     VKind
	Tag      string        // Element tag name (e.g., "div")
	Type     ComponentType // For KindComponent
	Func     FuncComponent // For KindFunc
	Attrs    Props         // Attributes; nil when absent
	Children []*VNode      // Child nodes
	Key      string        // Reconciliation key; empty means unkeyed
	Text     string        // For KindText
}

// IsComponent reports whether the node is rendered by a component.
func (v *VNode) IsComponent() bool {
	return v != nil && (v.Kind == KindComponent || v.Kind == KindFunc)
}

// Attr returns a single attribute value.
func (v *VNode) Attr(name string) any {
	if v == nil || v.Attrs == nil {
		return nil
	}
	return v.Attrs[name]
}

// ComponentProps builds the props a component receives: a copy of the
// attributes, the children under "children", and any missing defaults.
func (v *VNode) ComponentProps(defaults Props) Props {
	props := make(Props, len(v.Attrs)+1)
	for k, val := range v.Attrs {
		props[k] = val
	}
	props["children"] = v.Children
	for k, val := range defaults {
		if _, ok := props[k]; !ok {
			props[k] = val
		}
	}
	return props
}

// Text creates a text node.
func Text(content string) *VNode {
	return &VNode{
		Kind: KindText,
		Text: content,
	}
}

// Textf creates a formatted text node.
func Textf(format string, args ...any) *VNode {
	return Text(fmt.Sprintf(format, args...))
}

// KeyString normalizes a key attribute value. Nil and unsupported values
// yield "", meaning unkeyed.
func KeyString(v any) string {
	switch k := v.(type) {
	case nil:
		return ""
	case string:
		return k
	case int:
		return strconv.Itoa(k)
	case int64:
		return strconv.FormatInt(k, 10)
	case uint64:
		return strconv.FormatUint(k, 10)
	case float64:
		return strconv.FormatFloat(k, 'f', -1, 64)
	case fmt.Stringer:
		return k.String()
	}
	return fmt.Sprint(v)
}
