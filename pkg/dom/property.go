package dom

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrInvalidPropertyValue is returned when a property rejects a value.
var ErrInvalidPropertyValue = errors.New("dom: invalid property value")

type propKind uint8

const (
	propString  propKind = iota // reflected to a string attribute
	propBool                    // reflected to a boolean attribute
	propLive                    // live state, not reflected
	propLiveBool                // live boolean state, not reflected
)

type propDef struct {
	attr string
	kind propKind
	tags map[string]bool // nil means every HTML element
}

func tags(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

var (
	formTags  = tags("input", "textarea", "select", "button", "option", "fieldset", "output")
	valueTags = tags("input", "textarea", "select", "option", "button", "li", "output", "progress", "meter", "param", "data")
	srcTags   = tags("img", "script", "iframe", "video", "audio", "source", "track", "embed", "input")
	hrefTags  = tags("a", "area", "link", "base")
)

// properties lists the live properties elements expose, keyed by the
// property name (camelCase, like the browser DOM).
var properties = map[string]propDef{
	"id":          {attr: "id", kind: propString},
	"title":       {attr: "title", kind: propString},
	"lang":        {attr: "lang", kind: propString},
	"dir":         {attr: "dir", kind: propString},
	"hidden":      {attr: "hidden", kind: propBool},
	"tabIndex":    {attr: "tabindex", kind: propString},
	"href":        {attr: "href", kind: propString, tags: hrefTags},
	"target":      {attr: "target", kind: propString, tags: tags("a", "area", "form", "base")},
	"rel":         {attr: "rel", kind: propString, tags: tags("a", "area", "link")},
	"src":         {attr: "src", kind: propString, tags: srcTags},
	"alt":         {attr: "alt", kind: propString, tags: tags("img", "area", "input")},
	"name":        {attr: "name", kind: propString, tags: tags("input", "textarea", "select", "button", "form", "iframe", "fieldset", "output", "meta", "param", "map")},
	"placeholder": {attr: "placeholder", kind: propString, tags: tags("input", "textarea")},
	"htmlFor":     {attr: "for", kind: propString, tags: tags("label", "output")},
	"disabled":    {attr: "disabled", kind: propBool, tags: formTags},
	"readOnly":    {attr: "readonly", kind: propBool, tags: tags("input", "textarea")},
	"required":    {attr: "required", kind: propBool, tags: tags("input", "textarea", "select")},
	"multiple":    {attr: "multiple", kind: propBool, tags: tags("input", "select")},
	"autofocus":   {attr: "autofocus", kind: propBool, tags: formTags},
	"action":      {attr: "action", kind: propString, tags: tags("form")},
	"method":      {attr: "method", kind: propString, tags: tags("form")},
	"value":       {attr: "value", kind: propLive, tags: valueTags},
	"checked":     {attr: "checked", kind: propLiveBool, tags: tags("input")},
	"selected":    {attr: "selected", kind: propLiveBool, tags: tags("option")},
}

// HasProperty reports whether the element exposes a live property with the
// given name. SVG and other namespaced elements expose none.
func (n *Node) HasProperty(name string) bool {
	if n.typ != ElementNode || n.ns != HTMLNamespace {
		return false
	}
	def, ok := properties[name]
	if !ok {
		return false
	}
	return def.tags == nil || def.tags[n.tag]
}

// Property returns the current value of a live property: a string for
// string-valued properties and a bool for boolean ones.
func (n *Node) Property(name string) any {
	def, ok := properties[name]
	if !ok || !n.HasProperty(name) {
		return nil
	}
	switch def.kind {
	case propString:
		v, _ := n.GetAttribute(def.attr)
		return v
	case propBool:
		return n.HasAttribute(def.attr)
	case propLive:
		if v, ok := n.props[name]; ok {
			return v
		}
		v, _ := n.GetAttribute(def.attr)
		return v
	case propLiveBool:
		if v, ok := n.props[name]; ok {
			return v
		}
		return n.HasAttribute(def.attr)
	}
	return nil
}

// SetProperty assigns a live property. Reflected properties write their
// attribute (nil removes it); live ones are recorded as MutSetProperty. Values that cannot be
// represented (maps, slices, funcs) are rejected with ErrInvalidPropertyValue.
func (n *Node) SetProperty(name string, value any) error {
	def, ok := properties[name]
	if !ok || !n.HasProperty(name) {
		return fmt.Errorf("dom: %s has no property %q", n.tag, name)
	}
	switch def.kind {
	case propString:
		if value == nil {
			n.RemoveAttribute(def.attr)
			return nil
		}
		s, err := stringValue(value)
		if err != nil {
			return err
		}
		n.SetAttribute(def.attr, s)
	case propBool:
		if truthy(value) {
			if !n.HasAttribute(def.attr) {
				n.SetAttribute(def.attr, "")
			}
		} else {
			n.RemoveAttribute(def.attr)
		}
	case propLive:
		s, err := stringValue(value)
		if err != nil {
			return err
		}
		n.setLive(name, s)
		n.doc.record(Mutation{Kind: MutSetProperty, Node: n.id, Name: name, Value: s})
	case propLiveBool:
		if !isScalar(value) {
			return ErrInvalidPropertyValue
		}
		b := truthy(value)
		n.setLive(name, b)
		n.doc.record(Mutation{Kind: MutSetProperty, Node: n.id, Name: name, Flag: b})
	}
	return nil
}

// SyncProperty updates a live property without recording a mutation. It is
// used to mirror state that changed on the client, such as typed input.
func (n *Node) SyncProperty(name string, value any) {
	if !n.HasProperty(name) {
		return
	}
	n.setLive(name, value)
}

func (n *Node) setLive(name string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	n.props[name] = value
}

func isScalar(v any) bool {
	switch v.(type) {
	case nil, string, bool, int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

func stringValue(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), nil
	}
	if isScalar(v) {
		return fmt.Sprint(v), nil
	}
	return "", ErrInvalidPropertyValue
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case int:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	}
	return true
}
