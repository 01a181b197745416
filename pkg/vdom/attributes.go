package vdom

import "strings"

// Attr represents a single attribute.
type Attr struct {
	Key   string
	Value any
}

// IsEmpty returns true if this is an empty/nil attribute.
func (a Attr) IsEmpty() bool {
	return a.Key == ""
}

func (a Attr) applyTo(p Props) Props {
	if a.IsEmpty() {
		return p
	}
	if p == nil {
		p = make(Props)
	}
	p[a.Key] = a.Value
	return p
}

// RawHTML is the value of the dangerouslySetInnerHTML attribute.
type RawHTML struct {
	HTML string
}

// Ref receives the realized host node (for elements) or the component
// instance (for components), and nil when it goes away.
type Ref func(v any)

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Key sets the reconciliation key.
func Key(key any) Attr { return attr("key", key) }

// WithRef registers a ref callback.
func WithRef(fn Ref) Attr { return attr("ref", fn) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// ClassMap sets the class attribute from a class->enabled map.
func ClassMap(classes map[string]bool) Attr { return attr("class", classes) }

// StyleAttr sets the style attribute from literal CSS text.
func StyleAttr(css string) Attr { return attr("style", css) }

// StyleMap sets the style attribute from camelCase properties. Numeric
// values get a "px" suffix unless the property is unitless.
func StyleMap(style map[string]any) Attr { return attr("style", style) }

// InnerHTML sets raw, unescaped content. Use with caution.
func InnerHTML(html string) Attr { return attr("dangerouslySetInnerHTML", RawHTML{HTML: html}) }

// Data creates a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// TitleAttr sets the title attribute.
func TitleAttr(title string) Attr { return attr("title", title) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Value sets the value property.
func Value(value any) Attr { return attr("value", value) }

// Checked sets the checked property.
func Checked(checked bool) Attr { return attr("checked", checked) }

// Placeholder sets the placeholder attribute.
func Placeholder(text string) Attr { return attr("placeholder", text) }

// Disabled sets the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// AriaLabel sets the aria-label attribute.
func AriaLabel(label string) Attr { return attr("aria-label", label) }

// XLinkHref sets xlink:href on SVG elements.
func XLinkHref(url string) Attr { return attr("xlink:href", url) }

// AttrIf adds any attribute conditionally.
func AttrIf(condition bool, a Attr) Attr {
	if condition {
		return a
	}
	return Attr{}
}
