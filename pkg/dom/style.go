package dom

import (
	"slices"
	"strings"
)

// Style holds an element's inline style declarations. Property names are
// camelCase ("fontSize"), matching the browser's CSSStyleDeclaration.
type Style struct {
	node   *Node
	names  []string
	values map[string]string
}

// Get returns the value of a style property, or "".
func (s *Style) Get(name string) string {
	return s.values[name]
}

// Len returns the number of declared properties.
func (s *Style) Len() int {
	return len(s.names)
}

// Names returns the declared property names in declaration order.
func (s *Style) Names() []string {
	return slices.Clone(s.names)
}

// Set assigns a style property. An empty value removes the declaration.
func (s *Style) Set(name, value string) {
	if value == "" {
		if _, ok := s.values[name]; !ok {
			return
		}
		delete(s.values, name)
		if i := slices.Index(s.names, name); i >= 0 {
			s.names = slices.Delete(s.names, i, i+1)
		}
	} else {
		if _, ok := s.values[name]; !ok {
			s.names = append(s.names, name)
		}
		s.values[name] = value
	}
	s.node.doc.record(Mutation{Kind: MutSetStyle, Node: s.node.id, Name: KebabCase(name), Value: value})
}

// CSSText serializes the declarations as "font-size: 12px; color: red".
func (s *Style) CSSText() string {
	var b strings.Builder
	for i, name := range s.names {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(KebabCase(name))
		b.WriteString(": ")
		b.WriteString(s.values[name])
	}
	return b.String()
}

// SetCSSText replaces every declaration by parsing text.
func (s *Style) SetCSSText(text string) {
	s.names = s.names[:0]
	clear(s.values)
	for _, decl := range strings.Split(text, ";") {
		name, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		name = CamelCase(strings.TrimSpace(name))
		value = strings.TrimSpace(value)
		if name == "" || value == "" {
			continue
		}
		if _, exists := s.values[name]; !exists {
			s.names = append(s.names, name)
		}
		s.values[name] = value
	}
	s.node.doc.record(Mutation{Kind: MutSetStyle, Node: s.node.id, Value: s.CSSText()})
}

// KebabCase converts "fontSize" to "font-size". Custom properties ("--x")
// are returned unchanged.
func KebabCase(name string) string {
	if strings.HasPrefix(name, "--") {
		return name
	}
	var b strings.Builder
	for _, r := range name {
		if r >= 'A' && r <= 'Z' {
			b.WriteByte('-')
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelCase converts "font-size" to "fontSize". Custom properties ("--x")
// are returned unchanged.
func CamelCase(name string) string {
	if strings.HasPrefix(name, "--") || !strings.Contains(name, "-") {
		return name
	}
	var b strings.Builder
	upper := false
	for _, r := range name {
		if r == '-' {
			upper = true
			continue
		}
		if upper && r >= 'a' && r <= 'z' {
			r -= 'a' - 'A'
		}
		upper = false
		b.WriteRune(r)
	}
	return b.String()
}
