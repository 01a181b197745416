package dom

import (
	"io"
	"strings"
)

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// HTMLOptions configures serialization.
type HTMLOptions struct {
	// Pretty enables indented output. Text-only elements stay on one line.
	Pretty bool

	// Indent is the per-level indentation in pretty mode (default two spaces).
	Indent string
}

// OuterHTML serializes n and its subtree.
func OuterHTML(n *Node) string {
	var b strings.Builder
	_ = WriteHTML(&b, n, HTMLOptions{})
	return b.String()
}

// InnerHTMLString serializes n's children, or its raw inner HTML.
func InnerHTMLString(n *Node) string {
	var b strings.Builder
	w := &htmlWriter{w: &b}
	w.children(n, 0)
	return b.String()
}

// WriteHTML streams n as HTML to w.
func WriteHTML(w io.Writer, n *Node, opts HTMLOptions) error {
	if opts.Indent == "" {
		opts.Indent = "  "
	}
	hw := &htmlWriter{w: w, opts: opts}
	hw.node(n, 0)
	if hw.pretty() {
		hw.str("\n")
	}
	return hw.err
}

type htmlWriter struct {
	w    io.Writer
	opts HTMLOptions
	err  error
}

func (h *htmlWriter) pretty() bool { return h.opts.Pretty }

func (h *htmlWriter) str(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

func (h *htmlWriter) indent(depth int) {
	if h.pretty() {
		h.str(strings.Repeat(h.opts.Indent, depth))
	}
}

func (h *htmlWriter) node(n *Node, depth int) {
	if n == nil {
		return
	}
	if n.typ == TextNode {
		h.str(escapeHTML(n.value))
		return
	}

	h.str("<")
	h.str(n.tag)
	for _, a := range n.Attributes() {
		h.str(" ")
		if a.Namespace == XLinkNamespace {
			h.str("xlink:")
		}
		h.str(a.Name)
		if a.Value != "" {
			h.str(`="`)
			h.str(escapeAttr(a.Value))
			h.str(`"`)
		}
	}
	h.str(">")

	if n.ns == HTMLNamespace && IsVoidElement(n.tag) {
		return
	}
	h.children(n, depth)
	h.str("</")
	h.str(n.tag)
	h.str(">")
}

func (h *htmlWriter) children(n *Node, depth int) {
	if len(n.children) == 0 {
		h.str(n.innerHTML)
		return
	}
	inline := !h.pretty() || (len(n.children) == 1 && n.children[0].typ == TextNode)
	for _, c := range n.children {
		if !inline {
			h.str("\n")
			h.indent(depth + 1)
		}
		h.node(c, depth+1)
	}
	if !inline {
		h.str("\n")
		h.indent(depth)
	}
}

// escapeHTML escapes text for safe inclusion in HTML content.
func escapeHTML(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}

// escapeAttr escapes text for inclusion in a double-quoted attribute value.
func escapeAttr(s string) string {
	var buf strings.Builder
	buf.Grow(len(s))

	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		case '\n':
			buf.WriteString("&#10;")
		case '\t':
			buf.WriteString("&#9;")
		default:
			buf.WriteRune(r)
		}
	}

	return buf.String()
}
