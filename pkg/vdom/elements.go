package vdom

// El builds an element from factory-style arguments: Attr, []Attr and Props
// values become attributes (later ones win); everything else is a child.
func El(tag string, args []any) *VNode {
	var props Props
	children := make([]any, 0, len(args))
	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			props = v.applyTo(props)
		case []Attr:
			for _, a := range v {
				props = a.applyTo(props)
			}
		case Props:
			for k, val := range v {
				props = Attr{Key: k, Value: val}.applyTo(props)
			}
		default:
			children = append(children, arg)
		}
	}
	return H(tag, props, children...)
}

// SVG elements. Tags are case-sensitive in the SVG namespace.

func Svg(args ...any) *VNode           { return El("svg", args) }
func G(args ...any) *VNode             { return El("g", args) }
func Path(args ...any) *VNode          { return El("path", args) }
func Circle(args ...any) *VNode        { return El("circle", args) }
func Rect(args ...any) *VNode          { return El("rect", args) }
func Use(args ...any) *VNode           { return El("use", args) }
func ForeignObject(args ...any) *VNode { return El("foreignObject", args) }

// Structure

func Div(args ...any) *VNode     { return El("div", args) }
func Span(args ...any) *VNode    { return El("span", args) }
func P(args ...any) *VNode       { return El("p", args) }
func Header(args ...any) *VNode  { return El("header", args) }
func Footer(args ...any) *VNode  { return El("footer", args) }
func Main(args ...any) *VNode    { return El("main", args) }
func Nav(args ...any) *VNode     { return El("nav", args) }
func Section(args ...any) *VNode { return El("section", args) }
func H1(args ...any) *VNode      { return El("h1", args) }
func H2(args ...any) *VNode      { return El("h2", args) }
func H3(args ...any) *VNode      { return El("h3", args) }
func Ul(args ...any) *VNode      { return El("ul", args) }
func Ol(args ...any) *VNode      { return El("ol", args) }
func Li(args ...any) *VNode      { return El("li", args) }
func A(args ...any) *VNode       { return El("a", args) }
func Strong(args ...any) *VNode  { return El("strong", args) }
func Em(args ...any) *VNode      { return El("em", args) }
func Br(args ...any) *VNode      { return El("br", args) }
func Img(args ...any) *VNode     { return El("img", args) }

// Forms

func Form(args ...any) *VNode     { return El("form", args) }
func Input(args ...any) *VNode    { return El("input", args) }
func Textarea(args ...any) *VNode { return El("textarea", args) }
func Select(args ...any) *VNode   { return El("select", args) }
func Option(args ...any) *VNode   { return El("option", args) }
func Button(args ...any) *VNode   { return El("button", args) }
func Label(args ...any) *VNode    { return El("label", args) }

// Tables

func Table(args ...any) *VNode { return El("table", args) }
func Tbody(args ...any) *VNode { return El("tbody", args) }
func Tr(args ...any) *VNode    { return El("tr", args) }
func Td(args ...any) *VNode    { return El("td", args) }
func Th(args ...any) *VNode    { return El("th", args) }
