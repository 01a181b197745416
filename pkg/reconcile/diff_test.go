package reconcile

import (
	"testing"

	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/vdom"
)

func newTestReconciler() (*Reconciler, *dom.Document) {
	doc := dom.NewDocument()
	return New(doc, Options{}), doc
}

func TestMountThenUpdate(t *testing.T) {
	r, doc := newTestReconciler()
	body := doc.Body()

	root := r.Render(vdom.H("div", vdom.Props{"id": "foo"}, vdom.H("span", nil, "Hello")), body, nil)
	if got, want := dom.OuterHTML(root), `<div id="foo"><span>Hello</span></div>`; got != want {
		t.Fatalf("OuterHTML = %s, want %s", got, want)
	}
	if root.ParentNode() != body {
		t.Fatal("root not appended to parent")
	}
	span := root.FirstChild()
	text := span.FirstChild()
	doc.TakeMutations()

	next := r.Render(vdom.H("div", vdom.Props{"id": "foo"}, vdom.H("span", nil, "Hello!")), body, root)
	if next != root {
		t.Error("div identity not retained")
	}
	if root.FirstChild() != span || span.FirstChild() != text {
		t.Error("span or text identity not retained")
	}
	if text.NodeValue() != "Hello!" {
		t.Errorf("text = %q, want Hello!", text.NodeValue())
	}
	muts := doc.TakeMutations()
	if len(muts) != 1 || muts[0].Kind != dom.MutSetText {
		t.Errorf("mutations = %v, want one SetText", muts)
	}
}

func TestIdempotentRerender(t *testing.T) {
	r, doc := newTestReconciler()
	style := map[string]any{"width": 10}
	tree := vdom.Div(
		vdom.ID("app"),
		vdom.Class("a", "b"),
		vdom.StyleMap(style),
		vdom.Ul(
			vdom.Li(vdom.Key("x"), "one"),
			vdom.Li(vdom.Key("y"), "two", vdom.Span("!")),
		),
		vdom.Input(vdom.Type("checkbox"), vdom.Checked(true), vdom.Value("v")),
		vdom.Button(vdom.OnClick(func(*dom.Event) {}), "go"),
		"tail",
	)

	root := r.Render(tree, doc.Body(), nil)
	doc.TakeMutations()

	r.Render(tree, doc.Body(), root)
	if muts := doc.TakeMutations(); len(muts) != 0 {
		t.Errorf("second pass mutations = %v, want none", muts)
	}
}

func TestIdempotentFreshTree(t *testing.T) {
	r, doc := newTestReconciler()
	build := func() *vdom.VNode {
		return vdom.Div(
			vdom.ClassMap(map[string]bool{"on": true, "off": false}),
			vdom.StyleMap(map[string]any{"width": 10, "opacity": 0.5}),
			vdom.Input(vdom.Type("checkbox"), vdom.Checked(true), vdom.Value(5)),
			vdom.Input(vdom.Value(2.5)),
			vdom.Button(vdom.OnClick(func(*dom.Event) {}), "go"),
		)
	}

	root := r.Render(build(), doc.Body(), nil)
	doc.TakeMutations()

	r.Render(build(), doc.Body(), root)
	if muts := doc.TakeMutations(); len(muts) != 0 {
		t.Errorf("second pass mutations = %v, want none", muts)
	}
}

func TestAttributesPrecedeChildren(t *testing.T) {
	r, doc := newTestReconciler()
	r.Render(vdom.H("div", vdom.Props{"id": "x"}, vdom.H("span", nil, "a")), doc.Body(), nil)

	want := []dom.MutationKind{
		dom.MutCreateElement, // div
		dom.MutSetAttr,       // id
		dom.MutCreateElement, // span
		dom.MutCreateText,
		dom.MutInsert, // text into span
		dom.MutInsert, // span into div
		dom.MutInsert, // div into body
	}
	muts := doc.TakeMutations()
	if len(muts) != len(want) {
		t.Fatalf("mutations = %v, want %d", muts, len(want))
	}
	for i, k := range want {
		if muts[i].Kind != k {
			t.Errorf("mutation[%d] = %v, want %v", i, muts[i].Kind, k)
		}
	}
	if muts[1].Name != "id" || muts[1].Value != "x" {
		t.Errorf("mutation[1] = %v, want SetAttr id=x", muts[1])
	}
}

func TestKeyedReorderKeepsIdentity(t *testing.T) {
	r, doc := newTestReconciler()
	list := func(keys ...string) *vdom.VNode {
		items := make([]any, len(keys))
		for i, k := range keys {
			items[i] = vdom.Li(vdom.Key(k), k)
		}
		return vdom.Ul(items...)
	}

	root := r.Render(list("k1", "k2"), doc.Body(), nil)
	a, b := root.ChildAt(0), root.ChildAt(1)
	doc.TakeMutations()

	r.Render(list("k2", "k1"), doc.Body(), root)
	if root.ChildAt(0) != b || root.ChildAt(1) != a {
		t.Fatal("keyed children were not reordered in place")
	}
	muts := doc.TakeMutations()
	if n := dom.CountMutations(muts, dom.MutCreateElement, dom.MutCreateText); n != 0 {
		t.Errorf("created %d nodes, want 0", n)
	}
	if n := dom.CountMutations(muts, dom.MutInsert); n != 1 {
		t.Errorf("inserts = %d, want 1", n)
	}
}

func TestKeyedRemovalRecyclesUnused(t *testing.T) {
	r, doc := newTestReconciler()
	root := r.Render(vdom.Ul(vdom.Li(vdom.Key(1), "a"), vdom.Li(vdom.Key(2), "b"), vdom.Li(vdom.Key(3), "c")), doc.Body(), nil)
	second := root.ChildAt(1)

	r.Render(vdom.Ul(vdom.Li(vdom.Key(2), "b")), doc.Body(), root)
	if root.ChildCount() != 1 || root.FirstChild() != second {
		t.Fatalf("children = %d, want the keyed survivor", root.ChildCount())
	}
	if got := r.PooledNodes("li"); got != 2 {
		t.Errorf("pooled li = %d, want 2", got)
	}
}

func TestUnkeyedMatchesByType(t *testing.T) {
	r, doc := newTestReconciler()
	root := r.Render(vdom.Div(vdom.P("a"), vdom.Span("b"), vdom.P("c")), doc.Body(), nil)
	p1, span, p2 := root.ChildAt(0), root.ChildAt(1), root.ChildAt(2)

	r.Render(vdom.Div(vdom.Span("x"), vdom.P("y")), doc.Body(), root)
	if root.ChildCount() != 2 {
		t.Fatalf("children = %d, want 2", root.ChildCount())
	}
	if root.ChildAt(0) != span {
		t.Error("span not reused")
	}
	if root.ChildAt(1) != p1 {
		t.Error("first p not reused")
	}
	if p2.ParentNode() != nil {
		t.Error("unused p still attached")
	}
	if got := r.PooledNodes("p"); got != 1 {
		t.Errorf("pooled p = %d, want 1", got)
	}
}

func TestTypeChangeReparentsChildren(t *testing.T) {
	r, doc := newTestReconciler()
	root := r.Render(vdom.Div(vdom.Strong("x"), "y"), doc.Body(), nil)
	strong := root.FirstChild()

	out := r.Render(vdom.Span(vdom.Strong("x"), "y"), doc.Body(), root)
	if out == root || out.NodeName() != "span" {
		t.Fatalf("got %s, want a new span", out.NodeName())
	}
	if out.FirstChild() != strong {
		t.Error("children were not moved onto the replacement")
	}
	if doc.Body().FirstChild() != out || doc.Body().ChildCount() != 1 {
		t.Error("replacement not in the old position")
	}
	if root.ParentNode() != nil || root.ChildCount() != 0 {
		t.Error("old div should be detached and empty")
	}
	if got := r.PooledNodes("div"); got != 1 {
		t.Errorf("pooled div = %d, want 1", got)
	}

	again := r.Render(vdom.Div(), doc.Body(), nil)
	if again != root {
		t.Error("pooled div not reused")
	}
}

func TestTextFastPath(t *testing.T) {
	r, doc := newTestReconciler()
	root := r.Render(vdom.P("same"), doc.Body(), nil)
	doc.TakeMutations()

	r.Render(vdom.P("same"), doc.Body(), root)
	if muts := doc.TakeMutations(); len(muts) != 0 {
		t.Errorf("mutations = %v, want none", muts)
	}
}

func TestTextReplacesElementInPlace(t *testing.T) {
	r, doc := newTestReconciler()
	root := r.Render(vdom.Div(vdom.Strong("x"), vdom.Em("y")), doc.Body(), nil)
	i := root.ChildAt(1)

	r.Render(vdom.Div("plain", vdom.Em("y")), doc.Body(), root)
	if !root.FirstChild().IsText() || root.FirstChild().NodeValue() != "plain" {
		t.Fatalf("first child = %s", dom.OuterHTML(root.FirstChild()))
	}
	if root.ChildAt(1) != i {
		t.Error("sibling identity lost")
	}
	if got := r.PooledNodes("strong"); got != 1 {
		t.Errorf("pooled strong = %d, want 1", got)
	}
}

func TestNilRendersEmptyText(t *testing.T) {
	r, doc := newTestReconciler()
	n := r.Render(nil, doc.Body(), nil)
	if !n.IsText() || n.NodeValue() != "" {
		t.Errorf("got %v, want empty text", n.NodeName())
	}
}

func TestFuncComponent(t *testing.T) {
	r, doc := newTestReconciler()
	greet := vdom.FuncComponent(func(p vdom.Props, _ vdom.Context) *vdom.VNode {
		return vdom.H("em", nil, "hi ", p["name"].(string))
	})
	root := r.Render(vdom.H(greet, vdom.Props{"name": "ann"}), doc.Body(), nil)
	if got := dom.OuterHTML(root); got != "<em>hi ann</em>" {
		t.Errorf("OuterHTML = %s", got)
	}
}

func TestElementRef(t *testing.T) {
	r, doc := newTestReconciler()
	var got []any
	ref := vdom.Ref(func(v any) { got = append(got, v) })

	root := r.Render(vdom.Main(vdom.Div(vdom.WithRef(ref))), doc.Body(), nil)
	div := root.FirstChild()
	if len(got) != 1 || got[0] != any(div) {
		t.Fatalf("ref calls = %v, want [div]", got)
	}

	r.Render(vdom.Main(), doc.Body(), root)
	if len(got) != 2 || got[1] != nil {
		t.Errorf("ref calls = %v, want trailing nil", got)
	}
}

func TestSVGNamespace(t *testing.T) {
	r, doc := newTestReconciler()
	root := r.Render(vdom.Svg(
		vdom.Use(vdom.XLinkHref("#icon"), vdom.Class("i")),
		vdom.ForeignObject(vdom.Div("html")),
	), doc.Body(), nil)

	if root.Namespace() != dom.SVGNamespace {
		t.Errorf("svg namespace = %q", root.Namespace())
	}
	use := root.ChildAt(0)
	if use.Namespace() != dom.SVGNamespace {
		t.Errorf("use namespace = %q", use.Namespace())
	}
	if v, ok := use.GetAttributeNS(dom.XLinkNamespace, "href"); !ok || v != "#icon" {
		t.Errorf("xlink:href = %q, %v", v, ok)
	}
	if v, _ := use.GetAttribute("class"); v != "i" {
		t.Errorf("class = %q", v)
	}
	fo := root.ChildAt(1)
	if fo.Namespace() != dom.SVGNamespace {
		t.Errorf("foreignObject namespace = %q", fo.Namespace())
	}
	if div := fo.FirstChild(); div.Namespace() != dom.HTMLNamespace {
		t.Errorf("div inside foreignObject namespace = %q", div.Namespace())
	}
}

func TestHydrateExistingMarkup(t *testing.T) {
	r, doc := newTestReconciler()
	div := doc.CreateElement("div")
	div.SetAttribute("id", "x")
	div.AppendChild(doc.CreateTextNode("hi"))
	doc.Body().AppendChild(div)
	text := div.FirstChild()
	doc.TakeMutations()

	out := r.Render(vdom.Div(vdom.ID("x"), "hi"), doc.Body(), div)
	if out != div || div.FirstChild() != text {
		t.Fatal("hydration replaced existing nodes")
	}
	if muts := doc.TakeMutations(); len(muts) != 0 {
		t.Errorf("mutations = %v, want none", muts)
	}

	r.Render(vdom.Div(vdom.ID("x"), "bye"), doc.Body(), div)
	if text.NodeValue() != "bye" {
		t.Errorf("text = %q, want bye", text.NodeValue())
	}
}

func TestRawHTML(t *testing.T) {
	r, doc := newTestReconciler()
	root := r.Render(vdom.Div(vdom.InnerHTML("<b>x</b>")), doc.Body(), nil)
	if got := dom.OuterHTML(root); got != "<div><b>x</b></div>" {
		t.Errorf("OuterHTML = %s", got)
	}
	doc.TakeMutations()
	r.Render(vdom.Div(vdom.InnerHTML("<b>x</b>")), doc.Body(), root)
	if n := doc.PendingMutations(); n != 0 {
		t.Errorf("mutations = %d, want 0", n)
	}
}

func TestFuncComponentRef(t *testing.T) {
	r, doc := newTestReconciler()
	var got []any
	ref := vdom.Ref(func(v any) { got = append(got, v) })
	item := vdom.FuncComponent(func(vdom.Props, vdom.Context) *vdom.VNode {
		return vdom.H("b", nil, "x")
	})

	root := r.Render(vdom.Div(vdom.H(item, vdom.Props{"ref": ref})), doc.Body(), nil)
	b := root.FirstChild()
	if len(got) != 1 || got[0] != any(b) {
		t.Fatalf("ref calls = %v, want [b]", got)
	}

	r.Render(vdom.Div(), doc.Body(), root)
	if len(got) != 2 || got[1] != nil {
		t.Errorf("ref calls = %v, want trailing nil", got)
	}
}
