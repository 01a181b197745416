package demo

import (
	"strings"
	"testing"

	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/reconcile"
)

func mount(t *testing.T) (*reconcile.Reconciler, *dom.Node) {
	t.Helper()
	doc := dom.NewDocument()
	r := reconcile.New(doc, reconcile.Options{})
	return r, r.Render(Root(), doc.Body(), nil)
}

// find returns the first element under n matching tag and class.
func find(n *dom.Node, tag, class string) *dom.Node {
	if n.IsElement() && n.NodeName() == tag && (class == "" || strings.Contains(" "+n.ClassName()+" ", " "+class+" ")) {
		return n
	}
	for _, c := range n.ChildNodes() {
		if m := find(c, tag, class); m != nil {
			return m
		}
	}
	return nil
}

func text(n *dom.Node) string {
	if n.IsText() {
		return n.NodeValue()
	}
	var b strings.Builder
	for _, c := range n.ChildNodes() {
		b.WriteString(text(c))
	}
	return b.String()
}

func click(r *reconcile.Reconciler, n *dom.Node) {
	n.Dispatch(dom.NewEvent("click"))
	r.RunMicrotasks()
}

func TestInitialRender(t *testing.T) {
	_, root := mount(t)
	html := dom.OuterHTML(root)
	for _, want := range []string{
		`<h1>retained</h1>`,
		`<span class="count">0</span>`,
		`<li class><input type="checkbox"><span>Mount the tree</span>`,
		`<p class="summary">0 of 2 done</p>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("render missing %s\n%s", want, html)
		}
	}
}

func TestCounter(t *testing.T) {
	r, root := mount(t)
	inc, dec := find(root, "button", "inc"), find(root, "button", "dec")
	count := find(root, "span", "count")

	click(r, inc)
	click(r, inc)
	if got := text(count); got != "2" {
		t.Errorf("count = %s, want 2", got)
	}
	click(r, dec)
	click(r, dec)
	click(r, dec)
	if got := text(count); got != "-1" {
		t.Errorf("count = %s, want -1", got)
	}
	if count.ClassName() != "count negative" {
		t.Errorf("class = %q, want count negative", count.ClassName())
	}
}

func TestTodoAddToggleRemove(t *testing.T) {
	r, root := mount(t)
	input := find(root, "input", "")
	form := find(root, "form", "")
	ul := find(root, "ul", "")
	first := ul.ChildAt(0)

	// typing into the input goes through LinkState
	input.SyncProperty("value", "Ship it")
	input.Dispatch(dom.NewEvent("input"))
	r.RunMicrotasks()
	form.Dispatch(dom.NewEvent("submit"))
	r.RunMicrotasks()

	if ul.ChildCount() != 3 {
		t.Fatalf("items = %d, want 3", ul.ChildCount())
	}
	if got := text(ul.ChildAt(2)); !strings.HasPrefix(got, "Ship it") {
		t.Errorf("new item = %q", got)
	}
	if v := input.Property("value"); v != "" {
		t.Errorf("input value = %v, want cleared", v)
	}

	find(ul.ChildAt(1), "input", "").Dispatch(dom.NewEvent("change"))
	r.RunMicrotasks()
	if ul.ChildAt(1).ClassName() != "done" {
		t.Errorf("toggled class = %q, want done", ul.ChildAt(1).ClassName())
	}
	if got := text(find(root, "p", "summary")); got != "1 of 3 done" {
		t.Errorf("summary = %q", got)
	}

	// keyed removal keeps the surviving rows' host nodes
	second := ul.ChildAt(1)
	click(r, find(first, "button", "remove"))
	if ul.ChildCount() != 2 || ul.ChildAt(0) != second {
		t.Errorf("after remove: count=%d, first row reused=%v", ul.ChildCount(), ul.ChildAt(0) == second)
	}
}

func TestEmptyDraftIsIgnored(t *testing.T) {
	r, root := mount(t)
	form := find(root, "form", "")
	form.Dispatch(dom.NewEvent("submit"))
	r.RunMicrotasks()
	if n := find(root, "ul", "").ChildCount(); n != 2 {
		t.Errorf("items = %d, want 2", n)
	}
}

func TestEmptyState(t *testing.T) {
	r, root := mount(t)
	if find(root, "p", "empty") != nil {
		t.Fatal("empty state shown with items present")
	}
	ul := find(root, "ul", "")
	for ul.ChildCount() > 0 {
		click(r, find(ul, "button", "remove"))
	}
	if p := find(root, "p", "empty"); p == nil || text(p) != "Nothing to do" {
		t.Errorf("empty state missing\n%s", dom.OuterHTML(root))
	}
	if got := text(find(root, "p", "summary")); got != "0 of 0 done" {
		t.Errorf("summary = %q", got)
	}
}
