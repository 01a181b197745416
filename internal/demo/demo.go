// Package demo is a small application used by the CLI: a counter and a
// keyed todo list.
package demo

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/reconcile"
	"github.com/vango-dev/retained/pkg/vdom"
)

// Todo is one todo list entry.
type Todo struct {
	ID   int
	Text string
	Done bool
}

// Root returns the demo's root node.
func Root() *vdom.VNode {
	return vdom.H(App, vdom.Props{"title": "retained"})
}

// App lays out the two widgets.
var App vdom.FuncComponent = func(props vdom.Props, _ vdom.Context) *vdom.VNode {
	return vdom.Div(vdom.Class("app"),
		vdom.H1(props["title"]),
		vdom.H(Counter, nil),
		vdom.H(Todos, vdom.Props{"seed": []string{"Mount the tree", "Diff the children"}}),
	)
}

// Counter counts clicks, starting from the "start" prop.
var Counter = &reconcile.Class{
	Name:         "Counter",
	DefaultProps: vdom.Props{"start": 0},
	New: func(props vdom.Props, _ vdom.Context) reconcile.Component {
		c := &counter{}
		c.InitState(reconcile.State{"n": props["start"]})
		return c
	},
}

type counter struct{ reconcile.Base }

func (c *counter) add(delta int) func(*dom.Event) {
	return func(*dom.Event) {
		c.UpdateState(func(s reconcile.State, _ vdom.Props) reconcile.State {
			n, _ := s["n"].(int)
			return reconcile.State{"n": n + delta}
		})
	}
}

func (c *counter) Render(_ vdom.Props, s reconcile.State, _ vdom.Context) *vdom.VNode {
	n, _ := s["n"].(int)
	return vdom.Section(vdom.Class("counter"),
		vdom.H2("Counter"),
		vdom.Button(vdom.Class("dec"), vdom.OnClick(c.add(-1)), "-"),
		vdom.Span(vdom.ClassMap(map[string]bool{"count": true, "negative": n < 0}), strconv.Itoa(n)),
		vdom.Button(vdom.Class("inc"), vdom.OnClick(c.add(1)), "+"),
	)
}

// Todos is a keyed list with add, toggle and remove.
var Todos = reconcile.NewClass("Todos", func(props vdom.Props, _ vdom.Context) reconcile.Component {
	t := &todos{}
	seed, _ := props["seed"].([]string)
	items := make([]Todo, len(seed))
	for i, text := range seed {
		items[i] = Todo{ID: i + 1, Text: text}
	}
	t.InitState(reconcile.State{"items": items, "draft": "", "next": len(seed) + 1})
	return t
})

type todos struct{ reconcile.Base }

func (t *todos) items() []Todo {
	items, _ := t.State()["items"].([]Todo)
	return items
}

func (t *todos) submit(e *dom.Event) {
	e.PreventDefault()
	s := t.State()
	text, _ := s["draft"].(string)
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	id, _ := s["next"].(int)
	t.SetState(reconcile.State{
		"items": append(slices.Clone(t.items()), Todo{ID: id, Text: text}),
		"draft": "",
		"next":  id + 1,
	})
}

func (t *todos) toggle(id int) func(*dom.Event) {
	return func(*dom.Event) {
		items := slices.Clone(t.items())
		for i := range items {
			if items[i].ID == id {
				items[i].Done = !items[i].Done
			}
		}
		t.SetState(reconcile.State{"items": items})
	}
}

func (t *todos) remove(id int) func(*dom.Event) {
	return func(*dom.Event) {
		items := slices.DeleteFunc(slices.Clone(t.items()), func(it Todo) bool { return it.ID == id })
		t.SetState(reconcile.State{"items": items})
	}
}

func (t *todos) Render(_ vdom.Props, s reconcile.State, _ vdom.Context) *vdom.VNode {
	items := t.items()
	draft, _ := s["draft"].(string)

	done := 0
	for _, it := range items {
		if it.Done {
			done++
		}
	}
	rows := vdom.Map(items, func(it Todo, _ int) *vdom.VNode {
		return vdom.Li(vdom.Key(it.ID), vdom.ClassMap(map[string]bool{"done": it.Done}),
			vdom.Input(vdom.Type("checkbox"), vdom.Checked(it.Done), vdom.OnChange(t.toggle(it.ID))),
			vdom.Span(it.Text),
			vdom.Button(vdom.Class("remove"), vdom.AriaLabel("Remove"), vdom.OnClick(t.remove(it.ID)), "×"),
		)
	})

	return vdom.Section(vdom.Class("todos"),
		vdom.H2("Todos"),
		vdom.Form(vdom.OnSubmit(t.submit),
			vdom.Input(vdom.Type("text"), vdom.Placeholder("What needs doing?"),
				vdom.Value(draft), vdom.OnInput(t.LinkState("draft", ""))),
			vdom.Button(vdom.Type("submit"), "Add"),
		),
		vdom.Ul(rows),
		vdom.If(len(items) == 0, vdom.P(vdom.Class("empty"), "Nothing to do")),
		vdom.P(vdom.Class("summary"), fmt.Sprintf("%d of %d done", done, len(items))),
	)
}
