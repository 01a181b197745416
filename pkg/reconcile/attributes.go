package reconcile

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/vango-dev/retained/pkg/dom"
	"github.com/vango-dev/retained/pkg/vdom"
)

// unitless style properties take bare numbers.
var unitless = map[string]bool{
	"boxFlex": true, "boxFlexGroup": true, "columnCount": true, "fillOpacity": true,
	"flex": true, "flexGrow": true, "flexPositive": true, "flexShrink": true,
	"flexNegative": true, "fontWeight": true, "lineClamp": true, "lineHeight": true,
	"opacity": true, "order": true, "orphans": true, "strokeOpacity": true,
	"widows": true, "zIndex": true, "zoom": true,
}

// nonBubbling events are registered in capture mode.
var nonBubbling = map[string]bool{
	"blur": true, "error": true, "focus": true, "load": true, "resize": true, "scroll": true,
}

// diffAttributes applies attrs to node, using m.props as the previously
// applied set, and leaves m.props equal to what was applied.
func (r *Reconciler) diffAttributes(node *dom.Node, attrs vdom.Props, m *nodeMeta, svg bool) {
	old := m.props

	for _, name := range sortedKeys(old) {
		if _, keep := attrs[name]; keep {
			continue
		}
		if prev := old[name]; prev != nil {
			r.setAccessor(node, m, name, prev, nil, svg)
		}
		delete(old, name)
	}

	for _, name := range sortedKeys(attrs) {
		if name == "children" || name == "innerHTML" {
			continue
		}
		next := attrs[name]
		prev, had := old[name]
		same := sameValue(next, prev)
		if name == "value" || name == "checked" {
			if live := node.Property(name); live != nil && next != nil {
				same = sameLive(next, live)
			}
		}
		if had && same {
			continue
		}
		r.setAccessor(node, m, name, prev, next, svg)
		old[name] = next
	}
}

// setAccessor writes a single attribute, property, style, class or event
// binding. prev is the previously applied value.
func (r *Reconciler) setAccessor(node *dom.Node, m *nodeMeta, name string, prev, value any, svg bool) {
	if name == "className" {
		name = "class"
	}
	if name == "class" {
		value = classValue(value)
	}

	switch {
	case name == "key" || name == "ref":
	case name == "class" && !svg:
		s, ok := attrString(value)
		if !ok || value == false {
			node.RemoveAttribute("class")
		} else if !node.HasAttribute("class") || node.ClassName() != s {
			node.SetClassName(s)
		}
	case name == "style":
		applyStyle(node, prev, value)
	case name == "dangerouslySetInnerHTML":
		node.SetInnerHTML(rawHTML(value))
	case len(name) > 2 && strings.HasPrefix(name, "on"):
		r.setHandler(node, m, r.toLower(name[2:]), value)
	case name != "list" && name != "type" && !svg && node.HasProperty(name):
		// Rejected values leave the property unchanged.
		_ = node.SetProperty(name, value)
		if value == nil || value == false {
			node.RemoveAttribute(name)
		}
	default:
		ns := ""
		local := name
		if svg && strings.HasPrefix(name, "xlink:") {
			ns = dom.XLinkNamespace
			local = r.toLower(strings.TrimPrefix(name, "xlink:"))
		}
		if value == nil || value == false {
			node.RemoveAttributeNS(ns, local)
			return
		}
		if s, ok := attrString(value); ok {
			node.SetAttributeNS(ns, local, s)
		}
	}
}

func (r *Reconciler) setHandler(node *dom.Node, m *nodeMeta, event string, value any) {
	h := handlerOf(value)
	capture := nonBubbling[event]
	if h != nil {
		if m.handlers == nil {
			m.handlers = make(map[string]func(*dom.Event))
		}
		if m.handlers[event] == nil {
			node.AddEventListener(event, r.dispatcherFor(m), capture)
		}
		m.handlers[event] = h
		return
	}
	if m.handlers[event] != nil {
		node.RemoveEventListener(event, r.dispatcherFor(m), capture)
		delete(m.handlers, event)
	}
}

// detachHandlers removes every event binding from node.
func (r *Reconciler) detachHandlers(node *dom.Node, m *nodeMeta) {
	for _, event := range sortedKeys(m.handlers) {
		node.RemoveEventListener(event, r.dispatcherFor(m), nonBubbling[event])
	}
	clear(m.handlers)
	for name := range m.props {
		if len(name) > 2 && strings.HasPrefix(name, "on") {
			delete(m.props, name)
		}
	}
}

func (r *Reconciler) dispatcherFor(m *nodeMeta) *dispatcher {
	if m.listener == nil {
		m.listener = &dispatcher{r: r, meta: m}
	}
	return m.listener
}

// dispatcher is the single listener registered per host node. It forwards
// to whatever handler the node's table currently holds.
type dispatcher struct {
	r    *Reconciler
	meta *nodeMeta
}

func (d *dispatcher) HandleEvent(e *dom.Event) {
	h := d.meta.handlers[e.Type]
	if h == nil {
		return
	}
	if d.r.opts.Event != nil {
		if ne := d.r.opts.Event(e); ne != nil {
			e = ne
		}
	}
	h(e)
}

func handlerOf(v any) func(*dom.Event) {
	switch f := v.(type) {
	case func(*dom.Event):
		return f
	case func():
		if f == nil {
			return nil
		}
		return func(*dom.Event) { f() }
	}
	return nil
}

func applyStyle(node *dom.Node, prev, value any) {
	st := node.Style()
	_, prevIsString := prev.(string)
	next := styleMap(value)

	if next == nil || prevIsString {
		s, _ := value.(string)
		st.SetCSSText(s)
	}
	if next == nil {
		return
	}
	if old := styleMap(prev); old != nil {
		for name := range old {
			if _, ok := next[name]; !ok {
				st.Set(name, "")
			}
		}
	}
	for _, name := range sortedKeys(next) {
		v := cssValue(name, next[name])
		if st.Get(name) != v {
			st.Set(name, v)
		}
	}
}

func styleMap(v any) map[string]any {
	switch m := v.(type) {
	case map[string]any:
		return m
	case vdom.Props:
		return m
	case map[string]string:
		out := make(map[string]any, len(m))
		for k, s := range m {
			out[k] = s
		}
		return out
	}
	return nil
}

func cssValue(name string, v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case string:
		return n
	case int, int32, int64, float32, float64:
		s := fmt.Sprint(n)
		if f, ok := v.(float64); ok {
			s = strconv.FormatFloat(f, 'f', -1, 64)
		}
		if unitless[name] {
			return s
		}
		return s + "px"
	}
	return fmt.Sprint(v)
}

// classValue flattens a class map into a space-separated list of truthy keys.
func classValue(v any) any {
	var names []string
	switch m := v.(type) {
	case map[string]bool:
		for k, on := range m {
			if on {
				names = append(names, k)
			}
		}
	case map[string]any:
		for k, on := range m {
			if truthy(on) {
				names = append(names, k)
			}
		}
	default:
		return v
	}
	slices.Sort(names)
	return strings.Join(names, " ")
}

func rawHTML(v any) string {
	switch h := v.(type) {
	case vdom.RawHTML:
		return h.HTML
	case *vdom.RawHTML:
		if h != nil {
			return h.HTML
		}
	case map[string]any:
		s, _ := h["__html"].(string)
		return s
	case string:
		return h
	}
	return ""
}

// attrString converts a scalar to its attribute form. Maps, slices and
// funcs are not representable and are skipped.
func attrString(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		return x, true
	case bool:
		return strconv.FormatBool(x), true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case fmt.Stringer:
		return x.String(), true
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32:
		return fmt.Sprint(v), true
	}
	return "", false
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

// sameValue compares two attribute values. Maps, slices and pointers compare
// by identity; funcs never compare equal so handler tables always pick up
// the latest closure.
func sameValue(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) {
		return false
	}
	switch ta.Kind() {
	case reflect.Func:
		return false
	case reflect.Map, reflect.Pointer:
		return reflect.ValueOf(a).UnsafePointer() == reflect.ValueOf(b).UnsafePointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
	}
	if !ta.Comparable() {
		return false
	}
	return a == b
}

// sameLive compares next with a live property value in the form the host
// stores it: a string for value-like properties, a bool for checked-like ones.
func sameLive(next, live any) bool {
	switch c := live.(type) {
	case string:
		s, ok := attrString(next)
		return ok && s == c
	case bool:
		_, ok := attrString(next)
		return ok && truthy(next) == c
	}
	return sameValue(next, live)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
