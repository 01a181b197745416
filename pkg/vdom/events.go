package vdom

import (
	"strings"

	"github.com/vango-dev/retained/pkg/dom"
)

// On attaches a handler for any event type: On("click", h) sets "onClick".
func On(event string, handler func(*dom.Event)) Attr {
	if event == "" {
		return Attr{}
	}
	return attr("on"+strings.ToUpper(event[:1])+event[1:], handler)
}

// OnClick handles click events.
func OnClick(handler func(*dom.Event)) Attr { return attr("onClick", handler) }

// OnInput handles input events (fired when value changes).
func OnInput(handler func(*dom.Event)) Attr { return attr("onInput", handler) }

// OnChange handles change events (fired when value is committed).
func OnChange(handler func(*dom.Event)) Attr { return attr("onChange", handler) }

// OnSubmit handles form submission.
func OnSubmit(handler func(*dom.Event)) Attr { return attr("onSubmit", handler) }

// OnKeyDown handles keydown events.
func OnKeyDown(handler func(*dom.Event)) Attr { return attr("onKeyDown", handler) }

// OnFocus handles focus events. Focus does not bubble and is registered in
// capture mode.
func OnFocus(handler func(*dom.Event)) Attr { return attr("onFocus", handler) }

// OnBlur handles blur events.
func OnBlur(handler func(*dom.Event)) Attr { return attr("onBlur", handler) }

// OnScroll handles scroll events.
func OnScroll(handler func(*dom.Event)) Attr { return attr("onScroll", handler) }
