// Package views renders the site's HTML. Components are templ.Components built
// from the view models in internal/handlers.
package views

import (
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
)

// EventsPath is the endpoint header forms post their events to.
const EventsPath = "/nav/events"

// writer accumulates the first write error so markup code stays linear.
type writer struct {
	ctx context.Context
	out io.Writer
	err error
}

func component(f func(w *writer)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		w := &writer{ctx: ctx, out: out}
		f(w)
		return w.err
	})
}

func (w *writer) raw(parts ...string) {
	for _, s := range parts {
		if w.err != nil {
			return
		}
		_, w.err = io.WriteString(w.out, s)
	}
}

func (w *writer) text(s string) { w.raw(templ.EscapeString(s)) }

func (w *writer) attr(name, value string) {
	w.raw(" ", name, `="`, templ.EscapeString(value), `"`)
}

func (w *writer) attrIf(name, value string) {
	if value != "" {
		w.attr(name, value)
	}
}

func (w *writer) flag(name string, on bool) {
	if on {
		w.raw(" ", name)
	}
}

func (w *writer) classes(names ...string) {
	var kept []string
	for _, n := range names {
		if n != "" {
			kept = append(kept, n)
		}
	}
	w.attrIf("class", strings.Join(kept, " "))
}

func (w *writer) hidden(name, value string) {
	w.raw(`<input type="hidden"`)
	w.attr("name", name)
	w.attr("value", value)
	w.raw(">")
}

func (w *writer) render(c templ.Component) {
	if w.err != nil || c == nil {
		return
	}
	w.err = c.Render(w.ctx, w.out)
}

func ariaBool(v bool) string { return strconv.FormatBool(v) }

func when(cond bool, s string) string {
	if cond {
		return s
	}
	return ""
}

// jsonAttr encodes v for hx-vals and hx-headers.
func jsonAttr(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}
