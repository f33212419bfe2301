package views

import (
	"github.com/a-h/templ"

	"opusconsulting.gr/opus-web/internal/handlers"
)

// ErrorPage renders a localized error inside the full layout, so navigation
// stays available on 404 and 500 pages.
func ErrorPage(d handlers.ErrorData) templ.Component {
	return Layout(d.Layout, component(func(w *writer) {
		w.raw(`<article class="page error-page"><h1>`)
		w.text(d.Heading)
		w.raw(`</h1><p>`)
		w.text(d.Body)
		w.raw(`</p><a class="error-page__home"`)
		w.attr("href", d.Home)
		w.raw(`>`)
		w.text(d.T.T("error.home"))
		w.raw(`</a></article>`)
	}))
}
