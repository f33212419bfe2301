package views

import (
	"time"

	"github.com/a-h/templ"

	"opusconsulting.gr/opus-web/internal/handlers"
	"opusconsulting.gr/opus-web/internal/middleware"
	"opusconsulting.gr/opus-web/internal/nav"
)

// HTMXScript is the htmx build the layout loads.
const HTMXScript = "https://unpkg.com/htmx.org@1.9.12"

// Layout wraps body in the document shell: root classes and style from the
// view state, the header, breadcrumbs and the footer.
func Layout(lay handlers.Layout, body templ.Component) templ.Component {
	return component(func(w *writer) {
		w.raw(`<!DOCTYPE html><html`)
		w.attr("lang", lay.Lang.String())
		w.attrIf("class", lay.Root.ClassAttr())
		w.attrIf("style", lay.Root.StyleAttr())
		w.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		w.text(lay.Title)
		w.raw(`</title><link rel="icon" href="/favicon.png"><link rel="stylesheet" href="/assets/site.css">`)
		w.raw(`<script>document.documentElement.classList.remove("no-js")</script>`)
		w.raw(`<script defer`)
		w.attr("src", HTMXScript)
		w.raw(`></script></head><body`)
		w.attrIf("style", lay.Root.BodyStyleAttr())
		w.attr("hx-headers", jsonAttr(map[string]string{middleware.CSRFHeader: lay.CSRF}))
		w.raw(`><a class="skip-link" href="#main">`)
		w.text(lay.T.T("skip.link"))
		w.raw(`</a>`)

		w.render(Header(lay.Header))
		w.render(Breadcrumbs(lay))
		w.raw(`<main id="main" tabindex="-1">`)
		w.render(body)
		w.raw(`</main>`)
		footer(w, lay)
		w.raw(`</body></html>`)
	})
}

func footer(w *writer, lay handlers.Layout) {
	w.raw(`<footer class="site-footer"><div class="site-footer__inner"><p>&copy; `)
	w.text(time.Now().Format("2006"))
	w.raw(` `)
	w.text(lay.T.T("site.name"))
	w.raw(`. `)
	w.text(lay.T.T("footer.rights"))
	w.raw(`</p><a class="back-to-top" href="#main">`)
	w.text(lay.T.T("footer.top"))
	w.raw(`</a></div></footer>`)
}

// Breadcrumbs renders the trail. Crumbs without a link render as text.
func Breadcrumbs(lay handlers.Layout) templ.Component {
	return component(func(w *writer) {
		if len(lay.Breadcrumbs) == 0 {
			return
		}
		w.raw(`<nav class="breadcrumbs"`)
		w.attr("aria-label", lay.T.T("breadcrumbs.label"))
		w.raw(`><ol>`)
		for _, c := range lay.Breadcrumbs {
			w.raw(`<li>`)
			crumb(w, c)
			w.raw(`</li>`)
		}
		w.raw(`</ol></nav>`)
	})
}

func crumb(w *writer, c nav.Crumb) {
	if c.Href == "" {
		w.raw(`<span>`)
		w.text(c.Label)
		w.raw(`</span>`)
		return
	}
	w.raw(`<a`)
	w.attr("href", c.Href)
	if c.Active {
		w.attr("aria-current", "page")
	}
	w.raw(`>`)
	w.text(c.Label)
	w.raw(`</a>`)
}
