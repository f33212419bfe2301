package views

import (
	"strconv"

	"github.com/a-h/templ"

	"opusconsulting.gr/opus-web/internal/handlers"
)

// SearchResultsID is the id of the swappable results fragment.
const SearchResultsID = "search-results"

// SearchPage renders the search form and its results.
func SearchPage(d handlers.SearchData) templ.Component {
	return Layout(d.Layout, component(func(w *writer) {
		w.raw(`<article class="page search-page"><h1>`)
		w.text(d.T.T("search.title"))
		w.raw(`</h1><form class="search-form" role="search" method="get"`)
		w.attr("action", d.Action)
		w.raw(`><label class="sr-only" for="search-input">`)
		w.text(d.T.T("search.label"))
		w.raw(`</label><input id="search-input" type="search" name="q" autocomplete="off"`)
		w.attr("value", d.Query)
		w.attr("placeholder", d.T.T("search.placeholder"))
		w.attr("hx-get", d.Action)
		w.attr("hx-trigger", "keyup changed delay:300ms, search")
		w.attr("hx-target", "#"+SearchResultsID)
		w.attr("hx-swap", "outerHTML")
		w.raw(`><button type="submit">`)
		w.text(d.T.T("search.submit"))
		w.raw(`</button></form>`)
		w.render(SearchResults(d))
		w.raw(`</article>`)
	}))
}

// SearchResults renders the results fragment returned to htmx requests.
func SearchResults(d handlers.SearchData) templ.Component {
	return component(func(w *writer) {
		w.raw(`<div`)
		w.attr("id", SearchResultsID)
		w.raw(` aria-live="polite">`)
		switch {
		case d.Results.Term == "":
			w.raw(`<p class="search-results__empty">`)
			w.text(d.T.T("search.empty"))
			w.raw(`</p>`)
		case len(d.Results.Hits) == 0:
			w.raw(`<p class="search-results__none">`)
			w.text(d.T.T("search.none"))
			w.raw(`</p>`)
		default:
			w.raw(`<p class="search-results__summary">`)
			w.text(d.T.T("search.results"))
			w.raw(`: `, strconv.Itoa(d.Results.Total), `</p><ul class="search-results">`)
			for _, h := range d.Results.Hits {
				w.raw(`<li><a`)
				w.attr("href", h.URL)
				if h.External {
					w.attr("target", "_blank")
					w.attr("rel", "noopener noreferrer")
				}
				w.raw(`>`)
				w.text(h.Title)
				w.raw(`</a>`)
				if h.Category != "" && h.Category != h.Title {
					w.raw(` <span class="search-results__category">`)
					w.text(h.Category)
					w.raw(`</span>`)
				}
				if h.Description != "" {
					w.raw(`<p>`)
					w.text(h.Description)
					w.raw(`</p>`)
				}
				w.raw(`</li>`)
			}
			w.raw(`</ul>`)
		}
		w.raw(`</div>`)
	})
}
