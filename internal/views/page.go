package views

import (
	"github.com/a-h/templ"

	"opusconsulting.gr/opus-web/internal/cms"
	"opusconsulting.gr/opus-web/internal/handlers"
	"opusconsulting.gr/opus-web/internal/viewstate"
)

// DefaultPoster is shown behind hero videos until playback starts, and instead
// of them when playback is refused.
const DefaultPoster = "/hero2.png"

// Page renders a content page inside the layout.
func Page(d handlers.PageData) templ.Component {
	return Layout(d.Layout, pageBody(d))
}

func pageBody(d handlers.PageData) templ.Component {
	return component(func(w *writer) {
		p := d.Page
		hero(w, d)
		w.raw(`<article class="page">`)
		if len(p.Stats) > 0 {
			w.raw(`<ul class="stats">`)
			for _, s := range p.Stats {
				w.raw(`<li><span class="stats__value">`)
				w.text(s.Value)
				w.raw(`</span><span class="stats__label">`)
				w.text(s.Label)
				w.raw(`</span></li>`)
			}
			w.raw(`</ul>`)
		}
		w.raw(`<div class="page__body">`)
		w.render(templ.Raw(p.HTML))
		w.raw(`</div>`)
		if len(p.Timeline) > 0 {
			w.raw(`<ol class="timeline">`)
			for _, m := range p.Timeline {
				w.raw(`<li><span class="timeline__year">`)
				w.text(m.Year)
				w.raw(`</span> <strong>`)
				w.text(m.Title)
				w.raw(`</strong>`)
				if m.Text != "" {
					w.raw(`<p>`)
					w.text(m.Text)
					w.raw(`</p>`)
				}
				w.raw(`</li>`)
			}
			w.raw(`</ol>`)
		}
		w.raw(`</article>`)
	})
}

// hero renders the banner. Video is muted, inline and looping so autoplay is
// allowed; a refused autoplay leaves the poster visible. Save-Data clients get
// the still image only.
func hero(w *writer, d handlers.PageData) {
	p := d.Page
	w.raw(`<section`)
	w.classes("hero", when(d.Home, "hero--home"))
	w.raw(`>`)
	saveData := d.Root != nil && d.Root.HasClass(viewstate.ClassSaveData)
	switch {
	case p.Hero.Video != "" && !saveData:
		w.raw(`<video class="hero__video" muted autoplay loop playsinline preload="metadata"`)
		w.attr("poster", poster(p.Hero))
		w.attr("aria-label", d.T.T("hero.video"))
		w.raw(`><source`)
		w.attr("src", p.Hero.Video)
		w.raw(` type="video/mp4"></video>`)
	case p.Hero.HasMedia():
		w.raw(`<img class="hero__image" alt=""`)
		w.attr("src", poster(p.Hero))
		w.raw(`>`)
	}
	w.raw(`<div class="hero__content">`)
	if p.Hero.Badge != "" {
		w.raw(`<span class="hero__badge">`)
		w.text(p.Hero.Badge)
		w.raw(`</span>`)
	}
	w.raw(`<h1>`)
	w.text(p.Title)
	w.raw(`</h1>`)
	if p.Summary != "" {
		w.raw(`<p class="hero__summary">`)
		w.text(p.Summary)
		w.raw(`</p>`)
	}
	w.raw(`</div></section>`)
}

func poster(h cms.Hero) string {
	if h.Image != "" {
		return h.Image
	}
	return DefaultPoster
}
