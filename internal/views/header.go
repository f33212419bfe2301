package views

import (
	"bytes"
	"context"
	"io"

	"github.com/a-h/templ"

	"opusconsulting.gr/opus-web/internal/a11y"
	"opusconsulting.gr/opus-web/internal/handlers"
	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/menu"
	"opusconsulting.gr/opus-web/internal/middleware"
	"opusconsulting.gr/opus-web/internal/nav"
)

// HeaderID is the id htmx swaps header fragments into.
const HeaderID = "site-header"

// Header renders the site header and runs the ARIA pass over it. In fallback
// mode the markup is emitted as is: menus are CSS driven and carry no state.
func Header(h handlers.Header) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, out io.Writer) error {
		if h.Fallback {
			return headerMarkup(h).Render(ctx, out)
		}
		doc, err := HeaderDocument(ctx, h)
		if err != nil {
			return err
		}
		return doc.Render(out)
	})
}

// HeaderDocument renders the header into a tree after the ARIA pass. Key
// events replay against it to move focus.
func HeaderDocument(ctx context.Context, h handlers.Header) (*a11y.Document, error) {
	var buf bytes.Buffer
	if err := headerMarkup(h).Render(ctx, &buf); err != nil {
		return nil, err
	}
	doc, err := a11y.ParseFragment(&buf)
	if err != nil {
		return nil, err
	}
	a11y.Sync(doc, h.A11yState())
	return doc, nil
}

func headerMarkup(h handlers.Header) templ.Component {
	return component(func(w *writer) {
		w.raw(`<header`)
		w.attr("id", HeaderID)
		w.classes("site-header", when(h.State.Scrolled, "is-scrolled"), when(h.Fallback, "site-header--fallback"))
		if keys := focusKeys(h); len(keys) > 0 {
			// the server moves focus for these keys, the browser must not
			w.attr("hx-on:keydown", "if("+jsonAttr(keys)+".includes(event.key)) event.preventDefault()")
		}
		w.raw(`><div class="site-header__bar">`)
		w.raw(`<a class="site-header__brand"`)
		w.attr("href", lang.AddPrefix("/", h.Lang))
		w.raw(`>`)
		w.text(h.T.T("site.name"))
		w.raw(`</a>`)

		w.raw(`<nav class="site-header__nav"`)
		w.attr("aria-label", h.T.T("nav.label"))
		w.raw(`><ul class="nav-list">`)
		for _, it := range h.Items {
			navItem(w, h, it)
		}
		w.raw(`</ul></nav>`)

		w.render(LanguageSwitcher(h))
		if !h.Fallback {
			w.render(Hamburger(h))
		}
		w.raw(`</div>`)

		if h.Fallback {
			fallbackMobile(w, h)
			w.raw(`<p class="sr-only" role="status" aria-live="polite">`)
			w.text(h.T.T("nav.fallback"))
			w.raw(`</p>`)
		} else {
			w.render(MobileMenu(h))
			sensors(w, h)
		}
		w.raw(`</header>`)
	})
}

func navItem(w *writer, h handlers.Header, it nav.Item) {
	if !it.HasDropdown() {
		w.raw(`<li class="nav-item">`)
		navLink(w, h, it, "nav-link")
		w.raw(`</li>`)
		return
	}
	w.raw(`<li class="nav-item has-dropdown">`)
	trigger := func() {
		w.raw(`<button`)
		if h.Fallback {
			w.attr("type", "button")
		} else {
			w.attr("type", "submit")
		}
		w.classes("nav-trigger", when(dropdownActive(it), "is-active"))
		w.attr("aria-controls", it.PanelID())
		w.attr("aria-expanded", "false")
		w.attr("aria-haspopup", "true")
		w.raw(`>`)
		w.text(it.Label)
		w.raw(`</button>`)
	}
	if h.Fallback {
		trigger()
	} else {
		eventForm(w, h, [][2]string{{"event", string(menu.EventClickItem)}, {"key", it.Key}}, trigger)
	}
	w.render(MegaMenu(it, !h.Fallback && h.State.ActiveDropdown == it.Key))
	w.raw(`</li>`)
}

func navLink(w *writer, h handlers.Header, it nav.Item, class string) {
	w.raw(`<a`)
	w.attr("class", class)
	w.attr("href", it.Href)
	if it.Active {
		w.attr("aria-current", "page")
	}
	if it.External {
		w.attr("target", "_blank")
		w.attr("rel", "noopener noreferrer")
	}
	w.raw(`>`)
	w.text(it.Label)
	if it.External {
		w.raw(`<span class="sr-only"> (`)
		w.text(h.T.T("nav.external"))
		w.raw(`)</span>`)
	}
	w.raw(`</a>`)
}

func dropdownActive(it nav.Item) bool {
	if it.Dropdown == nil {
		return false
	}
	for _, col := range it.Dropdown.Columns {
		for _, l := range col.Links {
			if l.Active {
				return true
			}
		}
	}
	return it.Active
}

// MegaMenu renders the dropdown panel of it. Grid and stacked layouts share the
// markup and differ by modifier class.
func MegaMenu(it nav.Item, open bool) templ.Component {
	return component(func(w *writer) {
		if it.Dropdown == nil {
			return
		}
		d := it.Dropdown
		w.raw(`<div`)
		w.attr("id", it.PanelID())
		w.classes("mega-menu", "mega-menu--"+string(d.Layout))
		w.attr("role", "region")
		w.attr("aria-label", d.Title)
		w.attr("aria-hidden", ariaBool(!open))
		w.attr("data-layout", string(d.Layout))
		w.raw(`><div class="mega-menu__inner"><p class="mega-menu__title">`)
		w.text(d.Title)
		w.raw(`</p><div class="mega-menu__columns">`)
		for _, col := range d.Columns {
			w.raw(`<div class="mega-menu__column">`)
			if col.Title != "" {
				w.raw(`<h3 class="mega-menu__heading">`)
				w.text(col.Title)
				w.raw(`</h3>`)
			}
			w.raw(`<ul class="mega-menu__links">`)
			for _, l := range col.Links {
				w.raw(`<li><a`)
				w.classes("mega-menu__link", when(l.Active, "is-active"))
				w.attr("href", l.Href)
				if l.Active {
					w.attr("aria-current", "page")
				}
				w.raw(`><span class="mega-menu__name">`)
				w.text(l.Title)
				w.raw(`</span>`)
				if l.Description != "" {
					w.raw(`<span class="mega-menu__desc">`)
					w.text(l.Description)
					w.raw(`</span>`)
				}
				w.raw(`</a></li>`)
			}
			w.raw(`</ul></div>`)
		}
		w.raw(`</div></div></div>`)
	})
}

// Hamburger renders the mobile menu toggle. It holds no state of its own.
func Hamburger(h handlers.Header) templ.Component {
	return component(func(w *writer) {
		open := h.State.MobileOpen
		label := h.T.T("nav.toggle.open")
		if open {
			label = h.T.T("nav.toggle.close")
		}
		eventForm(w, h, [][2]string{{"event", string(menu.EventToggleMobile)}}, func() {
			w.raw(`<button`)
			w.attr("id", a11y.TriggerID)
			w.attr("type", "submit")
			w.classes("hamburger", when(open, "is-open"))
			w.attr("aria-controls", a11y.MenuID)
			w.attr("aria-expanded", ariaBool(open))
			w.attr("aria-label", label)
			w.raw(`><span class="hamburger__bar"></span><span class="hamburger__bar"></span><span class="hamburger__bar"></span></button>`)
		})
	})
}

// MobileMenu renders the overlay with its visible panel only, so the focus
// trap sees exactly the reachable controls.
func MobileMenu(h handlers.Header) templ.Component {
	return component(func(w *writer) {
		panel := h.MobilePanel()
		w.raw(`<div`)
		w.attr("id", a11y.MenuID)
		w.classes("mobile-nav", when(h.State.Animating, "is-animating"))
		w.attr("role", "dialog")
		w.attr("aria-modal", "true")
		w.attr("aria-label", h.T.T("nav.label"))
		w.attr("aria-hidden", ariaBool(!h.State.MobileOpen))
		w.attr("data-panel", panel)
		w.raw(`>`)
		if panel == menu.PanelMain {
			mobileMain(w, h)
		} else if it, ok := nav.Find(h.Items, panel); ok && it.HasDropdown() {
			mobileSubmenu(w, h, it)
		} else {
			mobileMain(w, h)
		}
		w.raw(`</div>`)
	})
}

func mobileMain(w *writer, h handlers.Header) {
	w.raw(`<ul class="mobile-nav__panel" id="mobile-panel-main">`)
	for _, it := range h.Items {
		w.raw(`<li>`)
		if it.HasDropdown() {
			eventForm(w, h, [][2]string{{"event", string(menu.EventDrill)}, {"key", it.Key}}, func() {
				w.raw(`<button type="submit" class="mobile-nav__drill">`)
				w.text(it.Label)
				w.raw(`</button>`)
			})
		} else if it.External {
			navLink(w, h, it, "mobile-nav__link")
		} else {
			selectLink(w, h, it.Href, it.Label, it.Active)
		}
		w.raw(`</li>`)
	}
	w.raw(`</ul>`)
}

func mobileSubmenu(w *writer, h handlers.Header, it nav.Item) {
	w.raw(`<div class="mobile-nav__panel"`)
	w.attr("id", "mobile-panel-"+it.Key)
	w.raw(`>`)
	eventForm(w, h, [][2]string{{"event", string(menu.EventBack)}}, func() {
		w.raw(`<button type="submit" class="mobile-nav__back">`)
		w.text(h.T.T("nav.back"))
		w.raw(`</button>`)
	})
	w.raw(`<h2 class="mobile-nav__title">`)
	w.text(it.Dropdown.Title)
	w.raw(`</h2>`)
	for _, col := range it.Dropdown.Columns {
		if col.Title != "" {
			w.raw(`<h3 class="mobile-nav__heading">`)
			w.text(col.Title)
			w.raw(`</h3>`)
		}
		w.raw(`<ul class="mobile-nav__links">`)
		for _, l := range col.Links {
			w.raw(`<li>`)
			selectLink(w, h, l.Href, l.Title, l.Active)
			w.raw(`</li>`)
		}
		w.raw(`</ul>`)
	}
	w.raw(`</div>`)
}

// selectLink is a plain link that, with htmx, reports the selection so the
// overlay closes before navigating.
func selectLink(w *writer, h handlers.Header, href, label string, active bool) {
	w.raw(`<a`)
	w.classes("mobile-nav__link", when(active, "is-active"))
	w.attr("href", href)
	if active {
		w.attr("aria-current", "page")
	}
	w.attr("hx-post", EventsPath)
	w.attr("hx-vals", jsonAttr(map[string]string{
		"event":     string(menu.EventSelect),
		"href":      href,
		"return_to": h.Path,
	}))
	w.raw(`>`)
	w.text(label)
	w.raw(`</a>`)
}

// fallbackMobile is the CSS only mobile navigation.
func fallbackMobile(w *writer, h handlers.Header) {
	w.raw(`<details class="mobile-fallback"><summary>`)
	w.text(h.T.T("nav.toggle.open"))
	w.raw(`</summary><ul>`)
	for _, it := range h.Items {
		w.raw(`<li>`)
		if !it.HasDropdown() {
			navLink(w, h, it, "mobile-nav__link")
			w.raw(`</li>`)
			continue
		}
		w.raw(`<span class="mobile-nav__heading">`)
		w.text(it.Label)
		w.raw(`</span><ul>`)
		for _, col := range it.Dropdown.Columns {
			for _, l := range col.Links {
				w.raw(`<li><a class="mobile-nav__link"`)
				w.attr("href", l.Href)
				w.raw(`>`)
				w.text(l.Title)
				w.raw(`</a></li>`)
			}
		}
		w.raw(`</ul></li>`)
	}
	w.raw(`</ul></details>`)
}

// LanguageSwitcher renders the switcher. Options are plain links to the
// current page in the other language.
func LanguageSwitcher(h handlers.Header) templ.Component {
	return component(func(w *writer) {
		open := h.State.SwitcherOpen
		cur := h.Current()
		w.raw(`<div class="lang-switcher">`)
		toggle := func() {
			w.raw(`<button`)
			if h.Fallback {
				w.attr("type", "button")
			} else {
				w.attr("type", "submit")
			}
			w.attr("class", "lang-switcher__toggle")
			w.attr("aria-controls", "lang-switcher-list")
			w.attr("aria-expanded", ariaBool(open))
			w.attr("aria-label", h.T.T("switcher.label"))
			w.raw(`>`)
			flag(w, cur.LanguageOption)
			w.text(cur.Label)
			w.raw(`</button>`)
		}
		if h.Fallback {
			toggle()
		} else {
			eventForm(w, h, [][2]string{{"event", string(menu.EventSwitcherToggle)}}, toggle)
		}
		w.raw(`<ul id="lang-switcher-list" class="lang-switcher__list"`)
		w.attr("aria-hidden", ariaBool(!open))
		w.raw(`>`)
		for _, o := range h.Switcher {
			w.raw(`<li><a`)
			w.attr("href", o.Href)
			w.attr("hreflang", o.Lang.String())
			w.attr("lang", o.Lang.String())
			if o.Current {
				w.attr("aria-current", "true")
			}
			w.raw(`>`)
			flag(w, o.LanguageOption)
			w.text(o.Label)
			w.raw(`</a></li>`)
		}
		w.raw(`</ul></div>`)
	})
}

func flag(w *writer, o menu.LanguageOption) {
	w.raw(`<img`)
	w.attr("src", o.Flag)
	w.attr("alt", "")
	w.attr("width", "24")
	w.attr("height", "16")
	w.raw(`> `)
}

// focusKeys lists the keys whose focus movement the server replays: Tab
// inside an open mega menu, Tab and the arrow keys inside the mobile menu.
func focusKeys(h handlers.Header) []string {
	switch {
	case h.Fallback:
		return nil
	case h.State.MobileOpen:
		return []string{a11y.KeyTab, a11y.KeyArrowDown, a11y.KeyArrowUp, a11y.KeyHome, a11y.KeyEnd}
	case h.State.ActiveDropdown != "":
		return []string{a11y.KeyTab}
	}
	return nil
}

// eventForm wraps content in a form posting one header event. Without
// JavaScript the form submits normally and the server redirects back.
func eventForm(w *writer, h handlers.Header, fields [][2]string, content func()) {
	w.raw(`<form class="nav-form" method="post"`)
	w.attr("action", EventsPath)
	w.attr("hx-post", EventsPath)
	w.attr("hx-target", "#"+HeaderID)
	w.attr("hx-swap", "outerHTML")
	w.raw(`>`)
	w.hidden(middleware.CSRFFormField, h.CSRF)
	w.hidden("return_to", h.Path)
	for _, f := range fields {
		w.hidden(f[0], f[1])
	}
	content()
	w.raw(`</form>`)
}

// sensors report window scroll, resize and dismiss gestures through htmx.
func sensors(w *writer, h handlers.Header) {
	path := jsonAttr(h.Path)
	sensor := func(trigger, vals string) {
		w.raw(`<span class="nav-sensor" hidden`)
		w.attr("hx-post", EventsPath)
		w.attr("hx-target", "#"+HeaderID)
		w.attr("hx-swap", "outerHTML")
		w.attr("hx-trigger", trigger)
		w.attr("hx-vals", "js:{"+vals+", return_to: "+path+"}")
		w.raw(`></span>`)
	}
	sensor("scroll from:window throttle:250ms",
		`event: "scroll", scroll: Math.round(window.scrollY)`)
	sensor("resize from:window throttle:250ms",
		`event: "resize", width: window.innerWidth`)

	focus := "focus: Array.from(document.querySelectorAll(" +
		jsonAttr("#"+HeaderID+" :is("+a11y.FocusableSelector+")") +
		")).indexOf(document.activeElement) + 1"

	st := h.State
	if st.ActiveDropdown != "" || st.MobileOpen || st.SwitcherOpen {
		sensor(`keyup[key=='Escape'] from:body`, `event: "key", keyname: "Escape", `+focus)
	}
	inHeader := "&&event.target.closest('#" + HeaderID + "')"
	for _, k := range focusKeys(h) {
		if k == a11y.KeyTab {
			sensor(`keydown[key=='Tab'&&!shiftKey`+inHeader+`] from:body`,
				`event: "key", keyname: "Tab", `+focus)
			sensor(`keydown[key=='Tab'&&shiftKey`+inHeader+`] from:body`,
				`event: "key", keyname: "Tab", shift: true, `+focus)
			continue
		}
		sensor(`keydown[key=='`+k+`'`+inHeader+`] from:body`,
			`event: "key", keyname: `+jsonAttr(k)+`, `+focus)
	}
	if st.ActiveDropdown != "" || st.SwitcherOpen {
		sensor(`click[!event.target.closest('#`+HeaderID+`')] from:body`,
			`event: "click-outside", target: "outside"`)
	}
}
