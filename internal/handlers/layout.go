package handlers

import (
	"opusconsulting.gr/opus-web/internal/a11y"
	"opusconsulting.gr/opus-web/internal/i18n"
	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/menu"
	"opusconsulting.gr/opus-web/internal/nav"
	"opusconsulting.gr/opus-web/internal/viewstate"
)

// Request carries the per-request inputs every view model is built from.
type Request struct {
	Path   string
	State  menu.State
	Root   *viewstate.Document
	CSRF   string
	Bundle *i18n.Bundle
}

// Layout holds the fields shared by every page.
type Layout struct {
	Lang  lang.Language
	Path  string
	Title string
	T     i18n.Translator
	Root  *viewstate.Document
	CSRF  string

	Header      Header
	Breadcrumbs []nav.Crumb
}

// NewLayout builds the shared layout for a page titled title. The site name is
// appended to the document title.
func NewLayout(req Request, title string) Layout {
	l := lang.Resolve(req.Path)
	t := req.Bundle.For(l)
	root := req.Root
	if root == nil {
		root = viewstate.New()
	}
	root.SetClass(viewstate.ClassMenuOpen, req.State.MobileOpen)

	full := t.T("site.name")
	if title != "" && title != full {
		full = title + " | " + full
	}
	var crumbs []nav.Crumb
	if lang.StripPrefix(req.Path) != "/" {
		crumbs = nav.Breadcrumbs(req.Path)
	}
	return Layout{
		Lang:        l,
		Path:        req.Path,
		Title:       full,
		T:           t,
		Root:        root,
		CSRF:        req.CSRF,
		Header:      BuildHeader(req.Path, req.State, root.InFallback(), req.CSRF, t),
		Breadcrumbs: crumbs,
	}
}

// Header is the view model of the site header: desktop navigation, mega menus,
// hamburger, mobile menu and language switcher.
type Header struct {
	Lang     lang.Language
	Path     string
	Items    []nav.Item
	State    menu.State
	Fallback bool
	CSRF     string
	T        i18n.Translator
	Switcher []SwitcherOption
	// Focus is the 1-based position of the header control to focus after
	// a key event, 0 for none.
	Focus int
}

// SwitcherOption is a language switcher entry with its target link.
type SwitcherOption struct {
	menu.LanguageOption
	Href    string
	Current bool
}

// BuildHeader projects the navigation for path and binds the menu state.
func BuildHeader(path string, st menu.State, fallback bool, csrf string, t i18n.Translator) Header {
	l := lang.Resolve(path)
	opts := make([]SwitcherOption, 0, len(menu.LanguageOptions))
	for _, o := range menu.LanguageOptions {
		opts = append(opts, SwitcherOption{
			LanguageOption: o,
			Href:           lang.Switch(path, o.Lang),
			Current:        o.Lang == l,
		})
	}
	if fallback {
		// fallback renders closed, CSS drives the menus
		st = menu.State{Scrolled: st.Scrolled, Width: st.Width}
	}
	return Header{
		Lang:     l,
		Path:     path,
		Items:    nav.Build(path),
		State:    st,
		Fallback: fallback,
		CSRF:     csrf,
		T:        t,
		Switcher: opts,
	}
}

// Current returns the switcher entry of the page language.
func (h Header) Current() SwitcherOption {
	for _, o := range h.Switcher {
		if o.Current {
			return o
		}
	}
	return SwitcherOption{LanguageOption: menu.OptionFor(h.Lang)}
}

// Dropdowns returns the items that carry a mega menu.
func (h Header) Dropdowns() []nav.Item {
	var out []nav.Item
	for _, it := range h.Items {
		if it.HasDropdown() {
			out = append(out, it)
		}
	}
	return out
}

// MobilePanel is the visible mobile panel.
func (h Header) MobilePanel() string {
	if !h.State.MobileOpen || h.State.Panel == "" {
		return menu.PanelMain
	}
	return h.State.Panel
}

// A11yState is the state the post-render ARIA pass applies.
func (h Header) A11yState() a11y.State {
	s := a11y.State{MobileOpen: h.State.MobileOpen, Focus: h.Focus}
	for _, it := range h.Dropdowns() {
		s.Panels = append(s.Panels, it.PanelID())
	}
	if h.State.ActiveDropdown != "" {
		s.OpenPanel = nav.PanelID(h.State.ActiveDropdown)
	}
	return s
}
