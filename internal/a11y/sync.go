package a11y

// DOM ids shared by the header markup and the manager.
const (
	TriggerID = "nav-toggle"
	MenuID    = "mobile-navigation"
)

// State is the navigation state the rendered header must reflect.
type State struct {
	MobileOpen bool
	// OpenPanel is the id of the open mega menu panel, "" when none.
	OpenPanel string
	// Panels lists every mega menu panel id.
	Panels []string
	// Focus is the 1-based position of the focused control among the
	// document's focusables, 0 when the request carried none.
	Focus int
}

// Sync runs the post-render pass: ARIA attributes follow s and the focused
// element is marked autofocus. Without an explicit Focus, an open mobile menu
// focuses its first focusable.
func Sync(doc *Document, s State) *Manager {
	m := NewManager(doc, TriggerID, MenuID)
	m.UpdateNavigationState(s.MobileOpen)
	for _, id := range s.Panels {
		m.UpdateDropdownState(id, id == s.OpenPanel)
	}
	if s.Focus > 0 {
		doc.FocusAt(s.Focus)
	}
	if s.Focus > 0 || s.MobileOpen {
		m.MarkAutofocus()
	}
	return m
}
