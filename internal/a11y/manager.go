package a11y

import (
	"golang.org/x/net/html"
)

// Key is a keydown event.
type Key struct {
	Name  string
	Shift bool
}

// Key names handled by the manager.
const (
	KeyTab       = "Tab"
	KeyEscape    = "Escape"
	KeyArrowDown = "ArrowDown"
	KeyArrowUp   = "ArrowUp"
	KeyHome      = "Home"
	KeyEnd       = "End"
)

// FocusTrap keeps Tab cycling inside a container.
type FocusTrap struct {
	doc       *Document
	container *html.Node
	previous  *html.Node
	released  bool
}

// TrapFocus records the focused element, focuses the first focusable inside
// container and returns the installed trap. A nil container yields a nil trap.
// When focus already sits inside container it stays put, and release returns
// focus to the first element controlling the container.
func TrapFocus(doc *Document, container *html.Node) *FocusTrap {
	if doc == nil || container == nil {
		return nil
	}
	active := doc.Active()
	if active != nil && active != container && contains(container, active) {
		t := &FocusTrap{doc: doc, container: container}
		if id, ok := Attr(container, "id"); ok {
			if ctl := doc.Controlling(id); len(ctl) > 0 {
				t.previous = ctl[0]
			}
		}
		return t
	}
	t := &FocusTrap{doc: doc, container: container, previous: active}
	if items := Focusables(container); len(items) > 0 {
		doc.Focus(items[0])
	}
	return t
}

// Container returns the trapped element.
func (t *FocusTrap) Container() *html.Node {
	if t == nil {
		return nil
	}
	return t.container
}

// HandleKey wraps Tab and Shift+Tab at the container boundaries. It reports
// whether the key was consumed.
func (t *FocusTrap) HandleKey(k Key) bool {
	if t == nil || t.released || k.Name != KeyTab {
		return false
	}
	items := Focusables(t.container)
	if len(items) == 0 {
		return true
	}
	i := indexOf(items, t.doc.Active())
	switch {
	case i < 0:
		t.doc.Focus(items[0])
	case k.Shift:
		t.doc.Focus(items[(i-1+len(items))%len(items)])
	default:
		t.doc.Focus(items[(i+1)%len(items)])
	}
	return true
}

// Release removes the interceptor and restores the recorded focus. Safe to call twice.
func (t *FocusTrap) Release() {
	if t == nil || t.released {
		return
	}
	t.released = true
	t.doc.Focus(t.previous)
}

// Manager syncs ARIA state between a trigger and the menu it controls.
// References are injected; the manager never looks elements up by class.
type Manager struct {
	Doc     *Document
	Trigger *html.Node
	Menu    *html.Node
	// OnClose runs after Escape closes the menu.
	OnClose func()

	trap *FocusTrap
}

// NewManager wires a manager to the trigger and menu with the given ids.
// Missing elements leave the corresponding reference nil.
func NewManager(doc *Document, triggerID, menuID string) *Manager {
	return &Manager{Doc: doc, Trigger: doc.ByID(triggerID), Menu: doc.ByID(menuID)}
}

// IsOpen reads the open state live from the menu's aria-hidden attribute.
func (m *Manager) IsOpen() bool {
	if m == nil || m.Menu == nil {
		return false
	}
	v, ok := Attr(m.Menu, "aria-hidden")
	return ok && v == "false"
}

// UpdateNavigationState reflects the open state in ARIA and traps or releases focus.
func (m *Manager) UpdateNavigationState(open bool) {
	if m == nil {
		return
	}
	SetAttr(m.Trigger, "aria-expanded", boolAttr(open))
	SetAttr(m.Menu, "aria-hidden", boolAttr(!open))
	if open {
		m.TrapFocus(m.Menu)
		return
	}
	m.ReleaseFocus()
}

// TrapFocus installs a focus trap on container, replacing any existing one.
func (m *Manager) TrapFocus(container *html.Node) {
	if m == nil || container == nil {
		return
	}
	if m.trap != nil {
		m.trap.Release()
	}
	m.trap = TrapFocus(m.Doc, container)
}

// ReleaseFocus removes the trap and restores focus to the element focused before it.
func (m *Manager) ReleaseFocus() {
	if m == nil || m.trap == nil {
		return
	}
	m.trap.Release()
	m.trap = nil
}

// Trapped reports whether a focus trap is installed.
func (m *Manager) Trapped() bool { return m != nil && m.trap != nil }

// HandleKey processes a keydown. Keys other than Tab act only while the menu is open.
func (m *Manager) HandleKey(k Key) bool {
	if m == nil {
		return false
	}
	if k.Name == KeyTab {
		return m.trap.HandleKey(k)
	}
	if !m.IsOpen() {
		return false
	}
	items := Focusables(m.Menu)
	switch k.Name {
	case KeyEscape:
		m.UpdateNavigationState(false)
		if m.OnClose != nil {
			m.OnClose()
		}
		return true
	case KeyArrowDown, KeyArrowUp:
		if len(items) == 0 {
			return true
		}
		i := indexOf(items, m.Doc.Active())
		switch {
		case i < 0:
			m.Doc.Focus(items[0])
		case k.Name == KeyArrowDown:
			m.Doc.Focus(items[(i+1)%len(items)])
		default:
			m.Doc.Focus(items[(i-1+len(items))%len(items)])
		}
		return true
	case KeyHome:
		if len(items) > 0 {
			m.Doc.Focus(items[0])
		}
		return true
	case KeyEnd:
		if len(items) > 0 {
			m.Doc.Focus(items[len(items)-1])
		}
		return true
	}
	return false
}

// UpdateDropdownState syncs a dropdown panel and every trigger controlling it.
func (m *Manager) UpdateDropdownState(id string, open bool) {
	if m == nil || m.Doc == nil {
		return
	}
	panel := m.Doc.ByID(id)
	if panel == nil {
		return
	}
	SetAttr(panel, "aria-hidden", boolAttr(!open))
	for _, trig := range m.Doc.Controlling(id) {
		SetAttr(trig, "aria-expanded", boolAttr(open))
	}
}

// MarkAutofocus marks the focused element so the browser restores focus on load.
func (m *Manager) MarkAutofocus() {
	if m == nil || m.Doc == nil {
		return
	}
	if n := m.Doc.Active(); n != nil {
		SetAttr(n, "autofocus", "")
	}
}

func indexOf(nodes []*html.Node, n *html.Node) int {
	if n == nil {
		return -1
	}
	for i, c := range nodes {
		if c == n {
			return i
		}
	}
	return -1
}
