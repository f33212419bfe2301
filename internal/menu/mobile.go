package menu

import (
	"sync"
	"time"

	"opusconsulting.gr/opus-web/internal/viewstate"
)

// PanelMain is the top-level panel of the mobile menu.
const PanelMain = "main"

// Animation lock windows.
const (
	DrillLock = 300 * time.Millisecond
	BackLock  = 120 * time.Millisecond
)

// MobileMenu is the drill-down panel stack of the mobile overlay.
//
// Like MegaMenu it is not safe for concurrent use; callers hold the Locker
// passed to NewMobileMenu.
type MobileMenu struct {
	open      bool
	panel     string
	animating bool
	lock      *timerSlot
	panels    map[string]struct{}
	doc       *viewstate.Document
}

// NewMobileMenu returns a closed menu with one submenu panel per key.
func NewMobileMenu(keys []string, doc *viewstate.Document, sched Scheduler, mu sync.Locker) *MobileMenu {
	if sched == nil {
		sched = SystemScheduler{}
	}
	if mu == nil {
		mu = &sync.Mutex{}
	}
	if doc == nil {
		doc = viewstate.New()
	}
	panels := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		panels[k] = struct{}{}
	}
	return &MobileMenu{
		panel:  PanelMain,
		lock:   newTimerSlot(sched, mu),
		panels: panels,
		doc:    doc,
	}
}

// IsOpen reports whether the overlay is open.
func (m *MobileMenu) IsOpen() bool { return m.open }

// Panel is the visible panel id.
func (m *MobileMenu) Panel() string { return m.panel }

// Animating reports whether a panel change is locked.
func (m *MobileMenu) Animating() bool { return m.animating }

// HasPanel reports whether key names a submenu panel.
func (m *MobileMenu) HasPanel(key string) bool {
	_, ok := m.panels[key]
	return ok
}

// Open shows the overlay on the main panel and locks body scroll.
func (m *MobileMenu) Open() {
	m.reset()
	m.open = true
	m.doc.LockScroll()
}

// Close hides the overlay, resets the panel and unlocks body scroll.
func (m *MobileMenu) Close() {
	m.reset()
	m.open = false
	m.doc.UnlockScroll()
}

// Toggle flips the overlay.
func (m *MobileMenu) Toggle() {
	if m.open {
		m.Close()
		return
	}
	m.Open()
}

// Drill enters the submenu for key. It reports false when ignored: closed,
// locked, already on a submenu, or an unknown key.
func (m *MobileMenu) Drill(key string) bool {
	if !m.open || m.animating || m.panel != PanelMain || !m.HasPanel(key) {
		return false
	}
	m.panel = key
	m.startLock(DrillLock)
	return true
}

// Back returns to the main panel. It reports false when ignored.
func (m *MobileMenu) Back() bool {
	if !m.open || m.animating || m.panel == PanelMain {
		return false
	}
	m.panel = PanelMain
	m.startLock(BackLock)
	return true
}

// Escape goes back from a submenu, or closes the overlay from main.
func (m *MobileMenu) Escape() {
	if !m.open {
		return
	}
	if m.panel != PanelMain {
		m.Back()
		return
	}
	m.Close()
}

// Select closes the overlay and returns the navigation target.
func (m *MobileMenu) Select(href string) string {
	m.Close()
	return href
}

func (m *MobileMenu) startLock(d time.Duration) {
	m.animating = true
	m.lock.set(d, func() { m.animating = false })
}

func (m *MobileMenu) reset() {
	m.lock.stop()
	m.animating = false
	m.panel = PanelMain
}

// restore places the menu on a panel without animating.
func (m *MobileMenu) restore(open bool, panel string) {
	m.reset()
	m.open = open
	if open {
		m.doc.LockScroll()
		if panel != "" {
			m.panel = panel
		}
	}
}

// release stops the lock timer and writes the default overflow.
func (m *MobileMenu) release() {
	m.lock.stop()
	m.animating = false
	m.doc.UnlockScroll()
}
