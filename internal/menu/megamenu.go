// Package menu implements the header navigation state machines: the desktop
// mega menus, the mobile drill-down menu, the language switcher and the header
// that orchestrates them.
package menu

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"opusconsulting.gr/opus-web/internal/a11y"
	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/nav"
)

// Timing rules of the header.
const (
	HoverIntentDelay   = 200 * time.Millisecond
	CloseDebounceDelay = 150 * time.Millisecond
	ScrollThreshold    = 50
	DesktopBreakpoint  = 1180
)

var (
	// ErrIllegalTransition is returned when a phase change is not in the legality table.
	ErrIllegalTransition = errors.New("illegal menu transition")
	// ErrUnknownDropdown is returned for keys that name no dropdown.
	ErrUnknownDropdown = errors.New("unknown dropdown")
)

// Phase is a mega menu state.
type Phase uint8

const (
	PhaseClosed Phase = iota
	PhaseOpening
	PhaseOpen
	PhaseClosing
)

func (p Phase) String() string {
	switch p {
	case PhaseClosed:
		return "closed"
	case PhaseOpening:
		return "opening"
	case PhaseOpen:
		return "open"
	case PhaseClosing:
		return "closing"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Visible reports whether the panel is shown in this phase.
func (p Phase) Visible() bool { return p == PhaseOpen || p == PhaseClosing }

var legal = map[Phase][]Phase{
	PhaseClosed:  {PhaseOpening, PhaseOpen},
	PhaseOpening: {PhaseOpen, PhaseClosed},
	PhaseOpen:    {PhaseClosing, PhaseClosed},
	PhaseClosing: {PhaseOpen, PhaseClosed},
}

// Legal reports whether from -> to is in the transition table.
func Legal(from, to Phase) bool {
	for _, p := range legal[from] {
		if p == to {
			return true
		}
	}
	return false
}

// Target is where the pointer went when it left a region.
type Target string

const (
	TargetOutside  Target = "outside"
	TargetGap      Target = "gap"
	TargetNavItem  Target = "nav-item"
	TargetMegaMenu Target = "mega-menu"
)

// ParseTarget maps a form value to a Target. Unknown values are outside.
func ParseTarget(s string) Target {
	switch Target(s) {
	case TargetGap, TargetNavItem, TargetMegaMenu:
		return Target(s)
	default:
		return TargetOutside
	}
}

// MegaMenu is the phase machine of one dropdown-bearing nav item.
//
// A MegaMenu is not safe for concurrent use. Callers hold the Locker passed to
// NewMegaMenu around every method call; timer callbacks take it themselves.
type MegaMenu struct {
	key    string
	layout nav.Layout
	phase  Phase

	intent *timerSlot
	close  *timerSlot

	doc  *a11y.Document
	trap *a11y.FocusTrap

	onOpen func(*MegaMenu)
	logger *zap.Logger
}

// MegaMenuOption configures a MegaMenu.
type MegaMenuOption func(*MegaMenu)

// WithFocusDocument enables the panel focus trap against doc.
func WithFocusDocument(doc *a11y.Document) MegaMenuOption {
	return func(m *MegaMenu) { m.doc = doc }
}

// WithOnOpen registers a hook run after the menu reaches the open phase.
func WithOnOpen(f func(*MegaMenu)) MegaMenuOption {
	return func(m *MegaMenu) { m.onOpen = f }
}

// WithMegaMenuLogger sets the logger used for transitions.
func WithMegaMenuLogger(l *zap.Logger) MegaMenuOption {
	return func(m *MegaMenu) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMegaMenu returns a closed menu for the dropdown key.
func NewMegaMenu(key string, layout nav.Layout, sched Scheduler, mu sync.Locker, opts ...MegaMenuOption) *MegaMenu {
	if sched == nil {
		sched = SystemScheduler{}
	}
	if mu == nil {
		mu = &sync.Mutex{}
	}
	m := &MegaMenu{
		key:    key,
		layout: layout,
		intent: newTimerSlot(sched, mu),
		close:  newTimerSlot(sched, mu),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key is the dropdown key.
func (m *MegaMenu) Key() string { return m.key }

// Layout is the column arrangement.
func (m *MegaMenu) Layout() nav.Layout { return m.layout }

// Phase is the current phase.
func (m *MegaMenu) Phase() Phase { return m.phase }

// PanelID is the DOM id of the panel.
func (m *MegaMenu) PanelID() string { return nav.PanelID(m.key) }

// IntentPending reports whether the hover-intent timer is live.
func (m *MegaMenu) IntentPending() bool { return m.intent.pending() }

// ClosePending reports whether the close-debounce timer is live.
func (m *MegaMenu) ClosePending() bool { return m.close.pending() }

// transition is the single place phases change. Timers are started on entering
// opening/closing and cancelled on leaving them.
func (m *MegaMenu) transition(to Phase) error {
	from := m.phase
	if !Legal(from, to) {
		return fault.Navigation("megamenu "+m.key, fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to))
	}
	switch from {
	case PhaseOpening:
		m.intent.stop()
	case PhaseClosing:
		m.close.stop()
	}
	m.phase = to
	m.logger.Debug("mega menu transition",
		zap.String("key", m.key),
		zap.Stringer("from", from),
		zap.Stringer("to", to),
	)

	switch to {
	case PhaseOpening:
		m.intent.set(HoverIntentDelay, func() {
			if m.phase == PhaseOpening {
				_ = m.transition(PhaseOpen)
			}
		})
	case PhaseClosing:
		m.close.set(CloseDebounceDelay, func() {
			if m.phase == PhaseClosing {
				_ = m.transition(PhaseClosed)
			}
		})
	case PhaseOpen:
		if from == PhaseClosed || from == PhaseOpening {
			m.installTrap()
			if m.onOpen != nil {
				m.onOpen(m)
			}
		}
	case PhaseClosed:
		m.releaseTrap()
	}
	return nil
}

// PointerEnter starts hover intent on a closed menu and cancels a pending close.
func (m *MegaMenu) PointerEnter() error {
	switch m.phase {
	case PhaseClosed:
		return m.transition(PhaseOpening)
	case PhaseClosing:
		return m.transition(PhaseOpen)
	}
	return nil
}

// CancelIntent drops a pending hover intent.
func (m *MegaMenu) CancelIntent() error {
	if m.phase != PhaseOpening {
		return nil
	}
	return m.transition(PhaseClosed)
}

// Toggle is the explicit click path: it opens immediately or closes.
func (m *MegaMenu) Toggle() error {
	if m.phase.Visible() {
		return m.transition(PhaseClosed)
	}
	return m.transition(PhaseOpen)
}

// Open forces the open phase.
func (m *MegaMenu) Open() error {
	if m.phase == PhaseOpen {
		return nil
	}
	return m.transition(PhaseOpen)
}

// PointerEnterPanel cancels a pending close when the pointer reaches the panel.
func (m *MegaMenu) PointerEnterPanel() error {
	if m.phase != PhaseClosing {
		return nil
	}
	return m.transition(PhaseOpen)
}

// PointerLeavePanel reacts to the pointer leaving the panel for target.
func (m *MegaMenu) PointerLeavePanel(target Target) error {
	if !m.phase.Visible() {
		return nil
	}
	switch target {
	case TargetMegaMenu, TargetNavItem:
		return nil
	case TargetGap:
		if m.phase == PhaseOpen {
			return m.transition(PhaseClosing)
		}
		return nil
	default:
		return m.transition(PhaseClosed)
	}
}

// Close handles click outside, Escape and parent close. Closed menus stay closed.
func (m *MegaMenu) Close() error {
	if m.phase == PhaseClosed {
		return nil
	}
	return m.transition(PhaseClosed)
}

// HandleKey closes on Escape and wraps Tab inside the open panel.
func (m *MegaMenu) HandleKey(k a11y.Key) (bool, error) {
	if !m.phase.Visible() {
		return false, nil
	}
	switch k.Name {
	case a11y.KeyEscape:
		return true, m.Close()
	case a11y.KeyTab:
		return m.trap.HandleKey(k), nil
	}
	return false, nil
}

func (m *MegaMenu) installTrap() {
	if m.doc == nil {
		return
	}
	m.releaseTrap()
	m.trap = a11y.TrapFocus(m.doc, m.doc.ByID(m.PanelID()))
}

func (m *MegaMenu) releaseTrap() {
	if m.trap != nil {
		m.trap.Release()
		m.trap = nil
	}
}

// release stops both timers and the focus trap.
func (m *MegaMenu) release() {
	m.intent.stop()
	m.close.stop()
	m.releaseTrap()
}
