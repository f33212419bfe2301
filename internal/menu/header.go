package menu

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"opusconsulting.gr/opus-web/internal/a11y"
	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/nav"
	"opusconsulting.gr/opus-web/internal/viewstate"
)

// EventKind names a header UI event.
type EventKind string

const (
	EventPointerEnterItem   EventKind = "pointer-enter-item"
	EventPointerLeaveHeader EventKind = "pointer-leave-header"
	EventPointerEnterPanel  EventKind = "pointer-enter-panel"
	EventPointerLeavePanel  EventKind = "pointer-leave-panel"
	EventClickItem          EventKind = "click-item"
	EventClickOutside       EventKind = "click-outside"
	EventKey                EventKind = "key"
	EventToggleMobile       EventKind = "toggle-mobile"
	EventCloseMobile        EventKind = "close-mobile"
	EventDrill              EventKind = "drill"
	EventBack               EventKind = "back"
	EventSelect             EventKind = "select"
	EventResize             EventKind = "resize"
	EventScroll             EventKind = "scroll"
	EventSwitcherToggle     EventKind = "switcher-toggle"
	EventSwitcherClose      EventKind = "switcher-close"
	EventSwitcherSelect     EventKind = "switcher-select"
)

var eventKinds = map[EventKind]struct{}{
	EventPointerEnterItem: {}, EventPointerLeaveHeader: {}, EventPointerEnterPanel: {},
	EventPointerLeavePanel: {}, EventClickItem: {}, EventClickOutside: {}, EventKey: {},
	EventToggleMobile: {}, EventCloseMobile: {}, EventDrill: {}, EventBack: {}, EventSelect: {},
	EventResize: {}, EventScroll: {}, EventSwitcherToggle: {}, EventSwitcherClose: {},
	EventSwitcherSelect: {},
}

// ParseEventKind validates a wire event name.
func ParseEventKind(s string) (EventKind, bool) {
	k := EventKind(s)
	_, ok := eventKinds[k]
	return k, ok
}

// Event is one UI event. Only the fields relevant to Kind are read.
type Event struct {
	Kind    EventKind
	Key     string // dropdown key
	Press   a11y.Key
	Target  Target
	Width   int
	ScrollY int
	Href    string
	Lang    lang.Language
	Path    string // current page path
}

// Result is what the caller must do after an event.
type Result struct {
	// Navigate is a full navigation target, "" for none.
	Navigate string
}

// State is the render state of the header.
type State struct {
	ActiveDropdown string
	MobileOpen     bool
	Panel          string
	Animating      bool
	Scrolled       bool
	SwitcherOpen   bool
	Width          int
}

// Snapshot is the header state persisted between requests.
type Snapshot struct {
	Active   string `json:"active,omitempty"`
	Mobile   bool   `json:"mobile,omitempty"`
	Panel    string `json:"panel,omitempty"`
	Scrolled bool   `json:"scrolled,omitempty"`
	Width    int    `json:"width,omitempty"`
	Switcher bool   `json:"switcher,omitempty"`
}

// Header owns the top-level navigation state and dispatches every event to the
// mega menus, the mobile menu and the switcher. It is safe for concurrent use.
type Header struct {
	mu sync.Mutex

	menus    []*MegaMenu
	byKey    map[string]*MegaMenu
	mobile   *MobileMenu
	switcher Switcher
	scrolled bool
	width    int

	// drawer moves keyboard focus inside the open mobile menu. Nil unless
	// the header was built WithFocus.
	drawer *a11y.Manager

	doc    *viewstate.Document
	life   Lifecycle
	logger *zap.Logger
}

type headerConfig struct {
	sched  Scheduler
	doc    *viewstate.Document
	focus  *a11y.Document
	logger *zap.Logger
}

// Option configures a Header.
type Option func(*headerConfig)

// WithScheduler sets the timer source. Tests pass a manual clock.
func WithScheduler(s Scheduler) Option {
	return func(c *headerConfig) { c.sched = s }
}

// WithDocument sets the view state written by the scroll lock.
func WithDocument(d *viewstate.Document) Option {
	return func(c *headerConfig) { c.doc = d }
}

// WithFocus tracks keyboard focus against doc, the rendered header: open mega
// menus and the open mobile menu trap it, and key events move it.
func WithFocus(doc *a11y.Document) Option {
	return func(c *headerConfig) { c.focus = doc }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *headerConfig) { c.logger = l }
}

// NewHeader builds a header for the projected navigation items. Every item with a
// dropdown gets a mega menu and a mobile submenu panel.
func NewHeader(items []nav.Item, opts ...Option) *Header {
	cfg := headerConfig{sched: SystemScheduler{}}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.doc == nil {
		cfg.doc = viewstate.New()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	h := &Header{
		byKey:  map[string]*MegaMenu{},
		doc:    cfg.doc,
		logger: cfg.logger,
	}
	var keys []string
	for _, it := range items {
		if !it.HasDropdown() {
			continue
		}
		mm := NewMegaMenu(it.Key, it.Dropdown.Layout, cfg.sched, &h.mu,
			WithFocusDocument(cfg.focus),
			WithOnOpen(h.closeOthers),
			WithMegaMenuLogger(cfg.logger),
		)
		h.menus = append(h.menus, mm)
		h.byKey[it.Key] = mm
		keys = append(keys, it.Key)
		h.life.Add(mm.release)
	}
	h.mobile = NewMobileMenu(keys, cfg.doc, cfg.sched, &h.mu)
	h.life.Add(h.mobile.release)
	if cfg.focus != nil {
		h.drawer = a11y.NewManager(cfg.focus, a11y.TriggerID, a11y.MenuID)
		h.drawer.OnClose = h.mobile.Close
	}
	return h
}

// Menu returns the mega menu for key.
func (h *Header) Menu(key string) (*MegaMenu, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.byKey[key]
	return m, ok
}

// Phase returns the phase of the mega menu for key. Unknown keys are closed.
func (h *Header) Phase(key string) Phase {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.byKey[key]; ok {
		return m.Phase()
	}
	return PhaseClosed
}

// State returns the current render state.
func (h *Header) State() State {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stateLocked()
}

func (h *Header) stateLocked() State {
	return State{
		ActiveDropdown: h.activeLocked(),
		MobileOpen:     h.mobile.IsOpen(),
		Panel:          h.mobile.Panel(),
		Animating:      h.mobile.Animating(),
		Scrolled:       h.scrolled,
		SwitcherOpen:   h.switcher.IsOpen(),
		Width:          h.width,
	}
}

func (h *Header) activeLocked() string {
	for _, m := range h.menus {
		if m.Phase().Visible() {
			return m.Key()
		}
	}
	return ""
}

// Dispatch applies one event. Events after Release are ignored.
func (h *Header) Dispatch(ev Event) (Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.life.Released() {
		return Result{}, nil
	}
	res, err := h.dispatchLocked(ev)
	if err != nil {
		h.logger.Warn("header event failed", zap.String("event", string(ev.Kind)), zap.Error(err))
	}
	return res, err
}

func (h *Header) dispatchLocked(ev Event) (Result, error) {
	switch ev.Kind {
	case EventPointerEnterItem:
		if h.mobile.IsOpen() {
			return Result{}, nil
		}
		target, ok := h.byKey[ev.Key]
		if !ok {
			return Result{}, h.closeAll()
		}
		if err := h.cancelIntentExcept(target); err != nil {
			return Result{}, err
		}
		return Result{}, target.PointerEnter()

	case EventPointerLeaveHeader:
		switch ev.Target {
		case TargetMegaMenu, TargetNavItem:
			return Result{}, nil
		}
		return Result{}, h.closeAll()

	case EventPointerEnterPanel:
		m, ok := h.byKey[ev.Key]
		if !ok {
			return Result{}, nil
		}
		// reaching the panel drops intent picked up on the way there
		if err := h.cancelIntentExcept(m); err != nil {
			return Result{}, err
		}
		return Result{}, m.PointerEnterPanel()

	case EventPointerLeavePanel:
		if m, ok := h.byKey[ev.Key]; ok {
			return Result{}, m.PointerLeavePanel(ev.Target)
		}
		return Result{}, h.closeAll()

	case EventClickItem:
		target, ok := h.byKey[ev.Key]
		if !ok || h.mobile.IsOpen() {
			return Result{}, h.closeAll()
		}
		if err := h.cancelIntentExcept(target); err != nil {
			return Result{}, err
		}
		return Result{}, target.Toggle()

	case EventClickOutside:
		h.switcher.Close()
		return Result{}, h.closeAll()

	case EventKey:
		return Result{}, h.handleKey(ev.Press)

	case EventToggleMobile:
		if h.mobile.IsOpen() {
			h.mobile.Close()
			return Result{}, nil
		}
		if err := h.closeAll(); err != nil {
			return Result{}, err
		}
		h.switcher.Close()
		h.mobile.Open()
		return Result{}, nil

	case EventCloseMobile:
		h.mobile.Close()
		return Result{}, h.closeAll()

	case EventDrill:
		h.mobile.Drill(ev.Key)
		return Result{}, nil

	case EventBack:
		h.mobile.Back()
		return Result{}, nil

	case EventSelect:
		href := h.mobile.Select(ev.Href)
		return Result{Navigate: href}, h.closeAll()

	case EventResize:
		h.width = ev.Width
		if ev.Width >= DesktopBreakpoint && h.mobile.IsOpen() {
			h.mobile.Close()
			return Result{}, h.closeAll()
		}
		return Result{}, nil

	case EventScroll:
		h.scrolled = ev.ScrollY > ScrollThreshold
		return Result{}, nil

	case EventSwitcherToggle:
		h.switcher.Toggle()
		return Result{}, nil

	case EventSwitcherClose:
		h.switcher.Close()
		return Result{}, nil

	case EventSwitcherSelect:
		l, ok := lang.Parse(string(ev.Lang))
		if !ok {
			h.switcher.Close()
			return Result{}, nil
		}
		return Result{Navigate: h.switcher.Select(ev.Path, l)}, nil
	}
	return Result{}, nil
}

func (h *Header) handleKey(k a11y.Key) error {
	if h.mobile.IsOpen() {
		if k.Name == a11y.KeyEscape && h.mobile.Panel() != PanelMain {
			h.mobile.Back()
			// the submenu holding focus is replaced by the main panel
			if h.drawer != nil {
				h.drawer.Doc.Focus(nil)
			}
			return nil
		}
		if !h.drawer.HandleKey(k) && k.Name == a11y.KeyEscape {
			h.mobile.Close()
		}
		return nil
	}
	if h.switcher.IsOpen() && k.Name == a11y.KeyEscape {
		h.switcher.Close()
		return nil
	}
	for _, m := range h.menus {
		if m.Phase().Visible() {
			_, err := m.HandleKey(k)
			return err
		}
	}
	return nil
}

// cancelIntentExcept drops pending hover intent on every menu but keep, so at
// most one intent timer is live.
func (h *Header) cancelIntentExcept(keep *MegaMenu) error {
	for _, m := range h.menus {
		if m == keep {
			continue
		}
		if err := m.CancelIntent(); err != nil {
			return err
		}
	}
	return nil
}

// closeOthers keeps at most one mega menu open.
func (h *Header) closeOthers(opened *MegaMenu) {
	for _, m := range h.menus {
		if m == opened {
			continue
		}
		if err := m.Close(); err != nil {
			h.logger.Warn("close mega menu", zap.String("key", m.Key()), zap.Error(err))
		}
	}
}

func (h *Header) closeAll() error {
	for _, m := range h.menus {
		if err := m.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Snapshot captures the persisted subset of the state.
func (h *Header) Snapshot() Snapshot {
	h.mu.Lock()
	defer h.mu.Unlock()
	s := h.stateLocked()
	snap := Snapshot{
		Active:   s.ActiveDropdown,
		Mobile:   s.MobileOpen,
		Scrolled: s.Scrolled,
		Width:    s.Width,
		Switcher: s.SwitcherOpen,
	}
	if s.MobileOpen && s.Panel != PanelMain {
		snap.Panel = s.Panel
	}
	return snap
}

// Restore replaces the state with snap. Restored menus start without timers or
// animation locks. An invalid snapshot leaves the header neutral and returns a
// navigation fault.
func (h *Header) Restore(snap Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.mobile.restore(false, "")
	h.doc.UnlockScroll()
	h.switcher = Switcher{}
	h.scrolled = false
	h.width = 0
	if err := h.closeAll(); err != nil {
		return err
	}

	if snap.Active != "" {
		if _, ok := h.byKey[snap.Active]; !ok {
			return fault.Navigation("restore header", fmt.Errorf("%w: %q", ErrUnknownDropdown, snap.Active))
		}
	}
	if snap.Panel != "" && snap.Panel != PanelMain && !h.mobile.HasPanel(snap.Panel) {
		return fault.Navigation("restore header", fmt.Errorf("%w: panel %q", ErrUnknownDropdown, snap.Panel))
	}
	if snap.Active != "" && snap.Mobile {
		return fault.Navigation("restore header", fmt.Errorf("%w: dropdown %q open with mobile menu", ErrIllegalTransition, snap.Active))
	}

	if snap.Active != "" {
		if err := h.byKey[snap.Active].Open(); err != nil {
			return err
		}
	}
	h.mobile.restore(snap.Mobile, snap.Panel)
	if snap.Mobile && h.drawer != nil {
		h.drawer.TrapFocus(h.drawer.Menu)
	}
	h.scrolled = snap.Scrolled
	h.width = snap.Width
	if snap.Switcher {
		h.switcher.Toggle()
	}
	return nil
}

// FocusPosition returns the 1-based position of the focused control in the
// document passed to WithFocus, or 0.
func (h *Header) FocusPosition() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.drawer == nil {
		return 0
	}
	return h.drawer.Doc.FocusPosition()
}

// Release stops every timer and unlocks body scroll. It is idempotent.
func (h *Header) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.life.Release()
}
