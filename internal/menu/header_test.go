package menu_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"opusconsulting.gr/opus-web/internal/a11y"
	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/lang"
	"opusconsulting.gr/opus-web/internal/menu"
	"opusconsulting.gr/opus-web/internal/menu/menutest"
	"opusconsulting.gr/opus-web/internal/nav"
	"opusconsulting.gr/opus-web/internal/viewstate"
)

func newHeader(t *testing.T) (*menu.Header, *menutest.Clock, *viewstate.Document) {
	t.Helper()
	clock := menutest.New()
	doc := viewstate.New()
	h := menu.NewHeader(nav.Items(lang.English), menu.WithScheduler(clock), menu.WithDocument(doc))
	t.Cleanup(h.Release)
	return h, clock, doc
}

func dispatch(t *testing.T, h *menu.Header, ev menu.Event) menu.Result {
	t.Helper()
	res, err := h.Dispatch(ev)
	require.NoError(t, err)
	return res
}

func hover(key string) menu.Event {
	return menu.Event{Kind: menu.EventPointerEnterItem, Key: key}
}

func TestHoverIntentOpensAfterDelay(t *testing.T) {
	t.Parallel()
	h, clock, _ := newHeader(t)

	dispatch(t, h, hover("services"))
	require.Equal(t, menu.PhaseOpening, h.Phase("services"))
	require.Empty(t, h.State().ActiveDropdown)

	clock.Advance(menu.HoverIntentDelay - time.Millisecond)
	require.Equal(t, menu.PhaseOpening, h.Phase("services"))

	clock.Advance(time.Millisecond)
	require.Equal(t, menu.PhaseOpen, h.Phase("services"))
	require.Equal(t, "services", h.State().ActiveDropdown)
}

func TestHoverBBeforeAOpensNeverOpensA(t *testing.T) {
	t.Parallel()
	h, clock, _ := newHeader(t)

	dispatch(t, h, hover("our-company"))
	clock.Advance(150 * time.Millisecond)
	dispatch(t, h, hover("services"))
	require.Equal(t, menu.PhaseClosed, h.Phase("our-company"))
	require.Equal(t, 1, clock.Pending())

	clock.Advance(199 * time.Millisecond)
	require.Equal(t, menu.PhaseClosed, h.Phase("our-company"))
	require.Equal(t, menu.PhaseOpening, h.Phase("services"))

	clock.Advance(time.Millisecond)
	require.Equal(t, menu.PhaseOpen, h.Phase("services"))
	require.Equal(t, menu.PhaseClosed, h.Phase("our-company"))

	clock.Advance(time.Second)
	require.Equal(t, menu.PhaseClosed, h.Phase("our-company"))
}

func TestRapidHoversOpenNothingUntilRest(t *testing.T) {
	t.Parallel()
	h, clock, _ := newHeader(t)

	for _, key := range []string{"our-company", "services", "our-company"} {
		dispatch(t, h, hover(key))
		require.LessOrEqual(t, clock.Pending(), 1)
		clock.Advance(120 * time.Millisecond)
		require.Empty(t, h.State().ActiveDropdown)
	}

	clock.Advance(80 * time.Millisecond)
	require.Equal(t, "our-company", h.State().ActiveDropdown)
	require.Equal(t, menu.PhaseClosed, h.Phase("services"))
}

func TestEnteringPlainItemCancelsIntentAndCloses(t *testing.T) {
	t.Parallel()
	h, clock, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	require.Equal(t, "services", h.State().ActiveDropdown)
	dispatch(t, h, hover("our-company"))

	dispatch(t, h, hover("projects"))
	require.Zero(t, clock.Pending())
	require.Empty(t, h.State().ActiveDropdown)
}

func TestHoverOverOpenMenuReplacesItAfterDelay(t *testing.T) {
	t.Parallel()
	h, clock, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	dispatch(t, h, hover("our-company"))
	require.Equal(t, "services", h.State().ActiveDropdown)

	clock.Advance(menu.HoverIntentDelay)
	require.Equal(t, "our-company", h.State().ActiveDropdown)
	require.Equal(t, menu.PhaseClosed, h.Phase("services"))
}

func TestClickTogglesImmediately(t *testing.T) {
	t.Parallel()
	h, _, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "our-company"})
	require.Equal(t, menu.PhaseOpen, h.Phase("our-company"))
	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "our-company"})
	require.Equal(t, menu.PhaseClosed, h.Phase("our-company"))
}

func TestCloseDebounceAcrossGap(t *testing.T) {
	t.Parallel()
	h, clock, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	dispatch(t, h, menu.Event{Kind: menu.EventPointerLeavePanel, Key: "services", Target: menu.TargetGap})
	require.Equal(t, menu.PhaseClosing, h.Phase("services"))
	require.Equal(t, "services", h.State().ActiveDropdown)

	clock.Advance(100 * time.Millisecond)
	dispatch(t, h, menu.Event{Kind: menu.EventPointerEnterPanel, Key: "services"})
	require.Equal(t, menu.PhaseOpen, h.Phase("services"))

	clock.Advance(time.Second)
	require.Equal(t, menu.PhaseOpen, h.Phase("services"))

	dispatch(t, h, menu.Event{Kind: menu.EventPointerLeavePanel, Key: "services", Target: menu.TargetGap})
	clock.Advance(menu.CloseDebounceDelay)
	require.Equal(t, menu.PhaseClosed, h.Phase("services"))
	require.Empty(t, h.State().ActiveDropdown)
}

func TestEnteringPanelCancelsIntentOnOtherItems(t *testing.T) {
	t.Parallel()
	h, clock, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "our-company"})
	// the pointer crosses the services trigger on its way into the open panel
	dispatch(t, h, hover("services"))
	require.Equal(t, menu.PhaseOpening, h.Phase("services"))

	dispatch(t, h, menu.Event{Kind: menu.EventPointerEnterPanel, Key: "our-company"})
	require.Equal(t, menu.PhaseClosed, h.Phase("services"))
	require.Zero(t, clock.Pending())

	clock.Advance(300 * time.Millisecond)
	require.Equal(t, menu.PhaseOpen, h.Phase("our-company"))
	require.Equal(t, menu.PhaseClosed, h.Phase("services"))
	require.Equal(t, "our-company", h.State().ActiveDropdown)
}

func TestPointerLeavingHeader(t *testing.T) {
	t.Parallel()
	h, _, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	dispatch(t, h, menu.Event{Kind: menu.EventPointerLeaveHeader, Target: menu.TargetMegaMenu})
	require.Equal(t, "services", h.State().ActiveDropdown)
	dispatch(t, h, menu.Event{Kind: menu.EventPointerLeaveHeader, Target: menu.TargetNavItem})
	require.Equal(t, "services", h.State().ActiveDropdown)

	dispatch(t, h, menu.Event{Kind: menu.EventPointerLeaveHeader, Target: menu.TargetOutside})
	require.Empty(t, h.State().ActiveDropdown)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	dispatch(t, h, menu.Event{Kind: menu.EventPointerLeavePanel, Key: "services", Target: menu.TargetOutside})
	require.Empty(t, h.State().ActiveDropdown)
}

func TestEscapeAndClickOutsideClose(t *testing.T) {
	t.Parallel()
	h, _, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	dispatch(t, h, menu.Event{Kind: menu.EventKey, Press: a11y.Key{Name: a11y.KeyEscape}})
	require.Empty(t, h.State().ActiveDropdown)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	dispatch(t, h, menu.Event{Kind: menu.EventClickOutside})
	require.Empty(t, h.State().ActiveDropdown)
}

func TestMissingTargetsDegradeToClosed(t *testing.T) {
	t.Parallel()
	h, _, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "nope"})
	require.Empty(t, h.State().ActiveDropdown)

	dispatch(t, h, menu.Event{Kind: menu.EventPointerEnterPanel, Key: "nope"})
	dispatch(t, h, menu.Event{Kind: menu.EventDrill, Key: "nope"})
	require.Equal(t, menu.State{Panel: menu.PanelMain}, h.State())
}

func TestMobileReopenAlwaysStartsOnMain(t *testing.T) {
	t.Parallel()
	h, clock, doc := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	require.True(t, doc.ScrollLocked())
	dispatch(t, h, menu.Event{Kind: menu.EventDrill, Key: "services"})
	require.Equal(t, "services", h.State().Panel)
	clock.Advance(menu.DrillLock)

	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	require.False(t, h.State().MobileOpen)
	require.Equal(t, viewstate.OverflowDefault, doc.BodyOverflow())

	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	require.Equal(t, menu.PanelMain, h.State().Panel)
	require.False(t, h.State().Animating)
}

func TestMobileAnimationLock(t *testing.T) {
	t.Parallel()
	h, clock, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	dispatch(t, h, menu.Event{Kind: menu.EventDrill, Key: "services"})
	require.True(t, h.State().Animating)

	dispatch(t, h, menu.Event{Kind: menu.EventBack})
	require.Equal(t, "services", h.State().Panel)

	clock.Advance(menu.DrillLock)
	require.False(t, h.State().Animating)
	dispatch(t, h, menu.Event{Kind: menu.EventBack})
	require.Equal(t, menu.PanelMain, h.State().Panel)
	require.True(t, h.State().Animating)

	dispatch(t, h, menu.Event{Kind: menu.EventDrill, Key: "our-company"})
	require.Equal(t, menu.PanelMain, h.State().Panel)

	clock.Advance(menu.BackLock)
	dispatch(t, h, menu.Event{Kind: menu.EventDrill, Key: "our-company"})
	require.Equal(t, "our-company", h.State().Panel)
}

func TestMobileEscape(t *testing.T) {
	t.Parallel()
	h, clock, doc := newHeader(t)

	escape := menu.Event{Kind: menu.EventKey, Press: a11y.Key{Name: a11y.KeyEscape}}
	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	dispatch(t, h, menu.Event{Kind: menu.EventDrill, Key: "our-company"})
	clock.Advance(menu.DrillLock)

	dispatch(t, h, escape)
	require.True(t, h.State().MobileOpen)
	require.Equal(t, menu.PanelMain, h.State().Panel)

	clock.Advance(menu.BackLock)
	dispatch(t, h, escape)
	require.False(t, h.State().MobileOpen)
	require.False(t, doc.ScrollLocked())
}

func TestMobileSelectNavigates(t *testing.T) {
	t.Parallel()
	h, _, doc := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	res := dispatch(t, h, menu.Event{Kind: menu.EventSelect, Href: "/en/services/technology/"})
	require.Equal(t, "/en/services/technology/", res.Navigate)
	require.False(t, h.State().MobileOpen)
	require.False(t, doc.ScrollLocked())
}

func TestMobileOpenClearsDropdown(t *testing.T) {
	t.Parallel()
	h, clock, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	dispatch(t, h, hover("our-company"))
	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	require.Empty(t, h.State().ActiveDropdown)
	require.Zero(t, clock.Pending())

	dispatch(t, h, hover("services"))
	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	clock.Advance(time.Second)
	require.Empty(t, h.State().ActiveDropdown)
}

func TestResizeAcrossBreakpointResetsMobile(t *testing.T) {
	t.Parallel()
	h, clock, doc := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventResize, Width: 1000})
	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	dispatch(t, h, menu.Event{Kind: menu.EventDrill, Key: "services"})
	require.Equal(t, "services", h.State().Panel)

	dispatch(t, h, menu.Event{Kind: menu.EventResize, Width: 1280})
	st := h.State()
	require.False(t, st.MobileOpen)
	require.Empty(t, st.ActiveDropdown)
	require.Equal(t, menu.PanelMain, st.Panel)
	require.False(t, st.Animating)
	require.Equal(t, viewstate.OverflowDefault, doc.BodyOverflow())
	require.Zero(t, clock.Pending())
	require.Equal(t, 1280, st.Width)
}

func TestResizeBelowBreakpointKeepsMobile(t *testing.T) {
	t.Parallel()
	h, _, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	dispatch(t, h, menu.Event{Kind: menu.EventResize, Width: 900})
	require.True(t, h.State().MobileOpen)
}

func TestScrollThreshold(t *testing.T) {
	t.Parallel()
	h, _, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventScroll, ScrollY: 50})
	require.False(t, h.State().Scrolled)
	dispatch(t, h, menu.Event{Kind: menu.EventScroll, ScrollY: 51})
	require.True(t, h.State().Scrolled)
	dispatch(t, h, menu.Event{Kind: menu.EventScroll, ScrollY: 0})
	require.False(t, h.State().Scrolled)
}

func TestSwitcher(t *testing.T) {
	t.Parallel()
	h, _, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventSwitcherToggle})
	require.True(t, h.State().SwitcherOpen)
	dispatch(t, h, menu.Event{Kind: menu.EventKey, Press: a11y.Key{Name: a11y.KeyEscape}})
	require.False(t, h.State().SwitcherOpen)

	dispatch(t, h, menu.Event{Kind: menu.EventSwitcherToggle})
	res := dispatch(t, h, menu.Event{Kind: menu.EventSwitcherSelect, Lang: lang.Greek, Path: "/en/vision/mission/"})
	require.Equal(t, "/vision/mission/", res.Navigate)
	require.False(t, h.State().SwitcherOpen)

	res = dispatch(t, h, menu.Event{Kind: menu.EventSwitcherSelect, Lang: "fr", Path: "/"})
	require.Empty(t, res.Navigate)

	require.Equal(t, "/gb.svg", menu.OptionFor(lang.English).Flag)
	require.Equal(t, "ΕΛ", menu.OptionFor(lang.Greek).Label)
}

func TestSnapshotRoundTrip(t *testing.T) {
	t.Parallel()
	h, _, _ := newHeader(t)

	dispatch(t, h, menu.Event{Kind: menu.EventResize, Width: 800})
	dispatch(t, h, menu.Event{Kind: menu.EventScroll, ScrollY: 300})
	dispatch(t, h, menu.Event{Kind: menu.EventToggleMobile})
	dispatch(t, h, menu.Event{Kind: menu.EventDrill, Key: "our-company"})
	snap := h.Snapshot()
	require.Equal(t, menu.Snapshot{Mobile: true, Panel: "our-company", Scrolled: true, Width: 800}, snap)

	other, _, doc := newHeader(t)
	require.NoError(t, other.Restore(snap))
	st := other.State()
	require.True(t, st.MobileOpen)
	require.Equal(t, "our-company", st.Panel)
	require.False(t, st.Animating)
	require.True(t, doc.ScrollLocked())

	dispatch(t, other, menu.Event{Kind: menu.EventBack})
	require.Equal(t, menu.PanelMain, other.State().Panel)

	desk, _, _ := newHeader(t)
	require.NoError(t, desk.Restore(menu.Snapshot{Active: "services", Width: 1400}))
	require.Equal(t, menu.PhaseOpen, desk.Phase("services"))
	require.Equal(t, menu.Snapshot{Active: "services", Width: 1400}, desk.Snapshot())
}

func TestRestoreRejectsUnknownKeys(t *testing.T) {
	t.Parallel()
	h, _, doc := newHeader(t)

	err := h.Restore(menu.Snapshot{Active: "leadership"})
	require.ErrorIs(t, err, menu.ErrUnknownDropdown)
	require.True(t, fault.Is(err, fault.KindNavigation))
	require.Empty(t, h.State().ActiveDropdown)

	err = h.Restore(menu.Snapshot{Mobile: true, Panel: "team"})
	require.ErrorIs(t, err, menu.ErrUnknownDropdown)
	require.False(t, h.State().MobileOpen)
	require.False(t, doc.ScrollLocked())

	err = h.Restore(menu.Snapshot{Mobile: true, Active: "services"})
	require.True(t, fault.Is(err, fault.KindNavigation))
	require.Equal(t, menu.State{Panel: menu.PanelMain}, h.State())
}

func TestReleaseSweepsTimersAndScrollLock(t *testing.T) {
	t.Parallel()
	clock := menutest.New()
	doc := viewstate.New()
	h := menu.NewHeader(nav.Items(lang.Greek), menu.WithScheduler(clock), menu.WithDocument(doc))

	dispatch(t, h, hover("services"))
	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "our-company"})
	dispatch(t, h, menu.Event{Kind: menu.EventPointerLeavePanel, Key: "our-company", Target: menu.TargetGap})
	require.Equal(t, 1, clock.Pending())

	doc.LockScroll()
	h.Release()
	h.Release()
	require.Zero(t, clock.Pending())
	require.False(t, doc.ScrollLocked())

	res, err := h.Dispatch(menu.Event{Kind: menu.EventToggleMobile})
	require.NoError(t, err)
	require.Empty(t, res.Navigate)
	require.False(t, h.State().MobileOpen)
}

func TestMegaMenuTrapsFocusWhileOpen(t *testing.T) {
	t.Parallel()

	markup := `<a id="before" href="/">x</a>
<div id="dropdown-services" aria-hidden="true"><a href="/a/">A</a><a href="/b/">B</a></div>`
	focus, err := a11y.ParseFragment(strings.NewReader(markup))
	require.NoError(t, err)
	before := focus.ByID("before")
	focus.Focus(before)

	clock := menutest.New()
	h := menu.NewHeader(nav.Items(lang.English), menu.WithScheduler(clock), menu.WithFocus(focus))
	t.Cleanup(h.Release)

	dispatch(t, h, menu.Event{Kind: menu.EventClickItem, Key: "services"})
	href, _ := a11y.Attr(focus.Active(), "href")
	require.Equal(t, "/a/", href)

	tab := menu.Event{Kind: menu.EventKey, Press: a11y.Key{Name: a11y.KeyTab}}
	dispatch(t, h, tab)
	dispatch(t, h, tab)
	href, _ = a11y.Attr(focus.Active(), "href")
	require.Equal(t, "/a/", href)

	dispatch(t, h, menu.Event{Kind: menu.EventKey, Press: a11y.Key{Name: a11y.KeyTab, Shift: true}})
	href, _ = a11y.Attr(focus.Active(), "href")
	require.Equal(t, "/b/", href)

	dispatch(t, h, menu.Event{Kind: menu.EventKey, Press: a11y.Key{Name: a11y.KeyEscape}})
	require.Same(t, before, focus.Active())
}

func TestDrawerKeysMoveFocus(t *testing.T) {
	t.Parallel()

	markup := `<button id="nav-toggle" aria-controls="mobile-navigation">Menu</button>
<div id="mobile-navigation" aria-hidden="false"><a id="one" href="/">1</a><button id="two">2</button><a id="three" href="/c/">3</a></div>`
	focus, err := a11y.ParseFragment(strings.NewReader(markup))
	require.NoError(t, err)
	focus.Focus(focus.ByID("two"))

	h := menu.NewHeader(nav.Items(lang.English), menu.WithScheduler(menutest.New()), menu.WithFocus(focus))
	t.Cleanup(h.Release)
	require.NoError(t, h.Restore(menu.Snapshot{Mobile: true}))
	require.Equal(t, 3, h.FocusPosition())

	key := func(name string, shift bool) string {
		dispatch(t, h, menu.Event{Kind: menu.EventKey, Press: a11y.Key{Name: name, Shift: shift}})
		v, _ := a11y.Attr(focus.Active(), "id")
		return v
	}
	require.Equal(t, "three", key(a11y.KeyArrowDown, false))
	require.Equal(t, "one", key(a11y.KeyArrowDown, false))
	require.Equal(t, "three", key(a11y.KeyArrowUp, false))
	require.Equal(t, "one", key(a11y.KeyHome, false))
	require.Equal(t, "three", key(a11y.KeyEnd, false))
	require.Equal(t, "one", key(a11y.KeyTab, false))
	require.Equal(t, "three", key(a11y.KeyTab, true))
	require.True(t, h.State().MobileOpen)

	require.Equal(t, "nav-toggle", key(a11y.KeyEscape, false))
	require.False(t, h.State().MobileOpen)
	require.Equal(t, 1, h.FocusPosition())
}

func TestDrawerEscapeFromSubmenuGoesBack(t *testing.T) {
	t.Parallel()

	markup := `<button id="nav-toggle" aria-controls="mobile-navigation">Menu</button>
<div id="mobile-navigation" aria-hidden="false"><button id="back">Back</button><a href="/services/technology/">T</a></div>`
	focus, err := a11y.ParseFragment(strings.NewReader(markup))
	require.NoError(t, err)
	focus.Focus(focus.ByID("back"))

	h := menu.NewHeader(nav.Items(lang.English), menu.WithScheduler(menutest.New()), menu.WithFocus(focus))
	t.Cleanup(h.Release)
	require.NoError(t, h.Restore(menu.Snapshot{Mobile: true, Panel: "services"}))

	dispatch(t, h, menu.Event{Kind: menu.EventKey, Press: a11y.Key{Name: a11y.KeyEscape}})
	st := h.State()
	require.True(t, st.MobileOpen)
	require.Equal(t, menu.PanelMain, st.Panel)
	require.Zero(t, h.FocusPosition())
}

func TestDispatchIsSafeWithSystemTimers(t *testing.T) {
	t.Parallel()
	h := menu.NewHeader(nav.Items(lang.Greek))
	t.Cleanup(h.Release)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := "services"
			if i%2 == 0 {
				key = "our-company"
			}
			_, _ = h.Dispatch(hover(key))
			_, _ = h.Dispatch(menu.Event{Kind: menu.EventScroll, ScrollY: i * 10})
		}(i)
	}
	wg.Wait()
	require.Eventually(t, func() bool {
		return h.State().ActiveDropdown != ""
	}, 2*time.Second, 10*time.Millisecond)
}

func TestLegalityTable(t *testing.T) {
	t.Parallel()

	allowed := map[[2]menu.Phase]bool{
		{menu.PhaseClosed, menu.PhaseOpening}: true,
		{menu.PhaseClosed, menu.PhaseOpen}:    true,
		{menu.PhaseOpening, menu.PhaseOpen}:   true,
		{menu.PhaseOpening, menu.PhaseClosed}: true,
		{menu.PhaseOpen, menu.PhaseClosing}:   true,
		{menu.PhaseOpen, menu.PhaseClosed}:    true,
		{menu.PhaseClosing, menu.PhaseOpen}:   true,
		{menu.PhaseClosing, menu.PhaseClosed}: true,
	}
	phases := []menu.Phase{menu.PhaseClosed, menu.PhaseOpening, menu.PhaseOpen, menu.PhaseClosing}
	for _, from := range phases {
		for _, to := range phases {
			require.Equal(t, allowed[[2]menu.Phase{from, to}], menu.Legal(from, to), "%s -> %s", from, to)
		}
	}
	require.True(t, menu.PhaseClosing.Visible())
	require.False(t, menu.PhaseOpening.Visible())
}

func TestParseEventKindAndTarget(t *testing.T) {
	t.Parallel()

	k, ok := menu.ParseEventKind("toggle-mobile")
	require.True(t, ok)
	require.Equal(t, menu.EventToggleMobile, k)
	_, ok = menu.ParseEventKind("explode")
	require.False(t, ok)

	require.Equal(t, menu.TargetGap, menu.ParseTarget("gap"))
	require.Equal(t, menu.TargetOutside, menu.ParseTarget("window"))
}
