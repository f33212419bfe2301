package menu

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"opusconsulting.gr/opus-web/internal/fault"
	"opusconsulting.gr/opus-web/internal/nav"
)

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	t.Parallel()

	m := NewMegaMenu("services", nav.LayoutGrid, nil, nil)
	err := m.transition(PhaseClosing)
	require.ErrorIs(t, err, ErrIllegalTransition)
	require.True(t, fault.Is(err, fault.KindNavigation))
	require.Equal(t, PhaseClosed, m.Phase())
	require.False(t, m.ClosePending())

	err = m.transition(PhaseClosed)
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTimerSlotKeepsOneLiveTimer(t *testing.T) {
	t.Parallel()

	sched := &recordingScheduler{}
	slot := newTimerSlot(sched, &noopLocker{})
	fired := 0
	slot.set(HoverIntentDelay, func() { fired++ })
	slot.set(HoverIntentDelay, func() { fired++ })
	require.Len(t, sched.timers, 2)
	require.True(t, sched.timers[0].stopped)
	require.False(t, sched.timers[1].stopped)

	// a callback that escaped Stop is ignored
	sched.timers[0].f()
	require.Zero(t, fired)
	sched.timers[1].f()
	require.Equal(t, 1, fired)
	require.False(t, slot.pending())
}

func TestLifecycleReleaseIsIdempotent(t *testing.T) {
	t.Parallel()

	var l Lifecycle
	var order []int
	l.Add(func() { order = append(order, 1) })
	l.Add(func() { order = append(order, 2) })
	l.Add(nil)
	l.Release()
	l.Release()
	require.Equal(t, []int{2, 1}, order)
	require.True(t, l.Released())

	l.Add(func() { order = append(order, 3) })
	require.Equal(t, []int{2, 1, 3}, order)
}

type recordingScheduler struct {
	timers []*recordedTimer
}

type recordedTimer struct {
	f       func()
	stopped bool
}

func (r *recordedTimer) Stop() bool {
	was := !r.stopped
	r.stopped = true
	return was
}

func (s *recordingScheduler) AfterFunc(_ time.Duration, f func()) Timer {
	t := &recordedTimer{f: f}
	s.timers = append(s.timers, t)
	return t
}

type noopLocker struct{}

func (noopLocker) Lock()   {}
func (noopLocker) Unlock() {}
