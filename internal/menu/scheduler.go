package menu

import (
	"sync"
	"time"
)

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped it.
	Stop() bool
}

// Scheduler runs callbacks after a delay.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// SystemScheduler schedules on the runtime timer heap.
type SystemScheduler struct{}

// AfterFunc implements Scheduler.
func (SystemScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// timerSlot holds at most one live timer. Setting a new one cancels the previous,
// and the generation counter turns callbacks that already left the heap into no-ops.
// Callers hold mu around set and stop; callbacks take mu themselves.
type timerSlot struct {
	sched Scheduler
	mu    sync.Locker
	gen   uint64
	timer Timer
}

func newTimerSlot(sched Scheduler, mu sync.Locker) *timerSlot {
	return &timerSlot{sched: sched, mu: mu}
}

func (s *timerSlot) set(d time.Duration, f func()) {
	s.stop()
	s.gen++
	gen := s.gen
	s.timer = s.sched.AfterFunc(d, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.gen != gen || s.timer == nil {
			return
		}
		s.timer = nil
		f()
	})
}

func (s *timerSlot) stop() bool {
	if s.timer == nil {
		return false
	}
	s.gen++
	stopped := s.timer.Stop()
	s.timer = nil
	return stopped
}

func (s *timerSlot) pending() bool { return s.timer != nil }

// Lifecycle collects teardown functions and runs them in one sweep.
type Lifecycle struct {
	mu       sync.Mutex
	cleanups []func()
	released bool
}

// Add registers a teardown. After Release it runs immediately.
func (l *Lifecycle) Add(f func()) {
	if f == nil {
		return
	}
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		f()
		return
	}
	l.cleanups = append(l.cleanups, f)
	l.mu.Unlock()
}

// Release runs every registered teardown once, newest first. Later calls do nothing.
func (l *Lifecycle) Release() {
	l.mu.Lock()
	if l.released {
		l.mu.Unlock()
		return
	}
	l.released = true
	fns := l.cleanups
	l.cleanups = nil
	l.mu.Unlock()
	for i := len(fns) - 1; i >= 0; i-- {
		fns[i]()
	}
}

// Released reports whether Release has run.
func (l *Lifecycle) Released() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.released
}
