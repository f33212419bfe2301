// Package menutest provides a manual scheduler for deterministic menu tests.
package menutest

import (
	"sort"
	"sync"
	"time"

	"opusconsulting.gr/opus-web/internal/menu"
)

// Clock is a fake scheduler. Timers fire only when Advance moves time past them.
type Clock struct {
	mu     sync.Mutex
	now    time.Duration
	seq    int
	timers []*timer
}

type timer struct {
	c       *Clock
	at      time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// New returns a clock at time zero.
func New() *Clock { return &Clock{} }

var _ menu.Scheduler = (*Clock)(nil)

// AfterFunc implements menu.Scheduler.
func (c *Clock) AfterFunc(d time.Duration, f func()) menu.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.seq++
	t := &timer{c: c, at: c.now + d, seq: c.seq, f: f}
	c.timers = append(c.timers, t)
	return t
}

// Stop implements menu.Timer.
func (t *timer) Stop() bool {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Now returns the elapsed fake time.
func (c *Clock) Now() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Pending counts timers that are neither stopped nor fired.
func (c *Clock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Advance moves time forward by d, firing due timers in deadline order.
// Callbacks run without the clock lock held, so they may schedule new timers.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.now + d
	c.mu.Unlock()
	for {
		c.mu.Lock()
		next := c.nextDue(target)
		if next == nil {
			c.now = target
			c.mu.Unlock()
			return
		}
		c.now = next.at
		next.fired = true
		f := next.f
		c.mu.Unlock()
		f()
	}
}

func (c *Clock) nextDue(target time.Duration) *timer {
	live := c.timers[:0]
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	c.timers = live
	sort.SliceStable(live, func(i, j int) bool {
		if live[i].at == live[j].at {
			return live[i].seq < live[j].seq
		}
		return live[i].at < live[j].at
	})
	if len(live) == 0 || live[0].at > target {
		return nil
	}
	return live[0]
}
