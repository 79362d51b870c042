package mocks

import (
	"sync"
	"time"

	"github.com/mcoot/setgame/internal/dependencies/clock"
)

// MockClock is a mock implementation of Clock for testing.
// Scheduled callbacks run synchronously on the goroutine calling Advance.
type MockClock struct {
	mu          sync.Mutex
	CurrentTime time.Time
	timers      []*mockTimer
}

type mockTimer struct {
	next     time.Time
	interval time.Duration // 0 for one-shot timers
	fn       func()
	stopped  bool
}

// Ensure MockClock implements Clock
var _ clock.Clock = (*MockClock)(nil)

// NewMockClock creates a MockClock set to the given time
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{CurrentTime: t}
}

// Now returns the mocked current time
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.CurrentTime
}

// Every schedules fn to run each time the clock advances past another interval
func (c *MockClock) Every(interval time.Duration, fn func()) func() {
	return c.schedule(interval, interval, fn)
}

// After schedules fn to run once when the clock advances past the delay
func (c *MockClock) After(delay time.Duration, fn func()) func() {
	return c.schedule(delay, 0, fn)
}

func (c *MockClock) schedule(delay, interval time.Duration, fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &mockTimer{next: c.CurrentTime.Add(delay), interval: interval, fn: fn}
	c.timers = append(c.timers, t)
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		t.stopped = true
	}
}

// Advance moves the clock forward by the given duration, firing due callbacks in time order
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	target := c.CurrentTime.Add(d)
	c.mu.Unlock()

	for {
		c.mu.Lock()
		due := c.nextDue(target)
		if due == nil {
			c.CurrentTime = target
			c.mu.Unlock()
			return
		}
		c.CurrentTime = due.next
		if due.interval > 0 {
			due.next = due.next.Add(due.interval)
		} else {
			due.stopped = true
		}
		fn := due.fn
		c.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest live timer due at or before target, pruning stopped ones
func (c *MockClock) nextDue(target time.Time) *mockTimer {
	live := c.timers[:0]
	var earliest *mockTimer
	for _, t := range c.timers {
		if t.stopped {
			continue
		}
		live = append(live, t)
		if t.next.After(target) {
			continue
		}
		if earliest == nil || t.next.Before(earliest.next) {
			earliest = t
		}
	}
	c.timers = live
	return earliest
}

// Set sets the clock to the given time without firing callbacks
func (c *MockClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.CurrentTime = t
}

// Pending returns the number of scheduled callbacks that have not been stopped
func (c *MockClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	count := 0
	for _, t := range c.timers {
		if !t.stopped {
			count++
		}
	}
	return count
}
