package clock

import (
	"sync"
	"time"
)

// Clock provides time operations that can be mocked for testing
type Clock interface {
	Now() time.Time

	// Every calls fn once per interval until the returned stop function is called.
	// Stop is idempotent.
	Every(interval time.Duration, fn func()) (stop func())

	// After calls fn once after the delay unless stopped first
	After(delay time.Duration, fn func()) (stop func())
}

// RealClock implements Clock using the system clock
type RealClock struct{}

// New creates a new RealClock
func New() *RealClock {
	return &RealClock{}
}

// Now returns the current time
func (c *RealClock) Now() time.Time {
	return time.Now()
}

// Every runs fn on its own goroutine driven by a time.Ticker
func (c *RealClock) Every(interval time.Duration, fn func()) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				fn()
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			ticker.Stop()
			close(done)
		})
	}
}

// After wraps time.AfterFunc
func (c *RealClock) After(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() {
		t.Stop()
	}
}
