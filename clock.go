package pocketdeck

import (
	"sync"
	"time"
)

// Clock is the only source of time for the menu, the input debouncer and every app loop. Sleeps are not
// cancellable: a button press is only observed at the next poll after the sleep completes.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// FakeClock never blocks: Sleep advances the current time by the requested duration. Tests drive app loops with
// it so that simulated seconds cost nothing.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time

	// OnSleep, if set, is called after every Sleep with the new time. Tests use it to inject input at a given
	// moment.
	OnSleep func(now time.Time)
}

// NewFakeClock returns a FakeClock starting at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) Sleep(d time.Duration) {
	c.Advance(d)
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	if d > 0 {
		c.now = c.now.Add(d)
	}
	now := c.now
	hook := c.OnSleep
	c.mu.Unlock()

	if hook != nil {
		hook(now)
	}
}
