// Package timer provides the time source used by macro execution and line scanning.
//
// Everything in the keypad runs on one control thread, so waiting is always a
// blocking call on that thread.
package timer

import "time"

// Waiter suspends the calling goroutine.
type Waiter interface {
	Wait(d time.Duration)
}

// Clock is a Waiter that can also tell the current time.
type Clock interface {
	Waiter
	Now() time.Time
}

// System is the wall clock.
type System struct{}

func (System) Now() time.Time { return time.Now() }

func (System) Wait(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}

// Timer tracks a single interval started at creation.
type Timer struct {
	start    time.Time
	interval time.Duration
	clock    Clock
}

// NewOn starts a Timer on the given clock.
func NewOn(c Clock, interval time.Duration) Timer {
	return Timer{
		start:    c.Now(),
		interval: interval,
		clock:    c,
	}
}

// Elapsed returns the time passed since the Timer was started.
func (t Timer) Elapsed() time.Duration {
	return t.clock.Now().Sub(t.start)
}

// Expired reports whether the interval has fully elapsed.
func (t Timer) Expired() bool {
	return t.Elapsed() >= t.interval
}
