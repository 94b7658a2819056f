// Package testing holds fakes shared by the package tests.
package testing

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// RecordingSink records every sink call as a short string.
type RecordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *RecordingSink) record(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, fmt.Sprintf(format, args...))
}

func (s *RecordingSink) Press(code uint16)         { s.record("press:%d", code) }
func (s *RecordingSink) PressConsumer(code uint16) { s.record("consumer:%d", code) }
func (s *RecordingSink) PressChar(c byte)          { s.record("char:%c", c) }
func (s *RecordingSink) ReleaseAll()               { s.record("release") }
func (s *RecordingSink) Print(text string)         { s.record("print:%s", text) }

// Events returns a copy of the recorded calls.
func (s *RecordingSink) Events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	copy(out, s.events)
	return out
}

// Reset forgets the recorded calls.
func (s *RecordingSink) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}

// String joins the recorded calls with spaces.
func (s *RecordingSink) String() string {
	return strings.Join(s.Events(), " ")
}

// FakeClock only moves when Wait or Advance is called.
type FakeClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

// NewFakeClock returns a clock starting at a fixed instant.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Wait advances the clock by d and records the wait.
func (c *FakeClock) Wait(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.waits = append(c.waits, d)
	c.now = c.now.Add(d)
}

// Advance moves the clock without recording a wait.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Waits returns the recorded waits.
func (c *FakeClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.waits))
	copy(out, c.waits)
	return out
}
