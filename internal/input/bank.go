// Package input holds the simulated levels of the keypad's input lines.
package input

import (
	"sort"
	"sync"
)

// Bank is a set of pulled-up lines. Unknown pins read HIGH.
type Bank struct {
	mu     sync.RWMutex
	levels map[int]bool
}

func NewBank(pins []int) *Bank {
	b := &Bank{levels: make(map[int]bool, len(pins))}
	for _, p := range pins {
		b.levels[p] = true
	}
	return b
}

// Level reports true for HIGH (released).
func (b *Bank) Level(pin int) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	lvl, ok := b.levels[pin]
	return !ok || lvl
}

// Set drives a line to the given level.
func (b *Bank) Set(pin int, high bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.levels[pin] = high
}

// Press pulls the line LOW.
func (b *Bank) Press(pin int) { b.Set(pin, false) }

// Release lets the line float back HIGH.
func (b *Bank) Release(pin int) { b.Set(pin, true) }

// Toggle flips the line and returns the new level.
func (b *Bank) Toggle(pin int) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	lvl, ok := b.levels[pin]
	next := ok && !lvl
	b.levels[pin] = next
	return next
}

// Pressed lists pins currently held LOW, ascending.
func (b *Bank) Pressed() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []int
	for p, lvl := range b.levels {
		if !lvl {
			out = append(out, p)
		}
	}
	sort.Ints(out)
	return out
}
