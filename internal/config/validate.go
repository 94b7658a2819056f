package config

import (
	"fmt"
)

// Validate checks the layout against a table of slots.
// It performs declarative validation only and never mutates the layout.
func (l Layout) Validate(slots int) error {
	if l.Rows <= 0 || l.Cols <= 0 {
		return fmt.Errorf("rows and cols must be positive, got %dx%d", l.Rows, l.Cols)
	}
	if len(l.Pins) == 0 {
		return fmt.Errorf("at least one pin is required")
	}
	if l.Debounce < 0 || l.KeyDelay < 0 {
		return fmt.Errorf("debounce and key delay must not be negative")
	}

	seen := make(map[int]bool, len(l.Pins))
	for _, p := range l.Pins {
		if p < 0 {
			return fmt.Errorf("pin %d: negative pin number", p)
		}
		if seen[p] {
			return fmt.Errorf("pin %d listed twice", p)
		}
		seen[p] = true
	}

	prog := make(map[int]bool, len(l.ProgPins))
	for _, p := range l.ProgPins {
		if !seen[p] {
			return fmt.Errorf("programmable pin %d is not in the pin list", p)
		}
		if prog[p] {
			return fmt.Errorf("programmable pin %d listed twice", p)
		}
		prog[p] = true
	}
	if len(l.ProgPins) > slots {
		return fmt.Errorf("%d programmable pins but only %d macro slots", len(l.ProgPins), slots)
	}

	for p, name := range l.Shortcuts {
		if !seen[p] {
			return fmt.Errorf("shortcut %q bound to unknown pin %d", name, p)
		}
		if prog[p] {
			return fmt.Errorf("pin %d is both programmable and bound to shortcut %q", p, name)
		}
		if name == "" {
			return fmt.Errorf("pin %d: empty shortcut name", p)
		}
	}
	return nil
}

// Validate checks the storage settings.
func (s Storage) Validate() error {
	if s.Size <= 0 {
		return fmt.Errorf("storage size must be positive, got %d", s.Size)
	}
	if s.Slots < 1 || s.Slots > 16 {
		return fmt.Errorf("slot count %d out of range 1..16", s.Slots)
	}
	return nil
}
