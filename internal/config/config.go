// Package config holds the keypad's physical layout and its validation.
package config

import "time"

// Log configures logging for every command.
type Log struct {
	Level   string `help:"Log level (trace, debug, info, warn, error)" default:"info" enum:"trace,debug,info,warn,error" env:"MACROPAD_LOG_LEVEL"`
	File    string `help:"Also write logs to this file" env:"MACROPAD_LOG_FILE"`
	RawFile string `help:"Write raw command lines and HID reports to this file" env:"MACROPAD_LOG_RAW_FILE"`
}

// Storage selects the non-volatile medium.
type Storage struct {
	Image string `help:"EEPROM image file; empty keeps macros in RAM only" default:"macropad.eeprom" env:"MACROPAD_STORAGE_IMAGE"`
	Size  int    `help:"Size of the medium in bytes" default:"1024" env:"MACROPAD_STORAGE_SIZE"`
	Slots int    `help:"Number of user macro slots" default:"3" env:"MACROPAD_STORAGE_SLOTS"`
}

// Layout describes the physical lines of the keypad and what they do.
type Layout struct {
	Rows      int            `help:"Physical rows reported by identify" default:"3" env:"MACROPAD_LAYOUT_ROWS"`
	Cols      int            `help:"Physical columns reported by identify" default:"3" env:"MACROPAD_LAYOUT_COLS"`
	Pins      []int          `help:"Input pins in scan order" default:"2,3,4,5,6,7,8,9,10" env:"MACROPAD_LAYOUT_PINS"`
	ProgPins  []int          `help:"Pins bound to user macro slots, numbered densely in scan order" default:"7,8,9" env:"MACROPAD_LAYOUT_PROG_PINS"`
	Shortcuts map[int]string `help:"Fixed shortcut per pin (pin=name)" default:"2=copy;3=paste;4=app-switch;5=dev-server;6=save" env:"MACROPAD_LAYOUT_SHORTCUTS"`
	Debounce  time.Duration  `help:"Minimum time between two scan passes" default:"50ms" env:"MACROPAD_LAYOUT_DEBOUNCE"`
	KeyDelay  time.Duration  `help:"Pause before the forced release after a trigger" default:"5ms" env:"MACROPAD_LAYOUT_KEY_DELAY"`
}

// DefaultLayout mirrors the defaults declared on Layout.
func DefaultLayout() Layout {
	return Layout{
		Rows:     3,
		Cols:     3,
		Pins:     []int{2, 3, 4, 5, 6, 7, 8, 9, 10},
		ProgPins: []int{7, 8, 9},
		Shortcuts: map[int]string{
			2: "copy",
			3: "paste",
			4: "app-switch",
			5: "dev-server",
			6: "save",
		},
		Debounce: 50 * time.Millisecond,
		KeyDelay: 5 * time.Millisecond,
	}
}

// IsProgrammable reports whether pin is bound to a macro slot.
func (l Layout) IsProgrammable(pin int) bool {
	return l.SlotOf(pin) >= 0
}

// SlotOf returns the slot bound to pin, or -1.
func (l Layout) SlotOf(pin int) int {
	for i, p := range l.ProgPins {
		if p == pin {
			return i
		}
	}
	return -1
}
