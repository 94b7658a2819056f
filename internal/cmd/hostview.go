package cmd

import (
	"fmt"
	"strings"
	"sync"

	"github.com/Alia5/macropad/device/keyboard"
)

const (
	maxTyped  = 120
	maxChords = 8
)

// hostView plays the host side of the HID link: it decodes reports back into
// typed text and key chords.
type hostView struct {
	mu       sync.Mutex
	prev     keyboard.InputState
	typed    []byte
	chords   []string
	onChange func()
}

func (h *hostView) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	h.mu.Lock()
	switch p[0] {
	case keyboard.ReportIDKeyboard:
		var st keyboard.InputState
		if err := st.UnmarshalBinary(p); err != nil {
			h.mu.Unlock()
			return 0, err
		}
		h.keyboardReport(st)
	case keyboard.ReportIDConsumer:
		for i := 1; i+1 < len(p); i += 2 {
			if u := uint16(p[i]) | uint16(p[i+1])<<8; u != 0 {
				h.addChord(fmt.Sprintf("Consumer 0x%04X", u))
			}
		}
	}
	cb := h.onChange
	h.mu.Unlock()
	if cb != nil {
		cb()
	}
	return len(p), nil
}

func (h *hostView) keyboardReport(st keyboard.InputState) {
	shift := st.Modifiers&(keyboard.ModLeftShift|keyboard.ModRightShift) != 0
	chord := st.Modifiers&^(keyboard.ModLeftShift|keyboard.ModRightShift) != 0

	for _, k := range st.Keys() {
		if h.prev.Held(uint16(k)) {
			continue
		}
		if !chord {
			if c, ok := keyboard.HIDToChar(k, shift); ok {
				h.typed = append(h.typed, c)
				continue
			}
		}
		var parts []string
		for i := uint16(0); i < 8; i++ {
			if st.Modifiers&(1<<i) != 0 {
				parts = append(parts, keyboard.KeyName(uint8(keyboard.KeyLeftCtrl+i)))
			}
		}
		h.addChord(strings.Join(append(parts, keyboard.KeyName(k)), "+"))
	}
	if len(h.typed) > maxTyped {
		h.typed = h.typed[len(h.typed)-maxTyped:]
	}
	h.prev = st
}

func (h *hostView) addChord(s string) {
	h.chords = append(h.chords, s)
	if len(h.chords) > maxChords {
		h.chords = h.chords[len(h.chords)-maxChords:]
	}
}

// Snapshot returns the typed text and recent chords.
func (h *hostView) Snapshot() (string, []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return string(h.typed), append([]string(nil), h.chords...)
}
