// Package keyboard is the keystroke sink of the keypad: a composite HID
// keyboard plus consumer control device whose reports are written to an
// io.Writer such as a Linux USB gadget node (/dev/hidg0).
package keyboard

import (
	"io"
	"log/slog"
	"sync"

	"github.com/Alia5/macropad/device"
	"github.com/Alia5/macropad/internal/log"
)

// Keyboard implements macro.Sink. Every state change emits a report; write
// failures are logged and otherwise ignored.
type Keyboard struct {
	mu       sync.Mutex
	w        io.Writer
	logger   *slog.Logger
	raw      log.RawLogger
	state    InputState
	consumer ConsumerState
}

// New returns a Keyboard writing reports to w. A nil w discards reports.
func New(w io.Writer, logger *slog.Logger, raw log.RawLogger) *Keyboard {
	if w == nil {
		w = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	if raw == nil {
		raw = log.NewRaw(nil)
	}
	return &Keyboard{w: w, logger: logger, raw: raw}
}

func (k *Keyboard) send(rb device.ReportBuilder) {
	report := rb.BuildReport()
	k.raw.Log(false, report)
	if _, err := k.w.Write(report); err != nil {
		k.logger.Warn("failed to write HID report", "error", err)
	}
}

func (k *Keyboard) Press(code uint16) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.state.Press(code) {
		k.logger.Debug("ignoring keycode outside the keyboard page", "keycode", code)
		return
	}
	k.send(k.state)
}

func (k *Keyboard) PressConsumer(code uint16) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if !k.consumer.Press(code) {
		k.logger.Debug("dropping consumer control", "usage", code)
		return
	}
	k.send(k.consumer)
}

func (k *Keyboard) PressChar(c byte) {
	k.mu.Lock()
	defer k.mu.Unlock()
	usage, shift := CharToHID(c)
	if usage == 0 {
		k.logger.Debug("ignoring untypeable character", "char", c)
		return
	}
	if shift {
		k.state.Press(KeyLeftShift)
	}
	k.state.Press(uint16(usage))
	k.send(k.state)
}

func (k *Keyboard) ReleaseAll() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.state = InputState{}
	k.consumer = ConsumerState{}
	k.send(k.state)
	k.send(k.consumer)
}

// Print types s one character at a time. Keys held before the call stay held.
func (k *Keyboard) Print(s string) {
	k.mu.Lock()
	defer k.mu.Unlock()
	for i := 0; i < len(s); i++ {
		usage, shift := CharToHID(s[i])
		if usage == 0 {
			continue
		}
		addedShift := shift && !k.state.Held(KeyLeftShift)
		if addedShift {
			k.state.Press(KeyLeftShift)
		}
		addedKey := !k.state.Held(uint16(usage))
		k.state.Press(uint16(usage))
		k.send(k.state)

		if addedKey {
			k.state.Release(uint16(usage))
		}
		if addedShift {
			k.state.Release(KeyLeftShift)
		}
		k.send(k.state)
	}
}

// State returns a snapshot of the held keys and consumer controls.
func (k *Keyboard) State() (InputState, ConsumerState) {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.state, k.consumer
}
