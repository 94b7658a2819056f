// Package dispatch turns line transitions into macro executions.
//
// Lines are pulled up: HIGH (true) is released, LOW (false) is pressed. Only a
// HIGH to LOW edge triggers. A single debounce window gates the whole scan
// pass rather than each line.
package dispatch

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/macro"
	"github.com/Alia5/macropad/timer"
)

const (
	High = true
	Low  = false
)

// Lines reads the level of a physical input line.
type Lines interface {
	Level(pin int) bool
}

// Slots resolves a slot index to its macro.
type Slots interface {
	Get(i int) (macro.Macro, bool)
}

type bindingKind int

const (
	unbound bindingKind = iota
	shortcutBinding
	slotBinding
)

type binding struct {
	pin      int
	kind     bindingKind
	name     string
	shortcut Shortcut
	slot     int
}

// Dispatcher scans lines and runs the bound action of every new press.
type Dispatcher struct {
	bindings []binding
	prev     []bool
	lines    Lines
	slots    Slots
	sink     macro.Sink
	clock    timer.Clock
	window   time.Duration
	keyDelay time.Duration
	gate     timer.Timer
	scanned  bool
	logger   *slog.Logger

	// OnTrigger, if set, is called with the pin of every triggering edge
	// before its action runs.
	OnTrigger func(pin int)
}

// New binds every pin of the layout. Programmable pins are numbered densely
// in pin order and address the slot with that number.
func New(layout config.Layout, lines Lines, slots Slots, sink macro.Sink, clock timer.Clock, logger *slog.Logger) (*Dispatcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &Dispatcher{
		lines:    lines,
		slots:    slots,
		sink:     sink,
		clock:    clock,
		window:   layout.Debounce,
		keyDelay: layout.KeyDelay,
		logger:   logger,
	}

	for _, pin := range layout.Pins {
		b := binding{pin: pin, kind: unbound}
		if slot := layout.SlotOf(pin); slot >= 0 {
			b.kind = slotBinding
			b.slot = slot
		} else if name, ok := layout.Shortcuts[pin]; ok {
			sc, ok := LookupShortcut(name)
			if !ok {
				return nil, fmt.Errorf("pin %d: unknown shortcut %q", pin, name)
			}
			b.kind = shortcutBinding
			b.name = name
			b.shortcut = sc
		}
		d.bindings = append(d.bindings, b)
		d.prev = append(d.prev, High)
	}
	return d, nil
}

// Scan runs one pass over every line and returns the number of triggered
// actions. The pass is skipped entirely while the debounce window since the
// previous pass has not elapsed.
func (d *Dispatcher) Scan() int {
	if d.scanned && !d.gate.Expired() {
		return 0
	}

	triggered := 0
	for i, b := range d.bindings {
		cur := d.lines.Level(b.pin)
		if d.prev[i] == High && cur == Low {
			d.trigger(b)
			triggered++
		}
		d.prev[i] = cur
	}

	d.gate = timer.NewOn(d.clock, d.window)
	d.scanned = true
	return triggered
}

func (d *Dispatcher) trigger(b binding) {
	if d.OnTrigger != nil {
		d.OnTrigger(b.pin)
	}

	switch b.kind {
	case shortcutBinding:
		d.logger.Debug("shortcut", "pin", b.pin, "name", b.name)
		b.shortcut.Execute(d.sink, d.clock)
	case slotBinding:
		m, ok := d.slots.Get(b.slot)
		if !ok {
			d.logger.Debug("slot is empty", "pin", b.pin, "slot", b.slot)
			break
		}
		d.logger.Debug("macro", "pin", b.pin, "slot", b.slot, "type", m.Type())
		m.Execute(d.sink, d.clock)
	default:
		d.logger.Info("unregistered line", "pin", b.pin)
	}

	d.clock.Wait(d.keyDelay)
	d.sink.ReleaseAll()
}

// Describe returns a human readable binding per pin, in scan order.
func (d *Dispatcher) Describe() []string {
	out := make([]string, len(d.bindings))
	for i, b := range d.bindings {
		switch b.kind {
		case shortcutBinding:
			out[i] = fmt.Sprintf("pin %d: %s", b.pin, b.name)
		case slotBinding:
			out[i] = fmt.Sprintf("pin %d: slot %d", b.pin, b.slot)
		default:
			out[i] = fmt.Sprintf("pin %d: unbound", b.pin)
		}
	}
	return out
}
