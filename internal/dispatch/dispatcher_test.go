package dispatch_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/dispatch"
	"github.com/Alia5/macropad/internal/input"
	"github.com/Alia5/macropad/internal/log"
	th "github.com/Alia5/macropad/internal/testing"
	"github.com/Alia5/macropad/macro"
)

type slotMap map[int]macro.Macro

func (s slotMap) Get(i int) (macro.Macro, bool) {
	m, ok := s[i]
	return m, ok
}

type rig struct {
	d     *dispatch.Dispatcher
	lines *input.Bank
	sink  *th.RecordingSink
	clock *th.FakeClock
}

func newRig(t *testing.T, slots slotMap) rig {
	t.Helper()
	layout := config.DefaultLayout()
	r := rig{
		lines: input.NewBank(layout.Pins),
		sink:  &th.RecordingSink{},
		clock: th.NewFakeClock(),
	}
	d, err := dispatch.New(layout, r.lines, slots, r.sink, r.clock, log.Discard())
	require.NoError(t, err)
	r.d = d
	return r
}

func TestShortcuts(t *testing.T) {
	tests := []struct {
		name   string
		pin    int
		events []string
		waits  []time.Duration
	}{
		{
			name:   "copy",
			pin:    2,
			events: []string{"press:224", "char:c", "release"},
			waits:  []time.Duration{5 * time.Millisecond},
		},
		{
			name:   "paste",
			pin:    3,
			events: []string{"press:224", "char:v", "release"},
			waits:  []time.Duration{5 * time.Millisecond},
		},
		{
			name:   "app switch",
			pin:    4,
			events: []string{"press:226", "press:43", "release"},
			waits:  []time.Duration{5 * time.Millisecond},
		},
		{
			name: "dev server",
			pin:  5,
			events: []string{
				"press:224", "press:53", "release",
				"print:npm run dev",
				"press:40", "release",
			},
			waits: []time.Duration{100 * time.Millisecond, 100 * time.Millisecond, 5 * time.Millisecond},
		},
		{
			name:   "save",
			pin:    6,
			events: []string{"press:224", "char:s", "release"},
			waits:  []time.Duration{5 * time.Millisecond},
		},
		{
			name:   "unregistered line only releases",
			pin:    10,
			events: []string{"release"},
			waits:  []time.Duration{5 * time.Millisecond},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, slotMap{})
			r.lines.Press(tt.pin)
			assert.Equal(t, 1, r.d.Scan())
			assert.Equal(t, tt.events, r.sink.Events())
			assert.Equal(t, tt.waits, r.clock.Waits())
		})
	}
}

func TestProgrammableLines(t *testing.T) {
	slots := slotMap{
		0: macro.NewTextMacro("hi"),
		2: macro.NewKeyMacro(macro.Press(0x04), macro.Wait(10), macro.Release()),
	}

	tests := []struct {
		name   string
		pin    int
		events []string
	}{
		{name: "text slot", pin: 7, events: []string{"print:hi", "release"}},
		{name: "empty slot", pin: 8, events: []string{"release"}},
		{name: "key slot", pin: 9, events: []string{"press:4", "release", "release"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, slots)
			r.lines.Press(tt.pin)
			r.d.Scan()
			assert.Equal(t, tt.events, r.sink.Events())
		})
	}
}

func TestHeldLineTriggersOnce(t *testing.T) {
	r := newRig(t, slotMap{})
	r.lines.Press(2)
	assert.Equal(t, 1, r.d.Scan())

	for i := 0; i < 5; i++ {
		r.clock.Advance(100 * time.Millisecond)
		assert.Equal(t, 0, r.d.Scan())
	}

	r.lines.Release(2)
	r.clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 0, r.d.Scan(), "release edge never triggers")

	r.lines.Press(2)
	r.clock.Advance(100 * time.Millisecond)
	assert.Equal(t, 1, r.d.Scan())
}

func TestDebounceWindowSkipsWholePass(t *testing.T) {
	r := newRig(t, slotMap{})
	r.lines.Press(2)
	require.Equal(t, 1, r.d.Scan())

	// Contact bounce inside the window is never observed.
	r.lines.Release(2)
	r.clock.Advance(10 * time.Millisecond)
	assert.Equal(t, 0, r.d.Scan())
	r.lines.Press(2)
	r.clock.Advance(10 * time.Millisecond)
	assert.Equal(t, 0, r.d.Scan())

	// Another line pressed within the window is also deferred.
	r.lines.Press(3)
	assert.Equal(t, 0, r.d.Scan())

	r.clock.Advance(50 * time.Millisecond)
	r.sink.Reset()
	assert.Equal(t, 1, r.d.Scan())
	assert.Equal(t, []string{"press:224", "char:v", "release"}, r.sink.Events())
}

func TestSimultaneousPressesRunInScanOrder(t *testing.T) {
	r := newRig(t, slotMap{0: macro.NewTextMacro("x")})
	var pins []int
	r.d.OnTrigger = func(pin int) { pins = append(pins, pin) }

	r.lines.Press(7)
	r.lines.Press(2)
	assert.Equal(t, 2, r.d.Scan())
	assert.Equal(t, []int{2, 7}, pins)
	assert.Equal(t, []string{"press:224", "char:c", "release", "print:x", "release"}, r.sink.Events())
}

func TestUnknownShortcut(t *testing.T) {
	layout := config.DefaultLayout()
	layout.Shortcuts[3] = "launch-rockets"
	_, err := dispatch.New(layout, input.NewBank(layout.Pins), slotMap{}, &th.RecordingSink{}, th.NewFakeClock(), log.Discard())
	assert.EqualError(t, err, `pin 3: unknown shortcut "launch-rockets"`)
}

func TestDescribe(t *testing.T) {
	r := newRig(t, slotMap{})
	assert.Equal(t, []string{
		"pin 2: copy",
		"pin 3: paste",
		"pin 4: app-switch",
		"pin 5: dev-server",
		"pin 6: save",
		"pin 7: slot 0",
		"pin 8: slot 1",
		"pin 9: slot 2",
		"pin 10: unbound",
	}, r.d.Describe())
}

func TestShortcutNames(t *testing.T) {
	names := dispatch.ShortcutNames()
	assert.Contains(t, names, "copy")
	assert.Contains(t, names, "dev-server")
	assert.IsIncreasing(t, names)

	_, ok := dispatch.LookupShortcut("nope")
	assert.False(t, ok)
}
