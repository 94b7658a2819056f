package keyboard_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/macropad/device/keyboard"
	"github.com/Alia5/macropad/macro"
)

var _ macro.Sink = (*keyboard.Keyboard)(nil)

// reportLog splits the written stream back into reports.
type reportLog struct{ reports [][]byte }

func (r *reportLog) Write(p []byte) (int, error) {
	r.reports = append(r.reports, bytes.Clone(p))
	return len(p), nil
}

func decode(t *testing.T, report []byte) keyboard.InputState {
	t.Helper()
	var st keyboard.InputState
	require.NoError(t, st.UnmarshalBinary(report))
	return st
}

func TestCharToHID(t *testing.T) {
	tests := []struct {
		c     byte
		usage uint8
		shift bool
	}{
		{'a', keyboard.KeyA, false},
		{'Z', keyboard.KeyZ, true},
		{'1', keyboard.Key1, false},
		{'0', keyboard.Key0, false},
		{'!', keyboard.Key1, true},
		{')', keyboard.Key0, true},
		{'~', keyboard.KeyGrave, true},
		{' ', keyboard.KeySpace, false},
		{'\n', keyboard.KeyEnter, false},
		{0x7f, 0, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.c), func(t *testing.T) {
			usage, shift := keyboard.CharToHID(tt.c)
			assert.Equal(t, tt.usage, usage)
			assert.Equal(t, tt.shift, shift)
		})
	}
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "C", keyboard.KeyName(keyboard.KeyC))
	assert.Equal(t, "5", keyboard.KeyName(keyboard.Key1+4))
	assert.Equal(t, "F12", keyboard.KeyName(keyboard.KeyF12))
	assert.Equal(t, "LCtrl", keyboard.KeyName(keyboard.KeyLeftCtrl))
	assert.Equal(t, "Enter", keyboard.KeyName(keyboard.KeyEnter))
	assert.Equal(t, "0x90", keyboard.KeyName(0x90))
}

func TestPressAndReleaseAll(t *testing.T) {
	out := &reportLog{}
	k := keyboard.New(out, nil, nil)

	k.Press(keyboard.KeyLeftCtrl)
	k.PressChar('c')
	st, _ := k.State()
	assert.Equal(t, uint8(keyboard.ModLeftCtrl), st.Modifiers)
	assert.Equal(t, []uint8{keyboard.KeyC}, st.Keys())

	require.Len(t, out.reports, 2)
	last := decode(t, out.reports[1])
	assert.True(t, last.Held(keyboard.KeyLeftCtrl))
	assert.True(t, last.Held(keyboard.KeyC))

	k.ReleaseAll()
	require.Len(t, out.reports, 4)
	assert.Equal(t, keyboard.InputState{}, decode(t, out.reports[2]))
	assert.Equal(t, []byte{keyboard.ReportIDConsumer, 0, 0, 0, 0, 0, 0, 0, 0}, out.reports[3])
}

func TestPressIgnoresOutOfPage(t *testing.T) {
	out := &reportLog{}
	k := keyboard.New(out, nil, nil)
	k.Press(0x1234)
	k.PressChar(0x01)
	assert.Empty(t, out.reports)
}

func TestConsumer(t *testing.T) {
	out := &reportLog{}
	k := keyboard.New(out, nil, nil)
	k.PressConsumer(keyboard.ConsumerVolumeUp)
	k.PressConsumer(keyboard.ConsumerVolumeUp)
	require.Len(t, out.reports, 2)
	assert.Equal(t, []byte{keyboard.ReportIDConsumer, 0xE9, 0, 0, 0, 0, 0, 0, 0}, out.reports[1])

	for _, u := range []uint16{1, 2, 3, 4} {
		k.PressConsumer(u)
	}
	_, cs := k.State()
	assert.Equal(t, keyboard.ConsumerState{keyboard.ConsumerVolumeUp, 1, 2, 3}, cs)
}

func TestPrint(t *testing.T) {
	out := &reportLog{}
	k := keyboard.New(out, nil, nil)
	k.Press(keyboard.KeyLeftCtrl)
	k.Print("Hi")

	// ctrl, then press/release for each character
	require.Len(t, out.reports, 5)
	h := decode(t, out.reports[1])
	assert.True(t, h.Held(keyboard.KeyLeftShift))
	assert.Equal(t, []uint8{keyboard.KeyA + 7}, h.Keys())
	released := decode(t, out.reports[2])
	assert.Equal(t, uint8(keyboard.ModLeftCtrl), released.Modifiers)
	assert.Empty(t, released.Keys())

	i := decode(t, out.reports[3])
	assert.False(t, i.Held(keyboard.KeyLeftShift))

	st, _ := k.State()
	assert.True(t, st.Held(keyboard.KeyLeftCtrl))
}

func TestReportDescriptorCollections(t *testing.T) {
	d := keyboard.ReportDescriptor
	assert.Equal(t, byte(0xC0), d[len(d)-1])
	assert.Equal(t, 2, bytes.Count(d, []byte{0xA1, 0x01}))
}

func TestHIDToCharInvertsCharToHID(t *testing.T) {
	for c := byte(' '); c <= '~'; c++ {
		usage, shift := keyboard.CharToHID(c)
		require.NotZero(t, usage, "char %q", c)
		got, ok := keyboard.HIDToChar(usage, shift)
		require.True(t, ok, "char %q", c)
		assert.Equal(t, string(c), string(got))
	}

	got, ok := keyboard.HIDToChar(keyboard.KeyEnter, false)
	assert.True(t, ok)
	assert.Equal(t, byte('\n'), got)

	_, ok = keyboard.HIDToChar(keyboard.KeyF1, false)
	assert.False(t, ok)
}
