package keyboard

import (
	"encoding/binary"
	"io"
)

// InputState is the keyboard half of the host-visible state. Keys are kept in
// a 256-bit bitmap so any number of keys can be held at once.
type InputState struct {
	Modifiers uint8     // bit 0-7: LCtrl, LShift, LAlt, LGui, RCtrl, RShift, RAlt, RGui
	KeyBitmap [32]uint8 // 256 bits for HID usage codes 0x00-0xFF
}

// Press marks usage as held. Modifier usages set their modifier bit.
func (st *InputState) Press(usage uint16) bool {
	switch {
	case IsModifier(usage):
		st.Modifiers |= modifierBit(usage)
	case usage <= 0xFF:
		st.KeyBitmap[usage/8] |= 1 << (usage % 8)
	default:
		return false
	}
	return true
}

// Release clears usage.
func (st *InputState) Release(usage uint16) {
	switch {
	case IsModifier(usage):
		st.Modifiers &^= modifierBit(usage)
	case usage <= 0xFF:
		st.KeyBitmap[usage/8] &^= 1 << (usage % 8)
	}
}

// Held reports whether usage is currently held.
func (st InputState) Held(usage uint16) bool {
	switch {
	case IsModifier(usage):
		return st.Modifiers&modifierBit(usage) != 0
	case usage <= 0xFF:
		return st.KeyBitmap[usage/8]&(1<<(usage%8)) != 0
	}
	return false
}

// Keys returns the held non-modifier usages in ascending order.
func (st InputState) Keys() []uint8 {
	var keys []uint8
	for i := 0; i < 256; i++ {
		if st.KeyBitmap[i/8]&(1<<uint(i%8)) != 0 {
			keys = append(keys, uint8(i))
		}
	}
	return keys
}

// BuildReport encodes the keyboard input report.
//
// Report layout (35 bytes):
//
//	Byte 0: Report ID (ReportIDKeyboard)
//	Byte 1: Modifiers
//	Byte 2: Reserved (0x00)
//	Bytes 3-34: Key bitmap (256 bits)
func (st InputState) BuildReport() []byte {
	b := make([]byte, 35)
	b[0] = ReportIDKeyboard
	b[1] = st.Modifiers
	copy(b[3:], st.KeyBitmap[:])
	return b
}

// UnmarshalBinary decodes a keyboard report produced by BuildReport.
func (st *InputState) UnmarshalBinary(data []byte) error {
	if len(data) < 35 || data[0] != ReportIDKeyboard {
		return io.ErrUnexpectedEOF
	}
	st.Modifiers = data[1]
	copy(st.KeyBitmap[:], data[3:35])
	return nil
}

// ConsumerState holds up to MaxConsumer asserted consumer controls.
type ConsumerState [MaxConsumer]uint16

// Press adds usage to the first free entry. It reports false when the usage
// could not be added.
func (cs *ConsumerState) Press(usage uint16) bool {
	if usage == 0 {
		return false
	}
	for _, u := range cs {
		if u == usage {
			return true
		}
	}
	for i, u := range cs {
		if u == 0 {
			cs[i] = usage
			return true
		}
	}
	return false
}

// BuildReport encodes the consumer report.
//
// Report layout (9 bytes):
//
//	Byte 0: Report ID (ReportIDConsumer)
//	Bytes 1-8: four usages, u16 little endian, 0 = none
func (cs ConsumerState) BuildReport() []byte {
	b := make([]byte, 1+2*MaxConsumer)
	b[0] = ReportIDConsumer
	for i, u := range cs {
		binary.LittleEndian.PutUint16(b[1+2*i:], u)
	}
	return b
}
