package macro

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Slot image layout:
//
//	Byte 0: Type tag (TypeKey or TypeText)
//	Byte 1: Element count (actions for KEY, text bytes for TEXT)
//	Bytes 2+: KEY: count x [kind u8][payload u16 LE]
//	          TEXT: count text bytes
const (
	headerSize = 2
	actionSize = 3

	// KeySize is the largest encoded KeyMacro.
	KeySize = headerSize + MaxActions*actionSize
	// TextSize is the largest encoded TextMacro.
	TextSize = headerSize + MaxTextLen
	// SlotSize is the stride of one storage slot.
	SlotSize = max(KeySize, TextSize)
)

// ErrCorrupt is returned when a slot image does not decode to a macro.
var ErrCorrupt = errors.New("corrupt macro image")

// MarshalBinary encodes the KeyMacro slot image.
func (m *KeyMacro) MarshalBinary() ([]byte, error) {
	b := make([]byte, headerSize+len(m.actions)*actionSize)
	b[0] = byte(TypeKey)
	b[1] = byte(len(m.actions))
	for i, a := range m.actions {
		off := headerSize + i*actionSize
		b[off] = byte(a.Kind)
		binary.LittleEndian.PutUint16(b[off+1:], a.Payload)
	}
	return b, nil
}

// UnmarshalBinary decodes a KeyMacro slot image. Trailing bytes are ignored.
func (m *KeyMacro) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize || Type(data[0]) != TypeKey {
		return fmt.Errorf("key macro: %w", ErrCorrupt)
	}
	n := int(data[1])
	if n > MaxActions {
		return fmt.Errorf("key macro: %d actions: %w", n, ErrCorrupt)
	}
	if len(data) < headerSize+n*actionSize {
		return fmt.Errorf("key macro: short image: %w", ErrCorrupt)
	}
	m.actions = nil
	for i := 0; i < n; i++ {
		off := headerSize + i*actionSize
		a, err := NewAction(Kind(data[off]), binary.LittleEndian.Uint16(data[off+1:]))
		if err != nil {
			return fmt.Errorf("key macro: action %d: %w", i, ErrCorrupt)
		}
		m.actions = append(m.actions, a)
	}
	return nil
}

// MarshalBinary encodes the TextMacro slot image.
func (m *TextMacro) MarshalBinary() ([]byte, error) {
	b := make([]byte, headerSize+len(m.text))
	b[0] = byte(TypeText)
	b[1] = byte(len(m.text))
	copy(b[headerSize:], m.text)
	return b, nil
}

// UnmarshalBinary decodes a TextMacro slot image. Trailing bytes are ignored.
func (m *TextMacro) UnmarshalBinary(data []byte) error {
	if len(data) < headerSize || Type(data[0]) != TypeText {
		return fmt.Errorf("text macro: %w", ErrCorrupt)
	}
	n := int(data[1])
	if n > MaxTextLen {
		return fmt.Errorf("text macro: length %d: %w", n, ErrCorrupt)
	}
	if len(data) < headerSize+n {
		return fmt.Errorf("text macro: short image: %w", ErrCorrupt)
	}
	m.text = string(data[headerSize : headerSize+n])
	return nil
}

// Decode reads the tag of a slot image and decodes the matching variant.
func Decode(data []byte) (Macro, error) {
	if len(data) == 0 {
		return nil, ErrCorrupt
	}
	switch Type(data[0]) {
	case TypeKey:
		m := &KeyMacro{}
		if err := m.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return m, nil
	case TypeText:
		m := &TextMacro{}
		if err := m.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, fmt.Errorf("unknown tag 0x%02x: %w", data[0], ErrCorrupt)
	}
}
