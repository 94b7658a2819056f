// Package macro implements the two user programmable macro variants of the
// keypad, their binary slot image and their JSON wire form.
package macro

import (
	"encoding"
	"encoding/json"
	"fmt"

	"github.com/Alia5/macropad/timer"
)

// Type discriminates the macro variants. The value is used on the wire and as
// the stored type bit.
type Type uint8

const (
	TypeKey  Type = 0
	TypeText Type = 1
)

func (t Type) String() string {
	switch t {
	case TypeKey:
		return "key"
	case TypeText:
		return "text"
	default:
		return fmt.Sprintf("type(%d)", uint8(t))
	}
}

// Valid reports whether t names a known variant.
func (t Type) Valid() bool {
	return t == TypeKey || t == TypeText
}

// Sink asserts and releases keys on the host. Press calls never release.
// Failures are the sink's own business and are not reported back.
type Sink interface {
	// Press asserts a keyboard usage code. Usages 0xE0-0xE7 are modifiers.
	Press(code uint16)
	// PressConsumer asserts a consumer control usage.
	PressConsumer(code uint16)
	// PressChar asserts the key (and shift, if needed) producing c.
	PressChar(c byte)
	// ReleaseAll releases every asserted key and consumer control.
	ReleaseAll()
	// Print types s as a sequence of press/release pairs.
	Print(s string)
}

// Macro is one occupant of a slot.
type Macro interface {
	Type() Type
	// Execute runs the macro to completion on the calling goroutine.
	Execute(s Sink, w timer.Waiter)
	// MarshalJSON encodes the macro's data portion of the wire form.
	json.Marshaler
	encoding.BinaryMarshaler
}
