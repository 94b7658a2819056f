package macro

import (
	"encoding/json"
	"fmt"
)

// Kind is the tag of an Action.
type Kind uint8

const (
	ReleaseAll         Kind = 0x00
	Keystroke          Kind = 0x01
	ConsumerKeystroke  Kind = 0x02
	Delay              Kind = 0x03
	CharacterKeystroke Kind = 0x04
)

func (k Kind) String() string {
	switch k {
	case ReleaseAll:
		return "release-all"
	case Keystroke:
		return "keystroke"
	case ConsumerKeystroke:
		return "consumer-keystroke"
	case Delay:
		return "delay"
	case CharacterKeystroke:
		return "character-keystroke"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Valid reports whether k is one of the five action tags.
func (k Kind) Valid() bool {
	return k <= CharacterKeystroke
}

// Action is one step of a KeyMacro. Payload is a keycode for the keystroke
// kinds, a duration in milliseconds for Delay and unused for ReleaseAll.
type Action struct {
	Kind    Kind
	Payload uint16
}

// NewAction validates kind and builds an Action. The payload of ReleaseAll is
// forced to zero.
func NewAction(kind Kind, payload uint16) (Action, error) {
	if !kind.Valid() {
		return Action{}, fmt.Errorf("invalid action kind %d", uint8(kind))
	}
	if kind == ReleaseAll {
		payload = 0
	}
	return Action{Kind: kind, Payload: payload}, nil
}

func Press(code uint16) Action        { return Action{Kind: Keystroke, Payload: code} }
func PressConsumer(code uint16) Action { return Action{Kind: ConsumerKeystroke, Payload: code} }
func PressChar(c byte) Action          { return Action{Kind: CharacterKeystroke, Payload: uint16(c)} }
func Release() Action                  { return Action{Kind: ReleaseAll} }
func Wait(ms uint16) Action            { return Action{Kind: Delay, Payload: ms} }

type actionJSON struct {
	SType   uint8   `json:"sType"`
	Keycode *uint16 `json:"keycode,omitempty"`
	Delay   *uint16 `json:"delay,omitempty"`
}

// MarshalJSON encodes the action as {"sType":S,"keycode":K}, {"sType":S,"delay":M}
// or {"sType":0} for ReleaseAll.
func (a Action) MarshalJSON() ([]byte, error) {
	out := actionJSON{SType: uint8(a.Kind)}
	p := a.Payload
	switch a.Kind {
	case ReleaseAll:
	case Delay:
		out.Delay = &p
	default:
		out.Keycode = &p
	}
	return json.Marshal(out)
}
