package macro

import (
	"encoding/json"
	"time"

	"github.com/Alia5/macropad/timer"
)

// MaxActions is the capacity of a KeyMacro.
const MaxActions = 16

// KeyMacro is an ordered action sequence; insertion order is execution order.
type KeyMacro struct {
	actions []Action
}

// NewKeyMacro builds a KeyMacro, silently dropping actions past MaxActions.
func NewKeyMacro(actions ...Action) *KeyMacro {
	m := &KeyMacro{}
	for _, a := range actions {
		m.Add(a)
	}
	return m
}

// Add appends a to the sequence. It is a no-op once the macro is full and
// reports whether the action was stored.
func (m *KeyMacro) Add(a Action) bool {
	if len(m.actions) >= MaxActions {
		return false
	}
	m.actions = append(m.actions, a)
	return true
}

// Len returns the number of stored actions.
func (m *KeyMacro) Len() int { return len(m.actions) }

// Actions returns a copy of the sequence.
func (m *KeyMacro) Actions() []Action {
	out := make([]Action, len(m.actions))
	copy(out, m.actions)
	return out
}

func (m *KeyMacro) Type() Type { return TypeKey }

func (m *KeyMacro) Execute(s Sink, w timer.Waiter) {
	for _, a := range m.actions {
		switch a.Kind {
		case Delay:
			w.Wait(time.Duration(a.Payload) * time.Millisecond)
		case Keystroke:
			s.Press(a.Payload)
		case ConsumerKeystroke:
			s.PressConsumer(a.Payload)
		case CharacterKeystroke:
			s.PressChar(byte(a.Payload))
		case ReleaseAll:
			s.ReleaseAll()
		}
	}
}

// MarshalJSON encodes the action list; an empty macro encodes as [].
func (m *KeyMacro) MarshalJSON() ([]byte, error) {
	if len(m.actions) == 0 {
		return []byte("[]"), nil
	}
	return json.Marshal(m.actions)
}
