package macro

import (
	"errors"
	"fmt"
	"math"
	"unicode/utf8"

	"github.com/tidwall/gjson"
)

// ParseMacro decodes the data field of a write request into the variant
// selected by t.
func ParseMacro(t Type, data gjson.Result) (Macro, error) {
	switch t {
	case TypeKey:
		return ParseKeyActions(data)
	case TypeText:
		if data.Type != gjson.String {
			return nil, errors.New("data must be a string for TEXT macros")
		}
		text := data.String()
		if !utf8.ValidString(text) {
			return nil, errors.New("data must be valid UTF-8 text")
		}
		return NewTextMacro(text), nil
	default:
		return nil, fmt.Errorf("unknown macro type %d", uint8(t))
	}
}

// ParseKeyActions decodes an array of {sType, keycode|delay} objects.
// Entries past MaxActions are dropped without being inspected.
func ParseKeyActions(data gjson.Result) (*KeyMacro, error) {
	if !data.IsArray() {
		return nil, errors.New("data must be an array of actions for KEY macros")
	}

	m := &KeyMacro{}
	var err error
	data.ForEach(func(i, v gjson.Result) bool {
		if m.Len() >= MaxActions {
			return false
		}
		var a Action
		if a, err = parseAction(v); err != nil {
			err = fmt.Errorf("action %d: %w", m.Len(), err)
			return false
		}
		m.Add(a)
		return true
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

func parseAction(v gjson.Result) (Action, error) {
	if !v.IsObject() {
		return Action{}, errors.New("expected an object")
	}
	st := v.Get("sType")
	if !st.Exists() {
		return Action{}, errors.New("missing sType")
	}
	if !isInt(st) || st.Num < 0 || st.Num > math.MaxUint8 {
		return Action{}, fmt.Errorf("invalid sType %s", st.Raw)
	}
	kind := Kind(st.Num)
	if !kind.Valid() {
		return Action{}, fmt.Errorf("unknown sType %d", uint8(kind))
	}

	switch kind {
	case ReleaseAll:
		return Release(), nil
	case Delay:
		ms, err := uint16Field(v, "delay", math.MaxUint16)
		if err != nil {
			return Action{}, err
		}
		return Wait(ms), nil
	case CharacterKeystroke:
		c, err := uint16Field(v, "keycode", math.MaxUint8)
		if err != nil {
			return Action{}, err
		}
		return PressChar(byte(c)), nil
	default:
		code, err := uint16Field(v, "keycode", math.MaxUint16)
		if err != nil {
			return Action{}, err
		}
		return NewAction(kind, code)
	}
}

func uint16Field(v gjson.Result, name string, max float64) (uint16, error) {
	f := v.Get(name)
	if !f.Exists() {
		return 0, fmt.Errorf("missing %s", name)
	}
	if !isInt(f) || f.Num < 0 || f.Num > max {
		return 0, fmt.Errorf("%s must be an integer in [0, %d], got %s", name, int(max), f.Raw)
	}
	return uint16(f.Num), nil
}

func isInt(r gjson.Result) bool {
	return r.Type == gjson.Number && r.Num == math.Trunc(r.Num)
}
