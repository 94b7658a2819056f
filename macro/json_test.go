package macro_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/Alia5/macropad/macro"
)

func TestParseKeyActions(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    string
		wantErr string
	}{
		{
			name: "every kind",
			data: `[{"sType":1,"keycode":4},{"sType":2,"keycode":233},{"sType":3,"delay":250},{"sType":4,"keycode":97},{"sType":0}]`,
			want: `[{"sType":1,"keycode":4},{"sType":2,"keycode":233},{"sType":3,"delay":250},{"sType":4,"keycode":97},{"sType":0}]`,
		},
		{
			name: "release ignores stray payload",
			data: `[{"sType":0,"keycode":9}]`,
			want: `[{"sType":0}]`,
		},
		{name: "empty", data: `[]`, want: `[]`},
		{name: "not an array", data: `"hello"`, wantErr: "data must be an array of actions for KEY macros"},
		{name: "entry not object", data: `[1]`, wantErr: "action 0: expected an object"},
		{name: "missing sType", data: `[{"keycode":4}]`, wantErr: "action 0: missing sType"},
		{name: "unknown sType", data: `[{"sType":1,"keycode":4},{"sType":7}]`, wantErr: "action 1: unknown sType 7"},
		{name: "fractional sType", data: `[{"sType":1.5}]`, wantErr: "action 0: invalid sType 1.5"},
		{name: "missing keycode", data: `[{"sType":1}]`, wantErr: "action 0: missing keycode"},
		{name: "missing delay", data: `[{"sType":3,"keycode":1}]`, wantErr: "action 0: missing delay"},
		{name: "keycode too large", data: `[{"sType":1,"keycode":65536}]`, wantErr: "action 0: keycode must be an integer in [0, 65535], got 65536"},
		{name: "negative delay", data: `[{"sType":3,"delay":-1}]`, wantErr: "action 0: delay must be an integer in [0, 65535], got -1"},
		{name: "character beyond a byte", data: `[{"sType":4,"keycode":300}]`, wantErr: "action 0: keycode must be an integer in [0, 255], got 300"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := macro.ParseKeyActions(gjson.Parse(tt.data))
			if tt.wantErr != "" {
				assert.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			out, err := json.Marshal(m)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestParseKeyActionsDropsExtras(t *testing.T) {
	entries := make([]string, 20)
	for i := range entries {
		entries[i] = `{"sType":1,"keycode":4}`
	}
	// The 17th entry is garbage but is never looked at.
	entries[16] = `{"sType":99}`

	m, err := macro.ParseKeyActions(gjson.Parse("[" + strings.Join(entries, ",") + "]"))
	require.NoError(t, err)
	assert.Equal(t, macro.MaxActions, m.Len())
}

func TestParseMacro(t *testing.T) {
	m, err := macro.ParseMacro(macro.TypeText, gjson.Parse(`"hello"`))
	require.NoError(t, err)
	assert.Equal(t, macro.TypeText, m.Type())

	_, err = macro.ParseMacro(macro.TypeText, gjson.Parse(`[]`))
	assert.EqualError(t, err, "data must be a string for TEXT macros")

	m, err = macro.ParseMacro(macro.TypeKey, gjson.Parse(`[{"sType":0}]`))
	require.NoError(t, err)
	assert.Equal(t, macro.TypeKey, m.Type())

	_, err = macro.ParseMacro(macro.Type(5), gjson.Parse(`[]`))
	assert.EqualError(t, err, "unknown macro type 5")

	long := strings.Repeat("a", 150)
	m, err = macro.ParseMacro(macro.TypeText, gjson.Parse(`"`+long+`"`))
	require.NoError(t, err)
	assert.Len(t, m.(*macro.TextMacro).Text(), macro.MaxTextLen)
}

func TestParseMacroRejectsInvalidUTF8(t *testing.T) {
	_, err := macro.ParseMacro(macro.TypeText, gjson.Parse("\"a\xffb\""))
	assert.EqualError(t, err, "data must be valid UTF-8 text")

	m, err := macro.ParseMacro(macro.TypeText, gjson.Parse(`"café"`))
	require.NoError(t, err)
	assert.Equal(t, "café", m.(*macro.TextMacro).Text())
}
