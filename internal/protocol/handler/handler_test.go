package handler_test

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/macropad/apitypes"
	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/log"
	"github.com/Alia5/macropad/internal/protocol"
	"github.com/Alia5/macropad/internal/protocol/handler"
	"github.com/Alia5/macropad/storage"
)

func newServer(t *testing.T, mem *storage.Mem) (*protocol.Server, *storage.Store) {
	t.Helper()
	st, err := storage.Open(mem, 3, log.Discard())
	require.NoError(t, err)
	r := protocol.NewRouter()
	handler.RegisterAll(r, st, config.DefaultLayout())
	return protocol.NewServer(r, st, log.Discard(), nil), st
}

func problem(t *testing.T, line string) apitypes.ApiError {
	t.Helper()
	var ae apitypes.ApiError
	require.NoError(t, json.Unmarshal([]byte(line), &ae), "response %q is not problem JSON", line)
	return ae
}

func assertResponse(t *testing.T, want, got string) {
	t.Helper()
	if strings.HasPrefix(want, "{") || strings.HasPrefix(want, "[") {
		assert.JSONEq(t, want, got)
		return
	}
	assert.Equal(t, want, got)
}

func TestIdentify(t *testing.T) {
	srv, _ := newServer(t, storage.NewMem(storage.DefaultSize))
	assertResponse(t,
		`{"rows":3,"cols":3,"nPins":9,"pins":[2,3,4,5,6,7,8,9,10],"nProgPins":3,"progPins":[7,8,9]}`,
		srv.Handle(`{"event":"i"}`))
}

func TestCommandSequences(t *testing.T) {
	tests := []struct {
		name  string
		steps [][2]string
	}{
		{
			name: "write and read key macro",
			steps: [][2]string{
				{`{"event":"w","type":0,"index":0,"data":[{"sType":1,"keycode":4},{"sType":0}]}`,
					`{"index":0,"type":0,"data":[{"sType":1,"keycode":4},{"sType":0}]}`},
				{`{"event":"r","index":0}`,
					`{"index":0,"type":0,"data":[{"sType":1,"keycode":4},{"sType":0}]}`},
			},
		},
		{
			name: "write and read text macro",
			steps: [][2]string{
				{`{"event":"w","type":1,"index":1,"data":"hello"}`, `{"index":1,"type":1,"data":"hello"}`},
				{`{"event":"r","index":1}`, `{"index":1,"type":1,"data":"hello"}`},
			},
		},
		{
			name: "clear empty slot",
			steps: [][2]string{
				{`{"event":"c","index":1}`, "Macro in index 1 is already unset"},
				{`{"event":"a"}`, `[null,null,null]`},
			},
		},
		{
			name: "clear occupied slot",
			steps: [][2]string{
				{`{"event":"w","type":1,"index":2,"data":"x"}`, `{"index":2,"type":1,"data":"x"}`},
				{`{"event":"c","index":2}`, "Cleared macro in index 2"},
				{`{"event":"c","index":2}`, "Macro in index 2 is already unset"},
				{`{"event":"r","index":2}`, "null"},
			},
		},
		{
			name: "reset then read all",
			steps: [][2]string{
				{`{"event":"w","type":1,"index":0,"data":"a"}`, `{"index":0,"type":1,"data":"a"}`},
				{`{"event":"w","type":0,"index":2,"data":[]}`, `{"index":2,"type":0,"data":[]}`},
				{`{"event":"x"}`, "EEPROM reset successfully"},
				{`{"event":"a"}`, `[null,null,null]`},
			},
		},
		{
			name: "overwrite replaces variant",
			steps: [][2]string{
				{`{"event":"w","type":1,"index":0,"data":"first"}`, `{"index":0,"type":1,"data":"first"}`},
				{`{"event":"w","type":0,"index":0,"data":[{"sType":3,"delay":20}]}`, `{"index":0,"type":0,"data":[{"sType":3,"delay":20}]}`},
				{`{"event":"a"}`, `[{"index":0,"type":0,"data":[{"sType":3,"delay":20}]},null,null]`},
			},
		},
		{
			name: "event matched by first character",
			steps: [][2]string{
				{`{"event":"write","type":1,"index":0,"data":"hi"}`, `{"index":0,"type":1,"data":"hi"}`},
				{`{"event":"read","index":0}`, `{"index":0,"type":1,"data":"hi"}`},
			},
		},
		{
			name: "read empty slot",
			steps: [][2]string{
				{`{"event":"r","index":2}`, "null"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newServer(t, storage.NewMem(storage.DefaultSize))
			for _, step := range tt.steps {
				assertResponse(t, step[1], srv.Handle(step[0]))
			}
		})
	}
}

func TestWriteTruncation(t *testing.T) {
	srv, st := newServer(t, storage.NewMem(storage.DefaultSize))

	actions := make([]string, 20)
	for i := range actions {
		actions[i] = `{"sType":1,"keycode":4}`
	}
	srv.Handle(`{"event":"w","type":0,"index":0,"data":[` + strings.Join(actions, ",") + `]}`)
	m, ok := st.Get(0)
	require.True(t, ok)
	out, err := m.MarshalJSON()
	require.NoError(t, err)
	var decoded []map[string]int
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Len(t, decoded, 16)

	long := strings.Repeat("z", 120)
	resp := srv.Handle(`{"event":"w","type":1,"index":1,"data":"` + long + `"}`)
	assertResponse(t, `{"index":1,"type":1,"data":"`+long[:99]+`"}`, resp)
}

func TestErrors(t *testing.T) {
	tests := []struct {
		name string
		line string
		want apitypes.ApiError
	}{
		{"malformed json", `{"event":`, apitypes.ApiError{Status: 400, Title: "Parse Error", Detail: "malformed JSON request"}},
		{"not an object", `[1,2]`, apitypes.ApiError{Status: 400, Title: "Parse Error", Detail: "request must be a JSON object"}},
		{"empty line", ``, apitypes.ApiError{Status: 400, Title: "Parse Error", Detail: "malformed JSON request"}},
		{"missing event", `{}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "event must be a non-empty string"}},
		{"empty event", `{"event":""}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "event must be a non-empty string"}},
		{"numeric event", `{"event":5}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "event must be a non-empty string"}},
		{"unknown event", `{"event":"z"}`, apitypes.ApiError{Status: 404, Title: "Not Found", Detail: `unknown event "z"`}},
		{"read missing index", `{"event":"r"}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "missing index"}},
		{"read string index", `{"event":"r","index":"0"}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: `index must be an integer, got "0"`}},
		{"read fractional index", `{"event":"r","index":0.5}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "index must be an integer, got 0.5"}},
		{"read index too high", `{"event":"r","index":3}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "index 3 out of range [0, 2]"}},
		{"read negative index", `{"event":"r","index":-1}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "index -1 out of range [0, 2]"}},
		{"clear index too high", `{"event":"c","index":9}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "index 9 out of range [0, 2]"}},
		{"write index too high", `{"event":"w","type":1,"index":3,"data":"x"}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "index 3 out of range [0, 2]"}},
		{"write negative index", `{"event":"w","type":1,"index":-1,"data":"x"}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "index -1 out of range [0, 2]"}},
		{"clear negative index", `{"event":"c","index":-1}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "index -1 out of range [0, 2]"}},
		{"write type overflow", `{"event":"w","type":256,"index":0,"data":[]}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "unknown macro type 256"}},
		{"write type overflow to text", `{"event":"w","type":257,"index":1,"data":"hi"}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "unknown macro type 257"}},
		{"write negative type", `{"event":"w","type":-1,"index":0,"data":"x"}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "unknown macro type -1"}},
		{"write missing type", `{"event":"w","index":0,"data":"x"}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "missing type"}},
		{"write unknown type", `{"event":"w","type":2,"index":0,"data":"x"}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "unknown macro type 2"}},
		{"write missing data", `{"event":"w","type":1,"index":0}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "missing data"}},
		{"write text with array", `{"event":"w","type":1,"index":0,"data":[]}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "data must be a string for TEXT macros"}},
		{"write key with string", `{"event":"w","type":0,"index":0,"data":"x"}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "data must be an array of actions for KEY macros"}},
		{"write unknown action", `{"event":"w","type":0,"index":0,"data":[{"sType":9}]}`, apitypes.ApiError{Status: 400, Title: "Bad Request", Detail: "action 0: unknown sType 9"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := storage.NewMem(storage.DefaultSize)
			srv, _ := newServer(t, mem)
			srv.Handle(`{"event":"w","type":1,"index":0,"data":"keep"}`)
			before := mem.Bytes()

			assert.Equal(t, tt.want, problem(t, srv.Handle(tt.line)))
			assert.Equal(t, before, mem.Bytes(), "medium changed on error")
			assertResponse(t, `[{"index":0,"type":1,"data":"keep"},null,null]`, srv.Handle(`{"event":"a"}`))
		})
	}
}

func TestPersistsAcrossReboot(t *testing.T) {
	mem := storage.NewMem(storage.DefaultSize)
	srv, _ := newServer(t, mem)
	srv.Handle(`{"event":"w","type":0,"index":2,"data":[{"sType":2,"keycode":233},{"sType":3,"delay":40},{"sType":0}]}`)
	srv.Handle(`{"event":"w","type":1,"index":0,"data":"boot"}`)

	rebooted, _ := newServer(t, mem)
	assertResponse(t,
		`[{"index":0,"type":1,"data":"boot"},null,{"index":2,"type":0,"data":[{"sType":2,"keycode":233},{"sType":3,"delay":40},{"sType":0}]}]`,
		rebooted.Handle(`{"event":"a"}`))
}

func TestDump(t *testing.T) {
	srv, _ := newServer(t, storage.NewMem(storage.DefaultSize))
	srv.Handle(`{"event":"w","type":1,"index":0,"data":"A"}`)

	out := srv.Handle("DUMP")
	fields := strings.Fields(out)
	require.Len(t, fields, storage.DefaultSize)
	// bitmap, then slot 0: tag TEXT, length 1, 'A'
	assert.Equal(t, []string{"1", "1", "1", "65", "255"}, fields[:5])

	assert.Equal(t, out, srv.Handle("DUMPPLEASE\r\n"))
}
