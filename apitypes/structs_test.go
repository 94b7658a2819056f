package apitypes_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/macropad/apitypes"
)

func TestApiErrorString(t *testing.T) {
	tests := []struct {
		name string
		err  apitypes.ApiError
		want string
	}{
		{name: "empty", err: apitypes.ApiError{}, want: "unknown error"},
		{name: "no status", err: apitypes.ApiError{Title: "Parse Error", Detail: "x"}, want: "Parse Error: x"},
		{name: "full", err: apitypes.ApiError{Status: 404, Title: "Not Found", Detail: "unknown event"}, want: "404 Not Found: unknown event"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestReadAllEncodesNulls(t *testing.T) {
	all := apitypes.ReadAllResponse{
		nil,
		{Index: 1, Type: 1, Data: json.RawMessage(`"hi"`)},
		nil,
	}
	out, err := json.Marshal(all)
	require.NoError(t, err)
	assert.Equal(t, `[null,{"index":1,"type":1,"data":"hi"},null]`, string(out))
}
