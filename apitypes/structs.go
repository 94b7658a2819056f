package apitypes

import (
	"encoding/json"
	"fmt"
)

// ApiError represents an RFC 7807 (problem+json) error response.
type ApiError struct {
	// Status is the HTTP-style status code (e.g., 400, 404, 500)
	Status int `json:"status"`
	// Title is a short, human-readable summary of the problem type
	Title string `json:"title"`
	// Detail is a human-readable explanation specific to this occurrence
	Detail string `json:"detail"`
}

func (e ApiError) Error() string {
	if e.Status == 0 && e.Title == "" {
		return "unknown error"
	}
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s", e.Title, e.Detail)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Title, e.Detail)
}

// --

type IdentifyResponse struct {
	Rows      int   `json:"rows"`
	Cols      int   `json:"cols"`
	NPins     int   `json:"nPins"`
	Pins      []int `json:"pins"`
	NProgPins int   `json:"nProgPins"`
	ProgPins  []int `json:"progPins"`
}

// MacroResponse is a stored macro as returned by read and write.
// Data is an action array for KEY macros and a string for TEXT macros.
type MacroResponse struct {
	Index int             `json:"index"`
	Type  int             `json:"type"`
	Data  json.RawMessage `json:"data"`
}

// ReadAllResponse holds one entry per slot; nil entries encode as null.
type ReadAllResponse []*MacroResponse

// ActionRequest is one entry of a KEY macro's data array.
type ActionRequest struct {
	SType   int     `json:"sType"`
	Keycode *uint16 `json:"keycode,omitempty"`
	Delay   *uint16 `json:"delay,omitempty"`
}
