package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/tidwall/pretty"
	"golang.org/x/term"

	"github.com/Alia5/macropad/apiclient"
	"github.com/Alia5/macropad/apitypes"
	"github.com/Alia5/macropad/internal/protocol"
)

// Send issues one command to a keypad served over tcp and prints the reply.
type Send struct {
	Addr    string        `help:"Keypad address" default:"localhost:3243" env:"MACROPAD_ADDR"`
	Timeout time.Duration `help:"Dial and read timeout" default:"5s" env:"MACROPAD_SEND_TIMEOUT"`
	Event   string        `arg:"" help:"Event to send (i, x, r, a, w, c) or DUMP"`
	Index   *int          `help:"Slot index for r, w and c"`
	Text    *string       `help:"Write a TEXT macro with this text" xor:"data"`
	Actions string        `help:"Write a KEY macro from this JSON action array" xor:"data"`
	Line    string        `help:"Send this exact line and ignore the other flags"`
	Color   string        `help:"Colorize JSON output" enum:"auto,always,never" default:"auto"`
}

// BuildRequest composes the request line from the flags.
func (s *Send) BuildRequest() (string, error) {
	if s.Line != "" {
		return s.Line, nil
	}
	if strings.HasPrefix(s.Event, protocol.DumpToken) {
		return protocol.DumpToken, nil
	}

	fields := map[string]any{}
	if s.Index != nil {
		fields["index"] = *s.Index
	}
	switch {
	case s.Text != nil:
		fields["type"] = 1
		fields["data"] = *s.Text
	case s.Actions != "":
		var actions []apitypes.ActionRequest
		if err := json.Unmarshal([]byte(s.Actions), &actions); err != nil {
			return "", fmt.Errorf("invalid --actions: %w", err)
		}
		fields["type"] = 0
		fields["data"] = json.RawMessage(s.Actions)
	}
	return apiclient.Request(s.Event, fields)
}

// Run is called by Kong when the send command is executed.
func (s *Send) Run(logger *slog.Logger) error {
	req, err := s.BuildRequest()
	if err != nil {
		return err
	}
	logger.Debug("sending", "addr", s.Addr, "request", req)

	tr := apiclient.NewTransportWithConfig(s.Addr, &apiclient.Config{
		DialTimeout:  s.Timeout,
		ReadTimeout:  s.Timeout,
		WriteTimeout: s.Timeout,
	})
	defer tr.Close()

	resp, err := tr.Do(req)
	if err != nil {
		return err
	}
	color := s.Color == "always" || (s.Color == "auto" && term.IsTerminal(int(os.Stdout.Fd())))
	return printResponse(os.Stdout, resp, color)
}

// printResponse pretty prints JSON replies and passes plain text through.
// A problem reply is printed and returned as an error.
func printResponse(w io.Writer, resp string, color bool) error {
	if !strings.HasPrefix(resp, "{") && !strings.HasPrefix(resp, "[") {
		_, err := fmt.Fprintln(w, resp)
		return err
	}
	out := pretty.Pretty([]byte(resp))
	if color {
		out = pretty.Color(out, nil)
	}
	if _, err := w.Write(out); err != nil {
		return err
	}

	var problem apitypes.ApiError
	if err := json.Unmarshal([]byte(resp), &problem); err == nil && problem.Status != 0 {
		return &problem
	}
	return nil
}
