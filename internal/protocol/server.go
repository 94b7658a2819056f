// Package protocol implements the keypad's line oriented command protocol:
// one JSON request per line, one response line per request.
package protocol

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/Alia5/macropad/internal/log"
)

// DumpToken prefixes the diagnostic line that dumps the raw medium.
const DumpToken = "DUMP"

// Dumper writes the raw storage image.
type Dumper interface {
	Dump(w io.Writer) error
}

// Server turns request lines into response lines.
type Server struct {
	router *Router
	dumper Dumper
	logger *slog.Logger
	raw    log.RawLogger
}

// NewServer creates a Server. raw may be nil.
func NewServer(router *Router, dumper Dumper, logger *slog.Logger, raw log.RawLogger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{router: router, dumper: dumper, logger: logger, raw: raw}
}

// Router returns the router so callers can register handlers.
func (s *Server) Router() *Router { return s.router }

// Handle processes one line and returns the response without a trailing
// newline. It never fails: errors become problem JSON.
func (s *Server) Handle(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if s.raw != nil {
		s.raw.Log(true, []byte(line))
	}
	s.logger.Debug("cmd received", "line", line)

	if strings.HasPrefix(line, DumpToken) {
		var b strings.Builder
		if err := s.dumper.Dump(&b); err != nil {
			return s.fail("dump", fmt.Errorf("dump: %w", err))
		}
		return strings.TrimRight(b.String(), " \n")
	}

	if !gjson.Valid(line) {
		return s.fail("", ErrParse("malformed JSON request"))
	}
	body := gjson.Parse(line)
	if !body.IsObject() {
		return s.fail("", ErrParse("request must be a JSON object"))
	}

	ev := body.Get("event")
	if ev.Type != gjson.String || ev.Str == "" {
		return s.fail("", ErrBadRequest("event must be a non-empty string"))
	}

	h := s.router.Match(ev.Str)
	if h == nil {
		return s.fail(ev.Str, ErrNotFound(fmt.Sprintf("unknown event %q", ev.Str)))
	}

	req := &Request{Event: ev.Str, Body: body}
	res := &Response{}
	if err := h(req, res, s.logger.With("event", ev.Str)); err != nil {
		return s.fail(ev.Str, err)
	}
	s.logger.Debug("cmd handled", "event", ev.Str)
	return res.Body
}

func (s *Server) fail(event string, err error) string {
	apiErr := WrapError(err)
	s.logger.Error("cmd failed", "event", event, "error", apiErr)
	problemJSON, _ := json.Marshal(apiErr)
	return string(problemJSON)
}
