package protocol

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/tidwall/gjson"
)

// Request is one parsed command line.
type Request struct {
	Event string
	Body  gjson.Result
}

// Int returns the integer field name. Missing fields and non-integral values
// are validation errors.
func (r *Request) Int(name string) (int, error) {
	v := r.Body.Get(name)
	if !v.Exists() {
		return 0, ErrBadRequest(fmt.Sprintf("missing %s", name))
	}
	if v.Type != gjson.Number || v.Num != math.Trunc(v.Num) {
		return 0, ErrBadRequest(fmt.Sprintf("%s must be an integer, got %s", name, v.Raw))
	}
	return int(v.Num), nil
}

// Index returns the index field, checked against [0, n).
func (r *Request) Index(n int) (int, error) {
	i, err := r.Int("index")
	if err != nil {
		return 0, err
	}
	if i < 0 || i >= n {
		return 0, ErrBadRequest(fmt.Sprintf("index %d out of range [0, %d]", i, n-1))
	}
	return i, nil
}

// Response holds the single line written back to the host.
type Response struct {
	Body string
}

// HandlerFunc processes a request and populates the response.
// Returns an error on failure; the server turns it into a problem line.
type HandlerFunc func(req *Request, res *Response, logger *slog.Logger) error

// Router selects a handler by the first character of the event.
type Router struct {
	routes map[byte]routeEntry
	order  []byte
}

type routeEntry struct {
	event   string
	handler HandlerFunc
}

// NewRouter returns a new Router instance.
func NewRouter() *Router { return &Router{routes: map[byte]routeEntry{}} }

// Register binds handler to every event starting with event's first
// character. A later registration for the same character replaces the earlier.
func (r *Router) Register(event string, handler HandlerFunc) {
	if event == "" {
		panic("protocol: empty event")
	}
	c := event[0]
	if _, ok := r.routes[c]; !ok {
		r.order = append(r.order, c)
	}
	r.routes[c] = routeEntry{event: event, handler: handler}
}

// Match returns the handler for event, or nil.
func (r *Router) Match(event string) HandlerFunc {
	if event == "" {
		return nil
	}
	if rt, ok := r.routes[event[0]]; ok {
		return rt.handler
	}
	return nil
}

// Events lists the registered event names in registration order.
func (r *Router) Events() []string {
	out := make([]string, 0, len(r.order))
	for _, c := range r.order {
		out = append(out, r.routes[c].event)
	}
	return out
}
