package apiclient

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"
)

// Config controls low-level transport behavior such as timeouts.
type Config struct {
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

func defaultConfig() Config {
	return Config{
		DialTimeout:  3 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
}

// Transport speaks the keypad's line protocol over one persistent TCP
// connection. Each request is a single line; each response is a single line.
// The connection is dialed on first use and dropped after any I/O error.
type Transport struct {
	addr string
	mock func(line string) (string, error)
	cfg  Config

	mu   sync.Mutex
	conn net.Conn
	r    *bufio.Reader
}

// NewTransport creates a new low-level transport.
func NewTransport(addr string) *Transport { return NewTransportWithConfig(addr, nil) }

// NewTransportWithConfig creates a new low-level transport with optional timeouts configuration.
func NewTransportWithConfig(addr string, cfg *Config) *Transport {
	c := defaultConfig()
	if cfg != nil {
		c = *cfg
	}
	return &Transport{addr: addr, cfg: c}
}

// NewMockTransport creates a transport that returns canned responses without real networking.
func NewMockTransport(responder func(line string) (string, error)) *Transport {
	return &Transport{addr: "mock", mock: responder, cfg: defaultConfig()}
}

// Do sends a request and returns the single-line response without its newline.
// Payload handling rules:
//
//	[]byte -> sent as-is
//	string -> UTF-8 bytes
//	struct/other -> JSON marshaled bytes
func (t *Transport) Do(payload any) (string, error) {
	return t.DoCtx(context.Background(), payload)
}

// DoCtx is like Do but honors the provided context and configured timeouts.
func (t *Transport) DoCtx(ctx context.Context, payload any) (string, error) {
	line, err := toLine(payload)
	if err != nil {
		return "", err
	}
	if t.mock != nil {
		return t.mock(line)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.connect(ctx); err != nil {
		return "", err
	}
	if dl, ok := ctx.Deadline(); ok {
		_ = t.conn.SetDeadline(dl)
	} else {
		_ = t.conn.SetDeadline(time.Time{})
	}

	if t.cfg.WriteTimeout > 0 {
		_ = t.conn.SetWriteDeadline(time.Now().Add(t.cfg.WriteTimeout))
	}
	if _, err := t.conn.Write([]byte(line + "\n")); err != nil {
		t.drop()
		return "", fmt.Errorf("write: %w", err)
	}
	if t.cfg.ReadTimeout > 0 {
		_ = t.conn.SetReadDeadline(time.Now().Add(t.cfg.ReadTimeout))
	}
	resp, err := t.r.ReadString('\n')
	if err != nil && resp == "" {
		t.drop()
		return "", fmt.Errorf("read: %w", err)
	}
	if err != nil {
		// Partial line followed by close, e.g. a conflict rejection.
		t.drop()
	}
	return strings.TrimSuffix(strings.TrimSuffix(resp, "\n"), "\r"), nil
}

func (t *Transport) connect(ctx context.Context) error {
	if t.conn != nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	d := &net.Dialer{Timeout: t.cfg.DialTimeout}
	conn, err := d.DialContext(ctx, "tcp", t.addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	if tcpConn, ok := conn.(*net.TCPConn); ok {
		if err := tcpConn.SetNoDelay(true); err != nil {
			slog.Warn("failed to set TCP_NODELAY", "error", err)
		}
	}
	t.conn = conn
	t.r = bufio.NewReader(conn)
	return nil
}

func (t *Transport) drop() {
	if t.conn != nil {
		_ = t.conn.Close()
	}
	t.conn = nil
	t.r = nil
}

// Close releases the connection, if any.
func (t *Transport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.drop()
	return nil
}

func toLine(v any) (string, error) {
	var s string
	switch p := v.(type) {
	case nil:
		return "", errors.New("empty request")
	case []byte:
		s = string(p)
	case string:
		s = p
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", fmt.Errorf("marshal request: %w", err)
		}
		s = string(b)
	}
	if strings.ContainsAny(s, "\r\n") {
		return "", errors.New("request must be a single line")
	}
	return s, nil
}
