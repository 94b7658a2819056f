package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/sjson"

	apitypes "github.com/Alia5/macropad/apitypes"
)

// Client provides a high-level interface to the keypad command protocol,
// handling request formatting, response parsing, and error handling.
type Client struct{ transport *Transport }

// New constructs a high-level API client using the internal low-level Transport.
// The addr parameter specifies the TCP address (host:port) of the keypad.
func New(addr string) *Client { return &Client{transport: NewTransport(addr)} }

// NewWithConfig constructs a client with custom transport timeouts.
func NewWithConfig(addr string, cfg *Config) *Client {
	return &Client{transport: NewTransportWithConfig(addr, cfg)}
}

// WithTransport constructs a Client using a custom Transport implementation.
// This is primarily useful for testing or when advanced transport configuration is needed.
func WithTransport(t *Transport) *Client { return &Client{transport: t} }

// Close releases the underlying connection.
func (c *Client) Close() error { return c.transport.Close() }

// Request builds a request line for event with the given fields set.
// Field values are JSON encoded; json.RawMessage values are inserted verbatim.
func Request(event string, fields map[string]any) (string, error) {
	req, err := sjson.Set(`{}`, "event", event)
	if err != nil {
		return "", err
	}
	for k, v := range fields {
		if raw, ok := v.(json.RawMessage); ok {
			req, err = sjson.SetRaw(req, k, string(raw))
		} else {
			req, err = sjson.Set(req, k, v)
		}
		if err != nil {
			return "", fmt.Errorf("set %s: %w", k, err)
		}
	}
	return req, nil
}

func (c *Client) do(ctx context.Context, event string, fields map[string]any) (string, error) {
	req, err := Request(event, fields)
	if err != nil {
		return "", err
	}
	return c.transport.DoCtx(ctx, req)
}

// Identify returns the keypad geometry.
func (c *Client) Identify() (*apitypes.IdentifyResponse, error) {
	return c.IdentifyCtx(context.Background())
}

func (c *Client) IdentifyCtx(ctx context.Context) (*apitypes.IdentifyResponse, error) {
	raw, err := c.do(ctx, "i", nil)
	if err != nil {
		return nil, err
	}
	return parse[apitypes.IdentifyResponse](raw)
}

// Reset erases every slot and returns the keypad's confirmation.
func (c *Client) Reset() (string, error) {
	return c.ResetCtx(context.Background())
}

func (c *Client) ResetCtx(ctx context.Context) (string, error) {
	raw, err := c.do(ctx, "x", nil)
	if err != nil {
		return "", err
	}
	return parseText(raw)
}

// Read returns the macro in slot index, or nil when the slot is empty.
func (c *Client) Read(index int) (*apitypes.MacroResponse, error) {
	return c.ReadCtx(context.Background(), index)
}

func (c *Client) ReadCtx(ctx context.Context, index int) (*apitypes.MacroResponse, error) {
	raw, err := c.do(ctx, "r", map[string]any{"index": index})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.MacroResponse](raw)
}

// ReadAll returns every slot; empty slots are nil.
func (c *Client) ReadAll() (apitypes.ReadAllResponse, error) {
	return c.ReadAllCtx(context.Background())
}

func (c *Client) ReadAllCtx(ctx context.Context) (apitypes.ReadAllResponse, error) {
	raw, err := c.do(ctx, "a", nil)
	if err != nil {
		return nil, err
	}
	out, err := parse[apitypes.ReadAllResponse](raw)
	if err != nil || out == nil {
		return nil, err
	}
	return *out, nil
}

// WriteKey stores a KEY macro built from actions in slot index.
func (c *Client) WriteKey(index int, actions []apitypes.ActionRequest) (*apitypes.MacroResponse, error) {
	return c.WriteKeyCtx(context.Background(), index, actions)
}

func (c *Client) WriteKeyCtx(ctx context.Context, index int, actions []apitypes.ActionRequest) (*apitypes.MacroResponse, error) {
	if actions == nil {
		actions = []apitypes.ActionRequest{}
	}
	data, err := json.Marshal(actions)
	if err != nil {
		return nil, fmt.Errorf("marshal actions: %w", err)
	}
	return c.write(ctx, 0, index, json.RawMessage(data))
}

// WriteText stores a TEXT macro in slot index.
func (c *Client) WriteText(index int, text string) (*apitypes.MacroResponse, error) {
	return c.WriteTextCtx(context.Background(), index, text)
}

func (c *Client) WriteTextCtx(ctx context.Context, index int, text string) (*apitypes.MacroResponse, error) {
	return c.write(ctx, 1, index, text)
}

func (c *Client) write(ctx context.Context, typ, index int, data any) (*apitypes.MacroResponse, error) {
	raw, err := c.do(ctx, "w", map[string]any{"type": typ, "index": index, "data": data})
	if err != nil {
		return nil, err
	}
	return parse[apitypes.MacroResponse](raw)
}

// Clear empties slot index and returns the keypad's message.
func (c *Client) Clear(index int) (string, error) {
	return c.ClearCtx(context.Background(), index)
}

func (c *Client) ClearCtx(ctx context.Context, index int) (string, error) {
	raw, err := c.do(ctx, "c", map[string]any{"index": index})
	if err != nil {
		return "", err
	}
	return parseText(raw)
}

// Dump returns the raw storage image.
func (c *Client) Dump() ([]byte, error) {
	return c.DumpCtx(context.Background())
}

func (c *Client) DumpCtx(ctx context.Context) ([]byte, error) {
	raw, err := c.transport.DoCtx(ctx, "DUMP")
	if err != nil {
		return nil, err
	}
	if err := problem(raw); err != nil {
		return nil, err
	}
	fields := strings.Fields(raw)
	out := make([]byte, len(fields))
	for i, f := range fields {
		var b uint8
		if _, err := fmt.Sscan(f, &b); err != nil {
			return nil, fmt.Errorf("dump byte %d: %w", i, err)
		}
		out[i] = b
	}
	return out, nil
}

// problem returns the problem JSON in data as an error, if it is one.
func problem(data string) error {
	if !strings.HasPrefix(data, "{") {
		return nil
	}
	var p apitypes.ApiError
	if err := json.Unmarshal([]byte(data), &p); err == nil && (p.Status != 0 || p.Title != "") {
		return &p
	}
	return nil
}

func parseText(data string) (string, error) {
	if err := problem(data); err != nil {
		return "", err
	}
	return data, nil
}

func parse[T any](data string) (*T, error) {
	if data == "" {
		return nil, errors.New("empty response")
	}
	if err := problem(data); err != nil {
		return nil, err
	}
	if data == "null" {
		return nil, nil
	}
	var out T
	dec := json.NewDecoder(bytes.NewReader([]byte(data)))
	if err := dec.Decode(&out); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &out, nil
}
