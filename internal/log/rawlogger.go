package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger dumps raw traffic: command lines from the host and HID reports
// sent to it.
type RawLogger interface {
	Log(in bool, data []byte)
}

type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a RawLogger. A nil writer yields a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Log writes one timestamped hex line. in=true is host->keypad.
func (r *rawLogger) Log(in bool, data []byte) {
	if len(data) == 0 || r.w == nil {
		return
	}

	dir := "PAD->HOST"
	if in {
		dir = "HOST->PAD"
	}

	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}

	line := fmt.Sprintf("%s %s %d bytes: %s\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		dir,
		len(data),
		hexbuf.String())

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
