// Package transport carries command lines between the host and the keypad.
package transport

import (
	"bufio"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/goburrow/serial"
)

// Channel delivers request lines and accepts response bytes.
type Channel interface {
	// Lines is closed when the channel can deliver no more input.
	Lines() <-chan string
	io.Writer
	Close() error
}

const lineBuffer = 16

// Stream is a Channel over a single reader/writer pair such as stdio or a
// serial port.
type Stream struct {
	w      io.Writer
	closer io.Closer
	lines  chan string
	logger *slog.Logger

	wmu sync.Mutex

	errMu sync.Mutex
	err   error
}

// NewStream starts reading lines from r. closer may be nil.
func NewStream(r io.Reader, w io.Writer, closer io.Closer, logger *slog.Logger) *Stream {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Stream{
		w:      w,
		closer: closer,
		lines:  make(chan string, lineBuffer),
		logger: logger,
	}
	go s.read(r)
	return s
}

func (s *Stream) read(r io.Reader) {
	defer close(s.lines)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 1024), 64*1024)
	for sc.Scan() {
		s.lines <- sc.Text()
	}
	if err := sc.Err(); err != nil && !errors.Is(err, io.EOF) {
		s.errMu.Lock()
		s.err = err
		s.errMu.Unlock()
		s.logger.Warn("command channel read failed", "error", err)
		return
	}
	s.logger.Debug("command channel reached EOF")
}

func (s *Stream) Lines() <-chan string { return s.lines }

func (s *Stream) Write(p []byte) (int, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()
	return s.w.Write(p)
}

// Err returns the read error that ended the stream, if any.
func (s *Stream) Err() error {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.err
}

func (s *Stream) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// SerialConfig selects a serial port. Framing is fixed at 8N1.
type SerialConfig struct {
	Port string `help:"Serial device, e.g. /dev/ttyACM0 or COM3" env:"MACROPAD_SERIAL_PORT"`
	Baud int    `help:"Baud rate" default:"115200" env:"MACROPAD_SERIAL_BAUD"`
}

// OpenSerial opens the port and wraps it in a Stream. Reads block until data
// arrives.
func OpenSerial(cfg SerialConfig, logger *slog.Logger) (*Stream, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial port not set")
	}
	port, err := serial.Open(&serial.Config{
		Address:  cfg.Port,
		BaudRate: cfg.Baud,
		DataBits: 8,
		StopBits: 1,
		Parity:   "N",
	})
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Info("serial port open", "port", cfg.Port, "baud", cfg.Baud)
	return NewStream(port, port, port, logger.With("port", cfg.Port)), nil
}
