package transport

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/Alia5/macropad/internal/protocol"
)

const rejectDrain = time.Second

// Listener is a Channel over TCP. Exactly one client is served at a time;
// further clients get a conflict problem line and are disconnected.
type Listener struct {
	ln     net.Listener
	lines  chan string
	done   chan struct{}
	logger *slog.Logger

	mu     sync.Mutex
	active net.Conn

	closeOnce sync.Once
	wg        sync.WaitGroup
}

// Listen starts accepting clients on addr.
func Listen(addr string, logger *slog.Logger) (*Listener, error) {
	if logger == nil {
		logger = slog.Default()
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	l := &Listener{
		ln:     ln,
		lines:  make(chan string, lineBuffer),
		done:   make(chan struct{}),
		logger: logger,
	}
	logger.Info("command channel listening", "addr", ln.Addr().String())
	l.wg.Add(1)
	go l.serve()
	return l, nil
}

// Addr returns the bound address.
func (l *Listener) Addr() net.Addr { return l.ln.Addr() }

// Busy reports whether a client is connected.
func (l *Listener) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.active != nil
}

func (l *Listener) serve() {
	defer l.wg.Done()
	for {
		c, err := l.ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				l.logger.Info("command channel stopped")
				return
			}
			l.logger.Warn("accept failed", "error", err)
			return
		}
		if !l.claim(c) {
			go l.reject(c)
			continue
		}
		l.wg.Add(1)
		go l.handleConn(c)
	}
}

func (l *Listener) claim(c net.Conn) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.active != nil {
		return false
	}
	l.active = c
	return true
}

// reject answers with a conflict problem, then drains the client until it
// hangs up so the problem line is not lost to a reset.
func (l *Listener) reject(c net.Conn) {
	defer c.Close()
	l.logger.Warn("rejecting client, channel busy", "remote", c.RemoteAddr().String())
	problemJSON, _ := json.Marshal(protocol.ErrConflict("another client is connected"))
	if _, err := fmt.Fprintf(c, "%s\n", problemJSON); err != nil {
		return
	}
	if tc, ok := c.(*net.TCPConn); ok {
		_ = tc.CloseWrite()
	}
	_ = c.SetReadDeadline(time.Now().Add(rejectDrain))
	_, _ = io.Copy(io.Discard, c)
}

func (l *Listener) handleConn(c net.Conn) {
	defer l.wg.Done()
	connLogger := l.logger.With("remote", c.RemoteAddr().String())
	connLogger.Info("client connected")
	defer func() {
		l.mu.Lock()
		l.active = nil
		l.mu.Unlock()
		_ = c.Close()
		connLogger.Info("client disconnected")
	}()

	sc := bufio.NewScanner(c)
	for sc.Scan() {
		select {
		case l.lines <- sc.Text():
		case <-l.done:
			return
		}
	}
	if err := sc.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		connLogger.Debug("client read ended", "error", err)
	}
}

// Lines stays open until Close.
func (l *Listener) Lines() <-chan string { return l.lines }

// Write sends p to the connected client. Without a client the bytes are
// dropped.
func (l *Listener) Write(p []byte) (int, error) {
	l.mu.Lock()
	c := l.active
	l.mu.Unlock()
	if c == nil {
		l.logger.Debug("no client, dropping response", "bytes", len(p))
		return len(p), nil
	}
	return c.Write(p)
}

// Close stops accepting, disconnects the client and closes Lines.
func (l *Listener) Close() error {
	var err error
	l.closeOnce.Do(func() {
		close(l.done)
		err = l.ln.Close()
		l.mu.Lock()
		if l.active != nil {
			_ = l.active.Close()
		}
		l.mu.Unlock()
		l.wg.Wait()
		close(l.lines)
	})
	return err
}
