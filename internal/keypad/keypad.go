// Package keypad runs the keypad's single control loop.
//
// Each iteration handles at most one command line to completion, then runs one
// scan pass over the input lines, then sleeps one tick. Macro execution blocks
// the loop for its whole duration.
package keypad

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/dispatch"
	"github.com/Alia5/macropad/internal/log"
	"github.com/Alia5/macropad/internal/protocol"
	"github.com/Alia5/macropad/internal/protocol/handler"
	"github.com/Alia5/macropad/internal/transport"
	"github.com/Alia5/macropad/macro"
	"github.com/Alia5/macropad/storage"
	"github.com/Alia5/macropad/timer"
)

// DefaultTick is the pause between loop iterations.
const DefaultTick = time.Millisecond

// Config wires a Keypad. Clock, Tick and Logger have defaults.
type Config struct {
	Layout  config.Layout
	Store   *storage.Store
	Channel transport.Channel
	Lines   dispatch.Lines
	Sink    macro.Sink
	Clock   timer.Clock
	Tick    time.Duration
	// ExitOnEOF stops Run once the channel closes. Otherwise the loop keeps
	// scanning without a command channel.
	ExitOnEOF bool
	Logger    *slog.Logger
	Raw       log.RawLogger
}

// Keypad owns the command server and the dispatcher.
type Keypad struct {
	cfg        Config
	server     *protocol.Server
	dispatcher *dispatch.Dispatcher
	lines      <-chan string
	logger     *slog.Logger
}

// New builds the command router and the dispatcher for cfg.
func New(cfg Config) (*Keypad, error) {
	if cfg.Store == nil || cfg.Channel == nil || cfg.Lines == nil || cfg.Sink == nil {
		return nil, errors.New("keypad: store, channel, lines and sink are required")
	}
	if cfg.Clock == nil {
		cfg.Clock = timer.System{}
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if err := cfg.Layout.Validate(cfg.Store.Len()); err != nil {
		return nil, fmt.Errorf("invalid layout: %w", err)
	}

	r := protocol.NewRouter()
	handler.RegisterAll(r, cfg.Store, cfg.Layout)

	d, err := dispatch.New(cfg.Layout, cfg.Lines, cfg.Store, cfg.Sink, cfg.Clock, cfg.Logger.With("component", "dispatch"))
	if err != nil {
		return nil, err
	}

	return &Keypad{
		cfg:        cfg,
		server:     protocol.NewServer(r, cfg.Store, cfg.Logger.With("component", "protocol"), cfg.Raw),
		dispatcher: d,
		lines:      cfg.Channel.Lines(),
		logger:     cfg.Logger,
	}, nil
}

// Dispatcher exposes the dispatcher, e.g. to hook OnTrigger.
func (k *Keypad) Dispatcher() *dispatch.Dispatcher { return k.dispatcher }

// Server exposes the command server.
func (k *Keypad) Server() *protocol.Server { return k.server }

// Step runs one loop iteration without the trailing tick. It reports false
// once the channel has closed and ExitOnEOF is set.
func (k *Keypad) Step() bool {
	if k.lines != nil {
		select {
		case line, ok := <-k.lines:
			if !ok {
				k.logger.Info("command channel closed")
				k.lines = nil
				if k.cfg.ExitOnEOF {
					return false
				}
				break
			}
			k.respond(k.server.Handle(line))
		default:
		}
	}
	k.dispatcher.Scan()
	return true
}

func (k *Keypad) respond(resp string) {
	if _, err := fmt.Fprintf(k.cfg.Channel, "%s\n", resp); err != nil {
		k.logger.Warn("failed to write response", "error", err)
	}
}

// Run loops until ctx is done or, with ExitOnEOF, the channel closes.
func (k *Keypad) Run(ctx context.Context) error {
	k.logger.Info("keypad running", "slots", k.cfg.Store.Len(), "tick", k.cfg.Tick)
	for {
		select {
		case <-ctx.Done():
			k.logger.Info("keypad stopped")
			return nil
		default:
		}
		if !k.Step() {
			return nil
		}
		k.cfg.Clock.Wait(k.cfg.Tick)
	}
}
