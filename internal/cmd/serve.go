package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/dispatch"
	"github.com/Alia5/macropad/internal/input"
	"github.com/Alia5/macropad/internal/keypad"
	"github.com/Alia5/macropad/internal/log"
	"github.com/Alia5/macropad/internal/transport"
)

// Serve runs the keypad firmware loop on a command channel.
type Serve struct {
	Storage   config.Storage         `embed:"" prefix:"storage."`
	Layout    config.Layout          `embed:"" prefix:"layout."`
	Transport string                 `help:"Command channel" enum:"stdio,serial,tcp" default:"stdio" env:"MACROPAD_TRANSPORT"`
	Serial    transport.SerialConfig `embed:"" prefix:"serial."`
	Addr      string                 `help:"Listen address for the tcp transport" default:"localhost:3243" env:"MACROPAD_ADDR"`
	HID       string                 `help:"Write HID reports to this file or gadget device (e.g. /dev/hidg0)" env:"MACROPAD_HID"`
	Tick      time.Duration          `help:"Pause between loop iterations" default:"1ms" env:"MACROPAD_TICK"`

	// Lines is the physical line source. Nil leaves every line released,
	// so only the command channel has an effect.
	Lines dispatch.Lines `kong:"-"`
}

// Run is called by Kong when the serve command is executed.
func (s *Serve) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.StartServe(ctx, logger, rawLogger)
}

func (s *Serve) openChannel(logger *slog.Logger) (transport.Channel, error) {
	switch s.Transport {
	case "stdio":
		if term.IsTerminal(int(os.Stdin.Fd())) {
			logger.Info("reading commands from the terminal, one JSON object per line")
		}
		return transport.NewStream(os.Stdin, os.Stdout, nil, logger), nil
	case "serial":
		return transport.OpenSerial(s.Serial, logger)
	case "tcp":
		return transport.Listen(s.Addr, logger)
	default:
		return nil, fmt.Errorf("unknown transport %q", s.Transport)
	}
}

func (s *Serve) StartServe(ctx context.Context, logger *slog.Logger, rawLogger log.RawLogger) error {
	logger.Info("Starting macropad", "transport", s.Transport, "slots", s.Storage.Slots)

	st, closeStore, err := openStore(s.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to flush EEPROM image", "error", err)
		}
	}()

	hid, closeHID, err := openHID(s.HID)
	if err != nil {
		return err
	}
	defer closeHID()

	ch, err := s.openChannel(logger.With("component", "transport"))
	if err != nil {
		return err
	}
	defer ch.Close()

	lines := s.Lines
	if lines == nil {
		logger.Info("no input lines attached, keys are only reachable through sim")
		lines = input.NewBank(s.Layout.Pins)
	}

	kp, err := keypad.New(keypad.Config{
		Layout:    s.Layout,
		Store:     st,
		Channel:   ch,
		Lines:     lines,
		Sink:      newKeyboard(hid, logger, rawLogger),
		Tick:      s.Tick,
		ExitOnEOF: s.Transport != "tcp",
		Logger:    logger,
		Raw:       rawLogger,
	})
	if err != nil {
		return err
	}
	for _, b := range kp.Dispatcher().Describe() {
		logger.Debug("binding", "line", b)
	}

	err = kp.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
