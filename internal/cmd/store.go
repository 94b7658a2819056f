package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Alia5/macropad/device/keyboard"
	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/log"
	"github.com/Alia5/macropad/storage"
)

// openStore boots the slot table from the configured medium. The returned
// close function flushes a file backed image.
func openStore(cfg config.Storage, logger *slog.Logger) (*storage.Store, func() error, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	var m storage.Medium
	closeFn := func() error { return nil }
	if cfg.Image == "" {
		logger.Warn("no EEPROM image configured, macros will not survive a restart")
		m = storage.NewMem(cfg.Size)
	} else {
		f, err := storage.OpenFile(cfg.Image, cfg.Size)
		if err != nil {
			return nil, nil, fmt.Errorf("open EEPROM image: %w", err)
		}
		m = f
		closeFn = f.Close
	}

	st, err := storage.Open(m, cfg.Slots, logger.With("component", "storage"))
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return st, closeFn, nil
}

// openHID opens the HID report sink. An empty path discards reports; they are
// still raw-logged.
func openHID(path string) (io.Writer, func() error, error) {
	if path == "" {
		return io.Discard, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open HID output: %w", err)
	}
	return f, f.Close, nil
}

func newKeyboard(w io.Writer, logger *slog.Logger, raw log.RawLogger) *keyboard.Keyboard {
	return keyboard.New(w, logger.With("component", "keyboard"), raw)
}
