package testing

import (
	"context"
	"testing"
	"time"

	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/input"
	"github.com/Alia5/macropad/internal/keypad"
	"github.com/Alia5/macropad/internal/log"
	"github.com/Alia5/macropad/internal/transport"
	"github.com/Alia5/macropad/storage"
)

// Keypad is a running keypad reachable over TCP.
type Keypad struct {
	Addr  string
	Lines *input.Bank
	Sink  *RecordingSink
	Mem   *storage.Mem
}

// StartKeypad boots a keypad with the default layout on a fresh medium and a
// free port. The keypad stops when the test ends.
func StartKeypad(t *testing.T) *Keypad {
	t.Helper()
	layout := config.DefaultLayout()
	mem := storage.NewMem(storage.DefaultSize)
	st, err := storage.Open(mem, len(layout.ProgPins), log.Discard())
	if err != nil {
		t.Fatalf("open storage: %v", err)
	}
	ln, err := transport.Listen("127.0.0.1:0", log.Discard())
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	k := &Keypad{
		Addr:  ln.Addr().String(),
		Lines: input.NewBank(layout.Pins),
		Sink:  &RecordingSink{},
		Mem:   mem,
	}
	kp, err := keypad.New(keypad.Config{
		Layout:  layout,
		Store:   st,
		Channel: ln,
		Lines:   k.Lines,
		Sink:    k.Sink,
		Logger:  log.Discard(),
	})
	if err != nil {
		t.Fatalf("keypad: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		_ = kp.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		_ = ln.Close()
		select {
		case <-stopped:
		case <-time.After(2 * time.Second):
			t.Error("keypad did not stop")
		}
	})
	return k
}
