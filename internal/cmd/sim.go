package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/Alia5/macropad/internal/config"
	"github.com/Alia5/macropad/internal/input"
	"github.com/Alia5/macropad/internal/keypad"
	"github.com/Alia5/macropad/internal/log"
	"github.com/Alia5/macropad/internal/transport"
)

const clickRate = beep.SampleRate(44100)

// Sim runs the keypad in a terminal: number keys press the lines, the host
// side shows what the keypad typed, and commands are accepted over tcp.
type Sim struct {
	Storage config.Storage `embed:"" prefix:"storage."`
	Layout  config.Layout  `embed:"" prefix:"layout."`
	Addr    string         `help:"Accept commands over tcp on this address" default:"localhost:3243" env:"MACROPAD_ADDR"`
	Hold    time.Duration  `help:"How long a simulated key press lasts" default:"120ms" env:"MACROPAD_SIM_HOLD"`
	Click   bool           `help:"Click on every triggered line" default:"true" negatable:"" env:"MACROPAD_SIM_CLICK"`
}

type simUI struct {
	screen tcell.Screen
	cfg    *Sim
	bank   *input.Bank
	host   *hostView
	kp     *keypad.Keypad
	click  bool

	mu      sync.Mutex
	trigger map[int]time.Time
}

// Run is called by Kong when the sim command is executed.
func (s *Sim) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	st, closeStore, err := openStore(s.Storage, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Error("failed to flush EEPROM image", "error", err)
		}
	}()

	ln, err := transport.Listen(s.Addr, logger.With("component", "transport"))
	if err != nil {
		return err
	}
	defer ln.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	ui := &simUI{
		screen:  screen,
		cfg:     s,
		bank:    input.NewBank(s.Layout.Pins),
		host:    &hostView{},
		trigger: map[int]time.Time{},
	}
	ui.host.onChange = ui.redraw

	kp, err := keypad.New(keypad.Config{
		Layout:  s.Layout,
		Store:   st,
		Channel: ln,
		Lines:   ui.bank,
		Sink:    newKeyboard(ui.host, logger, rawLogger),
		Logger:  logger,
		Raw:     rawLogger,
	})
	if err != nil {
		return err
	}
	ui.kp = kp
	kp.Dispatcher().OnTrigger = ui.triggered

	if s.Click {
		if err := speaker.Init(clickRate, clickRate.N(time.Second/20)); err != nil {
			logger.Warn("audio unavailable, clicks disabled", "error", err)
		} else {
			ui.click = true
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- kp.Run(ctx) }()

	ui.loop()
	cancel()
	return <-done
}

func (ui *simUI) triggered(pin int) {
	ui.mu.Lock()
	ui.trigger[pin] = time.Now()
	ui.mu.Unlock()
	if ui.click {
		tone, err := generators.SineTone(clickRate, 1760)
		if err == nil {
			speaker.Play(beep.Take(clickRate.N(15*time.Millisecond), tone))
		}
	}
	ui.redraw()
}

func (ui *simUI) redraw() {
	_ = ui.screen.PostEvent(tcell.NewEventInterrupt(nil))
}

func (ui *simUI) press(pin int) {
	ui.bank.Press(pin)
	ui.redraw()
	time.AfterFunc(ui.cfg.Hold, func() {
		ui.bank.Release(pin)
		ui.redraw()
	})
}

func (ui *simUI) loop() {
	ui.draw()
	for {
		switch ev := ui.screen.PollEvent().(type) {
		case nil:
			return
		case *tcell.EventResize:
			ui.screen.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return
			}
			if ev.Key() == tcell.KeyRune {
				r := ev.Rune()
				if r == 'q' {
					return
				}
				if r >= '1' && r <= '9' {
					if i := int(r - '1'); i < len(ui.cfg.Layout.Pins) {
						pin := ui.cfg.Layout.Pins[i]
						if ev.Modifiers()&tcell.ModAlt != 0 {
							ui.bank.Toggle(pin)
						} else {
							ui.press(pin)
						}
					}
				}
			}
		}
		ui.draw()
	}
}

func (ui *simUI) text(x, y int, s string, style tcell.Style) {
	for _, r := range s {
		ui.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

func (ui *simUI) draw() {
	ui.screen.Clear()
	title := tcell.StyleDefault.Bold(true)
	dim := tcell.StyleDefault.Foreground(tcell.ColorGray)

	ui.text(1, 0, "macropad simulator", title)
	ui.text(22, 0, fmt.Sprintf("commands on %s   1-9 press, alt+1-9 latch, q quits", ui.cfg.Addr), dim)

	bindings := ui.kp.Dispatcher().Describe()
	cols := ui.cfg.Layout.Cols
	if cols <= 0 {
		cols = 3
	}
	const cellW = 22
	ui.mu.Lock()
	for i, pin := range ui.cfg.Layout.Pins {
		x := 1 + (i%cols)*cellW
		y := 2 + (i/cols)*3
		style := tcell.StyleDefault
		if !ui.bank.Level(pin) {
			style = style.Reverse(true)
		} else if time.Since(ui.trigger[pin]) < 300*time.Millisecond {
			style = style.Foreground(tcell.ColorGreen)
		}
		label := fmt.Sprintf("[%d] %s", i+1, strings.TrimPrefix(bindings[i], fmt.Sprintf("pin %d: ", pin)))
		ui.text(x, y, fmt.Sprintf("%-*s", cellW-2, label), style)
		ui.text(x, y+1, fmt.Sprintf("pin %d", pin), dim)
	}
	ui.mu.Unlock()

	rows := (len(ui.cfg.Layout.Pins) + cols - 1) / cols
	y := 2 + rows*3
	if held := ui.bank.Pressed(); len(held) > 0 {
		ui.text(1, y, fmt.Sprintf("held: %v", held), dim)
	}
	y++
	typed, chords := ui.host.Snapshot()
	ui.text(1, y, "host typed:", title)
	for i, line := range strings.Split(typed, "\n") {
		ui.text(3, y+1+i, line, tcell.StyleDefault)
		if i > 4 {
			break
		}
	}
	y += 8
	ui.text(1, y, "host chords:", title)
	ui.text(3, y+1, strings.Join(chords, "  "), tcell.StyleDefault.Foreground(tcell.ColorYellow))
	ui.screen.Show()
}
