package dispatch

import (
	"slices"

	"github.com/Alia5/macropad/device/keyboard"
	"github.com/Alia5/macropad/macro"
	"github.com/Alia5/macropad/timer"
)

// Shortcut is a canned sequence of macros bound to a fixed line.
type Shortcut []macro.Macro

// Execute runs every step in order.
func (s Shortcut) Execute(sink macro.Sink, w timer.Waiter) {
	for _, m := range s {
		m.Execute(sink, w)
	}
}

func combo(actions ...macro.Action) Shortcut {
	return Shortcut{macro.NewKeyMacro(actions...)}
}

var shortcuts = map[string]Shortcut{
	"copy":       combo(macro.Press(keyboard.KeyLeftCtrl), macro.PressChar('c')),
	"paste":      combo(macro.Press(keyboard.KeyLeftCtrl), macro.PressChar('v')),
	"cut":        combo(macro.Press(keyboard.KeyLeftCtrl), macro.PressChar('x')),
	"undo":       combo(macro.Press(keyboard.KeyLeftCtrl), macro.PressChar('z')),
	"save":       combo(macro.Press(keyboard.KeyLeftCtrl), macro.PressChar('s')),
	"select-all": combo(macro.Press(keyboard.KeyLeftCtrl), macro.PressChar('a')),
	"app-switch": combo(macro.Press(keyboard.KeyLeftAlt), macro.Press(keyboard.KeyTab)),
	"dev-server": {
		macro.NewKeyMacro(
			macro.Press(keyboard.KeyLeftCtrl),
			macro.Press(keyboard.KeyGrave),
			macro.Wait(100),
			macro.Release(),
		),
		macro.NewTextMacro("npm run dev"),
		macro.NewKeyMacro(macro.Wait(100), macro.Press(keyboard.KeyEnter)),
	},
	"mute":        combo(macro.PressConsumer(keyboard.ConsumerMute)),
	"play-pause":  combo(macro.PressConsumer(keyboard.ConsumerPlayPause)),
	"volume-up":   combo(macro.PressConsumer(keyboard.ConsumerVolumeUp)),
	"volume-down": combo(macro.PressConsumer(keyboard.ConsumerVolumeDown)),
}

// LookupShortcut returns the shortcut registered under name.
func LookupShortcut(name string) (Shortcut, bool) {
	s, ok := shortcuts[name]
	return s, ok
}

// ShortcutNames lists the registered shortcuts in sorted order.
func ShortcutNames() []string {
	names := make([]string, 0, len(shortcuts))
	for n := range shortcuts {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
