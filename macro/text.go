package macro

import (
	"encoding/json"
	"unicode/utf8"

	"github.com/Alia5/macropad/timer"
)

const (
	// TextCapacity is the size of the text buffer including its terminator.
	TextCapacity = 100
	// MaxTextLen is the longest text a TextMacro holds, in bytes.
	MaxTextLen = TextCapacity - 1
)

// TextMacro types a literal string.
type TextMacro struct {
	text string
}

// NewTextMacro builds a TextMacro, silently truncating s to MaxTextLen bytes.
func NewTextMacro(s string) *TextMacro {
	return &TextMacro{text: truncate(s, MaxTextLen)}
}

// truncate cuts s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Text returns the stored string.
func (m *TextMacro) Text() string { return m.text }

func (m *TextMacro) Type() Type { return TypeText }

func (m *TextMacro) Execute(s Sink, _ timer.Waiter) {
	s.Print(m.text)
}

func (m *TextMacro) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.text)
}
