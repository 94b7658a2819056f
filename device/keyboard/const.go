package keyboard

// Modifier bits of the report's first byte.
const (
	ModLeftCtrl   = 0x01
	ModLeftShift  = 0x02
	ModLeftAlt    = 0x04
	ModLeftGUI    = 0x08 // Windows/Command key
	ModRightCtrl  = 0x10
	ModRightShift = 0x20
	ModRightAlt   = 0x40
	ModRightGUI   = 0x80
)

// HID usage codes (Keyboard/Keypad usage page). Modifiers are usages
// 0xE0-0xE7 and map onto the modifier bits above.
const (
	KeyA = 0x04
	KeyC = 0x06
	KeyS = 0x16
	KeyV = 0x19
	KeyX = 0x1B
	KeyZ = 0x1D

	Key1 = 0x1E
	Key0 = 0x27

	KeyEnter      = 0x28
	KeyEscape     = 0x29
	KeyBackspace  = 0x2A
	KeyTab        = 0x2B
	KeySpace      = 0x2C
	KeyMinus      = 0x2D // - and _
	KeyEqual      = 0x2E // = and +
	KeyLeftBrace  = 0x2F // [ and {
	KeyRightBrace = 0x30 // ] and }
	KeyBackslash  = 0x31 // \ and |
	KeySemicolon  = 0x33 // ; and :
	KeyApostrophe = 0x34 // ' and "
	KeyGrave      = 0x35 // ` and ~
	KeyComma      = 0x36 // , and <
	KeyPeriod     = 0x37 // . and >
	KeySlash      = 0x38 // / and ?
	KeyCapsLock   = 0x39

	KeyF1  = 0x3A
	KeyF12 = 0x45

	KeyPrintScreen = 0x46
	KeyInsert      = 0x49
	KeyHome        = 0x4A
	KeyPageUp      = 0x4B
	KeyDelete      = 0x4C
	KeyEnd         = 0x4D
	KeyPageDown    = 0x4E
	KeyRight       = 0x4F
	KeyLeft        = 0x50
	KeyDown        = 0x51
	KeyUp          = 0x52

	KeyLeftCtrl   = 0xE0
	KeyLeftShift  = 0xE1
	KeyLeftAlt    = 0xE2
	KeyLeftGUI    = 0xE3
	KeyRightCtrl  = 0xE4
	KeyRightShift = 0xE5
	KeyRightAlt   = 0xE6
	KeyRightGUI   = 0xE7
)

// Consumer control usages (Consumer usage page).
const (
	ConsumerPlayPause   = 0x00CD
	ConsumerStop        = 0x00B7
	ConsumerNextTrack   = 0x00B5
	ConsumerPrevTrack   = 0x00B6
	ConsumerMute        = 0x00E2
	ConsumerVolumeUp    = 0x00E9
	ConsumerVolumeDown  = 0x00EA
	ConsumerCalculator  = 0x0192
	ConsumerBrowserHome = 0x0223
)

// Report IDs used on the composite HID interface.
const (
	ReportIDKeyboard = 0x01
	ReportIDConsumer = 0x02
)

// MaxConsumer is the number of consumer controls one report can carry.
const MaxConsumer = 4

var specialNames = map[uint8]string{
	KeyEnter:       "Enter",
	KeyEscape:      "Escape",
	KeyBackspace:   "Backspace",
	KeyTab:         "Tab",
	KeySpace:       "Space",
	KeyMinus:       "-",
	KeyEqual:       "=",
	KeyLeftBrace:   "[",
	KeyRightBrace:  "]",
	KeyBackslash:   "\\",
	KeySemicolon:   ";",
	KeyApostrophe:  "'",
	KeyGrave:       "`",
	KeyComma:       ",",
	KeyPeriod:      ".",
	KeySlash:       "/",
	KeyCapsLock:    "CapsLock",
	KeyPrintScreen: "PrintScreen",
	KeyInsert:      "Insert",
	KeyHome:        "Home",
	KeyPageUp:      "PageUp",
	KeyDelete:      "Delete",
	KeyEnd:         "End",
	KeyPageDown:    "PageDown",
	KeyRight:       "Right",
	KeyLeft:        "Left",
	KeyDown:        "Down",
	KeyUp:          "Up",
}

var modifierNames = [8]string{"LCtrl", "LShift", "LAlt", "LGui", "RCtrl", "RShift", "RAlt", "RGui"}

// symbolKeys maps printable symbols to their usage; shift tells whether the
// symbol is the shifted legend of the key.
var symbolKeys = map[byte]struct {
	usage uint8
	shift bool
}{
	' ': {KeySpace, false}, '\n': {KeyEnter, false}, '\r': {KeyEnter, false}, '\t': {KeyTab, false},
	'-': {KeyMinus, false}, '_': {KeyMinus, true},
	'=': {KeyEqual, false}, '+': {KeyEqual, true},
	'[': {KeyLeftBrace, false}, '{': {KeyLeftBrace, true},
	']': {KeyRightBrace, false}, '}': {KeyRightBrace, true},
	'\\': {KeyBackslash, false}, '|': {KeyBackslash, true},
	';': {KeySemicolon, false}, ':': {KeySemicolon, true},
	'\'': {KeyApostrophe, false}, '"': {KeyApostrophe, true},
	'`': {KeyGrave, false}, '~': {KeyGrave, true},
	',': {KeyComma, false}, '<': {KeyComma, true},
	'.': {KeyPeriod, false}, '>': {KeyPeriod, true},
	'/': {KeySlash, false}, '?': {KeySlash, true},
	'!': {Key1, true}, '@': {Key1 + 1, true}, '#': {Key1 + 2, true}, '$': {Key1 + 3, true},
	'%': {Key1 + 4, true}, '^': {Key1 + 5, true}, '&': {Key1 + 6, true}, '*': {Key1 + 7, true},
	'(': {Key1 + 8, true}, ')': {Key0, true},
}
