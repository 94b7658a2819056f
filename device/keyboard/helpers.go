package keyboard

import "fmt"

// CharToHID returns the usage code producing c on a US layout and whether
// Shift is needed. It returns 0 for characters that cannot be typed.
func CharToHID(c byte) (usage uint8, shift bool) {
	switch {
	case c >= 'a' && c <= 'z':
		return KeyA + (c - 'a'), false
	case c >= 'A' && c <= 'Z':
		return KeyA + (c - 'A'), true
	case c >= '1' && c <= '9':
		return Key1 + (c - '1'), false
	case c == '0':
		return Key0, false
	}
	if k, ok := symbolKeys[c]; ok {
		return k.usage, k.shift
	}
	return 0, false
}

// IsModifier reports whether usage is one of the eight modifier usages.
func IsModifier(usage uint16) bool {
	return usage >= KeyLeftCtrl && usage <= KeyRightGUI
}

// modifierBit returns the report bit of a modifier usage.
func modifierBit(usage uint16) uint8 {
	return 1 << (usage - KeyLeftCtrl)
}

// KeyName returns a short human readable name for a usage code.
func KeyName(usage uint8) string {
	switch {
	case usage >= KeyA && usage <= KeyZ:
		return string(rune('A' + usage - KeyA))
	case usage >= Key1 && usage < Key0:
		return string(rune('1' + usage - Key1))
	case usage == Key0:
		return "0"
	case usage >= KeyF1 && usage <= KeyF12:
		return fmt.Sprintf("F%d", usage-KeyF1+1)
	case usage >= KeyLeftCtrl && usage <= KeyRightGUI:
		return modifierNames[usage-KeyLeftCtrl]
	}
	if n, ok := specialNames[usage]; ok {
		return n
	}
	return fmt.Sprintf("0x%02X", usage)
}

// HIDToChar is the inverse of CharToHID for printable characters. Enter and
// Tab map to '\n' and '\t'.
func HIDToChar(usage uint8, shift bool) (byte, bool) {
	switch {
	case usage >= KeyA && usage <= KeyZ:
		if shift {
			return 'A' + (usage - KeyA), true
		}
		return 'a' + (usage - KeyA), true
	case usage >= Key1 && usage < Key0 && !shift:
		return '1' + (usage - Key1), true
	case usage == Key0 && !shift:
		return '0', true
	case usage == KeyEnter:
		return '\n', true
	}
	for c, k := range symbolKeys {
		if k.usage == usage && k.shift == shift && c != '\r' && c != '\n' {
			return c, true
		}
	}
	return 0, false
}
