package textutil

import "strings"

// invisible lists formatting runes that take no cell and can reorder or hide
// neighbouring text on a terminal.
var invisible = map[rune]struct{}{
	0x061C: {}, 0x00AD: {}, 0x180E: {},
	0x200B: {}, 0x200C: {}, 0x200D: {}, 0x200E: {}, 0x200F: {},
	0x202A: {}, 0x202B: {}, 0x202C: {}, 0x202D: {}, 0x202E: {},
	0x2060: {}, 0x2066: {}, 0x2067: {}, 0x2068: {}, 0x2069: {},
	0xFEFF: {},
}

// SanitizeTerminalText makes document text safe to put into cells: control
// characters become '?', bidi and zero-width formatting runes are dropped and
// line or paragraph separators become spaces. Tabs and newlines are left for
// the layout to handle.
func SanitizeTerminalText(text string) string {
	if !needsSanitizing(text) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		switch {
		case r == '\t' || r == '\n':
			b.WriteRune(r)
		case r == 0x2028 || r == 0x2029:
			b.WriteByte(' ')
		case isInvisible(r):
		case r < 0x20 || r == 0x7F || (r >= 0x80 && r < 0xA0):
			b.WriteByte('?')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func needsSanitizing(text string) bool {
	for _, r := range text {
		if r == '\t' || r == '\n' {
			continue
		}
		if r < 0x20 || r == 0x7F || (r >= 0x80 && r < 0xA0) || r == 0x2028 || r == 0x2029 || isInvisible(r) {
			return true
		}
	}
	return false
}

func isInvisible(r rune) bool {
	_, ok := invisible[r]
	return ok
}
