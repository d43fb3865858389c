package normalize

import (
	"strings"
	"unicode/utf8"
)

// Sanitize drops invalid UTF-8 and control characters other than tab, CR and LF.
// It returns s itself when there is nothing to drop
func Sanitize(s string) string {
	if clean(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if !(r == utf8.RuneError && size == 1) && !dropped(r) {
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func clean(s string) bool {
	for i := 0; i < len(s); {
		if s[i] < utf8.RuneSelf {
			if dropped(rune(s[i])) {
				return false
			}
			i++
			continue
		}
		r, size := utf8.DecodeRuneInString(s[i:])
		if (r == utf8.RuneError && size == 1) || dropped(r) {
			return false
		}
		i += size
	}
	return true
}

// dropped covers C0 except whitespace, DEL and C1
func dropped(r rune) bool {
	switch {
	case r == '\t', r == '\n', r == '\r':
		return false
	case r < 0x20, r == 0x7F:
		return true
	default:
		return r >= 0x80 && r <= 0x9F
	}
}
