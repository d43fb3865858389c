// Package langhint classifies the script of a search query so lookups only scan
// the fields that can match it
package langhint

import "unicode"

// Script is the coarse script class of a query
type Script int

const (
	// None means the query has no letters, e.g. digits or punctuation only
	None Script = iota
	// Japanese means kana or kanji are present; only headwords and readings can match
	Japanese
	// Latin means only Latin letters; only glosses can match
	Latin
	// Other is any other script, glosses in languages such as Russian
	Other
)

func (s Script) String() string {
	switch s {
	case Japanese:
		return "japanese"
	case Latin:
		return "latin"
	case Other:
		return "other"
	default:
		return "none"
	}
}

// Classify returns the script class of s. Any kana or kanji makes it Japanese
func Classify(s string) Script {
	var latin, other int
	for _, r := range s {
		if !unicode.IsLetter(r) && r != 'ー' && r != '々' {
			continue
		}
		switch {
		case unicode.In(r, unicode.Hiragana, unicode.Katakana, unicode.Han), r == 'ー', r == '々':
			return Japanese
		case unicode.In(r, unicode.Latin):
			latin++
		default:
			other++
		}
	}
	switch {
	case other > 0:
		return Other
	case latin > 0:
		return Latin
	default:
		return None
	}
}

// Keys reports whether headwords and readings should be searched for s
func (s Script) Keys() bool { return s == Japanese || s == None }

// Glosses reports whether translations should be searched for s
func (s Script) Glosses() bool { return s != Japanese }
