// Package normalize builds search keys for dictionary headwords, readings and
// glosses so that queries match regardless of script width, case or kana type
// Pipeline order
// 1 Sanitize control bytes and repair UTF-8
// 2 Unicode NFKC normalization (halfwidth katakana becomes fullwidth)
// 3 Case folding
// 4 Remove format chars (ZWJ ZWNJ FEFF etc)
// 5 Width fold fullwidth ASCII to ASCII
// 6 Katakana folded to hiragana
// 7 Collapse whitespace to single spaces and trim
package normalize

import (
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Normalizer is concurrency safe; transformer chains are pooled
type Normalizer struct {
	gloss bool
}

var (
	keyChains = sync.Pool{
		New: func() any {
			return transform.Chain(
				norm.NFKC,
				cases.Fold(),
				runes.Remove(runes.In(unicode.Cf)),
				width.Fold,
				runes.Map(kanaFold),
			)
		},
	}
	// gloss keys also drop diacritics so "Tōkyō" matches "tokyo"; never used on
	// Japanese text where voicing marks carry meaning
	glossChains = sync.Pool{
		New: func() any {
			return transform.Chain(
				norm.NFKD,
				runes.Remove(runes.In(unicode.Mn)),
				norm.NFC,
				cases.Fold(),
				runes.Remove(runes.In(unicode.Cf)),
				width.Fold,
			)
		},
	}
)

// New constructs a Normalizer for kanji and kana keys
func New() *Normalizer { return &Normalizer{} }

// NewGloss constructs a Normalizer for romanized translation text
func NewGloss() *Normalizer { return &Normalizer{gloss: true} }

// Normalize returns the search key for s
func (n *Normalizer) Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = strings.ToValidUTF8(Sanitize(s), "")

	pool := &keyChains
	if n.gloss {
		pool = &glossChains
	}
	tr := pool.Get().(transform.Transformer)
	ns, _, err := transform.String(tr, s)
	tr.Reset()
	pool.Put(tr)
	if err != nil {
		// transformers here never fail on valid UTF-8; keep the sanitized input
		ns = s
	}
	return collapseSpaces(ns)
}

// Contains reports whether the key of haystack contains the key of needle.
// needle is expected to be normalized already
func (n *Normalizer) Contains(haystack, needle string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(n.Normalize(haystack), needle)
}

// kanaFold maps katakana letters to their hiragana counterparts. Katakana-only
// letters (ヷ..ヺ) and the prolonged sound mark have no hiragana twin and stay
func kanaFold(r rune) rune {
	if r >= 'ァ' && r <= 'ヶ' {
		return r - 0x60
	}
	if r == 'ヽ' || r == 'ヾ' {
		return r - 0x60
	}
	return r
}

// collapseSpaces converts whitespace runs to a single ASCII space and trims
func collapseSpaces(s string) string {
	if s == "" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	inWS := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			inWS = true
			continue
		}
		if inWS && b.Len() > 0 {
			b.WriteByte(' ')
		}
		inWS = false
		b.WriteRune(r)
	}
	return b.String()
}
