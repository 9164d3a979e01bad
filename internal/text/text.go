// Package text implements the small set of UTF-8/rune utilities the rest of
// morphgo needs: decoding to "wide characters" (Unicode scalar values,
// spec.md's term for what the C original stored as wchar_t), Unicode-correct
// case lowering, reversal, trimming and base-36 encoding.
//
// Per Design Note in spec.md §9 ("global locale switching ... is a pure
// workaround for the C runtime"), none of this touches process-global state:
// decoding/encoding and case folding operate directly on Unicode scalar
// values using golang.org/x/text/cases, never the libc locale the original
// flipped with setlocale().
package text

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.Und)

// ToRunes decodes a UTF-8 string into its Unicode scalar values — the
// "wide char" labels the automaton operates over.
func ToRunes(s string) []rune {
	return []rune(s)
}

// FromRunes re-encodes wide chars back into UTF-8.
func FromRunes(r []rune) string {
	return string(r)
}

// Lower Unicode-lowercases s without touching process-global locale state.
func Lower(s string) string {
	return lowerCaser.String(s)
}

// Reverse returns a new slice with runes in reverse order.
func Reverse(r []rune) []rune {
	out := make([]rune, len(r))
	for i, c := range r {
		out[len(r)-1-i] = c
	}
	return out
}

// TrimSpace trims leading/trailing Unicode whitespace.
func TrimSpace(s string) string {
	return strings.TrimSpace(s)
}

const base36Digits = "0123456789abcdefghijklmnopqrstuvwxyz"

// Base36 encodes v in base 36, lowercase, no leading zeros (except for v==0).
func Base36(v uint32) string {
	if v == 0 {
		return "0"
	}
	var buf [32]byte
	i := len(buf)
	for v > 0 {
		i--
		buf[i] = base36Digits[v%36]
		v /= 36
	}
	return string(buf[i:])
}

// ParseBase36 decodes a base-36 string produced by Base36.
func ParseBase36(s string) (uint32, bool) {
	if s == "" {
		return 0, false
	}
	var v uint64
	for i := 0; i < len(s); i++ {
		c := s[i]
		var d uint64
		switch {
		case c >= '0' && c <= '9':
			d = uint64(c - '0')
		case c >= 'a' && c <= 'z':
			d = uint64(c-'a') + 10
		case c >= 'A' && c <= 'Z':
			d = uint64(c-'A') + 10
		default:
			return 0, false
		}
		v = v*36 + d
		if v > 0xFFFFFFFF {
			return 0, false
		}
	}
	return uint32(v), true
}

// IsLetterLike reports whether r is a letter or one of the allowed "extra"
// token characters (-, ', `, _) per spec.md's Glossary "Garbage word".
func IsLetterLike(r rune) bool {
	return IsLetter(r) || IsExtra(r)
}

// IsLetter reports whether r is a Unicode letter or digit — the tokenizer's
// "alnum" class (spec.md §4.7 states "alnum"; digits belong to a word like
// any other letter would).
func IsLetter(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// IsExtra reports whether r is one of the tokenizer's embeddable extras.
func IsExtra(r rune) bool {
	switch r {
	case '-', '\'', '_', '`':
		return true
	}
	return false
}
