// Package tokenizer splits raw document text into word tokens using a small
// state machine that allows embedded "-", "'", "_" and "`" inside a word
// without letting a word end on one of them (spec.md §4.7). Grounded on the
// teacher's Parse/ParseList batching loop in analyzer.go for the surrounding
// per-token callback shape; the state machine itself is this system's own
// adaptation of the original tokenizer's states to operate on decoded runes
// directly instead of a byte-at-a-time UTF-8 scan.
package tokenizer

import "github.com/morphgo/morphgo/internal/text"

type state int

const (
	outside state = iota
	inside
	postExtra
)

// Token is one recognized word, given as rune offsets into the caller's
// rune slice so the caller can slice both the wide-char form and recover
// byte offsets if needed.
type Token struct {
	Start int
	End   int // exclusive
}

// Tokenize scans runes and invokes emit for every token found, in order.
// emit may return false to stop scanning early.
func Tokenize(runes []rune, emit func(Token) bool) {
	st := outside
	start := 0

	flush := func(end int) bool {
		if end > start {
			if !emit(Token{Start: start, End: end}) {
				return false
			}
		}
		return true
	}

	for i, r := range runes {
		switch st {
		case outside:
			if text.IsLetter(r) {
				start = i
				st = inside
			}
		case inside:
			switch {
			case text.IsLetter(r):
				// stay inside
			case text.IsExtra(r):
				st = postExtra
			default:
				if !flush(i) {
					return
				}
				st = outside
			}
		case postExtra:
			switch {
			case text.IsLetter(r):
				st = inside
			case text.IsExtra(r):
				// stay in postExtra: consecutive extras collapse into the gap
			default:
				// the trailing extra(s) never joined a following letter: the
				// token ends before them.
				if !flush(i - trailingExtraRun(runes, i)) {
					return
				}
				st = outside
			}
		}
	}

	if st == inside {
		flush(len(runes))
	} else if st == postExtra {
		flush(len(runes) - trailingExtraRun(runes, len(runes)))
	}
}

// trailingExtraRun returns how many consecutive "extra" runes immediately
// precede position end.
func trailingExtraRun(runes []rune, end int) int {
	n := 0
	for i := end - 1; i >= 0 && text.IsExtra(runes[i]); i-- {
		n++
	}
	return n
}
