package tokenizer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/morphgo/morphgo/internal/tokenizer"
)

func tokenStrings(t *testing.T, s string) []string {
	t.Helper()
	runes := []rune(s)
	var out []string
	tokenizer.Tokenize(runes, func(tok tokenizer.Token) bool {
		out = append(out, string(runes[tok.Start:tok.End]))
		return true
	})
	return out
}

func TestTokenizeSimple(t *testing.T) {
	assert.Equal(t, []string{"hello", "world"}, tokenStrings(t, "hello, world!"))
}

func TestTokenizeEmbeddedExtras(t *testing.T) {
	assert.Equal(t, []string{"well-known", "don't"}, tokenStrings(t, "well-known, don't."))
}

func TestTokenizeTrailingExtraNotJoined(t *testing.T) {
	// a trailing hyphen with nothing after it is not part of the word.
	assert.Equal(t, []string{"end"}, tokenStrings(t, "end- "))
}

func TestTokenizeEmpty(t *testing.T) {
	assert.Empty(t, tokenStrings(t, "   ...  "))
}
