package compact_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morphgo/morphgo/internal/automaton"
	"github.com/morphgo/morphgo/internal/compact"
)

func buildSave(t *testing.T, words []string) []byte {
	t.Helper()
	a := automaton.New()
	for _, w := range words {
		require.NoError(t, a.AddWord([]rune(w)))
	}
	a.Finalize()
	var buf bytes.Buffer
	require.NoError(t, a.Save(&buf))
	return buf.Bytes()
}

func TestLoadAndCommonPrefix(t *testing.T) {
	data := buildSave(t, []string{"abc", "abd", "xyz"})
	auto, err := compact.Load(data)
	require.NoError(t, err)

	matched, _ := auto.CommonPrefix([]rune("abc"))
	assert.Equal(t, 3, matched)

	matched, _ = auto.CommonPrefix([]rune("abq"))
	assert.Equal(t, 2, matched)
}

func TestEnumerateOutputsExactMatch(t *testing.T) {
	word := []rune("cat")
	annot := []rune("|5")
	entry := append(append([]rune(nil), word...), annot...)

	data := buildSave(t, []string{string(entry)})
	auto, err := compact.Load(data)
	require.NoError(t, err)

	var got []compact.Output
	auto.EnumerateOutputs(word, 3, func(o compact.Output) bool {
		got = append(got, o)
		return true
	})
	require.Len(t, got, 1)
	assert.False(t, got[0].Prediction)
	assert.Equal(t, 3, got[0].AnnotAt)
}
