package automaton

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runesOf(s string) []rune { return []rune(s) }

func buildFrom(t *testing.T, words []string) *Automaton {
	t.Helper()
	sorted := append([]string(nil), words...)
	sort.Strings(sorted)
	a := New()
	for _, w := range sorted {
		require.NoError(t, a.AddWord(runesOf(w)))
	}
	a.Finalize()
	return a
}

func TestAcceptsExactWords(t *testing.T) {
	words := []string{"cat", "cats", "car", "card", "care"}
	a := buildFrom(t, words)
	for _, w := range words {
		assert.True(t, a.Accepts(runesOf(w)), "expected %q to be accepted", w)
	}
	assert.False(t, a.Accepts(runesOf("ca")))
	assert.False(t, a.Accepts(runesOf("caring")))
}

func TestAddWordRejectsOutOfOrder(t *testing.T) {
	a := New()
	require.NoError(t, a.AddWord(runesOf("bb")))
	err := a.AddWord(runesOf("aa"))
	assert.ErrorIs(t, err, ErrOutOfOrder)
}

func TestAddWordRejectsAfterFinalize(t *testing.T) {
	a := New()
	require.NoError(t, a.AddWord(runesOf("aa")))
	a.Finalize()
	err := a.AddWord(runesOf("bb"))
	assert.ErrorIs(t, err, ErrFinalized)
}

func TestMinimizationSharesSuffixStates(t *testing.T) {
	// "ab" and "cb" should share the final "b" state once minimized.
	a := buildFrom(t, []string{"ab", "cb"})
	assert.Less(t, a.StatesCount(), 5, "minimization should collapse shared suffix states")
}

func TestSaveLoadRoundTrip(t *testing.T) {
	words := []string{"alpha", "alter", "beta", "better"}
	a := buildFrom(t, words)

	var buf bytes.Buffer
	require.NoError(t, a.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)

	for _, w := range words {
		assert.True(t, loaded.Accepts(runesOf(w)), "loaded automaton should accept %q", w)
	}
	assert.False(t, loaded.Accepts(runesOf("gamma")))
}
