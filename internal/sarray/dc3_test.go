package sarray_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morphgo/morphgo/internal/sarray"
)

func TestBuildOrdersSuffixesLexicographically(t *testing.T) {
	text := []rune("banana")
	sa := sarray.Build(text)
	require.Equal(t, len(text), sa.Len())

	var suffixes []string
	for i := 0; i < sa.Len(); i++ {
		suffixes = append(suffixes, string(text[sa.At(i):]))
	}
	sorted := append([]string(nil), suffixes...)
	sort.Strings(sorted)
	assert.Equal(t, sorted, suffixes)
}

func TestFindRangeLocatesPattern(t *testing.T) {
	text := []rune("abracadabra")
	sa := sarray.Build(text)

	lo, hi := sa.FindRange([]rune("abra"))
	require.Equal(t, 2, hi-lo)
	for i := lo; i < hi; i++ {
		assert.Equal(t, "abra", string(text[sa.At(i):sa.At(i)+4]))
	}

	lo, hi = sa.FindRange([]rune("zzz"))
	assert.Equal(t, 0, hi-lo)
}
