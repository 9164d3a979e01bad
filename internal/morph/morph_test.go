package morph_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morphgo/morphgo/internal/automaton"
	"github.com/morphgo/morphgo/internal/compact"
	"github.com/morphgo/morphgo/internal/morph"
	"github.com/morphgo/morphgo/internal/ruledict"
	"github.com/morphgo/morphgo/internal/text"
)

// buildTestAnalyzer compiles a tiny one-lemma, two-form dictionary ("cat",
// "cats") the same way cmd/morphgo-dictgen would, without touching disk.
func buildTestAnalyzer(t *testing.T) *morph.Analyzer {
	t.Helper()

	grammar := ruledict.Grammar{Ancode: "N1", PartOfSpeech: "noun"}
	flexModel := ruledict.FlexModel{
		{FormNo: 0, Ancode: "N1", Grammar: grammar, HasGrammar: true},
		{FormNo: 1, Flexion: "s", HasFlexion: true, Ancode: "N1", Grammar: grammar, HasGrammar: true},
	}
	base := &ruledict.MorphologyBase{
		Grammars:   map[string]ruledict.Grammar{"N1": grammar},
		FlexModels: []ruledict.FlexModel{flexModel},
	}

	type wordEntry struct {
		word  string
		annot string
	}
	entries := []wordEntry{
		{"cat", morph.EncodeAnnotation(0, 0, 3)},
		{"cats", morph.EncodeAnnotation(0, 1, 3)},
	}

	a := automaton.New()
	// words must be added in increasing order of reversed-form+annotation
	keys := make([]string, len(entries))
	for i, e := range entries {
		rev := text.Reverse(text.ToRunes(e.word))
		keys[i] = text.FromRunes(rev) + "|" + e.annot
	}
	// "cat" and "cats" reversed give "tac|..." vs "stac|..." : sort manually since only two entries
	if keys[0] > keys[1] {
		keys[0], keys[1] = keys[1], keys[0]
	}
	for _, k := range keys {
		require.NoError(t, a.AddWord([]rune(k)))
	}
	a.Finalize()

	var buf bytes.Buffer
	require.NoError(t, a.Save(&buf))
	compactAuto, err := compact.Load(buf.Bytes())
	require.NoError(t, err)

	return morph.NewAnalyzer(base, compactAuto)
}

func TestAnalyzeExactMatch(t *testing.T) {
	a := buildTestAnalyzer(t)

	forms := a.Analyze("cats")
	require.NotEmpty(t, forms)
	f := forms[0]
	assert.Equal(t, "cats", f.Word)
	assert.Equal(t, "cat", f.Lemma)
	assert.Equal(t, "N1", f.Ancode)
	assert.False(t, f.Prediction)
}

func TestAnalyzeLemmaSkipsSelfDuplicate(t *testing.T) {
	a := buildTestAnalyzer(t)
	forms := a.Analyze("cat")
	require.NotEmpty(t, forms)
	assert.Equal(t, "cat", forms[0].Lemma)
	assert.Equal(t, "cat", forms[0].Word)

	desc := morph.NewDescriptionCache(4).Describe(a, "cat")
	assert.Empty(t, desc.Lemmas, "a lemma equal to the surface form is not listed again")
}

func TestKnownPrefixCheck(t *testing.T) {
	prefixes := []string{"anti", "un"}
	_, ok := morph.KnownPrefixCheck(prefixes, "unhappy")
	assert.True(t, ok)

	_, ok = morph.KnownPrefixCheck(prefixes, "happy")
	assert.False(t, ok)
}
