package ruledict_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morphgo/morphgo/internal/ruledict"
)

func TestLoadGrammars(t *testing.T) {
	data := "// comment\nNN xx noun sg\nVB xx verb\nNN xx noun pl\n"
	grammars, err := ruledict.LoadGrammars(strings.NewReader(data))
	require.NoError(t, err)

	require.Contains(t, grammars, "NN")
	assert.Equal(t, "noun", grammars["NN"].PartOfSpeech)
	assert.Equal(t, "sg", grammars["NN"].Grammems) // first-registrant wins over the later "NN" line
	assert.Equal(t, "verb", grammars["VB"].PartOfSpeech)
}

func TestLoadMorphologyBase(t *testing.T) {
	grammars := map[string]ruledict.Grammar{
		"N1": {Ancode: "N1", PartOfSpeech: "noun"},
	}
	mrd := strings.Join([]string{
		"1",        // flex models section size
		"*N1*%s*N1", // one flex model, two variances
		"0",        // accent models (skipped)
		"0",        // user sessions (skipped)
		"2",        // prefix models
		"super, mega",
		"un",
		"1", // lemmas
		"cat 0 0 0 N1 0",
	}, "\n") + "\n"

	base, err := ruledict.LoadMorphologyBase(strings.NewReader(mrd), grammars)
	require.NoError(t, err)

	require.Len(t, base.FlexModels, 1)
	require.Len(t, base.FlexModels[0], 2)
	assert.Equal(t, "s", base.FlexModels[0][1].Flexion)

	require.Len(t, base.PrefixModels, 2)
	assert.ElementsMatch(t, []string{"super", "mega"}, []string(base.PrefixModels[0]))

	assert.Equal(t, []string{"mega", "super", "un"}, base.AllPrefixes)

	require.Len(t, base.Lemmas, 1)
	assert.Equal(t, "cat", base.Lemmas[0].Base)
	assert.Equal(t, 0, base.Lemmas[0].PrefixSetNo)
}
