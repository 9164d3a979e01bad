package intersect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morphgo/morphgo/internal/document"
	"github.com/morphgo/morphgo/internal/intersect"
)

// fakeDoc builds a Document directly from pre-lemmatized "words" (skipping
// dictionary lookup entirely) so intersection logic can be tested without a
// loaded language dictionary.
func fakeDoc(t *testing.T, words []string) *document.Document {
	t.Helper()
	doc, err := document.BuildDontNormalize([]byte(joinWords(words)), nil)
	require.NoError(t, err)
	return doc
}

func joinWords(words []string) string {
	s := ""
	for i, w := range words {
		if i > 0 {
			s += " "
		}
		s += w
	}
	return s
}

func TestCaseDocFindsContainedPhrase(t *testing.T) {
	a := fakeDoc(t, []string{"quick", "brown", "fox"})
	b := fakeDoc(t, []string{"the", "quick", "brown", "fox", "jumps"})
	assert.True(t, intersect.CaseDoc(a, b))

	c := fakeDoc(t, []string{"lazy", "dog"})
	assert.False(t, intersect.CaseDoc(c, b))
}

func TestIntersectDocsScoresFullOverlap(t *testing.T) {
	a := fakeDoc(t, []string{"alpha", "beta", "gamma"})
	b := fakeDoc(t, []string{"alpha", "beta", "gamma"})
	res := intersect.IntersectDocs(a, b)
	assert.Equal(t, 1.0, res.Similarity)
	assert.Equal(t, 1.0, res.Similarity2)
}

func TestIntersectDocsLengthGuardZeroesWhenQueryLongerThanDoc(t *testing.T) {
	longWords := []string{"unique"}
	for i := 0; i < 20; i++ {
		longWords = append(longWords, "filler")
	}
	a := fakeDoc(t, longWords)
	b := fakeDoc(t, []string{"unique"})

	res := intersect.IntersectDocs(a, b)
	assert.Equal(t, 0.0, res.Similarity)
	assert.Equal(t, 1.0, res.Similarity2)
}

func TestIntersectDocsOrderSensitive(t *testing.T) {
	a := fakeDoc(t, []string{"b", "a"})
	b := fakeDoc(t, []string{"a", "b"})

	res := intersect.IntersectDocs(a, b)
	assert.Less(t, res.Similarity2, 1.0)
}
