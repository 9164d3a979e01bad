package morph

import (
	"sync"

	"github.com/morphgo/morphgo/internal/container"
	"github.com/morphgo/morphgo/internal/text"
)

// WordDescription is the cached, per-token analysis result: the surface
// form plus every distinct lemma it was analyzed to (spec.md §3
// "WordDescription"). Surface forms that are themselves a lemma (no
// inflection happened) are not duplicated into Lemmas — analyzers skip
// appending a lemma equal to the surface form.
type WordDescription struct {
	Word      string
	Lemmas    []string
	Garbage   bool // not letter-like; never looked up in the dictionary
	Imitation bool // every analysis was an unanchored (no known prefix) prediction
}

// DescriptionCache wraps a FIFOMap[WordDescription] with the mutex
// discipline spec.md §5 requires ("single-threaded cooperative... a mutex
// guards cache insertion/eviction" — concurrent document builds may still
// share one analyzer+cache pair across goroutines).
type DescriptionCache struct {
	mu    sync.Mutex
	fifo  *container.FIFOMap[WordDescription]
}

// NewDescriptionCache returns a cache holding at most limit descriptions,
// evicting the oldest-inserted entry first once full.
func NewDescriptionCache(limit int) *DescriptionCache {
	return &DescriptionCache{fifo: container.NewFIFOMap[WordDescription](limit, nil)}
}

// Describe returns the WordDescription for word, building and caching it on
// first use. Garbage (non letter-like) tokens are described but never
// dictionary-analyzed, matching spec.md's "garbage word" definition.
func (c *DescriptionCache) Describe(a *Analyzer, word string) WordDescription {
	lowered := text.Lower(word)

	c.mu.Lock()
	if d, ok := c.fifo.Get(lowered); ok {
		c.mu.Unlock()
		return d
	}
	c.mu.Unlock()

	d := buildDescription(a, lowered)

	c.mu.Lock()
	c.fifo.Put(lowered, d)
	c.mu.Unlock()

	return d
}

func buildDescription(a *Analyzer, lowered string) WordDescription {
	if !isLetterLikeWord(lowered) {
		return WordDescription{Word: lowered, Garbage: true}
	}

	forms := a.Analyze(lowered)
	d := WordDescription{Word: lowered}
	if len(forms) == 0 {
		d.Imitation = true
		return d
	}

	seen := make(map[string]bool, len(forms))
	allImitation := true
	for _, f := range forms {
		if !f.Imitation {
			allImitation = false
		}
		if f.Lemma == lowered {
			continue // surface form already is its own lemma; skip rule
		}
		if seen[f.Lemma] {
			continue
		}
		seen[f.Lemma] = true
		d.Lemmas = append(d.Lemmas, f.Lemma)
	}
	d.Imitation = allImitation
	return d
}

func isLetterLikeWord(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !text.IsLetterLike(r) {
			return false
		}
	}
	return true
}
