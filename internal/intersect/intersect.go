// Package intersect implements phrase containment and similarity scoring
// between two documents (or two raw strings), built on each document's
// suffix array and word-range map (spec.md §4.10). Grounded on the teacher's
// binary-search-over-sorted-edges idiom (analyzer.go's findChildGeneral)
// applied here to suffix-array range search instead of automaton
// transitions.
package intersect

import (
	"sort"

	"github.com/morphgo/morphgo/internal/document"
	"github.com/morphgo/morphgo/internal/lang"
)

// MatchRange is one contiguous run of words in the first document that was
// found, word-for-word, somewhere in the second.
type MatchRange struct {
	AStart, AEnd int // word indices into a.Ranges, end exclusive
	BStart, BEnd int // word indices into b.Ranges, end exclusive
}

// Result is the outcome of a phrase/document intersection.
type Result struct {
	Matches []MatchRange

	// Similarity is doc_intersect_doc (spec.md §6): accum/byte_len(b),
	// where accum is the summed byte-length of the matched spans in b, and
	// the score is forced to 0.0 whenever a's byte length exceeds b's.
	Similarity float64

	// Similarity2 is doc_intersect_doc2: the same accum/byte_len(b) ratio
	// (clamped to 1.0) without the length guard.
	Similarity2 float64
}

// IntersectDocs finds every maximal run of consecutive words in a that also
// appears as a consecutive run in b (matched by rewritten-text word
// component, i.e. lemma-or-surface-form equality), requires the runs to
// occur in a's original order, and scores the overlap (spec.md §4.10: a
// plays the role of the queried phrase/text S, b the cached document D).
func IntersectDocs(a, b *document.Document) Result {
	matches := findMatches(a, b)
	accum := accumBytes(b, matches)
	byteLenA := len(a.Source)
	byteLenB := len(b.Source)
	return Result{
		Matches:     matches,
		Similarity:  similarityWithGuard(accum, byteLenA, byteLenB),
		Similarity2: similarityNoGuard(accum, byteLenB),
	}
}

// StrIntersectStr runs IntersectDocs on two raw strings, analyzed against
// langs the same way document.Build would for a real document (spec.md §6
// str_intersect_str/str_intersect_str2).
func StrIntersectStr(a, b string, langs *lang.MultiMorphology) (Result, error) {
	docA, err := document.Build([]byte(a), langs)
	if err != nil {
		return Result{}, err
	}
	docB, err := document.Build([]byte(b), langs)
	if err != nil {
		return Result{}, err
	}
	return IntersectDocs(docA, docB), nil
}

// findMatches greedily walks a's words in order, and for each one searches
// b's suffix array for a word sharing a component (lemma or surface form),
// restricted to b word-ranges at or after bFloor — the end of the previous
// accepted match. This ordering constraint is what makes doc_intersect
// sensitive to word order instead of treating a and b as unordered bags of
// words (spec.md §4.10 step 2: later tokens' hits must fall inside a range
// reachable from the earlier tokens' matches).
func findMatches(a, b *document.Document) []MatchRange {
	var matches []MatchRange
	ai := 0
	bFloor := 0
	for ai < len(a.Ranges) {
		bestLen := 0
		var best MatchRange
		for _, bi := range candidateRanges(b, a.WordComponents(ai), bFloor) {
			runLen := matchRun(a, b, ai, bi)
			if runLen > bestLen {
				bestLen = runLen
				best = MatchRange{AStart: ai, AEnd: ai + runLen, BStart: bi, BEnd: bi + runLen}
			}
		}
		if bestLen == 0 {
			ai++
			continue
		}
		matches = append(matches, best)
		ai += bestLen
		bFloor = best.BEnd
	}
	return matches
}

// candidateRanges returns, in ascending order, every b word-range index at
// or after floor whose recorded components (lemmas or surface form) include
// one of components. Hits are located via b's suffix array using the
// terminator-delimited component pattern, then mapped back to a word range
// (spec.md §4.10 step 2b's "binary-search the suffix array, map hit position
// to its WordRange" sequence).
func candidateRanges(b *document.Document, components []string, floor int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, c := range components {
		pattern := document.ComponentPattern(c)
		lo, hi := b.SA.FindRange(pattern)
		for i := lo; i < hi; i++ {
			pos := b.SA.At(i)
			ri := b.FindWordRange(pos)
			if ri < 0 || ri < floor || seen[ri] {
				continue
			}
			seen[ri] = true
			out = append(out, ri)
		}
	}
	sort.Ints(out)
	return out
}

func wordsShareAnyForm(a, b *document.Document, ai, bi int) bool {
	return hasCommonComponent(a.WordComponents(ai), b.WordComponents(bi))
}

func hasCommonComponent(x, y []string) bool {
	for _, s := range x {
		for _, t := range y {
			if s == t {
				return true
			}
		}
	}
	return false
}

func matchRun(a, b *document.Document, ai, bi int) int {
	n := 0
	for ai+n < len(a.Ranges) && bi+n < len(b.Ranges) {
		if !wordsShareAnyForm(a, b, ai+n, bi+n) {
			break
		}
		n++
	}
	return n
}

// accumBytes sums the original byte-length, in b's source text, of every
// matched run's span (spec.md §4.10 "sum the byte-lengths of the returned
// matches").
func accumBytes(b *document.Document, matches []MatchRange) int {
	total := 0
	for _, m := range matches {
		if m.BStart >= m.BEnd || m.BEnd > len(b.Ranges) {
			continue
		}
		start := b.Ranges[m.BStart].ByteStart
		end := b.Ranges[m.BEnd-1].ByteEnd
		total += end - start
	}
	return total
}

// similarityWithGuard is doc_intersect_doc: 0.0 whenever the queried text is
// longer, in bytes, than the document it's being matched against; otherwise
// accum/byteLenB, capped at 1.0 (spec.md §4.10).
func similarityWithGuard(accum, byteLenA, byteLenB int) float64 {
	if byteLenB == 0 {
		return 0
	}
	if byteLenA > byteLenB {
		return 0
	}
	if accum >= byteLenB {
		return 1
	}
	return float64(accum) / float64(byteLenB)
}

// similarityNoGuard is doc_intersect_doc2: the same ratio, without the
// length guard, clamped to 1.0 (spec.md §4.10 "a second variant").
func similarityNoGuard(accum, byteLenB int) float64 {
	if byteLenB == 0 {
		return 0
	}
	ratio := float64(accum) / float64(byteLenB)
	if ratio > 1 {
		return 1
	}
	return ratio
}

// CaseDoc reports whether every word of a appears, in order and
// consecutively, somewhere in b (doc_case_doc, spec.md §6): strict
// substring containment rather than a similarity score.
func CaseDoc(a, b *document.Document) bool {
	if len(a.Ranges) == 0 {
		return true
	}
	for bi := 0; bi+len(a.Ranges) <= len(b.Ranges); bi++ {
		if matchRun(a, b, 0, bi) == len(a.Ranges) {
			return true
		}
	}
	return false
}

// StrCaseStr runs CaseDoc on two raw strings (str_case_str, spec.md §6).
func StrCaseStr(a, b string, langs *lang.MultiMorphology) (bool, error) {
	docA, err := document.Build([]byte(a), langs)
	if err != nil {
		return false, err
	}
	docB, err := document.Build([]byte(b), langs)
	if err != nil {
		return false, err
	}
	return CaseDoc(docA, docB), nil
}
