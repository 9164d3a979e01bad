// Package morph implements word-level morphological analysis: turning a
// surface word form into one or more WordForms (lemma + grammar tags),
// including prediction for out-of-vocabulary words via known-prefix
// decomposition. Grounded on
// _examples/original_source/C/libs/src/morphology/wordforms.c's build_word/
// build_morphology_annotation and on the teacher's dfs-based form generation
// in analyzer.go (dfsGenerate, findBestPrediction).
package morph

import (
	"sort"
	"strings"
	"sync"

	"github.com/morphgo/morphgo/internal/compact"
	"github.com/morphgo/morphgo/internal/ruledict"
	"github.com/morphgo/morphgo/internal/text"
)

// PredictionThreshold is the minimum number of matched trailing characters
// required before an out-of-vocabulary word is analyzed by prediction
// (spec.md §4.5).
const PredictionThreshold = 3

// WordForm is one candidate analysis of a word.
type WordForm struct {
	Word         string // the original surface form, lowercased
	Lemma        string // canonical dictionary form
	Ancode       string
	PartOfSpeech string
	Grammems     string
	FormNo       int
	Prediction   bool // reached via OOV prediction rather than an exact match
	Imitation    bool // prediction with no recognized prefix evidence
	Frequency    int  // ranking weight, descending
}

// Analyzer ties a rule base to a compiled automaton.
type Analyzer struct {
	base *ruledict.MorphologyBase
	auto *compact.Automaton
	mu   sync.Mutex // guards nothing today but mirrors the cache mutex discipline spec.md §5 requires of stateful callers
}

// NewAnalyzer returns an Analyzer over an already-loaded rule base and
// compiled automaton.
func NewAnalyzer(base *ruledict.MorphologyBase, auto *compact.Automaton) *Analyzer {
	return &Analyzer{base: base, auto: auto}
}

// decodedAnnotation is the unpacked form of the base-36 annotation
// (flex_model_index<<16 | flexion_size<<8 | base_size), the encoding
// EncodeAnnotation writes.
type decodedAnnotation struct {
	flexModelIndex int
	flexionSize    int
	baseSize       int
}

func decodeAnnotation(s string) (decodedAnnotation, bool) {
	packed, ok := text.ParseBase36(s)
	if !ok {
		return decodedAnnotation{}, false
	}
	return decodedAnnotation{
		flexModelIndex: int(packed >> 16),
		flexionSize:    int((packed >> 8) & 0xFF),
		baseSize:       int(packed & 0xFF),
	}, true
}

// EncodeAnnotation packs an annotation the way a dictionary compiler writes
// it into the automaton (used by cmd/morphgo-dictgen).
func EncodeAnnotation(flexModelIndex, flexionSize, baseSize int) string {
	packed := uint32(flexModelIndex)<<16 | uint32(flexionSize&0xFF)<<8 | uint32(baseSize&0xFF)
	return text.Base36(packed)
}

// Analyze returns every candidate analysis of word, exact matches first,
// predictions after, each group ordered by descending Frequency.
func (a *Analyzer) Analyze(word string) []WordForm {
	lowered := text.Lower(word)
	runes := text.ToRunes(lowered)
	reversed := text.Reverse(runes)

	var exact, predicted []WordForm
	var predictedPrefix []string
	a.auto.EnumerateOutputs(reversed, PredictionThreshold, func(o compact.Output) bool {
		wf, prefix, ok := a.decode(o)
		if !ok {
			return true
		}
		if o.Prediction {
			predicted = append(predicted, wf)
			predictedPrefix = append(predictedPrefix, prefix)
		} else {
			exact = append(exact, wf)
		}
		return true
	})

	predicted, predictedPrefix = a.filterProductiveOutputs(predicted, predictedPrefix)

	exact = dedupeForms(exact)
	predicted = dedupeForms(predicted)
	sortForms(exact)
	sortForms(predicted)

	out := make([]WordForm, 0, len(exact)+len(predicted))
	out = append(out, exact...)
	out = append(out, predicted...)
	return out
}

// filterProductiveOutputs applies spec.md §4.5 step 3: a prediction whose
// unmatched head (the part of the word left of the matched base+flexion)
// decomposes entirely into known prefixes is "productive" and is upgraded
// to a non-prediction result. The first such upgrade found discards every
// other, still-unanchored prediction — a productive decomposition is strong
// enough evidence that the rest of the raw guesses are noise. When nothing
// is upgraded, the remaining predictions are kept and marked Imitation.
func (a *Analyzer) filterProductiveOutputs(predicted []WordForm, prefixes []string) ([]WordForm, []string) {
	upgraded := false
	kept := predicted[:0]
	keptPrefixes := prefixes[:0]
	for i, wf := range predicted {
		if decomposesIntoKnownPrefixes(a.base.AllPrefixes, prefixes[i]) {
			wf.Prediction = false
			wf.Imitation = false
			upgraded = true
			kept = append(kept, wf)
			keptPrefixes = append(keptPrefixes, prefixes[i])
		} else if !upgraded {
			wf.Imitation = true
			kept = append(kept, wf)
			keptPrefixes = append(keptPrefixes, prefixes[i])
		}
	}
	if !upgraded {
		return kept, keptPrefixes
	}
	// An upgrade happened: drop every remaining (non-upgraded) prediction,
	// keeping only the upgraded, now-exact entries.
	final := kept[:0]
	finalPrefixes := keptPrefixes[:0]
	for i, wf := range kept {
		if !wf.Prediction {
			final = append(final, wf)
			finalPrefixes = append(finalPrefixes, keptPrefixes[i])
		}
	}
	return final, finalPrefixes
}

// decomposesIntoKnownPrefixes reports whether prefix, if non-empty, is made
// up entirely of known prefixes stacked end to end (spec.md §4.5 "known
// prefixes composition"): KnownPrefixCheck peels one longest-known-prefix
// layer at a time until nothing remains (success) or a layer fails to
// match (failure). An empty prefix (no unmatched head at all) does not
// count as a productive decomposition.
func decomposesIntoKnownPrefixes(allPrefixes []string, prefix string) bool {
	if prefix == "" {
		return false
	}
	remainder := prefix
	for remainder != "" {
		// the last layer is a known prefix equal to the whole remainder,
		// which KnownPrefixCheck (strict prefixes only) does not strip.
		if j := sort.SearchStrings(allPrefixes, remainder); j < len(allPrefixes) && allPrefixes[j] == remainder {
			return true
		}
		next, ok := KnownPrefixCheck(allPrefixes, remainder)
		if !ok {
			return false
		}
		remainder = next
	}
	return true
}

// decode turns one automaton Output (a reversed wordform plus annotation)
// back into a WordForm plus the unmatched head (prefix) left over once the
// flexion and base were peeled off, resolving the grammar record via the
// flex model. Prediction upgrading (spec.md §4.5 step 3) happens afterward
// in filterProductiveOutputs, which needs prefix to run the known-prefix
// decomposition; decode itself only marks a prediction Imitation when it has
// no unmatched head to decompose at all.
func (a *Analyzer) decode(o compact.Output) (WordForm, string, bool) {
	if o.AnnotAt < 0 || o.AnnotAt > len(o.Text) {
		return WordForm{}, "", false
	}
	annot, ok := decodeAnnotation(text.FromRunes(o.Text[o.AnnotAt+1:]))
	if !ok {
		return WordForm{}, "", false
	}
	reversedForm := o.Text[:o.AnnotAt]
	if annot.flexionSize+annot.baseSize > len(reversedForm) {
		return WordForm{}, "", false
	}
	reversedFlexion := reversedForm[:annot.flexionSize]
	reversedBase := reversedForm[annot.flexionSize : annot.flexionSize+annot.baseSize]
	reversedPrefix := reversedForm[annot.flexionSize+annot.baseSize:]

	base := text.FromRunes(text.Reverse(reversedBase))
	flexion := text.FromRunes(text.Reverse(reversedFlexion))
	prefix := text.FromRunes(text.Reverse(reversedPrefix))
	word := prefix + base + flexion

	imitation := o.Prediction && prefix == ""

	var variance ruledict.FlexVariance
	haveVariance := false
	if annot.flexModelIndex >= 0 && annot.flexModelIndex < len(a.base.FlexModels) {
		model := a.base.FlexModels[annot.flexModelIndex]
		for _, v := range model {
			if v.Flexion == flexion && (v.Prefix == prefix || (!v.HasPrefix && prefix == "")) {
				variance = v
				haveVariance = true
				break
			}
		}
		if !haveVariance && len(model) > 0 {
			variance = model[0]
			haveVariance = true
		}
	}

	lemma := base
	freq := 1
	if haveVariance {
		freq = len(a.base.FlexModels[annot.flexModelIndex])
		model := a.base.FlexModels[annot.flexModelIndex]
		if len(model) > 0 {
			lemmaVariance := model[0]
			lemmaPrefix := prefix
			if lemmaVariance.HasPrefix {
				lemmaPrefix = lemmaVariance.Prefix
			} else if variance.HasPrefix {
				lemmaPrefix = ""
			}
			lemma = lemmaPrefix + base + lemmaVariance.Flexion
		}
	}

	wf := WordForm{
		Word:       word,
		Lemma:      lemma,
		FormNo:     variance.FormNo,
		Prediction: o.Prediction,
		Imitation:  imitation,
		Frequency:  freq,
	}
	if haveVariance && variance.HasGrammar {
		wf.Ancode = variance.Grammar.Ancode
		wf.PartOfSpeech = variance.Grammar.PartOfSpeech
		wf.Grammems = variance.Grammar.Grammems
	}
	return wf, prefix, true
}

func dedupeForms(forms []WordForm) []WordForm {
	seen := make(map[string]bool, len(forms))
	out := forms[:0]
	for _, f := range forms {
		key := f.Lemma + "\x00" + f.Ancode + "\x00" + f.Word
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

func sortForms(forms []WordForm) {
	sort.SliceStable(forms, func(i, j int) bool {
		return forms[i].Frequency > forms[j].Frequency
	})
}

// KnownPrefixCheck reports whether word begins with a recognized prefix
// from the flat sorted prefix array, returning the remaining stem after
// stripping the longest such prefix (spec.md §4.4/§4.5). It strips at most
// one prefix layer: callers that need to peel repeated known prefixes (e.g.
// "un" + "re" + stem) call it again on the returned remainder.
func KnownPrefixCheck(allPrefixes []string, word string) (remainder string, ok bool) {
	if word == "" {
		return "", false
	}
	i := sort.Search(len(allPrefixes), func(i int) bool { return allPrefixes[i] >= word })
	best := ""
	for k := i - 1; k >= 0; k-- {
		p := allPrefixes[k]
		if p == "" || len(p) >= len(word) || !strings.HasPrefix(word, p) {
			continue
		}
		if len(p) > len(best) {
			best = p
		}
	}
	if best == "" {
		return word, false
	}
	return word[len(best):], true
}
