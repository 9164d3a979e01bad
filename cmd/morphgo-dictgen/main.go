// Command morphgo-dictgen compiles a single language directory's
// morphs.mrd + gramtab.tab rule base into the automat.save automaton file
// morphgo loads at query time (spec.md §6). It is the one piece of tooling
// the distilled spec never describes: without it there is no way to
// produce an automat.save from a rule base at all, so SPEC_FULL.md adds it
// as ambient build tooling rather than a queryable module.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/morphgo/morphgo/internal/automaton"
	"github.com/morphgo/morphgo/internal/diag"
	"github.com/morphgo/morphgo/internal/morph"
	"github.com/morphgo/morphgo/internal/ruledict"
	"github.com/morphgo/morphgo/internal/text"
)

func main() {
	dir := flag.String("dir", "", "language directory containing morphs.mrd and gramtab.tab")
	out := flag.String("out", "automat.save", "output automaton file path")
	flag.Parse()

	if *dir == "" {
		fmt.Fprintln(os.Stderr, "morphgo-dictgen: -dir is required")
		os.Exit(2)
	}

	if err := run(*dir, *out); err != nil {
		diag.Default.Printf("failed: %v", err)
		os.Exit(1)
	}
}

type entry struct {
	key        []rune // reversed(word) + delimiter + annotation, as a sortable rune sequence
}

func run(dir, out string) error {
	gramtabFile, err := os.Open(filepath.Join(dir, "gramtab.tab"))
	if err != nil {
		return err
	}
	defer gramtabFile.Close()
	grammars, err := ruledict.LoadGrammars(gramtabFile)
	if err != nil {
		return err
	}

	mrdFile, err := os.Open(filepath.Join(dir, "morphs.mrd"))
	if err != nil {
		return err
	}
	defer mrdFile.Close()
	base, err := ruledict.LoadMorphologyBase(mrdFile, grammars)
	if err != nil {
		return err
	}

	entries := buildEntries(base)
	sort.Slice(entries, func(i, j int) bool {
		return compareRuneSlices(entries[i].key, entries[j].key) < 0
	})

	a := automaton.New()
	var prev []rune
	for _, e := range entries {
		if prev != nil && compareRuneSlices(prev, e.key) == 0 {
			continue // duplicate wordform+annotation; first one wins
		}
		if err := a.AddWord(e.key); err != nil {
			return fmt.Errorf("adding word: %w", err)
		}
		prev = e.key
	}
	a.Finalize()

	diag.Default.Printf("compiled %d entries, %d states", len(entries), a.StatesCount())

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	return a.Save(f)
}

func buildEntries(base *ruledict.MorphologyBase) []entry {
	var entries []entry
	for _, lemma := range base.Lemmas {
		if !lemma.HasBase {
			continue
		}
		for flexModelIdx := range base.FlexModels {
			if lemma.FlexModelNo != flexModelIdx {
				continue
			}
			for _, v := range base.FlexModels[flexModelIdx] {
				prefix := v.Prefix
				if !v.HasPrefix {
					prefix = ""
				}
				flexion := v.Flexion
				if !v.HasFlexion {
					flexion = ""
				}
				word := prefix + lemma.Base + flexion
				annot := morph.EncodeAnnotation(flexModelIdx, len([]rune(flexion)), len([]rune(lemma.Base)))
				key := text.Reverse(text.ToRunes(word))
				key = append(key, '|')
				key = append(key, text.ToRunes(annot)...)
				entries = append(entries, entry{key: key})
			}
		}
	}
	return entries
}

func compareRuneSlices(a, b []rune) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}
