// Package lang dispatches morphological analysis across multiple loaded
// language dictionaries: concurrent directory-based loading, and
// longest-trailing-match language detection for an unspecified-language
// query (spec.md §4.6). Grounded on the teacher's LoadMorphAnalyzer
// (analyzer.go) for the loader shape, generalized from one dictionary to a
// directory of per-language dictionaries, and on
// SPEC_FULL.md §2's choice of golang.org/x/sync/errgroup for the concurrent
// fan-out.
package lang

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/morphgo/morphgo/internal/compact"
	"github.com/morphgo/morphgo/internal/morph"
	"github.com/morphgo/morphgo/internal/ruledict"
	"github.com/morphgo/morphgo/internal/text"
)

// ErrNoDictionaries is returned when a dictionary root contains no
// recognizable language directories.
var ErrNoDictionaries = errors.New("lang: no dictionaries found")

// dirPattern matches an optional numeric load-order prefix followed by an
// alphabetic language id, e.g. "01-ru", "ru", "10_en".
var dirPattern = regexp.MustCompile(`^(\d+[-_])?([a-zA-Z]+)$`)

// descriptionCacheSize bounds each dictionary's per-word description cache.
const descriptionCacheSize = 4096

// Dictionary is one loaded language's automaton + rule base.
type Dictionary struct {
	ID        string
	Analyzer  *morph.Analyzer
	Automaton *compact.Automaton
	Cache     *morph.DescriptionCache
}

// Close releases the dictionary's mmap-backed automaton.
func (d *Dictionary) Close() error {
	return d.Automaton.Close()
}

// MultiMorphology holds every loaded language dictionary, in locale-
// collation load order, and dispatches analysis across them.
type MultiMorphology struct {
	dicts []*Dictionary
	byID  map[string]*Dictionary
}

// Close releases every dictionary's resources.
func (m *MultiMorphology) Close() error {
	var firstErr error
	for _, d := range m.dicts {
		if err := d.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Dictionaries returns the loaded dictionaries in load order.
func (m *MultiMorphology) Dictionaries() []*Dictionary { return m.dicts }

// Get returns the dictionary with the given language id, if loaded.
func (m *MultiMorphology) Get(id string) (*Dictionary, bool) {
	d, ok := m.byID[strings.ToLower(id)]
	return d, ok
}

type dirEntry struct {
	order int
	id    string
	path  string
}

// Load scans root for language subdirectories (each holding morphs.mrd,
// gramtab.tab and automat.save) and loads them concurrently.
func Load(ctx context.Context, root string) (*MultiMorphology, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("lang: reading %s: %w", root, err)
	}

	var dirs []dirEntry
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		m := dirPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		order := 0
		if m[1] != "" {
			fmt.Sscanf(m[1], "%d", &order)
		}
		dirs = append(dirs, dirEntry{order: order, id: strings.ToLower(m[2]), path: filepath.Join(root, e.Name())})
	}
	if len(dirs) == 0 {
		return nil, ErrNoDictionaries
	}
	sort.Slice(dirs, func(i, j int) bool {
		if dirs[i].order != dirs[j].order {
			return dirs[i].order < dirs[j].order
		}
		return dirs[i].id < dirs[j].id
	})

	loaded := make([]*Dictionary, len(dirs))
	g, gctx := errgroup.WithContext(ctx)
	for i, d := range dirs {
		i, d := i, d
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			dict, err := loadOne(d.id, d.path)
			if err != nil {
				return fmt.Errorf("lang: loading %s: %w", d.id, err)
			}
			loaded[i] = dict
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	m := &MultiMorphology{dicts: loaded, byID: make(map[string]*Dictionary, len(loaded))}
	for _, d := range loaded {
		m.byID[d.ID] = d
	}
	return m, nil
}

func loadOne(id, dir string) (*Dictionary, error) {
	gramtabFile, err := os.Open(filepath.Join(dir, "gramtab.tab"))
	if err != nil {
		return nil, err
	}
	defer gramtabFile.Close()
	grammars, err := ruledict.LoadGrammars(gramtabFile)
	if err != nil {
		return nil, err
	}

	mrdFile, err := os.Open(filepath.Join(dir, "morphs.mrd"))
	if err != nil {
		return nil, err
	}
	defer mrdFile.Close()
	base, err := ruledict.LoadMorphologyBase(mrdFile, grammars)
	if err != nil {
		return nil, err
	}

	auto, err := compact.LoadFile(filepath.Join(dir, "automat.save"))
	if err != nil {
		return nil, err
	}

	return &Dictionary{
		ID:        id,
		Analyzer:  morph.NewAnalyzer(base, auto),
		Automaton: auto,
		Cache:     morph.NewDescriptionCache(descriptionCacheSize),
	}, nil
}

// Detect picks the dictionary whose automaton recognizes the longest
// trailing run of word, per spec.md §4.6. suggested, if non-empty and
// loaded, is tried first and returned immediately on any match at all.
func (m *MultiMorphology) Detect(word string, suggested string) (*Dictionary, bool) {
	if suggested != "" {
		if d, ok := m.Get(suggested); ok {
			reversed := text.Reverse(text.ToRunes(text.Lower(word)))
			if d.Automaton.MiniCommonPrefixSize(reversed) > 0 {
				return d, true
			}
		}
	}

	reversed := text.Reverse(text.ToRunes(text.Lower(word)))
	var best *Dictionary
	bestLen := -1
	for _, d := range m.dicts {
		n := d.Automaton.MiniCommonPrefixSize(reversed)
		if n > bestLen {
			bestLen = n
			best = d
		}
	}
	if best == nil || bestLen <= 0 {
		if len(m.dicts) > 0 {
			return m.dicts[0], false
		}
		return nil, false
	}
	return best, true
}
