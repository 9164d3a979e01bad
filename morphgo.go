// Package morphgo is the public entry point: load a multi-language
// morphological dictionary, build documents from raw text, and query
// phrase containment/similarity between them (spec.md §6 "External
// interfaces"). Per the Design Note on arena-ids vs. pointer graphs
// (spec.md §9), documents are addressed by an opaque DocHandle rather than
// returned as a pointer the caller must keep alive correctly; DocClose
// invalidates the handle the way the C original's doc_delete freed an
// opaque pointer.
package morphgo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/morphgo/morphgo/internal/document"
	"github.com/morphgo/morphgo/internal/intersect"
	"github.com/morphgo/morphgo/internal/lang"
	"github.com/morphgo/morphgo/internal/text"
	"github.com/morphgo/morphgo/internal/tokenizer"
)

// ErrClosed is returned by any operation on a Morphology or DocHandle after
// Close/DocClose.
var ErrClosed = errors.New("morphgo: use after close")

// ErrUnknownHandle is returned when a DocHandle was never issued by this
// Morphology, or was already closed.
var ErrUnknownHandle = errors.New("morphgo: unknown document handle")

// DocHandle is an opaque, arena-style reference to a built document. It is
// valid only for the Morphology that issued it.
type DocHandle int32

// Morphology is the top-level handle for a loaded dictionary set.
type Morphology struct {
	mu     sync.Mutex
	langs  *lang.MultiMorphology
	docs   map[DocHandle]*document.Document
	nextID DocHandle
	closed bool
}

// New loads every language dictionary found under dictDir (spec.md §6
// "New").
func New(dictDir string) (*Morphology, error) {
	langs, err := lang.Load(context.Background(), dictDir)
	if err != nil {
		return nil, fmt.Errorf("morphgo: %w", err)
	}
	return &Morphology{langs: langs, docs: make(map[DocHandle]*document.Document)}, nil
}

// Close releases every loaded dictionary and any still-open documents.
func (m *Morphology) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.docs = nil
	return m.langs.Close()
}

func (m *Morphology) checkOpen() error {
	if m.closed {
		return ErrClosed
	}
	return nil
}

// DocNew builds a document from src, case-folding it first (spec.md §6
// "doc_new").
func (m *Morphology) DocNew(src []byte) (DocHandle, error) {
	return m.docNew(src, true)
}

// DocNewDontNormalize builds a document without case-folding src first
// (spec.md §6 "doc_new_dont_normalize").
func (m *Morphology) DocNewDontNormalize(src []byte) (DocHandle, error) {
	return m.docNew(src, false)
}

func (m *Morphology) docNew(src []byte, normalize bool) (DocHandle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return 0, err
	}
	var (
		doc *document.Document
		err error
	)
	if normalize {
		doc, err = document.Build(src, m.langs)
	} else {
		doc, err = document.BuildDontNormalize(src, m.langs)
	}
	if err != nil {
		return 0, fmt.Errorf("morphgo: %w", err)
	}
	m.nextID++
	id := m.nextID
	m.docs[id] = doc
	return id, nil
}

// DocClose invalidates h; subsequent use returns ErrUnknownHandle (spec.md
// §6 "doc_delete").
func (m *Morphology) DocClose(h DocHandle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return err
	}
	if _, ok := m.docs[h]; !ok {
		return ErrUnknownHandle
	}
	delete(m.docs, h)
	return nil
}

func (m *Morphology) lookup(h DocHandle) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkOpen(); err != nil {
		return nil, err
	}
	doc, ok := m.docs[h]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return doc, nil
}

// DocIntersectDoc returns the length-guarded similarity score between two
// open documents: 0 whenever a is longer, in bytes, than b (spec.md §6
// "doc_intersect_doc").
func (m *Morphology) DocIntersectDoc(a, b DocHandle) (float64, error) {
	res, err := m.intersect(a, b)
	if err != nil {
		return 0, err
	}
	return res.Similarity, nil
}

// DocIntersectDoc2 returns the plain-coverage similarity score between two
// open documents, without the length guard (spec.md §6 "doc_intersect_doc2").
func (m *Morphology) DocIntersectDoc2(a, b DocHandle) (float64, error) {
	res, err := m.intersect(a, b)
	if err != nil {
		return 0, err
	}
	return res.Similarity2, nil
}

func (m *Morphology) intersect(a, b DocHandle) (intersect.Result, error) {
	docA, err := m.lookup(a)
	if err != nil {
		return intersect.Result{}, err
	}
	docB, err := m.lookup(b)
	if err != nil {
		return intersect.Result{}, err
	}
	return intersect.IntersectDocs(docA, docB), nil
}

// DocCaseDoc reports whether a's words occur, in order and consecutively,
// inside b (spec.md §6 "doc_case_doc").
func (m *Morphology) DocCaseDoc(a, b DocHandle) (bool, error) {
	docA, err := m.lookup(a)
	if err != nil {
		return false, err
	}
	docB, err := m.lookup(b)
	if err != nil {
		return false, err
	}
	return intersect.CaseDoc(docA, docB), nil
}

// StrIntersectStr is the string-only convenience form of DocIntersectDoc,
// building and discarding both documents internally (spec.md §6
// "str_intersect_str").
func (m *Morphology) StrIntersectStr(a, b string) (float64, error) {
	if err := m.checkOpenLocked(); err != nil {
		return 0, err
	}
	res, err := intersect.StrIntersectStr(a, b, m.langs)
	if err != nil {
		return 0, fmt.Errorf("morphgo: %w", err)
	}
	return res.Similarity, nil
}

// StrIntersectStr2 is the string-only convenience form of DocIntersectDoc2
// (spec.md §6 "str_intersect_str2").
func (m *Morphology) StrIntersectStr2(a, b string) (float64, error) {
	if err := m.checkOpenLocked(); err != nil {
		return 0, err
	}
	res, err := intersect.StrIntersectStr(a, b, m.langs)
	if err != nil {
		return 0, fmt.Errorf("morphgo: %w", err)
	}
	return res.Similarity2, nil
}

// StrCaseStr is the string-only convenience form of DocCaseDoc (spec.md §6
// "str_case_str").
func (m *Morphology) StrCaseStr(a, b string) (bool, error) {
	if err := m.checkOpenLocked(); err != nil {
		return false, err
	}
	ok, err := intersect.StrCaseStr(a, b, m.langs)
	if err != nil {
		return false, fmt.Errorf("morphgo: %w", err)
	}
	return ok, nil
}

func (m *Morphology) checkOpenLocked() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.checkOpen()
}

// NormalizeForm tokenizes s and replaces every token with the first lemma
// its description lists (or the token's own lowercased surface form if it
// has none), joining the results with single spaces (spec.md §6
// "normalize_form"; _examples/original_source/C/libs/src/textprocessor/document.c's
// normalize_morph_form). Non-word bytes between tokens (punctuation,
// multiple spaces) are dropped, matching the original's word-by-word
// rebuild.
func (m *Morphology) NormalizeForm(s string) (string, error) {
	if err := m.checkOpenLocked(); err != nil {
		return "", err
	}

	lowered := text.Lower(s)
	runes := text.ToRunes(lowered)

	var words []string
	var suggested string
	tokenizer.Tokenize(runes, func(tok tokenizer.Token) bool {
		word := text.FromRunes(runes[tok.Start:tok.End])

		var dict *lang.Dictionary
		var ok bool
		if m.langs != nil {
			dict, ok = m.langs.Detect(word, suggested)
		}
		if !ok {
			words = append(words, word)
			return true
		}
		suggested = dict.ID
		desc := dict.Cache.Describe(dict.Analyzer, word)
		if len(desc.Lemmas) > 0 {
			words = append(words, desc.Lemmas[0])
		} else {
			words = append(words, word)
		}
		return true
	})

	return strings.Join(words, " "), nil
}
