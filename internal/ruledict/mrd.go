package ruledict

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/morphgo/morphgo/internal/text"
)

// ErrMalformed is returned when a morphs.mrd section is truncated or a line
// cannot be parsed (spec.md §7 "Malformed-dictionary").
var ErrMalformed = errors.New("ruledict: malformed morphs.mrd")

// NoPrefixSet marks a Lemma with no associated PrefixModel.
const NoPrefixSet = -1

// FlexVariance is a single suffix-inflection rule (spec.md §3).
type FlexVariance struct {
	FormNo     int
	Flexion    string // lowercase; empty means absent
	HasFlexion bool
	Ancode     string
	Grammar    Grammar
	HasGrammar bool
	Prefix     string // lowercase; empty means absent
	HasPrefix  bool
}

// FlexModel is an ordered list of FlexVariances; by convention index 0 is
// the lemma variance.
type FlexModel []FlexVariance

// PrefixModel is an ordered set of extra prefix strings.
type PrefixModel []string

// Lemma is the dictionary's base-stem record (spec.md §3).
type Lemma struct {
	Base         string
	HasBase      bool
	FlexModelNo  int
	PrefixSetNo  int // NoPrefixSet if none
	Ancode       string
	HasAncode    bool
	FlexModel    FlexModel   // resolved ref
	PrefixModel  PrefixModel // resolved ref, nil if PrefixSetNo == NoPrefixSet
}

// MorphologyBase aggregates grammars, flex models, prefix models and lemmas,
// plus a precomputed flat sorted array of every known prefix for fast
// known-prefix recognition (spec.md §3 "MorphologyBase").
type MorphologyBase struct {
	Grammars     map[string]Grammar
	FlexModels   []FlexModel
	PrefixModels []PrefixModel
	Lemmas       []Lemma
	AllPrefixes  []string // sorted ascending, union of all PrefixModels
}

type sectionReader struct {
	scanner *bufio.Scanner
	lineNo  int
}

func newSectionReader(r io.Reader) *sectionReader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), 4<<20)
	return &sectionReader{scanner: s}
}

func (s *sectionReader) nextLine() (string, bool) {
	if !s.scanner.Scan() {
		return "", false
	}
	s.lineNo++
	return s.scanner.Text(), true
}

// readSectionSize reads a decimal size line.
func (s *sectionReader) readSectionSize() (int, error) {
	line, ok := s.nextLine()
	if !ok {
		return 0, fmt.Errorf("%w: expected section size at line %d", ErrMalformed, s.lineNo)
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: bad section size %q: %v", ErrMalformed, line, err)
	}
	return n, nil
}

// skipSection consumes a size-prefixed section without interpreting content,
// for the accent-models and user-sessions sections (spec.md §4.4).
func (s *sectionReader) skipSection() error {
	n, err := s.readSectionSize()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if _, ok := s.nextLine(); !ok {
			return fmt.Errorf("%w: section truncated after %d/%d lines", ErrMalformed, i, n)
		}
	}
	return nil
}

// LoadMorphologyBase parses morphs.mrd (mrd) against the already-loaded
// grammar table (gramtab), per spec.md §4.4/§6 section order: flex models,
// accent models (skipped), user sessions (skipped), prefix models, lemmas.
func LoadMorphologyBase(mrd io.Reader, grammars map[string]Grammar) (*MorphologyBase, error) {
	s := newSectionReader(mrd)

	flexModels, err := loadFlexModels(s, grammars)
	if err != nil {
		return nil, err
	}
	if err := s.skipSection(); err != nil { // accent models
		return nil, fmt.Errorf("ruledict: accent models: %w", err)
	}
	if err := s.skipSection(); err != nil { // user sessions
		return nil, fmt.Errorf("ruledict: user sessions: %w", err)
	}
	prefixModels, allPrefixes, err := loadPrefixModels(s)
	if err != nil {
		return nil, err
	}
	lemmas, err := loadLemmas(s, flexModels, prefixModels)
	if err != nil {
		return nil, err
	}

	return &MorphologyBase{
		Grammars:     grammars,
		FlexModels:   flexModels,
		PrefixModels: prefixModels,
		Lemmas:       lemmas,
		AllPrefixes:  allPrefixes,
	}, nil
}

// stripComment removes a trailing "q//q..." comment, as the original format
// does (wordforms.c's make_flex_model).
func stripComment(s string) string {
	if i := strings.Index(s, "q//q"); i >= 0 {
		return s[:i]
	}
	return s
}

func loadFlexModels(s *sectionReader, grammars map[string]Grammar) ([]FlexModel, error) {
	n, err := s.readSectionSize()
	if err != nil {
		return nil, fmt.Errorf("ruledict: flex models: %w", err)
	}
	models := make([]FlexModel, 0, n)
	for i := 0; i < n; i++ {
		line, ok := s.nextLine()
		if !ok {
			return nil, fmt.Errorf("%w: flex models truncated at %d/%d", ErrMalformed, i, n)
		}
		model, err := parseFlexModel(line, grammars)
		if err != nil {
			return nil, fmt.Errorf("ruledict: flex model %d: %w", i, err)
		}
		models = append(models, model)
	}
	return models, nil
}

// parseFlexModel parses one flex-model line: "%"-separated variances, each
// "flexion*ancode*prefix" with an optional trailing q//q comment (spec.md
// §4.4).
func parseFlexModel(line string, grammars map[string]Grammar) (FlexModel, error) {
	variances := strings.Split(line, "%")
	model := make(FlexModel, 0, len(variances))
	for formNo, raw := range variances {
		raw = stripComment(raw)
		parts := strings.SplitN(raw, "*", 3)
		var v FlexVariance
		v.FormNo = formNo
		if len(parts) > 0 && parts[0] != "" {
			v.Flexion = text.Lower(parts[0])
			v.HasFlexion = true
		}
		ancode := ""
		if len(parts) > 1 {
			ancode = parts[1]
		}
		v.Ancode = ancode
		if g, ok := grammars[ancode]; ok {
			v.Grammar = g
			v.HasGrammar = true
		}
		if len(parts) > 2 && parts[2] != "" {
			v.Prefix = text.Lower(parts[2])
			v.HasPrefix = true
		}
		model = append(model, v)
	}
	return model, nil
}

func loadPrefixModels(s *sectionReader) ([]PrefixModel, []string, error) {
	n, err := s.readSectionSize()
	if err != nil {
		return nil, nil, fmt.Errorf("ruledict: prefix models: %w", err)
	}
	models := make([]PrefixModel, 0, n)
	var all []string
	for i := 0; i < n; i++ {
		line, ok := s.nextLine()
		if !ok {
			return nil, nil, fmt.Errorf("%w: prefix models truncated at %d/%d", ErrMalformed, i, n)
		}
		model := parsePrefixModel(line)
		models = append(models, model)
		all = append(all, model...)
	}
	sort.Strings(all)
	return models, all, nil
}

// parsePrefixModel splits a comma/space-separated prefix list.
func parsePrefixModel(line string) PrefixModel {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	model := make(PrefixModel, 0, len(fields))
	for _, f := range fields {
		if f == "" {
			continue
		}
		model = append(model, text.Lower(f))
	}
	return model
}

func loadLemmas(s *sectionReader, flexModels []FlexModel, prefixModels []PrefixModel) ([]Lemma, error) {
	n, err := s.readSectionSize()
	if err != nil {
		return nil, fmt.Errorf("ruledict: lemmas: %w", err)
	}
	lemmas := make([]Lemma, 0, n)
	for i := 0; i < n; i++ {
		line, ok := s.nextLine()
		if !ok {
			return nil, fmt.Errorf("%w: lemmas truncated at %d/%d", ErrMalformed, i, n)
		}
		lemma, err := parseLemma(line, flexModels, prefixModels)
		if err != nil {
			return nil, fmt.Errorf("ruledict: lemma %d: %w", i, err)
		}
		lemmas = append(lemmas, lemma)
	}
	return lemmas, nil
}

// parseLemma parses "base_or_hash flex_no accent_no session ancode_or_dash
// prefix_no_or_dash" (spec.md §4.4/§6).
func parseLemma(line string, flexModels []FlexModel, prefixModels []PrefixModel) (Lemma, error) {
	fields := strings.Fields(line)
	if len(fields) < 6 {
		return Lemma{}, fmt.Errorf("%w: expected 6 fields, got %d: %q", ErrMalformed, len(fields), line)
	}
	var lemma Lemma
	if fields[0] != "#" {
		lemma.Base = text.Lower(fields[0])
		lemma.HasBase = true
	}
	flexNo, err := strconv.Atoi(fields[1])
	if err != nil {
		return Lemma{}, fmt.Errorf("%w: bad flex_model_no %q: %v", ErrMalformed, fields[1], err)
	}
	lemma.FlexModelNo = flexNo
	// fields[2] = accent_no, fields[3] = session, both ignored per §4.4.
	if fields[4] != "-" {
		lemma.Ancode = fields[4]
		lemma.HasAncode = true
	}
	if fields[5] == "-" {
		lemma.PrefixSetNo = NoPrefixSet
	} else {
		prefixNo, err := strconv.Atoi(fields[5])
		if err != nil {
			return Lemma{}, fmt.Errorf("%w: bad prefix_set_no %q: %v", ErrMalformed, fields[5], err)
		}
		lemma.PrefixSetNo = prefixNo
	}
	if flexNo >= 0 && flexNo < len(flexModels) {
		lemma.FlexModel = flexModels[flexNo]
	}
	if lemma.PrefixSetNo != NoPrefixSet && lemma.PrefixSetNo >= 0 && lemma.PrefixSetNo < len(prefixModels) {
		lemma.PrefixModel = prefixModels[lemma.PrefixSetNo]
	}
	return lemma, nil
}
