// Package document builds the per-document index this system queries
// against: tokenize, describe every token (lemmas + original form), rewrite
// the document as a terminator-separated stream of those descriptions, build
// a suffix array over the rewritten stream, and record each original
// token's word range for mapping suffix-array hits back to document
// positions (spec.md §4.9). Grounded on the teacher's mmap-backed loading
// idiom (internal/blobio, itself generalized from analyzer.go's
// loadInternal) for the on-disk blob form.
package document

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/morphgo/morphgo/internal/blobio"
	"github.com/morphgo/morphgo/internal/container"
	"github.com/morphgo/morphgo/internal/lang"
	"github.com/morphgo/morphgo/internal/morph"
	"github.com/morphgo/morphgo/internal/sarray"
	"github.com/morphgo/morphgo/internal/text"
	"github.com/morphgo/morphgo/internal/tokenizer"
)

// Terminator separates components (lemmas and the original surface form) in
// the rewritten text; it never appears in lemmas or surface forms, which are
// plain-letter sequences. Every component, including the last one of the
// whole document, is followed by a Terminator, so the rewritten text reads
// "lemma.lemma.word.lemma.word.…" with "." standing in for Terminator
// (spec.md §9's second Open Question, and
// _examples/original_source/C/libs/src/textprocessor/document.c's
// build_text_with_ranges, which prepends one extra terminator before the
// very first word so every WordRange begins and ends on a terminator).
const Terminator = rune(0x2400) // SYMBOL FOR NULL, an unassigned control-picture codepoint in ordinary text

// WordRange records where one original token's rewritten form lives in the
// rewritten-text rune stream, plus the original byte span (spec.md §3
// "WordRange"). RewrittenStart points at the terminator immediately
// preceding this word's first component — the document's synthetic leading
// terminator for word 0, or the previous word's own trailing terminator for
// every word after it — so ranges tile the rewritten text contiguously:
// Ranges[i].RewrittenEnd == Ranges[i+1].RewrittenStart.
type WordRange struct {
	RewrittenStart int
	RewrittenEnd   int // index of this word's own trailing terminator; exclusive
	ByteStart      int
	ByteEnd        int
}

// DocumentHeader is the summary record stored alongside a document's blob.
type DocumentHeader struct {
	WordCount int
	CaseFold  bool // true unless built via BuildDontNormalize
}

// Document is a built, queryable document index.
type Document struct {
	Header    DocumentHeader
	Source    []byte // original bytes, for byte-range recovery
	Rewritten []rune
	Ranges    []WordRange
	SA        *sarray.SuffixArray
}

// Build tokenizes src, analyzes every token (lowercasing first) and
// constructs the rewritten text + suffix array + word ranges.
func Build(src []byte, langs *lang.MultiMorphology) (*Document, error) {
	return build(src, langs, true)
}

// BuildDontNormalize is like Build but skips case folding before
// tokenization (doc_new_dont_normalize, spec.md §6).
func BuildDontNormalize(src []byte, langs *lang.MultiMorphology) (*Document, error) {
	return build(src, langs, false)
}

func build(src []byte, langs *lang.MultiMorphology, normalize bool) (*Document, error) {
	s := string(src)
	if normalize {
		s = text.Lower(s)
	}
	runes := text.ToRunes(s)

	rewritten := []rune{Terminator} // synthetic terminator owned by word 0
	var ranges []WordRange
	var suggested string

	tokenizer.Tokenize(runes, func(tok tokenizer.Token) bool {
		word := text.FromRunes(runes[tok.Start:tok.End])
		rewrittenStart := len(rewritten) - 1

		var dict *lang.Dictionary
		var ok bool
		if langs != nil {
			dict, ok = langs.Detect(word, suggested)
		}
		if ok {
			suggested = dict.ID
			desc := describe(dict, word)
			rewritten = appendDescription(rewritten, desc, word)
		} else {
			rewritten = append(rewritten, text.ToRunes(word)...)
			rewritten = append(rewritten, Terminator)
		}

		ranges = append(ranges, WordRange{
			RewrittenStart: rewrittenStart,
			RewrittenEnd:   len(rewritten) - 1,
			ByteStart:      len(string(runes[:tok.Start])),
			ByteEnd:        len(string(runes[:tok.End])),
		})
		return true
	})

	doc := &Document{
		Header:    DocumentHeader{WordCount: len(ranges), CaseFold: normalize},
		Source:    src,
		Rewritten: rewritten,
		Ranges:    ranges,
		SA:        sarray.Build(rewritten),
	}
	return doc, nil
}

func describe(d *lang.Dictionary, word string) morph.WordDescription {
	return d.Cache.Describe(d.Analyzer, word)
}

// appendDescription writes every lemma followed by the original surface
// form, each terminated by Terminator (spec.md §4.9's document rewrite
// rule; "lemma.lemma.word." in the original's notation).
func appendDescription(rewritten []rune, desc morph.WordDescription, word string) []rune {
	for _, lemma := range desc.Lemmas {
		rewritten = append(rewritten, text.ToRunes(lemma)...)
		rewritten = append(rewritten, Terminator)
	}
	rewritten = append(rewritten, text.ToRunes(word)...)
	rewritten = append(rewritten, Terminator)
	return rewritten
}

// WordComponents returns the component strings (every candidate lemma
// followed by the original surface form) recorded for the word at
// rangeIdx, in storage order.
func (d *Document) WordComponents(rangeIdx int) []string {
	r := d.Ranges[rangeIdx]
	span := d.Rewritten[r.RewrittenStart+1 : r.RewrittenEnd]
	return strings.FieldsFunc(text.FromRunes(span), func(r rune) bool { return r == Terminator })
}

// ComponentPattern returns the terminator-delimited search pattern that
// matches component c only at a word-component boundary of a rewritten
// text's suffix array (spec.md §4.10's "leading-terminator prefixed lemma"
// trick, which forces a whole-component match instead of a partial one).
func ComponentPattern(c string) []rune {
	pattern := make([]rune, 0, len(c)+2)
	pattern = append(pattern, Terminator)
	pattern = append(pattern, text.ToRunes(c)...)
	pattern = append(pattern, Terminator)
	return pattern
}

// FindWordRange returns the index of the WordRange containing rewritten
// position pos, or -1.
func (d *Document) FindWordRange(pos int) int {
	i := sort.Search(len(d.Ranges), func(i int) bool {
		return d.Ranges[i].RewrittenEnd > pos
	})
	if i < len(d.Ranges) && d.Ranges[i].RewrittenStart <= pos {
		return i
	}
	return -1
}

// blob format: magic, wordCount, caseFold, len(rewritten), rewritten runes
// (4 bytes each), len(ranges), ranges (4x int32 each), len(source), source
// bytes. The suffix array is rebuilt on load rather than persisted, since it
// is cheap to regenerate and keeping one authoritative Build path avoids a
// second serialization format to keep in sync (spec.md §6 "document blob").
const blobMagic = uint32(0x4d47444f) // "MGDO"

// Save serializes the document to its on-disk blob form, batching writes
// through a ByteStreamBuffer rather than issuing one syscall-sized write per
// field (spec.md §4.1 "Byte stream buffer").
func (d *Document) Save(w io.Writer) error {
	bsb := container.NewByteStreamBuffer(w, 64*1024)

	writeUint32 := func(v uint32) error {
		var tmp [4]byte
		binary.LittleEndian.PutUint32(tmp[:], v)
		return bsb.Append(tmp[:])
	}

	if err := writeUint32(blobMagic); err != nil {
		return err
	}
	if err := writeUint32(uint32(d.Header.WordCount)); err != nil {
		return err
	}
	fold := byte(0)
	if d.Header.CaseFold {
		fold = 1
	}
	if err := bsb.Append([]byte{fold}); err != nil {
		return err
	}
	if err := writeUint32(uint32(len(d.Rewritten))); err != nil {
		return err
	}
	for _, r := range d.Rewritten {
		if err := writeUint32(uint32(r)); err != nil {
			return err
		}
	}
	if err := writeUint32(uint32(len(d.Ranges))); err != nil {
		return err
	}
	for _, rg := range d.Ranges {
		for _, v := range [4]int32{int32(rg.RewrittenStart), int32(rg.RewrittenEnd), int32(rg.ByteStart), int32(rg.ByteEnd)} {
			if err := writeUint32(uint32(v)); err != nil {
				return err
			}
		}
	}
	if err := writeUint32(uint32(len(d.Source))); err != nil {
		return err
	}
	if err := bsb.Append(d.Source); err != nil {
		return err
	}
	return bsb.Flush()
}

// Load parses a document blob previously written by Save, rebuilding its
// suffix array.
func Load(data []byte) (*Document, error) {
	r := bytes.NewReader(data)
	var magic uint32
	if err := binary.Read(r, binary.LittleEndian, &magic); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	if magic != blobMagic {
		return nil, fmt.Errorf("document: bad magic %x", magic)
	}
	var wordCount uint32
	if err := binary.Read(r, binary.LittleEndian, &wordCount); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	foldByte, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	var rewrittenLen uint32
	if err := binary.Read(r, binary.LittleEndian, &rewrittenLen); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	rewritten := make([]rune, rewrittenLen)
	for i := range rewritten {
		var v uint32
		if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		rewritten[i] = rune(v)
	}
	var rangeCount uint32
	if err := binary.Read(r, binary.LittleEndian, &rangeCount); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	ranges := make([]WordRange, rangeCount)
	for i := range ranges {
		var vals [4]int32
		if err := binary.Read(r, binary.LittleEndian, &vals); err != nil {
			return nil, fmt.Errorf("document: %w", err)
		}
		ranges[i] = WordRange{
			RewrittenStart: int(vals[0]), RewrittenEnd: int(vals[1]),
			ByteStart: int(vals[2]), ByteEnd: int(vals[3]),
		}
	}
	var srcLen uint32
	if err := binary.Read(r, binary.LittleEndian, &srcLen); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}
	src := make([]byte, srcLen)
	if _, err := r.Read(src); err != nil {
		return nil, fmt.Errorf("document: %w", err)
	}

	return &Document{
		Header:    DocumentHeader{WordCount: int(wordCount), CaseFold: foldByte != 0},
		Source:    src,
		Rewritten: rewritten,
		Ranges:    ranges,
		SA:        sarray.Build(rewritten),
	}, nil
}

// LoadFile mmaps and parses a document blob file.
func LoadFile(path string) (*Document, error) {
	mapped, err := blobio.Open(path)
	if err != nil {
		return nil, err
	}
	defer mapped.Close()
	return Load(mapped.Bytes())
}
