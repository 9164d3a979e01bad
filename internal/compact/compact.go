// Package compact implements the read-only, load-time-only automaton form
// described in spec.md §4.3: a flat array of state records, each holding an
// inline, label-sorted transitions array enabling binary-search lookup, with
// no back-pointers. Built directly from the on-disk automat.save format (see
// internal/automaton's Save format, spec.md §6), optionally over an mmap'd
// byte slice for zero-copy loading — the teacher's own technique in
// SteosOfficial-SteosMorphy/analyzer/analyzer.go (loadInternal + bytesToSlice)
// applied to this system's automaton file instead of a DAWG dictionary file.
package compact

import (
	"encoding/binary"
	"fmt"

	"github.com/morphgo/morphgo/internal/blobio"
)

// Delimiter is the special wide-char label separating a reversed stem from
// its encoded morphology annotation in automaton outputs (spec.md Glossary
// "Annotation delimiter").
const Delimiter = rune('|')

type transitionRec struct {
	label  uint32
	target uint32
}

type stateRec struct {
	final      bool
	transStart int32
	transCount int32
}

// Automaton is a compact, read-only automaton loaded from an automat.save
// byte stream.
type Automaton struct {
	states      []stateRec
	transitions []transitionRec
	mapped      *blobio.MappedFile // non-nil if loaded via mmap; owns lifetime
}

// Load parses an automat.save-format byte slice (already fully in memory,
// e.g. mmap'd) into a compact automaton.
func Load(data []byte) (*Automaton, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("compact: file too small for header")
	}
	statesCount := binary.LittleEndian.Uint32(data[0:4])
	off := 4

	a := &Automaton{
		states: make([]stateRec, statesCount),
	}
	// two passes: first collect sizes/order so transitions can be packed
	// into one contiguous slice sorted by id.
	type parsed struct {
		id    uint32
		final bool
		edges []transitionRec
	}
	all := make([]parsed, statesCount)

	for i := uint32(0); i < statesCount; i++ {
		if off+8 > len(data) {
			return nil, fmt.Errorf("compact: truncated state %d size", i)
		}
		off += 8 // description_size, unused directly (redundant with fields)
		if off+4+1+4 > len(data) {
			return nil, fmt.Errorf("compact: truncated state %d header", i)
		}
		id := binary.LittleEndian.Uint32(data[off:])
		off += 4
		final := data[off] != 0
		off++
		transCount := binary.LittleEndian.Uint32(data[off:])
		off += 4
		if id >= statesCount {
			return nil, fmt.Errorf("compact: state id %d out of range", id)
		}
		edges := make([]transitionRec, transCount)
		for j := uint32(0); j < transCount; j++ {
			if off+8 > len(data) {
				return nil, fmt.Errorf("compact: truncated state %d transition %d", i, j)
			}
			label := binary.LittleEndian.Uint32(data[off:])
			target := binary.LittleEndian.Uint32(data[off+4:])
			off += 8
			edges[j] = transitionRec{label: label, target: target}
		}
		all[id] = parsed{id: id, final: final, edges: edges}
	}

	totalTrans := 0
	for _, p := range all {
		totalTrans += len(p.edges)
	}
	a.transitions = make([]transitionRec, 0, totalTrans)
	for id, p := range all {
		a.states[id] = stateRec{
			final:      p.final,
			transStart: int32(len(a.transitions)),
			transCount: int32(len(p.edges)),
		}
		a.transitions = append(a.transitions, p.edges...)
	}
	return a, nil
}

// LoadFile mmaps path and parses it as an automat.save file. The returned
// Automaton owns the mapping; call Close when done.
func LoadFile(path string) (*Automaton, error) {
	mapped, err := blobio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("compact: %w", err)
	}
	a, err := Load(mapped.Bytes())
	if err != nil {
		mapped.Close()
		return nil, err
	}
	a.mapped = mapped
	return a, nil
}

// Close releases the mmap backing this automaton, if any.
func (a *Automaton) Close() error {
	if a.mapped == nil {
		return nil
	}
	return a.mapped.Close()
}

// StatesCount returns the number of states.
func (a *Automaton) StatesCount() int { return len(a.states) }

// findTransition performs a binary search for label among state idx's
// transitions, which are sorted ascending by label (spec.md §4.3).
func (a *Automaton) findTransition(idx uint32, label rune) (uint32, bool) {
	rec := a.states[idx]
	lbl := uint32(label)
	edges := a.transitions[rec.transStart : rec.transStart+rec.transCount]
	lo, hi := 0, len(edges)
	for lo < hi {
		mid := (lo + hi) / 2
		if edges[mid].label < lbl {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(edges) && edges[lo].label == lbl {
		return edges[lo].target, true
	}
	return 0, false
}

// CommonPrefix walks word from the initial state (id 0), returning the
// matched length and the final reached state id.
func (a *Automaton) CommonPrefix(word []rune) (matched int, lastState uint32) {
	cur := uint32(0)
	for i, r := range word {
		next, ok := a.findTransition(cur, r)
		if !ok {
			return i, cur
		}
		cur = next
	}
	return len(word), cur
}

// MiniCommonPrefixSize returns how many trailing characters of word (i.e. of
// reversedWord read from the start) the automaton recognizes starting from
// the initial state — used for per-language longest-match detection
// (spec.md §4.3, §4.6).
func (a *Automaton) MiniCommonPrefixSize(reversedWord []rune) int {
	n, _ := a.CommonPrefix(reversedWord)
	return n
}

// IsFinal reports whether state id is an accepting state.
func (a *Automaton) IsFinal(id uint32) bool {
	return a.states[id].final
}
