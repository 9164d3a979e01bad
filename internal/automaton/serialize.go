package automaton

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"sort"
)

// renumber walks the insertion ring from the initial state and assigns
// contiguous ids starting at 0, returning id -> arena index.
func (a *Automaton) renumber() []int32 {
	order := make([]int32, 0, a.StatesCount())
	cur := a.initial
	var id int32
	for {
		a.states[cur].id = id
		id++
		order = append(order, cur)
		cur = a.states[cur].next
		if cur == a.initial {
			break
		}
	}
	return order
}

// Save serializes the automaton to w in the format fixed by spec.md §6
// ("automat.save"): a 4-byte state count, then per state (in renumbered ring
// order) an 8-byte size, 4-byte id, 1-byte final flag, 4-byte transition
// count, then (label uint32, target uint32) pairs sorted ascending by label.
func (a *Automaton) Save(w io.Writer) error {
	if !a.finalized {
		return fmt.Errorf("automaton: Save requires Finalize to have been called")
	}
	order := a.renumber()

	bw := bufio.NewWriterSize(w, 1<<16)
	if err := binary.Write(bw, binary.LittleEndian, uint32(len(order))); err != nil {
		return err
	}
	for _, idx := range order {
		s := &a.states[idx]
		ts := append([]transition(nil), s.transitions...)
		sort.Slice(ts, func(i, j int) bool { return ts[i].label < ts[j].label })

		var final uint8
		if s.isFinal() {
			final = 1
		}
		size := uint64(4 + 1 + 4 + len(ts)*8)
		if err := binary.Write(bw, binary.LittleEndian, size); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(s.id)); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, final); err != nil {
			return err
		}
		if err := binary.Write(bw, binary.LittleEndian, uint32(len(ts))); err != nil {
			return err
		}
		for _, t := range ts {
			if err := binary.Write(bw, binary.LittleEndian, uint32(t.label)); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, uint32(a.states[t.target].id)); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// SaveFile is a convenience wrapper writing the automaton to a path.
func (a *Automaton) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("automaton: create %s: %w", path, err)
	}
	defer f.Close()
	if err := a.Save(f); err != nil {
		return fmt.Errorf("automaton: save %s: %w", path, err)
	}
	return nil
}

// Load reads an automaton previously written by Save. Any short read aborts
// loading and returns a wrapped error; no partial automaton is returned
// (spec.md §7 "I/O-failure").
func Load(r io.Reader) (*Automaton, error) {
	br := bufio.NewReaderSize(r, 1<<16)
	var statesCount uint32
	if err := binary.Read(br, binary.LittleEndian, &statesCount); err != nil {
		return nil, fmt.Errorf("automaton: read header: %w", err)
	}

	type rawState struct {
		final bool
		edges []transition
	}
	raw := make([]rawState, statesCount)

	for i := uint32(0); i < statesCount; i++ {
		var size uint64
		if err := binary.Read(br, binary.LittleEndian, &size); err != nil {
			return nil, fmt.Errorf("automaton: read state %d size: %w", i, err)
		}
		var id, transCount uint32
		var final uint8
		if err := binary.Read(br, binary.LittleEndian, &id); err != nil {
			return nil, fmt.Errorf("automaton: read state %d id: %w", i, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &final); err != nil {
			return nil, fmt.Errorf("automaton: read state %d final flag: %w", i, err)
		}
		if err := binary.Read(br, binary.LittleEndian, &transCount); err != nil {
			return nil, fmt.Errorf("automaton: read state %d transition count: %w", i, err)
		}
		if int(id) >= len(raw) {
			return nil, fmt.Errorf("automaton: state id %d out of range", id)
		}
		edges := make([]transition, transCount)
		for j := uint32(0); j < transCount; j++ {
			var label, target uint32
			if err := binary.Read(br, binary.LittleEndian, &label); err != nil {
				return nil, fmt.Errorf("automaton: read state %d transition %d label: %w", i, j, err)
			}
			if err := binary.Read(br, binary.LittleEndian, &target); err != nil {
				return nil, fmt.Errorf("automaton: read state %d transition %d target: %w", i, j, err)
			}
			edges[j] = transition{label: rune(label), target: int32(target)}
		}
		raw[id] = rawState{final: final != 0, edges: edges}
	}

	a := &Automaton{finalized: true}
	a.states = make([]state, statesCount)
	for id := range raw {
		a.states[id] = state{id: int32(id)}
		if raw[id].final {
			a.states[id].flags |= stateFinal
		}
		a.states[id].flags |= stateRegistered
	}
	for id := range raw {
		a.states[id].transitions = raw[id].edges
	}
	// relink the ring in id order so StatesCount and Save walk every loaded
	// state.
	n := int32(len(a.states))
	for i := int32(0); i < n; i++ {
		a.states[i].next = (i + 1) % n
		a.states[i].prev = (i - 1 + n) % n
	}
	a.initial = 0
	a.nextID = n
	return a, nil
}

// LoadFile is a convenience wrapper reading an automaton from a path.
func LoadFile(path string) (*Automaton, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("automaton: open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
