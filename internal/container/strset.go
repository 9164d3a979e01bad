package container

import "sort"

// StringSet is a sorted-unique set of strings backed by a DynArray, kept
// ordered by the same asymmetric comparison the original C implementation
// used: inserting s is compared against an existing entry e via
// strncmp(s, e, len(s)) — i.e. only the first len(s) bytes of e are compared
// against the whole of s. If that comparison is zero, s is treated as already
// present even when e is strictly longer than s (e.g. inserting "a" after "ab"
// is already in the set reports "already present").
//
// Per spec.md §9 (first Open Question), this asymmetry is preserved exactly
// as observed rather than "fixed" to a symmetric strcmp: DESIGN.md records the
// decision to keep prefix-as-duplicate semantics.
type StringSet struct {
	items *DynArray[string]
}

// NewStringSet returns an empty set.
func NewStringSet() *StringSet {
	return &StringSet{items: NewDynArray[string](8)}
}

// cmpPrefix implements strncmp(s, item, len(s)).
func cmpPrefix(s, item string) int {
	n := len(s)
	if len(item) < n {
		n = len(item)
	}
	for i := 0; i < n; i++ {
		if s[i] != item[i] {
			if s[i] < item[i] {
				return -1
			}
			return 1
		}
	}
	if len(s) <= len(item) {
		return 0
	}
	return 1
}

// position finds the insertion index for s and whether an equal (per
// cmpPrefix) entry already exists.
func (set *StringSet) position(s string) (int, bool) {
	n := set.items.Len()
	i := sort.Search(n, func(i int) bool {
		item, _ := set.items.At(i)
		return cmpPrefix(s, item) <= 0
	})
	if i < n {
		item, _ := set.items.At(i)
		if cmpPrefix(s, item) == 0 {
			return i, true
		}
	}
	return i, false
}

// Add inserts s if not already present (per the prefix-comparison rule
// above). Returns false when s was already considered present.
func (set *StringSet) Add(s string) bool {
	i, found := set.position(s)
	if found {
		return false
	}
	set.items.Insert(i, s)
	return true
}

// Len returns the number of entries.
func (set *StringSet) Len() int { return set.items.Len() }

// Items returns the sorted entries as a plain slice (not a copy of the
// underlying storage).
func (set *StringSet) Items() []string { return set.items.Slice() }

// Join concatenates all entries with sep, optionally with a trailing sep.
func (set *StringSet) Join(sep string, trailing bool) string {
	b := NewStringBuilder()
	set.items.Iterate(func(i int, item string) bool {
		if i > 0 {
			b.Append(sep)
		}
		b.Append(item)
		return true
	})
	if trailing && set.items.Len() > 0 {
		b.Append(sep)
	}
	return b.String()
}
