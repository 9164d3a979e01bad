package container

import "container/list"

// FIFOMap is a capacity-bounded map keyed by string with FIFO-by-insertion
// eviction: once the map holds at least Limit entries, inserting a new key
// evicts the oldest-inserted entry first, invoking onEvict before the entry
// is dropped. Lookups never promote an entry's position — this is insertion
// order, not LRU-by-use — matching spec.md §3 ("FifoMap") and §5's ordering
// guarantee. Backed by the standard library's container/list the way the
// teacher reaches for stdlib containers instead of hand-rolling a linked
// list (see analyzer.go's use of sort/sync from the standard library
// throughout).
type FIFOMap[V any] struct {
	limit   int
	onEvict func(key string, value V)
	order   *list.List // front = oldest
	index   map[string]*list.Element
}

type fifoEntry[V any] struct {
	key   string
	value V
}

// NewFIFOMap returns a map that evicts its oldest entry once more than limit
// entries would otherwise be stored. onEvict may be nil.
func NewFIFOMap[V any](limit int, onEvict func(key string, value V)) *FIFOMap[V] {
	if limit < 1 {
		limit = 1
	}
	return &FIFOMap[V]{
		limit:   limit,
		onEvict: onEvict,
		order:   list.New(),
		index:   make(map[string]*list.Element, limit),
	}
}

// Get returns the value for key and whether it was present. Lookup does not
// affect eviction order.
func (m *FIFOMap[V]) Get(key string) (V, bool) {
	var zero V
	el, ok := m.index[key]
	if !ok {
		return zero, false
	}
	return el.Value.(*fifoEntry[V]).value, true
}

// Put inserts key/value, evicting the oldest entry first if the map is at
// capacity. Re-inserting an existing key updates its value without moving it
// in the eviction order (first insertion is what's tracked).
func (m *FIFOMap[V]) Put(key string, value V) {
	if el, ok := m.index[key]; ok {
		el.Value.(*fifoEntry[V]).value = value
		return
	}
	for len(m.index) >= m.limit {
		oldest := m.order.Front()
		if oldest == nil {
			break
		}
		entry := oldest.Value.(*fifoEntry[V])
		m.order.Remove(oldest)
		delete(m.index, entry.key)
		if m.onEvict != nil {
			m.onEvict(entry.key, entry.value)
		}
	}
	el := m.order.PushBack(&fifoEntry[V]{key: key, value: value})
	m.index[key] = el
}

// Len returns the number of stored entries.
func (m *FIFOMap[V]) Len() int { return len(m.index) }

// Keys returns keys newest-first, matching the teacher spec's "iteration
// follows insertion order (newest first)".
func (m *FIFOMap[V]) Keys() []string {
	keys := make([]string, 0, m.order.Len())
	for el := m.order.Back(); el != nil; el = el.Prev() {
		keys = append(keys, el.Value.(*fifoEntry[V]).key)
	}
	return keys
}
