package dyn

// Map holds key/value entries in insertion order. Keys may be any value and
// compare with same-value-zero equality, like Set members.
type Map struct {
	keys []Value
	vals []Value
}

type MapEntry struct {
	Key   Value
	Value Value
}

func newValueMap() *Map { return &Map{} }

func (m *Map) Len() int { return len(m.keys) }

func (m *Map) index(key Value) int {
	for i, k := range m.keys {
		if SameValueZero(k, key) {
			return i
		}
	}
	return -1
}

// Set stores value under key, updating in place when the key is present and
// appending a new entry otherwise.
func (m *Map) Set(key, value Value) {
	if i := m.index(key); i >= 0 {
		m.vals[i] = value
		return
	}
	m.keys = append(m.keys, key)
	m.vals = append(m.vals, value)
}

func (m *Map) Get(key Value) (Value, bool) {
	i := m.index(key)
	if i < 0 {
		return NewUndefined(), false
	}
	return m.vals[i], true
}

func (m *Map) Has(key Value) bool { return m.index(key) >= 0 }

func (m *Map) Delete(key Value) bool {
	i := m.index(key)
	if i < 0 {
		return false
	}
	m.keys = append(m.keys[:i], m.keys[i+1:]...)
	m.vals = append(m.vals[:i], m.vals[i+1:]...)
	return true
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []Value {
	out := make([]Value, len(m.keys))
	copy(out, m.keys)
	return out
}

// Entries returns the entries in insertion order.
func (m *Map) Entries() []MapEntry {
	out := make([]MapEntry, len(m.keys))
	for i := range m.keys {
		out[i] = MapEntry{Key: m.keys[i], Value: m.vals[i]}
	}
	return out
}
