package dyn

// Set holds unique values in insertion order. Membership uses same-value-zero
// equality: numbers compare numerically with NaN equal to itself, composites
// compare by identity.
type Set struct {
	entries []Value
}

func newSet() *Set { return &Set{} }

func (s *Set) Len() int { return len(s.entries) }

func (s *Set) index(v Value) int {
	for i, e := range s.entries {
		if SameValueZero(e, v) {
			return i
		}
	}
	return -1
}

// Add appends v unless an equal member is already present. It reports
// whether the set grew.
func (s *Set) Add(v Value) bool {
	if s.index(v) >= 0 {
		return false
	}
	s.entries = append(s.entries, v)
	return true
}

func (s *Set) Has(v Value) bool { return s.index(v) >= 0 }

func (s *Set) Delete(v Value) bool {
	i := s.index(v)
	if i < 0 {
		return false
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return true
}

// Values returns the members in insertion order.
func (s *Set) Values() []Value {
	out := make([]Value, len(s.entries))
	copy(out, s.entries)
	return out
}
