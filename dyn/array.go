package dyn

import "sort"

// Array is an ordered sequence with hole semantics: indices inside the
// length range may be unset, and an unset index is distinguishable from one
// holding an explicit undefined.
type Array struct {
	length int
	cells  map[int]Value
}

func newArray(length int) *Array {
	return &Array{length: length, cells: make(map[int]Value)}
}

func (a *Array) Len() int { return a.length }

// SetLen grows or truncates the array. Truncation drops cells at or past the
// new length.
func (a *Array) SetLen(n int) {
	if n < 0 {
		n = 0
	}
	if n < a.length {
		for i := range a.cells {
			if i >= n {
				delete(a.cells, i)
			}
		}
	}
	a.length = n
}

func (a *Array) Has(i int) bool {
	_, ok := a.cells[i]
	return ok
}

// Get returns the element at i and whether the index is present. Holes and
// out-of-range indices report false with an undefined value.
func (a *Array) Get(i int) (Value, bool) {
	v, ok := a.cells[i]
	return v, ok
}

// Set stores v at i, extending the length when i lies past the end.
func (a *Array) Set(i int, v Value) {
	if i < 0 {
		return
	}
	a.cells[i] = v
	if i >= a.length {
		a.length = i + 1
	}
}

// Delete unsets index i, leaving a hole. The length is unchanged.
func (a *Array) Delete(i int) bool {
	if _, ok := a.cells[i]; !ok {
		return false
	}
	delete(a.cells, i)
	return true
}

func (a *Array) Append(v Value) {
	a.cells[a.length] = v
	a.length++
}

// Indices returns the present indices in ascending order.
func (a *Array) Indices() []int {
	out := make([]int, 0, len(a.cells))
	for i := range a.cells {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// Values returns the dense projection of the array: one slot per index up to
// the length, holes materialized as undefined.
func (a *Array) Values() []Value {
	out := make([]Value, a.length)
	for i, v := range a.cells {
		out[i] = v
	}
	return out
}

// Present reports how many indices hold a value.
func (a *Array) Present() int { return len(a.cells) }
