package dyn

import (
	"bytes"
	"math"
	"math/big"
	"reflect"
)

// SameValueZero is the membership equality used by Set and Map: ints and
// floats compare numerically with NaN equal to itself, big integers compare
// by value, strings and booleans by value, and everything with node identity
// by pointer.
func SameValueZero(a, b Value) bool {
	if isNumberKind(a.kind) && isNumberKind(b.kind) {
		return numberEqual(a, b)
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBool:
		return a.data.(bool) == b.data.(bool)
	case KindBigInt:
		return a.data.(*big.Int).Cmp(b.data.(*big.Int)) == 0
	case KindString:
		return a.data.(string) == b.data.(string)
	case KindForeign:
		return foreignIdentical(a.data, b.data)
	default:
		return a.data == b.data
	}
}

func isNumberKind(k Kind) bool { return k == KindInt || k == KindFloat }

func numberEqual(a, b Value) bool {
	if a.kind == KindInt && b.kind == KindInt {
		return a.data.(int64) == b.data.(int64)
	}
	fa, fb := a.Float(), b.Float()
	if math.IsNaN(fa) && math.IsNaN(fb) {
		return true
	}
	return fa == fb
}

func foreignIdentical(a, b any) bool {
	if a == nil || b == nil {
		return a == b
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// Equal reports deep structural equality of two value graphs. A visited pair
// set makes comparison of cyclic graphs terminate: a pair of nodes already
// under comparison is assumed equal.
//
// Ints and floats compare numerically with NaN equal to NaN. Arrays must
// agree on length and hole layout. Objects must agree on prototype pointer
// and on enumerable own properties in insertion order; accessor properties
// compare by function identity and are never invoked. Sets and maps compare
// entry-wise in iteration order. Dates compare by timestamp, regex by source
// and flags, buffers by bytes and resizability, views by element type and
// window contents. Functions and foreign values compare by identity.
func Equal(a, b Value) bool {
	eq := &equality{seen: make(map[eqPair]struct{})}
	return eq.values(a, b)
}

type eqPair struct {
	a, b any
}

type equality struct {
	seen map[eqPair]struct{}
}

func (eq *equality) seenPair(a, b any) bool {
	p := eqPair{a: a, b: b}
	if _, ok := eq.seen[p]; ok {
		return true
	}
	eq.seen[p] = struct{}{}
	return false
}

func (eq *equality) values(a, b Value) bool {
	if isNumberKind(a.kind) && isNumberKind(b.kind) {
		return numberEqual(a, b)
	}
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull, KindBool, KindBigInt, KindString, KindSymbol, KindFunc, KindForeign:
		return SameValueZero(a, b)
	case KindDate:
		return a.data.(*Date).t.Equal(b.data.(*Date).t)
	case KindRegex:
		ra, rb := a.data.(*Regex), b.data.(*Regex)
		return ra.source == rb.source && ra.flags == rb.flags
	case KindBuffer:
		ba, bb := a.data.(*Buffer), b.data.(*Buffer)
		return ba.resizable == bb.resizable && ba.max == bb.max && bytes.Equal(ba.data, bb.data)
	case KindView:
		va, vb := a.data.(*TypedView), b.data.(*TypedView)
		return va.elem == vb.elem && va.count == vb.count && bytes.Equal(va.ViewBytes(), vb.ViewBytes())
	case KindArray:
		return eq.arrays(a.data.(*Array), b.data.(*Array))
	case KindObject:
		return eq.objects(a.data.(*Object), b.data.(*Object))
	case KindSet:
		return eq.sets(a.data.(*Set), b.data.(*Set))
	case KindMap:
		return eq.maps(a.data.(*Map), b.data.(*Map))
	default:
		return false
	}
}

func (eq *equality) arrays(x, y *Array) bool {
	if eq.seenPair(x, y) {
		return true
	}
	if x.length != y.length || len(x.cells) != len(y.cells) {
		return false
	}
	for i, xv := range x.cells {
		yv, ok := y.cells[i]
		if !ok || !eq.values(xv, yv) {
			return false
		}
	}
	return true
}

func (eq *equality) objects(x, y *Object) bool {
	if eq.seenPair(x, y) {
		return true
	}
	if x.proto != y.proto {
		return false
	}
	xk, yk := x.Keys(), y.Keys()
	if len(xk) != len(yk) {
		return false
	}
	for i, key := range xk {
		if key != yk[i] || !eq.props(x.props[key], y.props[key]) {
			return false
		}
	}
	xs, ys := x.SymbolKeys(), y.SymbolKeys()
	if len(xs) != len(ys) {
		return false
	}
	for i, sym := range xs {
		if sym != ys[i] || !eq.props(x.symProps[sym], y.symProps[sym]) {
			return false
		}
	}
	return true
}

func (eq *equality) props(xp, yp Property) bool {
	if xp.IsAccessor() || yp.IsAccessor() {
		return funcPtr(xp.Get) == funcPtr(yp.Get) && funcPtr(xp.Set) == funcPtr(yp.Set)
	}
	return eq.values(xp.Value, yp.Value)
}

func (eq *equality) sets(x, y *Set) bool {
	if eq.seenPair(x, y) {
		return true
	}
	if len(x.entries) != len(y.entries) {
		return false
	}
	for i := range x.entries {
		if !eq.values(x.entries[i], y.entries[i]) {
			return false
		}
	}
	return true
}

func (eq *equality) maps(x, y *Map) bool {
	if eq.seenPair(x, y) {
		return true
	}
	if len(x.keys) != len(y.keys) {
		return false
	}
	for i := range x.keys {
		if !eq.values(x.keys[i], y.keys[i]) || !eq.values(x.vals[i], y.vals[i]) {
			return false
		}
	}
	return true
}

func funcPtr(fn any) uintptr {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.IsNil() {
		return 0
	}
	return v.Pointer()
}
