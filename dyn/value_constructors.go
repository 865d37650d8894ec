package dyn

import (
	"math/big"
	"time"
)

func NewUndefined() Value      { return Value{} }
func NewNull() Value           { return Value{kind: KindNull} }
func NewBool(b bool) Value     { return Value{kind: KindBool, data: b} }
func NewInt(i int64) Value     { return Value{kind: KindInt, data: i} }
func NewFloat(f float64) Value { return Value{kind: KindFloat, data: f} }
func NewString(s string) Value { return Value{kind: KindString, data: s} }

func NewBigInt(i *big.Int) Value {
	if i == nil {
		i = new(big.Int)
	}
	return Value{kind: KindBigInt, data: i}
}

func NewSymbol(desc string) Value {
	return Value{kind: KindSymbol, data: &Symbol{desc: desc}}
}

func NewArray(elems ...Value) Value {
	a := newArray(len(elems))
	for i, e := range elems {
		a.cells[i] = e
	}
	return Value{kind: KindArray, data: a}
}

// NewArrayLen builds an array of length n with every index unset.
func NewArrayLen(n int) Value {
	if n < 0 {
		n = 0
	}
	return Value{kind: KindArray, data: newArray(n)}
}

func NewObject() Value { return Value{kind: KindObject, data: newObject(nil)} }

// NewInstance builds an object whose prototype chain starts at proto.
func NewInstance(proto *Object) Value {
	return Value{kind: KindObject, data: newObject(proto)}
}

func NewSet(elems ...Value) Value {
	s := newSet()
	for _, e := range elems {
		s.Add(e)
	}
	return Value{kind: KindSet, data: s}
}

func NewMap() Value { return Value{kind: KindMap, data: newValueMap()} }

func NewDate(t time.Time) Value { return Value{kind: KindDate, data: &Date{t: t}} }

func NewRegex(source, flags string) Value {
	return Value{kind: KindRegex, data: &Regex{source: source, flags: flags}}
}

func NewBuffer(n int) Value {
	if n < 0 {
		n = 0
	}
	return Value{kind: KindBuffer, data: newBuffer(n)}
}

func NewResizableBuffer(n, max int) Value {
	if n < 0 {
		n = 0
	}
	return Value{kind: KindBuffer, data: newResizableBuffer(n, max)}
}

func NewBufferBytes(b []byte) Value {
	return Value{kind: KindBuffer, data: newBufferBytes(b)}
}

func NewView(elem ElemType, buf *Buffer, byteOffset, count int) (Value, error) {
	tv, err := newTypedView(elem, buf, byteOffset, count)
	if err != nil {
		return NewUndefined(), err
	}
	return Value{kind: KindView, data: tv}, nil
}

// MustView constructs a view or panics on bad geometry.
func MustView(elem ElemType, buf *Buffer, byteOffset, count int) Value {
	v, err := NewView(elem, buf, byteOffset, count)
	if err != nil {
		panic(err)
	}
	return v
}

func NewFunc(name string, fn FuncImpl) Value {
	return Value{kind: KindFunc, data: &Func{Name: name, Fn: fn}}
}

func NewForeign(x any) Value { return Value{kind: KindForeign, data: x} }

// Value re-wraps a payload obtained from an accessor, keeping its identity.

func (a *Array) Value() Value      { return Value{kind: KindArray, data: a} }
func (o *Object) Value() Value     { return Value{kind: KindObject, data: o} }
func (s *Set) Value() Value        { return Value{kind: KindSet, data: s} }
func (m *Map) Value() Value        { return Value{kind: KindMap, data: m} }
func (d *Date) Value() Value       { return Value{kind: KindDate, data: d} }
func (r *Regex) Value() Value      { return Value{kind: KindRegex, data: r} }
func (b *Buffer) Value() Value     { return Value{kind: KindBuffer, data: b} }
func (tv *TypedView) Value() Value { return Value{kind: KindView, data: tv} }
