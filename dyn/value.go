package dyn

type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindInt
	KindFloat
	KindBigInt
	KindString
	KindSymbol
	KindArray
	KindObject
	KindSet
	KindMap
	KindDate
	KindRegex
	KindBuffer
	KindView
	KindFunc
	KindForeign
)

type Value struct {
	kind Kind
	data any
}

// Symbol is an immutable identity token. Two symbols with the same
// description are still distinct values; identity is the pointer.
type Symbol struct {
	desc string
}

func (s *Symbol) Description() string { return s.desc }

type Func struct {
	Name string
	Fn   FuncImpl
}

type FuncImpl func(args []Value) (Value, error)

// ref returns the payload pointer for kinds that have node identity, nil
// otherwise. Composite payloads are pointers, so comparing refs compares
// identity.
func (v Value) ref() any {
	switch v.kind {
	case KindArray, KindObject, KindSet, KindMap, KindDate, KindRegex, KindBuffer, KindView:
		return v.data
	default:
		return nil
	}
}
