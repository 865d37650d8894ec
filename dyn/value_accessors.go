package dyn

import "math/big"

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsUndefined() bool { return v.kind == KindUndefined }

func (v Value) IsNull() bool { return v.kind == KindNull }

func (v Value) IsNullish() bool { return v.kind == KindUndefined || v.kind == KindNull }

func (v Value) Bool() bool {
	if v.kind == KindBool {
		return v.data.(bool)
	}
	return false
}

func (v Value) Int() int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		return int64(v.data.(float64))
	default:
		return 0
	}
}

func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat:
		return v.data.(float64)
	case KindInt:
		return float64(v.data.(int64))
	default:
		return 0
	}
}

func (v Value) BigInt() *big.Int {
	if v.kind != KindBigInt {
		return nil
	}
	return v.data.(*big.Int)
}

func (v Value) Symbol() *Symbol {
	if v.kind != KindSymbol {
		return nil
	}
	return v.data.(*Symbol)
}

func (v Value) Array() *Array {
	if v.kind != KindArray {
		return nil
	}
	return v.data.(*Array)
}

func (v Value) Object() *Object {
	if v.kind != KindObject {
		return nil
	}
	return v.data.(*Object)
}

func (v Value) Set() *Set {
	if v.kind != KindSet {
		return nil
	}
	return v.data.(*Set)
}

func (v Value) Map() *Map {
	if v.kind != KindMap {
		return nil
	}
	return v.data.(*Map)
}

func (v Value) Date() *Date {
	if v.kind != KindDate {
		return nil
	}
	return v.data.(*Date)
}

func (v Value) Regex() *Regex {
	if v.kind != KindRegex {
		return nil
	}
	return v.data.(*Regex)
}

func (v Value) Buffer() *Buffer {
	if v.kind != KindBuffer {
		return nil
	}
	return v.data.(*Buffer)
}

func (v Value) View() *TypedView {
	if v.kind != KindView {
		return nil
	}
	return v.data.(*TypedView)
}

func (v Value) Func() *Func {
	if v.kind != KindFunc {
		return nil
	}
	return v.data.(*Func)
}

func (v Value) Foreign() any {
	if v.kind != KindForeign {
		return nil
	}
	return v.data
}
