package dyn

import (
	"fmt"
	"math"
	"math/big"
	"strings"
	"time"
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBigInt:
		return "bigint"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindSet:
		return "set"
	case KindMap:
		return "map"
	case KindDate:
		return "date"
	case KindRegex:
		return "regex"
	case KindBuffer:
		return "buffer"
	case KindView:
		return "view"
	case KindFunc:
		return "func"
	case KindForeign:
		return "foreign"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (v Value) String() string {
	return v.render(make(map[any]bool))
}

// render tracks the containers on the current path so cyclic values print a
// marker instead of recursing forever. Accessors are shown as markers, never
// invoked.
func (v Value) render(onPath map[any]bool) string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindInt:
		return fmt.Sprintf("%d", v.data.(int64))
	case KindFloat:
		return fmt.Sprintf("%g", v.data.(float64))
	case KindBigInt:
		return v.data.(*big.Int).String()
	case KindString:
		return v.data.(string)
	case KindSymbol:
		return fmt.Sprintf("Symbol(%s)", v.data.(*Symbol).desc)
	case KindDate:
		return v.data.(*Date).t.Format(time.RFC3339Nano)
	case KindRegex:
		r := v.data.(*Regex)
		return "/" + r.source + "/" + r.flags
	case KindBuffer:
		return fmt.Sprintf("<buffer %d>", v.data.(*Buffer).Len())
	case KindView:
		tv := v.data.(*TypedView)
		return fmt.Sprintf("<%s view %d>", tv.elem, tv.count)
	case KindFunc:
		return fmt.Sprintf("<func %s>", v.data.(*Func).Name)
	case KindForeign:
		return fmt.Sprintf("<foreign %T>", v.data)
	case KindArray:
		a := v.data.(*Array)
		if onPath[a] {
			return "<cycle>"
		}
		onPath[a] = true
		defer delete(onPath, a)
		parts := make([]string, a.length)
		for i := 0; i < a.length; i++ {
			if e, ok := a.cells[i]; ok {
				parts[i] = e.render(onPath)
			}
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindObject:
		o := v.data.(*Object)
		if onPath[o] {
			return "<cycle>"
		}
		onPath[o] = true
		defer delete(onPath, o)
		parts := make([]string, 0, len(o.order))
		for _, key := range o.Keys() {
			p := o.props[key]
			if p.IsAccessor() {
				parts = append(parts, key+": <accessor>")
				continue
			}
			parts = append(parts, fmt.Sprintf("%s: %s", key, p.Value.render(onPath)))
		}
		for _, sym := range o.SymbolKeys() {
			p := o.symProps[sym]
			if p.IsAccessor() {
				parts = append(parts, fmt.Sprintf("Symbol(%s): <accessor>", sym.desc))
				continue
			}
			parts = append(parts, fmt.Sprintf("Symbol(%s): %s", sym.desc, p.Value.render(onPath)))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindSet:
		s := v.data.(*Set)
		if onPath[s] {
			return "<cycle>"
		}
		onPath[s] = true
		defer delete(onPath, s)
		parts := make([]string, len(s.entries))
		for i, e := range s.entries {
			parts[i] = e.render(onPath)
		}
		return "Set{" + strings.Join(parts, ", ") + "}"
	case KindMap:
		m := v.data.(*Map)
		if onPath[m] {
			return "<cycle>"
		}
		onPath[m] = true
		defer delete(onPath, m)
		parts := make([]string, len(m.keys))
		for i := range m.keys {
			parts[i] = fmt.Sprintf("%s => %s", m.keys[i].render(onPath), m.vals[i].render(onPath))
		}
		return "Map{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

// Truthy follows dynamic-language coercion: undefined, null, false, zero,
// NaN, and the empty string are false; every container is true.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBool:
		return v.Bool()
	case KindInt:
		return v.data.(int64) != 0
	case KindFloat:
		f := v.data.(float64)
		return f != 0 && !math.IsNaN(f)
	case KindBigInt:
		return v.data.(*big.Int).Sign() != 0
	case KindString:
		return v.data.(string) != ""
	default:
		return true
	}
}

// Equal reports cycle-safe deep structural equality with other.
func (v Value) Equal(other Value) bool { return Equal(v, other) }
