package dyn

// Pick builds a plain object holding the named own enumerable string-keyed
// properties of v, in the order the keys are given. Data values are shared,
// not cloned; accessor pairs are carried over. A non-object v yields an
// empty object.
func Pick(v Value, keys ...string) Value {
	out := newObject(nil)
	if src := v.Object(); src != nil {
		for _, key := range keys {
			if p, ok := src.props[key]; ok && p.Enumerable {
				out.Define(key, p)
			}
		}
	}
	return out.Value()
}

// Omit builds a plain object holding every own enumerable property of v
// except the named string keys. Symbol-keyed properties are always carried.
func Omit(v Value, keys ...string) Value {
	out := newObject(nil)
	src := v.Object()
	if src == nil {
		return out.Value()
	}
	drop := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		drop[key] = struct{}{}
	}
	for _, key := range src.order {
		p := src.props[key]
		if !p.Enumerable {
			continue
		}
		if _, skip := drop[key]; skip {
			continue
		}
		out.Define(key, p)
	}
	for _, sym := range src.symOrder {
		if p := src.symProps[sym]; p.Enumerable {
			out.DefineSym(sym, p)
		}
	}
	return out.Value()
}

// Merge deep-merges two plain objects into a new one without mutating
// either: enumerable properties of src overlay those of dst, and where both
// sides hold plain objects the merge recurses. Any other value, arrays
// included, replaces wholesale and is shared, not cloned. When either input
// is not a plain object, src wins unless it is undefined. Callers wanting an
// isolated result compose with Clone.
func Merge(dst, src Value) Value {
	m := &merger{seen: make(map[mergePair]*Object)}
	return m.merge(dst, src)
}

type mergePair struct {
	dst, src *Object
}

// merger memoizes merged object pairs so shared substructure merges once
// and cyclic inputs terminate.
type merger struct {
	seen map[mergePair]*Object
}

func (m *merger) merge(dst, src Value) Value {
	if !IsPlainObject(dst) || !IsPlainObject(src) {
		if src.kind == KindUndefined {
			return dst
		}
		return src
	}
	do, so := dst.Object(), src.Object()
	pair := mergePair{dst: do, src: so}
	if out, ok := m.seen[pair]; ok {
		return out.Value()
	}
	out := newObject(nil)
	m.seen[pair] = out
	for _, key := range do.order {
		if p := do.props[key]; p.Enumerable {
			out.Define(key, p)
		}
	}
	for _, sym := range do.symOrder {
		if p := do.symProps[sym]; p.Enumerable {
			out.DefineSym(sym, p)
		}
	}
	for _, key := range so.order {
		sp := so.props[key]
		if !sp.Enumerable {
			continue
		}
		if sp.IsAccessor() {
			out.Define(key, sp)
			continue
		}
		if dp, ok := out.props[key]; ok && !dp.IsAccessor() && IsPlainObject(dp.Value) && IsPlainObject(sp.Value) {
			out.Define(key, Property{Value: m.merge(dp.Value, sp.Value), Enumerable: true})
			continue
		}
		out.Define(key, Property{Value: sp.Value, Enumerable: true})
	}
	for _, sym := range so.symOrder {
		if p := so.symProps[sym]; p.Enumerable {
			out.DefineSym(sym, p)
		}
	}
	return out.Value()
}
