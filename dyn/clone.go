package dyn

import (
	"fmt"
	"reflect"
)

// Capabilities supplies the host probes the clone engine consults on buffer
// paths. The zero value resolves to total defaults: buffers are available
// and a value is a view exactly when its kind says so. Probe errors are
// never caught; they surface unchanged from Clone.
type Capabilities struct {
	BuffersAvailable func() (bool, error)
	IsBufferView     func(Value) (bool, error)
}

func (c Capabilities) withDefaults() Capabilities {
	if c.BuffersAvailable == nil {
		c.BuffersAvailable = func() (bool, error) { return true, nil }
	}
	if c.IsBufferView == nil {
		c.IsBufferView = func(v Value) (bool, error) { return v.Kind() == KindView, nil }
	}
	return c
}

// Clone produces a deep copy of v: structurally equal, sharing no composite
// node with the input. Primitives pass through unchanged; symbols and big
// integers are shared by reference as immutable tokens. Cycles and shared
// substructure are reproduced exactly: two paths reaching one node in the
// input reach one node in the clone. The input graph is never mutated.
func Clone(v Value) (Value, error) { return CloneWith(v, Capabilities{}) }

// CloneWith is Clone with explicit host capabilities.
func CloneWith(v Value, caps Capabilities) (Value, error) {
	c := &cloner{caps: caps.withDefaults(), refs: make(map[any]Value)}
	return c.clone(v)
}

// cloner carries the visited table for one top-level call, mapping original
// node identity to its finished-or-in-progress clone. Every call owns its
// own table, so concurrent clones never interfere.
type cloner struct {
	caps Capabilities
	refs map[any]Value
}

func (c *cloner) clone(v Value) (Value, error) {
	if IsPrimitive(v) {
		return v, nil
	}
	if ref := v.ref(); ref != nil {
		if prev, ok := c.refs[ref]; ok {
			return prev, nil
		}
	}
	switch v.kind {
	case KindArray:
		return c.cloneArray(v.data.(*Array))
	case KindDate:
		src := v.data.(*Date)
		out := NewDate(src.t)
		c.refs[src] = out
		return out, nil
	case KindRegex:
		src := v.data.(*Regex)
		out := NewRegex(src.source, src.flags)
		c.refs[src] = out
		return out, nil
	case KindBuffer:
		src := v.data.(*Buffer)
		out := Value{kind: KindBuffer, data: src.Clone()}
		c.refs[src] = out
		return out, nil
	case KindView:
		return c.cloneView(v)
	case KindSet:
		return c.cloneSet(v.data.(*Set))
	case KindMap:
		return c.cloneMap(v.data.(*Map))
	case KindObject:
		return c.cloneObject(v.data.(*Object))
	case KindForeign:
		if bl, ok := v.data.(BufferLike); ok {
			return c.cloneBufferLike(v.data, bl)
		}
		return v, nil
	default:
		// Functions and anything unrecognized pass through as-is.
		return v, nil
	}
}

// cloneArray preserves length and holes: only present indices are cloned.
// The empty target registers before any element recursion so cycles back to
// the array resolve to it.
func (c *cloner) cloneArray(src *Array) (Value, error) {
	dst := newArray(src.length)
	out := Value{kind: KindArray, data: dst}
	c.refs[src] = out
	for _, i := range src.Indices() {
		cloned, err := c.clone(src.cells[i])
		if err != nil {
			return NewUndefined(), err
		}
		dst.cells[i] = cloned
	}
	return out, nil
}

// cloneView copies exactly the window the view exposes into a tight new
// buffer; the clone's offset is zero. The host probe decides whether the
// value really is a view; a refusal demotes it to a plain byte copy.
func (c *cloner) cloneView(v Value) (Value, error) {
	isView, err := c.caps.IsBufferView(v)
	if err != nil {
		return NewUndefined(), err
	}
	src := v.data.(*TypedView)
	if !isView {
		return c.cloneWindowBytes(src)
	}
	window := src.ViewBytes()
	if window == nil {
		return NewUndefined(), fmt.Errorf("view window outside buffer")
	}
	dst := &TypedView{elem: src.elem, buf: newBufferBytes(window), count: src.count}
	out := Value{kind: KindView, data: dst}
	c.refs[src] = out
	return out, nil
}

func (c *cloner) cloneWindowBytes(src *TypedView) (Value, error) {
	avail, err := c.caps.BuffersAvailable()
	if err != nil {
		return NewUndefined(), err
	}
	window := src.ViewBytes()
	if window == nil {
		return NewUndefined(), fmt.Errorf("view window outside buffer")
	}
	var out Value
	if avail {
		out = NewBufferBytes(window)
	} else {
		cp := make([]byte, len(window))
		copy(cp, window)
		out = NewForeign(cp)
	}
	c.refs[src] = out
	return out, nil
}

func (c *cloner) cloneSet(src *Set) (Value, error) {
	dst := newSet()
	out := Value{kind: KindSet, data: dst}
	c.refs[src] = out
	for _, elem := range src.entries {
		cloned, err := c.clone(elem)
		if err != nil {
			return NewUndefined(), err
		}
		dst.Add(cloned)
	}
	return out, nil
}

// cloneMap clones values only; keys are shared, like object keys.
func (c *cloner) cloneMap(src *Map) (Value, error) {
	dst := newValueMap()
	out := Value{kind: KindMap, data: dst}
	c.refs[src] = out
	for i := range src.keys {
		cloned, err := c.clone(src.vals[i])
		if err != nil {
			return NewUndefined(), err
		}
		dst.Set(src.keys[i], cloned)
	}
	return out, nil
}

// cloneObject covers plain objects and prototyped instances alike: the
// clone shares the original's prototype pointer and receives the enumerable
// own properties, symbol keys first. Accessor pairs are copied verbatim,
// never invoked; non-enumerable properties are dropped.
func (c *cloner) cloneObject(src *Object) (Value, error) {
	dst := newObject(src.proto)
	out := Value{kind: KindObject, data: dst}
	c.refs[src] = out
	for _, sym := range src.symOrder {
		p := src.symProps[sym]
		if !p.Enumerable {
			continue
		}
		if p.IsAccessor() {
			dst.DefineSym(sym, Property{Get: p.Get, Set: p.Set, Enumerable: true})
			continue
		}
		cloned, err := c.clone(p.Value)
		if err != nil {
			return NewUndefined(), err
		}
		dst.DefineSym(sym, Property{Value: cloned, Enumerable: true})
	}
	for _, key := range src.order {
		p := src.props[key]
		if !p.Enumerable {
			continue
		}
		if p.IsAccessor() {
			dst.Define(key, Property{Get: p.Get, Set: p.Set, Enumerable: true})
			continue
		}
		cloned, err := c.clone(p.Value)
		if err != nil {
			return NewUndefined(), err
		}
		dst.Define(key, Property{Value: cloned, Enumerable: true})
	}
	return out, nil
}

// cloneBufferLike copies a duck-typed buffer carrier. A host value that
// knows how to rebuild itself wraps a copy of its storage; otherwise the
// copied storage stands in as a plain buffer. Without buffer support the
// copy degrades to a raw byte slice. Identity registration only works for
// comparable host types.
func (c *cloner) cloneBufferLike(host any, bl BufferLike) (Value, error) {
	identified := reflect.TypeOf(host).Comparable()
	if identified {
		if prev, ok := c.refs[host]; ok {
			return prev, nil
		}
	}
	avail, err := c.caps.BuffersAvailable()
	if err != nil {
		return NewUndefined(), err
	}
	var out Value
	if !avail {
		src := bl.ByteBuffer().Bytes()
		cp := make([]byte, len(src))
		copy(cp, src)
		out = NewForeign(cp)
	} else {
		copied := bl.ByteBuffer().Clone()
		if rc, ok := host.(BufferCloner); ok {
			out = NewForeign(rc.CloneWithBuffer(copied))
		} else {
			out = Value{kind: KindBuffer, data: copied}
		}
	}
	if identified {
		c.refs[host] = out
	}
	return out, nil
}
