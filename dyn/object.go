package dyn

import "fmt"

// Getter and Setter receive the object they are invoked on, so an accessor
// pair copied onto another object reads and writes that object's state.
type Getter func(self *Object) (Value, error)

type Setter func(self *Object, v Value) error

// Property is one slot in an object's table: either a data property holding
// a value, or an accessor property holding a getter/setter pair. A property
// with a non-nil Get or Set is an accessor; its Value is ignored.
type Property struct {
	Value      Value
	Get        Getter
	Set        Setter
	Enumerable bool
}

func (p Property) IsAccessor() bool { return p.Get != nil || p.Set != nil }

// Object is a keyed property table with optional prototype link. String keys
// and symbol keys live in separate tables, each in insertion order.
type Object struct {
	proto    *Object
	order    []string
	props    map[string]Property
	symOrder []*Symbol
	symProps map[*Symbol]Property
}

func newObject(proto *Object) *Object {
	return &Object{
		proto:    proto,
		props:    make(map[string]Property),
		symProps: make(map[*Symbol]Property),
	}
}

func (o *Object) Proto() *Object { return o.proto }

// Define installs a property descriptor under key without consulting
// accessors. A new key is appended to the enumeration order; redefining an
// existing key keeps its position.
func (o *Object) Define(key string, p Property) {
	if _, ok := o.props[key]; !ok {
		o.order = append(o.order, key)
	}
	o.props[key] = p
}

func (o *Object) DefineSym(sym *Symbol, p Property) {
	if _, ok := o.symProps[sym]; !ok {
		o.symOrder = append(o.symOrder, sym)
	}
	o.symProps[sym] = p
}

// GetOwn returns the descriptor stored directly on o, ignoring the prototype
// chain and the enumerable flag.
func (o *Object) GetOwn(key string) (Property, bool) {
	p, ok := o.props[key]
	return p, ok
}

func (o *Object) GetOwnSym(sym *Symbol) (Property, bool) {
	p, ok := o.symProps[sym]
	return p, ok
}

// Get reads key through the prototype chain. Accessor properties invoke
// their getter with o as the receiver; a missing key or a setter-only
// accessor yields undefined.
func (o *Object) Get(key string) (Value, error) {
	for cur := o; cur != nil; cur = cur.proto {
		p, ok := cur.props[key]
		if !ok {
			continue
		}
		if p.IsAccessor() {
			if p.Get == nil {
				return NewUndefined(), nil
			}
			return p.Get(o)
		}
		return p.Value, nil
	}
	return NewUndefined(), nil
}

func (o *Object) GetSym(sym *Symbol) (Value, error) {
	for cur := o; cur != nil; cur = cur.proto {
		p, ok := cur.symProps[sym]
		if !ok {
			continue
		}
		if p.IsAccessor() {
			if p.Get == nil {
				return NewUndefined(), nil
			}
			return p.Get(o)
		}
		return p.Value, nil
	}
	return NewUndefined(), nil
}

// Set assigns key through the prototype chain. An accessor found on the
// chain is invoked with o as the receiver; an inherited data property is
// shadowed by a new own property; otherwise an enumerable data property is
// created or updated on o.
func (o *Object) Set(key string, v Value) error {
	for cur := o; cur != nil; cur = cur.proto {
		p, ok := cur.props[key]
		if !ok {
			continue
		}
		if p.IsAccessor() {
			if p.Set == nil {
				return fmt.Errorf("property %q has no setter", key)
			}
			return p.Set(o, v)
		}
		if cur == o {
			p.Value = v
			o.props[key] = p
			return nil
		}
		break
	}
	o.Define(key, Property{Value: v, Enumerable: true})
	return nil
}

func (o *Object) SetSym(sym *Symbol, v Value) error {
	for cur := o; cur != nil; cur = cur.proto {
		p, ok := cur.symProps[sym]
		if !ok {
			continue
		}
		if p.IsAccessor() {
			if p.Set == nil {
				return fmt.Errorf("symbol property %q has no setter", sym.Description())
			}
			return p.Set(o, v)
		}
		if cur == o {
			p.Value = v
			o.symProps[sym] = p
			return nil
		}
		break
	}
	o.DefineSym(sym, Property{Value: v, Enumerable: true})
	return nil
}

func (o *Object) HasOwn(key string) bool {
	_, ok := o.props[key]
	return ok
}

func (o *Object) Has(key string) bool {
	for cur := o; cur != nil; cur = cur.proto {
		if _, ok := cur.props[key]; ok {
			return true
		}
	}
	return false
}

func (o *Object) Delete(key string) bool {
	if _, ok := o.props[key]; !ok {
		return false
	}
	delete(o.props, key)
	for i, name := range o.order {
		if name == key {
			o.order = append(o.order[:i], o.order[i+1:]...)
			break
		}
	}
	return true
}

func (o *Object) DeleteSym(sym *Symbol) bool {
	if _, ok := o.symProps[sym]; !ok {
		return false
	}
	delete(o.symProps, sym)
	for i, s := range o.symOrder {
		if s == sym {
			o.symOrder = append(o.symOrder[:i], o.symOrder[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the own enumerable string keys in insertion order.
func (o *Object) Keys() []string {
	out := make([]string, 0, len(o.order))
	for _, name := range o.order {
		if o.props[name].Enumerable {
			out = append(out, name)
		}
	}
	return out
}

// SymbolKeys returns the own enumerable symbol keys in insertion order.
func (o *Object) SymbolKeys() []*Symbol {
	out := make([]*Symbol, 0, len(o.symOrder))
	for _, sym := range o.symOrder {
		if o.symProps[sym].Enumerable {
			out = append(out, sym)
		}
	}
	return out
}

// Len counts own string-keyed properties, enumerable or not.
func (o *Object) Len() int { return len(o.props) }

// InstanceOf reports whether proto appears on o's prototype chain.
func (o *Object) InstanceOf(proto *Object) bool {
	if proto == nil {
		return false
	}
	for cur := o.proto; cur != nil; cur = cur.proto {
		if cur == proto {
			return true
		}
	}
	return false
}
