package dyn

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"time"
)

// FromJSON decodes a single JSON document into a value. Numbers become ints
// when they fit in int64 and floats otherwise; objects become plain objects
// with keys in document order.
func FromJSON(data []byte) (Value, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := decodeJSONValue(dec)
	if err != nil {
		return NewUndefined(), err
	}
	if dec.More() {
		return NewUndefined(), fmt.Errorf("invalid JSON: trailing data")
	}
	return v, nil
}

func decodeJSONValue(dec *json.Decoder) (Value, error) {
	tok, err := dec.Token()
	if err == io.EOF {
		return NewUndefined(), fmt.Errorf("invalid JSON: empty input")
	}
	if err != nil {
		return NewUndefined(), fmt.Errorf("invalid JSON: %v", err)
	}
	return decodeJSONToken(dec, tok)
}

func decodeJSONToken(dec *json.Decoder, tok json.Token) (Value, error) {
	switch t := tok.(type) {
	case nil:
		return NewNull(), nil
	case bool:
		return NewBool(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return NewInt(i), nil
		}
		f, err := t.Float64()
		if err != nil {
			return NewUndefined(), fmt.Errorf("invalid JSON number %q", t.String())
		}
		return NewFloat(f), nil
	case json.Delim:
		switch t {
		case '[':
			out := NewArray()
			arr := out.Array()
			for dec.More() {
				elem, err := decodeJSONValue(dec)
				if err != nil {
					return NewUndefined(), err
				}
				arr.Append(elem)
			}
			if _, err := dec.Token(); err != nil {
				return NewUndefined(), fmt.Errorf("invalid JSON: %v", err)
			}
			return out, nil
		case '{':
			out := NewObject()
			obj := out.Object()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return NewUndefined(), fmt.Errorf("invalid JSON: %v", err)
				}
				key, ok := keyTok.(string)
				if !ok {
					return NewUndefined(), fmt.Errorf("invalid JSON object key %v", keyTok)
				}
				elem, err := decodeJSONValue(dec)
				if err != nil {
					return NewUndefined(), err
				}
				obj.Define(key, Property{Value: elem, Enumerable: true})
			}
			if _, err := dec.Token(); err != nil {
				return NewUndefined(), fmt.Errorf("invalid JSON: %v", err)
			}
			return out, nil
		}
	}
	return NewUndefined(), fmt.Errorf("invalid JSON token %v", tok)
}

// ToJSON encodes v as JSON. Objects encode their enumerable string-keyed
// properties in insertion order, reading accessor properties through their
// getters; symbol-keyed properties are dropped. Sets encode as arrays; maps
// encode as objects and require string keys. Dates encode as RFC 3339
// strings. Undefined vanishes from objects and becomes null in arrays, as
// do holes and non-finite floats. Cyclic values are an error, as are kinds
// with no JSON form: big integers, symbols, regex, buffers, views,
// functions, and foreign values.
func ToJSON(v Value) ([]byte, error) {
	tree, err := jsonTree(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(tree)
}

// ToJSONIndent is ToJSON with indented output.
func ToJSONIndent(v Value, prefix, indent string) ([]byte, error) {
	tree, err := jsonTree(v)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(tree, prefix, indent)
}

func jsonTree(v Value) (any, error) {
	enc := &jsonEncoder{onPath: make(map[any]struct{})}
	tree, skip, err := enc.encode(v)
	if err != nil {
		return nil, err
	}
	if skip {
		return nil, fmt.Errorf("cannot encode undefined as JSON")
	}
	return tree, nil
}

type jsonEncoder struct {
	onPath map[any]struct{}
}

func (e *jsonEncoder) enter(ref any) error {
	if _, ok := e.onPath[ref]; ok {
		return fmt.Errorf("cannot encode cyclic value as JSON")
	}
	e.onPath[ref] = struct{}{}
	return nil
}

func (e *jsonEncoder) leave(ref any) { delete(e.onPath, ref) }

// encode returns the marshal tree for v, or skip for undefined so the
// caller can drop the property or emit null for the array slot.
func (e *jsonEncoder) encode(v Value) (tree any, skip bool, err error) {
	switch v.kind {
	case KindUndefined:
		return nil, true, nil
	case KindNull:
		return nil, false, nil
	case KindBool:
		return v.data.(bool), false, nil
	case KindInt:
		return v.data.(int64), false, nil
	case KindFloat:
		f := v.data.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, false, nil
		}
		return f, false, nil
	case KindString:
		return v.data.(string), false, nil
	case KindDate:
		return v.data.(*Date).t.UTC().Format(time.RFC3339Nano), false, nil
	case KindArray:
		a := v.data.(*Array)
		if err := e.enter(a); err != nil {
			return nil, false, err
		}
		defer e.leave(a)
		out := make([]any, a.length)
		for i := 0; i < a.length; i++ {
			cell, ok := a.cells[i]
			if !ok {
				continue
			}
			item, skip, err := e.encode(cell)
			if err != nil {
				return nil, false, err
			}
			if skip {
				continue
			}
			out[i] = item
		}
		return out, false, nil
	case KindObject:
		o := v.data.(*Object)
		if err := e.enter(o); err != nil {
			return nil, false, err
		}
		defer e.leave(o)
		out := &orderedJSON{}
		for _, key := range o.order {
			p := o.props[key]
			if !p.Enumerable {
				continue
			}
			val := p.Value
			if p.IsAccessor() {
				got, err := o.Get(key)
				if err != nil {
					return nil, false, err
				}
				val = got
			}
			item, skip, err := e.encode(val)
			if err != nil {
				return nil, false, err
			}
			if skip {
				continue
			}
			out.add(key, item)
		}
		return out, false, nil
	case KindSet:
		s := v.data.(*Set)
		if err := e.enter(s); err != nil {
			return nil, false, err
		}
		defer e.leave(s)
		out := make([]any, 0, len(s.entries))
		for _, elem := range s.entries {
			item, skip, err := e.encode(elem)
			if err != nil {
				return nil, false, err
			}
			if skip {
				item = nil
			}
			out = append(out, item)
		}
		return out, false, nil
	case KindMap:
		m := v.data.(*Map)
		if err := e.enter(m); err != nil {
			return nil, false, err
		}
		defer e.leave(m)
		out := &orderedJSON{}
		for i := range m.keys {
			if m.keys[i].Kind() != KindString {
				return nil, false, fmt.Errorf("cannot encode map with %s key as JSON", m.keys[i].Kind())
			}
			item, skip, err := e.encode(m.vals[i])
			if err != nil {
				return nil, false, err
			}
			if skip {
				continue
			}
			out.add(m.keys[i].data.(string), item)
		}
		return out, false, nil
	default:
		return nil, false, fmt.Errorf("cannot encode %s as JSON", v.Kind())
	}
}

// orderedJSON marshals object properties in insertion order, where a plain
// map would marshal sorted.
type orderedJSON struct {
	keys []string
	vals []any
}

func (o *orderedJSON) add(key string, val any) {
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, val)
}

func (o *orderedJSON) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(o.vals[i])
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
