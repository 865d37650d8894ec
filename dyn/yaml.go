package dyn

import (
	"encoding/base64"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FromYAML decodes a single YAML document into a value. Mappings with plain
// string keys become objects, any other mapping becomes a map value, and
// sequences become arrays, all in document order. Anchored nodes decode
// once, so aliases produce shared structure, recursive aliases included.
// Timestamps become dates, !!binary becomes a buffer, and integers too
// large for int64 become big integers.
func FromYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return NewUndefined(), fmt.Errorf("invalid YAML: %v", err)
	}
	if doc.Kind == 0 {
		return NewNull(), nil
	}
	d := &yamlDecoder{nodes: make(map[*yaml.Node]Value)}
	return d.decode(&doc)
}

// yamlDecoder memoizes decoded nodes by pointer; an alias resolves to its
// anchor's node, so the memo is what makes aliased structure shared. The
// container cases register their empty payload before filling it, which
// lets a recursive alias close a cycle.
type yamlDecoder struct {
	nodes map[*yaml.Node]Value
}

func (d *yamlDecoder) decode(node *yaml.Node) (Value, error) {
	if v, ok := d.nodes[node]; ok {
		return v, nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return NewNull(), nil
		}
		return d.decode(node.Content[0])
	case yaml.AliasNode:
		if node.Alias == nil {
			return NewUndefined(), fmt.Errorf("invalid YAML: dangling alias %q", node.Value)
		}
		return d.decode(node.Alias)
	case yaml.ScalarNode:
		v, err := d.scalar(node)
		if err != nil {
			return NewUndefined(), err
		}
		d.nodes[node] = v
		return v, nil
	case yaml.SequenceNode:
		out := NewArray()
		d.nodes[node] = out
		arr := out.Array()
		for _, item := range node.Content {
			elem, err := d.decode(item)
			if err != nil {
				return NewUndefined(), err
			}
			arr.Append(elem)
		}
		return out, nil
	case yaml.MappingNode:
		if stringKeyed(node) {
			out := NewObject()
			d.nodes[node] = out
			obj := out.Object()
			for i := 0; i+1 < len(node.Content); i += 2 {
				val, err := d.decode(node.Content[i+1])
				if err != nil {
					return NewUndefined(), err
				}
				obj.Define(node.Content[i].Value, Property{Value: val, Enumerable: true})
			}
			return out, nil
		}
		out := NewMap()
		d.nodes[node] = out
		m := out.Map()
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := d.decode(node.Content[i])
			if err != nil {
				return NewUndefined(), err
			}
			val, err := d.decode(node.Content[i+1])
			if err != nil {
				return NewUndefined(), err
			}
			m.Set(key, val)
		}
		return out, nil
	default:
		return NewUndefined(), fmt.Errorf("invalid YAML node kind %d", node.Kind)
	}
}

func stringKeyed(node *yaml.Node) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		if key.Kind != yaml.ScalarNode || key.Tag != "!!str" {
			return false
		}
	}
	return true
}

func (d *yamlDecoder) scalar(node *yaml.Node) (Value, error) {
	switch node.Tag {
	case "!!null":
		return NewNull(), nil
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err != nil {
			return NewUndefined(), fmt.Errorf("invalid YAML bool %q", node.Value)
		}
		return NewBool(b), nil
	case "!!int":
		if i, err := strconv.ParseInt(node.Value, 0, 64); err == nil {
			return NewInt(i), nil
		}
		bi, ok := new(big.Int).SetString(node.Value, 0)
		if !ok {
			return NewUndefined(), fmt.Errorf("invalid YAML int %q", node.Value)
		}
		return NewBigInt(bi), nil
	case "!!float":
		switch strings.ToLower(node.Value) {
		case ".inf", "+.inf":
			return NewFloat(math.Inf(1)), nil
		case "-.inf":
			return NewFloat(math.Inf(-1)), nil
		case ".nan":
			return NewFloat(math.NaN()), nil
		}
		f, err := strconv.ParseFloat(node.Value, 64)
		if err != nil {
			return NewUndefined(), fmt.Errorf("invalid YAML float %q", node.Value)
		}
		return NewFloat(f), nil
	case "!!timestamp":
		// Short date fields accept both padded and unpadded digits, which
		// is what the yaml resolver itself admits as a timestamp.
		layouts := []string{
			"2006-1-2T15:4:5.999999999Z07:00",
			"2006-1-2t15:4:5.999999999Z07:00",
			"2006-1-2 15:4:5.999999999",
			"2006-1-2",
		}
		for _, layout := range layouts {
			if t, err := time.Parse(layout, node.Value); err == nil {
				return NewDate(t), nil
			}
		}
		return NewUndefined(), fmt.Errorf("invalid YAML timestamp %q", node.Value)
	case "!!binary":
		clean := strings.Map(func(r rune) rune {
			if r == ' ' || r == '\n' || r == '\r' || r == '\t' {
				return -1
			}
			return r
		}, node.Value)
		raw, err := base64.StdEncoding.DecodeString(clean)
		if err != nil {
			return NewUndefined(), fmt.Errorf("invalid YAML binary: %v", err)
		}
		return NewBufferBytes(raw), nil
	default:
		return NewString(node.Value), nil
	}
}

// ToYAML encodes v as a YAML document under the same rules as ToJSON, with
// a wider reach: big integers and NaN encode as YAML scalars, buffers
// encode as !!binary, dates as !!timestamp, and map keys may be any
// encodable value. Shared acyclic structure is written out once per
// occurrence; cyclic values are an error.
func ToYAML(v Value) ([]byte, error) {
	enc := &yamlEncoder{onPath: make(map[any]struct{})}
	node, skip, err := enc.encode(v)
	if err != nil {
		return nil, err
	}
	if skip {
		return nil, fmt.Errorf("cannot encode undefined as YAML")
	}
	return yaml.Marshal(node)
}

type yamlEncoder struct {
	onPath map[any]struct{}
}

func (e *yamlEncoder) enter(ref any) error {
	if _, ok := e.onPath[ref]; ok {
		return fmt.Errorf("cannot encode cyclic value as YAML")
	}
	e.onPath[ref] = struct{}{}
	return nil
}

func (e *yamlEncoder) leave(ref any) { delete(e.onPath, ref) }

func (e *yamlEncoder) encode(v Value) (node *yaml.Node, skip bool, err error) {
	switch v.kind {
	case KindUndefined:
		return nil, true, nil
	case KindNull:
		return yamlScalar("!!null", "null"), false, nil
	case KindBool:
		if v.data.(bool) {
			return yamlScalar("!!bool", "true"), false, nil
		}
		return yamlScalar("!!bool", "false"), false, nil
	case KindInt:
		return yamlScalar("!!int", strconv.FormatInt(v.data.(int64), 10)), false, nil
	case KindBigInt:
		return yamlScalar("!!int", v.data.(*big.Int).String()), false, nil
	case KindFloat:
		f := v.data.(float64)
		switch {
		case math.IsNaN(f):
			return yamlScalar("!!float", ".nan"), false, nil
		case math.IsInf(f, 1):
			return yamlScalar("!!float", ".inf"), false, nil
		case math.IsInf(f, -1):
			return yamlScalar("!!float", "-.inf"), false, nil
		}
		return yamlScalar("!!float", strconv.FormatFloat(f, 'g', -1, 64)), false, nil
	case KindString:
		return yamlScalar("!!str", v.data.(string)), false, nil
	case KindDate:
		return yamlScalar("!!timestamp", v.data.(*Date).t.UTC().Format(time.RFC3339Nano)), false, nil
	case KindBuffer:
		return yamlScalar("!!binary", base64.StdEncoding.EncodeToString(v.data.(*Buffer).data)), false, nil
	case KindArray:
		a := v.data.(*Array)
		if err := e.enter(a); err != nil {
			return nil, false, err
		}
		defer e.leave(a)
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for i := 0; i < a.length; i++ {
			cell, ok := a.cells[i]
			if !ok {
				out.Content = append(out.Content, yamlScalar("!!null", "null"))
				continue
			}
			item, skip, err := e.encode(cell)
			if err != nil {
				return nil, false, err
			}
			if skip {
				item = yamlScalar("!!null", "null")
			}
			out.Content = append(out.Content, item)
		}
		return out, false, nil
	case KindSet:
		s := v.data.(*Set)
		if err := e.enter(s); err != nil {
			return nil, false, err
		}
		defer e.leave(s)
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, elem := range s.entries {
			item, skip, err := e.encode(elem)
			if err != nil {
				return nil, false, err
			}
			if skip {
				item = yamlScalar("!!null", "null")
			}
			out.Content = append(out.Content, item)
		}
		return out, false, nil
	case KindObject:
		o := v.data.(*Object)
		if err := e.enter(o); err != nil {
			return nil, false, err
		}
		defer e.leave(o)
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
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
			out.Content = append(out.Content, yamlScalar("!!str", key), item)
		}
		return out, false, nil
	case KindMap:
		m := v.data.(*Map)
		if err := e.enter(m); err != nil {
			return nil, false, err
		}
		defer e.leave(m)
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for i := range m.keys {
			keyNode, skip, err := e.encode(m.keys[i])
			if err != nil {
				return nil, false, err
			}
			if skip {
				keyNode = yamlScalar("!!null", "null")
			}
			valNode, skip, err := e.encode(m.vals[i])
			if err != nil {
				return nil, false, err
			}
			if skip {
				valNode = yamlScalar("!!null", "null")
			}
			out.Content = append(out.Content, keyNode, valNode)
		}
		return out, false, nil
	default:
		return nil, false, fmt.Errorf("cannot encode %s as YAML", v.Kind())
	}
}

func yamlScalar(tag, value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: value}
}
