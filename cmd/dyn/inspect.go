package main

import (
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/dynlib/dynaval/dyn"
)

func inspectCommand(args []string) error {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(new(flagErrorSink))
	format := fs.String("format", "", "force the input format (json or yaml)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	remaining := fs.Args()
	if len(remaining) != 1 {
		return errors.New("dyn inspect: document path required")
	}
	v, err := loadDocument(remaining[0], *format)
	if err != nil {
		return err
	}
	fmt.Print(describe(v))
	return nil
}

// describe renders the kind tree of a value, one node per line. Nodes on
// the current path print a cycle marker instead of recursing.
func describe(v dyn.Value) string {
	var b strings.Builder
	describeInto(&b, "", "", v, map[any]bool{})
	return b.String()
}

func describeInto(b *strings.Builder, indent, label string, v dyn.Value, onPath map[any]bool) {
	b.WriteString(indent)
	if label != "" {
		b.WriteString(label)
		b.WriteString(": ")
	}
	switch v.Kind() {
	case dyn.KindArray:
		a := v.Array()
		if onPath[a] {
			b.WriteString("array <cycle>\n")
			return
		}
		onPath[a] = true
		defer delete(onPath, a)
		fmt.Fprintf(b, "array [%d]\n", a.Len())
		for _, i := range a.Indices() {
			elem, _ := a.Get(i)
			describeInto(b, indent+"  ", fmt.Sprintf("%d", i), elem, onPath)
		}
	case dyn.KindObject:
		o := v.Object()
		if onPath[o] {
			b.WriteString("object <cycle>\n")
			return
		}
		onPath[o] = true
		defer delete(onPath, o)
		keys := o.Keys()
		fmt.Fprintf(b, "object {%d keys}\n", len(keys))
		for _, key := range keys {
			p, _ := o.GetOwn(key)
			if p.IsAccessor() {
				fmt.Fprintf(b, "%s  %s: accessor\n", indent, key)
				continue
			}
			describeInto(b, indent+"  ", key, p.Value, onPath)
		}
	case dyn.KindSet:
		s := v.Set()
		if onPath[s] {
			b.WriteString("set <cycle>\n")
			return
		}
		onPath[s] = true
		defer delete(onPath, s)
		elems := s.Values()
		fmt.Fprintf(b, "set {%d}\n", len(elems))
		for i, elem := range elems {
			describeInto(b, indent+"  ", fmt.Sprintf("%d", i), elem, onPath)
		}
	case dyn.KindMap:
		m := v.Map()
		if onPath[m] {
			b.WriteString("map <cycle>\n")
			return
		}
		onPath[m] = true
		defer delete(onPath, m)
		entries := m.Entries()
		fmt.Fprintf(b, "map {%d}\n", len(entries))
		for _, e := range entries {
			describeInto(b, indent+"  ", e.Key.String(), e.Value, onPath)
		}
	case dyn.KindBuffer:
		fmt.Fprintf(b, "buffer %d bytes\n", v.Buffer().Len())
	case dyn.KindView:
		tv := v.View()
		fmt.Fprintf(b, "view %s x%d\n", tv.Elem(), tv.Len())
	case dyn.KindString:
		fmt.Fprintf(b, "string %q\n", v.String())
	case dyn.KindNull, dyn.KindUndefined:
		fmt.Fprintf(b, "%s\n", v.Kind())
	default:
		fmt.Fprintf(b, "%s %s\n", v.Kind(), v)
	}
}
