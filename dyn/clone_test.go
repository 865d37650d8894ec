package dyn

import (
	"errors"
	"math/big"
	"testing"
	"time"
)

func mustClone(t *testing.T, v Value) Value {
	t.Helper()
	out, err := Clone(v)
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}
	return out
}

func mustGet(t *testing.T, o *Object, key string) Value {
	t.Helper()
	v, err := o.Get(key)
	if err != nil {
		t.Fatalf("get %q failed: %v", key, err)
	}
	return v
}

func TestClonePrimitivesPassThrough(t *testing.T) {
	sym := NewSymbol("token")
	bi := NewBigInt(big.NewInt(1234))
	cases := []Value{
		NewUndefined(),
		NewNull(),
		NewBool(true),
		NewInt(42),
		NewFloat(3.5),
		NewString("x"),
		sym,
		bi,
	}
	for _, v := range cases {
		out := mustClone(t, v)
		if out.Kind() != v.Kind() {
			t.Fatalf("clone of %s changed kind to %s", v.Kind(), out.Kind())
		}
		if !Equal(out, v) {
			t.Fatalf("clone of %s not equal to input", v.Kind())
		}
	}
	if mustClone(t, sym).Symbol() != sym.Symbol() {
		t.Fatalf("symbol clone must be the same token")
	}
	if mustClone(t, bi).BigInt() != bi.BigInt() {
		t.Fatalf("big integer clone must share the reference")
	}
}

func TestCloneCompositeIdentityIndependence(t *testing.T) {
	obj := NewObject()
	obj.Object().Set("a", NewInt(1))
	obj.Object().Set("list", NewArray(NewInt(1), NewInt(2)))

	out := mustClone(t, obj)
	if out.Object() == obj.Object() {
		t.Fatalf("clone returned the same object node")
	}
	if !Equal(out, obj) {
		t.Fatalf("clone not structurally equal: %s vs %s", out, obj)
	}
	inner := mustGet(t, out.Object(), "list")
	if inner.Array() == mustGet(t, obj.Object(), "list").Array() {
		t.Fatalf("nested array node is shared with the input")
	}
}

func TestCloneIdempotentShape(t *testing.T) {
	v := NewObject()
	v.Object().Set("nested", NewArray(NewFloat(1.5), NewString("s")))
	v.Object().Set("when", NewDate(time.Unix(1700000000, 0)))

	once := mustClone(t, v)
	twice := mustClone(t, once)
	if !Equal(twice, once) {
		t.Fatalf("clone of clone differs: %s vs %s", twice, once)
	}
}

func TestCloneTerminatesOnSelfReference(t *testing.T) {
	v := NewObject()
	v.Object().Set("a", NewInt(1))
	v.Object().Set("self", v)

	out := mustClone(t, v)
	self := mustGet(t, out.Object(), "self")
	if self.Object() != out.Object() {
		t.Fatalf("self reference does not point back at the clone")
	}
	if self.Object() == v.Object() {
		t.Fatalf("self reference leaked the original node")
	}
}

func TestCloneTerminatesOnMutualCycle(t *testing.T) {
	a := NewObject()
	b := NewObject()
	a.Object().Set("peer", b)
	b.Object().Set("peer", a)

	out := mustClone(t, a)
	peer := mustGet(t, out.Object(), "peer")
	back := mustGet(t, peer.Object(), "peer")
	if back.Object() != out.Object() {
		t.Fatalf("two-node cycle not reproduced")
	}
}

func TestCloneSharedReferencesStayShared(t *testing.T) {
	shared := NewObject()
	shared.Object().Set("x", NewInt(1))
	v := NewObject()
	v.Object().Set("p", shared)
	v.Object().Set("q", shared)

	out := mustClone(t, v)
	p := mustGet(t, out.Object(), "p")
	q := mustGet(t, out.Object(), "q")
	if p.Object() != q.Object() {
		t.Fatalf("two references to one node became two nodes")
	}
	if p.Object() == shared.Object() {
		t.Fatalf("shared node still aliases the input")
	}
}

func TestCloneSharedReferenceAcrossContainers(t *testing.T) {
	shared := NewArray(NewInt(7))
	v := NewArray(shared, NewSet(shared), shared)

	out := mustClone(t, v)
	first, _ := out.Array().Get(0)
	third, _ := out.Array().Get(2)
	if first.Array() != third.Array() {
		t.Fatalf("array slots lost sharing")
	}
	setSlot, _ := out.Array().Get(1)
	if setSlot.Set().Values()[0].Array() != first.Array() {
		t.Fatalf("set member lost sharing with array slots")
	}
}

func TestCloneSparseArrayPreservesHoles(t *testing.T) {
	v := NewArrayLen(6)
	v.Array().Set(5, NewString("five"))

	out := mustClone(t, v)
	arr := out.Array()
	if arr.Len() != 6 {
		t.Fatalf("expected length 6, got %d", arr.Len())
	}
	if arr.Present() != 1 || !arr.Has(5) {
		t.Fatalf("expected exactly index 5 present, got indices %v", arr.Indices())
	}
	for i := 0; i < 5; i++ {
		if arr.Has(i) {
			t.Fatalf("index %d materialized in the clone", i)
		}
	}
}

func TestCloneDistinguishesHoleFromStoredUndefined(t *testing.T) {
	v := NewArrayLen(2)
	v.Array().Set(0, NewUndefined())

	out := mustClone(t, v)
	if !out.Array().Has(0) {
		t.Fatalf("stored undefined became a hole")
	}
	if out.Array().Has(1) {
		t.Fatalf("hole became a stored value")
	}
}

func TestCloneAccessorPairPreserved(t *testing.T) {
	getX := func(self *Object) (Value, error) { return self.Get("raw") }
	setX := func(self *Object, v Value) error { return self.Set("raw", v) }

	v := NewObject()
	v.Object().Set("raw", NewInt(1))
	v.Object().Define("x", Property{Get: getX, Set: setX, Enumerable: true})

	out := mustClone(t, v)
	p, ok := out.Object().GetOwn("x")
	if !ok || !p.IsAccessor() {
		t.Fatalf("accessor flattened to a data property")
	}
	if p.Get == nil || p.Set == nil {
		t.Fatalf("accessor pair lost a side: get=%v set=%v", p.Get, p.Set)
	}

	if err := out.Object().Set("x", NewInt(9)); err != nil {
		t.Fatalf("setter on clone failed: %v", err)
	}
	if got := mustGet(t, out.Object(), "x"); got.Int() != 9 {
		t.Fatalf("clone getter sees %v, want 9", got)
	}
	if got := mustGet(t, v.Object(), "raw"); got.Int() != 1 {
		t.Fatalf("setter on clone mutated the original backing state: %v", got)
	}
}

func TestCloneDropsNonEnumerableProperties(t *testing.T) {
	v := NewObject()
	v.Object().Set("visible", NewInt(1))
	v.Object().Define("hidden", Property{Value: NewInt(2), Enumerable: false})

	out := mustClone(t, v)
	if out.Object().HasOwn("hidden") {
		t.Fatalf("non-enumerable property appeared on the clone")
	}
	if !out.Object().HasOwn("visible") {
		t.Fatalf("enumerable property missing from the clone")
	}
}

func TestCloneSymbolKeyedProperties(t *testing.T) {
	key := NewSymbol("meta").Symbol()
	hiddenKey := NewSymbol("hidden").Symbol()
	v := NewObject()
	v.Object().DefineSym(key, Property{Value: NewString("tag"), Enumerable: true})
	v.Object().DefineSym(hiddenKey, Property{Value: NewString("no"), Enumerable: false})

	out := mustClone(t, v)
	syms := out.Object().SymbolKeys()
	if len(syms) != 1 || syms[0] != key {
		t.Fatalf("symbol key not shared by reference: %v", syms)
	}
	got, err := out.Object().GetSym(key)
	if err != nil || got.String() != "tag" {
		t.Fatalf("symbol-keyed value wrong: %v %v", got, err)
	}
	if _, ok := out.Object().GetOwnSym(hiddenKey); ok {
		t.Fatalf("non-enumerable symbol property appeared on the clone")
	}
}

func TestClonePrototypePreserved(t *testing.T) {
	proto := NewObject()
	proto.Object().Set("kind", NewString("widget"))
	inst := NewInstance(proto.Object())
	inst.Object().Set("id", NewInt(1))

	out := mustClone(t, inst)
	if !out.Object().InstanceOf(proto.Object()) {
		t.Fatalf("clone lost its prototype chain")
	}
	if out.Object().Proto() != proto.Object() {
		t.Fatalf("clone must share the original prototype pointer")
	}
	if got := mustGet(t, out.Object(), "kind"); got.String() != "widget" {
		t.Fatalf("inherited lookup broken on clone: %v", got)
	}
	if IsPlainObject(out) {
		t.Fatalf("instance clone classified as plain object")
	}
}

func TestCloneSetPreservesOrderAndIsolation(t *testing.T) {
	inner := NewObject()
	inner.Object().Set("n", NewInt(1))
	v := NewSet(NewInt(3), NewInt(1), NewInt(2), inner)

	out := mustClone(t, v)
	got := out.Set().Values()
	if len(got) != 4 {
		t.Fatalf("set size changed: %d", len(got))
	}
	for i, want := range []int64{3, 1, 2} {
		if got[i].Int() != want {
			t.Fatalf("order broken at %d: got %v want %d", i, got[i], want)
		}
	}
	if got[3].Object() == inner.Object() {
		t.Fatalf("set member aliases the input")
	}
}

func TestCloneMapSharesKeysClonesValues(t *testing.T) {
	keyObj := NewObject()
	val := NewArray(NewInt(1))
	v := NewMap()
	v.Map().Set(keyObj, val)
	v.Map().Set(NewString("s"), NewInt(2))

	out := mustClone(t, v)
	entries := out.Map().Entries()
	if len(entries) != 2 {
		t.Fatalf("entry count changed: %d", len(entries))
	}
	if entries[0].Key.Object() != keyObj.Object() {
		t.Fatalf("map key was cloned; keys must be shared")
	}
	if entries[0].Value.Array() == val.Array() {
		t.Fatalf("map value aliases the input")
	}
	if entries[1].Key.String() != "s" || entries[1].Value.Int() != 2 {
		t.Fatalf("iteration order broken: %v", entries)
	}
}

func TestCloneDateAndRegexAreFreshNodes(t *testing.T) {
	when := NewDate(time.Unix(1600000000, 250000000))
	re := NewRegex("^a+$", "i")
	v := NewArray(when, re, when)

	out := mustClone(t, v)
	d0, _ := out.Array().Get(0)
	d2, _ := out.Array().Get(2)
	if d0.Date() == when.Date() {
		t.Fatalf("date node shared with input")
	}
	if d0.Date() != d2.Date() {
		t.Fatalf("two references to one date became two dates")
	}
	if !d0.Date().Time().Equal(when.Date().Time()) {
		t.Fatalf("timestamp not carried: %v", d0.Date().Time())
	}
	r1, _ := out.Array().Get(1)
	if r1.Regex() == re.Regex() {
		t.Fatalf("regex node shared with input")
	}
	if r1.Regex().Source() != "^a+$" || r1.Regex().Flags() != "i" {
		t.Fatalf("regex state not carried: %v", r1.Regex())
	}

	d0.Date().SetTime(time.Unix(0, 0))
	if when.Date().Time().Unix() == 0 {
		t.Fatalf("mutating the cloned date touched the original")
	}
}

func TestCloneBufferIndependence(t *testing.T) {
	v := NewBufferBytes([]byte{1, 2, 3, 4})
	out := mustClone(t, v)
	if out.Buffer() == v.Buffer() {
		t.Fatalf("buffer node shared with input")
	}
	if !Equal(out, v) {
		t.Fatalf("buffer contents differ")
	}
	out.Buffer().Bytes()[0] = 99
	if v.Buffer().Bytes()[0] != 1 {
		t.Fatalf("clone storage aliases the original")
	}
}

func TestCloneResizableBufferKeepsLimits(t *testing.T) {
	v := NewResizableBuffer(2, 8)
	out := mustClone(t, v)
	if !out.Buffer().Resizable() || out.Buffer().MaxLen() != 8 {
		t.Fatalf("resizability lost: resizable=%v max=%d", out.Buffer().Resizable(), out.Buffer().MaxLen())
	}
	if err := out.Buffer().Resize(6); err != nil {
		t.Fatalf("clone refused a legal resize: %v", err)
	}
	if v.Buffer().Len() != 2 {
		t.Fatalf("resizing the clone resized the original")
	}
}

func TestCloneViewCopiesTightWindow(t *testing.T) {
	backing := NewBufferBytes([]byte{0, 1, 2, 3, 4, 5, 6, 7}).Buffer()
	view := MustView(ElemUint16, backing, 2, 2)

	out := mustClone(t, view)
	tv := out.View()
	if tv == view.View() {
		t.Fatalf("view node shared with input")
	}
	if tv.Buffer() == backing {
		t.Fatalf("clone view still reads the original buffer")
	}
	if tv.ByteOffset() != 0 {
		t.Fatalf("clone view offset not reset: %d", tv.ByteOffset())
	}
	if tv.Buffer().Len() != 4 {
		t.Fatalf("clone buffer not tight: %d bytes", tv.Buffer().Len())
	}
	if tv.Len() != 2 || tv.Elem() != ElemUint16 {
		t.Fatalf("element geometry changed: %s x%d", tv.Elem(), tv.Len())
	}

	backing.Bytes()[2] = 200
	if tv.ViewBytes()[0] == 200 {
		t.Fatalf("clone window aliases the original storage")
	}
}

func TestCloneViewDoesNotRegisterSourceBuffer(t *testing.T) {
	backing := NewBufferBytes([]byte{9, 9, 9, 9}).Buffer()
	view := MustView(ElemUint8, backing, 1, 2)
	v := NewArray(backing.Value(), view)

	out := mustClone(t, v)
	bufSlot, _ := out.Array().Get(0)
	viewSlot, _ := out.Array().Get(1)
	if bufSlot.Buffer().Len() != 4 {
		t.Fatalf("whole-buffer slot truncated: %d", bufSlot.Buffer().Len())
	}
	if viewSlot.View().Buffer() == bufSlot.Buffer() {
		t.Fatalf("view clone must own a private tight buffer")
	}
}

func TestCloneViewProbeDemotesToBuffer(t *testing.T) {
	backing := NewBufferBytes([]byte{1, 2, 3, 4}).Buffer()
	view := MustView(ElemUint8, backing, 1, 2)

	caps := Capabilities{IsBufferView: func(Value) (bool, error) { return false, nil }}
	out, err := CloneWith(view, caps)
	if err != nil {
		t.Fatalf("demoted clone failed: %v", err)
	}
	if out.Kind() != KindBuffer {
		t.Fatalf("expected a plain buffer, got %s", out.Kind())
	}
	if got := out.Buffer().Bytes(); len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("demoted copy holds wrong bytes: %v", got)
	}
}

func TestCloneViewProbeDemotionWithoutBuffers(t *testing.T) {
	backing := NewBufferBytes([]byte{1, 2, 3, 4}).Buffer()
	view := MustView(ElemUint8, backing, 0, 4)

	caps := Capabilities{
		BuffersAvailable: func() (bool, error) { return false, nil },
		IsBufferView:     func(Value) (bool, error) { return false, nil },
	}
	out, err := CloneWith(view, caps)
	if err != nil {
		t.Fatalf("demoted clone failed: %v", err)
	}
	raw, ok := out.Foreign().([]byte)
	if !ok {
		t.Fatalf("expected a raw byte copy, got %s", out.Kind())
	}
	raw[0] = 77
	if backing.Bytes()[0] != 1 {
		t.Fatalf("raw copy aliases the original storage")
	}
}

func TestCloneProbeErrorsPropagateUnchanged(t *testing.T) {
	probeErr := errors.New("probe exploded")

	view := MustView(ElemUint8, NewBufferBytes([]byte{1}).Buffer(), 0, 1)
	nested := NewObject()
	nested.Object().Set("v", view)

	caps := Capabilities{IsBufferView: func(Value) (bool, error) { return false, probeErr }}
	if _, err := CloneWith(nested, caps); err != probeErr {
		t.Fatalf("view probe error was altered: %v", err)
	}

	carrier := NewForeign(&byteCarrier{buf: newBufferBytes([]byte{1, 2})})
	caps = Capabilities{BuffersAvailable: func() (bool, error) { return false, probeErr }}
	if _, err := CloneWith(carrier, caps); err != probeErr {
		t.Fatalf("buffer probe error was altered: %v", err)
	}
}

type byteCarrier struct {
	buf *Buffer
}

func (b *byteCarrier) ByteBuffer() *Buffer { return b.buf }
func (b *byteCarrier) ByteLength() int     { return b.buf.Len() }

type rebuildingCarrier struct {
	byteCarrier
}

func (r *rebuildingCarrier) CloneWithBuffer(buf *Buffer) any {
	return &rebuildingCarrier{byteCarrier{buf: buf}}
}

func TestCloneBufferLikeWithoutRebuilderYieldsBuffer(t *testing.T) {
	host := &byteCarrier{buf: newBufferBytes([]byte{5, 6, 7})}
	out := mustClone(t, NewForeign(host))
	if out.Kind() != KindBuffer {
		t.Fatalf("expected plain buffer fallback, got %s", out.Kind())
	}
	out.Buffer().Bytes()[0] = 50
	if host.buf.Bytes()[0] != 5 {
		t.Fatalf("fallback copy aliases the host storage")
	}
}

func TestCloneBufferLikeRebuildsHostType(t *testing.T) {
	host := &rebuildingCarrier{byteCarrier{buf: newBufferBytes([]byte{8, 9})}}
	out := mustClone(t, NewForeign(host))
	rebuilt, ok := out.Foreign().(*rebuildingCarrier)
	if !ok {
		t.Fatalf("host type not rebuilt, got %T", out.Foreign())
	}
	if rebuilt == host {
		t.Fatalf("rebuilt host is the original")
	}
	if rebuilt.buf == host.buf {
		t.Fatalf("rebuilt host shares storage with the original")
	}
	rebuilt.buf.Bytes()[0] = 80
	if host.buf.Bytes()[0] != 8 {
		t.Fatalf("rebuilt storage aliases the original")
	}
}

func TestCloneBufferLikeSharedIdentity(t *testing.T) {
	host := NewForeign(&rebuildingCarrier{byteCarrier{buf: newBufferBytes([]byte{1})}})
	v := NewArray(host, host)
	out := mustClone(t, v)
	a, _ := out.Array().Get(0)
	b, _ := out.Array().Get(1)
	if a.Foreign() != b.Foreign() {
		t.Fatalf("two references to one buffer-like host became two copies")
	}
}

func TestCloneFuncAndOpaqueForeignPassThrough(t *testing.T) {
	fn := NewFunc("id", func(args []Value) (Value, error) {
		if len(args) == 0 {
			return NewUndefined(), nil
		}
		return args[0], nil
	})
	type opaque struct{ n int }
	host := NewForeign(&opaque{n: 1})
	v := NewArray(fn, host)

	out := mustClone(t, v)
	f, _ := out.Array().Get(0)
	if f.Func() != fn.Func() {
		t.Fatalf("function value was not passed through")
	}
	o, _ := out.Array().Get(1)
	if o.Foreign() != host.Foreign() {
		t.Fatalf("opaque foreign value was not passed through")
	}
}

func TestCloneDoesNotMutateInput(t *testing.T) {
	v := NewObject()
	v.Object().Set("list", NewArrayLen(3))
	v.Object().Set("self", v)
	before := v.String()

	mustClone(t, v)
	if after := v.String(); after != before {
		t.Fatalf("input changed during clone:\nbefore %s\nafter  %s", before, after)
	}
}

func TestCloneCallsAreIndependent(t *testing.T) {
	v := NewObject()
	v.Object().Set("n", NewInt(1))

	first := mustClone(t, v)
	second := mustClone(t, v)
	if first.Object() == second.Object() {
		t.Fatalf("separate clone calls shared a visited table")
	}
}
