package dyn

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
)

// Buffer is mutable byte storage. A resizable buffer carries a maximum
// length it may grow to; a fixed buffer keeps its creation length.
type Buffer struct {
	data      []byte
	resizable bool
	max       int
}

func newBuffer(n int) *Buffer { return &Buffer{data: make([]byte, n)} }

func newResizableBuffer(n, max int) *Buffer {
	if max < n {
		max = n
	}
	return &Buffer{data: make([]byte, n), resizable: true, max: max}
}

func newBufferBytes(b []byte) *Buffer {
	data := make([]byte, len(b))
	copy(data, b)
	return &Buffer{data: data}
}

func (b *Buffer) Len() int        { return len(b.data) }
func (b *Buffer) Resizable() bool { return b.resizable }

func (b *Buffer) MaxLen() int {
	if b.resizable {
		return b.max
	}
	return len(b.data)
}

// Bytes returns the live storage. Mutations are visible to every view over
// the buffer.
func (b *Buffer) Bytes() []byte { return b.data }

// Resize grows or shrinks a resizable buffer. Bytes gained by growth read as
// zero even after an earlier shrink.
func (b *Buffer) Resize(n int) error {
	if !b.resizable {
		return fmt.Errorf("buffer is not resizable")
	}
	if n < 0 || n > b.max {
		return fmt.Errorf("resize length %d outside 0..%d", n, b.max)
	}
	if n <= len(b.data) {
		b.data = b.data[:n]
		return nil
	}
	grown := make([]byte, n)
	copy(grown, b.data)
	b.data = grown
	return nil
}

// Clone copies the bytes into newly allocated storage, preserving
// resizability and the growth limit.
func (b *Buffer) Clone() *Buffer {
	out := &Buffer{data: make([]byte, len(b.data)), resizable: b.resizable, max: b.max}
	copy(out.data, b.data)
	return out
}

type ElemType int

const (
	ElemInt8 ElemType = iota
	ElemUint8
	ElemUint8Clamped
	ElemInt16
	ElemUint16
	ElemInt32
	ElemUint32
	ElemFloat32
	ElemFloat64
	ElemBigInt64
	ElemBigUint64
)

func (e ElemType) Size() int {
	switch e {
	case ElemInt8, ElemUint8, ElemUint8Clamped:
		return 1
	case ElemInt16, ElemUint16:
		return 2
	case ElemInt32, ElemUint32, ElemFloat32:
		return 4
	default:
		return 8
	}
}

func (e ElemType) String() string {
	switch e {
	case ElemInt8:
		return "int8"
	case ElemUint8:
		return "uint8"
	case ElemUint8Clamped:
		return "uint8clamped"
	case ElemInt16:
		return "int16"
	case ElemUint16:
		return "uint16"
	case ElemInt32:
		return "int32"
	case ElemUint32:
		return "uint32"
	case ElemFloat32:
		return "float32"
	case ElemFloat64:
		return "float64"
	case ElemBigInt64:
		return "bigint64"
	case ElemBigUint64:
		return "biguint64"
	default:
		return fmt.Sprintf("elem(%d)", int(e))
	}
}

// TypedView interprets a window of a buffer as numeric elements. The window
// starts at a byte offset and spans a fixed element count.
type TypedView struct {
	elem   ElemType
	buf    *Buffer
	offset int
	count  int
}

func newTypedView(elem ElemType, buf *Buffer, byteOffset, count int) (*TypedView, error) {
	if buf == nil {
		return nil, fmt.Errorf("view requires a buffer")
	}
	if byteOffset < 0 || count < 0 {
		return nil, fmt.Errorf("view geometry must be non-negative")
	}
	if byteOffset+count*elem.Size() > buf.Len() {
		return nil, fmt.Errorf("view window %d+%d exceeds buffer length %d", byteOffset, count*elem.Size(), buf.Len())
	}
	return &TypedView{elem: elem, buf: buf, offset: byteOffset, count: count}, nil
}

func (tv *TypedView) Elem() ElemType  { return tv.elem }
func (tv *TypedView) Buffer() *Buffer { return tv.buf }
func (tv *TypedView) ByteOffset() int { return tv.offset }
func (tv *TypedView) Len() int        { return tv.count }
func (tv *TypedView) ByteLen() int    { return tv.count * tv.elem.Size() }

// ViewBytes returns the live window into the backing buffer, or nil when a
// buffer shrink moved the window out of range.
func (tv *TypedView) ViewBytes() []byte {
	end := tv.offset + tv.ByteLen()
	if end > tv.buf.Len() {
		return nil
	}
	return tv.buf.data[tv.offset:end]
}

func (tv *TypedView) window(i int) ([]byte, error) {
	if i < 0 || i >= tv.count {
		return nil, fmt.Errorf("view index %d out of range [0,%d)", i, tv.count)
	}
	win := tv.ViewBytes()
	if win == nil {
		return nil, fmt.Errorf("view window outside buffer")
	}
	return win[i*tv.elem.Size():], nil
}

// Get reads element i as an int, float, or big integer value depending on
// the element type. Elements are stored little-endian.
func (tv *TypedView) Get(i int) (Value, error) {
	at, err := tv.window(i)
	if err != nil {
		return NewUndefined(), err
	}
	switch tv.elem {
	case ElemInt8:
		return NewInt(int64(int8(at[0]))), nil
	case ElemUint8, ElemUint8Clamped:
		return NewInt(int64(at[0])), nil
	case ElemInt16:
		return NewInt(int64(int16(binary.LittleEndian.Uint16(at)))), nil
	case ElemUint16:
		return NewInt(int64(binary.LittleEndian.Uint16(at))), nil
	case ElemInt32:
		return NewInt(int64(int32(binary.LittleEndian.Uint32(at)))), nil
	case ElemUint32:
		return NewInt(int64(binary.LittleEndian.Uint32(at))), nil
	case ElemFloat32:
		return NewFloat(float64(math.Float32frombits(binary.LittleEndian.Uint32(at)))), nil
	case ElemFloat64:
		return NewFloat(math.Float64frombits(binary.LittleEndian.Uint64(at))), nil
	case ElemBigInt64:
		return NewBigInt(big.NewInt(int64(binary.LittleEndian.Uint64(at)))), nil
	case ElemBigUint64:
		return NewBigInt(new(big.Int).SetUint64(binary.LittleEndian.Uint64(at))), nil
	default:
		return NewUndefined(), fmt.Errorf("unknown element type %d", int(tv.elem))
	}
}

// Set writes a numeric value into element i. Integer elements wrap modulo
// their width; the clamped element type clamps to 0..255 instead.
func (tv *TypedView) Set(i int, v Value) error {
	if !IsNumeric(v) {
		return fmt.Errorf("view element expects a numeric value, got %s", v.Kind())
	}
	at, err := tv.window(i)
	if err != nil {
		return err
	}
	switch tv.elem {
	case ElemInt8, ElemUint8:
		at[0] = byte(intFromValue(v))
	case ElemUint8Clamped:
		at[0] = clampByte(floatFromValue(v))
	case ElemInt16, ElemUint16:
		binary.LittleEndian.PutUint16(at, uint16(intFromValue(v)))
	case ElemInt32, ElemUint32:
		binary.LittleEndian.PutUint32(at, uint32(intFromValue(v)))
	case ElemFloat32:
		binary.LittleEndian.PutUint32(at, math.Float32bits(float32(floatFromValue(v))))
	case ElemFloat64:
		binary.LittleEndian.PutUint64(at, math.Float64bits(floatFromValue(v)))
	case ElemBigInt64, ElemBigUint64:
		binary.LittleEndian.PutUint64(at, wrap64(bigFromValue(v)))
	default:
		return fmt.Errorf("unknown element type %d", int(tv.elem))
	}
	return nil
}

// BufferLike marks a foreign value that exposes byte storage without being a
// typed view. The clone engine copies the storage so the copy never aliases
// the original.
type BufferLike interface {
	ByteBuffer() *Buffer
	ByteLength() int
}

// BufferCloner lets a buffer-like foreign value rebuild itself around copied
// storage. Without it the clone engine falls back to a plain buffer value.
type BufferCloner interface {
	CloneWithBuffer(buf *Buffer) any
}

var mask64 = new(big.Int).SetUint64(math.MaxUint64)

func wrap64(n *big.Int) uint64 {
	return new(big.Int).And(n, mask64).Uint64()
}

func bigFromValue(v Value) *big.Int {
	switch v.kind {
	case KindBigInt:
		return v.data.(*big.Int)
	case KindInt:
		return big.NewInt(v.data.(int64))
	case KindFloat:
		f := v.data.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return new(big.Int)
		}
		bi, _ := big.NewFloat(f).Int(nil)
		return bi
	default:
		return new(big.Int)
	}
}

func intFromValue(v Value) int64 {
	switch v.kind {
	case KindInt:
		return v.data.(int64)
	case KindFloat:
		f := v.data.(float64)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0
		}
		if math.Abs(f) < 1<<62 {
			return int64(f)
		}
		return int64(wrap64(bigFromValue(v)))
	case KindBigInt:
		return int64(wrap64(v.data.(*big.Int)))
	default:
		return 0
	}
}

func floatFromValue(v Value) float64 {
	switch v.kind {
	case KindInt:
		return float64(v.data.(int64))
	case KindFloat:
		return v.data.(float64)
	case KindBigInt:
		f, _ := new(big.Float).SetInt(v.data.(*big.Int)).Float64()
		return f
	default:
		return 0
	}
}

func clampByte(f float64) byte {
	if math.IsNaN(f) || f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return byte(math.RoundToEven(f))
}
