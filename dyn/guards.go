package dyn

// IsPrimitive reports whether v is immutable and copied by value (or, for
// symbols and big integers, shared by reference without cloning).
func IsPrimitive(v Value) bool {
	switch v.kind {
	case KindUndefined, KindNull, KindBool, KindInt, KindFloat, KindBigInt, KindString, KindSymbol:
		return true
	default:
		return false
	}
}

// IsComposite reports whether v is a node with identity that the clone
// engine copies: a container or a stateful atom.
func IsComposite(v Value) bool {
	switch v.kind {
	case KindArray, KindObject, KindSet, KindMap, KindDate, KindRegex, KindBuffer, KindView:
		return true
	default:
		return false
	}
}

// IsPlainObject reports whether v is an object with the standard base, that
// is, no prototype link.
func IsPlainObject(v Value) bool {
	return v.kind == KindObject && v.data.(*Object).proto == nil
}

// IsInstance reports whether v is an object with a custom prototype.
func IsInstance(v Value) bool {
	return v.kind == KindObject && v.data.(*Object).proto != nil
}

// IsBufferLike reports whether v is a foreign value that exposes byte
// storage through the BufferLike contract.
func IsBufferLike(v Value) bool {
	if v.kind != KindForeign {
		return false
	}
	_, ok := v.data.(BufferLike)
	return ok
}

func IsNumeric(v Value) bool {
	switch v.kind {
	case KindInt, KindFloat, KindBigInt:
		return true
	default:
		return false
	}
}
