package codec

import (
	"math"

	"github.com/danmuck/extprot/ioreader"
	"github.com/danmuck/extprot/schema"
	"github.com/danmuck/extprot/wire"
)

// canonicalWire returns the wire type a well-formed writer uses for a
// primitive kind. int packs its zig-zag varint densely (VINT); long uses
// a fixed 8-byte zig-zag word (BITS64_LONG) so a widened field never
// costs more than 8 bytes regardless of magnitude. DESIGN.md records the
// reasoning behind this split.
func canonicalWire(k schema.Kind) wire.Type {
	switch k {
	case schema.KindBool, schema.KindByte:
		return wire.Bits8
	case schema.KindInt:
		return wire.VInt
	case schema.KindLong:
		return wire.Bits64Long
	case schema.KindFloat:
		return wire.Bits64Float
	case schema.KindString:
		return wire.Bytes
	default:
		return wire.InvalidType
	}
}

// Read decodes one value of type t from r, applying primitive expansion,
// numeric widening, default substitution and the recursion-depth bound.
func Read(r ioreader.Reader, t schema.Type, ctx Context) (schema.Value, error) {
	switch t.Kind {
	case schema.KindBool, schema.KindByte, schema.KindInt, schema.KindLong, schema.KindFloat, schema.KindString:
		return readPrimitive(r, t, ctx)
	case schema.KindTuple:
		return readTupleLike(r, schema.KindTuple, t.Elems, ctx)
	case schema.KindRecord:
		elemTypes := make([]schema.Type, len(t.Fields))
		for i, f := range t.Fields {
			elemTypes[i] = f.Type
		}
		return readTupleLike(r, schema.KindRecord, elemTypes, ctx)
	case schema.KindList:
		return readHTuple(r, schema.KindList, *t.Elem, ctx)
	case schema.KindArray:
		return readHTuple(r, schema.KindArray, *t.Elem, ctx)
	case schema.KindSum:
		return readSum(r, schema.KindSum, t.Ctors, ctx)
	case schema.KindMessageSum:
		return readSum(r, schema.KindMessageSum, t.Ctors, ctx)
	default:
		return schema.Value{}, wire.ErrBadWireType
	}
}

func readPrimitive(r ioreader.Reader, t schema.Type, ctx Context) (schema.Value, error) {
	prefix, err := r.ReadPrefix()
	if err != nil {
		return schema.Value{}, err
	}
	return readPrimitiveFromPrefix(r, t, prefix, ctx)
}

// readPrimitiveFromPrefix is readPrimitive's body, split out so a
// composite reader that already consumed the leading prefix (while
// checking for a promoted primitive) can decode the primitive from it
// without re-reading.
func readPrimitiveFromPrefix(r ioreader.Reader, t schema.Type, prefix wire.Prefix, ctx Context) (schema.Value, error) {
	canonical := canonicalWire(t.Kind)
	switch {
	case prefix.Wire == canonical:
		return readPrimitiveBody(r, t, prefix.Wire)

	case t.Kind == schema.KindLong && prefix.Wire == wire.VInt:
		// Lossless widening: a long-typed field reading an old
		// int-typed writer's VINT body.
		u, err := r.ReadVint()
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Value{Kind: schema.KindLong, Int: wire.UnZigZag(u)}, nil

	case t.Kind == schema.KindInt && prefix.Wire == wire.Bits64Long:
		// Backward compat: an old int-typed reader seeing a new
		// long-typed writer's fixed body. Narrows with a range check —
		// the runtime policy is lossless widening only, so a value that
		// does not fit is an error rather than a silent truncation.
		u, err := r.ReadBits64()
		if err != nil {
			return schema.Value{}, err
		}
		v := wire.UnZigZag(u)
		if v < math.MinInt32 || v > math.MaxInt32 {
			return schema.Value{}, wire.ErrOverflow
		}
		return schema.Value{Kind: schema.KindInt, Int: v}, nil

	case prefix.Wire == wire.Tuple:
		return readPrimitiveExpansion(r, t, prefix, ctx)

	default:
		// No compatible body located; substitute the default.
		if err := r.SkipValue(prefix); err != nil {
			return schema.Value{}, err
		}
		return schema.DefaultOf(t)
	}
}

// readPrimitiveExpansion handles the case where a primitive was promoted
// to a tuple (or a sum's non-constant constructor, which is TUPLE-wire
// with a nonzero tag) with the primitive as its first element. It
// descends into the first present element, reads the primitive from it
// — recursively, so a primitive promoted twice still resolves — and
// skips the rest of the body.
func readPrimitiveExpansion(r ioreader.Reader, t schema.Type, prefix wire.Prefix, ctx Context) (schema.Value, error) {
	bodyLen, err := r.ReadVint()
	if err != nil {
		return schema.Value{}, err
	}
	start := r.BytesRead()

	count, err := r.ReadVint()
	if err != nil {
		return schema.Value{}, err
	}

	var result schema.Value
	if count == 0 {
		result, err = schema.DefaultOf(t)
		if err != nil {
			return schema.Value{}, err
		}
	} else {
		child, err := ctx.Child("expansion")
		if err != nil {
			return schema.Value{}, err
		}
		result, err = readPrimitive(r, t, child)
		if err != nil {
			return schema.Value{}, err
		}
	}

	consumed := r.BytesRead() - start
	remaining := int64(bodyLen) - consumed
	if remaining < 0 {
		return schema.Value{}, wire.ErrOverflow
	}
	if remaining > 0 {
		if err := r.Skip(int(remaining)); err != nil {
			return schema.Value{}, err
		}
	}
	return result, nil
}

func readPrimitiveBody(r ioreader.Reader, t schema.Type, w wire.Type) (schema.Value, error) {
	switch t.Kind {
	case schema.KindBool:
		b, err := r.ReadBits8()
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Value{Kind: schema.KindBool, Bool: b != 0}, nil
	case schema.KindByte:
		b, err := r.ReadBits8()
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Value{Kind: schema.KindByte, Byte: b}, nil
	case schema.KindInt:
		u, err := r.ReadVint()
		if err != nil {
			return schema.Value{}, err
		}
		v := wire.UnZigZag(u)
		if v < math.MinInt32 || v > math.MaxInt32 {
			return schema.Value{}, wire.ErrOverflow
		}
		return schema.Value{Kind: schema.KindInt, Int: v}, nil
	case schema.KindLong:
		u, err := r.ReadBits64()
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Value{Kind: schema.KindLong, Int: wire.UnZigZag(u)}, nil
	case schema.KindFloat:
		u, err := r.ReadBits64()
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Value{Kind: schema.KindFloat, Float: math.Float64frombits(u)}, nil
	case schema.KindString:
		n, err := r.ReadVint()
		if err != nil {
			return schema.Value{}, err
		}
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return schema.Value{}, err
		}
		out := make([]byte, len(b))
		copy(out, b)
		return schema.Value{Kind: schema.KindString, Str: out}, nil
	default:
		return schema.Value{}, wire.ErrBadWireType
	}
}

// isPrimitiveWire reports whether w is the wire type a primitive value
// (never a tuple/htuple/assoc composite) is written with.
func isPrimitiveWire(w wire.Type) bool {
	switch w {
	case wire.VInt, wire.Bits8, wire.Bits32, wire.Bits64Long, wire.Bits64Float, wire.Bytes:
		return true
	default:
		return false
	}
}

// defaultElems computes the default value of every declared type, for
// substituting a whole tuple/record that is entirely absent.
func defaultElems(declared []schema.Type) ([]schema.Value, error) {
	values := make([]schema.Value, len(declared))
	for i, t := range declared {
		v, err := schema.DefaultOf(t)
		if err != nil {
			return nil, wire.ErrMissingFieldNoDefault
		}
		values[i] = v
	}
	return values, nil
}

// readTupleLike implements the tuple reader shared by real tuples and
// records. Three prefixes are accepted: TUPLE (the ordinary case, see
// readTupleBody), the zero ENUM sentinel (the whole value is absent;
// substitute its default), and a primitive wire type (a primitive
// promoted to this tuple by a newer schema — the primitive becomes
// declared element 0 and the rest default).
func readTupleLike(r ioreader.Reader, resultKind schema.Kind, declared []schema.Type, ctx Context) (schema.Value, error) {
	prefix, err := r.ReadPrefix()
	if err != nil {
		return schema.Value{}, err
	}

	switch {
	case prefix.Wire == wire.Tuple:
		return readTupleBody(r, resultKind, declared, ctx)

	case prefix.Wire == wire.Enum && prefix.Tag == 0:
		values, err := defaultElems(declared)
		if err != nil {
			return schema.Value{}, err
		}
		return schema.Value{Kind: resultKind, Elems: values}, nil

	case isPrimitiveWire(prefix.Wire):
		if len(declared) == 0 {
			return schema.Value{}, wire.ErrBadWireType
		}
		first, err := readPrimitiveFromPrefix(r, declared[0], prefix, ctx)
		if err != nil {
			return schema.Value{}, err
		}
		values := make([]schema.Value, len(declared))
		values[0] = first
		for i := 1; i < len(declared); i++ {
			v, err := schema.DefaultOf(declared[i])
			if err != nil {
				return schema.Value{}, wire.ErrMissingFieldNoDefault
			}
			values[i] = v
		}
		return schema.Value{Kind: resultKind, Elems: values}, nil

	default:
		return schema.Value{}, wire.ErrBadWireType
	}
}

func readTupleBody(r ioreader.Reader, resultKind schema.Kind, declared []schema.Type, ctx Context) (schema.Value, error) {
	bodyLen, err := r.ReadVint()
	if err != nil {
		return schema.Value{}, err
	}
	start := r.BytesRead()

	presentCount, err := r.ReadVint()
	if err != nil {
		return schema.Value{}, err
	}

	values := make([]schema.Value, len(declared))
	for i, et := range declared {
		if uint64(i) < presentCount {
			child, err := ctx.Child("elem")
			if err != nil {
				return schema.Value{}, err
			}
			v, err := Read(r, et, child)
			if err != nil {
				return schema.Value{}, err
			}
			values[i] = v
		} else {
			v, err := schema.DefaultOf(et)
			if err != nil {
				return schema.Value{}, wire.ErrMissingFieldNoDefault
			}
			values[i] = v
		}
	}

	if err := skipToBodyEnd(r, start, bodyLen); err != nil {
		return schema.Value{}, err
	}
	return schema.Value{Kind: resultKind, Elems: values}, nil
}

// readHTuple implements the list/array reader: a body length, an
// explicit element count, then that many elements of a single element
// type. A zero ENUM prefix is the sentinel for an entirely absent list/
// array; it substitutes the empty-list/array default rather than
// erroring.
func readHTuple(r ioreader.Reader, resultKind schema.Kind, elem schema.Type, ctx Context) (schema.Value, error) {
	prefix, err := r.ReadPrefix()
	if err != nil {
		return schema.Value{}, err
	}
	if prefix.Wire == wire.Enum && prefix.Tag == 0 {
		return schema.Value{Kind: resultKind, Elems: nil}, nil
	}
	if prefix.Wire != wire.HTuple {
		return schema.Value{}, wire.ErrBadWireType
	}

	bodyLen, err := r.ReadVint()
	if err != nil {
		return schema.Value{}, err
	}
	start := r.BytesRead()

	count, err := r.ReadVint()
	if err != nil {
		return schema.Value{}, err
	}

	values := make([]schema.Value, 0, count)
	for i := uint64(0); i < count; i++ {
		child, err := ctx.Child("item")
		if err != nil {
			return schema.Value{}, err
		}
		v, err := Read(r, elem, child)
		if err != nil {
			return schema.Value{}, err
		}
		values = append(values, v)
	}

	if err := skipToBodyEnd(r, start, bodyLen); err != nil {
		return schema.Value{}, err
	}
	return schema.Value{Kind: resultKind, Elems: values}, nil
}

// readSum implements the sum/message-sum reader: the prefix tag selects
// the constructor; ENUM wire means a constant constructor
// (no payload), TUPLE wire means the constructor's field tuple follows.
func readSum(r ioreader.Reader, resultKind schema.Kind, ctors []schema.Constructor, ctx Context) (schema.Value, error) {
	prefix, err := r.ReadPrefix()
	if err != nil {
		return schema.Value{}, err
	}

	ctor, ok := schema.ConstructorByTag(ctors, prefix.Tag)
	if !ok {
		return schema.Value{}, wire.ErrUnknownTag
	}

	if ctor.Constant {
		if prefix.Wire != wire.Enum {
			return schema.Value{}, wire.ErrBadWireType
		}
		return schema.Value{Kind: resultKind, Tag: ctor.Tag}, nil
	}

	if prefix.Wire != wire.Tuple {
		return schema.Value{}, wire.ErrBadWireType
	}

	bodyLen, err := r.ReadVint()
	if err != nil {
		return schema.Value{}, err
	}
	start := r.BytesRead()

	presentCount, err := r.ReadVint()
	if err != nil {
		return schema.Value{}, err
	}

	values := make([]schema.Value, len(ctor.Fields))
	for i, ft := range ctor.Fields {
		if uint64(i) < presentCount {
			child, err := ctx.Child("field")
			if err != nil {
				return schema.Value{}, err
			}
			v, err := Read(r, ft, child)
			if err != nil {
				return schema.Value{}, err
			}
			values[i] = v
		} else {
			v, err := schema.DefaultOf(ft)
			if err != nil {
				return schema.Value{}, wire.ErrMissingFieldNoDefault
			}
			values[i] = v
		}
	}

	if err := skipToBodyEnd(r, start, bodyLen); err != nil {
		return schema.Value{}, err
	}
	return schema.Value{Kind: resultKind, Tag: ctor.Tag, Elems: values}, nil
}

func skipToBodyEnd(r ioreader.Reader, bodyStart int64, bodyLen uint64) error {
	consumed := r.BytesRead() - bodyStart
	remaining := int64(bodyLen) - consumed
	if remaining < 0 {
		return wire.ErrOverflow
	}
	if remaining > 0 {
		return r.Skip(int(remaining))
	}
	return nil
}
