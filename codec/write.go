package codec

import (
	"fmt"
	"math"

	"github.com/danmuck/extprot/buffer"
	"github.com/danmuck/extprot/schema"
	"github.com/danmuck/extprot/wire"
)

// Write encodes v — which must have been produced for type t, by Read or
// by a caller building schema.Value literals by hand — emitting
// prefix;[length;[count;]]body. Tuple, record, list and
// array writers materialize their body into a scratch MsgBuffer first so
// the length prefix is known before the outer prefix is flushed. Writers
// always emit the declared arity; extension is a schema-level operation,
// not a runtime one.
func Write(buf *buffer.MsgBuffer, t schema.Type, v schema.Value) error {
	switch t.Kind {
	case schema.KindBool, schema.KindByte, schema.KindInt, schema.KindLong, schema.KindFloat, schema.KindString:
		return writePrimitive(buf, t, v)
	case schema.KindTuple:
		return writeTupleLike(buf, 0, t.Elems, v.Elems)
	case schema.KindRecord:
		elemTypes := make([]schema.Type, len(t.Fields))
		for i, f := range t.Fields {
			elemTypes[i] = f.Type
		}
		return writeTupleLike(buf, 0, elemTypes, v.Elems)
	case schema.KindList, schema.KindArray:
		return writeHTuple(buf, *t.Elem, v.Elems)
	case schema.KindSum, schema.KindMessageSum:
		return writeSum(buf, t.Ctors, v)
	default:
		return wire.ErrBadWireType
	}
}

func writePrimitive(buf *buffer.MsgBuffer, t schema.Type, v schema.Value) error {
	w := canonicalWire(t.Kind)
	buf.AddVint(wire.Prefix{Tag: 0, Wire: w}.Encode())
	switch t.Kind {
	case schema.KindBool:
		b := byte(0)
		if v.Bool {
			b = 1
		}
		buf.AddByte(b)
	case schema.KindByte:
		buf.AddByte(v.Byte)
	case schema.KindInt:
		if v.Int < math.MinInt32 || v.Int > math.MaxInt32 {
			return wire.ErrOverflow
		}
		buf.AddSignedVint(v.Int)
	case schema.KindLong:
		buf.AddFixedI64LE(wire.ZigZag(v.Int))
	case schema.KindFloat:
		buf.AddFixedFloat64LE(v.Float)
	case schema.KindString:
		buf.AddRawBytesWithLengthPrefix(v.Str)
	default:
		return fmt.Errorf("extprot: %s is not a primitive kind", t.Kind)
	}
	return nil
}

func writeTupleLike(buf *buffer.MsgBuffer, tag int, declared []schema.Type, elems []schema.Value) error {
	if len(elems) != len(declared) {
		return fmt.Errorf("extprot: tuple arity mismatch: declared %d, got %d", len(declared), len(elems))
	}
	buf.AddVint(wire.Prefix{Tag: tag, Wire: wire.Tuple}.Encode())

	var writeErr error
	buf.WriteLengthPrefixed(func(scratch *buffer.MsgBuffer) {
		scratch.AddVint(uint64(len(declared)))
		for i, et := range declared {
			if writeErr != nil {
				return
			}
			writeErr = Write(scratch, et, elems[i])
		}
	})
	return writeErr
}

func writeHTuple(buf *buffer.MsgBuffer, elem schema.Type, elems []schema.Value) error {
	buf.AddVint(wire.Prefix{Tag: 0, Wire: wire.HTuple}.Encode())

	var writeErr error
	buf.WriteLengthPrefixed(func(scratch *buffer.MsgBuffer) {
		scratch.AddVint(uint64(len(elems)))
		for _, v := range elems {
			if writeErr != nil {
				return
			}
			writeErr = Write(scratch, elem, v)
		}
	})
	return writeErr
}

func writeSum(buf *buffer.MsgBuffer, ctors []schema.Constructor, v schema.Value) error {
	ctor, ok := schema.ConstructorByTag(ctors, v.Tag)
	if !ok {
		return wire.ErrUnknownTag
	}
	if ctor.Constant {
		buf.AddVint(wire.Prefix{Tag: ctor.Tag, Wire: wire.Enum}.Encode())
		return nil
	}
	return writeTupleLike(buf, ctor.Tag, ctor.Fields, v.Elems)
}
