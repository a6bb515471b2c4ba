// Package ioreader implements the two cursor abstractions the extprot
// runtime reads values through: StringReader over an in-memory byte
// range, and IOReader over a blocking byte stream. Both satisfy the same
// Reader interface.
package ioreader

import "github.com/danmuck/extprot/wire"

// Reader is the shared cursor contract StringReader and IOReader both
// implement. Every read either returns exactly the requested bytes or an
// error; there is no short read.
type Reader interface {
	// ReadPrefix consumes one varint and splits it into (tag, wire type).
	// It fails with wire.ErrBadWireType if the wire-type nibble is the
	// reserved sentinel.
	ReadPrefix() (wire.Prefix, error)

	ReadVint() (uint64, error)
	ReadSignedVint() (int64, error)

	ReadBits8() (byte, error)
	ReadBits32() (uint32, error)
	ReadBits64() (uint64, error)

	// ReadBytes returns exactly n bytes.
	ReadBytes(n int) ([]byte, error)

	// Skip discards exactly n raw bytes without interpreting them.
	Skip(n int) error

	// SkipValue discards one whole value given its already-read prefix.
	SkipValue(p wire.Prefix) error

	// BytesRead reports the number of bytes consumed so far from this
	// reader's logical start. It gives O(1) position tracking for
	// StringReader and a running counter for IOReader.
	BytesRead() int64
}

// skipValue implements the shared skip discipline, driven only by the
// interface above so both reader kinds share one implementation.
func skipValue(r Reader, p wire.Prefix) error {
	switch p.Wire {
	case wire.VInt:
		_, err := r.ReadVint()
		return err
	case wire.Enum:
		return nil
	case wire.Bits8:
		return r.Skip(1)
	case wire.Bits32:
		return r.Skip(4)
	case wire.Bits64Long, wire.Bits64Float:
		return r.Skip(8)
	case wire.Tuple, wire.HTuple, wire.Bytes, wire.Assoc:
		n, err := r.ReadVint()
		if err != nil {
			return err
		}
		return r.Skip(int(n))
	default:
		return wire.ErrBadWireType
	}
}
