package ioreader

import (
	"encoding/binary"

	"github.com/danmuck/extprot/wire"
)

// StringReader is a cursor over an in-memory byte range. Position queries
// are O(1) and the cursor can be rewound with Rewind; the codec's
// tuple/htuple readers compute body-remainder skips from BytesRead and
// Skip only, so they work the same over an IOReader.
type StringReader struct {
	data []byte
	pos  int
	end  int
}

// NewStringReader wraps data[0:len(data)].
func NewStringReader(data []byte) *StringReader {
	return &StringReader{data: data, end: len(data)}
}

// Pos returns the current offset into the original byte slice.
func (r *StringReader) Pos() int64 { return int64(r.pos) }

// Rewind resets the cursor to a previously observed position.
func (r *StringReader) Rewind(pos int64) { r.pos = int(pos) }

// Remaining reports how many bytes are left to read.
func (r *StringReader) Remaining() int { return r.end - r.pos }

// AtEnd reports whether the cursor has consumed the whole range.
func (r *StringReader) AtEnd() bool { return r.pos >= r.end }

func (r *StringReader) BytesRead() int64 { return int64(r.pos) }

func (r *StringReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.pos+n > r.end {
		return nil, wire.ErrEndOfInput
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out, nil
}

func (r *StringReader) Skip(n int) error {
	if n < 0 || r.pos+n > r.end {
		return wire.ErrEndOfInput
	}
	r.pos += n
	return nil
}

func (r *StringReader) ReadVint() (uint64, error) {
	v, n := binary.Uvarint(r.data[r.pos:r.end])
	switch {
	case n > 0:
		r.pos += n
		return v, nil
	case n == 0:
		return 0, wire.ErrEndOfInput
	default:
		return 0, wire.ErrOverflow
	}
}

func (r *StringReader) ReadSignedVint() (int64, error) {
	u, err := r.ReadVint()
	if err != nil {
		return 0, err
	}
	return wire.UnZigZag(u), nil
}

func (r *StringReader) ReadPrefix() (wire.Prefix, error) {
	v, err := r.ReadVint()
	if err != nil {
		return wire.Prefix{}, err
	}
	p := wire.DecodePrefix(v)
	if p.Wire == wire.InvalidType {
		return wire.Prefix{}, wire.ErrBadWireType
	}
	return p, nil
}

func (r *StringReader) ReadBits8() (byte, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *StringReader) ReadBits32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *StringReader) ReadBits64() (uint64, error) {
	b, err := r.ReadBytes(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *StringReader) SkipValue(p wire.Prefix) error {
	return skipValue(r, p)
}
