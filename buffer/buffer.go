// Package buffer implements MsgBuffer, the append-only byte accumulator
// every writer in the extprot runtime builds its output into.
package buffer

import (
	"encoding/binary"
	"math"

	"github.com/danmuck/extprot/wire"
)

// MsgBuffer is an append-only byte accumulator with the primitive-encoding
// helpers the writer discipline is built from. It is single-owned for the
// duration of a call; a caller may reuse one across serialize calls, which
// clears it on entry and retains its allocation after return.
type MsgBuffer struct {
	buf []byte
}

// New returns an empty MsgBuffer.
func New() *MsgBuffer {
	return &MsgBuffer{}
}

// Clear resets the buffer to empty without releasing its backing array.
func (b *MsgBuffer) Clear() {
	b.buf = b.buf[:0]
}

// Contents returns the accumulated bytes. The slice aliases the buffer's
// backing array; callers that retain it across a subsequent write must
// copy it first.
func (b *MsgBuffer) Contents() []byte {
	return b.buf
}

// Len reports the number of bytes accumulated so far.
func (b *MsgBuffer) Len() int {
	return len(b.buf)
}

// AddByte appends a single byte.
func (b *MsgBuffer) AddByte(v byte) {
	b.buf = append(b.buf, v)
}

// AddBytes appends raw bytes verbatim, with no length prefix.
func (b *MsgBuffer) AddBytes(v []byte) {
	b.buf = append(b.buf, v...)
}

// AddRawBytesWithLengthPrefix appends a varint byte count followed by the
// bytes themselves. This is the BYTES/HTUPLE/TUPLE body-length discipline.
func (b *MsgBuffer) AddRawBytesWithLengthPrefix(v []byte) {
	b.AddVint(uint64(len(v)))
	b.AddBytes(v)
}

// AddVint appends n as a base-128 little-endian varint (7 payload bits per
// byte, high bit set on every byte but the last).
func (b *MsgBuffer) AddVint(n uint64) {
	b.buf = binary.AppendUvarint(b.buf, n)
}

// AddSignedVint zig-zag encodes n, then appends it as a varint.
func (b *MsgBuffer) AddSignedVint(n int64) {
	b.AddVint(wire.ZigZag(n))
}

// AddFixedI32LE appends a 4-byte little-endian word.
func (b *MsgBuffer) AddFixedI32LE(n uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], n)
	b.buf = append(b.buf, tmp[:]...)
}

// AddFixedI64LE appends an 8-byte little-endian word.
func (b *MsgBuffer) AddFixedI64LE(n uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], n)
	b.buf = append(b.buf, tmp[:]...)
}

// AddFixedFloat64LE appends an IEEE-754 double as 8 little-endian bytes.
func (b *MsgBuffer) AddFixedFloat64LE(f float64) {
	b.AddFixedI64LE(math.Float64bits(f))
}

// WriteLengthPrefixed materializes bodyFn's output into a scratch buffer,
// then appends the scratch length as a varint followed by the scratch
// bytes. Tuple, htuple and record writers use this to know a composite
// body's length before its outer prefix is flushed.
func (b *MsgBuffer) WriteLengthPrefixed(bodyFn func(*MsgBuffer)) {
	scratch := New()
	bodyFn(scratch)
	b.AddVint(uint64(scratch.Len()))
	b.AddBytes(scratch.Contents())
}
