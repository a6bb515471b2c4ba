package ioreader

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/extprot/buffer"
	"github.com/danmuck/extprot/wire"
)

func encodedTuple(t *testing.T, elems ...func(*buffer.MsgBuffer)) []byte {
	t.Helper()
	b := buffer.New()
	b.AddVint(wire.Prefix{Tag: 0, Wire: wire.Tuple}.Encode())
	b.WriteLengthPrefixed(func(scratch *buffer.MsgBuffer) {
		scratch.AddVint(uint64(len(elems)))
		for _, e := range elems {
			e(scratch)
		}
	})
	return b.Contents()
}

func TestStringReaderPrefixAndVint(t *testing.T) {
	b := buffer.New()
	b.AddVint(wire.Prefix{Tag: 5, Wire: wire.VInt}.Encode())
	b.AddSignedVint(-42)

	r := NewStringReader(b.Contents())
	p, err := r.ReadPrefix()
	if err != nil {
		t.Fatalf("read prefix: %v", err)
	}
	if p.Tag != 5 || p.Wire != wire.VInt {
		t.Fatalf("unexpected prefix: %+v", p)
	}
	v, err := r.ReadSignedVint()
	if err != nil {
		t.Fatalf("read signed vint: %v", err)
	}
	if v != -42 {
		t.Fatalf("expected -42, got %d", v)
	}
	if !r.AtEnd() {
		t.Fatalf("expected reader exhausted")
	}
}

func TestStringReaderBadWireType(t *testing.T) {
	b := buffer.New()
	b.AddVint(wire.Prefix{Tag: 0, Wire: wire.InvalidType}.Encode())
	r := NewStringReader(b.Contents())
	if _, err := r.ReadPrefix(); !errors.Is(err, wire.ErrBadWireType) {
		t.Fatalf("expected ErrBadWireType, got %v", err)
	}
}

func TestStringReaderEndOfInput(t *testing.T) {
	r := NewStringReader([]byte{0x80})
	if _, err := r.ReadVint(); !errors.Is(err, wire.ErrEndOfInput) {
		t.Fatalf("expected ErrEndOfInput, got %v", err)
	}
}

func TestSkipValueConsumesExactBytes(t *testing.T) {
	data := encodedTuple(t,
		func(b *buffer.MsgBuffer) {
			b.AddVint(wire.Prefix{Wire: wire.VInt}.Encode())
			b.AddSignedVint(7)
		},
		func(b *buffer.MsgBuffer) {
			b.AddVint(wire.Prefix{Wire: wire.Bytes}.Encode())
			b.AddRawBytesWithLengthPrefix([]byte("hi"))
		},
	)

	r := NewStringReader(data)
	prefix, err := r.ReadPrefix()
	if err != nil {
		t.Fatalf("read prefix: %v", err)
	}
	if err := r.SkipValue(prefix); err != nil {
		t.Fatalf("skip value: %v", err)
	}
	if r.BytesRead() != int64(len(data)) {
		t.Fatalf("skip should consume exactly %d bytes, consumed %d", len(data), r.BytesRead())
	}
}

func TestIOReaderMatchesStringReader(t *testing.T) {
	data := encodedTuple(t, func(b *buffer.MsgBuffer) {
		b.AddVint(wire.Prefix{Wire: wire.Bits32}.Encode())
		b.AddFixedI32LE(0xdeadbeef)
	})

	sr := NewStringReader(data)
	sp, err := sr.ReadPrefix()
	if err != nil {
		t.Fatalf("string reader prefix: %v", err)
	}

	ir := NewIOReader(bytes.NewReader(data))
	ip, err := ir.ReadPrefix()
	if err != nil {
		t.Fatalf("io reader prefix: %v", err)
	}
	if sp != ip {
		t.Fatalf("prefixes diverge: %+v vs %+v", sp, ip)
	}
}

func TestIOReaderReadMessageRoundTrips(t *testing.T) {
	data := encodedTuple(t, func(b *buffer.MsgBuffer) {
		b.AddVint(wire.Prefix{Wire: wire.VInt}.Encode())
		b.AddSignedVint(9)
	})

	ir := NewIOReader(bytes.NewReader(data))
	raw, prefix, err := ir.ReadMessage()
	if err != nil {
		t.Fatalf("read message: %v", err)
	}
	if prefix.Wire != wire.Tuple {
		t.Fatalf("expected TUPLE prefix, got %v", prefix.Wire)
	}
	if !bytes.Equal(raw, data) {
		t.Fatalf("read message did not capture exact bytes: got %x want %x", raw, data)
	}
}

func TestIOReaderEndOfInput(t *testing.T) {
	ir := NewIOReader(bytes.NewReader(nil))
	if _, err := ir.ReadBits8(); !errors.Is(err, wire.ErrEndOfInput) {
		t.Fatalf("expected ErrEndOfInput, got %v", err)
	}
}
