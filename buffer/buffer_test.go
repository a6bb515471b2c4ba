package buffer

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"
)

func TestAddVintMatchesStdlibUvarint(t *testing.T) {
	values := []uint64{0, 1, 127, 128, 300, 1 << 40, math.MaxUint64}
	for _, v := range values {
		b := New()
		b.AddVint(v)

		want := make([]byte, binary.MaxVarintLen64)
		n := binary.PutUvarint(want, v)
		if !bytes.Equal(b.Contents(), want[:n]) {
			t.Fatalf("AddVint(%d): got %x, want %x", v, b.Contents(), want[:n])
		}
	}
}

func TestAddSignedVintZigZags(t *testing.T) {
	b := New()
	b.AddSignedVint(-1)
	got, n := binary.Uvarint(b.Contents())
	if n <= 0 {
		t.Fatalf("failed to decode varint")
	}
	if got != 1 {
		t.Fatalf("zig-zag(-1) should be 1, got %d", got)
	}
}

func TestClearRetainsAllocation(t *testing.T) {
	b := New()
	b.AddBytes(make([]byte, 64))
	cap1 := cap(b.Contents())
	b.Clear()
	if b.Len() != 0 {
		t.Fatalf("expected empty buffer after clear")
	}
	b.AddByte(1)
	if cap(b.Contents()) < cap1 {
		t.Fatalf("expected clear to retain backing allocation")
	}
}

func TestWriteLengthPrefixed(t *testing.T) {
	b := New()
	b.WriteLengthPrefixed(func(scratch *MsgBuffer) {
		scratch.AddBytes([]byte("hi"))
	})

	length, n := binary.Uvarint(b.Contents())
	if n <= 0 {
		t.Fatalf("failed to decode length prefix")
	}
	if length != 2 {
		t.Fatalf("expected length 2, got %d", length)
	}
	if !bytes.Equal(b.Contents()[n:], []byte("hi")) {
		t.Fatalf("unexpected body: %q", b.Contents()[n:])
	}
}

func TestAddFixedFloat64LE(t *testing.T) {
	b := New()
	b.AddFixedFloat64LE(3.5)
	bits := binary.LittleEndian.Uint64(b.Contents())
	if math.Float64frombits(bits) != 3.5 {
		t.Fatalf("expected 3.5, got %v", math.Float64frombits(bits))
	}
}
