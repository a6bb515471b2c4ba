package versioning

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/extprot/buffer"
	"github.com/danmuck/extprot/ioreader"
	"github.com/danmuck/extprot/schema"
	"github.com/danmuck/extprot/wire"
)

func demoTable() []Codec {
	return []Codec{
		TypeCodec(schema.Int()),
		TypeCodec(schema.String()),
	}
}

func TestSerializeVersionedStartsWithLittleEndianTag(t *testing.T) {
	fs := demoTable()
	data, err := SerializeVersioned(fs, 1, schema.StringValue("hi"), nil)
	if err != nil {
		t.Fatalf("SerializeVersioned: %v", err)
	}
	if data[0] != 0x01 || data[1] != 0x00 {
		t.Fatalf("expected version tag 0x01 0x00, got %x %x", data[0], data[1])
	}

	got, err := DeserializeVersioned(fs, data)
	if err != nil {
		t.Fatalf("DeserializeVersioned: %v", err)
	}
	if string(got.Str) != "hi" {
		t.Fatalf("expected %q, got %q", "hi", got.Str)
	}
}

func TestDeserializeVersionedUnknownVersionFailsWithoutReadingBody(t *testing.T) {
	fs := make([]Codec, 2)
	copy(fs, demoTable())
	data := []byte{0x05, 0x00, 0xFF, 0xFF, 0xFF} // payload must never be touched

	_, err := DeserializeVersioned(fs, data)
	var wpv wire.WrongProtocolVersion
	if !errors.As(err, &wpv) {
		t.Fatalf("expected WrongProtocolVersion, got %v", err)
	}
	if wpv.MaxKnown != 2 || wpv.Found != 5 {
		t.Fatalf("unexpected WrongProtocolVersion: %+v", wpv)
	}
}

func TestDeserializeVersionedShortBlobFailsWithWrongProtocolVersion(t *testing.T) {
	fs := demoTable()

	_, err := DeserializeVersioned(fs, []byte{0x01})
	var wpv wire.WrongProtocolVersion
	if !errors.As(err, &wpv) {
		t.Fatalf("expected WrongProtocolVersion, got %v", err)
	}
	if wpv.MaxKnown != len(fs) || wpv.Found != 0 {
		t.Fatalf("unexpected WrongProtocolVersion: %+v", wpv)
	}
}

func TestDeserializeVersionedAtExplicitVersionSkipsTagParsing(t *testing.T) {
	fs := demoTable()
	buf := buffer.New()
	if err := fs[0].Write(buf, schema.IntValue(9)); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err := DeserializeVersionedAt(fs, 0, buf.Contents())
	if err != nil {
		t.Fatalf("DeserializeVersionedAt: %v", err)
	}
	if got.Int != 9 {
		t.Fatalf("expected 9, got %d", got.Int)
	}
}

func TestSerializeVersionedRejectsOutOfRangeVersion(t *testing.T) {
	fs := demoTable()
	if _, err := SerializeVersioned(fs, len(fs), schema.IntValue(1), nil); !errors.Is(err, wire.ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion, got %v", err)
	}
	if _, err := SerializeVersioned(fs, -1, schema.IntValue(1), nil); !errors.Is(err, wire.ErrInvalidVersion) {
		t.Fatalf("expected ErrInvalidVersion for negative version, got %v", err)
	}
}

func TestWriteVersionedThenReadVersionedRoundTrips(t *testing.T) {
	fs := demoTable()
	var stream bytes.Buffer
	if err := WriteVersioned(&stream, fs, 1, schema.StringValue("external"), nil); err != nil {
		t.Fatalf("WriteVersioned: %v", err)
	}

	r := ioreader.NewIOReader(&stream)
	got, err := ReadVersioned(r, fs)
	if err != nil {
		t.Fatalf("ReadVersioned: %v", err)
	}
	if string(got.Str) != "external" {
		t.Fatalf("expected %q, got %q", "external", got.Str)
	}
}

func TestReadVersionedUnknownVersionPreservesStreamAlignment(t *testing.T) {
	fs := demoTable()

	var stream bytes.Buffer
	// Frame 1: an unknown version (5) whose body must be skipped wholesale.
	// Top-level frames are always TUPLE-wire, so the unknown writer's
	// type must be a tuple, not a bare primitive.
	unknownVersionTable := []Codec{{}, {}, {}, {}, {}, TypeCodec(schema.TupleOf(schema.Int()))}
	if err := WriteVersioned(&stream, unknownVersionTable, 5, schema.TupleValue(schema.IntValue(42)), nil); err != nil {
		t.Fatalf("WriteVersioned: %v", err)
	}
	// Frame 2: a known version that must still be readable afterward.
	if err := WriteVersioned(&stream, fs, 0, schema.IntValue(7), nil); err != nil {
		t.Fatalf("WriteVersioned: %v", err)
	}

	r := ioreader.NewIOReader(&stream)

	_, err := ReadVersioned(r, fs) // fs only knows versions 0-1; frame 1 claims version 5
	var wpv wire.WrongProtocolVersion
	if !errors.As(err, &wpv) {
		t.Fatalf("expected WrongProtocolVersion for frame 1, got %v", err)
	}

	got, err := ReadVersioned(r, fs)
	if err != nil {
		t.Fatalf("ReadVersioned for frame 2: %v", err)
	}
	if got.Int != 7 {
		t.Fatalf("expected 7, got %d", got.Int)
	}
}
