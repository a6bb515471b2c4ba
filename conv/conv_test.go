package conv

import (
	"bytes"
	"errors"
	"testing"

	"github.com/danmuck/extprot/buffer"
	"github.com/danmuck/extprot/ioreader"
	"github.com/danmuck/extprot/schema"
	"github.com/danmuck/extprot/versioning"
	"github.com/danmuck/extprot/wire"
)

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	rec := schema.RecordOf(
		schema.Field{Name: "a", Type: schema.Int()},
		schema.Field{Name: "b", Type: schema.String()},
	)
	value := schema.RecordValue(schema.IntValue(7), schema.StringValue("hi"))

	data, err := Serialize(TypeWriter(rec), value, nil)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	got, err := Deserialize(TypeReader(rec), data, 0)
	if err != nil {
		t.Fatalf("Deserialize: %v", err)
	}
	if got.Elems[0].Int != 7 || string(got.Elems[1].Str) != "hi" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestDeserializeRejectsExtraData(t *testing.T) {
	data, err := Serialize(TypeWriter(schema.TupleOf(schema.Int())), schema.TupleValue(schema.IntValue(1)), nil)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	data = append(data, 0xFF) // trailing garbage after a supposedly exhaustive top-level value

	if _, err := Deserialize(TypeReader(schema.TupleOf(schema.Int())), data, 0); !errors.Is(err, wire.ErrExtraDataAfterValue) {
		t.Fatalf("expected ErrExtraDataAfterValue, got %v", err)
	}
}

func TestWriteReadRoundTripOverIOChannel(t *testing.T) {
	var stream bytes.Buffer
	value := schema.TupleValue(schema.StringValue("streamed"))
	typ := schema.TupleOf(schema.String())

	if err := Write(TypeWriter(typ), &stream, value, nil); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := Read(TypeReader(typ), &stream)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got.Elems[0].Str) != "streamed" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestBufferReuseAcrossCalls(t *testing.T) {
	buf := buffer.New()
	typ := schema.Int()

	first, err := Serialize(TypeWriter(typ), schema.IntValue(1), buf)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	second, err := Serialize(TypeWriter(typ), schema.IntValue(2), buf)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Fatalf("expected reused buffer to not alias stale results")
	}
	if first[len(first)-1] == second[len(second)-1] {
		t.Fatalf("expected distinct encoded values: %x vs %x", first, second)
	}
}

func TestConvVersionedFacadeForwardsToVersioningPackage(t *testing.T) {
	fs := []versioning.Codec{versioning.TypeCodec(schema.Int())}

	data, err := SerializeVersioned(fs, 0, schema.IntValue(3), nil)
	if err != nil {
		t.Fatalf("SerializeVersioned: %v", err)
	}
	got, err := DeserializeVersioned(fs, data)
	if err != nil {
		t.Fatalf("DeserializeVersioned: %v", err)
	}
	if got.Int != 3 {
		t.Fatalf("expected 3, got %d", got.Int)
	}

	got2, err := DeserializeVersionedAt(fs, 0, data[2:])
	if err != nil {
		t.Fatalf("DeserializeVersionedAt: %v", err)
	}
	if got2.Int != 3 {
		t.Fatalf("expected 3, got %d", got2.Int)
	}
}

func TestReadFrameReturnsVersionAndRawBytesWithoutDecoding(t *testing.T) {
	fs := []versioning.Codec{versioning.TypeCodec(schema.TupleOf(schema.Int()))}
	var stream bytes.Buffer
	if err := WriteVersioned(&stream, fs, 0, schema.TupleValue(schema.IntValue(11)), nil); err != nil {
		t.Fatalf("WriteVersioned: %v", err)
	}

	r := ioreader.NewIOReader(&stream)
	v, raw, err := ReadFrame(r)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if v != 0 {
		t.Fatalf("expected version 0, got %d", v)
	}
	if len(raw) == 0 {
		t.Fatalf("expected non-empty raw message bytes")
	}

	got, err := Deserialize(TypeReader(schema.TupleOf(schema.Int())), raw, 0)
	if err != nil {
		t.Fatalf("Deserialize raw frame: %v", err)
	}
	if got.Elems[0].Int != 11 {
		t.Fatalf("expected 11, got %d", got.Elems[0].Int)
	}
}
