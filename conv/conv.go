// Package conv exposes the stable entry points every generated (or, in
// this repository, schema.Type-driven) reader/writer pair is built on:
// serialize/deserialize over in-memory bytes, read/write over a blocking
// IO channel, their versioned counterparts, and read_frame for
// downstream dispatch without decoding. This is the only core surface a
// caller needs, and is meant to be the sole programmatic surface a
// caller depends on.
package conv

import (
	"encoding/binary"
	"io"
	"time"

	"github.com/danmuck/extprot/buffer"
	"github.com/danmuck/extprot/codec"
	"github.com/danmuck/extprot/internal/logging"
	"github.com/danmuck/extprot/internal/metrics"
	"github.com/danmuck/extprot/ioreader"
	"github.com/danmuck/extprot/schema"
	"github.com/danmuck/extprot/versioning"
	"github.com/danmuck/extprot/wire"
)

// WriterFunc and ReaderFunc mirror versioning's — the shape of one
// schema type's writer/reader pair, whether generated or, here, a
// closure over codec.Write/codec.Read for a concrete schema.Type.
type WriterFunc func(buf *buffer.MsgBuffer, v schema.Value) error
type ReaderFunc func(r ioreader.Reader, ctx codec.Context) (schema.Value, error)

// TypeWriter and TypeReader adapt a schema.Type into the WriterFunc/
// ReaderFunc shape via the generic codec interpreter.
func TypeWriter(t schema.Type) WriterFunc {
	return func(buf *buffer.MsgBuffer, v schema.Value) error { return codec.Write(buf, t, v) }
}

func TypeReader(t schema.Type) ReaderFunc {
	return func(r ioreader.Reader, ctx codec.Context) (schema.Value, error) { return codec.Read(r, t, ctx) }
}

// finish records one conv operation's outcome and duration to
// internal/metrics, and logs a debug event via internal/logging when it
// failed. It mirrors the RecordHTTPRequest/RequestLogger pairing used
// for HTTP handlers, applied to codec calls instead — pure
// observability, it never changes what the caller gets back.
func finish(op string, start time.Time, err error) {
	metrics.RecordConvOperation(op, metrics.Outcome(err), time.Since(start))
	if err != nil {
		logger := logging.Logger()
		logger.Debug().Str("op", op).Err(err).Msg("conv operation failed")
	}
}

// Serialize runs writer against value into buf (cleared on entry, reused
// if non-nil), and returns the accumulated bytes as a fresh, unaliased
// copy.
func Serialize(writer WriterFunc, value schema.Value, buf *buffer.MsgBuffer) ([]byte, error) {
	start := time.Now()
	if buf == nil {
		buf = buffer.New()
	} else {
		buf.Clear()
	}
	if err := writer(buf, value); err != nil {
		finish("serialize", start, err)
		return nil, err
	}
	out := make([]byte, buf.Len())
	copy(out, buf.Contents())
	finish("serialize", start, nil)
	return out, nil
}

// Deserialize wraps data (from offset) in a StringReader and runs
// reader over it. A top-level decode is expected to be exhaustive; any
// bytes left over once reader returns fail with ErrExtraDataAfterValue.
func Deserialize(reader ReaderFunc, data []byte, offset int) (schema.Value, error) {
	start := time.Now()
	r := ioreader.NewStringReader(data[offset:])
	v, err := reader(r, codec.NewContext())
	if err != nil {
		finish("deserialize", start, err)
		return schema.Value{}, err
	}
	if !r.AtEnd() {
		finish("deserialize", start, wire.ErrExtraDataAfterValue)
		return schema.Value{}, wire.ErrExtraDataAfterValue
	}
	finish("deserialize", start, nil)
	return v, nil
}

// Read runs reader against a blocking ioreader.IOReader wrapping src.
func Read(reader ReaderFunc, src io.Reader) (schema.Value, error) {
	start := time.Now()
	r := ioreader.NewIOReader(src)
	v, err := reader(r, codec.NewContext())
	finish("read", start, err)
	return v, err
}

// Write runs writer against value into buf, then flushes the result to
// w. buf follows the same reuse contract as Serialize.
func Write(writer WriterFunc, w io.Writer, value schema.Value, buf *buffer.MsgBuffer) error {
	start := time.Now()
	data, err := Serialize(writer, value, buf)
	if err != nil {
		finish("write", start, err)
		return err
	}
	_, err = w.Write(data)
	finish("write", start, err)
	return err
}

// SerializeVersioned, DeserializeVersioned, DeserializeVersionedAt,
// WriteVersioned and ReadVersioned forward to the versioning package —
// conv's job is to be the single stable, instrumented facade a caller
// depends on, not to re-implement the versioned framing.

func SerializeVersioned(fs []versioning.Codec, v int, x schema.Value, buf *buffer.MsgBuffer) ([]byte, error) {
	start := time.Now()
	data, err := versioning.SerializeVersioned(fs, v, x, buf)
	finish("serialize_versioned", start, err)
	return data, err
}

func DeserializeVersioned(fs []versioning.Codec, data []byte) (schema.Value, error) {
	start := time.Now()
	v, err := versioning.DeserializeVersioned(fs, data)
	finish("deserialize_versioned", start, err)
	return v, err
}

func DeserializeVersionedAt(fs []versioning.Codec, v int, data []byte) (schema.Value, error) {
	start := time.Now()
	result, err := versioning.DeserializeVersionedAt(fs, v, data)
	finish("deserialize_versioned_at", start, err)
	return result, err
}

func WriteVersioned(w io.Writer, fs []versioning.Codec, v int, x schema.Value, buf *buffer.MsgBuffer) error {
	start := time.Now()
	err := versioning.WriteVersioned(w, fs, v, x, buf)
	finish("write_versioned", start, err)
	return err
}

func ReadVersioned(r *ioreader.IOReader, fs []versioning.Codec) (schema.Value, error) {
	start := time.Now()
	v, err := versioning.ReadVersioned(r, fs)
	finish("read_versioned", start, err)
	return v, err
}

// ReadFrame reads one versioned frame's tag and raw message bytes
// without decoding, for a caller that wants to dispatch on version
// before committing to a full structural decode.
func ReadFrame(r *ioreader.IOReader) (int, []byte, error) {
	start := time.Now()
	tagBytes, err := r.ReadBytes(2)
	if err != nil {
		finish("read_frame", start, err)
		return 0, nil, err
	}
	v := int(binary.LittleEndian.Uint16(tagBytes))
	raw, _, err := r.ReadMessage()
	finish("read_frame", start, err)
	if err != nil {
		return 0, nil, err
	}
	return v, raw, nil
}
