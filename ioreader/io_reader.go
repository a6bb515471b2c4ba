package ioreader

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/danmuck/extprot/wire"
)

// IOReader is a cursor over a blocking byte stream. It loops on short
// reads until the requested count is satisfied or the stream is
// exhausted, at which point it fails with wire.ErrEndOfInput. It never
// resumes mid-value across calls; a partially read frame poisons the
// stream, per the runtime's non-resumable contract.
type IOReader struct {
	src   *bufio.Reader
	read  int64
	rec   *[]byte
	inbuf []byte
}

// NewIOReader wraps src with an internal buffered region.
func NewIOReader(src io.Reader) *IOReader {
	return &IOReader{src: bufio.NewReader(src)}
}

func (r *IOReader) BytesRead() int64 { return r.read }

// readN performs the blocking read-until-satisfied loop and, when a
// recording is active (see ReadMessage), mirrors every byte read into the
// recording buffer.
func (r *IOReader) readN(n int) ([]byte, error) {
	if n == 0 {
		return nil, nil
	}
	if cap(r.inbuf) < n {
		r.inbuf = make([]byte, n)
	}
	buf := r.inbuf[:n]
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return nil, wire.ErrEndOfInput
	}
	r.read += int64(n)
	if r.rec != nil {
		*r.rec = append(*r.rec, buf...)
	}
	out := make([]byte, n)
	copy(out, buf)
	return out, nil
}

func (r *IOReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, wire.ErrEndOfInput
	}
	return r.readN(n)
}

func (r *IOReader) Skip(n int) error {
	if n < 0 {
		return wire.ErrEndOfInput
	}
	const chunk = 4096
	for n > 0 {
		step := n
		if step > chunk {
			step = chunk
		}
		if _, err := r.readN(step); err != nil {
			return err
		}
		n -= step
	}
	return nil
}

// ReadVint reads a base-128 varint one byte at a time, since the length
// is not known up front on a blocking stream.
func (r *IOReader) ReadVint() (uint64, error) {
	var result uint64
	var shift uint
	for i := 0; i < binary.MaxVarintLen64; i++ {
		b, err := r.readN(1)
		if err != nil {
			return 0, err
		}
		result |= uint64(b[0]&0x7f) << shift
		if b[0]&0x80 == 0 {
			return result, nil
		}
		shift += 7
	}
	return 0, wire.ErrOverflow
}

func (r *IOReader) ReadSignedVint() (int64, error) {
	u, err := r.ReadVint()
	if err != nil {
		return 0, err
	}
	return wire.UnZigZag(u), nil
}

func (r *IOReader) ReadPrefix() (wire.Prefix, error) {
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

func (r *IOReader) ReadBits8() (byte, error) {
	b, err := r.readN(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *IOReader) ReadBits32() (uint32, error) {
	b, err := r.readN(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *IOReader) ReadBits64() (uint64, error) {
	b, err := r.readN(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (r *IOReader) SkipValue(p wire.Prefix) error {
	return skipValue(r, p)
}

// ReadMessage reads one length-prefixed top-level message — prefix, body
// length varint, and body — and returns exactly those bytes verbatim,
// without decoding the fields inside. This is what lets a versioned
// reader discard an unknown-version frame while keeping the stream
// aligned for the next one, and what conv.ReadFrame returns as a frame's
// raw message bytes.
func (r *IOReader) ReadMessage() ([]byte, wire.Prefix, error) {
	rec := make([]byte, 0, 64)
	prev := r.rec
	r.rec = &rec
	defer func() { r.rec = prev }()

	prefix, err := r.ReadPrefix()
	if err != nil {
		return nil, wire.Prefix{}, err
	}
	if prefix.Wire != wire.Tuple {
		return nil, prefix, wire.ErrBadWireType
	}
	bodyLen, err := r.ReadVint()
	if err != nil {
		return nil, prefix, err
	}
	if _, err := r.readN(int(bodyLen)); err != nil {
		return nil, prefix, err
	}
	out := make([]byte, len(rec))
	copy(out, rec)
	return out, prefix, nil
}
