package debugserver

import (
	"math"

	"github.com/danmuck/extprot/ioreader"
	"github.com/danmuck/extprot/wire"
)

// Node is one decoded wire value with no schema attached — the decoder
// can only say what wire type and tag a value carried and, for
// composites, what its elements decoded to. This is the structural
// decode a JSON/XML pretty-printer would otherwise need to own: render
// what is on the wire without assuming a generated reader exists for
// it.
type Node struct {
	WireType string `json:"wire_type"`
	Tag      int    `json:"tag,omitempty"`
	Value    any    `json:"value,omitempty"`
	Elements []Node `json:"elements,omitempty"`
}

// decodeValue reads one value of unknown schema from r and renders it
// structurally, the way a hex-dump tool shows framing without knowing
// field names.
func decodeValue(r ioreader.Reader) (Node, error) {
	prefix, err := r.ReadPrefix()
	if err != nil {
		return Node{}, err
	}

	switch prefix.Wire {
	case wire.VInt:
		v, err := r.ReadSignedVint()
		if err != nil {
			return Node{}, err
		}
		return Node{WireType: "VINT", Tag: prefix.Tag, Value: v}, nil

	case wire.Enum:
		return Node{WireType: "ENUM", Tag: prefix.Tag}, nil

	case wire.Bits8:
		b, err := r.ReadBits8()
		if err != nil {
			return Node{}, err
		}
		return Node{WireType: "BITS8", Tag: prefix.Tag, Value: b}, nil

	case wire.Bits32:
		v, err := r.ReadBits32()
		if err != nil {
			return Node{}, err
		}
		return Node{WireType: "BITS32", Tag: prefix.Tag, Value: v}, nil

	case wire.Bits64Long:
		u, err := r.ReadBits64()
		if err != nil {
			return Node{}, err
		}
		return Node{WireType: "BITS64_LONG", Tag: prefix.Tag, Value: wire.UnZigZag(u)}, nil

	case wire.Bits64Float:
		u, err := r.ReadBits64()
		if err != nil {
			return Node{}, err
		}
		return Node{WireType: "BITS64_FLOAT", Tag: prefix.Tag, Value: math.Float64frombits(u)}, nil

	case wire.Bytes:
		n, err := r.ReadVint()
		if err != nil {
			return Node{}, err
		}
		b, err := r.ReadBytes(int(n))
		if err != nil {
			return Node{}, err
		}
		return Node{WireType: "BYTES", Tag: prefix.Tag, Value: string(b)}, nil

	case wire.Tuple, wire.HTuple:
		return decodeComposite(r, prefix)

	case wire.Assoc:
		if err := r.SkipValue(prefix); err != nil {
			return Node{}, err
		}
		return Node{WireType: "ASSOC", Tag: prefix.Tag}, nil

	default:
		return Node{}, wire.ErrBadWireType
	}
}

func decodeComposite(r ioreader.Reader, prefix wire.Prefix) (Node, error) {
	bodyLen, err := r.ReadVint()
	if err != nil {
		return Node{}, err
	}
	start := r.BytesRead()

	count, err := r.ReadVint()
	if err != nil {
		return Node{}, err
	}

	elems := make([]Node, 0, count)
	for i := uint64(0); i < count; i++ {
		n, err := decodeValue(r)
		if err != nil {
			return Node{}, err
		}
		elems = append(elems, n)
	}

	consumed := r.BytesRead() - start
	remaining := int64(bodyLen) - consumed
	if remaining < 0 {
		return Node{}, wire.ErrOverflow
	}
	if remaining > 0 {
		if err := r.Skip(int(remaining)); err != nil {
			return Node{}, err
		}
	}

	wireName := "TUPLE"
	if prefix.Wire == wire.HTuple {
		wireName = "HTUPLE"
	}
	return Node{WireType: wireName, Tag: prefix.Tag, Elements: elems}, nil
}
