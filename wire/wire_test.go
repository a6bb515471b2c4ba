package wire

import "testing"

func TestPrefixRoundTrip(t *testing.T) {
	cases := []Prefix{
		{Tag: 0, Wire: VInt},
		{Tag: 3, Wire: Enum},
		{Tag: 7, Wire: Tuple},
		{Tag: 128, Wire: Bytes},
	}
	for _, p := range cases {
		got := DecodePrefix(p.Encode())
		if got != p {
			t.Fatalf("prefix round trip: want %+v, got %+v", p, got)
		}
	}
}

func TestSumTypeDConstantPrefixIsSingleByte(t *testing.T) {
	// Sum_type.D at constructor index 3: a single byte, wire-type ENUM,
	// tag 3.
	p := Prefix{Tag: 3, Wire: Enum}
	v := p.Encode()
	if v > 0x7f {
		t.Fatalf("expected single-byte varint prefix, got %#x", v)
	}
	if byte(v) != byte(3<<4|10) {
		t.Fatalf("unexpected encoded byte: %#x", v)
	}
}

func TestZigZagRoundTrip(t *testing.T) {
	values := []int64{0, 1, -1, 7, -7, 1<<62 - 1, -(1 << 62)}
	for _, n := range values {
		if got := UnZigZag(ZigZag(n)); got != n {
			t.Fatalf("zigzag round trip for %d: got %d", n, got)
		}
	}
}
