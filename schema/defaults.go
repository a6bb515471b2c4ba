package schema

import "github.com/danmuck/extprot/wire"

// DefaultOf computes the default value of t inductively over its shape.
// It fails with wire.ErrMissingFieldNoDefault when no default is
// computable — a tuple/record with a sub-type that has none, or a
// non-total sum/message-sum.
func DefaultOf(t Type) (Value, error) {
	switch t.Kind {
	case KindBool:
		return Value{Kind: KindBool}, nil
	case KindByte:
		return Value{Kind: KindByte}, nil
	case KindInt, KindLong:
		return Value{Kind: t.Kind}, nil
	case KindFloat:
		return Value{Kind: KindFloat}, nil
	case KindString:
		if t.StringDefault != nil {
			return Value{Kind: KindString, Str: []byte(*t.StringDefault)}, nil
		}
		return Value{Kind: KindString, Str: []byte{}}, nil
	case KindTuple:
		elems, err := defaultsOf(t.Elems)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTuple, Elems: elems}, nil
	case KindList:
		return Value{Kind: KindList, Elems: nil}, nil
	case KindArray:
		return Value{Kind: KindArray, Elems: nil}, nil
	case KindRecord:
		elems, err := defaultsOfFields(t.Fields)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindRecord, Elems: elems}, nil
	case KindSum:
		return defaultSum(t.Ctors)
	case KindMessageSum:
		return defaultMessageSum(t.Ctors)
	default:
		return Value{}, wire.ErrMissingFieldNoDefault
	}
}

func defaultsOf(types []Type) ([]Value, error) {
	out := make([]Value, len(types))
	for i, et := range types {
		v, err := DefaultOf(et)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func defaultsOfFields(fields []Field) ([]Value, error) {
	out := make([]Value, len(fields))
	for i, f := range fields {
		v, err := DefaultOf(f.Type)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// defaultSum picks the first constant constructor if any exists, else
// the default of the first non-constant constructor's field tuple, if
// that tuple is total.
func defaultSum(ctors []Constructor) (Value, error) {
	for _, c := range ctors {
		if c.Constant {
			return Value{Kind: KindSum, Tag: c.Tag}, nil
		}
	}
	if len(ctors) == 0 {
		return Value{}, wire.ErrMissingFieldNoDefault
	}
	c := ctors[0]
	elems, err := defaultsOf(c.Fields)
	if err != nil {
		return Value{}, wire.ErrMissingFieldNoDefault
	}
	return Value{Kind: KindSum, Tag: c.Tag, Elems: elems}, nil
}

// defaultMessageSum mirrors defaultSum, but message-sum constructors are
// always records (never constant), so it only tries the field-tuple
// path.
func defaultMessageSum(ctors []Constructor) (Value, error) {
	if len(ctors) == 0 {
		return Value{}, wire.ErrMissingFieldNoDefault
	}
	c := ctors[0]
	elems, err := defaultsOf(c.Fields)
	if err != nil {
		return Value{}, wire.ErrMissingFieldNoDefault
	}
	return Value{Kind: KindMessageSum, Tag: c.Tag, Elems: elems}, nil
}
