package schema

// Value is a decoded or to-be-encoded instance of some Type. Kind
// determines which fields are meaningful; unused fields are zero.
type Value struct {
	Kind Kind

	Bool  bool
	Byte  byte
	Int   int64 // holds both KindInt (range-checked to int32) and KindLong
	Float float64
	Str   []byte

	// Tuple/Record/List/Array elements, or a Sum/MessageSum constructor's
	// field values.
	Elems []Value

	// Sum/MessageSum constructor tag.
	Tag int
}

func BoolValue(v bool) Value  { return Value{Kind: KindBool, Bool: v} }
func ByteValue(v byte) Value  { return Value{Kind: KindByte, Byte: v} }
func IntValue(v int32) Value  { return Value{Kind: KindInt, Int: int64(v)} }
func LongValue(v int64) Value { return Value{Kind: KindLong, Int: v} }
func FloatValue(v float64) Value { return Value{Kind: KindFloat, Float: v} }
func StringValue(v string) Value { return Value{Kind: KindString, Str: []byte(v)} }

func TupleValue(elems ...Value) Value {
	return Value{Kind: KindTuple, Elems: elems}
}

func ListValue(elems ...Value) Value {
	return Value{Kind: KindList, Elems: elems}
}

func ArrayValue(elems ...Value) Value {
	return Value{Kind: KindArray, Elems: elems}
}

func RecordValue(elems ...Value) Value {
	return Value{Kind: KindRecord, Elems: elems}
}

func SumValue(tag int, elems ...Value) Value {
	return Value{Kind: KindSum, Tag: tag, Elems: elems}
}

func MessageSumValue(tag int, elems ...Value) Value {
	return Value{Kind: KindMessageSum, Tag: tag, Elems: elems}
}
