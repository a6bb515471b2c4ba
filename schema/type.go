// Package schema is the runtime stand-in for what a schema-language code
// generator would otherwise emit: a small closed descriptor for each kind
// of extprot type, a value representation for instances of that type, and
// the default-value computation the wire runtime needs when a tuple
// element or message field is missing. The schema language itself, and
// any concrete generated Go struct, are out of scope here.
package schema

// Kind identifies which of the extprot type-system kinds a Type
// describes.
type Kind int

const (
	KindBool Kind = iota
	KindByte
	KindInt
	KindLong
	KindFloat
	KindString
	KindTuple
	KindList
	KindArray
	KindSum
	KindRecord
	KindMessageSum
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindByte:
		return "byte"
	case KindInt:
		return "int"
	case KindLong:
		return "long"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindTuple:
		return "tuple"
	case KindList:
		return "list"
	case KindArray:
		return "array"
	case KindSum:
		return "sum"
	case KindRecord:
		return "record"
	case KindMessageSum:
		return "message_sum"
	default:
		return "unknown"
	}
}

// Field is a named element of a Record.
type Field struct {
	Name string
	Type Type
}

// Constructor is one arm of a Sum or MessageSum. Constant constructors
// (Sum only) carry no fields and encode as ENUM; every other constructor
// carries a tuple of Fields and encodes as TUPLE. MessageSum
// constructors are never constant — they are records, which are always
// TUPLE-wire even with zero fields.
type Constructor struct {
	Tag      int
	Name     string
	Constant bool
	Fields   []Type
}

// Type is the schema descriptor a reader/writer pair is directed by.
// Composite kinds populate only the fields relevant to that kind; the
// zero value of the fields belonging to other kinds is ignored.
type Type struct {
	Kind Kind

	// List/Array element type.
	Elem *Type

	// Tuple element types.
	Elems []Type

	// Record fields, in declaration order.
	Fields []Field

	// Sum/MessageSum constructors, in declaration order. Tag values are
	// the constructor's index in that order unless the caller overrides
	// them.
	Ctors []Constructor

	// StringDefault holds the literal from an [@default v] annotation on
	// a string type, if any.
	StringDefault *string
}

func Bool() Type   { return Type{Kind: KindBool} }
func Byte() Type   { return Type{Kind: KindByte} }
func Int() Type    { return Type{Kind: KindInt} }
func Long() Type   { return Type{Kind: KindLong} }
func Float() Type  { return Type{Kind: KindFloat} }
func String() Type { return Type{Kind: KindString} }

// StringWithDefault attaches an [@default v] literal to a string type.
func StringWithDefault(v string) Type {
	return Type{Kind: KindString, StringDefault: &v}
}

func TupleOf(elems ...Type) Type {
	return Type{Kind: KindTuple, Elems: elems}
}

func ListOf(elem Type) Type {
	return Type{Kind: KindList, Elem: &elem}
}

func ArrayOf(elem Type) Type {
	return Type{Kind: KindArray, Elem: &elem}
}

func RecordOf(fields ...Field) Type {
	return Type{Kind: KindRecord, Fields: fields}
}

func SumOf(ctors ...Constructor) Type {
	return Type{Kind: KindSum, Ctors: assignDefaultTags(ctors)}
}

func MessageSumOf(ctors ...Constructor) Type {
	for i := range ctors {
		ctors[i].Constant = false
	}
	return Type{Kind: KindMessageSum, Ctors: assignDefaultTags(ctors)}
}

// assignDefaultTags fills in Tag as the declaration index for any
// constructor whose caller left Tag unset: sum types use tag =
// constructor index in declaration order unless overridden.
func assignDefaultTags(ctors []Constructor) []Constructor {
	out := make([]Constructor, len(ctors))
	copy(out, ctors)
	for i := range out {
		if out[i].Tag == 0 {
			out[i].Tag = i
		}
	}
	return out
}

// ConstructorByTag looks up a constructor by tag.
func ConstructorByTag(ctors []Constructor, tag int) (Constructor, bool) {
	for _, c := range ctors {
		if c.Tag == tag {
			return c, true
		}
	}
	return Constructor{}, false
}
