// Package codec implements the bit-exact binary wire format: a
// Value/FieldValue domain model plus a directly-implemented encoder and
// decoder that double as the round-trip oracle generator-emitted code
// (pkg/codegen) is tested against.
package codec

import (
	"math"

	"its-hmny.dev/resourcec/pkg/diag"
)

// Kind identifies which of the wire-format's value shapes a Value holds.
type Kind int

const (
	KindString Kind = iota
	KindNumber
	KindBool
	KindList
	KindResource
	KindNull   // present, explicitly null (only valid for a nullable field)
	KindAbsent // not present at all (only valid for an optional field)
)

// Value is a single decoded (or to-be-encoded) value of any IR type.
// Exactly one of the fields below is meaningful, selected by Kind.
type Value struct {
	Kind     Kind
	Str      string
	Num      int64
	Bool     bool
	List     []Value
	Resource []FieldValue
}

// FieldValue pairs a resource field's name with its value, in the order the
// resource's fields are declared.
type FieldValue struct {
	Name  string
	Value Value
}

func StringValue(s string) Value { return Value{Kind: KindString, Str: s} }
func NumberValue(n int64) Value  { return Value{Kind: KindNumber, Num: n} }
func BoolValue(b bool) Value     { return Value{Kind: KindBool, Bool: b} }
func ListValue(items []Value) Value {
	return Value{Kind: KindList, List: items}
}
func ResourceValue(fields []FieldValue) Value {
	return Value{Kind: KindResource, Resource: fields}
}
func NullValue() Value   { return Value{Kind: KindNull} }
func AbsentValue() Value { return Value{Kind: KindAbsent} }

// NumberFromUint64 ingests a number from a wider, unsigned domain, rejecting
// it with an 'encoding' diagnostic rather than silently truncating if it
// doesn't fit the wire format's signed 64-bit number.
func NumberFromUint64(u uint64) (Value, error) {
	if u > math.MaxInt64 {
		return Value{}, diag.New(diag.Encoding, "number %d overflows the signed 64-bit wire width", u)
	}
	return NumberValue(int64(u)), nil
}
