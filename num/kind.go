package num

import (
	n128 "github.com/shabbyrobe/go-num"
)

// Int128 and UInt128 are the 128-bit members of the type universe.
type (
	Int128  = n128.I128
	UInt128 = n128.U128
)

// Kind identifies one concrete type of the numeric universe.
type Kind uint8

const (
	I8 Kind = iota + 1
	I16
	I32
	I64
	I128
	U8
	U16
	U32
	U64
	U128
	F32
	F64
)

type kindInfo struct {
	name   string
	bits   uint32
	signed bool
	float  bool
}

var kinds = [...]kindInfo{
	I8:   {"i8", 8, true, false},
	I16:  {"i16", 16, true, false},
	I32:  {"i32", 32, true, false},
	I64:  {"i64", 64, true, false},
	I128: {"i128", 128, true, false},
	U8:   {"u8", 8, false, false},
	U16:  {"u16", 16, false, false},
	U32:  {"u32", 32, false, false},
	U64:  {"u64", 64, false, false},
	U128: {"u128", 128, false, false},
	F32:  {"f32", 32, true, true},
	F64:  {"f64", 64, true, true},
}

// Integers lists the integer kinds in canonical order.
var Integers = []Kind{I8, I16, I32, I64, I128, U8, U16, U32, U64, U128}

// Floats lists the float kinds in canonical order.
var Floats = []Kind{F32, F64}

// All lists every kind in canonical order.
var All = append(append([]Kind{}, Integers...), Floats...)

// Valid reports whether k names a member of the universe.
func (k Kind) Valid() bool {
	return k >= I8 && k <= F64
}

// String returns the canonical type name used in export symbols.
func (k Kind) String() string {
	if !k.Valid() {
		return "invalid"
	}
	return kinds[k].name
}

// Bits returns the bit width.
func (k Kind) Bits() uint32 { return kinds[k].bits }

// Size returns the byte width.
func (k Kind) Size() uint32 { return kinds[k].bits / 8 }

// Align returns the natural alignment in guest memory. Every kind is
// aligned to its own size, including the 128-bit integers.
func (k Kind) Align() uint32 { return k.Size() }

// Signed reports whether k can hold negative values. Floats are signed.
func (k Kind) Signed() bool { return kinds[k].signed }

// IsFloat reports whether k is F32 or F64.
func (k Kind) IsFloat() bool { return k.Valid() && kinds[k].float }

// IsInteger reports whether k is one of the ten integer kinds.
func (k Kind) IsInteger() bool { return k.Valid() && !kinds[k].float }

// Wide reports whether k is a 128-bit integer, which crosses the guest
// boundary by pointer rather than by value.
func (k Kind) Wide() bool { return k == I128 || k == U128 }

// ParseKind resolves a canonical type name.
func ParseKind(name string) (Kind, bool) {
	for _, k := range All {
		if kinds[k].name == name {
			return k, true
		}
	}
	return 0, false
}

// KindOf returns the kind of a Go numeric type.
func KindOf[T Number]() Kind {
	var zero T
	switch any(zero).(type) {
	case int8:
		return I8
	case int16:
		return I16
	case int32:
		return I32
	case int64:
		return I64
	case Int128:
		return I128
	case uint8:
		return U8
	case uint16:
		return U16
	case uint32:
		return U32
	case uint64:
		return U64
	case UInt128:
		return U128
	case float32:
		return F32
	case float64:
		return F64
	}
	return 0
}
