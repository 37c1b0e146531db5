package num

import (
	"unsafe"

	"golang.org/x/exp/constraints"
)

// Signed is the set of fixed-width signed Go integers in the universe.
type Signed interface {
	int8 | int16 | int32 | int64
}

// Unsigned is the set of fixed-width unsigned Go integers in the universe.
type Unsigned interface {
	uint8 | uint16 | uint32 | uint64
}

// Integer covers every integer kind Go can represent natively.
// The 128-bit kinds are value structs and have dedicated functions.
type Integer interface {
	Signed | Unsigned
}

// Float covers both float kinds.
type Float interface {
	constraints.Float
}

// Real is anything the arithmetic operators work on directly.
type Real interface {
	Integer | Float
}

// Number is the full universe.
type Number interface {
	Real | Int128 | UInt128
}

// MaxOf returns the largest value of T.
func MaxOf[T constraints.Integer]() T {
	if isSigned[T]() {
		return ^MinOf[T]()
	}
	return ^T(0)
}

// MinOf returns the smallest value of T.
func MinOf[T constraints.Integer]() T {
	if isSigned[T]() {
		return T(1) << (bitsOf[T]() - 1)
	}
	return 0
}

func bitsOf[T any]() uintptr {
	var zero T
	return unsafe.Sizeof(zero) * 8
}

func isSigned[T constraints.Integer | constraints.Float]() bool {
	var zero T
	return zero-1 < zero
}

func isFloat[T constraints.Integer | constraints.Float]() bool {
	var one T = 1
	return one/2 != 0
}
