// Package num implements the numeric primitives behind every numrt export.
//
// The universe of types is fixed: eight native Go integers, two floats and
// the 128-bit integers from go-num. Each operation is a generic function
// instantiated per concrete type; the 128-bit kinds, which are structs in
// Go, get dedicated functions with the same semantics.
//
// # Failure reporting
//
// Parsing, checked conversion and flagged arithmetic return a result
// struct whose last field is a one-byte tag:
//
//	r := num.ParseInt[uint8]("0x1A") // {Value: 26, ErrorCode: 0}
//	c := num.ToIntCheckingMaxAndMin[int8](int64(200)) // {OutOfBounds: true}
//	o := num.AddWithOverflow[int8](127, 1) // {Value: -128, HasOverflowed: true}
//
// Saturating arithmetic clamps instead:
//
//	num.AddSaturated[int8](127, 1) // 127
//
// Trapping arithmetic hands the failure to a FatalHandler and never
// returns:
//
//	num.AddOrPanic[int8](127, 1, fatal)
//
// Byte decoding returns an out_of_range *errors.Error when the requested
// window does not fit in the buffer.
//
// All functions are pure and safe for concurrent use.
package num
