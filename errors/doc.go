// Package errors provides structured error types for numrt.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the export symbol, numeric type name, field path and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindOverflow).
//		Symbol("numrt.num.int_to_u8_checking_max.i64").
//		Type("u8").
//		Detail("value %d overflows u8", 300).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfRange(errors.PhaseDecode, offset, 2, len(buf))
//	err := errors.Trap("Integer addition overflowed!", 1)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
