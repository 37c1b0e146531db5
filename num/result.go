package num

// The result structs share a shape: payload first, one-byte tag last.
// Guest code computes field offsets from that order, so the declaration
// order here is part of the boundary contract. Each is its own type;
// the operation that produces one defines its meaning.

// ParseResult is returned by string parsing. ErrorCode 0 means Value holds
// the parsed number; any other code is a ParseError and Value is zero.
type ParseResult[T any] struct {
	Value     T
	ErrorCode uint8
}

// OK reports whether parsing succeeded.
func (r ParseResult[T]) OK() bool { return r.ErrorCode == 0 }

// Err returns the failure reason, or ParseOK.
func (r ParseResult[T]) Err() ParseError { return ParseError(r.ErrorCode) }

// CheckedConversionResult is returned by checked narrowing. When
// OutOfBounds is set Value is zero.
type CheckedConversionResult[T any] struct {
	Value       T
	OutOfBounds bool
}

// OverflowResult is returned by flagged arithmetic. Value is the wrapped
// two's-complement result for integers and the IEEE result for floats,
// whether or not HasOverflowed is set.
type OverflowResult[T any] struct {
	Value         T
	HasOverflowed bool
}
