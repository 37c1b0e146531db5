package num

import (
	"math"
)

// Op is a binary arithmetic operation with overflow awareness.
type Op uint8

const (
	OpAdd Op = iota
	OpSub
	OpMul
)

// Ops lists every operation in export order.
var Ops = []Op{OpAdd, OpSub, OpMul}

// String returns the stem used in export symbols, such as "add".
func (o Op) String() string {
	switch o {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpMul:
		return "mul"
	}
	return "invalid"
}

func (o Op) noun() string {
	switch o {
	case OpAdd:
		return "addition"
	case OpSub:
		return "subtraction"
	}
	return "multiplication"
}

// OverflowMessage is the text handed to the FatalHandler when o overflows.
func OverflowMessage(o Op, float bool) string {
	if float {
		return "Float " + o.noun() + " overflowed!"
	}
	return "Integer " + o.noun() + " overflowed!"
}

// AddWithOverflow adds with a flag. Integer overflow wraps; float
// overflow means the sum is not finite.
func AddWithOverflow[T Real](a, b T) OverflowResult[T] {
	sum := a + b
	var over bool
	switch {
	case isFloat[T]():
		over = !finite(sum)
	case isSigned[T]():
		over = (a < 0) == (b < 0) && (sum < 0) != (a < 0)
	default:
		over = sum < a
	}
	return OverflowResult[T]{Value: sum, HasOverflowed: over}
}

// SubWithOverflow subtracts with a flag.
func SubWithOverflow[T Real](a, b T) OverflowResult[T] {
	diff := a - b
	var over bool
	switch {
	case isFloat[T]():
		over = !finite(diff)
	case isSigned[T]():
		over = (a < 0) != (b < 0) && (diff < 0) != (a < 0)
	default:
		over = a < b
	}
	return OverflowResult[T]{Value: diff, HasOverflowed: over}
}

// MulWithOverflow multiplies with a flag.
func MulWithOverflow[T Real](a, b T) OverflowResult[T] {
	prod := a * b
	var over bool
	switch {
	case isFloat[T]():
		over = !finite(prod)
	case a == 0:
	case isSigned[T]() && a+1 == 0:
		// -1 * min is the one product whose quotient check passes.
		over = b != 0 && b == -b
	default:
		over = prod/a != b
	}
	return OverflowResult[T]{Value: prod, HasOverflowed: over}
}

// WithOverflow dispatches to the flagged form of o.
func WithOverflow[T Real](o Op, a, b T) OverflowResult[T] {
	switch o {
	case OpSub:
		return SubWithOverflow(a, b)
	case OpMul:
		return MulWithOverflow(a, b)
	}
	return AddWithOverflow(a, b)
}

// AddSaturated adds, clamping to the bound that was crossed. For signed
// operands the sign of the wrapped sum tells which: a negative wrap means
// the true sum passed the maximum.
func AddSaturated[T Integer](a, b T) T {
	r := AddWithOverflow(a, b)
	return saturate(r, !isSigned[T]() || r.Value < 0)
}

// SubSaturated subtracts, clamping to the bound that was crossed.
func SubSaturated[T Integer](a, b T) T {
	r := SubWithOverflow(a, b)
	return saturate(r, isSigned[T]() && r.Value < 0)
}

// MulSaturated multiplies, clamping to the maximum when the operand signs
// agree and to the minimum otherwise.
func MulSaturated[T Integer](a, b T) T {
	r := MulWithOverflow(a, b)
	return saturate(r, (a < 0) == (b < 0))
}

// Saturated dispatches to the saturating form of o.
func Saturated[T Integer](o Op, a, b T) T {
	switch o {
	case OpSub:
		return SubSaturated(a, b)
	case OpMul:
		return MulSaturated(a, b)
	}
	return AddSaturated(a, b)
}

func saturate[T Integer](r OverflowResult[T], high bool) T {
	switch {
	case !r.HasOverflowed:
		return r.Value
	case high:
		return MaxOf[T]()
	default:
		return MinOf[T]()
	}
}

// AddOrPanic adds and hands overflow to fatal. It does not return on
// overflow.
func AddOrPanic[T Real](a, b T, fatal FatalHandler) T {
	return orPanic(OpAdd, AddWithOverflow(a, b), fatal)
}

// SubOrPanic subtracts and hands overflow to fatal.
func SubOrPanic[T Real](a, b T, fatal FatalHandler) T {
	return orPanic(OpSub, SubWithOverflow(a, b), fatal)
}

// MulOrPanic multiplies and hands overflow to fatal.
func MulOrPanic[T Real](a, b T, fatal FatalHandler) T {
	return orPanic(OpMul, MulWithOverflow(a, b), fatal)
}

// OrPanic dispatches to the trapping form of o.
func OrPanic[T Real](o Op, a, b T, fatal FatalHandler) T {
	return orPanic(o, WithOverflow(o, a, b), fatal)
}

func orPanic[T Real](o Op, r OverflowResult[T], fatal FatalHandler) T {
	if r.HasOverflowed {
		Fatal(fatal, OverflowMessage(o, isFloat[T]()), TrapOverflow)
	}
	return r.Value
}

func finite[T Real](x T) bool {
	f := float64(x)
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
