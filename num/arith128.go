package num

import (
	"math/bits"

	n128 "github.com/shabbyrobe/go-num"
)

// AddWithOverflowI128 adds two signed 128-bit integers with a flag.
func AddWithOverflowI128(a, b Int128) OverflowResult[Int128] {
	sum := a.Add(b)
	an, bn := a.Sign() < 0, b.Sign() < 0
	return OverflowResult[Int128]{Value: sum, HasOverflowed: an == bn && (sum.Sign() < 0) != an}
}

// SubWithOverflowI128 subtracts two signed 128-bit integers with a flag.
func SubWithOverflowI128(a, b Int128) OverflowResult[Int128] {
	diff := a.Sub(b)
	an, bn := a.Sign() < 0, b.Sign() < 0
	return OverflowResult[Int128]{Value: diff, HasOverflowed: an != bn && (diff.Sign() < 0) != an}
}

// MulWithOverflowI128 multiplies two signed 128-bit integers with a flag.
func MulWithOverflowI128(a, b Int128) OverflowResult[Int128] {
	prod := a.Mul(b)
	x, y := ExactOfI128(a), ExactOfI128(b)
	mag, over := mulU128(x.mag, y.mag)
	if !over {
		limit := i128MaxMag
		if x.neg != y.neg {
			limit = i128MinMag
		}
		over = mag.GreaterThan(limit)
	}
	return OverflowResult[Int128]{Value: prod, HasOverflowed: over}
}

// AddWithOverflowU128 adds two unsigned 128-bit integers with a flag.
func AddWithOverflowU128(a, b UInt128) OverflowResult[UInt128] {
	sum := a.Add(b)
	return OverflowResult[UInt128]{Value: sum, HasOverflowed: sum.LessThan(a)}
}

// SubWithOverflowU128 subtracts two unsigned 128-bit integers with a flag.
func SubWithOverflowU128(a, b UInt128) OverflowResult[UInt128] {
	return OverflowResult[UInt128]{Value: a.Sub(b), HasOverflowed: a.LessThan(b)}
}

// MulWithOverflowU128 multiplies two unsigned 128-bit integers with a flag.
func MulWithOverflowU128(a, b UInt128) OverflowResult[UInt128] {
	prod, over := mulU128(a, b)
	return OverflowResult[UInt128]{Value: prod, HasOverflowed: over}
}

// WithOverflowI128 dispatches to the flagged signed 128-bit form of o.
func WithOverflowI128(o Op, a, b Int128) OverflowResult[Int128] {
	switch o {
	case OpSub:
		return SubWithOverflowI128(a, b)
	case OpMul:
		return MulWithOverflowI128(a, b)
	}
	return AddWithOverflowI128(a, b)
}

// WithOverflowU128 dispatches to the flagged unsigned 128-bit form of o.
func WithOverflowU128(o Op, a, b UInt128) OverflowResult[UInt128] {
	switch o {
	case OpSub:
		return SubWithOverflowU128(a, b)
	case OpMul:
		return MulWithOverflowU128(a, b)
	}
	return AddWithOverflowU128(a, b)
}

// SaturatedI128 applies o to signed 128-bit operands, clamping on overflow.
func SaturatedI128(o Op, a, b Int128) Int128 {
	r := WithOverflowI128(o, a, b)
	if !r.HasOverflowed {
		return r.Value
	}
	var high bool
	switch o {
	case OpMul:
		high = (a.Sign() < 0) == (b.Sign() < 0)
	default:
		high = r.Value.Sign() < 0
	}
	if high {
		return n128.MaxI128
	}
	return n128.MinI128
}

// SaturatedU128 applies o to unsigned 128-bit operands, clamping on
// overflow. Subtraction can only fall below zero.
func SaturatedU128(o Op, a, b UInt128) UInt128 {
	r := WithOverflowU128(o, a, b)
	switch {
	case !r.HasOverflowed:
		return r.Value
	case o == OpSub:
		return n128.U128{}
	default:
		return n128.MaxU128
	}
}

// OrPanicI128 applies o to signed 128-bit operands and hands overflow to
// fatal.
func OrPanicI128(o Op, a, b Int128, fatal FatalHandler) Int128 {
	r := WithOverflowI128(o, a, b)
	if r.HasOverflowed {
		Fatal(fatal, OverflowMessage(o, false), TrapOverflow)
	}
	return r.Value
}

// OrPanicU128 applies o to unsigned 128-bit operands and hands overflow to
// fatal.
func OrPanicU128(o Op, a, b UInt128, fatal FatalHandler) UInt128 {
	r := WithOverflowU128(o, a, b)
	if r.HasOverflowed {
		Fatal(fatal, OverflowMessage(o, false), TrapOverflow)
	}
	return r.Value
}

// mulU128 returns the wrapped product and whether the full product needs
// more than 128 bits.
func mulU128(a, b n128.U128) (n128.U128, bool) {
	ah, al := a.Raw()
	bh, bl := b.Raw()

	hi, lo := bits.Mul64(al, bl)
	c1h, c1 := bits.Mul64(ah, bl)
	c2h, c2 := bits.Mul64(al, bh)

	hi, k1 := bits.Add64(hi, c1, 0)
	hi, k2 := bits.Add64(hi, c2, 0)

	over := (ah != 0 && bh != 0) || c1h != 0 || c2h != 0 || k1 != 0 || k2 != 0
	return n128.U128FromRaw(hi, lo), over
}
