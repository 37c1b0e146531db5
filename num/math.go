package num

import (
	"math"

	n128 "github.com/shabbyrobe/go-num"
)

// Float functions forward to the math package. Float32 arguments are
// widened, computed in float64 and narrowed back. Domain errors yield
// whatever IEEE semantics produce, usually NaN.

func Asin[F Float](x F) F { return F(math.Asin(float64(x))) }
func Acos[F Float](x F) F { return F(math.Acos(float64(x))) }
func Atan[F Float](x F) F { return F(math.Atan(float64(x))) }
func Sin[F Float](x F) F  { return F(math.Sin(float64(x))) }
func Cos[F Float](x F) F  { return F(math.Cos(float64(x))) }
func Tan[F Float](x F) F  { return F(math.Tan(float64(x))) }
func Sqrt[F Float](x F) F { return F(math.Sqrt(float64(x))) }

// Log is the natural logarithm.
func Log[F Float](x F) F { return F(math.Log(float64(x))) }

func Pow[F Float](x, y F) F { return F(math.Pow(float64(x), float64(y))) }

func IsFinite[F Float](x F) bool   { return finite(x) }
func IsNaN[F Float](x F) bool      { return math.IsNaN(float64(x)) }
func IsInfinite[F Float](x F) bool { return math.IsInf(float64(x), 0) }

// Rounding selects how a float is brought to an integral value before it
// is converted to an integer kind.
type Rounding uint8

const (
	RoundNearest Rounding = iota // half away from zero
	RoundFloor
	RoundCeiling
)

// Roundings lists every mode in export order.
var Roundings = []Rounding{RoundNearest, RoundFloor, RoundCeiling}

// String returns the mode name used in export symbols.
func (r Rounding) String() string {
	switch r {
	case RoundFloor:
		return "floor"
	case RoundCeiling:
		return "ceiling"
	}
	return "round"
}

// Apply rounds x to an integral float.
func (r Rounding) Apply(x float64) float64 {
	switch r {
	case RoundFloor:
		return math.Floor(x)
	case RoundCeiling:
		return math.Ceil(x)
	}
	return math.Round(x)
}

// RoundTo rounds x with mode r and converts it to To. NaN becomes zero;
// values outside To's range clamp to the nearest bound.
func RoundTo[To Integer, F Float](r Rounding, x F) To {
	return FloatToInt[To](r.Apply(float64(x)))
}

// RoundToI128 is RoundTo for a signed 128-bit target.
func RoundToI128[F Float](r Rounding, x F) Int128 {
	return FloatToI128(r.Apply(float64(x)))
}

// RoundToU128 is RoundTo for an unsigned 128-bit target.
func RoundToU128[F Float](r Rounding, x F) UInt128 {
	return FloatToU128(r.Apply(float64(x)))
}

// FloatToInt truncates f into To, saturating at the bounds.
func FloatToInt[To Integer](f float64) To {
	bits := int(bitsOf[To]())
	switch {
	case f != f:
		return 0
	case isSigned[To]():
		if f >= math.Ldexp(1, bits-1) {
			return MaxOf[To]()
		}
		if f <= -math.Ldexp(1, bits-1) {
			return MinOf[To]()
		}
	default:
		if f >= math.Ldexp(1, bits) {
			return MaxOf[To]()
		}
		if f <= 0 {
			return 0
		}
	}
	return To(f)
}

// FloatToI128 truncates f into a signed 128-bit integer, saturating at
// the bounds.
func FloatToI128(f float64) Int128 {
	switch {
	case f != f:
		return Int128{}
	case f >= math.Ldexp(1, 127):
		return n128.MaxI128
	case f <= -math.Ldexp(1, 127):
		return n128.MinI128
	case f < 0:
		mag, _ := n128.U128FromFloat64(-f)
		return ExactOfU128(mag).Neg128()
	}
	v, _ := n128.I128FromFloat64(f)
	return v
}

// FloatToU128 truncates f into an unsigned 128-bit integer, saturating at
// the bounds.
func FloatToU128(f float64) UInt128 {
	switch {
	case f != f || f <= 0:
		return UInt128{}
	case f >= math.Ldexp(1, 128):
		return n128.MaxU128
	}
	v, _ := n128.U128FromFloat64(f)
	return v
}
