package num

import (
	n128 "github.com/shabbyrobe/go-num"
)

// Exact holds any integer of the universe without loss: a sign and a
// 128-bit magnitude. It is the common ground for comparisons between
// kinds of different width and signedness. Zero is never negative.
type Exact struct {
	mag n128.U128
	neg bool
}

var (
	u128One    = n128.U128From64(1)
	i128MinMag = n128.U128FromRaw(1<<63, 0)
	i128MaxMag = n128.U128FromRaw(1<<63-1, 1<<64-1)
)

// ExactOf widens a native integer.
func ExactOf[T Integer](x T) Exact {
	if x < 0 {
		return Exact{mag: n128.U128From64(uint64(-(x + 1)) + 1), neg: true}
	}
	return Exact{mag: n128.U128From64(uint64(x))}
}

// ExactOfI128 widens a signed 128-bit integer.
func ExactOfI128(x Int128) Exact {
	hi, lo := x.Raw()
	bits := n128.U128FromRaw(hi, lo)
	if x.Sign() < 0 {
		return Exact{mag: n128.U128{}.Sub(bits), neg: true}
	}
	return Exact{mag: bits}
}

// ExactOfU128 widens an unsigned 128-bit integer.
func ExactOfU128(x UInt128) Exact {
	return Exact{mag: x}
}

// Cmp returns -1, 0 or +1 as e is less than, equal to or greater than o.
func (e Exact) Cmp(o Exact) int {
	switch {
	case e.neg && !o.neg:
		return -1
	case !e.neg && o.neg:
		return 1
	case e.neg:
		return o.mag.Cmp(e.mag)
	default:
		return e.mag.Cmp(o.mag)
	}
}

// Bounds returns the inclusive range of an integer kind.
func Bounds(k Kind) (lo, hi Exact) {
	bits := uint(k.Bits())
	if k.Signed() {
		if bits == 128 {
			return Exact{mag: i128MinMag, neg: true}, Exact{mag: i128MaxMag}
		}
		half := u128One.Lsh(bits - 1)
		return Exact{mag: half, neg: true}, Exact{mag: half.Sub(u128One)}
	}
	if bits == 128 {
		return Exact{}, Exact{mag: n128.MaxU128}
	}
	return Exact{}, Exact{mag: u128One.Lsh(bits).Sub(u128One)}
}

// Fits reports whether e lies inside k's range.
func (e Exact) Fits(k Kind) bool {
	lo, hi := Bounds(k)
	return e.Cmp(lo) >= 0 && e.Cmp(hi) <= 0
}

// I128 returns e as a signed 128-bit integer, wrapping if it does not fit.
func (e Exact) I128() Int128 {
	hi, lo := e.bits().Raw()
	return n128.I128FromRaw(hi, lo)
}

// U128 returns e as an unsigned 128-bit integer, wrapping if it does not fit.
func (e Exact) U128() UInt128 {
	return e.bits()
}

// bits is the two's-complement bit pattern of e truncated to 128 bits.
func (e Exact) bits() n128.U128 {
	if e.neg {
		return n128.U128{}.Sub(e.mag)
	}
	return e.mag
}

// Neg128 returns -e as a signed 128-bit integer, wrapping if it does not fit.
func (e Exact) Neg128() Int128 {
	if !e.mag.IsZero() {
		e.neg = !e.neg
	}
	return e.I128()
}

// ExactTo narrows e into T, wrapping if it does not fit.
func ExactTo[T Integer](e Exact) T {
	_, lo := e.bits().Raw()
	return T(lo)
}
