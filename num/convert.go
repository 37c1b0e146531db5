package num

// ToIntCheckingMax narrows x into To, failing only when x exceeds the
// largest To. Callers use it when x is known to be non-negative or To is
// unsigned and only the upper bound matters.
func ToIntCheckingMax[To, From Integer](x From) CheckedConversionResult[To] {
	if exceedsMax[To](x) {
		return CheckedConversionResult[To]{OutOfBounds: true}
	}
	return CheckedConversionResult[To]{Value: To(x)}
}

// ToIntCheckingMaxAndMin narrows x into To, failing when x lies outside
// either bound of To.
func ToIntCheckingMaxAndMin[To, From Integer](x From) CheckedConversionResult[To] {
	if exceedsMax[To](x) || belowMin[To](x) {
		return CheckedConversionResult[To]{OutOfBounds: true}
	}
	return CheckedConversionResult[To]{Value: To(x)}
}

func exceedsMax[To, From Integer](x From) bool {
	if x < 0 {
		return false
	}
	return uint64(x) > uint64(MaxOf[To]())
}

func belowMin[To, From Integer](x From) bool {
	if x >= 0 {
		return false
	}
	if !isSigned[To]() {
		return true
	}
	return int64(x) < int64(MinOf[To]())
}

// ExactToIntChecking narrows an exact value into a native integer. It is
// the path for 128-bit sources.
func ExactToIntChecking[To Integer](x Exact, checkMin bool) CheckedConversionResult[To] {
	if !inBounds(x, KindOf[To](), checkMin) {
		return CheckedConversionResult[To]{OutOfBounds: true}
	}
	return CheckedConversionResult[To]{Value: ExactTo[To](x)}
}

// ToI128Checking narrows an exact value into a signed 128-bit integer.
func ToI128Checking(x Exact, checkMin bool) CheckedConversionResult[Int128] {
	if !inBounds(x, I128, checkMin) {
		return CheckedConversionResult[Int128]{OutOfBounds: true}
	}
	return CheckedConversionResult[Int128]{Value: x.I128()}
}

// ToU128Checking narrows an exact value into an unsigned 128-bit integer.
func ToU128Checking(x Exact, checkMin bool) CheckedConversionResult[UInt128] {
	if !inBounds(x, U128, checkMin) {
		return CheckedConversionResult[UInt128]{OutOfBounds: true}
	}
	return CheckedConversionResult[UInt128]{Value: x.U128()}
}

func inBounds(x Exact, k Kind, checkMin bool) bool {
	lo, hi := Bounds(k)
	if x.Cmp(hi) > 0 {
		return false
	}
	return !checkMin || x.Cmp(lo) >= 0
}
