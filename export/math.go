package export

import (
	"context"
	"slices"

	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/num"
)

func mathExports() []*Export {
	return slices.Concat(
		mathFloat[float32](),
		mathFloat[float64](),
		roundFrom[float32](),
		roundFrom[float64](),
	)
}

func mathFloat[F num.Float]() []*Export {
	return []*Export{
		unary("asin", num.Asin[F]),
		unary("acos", num.Acos[F]),
		unary("atan", num.Atan[F]),
		unary("sin", num.Sin[F]),
		unary("cos", num.Cos[F]),
		unary("tan", num.Tan[F]),
		unary("sqrt", num.Sqrt[F]),
		unary("log", num.Log[F]),
		binary("pow", num.Pow[F]),
		predicate("is_finite", num.IsFinite[F]),
		predicate("is_nan", num.IsNaN[F]),
		predicate("is_infinite", num.IsInfinite[F]),
	}
}

func unary[F num.Float](base string, fn func(F) F) *Export {
	k := num.KindOf[F]()
	return scalar(GroupNum, base, []num.Kind{k}, bare(k), []Arg{value("x", k)},
		func(_ context.Context, c *Call) error {
			c.Stack[0] = abi.Lower(fn(abi.Lift[F](c.Stack[0])))
			return nil
		})
}

func binary[F num.Float](base string, fn func(F, F) F) *Export {
	k := num.KindOf[F]()
	return scalar(GroupNum, base, []num.Kind{k}, bare(k), []Arg{value("x", k), value("y", k)},
		func(_ context.Context, c *Call) error {
			c.Stack[0] = abi.Lower(fn(abi.Lift[F](c.Stack[0]), abi.Lift[F](c.Stack[1])))
			return nil
		})
}

func predicate[F num.Float](base string, fn func(F) bool) *Export {
	k := num.KindOf[F]()
	return scalar(GroupNum, base, []num.Kind{k}, boolean, []Arg{value("x", k)},
		func(_ context.Context, c *Call) error {
			c.Stack[0] = abi.LowerBool(fn(abi.Lift[F](c.Stack[0])))
			return nil
		})
}

// roundFrom instantiates round, floor and ceiling from F to every integer
// kind. The symbol carries the source in its base and the target as the
// type: numrt.num.round_f64.i32.
func roundFrom[F num.Float]() []*Export {
	var out []*Export
	for _, mode := range num.Roundings {
		out = slices.Concat(out, []*Export{
			roundTo[int8, F](mode),
			roundTo[int16, F](mode),
			roundTo[int32, F](mode),
			roundTo[int64, F](mode),
			roundToWide(mode, num.I128, func(c *Call, x F) error {
				return abi.StoreI128(c.Mem, c.retptr(), num.RoundToI128(mode, x))
			}),
			roundTo[uint8, F](mode),
			roundTo[uint16, F](mode),
			roundTo[uint32, F](mode),
			roundTo[uint64, F](mode),
			roundToWide(mode, num.U128, func(c *Call, x F) error {
				return abi.StoreU128(c.Mem, c.retptr(), num.RoundToU128(mode, x))
			}),
		})
	}
	return out
}

func roundBase[F num.Float](mode num.Rounding) string {
	return mode.String() + "_" + num.KindOf[F]().String()
}

func roundTo[To num.Integer, F num.Float](mode num.Rounding) *Export {
	from, to := num.KindOf[F](), num.KindOf[To]()
	return scalar(GroupNum, roundBase[F](mode), []num.Kind{to}, bare(to), []Arg{value("x", from)},
		func(_ context.Context, c *Call) error {
			c.Stack[0] = abi.Lower(num.RoundTo[To](mode, abi.Lift[F](c.Stack[0])))
			return nil
		})
}

func roundToWide[F num.Float](mode num.Rounding, to num.Kind, store func(c *Call, x F) error) *Export {
	from := num.KindOf[F]()
	return aggregate(GroupNum, roundBase[F](mode), []num.Kind{to}, bare(to), []Arg{value("x", from)},
		func(_ context.Context, c *Call) error {
			return store(c, abi.Lift[F](c.Stack[1]))
		})
}
