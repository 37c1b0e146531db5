package export

import (
	"context"
	"slices"

	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/num"
)

// Policy is the failure handling of an arithmetic export.
type Policy uint8

const (
	PolicyFlagged Policy = iota
	PolicySaturated
	PolicyTrapping
)

func (p Policy) suffix() string {
	switch p {
	case PolicySaturated:
		return "_saturated"
	case PolicyTrapping:
		return "_or_panic"
	}
	return "_with_overflow"
}

// ArithBase names an arithmetic export, e.g. "add_with_overflow".
func ArithBase(op num.Op, p Policy) string {
	return op.String() + p.suffix()
}

func arithExports() []*Export {
	var out []*Export
	for _, op := range num.Ops {
		out = slices.Concat(out,
			arithInt[int8](op),
			arithInt[int16](op),
			arithInt[int32](op),
			arithInt[int64](op),
			arithInt[uint8](op),
			arithInt[uint16](op),
			arithInt[uint32](op),
			arithInt[uint64](op),
			arithI128(op),
			arithU128(op),
			arithFloat[float32](op),
			arithFloat[float64](op),
		)
	}
	return out
}

// arithInt instantiates all three policies for a native integer.
func arithInt[T num.Integer](op num.Op) []*Export {
	k := num.KindOf[T]()
	return []*Export{
		arithFlagged[T](op),
		scalar(GroupNum, ArithBase(op, PolicySaturated), []num.Kind{k}, bare(k), operands(k),
			func(_ context.Context, c *Call) error {
				a, b := abi.Lift[T](c.Stack[0]), abi.Lift[T](c.Stack[1])
				c.Stack[0] = abi.Lower(num.Saturated(op, a, b))
				return nil
			}),
		arithTrapping[T](op),
	}
}

// arithFloat instantiates the flagged and trapping policies for a float.
// Saturation is not defined for floats.
func arithFloat[F num.Float](op num.Op) []*Export {
	return []*Export{arithFlagged[F](op), arithTrapping[F](op)}
}

func arithFlagged[T num.Real](op num.Op) *Export {
	k := num.KindOf[T]()
	return aggregate(GroupNum, ArithBase(op, PolicyFlagged), []num.Kind{k}, tagged(k, TagHasOverflowed), operands(k),
		func(_ context.Context, c *Call) error {
			r := num.WithOverflow(op, abi.Lift[T](c.Stack[1]), abi.Lift[T](c.Stack[2]))
			return writeResult(c, r.Value, tag(r.HasOverflowed))
		})
}

func arithTrapping[T num.Real](op num.Op) *Export {
	k := num.KindOf[T]()
	return scalar(GroupNum, ArithBase(op, PolicyTrapping), []num.Kind{k}, bare(k), operands(k),
		func(_ context.Context, c *Call) error {
			a, b := abi.Lift[T](c.Stack[0]), abi.Lift[T](c.Stack[1])
			c.Stack[0] = abi.Lower(num.OrPanic(op, a, b, c.Fatal))
			return nil
		})
}

// 128-bit operands arrive by pointer and every result goes through the
// return pointer.

func arithI128(op num.Op) []*Export {
	kinds := []num.Kind{num.I128}
	args := operands(num.I128)
	load := func(c *Call) (a, b num.Int128, err error) {
		if a, err = abi.LoadI128(c.Mem, c.ptr(1)); err != nil {
			return
		}
		b, err = abi.LoadI128(c.Mem, c.ptr(2))
		return
	}
	return []*Export{
		aggregate(GroupNum, ArithBase(op, PolicyFlagged), kinds, tagged(num.I128, TagHasOverflowed), args,
			func(_ context.Context, c *Call) error {
				a, b, err := load(c)
				if err != nil {
					return err
				}
				r := num.WithOverflowI128(op, a, b)
				return writeResultI128(c, r.Value, tag(r.HasOverflowed))
			}),
		aggregate(GroupNum, ArithBase(op, PolicySaturated), kinds, bare(num.I128), args,
			func(_ context.Context, c *Call) error {
				a, b, err := load(c)
				if err != nil {
					return err
				}
				return abi.StoreI128(c.Mem, c.retptr(), num.SaturatedI128(op, a, b))
			}),
		aggregate(GroupNum, ArithBase(op, PolicyTrapping), kinds, bare(num.I128), args,
			func(_ context.Context, c *Call) error {
				a, b, err := load(c)
				if err != nil {
					return err
				}
				return abi.StoreI128(c.Mem, c.retptr(), num.OrPanicI128(op, a, b, c.Fatal))
			}),
	}
}

func arithU128(op num.Op) []*Export {
	kinds := []num.Kind{num.U128}
	args := operands(num.U128)
	load := func(c *Call) (a, b num.UInt128, err error) {
		if a, err = abi.LoadU128(c.Mem, c.ptr(1)); err != nil {
			return
		}
		b, err = abi.LoadU128(c.Mem, c.ptr(2))
		return
	}
	return []*Export{
		aggregate(GroupNum, ArithBase(op, PolicyFlagged), kinds, tagged(num.U128, TagHasOverflowed), args,
			func(_ context.Context, c *Call) error {
				a, b, err := load(c)
				if err != nil {
					return err
				}
				r := num.WithOverflowU128(op, a, b)
				return writeResultU128(c, r.Value, tag(r.HasOverflowed))
			}),
		aggregate(GroupNum, ArithBase(op, PolicySaturated), kinds, bare(num.U128), args,
			func(_ context.Context, c *Call) error {
				a, b, err := load(c)
				if err != nil {
					return err
				}
				return abi.StoreU128(c.Mem, c.retptr(), num.SaturatedU128(op, a, b))
			}),
		aggregate(GroupNum, ArithBase(op, PolicyTrapping), kinds, bare(num.U128), args,
			func(_ context.Context, c *Call) error {
				a, b, err := load(c)
				if err != nil {
					return err
				}
				return abi.StoreU128(c.Mem, c.retptr(), num.OrPanicU128(op, a, b, c.Fatal))
			}),
	}
}
