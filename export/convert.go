package export

import (
	"context"
	"slices"

	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/num"
)

// reader loads the source operand of a conversion as an exact value.
type reader func(c *Call) (num.Exact, error)

// convertExports instantiates both checked conversions for every ordered
// pair of integer kinds.
func convertExports() []*Export {
	return slices.Concat(
		convertFrom[int8](),
		convertFrom[int16](),
		convertFrom[int32](),
		convertFrom[int64](),
		convertFrom[uint8](),
		convertFrom[uint16](),
		convertFrom[uint32](),
		convertFrom[uint64](),
		convertFromWide(num.I128, readI128),
		convertFromWide(num.U128, readU128),
	)
}

func convertFrom[From num.Integer]() []*Export {
	read := func(c *Call) (num.Exact, error) {
		return num.ExactOf(abi.Lift[From](c.Stack[1])), nil
	}
	return slices.Concat(
		convertNative[int8, From](),
		convertNative[int16, From](),
		convertNative[int32, From](),
		convertNative[int64, From](),
		convertNative[uint8, From](),
		convertNative[uint16, From](),
		convertNative[uint32, From](),
		convertNative[uint64, From](),
		convertToWide(num.KindOf[From](), read),
	)
}

func convertFromWide(from num.Kind, read reader) []*Export {
	return slices.Concat(
		convertExact[int8](from, read),
		convertExact[int16](from, read),
		convertExact[int32](from, read),
		convertExact[int64](from, read),
		convertExact[uint8](from, read),
		convertExact[uint16](from, read),
		convertExact[uint32](from, read),
		convertExact[uint64](from, read),
		convertToWide(from, read),
	)
}

func convertNative[To, From num.Integer]() []*Export {
	to, from := num.KindOf[To](), num.KindOf[From]()
	return []*Export{
		convertExport(to, from, false, func(_ context.Context, c *Call) error {
			r := num.ToIntCheckingMax[To](abi.Lift[From](c.Stack[1]))
			return writeResult(c, r.Value, tag(r.OutOfBounds))
		}),
		convertExport(to, from, true, func(_ context.Context, c *Call) error {
			r := num.ToIntCheckingMaxAndMin[To](abi.Lift[From](c.Stack[1]))
			return writeResult(c, r.Value, tag(r.OutOfBounds))
		}),
	}
}

func convertExact[To num.Integer](from num.Kind, read reader) []*Export {
	to := num.KindOf[To]()
	out := make([]*Export, 0, 2)
	for _, checkMin := range []bool{false, true} {
		out = append(out, convertExport(to, from, checkMin, func(_ context.Context, c *Call) error {
			x, err := read(c)
			if err != nil {
				return err
			}
			r := num.ExactToIntChecking[To](x, checkMin)
			return writeResult(c, r.Value, tag(r.OutOfBounds))
		}))
	}
	return out
}

func convertToWide(from num.Kind, read reader) []*Export {
	out := make([]*Export, 0, 4)
	for _, checkMin := range []bool{false, true} {
		out = append(out,
			convertExport(num.I128, from, checkMin, func(_ context.Context, c *Call) error {
				x, err := read(c)
				if err != nil {
					return err
				}
				r := num.ToI128Checking(x, checkMin)
				return writeResultI128(c, r.Value, tag(r.OutOfBounds))
			}),
			convertExport(num.U128, from, checkMin, func(_ context.Context, c *Call) error {
				x, err := read(c)
				if err != nil {
					return err
				}
				r := num.ToU128Checking(x, checkMin)
				return writeResultU128(c, r.Value, tag(r.OutOfBounds))
			}),
		)
	}
	return out
}

// convertExport names a conversion after its target and instantiates it
// over the source: numrt.num.int_to_u8_checking_max.i64.
func convertExport(to, from num.Kind, checkMin bool, h Handler) *Export {
	base := "int_to_" + to.String() + "_checking_max"
	if checkMin {
		base += "_and_min"
	}
	return aggregate(GroupNum, base, []num.Kind{from}, tagged(to, TagOutOfBounds), []Arg{value("x", from)}, h)
}

func readI128(c *Call) (num.Exact, error) {
	v, err := abi.LoadI128(c.Mem, c.ptr(1))
	return num.ExactOfI128(v), err
}

func readU128(c *Call) (num.Exact, error) {
	v, err := abi.LoadU128(c.Mem, c.ptr(1))
	return num.ExactOfU128(v), err
}
