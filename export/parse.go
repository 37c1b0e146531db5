package export

import (
	"context"

	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/num"
)

// String parsers take a pointer to a string header and write a
// ParseResult through the return pointer.
var stringArg = []Arg{{Name: "s", Form: FormString}}

func parseExports() []*Export {
	return []*Export{
		parseInt[int8](),
		parseInt[int16](),
		parseInt[int32](),
		parseInt[int64](),
		parseInt[uint8](),
		parseInt[uint16](),
		parseInt[uint32](),
		parseInt[uint64](),
		parseExport("to_int", num.I128, func(c *Call, s string) error {
			r := num.ParseI128(s)
			return writeResultI128(c, r.Value, r.ErrorCode)
		}),
		parseExport("to_int", num.U128, func(c *Call, s string) error {
			r := num.ParseU128(s)
			return writeResultU128(c, r.Value, r.ErrorCode)
		}),
		parseFloat[float32](),
		parseFloat[float64](),
	}
}

func parseInt[T num.Integer]() *Export {
	k := num.KindOf[T]()
	return parseExport("to_int", k, func(c *Call, s string) error {
		r := num.ParseInt[T](s)
		return writeResult(c, r.Value, r.ErrorCode)
	})
}

func parseFloat[F num.Float]() *Export {
	k := num.KindOf[F]()
	return parseExport("to_float", k, func(c *Call, s string) error {
		r := num.ParseFloat[F](s)
		return writeResult(c, r.Value, r.ErrorCode)
	})
}

func parseExport(base string, k num.Kind, parse func(c *Call, s string) error) *Export {
	return aggregate(GroupStr, base, []num.Kind{k}, tagged(k, TagErrorCode), stringArg,
		func(_ context.Context, c *Call) error {
			b, err := abi.ReadString(c.Mem, c.ptr(1))
			if err != nil {
				return err
			}
			return parse(c, string(b))
		})
}
