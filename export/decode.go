package export

import (
	"context"

	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/num"
)

// Decoders take a pointer to a byte-list header and a byte offset. A
// window past the end of the list traps with "Index out of bounds".
var listArgs = []Arg{{Name: "bytes", Form: FormBytes}, value("offset", num.U32)}

func decodeExports() []*Export {
	return []*Export{
		decodeNative(num.U16, num.BytesToU16),
		decodeNative(num.U32, num.BytesToU32),
		decodeNative(num.U64, num.BytesToU64),
		aggregate(GroupNum, "bytes_to_u128", nil, bare(num.U128), listArgs,
			func(_ context.Context, c *Call) error {
				buf, err := abi.ReadList(c.Mem, c.ptr(1))
				if err != nil {
					return err
				}
				v, err := num.BytesToU128(buf, uint32(c.Stack[2]))
				if err != nil {
					return err
				}
				return abi.StoreU128(c.Mem, c.retptr(), v)
			}),
	}
}

func decodeNative[T num.Unsigned](k num.Kind, decode func([]byte, uint32) (T, error)) *Export {
	return scalar(GroupNum, "bytes_to_"+k.String(), nil, bare(k), listArgs,
		func(_ context.Context, c *Call) error {
			buf, err := abi.ReadList(c.Mem, c.ptr(0))
			if err != nil {
				return err
			}
			v, err := decode(buf, uint32(c.Stack[1]))
			if err != nil {
				return err
			}
			c.Stack[0] = abi.Lower(v)
			return nil
		})
}
