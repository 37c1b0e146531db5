package export

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/numrt"
	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/errors"
	"github.com/wippyai/numrt/layout"
	"github.com/wippyai/numrt/num"
)

var i32 = api.ValueTypeI32

// Form is how an argument crosses the boundary.
type Form uint8

const (
	// FormValue is a number of the argument's kind. 128-bit values are
	// passed by pointer.
	FormValue Form = iota
	// FormString is a pointer to a string header.
	FormString
	// FormBytes is a pointer to a byte-list header.
	FormBytes
)

// Arg describes one parameter after the return pointer.
type Arg struct {
	Name string
	Kind num.Kind
	Form Form
}

// ValueType is the core wasm type the argument is passed as.
func (a Arg) ValueType() api.ValueType {
	if a.Form != FormValue {
		return i32
	}
	return abi.ValueType(a.Kind)
}

// String renders the argument as "name: type".
func (a Arg) String() string {
	switch a.Form {
	case FormString:
		return a.Name + ": str"
	case FormBytes:
		return a.Name + ": list<u8>"
	}
	return a.Name + ": " + a.Kind.String()
}

func value(name string, k num.Kind) Arg { return Arg{Name: name, Kind: k} }

func operands(k num.Kind) []Arg { return []Arg{value("a", k), value("b", k)} }

// Result tags name the trailing byte of a tagged result.
const (
	TagErrorCode     = "error_code"
	TagOutOfBounds   = "out_of_bounds"
	TagHasOverflowed = "has_overflowed"
)

// Out describes what an export produces.
type Out struct {
	// Tag is set for tagged results written through the return pointer.
	Tag  string
	Kind num.Kind
	Bool bool
}

// Layout is the guest layout of the result.
func (o Out) Layout() layout.Info {
	if o.Bool {
		return layout.Bool()
	}
	if o.Tag != "" {
		return layout.Result(o.Kind)
	}
	return layout.Of(o.Kind)
}

// String renders the result type, e.g. "u8" or "{value: i8, has_overflowed}".
func (o Out) String() string {
	switch {
	case o.Bool:
		return "bool"
	case o.Tag != "":
		return "{value: " + o.Kind.String() + ", " + o.Tag + "}"
	}
	return o.Kind.String()
}

func bare(k num.Kind) Out { return Out{Kind: k} }

func tagged(k num.Kind, tag string) Out { return Out{Kind: k, Tag: tag} }

var boolean = Out{Kind: num.U8, Bool: true}

func paramTypes(args []Arg) []api.ValueType {
	out := make([]api.ValueType, len(args))
	for i, a := range args {
		out[i] = a.ValueType()
	}
	return out
}

// aggregate describes an export that writes its result through a return
// pointer in the first parameter.
func aggregate(group, base string, kinds []num.Kind, out Out, args []Arg, h Handler) *Export {
	info := out.Layout()
	return &Export{
		Symbol:  Symbol(group, base, kinds...),
		Group:   group,
		Base:    base,
		Kinds:   kinds,
		Args:    args,
		Out:     out,
		Params:  append([]api.ValueType{i32}, paramTypes(args)...),
		Results: []api.ValueType{},
		RetPtr:  true,
		Result:  &info,
		Handler: h,
	}
}

// scalar describes an export returning its result on the stack.
func scalar(group, base string, kinds []num.Kind, out Out, args []Arg, h Handler) *Export {
	result := i32
	if !out.Bool {
		result = abi.ValueType(out.Kind)
	}
	return &Export{
		Symbol:  Symbol(group, base, kinds...),
		Group:   group,
		Base:    base,
		Kinds:   kinds,
		Args:    args,
		Out:     out,
		Params:  paramTypes(args),
		Results: []api.ValueType{result},
		Handler: h,
	}
}

// retptr is the return pointer of an aggregate export.
func (c *Call) retptr() uint32 { return uint32(c.Stack[0]) }

// ptr reads stack slot i as a guest address.
func (c *Call) ptr(i int) uint32 { return uint32(c.Stack[i]) }

// resultAddrs locates the value and tag fields of a k result at the
// return pointer. The whole struct must lie inside memory, and the tag
// address must not wrap, before anything is written.
func resultAddrs(c *Call, k num.Kind) (valueAt, tagAt uint32, err error) {
	info := layout.Result(k)
	base := c.retptr()
	tagAt, ok := layout.SafeAddU32(base, info.TagOffset())
	if !ok || !fits(c.Mem, base, info.Size) {
		return 0, 0, errors.MemoryAccess("write", base, info.Size)
	}
	return base + info.ValueOffset(), tagAt, nil
}

// fits reports whether n bytes at ptr lie inside mem. Memories that
// cannot report their size are trusted to reject bad accesses, and so is
// a reported size of zero, which is how a full 4GiB memory reads back.
func fits(mem numrt.Memory, ptr, n uint32) bool {
	sizer, ok := mem.(numrt.MemorySizer)
	if !ok || sizer.Size() == 0 {
		return true
	}
	end, ok := layout.SafeAddU32(ptr, n)
	return ok && end <= sizer.Size()
}

// writeResult stores a native value and its tag at the return pointer.
func writeResult[T num.Real](c *Call, value T, flag uint8) error {
	v, t, err := resultAddrs(c, num.KindOf[T]())
	if err != nil {
		return err
	}
	if err := abi.Store(c.Mem, v, value); err != nil {
		return err
	}
	return c.Mem.WriteU8(t, flag)
}

func writeResultI128(c *Call, value num.Int128, flag uint8) error {
	v, t, err := resultAddrs(c, num.I128)
	if err != nil {
		return err
	}
	if err := abi.StoreI128(c.Mem, v, value); err != nil {
		return err
	}
	return c.Mem.WriteU8(t, flag)
}

func writeResultU128(c *Call, value num.UInt128, flag uint8) error {
	v, t, err := resultAddrs(c, num.U128)
	if err != nil {
		return err
	}
	if err := abi.StoreU128(c.Mem, v, value); err != nil {
		return err
	}
	return c.Mem.WriteU8(t, flag)
}

func tag(b bool) uint8 { return uint8(abi.LowerBool(b)) }
