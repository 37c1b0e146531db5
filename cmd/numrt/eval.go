package main

import (
	"context"
	"encoding/hex"
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero/sys"

	"github.com/wippyai/numrt"
	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/errors"
	"github.com/wippyai/numrt/export"
	"github.com/wippyai/numrt/host"
	"github.com/wippyai/numrt/internal/guest"
	"github.com/wippyai/numrt/num"
)

// Guest memory used by one evaluation.
const (
	retPtr   = 0    // result area
	argBase  = 64   // 16-byte slots for headers and 128-bit operands
	dataBase = 1024 // string and list bytes
	slotSize = 16
)

// evaluator calls exports from a generated guest so that every call
// crosses a real wasm import.
type evaluator struct {
	host *host.Host
}

func (ev *evaluator) eval(ctx context.Context, e *export.Export, raw []string) (string, error) {
	if len(raw) != len(e.Args) {
		return "", errors.InvalidInput(errors.PhaseRuntime,
			fmt.Sprintf("%s takes %d argument(s), got %d", e.Symbol, len(e.Args), len(raw)))
	}

	bin, err := guest.Trampoline(ev.host.ModuleName(), e.Symbol, e.Params, e.Results)
	if err != nil {
		return "", err
	}
	g, err := ev.host.Load(ctx, bin)
	if err != nil {
		return "", err
	}
	defer g.Close(ctx)

	mem := g.Memory()
	if mem == nil {
		return "", errors.NotInitialized(errors.PhaseRuntime, "guest memory")
	}
	var stack []uint64
	if e.RetPtr {
		stack = append(stack, retPtr)
	}
	w := &argWriter{mem: mem, slot: argBase, data: dataBase}
	for i, a := range e.Args {
		v, err := w.lower(a, raw[i])
		if err != nil {
			return "", fmt.Errorf("argument %s %q: %w", a.Name, raw[i], err)
		}
		stack = append(stack, v)
	}

	res, err := g.Call(ctx, "invoke", stack...)
	if err != nil {
		return "", describeTrap(err)
	}
	return formatOut(mem, e, res)
}

type argWriter struct {
	mem  numrt.Memory
	slot uint32
	data uint32
}

func (w *argWriter) next() uint32 {
	p := w.slot
	w.slot += slotSize
	return p
}

func (w *argWriter) lower(a export.Arg, s string) (uint64, error) {
	switch a.Form {
	case export.FormString:
		hdr := w.next()
		if err := abi.WriteString(w.mem, hdr, w.data, s); err != nil {
			return 0, err
		}
		w.data += uint32(len(s))
		return uint64(hdr), nil
	case export.FormBytes:
		b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
		if err != nil {
			return 0, errors.InvalidInput(errors.PhaseParse, "bytes must be hex, e.g. 3412")
		}
		hdr := w.next()
		if err := abi.WriteList(w.mem, hdr, w.data, b); err != nil {
			return 0, err
		}
		w.data += uint32(len(b))
		return uint64(hdr), nil
	}

	switch a.Kind {
	case num.I8:
		return lowerParsed(s, num.ParseInt[int8](s))
	case num.I16:
		return lowerParsed(s, num.ParseInt[int16](s))
	case num.I32:
		return lowerParsed(s, num.ParseInt[int32](s))
	case num.I64:
		return lowerParsed(s, num.ParseInt[int64](s))
	case num.U8:
		return lowerParsed(s, num.ParseInt[uint8](s))
	case num.U16:
		return lowerParsed(s, num.ParseInt[uint16](s))
	case num.U32:
		return lowerParsed(s, num.ParseInt[uint32](s))
	case num.U64:
		return lowerParsed(s, num.ParseInt[uint64](s))
	case num.F32:
		return lowerParsed(s, num.ParseFloat[float32](s))
	case num.F64:
		return lowerParsed(s, num.ParseFloat[float64](s))
	case num.I128:
		r := num.ParseI128(s)
		if !r.OK() {
			return 0, parseError(s, a.Kind, r.Err())
		}
		p := w.next()
		return uint64(p), abi.StoreI128(w.mem, p, r.Value)
	case num.U128:
		r := num.ParseU128(s)
		if !r.OK() {
			return 0, parseError(s, a.Kind, r.Err())
		}
		p := w.next()
		return uint64(p), abi.StoreU128(w.mem, p, r.Value)
	}
	return 0, errors.Unsupported(errors.PhaseRuntime, a.Kind.String())
}

func lowerParsed[T num.Real](s string, r num.ParseResult[T]) (uint64, error) {
	if !r.OK() {
		return 0, parseError(s, num.KindOf[T](), r.Err())
	}
	return abi.Lower(r.Value), nil
}

func parseError(s string, k num.Kind, code num.ParseError) error {
	if code == num.ParseOutOfRange {
		return errors.Overflow(errors.PhaseParse, s, k.String())
	}
	return errors.New(errors.PhaseParse, errors.KindInvalidInput).
		Type(k.String()).
		Detail("%s", code).
		Build()
}

func formatOut(mem numrt.Memory, e *export.Export, res []uint64) (string, error) {
	if !e.RetPtr {
		if e.Out.Bool {
			return strconv.FormatBool(res[0] != 0), nil
		}
		return show(e.Out.Kind, res[0]), nil
	}

	value, err := load(mem, e.Out.Kind, retPtr+e.Result.ValueOffset())
	if err != nil {
		return "", err
	}
	if e.Out.Tag == "" {
		return value, nil
	}

	flag, err := mem.ReadU8(retPtr + e.Result.TagOffset())
	if err != nil {
		return "", err
	}
	switch {
	case flag == 0:
		return value, nil
	case e.Out.Tag == export.TagErrorCode:
		return fmt.Sprintf("error %d (%s)", flag, num.ParseError(flag)), nil
	}
	return fmt.Sprintf("%s (%s)", value, e.Out.Tag), nil
}

func show(k num.Kind, raw uint64) string {
	switch k {
	case num.I8:
		return fmt.Sprint(abi.Lift[int8](raw))
	case num.I16:
		return fmt.Sprint(abi.Lift[int16](raw))
	case num.I32:
		return fmt.Sprint(abi.Lift[int32](raw))
	case num.I64:
		return fmt.Sprint(abi.Lift[int64](raw))
	case num.U8:
		return fmt.Sprint(abi.Lift[uint8](raw))
	case num.U16:
		return fmt.Sprint(abi.Lift[uint16](raw))
	case num.U32:
		return fmt.Sprint(abi.Lift[uint32](raw))
	case num.U64:
		return fmt.Sprint(abi.Lift[uint64](raw))
	case num.F32:
		return strconv.FormatFloat(float64(abi.Lift[float32](raw)), 'g', -1, 32)
	case num.F64:
		return strconv.FormatFloat(abi.Lift[float64](raw), 'g', -1, 64)
	}
	return strconv.FormatUint(raw, 10)
}

func load(mem numrt.Memory, k num.Kind, ptr uint32) (string, error) {
	switch k {
	case num.I128:
		v, err := abi.LoadI128(mem, ptr)
		return v.String(), err
	case num.U128:
		v, err := abi.LoadU128(mem, ptr)
		return v.String(), err
	}
	b, err := mem.ReadU64(ptr)
	if err != nil {
		return "", err
	}
	if k.Size() < 8 {
		// narrower values sit in the low bytes
		b &= 1<<(8*k.Size()) - 1
	}
	return show(k, b), nil
}

var trapNames = map[uint32]string{
	num.TrapOverflow:    "overflow",
	num.TrapOutOfBounds: "index out of bounds",
	num.TrapMemory:      "memory access",
}

// describeTrap turns a guest exit into a readable error.
func describeTrap(err error) error {
	var exit *sys.ExitError
	if !stderrors.As(err, &exit) {
		return err
	}
	name, ok := trapNames[exit.ExitCode()]
	if !ok {
		name = "unknown"
	}
	return fmt.Errorf("trapped with code %d (%s)", exit.ExitCode(), name)
}
