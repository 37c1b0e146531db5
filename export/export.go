package export

import (
	"context"
	stderrors "errors"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/numrt"
	"github.com/wippyai/numrt/errors"
	"github.com/wippyai/numrt/layout"
	"github.com/wippyai/numrt/num"
)

// Prefix starts every export symbol.
const Prefix = "numrt"

// Symbol groups.
const (
	GroupNum = "num"
	GroupStr = "str"
)

// Symbol builds the export name for base instantiated over kinds:
//
//	Symbol("num", "add_with_overflow", num.I64) -> "numrt.num.add_with_overflow.i64"
//	Symbol("num", "bytes_to_u16")               -> "numrt.num.bytes_to_u16"
func Symbol(group, base string, kinds ...num.Kind) string {
	var b strings.Builder
	b.WriteString(Prefix)
	b.WriteByte('.')
	b.WriteString(group)
	b.WriteByte('.')
	b.WriteString(base)
	for _, k := range kinds {
		b.WriteByte('.')
		b.WriteString(k.String())
	}
	return b.String()
}

// Call is the state a handler sees for one guest invocation. Stack holds
// the arguments on entry and receives scalar results, as in wazero's
// GoModuleFunc.
type Call struct {
	Mem   numrt.Memory
	Fatal num.FatalHandler
	Stack []uint64
}

// Handler implements one export. A returned error is turned into a trap.
type Handler func(ctx context.Context, c *Call) error

// Export is one instantiated primitive.
type Export struct {
	Handler Handler
	// Result is the layout written through the return pointer when RetPtr
	// is set.
	Result  *layout.Info
	Symbol  string
	Group   string
	Base    string
	Kinds   []num.Kind
	Args    []Arg
	Out     Out
	Params  []api.ValueType
	Results []api.ValueType
	RetPtr  bool
}

// Invoke runs the handler. A handler error goes to c.Fatal with the
// matching trap code and Invoke does not return.
func (e *Export) Invoke(ctx context.Context, c *Call) {
	if err := e.Handler(ctx, c); err != nil {
		msg, code := trapFor(err)
		Logger().Debug("export trapped",
			zap.String("symbol", e.Symbol),
			zap.Error(err))
		num.Fatal(c.Fatal, msg, code)
	}
}

// StackSize is the number of uint64 slots a call needs.
func (e *Export) StackSize() int {
	return max(len(e.Params), len(e.Results))
}

// Signature renders the core wasm signature, e.g. "(i32, i64, i64) -> ()".
func (e *Export) Signature() string {
	var b strings.Builder
	writeTypes(&b, e.Params)
	b.WriteString(" -> ")
	writeTypes(&b, e.Results)
	return b.String()
}

// Describe renders the export at the source level, e.g.
// "numrt.num.add_with_overflow.i8(a: i8, b: i8) -> {value: i8, has_overflowed}".
func (e *Export) Describe() string {
	var b strings.Builder
	b.WriteString(e.Symbol)
	b.WriteByte('(')
	for i, a := range e.Args {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(a.String())
	}
	b.WriteString(") -> ")
	b.WriteString(e.Out.String())
	return b.String()
}

func writeTypes(b *strings.Builder, types []api.ValueType) {
	b.WriteByte('(')
	for i, t := range types {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(api.ValueTypeName(t))
	}
	b.WriteByte(')')
}

func trapFor(err error) (string, uint32) {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Kind == errors.KindOutOfRange {
		return "Index out of bounds", num.TrapOutOfBounds
	}
	return err.Error(), num.TrapMemory
}
