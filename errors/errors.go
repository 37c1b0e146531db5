package errors

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseParse   Phase = "parse"   // string to number
	PhaseConvert Phase = "convert" // checked narrowing
	PhaseArith   Phase = "arith"   // overflow-aware arithmetic
	PhaseDecode  Phase = "decode"  // byte buffer to integer
	PhaseMath    Phase = "math"    // float forwarding
	PhaseLayout  Phase = "layout"  // result struct layout
	PhaseExport  Phase = "export"  // export table construction
	PhaseHost    Phase = "host"    // host module registration
	PhaseLoad    Phase = "load"    // guest module loading
	PhaseRuntime Phase = "runtime" // guest calls
)

// Kind categorizes the error
type Kind string

const (
	KindOutOfRange     Kind = "out_of_range"
	KindOverflow       Kind = "overflow"
	KindTrap           Kind = "trap"
	KindInvalidData    Kind = "invalid_data"
	KindInvalidInput   Kind = "invalid_input"
	KindUnsupported    Kind = "unsupported"
	KindDuplicate      Kind = "duplicate"
	KindNotFound       Kind = "not_found"
	KindMemoryAccess   Kind = "memory_access"
	KindMissingImport  Kind = "missing_import"
	KindRegistration   Kind = "registration"
	KindInstantiation  Kind = "instantiation"
	KindNotInitialized Kind = "not_initialized"
)

// Error is the structured error type used throughout numrt
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Symbol string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Symbol != "" {
		b.WriteString(" in ")
		b.WriteString(e.Symbol)
	}

	if e.Type != "" {
		b.WriteString(": type ")
		b.WriteString(e.Type)
	}

	if e.Detail != "" {
		if e.Type != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the numeric type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Symbol sets the export symbol the error belongs to
func (b *Builder) Symbol(s string) *Builder {
	b.err.Symbol = s
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// OutOfRange reports a read of width bytes at offset from a buffer of length bytes.
func OutOfRange(phase Phase, offset uint64, width, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("offset %d + %d bytes exceeds length %d", offset, width, length),
		Value:  offset,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Type:   targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// Trap describes a fatal-error transfer raised by a trapping export.
// Value carries the trap code.
func Trap(msg string, code uint32) *Error {
	return &Error{
		Phase:  PhaseArith,
		Kind:   KindTrap,
		Detail: msg,
		Value:  code,
	}
}

// TrapCode extracts the trap code from a trap error.
func TrapCode(err error) (uint32, bool) {
	e, ok := err.(*Error)
	if !ok || e.Kind != KindTrap {
		return 0, false
	}
	code, ok := e.Value.(uint32)
	return code, ok
}

// MemoryAccess creates an error for a guest memory access outside linear memory.
func MemoryAccess(op string, offset, length uint32) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindMemoryAccess,
		Detail: fmt.Sprintf("memory %s out of bounds: offset=%d, length=%d", op, offset, length),
		Value:  offset,
	}
}

// Duplicate creates an error for a name registered twice.
func Duplicate(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindDuplicate,
		Symbol: name,
		Detail: fmt.Sprintf("duplicate %s", what),
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// MissingImport is one guest import the host module cannot satisfy.
type MissingImport struct {
	Module string
	Name   string
}

// MissingImportsError lists every unresolved import of a guest, ordered
// by module and then name.
type MissingImportsError struct {
	Imports []MissingImport
}

// NewMissingImportsError builds the error from "module#name" keys.
func NewMissingImportsError(keys []string) *MissingImportsError {
	imps := make([]MissingImport, 0, len(keys))
	for _, k := range keys {
		mod, name, _ := strings.Cut(k, "#")
		imps = append(imps, MissingImport{Module: mod, Name: name})
	}
	slices.SortFunc(imps, func(a, b MissingImport) int {
		return cmp.Or(cmp.Compare(a.Module, b.Module), cmp.Compare(a.Name, b.Name))
	})
	return &MissingImportsError{Imports: imps}
}

func (e *MissingImportsError) Error() string {
	if len(e.Imports) == 0 {
		return "[load] missing_import: none"
	}
	keys := make([]string, len(e.Imports))
	for i, imp := range e.Imports {
		keys[i] = imp.Module + "#" + imp.Name
	}
	return fmt.Sprintf("[load] missing_import: %d symbol(s) not exported by the host: %s",
		len(keys), strings.Join(keys, ", "))
}

// Is matches another *MissingImportsError or an *Error of kind
// missing_import in the load phase.
func (e *MissingImportsError) Is(target error) bool {
	switch t := target.(type) {
	case *MissingImportsError:
		return true
	case *Error:
		return t.Phase == PhaseLoad && t.Kind == KindMissingImport
	}
	return false
}

// NotInitialized creates a not-initialized error for missing module/instance
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(phase Phase, module, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Symbol: name,
		Detail: fmt.Sprintf("register %s#%s", module, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
