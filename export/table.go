package export

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/numrt/errors"
)

// Table is an immutable, symbol-sorted set of exports. Safe for
// concurrent use.
type Table struct {
	bySymbol map[string]*Export
	exports  []*Export
}

// Build validates the exports and sorts them by symbol. Two exports with
// the same symbol are rejected.
func Build(exports ...*Export) (*Table, error) {
	t := &Table{
		bySymbol: make(map[string]*Export, len(exports)),
		exports:  make([]*Export, 0, len(exports)),
	}
	for _, e := range exports {
		if e == nil || e.Handler == nil {
			return nil, errors.InvalidInput(errors.PhaseExport, "export without handler")
		}
		if _, dup := t.bySymbol[e.Symbol]; dup {
			return nil, errors.Duplicate(errors.PhaseExport, "export symbol", e.Symbol)
		}
		t.bySymbol[e.Symbol] = e
		t.exports = append(t.exports, e)
	}
	slices.SortFunc(t.exports, func(a, b *Export) int {
		return strings.Compare(a.Symbol, b.Symbol)
	})

	Logger().Debug("export table built", zap.Int("exports", len(t.exports)))
	return t, nil
}

// Default builds the table of every numrt primitive.
func Default() (*Table, error) {
	var all []*Export
	all = append(all, parseExports()...)
	all = append(all, convertExports()...)
	all = append(all, arithExports()...)
	all = append(all, decodeExports()...)
	all = append(all, mathExports()...)
	return Build(all...)
}

// Lookup finds an export by symbol.
func (t *Table) Lookup(symbol string) (*Export, bool) {
	e, ok := t.bySymbol[symbol]
	return e, ok
}

// Get is Lookup returning a not_found error.
func (t *Table) Get(symbol string) (*Export, error) {
	e, ok := t.bySymbol[symbol]
	if !ok {
		return nil, errors.NotFound(errors.PhaseExport, "export", symbol)
	}
	return e, nil
}

// All returns the exports in symbol order. The slice must not be modified.
func (t *Table) All() []*Export {
	return t.exports
}

// Symbols returns every symbol in sorted order.
func (t *Table) Symbols() []string {
	out := make([]string, len(t.exports))
	for i, e := range t.exports {
		out[i] = e.Symbol
	}
	return out
}

// Len returns the number of exports.
func (t *Table) Len() int {
	return len(t.exports)
}

// Filter returns the exports whose symbol contains substr, in order.
func (t *Table) Filter(substr string) []*Export {
	var out []*Export
	for _, e := range t.exports {
		if strings.Contains(e.Symbol, substr) {
			out = append(out, e)
		}
	}
	return out
}
