package wasm

import "slices"

// Module is a core module under construction.
type Module struct {
	Types    []FuncType
	Imports  []Import
	Funcs    []uint32 // type index of each declared function
	Memories []MemoryType
	Exports  []Export
	Code     []FuncBody
}

// ValType is a value type encoding.
type ValType byte

// FuncType is a function signature.
type FuncType struct {
	Params  []ValType
	Results []ValType
}

// Import is an imported item. Only function imports are encoded.
type Import struct {
	Desc   ImportDesc
	Module string
	Name   string
}

// ImportDesc describes an imported item.
type ImportDesc struct {
	TypeIdx uint32
	Kind    byte
}

// MemoryType describes a linear memory in 64KiB pages.
type MemoryType struct {
	Limits Limits
}

// Limits bounds a memory. Max is optional.
type Limits struct {
	Max *uint32
	Min uint32
}

// Export names an item of the module.
type Export struct {
	Name string
	Kind byte
	Idx  uint32
}

// FuncBody holds local declarations and code, including the final end.
type FuncBody struct {
	Locals []LocalEntry
	Code   []byte
}

// LocalEntry declares Count locals of one type.
type LocalEntry struct {
	Count   uint32
	ValType ValType
}

// AddType adds a function type and returns its index, reusing an equal
// one if present.
func (m *Module) AddType(ft FuncType) uint32 {
	for i, t := range m.Types {
		if slices.Equal(t.Params, ft.Params) && slices.Equal(t.Results, ft.Results) {
			return uint32(i)
		}
	}
	m.Types = append(m.Types, ft)
	return uint32(len(m.Types) - 1)
}

// NumImportedFuncs counts function imports, which precede declared
// functions in the function index space.
func (m *Module) NumImportedFuncs() int {
	n := 0
	for _, imp := range m.Imports {
		if imp.Desc.Kind == KindFunc {
			n++
		}
	}
	return n
}
