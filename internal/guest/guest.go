// Package guest generates minimal wasm32 modules that call numrt exports.
//
// A generated module imports functions from the host module, exports its
// linear memory as "memory" and exports one forwarding function per import
// that passes its parameters straight through. Tests and the CLI use it to
// reach exports through real wasm imports.
package guest

import (
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/numrt/wasm"
)

// MemoryExport is the name the linear memory is exported under.
const MemoryExport = "memory"

// Import is one host function the module imports and forwards.
type Import struct {
	Module  string
	Name    string
	Export  string // forwarder name; Name when empty
	Params  []api.ValueType
	Results []api.ValueType
}

func (i Import) exportName() string {
	if i.Export != "" {
		return i.Export
	}
	return i.Name
}

// Module describes a generated guest.
type Module struct {
	Imports []Import
	// Pages is the initial memory size in 64KiB pages. Zero means one.
	Pages uint32
	// MaxPages caps memory growth. Zero leaves it unbounded.
	MaxPages uint32
}

// Wasm assembles the core module. Imports sharing a signature share a
// type entry.
func (m *Module) Wasm() (*wasm.Module, error) {
	out := &wasm.Module{}
	for _, imp := range m.Imports {
		typeIdx := out.AddType(wasm.FuncType{
			Params:  valTypes(imp.Params),
			Results: valTypes(imp.Results),
		})
		out.Imports = append(out.Imports, wasm.Import{
			Module: imp.Module,
			Name:   imp.Name,
			Desc:   wasm.ImportDesc{Kind: wasm.KindFunc, TypeIdx: typeIdx},
		})
		out.Funcs = append(out.Funcs, typeIdx)
	}

	limits := wasm.Limits{Min: max(m.Pages, 1)}
	if m.MaxPages != 0 {
		maxPages := max(m.MaxPages, limits.Min)
		limits.Max = &maxPages
	}
	out.Memories = []wasm.MemoryType{{Limits: limits}}
	out.Exports = []wasm.Export{{Name: MemoryExport, Kind: wasm.KindMemory}}

	base := uint32(out.NumImportedFuncs())
	for i, imp := range m.Imports {
		code, err := wasm.EncodeInstructions(forward(len(imp.Params), uint32(i)))
		if err != nil {
			return nil, err
		}
		out.Code = append(out.Code, wasm.FuncBody{Code: code})
		out.Exports = append(out.Exports, wasm.Export{
			Name: imp.exportName(),
			Kind: wasm.KindFunc,
			Idx:  base + uint32(i),
		})
	}
	return out, nil
}

// Encode produces the module binary.
func (m *Module) Encode() ([]byte, error) {
	mod, err := m.Wasm()
	if err != nil {
		return nil, err
	}
	return mod.Encode(), nil
}

// forward pushes every parameter and calls callee.
func forward(params int, callee uint32) []wasm.Instruction {
	instrs := make([]wasm.Instruction, 0, params+2)
	for p := range params {
		instrs = append(instrs, wasm.Instruction{Opcode: wasm.OpLocalGet, Imm: wasm.LocalImm{LocalIdx: uint32(p)}})
	}
	return append(instrs,
		wasm.Instruction{Opcode: wasm.OpCall, Imm: wasm.CallImm{FuncIdx: callee}},
		wasm.Instruction{Opcode: wasm.OpEnd},
	)
}

func valTypes(types []api.ValueType) []wasm.ValType {
	out := make([]wasm.ValType, len(types))
	for i, t := range types {
		out[i] = wasm.ValType(t)
	}
	return out
}

// Trampoline builds a module forwarding a single import under the export
// name "invoke".
func Trampoline(module, name string, params, results []api.ValueType) ([]byte, error) {
	m := &Module{Imports: []Import{{
		Module:  module,
		Name:    name,
		Export:  "invoke",
		Params:  params,
		Results: results,
	}}}
	return m.Encode()
}
