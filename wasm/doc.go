// Package wasm encodes core WebAssembly modules.
//
// It covers the subset numrt emits: function types, function imports,
// one linear memory, exports and code bodies built from plain
// instructions. Modules are assembled in memory and written with
// Module.Encode; the result is a version 1 binary any core runtime
// accepts.
//
// Index spaces follow the binary format: imported functions come first,
// so the first declared function has index len(Imports) when every import
// is a function.
package wasm
