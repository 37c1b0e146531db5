// Package numrt is a width-generic numeric runtime exported to WebAssembly
// guests.
//
// Compilers that target wasm32 import numrt primitives from the host
// module "numrt" instead of emitting their own overflow checks, literal
// parsers and rounding code. Every primitive is instantiated once per
// concrete numeric type and exported under a deterministic symbol, such as
// numrt.num.add_with_overflow.i64 or numrt.str.to_int.u8.
//
// # Architecture Overview
//
//	numrt/            Root package with the guest Memory interface
//	├── num/          Generic numeric primitives and result types
//	├── layout/       Guest-side size, alignment and field offsets
//	├── abi/          Guest memory access, string and list headers, stack values
//	├── export/       Symbol naming and the enumerated export table
//	├── host/         wazero host module binding and fatal handler
//	├── errors/       Structured error types for debugging
//	├── wasm/         Core wasm module model and binary encoder
//	├── internal/guest/ Forwarding guests built on wasm/
//	└── cmd/numrt/    CLI: list exports, evaluate a call, interactive explorer
//
// # Quick Start
//
//	h, err := host.New(ctx, host.Config{})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close(ctx)
//
//	g, err := h.Load(ctx, guestWasm)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := g.Call(ctx, "run")
//
// Load instantiates the host module on first use and rejects guests that
// import numrt symbols the table does not contain.
//
// The guest imports what it needs:
//
//	(import "numrt" "numrt.num.add_with_overflow.i8"
//	    (func (param i32 i32 i32)))
//
// # Calling Convention
//
// Integers up to 32 bits travel as i32, 64-bit integers as i64, floats as
// f32 or f64. 128-bit integers and aggregate results travel through linear
// memory: a 128-bit argument is an i32 pointer to 16 little-endian bytes,
// and an aggregate result is written through a return pointer passed as the
// first parameter. Result structs put the value first and a one-byte tag
// last; see the layout package for the exact offsets.
//
// # Thread Safety
//
// Every export is a pure function of its arguments. Host and its modules
// are safe for concurrent use.
package numrt
