// Package abi moves numrt values across the guest boundary.
//
// It covers three things:
//
//   - Linear memory access: Wrapper adapts a wazero api.Memory, Buffer is a
//     slice-backed memory for tests and offline evaluation.
//   - Stack values: Lift and Lower convert between Go numbers and the
//     uint64 slots of the wasm value stack.
//   - Borrowed views: string and byte-list headers passed by pointer.
//
// Every out-of-bounds access returns a memory_access *errors.Error.
package abi
