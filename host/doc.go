// Package host registers the numrt export table as a wazero host module.
//
// Every export becomes a host function named by its symbol in the module
// "numrt" (configurable). A guest built for wasm32 imports what it needs:
//
//	(import "numrt" "numrt.num.add_saturated.i8" (func (param i32 i32) (result i32)))
//
// Handlers run against the calling guest's memory, so one host serves any
// number of guests concurrently.
//
// A failed trapping export calls Config.Fatal. The default, ExitTrap,
// closes the calling guest with the trap code:
//
//	1  arithmetic overflow
//	2  index out of bounds
//	3  invalid guest memory access
//
// and the guest call returns an error wrapping *sys.ExitError.
package host
