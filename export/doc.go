// Package export turns the generic primitives of package num into a fixed
// table of guest-callable exports.
//
// Every generic operation is instantiated explicitly for each kind it is
// meaningful for; nothing is dispatched on type at call time. Each
// instantiation gets a deterministic symbol:
//
//	numrt.<group>.<base>[.<kind>...]
//
//	numrt.str.to_int.u8                       parse
//	numrt.num.int_to_u8_checking_max.i64      checked conversion from i64
//	numrt.num.add_with_overflow.i64           flagged arithmetic
//	numrt.num.add_saturated.i64               saturating arithmetic
//	numrt.num.add_or_panic.i64                trapping arithmetic
//	numrt.num.bytes_to_u16                    byte decoding
//	numrt.num.round_f64.i32                   float to integer rounding
//
// Default builds the full table. Build sorts by symbol and rejects
// duplicates, so two builds always list the same symbols in the same
// order.
//
// Handlers read arguments from a wazero-style uint64 stack and guest
// memory. Exports whose result does not fit a single stack value take a
// return pointer as their first parameter and write the result there.
package export
