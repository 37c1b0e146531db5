// Package layout computes guest-side size, alignment and field offsets.
//
// The calling compiler lays out result structs on its own from the same
// rules, so these calculations are part of the boundary contract.
//
// # Layout Rules
//
//   - Numeric kinds: size equals alignment (i8=1, u32=4, f64=8, i128=16)
//   - Records: fields laid out sequentially with padding for alignment,
//     total size padded to the widest alignment
//   - Result structs: record of (value, 1-byte tag); the tag is always last
//   - String and byte-list views: 12-byte header {ptr, len, cap}
//
// # Usage
//
//	info := layout.Result(num.I64)
//	// info.Size == 16, info.TagOffset() == 8
package layout
