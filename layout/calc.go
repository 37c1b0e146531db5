package layout

import (
	"math"

	"github.com/wippyai/numrt/num"
)

// Info is the in-memory shape of a guest value.
type Info struct {
	Size      uint32
	Align     uint32
	FieldOffs []uint32
}

// Header sizes of the borrowed views passed by pointer.
const (
	StringHeaderSize = 12 // [ptr: u32, len: u32, cap: u32]
	ListHeaderSize   = 12 // [ptr: u32, len: u32, cap: u32]
	SmallStringMax   = StringHeaderSize - 1
)

// Of returns the layout of one numeric kind. Every kind is aligned to its
// own size.
func Of(k num.Kind) Info {
	if !k.Valid() {
		return Info{Size: 0, Align: 1}
	}
	return Info{Size: k.Size(), Align: k.Align()}
}

// Bool is the one-byte tag at the end of every result struct.
func Bool() Info { return Info{Size: 1, Align: 1} }

// StringHeader is the layout of the string view header.
func StringHeader() Info { return Info{Size: StringHeaderSize, Align: 4} }

// ListHeader is the layout of the byte-list view header.
func ListHeader() Info { return Info{Size: ListHeaderSize, Align: 4} }

// Record lays out fields sequentially, padding each to its alignment and
// the whole to the widest alignment.
func Record(fields ...Info) Info {
	if len(fields) == 0 {
		return Info{Size: 0, Align: 1}
	}

	fieldOffs := make([]uint32, len(fields))
	maxAlign := uint32(1)
	offset := uint32(0)

	for i, field := range fields {
		offset = AlignTo(offset, field.Align)
		fieldOffs[i] = offset

		if field.Align > maxAlign {
			maxAlign = field.Align
		}

		offset += field.Size
	}

	return Info{
		Size:      AlignTo(offset, maxAlign),
		Align:     maxAlign,
		FieldOffs: fieldOffs,
	}
}

// Result is the layout shared by ParseResult, CheckedConversionResult and
// OverflowResult over k: value at offset 0, tag at offset k.Size().
func Result(k num.Kind) Info {
	return Record(Of(k), Bool())
}

// ValueOffset is the offset of the value field of a result struct.
func (i Info) ValueOffset() uint32 { return i.field(0) }

// TagOffset is the offset of the tag field of a result struct.
func (i Info) TagOffset() uint32 { return i.field(1) }

func (i Info) field(n int) uint32 {
	if n >= len(i.FieldOffs) {
		return 0
	}
	return i.FieldOffs[n]
}

// AlignTo rounds offset up to a multiple of align, a power of two.
func AlignTo(offset, align uint32) uint32 {
	if align == 0 {
		return offset
	}
	return (offset + align - 1) &^ (align - 1)
}

// SafeAddU32 adds guest addresses, reporting wraparound.
func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}
