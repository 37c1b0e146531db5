package num

import (
	n128 "github.com/shabbyrobe/go-num"

	"github.com/wippyai/numrt/errors"
)

// BytesToU16 assembles two little-endian bytes starting at offset.
func BytesToU16(buf []byte, offset uint32) (uint16, error) {
	b, err := window(buf, offset, 2)
	if err != nil {
		return 0, err
	}
	return uint16(b[0]) | uint16(b[1])<<8, nil
}

// BytesToU32 assembles four little-endian bytes starting at offset.
func BytesToU32(buf []byte, offset uint32) (uint32, error) {
	b, err := window(buf, offset, 4)
	if err != nil {
		return 0, err
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// BytesToU64 assembles eight little-endian bytes starting at offset.
func BytesToU64(buf []byte, offset uint32) (uint64, error) {
	b, err := window(buf, offset, 8)
	if err != nil {
		return 0, err
	}
	return le64(b), nil
}

// BytesToU128 assembles sixteen little-endian bytes starting at offset.
func BytesToU128(buf []byte, offset uint32) (UInt128, error) {
	b, err := window(buf, offset, 16)
	if err != nil {
		return UInt128{}, err
	}
	return n128.U128FromRaw(le64(b[8:]), le64(b)), nil
}

func le64(b []byte) uint64 {
	var v uint64
	for i := 7; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

// window returns buf[offset:offset+width] or an out_of_range error. The
// sum is computed in 64 bits so a huge offset cannot wrap past the check.
func window(buf []byte, offset uint32, width int) ([]byte, error) {
	end := uint64(offset) + uint64(width)
	if end > uint64(len(buf)) {
		return nil, errors.OutOfRange(errors.PhaseDecode, uint64(offset), width, len(buf))
	}
	return buf[offset:end], nil
}
