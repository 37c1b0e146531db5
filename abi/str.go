package abi

import (
	"encoding/binary"

	"github.com/wippyai/numrt"
	"github.com/wippyai/numrt/errors"
	"github.com/wippyai/numrt/layout"
)

const (
	smallStringFlag = 0x80
	sliceFlag       = 1 << 31
)

// ReadString returns the bytes of the string whose header sits at ptr.
//
// The header is {ptr u32, len u32, cap u32}. When the high bit of its last
// byte is set the header is a small string: bytes 0..10 hold the data and
// the low seven bits of byte 11 the length. The high bit of len marks a
// slice of a larger allocation and is not part of the length.
//
// The result may alias guest memory; callers must not retain it past the
// call.
func ReadString(mem numrt.Memory, ptr uint32) ([]byte, error) {
	hdr, err := mem.Read(ptr, layout.StringHeaderSize)
	if err != nil {
		return nil, err
	}
	if last := hdr[layout.StringHeaderSize-1]; last&smallStringFlag != 0 {
		n := uint32(last &^ smallStringFlag)
		if n > layout.SmallStringMax {
			return nil, errors.InvalidData(errors.PhaseRuntime, []string{"string"}, "small string length exceeds header")
		}
		return hdr[:n], nil
	}
	return readView(mem, hdr)
}

// ReadList returns the bytes of the byte list whose header sits at ptr.
func ReadList(mem numrt.Memory, ptr uint32) ([]byte, error) {
	hdr, err := mem.Read(ptr, layout.ListHeaderSize)
	if err != nil {
		return nil, err
	}
	return readView(mem, hdr)
}

func readView(mem numrt.Memory, hdr []byte) ([]byte, error) {
	data := binary.LittleEndian.Uint32(hdr[0:4])
	n := binary.LittleEndian.Uint32(hdr[4:8]) &^ sliceFlag
	if n == 0 {
		return nil, nil
	}
	return mem.Read(data, n)
}

// WriteString stores s for a guest to read back with ReadString. Strings
// that fit are stored inline in the header at hdr; longer ones are copied
// to data and the header points at them.
func WriteString(mem numrt.Memory, hdr, data uint32, s string) error {
	var h [layout.StringHeaderSize]byte
	if len(s) <= layout.SmallStringMax {
		copy(h[:], s)
		h[layout.StringHeaderSize-1] = byte(len(s)) | smallStringFlag
		return mem.Write(hdr, h[:])
	}
	if err := mem.Write(data, []byte(s)); err != nil {
		return err
	}
	putView(h[:], data, uint32(len(s)))
	return mem.Write(hdr, h[:])
}

// WriteList copies b to data and writes a list header at hdr.
func WriteList(mem numrt.Memory, hdr, data uint32, b []byte) error {
	if err := mem.Write(data, b); err != nil {
		return err
	}
	var h [layout.ListHeaderSize]byte
	putView(h[:], data, uint32(len(b)))
	return mem.Write(hdr, h[:])
}

func putView(h []byte, data, n uint32) {
	binary.LittleEndian.PutUint32(h[0:4], data)
	binary.LittleEndian.PutUint32(h[4:8], n)
	binary.LittleEndian.PutUint32(h[8:12], n)
}
