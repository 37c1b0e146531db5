package abi

import (
	"encoding/binary"
	"math"

	n128 "github.com/shabbyrobe/go-num"
	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/numrt"
	"github.com/wippyai/numrt/num"
)

// ValueType returns the core wasm type a kind travels as on the stack.
// 128-bit integers travel as an i32 pointer.
func ValueType(k num.Kind) api.ValueType {
	switch {
	case k.Wide():
		return api.ValueTypeI32
	case k == num.F32:
		return api.ValueTypeF32
	case k == num.F64:
		return api.ValueTypeF64
	case k.Size() == 8:
		return api.ValueTypeI64
	}
	return api.ValueTypeI32
}

// Lift reads a native number from a stack slot. Integers are truncated
// to T; floats are reinterpreted from their IEEE bits.
func Lift[T num.Real](v uint64) T {
	switch num.KindOf[T]() {
	case num.F32:
		return T(math.Float32frombits(uint32(v)))
	case num.F64:
		return T(math.Float64frombits(v))
	}
	return T(v)
}

// Lower writes a native number into a stack slot. Integers of 32 bits or
// fewer occupy an i32 slot and are sign- or zero-extended to 32 bits.
func Lower[T num.Real](v T) uint64 {
	switch k := num.KindOf[T](); {
	case k == num.F32:
		return uint64(math.Float32bits(float32(v)))
	case k == num.F64:
		return math.Float64bits(float64(v))
	case k.Size() <= 4:
		return uint64(uint32(v))
	}
	return uint64(v)
}

// LowerBool writes a flag into an i32 slot.
func LowerBool(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Store writes v little-endian at ptr using T's width.
func Store[T num.Real](mem numrt.Memory, ptr uint32, v T) error {
	bits := Lower(v)
	switch num.KindOf[T]().Size() {
	case 1:
		return mem.WriteU8(ptr, uint8(bits))
	case 2:
		return mem.WriteU16(ptr, uint16(bits))
	case 4:
		return mem.WriteU32(ptr, uint32(bits))
	default:
		return mem.WriteU64(ptr, bits)
	}
}

// Load reads a T stored little-endian at ptr.
func Load[T num.Real](mem numrt.Memory, ptr uint32) (T, error) {
	var (
		bits uint64
		err  error
	)
	switch num.KindOf[T]().Size() {
	case 1:
		var v uint8
		v, err = mem.ReadU8(ptr)
		bits = uint64(v)
	case 2:
		var v uint16
		v, err = mem.ReadU16(ptr)
		bits = uint64(v)
	case 4:
		var v uint32
		v, err = mem.ReadU32(ptr)
		bits = uint64(v)
	default:
		bits, err = mem.ReadU64(ptr)
	}
	if err != nil {
		var zero T
		return zero, err
	}
	return Lift[T](bits), nil
}

// StoreU128 writes 16 little-endian bytes at ptr.
func StoreU128(mem numrt.Memory, ptr uint32, v num.UInt128) error {
	hi, lo := v.Raw()
	var b [16]byte
	binary.LittleEndian.PutUint64(b[:8], lo)
	binary.LittleEndian.PutUint64(b[8:], hi)
	return mem.Write(ptr, b[:])
}

// StoreI128 writes the two's-complement bytes of v at ptr.
func StoreI128(mem numrt.Memory, ptr uint32, v num.Int128) error {
	hi, lo := v.Raw()
	return StoreU128(mem, ptr, n128.U128FromRaw(hi, lo))
}

// LoadU128 reads 16 little-endian bytes at ptr.
func LoadU128(mem numrt.Memory, ptr uint32) (num.UInt128, error) {
	b, err := mem.Read(ptr, 16)
	if err != nil {
		return num.UInt128{}, err
	}
	return num.BytesToU128(b, 0)
}

// LoadI128 reads a two's-complement 128-bit integer at ptr.
func LoadI128(mem numrt.Memory, ptr uint32) (num.Int128, error) {
	u, err := LoadU128(mem, ptr)
	if err != nil {
		return num.Int128{}, err
	}
	hi, lo := u.Raw()
	return n128.I128FromRaw(hi, lo), nil
}
