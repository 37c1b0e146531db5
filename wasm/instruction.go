package wasm

import (
	"bytes"
	"fmt"
)

// Instruction is one instruction with its immediate, if any.
type Instruction struct {
	Imm    any
	Opcode byte
}

// CallImm holds the callee of a call.
type CallImm struct {
	FuncIdx uint32
}

// LocalImm holds the index of a local or parameter.
type LocalImm struct {
	LocalIdx uint32
}

// EncodeInstructions encodes instrs in order. Opcodes outside the
// supported set are an error.
func EncodeInstructions(instrs []Instruction) ([]byte, error) {
	var buf bytes.Buffer
	for _, in := range instrs {
		buf.WriteByte(in.Opcode)
		switch in.Opcode {
		case OpEnd:
		case OpCall:
			imm, ok := in.Imm.(CallImm)
			if !ok {
				return nil, fmt.Errorf("call: immediate %T, want CallImm", in.Imm)
			}
			WriteLEB128u(&buf, imm.FuncIdx)
		case OpLocalGet:
			imm, ok := in.Imm.(LocalImm)
			if !ok {
				return nil, fmt.Errorf("local.get: immediate %T, want LocalImm", in.Imm)
			}
			WriteLEB128u(&buf, imm.LocalIdx)
		default:
			return nil, fmt.Errorf("unsupported opcode 0x%02x", in.Opcode)
		}
	}
	return buf.Bytes(), nil
}
