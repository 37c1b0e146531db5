package wasm

// Binary header.
const (
	Magic   uint32 = 0x6D736100 // "\0asm"
	Version uint32 = 0x01
)

// Section IDs. Non-custom sections appear in increasing order.
const (
	SectionType     byte = 1
	SectionImport   byte = 2
	SectionFunction byte = 3
	SectionMemory   byte = 5
	SectionExport   byte = 7
	SectionCode     byte = 10
)

// Import and export descriptor kinds.
const (
	KindFunc   byte = 0
	KindMemory byte = 2
)

// Value types.
const (
	ValI32 ValType = 0x7F
	ValI64 ValType = 0x7E
	ValF32 ValType = 0x7D
	ValF64 ValType = 0x7C
)

// FuncTypeByte prefixes every function type in the type section.
const FuncTypeByte byte = 0x60

// LimitsHasMax marks limits that carry a maximum.
const LimitsHasMax byte = 0x01

// Opcodes.
const (
	OpEnd      byte = 0x0B
	OpCall     byte = 0x10
	OpLocalGet byte = 0x20
)
