package wasm

import (
	"bytes"
	"encoding/binary"
)

// Encode encodes the module to WebAssembly binary format. Empty sections
// are omitted.
func (m *Module) Encode() []byte {
	w := &bytes.Buffer{}
	var hdr [8]byte
	binary.LittleEndian.PutUint32(hdr[:4], Magic)
	binary.LittleEndian.PutUint32(hdr[4:], Version)
	w.Write(hdr[:])

	if len(m.Types) > 0 {
		sec := &bytes.Buffer{}
		WriteLEB128u(sec, uint32(len(m.Types)))
		for _, ft := range m.Types {
			sec.WriteByte(FuncTypeByte)
			writeFuncType(sec, ft)
		}
		writeSection(w, SectionType, sec)
	}

	if len(m.Imports) > 0 {
		sec := &bytes.Buffer{}
		WriteLEB128u(sec, uint32(len(m.Imports)))
		for _, imp := range m.Imports {
			writeName(sec, imp.Module)
			writeName(sec, imp.Name)
			sec.WriteByte(imp.Desc.Kind)
			WriteLEB128u(sec, imp.Desc.TypeIdx)
		}
		writeSection(w, SectionImport, sec)
	}

	if len(m.Funcs) > 0 {
		sec := &bytes.Buffer{}
		WriteLEB128u(sec, uint32(len(m.Funcs)))
		for _, typeIdx := range m.Funcs {
			WriteLEB128u(sec, typeIdx)
		}
		writeSection(w, SectionFunction, sec)
	}

	if len(m.Memories) > 0 {
		sec := &bytes.Buffer{}
		WriteLEB128u(sec, uint32(len(m.Memories)))
		for _, mem := range m.Memories {
			writeLimits(sec, mem.Limits)
		}
		writeSection(w, SectionMemory, sec)
	}

	if len(m.Exports) > 0 {
		sec := &bytes.Buffer{}
		WriteLEB128u(sec, uint32(len(m.Exports)))
		for _, exp := range m.Exports {
			writeName(sec, exp.Name)
			sec.WriteByte(exp.Kind)
			WriteLEB128u(sec, exp.Idx)
		}
		writeSection(w, SectionExport, sec)
	}

	if len(m.Code) > 0 {
		sec := &bytes.Buffer{}
		WriteLEB128u(sec, uint32(len(m.Code)))
		for _, body := range m.Code {
			b := &bytes.Buffer{}
			WriteLEB128u(b, uint32(len(body.Locals)))
			for _, local := range body.Locals {
				WriteLEB128u(b, local.Count)
				b.WriteByte(byte(local.ValType))
			}
			b.Write(body.Code)
			WriteLEB128u(sec, uint32(b.Len()))
			sec.Write(b.Bytes())
		}
		writeSection(w, SectionCode, sec)
	}

	return w.Bytes()
}

func writeSection(w *bytes.Buffer, id byte, data *bytes.Buffer) {
	w.WriteByte(id)
	WriteLEB128u(w, uint32(data.Len()))
	w.Write(data.Bytes())
}

func writeName(w *bytes.Buffer, s string) {
	WriteLEB128u(w, uint32(len(s)))
	w.WriteString(s)
}

func writeFuncType(w *bytes.Buffer, ft FuncType) {
	writeValTypes(w, ft.Params)
	writeValTypes(w, ft.Results)
}

func writeValTypes(w *bytes.Buffer, types []ValType) {
	WriteLEB128u(w, uint32(len(types)))
	for _, t := range types {
		w.WriteByte(byte(t))
	}
}

func writeLimits(w *bytes.Buffer, l Limits) {
	if l.Max == nil {
		w.WriteByte(0)
		WriteLEB128u(w, l.Min)
		return
	}
	w.WriteByte(LimitsHasMax)
	WriteLEB128u(w, l.Min)
	WriteLEB128u(w, *l.Max)
}
