package export

import (
	"context"
	stderrors "errors"
	"math"
	"slices"
	"sync"
	"testing"

	n128 "github.com/shabbyrobe/go-num"

	"github.com/wippyai/numrt"
	"github.com/wippyai/numrt/abi"
	"github.com/wippyai/numrt/errors"
	"github.com/wippyai/numrt/num"
)

func defaultTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	return tbl
}

type trap struct {
	msg   string
	code  uint32
	calls int
}

// call invokes sym with args and returns the stack afterwards. A trap is
// reported through the returned record instead of a panic.
func call(t *testing.T, tbl *Table, sym string, mem numrt.Memory, args ...uint64) ([]uint64, *trap) {
	t.Helper()
	e, err := tbl.Get(sym)
	if err != nil {
		t.Fatalf("Get(%q): %v", sym, err)
	}
	if len(args) != len(e.Params) {
		t.Fatalf("%s: got %d args, want %d", sym, len(args), len(e.Params))
	}
	stack := make([]uint64, e.StackSize())
	copy(stack, args)

	tr := &trap{}
	c := &Call{
		Mem:   mem,
		Stack: stack,
		Fatal: func(msg string, code uint32) {
			tr.calls++
			tr.msg, tr.code = msg, code
		},
	}
	func() {
		defer func() {
			if r := recover(); r != nil && tr.calls == 0 {
				panic(r)
			}
		}()
		e.Invoke(context.Background(), c)
	}()
	if tr.calls == 0 {
		return stack, nil
	}
	return stack, tr
}

func TestSymbol(t *testing.T) {
	tests := []struct {
		got, want string
	}{
		{Symbol(GroupNum, "add_with_overflow", num.I64), "numrt.num.add_with_overflow.i64"},
		{Symbol(GroupStr, "to_int", num.U8), "numrt.str.to_int.u8"},
		{Symbol(GroupNum, "bytes_to_u16"), "numrt.num.bytes_to_u16"},
		{Symbol(GroupNum, ArithBase(num.OpMul, PolicySaturated), num.U128), "numrt.num.mul_saturated.u128"},
	}
	for _, tc := range tests {
		if tc.got != tc.want {
			t.Errorf("got %q, want %q", tc.got, tc.want)
		}
	}
}

func TestDefaultTable(t *testing.T) {
	tbl := defaultTable(t)

	// parse 12, convert 10*10*2, arith 3*(8*3 + 2*3 + 2*2),
	// decode 4, math 2*12 + 2*3*10
	if got, want := tbl.Len(), 12+200+102+4+84; got != want {
		t.Errorf("exports: got %d, want %d", got, want)
	}

	want := []string{
		"numrt.num.add_with_overflow.i64",
		"numrt.num.add_saturated.i8",
		"numrt.num.add_or_panic.f64",
		"numrt.num.sub_with_overflow.u128",
		"numrt.num.mul_or_panic.i128",
		"numrt.str.to_int.u8",
		"numrt.str.to_int.i128",
		"numrt.str.to_float.f32",
		"numrt.num.int_to_u8_checking_max.i64",
		"numrt.num.int_to_u8_checking_max_and_min.i64",
		"numrt.num.int_to_i128_checking_max_and_min.u128",
		"numrt.num.round_f64.i32",
		"numrt.num.floor_f32.u128",
		"numrt.num.ceiling_f64.u8",
		"numrt.num.bytes_to_u16",
		"numrt.num.bytes_to_u128",
		"numrt.num.asin.f32",
		"numrt.num.pow.f64",
		"numrt.num.is_infinite.f32",
	}
	for _, sym := range want {
		if _, ok := tbl.Lookup(sym); !ok {
			t.Errorf("missing %s", sym)
		}
	}

	for _, sym := range []string{"numrt.num.add_saturated.f32", "numrt.str.to_float.i32"} {
		if _, ok := tbl.Lookup(sym); ok {
			t.Errorf("unexpected %s", sym)
		}
	}

	if !slices.IsSorted(tbl.Symbols()) {
		t.Error("symbols not sorted")
	}
}

func TestDefaultDeterministic(t *testing.T) {
	first := defaultTable(t).Symbols()

	var wg sync.WaitGroup
	results := make([][]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tbl, err := Default()
			if err == nil {
				results[i] = tbl.Symbols()
			}
		}(i)
	}
	wg.Wait()

	for i, syms := range results {
		if !slices.Equal(syms, first) {
			t.Errorf("build %d differs", i)
		}
	}
}

func TestBuildRejectsDuplicates(t *testing.T) {
	h := func(context.Context, *Call) error { return nil }
	a := scalar(GroupNum, "x", []num.Kind{num.I8}, bare(num.I8), nil, h)
	b := scalar(GroupNum, "x", []num.Kind{num.I8}, bare(num.I8), nil, h)

	_, err := Build(a, b)
	var e *errors.Error
	if !stderrors.As(err, &e) || e.Kind != errors.KindDuplicate {
		t.Fatalf("got %v, want duplicate error", err)
	}
	if e.Symbol != "numrt.num.x.i8" {
		t.Errorf("symbol: got %q", e.Symbol)
	}

	if _, err := Build(&Export{Symbol: "y"}); err == nil {
		t.Error("expected error for export without handler")
	}
}

func TestSignature(t *testing.T) {
	tbl := defaultTable(t)
	tests := []struct {
		sym  string
		want string
	}{
		{"numrt.num.add_with_overflow.i8", "(i32, i32, i32) -> ()"},
		{"numrt.num.add_saturated.i64", "(i64, i64) -> (i64)"},
		{"numrt.num.mul_or_panic.f32", "(f32, f32) -> (f32)"},
		{"numrt.num.add_saturated.u128", "(i32, i32, i32) -> ()"},
		{"numrt.str.to_float.f64", "(i32, i32) -> ()"},
		{"numrt.num.bytes_to_u64", "(i32, i32) -> (i64)"},
		{"numrt.num.is_nan.f64", "(f64) -> (i32)"},
		{"numrt.num.round_f32.i128", "(i32, f32) -> ()"},
	}
	for _, tc := range tests {
		t.Run(tc.sym, func(t *testing.T) {
			e, err := tbl.Get(tc.sym)
			if err != nil {
				t.Fatal(err)
			}
			if got := e.Signature(); got != tc.want {
				t.Errorf("got %s, want %s", got, tc.want)
			}
		})
	}

	if _, err := tbl.Get("numrt.num.nope"); err == nil {
		t.Error("expected not found")
	}
}

func TestDescribe(t *testing.T) {
	tbl := defaultTable(t)
	tests := []struct {
		sym  string
		want string
	}{
		{"numrt.num.add_with_overflow.i8", "numrt.num.add_with_overflow.i8(a: i8, b: i8) -> {value: i8, has_overflowed}"},
		{"numrt.str.to_int.u128", "numrt.str.to_int.u128(s: str) -> {value: u128, error_code}"},
		{"numrt.num.int_to_u8_checking_max.i64", "numrt.num.int_to_u8_checking_max.i64(x: i64) -> {value: u8, out_of_bounds}"},
		{"numrt.num.bytes_to_u32", "numrt.num.bytes_to_u32(bytes: list<u8>, offset: u32) -> u32"},
		{"numrt.num.pow.f32", "numrt.num.pow.f32(x: f32, y: f32) -> f32"},
		{"numrt.num.is_finite.f64", "numrt.num.is_finite.f64(x: f64) -> bool"},
		{"numrt.num.floor_f64.i128", "numrt.num.floor_f64.i128(x: f64) -> i128"},
	}
	for _, tc := range tests {
		e, err := tbl.Get(tc.sym)
		if err != nil {
			t.Fatal(err)
		}
		if got := e.Describe(); got != tc.want {
			t.Errorf("got %s, want %s", got, tc.want)
		}
	}

	// result layouts follow the payload-first, tag-last rule
	e, _ := tbl.Get("numrt.num.sub_with_overflow.i128")
	if e.Result.Size != 32 || e.Result.TagOffset() != 16 {
		t.Errorf("i128 result: got size %d tag %d, want 32 and 16", e.Result.Size, e.Result.TagOffset())
	}
}

func TestParseExports(t *testing.T) {
	tbl := defaultTable(t)

	tests := []struct {
		sym   string
		input string
		value uint64
		code  uint8
		width uint32
	}{
		{"numrt.str.to_int.u8", "0x1A", 26, 0, 1},
		{"numrt.str.to_int.u8", "0b101", 5, 0, 1},
		{"numrt.str.to_int.u8", "zz", 0, uint8(num.ParseInvalidDigit), 1},
		{"numrt.str.to_int.i32", "-2147483648", 0x80000000, 0, 4},
		{"numrt.str.to_int.u64", "18_446_744_073_709_551_615", math.MaxUint64, 0, 8},
		{"numrt.str.to_int.i16", "32768", 0, uint8(num.ParseOutOfRange), 2},
	}
	for _, tc := range tests {
		t.Run(tc.sym+" "+tc.input, func(t *testing.T) {
			mem := abi.NewBuffer(256)
			if err := abi.WriteString(mem, 64, 128, tc.input); err != nil {
				t.Fatal(err)
			}
			if _, tr := call(t, tbl, tc.sym, mem, 0, 64); tr != nil {
				t.Fatalf("unexpected trap: %s", tr.msg)
			}
			var got uint64
			for i := uint32(0); i < tc.width; i++ {
				got |= uint64(mem.Bytes()[i]) << (8 * i)
			}
			if got != tc.value {
				t.Errorf("value: got %#x, want %#x", got, tc.value)
			}
			if code := mem.Bytes()[tc.width]; code != tc.code {
				t.Errorf("code: got %d, want %d", code, tc.code)
			}
		})
	}

	t.Run("long literal through heap string", func(t *testing.T) {
		mem := abi.NewBuffer(256)
		_ = abi.WriteString(mem, 64, 128, "340282366920938463463374607431768211455")
		call(t, tbl, "numrt.str.to_int.u128", mem, 0, 64)
		got, _ := abi.LoadU128(mem, 0)
		if !got.Equal(n128.MaxU128) || mem.Bytes()[16] != 0 {
			t.Errorf("got %v code %d", got, mem.Bytes()[16])
		}
	})

	t.Run("float", func(t *testing.T) {
		mem := abi.NewBuffer(256)
		_ = abi.WriteString(mem, 64, 128, "-1.5e1")
		call(t, tbl, "numrt.str.to_float.f32", mem, 0, 64)
		got, _ := abi.Load[float32](mem, 0)
		if got != -15 || mem.Bytes()[4] != 0 {
			t.Errorf("got %v code %d", got, mem.Bytes()[4])
		}
	})
}

func TestConvertExports(t *testing.T) {
	tbl := defaultTable(t)

	t.Run("boundary", func(t *testing.T) {
		mem := abi.NewBuffer(64)
		call(t, tbl, "numrt.num.int_to_u8_checking_max_and_min.i64", mem, 0, abi.Lower[int64](255))
		if mem.Bytes()[0] != 255 || mem.Bytes()[1] != 0 {
			t.Errorf("255: got value %d flag %d", mem.Bytes()[0], mem.Bytes()[1])
		}
		call(t, tbl, "numrt.num.int_to_u8_checking_max_and_min.i64", mem, 0, abi.Lower[int64](256))
		if mem.Bytes()[0] != 0 || mem.Bytes()[1] != 1 {
			t.Errorf("256: got value %d flag %d", mem.Bytes()[0], mem.Bytes()[1])
		}
		call(t, tbl, "numrt.num.int_to_i8_checking_max_and_min.i16", mem, 0, abi.Lower[int16](-129))
		if mem.Bytes()[1] != 1 {
			t.Errorf("-129: flag got %d, want 1", mem.Bytes()[1])
		}
	})

	t.Run("from i128", func(t *testing.T) {
		mem := abi.NewBuffer(128)
		_ = abi.StoreI128(mem, 64, n128.I128From64(-1))
		call(t, tbl, "numrt.num.int_to_i32_checking_max_and_min.i128", mem, 0, 64)
		got, _ := abi.Load[int32](mem, 0)
		if got != -1 || mem.Bytes()[4] != 0 {
			t.Errorf("got %d flag %d", got, mem.Bytes()[4])
		}
		call(t, tbl, "numrt.num.int_to_u32_checking_max_and_min.i128", mem, 0, 64)
		if mem.Bytes()[4] != 1 {
			t.Errorf("negative into u32: flag got %d, want 1", mem.Bytes()[4])
		}
	})

	t.Run("into u128", func(t *testing.T) {
		mem := abi.NewBuffer(64)
		call(t, tbl, "numrt.num.int_to_u128_checking_max.u64", mem, 0, math.MaxUint64)
		got, _ := abi.LoadU128(mem, 0)
		if !got.Equal(n128.U128From64(math.MaxUint64)) || mem.Bytes()[16] != 0 {
			t.Errorf("got %v flag %d", got, mem.Bytes()[16])
		}
	})
}

func TestArithExports(t *testing.T) {
	tbl := defaultTable(t)

	t.Run("flagged i8", func(t *testing.T) {
		mem := abi.NewBuffer(16)
		call(t, tbl, "numrt.num.add_with_overflow.i8", mem, 0, abi.Lower[int8](127), abi.Lower[int8](1))
		if int8(mem.Bytes()[0]) != -128 || mem.Bytes()[1] != 1 {
			t.Errorf("got value %d flag %d", int8(mem.Bytes()[0]), mem.Bytes()[1])
		}
	})

	t.Run("saturated i8", func(t *testing.T) {
		stack, _ := call(t, tbl, "numrt.num.add_saturated.i8", nil, abi.Lower[int8](127), abi.Lower[int8](1))
		if got := abi.Lift[int8](stack[0]); got != 127 {
			t.Errorf("got %d, want 127", got)
		}
		stack, _ = call(t, tbl, "numrt.num.add_saturated.i8", nil, abi.Lower[int8](-128), abi.Lower[int8](-1))
		if got := abi.Lift[int8](stack[0]); got != -128 {
			t.Errorf("got %d, want -128", got)
		}
	})

	t.Run("trapping i8", func(t *testing.T) {
		_, tr := call(t, tbl, "numrt.num.add_or_panic.i8", nil, abi.Lower[int8](127), abi.Lower[int8](1))
		if tr == nil || tr.calls != 1 {
			t.Fatalf("got %+v, want one trap", tr)
		}
		if tr.msg != "Integer addition overflowed!" || tr.code != num.TrapOverflow {
			t.Errorf("got (%q, %d)", tr.msg, tr.code)
		}
	})

	t.Run("trapping ok", func(t *testing.T) {
		stack, tr := call(t, tbl, "numrt.num.mul_or_panic.f64", nil, abi.Lower(1.5), abi.Lower(4.0))
		if tr != nil {
			t.Fatalf("unexpected trap %q", tr.msg)
		}
		if got := abi.Lift[float64](stack[0]); got != 6 {
			t.Errorf("got %v, want 6", got)
		}
	})

	t.Run("i128 mul flagged", func(t *testing.T) {
		mem := abi.NewBuffer(128)
		_ = abi.StoreI128(mem, 64, n128.MinI128)
		_ = abi.StoreI128(mem, 80, n128.I128From64(-1))
		call(t, tbl, "numrt.num.mul_with_overflow.i128", mem, 0, 64, 80)
		got, _ := abi.LoadI128(mem, 0)
		if !got.Equal(n128.MinI128) || mem.Bytes()[16] != 1 {
			t.Errorf("got %v flag %d", got, mem.Bytes()[16])
		}
	})

	t.Run("u128 sub saturated", func(t *testing.T) {
		mem := abi.NewBuffer(128)
		_ = abi.StoreU128(mem, 0, n128.MaxU128)
		_ = abi.StoreU128(mem, 64, n128.U128From64(1))
		_ = abi.StoreU128(mem, 80, n128.U128From64(2))
		call(t, tbl, "numrt.num.sub_saturated.u128", mem, 0, 64, 80)
		got, _ := abi.LoadU128(mem, 0)
		if !got.IsZero() {
			t.Errorf("got %v, want 0", got)
		}
	})

	t.Run("bad pointer traps", func(t *testing.T) {
		mem := abi.NewBuffer(32)
		_, tr := call(t, tbl, "numrt.num.add_with_overflow.u128", mem, 0, 1000, 0)
		if tr == nil || tr.code != num.TrapMemory {
			t.Errorf("got %+v, want memory trap", tr)
		}
	})
}

func TestDecodeExports(t *testing.T) {
	tbl := defaultTable(t)
	mem := abi.NewBuffer(128)
	if err := abi.WriteList(mem, 0, 64, []byte{0x34, 0x12, 0x78, 0x56}); err != nil {
		t.Fatal(err)
	}

	stack, tr := call(t, tbl, "numrt.num.bytes_to_u16", mem, 0, 0)
	if tr != nil || stack[0] != 0x1234 {
		t.Errorf("u16: got %#x (trap %+v)", stack[0], tr)
	}

	stack, _ = call(t, tbl, "numrt.num.bytes_to_u32", mem, 0, 0)
	if stack[0] != 0x56781234 {
		t.Errorf("u32: got %#x", stack[0])
	}

	_, tr = call(t, tbl, "numrt.num.bytes_to_u32", mem, 0, 1)
	if tr == nil || tr.code != num.TrapOutOfBounds || tr.msg != "Index out of bounds" {
		t.Errorf("got %+v, want out of bounds trap", tr)
	}

	_, tr = call(t, tbl, "numrt.num.bytes_to_u128", mem, 32, 0, 0)
	if tr == nil || tr.code != num.TrapOutOfBounds {
		t.Errorf("u128: got %+v, want out of bounds trap", tr)
	}
}

func TestMathExports(t *testing.T) {
	tbl := defaultTable(t)

	stack, _ := call(t, tbl, "numrt.num.round_f64.i32", nil, abi.Lower(2.5))
	if got := abi.Lift[int32](stack[0]); got != 3 {
		t.Errorf("round: got %d, want 3", got)
	}

	stack, _ = call(t, tbl, "numrt.num.floor_f32.i8", nil, abi.Lower[float32](-1000))
	if got := abi.Lift[int8](stack[0]); got != math.MinInt8 {
		t.Errorf("floor clamp: got %d, want -128", got)
	}

	stack, _ = call(t, tbl, "numrt.num.sqrt.f64", nil, abi.Lower(16.0))
	if got := abi.Lift[float64](stack[0]); got != 4 {
		t.Errorf("sqrt: got %v, want 4", got)
	}

	stack, _ = call(t, tbl, "numrt.num.pow.f32", nil, abi.Lower[float32](2), abi.Lower[float32](3))
	if got := abi.Lift[float32](stack[0]); got != 8 {
		t.Errorf("pow: got %v, want 8", got)
	}

	stack, _ = call(t, tbl, "numrt.num.is_finite.f64", nil, abi.Lower(math.Inf(1)))
	if stack[0] != 0 {
		t.Errorf("is_finite(inf): got %d, want 0", stack[0])
	}

	mem := abi.NewBuffer(32)
	call(t, tbl, "numrt.num.ceiling_f64.u128", mem, 0, abi.Lower(1e30))
	got, _ := abi.LoadU128(mem, 0)
	if got.String() != "1000000000000000019884624838656" {
		t.Errorf("ceiling 1e30: got %v", got)
	}
}

// sparse accepts any address and records what was written. It does not
// report a size.
type sparse map[uint32]byte

func (s sparse) Read(offset, length uint32) ([]byte, error) {
	out := make([]byte, length)
	for i := range out {
		out[i] = s[offset+uint32(i)]
	}
	return out, nil
}

func (s sparse) Write(offset uint32, data []byte) error {
	for i, b := range data {
		s[offset+uint32(i)] = b
	}
	return nil
}

func (s sparse) ReadU8(offset uint32) (uint8, error) {
	b, _ := s.Read(offset, 1)
	return b[0], nil
}

func (s sparse) ReadU16(offset uint32) (uint16, error) {
	b, _ := s.Read(offset, 2)
	return num.BytesToU16(b, 0)
}

func (s sparse) ReadU32(offset uint32) (uint32, error) {
	b, _ := s.Read(offset, 4)
	return num.BytesToU32(b, 0)
}

func (s sparse) ReadU64(offset uint32) (uint64, error) {
	b, _ := s.Read(offset, 8)
	return num.BytesToU64(b, 0)
}

func (s sparse) WriteU8(offset uint32, v uint8) error {
	return s.Write(offset, []byte{v})
}

func (s sparse) WriteU16(offset uint32, v uint16) error {
	return s.Write(offset, []byte{byte(v), byte(v >> 8)})
}

func (s sparse) WriteU32(offset uint32, v uint32) error {
	return s.Write(offset, []byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func (s sparse) WriteU64(offset uint32, v uint64) error {
	for i := range uint32(8) {
		s[offset+i] = byte(v >> (8 * i))
	}
	return nil
}

func TestResultBounds(t *testing.T) {
	tbl := defaultTable(t)

	t.Run("tag address wraps", func(t *testing.T) {
		mem := sparse{}
		_, tr := call(t, tbl, "numrt.num.add_with_overflow.i8", mem, math.MaxUint32, 127, 1)
		if tr == nil || tr.code != num.TrapMemory {
			t.Fatalf("got %+v, want memory trap", tr)
		}
		if len(mem) != 0 {
			t.Errorf("got %d bytes written, want none", len(mem))
		}
	})

	t.Run("tag address near the top", func(t *testing.T) {
		mem := sparse{}
		_, tr := call(t, tbl, "numrt.num.add_with_overflow.i8", mem, math.MaxUint32-1, 127, 1)
		if tr != nil {
			t.Fatalf("unexpected trap %+v", tr)
		}
		if mem[math.MaxUint32-1] != 0x80 || mem[math.MaxUint32] != 1 {
			t.Errorf("got value %#x tag %d", mem[math.MaxUint32-1], mem[math.MaxUint32])
		}
		if _, ok := mem[0]; ok {
			t.Error("address 0 written")
		}
	})

	t.Run("struct past the end", func(t *testing.T) {
		mem := abi.NewBuffer(20)
		_, tr := call(t, tbl, "numrt.num.add_with_overflow.i64", mem, 8, 1, 2)
		if tr == nil || tr.code != num.TrapMemory {
			t.Fatalf("got %+v, want memory trap", tr)
		}
		if !slices.Equal(mem.Bytes(), make([]byte, 20)) {
			t.Errorf("partial write: %x", mem.Bytes())
		}
	})

	t.Run("struct ends at the last byte", func(t *testing.T) {
		mem := abi.NewBuffer(24)
		_, tr := call(t, tbl, "numrt.num.add_with_overflow.i64", mem, 8, 1, 2)
		if tr != nil {
			t.Fatalf("unexpected trap %+v", tr)
		}
		got, _ := mem.ReadU64(8)
		if got != 3 {
			t.Errorf("got %d, want 3", got)
		}
	})
}
