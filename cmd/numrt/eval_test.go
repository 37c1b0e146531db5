package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/wippyai/numrt/host"
)

func newEvaluator(t *testing.T) *evaluator {
	t.Helper()
	ctx := context.Background()
	h, err := host.New(ctx, host.Config{MemoryLimitPages: 16})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = h.Close(ctx) })
	return &evaluator{host: h}
}

func TestEval(t *testing.T) {
	ev := newEvaluator(t)

	tests := []struct {
		sym  string
		args []string
		want string
	}{
		{"numrt.str.to_int.u8", []string{"0x1A"}, "26"},
		{"numrt.str.to_int.i16", []string{"40000"}, "error 4 (out of range)"},
		{"numrt.str.to_float.f64", []string{"-1.5e3"}, "-1500"},
		{"numrt.str.to_int.u128", []string{"340282366920938463463374607431768211455"}, "340282366920938463463374607431768211455"},
		{"numrt.num.add_with_overflow.i8", []string{"127", "1"}, "-128 (has_overflowed)"},
		{"numrt.num.add_with_overflow.i8", []string{"100", "1"}, "101"},
		{"numrt.num.mul_saturated.i32", []string{"-65536", "65536"}, "-2147483648"},
		{"numrt.num.sub_saturated.u128", []string{"1", "2"}, "0"},
		{"numrt.num.mul_with_overflow.i128", []string{"-170141183460469231731687303715884105728", "-1"}, "-170141183460469231731687303715884105728 (has_overflowed)"},
		{"numrt.num.int_to_u8_checking_max_and_min.i64", []string{"-1"}, "0 (out_of_bounds)"},
		{"numrt.num.int_to_u8_checking_max.i64", []string{"255"}, "255"},
		{"numrt.num.bytes_to_u16", []string{"3412", "0"}, "4660"},
		{"numrt.num.bytes_to_u128", []string{"01000000000000000000000000000000", "0"}, "1"},
		{"numrt.num.round_f64.i32", []string{"2.5"}, "3"},
		{"numrt.num.ceiling_f32.u128", []string{"-3.5"}, "0"},
		{"numrt.num.sqrt.f32", []string{"4"}, "2"},
		{"numrt.num.is_infinite.f64", []string{"-inf"}, "true"},
	}
	for _, tc := range tests {
		t.Run(tc.sym+" "+strings.Join(tc.args, " "), func(t *testing.T) {
			e, err := ev.host.Table().Get(tc.sym)
			if err != nil {
				t.Fatal(err)
			}
			got, err := ev.eval(context.Background(), e, tc.args)
			if err != nil {
				t.Fatalf("eval: %v", err)
			}
			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestEvalErrors(t *testing.T) {
	ev := newEvaluator(t)
	ctx := context.Background()

	tests := []struct {
		name string
		sym  string
		args []string
		want string
	}{
		{"trap", "numrt.num.add_or_panic.i64", []string{"9223372036854775807", "1"}, "trapped with code 1 (overflow)"},
		{"bounds", "numrt.num.bytes_to_u32", []string{"0102", "0"}, "trapped with code 2 (index out of bounds)"},
		{"arity", "numrt.num.pow.f64", []string{"1"}, "takes 2 argument(s), got 1"},
		{"bad number", "numrt.num.add_saturated.u8", []string{"256", "1"}, "value 256 overflows u8"},
		{"bad digit", "numrt.num.add_saturated.i8", []string{"1z", "1"}, "invalid digit"},
		{"bad bytes", "numrt.num.bytes_to_u16", []string{"zz", "0"}, "bytes must be hex"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e, err := ev.host.Table().Get(tc.sym)
			if err != nil {
				t.Fatal(err)
			}
			_, err = ev.eval(ctx, e, tc.args)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Errorf("got %v, want error containing %q", err, tc.want)
			}
		})
	}
}

func TestListExports(t *testing.T) {
	var buf bytes.Buffer
	if err := listExports(&buf, "bytes_to_"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want header and 4 exports:\n%s", len(lines), out)
	}
	if !strings.Contains(out, "numrt.num.bytes_to_u128(bytes: list<u8>, offset: u32) -> u128") {
		t.Errorf("missing u128 decoder:\n%s", out)
	}
	if !strings.Contains(out, "size 16 align 16") {
		t.Errorf("missing u128 layout:\n%s", out)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("NUMRT_MODULE_NAME", "rt")
	t.Setenv("NUMRT_MEMORY_LIMIT_PAGES", "4")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ModuleName != "rt" || cfg.MemoryLimitPages != 4 || cfg.LogLevel != "warn" {
		t.Errorf("got %+v", cfg)
	}

	t.Setenv("NUMRT_MEMORY_LIMIT_PAGES", "lots")
	if _, err := loadConfig(); err == nil {
		t.Error("expected error for bad page count")
	}

	if _, err := newLogger("loud"); err == nil {
		t.Error("expected error for bad log level")
	}
}
