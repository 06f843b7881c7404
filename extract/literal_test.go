package extract

import (
	"math"
	"testing"

	"github.com/dhamidi/stubgen/mirror"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  string
	}{
		{"wide", mirror.WideInt(255), "0xff"},
		{"wide negative", mirror.WideInt(-255), "-0xff"},
		{"wide min", mirror.WideInt(math.MinInt64), "-0x8000000000000000"},
		{"int", int32(-42), "-42"},
		{"byte", int8(7), "7"},
		{"bool", true, "True"},
		{"null", nil, "None"},
		{"float integral", 2.0, "2.0"},
		{"float fraction", 0.1, "0.1"},
		{"float32 widened", float32(0.5), "0.5"},
		{"float large", 1e16, "1e+16"},
		{"float small", 0.00001, "1e-05"},
		{"float inf", math.Inf(1), "float('inf')"},
		{"string", "abc", "'abc'"},
		{"string quote", "it's", `"it's"`},
		{"string both quotes", `it's "x"`, `'it\'s "x"'`},
		{"string escapes", "a\tb\n\\", `'a\tb\n\\'`},
		{"string control", "\x01", `'\x01'`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Literal(tt.value)
			if err != nil {
				t.Fatalf("Literal(%v) error = %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("Literal(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestLiteralUnsupported(t *testing.T) {
	if _, err := Literal(struct{}{}); err == nil {
		t.Error("Literal(struct{}{}) succeeded, want error")
	}
}

func TestValidName(t *testing.T) {
	tests := map[string]string{
		"in":     "in_",
		"print":  "print_",
		"lambda": "lambda_",
		"value":  "value",
		"type":   "type",
	}
	for in, want := range tests {
		if got := ValidName(in); got != want {
			t.Errorf("ValidName(%q) = %q, want %q", in, got, want)
		}
	}
}
