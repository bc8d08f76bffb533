package core

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func TestCoerceToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  Value
	}{
		{
			name:  "true literal",
			token: "true",
			want:  Bool(true),
		},
		{
			name:  "uppercase false",
			token: "FALSE",
			want:  Bool(false),
		},
		{
			name:  "small integer",
			token: "42",
			want:  Int32(42),
		},
		{
			name:  "negative integer",
			token: "-7",
			want:  Int32(-7),
		},
		{
			name:  "int32 boundary",
			token: "2147483647",
			want:  Int32(math.MaxInt32),
		},
		{
			name:  "just past int32",
			token: "2147483648",
			want:  Int64(math.MaxInt32 + 1),
		},
		{
			name:  "large int64 not truncated",
			token: "9223372036854775807",
			want:  Int64(math.MaxInt64),
		},
		{
			name:  "float",
			token: "3.14",
			want:  Float64(3.14),
		},
		{
			name:  "scientific notation",
			token: "1e3",
			want:  Float64(1000),
		},
		{
			name:  "plain string",
			token: "hello",
			want:  String("hello"),
		},
		{
			name:  "numeric with units stays string",
			token: "12kg",
			want:  String("12kg"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CoerceToken(tt.token)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CoerceToken(%q) = %+v, want %+v", tt.token, got, tt.want)
			}
		})
	}
}

func TestCoerceScalar(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		want   Value
		wantOK bool
	}{
		{
			name:   "bool",
			input:  true,
			want:   Bool(true),
			wantOK: true,
		},
		{
			name:   "string",
			input:  "abc",
			want:   String("abc"),
			wantOK: true,
		},
		{
			name:   "integral number",
			input:  json.Number("99"),
			want:   Int32(99),
			wantOK: true,
		},
		{
			name:   "wide integral number",
			input:  json.Number("8589934592"),
			want:   Int64(8589934592),
			wantOK: true,
		},
		{
			name:   "fractional number",
			input:  json.Number("0.5"),
			want:   Float64(0.5),
			wantOK: true,
		},
		{
			name:   "null rejected",
			input:  nil,
			wantOK: false,
		},
		{
			name:   "map rejected",
			input:  map[string]any{"a": 1},
			wantOK: false,
		},
		{
			name:   "slice rejected",
			input:  []any{"a"},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceScalar(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("CoerceScalar(%v) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CoerceScalar(%v) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}
