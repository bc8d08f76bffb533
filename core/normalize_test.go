package core

import (
	"testing"
)

func TestNormalizeFieldName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "mixed case with hyphen",
			raw:  "User-Name",
			want: "user_name",
		},
		{
			name: "leading and trailing underscores collapse",
			raw:  "__a__b__",
			want: "a_b",
		},
		{
			name: "already normalized",
			raw:  "order_total",
			want: "order_total",
		},
		{
			name: "spaces and punctuation",
			raw:  "First Name (legal)",
			want: "first_name_legal",
		},
		{
			name: "digits survive",
			raw:  "Line2Address",
			want: "line2address",
		},
		{
			name: "nothing usable",
			raw:  "!!!",
			want: "",
		},
		{
			name: "empty input",
			raw:  "",
			want: "",
		},
		{
			name: "unicode replaced",
			raw:  "prix€total",
			want: "prix_total",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeFieldName(tt.raw)
			if got != tt.want {
				t.Errorf("NormalizeFieldName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestNormalizeFieldName_Idempotent(t *testing.T) {
	inputs := []string{"User-Name", "__a__b__", "plain", "A  B\tC", ""}
	for _, raw := range inputs {
		once := NormalizeFieldName(raw)
		twice := NormalizeFieldName(once)
		if once != twice {
			t.Errorf("NormalizeFieldName not idempotent for %q: %q then %q", raw, once, twice)
		}
	}
}
