package fields

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseValue(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		want          string
		wantDefaulted bool
	}{
		{
			name:  "plain decimal",
			input: "850.00",
			want:  "850.00",
		},
		{
			name:  "euro symbol stripped",
			input: "€850.00",
			want:  "850.00",
		},
		{
			name:  "dollar symbol stripped",
			input: "$1200",
			want:  "1200",
		},
		{
			name:  "european thousands and decimal comma",
			input: "1.234,50",
			want:  "1234.50",
		},
		{
			name:  "us thousands and decimal dot",
			input: "1,234.50",
			want:  "1234.50",
		},
		{
			name:  "space as thousands separator",
			input: "1 234.50",
			want:  "1234.50",
		},
		{
			name:  "decimal comma alone",
			input: "100,50",
			want:  "100.50",
		},
		{
			name:  "single trailing digit after comma",
			input: "100,5",
			want:  "100.5",
		},
		{
			name:  "comma as thousands separator alone",
			input: "1,000",
			want:  "1000",
		},
		{
			name:  "repeated thousands grouping",
			input: "1,000,000",
			want:  "1000000",
		},
		{
			name: "lone dot is always decimal",
			// Deliberate: "1.234" reads as one-point-two-three-four, never
			// as one thousand. Changing this would change historical
			// reported amounts.
			input: "1.234",
			want:  "1.234",
		},
		{
			name:  "integer",
			input: "750",
			want:  "750",
		},
		{
			name:          "blank defaults to zero",
			input:         "",
			want:          "0",
			wantDefaulted: true,
		},
		{
			name:          "whitespace-only defaults to zero",
			input:         "   ",
			want:          "0",
			wantDefaulted: true,
		},
		{
			name:          "free text defaults to zero",
			input:         "abc",
			want:          "0",
			wantDefaulted: true,
		},
		{
			name:          "negative amount defaults to zero",
			input:         "-850.00",
			want:          "0",
			wantDefaulted: true,
		},
		{
			name:  "zero is a parse, not a default",
			input: "0",
			want:  "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotDefaulted := ParseValue(tt.input, true)
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseValue(%q) = %s, want %s", tt.input, got.String(), want.String())
			}
			if gotDefaulted != tt.wantDefaulted {
				t.Errorf("ParseValue(%q) defaulted = %v, want %v", tt.input, gotDefaulted, tt.wantDefaulted)
			}
		})
	}
}

// The three common renderings of the same amount must agree exactly.
func TestParseValueCommutativity(t *testing.T) {
	want := decimal.RequireFromString("1234.50")

	for _, input := range []string{"1.234,50", "1,234.50", "1 234.50"} {
		got, defaulted := ParseValue(input, true)
		if defaulted {
			t.Errorf("ParseValue(%q) unexpectedly defaulted", input)
		}
		if !got.Equal(want) {
			t.Errorf("ParseValue(%q) = %s, want %s", input, got.String(), want.String())
		}
	}
}
