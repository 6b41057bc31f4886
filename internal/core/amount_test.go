package core

import (
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"123.45", "123.45"},
		{"-123.45", "-123.45"},
		{"$123.45", "123.45"},
		{"-$123.45", "-123.45"},
		{"€50.00", "50"},
		{"1,234.56", "1234.56"},
		{"(123.45)", "-123.45"},
		{"($1,234.56)", "-1234.56"},
		{"0", "0"},
		{"  42.00  ", "42"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if err != nil {
				t.Fatalf("ParseAmount(%q): %v", tc.in, err)
			}
			if !got.Equal(dec(tc.want)) {
				t.Fatalf("ParseAmount(%q) = %s, want %s", tc.in, got, tc.want)
			}
		})
	}
}

func TestParseAmountExactness(t *testing.T) {
	a, err := ParseAmount("0.1")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ParseAmount("0.2")
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Add(b); !got.Equal(dec("0.3")) {
		t.Fatalf("0.1 + 0.2 = %s, want exactly 0.3", got)
	}
}

func TestParseAmountInvalid(t *testing.T) {
	for _, in := range []string{"", "   ", "abc", "12.34.56", "()"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseAmount(in)
			if err == nil {
				t.Fatalf("ParseAmount(%q) should fail", in)
			}
			if !IsValidation(err) {
				t.Fatalf("expected validation error, got %T", err)
			}
		})
	}
}
