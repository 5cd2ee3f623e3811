package core

import "testing"

func TestParseCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.29", 129, true},
		{"1,29", 129, true},
		{"0", 0, true},
		{"0.01", 1, true},
		{"-2", -200, true},
		{"-0.50", -50, true},
		{"+3.25", 325, true},
		{"1.005", 101, true}, // half-up rounding
		{"1.004", 100, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"92233720368547758.07", 9223372036854775807, true}, // largest representable
		{"92233720368547758.08", 0, false},                  // fractional carry overflows
		{"92233720368547758.99", 0, false},
		{"92233720368547759", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{".", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"1 000", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("ParseCents(%q) = %d, %v; want %d", tc.in, got, err, tc.out)
			}
		} else if err == nil {
			t.Fatalf("ParseCents(%q) expected error, got %d", tc.in, got)
		}
	}
}

func TestMoneyNeg(t *testing.T) {
	if got := (Money{Cents: 129}).Neg(); got.Cents != -129 {
		t.Fatalf("Neg = %d", got.Cents)
	}
	if got := (Money{Cents: -50}).Neg(); got.Cents != 50 {
		t.Fatalf("Neg = %d", got.Cents)
	}
}
