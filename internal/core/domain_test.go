package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in  string
		iso string
		ok  bool
	}{
		{"09/30/2024", "2024-09-30", true},
		{"01/01/2023", "2023-01-01", true},
		{"12/31/1999", "1999-12-31", true},
		{"9/30/2024", "", false},   // not zero-padded
		{"2024-09-30", "", false},  // ISO form
		{"09-30-2024", "", false},  // wrong separator
		{"13/01/2024", "", false},  // month out of range
		{"02/30/2024", "", false},  // day out of range
		{"09/30/24", "", false},    // short year
		{"", "", false},
		{"not a date", "", false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if tc.ok {
			if err != nil {
				t.Fatalf("ParseDate(%q) unexpected error: %v", tc.in, err)
			}
			if got.ISO() != tc.iso {
				t.Fatalf("ParseDate(%q).ISO() = %q, want %q", tc.in, got.ISO(), tc.iso)
			}
			if got.String() != tc.in {
				t.Fatalf("ParseDate(%q).String() = %q, want round-trip", tc.in, got.String())
			}
		} else if err == nil {
			t.Fatalf("ParseDate(%q) expected error", tc.in)
		}
	}
}

func TestParseISODate(t *testing.T) {
	d, err := ParseISODate("2024-01-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.String() != "01/15/2024" {
		t.Fatalf("got %q", d.String())
	}
	if _, err := ParseISODate("01/15/2024"); err == nil {
		t.Fatal("expected error for MM/DD/YYYY input")
	}
}

func TestDateJSON(t *testing.T) {
	d := NewDate(2024, time.September, 30)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"09/30/2024"` {
		t.Fatalf("marshal = %s", b)
	}
	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Fatalf("round-trip mismatch: %v != %v", back, d)
	}
}

func TestMonthLabel(t *testing.T) {
	if got := MonthLabel(2024, time.January); got != "January 2024" {
		t.Fatalf("got %q", got)
	}
	if got := MonthLabel(2023, time.December); got != "December 2023" {
		t.Fatalf("got %q", got)
	}
}

func TestMoneyJSON(t *testing.T) {
	cases := []struct {
		cents int64
		want  string
	}{
		{-129, "-1.29"},
		{0, "0"},
		{100, "1"},
		{1050, "10.5"},
	}
	for _, tc := range cases {
		b, err := json.Marshal(Money{Cents: tc.cents})
		if err != nil {
			t.Fatalf("marshal %d: %v", tc.cents, err)
		}
		if string(b) != tc.want {
			t.Fatalf("marshal %d = %s, want %s", tc.cents, b, tc.want)
		}
	}
}

func TestMonthSummaryJSON(t *testing.T) {
	s := MonthSummary{
		Label: "September 2024",
		Totals: map[string]Money{
			"Total":    {Cents: -129},
			"Shopping": {Cents: -129},
			"Food":     {Cents: 0},
		},
	}
	b, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back MonthSummary
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Label != s.Label {
		t.Fatalf("label = %q", back.Label)
	}
	if back.Totals["Shopping"].Cents != -129 || back.Totals["Food"].Cents != 0 {
		t.Fatalf("totals round-trip mismatch: %+v", back.Totals)
	}
}
