package core

import "testing"

func TestParseSignedDecimalToCents(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"-42.50", 4250, true},
		{"+7", 700, true},
		{"12.345", 1235, true},
		{"12.344", 1234, true},
		{"0", 0, true},
		{"", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
	}
	for i, tc := range cases {
		got, err := ParseSignedDecimalToCents(tc.in)
		if tc.ok && err != nil {
			t.Fatalf("case %d (%q): expected ok, got %v", i, tc.in, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d (%q): expected error", i, tc.in)
		}
		if tc.ok && got != tc.cents {
			t.Fatalf("case %d (%q): got %d cents, want %d", i, tc.in, got, tc.cents)
		}
	}
}

func TestCentsFromDollars(t *testing.T) {
	if got := CentsFromDollars(42.50); got != 4250 {
		t.Fatalf("got %d, want 4250", got)
	}
	if got := CentsFromDollars(-42.50); got != 4250 {
		t.Fatalf("negative input: got %d, want 4250", got)
	}
	if got := CentsFromDollars(0.005); got != 1 {
		t.Fatalf("rounding: got %d, want 1", got)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := Money{Cents: 4250}
	b, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != "42.50" {
		t.Fatalf("got %s, want 42.50", b)
	}
	var back Money
	if err := back.UnmarshalJSON(b); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Cents != 4250 {
		t.Fatalf("got %d cents, want 4250", back.Cents)
	}
}
