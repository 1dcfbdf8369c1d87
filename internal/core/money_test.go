package core

import "testing"

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
		}
	}
}

func TestMoneyDecimal(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{0, "0.00"},
		{1, "0.01"},
		{150, "1.50"},
		{-150, "-1.50"},
		{4500000, "45000.00"},
		{-9, "-0.09"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Decimal(); got != tc.out {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.out, got)
		}
	}
}

func TestMoneyJSONExactRoundTrip(t *testing.T) {
	// 0.10 is not representable in binary floating point; the custom
	// codec must keep it cent-exact anyway.
	for _, cents := range []int64{10, -10, 1, 333, -4999999} {
		m := Money{Cents: cents}
		data, err := m.MarshalJSON()
		if err != nil {
			t.Fatalf("marshal %d: %v", cents, err)
		}
		var back Money
		if err := back.UnmarshalJSON(data); err != nil {
			t.Fatalf("unmarshal %s: %v", data, err)
		}
		if back.Cents != cents {
			t.Fatalf("round trip %d -> %s -> %d", cents, data, back.Cents)
		}
	}
}

func TestMoneyFormat(t *testing.T) {
	cases := []struct {
		cents int64
		out   string
	}{
		{15000, "₹150.00"},
		{-15000, "-₹150.00"},
		{4500000, "₹45,000.00"},
		{15000000, "₹1,50,000.00"},
		{123456789012, "₹1,23,45,67,890.12"},
		{0, "₹0.00"},
	}
	for _, tc := range cases {
		if got := (Money{Cents: tc.cents}).Format("₹"); got != tc.out {
			t.Fatalf("%d cents expected %q, got %q", tc.cents, tc.out, got)
		}
	}
}
