package core

import (
	"math"
	"testing"
)

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		in  string
		out int64
	}{
		{"R$ 1.234,56", 123456},
		{"R$1.234,56", 123456},
		{"1234,56", 123456},
		{"12,5", 1250},
		{"0,01", 1},
		{"1,005", 101}, // half away from zero
		{" 2,50 ", 250},
		{"R$ 1.000.000,00", 100000000},
		{"1.234", 123400}, // '.' is a thousands separator
		{"0", 0},
		{"abc", 0},
		{"", 0},
		{"R$", 0},
		{"1,2,3", 0},
		{"-5,00", 0},
	}
	for _, tc := range cases {
		if got := ParseCurrency(tc.in); got.Cents != tc.out {
			t.Fatalf("%q expected %d cents, got %d", tc.in, tc.out, got.Cents)
		}
	}
}

func TestParseCurrencyStrict(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"R$ 1.234,56", 123456, true},
		{"0", 0, true},
		{"abc", 0, false},
		{"", 0, false},
		{"-1,00", 0, false},
		{"1,2,3", 0, false},
		{"R$ 99.999.999,99", 9999999999, true},
		{"R$ 100.000.000,00", 0, false},
		{"R$ 99.999.999.999.999.999,99", 0, false},
		{"R$ 999.999.999.999.999.999.999,00", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseCurrencyStrict(tc.in)
		if tc.ok {
			if err != nil || got.Cents != tc.out {
				t.Fatalf("%q expected %d, got %d (err=%v)", tc.in, tc.out, got.Cents, err)
			}
		} else if err != ErrInvalidAmount {
			t.Fatalf("%q expected ErrInvalidAmount, got %v", tc.in, err)
		}
	}
}

func TestParseCurrencyOversizedIsZero(t *testing.T) {
	if got := ParseCurrency("R$ 99.999.999.999.999.999,99"); got.Cents != 0 {
		t.Fatalf("oversized amount parsed as %d cents", got.Cents)
	}
	max := Money{Cents: maxAmountCents}
	if got, err := ParseCurrencyStrict(FormatCurrency(max)); err != nil || got != max {
		t.Fatalf("round trip of %v gave %v (err=%v)", max, got, err)
	}
}

func TestFormatCurrency(t *testing.T) {
	cases := []struct {
		in  Money
		out string
	}{
		{AmountFromFloat(1234.5), "R$ 1.234,50"},
		{Money{Cents: 123456}, "R$ 1.234,56"},
		{Money{Cents: 0}, "R$ 0,00"},
		{Money{Cents: 5}, "R$ 0,05"},
		{Money{Cents: 99999}, "R$ 999,99"},
		{Money{Cents: 100000}, "R$ 1.000,00"},
		{Money{Cents: 123456789}, "R$ 1.234.567,89"},
		{Money{Cents: -1050}, "R$ -10,50"},
	}
	for _, tc := range cases {
		if got := FormatCurrency(tc.in); got != tc.out {
			t.Fatalf("%d expected %q, got %q", tc.in.Cents, tc.out, got)
		}
	}
}

func TestCurrencyRoundTrip(t *testing.T) {
	for _, f := range []float64{0, 0.01, 0.1, 1, 12.34, 999.99, 1234.56, 1000000, 7.005} {
		want := AmountFromFloat(f)
		got := ParseCurrency(FormatCurrency(want))
		if got != want {
			t.Fatalf("%v: round trip gave %d, want %d", f, got.Cents, want.Cents)
		}
	}
}

func TestAmountFromFloat(t *testing.T) {
	cases := []struct {
		in  float64
		out int64
	}{
		{1234.56, 123456},
		{0.1, 10},
		{19.999, 2000},
		{0, 0},
		{99999999.99, 9999999999},
		{1e30, 0},
		{math.Inf(1), 0},
		{math.NaN(), 0},
	}
	for _, tc := range cases {
		if got := AmountFromFloat(tc.in); got.Cents != tc.out {
			t.Fatalf("%v expected %d, got %d", tc.in, tc.out, got.Cents)
		}
	}
	if f := (Money{Cents: 123456}).Float(); f != 1234.56 {
		t.Fatalf("Float() = %v", f)
	}
}

func TestFormatParseIdempotent(t *testing.T) {
	for _, s := range []string{"R$ 1.234,56", "12,5", "0,00", "R$ 10", "999.999,99"} {
		once := FormatCurrency(ParseCurrency(s))
		if twice := FormatCurrency(ParseCurrency(once)); twice != once {
			t.Fatalf("%q: %q then %q", s, once, twice)
		}
	}
}
