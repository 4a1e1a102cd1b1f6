package core

import (
	"errors"
	"math"
	"testing"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in  string
		out string
		ok  bool
	}{
		{"1", "1", true},
		{"1.0", "1", true},
		{"1.23", "1.23", true},
		{"1,23", "1.23", true},
		{"0.01", "0.01", true},
		{".5", "0.5", true},
		{" 2.50 ", "2.5", true},
		{"-1", "", false},
		{"+1", "", false},
		{"0", "", false},
		{"0.00", "", false},
		{"abc", "", false},
		{"1.2.3", "", false},
		{"1e3", "", false},
		{".", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseAmount(tc.in)
		if tc.ok {
			if err != nil || got.String() != tc.out {
				t.Fatalf("%q expected %s, got %s (err=%v)", tc.in, tc.out, got, err)
			}
		} else {
			if err == nil {
				t.Fatalf("%q expected error", tc.in)
			}
			if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, ErrInvalidAmount) {
				t.Fatalf("%q expected invalid amount, got %v", tc.in, err)
			}
		}
	}
}

func TestParseSalary(t *testing.T) {
	if got, err := ParseSalary("0"); err != nil || !got.IsZero() {
		t.Fatalf("zero salary should be accepted, got %s (err=%v)", got, err)
	}
	if got, err := ParseSalary("2500,75"); err != nil || got.String() != "2500.75" {
		t.Fatalf("expected 2500.75, got %s (err=%v)", got, err)
	}
	for _, in := range []string{"-5", "x", ""} {
		if _, err := ParseSalary(in); !errors.Is(err, ErrInvalidSalary) {
			t.Fatalf("%q expected invalid salary, got %v", in, err)
		}
	}
}

func TestAmountFromFloat(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), 0, -3} {
		if _, err := AmountFromFloat(f); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("%v expected error, got %v", f, err)
		}
	}
	got, err := AmountFromFloat(12.5)
	if err != nil || got.String() != "12.5" {
		t.Fatalf("expected 12.5, got %s (err=%v)", got, err)
	}
	if _, err := SalaryFromFloat(0); err != nil {
		t.Fatalf("zero salary should be accepted: %v", err)
	}
	if _, err := SalaryFromFloat(math.NaN()); err == nil {
		t.Fatalf("NaN salary should be rejected")
	}
}

func TestFormatAmount(t *testing.T) {
	d, _ := ParseAmount("3.5")
	if got := FormatAmount(d); got != "3.50" {
		t.Fatalf("expected 3.50, got %s", got)
	}
}
