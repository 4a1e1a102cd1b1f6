// Package core provides money parsing and handling utilities.
//
// This file contains functions for parsing monetary amounts typed by a
// user and for converting presentation floats into decimals.
package core

import (
	"math"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a decimal string to a strictly positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Signs, exponents, empty strings and anything that is not plain digits
// with at most one separator are rejected with ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> error
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := parsePlainDecimal(s)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, Invalid(ErrInvalidAmount)
	}
	return d, nil
}

// ParseSalary is ParseAmount for salaries: zero is allowed.
func ParseSalary(s string) (decimal.Decimal, error) {
	d, err := parsePlainDecimal(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, Invalid(ErrInvalidSalary)
	}
	return d, nil
}

// AmountFromFloat rejects non-finite and non-positive values.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return decimal.Zero, Invalid(ErrInvalidAmount)
	}
	return decimal.NewFromFloat(f), nil
}

// SalaryFromFloat rejects non-finite and negative values.
func SalaryFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return decimal.Zero, Invalid(ErrInvalidSalary)
	}
	return decimal.NewFromFloat(f), nil
}

// FormatAmount renders an amount with two decimals, as shown to users.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func parsePlainDecimal(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return decimal.Zero, ErrInvalidAmount
	}
	if parts[0] == "" && (len(parts) == 1 || parts[1] == "") {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, part := range parts {
		for _, r := range part {
			if !unicode.IsDigit(r) {
				return decimal.Zero, ErrInvalidAmount
			}
		}
	}
	return decimal.NewFromString(s)
}
