// Package core holds the transaction domain types shared by the ingestion,
// query and reporting layers.
//
// This file contains the decimal amount parser. Amounts are handled as
// fixed-point cents throughout; floats only appear at the JSON boundary.
package core

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseCents converts a signed decimal string to cents with half-up rounding
// on the third decimal place.
//
// Statement files write plain decimals ("1.29", "-20.00", "1,29"). Exponents,
// NaN/Inf spellings, thousands separators and stray text are rejected. Zero is
// a valid amount.
//
// Examples:
//
//	ParseCents("1.29")  -> 129, nil
//	ParseCents("-2")    -> -200, nil
//	ParseCents("1.005") -> 101, nil (rounds up)
//	ParseCents("1e3")   -> 0, ErrInvalidAmount
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	// Normalize decimal comma to dot.
	s = strings.ReplaceAll(s, ",", ".")

	neg := false
	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return 0, ErrInvalidAmount
	}

	parts := strings.Split(s, ".")
	if len(parts) > 2 {
		return 0, ErrInvalidAmount
	}
	intPart := parts[0]
	fracPart := ""
	if len(parts) == 2 {
		fracPart = parts[1]
	}
	if intPart == "" {
		intPart = "0"
	}
	if intPart == "0" && fracPart == "" && len(parts) == 2 {
		// "." alone
		return 0, ErrInvalidAmount
	}
	for _, r := range intPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}
	for _, r := range fracPart {
		if !unicode.IsDigit(r) {
			return 0, ErrInvalidAmount
		}
	}

	iv, err := strconv.ParseInt(intPart, 10, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}

	// Take the first two fractional digits, half-up rounding on the third.
	var fracCents int64
	if len(fracPart) > 0 {
		fracCents = int64(fracPart[0]-'0') * 10
		if len(fracPart) > 1 {
			fracCents += int64(fracPart[1] - '0')
			if len(fracPart) > 2 && fracPart[2] >= '5' {
				fracCents++
			}
		}
	}

	// Prevent overflow when scaling to cents; the fractional carry counts too.
	const maxInt64 = 1<<63 - 1
	if iv > maxInt64/100 || iv*100 > maxInt64-fracCents {
		return 0, ErrInvalidAmount
	}

	cents := iv*100 + fracCents
	if neg {
		cents = -cents
	}
	return cents, nil
}

// MarshalJSON renders the amount as a plain decimal number, matching the
// original API's float amounts: -129 cents serializes as -1.29.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(m.Float64(), 'f', -1, 64)), nil
}

// UnmarshalJSON accepts a decimal number and stores it as cents.
func (m *Money) UnmarshalJSON(data []byte) error {
	cents, err := ParseCents(string(data))
	if err != nil {
		return err
	}
	m.Cents = cents
	return nil
}
