// Package core provides money parsing and handling utilities.
//
// This file converts between the localized currency text used by the forms
// and the sheet ("R$ 1.234,56") and Money values held in cents.
package core

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const currencyPrefix = "R$"

// maxAmountCents bounds amounts to ten digits, 99.999.999,99.
const maxAmountCents = 9_999_999_999

// ParseCurrency converts a localized currency string to Money.
//
// It strips the "R$" prefix, spaces and '.' thousands separators, then reads
// ',' as the decimal separator. Malformed input yields zero instead of an
// error; callers that need to reject bad input use ParseCurrencyStrict.
//
// Examples:
//
//	ParseCurrency("R$ 1.234,56") -> 123456 cents
//	ParseCurrency("12,5")        -> 1250 cents
//	ParseCurrency("abc")         -> 0 cents
func ParseCurrency(s string) Money {
	m, err := ParseCurrencyStrict(s)
	if err != nil {
		return Money{}
	}
	return m
}

// ParseCurrencyStrict is ParseCurrency but reports malformed, negative or
// oversized (above R$ 99.999.999,99) input as ErrInvalidAmount.
func ParseCurrencyStrict(s string) (Money, error) {
	clean := strings.ReplaceAll(s, currencyPrefix, "")
	clean = strings.ReplaceAll(clean, ".", "")
	clean = strings.ReplaceAll(clean, " ", "")
	clean = strings.TrimSpace(clean)
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	if d.IsNegative() {
		return Money{}, ErrInvalidAmount
	}
	m, ok := fromDecimal(d)
	if !ok {
		return Money{}, ErrInvalidAmount
	}
	return m, nil
}

// AmountFromFloat converts an already numeric amount, rounding half away
// from zero to two decimal places. Non-finite or out of range values give
// zero, as ParseCurrency does for bad text.
func AmountFromFloat(f float64) Money {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Money{}
	}
	m, _ := fromDecimal(decimal.NewFromFloat(f))
	return m
}

// FormatCurrency renders m as "R$ 1.234,56".
func FormatCurrency(m Money) string {
	cents := m.Cents
	neg := cents < 0
	if neg {
		cents = -cents
	}
	intPart := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s %s%s,%02d", currencyPrefix, sign, b.String(), cents%100)
}

// Decimal returns the amount as a decimal in currency units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.Cents, -2)
}

// Float returns the amount in currency units; used for numeric sheet cells.
func (m Money) Float() float64 {
	return m.Decimal().InexactFloat64()
}

// Add returns m+o.
func (m Money) Add(o Money) Money {
	return Money{Cents: m.Cents + o.Cents}
}

// Sub returns m-o.
func (m Money) Sub(o Money) Money {
	return Money{Cents: m.Cents - o.Cents}
}

func (m Money) String() string {
	return FormatCurrency(m)
}

// fromDecimal rounds d to cents, reporting false when the magnitude exceeds
// maxAmountCents.
func fromDecimal(d decimal.Decimal) (Money, bool) {
	cents := d.Round(2).Shift(2)
	if cents.Abs().GreaterThan(decimal.NewFromInt(maxAmountCents)) {
		return Money{}, false
	}
	return Money{Cents: cents.IntPart()}, true
}
