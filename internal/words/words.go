// Package words spells out rupee amounts using the Indian numbering system
// (thousand, lakh, crore).
package words

import (
	"strings"

	"github.com/shopspring/decimal"
)

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

const (
	crore    = 10_000_000
	lakh     = 100_000
	thousand = 1_000
	hundred  = 100
)

var croreDecimal = decimal.NewFromInt(crore)

// Rupees renders the whole-rupee part of amount, e.g. "One Hundred Eighteen
// Rupees Only". Amounts of any size are spelled by repeating crore.
func Rupees(amount decimal.Decimal) string {
	return spell(amount.Truncate(0)) + " Rupees Only"
}

// Number spells n in words.
func Number(n int64) string {
	return spell(decimal.NewFromInt(n))
}

// spell expects a whole number.
func spell(d decimal.Decimal) string {
	switch {
	case d.IsZero():
		return "Zero"
	case d.IsNegative():
		return "Minus " + spell(d.Neg())
	}

	q, rem := d.QuoRem(croreDecimal, 0)
	if q.IsZero() {
		return belowCrore(rem.IntPart())
	}

	parts := []string{spell(q), "Crore"}
	if !rem.IsZero() {
		parts = append(parts, belowCrore(rem.IntPart()))
	}

	return strings.Join(parts, " ")
}

func belowCrore(n int64) string {
	var parts []string

	for _, g := range []struct {
		size int64
		name string
	}{
		{lakh, "Lakh"},
		{thousand, "Thousand"},
		{hundred, "Hundred"},
	} {
		if n >= g.size {
			parts = append(parts, belowHundred(n/g.size), g.name)
			n %= g.size
		}
	}

	if n > 0 {
		parts = append(parts, belowHundred(n))
	}

	return strings.Join(parts, " ")
}

func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}

	if n%10 == 0 {
		return tens[n/10]
	}

	return tens[n/10] + " " + ones[n%10]
}
