// Package gst splits Indian goods and services tax into its central, state and
// integrated parts and aggregates line figures into bill totals.
//
// All arithmetic is done in decimal. Per-line splits are never rounded; only
// the bill grand total is rounded to whole rupees, with the difference kept as
// an explicit round-off.
package gst

import (
	"github.com/shopspring/decimal"
)

// Rates lists the GST slabs a line item may carry, in percent.
var Rates = []int{0, 5, 12, 18, 28}

var half = decimal.New(5, -1)

// ValidRate reports whether rate is one of the supported slabs.
func ValidRate(rate int) bool {
	for _, r := range Rates {
		if r == rate {
			return true
		}
	}

	return false
}

// Split is the tax on one taxable amount.
type Split struct {
	CGST  decimal.Decimal
	SGST  decimal.Decimal
	IGST  decimal.Decimal
	Total decimal.Decimal
}

// Compute returns amount*rate/100 split into CGST and SGST halves for an
// intra-state supply, or entirely IGST for an inter-state one.
func Compute(amount decimal.Decimal, ratePercent int, interState bool) Split {
	total := amount.Mul(decimal.NewFromInt(int64(ratePercent))).Shift(-2)

	if interState {
		return Split{
			CGST:  decimal.Zero,
			SGST:  decimal.Zero,
			IGST:  total,
			Total: total,
		}
	}

	h := total.Mul(half)

	return Split{
		CGST:  h,
		SGST:  h,
		IGST:  decimal.Zero,
		Total: total,
	}
}

// LineAmount is the taxable value of qty units at price.
func LineAmount(qty, price decimal.Decimal) decimal.Decimal {
	return price.Mul(qty)
}

// Line is one taxable amount with its slab.
type Line struct {
	Amount decimal.Decimal
	Rate   int
}

// Summary holds bill level figures.
type Summary struct {
	Subtotal decimal.Decimal
	CGST     decimal.Decimal
	SGST     decimal.Decimal
	IGST     decimal.Decimal
	Gross    decimal.Decimal
	RoundOff decimal.Decimal
	Total    decimal.Decimal
	Splits   []Split
}

// Summarize adds up the lines and rounds the grand total to whole rupees.
// Splits are returned in line order.
func Summarize(lines []Line, interState bool) Summary {
	s := Summary{
		Subtotal: decimal.Zero,
		CGST:     decimal.Zero,
		SGST:     decimal.Zero,
		IGST:     decimal.Zero,
		Splits:   make([]Split, 0, len(lines)),
	}

	for _, l := range lines {
		split := Compute(l.Amount, l.Rate, interState)

		s.Subtotal = s.Subtotal.Add(l.Amount)
		s.CGST = s.CGST.Add(split.CGST)
		s.SGST = s.SGST.Add(split.SGST)
		s.IGST = s.IGST.Add(split.IGST)
		s.Splits = append(s.Splits, split)
	}

	s.Gross = s.Subtotal.Add(s.CGST).Add(s.SGST).Add(s.IGST)
	s.Total, s.RoundOff = RoundOff(s.Gross)

	return s
}

// RoundOff rounds amount half away from zero to whole rupees and returns the
// rounded figure together with the adjustment that was applied.
func RoundOff(amount decimal.Decimal) (rounded, adjustment decimal.Decimal) {
	rounded = amount.Round(0)
	return rounded, rounded.Sub(amount)
}
