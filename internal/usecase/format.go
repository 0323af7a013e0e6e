package usecase

import (
	"github.com/shopspring/decimal"

	"github.com/sakhi383/Walmart-Cost-Splitter/internal/domain"
)

// Dollars2 formats item-level amounts: "$1.42"
func Dollars2(d decimal.Decimal) string {
	return "$" + Round2(d).StringFixed(2)
}

// Dollars3 formats per-person shares and fees: "$1.420"
func Dollars3(d decimal.Decimal) string {
	return "$" + Round3(d).StringFixed(3)
}

// ItemLines returns the display line total and the line total after tax,
// both rounded to cents
func ItemLines(r domain.ExtractedRecord, taxRatePercent decimal.Decimal) (line, afterTax decimal.Decimal) {
	raw := r.LineTotal()
	tax := raw.Mul(taxRatePercent).Div(hundred)
	return Round2(raw), Round2(raw.Add(tax))
}
