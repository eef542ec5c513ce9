package analytics

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Rate returns 100*n/d rounded to one decimal place, halves away from zero.
// A zero denominator yields 0.
func Rate(n, d int64) float64 {
	if d == 0 {
		return 0
	}
	return decimal.NewFromInt(n).Mul(hundred).Div(decimal.NewFromInt(d)).Round(1).InexactFloat64()
}

// round1 rounds v to one decimal place using the same rule as Rate.
func round1(v float64) float64 {
	return decimal.NewFromFloat(v).Round(1).InexactFloat64()
}
