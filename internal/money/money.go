// Package money holds decimal arithmetic helpers shared by the settlement
// and profit-sharing paths. Amounts travel as float64 through the domain;
// splits and tolerance checks go through decimals to keep rounding honest.
package money

import "github.com/shopspring/decimal"

// Sum adds a slice of amounts.
func Sum(amounts []float64) float64 {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	f, _ := total.Float64()
	return f
}

// WithinTolerance reports whether |a-b| <= tolerance.
func WithinTolerance(a, b, tolerance float64) bool {
	diff := decimal.NewFromFloat(a).Sub(decimal.NewFromFloat(b)).Abs()
	return diff.LessThanOrEqual(decimal.NewFromFloat(tolerance))
}

// Share returns total * percent / 100 without intermediate float drift.
func Share(total, percent float64) float64 {
	share := decimal.NewFromFloat(total).
		Mul(decimal.NewFromFloat(percent)).
		Div(decimal.NewFromInt(100))
	f, _ := share.Float64()
	return f
}
