// Package arb implements the implied-probability arbitrage math: detection
// of a profitable inverse-odds sum and the equal-return stake split. The
// same formula covers 2-way, 3-way, and N-way markets; nothing here
// special-cases market shape.
package arb

import "github.com/oddscope/surebet/internal/domain"

// Detection is the result of evaluating one market's quote set.
type Detection struct {
	ImpliedProbSum float64
	ProfitPct      float64
	IsArbitrage    bool
}

// Detect computes the implied-probability sum over every outcome present and
// the guaranteed profit percentage when that sum is below 1.0. An empty
// quote map or any invalid quote (odds <= 1.0) yields a zero-profit
// non-arbitrage result; it never produces a division error or a negative
// profit. Values stay full-precision; rounding happens at presentation only.
func Detect(quotes map[string]domain.Quote) Detection {
	if len(quotes) == 0 {
		return Detection{}
	}

	var sum float64
	for _, q := range quotes {
		if !q.Valid() {
			return Detection{}
		}
		sum += 1.0 / q.DecimalOdds
	}

	d := Detection{ImpliedProbSum: sum}
	if sum < 1.0 {
		d.IsArbitrage = true
		d.ProfitPct = (1.0/sum - 1.0) * 100.0
	}
	return d
}
