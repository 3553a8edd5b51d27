package arb

import (
	"fmt"

	"github.com/oddscope/surebet/internal/domain"
)

// Allocate computes the stake split of totalStake across the market's
// outcomes such that every outcome pays the same return:
//
//	stake_i = totalStake * (1/odds_i) / impliedProbSum
//	return  = totalStake / impliedProbSum  (identical for every outcome)
//
// When the implied-probability sum is >= 1.0 the proportional split is still
// returned for what-if display, but the plan is flagged IsArbitrage=false:
// a losing split must never be labeled as guaranteed profit. Errors are
// reserved for unusable input: non-positive stake, fewer than two outcomes,
// or any invalid quote.
func Allocate(quotes map[string]domain.Quote, totalStake float64) (domain.StakePlan, error) {
	if totalStake <= 0 {
		return domain.StakePlan{}, fmt.Errorf("arb: total stake %.2f: %w", totalStake, domain.ErrInvalidStake)
	}
	if len(quotes) < 2 {
		return domain.StakePlan{}, fmt.Errorf("arb: %d outcomes, need at least 2: %w", len(quotes), domain.ErrInvalidQuote)
	}

	var sum float64
	for key, q := range quotes {
		if !q.Valid() {
			return domain.StakePlan{}, fmt.Errorf("arb: outcome %q odds %.3f: %w", key, q.DecimalOdds, domain.ErrInvalidQuote)
		}
		sum += 1.0 / q.DecimalOdds
	}

	stakes := make(map[string]float64, len(quotes))
	for key, q := range quotes {
		stakes[key] = totalStake * (1.0 / q.DecimalOdds) / sum
	}

	ret := totalStake / sum
	profit := ret - totalStake
	return domain.StakePlan{
		TotalStake:       totalStake,
		Stakes:           stakes,
		GuaranteedReturn: ret,
		GuaranteedProfit: profit,
		ROIPct:           profit / totalStake * 100.0,
		IsArbitrage:      sum < 1.0,
	}, nil
}
