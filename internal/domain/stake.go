package domain

// StakePlan is the per-outcome stake split for one opportunity and one total
// investment. When IsArbitrage is true, Stakes guarantees the same return
// for every outcome; when false, the split is proportional what-if display
// data for a losing market and must never be presented as guaranteed profit.
type StakePlan struct {
	TotalStake       float64
	Stakes           map[string]float64 // outcomeKey -> stake
	GuaranteedReturn float64
	GuaranteedProfit float64
	ROIPct           float64
	IsArbitrage      bool
}
