// Package rank orders filtered opportunity batches by the caller's sort key.
// All sorts are stable: ties keep their relative input order.
package rank

import (
	"sort"
	"strings"

	"github.com/oddscope/surebet/internal/domain"
)

// Sort orders opps in place by key. Unknown keys fall back to profit
// descending. Opportunities with a missing (zero) start time sort after
// every dated one in both time directions.
func Sort(opps []domain.Opportunity, key domain.SortKey) {
	var less func(a, b domain.Opportunity) bool
	switch key {
	case domain.SortProfitAsc:
		less = func(a, b domain.Opportunity) bool { return a.ProfitPct < b.ProfitPct }
	case domain.SortTimeAsc:
		less = timeLess(false)
	case domain.SortTimeDesc:
		less = timeLess(true)
	case domain.SortMatchAsc:
		less = func(a, b domain.Opportunity) bool { return matchName(a) < matchName(b) }
	case domain.SortMatchDesc:
		less = func(a, b domain.Opportunity) bool { return matchName(a) > matchName(b) }
	default: // SortProfitDesc
		less = func(a, b domain.Opportunity) bool { return a.ProfitPct > b.ProfitPct }
	}
	sort.SliceStable(opps, func(i, j int) bool { return less(opps[i], opps[j]) })
}

// timeLess orders by start time with zero times always last, regardless of
// direction.
func timeLess(desc bool) func(a, b domain.Opportunity) bool {
	return func(a, b domain.Opportunity) bool {
		az, bz := a.StartTime.IsZero(), b.StartTime.IsZero()
		switch {
		case az && bz:
			return false
		case az:
			return false
		case bz:
			return true
		}
		if desc {
			return a.StartTime.After(b.StartTime)
		}
		return a.StartTime.Before(b.StartTime)
	}
}

func matchName(o domain.Opportunity) string {
	return strings.ToLower(o.HomeTeam + " vs " + o.AwayTeam)
}
