package describe

import (
	"testing"

	"github.com/oddscope/surebet/internal/domain"
)

func fptr(v float64) *float64 { return &v }

func propOpp(marketType string, line *float64, outcomes ...string) domain.Opportunity {
	quotes := make(map[string]domain.Quote, len(outcomes))
	for _, key := range outcomes {
		quotes[key] = domain.Quote{OutcomeKey: key, Provider: "draftkings", DecimalOdds: 2.1, Line: line}
	}
	return domain.Opportunity{EventID: "ev1", MarketType: marketType, Quotes: quotes}
}

func TestDescribePrecedence(t *testing.T) {
	r := NewResolver(nil)

	opp := propOpp("totals", fptr(8.5), "over", "under")
	opp.Description = "Full Game Total Runs"
	opp.ShortDescription = "Total Runs"
	if got := r.Describe(opp); got != "Full Game Total Runs" {
		t.Errorf("detailed description ignored: got %q", got)
	}

	opp.Description = "  "
	if got := r.Describe(opp); got != "Total Runs" {
		t.Errorf("short description ignored: got %q", got)
	}

	opp.ShortDescription = ""
	if got := r.Describe(opp); got != "Over/Under 8.5" {
		t.Errorf("fallback label = %q, want %q", got, "Over/Under 8.5")
	}
}

func TestDescribePlayerProps(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		name string
		opp  domain.Opportunity
		want string
	}{
		{
			name: "totals prop with line and default period",
			opp:  propOpp("player_batting_totalBases", fptr(1.5), "over_1.5", "under_1.5"),
			want: "Total Bases Over/Under 1.5 (Game)",
		},
		{
			name: "prop with half period token",
			opp:  propOpp("player_points_1h", fptr(12.5), "over", "under"),
			want: "Points Over/Under 12.5 (1st Half)",
		},
		{
			name: "compound stat matches before substring",
			opp:  propOpp("player_points_rebounds", fptr(25.5), "over", "under"),
			want: "Points + Rebounds Over/Under 25.5 (Game)",
		},
		{
			name: "spread prop",
			opp:  propOpp("player_passing_yards_spread", fptr(15.5), "home", "away"),
			want: "Passing Yards Spread ±15.5 (Game)",
		},
		{
			name: "yes-no prop without line",
			opp:  propOpp("player_anytime_td", nil, "yes", "no"),
			want: "Anytime Touchdown (Game)",
		},
		{
			name: "quarter period token",
			opp:  propOpp("player_assists_q4", fptr(3.5), "over", "under"),
			want: "Assists Over/Under 3.5 (4th Quarter)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Describe(tt.opp); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDescribeGenericFallback(t *testing.T) {
	r := NewResolver(nil)

	tests := []struct {
		name string
		opp  domain.Opportunity
		want string
	}{
		{"spread with line", propOpp(domain.MarketSpread, fptr(3.5), "home", "away"), "Point Spread ±3.5"},
		{"totals with line", propOpp(domain.MarketTotals, fptr(200), "over", "under"), "Over/Under 200"},
		{"spread missing line", propOpp(domain.MarketSpread, nil, "home", "away"), "Point Spread (Line TBD)"},
		{"totals missing line", propOpp(domain.MarketTotals, nil, "over", "under"), "Over/Under (Line TBD)"},
		{"moneyline", propOpp(domain.MarketMoneyline, nil, "home", "away", "draw"), "Moneyline"},
		{"unknown type passes through", propOpp("exotic_parlay", nil, "a", "b"), "exotic_parlay"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Describe(tt.opp); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolverExtraStats(t *testing.T) {
	r := NewResolver(map[string]string{"batting_doubles": "Doubles"})

	opp := propOpp("player_batting_doubles", fptr(0.5), "over", "under")
	if got := r.Describe(opp); got != "Doubles Over/Under 0.5 (Game)" {
		t.Errorf("extra stat not applied: got %q", got)
	}
	// Built-ins survive the merge.
	opp = propOpp("player_batting_totalBases", fptr(1.5), "over", "under")
	if got := r.Describe(opp); got != "Total Bases Over/Under 1.5 (Game)" {
		t.Errorf("built-in stat lost: got %q", got)
	}
}
