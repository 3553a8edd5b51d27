package arb

import (
	"math"
	"testing"

	"github.com/oddscope/surebet/internal/domain"
)

const tol = 1e-4

func quoteMap(odds map[string]float64) map[string]domain.Quote {
	out := make(map[string]domain.Quote, len(odds))
	for key, o := range odds {
		out[key] = domain.Quote{OutcomeKey: key, Provider: "book", DecimalOdds: o}
	}
	return out
}

func TestDetectThreeWayArbitrage(t *testing.T) {
	// Known surebet: 1/2.82 + 1/3.17 + 1/3.49 ~= 0.9856.
	d := Detect(quoteMap(map[string]float64{"home": 2.82, "away": 3.17, "draw": 3.49}))

	if !d.IsArbitrage {
		t.Fatal("expected arbitrage")
	}
	if math.Abs(d.ImpliedProbSum-0.9856) > 0.001 {
		t.Errorf("ImpliedProbSum = %.4f, want ~0.9856", d.ImpliedProbSum)
	}
	if math.Abs(d.ProfitPct-1.46) > 0.01 {
		t.Errorf("ProfitPct = %.4f, want ~1.46", d.ProfitPct)
	}
}

func TestDetectNoArbitrage(t *testing.T) {
	d := Detect(quoteMap(map[string]float64{"home": 1.5, "away": 1.5}))

	if d.IsArbitrage {
		t.Fatal("expected no arbitrage")
	}
	if math.Abs(d.ImpliedProbSum-1.3333) > 0.001 {
		t.Errorf("ImpliedProbSum = %.4f, want ~1.3333", d.ImpliedProbSum)
	}
	if d.ProfitPct != 0 {
		t.Errorf("ProfitPct = %.4f, want 0", d.ProfitPct)
	}
}

func TestDetectDegenerateInput(t *testing.T) {
	tests := []struct {
		name   string
		quotes map[string]domain.Quote
	}{
		{"empty map", nil},
		{"odds below one", quoteMap(map[string]float64{"home": 0.9, "away": 2.5})},
		{"odds exactly one", quoteMap(map[string]float64{"home": 1.0, "away": 2.5})},
		{"missing outcome key", map[string]domain.Quote{"home": {DecimalOdds: 2.5}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Detect(tt.quotes)
			if d.IsArbitrage {
				t.Error("degenerate input reported as arbitrage")
			}
			if d.ProfitPct != 0 {
				t.Errorf("ProfitPct = %v, want 0", d.ProfitPct)
			}
		})
	}
}

func TestDetectProfitRoundTrip(t *testing.T) {
	// (1 + profit/100) * impliedProbSum must equal 1 for any arbitrage.
	cases := []map[string]float64{
		{"home": 2.82, "away": 3.17, "draw": 3.49},
		{"over": 2.1, "under": 2.05},
		{"a": 4.2, "b": 4.4, "c": 4.6, "d": 5.0},
	}
	for _, odds := range cases {
		d := Detect(quoteMap(odds))
		if !d.IsArbitrage {
			t.Fatalf("case %v should be arbitrage (sum=%.4f)", odds, d.ImpliedProbSum)
		}
		if rt := (1 + d.ProfitPct/100) * d.ImpliedProbSum; math.Abs(rt-1) > tol {
			t.Errorf("round trip (1+p/100)*sum = %.6f, want 1", rt)
		}
	}
}

func TestDetectMonotonicInOdds(t *testing.T) {
	// Raising one outcome's odds with the others fixed never lowers profit.
	odds := map[string]float64{"home": 2.82, "away": 3.17, "draw": 3.49}
	prev := Detect(quoteMap(odds)).ProfitPct
	for _, bump := range []float64{3.0, 3.5, 4.0, 10.0} {
		odds["home"] = bump
		got := Detect(quoteMap(odds)).ProfitPct
		if got < prev-tol {
			t.Errorf("profit decreased from %.4f to %.4f when home odds rose to %.2f", prev, got, bump)
		}
		prev = got
	}
}
