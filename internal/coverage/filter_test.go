package coverage

import (
	"testing"

	"github.com/oddscope/surebet/internal/domain"
	"github.com/oddscope/surebet/internal/odds"
)

var norm = odds.NewNormalizer(nil)

func opp(providers ...string) domain.Opportunity {
	quotes := make(map[string]domain.Quote, len(providers))
	for i, p := range providers {
		key := []string{"home", "away", "draw", "x4"}[i]
		quotes[key] = domain.Quote{OutcomeKey: key, Provider: norm.CanonicalBook(p), DecimalOdds: 2.5}
	}
	return domain.Opportunity{EventID: "ev1", MarketType: domain.MarketMoneyline, Quotes: quotes}
}

func TestUsableFullCoverage(t *testing.T) {
	allowed := NewSet([]string{"DraftKings", "FanDuel", "BetMGM"}, norm)

	if !Usable(opp("draftkings", "fanduel"), allowed) {
		t.Error("fully covered 2-way rejected")
	}
	if !Usable(opp("draftkings", "fanduel", "betmgm"), allowed) {
		t.Error("fully covered 3-way rejected")
	}
}

func TestUsablePartialCoverageExcluded(t *testing.T) {
	// Legs at DraftKings and FanDuel, but only DraftKings allowed alongside
	// an unrelated book: the whole opportunity goes, not just the FanDuel leg.
	allowed := NewSet([]string{"draftkings", "caesars"}, norm)

	if Usable(opp("draftkings", "fanduel"), allowed) {
		t.Error("partially covered opportunity passed")
	}
}

func TestUsableSameBookBothSides(t *testing.T) {
	allowed := NewSet([]string{"draftkings", "fanduel"}, norm)

	if Usable(opp("draftkings", "draftkings"), allowed) {
		t.Error("same-book market passed; both-sides at one book is not arbitrage")
	}
}

func TestUsableUnknownProvider(t *testing.T) {
	allowed := NewSet([]string{"draftkings", "fanduel"}, norm)

	if Usable(opp("draftkings", "???"), allowed) {
		t.Error("unknown-sentinel provider passed coverage")
	}
}

func TestCoversSubstringFallback(t *testing.T) {
	allowed := NewSet([]string{"betfair", "draftkings"}, norm)

	tests := []struct {
		provider string
		want     bool
	}{
		{"betfair", true},
		{"betfairsportsbook", true}, // containment, both sides long enough
		{"draftkingssb", true},
		{"fanduel", false},
		{"bet", false}, // too short for the fallback
	}
	for _, tt := range tests {
		if got := allowed.Covers(tt.provider); got != tt.want {
			t.Errorf("Covers(%q) = %v, want %v", tt.provider, got, tt.want)
		}
	}
}

func TestCoversShortStringGuard(t *testing.T) {
	// "fox" is within "foxbet" but both qualifying strings must exceed
	// MinFallbackLen for the fallback to apply.
	allowed := NewSet([]string{"fox"}, norm)

	if allowed.Covers("foxbet") {
		t.Error("short allow-set entry matched via substring fallback")
	}
	if !allowed.Covers("fox") {
		t.Error("exact match must still work for short ids")
	}
}

func TestFilterDegenerateAllowSet(t *testing.T) {
	opps := []domain.Opportunity{
		opp("draftkings", "fanduel"),
		opp("betmgm", "caesars"),
	}

	if got := Filter(opps, NewSet([]string{"draftkings"}, norm)); len(got) != 0 {
		t.Errorf("singleton allow-set returned %d opportunities, want 0", len(got))
	}
	if got := Filter(opps, NewSet(nil, norm)); len(got) != 0 {
		t.Errorf("empty allow-set returned %d opportunities, want 0", len(got))
	}
}

func TestFilterPreservesOrder(t *testing.T) {
	opps := []domain.Opportunity{
		opp("draftkings", "fanduel"),
		opp("betmgm", "caesars"), // excluded
		opp("fanduel", "draftkings"),
	}
	allowed := NewSet([]string{"draftkings", "fanduel"}, norm)

	got := Filter(opps, allowed)
	if len(got) != 2 {
		t.Fatalf("got %d opportunities, want 2", len(got))
	}
	for _, o := range got {
		for _, q := range o.Quotes {
			if !allowed.Covers(q.Provider) {
				t.Errorf("leaked leg at uncovered provider %q", q.Provider)
			}
		}
	}
}
