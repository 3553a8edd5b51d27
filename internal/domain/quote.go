package domain

import "time"

// Market type tags carried on quotes. Player-prop markets use a
// "player_" prefix followed by the stat key (e.g. "player_points").
const (
	MarketMoneyline = "moneyline"
	MarketSpread    = "spread"
	MarketTotals    = "totals"
)

// Quote is one provider's price for one outcome of one market. Provider is
// always the canonical identifier (lowercase alphanumeric) produced by the
// odds normalizer; raw feed spellings never appear on a Quote.
type Quote struct {
	OutcomeKey  string
	Provider    string
	DecimalOdds float64 // always > 1.0 once built
	Line        *float64
	MarketType  string
}

// Valid reports whether the quote can participate in arbitrage math.
// Decimal odds at or below 1.0 carry no payout and are rejected, not coerced.
func (q Quote) Valid() bool {
	return q.OutcomeKey != "" && q.DecimalOdds > 1.0
}

// RawQuote is one provider's price for one outcome as delivered by a feed,
// before normalization. The line value may arrive in any of three fields or
// embedded as a numeric suffix on the outcome key ("over_5.5").
type RawQuote struct {
	OutcomeKey  string   `json:"outcome_key"`
	Provider    string   `json:"provider"`
	DecimalOdds float64  `json:"decimal_odds"`
	Line        *float64 `json:"line,omitempty"`
	Handicap    *float64 `json:"handicap,omitempty"`
	Point       *float64 `json:"point,omitempty"`
}

// RawMarket is one market of one event as delivered by a feed: event
// metadata plus every quote seen for its outcomes, possibly several per
// outcome from competing providers. Advisory fields (ProfitPct, the
// descriptions) come from upstream and are never trusted blindly.
type RawMarket struct {
	EventID    string     `json:"event_id"`
	Sport      string     `json:"sport"`
	League     string     `json:"league"`
	HomeTeam   string     `json:"home_team"`
	AwayTeam   string     `json:"away_team"`
	StartTime  time.Time  `json:"start_time"`
	MarketType string     `json:"market_type"`
	Live       bool       `json:"live"`
	Outcomes   []string   `json:"outcomes,omitempty"` // declared outcome set, optional
	Quotes     []RawQuote `json:"quotes"`

	ProfitPct        *float64 `json:"profit_pct,omitempty"` // upstream advisory
	Description      string   `json:"description,omitempty"`
	ShortDescription string   `json:"short_description,omitempty"`
}

// Opportunity is one market across one event holding exactly one best Quote
// per outcome. It is immutable once built; ProfitPct is recomputed from
// Quotes at construction and never taken from upstream data.
type Opportunity struct {
	ID         string
	EventID    string
	Sport      string
	League     string
	HomeTeam   string
	AwayTeam   string
	StartTime  time.Time
	MarketType string
	Live       bool

	Quotes         map[string]Quote // outcomeKey -> best quote
	ImpliedProbSum float64
	ProfitPct      float64
	MarketLabel    string

	// Upstream-supplied descriptions, consumed by the label resolver.
	Description      string
	ShortDescription string
}

// MarketKey is the composite identity used for cache and notification
// de-duplication. Opportunities have no persistent identity across refreshes
// beyond this key.
func (o Opportunity) MarketKey() string {
	return o.EventID + ":" + o.MarketType
}

// Providers returns the distinct canonical provider set across all legs.
func (o Opportunity) Providers() map[string]struct{} {
	set := make(map[string]struct{}, len(o.Quotes))
	for _, q := range o.Quotes {
		set[q.Provider] = struct{}{}
	}
	return set
}
