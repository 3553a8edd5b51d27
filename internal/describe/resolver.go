// Package describe derives human-readable labels for market/line
// combinations. Upstream descriptions win when present; otherwise labels are
// rebuilt from the market and outcome keys against fixed stat and period
// tables.
package describe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oddscope/surebet/internal/domain"
)

// defaultStats maps player-prop stat keys (as they appear inside market or
// outcome keys) to display names. Longer keys are matched before shorter
// ones so "batting_totalBases" cannot be shadowed by a generic "bases".
var defaultStats = map[string]string{
	"batting_totalbases":  "Total Bases",
	"batting_hits":        "Hits",
	"batting_homeruns":    "Home Runs",
	"batting_rbi":         "RBIs",
	"pitching_strikeouts": "Strikeouts",
	"passing_yards":       "Passing Yards",
	"rushing_yards":       "Rushing Yards",
	"receiving_yards":     "Receiving Yards",
	"receptions":          "Receptions",
	"threepointers":       "Three Pointers",
	"points_rebounds":     "Points + Rebounds",
	"points":              "Points",
	"rebounds":            "Rebounds",
	"assists":             "Assists",
	"shots_on_goal":       "Shots on Goal",
	"saves":               "Saves",
	"anytime_td":          "Anytime Touchdown",
	"goals":               "Goals",
}

// periodTokens maps period markers embedded in keys to display names,
// checked in order so the first token present wins. The default when no
// token is found is "Game".
var periodTokens = []struct{ tok, name string }{
	{"1h", "1st Half"},
	{"2h", "2nd Half"},
	{"q1", "1st Quarter"},
	{"q2", "2nd Quarter"},
	{"q3", "3rd Quarter"},
	{"q4", "4th Quarter"},
	{"p1", "1st Period"},
	{"p2", "2nd Period"},
	{"p3", "3rd Period"},
	{"f5", "First 5 Innings"},
	{"i1", "1st Inning"},
	{"i9", "9th Inning"},
}

const defaultPeriod = "Game"

// Resolver derives market labels. Extra stat names extend the built-in
// table; built-in entries always apply.
type Resolver struct {
	stats map[string]string
	keys  []string // stat keys sorted longest-first for matching
}

// NewResolver returns a Resolver whose stat table is the built-in set merged
// with extra (keys lowercased).
func NewResolver(extra map[string]string) *Resolver {
	stats := make(map[string]string, len(defaultStats)+len(extra))
	for k, v := range defaultStats {
		stats[k] = v
	}
	for k, v := range extra {
		stats[strings.ToLower(k)] = v
	}
	keys := make([]string, 0, len(stats))
	for k := range stats {
		keys = append(keys, k)
	}
	// Longest-first so compound keys match before their substrings; ties
	// break alphabetically to keep matching deterministic.
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return &Resolver{stats: stats, keys: keys}
}

// Describe returns the display label for an opportunity. Precedence, first
// match wins:
//
//  1. upstream detailed description
//  2. upstream short description
//  3. pattern-derived player-prop label (stat table + period token)
//  4. generic fallback by market type
//
// A totals or spread market that reaches the fallback with no line data gets
// an explicit "(Line TBD)" suffix so callers can tell missing-line apart
// from a zero line.
func (r *Resolver) Describe(opp domain.Opportunity) string {
	if d := strings.TrimSpace(opp.Description); d != "" {
		return d
	}
	if d := strings.TrimSpace(opp.ShortDescription); d != "" {
		return d
	}
	if label, ok := r.describeProp(opp); ok {
		return label
	}
	return genericLabel(opp)
}

// describeProp builds a label for player-prop markets from the stat table.
func (r *Resolver) describeProp(opp domain.Opportunity) (string, bool) {
	haystack := strings.ToLower(opp.MarketType)
	for key := range opp.Quotes {
		haystack += "|" + strings.ToLower(key)
	}

	var stat string
	for _, k := range r.keys {
		if strings.Contains(haystack, k) {
			stat = r.stats[k]
			break
		}
	}
	if stat == "" {
		return "", false
	}

	period := defaultPeriod
	for _, p := range periodTokens {
		if containsToken(haystack, p.tok) {
			period = p.name
			break
		}
	}

	line := firstLine(opp)
	switch {
	case strings.Contains(haystack, "over") || strings.Contains(haystack, "under"):
		if line != nil {
			return fmt.Sprintf("%s Over/Under %s (%s)", stat, formatLine(*line), period), true
		}
		return fmt.Sprintf("%s Over/Under (%s)", stat, period), true
	case strings.Contains(haystack, "spread"):
		if line != nil {
			return fmt.Sprintf("%s Spread ±%s (%s)", stat, formatLine(*line), period), true
		}
		return fmt.Sprintf("%s Spread (%s)", stat, period), true
	default:
		return fmt.Sprintf("%s (%s)", stat, period), true
	}
}

// genericLabel is the step-4 fallback keyed on market type alone.
func genericLabel(opp domain.Opportunity) string {
	line := firstLine(opp)
	switch opp.MarketType {
	case domain.MarketSpread:
		if line == nil {
			return "Point Spread (Line TBD)"
		}
		return fmt.Sprintf("Point Spread ±%s", formatLine(*line))
	case domain.MarketTotals:
		if line == nil {
			return "Over/Under (Line TBD)"
		}
		return fmt.Sprintf("Over/Under %s", formatLine(*line))
	case domain.MarketMoneyline:
		return "Moneyline"
	default:
		return opp.MarketType
	}
}

// firstLine returns the first non-nil line across the opportunity's quotes,
// scanning deterministic outcome keys first so repeated calls agree.
func firstLine(opp domain.Opportunity) *float64 {
	for _, key := range []string{"over", "under", "home", "away"} {
		if q, ok := opp.Quotes[key]; ok && q.Line != nil {
			return q.Line
		}
	}
	for _, q := range opp.Quotes {
		if q.Line != nil {
			return q.Line
		}
	}
	return nil
}

// formatLine trims trailing zeros: 5.5 -> "5.5", 200 -> "200".
func formatLine(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// containsToken reports whether tok appears in haystack delimited by
// non-alphanumerics, so "1h" does not match inside "31hr".
func containsToken(haystack, tok string) bool {
	idx := 0
	for {
		i := strings.Index(haystack[idx:], tok)
		if i < 0 {
			return false
		}
		i += idx
		before := i == 0 || !isAlnum(haystack[i-1])
		afterIdx := i + len(tok)
		after := afterIdx >= len(haystack) || !isAlnum(haystack[afterIdx])
		if before && after {
			return true
		}
		idx = i + 1
	}
}

func isAlnum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')
}
