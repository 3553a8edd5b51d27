package domain

import (
	"sort"
	"strconv"
	"strings"
)

// SortKey selects the ranking order for a filtered batch.
type SortKey string

const (
	SortProfitDesc SortKey = "profit_desc"
	SortProfitAsc  SortKey = "profit_asc"
	SortTimeAsc    SortKey = "time_asc"
	SortTimeDesc   SortKey = "time_desc"
	SortMatchAsc   SortKey = "match_asc"
	SortMatchDesc  SortKey = "match_desc"
)

// ValidSortKeys enumerates the accepted SortKey values.
var ValidSortKeys = map[SortKey]bool{
	SortProfitDesc: true,
	SortProfitAsc:  true,
	SortTimeAsc:    true,
	SortTimeDesc:   true,
	SortMatchAsc:   true,
	SortMatchDesc:  true,
}

// Preferences are the caller-supplied query constraints. A Preferences value
// is immutable for the duration of a query; the engine never mutates it.
type Preferences struct {
	AllowedProviders []string // canonicalized on use
	MinProfitPct     float64
	Sports           []string // optional inclusion set, empty = all
	Leagues          []string // optional inclusion set, empty = all
	SortKey          SortKey
	IncludeLive      bool // selects the live partition instead of pre-game
}

// Signature returns a canonical string identifying this query for cache
// keying. Set-valued fields are sorted and lowercased so that two
// Preferences describing the same query always produce the same signature.
func (p Preferences) Signature() string {
	var b strings.Builder
	b.WriteString("prov=")
	b.WriteString(canonSet(p.AllowedProviders))
	b.WriteString("|min=")
	b.WriteString(strconv.FormatFloat(p.MinProfitPct, 'f', 4, 64))
	b.WriteString("|sports=")
	b.WriteString(canonSet(p.Sports))
	b.WriteString("|leagues=")
	b.WriteString(canonSet(p.Leagues))
	b.WriteString("|sort=")
	b.WriteString(string(p.SortKey))
	b.WriteString("|live=")
	b.WriteString(strconv.FormatBool(p.IncludeLive))
	return b.String()
}

func canonSet(vals []string) string {
	out := make([]string, 0, len(vals))
	for _, v := range vals {
		v = strings.ToLower(strings.TrimSpace(v))
		if v != "" {
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}
