// Package coverage decides whether an opportunity is placeable with the
// caller's allowed providers. Coverage is all-or-nothing: every leg of the
// market must be coverable, or the whole opportunity is excluded.
package coverage

import (
	"strings"

	"github.com/oddscope/surebet/internal/domain"
	"github.com/oddscope/surebet/internal/odds"
)

// MinFallbackLen guards the substring fallback match: both the leg's
// provider id and the allow-set entry must be longer than this before a
// containment match counts, so short ids like "fox" or "sky" cannot collide
// spuriously.
const MinFallbackLen = 3

// MinDistinctProviders is the smallest number of distinct books an
// opportunity's legs may span. A market quoting both sides at the same book
// is not a real arbitrage.
const MinDistinctProviders = 2

// Set is a canonicalized allowed-provider set. Build one per query with
// NewSet; the zero value allows nothing.
type Set struct {
	exact map[string]struct{}
	ids   []string // for the substring fallback
}

// NewSet canonicalizes each entry through the normalizer and returns the
// resulting set. Unknown-sentinel entries are dropped: an allow-set can
// never admit an unresolvable provider.
func NewSet(allowed []string, n *odds.Normalizer) Set {
	s := Set{exact: make(map[string]struct{}, len(allowed))}
	for _, raw := range allowed {
		id := n.CanonicalBook(raw)
		if id == odds.UnknownBook {
			continue
		}
		if _, dup := s.exact[id]; dup {
			continue
		}
		s.exact[id] = struct{}{}
		s.ids = append(s.ids, id)
	}
	return s
}

// Len returns the number of distinct allowed providers.
func (s Set) Len() int { return len(s.exact) }

// Covers reports whether the canonical provider id is placeable with this
// set. Exact membership is tried first; failing that, a bidirectional
// substring containment match is attempted, but only when both strings
// exceed MinFallbackLen.
func (s Set) Covers(provider string) bool {
	if provider == odds.UnknownBook {
		return false
	}
	if _, ok := s.exact[provider]; ok {
		return true
	}
	if len(provider) <= MinFallbackLen {
		return false
	}
	for _, id := range s.ids {
		if len(id) <= MinFallbackLen {
			continue
		}
		if strings.Contains(provider, id) || strings.Contains(id, provider) {
			return true
		}
	}
	return false
}

// Usable reports whether every leg of the opportunity is coverable and the
// legs span at least MinDistinctProviders distinct books. Partial coverage
// excludes the opportunity entirely; legs are never dropped individually.
func Usable(opp domain.Opportunity, allowed Set) bool {
	if len(opp.Quotes) == 0 {
		return false
	}
	distinct := make(map[string]struct{}, len(opp.Quotes))
	for _, q := range opp.Quotes {
		if !allowed.Covers(q.Provider) {
			return false
		}
		distinct[q.Provider] = struct{}{}
	}
	return len(distinct) >= MinDistinctProviders
}

// Filter returns the opportunities usable with the allowed set, preserving
// input order. Fewer than MinDistinctProviders allowed entries cannot cover
// even a 2-leg market, so the degenerate case returns nil without iterating.
func Filter(opps []domain.Opportunity, allowed Set) []domain.Opportunity {
	if allowed.Len() < MinDistinctProviders {
		return nil
	}
	out := make([]domain.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if Usable(opp, allowed) {
			out = append(out, opp)
		}
	}
	return out
}
