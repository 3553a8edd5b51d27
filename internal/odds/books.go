// Package odds canonicalizes sportsbook identifiers and extracts line values
// from the heterogeneous shapes quote feeds deliver them in. Everything here
// is a pure function of its inputs.
package odds

import "strings"

// UnknownBook is the sentinel canonical id for an empty or unresolvable
// provider name. It never matches any allow-set entry, so unknown providers
// are always excluded from coverage-satisfied opportunities.
const UnknownBook = "unknown"

// defaultAliases maps already-stripped spellings to their canonical book id.
// Feeds disagree on exchange naming in particular: "betfair" and
// "betfair_exchange" are the same venue and must resolve to one id.
var defaultAliases = map[string]string{
	"betfairexchange":   "betfair",
	"betfairex":         "betfair",
	"mgm":               "betmgm",
	"caesarssportsbook": "caesars",
	"williamhillus":     "caesars",
}

// Normalizer resolves raw provider names to canonical ids through an alias
// table. The table is extended, not replaced, by config-supplied entries;
// the built-in aliases always apply.
type Normalizer struct {
	aliases map[string]string
}

// NewNormalizer returns a Normalizer whose alias table is the built-in set
// merged with extra. Keys and values of extra are stripped the same way raw
// names are, so config entries may use any spelling.
func NewNormalizer(extra map[string]string) *Normalizer {
	aliases := make(map[string]string, len(defaultAliases)+len(extra))
	for k, v := range defaultAliases {
		aliases[k] = v
	}
	for k, v := range extra {
		aliases[strip(k)] = strip(v)
	}
	return &Normalizer{aliases: aliases}
}

// CanonicalBook lowercases raw, strips all non-alphanumeric characters, and
// resolves the result through the alias table. Empty or unresolvable input
// yields UnknownBook. The function is idempotent: applying it to its own
// output returns the same id.
func (n *Normalizer) CanonicalBook(raw string) string {
	id := strip(raw)
	if id == "" {
		return UnknownBook
	}
	if canonical, ok := n.aliases[id]; ok {
		return canonical
	}
	return id
}

// CanonicalBook resolves raw using only the built-in alias table.
func CanonicalBook(raw string) string {
	return defaultNormalizer.CanonicalBook(raw)
}

var defaultNormalizer = NewNormalizer(nil)

func strip(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
