package engine

import (
	"log/slog"
	"strings"

	"github.com/oddscope/surebet/internal/arb"
	"github.com/oddscope/surebet/internal/coverage"
	"github.com/oddscope/surebet/internal/describe"
	"github.com/oddscope/surebet/internal/domain"
	"github.com/oddscope/surebet/internal/odds"
	"github.com/oddscope/surebet/internal/rank"
)

// Config wires an Engine.
type Config struct {
	Builder  *Builder
	Norm     *odds.Normalizer
	Resolver *describe.Resolver
	Logger   *slog.Logger
}

// Engine runs the synchronous evaluation pipeline. It is stateless and safe
// for concurrent use; the cached Scanner adds the only shared state.
type Engine struct {
	builder  *Builder
	norm     *odds.Normalizer
	resolver *describe.Resolver
	logger   *slog.Logger
}

// New creates an Engine.
func New(cfg Config) *Engine {
	return &Engine{
		builder:  cfg.Builder,
		norm:     cfg.Norm,
		resolver: cfg.Resolver,
		logger:   cfg.Logger.With(slog.String("component", "engine")),
	}
}

// Evaluate runs one full pass over a raw quote batch: build, partition by
// live flag, coverage-filter, threshold-filter, label, rank. The returned
// slice is freshly allocated; prefs is never mutated.
func (e *Engine) Evaluate(raw []domain.RawMarket, prefs domain.Preferences) []domain.Opportunity {
	built := e.builder.Build(raw)

	// Live and pre-game are disjoint partitions; a query addresses exactly
	// one of them.
	partition := built[:0:0]
	for _, opp := range built {
		if opp.Live == prefs.IncludeLive {
			partition = append(partition, opp)
		}
	}

	allowed := coverage.NewSet(prefs.AllowedProviders, e.norm)
	covered := coverage.Filter(partition, allowed)

	out := make([]domain.Opportunity, 0, len(covered))
	for _, opp := range covered {
		if opp.ProfitPct < prefs.MinProfitPct {
			continue
		}
		if !inSet(opp.Sport, prefs.Sports) || !inSet(opp.League, prefs.Leagues) {
			continue
		}
		opp.MarketLabel = e.resolver.Describe(opp)
		out = append(out, opp)
	}

	rank.Sort(out, prefs.SortKey)

	e.logger.Debug("batch evaluated",
		slog.Int("raw", len(raw)),
		slog.Int("built", len(built)),
		slog.Int("returned", len(out)),
	)
	return out
}

// Allocate computes the stake split for one opportunity, on demand.
func (e *Engine) Allocate(opp domain.Opportunity, totalStake float64) (domain.StakePlan, error) {
	return arb.Allocate(opp.Quotes, totalStake)
}

// inSet reports case-insensitive membership; an empty set includes all.
func inSet(val string, set []string) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if strings.EqualFold(val, s) {
			return true
		}
	}
	return false
}
