// Package engine orchestrates the evaluation pipeline: raw quote batch in,
// filtered, described, ranked opportunity list out, with an optional cached
// scanner in front for repeated identical queries.
package engine

import (
	"log/slog"

	"github.com/google/uuid"

	"github.com/oddscope/surebet/internal/arb"
	"github.com/oddscope/surebet/internal/domain"
	"github.com/oddscope/surebet/internal/metrics"
	"github.com/oddscope/surebet/internal/odds"
)

// BuilderConfig configures opportunity construction.
type BuilderConfig struct {
	Normalizer *odds.Normalizer
	// ProfitSanityPct drops any market whose recomputed profit exceeds it.
	// Inflated profit figures are the documented upstream failure mode;
	// a recomputed value this large means the quotes themselves are suspect.
	ProfitSanityPct float64
	// ProfitTolerancePct bounds the accepted disagreement between an
	// upstream-supplied profit figure and the recomputed one, in absolute
	// percentage points. The recomputed value always wins; disagreement
	// beyond the tolerance is logged.
	ProfitTolerancePct float64
	Logger             *slog.Logger
}

// Builder turns raw markets into Opportunities: providers canonicalized,
// lines extracted, one best quote kept per outcome, profit recomputed. A
// malformed market is dropped and counted; it never aborts the batch.
type Builder struct {
	norm         *odds.Normalizer
	sanityPct    float64
	tolerancePct float64
	logger       *slog.Logger
}

// NewBuilder creates a Builder.
func NewBuilder(cfg BuilderConfig) *Builder {
	return &Builder{
		norm:         cfg.Normalizer,
		sanityPct:    cfg.ProfitSanityPct,
		tolerancePct: cfg.ProfitTolerancePct,
		logger:       cfg.Logger.With(slog.String("component", "builder")),
	}
}

// Build constructs an Opportunity per usable raw market, preserving batch
// order. Invalid quotes are excluded outcome by outcome; whole markets are
// dropped when fewer than two valid outcomes remain, when a declared
// outcome is missing, or when the recomputed profit fails the sanity cap.
func (b *Builder) Build(raw []domain.RawMarket) []domain.Opportunity {
	opps := make([]domain.Opportunity, 0, len(raw))
	for _, m := range raw {
		metrics.MarketsIngested.Inc()
		if opp, ok := b.build(m); ok {
			opps = append(opps, opp)
			metrics.OpportunitiesBuilt.Inc()
		}
	}
	return opps
}

func (b *Builder) build(m domain.RawMarket) (domain.Opportunity, bool) {
	// One best quote per outcome: highest decimal odds wins.
	best := make(map[string]domain.Quote, len(m.Quotes))
	for _, rq := range m.Quotes {
		q := domain.Quote{
			OutcomeKey:  rq.OutcomeKey,
			Provider:    b.norm.CanonicalBook(rq.Provider),
			DecimalOdds: rq.DecimalOdds,
			Line:        odds.ExtractLine(rq),
			MarketType:  m.MarketType,
		}
		if !q.Valid() {
			b.logger.Debug("invalid quote excluded",
				slog.String("event_id", m.EventID),
				slog.String("outcome", rq.OutcomeKey),
				slog.Float64("odds", rq.DecimalOdds),
			)
			continue
		}
		if cur, ok := best[q.OutcomeKey]; !ok || q.DecimalOdds > cur.DecimalOdds {
			best[q.OutcomeKey] = q
		}
	}

	if len(best) < 2 {
		metrics.MarketsDropped.WithLabelValues(metrics.DropTooFewOutcomes).Inc()
		return domain.Opportunity{}, false
	}

	// A declared outcome list makes missing legs detectable; without one
	// the quote map is taken as the complete outcome set.
	for _, outcome := range m.Outcomes {
		if _, ok := best[outcome]; !ok {
			b.logger.Debug("market missing declared leg",
				slog.String("event_id", m.EventID),
				slog.String("market", m.MarketType),
				slog.String("outcome", outcome),
			)
			metrics.MarketsDropped.WithLabelValues(metrics.DropMissingLeg).Inc()
			return domain.Opportunity{}, false
		}
	}

	det := arb.Detect(best)
	if b.sanityPct > 0 && det.ProfitPct > b.sanityPct {
		b.logger.Warn("profit above sanity cap, market dropped",
			slog.String("event_id", m.EventID),
			slog.String("market", m.MarketType),
			slog.Float64("profit_pct", det.ProfitPct),
			slog.Float64("cap_pct", b.sanityPct),
		)
		metrics.MarketsDropped.WithLabelValues(metrics.DropProfitSanity).Inc()
		return domain.Opportunity{}, false
	}

	// Upstream profit figures are advisory only; the recomputed value wins.
	if m.ProfitPct != nil {
		diff := *m.ProfitPct - det.ProfitPct
		if diff < 0 {
			diff = -diff
		}
		if diff > b.tolerancePct {
			b.logger.Debug("upstream profit disagrees with recomputed value",
				slog.String("event_id", m.EventID),
				slog.Float64("upstream_pct", *m.ProfitPct),
				slog.Float64("recomputed_pct", det.ProfitPct),
			)
		}
	}

	if det.IsArbitrage {
		metrics.ProfitPct.Observe(det.ProfitPct)
	}

	return domain.Opportunity{
		ID:               uuid.NewString(),
		EventID:          m.EventID,
		Sport:            m.Sport,
		League:           m.League,
		HomeTeam:         m.HomeTeam,
		AwayTeam:         m.AwayTeam,
		StartTime:        m.StartTime,
		MarketType:       m.MarketType,
		Live:             m.Live,
		Quotes:           best,
		ImpliedProbSum:   det.ImpliedProbSum,
		ProfitPct:        det.ProfitPct,
		Description:      m.Description,
		ShortDescription: m.ShortDescription,
	}, true
}
