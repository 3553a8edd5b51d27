// Package metrics provides Prometheus instrumentation for the engine.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MarketsIngested counts raw markets consumed from the feed.
	MarketsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "surebet_markets_ingested_total",
		Help: "Raw markets consumed from quote batches",
	})

	// OpportunitiesBuilt counts opportunities that survived construction.
	OpportunitiesBuilt = promauto.NewCounter(prometheus.CounterOpts{
		Name: "surebet_opportunities_built_total",
		Help: "Opportunities successfully built from raw markets",
	})

	// MarketsDropped counts raw markets rejected at build time, by reason.
	MarketsDropped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "surebet_markets_dropped_total",
		Help: "Raw markets dropped during opportunity construction",
	}, []string{"reason"})

	// CacheRequests counts scanner cache lookups, by result (hit/miss).
	CacheRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "surebet_cache_requests_total",
		Help: "Result-cache lookups by the scanner",
	}, []string{"result"})

	// ScanDuration tracks full evaluation passes, fetch included.
	ScanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "surebet_scan_duration_seconds",
		Help:    "Duration of one fetch-and-evaluate pass",
		Buckets: prometheus.DefBuckets,
	})

	// ProfitPct observes the profit percentage of every arbitrage found.
	ProfitPct = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "surebet_profit_pct",
		Help:    "Profit percentage of detected arbitrage opportunities",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 3, 5, 10, 20},
	})
)

// Drop reasons recorded on MarketsDropped.
const (
	DropTooFewOutcomes = "too_few_outcomes"
	DropMissingLeg     = "missing_leg"
	DropProfitSanity   = "profit_sanity"
)

// Handler returns the Prometheus metrics HTTP handler for callers that want
// to expose the registry; the engine itself owns no HTTP surface.
func Handler() http.Handler {
	return promhttp.Handler()
}
