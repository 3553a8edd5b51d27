package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/oddscope/surebet/internal/domain"
	"github.com/oddscope/surebet/internal/metrics"
)

// ScannerConfig wires a Scanner.
type ScannerConfig struct {
	Engine *Engine
	Source domain.Source
	Cache  domain.ResultCache // nil disables caching
	// Live quotes go stale faster than pre-game ones, so the two
	// partitions carry separate TTLs.
	PregameTTL time.Duration
	LiveTTL    time.Duration
	Logger     *slog.Logger
}

// Scanner serves evaluation results through the result cache, keyed by the
// query's canonical signature. Concurrent identical misses are collapsed to
// a single fetch-and-evaluate pass. Safe for concurrent use.
type Scanner struct {
	engine     *Engine
	source     domain.Source
	cache      domain.ResultCache
	pregameTTL time.Duration
	liveTTL    time.Duration
	logger     *slog.Logger
	group      singleflight.Group
	now        func() time.Time
}

// NewScanner creates a Scanner.
func NewScanner(cfg ScannerConfig) *Scanner {
	return &Scanner{
		engine:     cfg.Engine,
		source:     cfg.Source,
		cache:      cfg.Cache,
		pregameTTL: cfg.PregameTTL,
		liveTTL:    cfg.LiveTTL,
		logger:     cfg.Logger.With(slog.String("component", "scanner")),
		now:        time.Now,
	}
}

// Scan returns the filtered, sorted opportunity list for prefs, serving from
// the cache when a fresh entry exists. forceRefresh both bypasses and
// deletes the existing entry before recomputing, so stale data cannot
// resurface on the next non-forced call.
func (s *Scanner) Scan(ctx context.Context, prefs domain.Preferences, forceRefresh bool) ([]domain.Opportunity, domain.CacheMeta, error) {
	if s.source == nil {
		return nil, domain.CacheMeta{}, domain.ErrNoSource
	}
	key := prefs.Signature()

	if s.cache != nil {
		if forceRefresh {
			if err := s.cache.Delete(ctx, key); err != nil {
				s.logger.Warn("force refresh: cache delete failed",
					slog.String("error", err.Error()),
				)
			}
		} else {
			batch, err := s.cache.Get(ctx, key)
			switch {
			case err == nil:
				metrics.CacheRequests.WithLabelValues("hit").Inc()
				return batch.Opportunities, domain.CacheMeta{Hit: true, Age: s.now().Sub(batch.FetchedAt)}, nil
			case errors.Is(err, domain.ErrNotFound):
				// Miss, fall through to recompute.
			default:
				// A broken cache degrades to recomputation, never to failure.
				s.logger.Warn("cache read failed", slog.String("error", err.Error()))
			}
		}
	}
	metrics.CacheRequests.WithLabelValues("miss").Inc()

	v, err, _ := s.group.Do(key, func() (any, error) {
		return s.refresh(ctx, prefs, key)
	})
	if err != nil {
		return nil, domain.CacheMeta{}, err
	}
	return v.([]domain.Opportunity), domain.CacheMeta{}, nil
}

// refresh fetches a fresh batch, evaluates it, and stores the result.
func (s *Scanner) refresh(ctx context.Context, prefs domain.Preferences, key string) ([]domain.Opportunity, error) {
	start := s.now()
	raw, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("engine: fetch quotes: %w", err)
	}
	opps := s.engine.Evaluate(raw, prefs)
	metrics.ScanDuration.Observe(s.now().Sub(start).Seconds())

	if s.cache != nil {
		batch := domain.CachedBatch{
			Opportunities: opps,
			FetchedAt:     s.now(),
			TTL:           s.ttlFor(prefs),
		}
		if err := s.cache.Set(ctx, key, batch); err != nil {
			s.logger.Warn("cache write failed", slog.String("error", err.Error()))
		}
	}
	return opps, nil
}

func (s *Scanner) ttlFor(prefs domain.Preferences) time.Duration {
	if prefs.IncludeLive {
		return s.liveTTL
	}
	return s.pregameTTL
}
