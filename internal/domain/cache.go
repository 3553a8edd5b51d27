package domain

import (
	"context"
	"time"
)

// CachedBatch is one cached evaluation result: the filtered, sorted
// opportunity list plus the moment it was computed and how long it stays
// valid. TTL travels with the entry so readers can judge freshness without
// knowing the writer's configuration.
type CachedBatch struct {
	Opportunities []Opportunity
	FetchedAt     time.Time
	TTL           time.Duration
}

// Expired reports whether the batch is stale at the given instant.
func (b CachedBatch) Expired(now time.Time) bool {
	return now.Sub(b.FetchedAt) >= b.TTL
}

// ResultCache stores evaluation results keyed by canonical query signature.
// Implementations must make writes atomic: a concurrent reader sees either a
// fully-populated batch or ErrNotFound, never a partial entry. Get returns
// ErrNotFound for both missing and expired entries.
type ResultCache interface {
	Get(ctx context.Context, key string) (CachedBatch, error)
	Set(ctx context.Context, key string, batch CachedBatch) error
	Delete(ctx context.Context, key string) error
}

// CacheMeta describes how a scan result was obtained, for observability.
// Age is zero on a miss.
type CacheMeta struct {
	Hit bool
	Age time.Duration
}

// Source supplies the raw quote batch for one refresh cycle. Fetching is an
// external collaborator's concern; the engine only consumes the result.
type Source interface {
	Fetch(ctx context.Context) ([]RawMarket, error)
}
