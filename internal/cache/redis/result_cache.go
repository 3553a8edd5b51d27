package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oddscope/surebet/internal/domain"
	"github.com/redis/go-redis/v9"
)

// ResultCache implements domain.ResultCache on Redis with JSON-serialized
// batches. Redis expiry enforces the TTL server-side, and the stored
// FetchedAt+TTL pair is re-checked on read so a clock-skewed writer cannot
// resurrect a stale batch.
//
// Key schema:
//
//	scan:{signature} - JSON-encoded cachedBatch
type ResultCache struct {
	rdb *redis.Client
}

// NewResultCache creates a ResultCache backed by the given Client.
func NewResultCache(c *Client) *ResultCache {
	return &ResultCache{rdb: c.Underlying()}
}

func scanKey(signature string) string { return "scan:" + signature }

// cachedBatch is the wire shape of one cache entry.
type cachedBatch struct {
	Opportunities []domain.Opportunity `json:"opportunities"`
	FetchedAt     time.Time            `json:"fetched_at"`
	TTLMillis     int64                `json:"ttl_ms"`
}

// Get retrieves the batch stored under key. It returns domain.ErrNotFound
// when the key is missing, Redis-expired, or stale by its own timestamps.
func (rc *ResultCache) Get(ctx context.Context, key string) (domain.CachedBatch, error) {
	data, err := rc.rdb.Get(ctx, scanKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.CachedBatch{}, domain.ErrNotFound
		}
		return domain.CachedBatch{}, fmt.Errorf("redis: get scan %s: %w", key, err)
	}

	var entry cachedBatch
	if err := json.Unmarshal(data, &entry); err != nil {
		return domain.CachedBatch{}, fmt.Errorf("redis: unmarshal scan %s: %w", key, err)
	}

	batch := domain.CachedBatch{
		Opportunities: entry.Opportunities,
		FetchedAt:     entry.FetchedAt,
		TTL:           time.Duration(entry.TTLMillis) * time.Millisecond,
	}
	if batch.Expired(time.Now()) {
		return domain.CachedBatch{}, domain.ErrNotFound
	}
	return batch, nil
}

// Set stores the batch under key with its TTL as the Redis expiry. The
// SET is a single atomic write, so concurrent readers see the old entry or
// the new one, never a mix.
func (rc *ResultCache) Set(ctx context.Context, key string, batch domain.CachedBatch) error {
	if batch.TTL <= 0 {
		return fmt.Errorf("redis: set scan %s: non-positive ttl %v", key, batch.TTL)
	}
	data, err := json.Marshal(cachedBatch{
		Opportunities: batch.Opportunities,
		FetchedAt:     batch.FetchedAt,
		TTLMillis:     batch.TTL.Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("redis: marshal scan %s: %w", key, err)
	}
	if err := rc.rdb.Set(ctx, scanKey(key), data, batch.TTL).Err(); err != nil {
		return fmt.Errorf("redis: set scan %s: %w", key, err)
	}
	return nil
}

// Delete removes the entry under key. Deleting a missing key is a no-op.
func (rc *ResultCache) Delete(ctx context.Context, key string) error {
	if err := rc.rdb.Del(ctx, scanKey(key)).Err(); err != nil {
		return fmt.Errorf("redis: delete scan %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ domain.ResultCache = (*ResultCache)(nil)
