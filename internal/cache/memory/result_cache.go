// Package memory implements the result-cache contract with an in-process
// map. It suits single-host embeddings and tests; the redis sibling package
// covers shared deployments.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/oddscope/surebet/internal/domain"
)

// ResultCache is a mutex-guarded in-memory domain.ResultCache. Batches are
// copied on read and write so callers can never observe a partially-written
// or later-mutated entry.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[string]domain.CachedBatch
	now     func() time.Time
}

// NewResultCache returns an empty cache.
func NewResultCache() *ResultCache {
	return &ResultCache{
		entries: make(map[string]domain.CachedBatch),
		now:     time.Now,
	}
}

// Get returns the batch stored under key. Both a missing key and an expired
// entry yield domain.ErrNotFound; expired entries are evicted on the way out.
func (c *ResultCache) Get(_ context.Context, key string) (domain.CachedBatch, error) {
	c.mu.RLock()
	batch, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return domain.CachedBatch{}, domain.ErrNotFound
	}
	if batch.Expired(c.now()) {
		c.mu.Lock()
		// Re-check under the write lock; another writer may have refreshed it.
		if cur, ok := c.entries[key]; ok && cur.Expired(c.now()) {
			delete(c.entries, key)
		}
		c.mu.Unlock()
		return domain.CachedBatch{}, domain.ErrNotFound
	}
	return copyBatch(batch), nil
}

// Set stores the batch under key, replacing any existing entry atomically.
func (c *ResultCache) Set(_ context.Context, key string, batch domain.CachedBatch) error {
	stored := copyBatch(batch)
	c.mu.Lock()
	c.entries[key] = stored
	c.mu.Unlock()
	return nil
}

// Delete removes the entry under key. Deleting a missing key is a no-op.
func (c *ResultCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Cleanup evicts every expired entry. Call periodically in long-lived hosts
// to bound memory on keys that are never read again.
func (c *ResultCache) Cleanup() {
	now := c.now()
	c.mu.Lock()
	for key, batch := range c.entries {
		if batch.Expired(now) {
			delete(c.entries, key)
		}
	}
	c.mu.Unlock()
}

func copyBatch(b domain.CachedBatch) domain.CachedBatch {
	out := b
	out.Opportunities = make([]domain.Opportunity, len(b.Opportunities))
	copy(out.Opportunities, b.Opportunities)
	return out
}

// Compile-time interface check.
var _ domain.ResultCache = (*ResultCache)(nil)
