// Package alerts suppresses repeat notifications for an unchanged
// opportunity. De-duplication is keyed by the eventID+market composite plus
// the provider set, so a re-detected opportunity with the same legs stays
// quiet within the window while a changed leg alerts again immediately.
package alerts

import (
	"context"
	"crypto/sha256"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oddscope/surebet/internal/domain"
)

// Deduper reports whether an opportunity should trigger a notification.
type Deduper interface {
	ShouldAlert(ctx context.Context, opp domain.Opportunity) (bool, error)
}

// Key returns the de-dup key for an opportunity: the eventID+market
// composite identity plus a short hash of the sorted provider set.
func Key(opp domain.Opportunity) string {
	providers := make([]string, 0, len(opp.Quotes))
	for p := range opp.Providers() {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	sum := sha256.Sum256([]byte(strings.Join(providers, ",")))
	return fmt.Sprintf("%s:%x", opp.MarketKey(), sum[:8])
}

// Dedup is an in-process Deduper: a mutex-guarded map of last-seen times
// with a fixed TTL window. It is safe for concurrent use.
type Dedup struct {
	seen map[string]time.Time
	ttl  time.Duration
	mu   sync.Mutex
	now  func() time.Time
}

// NewDedup creates a Dedup that suppresses repeats seen within ttl.
func NewDedup(ttl time.Duration) *Dedup {
	return &Dedup{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// ShouldAlert returns true and records the opportunity the first time its
// key is seen, and false while the key remains inside the TTL window.
func (d *Dedup) ShouldAlert(_ context.Context, opp domain.Opportunity) (bool, error) {
	key := Key(opp)

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if lastSeen, ok := d.seen[key]; ok && now.Sub(lastSeen) < d.ttl {
		return false, nil
	}
	d.seen[key] = now
	return true, nil
}

// Cleanup removes entries older than the TTL. Call periodically to prevent
// unbounded memory growth in long-lived hosts.
func (d *Dedup) Cleanup() {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	for key, ts := range d.seen {
		if now.Sub(ts) >= d.ttl {
			delete(d.seen, key)
		}
	}
}

// Compile-time interface check.
var _ Deduper = (*Dedup)(nil)
