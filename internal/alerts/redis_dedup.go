package alerts

import (
	"context"
	"fmt"
	"time"

	"github.com/oddscope/surebet/internal/domain"
	"github.com/redis/go-redis/v9"
)

// RedisDedup is a Deduper shared across hosts. The window is enforced with a
// single SET NX PX per check, so concurrent hosts racing on the same key
// elect exactly one alerter.
//
// Key schema:
//
//	alert:dedup:{eventID}:{marketType}:{providersHash} - "1" with TTL
type RedisDedup struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisDedup creates a RedisDedup with the given suppression window.
func NewRedisDedup(rdb *redis.Client, ttl time.Duration) *RedisDedup {
	return &RedisDedup{rdb: rdb, ttl: ttl}
}

// ShouldAlert returns true when this opportunity's key was not seen within
// the window. The claiming write and the check are one atomic operation.
func (d *RedisDedup) ShouldAlert(ctx context.Context, opp domain.Opportunity) (bool, error) {
	key := "alert:dedup:" + Key(opp)
	claimed, err := d.rdb.SetNX(ctx, key, "1", d.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("alerts: dedup claim %s: %w", key, err)
	}
	return claimed, nil
}

// Clear removes the de-dup entry for an opportunity so the next detection
// alerts again immediately.
func (d *RedisDedup) Clear(ctx context.Context, opp domain.Opportunity) error {
	key := "alert:dedup:" + Key(opp)
	if err := d.rdb.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("alerts: dedup clear %s: %w", key, err)
	}
	return nil
}

// Compile-time interface check.
var _ Deduper = (*RedisDedup)(nil)
