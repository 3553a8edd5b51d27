// Package config defines the engine's configuration and provides validation
// helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by SUREBET_* environment
// variables.
type Config struct {
	Engine   EngineConfig   `toml:"engine"`
	Books    BooksConfig    `toml:"books"`
	Describe DescribeConfig `toml:"describe"`
	Cache    CacheConfig    `toml:"cache"`
	Redis    RedisConfig    `toml:"redis"`
	Alerts   AlertsConfig   `toml:"alerts"`
	LogLevel string         `toml:"log_level"`
}

// EngineConfig holds evaluation parameters.
type EngineConfig struct {
	// ProfitSanityPct caps believable recomputed profit; markets above it
	// are dropped as suspect feed data. The 20% default is the observed
	// heuristic, not a business rule; tune per feed quality.
	ProfitSanityPct float64 `toml:"profit_sanity_pct"`
	// ProfitTolerancePct is the accepted absolute disagreement, in
	// percentage points, between upstream and recomputed profit figures.
	ProfitTolerancePct float64 `toml:"profit_tolerance_pct"`
}

// BooksConfig extends the provider alias table without code changes. Keys
// and values may use any spelling; both sides are canonicalized on load.
type BooksConfig struct {
	Aliases map[string]string `toml:"aliases"`
}

// DescribeConfig extends the player-prop stat-name table.
type DescribeConfig struct {
	Stats map[string]string `toml:"stats"`
}

// CacheConfig selects and parameterizes the result cache.
type CacheConfig struct {
	// Backend is "memory" or "redis"; empty disables caching.
	Backend    string   `toml:"backend"`
	PregameTTL duration `toml:"pregame_ttl"`
	LiveTTL    duration `toml:"live_ttl"`
}

// RedisConfig holds Redis connection parameters, used when the cache backend
// or the alert de-dup is Redis.
type RedisConfig struct {
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// AlertsConfig holds notification de-duplication parameters.
type AlertsConfig struct {
	Enabled  bool     `toml:"enabled"`
	DedupTTL duration `toml:"dedup_ttl"`
	// Shared routes de-dup through Redis so several hosts elect one alerter.
	Shared bool `toml:"shared"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5m", "30s").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings.
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Engine: EngineConfig{
			ProfitSanityPct:    20,
			ProfitTolerancePct: 0.25,
		},
		Books: BooksConfig{
			Aliases: map[string]string{},
		},
		Describe: DescribeConfig{
			Stats: map[string]string{},
		},
		Cache: CacheConfig{
			Backend:    "memory",
			PregameTTL: duration{2 * time.Minute},
			LiveTTL:    duration{15 * time.Second},
		},
		Redis: RedisConfig{
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   10,
			MaxRetries: 3,
		},
		Alerts: AlertsConfig{
			Enabled:  false,
			DedupTTL: duration{10 * time.Minute},
		},
		LogLevel: "info",
	}
}

// validBackends enumerates the accepted cache backends.
var validBackends = map[string]bool{
	"":       true, // caching disabled
	"memory": true,
	"redis":  true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	if c.Engine.ProfitSanityPct < 0 {
		errs = append(errs, "engine: profit_sanity_pct must be >= 0 (0 disables the cap)")
	}
	if c.Engine.ProfitTolerancePct < 0 {
		errs = append(errs, "engine: profit_tolerance_pct must be >= 0")
	}

	backend := strings.ToLower(c.Cache.Backend)
	if !validBackends[backend] {
		errs = append(errs, fmt.Sprintf("cache: unknown backend %q (valid: memory, redis, empty to disable)", c.Cache.Backend))
	}
	if backend != "" {
		if c.Cache.PregameTTL.Duration <= 0 {
			errs = append(errs, "cache: pregame_ttl must be > 0")
		}
		if c.Cache.LiveTTL.Duration <= 0 {
			errs = append(errs, "cache: live_ttl must be > 0")
		}
	}

	needsRedis := backend == "redis" || (c.Alerts.Enabled && c.Alerts.Shared)
	if needsRedis {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	if c.Alerts.Enabled && c.Alerts.DedupTTL.Duration <= 0 {
		errs = append(errs, "alerts: dedup_ttl must be > 0 when enabled")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
