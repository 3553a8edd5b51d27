package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies SUREBET_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load. An empty path skips the
// file and uses defaults plus environment overrides.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known SUREBET_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e.
// not empty). This lets operators inject secrets at deploy time without
// touching the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Engine ──
	setFloat64(&cfg.Engine.ProfitSanityPct, "SUREBET_ENGINE_PROFIT_SANITY_PCT")
	setFloat64(&cfg.Engine.ProfitTolerancePct, "SUREBET_ENGINE_PROFIT_TOLERANCE_PCT")

	// ── Cache ──
	setStr(&cfg.Cache.Backend, "SUREBET_CACHE_BACKEND")
	setDuration(&cfg.Cache.PregameTTL, "SUREBET_CACHE_PREGAME_TTL")
	setDuration(&cfg.Cache.LiveTTL, "SUREBET_CACHE_LIVE_TTL")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "SUREBET_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "SUREBET_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "SUREBET_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "SUREBET_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "SUREBET_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "SUREBET_REDIS_TLS_ENABLED")

	// ── Alerts ──
	setBool(&cfg.Alerts.Enabled, "SUREBET_ALERTS_ENABLED")
	setDuration(&cfg.Alerts.DedupTTL, "SUREBET_ALERTS_DEDUP_TTL")
	setBool(&cfg.Alerts.Shared, "SUREBET_ALERTS_SHARED")

	// ── Top-level ──
	setStr(&cfg.LogLevel, "SUREBET_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = strings.TrimSpace(v)
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat64(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}
