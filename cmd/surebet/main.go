// Command surebet is a developer harness for the arbitrage engine. It loads
// configuration, reads a quote-batch JSON file, runs one evaluation pass
// against the flag-supplied preferences, and prints the ranked results plus
// an optional stake plan for the best opportunity.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/oddscope/surebet/internal/alerts"
	"github.com/oddscope/surebet/internal/cache/memory"
	cacheredis "github.com/oddscope/surebet/internal/cache/redis"
	"github.com/oddscope/surebet/internal/config"
	"github.com/oddscope/surebet/internal/describe"
	"github.com/oddscope/surebet/internal/domain"
	"github.com/oddscope/surebet/internal/engine"
	"github.com/oddscope/surebet/internal/odds"
)

func main() {
	configPath := flag.String("config", "", "path to configuration file (optional)")
	batchPath := flag.String("batch", "", "path to quote-batch JSON file")
	providers := flag.String("providers", "", "comma-separated allowed providers")
	minProfit := flag.Float64("min-profit", 0, "minimum profit percentage")
	sortKey := flag.String("sort", string(domain.SortProfitDesc), "sort key")
	live := flag.Bool("live", false, "query the live partition instead of pre-game")
	stake := flag.Float64("stake", 0, "total stake; > 0 prints a stake plan for the top result")
	force := flag.Bool("force", false, "bypass and invalidate the cache entry")
	flag.Parse()

	// Setup structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load configuration.
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", *configPath),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// Set log level from config.
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	logger = slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Validate configuration.
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if *batchPath == "" {
		fmt.Fprintln(os.Stderr, "usage: surebet -batch quotes.json [-providers a,b,...]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger, runOptions{
		batchPath:    *batchPath,
		providers:    splitList(*providers),
		minProfit:    *minProfit,
		sortKey:      domain.SortKey(*sortKey),
		live:         *live,
		stake:        *stake,
		forceRefresh: *force,
	}); err != nil {
		logger.Error("run failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

type runOptions struct {
	batchPath    string
	providers    []string
	minProfit    float64
	sortKey      domain.SortKey
	live         bool
	stake        float64
	forceRefresh bool
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts runOptions) error {
	if !domain.ValidSortKeys[opts.sortKey] {
		return fmt.Errorf("unknown sort key %q", opts.sortKey)
	}

	norm := odds.NewNormalizer(cfg.Books.Aliases)
	eng := engine.New(engine.Config{
		Builder: engine.NewBuilder(engine.BuilderConfig{
			Normalizer:         norm,
			ProfitSanityPct:    cfg.Engine.ProfitSanityPct,
			ProfitTolerancePct: cfg.Engine.ProfitTolerancePct,
			Logger:             logger,
		}),
		Norm:     norm,
		Resolver: describe.NewResolver(cfg.Describe.Stats),
		Logger:   logger,
	})

	cache, deduper, cleanup, err := buildInfra(ctx, cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	scanner := engine.NewScanner(engine.ScannerConfig{
		Engine:     eng,
		Source:     fileSource{path: opts.batchPath},
		Cache:      cache,
		PregameTTL: cfg.Cache.PregameTTL.Duration,
		LiveTTL:    cfg.Cache.LiveTTL.Duration,
		Logger:     logger,
	})

	prefs := domain.Preferences{
		AllowedProviders: opts.providers,
		MinProfitPct:     opts.minProfit,
		SortKey:          opts.sortKey,
		IncludeLive:      opts.live,
	}

	opps, meta, err := scanner.Scan(ctx, prefs, opts.forceRefresh)
	if err != nil {
		return err
	}
	logger.Info("scan complete",
		slog.Int("results", len(opps)),
		slog.Bool("cache_hit", meta.Hit),
		slog.Duration("cache_age", meta.Age),
	)

	for i, opp := range opps {
		fmt.Printf("%2d. %-28s %s vs %s  %s  profit %.2f%%\n",
			i+1, opp.MarketLabel, opp.HomeTeam, opp.AwayTeam, opp.Sport, opp.ProfitPct)
		for outcome, q := range opp.Quotes {
			fmt.Printf("      %-12s %.2f @ %s\n", outcome, q.DecimalOdds, q.Provider)
		}
		if deduper != nil {
			fresh, err := deduper.ShouldAlert(ctx, opp)
			if err != nil {
				logger.Warn("alert dedup check failed", slog.String("error", err.Error()))
			} else if fresh {
				logger.Info("new opportunity",
					slog.String("event_id", opp.EventID),
					slog.String("market", opp.MarketLabel),
					slog.Float64("profit_pct", opp.ProfitPct),
				)
			}
		}
	}

	if opts.stake > 0 && len(opps) > 0 {
		plan, err := eng.Allocate(opps[0], opts.stake)
		if err != nil {
			return fmt.Errorf("allocate: %w", err)
		}
		fmt.Printf("\nstake plan for #1 (total %.2f):\n", plan.TotalStake)
		for outcome, s := range plan.Stakes {
			fmt.Printf("      %-12s %.2f\n", outcome, s)
		}
		fmt.Printf("      return %.2f  profit %.2f  roi %.2f%%  arbitrage=%v\n",
			plan.GuaranteedReturn, plan.GuaranteedProfit, plan.ROIPct, plan.IsArbitrage)
	}
	return nil
}

// buildInfra constructs the configured result cache and alert deduper,
// sharing one Redis connection when both want it. The cleanup function is a
// no-op unless a connection was opened.
func buildInfra(ctx context.Context, cfg *config.Config) (domain.ResultCache, alerts.Deduper, func(), error) {
	cleanup := func() {}

	var client *cacheredis.Client
	redisClient := func() (*cacheredis.Client, error) {
		if client != nil {
			return client, nil
		}
		c, err := cacheredis.New(ctx, cacheredis.ClientConfig{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			PoolSize:   cfg.Redis.PoolSize,
			MaxRetries: cfg.Redis.MaxRetries,
			TLSEnabled: cfg.Redis.TLSEnabled,
		})
		if err != nil {
			return nil, err
		}
		client = c
		cleanup = func() { _ = c.Close() }
		return client, nil
	}

	var cache domain.ResultCache
	switch strings.ToLower(cfg.Cache.Backend) {
	case "memory":
		cache = memory.NewResultCache()
	case "redis":
		c, err := redisClient()
		if err != nil {
			return nil, nil, nil, err
		}
		cache = cacheredis.NewResultCache(c)
	}

	var deduper alerts.Deduper
	if cfg.Alerts.Enabled {
		if cfg.Alerts.Shared {
			c, err := redisClient()
			if err != nil {
				cleanup()
				return nil, nil, nil, err
			}
			deduper = alerts.NewRedisDedup(c.Underlying(), cfg.Alerts.DedupTTL.Duration)
		} else {
			deduper = alerts.NewDedup(cfg.Alerts.DedupTTL.Duration)
		}
	}

	return cache, deduper, cleanup, nil
}

// fileSource reads one quote batch from a JSON file: an array of raw
// markets. The file format belongs to this harness, not to the engine.
type fileSource struct {
	path string
}

func (f fileSource) Fetch(context.Context) ([]domain.RawMarket, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}
	var batch []domain.RawMarket
	if err := json.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	return batch, nil
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
