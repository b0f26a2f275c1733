package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/compsherpa/compsherpa/internal/config"
	"github.com/compsherpa/compsherpa/internal/db"
	"github.com/compsherpa/compsherpa/internal/llm"
	"github.com/compsherpa/compsherpa/internal/logging"
	"github.com/compsherpa/compsherpa/internal/report"
	"github.com/compsherpa/compsherpa/internal/reportcache"
	"github.com/compsherpa/compsherpa/internal/server/ratelimit"
)

// loadRuntime loads configuration and builds the logger every command uses.
func loadRuntime(configPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

// newProviderClient builds the model client. Without an API key the client is
// unavailable and every report uses the fallback.
func newProviderClient(ctx context.Context, pc config.ProviderConfig) (llm.Client, error) {
	client, err := llm.NewClient(ctx, &llm.Config{
		Provider:  llm.Provider(pc.Name),
		APIKey:    pc.APIKey,
		Model:     pc.Model,
		MaxTokens: pc.MaxTokens,
		BaseURL:   pc.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", pc.Name, err)
	}
	return client, nil
}

// openCache returns the configured report cache, or nil for the "none" backend.
func openCache(cc config.CacheConfig) (reportcache.Cache, error) {
	switch cc.Backend {
	case "memory":
		lru, err := reportcache.NewLRU(cc.Size)
		if err != nil {
			return nil, err
		}
		return lru, nil
	case "redis":
		return reportcache.NewRedis(reportcache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
			TTL:      cc.TTL,
		}), nil
	default:
		return nil, nil
	}
}

func newGenerator(client llm.Client, cfg *config.Config, store db.Store, cache reportcache.Cache, logger *zap.Logger) *report.Generator {
	opts := []report.Option{report.WithLogger(logger)}
	if store != nil {
		opts = append(opts, report.WithSaver(store))
	}
	if cache != nil {
		opts = append(opts, report.WithCache(cache))
	}
	return report.NewGenerator(client, report.Config{
		ProviderTimeout: cfg.Provider.Timeout,
		SaveTimeout:     cfg.Report.SaveTimeout,
	}, opts...)
}

func newRateLimiter(rc config.RateLimitConfig) *ratelimit.Limiter {
	return ratelimit.NewLimiter(&ratelimit.Config{
		Enabled:         rc.Enabled,
		DefaultLimit:    rc.DefaultLimit,
		DefaultWindow:   rc.DefaultWindow,
		IdleTTL:         rc.IdleTTL,
		MaxBuckets:      ratelimit.DefaultMaxBuckets,
		Whitelist:       ratelimit.ParseIPList(rc.Whitelist),
		Blacklist:       ratelimit.ParseIPList(rc.Blacklist),
		EndpointConfigs: ratelimit.DefaultEndpointConfigs(rc.GenerateLimit, rc.GenerateWindow),
	})
}
