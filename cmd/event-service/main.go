package main

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	evcache "github.com/radieske/f1-betting-poc/internal/events/cache"
	ehttp "github.com/radieske/f1-betting-poc/internal/events/http"
	"github.com/radieske/f1-betting-poc/internal/events/openf1"
	"github.com/radieske/f1-betting-poc/internal/events/ratelimit"
	"github.com/radieske/f1-betting-poc/internal/shared/cache"
	"github.com/radieske/f1-betting-poc/internal/shared/config"
	"github.com/radieske/f1-betting-poc/internal/shared/logger"
	"github.com/radieske/f1-betting-poc/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, err := logger.New("event-service", cfg.Env)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("starting service", zap.String("env", cfg.Env))

	// Redis (cache de respostas + estado do rate limiter)
	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Fatal("redis connect", zap.Error(err))
	}

	// Composição: cache -> rate limit -> OpenF1
	// Hit de cache não consome cota do limiter.
	adapter := openf1.New(log, cfg.OpenF1BaseURL)
	bucket := ratelimit.NewTokenBucket(rdb, cfg.ProviderMaxCalls, time.Minute)
	src := evcache.Wrap(log, ratelimit.Wrap(adapter, bucket), rdb, cfg.EventCacheTTL)

	// metrics/health
	metrics.StartMetricsServer(cfg.MetricsPort, func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	log.Info("metrics/health listening", zap.String("port", cfg.MetricsPort))

	// HTTP público
	api := ehttp.NewServer(log, src)
	apiSrv := &http.Server{
		Addr:    ":" + cfg.HTTPPort,
		Handler: api.Router(),
	}

	log.Info("event-service listening", zap.String("addr", apiSrv.Addr))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api srv", zap.Error(err))
	}
}
