package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/cache"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/http/api"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/adapters/nba"
	app "github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/app"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/config"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/internal/domain/sequence"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/logger"
	"github.com/Yhoqw/Kobe-Assist-Estimator-2025/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout           = 10 * time.Second
	writeTimeout          = 30 * time.Second
	idleTimeout           = 60 * time.Second
	readHeaderTimeout     = 5 * time.Second
	shutdownTimeout       = 30 * time.Second
	systemMetricsInterval = 10 * time.Second
)

func main() {
	// Disable default Go metrics collection; the service exports its own
	// system gauges.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env).
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	mode, err := sequence.ParseMode(cfg.ScoringMode)
	if err != nil {
		log.Warn(ctx, "invalid scoring_mode; falling back to flat", logger.String("scoring_mode", cfg.ScoringMode), logger.Error(err))
		mode = sequence.ModeFlat
	}

	statsClient := nba.NewClient(
		nba.WithBaseURL(cfg.StatsBaseURL),
		nba.WithRequestTimeout(time.Duration(cfg.RequestTimeoutMS)*time.Millisecond),
		nba.WithRateLimit(cfg.RateLimitRPS),
	)

	pbpCache := buildCache(ctx, cfg, log)

	svc := app.New(
		app.WithLogger(log.Named("service")),
		app.WithStatsSource(statsClient),
		app.WithCache(pbpCache),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.JobQueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithSampleSize(cfg.DefaultSampleSize),
		app.WithMaxSampleSize(cfg.MaxSampleSize),
		app.WithScoringMode(mode),
	)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		svc.Stop(stopCtx)
	}()

	go startSystemMetricsUpdater(ctx)

	mux := http.NewServeMux()
	apiServer := api.NewServer(svc, svc, cfg.MaxLeaderboardLimit)
	apiServer.Register(ctx, mux)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

// buildCache selects the play-by-play cache backend. A dead redis endpoint
// degrades to the in-memory cache so the service still comes up.
func buildCache(ctx context.Context, cfg *config.Config, log logger.Logger) cache.Cache {
	ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute

	if cfg.CacheBackend == "redis" {
		rc, err := cache.NewRedisCache(cfg.RedisAddr, ttl)
		if err == nil {
			log.Info(ctx, "using redis play-by-play cache", logger.String("addr", cfg.RedisAddr))
			return rc
		}
		log.Warn(ctx, "redis unavailable, falling back to memory cache",
			logger.String("addr", cfg.RedisAddr),
			logger.Error(err),
		)
	}

	return cache.NewMemoryCache(cache.WithTTL(ttl))
}

// startSystemMetricsUpdater periodically refreshes process-level gauges.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			var m runtime.MemStats
			runtime.ReadMemStats(&m)
			metrics.UpdateSystemMemoryUsage(m.Alloc)
			metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())
		}
	}
}
