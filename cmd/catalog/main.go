package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/api/handler"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/dataset"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/ranker"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/internal/recommender"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Content-Analytics-Platform/pkg/middleware"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting catalog service",
		"port", cfg.Server.Port,
		"dataset", cfg.Dataset.Path,
		"sensitivity_threshold", cfg.Ranking.SensitivityThreshold,
	)

	cat, err := dataset.LoadFile(cfg.Dataset.Path)
	if err != nil {
		slog.Error("failed to load dataset", "path", cfg.Dataset.Path, "error", err)
		os.Exit(1)
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	aggregator := analytics.NewAggregator()
	engine := ranker.New(cat, cfg.Ranking.SensitivityThreshold)
	rec := recommender.New(cat, engine, m, aggregator)

	checker := health.NewChecker()
	checker.Register("catalog", func(ctx context.Context) health.ComponentHealth {
		if rec.Len() == 0 {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "catalog is empty"}
		}
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d records", rec.Len())}
	})

	mux := http.NewServeMux()
	handler.New(rec, cfg.Ranking.DefaultLimit, cfg.Ranking.MaxResults).Register(mux)
	mux.HandleFunc("GET /api/v1/analytics", analytics.NewHandler(aggregator).Stats)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if cfg.Gateway.RateLimit > 0 {
		limiter := middleware.NewLimiter(cfg.Gateway.RateLimit, cfg.Gateway.RateLimitWindow)
		go limiter.RunCleanup(ctx, 5*time.Minute)
		chain = middleware.RateLimit(limiter, m)(chain)
	}
	chain = middleware.CORS(middleware.DefaultCORSConfig(cfg.Gateway.AllowOrigins))(chain)
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	servers := []*http.Server{server}
	if cfg.Metrics.Enabled {
		servers = append(servers, metrics.NewServer(cfg.Metrics.Port, prometheus.DefaultGatherer))
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			slog.Info("listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("serving %s: %w", srv.Addr, err)
			}
			return nil
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, fmt.Errorf("shutting down %s: %w", srv.Addr, err))
			}
		}
		return errors.Join(errs...)
	})

	if err := g.Wait(); err != nil {
		slog.Error("catalog service stopped with error", "error", err)
		os.Exit(1)
	}
	slog.Info("catalog service stopped")
}
