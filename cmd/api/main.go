// Command api serves the item collection over HTTP.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ghuser/itemstore/pkg/app"
	"github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/config"
	"github.com/ghuser/itemstore/pkg/events"
	"github.com/ghuser/itemstore/pkg/httpx"
	"github.com/ghuser/itemstore/pkg/logger"
	"github.com/ghuser/itemstore/pkg/telemetry"
	itemApi "github.com/ghuser/itemstore/services/item/application/api"
	itemSvcs "github.com/ghuser/itemstore/services/item/application/services"
	itemSubscribers "github.com/ghuser/itemstore/services/item/application/subscribers"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("invalid production config", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err = run(ctx, cfg, log)
	stop()
	if err != nil {
		log.Error("api exited", "error", err)
		os.Exit(1)
	}
}

// run wires the application and serves until ctx is canceled.
func run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	otelShutdown, metricsHandler, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		return fmt.Errorf("setup otel: %w", err)
	}
	defer func() {
		if err := otelShutdown(context.WithoutCancel(ctx)); err != nil {
			log.Warn("otel shutdown", "error", err)
		}
	}()

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("sentry disabled", "error", err)
	}
	defer telemetry.SentryFlush()

	eventBus := events.NewEventBus(log)
	defer eventBus.Close() //nolint:errcheck

	a := &app.Application{
		Config:     cfg,
		Logger:     log,
		EventBus:   eventBus,
		StatsCache: cache.NewMemoryStatsCache(cfg.StatsCacheTTL),
	}
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedisClient(ctx, cfg)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer rc.Close() //nolint:errcheck
		a.Redis = rc
		a.StatsCache = cache.NewRedisStatsCache(rc, cfg.StatsCacheTTL)
	}
	log.Info("stats cache ready", "backend", statsBackend(a))

	items := itemSvcs.New(a)
	loaded, err := items.Store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", items.Store.Path(), err)
	}
	log.Info("item store ready", "path", items.Store.Path(), "items", len(loaded))

	if err := itemSubscribers.Register(ctx, a); err != nil {
		return fmt.Errorf("register subscribers: %w", err)
	}

	srv := httpx.NewServer(cfg.HTTPAddr, newRouter(a, items, metricsHandler))
	serveErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}

func newRouter(a *app.Application, items *itemSvcs.Services, metrics http.Handler) http.Handler {
	cfg := a.Config
	r := httpx.NewRouter(
		httpx.ServerConfig{
			ServiceName:        cfg.ServiceName,
			IsDevelopment:      cfg.Environment == config.EnvDevelopment,
			CORSAllowedOrigins: cfg.CORSAllowedOrigins,
			RateLimitPerMinute: cfg.RateLimitPerMinute,
		},
		logger.Middleware(a.Logger),
		logger.Recovery(a.Logger),
		telemetry.SentryMiddleware(),
		otelhttp.NewMiddleware(cfg.ServiceName),
	)

	checks := httpx.HealthChecks{Store: items.Store, EventBus: a.EventBus}
	if a.Redis != nil {
		checks.Redis = a.Redis
	}
	r.Get("/health", httpx.HealthHandler(checks))
	r.Method(http.MethodGet, "/metrics", metrics)
	r.Route("/api", func(r chi.Router) {
		itemApi.ItemRoutes(r, a, items)
	})
	return r
}

func statsBackend(a *app.Application) string {
	if a.Redis != nil {
		return "redis"
	}
	return "memory"
}
