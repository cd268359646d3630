package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/api/router"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/app/bootstrap"
	appconfig "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/config"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/http/handlers"
	httpmiddleware "github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/http/middleware"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/journey"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/review"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/sessions"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/internal/timeline"
	"github.com/ministryofjustice/book-a-prison-visit-staff-ui-sub003/pkg/logging"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.NewWithFormat(cfg.LogLevel, cfg.LogFormat)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger.Info("starting visits staff API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	app, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build application", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}

type app struct {
	Handler http.Handler
	redis   *redis.Client
}

func (a *app) Close() {
	if a.redis != nil {
		_ = a.redis.Close()
	}
}

// newApp wires config into services, handlers and the router. Background
// work such as rate limiter sweeps stops when ctx is cancelled.
func newApp(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*app, error) {
	metricsHandler, upstreamMetrics := bootstrap.BuildMetrics()
	if !cfg.MetricsEnabled {
		metricsHandler = nil
	}

	up := bootstrap.BuildUpstream(ctx, cfg, logger, upstreamMetrics)

	var events sessions.EventsAPI
	if up.Whereabouts != nil {
		events = up.Whereabouts
	}
	sessionsService := sessions.NewService(up.Orchestration, events, logger, upstreamMetrics)

	redisClient := bootstrap.BuildRedisClient(ctx, cfg, logger, true)
	checks := map[string]handlers.HealthCheck{}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	routerCfg := &router.Config{
		Logger:             logger,
		HealthHandler:      handlers.NewHealthHandler(checks),
		SessionsHandler:    handlers.NewSessionsHandler(sessionsService, cfg.MinBookingDays, logger),
		TimelineHandler:    handlers.NewTimelineHandler(timeline.NewService(up.Orchestration, logger), logger),
		ReviewHandler:      handlers.NewReviewHandler(review.NewService(up.Orchestration, logger), logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		UserTokenSecret:    cfg.UserTokenSecret,
		RequiredRole:       httpmiddleware.RoleManagePrisonVisits,
	}

	if store := bootstrap.BuildJourneyStore(redisClient, cfg, logger); store != nil {
		journeyService := journey.NewService(store, up.Orchestration, logger, upstreamMetrics)
		routerCfg.JourneyHandler = handlers.NewJourneyHandler(journeyService, logger)
		if cfg.RateLimitRPS > 0 {
			limiter := httpmiddleware.NewRateLimiter(float64(cfg.RateLimitRPS), cfg.RateLimitBurst)
			go limiter.Run(ctx)
			routerCfg.JourneyRateLimiter = limiter
		}
	} else {
		logger.Warn("booking journeys disabled: no journey store available")
	}

	return &app{Handler: router.New(routerCfg), redis: redisClient}, nil
}
