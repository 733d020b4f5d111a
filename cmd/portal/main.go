package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/V4T54L/venue-portal/internal/adapter/api"
	"github.com/V4T54L/venue-portal/internal/adapter/api/handler"
	"github.com/V4T54L/venue-portal/internal/adapter/api/middleware"
	"github.com/V4T54L/venue-portal/internal/adapter/catalog"
	"github.com/V4T54L/venue-portal/internal/adapter/metrics"
	"github.com/V4T54L/venue-portal/internal/adapter/notifier"
	"github.com/V4T54L/venue-portal/internal/adapter/sink"
	"github.com/V4T54L/venue-portal/internal/adapter/validation"
	"github.com/V4T54L/venue-portal/internal/domain"
	"github.com/V4T54L/venue-portal/internal/pkg/config"
	"github.com/V4T54L/venue-portal/internal/pkg/logger"
	"github.com/V4T54L/venue-portal/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := logger.New(cfg.LogLevel)
	slog.SetDefault(logger)

	m := metrics.NewPortalMetrics(prometheus.DefaultRegisterer)

	// --- Start Metrics Server ---
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	metricsServer := &http.Server{
		Addr:    cfg.MetricsAddr,
		Handler: metricsMux,
	}

	go func() {
		logger.Info("starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server failed", "error", err)
		}
	}()

	// --- Graceful Shutdown Context ---
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Notification Fan-out ---
	var publisher domain.NotificationPublisher
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("failed to parse redis url", "error", err)
			os.Exit(1)
		}
		redisClient := redis.NewClient(redisOpts)
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("could not connect to redis, retrying the notification subscription until it recovers", "error", err)
		}
		publisher = notifier.NewRedisPublisher(redisClient, cfg.NotificationChannel, logger)
	} else {
		logger.Info("REDIS_URL not set, keeping notifications in process")
		publisher = notifier.NewMemoryPublisher()
	}

	// --- Initialize Use Cases and Services ---
	validator, err := validation.New()
	if err != nil {
		logger.Error("failed to build validator", "error", err)
		os.Exit(1)
	}
	venues := catalog.NewStatic(cfg.Venues)

	notifications := usecase.NewNotificationCenter(publisher, seedNotifications(time.Now().UTC()), m, logger)
	userSink := sink.NewLoggingUserSink(logger, notifications)
	dialogs := usecase.NewUserDialogService(venues, validator, userSink, m, logger, cfg.DialogTTL)

	login := usecase.NewLoginUseCase(validator, usecase.NewSimulatedCall("login", cfg.SimulatedDelay, m), logger)
	profile := usecase.NewProfileUseCase(
		domain.Profile{FirstName: "Admin", LastName: "User", Email: "admin@venueportal.example"},
		validator,
		usecase.NewSimulatedCall("profile_save", cfg.SimulatedDelay, m),
		logger,
	)

	// --- Initialize SSE Broker ---
	sseBroker := handler.NewSSEBroker(ctx, logger, 15*time.Second)
	notifications.OnNotification(sseBroker.Notify)

	go func() {
		if err := notifications.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("notification subscription stopped", "error", err)
		}
	}()

	// --- Background Sweepers ---
	go dialogs.RunJanitor(ctx, cfg.DialogSweepInterval)

	limiter := middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst, logger)
	go limiter.RunPruner(ctx, time.Minute, 10*time.Minute)

	// --- Initialize Portal Server ---
	router := api.NewRouter(cfg, logger, venues, dialogs, login, profile, notifications, sseBroker, limiter)
	portalServer := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No WriteTimeout: the notification stream stays open.
		// Request contexts end on shutdown so open streams return.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		logger.Info("starting portal server", "addr", portalServer.Addr)
		if err := portalServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("portal server failed", "error", err)
			stop() // Trigger shutdown on server error
		}
	}()

	// --- Wait for shutdown signal ---
	<-ctx.Done()
	logger.Info("shutting down servers...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()

	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics server shutdown failed", "error", err)
	}
	if err := portalServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("portal server shutdown failed", "error", err)
	}

	logger.Info("servers shut down gracefully")
}

// seedNotifications is what the header bell shows on a fresh start, newest first.
func seedNotifications(now time.Time) []domain.Notification {
	return []domain.Notification{
		{
			ID:        "seed-booking",
			Kind:      domain.NotificationBooking,
			Title:     "New booking request",
			Message:   "Grand Ballroom requested for Saturday evening",
			CreatedAt: now.Add(-5 * time.Minute),
		},
		{
			ID:        "seed-system",
			Kind:      domain.NotificationSystem,
			Title:     "Scheduled maintenance",
			Message:   "The portal will be briefly unavailable tonight at 02:00",
			CreatedAt: now.Add(-2 * time.Hour),
			Read:      true,
		},
	}
}
