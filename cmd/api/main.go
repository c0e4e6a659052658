package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"golang.org/x/text/language"
	"golang.org/x/time/rate"

	"github.com/kislikjeka/txfeed/internal/infra/metrics"
	infraNats "github.com/kislikjeka/txfeed/internal/infra/nats"
	"github.com/kislikjeka/txfeed/internal/infra/postgres"
	infraRedis "github.com/kislikjeka/txfeed/internal/infra/redis"
	"github.com/kislikjeka/txfeed/internal/module/txlist"
	"github.com/kislikjeka/txfeed/internal/platform/address"
	"github.com/kislikjeka/txfeed/internal/platform/currency"
	"github.com/kislikjeka/txfeed/internal/platform/i18n"
	"github.com/kislikjeka/txfeed/internal/platform/preference"
	"github.com/kislikjeka/txfeed/internal/platform/txrow"
	"github.com/kislikjeka/txfeed/internal/transport/httpapi"
	"github.com/kislikjeka/txfeed/internal/transport/httpapi/handler"
	"github.com/kislikjeka/txfeed/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/txfeed/pkg/config"
	"github.com/kislikjeka/txfeed/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Options{
		Env:     cfg.Env,
		Format:  cfg.LogFormat,
		Level:   cfg.LogLevel,
		Service: "txfeed-api",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	log.Info("Starting txfeed API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(registry)

	checks := map[string]handler.HealthChecker{}

	// Preference storage: Postgres when configured, memory otherwise
	var prefRepo preference.Repository = preference.NewMemoryRepository()
	if cfg.DatabaseURL != "" {
		db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
		if err != nil {
			log.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		prefRepo = postgres.NewPreferenceRepository(db.Pool)
		checks["postgres"] = db
		log.Info("Database connection established")
	} else {
		log.Warn("DATABASE_URL not configured, preferences are kept in memory")
	}

	if cfg.RedisURL != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisURL,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		cache := infraRedis.NewPreferenceCache(prefRepo, redisClient, cfg.PreferenceCacheTTL, log)
		prefRepo = cache
		checks["redis"] = cache
		log.Info("Redis connection established", "ttl", cfg.PreferenceCacheTTL)
	}

	prefSvc := preference.NewService(prefRepo, cfg.DefaultFiatCode)

	// Row presentation
	tag := i18n.Match(language.Make(cfg.DefaultLocale))
	presenter := txrow.NewPresenter(txrow.Deps{
		Currency:  currency.NewFormatter(tag),
		Addresses: address.NewDecorator(),
		Dates:     i18n.NewDateFormatter(tag, cfg.Location(), nil),
		Templates: i18n.NewCatalog(tag),
	})
	log.Info("Row presenter initialized", "locale", tag.String(), "time_zone", cfg.TimeZone)

	// Click events: NATS when configured, in-process otherwise
	var sink txlist.EventSink
	if cfg.NATSURL != "" {
		publisher, err := infraNats.Connect(cfg.NATSURL, m, log)
		if err != nil {
			log.Error("Failed to connect to NATS", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		sink = publisher
	} else {
		local := txlist.NewChannelSink(256)
		defer local.Close()
		go drainClicks(local, log)
		sink = local
		log.Warn("NATS_URL not configured, click events are dispatched in-process")
	}

	adapters := txlist.NewRegistry(func(userID uuid.UUID) *txlist.Adapter {
		return txlist.NewAdapter(txlist.Config{
			UserID:          userID,
			Presenter:       presenter,
			Preferences:     prefSvc.Reader(userID),
			DefaultFiatCode: cfg.DefaultFiatCode,
			Sink:            sink,
			Recorder:        m,
			Logger:          log,
		})
	})

	go adapters.Run(time.Minute, ctx.Done())

	// Rate limiting
	limiter := middleware.NewRateLimiter(rate.Limit(20), 40)
	go limiter.Run(ctx.Done())

	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:            log,
		AllowedOrigins:    cfg.AllowedOrigins,
		FeedHandler:       handler.NewFeedHandler(adapters, log),
		PreferenceHandler: handler.NewPreferenceHandler(prefSvc, log),
		HealthHandler:     handler.NewHealthHandler(checks),
		JWTMiddleware:     middleware.JWTMiddleware(jwtSvc),
		RateLimiter:       limiter,
		Metrics:           m,
		MetricsHandler:    promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}

// drainClicks logs in-process click events until the sink is closed
func drainClicks(sink *txlist.ChannelSink, log *logger.Logger) {
	for event := range sink.Events() {
		log.Info("row clicked",
			"event_id", event.ID,
			"user_id", event.UserID,
			"position", event.Position,
			"hash", event.Transaction.Hash,
		)
	}
}
