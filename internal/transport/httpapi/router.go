package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kislikjeka/txfeed/internal/infra/metrics"
	"github.com/kislikjeka/txfeed/internal/transport/httpapi/handler"
	"github.com/kislikjeka/txfeed/internal/transport/httpapi/middleware"
	"github.com/kislikjeka/txfeed/pkg/logger"
)

// Config holds router configuration
type Config struct {
	Logger            *logger.Logger
	AllowedOrigins    []string
	FeedHandler       *handler.FeedHandler
	PreferenceHandler *handler.PreferenceHandler
	HealthHandler     *handler.HealthHandler
	JWTMiddleware     func(http.Handler) http.Handler
	RateLimiter       *middleware.RateLimiter
	Metrics           *metrics.Metrics
	// MetricsHandler serves /metrics when set
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router
func NewRouter(cfg Config) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogger(cfg.Logger, "/health", "/health/live", "/health/ready", "/metrics"))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(metrics.HTTPMiddleware(cfg.Metrics))
	}
	r.Use(chimiddleware.Compress(5))
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Middleware)
	}

	// Health check endpoints (no authentication required)
	r.Get("/health", handler.GetHealth)
	r.Get("/health/live", handler.GetLiveness)
	if cfg.HealthHandler != nil {
		r.Get("/health/ready", cfg.HealthHandler.GetReadiness)
		r.Get("/health/detailed", cfg.HealthHandler.GetHealthDetailed)
	}
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// Protected routes (require JWT authentication)
	if cfg.JWTMiddleware != nil {
		r.Route("/api/v1", func(r chi.Router) {
			r.Use(cfg.JWTMiddleware)

			if cfg.FeedHandler != nil {
				r.Route("/feed", func(r chi.Router) {
					r.Put("/items", cfg.FeedHandler.SetItems)
					r.Get("/count", cfg.FeedHandler.GetCount)
					r.Get("/rows", cfg.FeedHandler.GetRows)
					r.Get("/rows/{position}", cfg.FeedHandler.GetRow)
					r.Post("/rows/{position}/click", cfg.FeedHandler.Click)
				})
			}

			if cfg.PreferenceHandler != nil {
				r.Get("/preferences", cfg.PreferenceHandler.GetPreferences)
				r.Put("/preferences", cfg.PreferenceHandler.UpdatePreferences)
			}
		})
	}

	return r
}
