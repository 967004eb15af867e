package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/topiclens/topiclens/adapters/metrics"
	"github.com/topiclens/topiclens/ports"
)

// RouterConfig holds the cross-cutting collaborators of the router.
type RouterConfig struct {
	Metrics        *metrics.Collector
	MetricsHandler http.Handler // overrides the default promhttp handler
	Notifier       ports.Notifier
	IDGen          ports.IDGenerator
	Clock          ports.Clock
	RequestTimeout time.Duration
}

// NewRouter assembles the full HTTP surface.
func NewRouter(h *Handler, logger zerolog.Logger, cfg RouterConfig) chi.Router {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 60 * time.Second
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(NewLoggingMiddleware(logger))
	r.Use(NewRecoverer(cfg.Notifier, cfg.IDGen, cfg.Clock, logger))
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	if cfg.Metrics != nil {
		r.Use(NewMetricsMiddleware(cfg.Metrics))
	}
	if cfg.Notifier != nil {
		r.Use(NewNotifyMiddleware(cfg.Notifier, cfg.IDGen, cfg.Clock))
	}

	// Liveness and build info.
	r.Get("/health", Liveness)
	r.Get("/health/live", Liveness)
	r.Get("/version", VersionHandler)

	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	} else if cfg.Metrics != nil {
		r.Handle("/metrics", promhttp.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)
		r.Post("/generate-prompt", h.GeneratePrompt)
		r.Post("/gemini/query", h.GeminiQuery)
		r.Post("/youtube/search", h.YouTubeSearch)
		r.Get("/quotas", h.Quotas)
		// Original path kept for client compatibility.
		r.Get("/quota_status", h.Quotas)
		r.Post("/update-keys", h.UpdateKeys)
		r.Get("/topics/examples", h.ExampleTopics)
	})

	return r
}
