package main

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/shopapi/shopapi/internal/config"
	"github.com/shopapi/shopapi/internal/handler"
	"github.com/shopapi/shopapi/internal/metrics"
	"github.com/shopapi/shopapi/internal/middleware"
	"github.com/shopapi/shopapi/internal/repository"
	"github.com/shopapi/shopapi/internal/service"
)

// routerDeps carries everything newRouter wires together.
// cache and limiter may be nil.
type routerDeps struct {
	store    repository.Store
	db       handler.HealthChecker
	cache    handler.HealthChecker
	recorder metrics.Recorder
	gatherer prometheus.Gatherer
	limiter  middleware.IPRateLimiter
	cfg      *config.Config
	logger   *slog.Logger
}

// newRouter configures the chi router with all routes and middleware.
func newRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Metrics(d.recorder))
	r.Use(middleware.SecurityHeaders(d.cfg.IsDevelopment()))
	if len(d.cfg.CORSAllowedOrigins) > 0 {
		r.Use(middleware.CORS(middleware.DefaultCORSConfig(d.cfg.CORSAllowedOrigins)))
	}

	h := handler.New(d.logger)
	health := handler.NewHealthHandler(d.db, d.cache)

	// Probes and scraping stay outside the rate limit.
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if d.gatherer != nil {
		r.Method("GET", "/metrics", handler.NewMetricsHandler(d.gatherer))
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))
		if d.limiter != nil {
			r.Use(middleware.RateLimitIP(d.limiter, d.logger))
		}

		r.Get("/", h.Hello)

		handler.Routes{
			Users:    handler.NewUserHandler(service.NewUserService(d.store, d.recorder), d.logger),
			Products: handler.NewProductHandler(service.NewProductService(d.store, d.recorder), d.logger),
			Orders:   handler.NewOrderHandler(service.NewOrderService(d.store, d.recorder), d.logger),
		}.Register(r)
	})

	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}
