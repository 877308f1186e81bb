package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hbond-restraints/internal/interfaces/http/handlers"
	"github.com/turtacn/hbond-restraints/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handler and middleware dependencies of the
// route tree.  Nil members leave their routes or middleware out.
type RouterConfig struct {
	// Handlers
	RestraintHandler *handlers.RestraintHandler
	HealthHandler    *handlers.HealthHandler

	// Middleware
	Logger          logging.Logger
	Metrics         *prometheus.AppMetrics
	RateLimiter     middleware.RateLimiter
	RateLimitConfig middleware.RateLimitConfig
	MaxBodySize     int64
	// CORS, when set, answers preflights and tags responses for browser
	// clients.
	CORS *middleware.CORSConfig

	// Infrastructure
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string
	// Mode is the gin mode: debug, release or test.
	Mode string
}

// NewRouter builds the route tree: health probes and /metrics at the root,
// the restraint API under /api/v1.
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	r := gin.New()

	// --- Global middleware (applied to every request) ---
	r.Use(middleware.Recovery(logger), middleware.RequestID())
	r.Use(middleware.RequestLogging(logger, middleware.DefaultLoggingConfig()))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}
	r.NoRoute(handlers.NotFound)

	// --- Public health endpoints ---
	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}

	// --- Metrics endpoint ---
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsCollector.Handler()))
	}

	// --- API v1 ---
	api := r.Group("/api/v1")
	api.Use(middleware.MaxBodySize(cfg.MaxBodySize))
	if cfg.RateLimiter != nil {
		api.Use(middleware.RateLimit(cfg.RateLimiter, cfg.RateLimitConfig))
	}
	if cfg.RestraintHandler != nil {
		cfg.RestraintHandler.RegisterRoutes(api)
	}

	return r
}
