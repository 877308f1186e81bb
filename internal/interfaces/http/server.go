// Package http serves the restraint API over gin.
package http

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/turtacn/hbond-restraints/internal/application/restraints"
	"github.com/turtacn/hbond-restraints/internal/config"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/hbond-restraints/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/hbond-restraints/internal/interfaces/http/handlers"
	"github.com/turtacn/hbond-restraints/internal/interfaces/http/middleware"
)

// limiterCleanup is how often idle rate-limit buckets are swept.
const limiterCleanup = 5 * time.Minute

// Deps are the collaborators of the API server.
type Deps struct {
	Service restraints.Service
	// Collector serves /metrics.  Nil, or metrics disabled in the config,
	// leaves the endpoint out.
	Collector prometheus.MetricsCollector
	Metrics   *prometheus.AppMetrics
	Logger    logging.Logger
	Version   string
}

// Server is the restraint API server.
type Server struct {
	srv             *http.Server
	router          http.Handler
	limiter         *middleware.TokenBucketLimiter
	logger          logging.Logger
	shutdownTimeout time.Duration

	mu   sync.Mutex
	addr net.Addr
}

// NewServer wires the handlers and middleware selected by cfg.
func NewServer(cfg *config.Config, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	logger = logger.Named("http")

	svc := deps.Service
	rc := RouterConfig{
		RestraintHandler: handlers.NewRestraintHandler(svc, logger),
		HealthHandler: handlers.NewHealthHandler(deps.Version,
			handlers.CheckFunc("restraints", func(context.Context) error { return svc.Params().Validate() })),
		Logger:      logger,
		Metrics:     deps.Metrics,
		MaxBodySize: cfg.Server.MaxBodySize,
		MetricsPath: cfg.Metrics.Path,
		Mode:        cfg.Server.Mode,
	}
	if cfg.Metrics.Enabled {
		rc.MetricsCollector = deps.Collector
	}
	if len(cfg.Server.CORSOrigins) > 0 {
		cors := middleware.DefaultCORSConfig(cfg.Server.CORSOrigins...)
		rc.CORS = &cors
	}

	s := &Server{logger: logger, shutdownTimeout: cfg.Server.ShutdownTimeout}
	if cfg.Server.RateLimit > 0 {
		s.limiter = middleware.NewTokenBucketLimiter(cfg.Server.RateLimit, cfg.Server.RateBurst, limiterCleanup)
		rc.RateLimiter = s.limiter
	}

	s.router = NewRouter(rc)
	s.srv = &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Start listens on the configured address and serves until Stop.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Stop.  A clean shutdown returns nil.
func (s *Server) Serve(ln net.Listener) error {
	s.mu.Lock()
	s.addr = ln.Addr()
	s.mu.Unlock()

	s.logger.Info("HTTP server listening", logging.String("addr", ln.Addr().String()))
	if err := s.srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound address once serving, else nil.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Stop drains in-flight requests, waiting at most the configured shutdown
// timeout.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	if s.limiter != nil {
		s.limiter.Stop()
	}
	if s.shutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.shutdownTimeout)
		defer cancel()
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}

// Handler returns the route tree.
func (s *Server) Handler() http.Handler {
	return s.router
}
