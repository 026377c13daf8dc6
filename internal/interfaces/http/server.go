// internal/interfaces/http/server.go
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/interfaces/http/middleware"
	"github.com/your-org/storefront-backend/internal/interfaces/http/routes"
	"github.com/your-org/storefront-backend/internal/pkg/auth"
	"github.com/your-org/storefront-backend/internal/pkg/metrics"
)

// HealthChecker is a dependency probed by /health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthCheckFunc adapts a function to HealthChecker
type HealthCheckFunc func(ctx context.Context) error

func (f HealthCheckFunc) Health(ctx context.Context) error { return f(ctx) }

// ServerDeps carries everything the HTTP server wires together
type ServerDeps struct {
	Handlers       routes.Handlers
	Tokens         *auth.JWTManager
	RateLimitStore middleware.RateLimitStore
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
	Checks         map[string]HealthChecker
}

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	logger     logrus.FieldLogger
	gin        *gin.Engine
	httpServer *http.Server
	checks     map[string]HealthChecker
	startedAt  time.Time
}

// NewServer builds the router with all middleware and routes mounted
func NewServer(cfg *config.Config, logger logrus.FieldLogger, deps ServerDeps) *Server {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		config:    cfg,
		logger:    logger,
		gin:       gin.New(),
		checks:    deps.Checks,
		startedAt: time.Now(),
	}
	s.setupMiddleware(deps)
	s.setupRoutes(deps)

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      s.gin,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
	return s
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.gin
}

// Start serves until Stop is called
func (s *Server) Start() error {
	s.logger.WithField("port", s.config.Server.Port).Info("HTTP server starting")

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}
	s.logger.Info("HTTP server stopped gracefully")
	return nil
}

func (s *Server) setupMiddleware(deps ServerDeps) {
	s.gin.Use(gin.Recovery())
	s.gin.Use(middleware.RequestID())
	s.gin.Use(middleware.Logger(s.logger))
	s.gin.Use(middleware.Metrics(deps.Metrics))
	s.gin.Use(middleware.CORS(s.config.Security))
	s.gin.Use(middleware.SecurityHeaders(s.config.IsProduction()))
	s.gin.Use(middleware.RequestSizeLimit(1 << 20))
	s.gin.Use(middleware.Timeout(s.config.Server.RequestTimeout))
}

func (s *Server) setupRoutes(deps ServerDeps) {
	s.gin.GET("/health", s.healthCheck)
	s.gin.GET("/ready", s.readinessCheck)
	if deps.Gatherer != nil {
		s.gin.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	apiV1 := s.gin.Group("/api/v1")
	var authLimit gin.HandlerFunc
	if deps.RateLimitStore != nil {
		apiV1.Use(middleware.RateLimit(deps.RateLimitStore, middleware.RateLimitRule{
			Scope:    "api",
			Requests: s.config.Security.RateLimitPerMinute,
			Window:   time.Minute,
		}, s.logger))
		authLimit = middleware.RateLimit(deps.RateLimitStore, middleware.RateLimitRule{
			Scope:    "auth",
			Requests: s.config.Security.AuthRateLimit,
			Window:   time.Minute,
		}, s.logger)
	}

	routes.SetupRoutes(apiV1, deps.Handlers, routes.Deps{
		Tokens:        deps.Tokens,
		AuthRateLimit: authLimit,
	})
}

// healthCheck probes every dependency
func (s *Server) healthCheck(c *gin.Context) {
	status := http.StatusOK
	results := gin.H{}
	for name, check := range s.checks {
		if err := check.Health(c.Request.Context()); err != nil {
			s.logger.WithError(err).WithField("dependency", name).Warn("health check failed")
			results[name] = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "healthy"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": results,
		"timestamp":    time.Now().UTC(),
		"version":      s.config.App.Version,
		"environment":  s.config.App.Environment,
	})
}

// readinessCheck reports that the process is serving
func (s *Server) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(s.startedAt).Round(time.Second).String(),
	})
}
