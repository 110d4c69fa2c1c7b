// Package http provides the HTTP API for lifedash.
package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/lifedash/internal/ingest"
	"github.com/fyrsmithlabs/lifedash/internal/snapshot"
	"github.com/fyrsmithlabs/lifedash/internal/store"
)

// Server provides the two dashboard endpoints plus health.
type Server struct {
	echo    *echo.Echo
	store   *store.Store
	builder *snapshot.Builder
	ingest  *ingest.Service
	logger  *zap.Logger
	config  *Config
}

// Config holds HTTP server configuration.
type Config struct {
	Host            string
	Port            int
	ShutdownTimeout time.Duration
}

// NewServer creates the HTTP server.
func NewServer(st *store.Store, builder *snapshot.Builder, ing *ingest.Service, logger *zap.Logger, cfg *Config) (*Server, error) {
	if st == nil {
		return nil, fmt.Errorf("store cannot be nil")
	}
	if builder == nil {
		return nil, fmt.Errorf("snapshot builder cannot be nil")
	}
	if ing == nil {
		return nil, fmt.Errorf("ingest service cannot be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required for request tracking and debugging")
	}
	if cfg == nil {
		cfg = &Config{
			Host:            "",
			Port:            8080,
			ShutdownTimeout: 10 * time.Second,
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(NewHTTPMetrics(logger).MetricsMiddleware())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:    e,
		store:   st,
		builder: builder,
		ingest:  ing,
		logger:  logger,
		config:  cfg,
	}

	s.registerRoutes()

	return s, nil
}

// registerRoutes sets up the HTTP endpoints.
func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/api.json", s.handleSnapshot)
	s.echo.POST("/activity", s.handleActivity)
}

// Echo exposes the router so callers can attach extra handlers (metrics).
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// LoadingResponse is served until the readiness gate opens.
type LoadingResponse struct {
	Loading bool `json:"loading"`
}

// handleHealth returns a simple health check response.
func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// handleSnapshot serves the merged snapshot, or the loading marker while the
// required sources have not all produced a result yet. Always 200.
func (s *Server) handleSnapshot(c echo.Context) error {
	if !s.store.Ready() {
		return c.JSON(http.StatusOK, LoadingResponse{Loading: true})
	}
	return c.JSON(http.StatusOK, s.builder.Build())
}

// handleActivity ingests a pushed health-metrics export.
func (s *Server) handleActivity(c echo.Context) error {
	var export ingest.Export
	if err := c.Bind(&export); err != nil {
		s.logger.Warn("invalid activity payload", zap.Error(err))
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := s.ingest.Ingest(export); err != nil {
		var verr *ingest.ValidationError
		if errors.As(err, &verr) {
			s.logger.Warn("activity export rejected", zap.Error(verr))
			return echo.NewHTTPError(http.StatusBadRequest, verr.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "ingest failed")
	}

	return c.NoContent(http.StatusOK)
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully within the configured timeout.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("server start: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
