// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/dkoval/chronos/internal/api/handler/api"
	"github.com/dkoval/chronos/internal/api/middleware"
	"github.com/dkoval/chronos/internal/api/response"
	"github.com/dkoval/chronos/internal/metrics"
)

// Server represents the HTTP server for the backtest API
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host   string
	Port   int
	APIKey string
}

// Deps holds the handlers and registries the server routes to
type Deps struct {
	Backtests  *apihandler.BacktestHandler
	Sweeps     *apihandler.SweepHandler
	Strategies []string
	Metrics    *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Deps, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
	}
	s.setupRoutes(cfg, deps)

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config, deps Deps) {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if deps.Metrics != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(deps.Metrics, promhttp.HandlerOpts{}))
	}

	auth := middleware.APIKeyAuth(cfg.APIKey)

	if deps.Backtests != nil {
		s.mux.Handle("POST /api/backtests", auth(http.HandlerFunc(deps.Backtests.Create)))
		s.mux.Handle("GET /api/backtests", auth(http.HandlerFunc(deps.Backtests.List)))
		s.mux.Handle("GET /api/backtests/{id}", auth(http.HandlerFunc(deps.Backtests.GetStatus)))
	}
	if deps.Sweeps != nil {
		s.mux.Handle("POST /api/sweeps", auth(http.HandlerFunc(deps.Sweeps.Create)))
		s.mux.Handle("GET /api/sweeps/{id}", auth(http.HandlerFunc(deps.Sweeps.GetStatus)))
	}

	strategies := deps.Strategies
	s.mux.Handle("GET /api/strategies", auth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, http.StatusOK, map[string]any{"strategies": strategies})
	})))
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Handler exposes the root handler for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
