package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"perimeleon/pmexport/pkg/telemetry/health"
	"perimeleon/pmexport/pkg/telemetry/metrics"
)

// ShutdownTimeout bounds the graceful shutdown of the server.
const ShutdownTimeout = 5 * time.Second

// BuildInfo is reported on /version.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Server serves metrics and health probes while the scheduler runs.
type Server struct {
	addr        string
	metricsPath string
	collector   *metrics.Collector
	checker     *health.Checker
	build       BuildInfo
	logger      *slog.Logger

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
	isRunning  bool
}

// NewServer creates a server listening on addr. A nil collector leaves the
// metrics path unmounted; a nil checker leaves the probes unmounted.
func NewServer(addr, metricsPath string, collector *metrics.Collector, checker *health.Checker, build BuildInfo) *Server {
	return &Server{
		addr:        addr,
		metricsPath: metricsPath,
		collector:   collector,
		checker:     checker,
		build:       build,
		logger:      slog.Default().With("component", "server"),
	}
}

// Handler returns the routes of the server.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.collector != nil && s.metricsPath != "" {
		mux.Handle(s.metricsPath, s.collector.Handler())
	}
	if s.checker != nil {
		health.Register(mux, s.checker, s.build.Version, s.build.Commit, s.build.BuildTime)
	}
	return mux
}

// Start begins serving and returns once the listener is bound. The server
// shuts down when ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	s.isRunning = true

	srv := s.httpServer
	go func() {
		s.logger.Info("serving metrics and health", "address", ln.Addr().String(), "metrics_path", s.metricsPath)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()
	go func() {
		<-ctx.Done()
		if err := s.Shutdown(context.Background()); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}
	s.isRunning = false

	shutdownCtx, cancel := context.WithTimeout(ctx, ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}
