// Package server hosts the webhook endpoints on a single net/http server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"survey-subaccounts/internal/common/config"
	"survey-subaccounts/internal/common/logger"
)

const defaultShutdownTimeout = 30 * time.Second

// Registrar mounts its routes on a mux.
type Registrar interface {
	Register(mux *http.ServeMux)
}

type Options struct {
	Server  config.ServerConfig
	Metrics config.MetricsConfig
	Logger  logger.Logger
}

type Server struct {
	httpServer      *http.Server
	logger          logger.Logger
	shutdownTimeout time.Duration
}

// NewRouter builds the mux with every registrar plus /metrics, wrapped in
// the request id, access log and recovery middleware.
func NewRouter(log logger.Logger, metricsCfg config.MetricsConfig, registrars ...Registrar) http.Handler {
	mux := http.NewServeMux()
	for _, r := range registrars {
		r.Register(mux)
	}

	if metricsCfg.Enabled {
		path := metricsCfg.Path
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.Handler())
	}

	return Chain(mux,
		RequestID(),
		AccessLog(log),
		Recover(log),
	)
}

func New(opts Options, registrars ...Registrar) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	log = log.Named("http")

	shutdownTimeout := config.GetDuration(opts.Server.ShutdownTimeout)
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              opts.Server.Address(),
			Handler:           NewRouter(log, opts.Metrics, registrars...),
			ReadTimeout:       config.GetDuration(opts.Server.ReadTimeout),
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      config.GetDuration(opts.Server.WriteTimeout),
		},
		logger:          log,
		shutdownTimeout: shutdownTimeout,
	}
}

func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address until ctx is cancelled, then drains
// in-flight requests for up to the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{
			"address": listener.Addr().String(),
		})
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server", map[string]interface{}{
		"timeout": s.shutdownTimeout.String(),
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}

	s.logger.Info("HTTP server stopped gracefully", nil)
	return nil
}
