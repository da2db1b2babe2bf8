// Package server is the HTTP surface. It holds no business logic: handlers
// validate transport-level inputs and delegate to the core operations.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Server struct {
	Router *chi.Mux
	Port   int
	logger *slog.Logger
	http   *http.Server
}

// New builds the router with the standard middleware chain.
func New(port int, requestTimeout time.Duration, logger *slog.Logger) *Server {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(logger))
	r.Use(TimeoutMiddleware(requestTimeout))
	r.Use(middleware.Recoverer)

	r.Use(func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, "promogen")
	})

	return &Server{
		Router: r,
		Port:   port,
		logger: logger,
	}
}

// Start blocks serving HTTP until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.Port),
		Handler: s.Router,
	}
	s.logger.Info("starting server", slog.Int("port", s.Port))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
