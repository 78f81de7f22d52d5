// Package api serves the read path over the assembled graph: event
// neighborhoods, free-text search, graph stats, health, and metrics.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/recallgraph/recallgraph/internal/graphstore"
	"github.com/recallgraph/recallgraph/internal/logging"
	"github.com/recallgraph/recallgraph/internal/search"
)

// GraphReader is the slice of the graph store the read path needs.
type GraphReader interface {
	Ping(ctx context.Context) error
	Neighbors(ctx context.Context, eventID string) ([]graphstore.Neighbor, error)
	Stats(ctx context.Context) (*graphstore.Stats, error)
}

// Searcher is the slice of the search index the read path needs.
type Searcher interface {
	Search(ctx context.Context, query string, size int) ([]search.Hit, error)
	Healthy(ctx context.Context) bool
}

// Server handles HTTP API requests.
type Server struct {
	port     int
	server   *http.Server
	router   *http.ServeMux
	logger   *logging.Logger
	graph    GraphReader
	searcher Searcher
	registry *prometheus.Registry
	tracer   trace.Tracer
}

// New creates an API server. The searcher, registry, and tracer may be
// nil; a nil tracer falls back to the global provider (a no-op unless
// tracing was initialized).
func New(port int, graph GraphReader, searcher Searcher, registry *prometheus.Registry, tracer trace.Tracer) *Server {
	if tracer == nil {
		tracer = otel.GetTracerProvider().Tracer("recallgraph.api")
	}

	s := &Server{
		port:     port,
		router:   http.NewServeMux(),
		logger:   logging.GetLogger("api"),
		graph:    graph,
		searcher: searcher,
		registry: registry,
		tracer:   tracer,
	}

	s.registerHandlers()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      s.corsMiddleware(s.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// registerHandlers registers all HTTP handlers.
func (s *Server) registerHandlers() {
	s.router.HandleFunc("/api/v1/events/", s.withMethod(http.MethodGet, s.handleEventSubresource))
	s.router.HandleFunc("/api/v1/search", s.withMethod(http.MethodGet, s.handleSearch))
	s.router.HandleFunc("/api/v1/stats", s.withMethod(http.MethodGet, s.handleStats))
	s.router.HandleFunc("/healthz", s.handleHealth)

	if s.registry != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	} else {
		s.router.Handle("/metrics", promhttp.Handler())
	}
}

// Start implements the lifecycle.Component interface. It begins listening
// in a background goroutine and returns immediately.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting API server on port %d", s.port)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error: %v", err)
		}
	}()

	return nil
}

// Stop implements the lifecycle.Component interface and gracefully shuts
// the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping API server")

	done := make(chan error, 1)
	go func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		done <- s.server.Shutdown(shutdownCtx)
	}()

	select {
	case err := <-done:
		if err != nil {
			s.logger.Error("HTTP server shutdown error: %v", err)
			return err
		}
		s.logger.Info("API server stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("API server shutdown timeout")
		return ctx.Err()
	}
}

// Name implements the lifecycle.Component interface.
func (s *Server) Name() string {
	return "API Server"
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.router)
}

// corsMiddleware adds permissive CORS headers for browser access.
func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withMethod wraps a handler to enforce the HTTP method.
func (s *Server) withMethod(method string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
				fmt.Sprintf("Method %s not allowed for %s", r.Method, r.URL.Path))
			return
		}
		handler(w, r)
	}
}

// handleHealth reports liveness plus the state of the backing services.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	graphOK := false
	if s.graph != nil {
		graphOK = s.graph.Ping(r.Context()) == nil
	}

	searchOK := false
	if s.searcher != nil {
		searchOK = s.searcher.Healthy(r.Context())
	}

	_ = WriteSuccess(w, map[string]interface{}{
		"status": "healthy",
		"graph":  graphOK,
		"search": searchOK,
	})
}
