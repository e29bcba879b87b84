// Package httpapi exposes the assistant over HTTP: thread CRUD, state and
// history reads, and a streaming run endpoint speaking server-sent events.
package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	assistant "github.com/sunbun/assistant"
	"github.com/sunbun/assistant/internal/logging"
	"github.com/sunbun/assistant/internal/observability"
	"github.com/sunbun/assistant/pkg/graph"
	"github.com/sunbun/assistant/pkg/runner"
)

// Server holds the transport dependencies.
type Server struct {
	runner  *runner.Runner
	engine  *graph.Engine
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics wires a Prometheus registry into GET /metrics.
func WithMetrics(m *observability.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer builds the transport over a runner and its engine.
func NewServer(r *runner.Runner, engine *graph.Engine, opts ...Option) *Server {
	s := &Server{
		runner: r,
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler assembles the chi router. Every route is mounted at the root and
// again under /v1 so clients can pin the versioned prefix.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestLogger)

	s.routes(r)
	r.Route("/v1", s.routes)

	return enableCORS(r)
}

func (s *Server) routes(r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/info", s.handleInfo)
	r.Get("/health", s.handleHealth)
	r.Get("/openapi.yaml", s.handleOpenAPI)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(
			s.metrics.Registry(), promhttp.HandlerOpts{},
		))
	}

	r.Post("/threads", s.handleCreateThread)
	r.Get("/threads", s.handleListThreads)
	r.Post("/threads/search", s.handleSearchThreads)
	r.Get("/threads/{threadID}", s.handleGetThread)
	r.Get("/threads/{threadID}/state", s.handleGetState)
	r.Get("/threads/{threadID}/history", s.handleGetHistory)
	r.Post("/threads/{threadID}/runs/stream", s.handleStreamRun)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		s.logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"remote", r.RemoteAddr,
		)
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":     "sunbun-assistant",
		"version": assistant.Version,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	g := s.engine.Graph()
	nodes := make([]string, 0)
	for _, id := range g.Nodes() {
		nodes = append(nodes, string(id))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"entry": string(g.Entry()),
		"nodes": nodes,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Error("Response encode failed", "err", err)
	}
}
