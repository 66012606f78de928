package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/youmna-rabie/rag-gateway/internal/config"
	"github.com/youmna-rabie/rag-gateway/internal/rag"
)

// Server is the HTTP gateway that receives prompts, forwards them to the RAG
// backend, and exposes health and metrics endpoints.
type Server struct {
	cfg     *config.Config
	rag     rag.Service
	metrics http.Handler
	router  chi.Router
	logger  *slog.Logger
}

// NewServer creates a Server wired with the given dependencies. A nil metrics
// handler disables the metrics endpoint.
func NewServer(
	cfg *config.Config,
	svc rag.Service,
	metrics http.Handler,
	logger *slog.Logger,
) *Server {
	s := &Server{
		cfg:     cfg,
		rag:     svc,
		metrics: metrics,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Logging(logger))
	r.Use(Recovery(logger))

	r.Get("/health", s.handleHealth)
	r.Route("/rag", func(r chi.Router) {
		r.Get("/", s.handleHello)
		r.Post("/query", s.handleQuery)
		r.Post("/add", s.handleAdd)
	})
	if metrics != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, metrics)
	}

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// HTTPServer returns an *http.Server listening on the configured host:port.
func (s *Server) HTTPServer() *http.Server {
	addr := net.JoinHostPort(s.cfg.Server.Host, fmt.Sprintf("%d", s.cfg.Server.Port))
	return &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// handleHealth responds to GET /health with a simple liveness check.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"message": "Application is healthy and running.",
	})
}

// handleHello responds to GET /rag with a fixed sanity message.
func (s *Server) handleHello(w http.ResponseWriter, _ *http.Request) {
	writeText(w, http.StatusOK, "Hello World")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if body != "" {
		_, _ = w.Write([]byte(body))
	}
}
