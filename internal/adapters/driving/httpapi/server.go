// Package httpapi exposes the RAG pipeline over HTTP.
//
// Endpoints:
//
//	GET  /health  →  liveness probe (Qdrant + guardrails reachability)
//	GET  /stats   →  collection statistics and configuration echo
//	POST /ingest  →  chunk, embed and store text
//	POST /search  →  semantic search without generation
//	POST /query   →  full guarded RAG query
//	POST /clear   →  delete and recreate the collection
//
// File structure:
//   - server.go: HTTP server setup and lifecycle
//   - middleware.go: HTTP middleware (logging, recovery)
//   - handlers.go: RAG endpoints
//   - health.go: health and stats endpoints
//   - response.go: JSON response helpers
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
)

const (
	// DefaultAddr is the default address for the HTTP server.
	DefaultAddr = ":8080"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	// Generation on local models can take minutes.
	WriteTimeout = 320 * time.Second

	// IdleTimeout is the maximum time to wait for the next request on
	// keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// GuardProbe reports guardrail availability for health and stats.
type GuardProbe interface {
	Enabled() bool
	Healthy(ctx context.Context) bool
}

// ConfigInfo is the configuration echo included in /stats.
type ConfigInfo struct {
	Collection     string `json:"collection"`
	EmbeddingModel string `json:"embedding_model"`
	LLMModel       string `json:"llm_model"`
}

// Server is the HTTP server for the RAG API.
type Server struct {
	mux *http.ServeMux

	// Handlers
	health *HealthHandler
	rag    *RAGHandler
}

// NewServer creates a new HTTP server with all routes registered.
// The guard probe may be nil when guardrails are disabled.
func NewServer(pipeline driving.PipelineService, ingest driving.IngestService, guard GuardProbe, info ConfigInfo) *Server {
	mux := http.NewServeMux()

	s := &Server{
		mux:    mux,
		health: NewHealthHandler(pipeline, guard, info),
		rag:    NewRAGHandler(pipeline, ingest),
	}

	s.health.RegisterRoutes(mux)
	s.rag.RegisterRoutes(mux)

	return s
}

// Handler returns the HTTP handler with middleware applied.
// Middleware order: recovery → logging → handler
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoveryMiddleware, loggingMiddleware)
}

// Run starts the HTTP server and blocks until the context is cancelled.
// It handles graceful shutdown when the context is done.
func (s *Server) Run(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: ReadHeaderTimeout,
		ReadTimeout:       ReadTimeout,
		WriteTimeout:      WriteTimeout,
		IdleTimeout:       IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting RAG API server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down RAG API server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}
