// Package guardapi exposes the in-process scanner set over HTTP.
//
// Endpoints:
//
//	GET  /health       →  scanner load state
//	GET  /scanners     →  capability and threshold listing
//	POST /scan/input   →  input scanner set over a prompt
//	POST /scan/output  →  output scanner set over an answer
//	POST /scan/full    →  input scan, then output scan if it passed
//	POST /warmup       →  eager scanner construction
package guardapi

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/Z3ROX-lab/ai-security-platform/internal/core/ports/driving"
)

const (
	// DefaultAddr is the default address for the guard server.
	DefaultAddr = ":8000"

	// ShutdownTimeout is the maximum time to wait for graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// ReadHeaderTimeout is the timeout for reading request headers.
	ReadHeaderTimeout = 10 * time.Second

	// ReadTimeout is the maximum duration for reading the entire request.
	ReadTimeout = 30 * time.Second

	// WriteTimeout is the maximum duration for writing the response.
	WriteTimeout = 60 * time.Second

	// IdleTimeout is the maximum time to wait for the next request on
	// keep-alive connections.
	IdleTimeout = 120 * time.Second
)

// Server is the HTTP server for the guardrail API.
type Server struct {
	mux  *http.ServeMux
	scan *ScanHandler
}

// NewServer creates a new guard server with all routes registered.
func NewServer(svc driving.GuardService) *Server {
	mux := http.NewServeMux()

	s := &Server{
		mux:  mux,
		scan: NewScanHandler(svc),
	}
	s.scan.RegisterRoutes(mux)

	return s
}

// Handler returns the HTTP handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return chain(s.mux, recoveryMiddleware, loggingMiddleware)
}

// Run starts the guard server and blocks until the context is cancelled.
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
		slog.Info("starting guardrail server", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down guardrail server")
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

// loggingMiddleware logs all HTTP requests with method, path, and duration.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		slog.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"duration", time.Since(start))
	})
}

// recoveryMiddleware recovers from panics and returns 500 Internal Server Error.
func recoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				slog.Error("panic recovered", "error", err, "path", r.URL.Path)
				http.Error(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// chain applies middleware in order: first middleware wraps outermost.
func chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
