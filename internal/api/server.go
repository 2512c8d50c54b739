package api

import (
	"context"
	"log/slog"
	"net/http"
	"runtime"
	"time"
)

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Addr              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	RequestTimeout    time.Duration
	MaxConcurrent     int
	CORSOrigin        string
}

// DefaultConfig returns sensible defaults for addr.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:           addr,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   10 * time.Second,
		RequestTimeout: 10 * time.Second,
		MaxConcurrent:  runtime.NumCPU() * 4,
	}
}

// NewServer builds an *http.Server wired to handlers, with the full
// middleware chain (security headers, CORS, concurrency limit, panic
// recovery, per-request timeout) applied to every route.
func NewServer(cfg ServerConfig, handlers *Handlers, log *slog.Logger) *http.Server {
	if log == nil {
		log = slog.Default()
	}

	mux := http.NewServeMux()
	sem := make(chan struct{}, cfg.MaxConcurrent)

	mux.HandleFunc("POST /route", withMiddleware(handlers.HandleRoute, sem, cfg, log))
	mux.HandleFunc("GET /health", withMiddleware(handlers.HandleHealth, sem, cfg, log))
	mux.HandleFunc("GET /stats", withMiddleware(handlers.HandleStats, sem, cfg, log))

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      mux,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// withMiddleware wraps handler with the server's standing concerns: security
// headers, CORS, a concurrency limiter, panic recovery, a per-request
// timeout, and access logging.
func withMiddleware(handler http.HandlerFunc, sem chan struct{}, cfg ServerConfig, log *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")
		if cfg.CORSOrigin != "" {
			w.Header().Set("Access-Control-Allow-Origin", cfg.CORSOrigin)
		}

		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		default:
			w.Header().Set("Retry-After", "1")
			writeError(w, http.StatusServiceUnavailable, "service_unavailable", "too many concurrent requests")
			return
		}

		defer func() {
			if rec := recover(); rec != nil {
				log.Error("panic handling request", "path", r.URL.Path, "recovered", rec)
				writeError(w, http.StatusInternalServerError, "internal_error", "")
			}
		}()

		ctx, cancel := context.WithTimeout(r.Context(), cfg.RequestTimeout)
		defer cancel()

		start := time.Now()
		handler(w, r.WithContext(ctx))
		log.Info("request handled", "method", r.Method, "path", r.URL.Path, "elapsed", time.Since(start))
	}
}
