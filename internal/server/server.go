// Package server exposes the assistant over a local JSON API: pipeline
// runs, history, schema metadata, insight calls, and session stats.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/allaspectsdev/sqlcrew/internal/metrics"
	"github.com/allaspectsdev/sqlcrew/internal/pipeline"
	"github.com/allaspectsdev/sqlcrew/internal/schemainfo"
)

// Server serves the JSON API wired to the pipeline orchestrator.
type Server struct {
	router    chi.Router
	orch      *pipeline.Orchestrator
	schema    *schemainfo.Cache
	collector *metrics.Collector
	addr      string
	server    *http.Server

	readTimeout  time.Duration
	writeTimeout time.Duration
	idleTimeout  time.Duration
}

// Options tunes the HTTP server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// New creates a Server wired to the given orchestrator, schema cache,
// and metrics collector.
func New(orch *pipeline.Orchestrator, schema *schemainfo.Cache, collector *metrics.Collector, opts Options) *Server {
	s := &Server{
		orch:         orch,
		schema:       schema,
		collector:    collector,
		addr:         opts.Addr,
		readTimeout:  opts.ReadTimeout,
		writeTimeout: opts.WriteTimeout,
		idleTimeout:  opts.IdleTimeout,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)

	r.Post("/api/ask", s.handleAsk)
	r.Post("/api/manual", s.handleManual)
	r.Get("/api/history", s.handleListHistory)
	r.Get("/api/history/{id}", s.handleGetRecord)
	r.Delete("/api/history/{id}", s.handleDeleteRecord)
	r.Post("/api/history/{id}/visualize", s.handleVisualize)
	r.Post("/api/history/{id}/analyze", s.handleAnalyze)
	r.Get("/api/history/{id}/suggestions", s.handleSuggestions)
	r.Get("/api/schema", s.handleSchema)
	r.Post("/api/schema/refresh", s.handleSchemaRefresh)
	r.Get("/api/stats", s.handleStats)
	r.Get("/api/health", s.handleHealth)

	s.router = r
	return s
}

// Start begins listening on the configured address. It blocks until the
// server is shut down or an error occurs.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  s.idleTimeout,
	}

	log.Info().Str("addr", s.addr).Msg("api server starting")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// Handler returns the router, for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// writeJSON serialises v as JSON and writes it to w with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to write JSON response")
	}
}

// writeError writes a JSON error payload.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// requestLogger logs each request with its latency.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("api request")
	})
}
