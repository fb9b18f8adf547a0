// Package server exposes the classgraph pipeline and project store over HTTP.
//
// Routes:
//
//	POST   /v1/layout                 document -> scene JSON
//	POST   /v1/render?format=svg      document -> artifact
//	GET    /v1/projects               project summaries (?owner=)
//	GET    /v1/projects/{id}          project document
//	PUT    /v1/projects/{id}          create or replace a project
//	DELETE /v1/projects/{id}          remove a project
//	GET    /v1/projects/{id}/scene    laid-out scene of a stored project
//	GET    /healthz                   build information
//	GET    /metrics                   Prometheus exposition (when enabled)
//
// Failures are written as {"code": "...", "message": "..."} with a status
// derived from the error code.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/classgraph/pkg/config"
	"github.com/matzehuels/classgraph/pkg/pipeline"
	"github.com/matzehuels/classgraph/pkg/store"
)

// Server serves the HTTP API.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	cfg     config.Server
	opts    pipeline.Options
	logger  *log.Logger
	metrics prometheus.Gatherer
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithPipelineOptions sets the engine constants used for every request.
// Formats are chosen per request and ignored here.
func WithPipelineOptions(opts pipeline.Options) Option {
	return func(s *Server) { s.opts = opts }
}

// WithMetrics mounts /metrics backed by g.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) { s.metrics = g }
}

// New returns a server over runner and st.
func New(runner *pipeline.Runner, st store.Store, cfg config.Server, opts ...Option) *Server {
	s := &Server{
		runner: runner,
		store:  st,
		cfg:    cfg,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.MaxBodyBytes <= 0 {
		s.cfg.MaxBodyBytes = config.Default().Server.MaxBodyBytes
	}
	return s
}

// Handler returns the routed handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.logRequests)
	r.Use(instrument)

	r.Get("/healthz", s.health)
	if s.metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.metrics, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(s.limitBody)

		r.Post("/layout", s.layout)
		r.Post("/render", s.render)

		r.Route("/projects", func(r chi.Router) {
			r.Get("/", s.listProjects)
			r.Get("/{id}", s.getProject)
			r.Put("/{id}", s.putProject)
			r.Delete("/{id}", s.deleteProject)
			r.Get("/{id}/scene", s.projectScene)
		})
	})
	return r
}

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout.Duration,
		WriteTimeout: s.cfg.WriteTimeout.Duration,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
