// Package server exposes the grow pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz           liveness and build information
//	GET  /presets           built-in parameter presets
//	GET  /presets/{name}    one preset
//	POST /grow              run the pipeline; body is pipeline.Options JSON
//	POST /interpret         interpret a text sentence from the body
//	POST /validate          balance-check a text sentence from the body
//
// Every response carries an X-Request-ID header. Errors are JSON objects
// with a machine-readable code: invalid input maps to 400, malformed
// sentences to 422, everything else to 500.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/sprout/pkg/pipeline"
)

const (
	// maxBodyBytes caps request bodies.
	maxBodyBytes = 4 << 20

	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

// Server serves the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	maxSteps int
}

// Option configures a Server.
type Option func(*Server)

// WithMaxSteps overrides the per-request step ceiling.
func WithMaxSteps(n int) Option { return func(s *Server) { s.maxSteps = n } }

// New returns a server that runs requests on runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger, maxSteps: pipeline.DefaultMaxSteps}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/presets", func(r chi.Router) {
		r.Get("/", s.handlePresets)
		r.Get("/{name}", s.handlePreset)
	})
	r.Post("/grow", s.handleGrow)
	r.Post("/interpret", s.handleInterpret)
	r.Post("/validate", s.handleValidate)
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(_ net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
