// Package server exposes circle computation, summary statistics and stored
// runs over HTTP.
//
// Routes:
//
//	GET  /healthz          liveness and version
//	POST /v1/circle        smallest enclosing circle of a point list
//	POST /v1/summary       mean, stdev and SEM of a value list
//	GET  /v1/runs          stored runs, newest first (?limit=n)
//	GET  /v1/runs/{id}     one stored run
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/puncta/pkg/cache"
	"github.com/matzehuels/puncta/pkg/pipeline"
	"github.com/matzehuels/puncta/pkg/store"
)

// DefaultMaxPoints bounds the points accepted by /v1/circle.
const DefaultMaxPoints = 1_000_000

// Options configures a Server.
type Options struct {
	Runner          *pipeline.Runner
	Store           store.Store
	Logger          *log.Logger
	MaxPoints       int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// Server is the puncta HTTP API.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	opts   Options
	router chi.Router
}

// New builds a server. A nil Runner computes without caching; a nil Store
// serves no runs.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = store.NullStore{}
	}
	if opts.MaxPoints <= 0 {
		opts.MaxPoints = DefaultMaxPoints
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	// API keys live beside batch keys in a shared cache.
	runner := *opts.Runner
	runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "api:")

	s := &Server{
		runner: &runner,
		store:  opts.Store,
		logger: opts.Logger,
		opts:   opts,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/circle", s.handleCircle)
		r.Post("/summary", s.handleSummary)
		r.Get("/runs", s.handleListRuns)
		r.Get("/runs/{id}", s.handleGetRun)
	})
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
