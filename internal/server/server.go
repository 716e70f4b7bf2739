// Package server exposes the simulator over HTTP. Every request builds its own
// parameter set; the server keeps no per-session simulation state.
package server

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	DefaultAddr     = ":8080"
	DefaultMaxSteps = 1_000_000
)

type Options struct {
	// MaxSteps caps the trajectory length a single request may ask for.
	MaxSteps int
	// AccessLog receives Apache-style request lines; nil disables them.
	AccessLog io.Writer
}

type Server struct {
	log      *slog.Logger
	opts     Options
	router   *mux.Router
	registry *prometheus.Registry

	runs       *prometheus.CounterVec
	runSeconds prometheus.Histogram
	runSteps   prometheus.Histogram
}

func New(log *slog.Logger, opts Options) *Server {
	if log == nil {
		log = slog.Default()
	}
	if opts.MaxSteps <= 0 {
		opts.MaxSteps = DefaultMaxSteps
	}

	s := &Server{
		log:      log,
		opts:     opts,
		router:   mux.NewRouter(),
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "novacore",
			Name:      "runs_total",
			Help:      "Simulation runs by outcome.",
		}, []string{"outcome"}),
		runSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "novacore",
			Name:      "run_seconds",
			Help:      "Wall time spent integrating one run.",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 10),
		}),
		runSteps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "novacore",
			Name:      "run_steps",
			Help:      "Trajectory length of successful runs.",
			Buckets:   prometheus.ExponentialBuckets(10, 10, 6),
		}),
	}
	s.registry.MustRegister(s.runs, s.runSeconds, s.runSteps)

	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/presets", s.handlePresets).Methods(http.MethodGet)
	api.HandleFunc("/simulate", s.handleSimulate).Methods(http.MethodGet)
	api.HandleFunc("/telemetry.csv", s.handleTelemetryCSV).Methods(http.MethodGet)

	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

// Handler returns the router wrapped with panic recovery and, when
// configured, access logging.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.router
	h = handlers.RecoveryHandler(handlers.PrintRecoveryStack(true))(h)
	if s.opts.AccessLog != nil {
		h = handlers.LoggingHandler(s.opts.AccessLog, h)
	}
	return h
}

// ListenAndServe serves until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
