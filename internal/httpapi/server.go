package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/kesselops/healthexporter/internal/httpapi/middleware"
	"github.com/kesselops/healthexporter/internal/metrics"
	"github.com/kesselops/healthexporter/internal/registry"
	"github.com/kesselops/healthexporter/internal/sweep"
)

type Server struct {
	Logger   *zap.Logger
	Registry *registry.Registry
	Sweeper  *sweep.Runner
}

func NewServer(l *zap.Logger, reg *registry.Registry, sw *sweep.Runner) *Server {
	return &Server{Logger: l, Registry: reg, Sweeper: sw}
}

// Router exposes three GET paths. Everything else, including wrong methods on
// known paths, is a 404: the exporter has exactly one metric surface and two
// liveness aliases, nothing to enumerate.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLog(s.Logger))

	r.Get("/metrics", s.handleMetrics)
	r.Get("/health", s.handleHealth)
	r.Get("/healthz", s.handleHealth)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return r
}

// handleMetrics sweeps the whole registry on every scrape and renders the
// result. No caching: the scrape interval is the probe interval.
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			s.Logger.Error("metrics_panic", zap.Any("panic", rec))
			http.Error(w, fmt.Sprintf("Internal Server Error: %v", rec), http.StatusInternalServerError)
		}
	}()

	results := s.Sweeper.Run(r.Context(), s.Registry)
	body := metrics.Render(results, time.Now())

	w.Header().Set("Content-Type", metrics.ContentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(body))
}

// handleHealth reports the exporter's own liveness. It never probes anything:
// the registered services' state has no bearing on whether this process is
// alive.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK\n"))
}

// Run serves the router on addr until ctx is cancelled, then drains in-flight
// requests for at most shutdownTimeout.
func (s *Server) Run(ctx context.Context, addr string, shutdownTimeout time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.Logger.Info("exporter_listen", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.Logger.Info("exporter_draining")
	shctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shctx)
	if serveErr := <-errCh; serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
		err = multierr.Append(err, serveErr)
	}
	return err
}
