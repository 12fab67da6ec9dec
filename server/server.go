// Package server serves the dashboard views as JSON over HTTP. Every request
// builds its own interaction state from the query string and recomputes the
// view from the shared, read-only record store.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/andina-bi/dashboard/engine"
	"github.com/andina-bi/dashboard/metrics"
	"github.com/andina-bi/dashboard/records"
)

// Server routes dashboard requests. It is safe for concurrent use.
type Server struct {
	store     *records.Store
	formatter *engine.Formatter
	metrics   *metrics.Metrics
	router    chi.Router
}

// New builds the router over a loaded store. A nil formatter uses the
// default locale; a nil metrics set gets a fresh one.
func New(store *records.Store, f *engine.Formatter, m *metrics.Metrics) *Server {
	if f == nil {
		f = engine.NewFormatter()
	}
	if m == nil {
		m = metrics.New()
	}
	s := &Server{store: store, formatter: f, metrics: m}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", m.Handler())
	r.Route("/api", func(r chi.Router) {
		r.Get("/views/{tab}", s.handleView)
		r.Get("/facets", s.handleFacets)
		r.Get("/quick-range/{preset}", s.handleQuickRange)
		r.Get("/products/{id}", s.handleProduct)
	})

	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully, waiting up to grace for in-flight requests.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, grace time.Duration) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server: listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	slog.Info("server: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// logRequests logs one line per request and counts it by route pattern.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		s.metrics.ObserveRequest(route, status)

		slog.Info("http: request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"requestId", middleware.GetReqID(r.Context()))
	})
}
