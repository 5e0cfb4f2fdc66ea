package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/KaramelBytes/airq-cli/internal/dataset"
	"github.com/KaramelBytes/airq-cli/internal/logging"
	"github.com/KaramelBytes/airq-cli/internal/metrics"
	"github.com/KaramelBytes/airq-cli/internal/session"
)

// Options configures the HTTP surface.
type Options struct {
	MaxUploadBytes int64
	PreviewRows    int
	RequestTimeout time.Duration
	// Parse holds delimiter, date layout and location defaults for uploads.
	Parse dataset.Options
}

// Server serves the upload and dashboard API.
type Server struct {
	opt     Options
	store   *session.Store
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a server. Nil dependencies get fresh defaults.
func New(opt Options, store *session.Store, m *metrics.Metrics, logger *slog.Logger) *Server {
	if opt.MaxUploadBytes <= 0 {
		opt.MaxUploadBytes = 10 << 20
	}
	if opt.PreviewRows <= 0 {
		opt.PreviewRows = 5
	}
	if opt.RequestTimeout <= 0 {
		opt.RequestTimeout = 30 * time.Second
	}
	if store == nil {
		store = session.NewStore(30 * time.Minute)
	}
	if m == nil {
		m = metrics.New()
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Server{
		opt:     opt,
		store:   store,
		metrics: m,
		logger:  logger.With(slog.String("component", "server")),
	}
}

// Routes builds the full router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.opt.RequestTimeout))

	r.Get("/healthz", s.health)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/uploads", s.upload)
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Use(s.sessionCtx)
			r.Get("/", s.getSession)
			r.Delete("/", s.deleteSession)
			r.Get("/preview", s.preview)
			r.Get("/series", s.series)
			r.Get("/charts/{kind}.png", s.chart)
			r.Get("/export.csv", s.exportCSV)
			r.Get("/export.xlsx", s.exportXLSX)
		})
	})
	return r
}

// ListenAndServe runs until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", slog.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			slog.String("request_id", middleware.GetReqID(r.Context())),
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", ww.Status()),
			slog.Duration("took", time.Since(start)),
		)
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, map[string]interface{}{
		"status":   "ok",
		"sessions": s.store.Len(),
	})
}

func (s *Server) syncSessionGauge() {
	s.metrics.SessionsActive.Set(float64(s.store.Len()))
}
