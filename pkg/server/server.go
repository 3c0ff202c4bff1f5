package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"touchlint-hq/touchlint/pkg/evidence"
	"touchlint-hq/touchlint/pkg/lint/engine"
	"touchlint-hq/touchlint/pkg/telemetry/health"
	"touchlint-hq/touchlint/pkg/telemetry/logging"
	"touchlint-hq/touchlint/pkg/telemetry/metrics"
	"touchlint-hq/touchlint/pkg/telemetry/tracing"
)

// Options configures the server. Only ListenAddress is required.
type Options struct {
	// ListenAddress is the TCP address to listen on.
	ListenAddress string

	// ShutdownTimeout bounds graceful shutdown.
	// Default: 5s
	ShutdownTimeout time.Duration

	// MetricsPath is where Collector is served.
	// Default: "/metrics"
	MetricsPath string

	// Version is reported by /version.
	Version string

	// Collector is served at MetricsPath when set.
	Collector *metrics.Collector

	// Checker backs /readyz. A checker without checks is used when nil.
	Checker *health.Checker

	// Store backs the /api/v1/runs endpoints. They answer 404 when nil.
	Store evidence.Storage

	// Tracer wraps each request in a server span continuing the caller's
	// trace context. Requests are not traced when nil.
	Tracer *tracing.Tracer

	// Logger receives request logs.
	Logger *logging.Logger
}

// Server serves health, metrics, the latest report and run history.
type Server struct {
	opts       Options
	router     chi.Router
	httpServer *http.Server
	logger     *logging.Logger
	latest     atomic.Pointer[engine.Summary]

	mu           sync.Mutex
	isRunning    bool
	addr         net.Addr
	shutdownOnce sync.Once
}

// New creates a server. It does not listen until Start is called.
func New(opts Options) *Server {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 5 * time.Second
	}
	if opts.MetricsPath == "" {
		opts.MetricsPath = "/metrics"
	}
	if opts.Checker == nil {
		opts.Checker = health.New(0)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNop()
	}

	s := &Server{
		opts:   opts,
		logger: opts.Logger.WithComponent("server"),
	}
	s.router = s.setupRoutes()
	return s
}

// Handler returns the router. It is used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// SetReport publishes the report of the latest run.
func (s *Server) SetReport(report *engine.Report) {
	if report == nil {
		return
	}
	s.latest.Store(report.Summary())
}

// Latest returns the summary of the latest published run, or nil.
func (s *Server) Latest() *engine.Summary {
	return s.latest.Load()
}

// Addr returns the address the server listens on, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Start listens and serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return fmt.Errorf("server is already running")
	}

	ln, err := net.Listen("tcp", s.opts.ListenAddress)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to listen on %s: %w", s.opts.ListenAddress, err)
	}
	s.isRunning = true
	s.addr = ln.Addr()
	s.httpServer = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting http endpoint", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	case err := <-errChan:
		return err
	}
}

// Shutdown gracefully stops the server within the shutdown timeout.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		if !s.isRunning {
			s.mu.Unlock()
			return
		}
		srv := s.httpServer
		s.mu.Unlock()

		s.logger.Info("shutting down http endpoint", "timeout", s.opts.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.opts.ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("http endpoint stopped")
	})

	return shutdownErr
}

func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.opts.Tracer != nil {
		r.Use(tracing.Middleware(s.opts.Tracer))
	}
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.opts.Checker.LivenessHandler())
	r.Get("/readyz", s.opts.Checker.ReadinessHandler())
	r.Get("/version", health.VersionHandler(s.opts.Version))
	if s.opts.Collector != nil {
		r.Handle(s.opts.MetricsPath, s.opts.Collector.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/report", s.handleReport)
		r.Route("/runs", func(r chi.Router) {
			r.Use(s.requireStore)
			r.Get("/", s.handleListRuns)
			r.Get("/{id}", s.handleGetRun)
			r.Get("/{id}/findings", s.handleFindings)
		})
	})

	return r
}

// logRequests logs every request at debug level.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

func (s *Server) requireStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.opts.Store == nil {
			writeError(w, http.StatusNotFound, "run history is disabled")
			return
		}
		next.ServeHTTP(w, r)
	})
}
