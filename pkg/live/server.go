package live

import (
	"context"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/retained/internal/config"
	"github.com/vango-dev/retained/internal/errors"
	"github.com/vango-dev/retained/pkg/metrics"
	"github.com/vango-dev/retained/pkg/reconcile"
	"github.com/vango-dev/retained/pkg/vdom"
)

const shutdownTimeout = 5 * time.Second

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetrics sets the collector. Without it a collector is created when
// metrics are enabled in the configuration.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Server) { s.metrics = c }
}

// WithTracerProvider sets the provider spans come from. The default is the
// global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Server) { s.tracerProvider = tp }
}

// WithReconcileOptions adjusts the reconciler options of every new session
// after the configuration has been applied.
func WithReconcileOptions(fn func(*reconcile.Options)) Option {
	return func(s *Server) { s.tune = fn }
}

// Server accepts live sessions.
type Server struct {
	cfg  *config.Config
	root func() *vdom.VNode

	logger         *slog.Logger
	metrics        *metrics.Collector
	tracerProvider trace.TracerProvider
	tracer         trace.Tracer
	tune           func(*reconcile.Options)

	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[string]*Session
	closing  bool
	wg       sync.WaitGroup

	httpServer *http.Server
}

// NewServer creates a server rendering root() into every new session. A nil
// cfg uses config.New().
func NewServer(cfg *config.Config, root func() *vdom.VNode, opts ...Option) *Server {
	if cfg == nil {
		cfg = config.New()
	}
	s := &Server{
		cfg:      cfg,
		root:     root,
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	s.logger = s.logger.With("component", "live")
	if s.metrics == nil && cfg.Metrics.Enabled {
		s.metrics = metrics.New(metrics.WithNamespace(cfg.Metrics.Namespace))
	}
	if s.tracerProvider == nil {
		s.tracerProvider = otel.GetTracerProvider()
	}
	s.tracer = s.tracerProvider.Tracer(cfg.Tracing.TracerName)
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.Server.ReadBufferSize,
		WriteBufferSize: cfg.Server.WriteBufferSize,
		CheckOrigin:     originChecker(cfg.Server.AllowedOrigins),
	}
	return s
}

// Router returns the HTTP routes: /live for sessions, /healthz, and the
// metrics path when metrics are enabled.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/live", s.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok\n"))
	})
	if s.metrics != nil && s.cfg.Metrics.Enabled {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, s.metrics.Handler())
	}
	return r
}

// Metrics returns the collector, or nil when metrics are disabled.
func (s *Server) Metrics() *metrics.Collector { return s.metrics }

// Sessions returns the number of open sessions.
func (s *Server) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// HandleWebSocket upgrades the request and runs a session until the
// connection closes.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	if s.isClosing() {
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the HTTP error.
		s.logger.Warn("upgrade failed", "error", errors.New("L001").Wrap(err), "remote", r.RemoteAddr)
		return
	}

	sess, err := newSession(s, conn)
	if err != nil {
		s.logger.Error("session start failed", "error", err)
		conn.Close()
		return
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		sess.Close()
		return
	}
	s.sessions[sess.id] = sess
	s.wg.Add(1)
	s.mu.Unlock()
	if s.metrics != nil {
		s.metrics.SessionOpened()
	}

	defer func() {
		s.mu.Lock()
		delete(s.sessions, sess.id)
		s.mu.Unlock()
		if s.metrics != nil {
			s.metrics.SessionClosed()
		}
		s.wg.Done()
	}()

	sess.serve()
}

// ListenAndServe serves on the configured address until ctx is done, then
// shuts down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.httpServer.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return s.Shutdown(sctx)
	}
}

func (s *Server) isClosing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closing
}

// Shutdown stops accepting sessions, closes the open ones and stops the
// HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	open := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		open = append(open, sess)
	}
	s.mu.Unlock()
	for _, sess := range open {
		sess.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
		return ctx.Err()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}

// originChecker accepts same-origin requests, any origin with "*", or the
// listed origins.
func originChecker(allowed []string) func(*http.Request) bool {
	if slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		if slices.Contains(allowed, origin) {
			return true
		}
		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
