// Package httpapi is the development story endpoint. It receives the
// multipart uploads produced by the upload pipeline, validates them and
// keeps the accepted stories in a repository.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/sufield/storyline/internal/debug"
	"github.com/sufield/storyline/internal/logging"
	"github.com/sufield/storyline/internal/metrics"
	"github.com/sufield/storyline/internal/ports"
)

// StoriesPath is where stories are posted and listed.
const StoriesPath = "/api/stories"

// Config configures the server.
type Config struct {
	Addr           string
	MaxUploadBytes int64

	// RateLimit is requests per second per client address; 0 disables it.
	RateLimit float64
	Burst     int

	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration

	// DebugRoutes mounts /_debug.
	DebugRoutes bool
}

// Server serves the story endpoint over plain HTTP.
type Server struct {
	cfg     Config
	stories ports.StoryRepository
	log     logrus.FieldLogger
	handler http.Handler
	server  *http.Server
	now     func() time.Time

	mu       sync.Mutex
	listener net.Listener
}

// New creates a server backed by stories.
func New(cfg Config, stories ports.StoryRepository, logger logrus.FieldLogger) (*Server, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("address is required")
	}
	if stories == nil {
		return nil, fmt.Errorf("story repository is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("max upload bytes must be positive")
	}
	if cfg.RateLimit < 0 {
		return nil, fmt.Errorf("rate limit must not be negative")
	}

	s := &Server{
		cfg:     cfg,
		stories: stories,
		log:     logging.OrDiscard(logger).WithField("adapter", "httpapi"),
		now:     time.Now,
	}
	s.handler = s.routes()
	s.server = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.handler,
		ReadHeaderTimeout: orDefault(cfg.ReadHeaderTimeout, 10*time.Second),
		ReadTimeout:       orDefault(cfg.ReadTimeout, 60*time.Second),
		WriteTimeout:      orDefault(cfg.WriteTimeout, 60*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 120*time.Second),
	}
	return s, nil
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", healthz)
	r.Handle("/metrics", metrics.Handler())

	r.Group(func(r chi.Router) {
		if s.cfg.RateLimit > 0 {
			r.Use(newRateLimiter(s.cfg.RateLimit, s.cfg.Burst, s.log).Handler)
		}
		r.Post(StoriesPath, s.createStory)
		r.Get(StoriesPath, s.listStories)
	})

	if s.cfg.DebugRoutes {
		r.Mount("/_debug", debug.Routes(s))
		s.log.Warn("debug routes mounted at /_debug")
	}
	return metrics.InstrumentHandler(r)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.log.WithFields(logrus.Fields{
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     ww.Status(),
			"bytes":      ww.BytesWritten(),
			"duration":   time.Since(start).Round(time.Microsecond),
			"request_id": middleware.GetReqID(r.Context()),
		}).Debug("request")
	})
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.handler }

// Start listens on the configured address and serves in the background.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	go func() {
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("httpapi server error")
		}
	}()
	s.log.WithField("addr", ln.Addr().String()).Info("story endpoint listening")
	return nil
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return s.cfg.Addr
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}

// SnapshotData implements debug.Introspector.
func (s *Server) SnapshotData(ctx context.Context) debug.Snapshot {
	snap := debug.Snapshot{Stage: "serving"}
	if stories, err := s.stories.List(ctx); err == nil {
		snap.Stories = len(stories)
	}
	return snap
}

var _ debug.Introspector = (*Server)(nil)
