// Package server is the web front end: server rendered login and form pages
// backed by the shared screen controllers, one visitor state per cookie.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/goliatone/go-formfill/pkg/fields"
	"github.com/goliatone/go-formfill/pkg/formflow"
	"github.com/goliatone/go-formfill/pkg/gateway"
	"github.com/goliatone/go-formfill/pkg/metrics"
	"github.com/goliatone/go-formfill/pkg/renderers/html"
	"github.com/goliatone/go-formfill/pkg/screens"
	"github.com/goliatone/go-formfill/pkg/session"
)

// Option configures the Server.
type Option func(*Server)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Server) {
		s.metrics = m
	}
}

// WithRenderer overrides the default HTML renderer.
func WithRenderer(r *html.Renderer) Option {
	return func(s *Server) {
		if r != nil {
			s.renderer = r
		}
	}
}

func WithSubmitter(sub formflow.Submitter) Option {
	return func(s *Server) {
		s.submitter = sub
	}
}

func WithRegistry(reg *fields.Registry) Option {
	return func(s *Server) {
		if reg != nil {
			s.registry = reg
		}
	}
}

// WithRequestTimeout bounds the gateway work done by a single request.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

// WithRuntimeAssets serves the browser behaviors under /runtime/.
func WithRuntimeAssets(assets fs.FS) Option {
	return func(s *Server) {
		s.assets = assets
	}
}

// WithSecureCookie marks the session cookie Secure.
func WithSecureCookie(secure bool) Option {
	return func(s *Server) {
		s.secureCookie = secure
	}
}

type Server struct {
	backend   session.Backend
	registrar gateway.Registrar
	source    gateway.FormSource

	renderer       *html.Renderer
	submitter      formflow.Submitter
	registry       *fields.Registry
	metrics        *metrics.Metrics
	logger         *zap.Logger
	requestTimeout time.Duration
	secureCookie   bool
	assets         fs.FS

	mu       sync.Mutex
	visitors map[string]*visitor

	router *mux.Router
}

// New wires the routes. backend persists identities; every visitor gets its
// own key namespace inside it.
func New(backend session.Backend, registrar gateway.Registrar, source gateway.FormSource, opts ...Option) (*Server, error) {
	if backend == nil || registrar == nil || source == nil {
		return nil, errors.New("server: backend, registrar and form source are required")
	}

	s := &Server{
		backend:   backend,
		registrar: registrar,
		source:    source,
		registry:  fields.Default(),
		logger:    zap.NewNop(),
		visitors:  make(map[string]*visitor),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.renderer == nil {
		renderer, err := html.New(html.WithRegistry(s.registry))
		if err != nil {
			return nil, fmt.Errorf("server: %w", err)
		}
		s.renderer = renderer
	}

	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := mux.NewRouter()
	r.Use(s.recoverer, s.requestLogger, s.instrument)

	r.HandleFunc(screens.RouteLogin.String(), s.showLogin).Methods(http.MethodGet)
	r.HandleFunc(screens.RouteLogin.String(), s.submitLogin).Methods(http.MethodPost)
	r.HandleFunc(screens.RouteForm.String(), s.showForm).Methods(http.MethodGet)
	r.HandleFunc(screens.RouteForm.String(), s.submitForm).Methods(http.MethodPost)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	if s.assets != nil {
		r.PathPrefix("/runtime/").Handler(http.StripPrefix("/runtime/", http.FileServerFS(s.assets))).Methods(http.MethodGet)
	}

	s.router = r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for at most grace.
func (s *Server) ListenAndServe(ctx context.Context, addr string, grace time.Duration) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("listening", zap.String("addr", addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("server: listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()

	s.logger.Info("shutting down", zap.Duration("grace", grace))
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

func (s *Server) requestContext(r *http.Request) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return context.WithCancel(r.Context())
	}
	return context.WithTimeout(r.Context(), s.requestTimeout)
}
