package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-regform/pkg/controller"
	"github.com/goliatone/go-regform/pkg/model"
	"github.com/goliatone/go-regform/pkg/render"
)

// DefaultRenderer is the registry entry used when a request names none.
const DefaultRenderer = "vanilla"

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request and session logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithControllerFactory sets how a new session's controller is built.
func WithControllerFactory(factory func() *controller.Controller) Option {
	return func(s *Server) {
		if factory != nil {
			s.factory = factory
		}
	}
}

// WithRefreshSeconds sets the poll interval HTML views use while submitting.
func WithRefreshSeconds(seconds int) Option {
	return func(s *Server) {
		if seconds >= 0 {
			s.refreshSeconds = seconds
		}
	}
}

// WithSessionTTL sets how long idle sessions are retained.
func WithSessionTTL(ttl time.Duration) Option {
	return func(s *Server) {
		s.sessionTTL = ttl
	}
}

// WithAssets serves files under /assets/.
func WithAssets(files fs.FS) Option {
	return func(s *Server) {
		s.assets = files
	}
}

// WithClock anchors render-time date hints.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// ThemeResolver turns the theme and variant named by a request into renderer
// theme configuration. Empty names select the resolver's defaults.
type ThemeResolver func(name, variant string) (*theme.RendererConfig, error)

// WithThemeResolver themes HTML views; ?theme= and ?variant= pick a selection.
func WithThemeResolver(resolve ThemeResolver) Option {
	return func(s *Server) {
		s.themes = resolve
	}
}

// Server hosts one registration controller per browser session.
type Server struct {
	form           model.FormModel
	renderers      *render.Registry
	sessions       *Sessions
	factory        func() *controller.Controller
	logger         *zap.Logger
	refreshSeconds int
	sessionTTL     time.Duration
	assets         fs.FS
	now            func() time.Time
	themes         ThemeResolver
	router         chi.Router
}

// New builds the HTTP host. renderers must contain DefaultRenderer.
func New(form model.FormModel, renderers *render.Registry, options ...Option) (*Server, error) {
	if renderers == nil || !renderers.Has(DefaultRenderer) {
		return nil, fmt.Errorf("server: renderer %q is required", DefaultRenderer)
	}
	s := &Server{
		form:           form,
		renderers:      renderers,
		logger:         zap.NewNop(),
		refreshSeconds: 1,
		now:            time.Now,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.factory == nil {
		logger := s.logger
		s.factory = func() *controller.Controller {
			return controller.New(controller.WithLogger(logger))
		}
	}
	s.sessions = NewSessions(s.factory, s.sessionTTL)
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(recovery(s.logger))
	r.Use(requestLogger(s.logger))

	r.Get("/", s.handleForm)
	r.Post("/", s.handleSubmit)
	r.Post("/reset", s.handleReset)
	r.Get("/openapi.json", s.handleContract)

	r.Route("/api", func(r chi.Router) {
		r.Get("/state", s.handleState)
		r.Post("/change", s.handleChange)
		r.Post("/blur", s.handleBlur)
		r.Post("/validate", s.handleValidate)
		r.Post("/events", s.handleEvent)
	})

	if s.assets != nil {
		r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.assets))))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions exposes the session store.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("registration form listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
