// Package server is the HTTP front-end that serves inquiry forms by share
// token, accepts their submissions and forwards them to the CRM backend.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/goliatone/go-inquiry/pkg/form"
	"github.com/goliatone/go-inquiry/pkg/model"
	"github.com/goliatone/go-inquiry/pkg/render"
	"github.com/goliatone/go-inquiry/pkg/renderers/vanilla"
)

// TemplateFetcher loads a template by share token.
type TemplateFetcher interface {
	FetchTemplate(ctx context.Context, token string) (model.Template, error)
}

// Backend is the CRM collaborator. *client.Client satisfies it.
type Backend interface {
	TemplateFetcher
	form.Submitter
}

// HTMLRenderer renders forms and full-page states.
type HTMLRenderer interface {
	render.Renderer
	render.PageRenderer
}

// Server wires the routes.
type Server struct {
	backend Backend
	cfg     config
	logger  *zap.Logger
	router  chi.Router
	now     func() time.Time

	// templates maps share tokens to *cachedTemplate.
	templates sync.Map
	// inFlight holds the ids of form sessions with a submission outstanding.
	inFlight sync.Map
}

// New builds a server over backend. Without WithRenderer the vanilla HTML
// renderer is used.
func New(backend Backend, opts ...Option) (*Server, error) {
	if backend == nil {
		return nil, errors.New("server: backend is required")
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.renderer == nil {
		renderer, err := vanilla.New(
			vanilla.WithTranslator(cfg.translator),
			vanilla.WithStylesheets("/assets/"+vanilla.StylesheetName),
			vanilla.WithScripts("/assets/"+vanilla.ScriptName),
		)
		if err != nil {
			return nil, fmt.Errorf("server: build renderer: %w", err)
		}
		cfg.renderer = renderer
	}
	if cfg.assets == nil {
		cfg.assets = vanilla.AssetsFS()
	}

	s := &Server{
		backend: backend,
		cfg:     cfg,
		logger:  cfg.logger,
		now:     time.Now,
	}
	s.router = s.routes()
	return s, nil
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.logger), middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/openapi.yaml", s.handleOpenAPI)
	r.Handle("/assets/*", http.StripPrefix("/assets/", http.FileServer(http.FS(s.cfg.assets))))

	r.Route("/inquiry/{token}", func(r chi.Router) {
		r.Get("/", s.handleShowForm)
		r.Post("/", s.handleSubmitForm)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/templates/{token}", s.handleAPITemplate)
		r.Post("/inquiries/{token}", s.handleAPISubmit)
	})
	return r
}

// ListenAndServe listens on addr and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is cancelled, then shuts down
// gracefully within the configured shutdown timeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.readTimeout,
		WriteTimeout: s.cfg.writeTimeout,
		BaseContext:  func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.shutdownTimeout)
	defer cancel()
	s.logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: serve: %w", err)
	}
	return nil
}

// newSession binds tpl to a session. A non-empty id continues the form
// session the page was rendered with; its submissions are serialized through
// the server's in-flight set.
func (s *Server) newSession(tpl model.Template, token, locale, id string) *form.Session {
	opts := []form.Option{
		form.WithSubmitter(s.guard(id)),
		form.WithLogger(s.logger),
		form.WithTranslator(s.cfg.translator),
		form.WithLocale(locale),
	}
	if id != "" {
		opts = append(opts, form.WithSessionID(id))
	}
	opts = append(opts, s.cfg.sessionOptions...)
	return form.NewSession(tpl, token, opts...)
}

// guard wraps the backend so that at most one submission per session id is
// outstanding. Requests without an id are not tracked.
func (s *Server) guard(id string) form.Submitter {
	if id == "" {
		return s.backend
	}
	return form.SubmitterFunc(func(ctx context.Context, sub model.Submission) (model.SubmitResult, error) {
		if _, busy := s.inFlight.LoadOrStore(id, struct{}{}); busy {
			return model.SubmitResult{}, form.ErrSubmitInFlight
		}
		defer s.inFlight.Delete(id)
		return s.backend.SubmitInquiry(ctx, sub)
	})
}

// sessionID returns the posted session id when it is a well-formed uuid.
func sessionID(raw string) string {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return ""
	}
	return id.String()
}

func (s *Server) locale(r *http.Request) string {
	if lang := r.URL.Query().Get("lang"); lang != "" {
		return lang
	}
	return s.cfg.locale
}
