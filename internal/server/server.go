// Package server provides the HTTP API over a rowform engine: batch
// normalization, single-value reconciliation, and template rendering
// as JSON endpoints.
package server

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rowform/rowform"
	"github.com/rowform/rowform/internal/server/middleware"
	"github.com/rowform/rowform/internal/server/response"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine rowform.Engine
	config Config
	logger *zerolog.Logger
	router *chi.Mux
	http   *http.Server
}

// New creates a server around an engine. The router is fully wired on
// return; Start only binds the listener.
func New(engine rowform.Engine, cfg Config, logger *zerolog.Logger) *Server {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	s := &Server{
		engine: engine,
		config: cfg,
		logger: logger,
		router: chi.NewRouter(),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware applies the middleware chain.
func (s *Server) setupMiddleware() {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Recovery(s.logger))

	if s.config.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(s.config.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = s.config.CORSOrigins
		} else {
			corsConfig.AllowAll = true
		}
		s.router.Use(middleware.CORS(corsConfig))
	}

	if s.config.RateLimit > 0 {
		limiter := middleware.NewRateLimiter(s.config.RateLimit, s.logger)
		s.router.Use(middleware.RateLimit(limiter))
	}

	if s.config.RequestTimeout > 0 {
		s.router.Use(chimw.Timeout(s.config.RequestTimeout))
	}
}

// setupRoutes registers all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealth)

	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/normalize", s.handleNormalize)
		r.Post("/reconcile", s.handleReconcile)
		r.Post("/template/render", s.handleRenderTemplate)
	})

	s.router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "Route not found", r.URL.Path)
	})
	s.router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method)
	})
}

// Handler returns the configured handler, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the host:port the server binds to.
func (s *Server) Addr() string {
	return s.config.Addr()
}

// Start binds the listener and serves until Shutdown or failure.
func (s *Server) Start() error {
	s.http = &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}

	s.logger.Info().Str("addr", s.config.Addr()).Msg("HTTP server listening")

	if err := s.http.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	s.logger.Info().Msg("Shutting down HTTP server")
	return s.http.Shutdown(ctx)
}
