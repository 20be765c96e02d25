// Package api provides the HTTP API server and handlers for the Shopfront
// server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shopfront/shopfront-server/internal/http/response"
	"github.com/shopfront/shopfront-server/internal/ratelimit"
	"github.com/shopfront/shopfront-server/internal/store"
)

// Options configures the HTTP surface.
type Options struct {
	Name           string
	Version        string
	AllowedOrigins []string
	// RateLimit is requests per minute per client IP. Zero disables it.
	RateLimit int
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store    store.Store
	services *Services
	router   *chi.Mux
	api      huma.API
	limiter  *ratelimit.KeyedRateLimiter
	opts     Options
	logger   *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *Services, opts Options, logger *slog.Logger) *Server {
	if opts.Name == "" {
		opts.Name = "Shopfront"
	}
	if opts.Version == "" {
		opts.Version = "1.0.0"
	}

	s := &Server{
		store:    st,
		services: services,
		router:   chi.NewRouter(),
		opts:     opts,
		logger:   logger,
	}
	if opts.RateLimit > 0 {
		s.limiter = ratelimit.PerMinute(opts.RateLimit)
	}

	// chi rejects middleware added after the first route, and humachi
	// registers the docs routes on creation.
	s.setupMiddleware()

	humaConfig := huma.DefaultConfig(opts.Name+" API", opts.Version)
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}
	// Enveloped bodies have no use for $schema links.
	humaConfig.CreateHooks = nil
	humaConfig.Transformers = append(humaConfig.Transformers, EnvelopeTransformer)

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler(logger)

	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	if s.limiter != nil {
		s.router.Use(rateLimitMiddleware(s.limiter, s.logger))
	}
	s.router.Use(withClientInfo)
}

func (s *Server) setupRoutes() {
	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerProductRoutes()
	s.registerCartRoutes()
	s.registerAdminRoutes()

	s.router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", s.logger)
	})
}
