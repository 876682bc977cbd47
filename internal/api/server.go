// Package api provides the HTTP API server and handlers for the ReadStack application.
package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/readstackapp/readstack-server/internal/logger"
	"github.com/readstackapp/readstack-server/internal/ratelimit"
	"github.com/readstackapp/readstack-server/internal/service"
	"github.com/readstackapp/readstack-server/internal/store"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	store           store.Store
	services        *service.Services
	router          *chi.Mux
	api             huma.API
	logger          *logger.Logger
	authRateLimiter *ratelimit.KeyedRateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(st store.Store, services *service.Services, log *logger.Logger) *Server {
	s := &Server{
		store:           st,
		services:        services,
		router:          chi.NewRouter(),
		logger:          log,
		authRateLimiter: NewRateLimiter(20, time.Minute, 10),
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("ReadStack API", "1.0.0")
	humaConfig.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
		"bearer": {
			Type:         "http",
			Scheme:       "bearer",
			BearerFormat: "PASETO",
		},
	}

	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerAuthRoutes()
	s.registerUserRoutes()
	s.registerAuthorRoutes()
	s.registerBookRoutes()
	s.registerShelfRoutes()
	s.registerLibraryRoutes()
	s.registerPostRoutes()
	s.registerCommentRoutes()
	s.registerTagRoutes()
	s.registerDashboardRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack. Order matters: RealIP
// must run before the rate limiter so it keys on the true client address.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	s.router.Use(AuthRateLimitMiddleware(s.authRateLimiter, s.logger))
}
