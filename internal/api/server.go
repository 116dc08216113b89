// Package api provides the HTTP server and handlers for the storefront catalog.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tmukherjee/storefront/internal/access"
	"github.com/tmukherjee/storefront/internal/auth"
	"github.com/tmukherjee/storefront/internal/middleware"
	"github.com/tmukherjee/storefront/internal/service"
	"github.com/tmukherjee/storefront/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	catalog   *service.CatalogService
	auth      *service.AuthService
	validator *validation.Validator
	router    *chi.Mux
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(catalog *service.CatalogService, authSvc *service.AuthService, jwtManager *auth.JWTManager) *Server {
	s := &Server{
		catalog:   catalog,
		auth:      authSvc,
		validator: validation.New(),
		router:    chi.NewRouter(),
	}

	s.setupMiddleware(jwtManager)
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware(jwtManager *auth.JWTManager) {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
	}))
	s.router.Use(middleware.Authenticate(jwtManager))
	s.router.Use(middleware.Logging)
	s.router.Use(middleware.Metrics(func(r *http.Request) string {
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			return rctx.RoutePattern()
		}
		return r.URL.Path
	}))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/store", func(r chi.Router) {
		r.Get("/", s.handleListStores)
		r.Post("/", s.handleCreateStore)
		r.Get("/{id}", s.handleGetStore)
		r.Delete("/{id}", s.handleDeleteStore)
		r.Get("/{id}/tag", s.handleListStoreTags)
		r.Post("/{id}/tag", s.handleCreateStoreTag)
	})

	s.router.Route("/item", func(r chi.Router) {
		r.Get("/", s.handleListItems)
		r.Post("/", s.handleCreateItem)
		r.Get("/{id}", s.handleGetItem)
		r.Put("/{id}", s.handleReplaceItem)
		r.Delete("/{id}", s.handleDeleteItem)
		r.Post("/{itemID}/tag/{tagID}", s.handleLinkItemTag)
		r.Delete("/{itemID}/tag/{tagID}", s.handleUnlinkItemTag)
	})

	s.router.Route("/tag", func(r chi.Router) {
		r.Get("/", s.handleListTags)
		r.Get("/{id}", s.handleGetTag)
		r.Delete("/{id}", s.handleDeleteTag)
	})

	s.router.Post("/register", s.handleRegister)
	s.router.Post("/login", s.handleLogin)

	s.router.Route("/user", func(r chi.Router) {
		r.Get("/", s.handleListUsers)
		r.Get("/{id}", s.handleGetUser)
		r.Delete("/{id}", s.handleDeleteUser)
	})
}

// authorize runs the access gate for op against the request identity. On
// deny it writes the error response and reports false.
func (s *Server) authorize(w http.ResponseWriter, r *http.Request, op access.Operation) bool {
	if err := access.Check(middleware.GetIdentity(r.Context()), op); err != nil {
		respondError(w, err)
		return false
	}
	return true
}

// handleHealthz reports liveness.
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
