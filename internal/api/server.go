// Package api provides the HTTP API server and handlers for the Inkwell sync server.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkwellapp/inkwell-server/internal/http/response"
	"github.com/inkwellapp/inkwell-server/internal/mdns"
	"github.com/inkwellapp/inkwell-server/internal/ratelimit"
	"github.com/inkwellapp/inkwell-server/internal/search"
	"github.com/inkwellapp/inkwell-server/internal/service"
	"github.com/inkwellapp/inkwell-server/internal/store"
	"github.com/inkwellapp/inkwell-server/internal/validation"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Sync    *service.SyncService
	Sharing *service.SharingService
	Note    *service.NoteService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store       store.Store
	services    *Services
	searchIndex *search.Index // nil when search is disabled
	validator   *validation.Validator
	syncLimiter *ratelimit.KeyedRateLimiter
	router      *chi.Mux
	api         huma.API
	logger      *slog.Logger
}

// Options configures the API server.
type Options struct {
	Store       store.Store
	Services    *Services
	SearchIndex *search.Index // optional
	SyncLimiter *ratelimit.KeyedRateLimiter
	Logger      *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(opts Options) *Server {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Compress(5))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", HeaderUser, HeaderEmail},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	router.Use(identityMiddleware)

	// Unmatched routes get the JSON envelope instead of chi's plain text.
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "route not found", opts.Logger)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "method not allowed", opts.Logger)
	})

	humaConfig := huma.DefaultConfig("Inkwell API", mdns.ServerVersion)
	api := humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s := &Server{
		store:       opts.Store,
		services:    opts.Services,
		searchIndex: opts.SearchIndex,
		validator:   validation.New(),
		syncLimiter: opts.SyncLimiter,
		router:      router,
		api:         api,
		logger:      opts.Logger,
	}

	s.registerHealthRoutes()
	s.registerSyncRoutes()
	s.registerNoteRoutes()
	s.registerSharingRoutes()
	s.registerSearchRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
