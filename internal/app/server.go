package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/markdave123-py/resumeapp/internal/api/handlers"
	appMiddleware "github.com/markdave123-py/resumeapp/internal/api/middlewares"
	"github.com/markdave123-py/resumeapp/internal/config"
	"github.com/markdave123-py/resumeapp/internal/logger"
)

// Server wraps the HTTP server instance and its handlers.
type Server struct {
	httpServer *http.Server
}

// NewServer builds and wires all routes.
func NewServer(cfg *config.Config, users handlers.UserQueries, resumes handlers.ResumeFiles) *Server {
	userHandler := handlers.NewUserHandler(users)
	resumeHandler := handlers.NewResumeHandler(resumes)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(appMiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(appMiddleware.Metrics)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// public endpoints
	r.Get("/healthz", handlers.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(api chi.Router) {
		if cfg.RateLimitPerMinute > 0 {
			api.Use(httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute))
		}
		if cfg.JWTSecret != "" {
			api.Use(appMiddleware.JWTMiddleware(cfg.JWTSecret))
		}

		api.Get("/users", userHandler.ListUsers)
		api.Get("/skill/{name}/users", userHandler.UsersBySkill)
		api.Get("/skills/{userid}", userHandler.UserSkills)
		api.Post("/resume/upload", resumeHandler.UploadResume)
		api.Get("/resume/{userid}", resumeHandler.DownloadResume)
	})

	httpSrv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &Server{httpServer: httpSrv}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

// Start runs the HTTP server until Shutdown is called.
func (s *Server) Start() error {
	logger.Info().Str("addr", s.httpServer.Addr).Msg("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info().Msg("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
