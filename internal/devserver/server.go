// Package devserver is a self-contained stand-in for the production
// job-board backend. It speaks the same wire protocol over an in-memory
// store, which makes local development and the integration tests
// independent of any hosted environment.
package devserver

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"jobdeck/internal/config"
	"jobdeck/internal/pkg/jwt"
)

type Server struct {
	app         *fiber.App
	store       *Store
	tokens      *jwt.Issuer
	authLimiter *ipLimiter
	log         zerolog.Logger
}

func New(cfg config.ServerConfig, log zerolog.Logger) (*Server, error) {
	s := &Server{
		store:       NewStore(),
		tokens:      jwt.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		authLimiter: newIPLimiter(cfg.AuthRPS),
		log:         log,
	}
	if cfg.Seed {
		if err := Seed(s.store); err != nil {
			return nil, fmt.Errorf("seeding store: %w", err)
		}
		log.Info().Str("employer", SeedEmployerEmail).Int("jobs", len(seedJobs)).Msg("seeded demo data")
	}

	app := fiber.New(fiber.Config{AppName: "jobdeck devserver"})
	app.Use(s.errorMiddleware())
	app.Use(s.accessLog())

	api := app.Group("/api")
	api.Get("/health", s.handleHealth)

	auth := api.Group("/auth")
	auth.Post("/signup", s.withAuthRateLimit(s.handleSignup))
	auth.Post("/login", s.withAuthRateLimit(s.handleLogin))

	api.Get("/jobs", s.handleListJobs)
	api.Post("/jobs", s.withAuth(s.handleCreateJob))
	api.Delete("/jobs/:id", s.withAuth(s.handleDeleteJob))

	api.Post("/applications", s.withAuth(s.handleCreateApplication))
	api.Get("/applications", s.withAuth(s.handleListApplications))

	api.Post("/saved-jobs", s.withAuth(s.handleSaveJob))
	api.Get("/saved-jobs", s.withAuth(s.handleListSavedJobs))
	api.Delete("/saved-jobs/:job_id", s.withAuth(s.handleUnsaveJob))

	s.app = app
	return s, nil
}

// App exposes the fiber instance for in-process tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) Listen(addr string) error {
	s.log.Info().Str("addr", addr).Msg("devserver listening")
	return s.app.Listen(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.app.ShutdownWithContext(ctx)
}
