package devserver

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"jobdeck/internal/domain/session"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return fail(fiber.StatusBadRequest, "Email and password are required", nil)
	}
	if len(strings.TrimSpace(req.Password)) < 6 {
		return fail(fiber.StatusBadRequest, "Password should be at least 6 characters", nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "hashing password", err)
	}

	u, err := s.store.CreateUser(email, string(hash))
	if err != nil {
		if errors.Is(err, errEmailTaken) {
			return fail(fiber.StatusConflict, "Email already registered", err)
		}
		return fail(fiber.StatusInternalServerError, "creating user", err)
	}

	s.log.Info().Str("email", u.Email).Msg("user registered")
	return c.Status(fiber.StatusCreated).JSON(userSummary(u))
}

func (s *Server) handleLogin(c fiber.Ctx) error {
	var req credentialsRequest
	if err := c.Bind().Body(&req); err != nil {
		return fail(fiber.StatusBadRequest, "Invalid request body", err)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := s.store.UserByEmail(email)
	if err != nil {
		return fail(fiber.StatusUnauthorized, "Invalid credentials", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return fail(fiber.StatusUnauthorized, "Invalid credentials", err)
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		return fail(fiber.StatusInternalServerError, "issuing token", err)
	}

	s.log.Info().Str("email", u.Email).Msg("user logged in")
	return c.JSON(fiber.Map{
		"user": userSummary(u),
		"session": fiber.Map{
			"access_token": token,
			// No refresh endpoint exists; the value only satisfies the shape.
			"refresh_token": uuid.NewString(),
		},
	})
}

func (s *Server) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func userSummary(u userRecord) session.UserSummary {
	return session.UserSummary{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt}
}
