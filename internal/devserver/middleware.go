package devserver

import (
	"errors"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"jobdeck/internal/pkg/jwt"
)

const (
	ctxUserIDKey = "user_id"
	ctxEmailKey  = "email"
)

// errorMiddleware converts returned errors and panics into the wire's
// {"error": ...} envelope. Causes are logged, never leaked to clients.
func (s *Server) errorMiddleware() fiber.Handler {
	return func(c fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error().Interface("panic", r).Str("path", c.Path()).Msg("panic recovered")
				err = writeError(c, fiber.StatusInternalServerError, "Internal server error")
			}
		}()

		err = c.Next()
		if err == nil {
			return nil
		}

		var apiErr *apiError
		if errors.As(err, &apiErr) {
			status := apiErr.Status
			if status <= 0 {
				status = fiber.StatusInternalServerError
			}
			if status >= 500 {
				s.log.Error().Err(apiErr.Cause).Str("path", c.Path()).Msg(apiErr.Message)
				return writeError(c, status, "Internal server error")
			}
			return writeError(c, status, apiErr.Message)
		}

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			if fiberErr.Code >= 500 {
				s.log.Error().Err(err).Str("path", c.Path()).Msg("handler error")
				return writeError(c, fiberErr.Code, "Internal server error")
			}
			return writeError(c, fiberErr.Code, fiberErr.Message)
		}

		s.log.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
		return writeError(c, fiber.StatusInternalServerError, "Internal server error")
	}
}

func (s *Server) accessLog() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get("X-Request-ID")
		if rid == "" {
			rid = uuid.NewString()
			c.Set("X-Request-ID", rid)
		}

		err := c.Next()

		s.log.Info().
			Str("rid", rid).
			Str("ip", c.IP()).
			Str("method", c.Method()).
			Str("path", c.OriginalURL()).
			Int("status", c.Response().StatusCode()).
			Dur("latency", time.Since(start)).
			Msg("http access")

		return err
	}
}

// withAuth wraps a handler with bearer token validation and stashes the
// authenticated user in locals.
func (s *Server) withAuth(next fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		token, ok := bearerTokenFromHeader(c.Get("Authorization"))
		if !ok {
			return fail(fiber.StatusUnauthorized, "Missing bearer token", nil)
		}

		claims, err := s.tokens.Validate(token)
		if err != nil {
			return fail(fiber.StatusUnauthorized, "Invalid or expired token", err)
		}
		userID, err := claims.UserID()
		if err != nil {
			return fail(fiber.StatusUnauthorized, "Invalid or expired token", err)
		}
		if _, err := s.store.UserByID(userID); err != nil {
			return fail(fiber.StatusUnauthorized, "Invalid or expired token", err)
		}

		c.Locals(ctxUserIDKey, userID)
		c.Locals(ctxEmailKey, claims.Email)
		return next(c)
	}
}

func bearerTokenFromHeader(authHeader string) (string, bool) {
	authHeader = strings.TrimSpace(authHeader)
	if authHeader == "" {
		return "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}

	token := strings.TrimSpace(parts[1])
	if token == "" {
		return "", false
	}
	return token, true
}

// ipLimiter throttles credential endpoints per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	rps      float64
	limiters map[string]*rate.Limiter
}

func newIPLimiter(rps float64) *ipLimiter {
	if rps <= 0 {
		rps = 5
	}
	return &ipLimiter{rps: rps, limiters: make(map[string]*rate.Limiter)}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[ip]
	if !ok {
		burst := int(math.Ceil(l.rps))
		if burst < 1 {
			burst = 1
		}
		lim = rate.NewLimiter(rate.Limit(l.rps), burst)
		l.limiters[ip] = lim
	}
	return lim.Allow()
}

func (s *Server) withAuthRateLimit(next fiber.Handler) fiber.Handler {
	return func(c fiber.Ctx) error {
		if !s.authLimiter.allow(c.IP()) {
			return fail(fiber.StatusTooManyRequests, "Too many attempts, slow down", nil)
		}
		return next(c)
	}
}

func currentUserID(c fiber.Ctx) (uuid.UUID, error) {
	id, ok := c.Locals(ctxUserIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, fail(fiber.StatusUnauthorized, "Missing bearer token", nil)
	}
	return id, nil
}
