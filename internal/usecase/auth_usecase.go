package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"jobdeck/internal/domain"
	"jobdeck/internal/domain/session"
	"jobdeck/internal/pkg/jwt"
)

const minPasswordLength = 6

// Auth owns the session lifecycle: exchanging credentials for tokens,
// persisting them, and invalidating them once the backend stops accepting
// the access token.
type Auth struct {
	api   session.Authenticator
	store session.Store
	log   zerolog.Logger

	now func() time.Time
}

func NewAuth(api session.Authenticator, store session.Store, log zerolog.Logger) *Auth {
	return &Auth{api: api, store: store, log: log, now: time.Now}
}

func (a *Auth) Login(ctx context.Context, email, password string) (session.Session, error) {
	email = normalizeEmail(email)
	if email == "" {
		return session.Session{}, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if password == "" {
		return session.Session{}, fmt.Errorf("%w: password is required", domain.ErrInvalidInput)
	}

	sess, err := a.api.Login(ctx, email, password)
	if err != nil {
		return session.Session{}, err
	}
	if err := a.store.Set(ctx, sess); err != nil {
		return session.Session{}, fmt.Errorf("persisting session: %w", err)
	}
	a.log.Info().Str("email", sess.User.Email).Msg("logged in")
	return sess, nil
}

// Signup validates locally before any network call so a weak password never
// leaves the machine. It does not log the new user in.
func (a *Auth) Signup(ctx context.Context, email, password string) (session.UserSummary, error) {
	email = normalizeEmail(email)
	if email == "" {
		return session.UserSummary{}, fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if !isValidPassword(password) {
		return session.UserSummary{}, domain.ErrWeakPassword
	}

	u, err := a.api.Signup(ctx, email, password)
	if err != nil {
		return session.UserSummary{}, err
	}
	a.log.Info().Str("email", u.Email).Msg("account created")
	return u, nil
}

// Logout only clears local state. The backend keeps no server-side session
// to revoke.
func (a *Auth) Logout(ctx context.Context) error {
	if err := a.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	a.log.Info().Msg("logged out")
	return nil
}

// Current returns the persisted session. A token whose exp claim has passed
// is dropped and reported as ErrAuthRequired. Tokens that do not parse as
// JWTs pass through untouched; the backend stays the final judge.
func (a *Auth) Current(ctx context.Context) (session.Session, error) {
	sess, err := a.store.Get(ctx)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			return session.Session{}, domain.ErrAuthRequired
		}
		return session.Session{}, err
	}

	exp, err := jwt.ExpiresAt(sess.AccessToken)
	if err != nil || exp.IsZero() {
		return sess, nil
	}
	if !a.now().Before(exp) {
		if _, err := a.store.ClearIfToken(ctx, sess.AccessToken); err != nil {
			return session.Session{}, err
		}
		a.log.Debug().Time("expired_at", exp).Msg("stored session expired locally")
		return session.Session{}, fmt.Errorf("%w: session expired, log in again", domain.ErrAuthRequired)
	}
	return sess, nil
}

// DropIfToken discards the stored session if it still carries the given
// access token. Callers invoke it after a request sent under that token came
// back 401; the token guard keeps a login that happened mid-flight intact.
func (a *Auth) DropIfToken(ctx context.Context, accessToken string) error {
	removed, err := a.store.ClearIfToken(ctx, accessToken)
	if err != nil {
		return err
	}
	if removed {
		a.log.Info().Msg("session invalidated after backend rejection")
	}
	return nil
}

func normalizeEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	return strings.ToLower(email)
}

func isValidPassword(pw string) bool {
	return len(strings.TrimSpace(pw)) >= minPasswordLength
}
