package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"jobdeck/internal/domain"
	"jobdeck/internal/domain/session"
)

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User    *session.UserSummary `json:"user"`
	Session *struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	} `json:"session"`
}

// signupResponse accepts both the bare user object and the {"user": ...}
// envelope older deployments returned.
type signupResponse struct {
	session.UserSummary
	User *session.UserSummary `json:"user"`
}

// Login exchanges credentials for a session. A 401 here means the
// credentials were wrong, not that a token went stale, so it maps to
// ErrInvalidCredentials instead of ErrUnauthorized.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	var out loginResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/login", nil, credentials{Email: email, Password: password}, "", &out)
	if err != nil {
		var apiErr *domain.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			apiErr.Err = domain.ErrInvalidCredentials
		}
		return session.Session{}, err
	}

	if out.User == nil || out.Session == nil || out.Session.AccessToken == "" {
		return session.Session{}, fmt.Errorf("%w: login response missing user or session", domain.ErrMalformedResponse)
	}
	return session.Session{
		AccessToken:  out.Session.AccessToken,
		RefreshToken: out.Session.RefreshToken,
		User:         *out.User,
	}, nil
}

func (c *Client) Signup(ctx context.Context, email, password string) (session.UserSummary, error) {
	var out signupResponse
	err := c.doJSON(ctx, http.MethodPost, "/auth/signup", nil, credentials{Email: email, Password: password}, "", &out)
	if err != nil {
		return session.UserSummary{}, err
	}

	u := out.UserSummary
	if out.User != nil {
		u = *out.User
	}
	if u.ID == uuid.Nil || u.Email == "" {
		return session.UserSummary{}, fmt.Errorf("%w: signup response missing user", domain.ErrMalformedResponse)
	}
	return u, nil
}

var _ session.Authenticator = (*Client)(nil)
