package session

import (
	"time"

	"github.com/google/uuid"
)

// UserSummary is the slice of the account the client keeps after login.
type UserSummary struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// Session pairs the bearer tokens with the user they belong to. The access
// token is treated as opaque; expiry is inspected without verification
// because the signing key lives on the backend.
type Session struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token,omitempty"`
	User         UserSummary `json:"user"`
}

// IsZero reports whether the session carries no usable token.
func (s Session) IsZero() bool {
	return s.AccessToken == ""
}
