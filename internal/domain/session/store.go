package session

import (
	"context"
	"errors"
)

// ErrNoSession is returned by Store.Get when nothing is persisted.
var ErrNoSession = errors.New("no active session")

// Store persists at most one session across process restarts. A Get that
// races a Set or Clear must return either the full old state or the full new
// state, never a token from one paired with a user from the other.
type Store interface {
	Set(ctx context.Context, s Session) error
	Get(ctx context.Context) (Session, error)
	Clear(ctx context.Context) error

	// ClearIfToken removes the stored session only when its access token
	// still equals the given one. It reports whether a row was removed.
	// A stale 401 from a request sent under a previous token must not wipe
	// a session that was re-established in the meantime.
	ClearIfToken(ctx context.Context, accessToken string) (bool, error)
}

// Authenticator exchanges credentials for a session with the backend.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (Session, error)
	Signup(ctx context.Context, email, password string) (UserSummary, error)
}
