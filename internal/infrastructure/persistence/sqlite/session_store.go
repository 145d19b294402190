package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"jobdeck/internal/domain/session"
)

// SessionStore keeps the single active session in one row. Writing the whole
// row in one statement is what makes Get either all-old or all-new when it
// races a Set.
type SessionStore struct {
	db *sql.DB
}

func NewSessionStore(db *sql.DB) *SessionStore {
	return &SessionStore{db: db}
}

const sessionSchema = `
CREATE TABLE IF NOT EXISTS sessions (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	access_token TEXT NOT NULL,
	refresh_token TEXT NOT NULL DEFAULT '',
	user_id TEXT NOT NULL,
	email TEXT NOT NULL,
	user_created_at TEXT NOT NULL DEFAULT '',
	stored_at TEXT NOT NULL
)`

func (s *SessionStore) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, sessionSchema); err != nil {
		return fmt.Errorf("migrating sessions: %w", err)
	}
	return nil
}

func (s *SessionStore) Set(ctx context.Context, sess session.Session) error {
	if sess.IsZero() {
		return errors.New("refusing to store a session without an access token")
	}
	userCreated := ""
	if !sess.User.CreatedAt.IsZero() {
		userCreated = sess.User.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err := s.db.ExecContext(ctx, `
INSERT INTO sessions (id, access_token, refresh_token, user_id, email, user_created_at, stored_at)
VALUES (1, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
	access_token    = excluded.access_token,
	refresh_token   = excluded.refresh_token,
	user_id         = excluded.user_id,
	email           = excluded.email,
	user_created_at = excluded.user_created_at,
	stored_at       = excluded.stored_at`,
		sess.AccessToken,
		sess.RefreshToken,
		sess.User.ID.String(),
		sess.User.Email,
		userCreated,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("storing session: %w", err)
	}
	return nil
}

func (s *SessionStore) Get(ctx context.Context) (session.Session, error) {
	row := s.db.QueryRowContext(ctx, `
SELECT access_token, refresh_token, user_id, email, user_created_at
FROM sessions WHERE id = 1`)
	return scanSession(row)
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = 1`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// ClearIfToken deletes the row only when the stored access token still
// matches, so a 401 caused by an old token cannot evict a newer login.
func (s *SessionStore) ClearIfToken(ctx context.Context, accessToken string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = 1 AND access_token = ?`, accessToken)
	if err != nil {
		return false, fmt.Errorf("clearing session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("clearing session: %w", err)
	}
	return n > 0, nil
}

type sessionRow interface {
	Scan(dest ...any) error
}

func scanSession(row sessionRow) (session.Session, error) {
	var (
		sess       session.Session
		rawID      string
		rawCreated string
	)
	if err := row.Scan(&sess.AccessToken, &sess.RefreshToken, &rawID, &sess.User.Email, &rawCreated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return session.Session{}, session.ErrNoSession
		}
		return session.Session{}, fmt.Errorf("scanning session: %w", err)
	}

	id, err := uuid.Parse(rawID)
	if err != nil {
		return session.Session{}, fmt.Errorf("corrupt session row, user id %q: %w", rawID, err)
	}
	sess.User.ID = id

	if rawCreated != "" {
		if ts, err := time.Parse(time.RFC3339Nano, rawCreated); err == nil {
			sess.User.CreatedAt = ts
		}
	}
	return sess, nil
}

var _ session.Store = (*SessionStore)(nil)
