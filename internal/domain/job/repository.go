package job

import (
	"context"

	"jobdeck/internal/domain/session"
)

// Repository is the backend surface for listings. Mutations take the session
// explicitly so the caller controls exactly which token each request uses.
type Repository interface {
	List(ctx context.Context, keyword, location string) ([]Job, error)
	Create(ctx context.Context, d Draft, s session.Session) (Job, error)
	Delete(ctx context.Context, id int64, s session.Session) error
}
