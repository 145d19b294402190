package application

import (
	"context"

	"jobdeck/internal/domain/session"
)

// Repository is the backend surface for applications. Both operations are
// scoped to the user owning the session.
type Repository interface {
	Create(ctx context.Context, jobID int64, s session.Session) (Application, error)
	List(ctx context.Context, s session.Session) ([]Application, error)
}
