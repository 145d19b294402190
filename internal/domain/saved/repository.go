package saved

import (
	"context"

	"jobdeck/internal/domain/session"
)

// Repository is the backend surface for bookmarks, scoped to the session's
// user. Save on an already-saved job and Unsave on a never-saved one map to
// domain.ErrDuplicate and domain.ErrNotFound respectively.
type Repository interface {
	Save(ctx context.Context, jobID int64, s session.Session) (SavedJob, error)
	Unsave(ctx context.Context, jobID int64, s session.Session) error
	List(ctx context.Context, s session.Session) ([]SavedJob, error)
}
