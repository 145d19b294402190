package application

import (
	"time"

	"github.com/google/uuid"

	"jobdeck/internal/domain/job"
)

// Status values the backend assigns to an application.
const (
	StatusPending  = "pending"
	StatusReviewed = "reviewed"
	StatusRejected = "rejected"
	StatusAccepted = "accepted"
)

// Application is one user's submission for one job. Job carries the joined
// listing when the backend embeds it under its table name; it is nil when the
// listing was deleted after the application was made.
type Application struct {
	ID        int64     `json:"id"`
	JobID     int64     `json:"job_id"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
	AppliedAt time.Time `json:"applied_at"`
	Job       *job.Job  `json:"jobs,omitempty"`
}
