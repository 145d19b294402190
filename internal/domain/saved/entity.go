package saved

import (
	"time"

	"github.com/google/uuid"

	"jobdeck/internal/domain/job"
)

// SavedJob is a bookmark row. Job is the joined listing when the backend
// embeds it, nil otherwise.
type SavedJob struct {
	ID      int64     `json:"id"`
	JobID   int64     `json:"job_id"`
	UserID  uuid.UUID `json:"user_id"`
	SavedAt time.Time `json:"saved_at"`
	Job     *job.Job  `json:"jobs,omitempty"`
}
