package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"jobdeck/internal/domain/job"
	"jobdeck/internal/search"
)

// JobList serves the public browse surface. No session is involved.
type JobList struct {
	jobs job.Repository
	log  zerolog.Logger
}

func NewJobList(jobs job.Repository, log zerolog.Logger) *JobList {
	return &JobList{jobs: jobs, log: log}
}

// Search fetches listings and filters them locally. The backend may also
// narrow by the forwarded terms, but the local pass is what guarantees the
// match semantics regardless of server version.
func (u *JobList) Search(ctx context.Context, q search.Query) ([]job.Job, error) {
	items, err := u.jobs.List(ctx, q.Keyword, q.Location)
	if err != nil {
		return nil, err
	}

	matched := search.Filter(items, q)
	u.log.Debug().Int("fetched", len(items)).Int("matched", len(matched)).Msg("job search")
	return matched, nil
}
