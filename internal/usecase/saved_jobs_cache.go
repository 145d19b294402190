package usecase

import (
	"context"

	"jobdeck/internal/domain/saved"
	"jobdeck/internal/domain/session"
)

// SavedJobsCache provides membership answers for the save toggle. Saved
// state can change from other devices at any moment, so every Snapshot
// refetches; nothing is memoized between calls.
type SavedJobsCache struct {
	repo saved.Repository
}

func NewSavedJobsCache(repo saved.Repository) *SavedJobsCache {
	return &SavedJobsCache{repo: repo}
}

// Snapshot fetches the user's bookmarks and indexes them by job id. The
// result is immutable and only as fresh as the moment it was taken.
func (c *SavedJobsCache) Snapshot(ctx context.Context, s session.Session) (SavedSnapshot, error) {
	items, err := c.repo.List(ctx, s)
	if err != nil {
		return SavedSnapshot{}, err
	}

	byJob := make(map[int64]saved.SavedJob, len(items))
	for _, item := range items {
		byJob[item.JobID] = item
	}
	return SavedSnapshot{items: items, byJob: byJob}, nil
}

type SavedSnapshot struct {
	items []saved.SavedJob
	byJob map[int64]saved.SavedJob
}

func (s SavedSnapshot) Contains(jobID int64) bool {
	_, ok := s.byJob[jobID]
	return ok
}

func (s SavedSnapshot) Find(jobID int64) (saved.SavedJob, bool) {
	item, ok := s.byJob[jobID]
	return item, ok
}

func (s SavedSnapshot) Items() []saved.SavedJob {
	out := make([]saved.SavedJob, len(s.items))
	copy(out, s.items)
	return out
}

func (s SavedSnapshot) Len() int {
	return len(s.items)
}
