package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"jobdeck/internal/domain/saved"
	"jobdeck/internal/domain/session"
)

// SavedJobRepository serves the session user's bookmarks.
type SavedJobRepository struct {
	c *Client
}

func NewSavedJobRepository(c *Client) *SavedJobRepository {
	return &SavedJobRepository{c: c}
}

type saveRequest struct {
	JobID int64 `json:"job_id"`
}

// Save bookmarks a job. Some deployments answer 201 with only a message, so
// a response without the stored row is not an error; the bookmark is
// synthesized from the request.
func (r *SavedJobRepository) Save(ctx context.Context, jobID int64, s session.Session) (saved.SavedJob, error) {
	var raw json.RawMessage
	if err := r.c.doJSON(ctx, http.MethodPost, "/saved-jobs", nil, saveRequest{JobID: jobID}, s.AccessToken, &raw); err != nil {
		return saved.SavedJob{}, err
	}
	created, err := decodeObject[saved.SavedJob](raw, "saved job")
	if err != nil || created.JobID == 0 {
		return saved.SavedJob{JobID: jobID, UserID: s.User.ID}, nil
	}
	return created, nil
}

func (r *SavedJobRepository) Unsave(ctx context.Context, jobID int64, s session.Session) error {
	return r.c.doJSON(ctx, http.MethodDelete, "/saved-jobs/"+strconv.FormatInt(jobID, 10), nil, nil, s.AccessToken, nil)
}

func (r *SavedJobRepository) List(ctx context.Context, s session.Session) ([]saved.SavedJob, error) {
	var raw json.RawMessage
	if err := r.c.doJSON(ctx, http.MethodGet, "/saved-jobs", nil, nil, s.AccessToken, &raw); err != nil {
		return nil, err
	}
	return decodeList[saved.SavedJob](raw, "saved job")
}

var _ saved.Repository = (*SavedJobRepository)(nil)
