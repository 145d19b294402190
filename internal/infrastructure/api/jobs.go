package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"jobdeck/internal/domain"
	"jobdeck/internal/domain/job"
	"jobdeck/internal/domain/session"
)

// JobRepository serves listings over the shared client.
type JobRepository struct {
	c *Client
}

func NewJobRepository(c *Client) *JobRepository {
	return &JobRepository{c: c}
}

// List fetches listings. Terms are forwarded as query parameters when
// present; callers still filter locally since older backends ignore them.
func (r *JobRepository) List(ctx context.Context, keyword, location string) ([]job.Job, error) {
	q := url.Values{}
	if kw := strings.TrimSpace(keyword); kw != "" {
		q.Set("keyword", kw)
	}
	if loc := strings.TrimSpace(location); loc != "" {
		q.Set("location", loc)
	}

	var raw json.RawMessage
	if err := r.c.doJSON(ctx, http.MethodGet, "/jobs", q, nil, "", &raw); err != nil {
		return nil, err
	}
	return decodeList[job.Job](raw, "job")
}

func (r *JobRepository) Create(ctx context.Context, d job.Draft, s session.Session) (job.Job, error) {
	var raw json.RawMessage
	if err := r.c.doJSON(ctx, http.MethodPost, "/jobs", nil, d, s.AccessToken, &raw); err != nil {
		return job.Job{}, err
	}
	created, err := decodeObject[job.Job](raw, "job")
	if err != nil {
		return job.Job{}, err
	}
	if created.ID == 0 {
		return job.Job{}, fmt.Errorf("%w: created job carries no id", domain.ErrMalformedResponse)
	}
	return created, nil
}

func (r *JobRepository) Delete(ctx context.Context, id int64, s session.Session) error {
	return r.c.doJSON(ctx, http.MethodDelete, "/jobs/"+strconv.FormatInt(id, 10), nil, nil, s.AccessToken, nil)
}

var _ job.Repository = (*JobRepository)(nil)
