package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"jobdeck/internal/domain"
	"jobdeck/internal/domain/application"
	"jobdeck/internal/domain/session"
)

// ApplicationRepository serves the session user's applications.
type ApplicationRepository struct {
	c *Client
}

func NewApplicationRepository(c *Client) *ApplicationRepository {
	return &ApplicationRepository{c: c}
}

type applyRequest struct {
	JobID int64 `json:"job_id"`
}

func (r *ApplicationRepository) Create(ctx context.Context, jobID int64, s session.Session) (application.Application, error) {
	var raw json.RawMessage
	if err := r.c.doJSON(ctx, http.MethodPost, "/applications", nil, applyRequest{JobID: jobID}, s.AccessToken, &raw); err != nil {
		return application.Application{}, err
	}
	created, err := decodeObject[application.Application](raw, "application")
	if err != nil {
		return application.Application{}, err
	}
	if created.ID == 0 {
		return application.Application{}, fmt.Errorf("%w: created application carries no id", domain.ErrMalformedResponse)
	}
	return created, nil
}

func (r *ApplicationRepository) List(ctx context.Context, s session.Session) ([]application.Application, error) {
	var raw json.RawMessage
	if err := r.c.doJSON(ctx, http.MethodGet, "/applications", nil, nil, s.AccessToken, &raw); err != nil {
		return nil, err
	}
	return decodeList[application.Application](raw, "application")
}

var _ application.Repository = (*ApplicationRepository)(nil)
