package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"jobdeck/internal/domain"
	"jobdeck/internal/domain/application"
	"jobdeck/internal/domain/job"
	"jobdeck/internal/domain/saved"
	"jobdeck/internal/domain/session"
)

// SessionSource hands out the current session and retires it when the
// backend rejects its token. *Auth is the production implementation.
type SessionSource interface {
	Current(ctx context.Context) (session.Session, error)
	DropIfToken(ctx context.Context, accessToken string) error
}

// ConfirmFunc answers an application confirmation prompt. Returning false
// aborts before any network call.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

type ToggleResult struct {
	JobID int64
	Saved bool

	// AlreadySynced reports that the backend already held the desired state:
	// a duplicate save, or an unsave of a bookmark some other device removed.
	AlreadySynced bool
}

type ApplyStatus string

const (
	ApplySubmitted      ApplyStatus = "submitted"
	ApplyAlreadyApplied ApplyStatus = "already_applied"
	ApplyDeclined       ApplyStatus = "declined"
)

type ApplyResult struct {
	Status      ApplyStatus
	Application application.Application
}

// Interaction drives every authenticated action against the job board. All
// mutations resolve the session up front, and any 401 retires the exact
// token that earned it.
type Interaction struct {
	sessions SessionSource
	jobs     job.Repository
	apps     application.Repository
	saved    saved.Repository
	cache    *SavedJobsCache
	log      zerolog.Logger

	flights singleflight.Group
}

func NewInteraction(sessions SessionSource, jobs job.Repository, apps application.Repository, savedRepo saved.Repository, log zerolog.Logger) *Interaction {
	return &Interaction{
		sessions: sessions,
		jobs:     jobs,
		apps:     apps,
		saved:    savedRepo,
		cache:    NewSavedJobsCache(savedRepo),
		log:      log,
	}
}

func flightKey(op string, jobID int64) string {
	return op + ":" + strconv.FormatInt(jobID, 10)
}

// ToggleSave flips the bookmark on one job. The direction comes from a fresh
// snapshot of the saved list, never from local memory. Concurrent toggles of
// the same job share one flight, so a double click cannot fire two opposing
// requests.
func (u *Interaction) ToggleSave(ctx context.Context, jobID int64) (ToggleResult, error) {
	if jobID <= 0 {
		return ToggleResult{}, fmt.Errorf("%w: job id must be positive", domain.ErrInvalidInput)
	}

	v, err, shared := u.flights.Do(flightKey("save", jobID), func() (any, error) {
		return u.toggleSave(ctx, jobID)
	})
	if shared {
		u.log.Debug().Int64("job_id", jobID).Msg("coalesced concurrent save toggles")
	}
	if err != nil {
		return ToggleResult{}, err
	}
	return v.(ToggleResult), nil
}

func (u *Interaction) toggleSave(ctx context.Context, jobID int64) (ToggleResult, error) {
	sess, err := u.sessions.Current(ctx)
	if err != nil {
		return ToggleResult{}, err
	}

	snap, err := u.cache.Snapshot(ctx, sess)
	if err != nil {
		return ToggleResult{}, u.noteUnauthorized(ctx, sess, err)
	}

	if snap.Contains(jobID) {
		if err := u.saved.Unsave(ctx, jobID, sess); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Gone already, so the desired state holds.
				return ToggleResult{JobID: jobID, Saved: false, AlreadySynced: true}, nil
			}
			return ToggleResult{}, u.noteUnauthorized(ctx, sess, err)
		}
		u.log.Info().Int64("job_id", jobID).Msg("job unsaved")
		return ToggleResult{JobID: jobID, Saved: false}, nil
	}

	if _, err := u.saved.Save(ctx, jobID, sess); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return ToggleResult{JobID: jobID, Saved: true, AlreadySynced: true}, nil
		}
		return ToggleResult{}, u.noteUnauthorized(ctx, sess, err)
	}
	u.log.Info().Int64("job_id", jobID).Msg("job saved")
	return ToggleResult{JobID: jobID, Saved: true}, nil
}

// Apply submits an application once the confirmation callback approves it.
// A duplicate submission resolves as ApplyAlreadyApplied rather than an
// error, since the user's goal is already met.
func (u *Interaction) Apply(ctx context.Context, jobID int64, confirm ConfirmFunc) (ApplyResult, error) {
	if jobID <= 0 {
		return ApplyResult{}, fmt.Errorf("%w: job id must be positive", domain.ErrInvalidInput)
	}
	if confirm == nil {
		return ApplyResult{}, fmt.Errorf("%w: confirmation callback is required", domain.ErrInvalidInput)
	}

	v, err, shared := u.flights.Do(flightKey("apply", jobID), func() (any, error) {
		return u.apply(ctx, jobID, confirm)
	})
	if shared {
		u.log.Debug().Int64("job_id", jobID).Msg("coalesced concurrent applications")
	}
	if err != nil {
		return ApplyResult{}, err
	}
	return v.(ApplyResult), nil
}

func (u *Interaction) apply(ctx context.Context, jobID int64, confirm ConfirmFunc) (ApplyResult, error) {
	sess, err := u.sessions.Current(ctx)
	if err != nil {
		return ApplyResult{}, err
	}

	ok, err := confirm(ctx, fmt.Sprintf("Apply to job %d as %s?", jobID, sess.User.Email))
	if err != nil {
		return ApplyResult{}, fmt.Errorf("confirming application: %w", err)
	}
	if !ok {
		u.log.Debug().Int64("job_id", jobID).Msg("application declined at prompt")
		return ApplyResult{Status: ApplyDeclined}, nil
	}

	app, err := u.apps.Create(ctx, jobID, sess)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return ApplyResult{Status: ApplyAlreadyApplied}, nil
		}
		return ApplyResult{}, u.noteUnauthorized(ctx, sess, err)
	}
	u.log.Info().Int64("job_id", jobID).Int64("application_id", app.ID).Msg("application submitted")
	return ApplyResult{Status: ApplySubmitted, Application: app}, nil
}

func (u *Interaction) PostJob(ctx context.Context, d job.Draft) (job.Job, error) {
	if err := d.Validate(); err != nil {
		return job.Job{}, err
	}
	sess, err := u.sessions.Current(ctx)
	if err != nil {
		return job.Job{}, err
	}

	created, err := u.jobs.Create(ctx, d, sess)
	if err != nil {
		return job.Job{}, u.noteUnauthorized(ctx, sess, err)
	}
	u.log.Info().Int64("job_id", created.ID).Str("title", created.Title).Msg("job posted")
	return created, nil
}

func (u *Interaction) DeleteJob(ctx context.Context, jobID int64) error {
	if jobID <= 0 {
		return fmt.Errorf("%w: job id must be positive", domain.ErrInvalidInput)
	}
	sess, err := u.sessions.Current(ctx)
	if err != nil {
		return err
	}

	if err := u.jobs.Delete(ctx, jobID, sess); err != nil {
		return u.noteUnauthorized(ctx, sess, err)
	}
	u.log.Info().Int64("job_id", jobID).Msg("job deleted")
	return nil
}

func (u *Interaction) Applications(ctx context.Context) ([]application.Application, error) {
	sess, err := u.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	items, err := u.apps.List(ctx, sess)
	if err != nil {
		return nil, u.noteUnauthorized(ctx, sess, err)
	}
	return items, nil
}

func (u *Interaction) SavedJobs(ctx context.Context) ([]saved.SavedJob, error) {
	sess, err := u.sessions.Current(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := u.cache.Snapshot(ctx, sess)
	if err != nil {
		return nil, u.noteUnauthorized(ctx, sess, err)
	}
	return snap.Items(), nil
}

// noteUnauthorized retires the session that produced a 401 before handing
// the error back. The token-guarded drop leaves a session established
// mid-flight alone.
func (u *Interaction) noteUnauthorized(ctx context.Context, sess session.Session, err error) error {
	if errors.Is(err, domain.ErrUnauthorized) {
		if dropErr := u.sessions.DropIfToken(ctx, sess.AccessToken); dropErr != nil {
			u.log.Warn().Err(dropErr).Msg("could not drop rejected session")
		}
	}
	return err
}
