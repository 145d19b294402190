package devserver

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobdeck/internal/domain/application"
	"jobdeck/internal/domain/job"
	"jobdeck/internal/domain/saved"
)

var (
	errEmailTaken     = errors.New("email already registered")
	errUserNotFound   = errors.New("user not found")
	errJobNotFound    = errors.New("job not found")
	errNotOwner       = errors.New("not the job owner")
	errAlreadyApplied = errors.New("already applied")
	errAlreadySaved   = errors.New("already saved")
	errNotSaved       = errors.New("not saved")
)

type userRecord struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Store is the in-memory backing state. One mutex is plenty at development
// scale and makes the uniqueness checks trivially race-free.
type Store struct {
	mu sync.Mutex

	usersByID    map[uuid.UUID]userRecord
	usersByEmail map[string]uuid.UUID

	jobs         map[int64]job.Job
	applications map[int64]application.Application
	savedJobs    map[int64]saved.SavedJob

	nextJob         int64
	nextApplication int64
	nextSaved       int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		usersByID:    make(map[uuid.UUID]userRecord),
		usersByEmail: make(map[string]uuid.UUID),
		jobs:         make(map[int64]job.Job),
		applications: make(map[int64]application.Application),
		savedJobs:    make(map[int64]saved.SavedJob),
		now:          time.Now,
	}
}

func (s *Store) CreateUser(email, passwordHash string) (userRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.usersByEmail[email]; taken {
		return userRecord{}, errEmailTaken
	}
	u := userRecord{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	s.usersByID[u.ID] = u
	s.usersByEmail[email] = u.ID
	return u, nil
}

func (s *Store) UserByEmail(email string) (userRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.usersByEmail[email]
	if !ok {
		return userRecord{}, errUserNotFound
	}
	return s.usersByID[id], nil
}

func (s *Store) UserByID(id uuid.UUID) (userRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.usersByID[id]
	if !ok {
		return userRecord{}, errUserNotFound
	}
	return u, nil
}

func (s *Store) AddJob(d job.Draft, createdBy *uuid.UUID) job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextJob++
	j := job.Job{
		ID:          s.nextJob,
		Title:       d.Title,
		Company:     d.Company,
		Location:    d.Location,
		Description: d.Description,
		CreatedBy:   createdBy,
		CreatedAt:   s.now().UTC(),
	}
	if d.Salary != "" {
		salary := d.Salary
		j.Salary = &salary
	}
	s.jobs[j.ID] = j
	return j
}

func (s *Store) Jobs() []job.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]job.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func (s *Store) JobByID(id int64) (job.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return job.Job{}, errJobNotFound
	}
	return j, nil
}

// RemoveJob deletes a listing and cascades over its applications and
// bookmarks, mirroring the production schema's ON DELETE CASCADE.
func (s *Store) RemoveJob(id int64, requester uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return errJobNotFound
	}
	if j.CreatedBy == nil || *j.CreatedBy != requester {
		return errNotOwner
	}

	delete(s.jobs, id)
	for appID, app := range s.applications {
		if app.JobID == id {
			delete(s.applications, appID)
		}
	}
	for savedID, sj := range s.savedJobs {
		if sj.JobID == id {
			delete(s.savedJobs, savedID)
		}
	}
	return nil
}

func (s *Store) CreateApplication(jobID int64, userID uuid.UUID) (application.Application, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[jobID]; !ok {
		return application.Application{}, errJobNotFound
	}
	for _, app := range s.applications {
		if app.JobID == jobID && app.UserID == userID {
			return application.Application{}, errAlreadyApplied
		}
	}

	s.nextApplication++
	app := application.Application{
		ID:        s.nextApplication,
		JobID:     jobID,
		UserID:    userID,
		Status:    application.StatusPending,
		AppliedAt: s.now().UTC(),
	}
	s.applications[app.ID] = app
	return app, nil
}

func (s *Store) ApplicationsByUser(userID uuid.UUID) []application.Application {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]application.Application, 0)
	for _, app := range s.applications {
		if app.UserID != userID {
			continue
		}
		if j, ok := s.jobs[app.JobID]; ok {
			jc := j
			app.Job = &jc
		}
		out = append(out, app)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}

func (s *Store) SaveJob(jobID int64, userID uuid.UUID) (saved.SavedJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[jobID]; !ok {
		return saved.SavedJob{}, errJobNotFound
	}
	for _, sj := range s.savedJobs {
		if sj.JobID == jobID && sj.UserID == userID {
			return saved.SavedJob{}, errAlreadySaved
		}
	}

	s.nextSaved++
	sj := saved.SavedJob{
		ID:      s.nextSaved,
		JobID:   jobID,
		UserID:  userID,
		SavedAt: s.now().UTC(),
	}
	s.savedJobs[sj.ID] = sj
	return sj, nil
}

func (s *Store) UnsaveJob(jobID int64, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sj := range s.savedJobs {
		if sj.JobID == jobID && sj.UserID == userID {
			delete(s.savedJobs, id)
			return nil
		}
	}
	return errNotSaved
}

func (s *Store) SavedByUser(userID uuid.UUID) []saved.SavedJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]saved.SavedJob, 0)
	for _, sj := range s.savedJobs {
		if sj.UserID != userID {
			continue
		}
		if j, ok := s.jobs[sj.JobID]; ok {
			jc := j
			sj.Job = &jc
		}
		out = append(out, sj)
	}
	sort.Slice(out, func(i, k int) bool { return out[i].ID < out[k].ID })
	return out
}
