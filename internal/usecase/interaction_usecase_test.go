package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"jobdeck/internal/domain"
	"jobdeck/internal/domain/application"
	"jobdeck/internal/domain/job"
	"jobdeck/internal/domain/saved"
	"jobdeck/internal/domain/session"
)

type fakeSessionSource struct {
	mu      sync.Mutex
	sess    session.Session
	err     error
	calls   int
	dropped []string
}

func (f *fakeSessionSource) Current(context.Context) (session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return session.Session{}, f.err
	}
	return f.sess, nil
}

func (f *fakeSessionSource) DropIfToken(_ context.Context, accessToken string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped = append(f.dropped, accessToken)
	return nil
}

func (f *fakeSessionSource) droppedTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.dropped))
	copy(out, f.dropped)
	return out
}

type fakeSavedRepo struct {
	mu        sync.Mutex
	items     []saved.SavedJob
	listErr   error
	saveErr   error
	unsaveErr error
	saves     int
	unsaves   int
	lists     int

	// listGate, when set, blocks List until released. Lets tests hold a
	// flight open while more callers pile in.
	listGate chan struct{}
}

func (f *fakeSavedRepo) Save(_ context.Context, jobID int64, s session.Session) (saved.SavedJob, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saves++
	if f.saveErr != nil {
		return saved.SavedJob{}, f.saveErr
	}
	item := saved.SavedJob{ID: int64(len(f.items) + 1), JobID: jobID, UserID: s.User.ID, SavedAt: time.Now()}
	f.items = append(f.items, item)
	return item, nil
}

func (f *fakeSavedRepo) Unsave(_ context.Context, jobID int64, _ session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unsaves++
	if f.unsaveErr != nil {
		return f.unsaveErr
	}
	kept := f.items[:0]
	for _, item := range f.items {
		if item.JobID != jobID {
			kept = append(kept, item)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeSavedRepo) List(_ context.Context, _ session.Session) ([]saved.SavedJob, error) {
	if gate := f.gate(); gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]saved.SavedJob, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeSavedRepo) gate() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listGate
}

func (f *fakeSavedRepo) counts() (saves, unsaves, lists int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.saves, f.unsaves, f.lists
}

type fakeAppRepo struct {
	mu      sync.Mutex
	err     error
	creates []int64
	listed  []application.Application
	listErr error
}

func (f *fakeAppRepo) Create(_ context.Context, jobID int64, s session.Session) (application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, jobID)
	if f.err != nil {
		return application.Application{}, f.err
	}
	return application.Application{ID: int64(len(f.creates)), JobID: jobID, UserID: s.User.ID, Status: application.StatusPending}, nil
}

func (f *fakeAppRepo) List(context.Context, session.Session) ([]application.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listed, nil
}

func (f *fakeAppRepo) createCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.creates)
}

type fakeJobRepo struct {
	mu        sync.Mutex
	items     []job.Job
	listErr   error
	createErr error
	deleteErr error
	created   []job.Draft
	deleted   []int64
	keyword   string
	location  string
}

func (f *fakeJobRepo) List(_ context.Context, keyword, location string) ([]job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keyword, f.location = keyword, location
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.items, nil
}

func (f *fakeJobRepo) Create(_ context.Context, d job.Draft, _ session.Session) (job.Job, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, d)
	if f.createErr != nil {
		return job.Job{}, f.createErr
	}
	return job.Job{ID: int64(len(f.created)), Title: d.Title, Company: d.Company, Location: d.Location, Description: d.Description}, nil
}

func (f *fakeJobRepo) Delete(_ context.Context, id int64, _ session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, id)
	return f.deleteErr
}

func newTestInteraction(sessions *fakeSessionSource, jobs *fakeJobRepo, apps *fakeAppRepo, savedRepo *fakeSavedRepo) *Interaction {
	return NewInteraction(sessions, jobs, apps, savedRepo, zerolog.Nop())
}

func loggedIn() *fakeSessionSource {
	return &fakeSessionSource{sess: session.Session{
		AccessToken: "token-1",
		User:        session.UserSummary{ID: uuid.New(), Email: "user@example.com"},
	}}
}

func alwaysYes(context.Context, string) (bool, error) { return true, nil }
func alwaysNo(context.Context, string) (bool, error)  { return false, nil }

func TestInteraction_ToggleSave_RequiresSession(t *testing.T) {
	sessions := &fakeSessionSource{err: domain.ErrAuthRequired}
	savedRepo := &fakeSavedRepo{}
	u := newTestInteraction(sessions, &fakeJobRepo{}, &fakeAppRepo{}, savedRepo)

	if _, err := u.ToggleSave(context.Background(), 1); !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if _, _, lists := savedRepo.counts(); lists != 0 {
		t.Fatalf("expected no network activity without a session, got %d lists", lists)
	}
}

func TestInteraction_ToggleSave_SavesWhenAbsent(t *testing.T) {
	savedRepo := &fakeSavedRepo{}
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, &fakeAppRepo{}, savedRepo)

	res, err := u.ToggleSave(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if !res.Saved || res.AlreadySynced {
		t.Fatalf("expected fresh save, got %+v", res)
	}
	saves, unsaves, lists := savedRepo.counts()
	if saves != 1 || unsaves != 0 || lists != 1 {
		t.Fatalf("expected list then save, got saves=%d unsaves=%d lists=%d", saves, unsaves, lists)
	}
}

func TestInteraction_ToggleSave_UnsavesWhenPresent(t *testing.T) {
	userID := uuid.New()
	savedRepo := &fakeSavedRepo{items: []saved.SavedJob{{ID: 1, JobID: 7, UserID: userID}}}
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, &fakeAppRepo{}, savedRepo)

	res, err := u.ToggleSave(context.Background(), 7)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Saved {
		t.Fatalf("expected unsave, got %+v", res)
	}
	saves, unsaves, _ := savedRepo.counts()
	if saves != 0 || unsaves != 1 {
		t.Fatalf("expected a single unsave, got saves=%d unsaves=%d", saves, unsaves)
	}
}

func TestInteraction_ToggleSave_DuplicateSaveIsSuccess(t *testing.T) {
	savedRepo := &fakeSavedRepo{saveErr: domain.NewAPIError(409, "Job already saved", domain.ErrDuplicate)}
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, &fakeAppRepo{}, savedRepo)

	res, err := u.ToggleSave(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected duplicate save to resolve cleanly, got %v", err)
	}
	if !res.Saved || !res.AlreadySynced {
		t.Fatalf("expected saved+synced, got %+v", res)
	}
}

func TestInteraction_ToggleSave_VanishedBookmarkIsSuccess(t *testing.T) {
	savedRepo := &fakeSavedRepo{
		items:     []saved.SavedJob{{ID: 1, JobID: 7, UserID: uuid.New()}},
		unsaveErr: domain.NewAPIError(404, "Saved job not found", domain.ErrNotFound),
	}
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, &fakeAppRepo{}, savedRepo)

	res, err := u.ToggleSave(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected vanished bookmark to resolve cleanly, got %v", err)
	}
	if res.Saved || !res.AlreadySynced {
		t.Fatalf("expected unsaved+synced, got %+v", res)
	}
}

func TestInteraction_ToggleSave_UnauthorizedDropsExactToken(t *testing.T) {
	sessions := loggedIn()
	savedRepo := &fakeSavedRepo{listErr: domain.NewAPIError(401, "Invalid or expired token", domain.ErrUnauthorized)}
	u := newTestInteraction(sessions, &fakeJobRepo{}, &fakeAppRepo{}, savedRepo)

	_, err := u.ToggleSave(context.Background(), 7)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	dropped := sessions.droppedTokens()
	if len(dropped) != 1 || dropped[0] != "token-1" {
		t.Fatalf("expected exactly the used token dropped, got %v", dropped)
	}
}

func TestInteraction_ToggleSave_RejectsBadID(t *testing.T) {
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, &fakeAppRepo{}, &fakeSavedRepo{})
	if _, err := u.ToggleSave(context.Background(), 0); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInteraction_ToggleSave_CoalescesConcurrentCalls(t *testing.T) {
	savedRepo := &fakeSavedRepo{listGate: make(chan struct{})}
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, &fakeAppRepo{}, savedRepo)

	const callers = 8
	results := make(chan ToggleResult, callers)
	errs := make(chan error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := u.ToggleSave(context.Background(), 7)
			results <- res
			errs <- err
		}()
	}

	// All callers are either blocked inside List or waiting on the shared
	// flight. Releasing the gate lets the single flight finish.
	time.Sleep(50 * time.Millisecond)
	close(savedRepo.listGate)
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}
	for res := range results {
		if !res.Saved {
			t.Fatalf("every caller must see the shared outcome, got %+v", res)
		}
	}

	saves, _, lists := savedRepo.counts()
	if saves != 1 {
		t.Fatalf("expected one upstream save for %d concurrent toggles, got %d", callers, saves)
	}
	if lists != 1 {
		t.Fatalf("expected one snapshot fetch, got %d", lists)
	}
}

func TestInteraction_Apply_RequiresSessionBeforePrompt(t *testing.T) {
	sessions := &fakeSessionSource{err: domain.ErrAuthRequired}
	prompted := false
	u := newTestInteraction(sessions, &fakeJobRepo{}, &fakeAppRepo{}, &fakeSavedRepo{})

	_, err := u.Apply(context.Background(), 5, func(context.Context, string) (bool, error) {
		prompted = true
		return true, nil
	})
	if !errors.Is(err, domain.ErrAuthRequired) {
		t.Fatalf("expected ErrAuthRequired, got %v", err)
	}
	if prompted {
		t.Fatalf("prompt must not fire without a session")
	}
}

func TestInteraction_Apply_DeclinedMakesNoRequest(t *testing.T) {
	apps := &fakeAppRepo{}
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, apps, &fakeSavedRepo{})

	res, err := u.Apply(context.Background(), 5, alwaysNo)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Status != ApplyDeclined {
		t.Fatalf("expected declined, got %s", res.Status)
	}
	if apps.createCount() != 0 {
		t.Fatalf("expected no submission after decline, got %d", apps.createCount())
	}
}

func TestInteraction_Apply_Submits(t *testing.T) {
	apps := &fakeAppRepo{}
	var gotPrompt string
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, apps, &fakeSavedRepo{})

	res, err := u.Apply(context.Background(), 5, func(_ context.Context, prompt string) (bool, error) {
		gotPrompt = prompt
		return true, nil
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if res.Status != ApplySubmitted {
		t.Fatalf("expected submitted, got %s", res.Status)
	}
	if res.Application.JobID != 5 || res.Application.Status != application.StatusPending {
		t.Fatalf("expected pending application for job 5, got %+v", res.Application)
	}
	if gotPrompt == "" {
		t.Fatalf("expected a human-readable prompt")
	}
}

func TestInteraction_Apply_DuplicateIsAlreadyApplied(t *testing.T) {
	apps := &fakeAppRepo{err: domain.NewAPIError(400, "Already applied to this job", domain.ErrDuplicate)}
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, apps, &fakeSavedRepo{})

	res, err := u.Apply(context.Background(), 5, alwaysYes)
	if err != nil {
		t.Fatalf("expected duplicate to resolve cleanly, got %v", err)
	}
	if res.Status != ApplyAlreadyApplied {
		t.Fatalf("expected already_applied, got %s", res.Status)
	}
}

func TestInteraction_Apply_ConfirmFailureAborts(t *testing.T) {
	apps := &fakeAppRepo{}
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, apps, &fakeSavedRepo{})

	wantErr := errors.New("stdin closed")
	_, err := u.Apply(context.Background(), 5, func(context.Context, string) (bool, error) {
		return false, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected confirm error surfaced, got %v", err)
	}
	if apps.createCount() != 0 {
		t.Fatalf("expected no submission, got %d", apps.createCount())
	}
}

func TestInteraction_Apply_NilConfirmRejected(t *testing.T) {
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, &fakeAppRepo{}, &fakeSavedRepo{})
	if _, err := u.Apply(context.Background(), 5, nil); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestInteraction_Apply_UnauthorizedDropsSession(t *testing.T) {
	sessions := loggedIn()
	apps := &fakeAppRepo{err: domain.NewAPIError(401, "Invalid or expired token", domain.ErrUnauthorized)}
	u := newTestInteraction(sessions, &fakeJobRepo{}, apps, &fakeSavedRepo{})

	_, err := u.Apply(context.Background(), 5, alwaysYes)
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if dropped := sessions.droppedTokens(); len(dropped) != 1 {
		t.Fatalf("expected session dropped, got %v", dropped)
	}
}

func TestInteraction_PostJob_ValidatesBeforeSession(t *testing.T) {
	sessions := loggedIn()
	u := newTestInteraction(sessions, &fakeJobRepo{}, &fakeAppRepo{}, &fakeSavedRepo{})

	_, err := u.PostJob(context.Background(), job.Draft{Title: "Only a title"})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if sessions.calls != 0 {
		t.Fatalf("expected validation to fail before the session lookup, got %d calls", sessions.calls)
	}
}

func TestInteraction_PostJob_Creates(t *testing.T) {
	jobs := &fakeJobRepo{}
	u := newTestInteraction(loggedIn(), jobs, &fakeAppRepo{}, &fakeSavedRepo{})

	created, err := u.PostJob(context.Background(), job.Draft{
		Title: "Backend Engineer", Company: "Acme", Location: "Remote", Description: "Go services",
	})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if created.ID == 0 || created.Title != "Backend Engineer" {
		t.Fatalf("expected created job, got %+v", created)
	}
}

func TestInteraction_DeleteJob_ForbiddenKeepsSession(t *testing.T) {
	sessions := loggedIn()
	jobs := &fakeJobRepo{deleteErr: domain.NewAPIError(403, "Unauthorized to delete this job", domain.ErrForbidden)}
	u := newTestInteraction(sessions, jobs, &fakeAppRepo{}, &fakeSavedRepo{})

	err := u.DeleteJob(context.Background(), 3)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if dropped := sessions.droppedTokens(); len(dropped) != 0 {
		t.Fatalf("a 403 must not drop the session, got %v", dropped)
	}
}

func TestInteraction_Applications_UnauthorizedDropsSession(t *testing.T) {
	sessions := loggedIn()
	apps := &fakeAppRepo{listErr: domain.NewAPIError(401, "Invalid or expired token", domain.ErrUnauthorized)}
	u := newTestInteraction(sessions, &fakeJobRepo{}, apps, &fakeSavedRepo{})

	if _, err := u.Applications(context.Background()); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if dropped := sessions.droppedTokens(); len(dropped) != 1 {
		t.Fatalf("expected session dropped, got %v", dropped)
	}
}

func TestInteraction_SavedJobs_ReturnsSnapshotItems(t *testing.T) {
	savedRepo := &fakeSavedRepo{items: []saved.SavedJob{
		{ID: 1, JobID: 7, UserID: uuid.New()},
		{ID: 2, JobID: 9, UserID: uuid.New()},
	}}
	u := newTestInteraction(loggedIn(), &fakeJobRepo{}, &fakeAppRepo{}, savedRepo)

	items, err := u.SavedJobs(context.Background())
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 bookmarks, got %d", len(items))
	}
}
