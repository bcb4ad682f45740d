package service

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/internal/repository"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
	"github.com/noah-isme/internship-noc-api/pkg/signedurl"
)

// memApplications mimics the conditional update of the store: a transition
// only applies while the stored status equals the expected one.
type memApplications struct {
	mu     sync.Mutex
	byID   map[string]*models.NOCApplication
	writes int
}

func newMemApplications(apps ...*models.NOCApplication) *memApplications {
	m := &memApplications{byID: map[string]*models.NOCApplication{}}
	for _, a := range apps {
		m.byID[a.ID] = a
	}
	return m
}

func (m *memApplications) Create(_ context.Context, app *models.NOCApplication) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.InternshipID == app.InternshipID {
			return repository.ErrDuplicate
		}
	}
	app.ID = "noc-" + app.StudentID
	clone := *app
	m.byID[app.ID] = &clone
	return nil
}

func (m *memApplications) FindByID(_ context.Context, id string) (*models.NOCApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if a, ok := m.byID[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memApplications) FindByStudentID(_ context.Context, studentID string) (*models.NOCApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.byID {
		if a.StudentID == studentID {
			clone := *a
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memApplications) Transition(_ context.Context, t models.NOCTransition) (*models.NOCApplication, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.byID[t.ApplicationID]
	if !ok || a.Status != t.From {
		return nil, sql.ErrNoRows
	}
	m.writes++
	a.Status = t.To
	a.UpdatedAt = t.UpdatedAt
	switch t.Stage {
	case models.StageMentor:
		a.MentorRemarks, a.MentorApprovedAt = t.Remarks, t.DecidedAt
	case models.StageHOD:
		a.HODRemarks, a.HODApprovedAt = t.Remarks, t.DecidedAt
	}
	clone := *a
	return &clone, nil
}

func (m *memApplications) ListQueue(_ context.Context, filter models.NOCFilter) ([]models.NOCQueueItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.NOCQueueItem
	for _, a := range m.byID {
		if a.Status == filter.Status {
			out = append(out, models.NOCQueueItem{NOCApplication: *a})
		}
	}
	return out, nil
}

type nocFixture struct {
	svc      *NOCService
	apps     *memApplications
	notifier *capturingNotifier
	cache    *countingInvalidator
	metrics  *MetricsService
}

func newNOCFixture(t *testing.T, apps ...*models.NOCApplication) nocFixture {
	t.Helper()
	mentor := "tch-1"
	name := "Asha Rai"
	students := newMemStudents(
		&models.Student{ID: "stu-1", UserID: "u1", MentorID: &mentor},
		&models.Student{ID: "stu-2", UserID: "u2"},
	)
	teachers := newMemTeachers(
		&models.Teacher{ID: "tch-1", UserID: "t1"},
		&models.Teacher{ID: "tch-2", UserID: "t2"},
	)
	internships := newMemInternships(&models.Internship{ID: "int-1", StudentID: "stu-1"})
	f := nocFixture{
		apps:     newMemApplications(apps...),
		notifier: &capturingNotifier{},
		cache:    &countingInvalidator{},
		metrics:  NewMetricsService(),
	}
	f.svc = NewNOCService(NOCServiceParams{
		Applications:   f.apps,
		Students:       students,
		Teachers:       teachers,
		Internships:    internships,
		Profiles:       stubProfiles{"u1": {ID: "u1", Email: "asha@example.edu", Role: models.RoleStudent, FullName: &name}},
		Cache:          f.cache,
		Notifier:       f.notifier,
		Signer:         signedurl.NewSigner("secret", time.Hour),
		Metrics:        f.metrics,
		CertificateURL: "https://api.example.edu/api/v1/certificates/",
	})
	return f
}

func pendingApp() *models.NOCApplication {
	return &models.NOCApplication{ID: "noc-1", StudentID: "stu-1", InternshipID: "int-1", DeclarationAccepted: true, Status: models.NOCStatusPending}
}

var (
	mentorSession      = &models.Session{UserID: "t1", Role: models.RoleTeacher}
	otherMentorSession = &models.Session{UserID: "t2", Role: models.RoleTeacher}
	hodSession         = &models.Session{UserID: "h1", Role: models.RoleHOD}
)

func TestNOCServiceSubmit(t *testing.T) {
	f := newNOCFixture(t)

	view, err := f.svc.Submit(context.Background(), studentSession("u1"), dto.NOCSubmitRequest{DeclarationAccepted: true})
	require.NoError(t, err)
	assert.Equal(t, models.NOCStatusPending, view.Status)
	assert.Equal(t, "int-1", view.InternshipID)
	assert.Empty(t, view.AllowedActions)
	assert.Equal(t, 1, f.cache.calls)

	_, err = f.svc.Submit(context.Background(), studentSession("u1"), dto.NOCSubmitRequest{DeclarationAccepted: true})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestNOCServiceSubmitPreconditions(t *testing.T) {
	f := newNOCFixture(t)

	_, err := f.svc.Submit(context.Background(), studentSession("u1"), dto.NOCSubmitRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = f.svc.Submit(context.Background(), studentSession("u2"), dto.NOCSubmitRequest{DeclarationAccepted: true})
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)

	_, err = f.svc.Submit(context.Background(), mentorSession, dto.NOCSubmitRequest{DeclarationAccepted: true})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestNOCServiceFullApproval(t *testing.T) {
	f := newNOCFixture(t, pendingApp())
	ctx := context.Background()

	view, err := f.svc.Decide(ctx, mentorSession, "noc-1", dto.DecisionRequest{Decision: models.DecisionApprove})
	require.NoError(t, err)
	assert.Equal(t, models.NOCStatusMentorApproved, view.Status)
	assert.NotNil(t, view.MentorApprovedAt)
	assert.Empty(t, view.AllowedActions)
	assert.Empty(t, f.notifier.sent)

	remarks := "Good to go"
	view, err = f.svc.Decide(ctx, hodSession, "noc-1", dto.DecisionRequest{Decision: models.DecisionApprove, Remarks: &remarks})
	require.NoError(t, err)
	assert.Equal(t, models.NOCStatusHODApproved, view.Status)
	assert.NotNil(t, view.HODApprovedAt)
	require.NotNil(t, view.HODRemarks)
	assert.Equal(t, remarks, *view.HODRemarks)

	require.Len(t, f.notifier.sent, 1)
	n := f.notifier.sent[0]
	assert.Equal(t, NotificationNOCApproved, n.Kind)
	assert.Equal(t, "asha@example.edu", n.To)
	assert.Contains(t, n.Body, "https://api.example.edu/api/v1/certificates/")

	assert.Equal(t, 2, f.cache.calls)
	assert.Equal(t, uint64(2), f.metrics.Snapshot().NOCTransitions)
}

func TestNOCServiceMentorRejectDefaultsRemarks(t *testing.T) {
	f := newNOCFixture(t, pendingApp())

	view, err := f.svc.Decide(context.Background(), mentorSession, "noc-1", dto.DecisionRequest{Decision: models.DecisionReject})
	require.NoError(t, err)
	assert.Equal(t, models.NOCStatusRejected, view.Status)
	require.NotNil(t, view.MentorRemarks)
	assert.Equal(t, models.DefaultMentorRejectRemarks, *view.MentorRemarks)
	assert.Nil(t, view.MentorApprovedAt)
}

func TestNOCServiceHODRejectKeepsMentorApproval(t *testing.T) {
	approvedAt := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	app := pendingApp()
	app.Status = models.NOCStatusMentorApproved
	app.MentorApprovedAt = &approvedAt
	f := newNOCFixture(t, app)

	view, err := f.svc.Decide(context.Background(), hodSession, "noc-1", dto.DecisionRequest{Decision: models.DecisionReject})
	require.NoError(t, err)
	assert.Equal(t, models.NOCStatusRejected, view.Status)
	assert.Nil(t, view.HODApprovedAt)
	assert.Nil(t, view.HODRemarks)
	assert.Equal(t, &approvedAt, view.MentorApprovedAt)
	assert.Empty(t, f.notifier.sent)
}

func TestNOCServiceRejectsInvalidTransitions(t *testing.T) {
	cases := []struct {
		name    string
		status  models.NOCStatus
		session *models.Session
	}{
		{"hod on pending", models.NOCStatusPending, hodSession},
		{"mentor on mentor approved", models.NOCStatusMentorApproved, mentorSession},
		{"mentor on rejected", models.NOCStatusRejected, mentorSession},
		{"hod on hod approved", models.NOCStatusHODApproved, hodSession},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := pendingApp()
			app.Status = tc.status
			f := newNOCFixture(t, app)

			for _, decision := range []models.Decision{models.DecisionApprove, models.DecisionReject} {
				_, err := f.svc.Decide(context.Background(), tc.session, "noc-1", dto.DecisionRequest{Decision: decision})
				assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
			}
			assert.Zero(t, f.apps.writes)
			assert.Equal(t, tc.status, f.apps.byID["noc-1"].Status)
		})
	}
}

func TestNOCServiceOnlyAssignedMentorDecides(t *testing.T) {
	f := newNOCFixture(t, pendingApp())

	_, err := f.svc.Decide(context.Background(), otherMentorSession, "noc-1", dto.DecisionRequest{Decision: models.DecisionApprove})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = f.svc.Decide(context.Background(), studentSession("u1"), "noc-1", dto.DecisionRequest{Decision: models.DecisionApprove})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Zero(t, f.apps.writes)
}

func TestNOCServiceDecideUnknownStudent(t *testing.T) {
	app := pendingApp()
	app.StudentID = "stu-gone"
	f := newNOCFixture(t, app)

	_, err := f.svc.Decide(context.Background(), hodSession, "noc-1", dto.DecisionRequest{Decision: models.DecisionApprove})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
	assert.Equal(t, "student not found", appErrors.FromError(err).Message)
	assert.Zero(t, f.apps.writes)
}

func TestNOCServiceRequiresDeclaration(t *testing.T) {
	app := pendingApp()
	app.DeclarationAccepted = false
	f := newNOCFixture(t, app)

	_, err := f.svc.Decide(context.Background(), mentorSession, "noc-1", dto.DecisionRequest{Decision: models.DecisionApprove})
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)
	assert.Zero(t, f.apps.writes)
}

func TestNOCServiceConcurrentDecisionsFirstWins(t *testing.T) {
	f := newNOCFixture(t, pendingApp())

	var wg sync.WaitGroup
	errs := make([]error, 2)
	decisions := []models.Decision{models.DecisionApprove, models.DecisionReject}
	for i := range decisions {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.svc.Decide(context.Background(), mentorSession, "noc-1", dto.DecisionRequest{Decision: decisions[i]})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, appErrors.ErrInvalidTransition)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, f.apps.writes)
}

func TestNOCServiceQueues(t *testing.T) {
	approved := pendingApp()
	approved.ID, approved.StudentID, approved.Status = "noc-2", "stu-2", models.NOCStatusMentorApproved
	f := newNOCFixture(t, pendingApp(), approved)

	queue, err := f.svc.Queue(context.Background(), mentorSession)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "noc-1", queue[0].ID)
	assert.Equal(t, []models.Decision{models.DecisionApprove, models.DecisionReject}, queue[0].AllowedActions)

	queue, err = f.svc.Queue(context.Background(), hodSession)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, "noc-2", queue[0].ID)

	_, err = f.svc.Queue(context.Background(), studentSession("u1"))
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}

func TestNOCServiceMine(t *testing.T) {
	f := newNOCFixture(t, pendingApp())

	view, err := f.svc.Mine(context.Background(), studentSession("u1"))
	require.NoError(t, err)
	assert.Equal(t, "noc-1", view.ID)

	_, err = f.svc.Mine(context.Background(), studentSession("u2"))
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
