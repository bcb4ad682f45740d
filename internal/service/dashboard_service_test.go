package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type stubDashboardRepo struct {
	student   *models.StudentView
	teacher   *models.TeacherView
	all       []models.StudentOverview
	loadCount int
}

func (s *stubDashboardRepo) StudentView(_ context.Context, userID string) (*models.StudentView, error) {
	s.loadCount++
	if s.student == nil || s.student.Profile.ID != userID {
		return nil, sql.ErrNoRows
	}
	return s.student, nil
}

func (s *stubDashboardRepo) TeacherView(_ context.Context, userID string) (*models.TeacherView, error) {
	s.loadCount++
	if s.teacher == nil || s.teacher.Profile.ID != userID {
		return nil, sql.ErrNoRows
	}
	return s.teacher, nil
}

func (s *stubDashboardRepo) AllStudents(context.Context) ([]models.StudentOverview, error) {
	s.loadCount++
	return s.all, nil
}

type jsonCache struct {
	entries map[string][]byte
}

func (c *jsonCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := c.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *jsonCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.entries[key] = raw
	return nil
}

func overviewWith(status models.NOCStatus, mentor *string, evaluated bool) models.StudentOverview {
	ov := models.StudentOverview{
		Student:    models.Student{ID: "stu-" + string(status), MentorID: mentor},
		Internship: &models.Internship{ID: "int-" + string(status)},
		NOC:        &models.NOCApplication{ID: "noc-" + string(status), Status: status},
	}
	if evaluated {
		ov.Evaluation = &models.Evaluation{Grade: "A"}
	}
	return ov
}

func TestDashboardServiceStudentNextSteps(t *testing.T) {
	cases := []struct {
		overview *models.StudentOverview
		want     string
	}{
		{nil, NextStepCompleteProfile},
		{&models.StudentOverview{}, NextStepRegisterInternship},
		{&models.StudentOverview{Internship: &models.Internship{}}, NextStepApplyNOC},
		{&models.StudentOverview{Internship: &models.Internship{}, NOC: &models.NOCApplication{Status: models.NOCStatusPending}}, NextStepAwaitMentor},
		{&models.StudentOverview{Internship: &models.Internship{}, NOC: &models.NOCApplication{Status: models.NOCStatusMentorApproved}}, NextStepAwaitHOD},
		{&models.StudentOverview{Internship: &models.Internship{}, NOC: &models.NOCApplication{Status: models.NOCStatusHODApproved}}, NextStepDownloadCertificate},
		{&models.StudentOverview{Internship: &models.Internship{}, NOC: &models.NOCApplication{Status: models.NOCStatusRejected}}, NextStepContactMentor},
	}
	for _, tc := range cases {
		repo := &stubDashboardRepo{student: &models.StudentView{
			Profile:  models.Profile{ID: "u1", Role: models.RoleStudent},
			Overview: tc.overview,
		}}
		svc := NewDashboardService(DashboardServiceParams{Repo: repo})

		dash, err := svc.Student(context.Background(), studentSession("u1"))
		require.NoError(t, err)
		assert.Equal(t, tc.want, dash.NextStep)
		if dash.NOC != nil {
			assert.Empty(t, dash.NOC.AllowedActions)
		}
	}
}

func TestDashboardServiceMissingProfile(t *testing.T) {
	svc := NewDashboardService(DashboardServiceParams{Repo: &stubDashboardRepo{}})

	_, _, err := svc.ForSession(context.Background(), studentSession("ghost"))
	assert.ErrorIs(t, err, appErrors.ErrProfileNotFound)

	_, _, err = svc.ForSession(context.Background(), &models.Session{UserID: "t9", Role: models.RoleTeacher})
	assert.ErrorIs(t, err, appErrors.ErrProfileNotFound)
}

func TestDashboardServiceTeacherQueue(t *testing.T) {
	mentor := "tch-1"
	repo := &stubDashboardRepo{teacher: &models.TeacherView{
		Profile: models.Profile{ID: "t1", Role: models.RoleTeacher},
		Teacher: &models.Teacher{ID: "tch-1"},
		Mentees: []models.StudentOverview{
			overviewWith(models.NOCStatusPending, &mentor, false),
			overviewWith(models.NOCStatusHODApproved, &mentor, true),
			{Student: models.Student{ID: "stu-new", MentorID: &mentor}},
		},
	}}
	svc := NewDashboardService(DashboardServiceParams{Repo: repo})

	dash, err := svc.Teacher(context.Background(), mentorSession)
	require.NoError(t, err)
	assert.Equal(t, dto.TeacherStats{Mentees: 3, PendingApprovals: 1, Evaluated: 1}, dash.Stats)
	require.Len(t, dash.PendingApprovals, 1)
	assert.Equal(t, []models.Decision{models.DecisionApprove, models.DecisionReject}, dash.PendingApprovals[0].NOC.AllowedActions)
	assert.Empty(t, dash.Mentees[1].NOC.AllowedActions)
	assert.True(t, dash.Mentees[0].CanEvaluate)
	assert.False(t, dash.Mentees[2].CanEvaluate)
	assert.Nil(t, dash.Mentees[2].NOC)
}

func TestDashboardServiceHODStats(t *testing.T) {
	mentor := "tch-1"
	repo := &stubDashboardRepo{all: []models.StudentOverview{
		overviewWith(models.NOCStatusPending, &mentor, false),
		overviewWith(models.NOCStatusMentorApproved, &mentor, false),
		overviewWith(models.NOCStatusHODApproved, &mentor, true),
		{Student: models.Student{ID: "stu-loose"}},
	}}
	svc := NewDashboardService(DashboardServiceParams{Repo: repo, Teachers: &memTeachers{byUser: map[string]*models.Teacher{"t1": {ID: "tch-1", UserID: "t1"}}}})

	dash, err := svc.HOD(context.Background(), hodSession)
	require.NoError(t, err)
	assert.Equal(t, 4, dash.Stats.Students)
	assert.Equal(t, 1, dash.Stats.Teachers)
	assert.Equal(t, 3, dash.Stats.WithInternship)
	assert.Equal(t, 1, dash.Stats.WithoutMentor)
	assert.Equal(t, 1, dash.Stats.Evaluated)
	assert.Equal(t, map[models.NOCStatus]int{
		models.NOCStatusPending: 1, models.NOCStatusMentorApproved: 1, models.NOCStatusHODApproved: 1, models.NOCStatusRejected: 0,
	}, dash.Stats.NOCByStatus)
	require.Len(t, dash.PendingApprovals, 1)
	assert.Equal(t, "noc-mentor_approved", dash.PendingApprovals[0].NOC.ID)
	assert.Equal(t, []models.Decision{models.DecisionApprove, models.DecisionReject}, dash.PendingApprovals[0].NOC.AllowedActions)
	assert.Empty(t, dash.Students[0].NOC.AllowedActions)
}

func TestDashboardServiceCachesPerUser(t *testing.T) {
	repo := &stubDashboardRepo{student: &models.StudentView{Profile: models.Profile{ID: "u1", Role: models.RoleStudent}}}
	cache := &jsonCache{entries: map[string][]byte{}}
	svc := NewDashboardService(DashboardServiceParams{Repo: repo, Cache: cache})

	first, hit, err := svc.ForSession(context.Background(), studentSession("u1"))
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, models.RoleStudent, first.Role())
	assert.Contains(t, cache.entries, "dash:student:u1")

	second, hit, err := svc.ForSession(context.Background(), studentSession("u1"))
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first.(*dto.StudentDashboard).NextStep, second.(*dto.StudentDashboard).NextStep)
	assert.Equal(t, 1, repo.loadCount)
}
