package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type memEvaluations struct {
	byStudent map[string]*models.Evaluation
}

func (m *memEvaluations) FindByStudentID(_ context.Context, studentID string) (*models.Evaluation, error) {
	if e, ok := m.byStudent[studentID]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (m *memEvaluations) Upsert(_ context.Context, evaluation *models.Evaluation) error {
	if evaluation.ID == "" {
		evaluation.ID = "eval-" + evaluation.StudentID
	}
	m.byStudent[evaluation.StudentID] = evaluation
	return nil
}

func marks(p, r, v float64) dto.EvaluationRequest {
	return dto.EvaluationRequest{PresentationMarks: &p, ReportMarks: &r, VivaMarks: &v}
}

func newEvaluationFixture() (*EvaluationService, *memEvaluations, *countingInvalidator) {
	mentor := "tch-1"
	students := newMemStudents(
		&models.Student{ID: "stu-1", UserID: "u1", MentorID: &mentor},
		&models.Student{ID: "stu-2", UserID: "u2", MentorID: &mentor},
	)
	teachers := newMemTeachers(&models.Teacher{ID: "tch-1", UserID: "t1"}, &models.Teacher{ID: "tch-2", UserID: "t2"})
	internships := newMemInternships(&models.Internship{ID: "int-1", StudentID: "stu-1"})
	evaluations := &memEvaluations{byStudent: map[string]*models.Evaluation{}}
	cache := &countingInvalidator{}
	return NewEvaluationService(evaluations, students, teachers, internships, cache, nil, nil), evaluations, cache
}

func TestEvaluationServiceSaveComputesGrade(t *testing.T) {
	svc, store, cache := newEvaluationFixture()

	evaluation, err := svc.Save(context.Background(), mentorSession, "stu-1", marks(28, 35, 25))
	require.NoError(t, err)
	assert.Equal(t, 88.0, evaluation.TotalMarks)
	assert.Equal(t, "A", evaluation.Grade)
	assert.Equal(t, "tch-1", evaluation.EvaluatorID)
	assert.Equal(t, "int-1", evaluation.InternshipID)
	assert.NotNil(t, evaluation.EvaluatedAt)
	assert.Equal(t, 1, cache.calls)

	again, err := svc.Save(context.Background(), mentorSession, "stu-1", marks(30, 40, 30))
	require.NoError(t, err)
	assert.Equal(t, evaluation.ID, again.ID)
	assert.Equal(t, "A+", store.byStudent["stu-1"].Grade)
}

func TestEvaluationServiceSaveRejects(t *testing.T) {
	svc, store, _ := newEvaluationFixture()
	ctx := context.Background()

	_, err := svc.Save(ctx, mentorSession, "stu-1", marks(31, 0, 0))
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Save(ctx, mentorSession, "stu-1", dto.EvaluationRequest{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Save(ctx, otherMentorSession, "stu-1", marks(10, 10, 10))
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Save(ctx, hodSession, "stu-1", marks(10, 10, 10))
	assert.ErrorIs(t, err, appErrors.ErrForbidden)

	_, err = svc.Save(ctx, mentorSession, "stu-2", marks(10, 10, 10))
	assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed)

	_, err = svc.Save(ctx, mentorSession, "missing", marks(10, 10, 10))
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	assert.Empty(t, store.byStudent)
}

func TestEvaluationServiceVisibility(t *testing.T) {
	svc, _, _ := newEvaluationFixture()
	ctx := context.Background()
	_, err := svc.Save(ctx, mentorSession, "stu-1", marks(20, 20, 20))
	require.NoError(t, err)

	_, err = svc.ForStudent(ctx, hodSession, "stu-1")
	assert.NoError(t, err)
	_, err = svc.Mine(ctx, studentSession("u1"))
	assert.NoError(t, err)
	_, err = svc.ForStudent(ctx, studentSession("u2"), "stu-1")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	_, err = svc.ForStudent(ctx, otherMentorSession, "stu-1")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	_, err = svc.Mine(ctx, studentSession("u2"))
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
