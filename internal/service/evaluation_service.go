package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type evaluationRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Evaluation, error)
	Upsert(ctx context.Context, evaluation *models.Evaluation) error
}

type evaluationStudentRepository interface {
	studentFinder
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// EvaluationService records mentor marks and derives totals and grades.
type EvaluationService struct {
	evaluations evaluationRepository
	students    evaluationStudentRepository
	teachers    teacherFinder
	internships internshipFinder
	cache       dashboardInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
	now         func() time.Time
}

// NewEvaluationService constructs an EvaluationService.
func NewEvaluationService(evaluations evaluationRepository, students evaluationStudentRepository, teachers teacherFinder, internships internshipFinder, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *EvaluationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationService{
		evaluations: evaluations,
		students:    students,
		teachers:    teachers,
		internships: internships,
		cache:       cache,
		validator:   validate,
		logger:      logger,
		now:         time.Now,
	}
}

// Save records the marks of a mentee. Only the student's assigned mentor may
// evaluate and the student must have registered an internship.
func (s *EvaluationService) Save(ctx context.Context, session *models.Session, studentID string, req dto.EvaluationRequest) (*models.Evaluation, error) {
	if err := requireRole(session, models.RoleTeacher); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "all three marks are required")
	}
	total, grade, err := ScoreEvaluation(*req.PresentationMarks, *req.ReportMarks, *req.VivaMarks)
	if err != nil {
		return nil, err
	}

	teacher, err := loadTeacher(ctx, s.teachers, session.UserID)
	if err != nil {
		return nil, err
	}
	student, err := s.findStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if !student.HasMentor(teacher.ID) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only the assigned mentor can evaluate this student")
	}
	internship, err := s.internships.FindByStudentID(ctx, student.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "student has not registered an internship")
		}
		return nil, appErrors.Store(err, "failed to load internship")
	}

	now := s.now().UTC()
	evaluation := &models.Evaluation{
		StudentID:         student.ID,
		InternshipID:      internship.ID,
		EvaluatorID:       teacher.ID,
		PresentationMarks: *req.PresentationMarks,
		ReportMarks:       *req.ReportMarks,
		VivaMarks:         *req.VivaMarks,
		TotalMarks:        total,
		Grade:             grade,
		Feedback:          normalizeOptional(req.Feedback),
		EvaluatedAt:       &now,
	}
	if existing, err := s.evaluations.FindByStudentID(ctx, student.ID); err == nil {
		evaluation.ID = existing.ID
		evaluation.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Store(err, "failed to load evaluation")
	}

	if err := s.evaluations.Upsert(ctx, evaluation); err != nil {
		return nil, appErrors.Store(err, "failed to save evaluation")
	}
	invalidateDashboards(ctx, s.cache, s.logger)
	s.logger.Info("evaluation saved", zap.String("student_id", student.ID), zap.Float64("total", total), zap.String("grade", grade))
	return evaluation, nil
}

// ForStudent returns the evaluation of a student visible to the session:
// the student themself, the assigned mentor or the HOD.
func (s *EvaluationService) ForStudent(ctx context.Context, session *models.Session, studentID string) (*models.Evaluation, error) {
	if session == nil {
		return nil, appErrors.ErrUnauthorized
	}
	student, err := s.findStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}

	switch session.Role {
	case models.RoleHOD:
	case models.RoleStudent:
		if student.UserID != session.UserID {
			return nil, appErrors.ErrForbidden
		}
	case models.RoleTeacher:
		teacher, err := loadTeacher(ctx, s.teachers, session.UserID)
		if err != nil {
			return nil, err
		}
		if !student.HasMentor(teacher.ID) {
			return nil, appErrors.ErrForbidden
		}
	default:
		return nil, appErrors.ErrForbidden
	}

	evaluation, err := s.evaluations.FindByStudentID(ctx, student.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student has not been evaluated")
		}
		return nil, appErrors.Store(err, "failed to load evaluation")
	}
	return evaluation, nil
}

// Mine returns the session student's own evaluation.
func (s *EvaluationService) Mine(ctx context.Context, session *models.Session) (*models.Evaluation, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	student, err := loadStudent(ctx, s.students, session.UserID)
	if err != nil {
		return nil, err
	}
	return s.ForStudent(ctx, session, student.ID)
}

func (s *EvaluationService) findStudent(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Store(err, "failed to load student")
	}
	return student, nil
}
