package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/internal/repository"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type studentFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.Student, error)
}

type studentRepository interface {
	studentFinder
	Upsert(ctx context.Context, student *models.Student) error
}

type internshipRepository interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Internship, error)
	Upsert(ctx context.Context, internship *models.Internship) error
}

type dashboardInvalidator interface {
	InvalidateDashboards(ctx context.Context) error
}

// StudentService handles the student's own records.
type StudentService struct {
	students    studentRepository
	internships internshipRepository
	cache       dashboardInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(students studentRepository, internships internshipRepository, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, internships: internships, cache: cache, validator: validate, logger: logger}
}

// Me returns the student record of the session.
func (s *StudentService) Me(ctx context.Context, session *models.Session) (*models.Student, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	return loadStudent(ctx, s.students, session.UserID)
}

// UpsertProfile creates or updates the student record of the session.
func (s *StudentService) UpsertProfile(ctx context.Context, session *models.Session, req dto.StudentProfileRequest) (*models.Student, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student := &models.Student{
		UserID:            session.UserID,
		EnrollmentNumber:  req.EnrollmentNumber,
		Semester:          req.Semester,
		Section:           normalizeOptional(req.Section),
		Department:        req.Department,
		Address:           normalizeOptional(req.Address),
		Phone:             normalizeOptional(req.Phone),
		FathersName:       normalizeOptional(req.FathersName),
		FathersContact:    normalizeOptional(req.FathersContact),
		FathersOccupation: normalizeOptional(req.FathersOccupation),
		MothersName:       normalizeOptional(req.MothersName),
		MothersContact:    normalizeOptional(req.MothersContact),
		MothersOccupation: normalizeOptional(req.MothersOccupation),
		TenthPercentage:   req.TenthPercentage,
		TenthBoard:        normalizeOptional(req.TenthBoard),
		TenthYear:         req.TenthYear,
		TwelfthPercentage: req.TwelfthPercentage,
		TwelfthBoard:      normalizeOptional(req.TwelfthBoard),
		TwelfthYear:       req.TwelfthYear,
		CGPA:              req.CGPA,
	}
	if existing, err := s.students.FindByUserID(ctx, session.UserID); err == nil {
		student.ID = existing.ID
		student.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Store(err, "failed to load student")
	}

	if err := s.students.Upsert(ctx, student); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "enrollment number already registered")
		}
		return nil, appErrors.Store(err, "failed to save student")
	}
	invalidateDashboards(ctx, s.cache, s.logger)
	return student, nil
}

// Internship returns the internship of the session's student.
func (s *StudentService) Internship(ctx context.Context, session *models.Session) (*models.Internship, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	student, err := loadStudent(ctx, s.students, session.UserID)
	if err != nil {
		return nil, err
	}
	internship, err := s.internships.FindByStudentID(ctx, student.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "internship not registered")
		}
		return nil, appErrors.Store(err, "failed to load internship")
	}
	return internship, nil
}

// UpsertInternship registers or replaces the internship of the session's
// student. The completion date and duration are always derived from the
// joining date.
func (s *StudentService) UpsertInternship(ctx context.Context, session *models.Session, req dto.InternshipRequest) (*models.Internship, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid internship payload")
	}
	joining, err := models.ParseDate(req.JoiningDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "joining_date must be a calendar date")
	}

	student, err := loadStudent(ctx, s.students, session.UserID)
	if err != nil {
		if errors.Is(err, appErrors.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "complete the student profile before registering an internship")
		}
		return nil, err
	}

	internship := &models.Internship{
		StudentID:                student.ID,
		InternshipType:           req.InternshipType,
		CompanyName:              req.CompanyName,
		CompanyAddress:           normalizeOptional(req.CompanyAddress),
		CompanyWebsite:           normalizeOptional(req.CompanyWebsite),
		GuideName:                normalizeOptional(req.GuideName),
		GuideEmail:               normalizeOptional(req.GuideEmail),
		GuideContact:             normalizeOptional(req.GuideContact),
		JoiningDate:              joining,
		Stipend:                  req.Stipend,
		OfferLetterURL:           normalizeOptional(req.OfferLetterURL),
		CompletionCertificateURL: normalizeOptional(req.CompletionCertificateURL),
	}
	internship.ApplySchedule()

	if existing, err := s.internships.FindByStudentID(ctx, student.ID); err == nil {
		internship.ID = existing.ID
		internship.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Store(err, "failed to load internship")
	}

	if err := s.internships.Upsert(ctx, internship); err != nil {
		return nil, appErrors.Store(err, "failed to save internship")
	}
	invalidateDashboards(ctx, s.cache, s.logger)
	return internship, nil
}

func loadStudent(ctx context.Context, repo studentFinder, userID string) (*models.Student, error) {
	student, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student profile not found")
		}
		return nil, appErrors.Store(err, "failed to load student")
	}
	return student, nil
}

func requireRole(session *models.Session, roles ...models.UserRole) error {
	if session == nil {
		return appErrors.ErrUnauthorized
	}
	for _, role := range roles {
		if session.Role == role {
			return nil
		}
	}
	return appErrors.ErrForbidden
}

// invalidateDashboards drops every cached dashboard after a write. Failures
// only leave stale entries until the TTL expires.
func invalidateDashboards(ctx context.Context, cache dashboardInvalidator, logger *zap.Logger) {
	if cache == nil {
		return
	}
	if err := cache.InvalidateDashboards(ctx); err != nil {
		logger.Warn("failed to invalidate dashboard cache", zap.Error(err))
	}
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
