package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/internal/repository"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type teacherFinder interface {
	FindByUserID(ctx context.Context, userID string) (*models.Teacher, error)
}

type teacherRepository interface {
	teacherFinder
	FindByID(ctx context.Context, id string) (*models.Teacher, error)
	Upsert(ctx context.Context, teacher *models.Teacher) error
	ListWithProfiles(ctx context.Context) ([]models.TeacherWithProfile, error)
}

type studentRoster interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
	AssignMentor(ctx context.Context, studentID, teacherID string) error
	List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error)
}

// TeacherService covers faculty records, mentor assignment and the student
// roster.
type TeacherService struct {
	teachers  teacherRepository
	students  studentRoster
	cache     dashboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(teachers teacherRepository, students studentRoster, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{teachers: teachers, students: students, cache: cache, validator: validate, logger: logger}
}

// Me returns the teacher record of the session.
func (s *TeacherService) Me(ctx context.Context, session *models.Session) (*models.Teacher, error) {
	if err := requireRole(session, models.RoleTeacher, models.RoleHOD); err != nil {
		return nil, err
	}
	return loadTeacher(ctx, s.teachers, session.UserID)
}

// UpsertProfile creates or updates the teacher record of the session.
func (s *TeacherService) UpsertProfile(ctx context.Context, session *models.Session, req dto.TeacherProfileRequest) (*models.Teacher, error) {
	if err := requireRole(session, models.RoleTeacher, models.RoleHOD); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	teacher := &models.Teacher{
		UserID:      session.UserID,
		EmployeeID:  req.EmployeeID,
		Department:  req.Department,
		Designation: req.Designation,
		Phone:       normalizeOptional(req.Phone),
	}
	if err := s.teachers.Upsert(ctx, teacher); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "employee id already registered")
		}
		return nil, appErrors.Store(err, "failed to save teacher")
	}
	invalidateDashboards(ctx, s.cache, s.logger)
	return teacher, nil
}

// List returns every teacher with profile names.
func (s *TeacherService) List(ctx context.Context, session *models.Session) ([]models.TeacherWithProfile, error) {
	if err := requireRole(session, models.RoleHOD); err != nil {
		return nil, err
	}
	teachers, err := s.teachers.ListWithProfiles(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list teachers")
	}
	return teachers, nil
}

// ListStudents returns the roster visible to the session: every student for
// the HOD, the mentees of a teacher otherwise.
func (s *TeacherService) ListStudents(ctx context.Context, session *models.Session, filter models.StudentFilter) ([]models.StudentDetail, *models.Pagination, error) {
	if err := requireRole(session, models.RoleTeacher, models.RoleHOD); err != nil {
		return nil, nil, err
	}
	if session.Role == models.RoleTeacher {
		teacher, err := loadTeacher(ctx, s.teachers, session.UserID)
		if err != nil {
			return nil, nil, err
		}
		filter.MentorID = teacher.ID
	}

	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Store(err, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return students, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// AssignMentor makes an existing teacher the mentor of a student.
func (s *TeacherService) AssignMentor(ctx context.Context, session *models.Session, studentID string, req dto.AssignMentorRequest) (*models.Student, error) {
	if err := requireRole(session, models.RoleHOD); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor assignment")
	}

	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Store(err, "failed to load teacher")
	}
	if err := s.students.AssignMentor(ctx, studentID, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Store(err, "failed to assign mentor")
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to reload student")
	}
	invalidateDashboards(ctx, s.cache, s.logger)
	s.logger.Info("mentor assigned", zap.String("student_id", studentID), zap.String("teacher_id", req.TeacherID))
	return student, nil
}

func loadTeacher(ctx context.Context, repo teacherFinder, userID string) (*models.Teacher, error) {
	teacher, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher profile not found")
		}
		return nil, appErrors.Store(err, "failed to load teacher")
	}
	return teacher, nil
}
