package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/internal/repository"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

// CertificatePurpose scopes signed certificate download tokens.
const CertificatePurpose = "noc-certificate"

type nocRepository interface {
	Create(ctx context.Context, app *models.NOCApplication) error
	FindByID(ctx context.Context, id string) (*models.NOCApplication, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.NOCApplication, error)
	Transition(ctx context.Context, t models.NOCTransition) (*models.NOCApplication, error)
	ListQueue(ctx context.Context, filter models.NOCFilter) ([]models.NOCQueueItem, error)
}

type nocStudentRepository interface {
	studentFinder
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type internshipFinder interface {
	FindByStudentID(ctx context.Context, studentID string) (*models.Internship, error)
}

type tokenSigner interface {
	Generate(purpose, subjectID string) (string, time.Time, error)
}

// NOCServiceParams groups NOCService dependencies.
type NOCServiceParams struct {
	Applications nocRepository
	Students     nocStudentRepository
	Teachers     teacherFinder
	Internships  internshipFinder
	Profiles     profileFinder
	Cache        dashboardInvalidator
	Notifier     notifier
	Signer       tokenSigner
	Metrics      *MetricsService
	Validator    *validator.Validate
	Logger       *zap.Logger
	// CertificateURL is the absolute URL certificate tokens are appended to.
	CertificateURL string
}

// NOCService runs the NOC approval workflow: a student submits, the
// assigned mentor decides, then any HOD decides.
type NOCService struct {
	apps           nocRepository
	students       nocStudentRepository
	teachers       teacherFinder
	internships    internshipFinder
	profiles       profileFinder
	cache          dashboardInvalidator
	notifier       notifier
	signer         tokenSigner
	metrics        *MetricsService
	validator      *validator.Validate
	logger         *zap.Logger
	certificateURL string
	now            func() time.Time
}

// NewNOCService constructs a NOCService.
func NewNOCService(params NOCServiceParams) *NOCService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	return &NOCService{
		apps:           params.Applications,
		students:       params.Students,
		teachers:       params.Teachers,
		internships:    params.Internships,
		profiles:       params.Profiles,
		cache:          params.Cache,
		notifier:       params.Notifier,
		signer:         params.Signer,
		metrics:        params.Metrics,
		validator:      validate,
		logger:         logger,
		certificateURL: strings.TrimRight(params.CertificateURL, "/"),
		now:            time.Now,
	}
}

// Submit creates the session student's application in pending.
func (s *NOCService) Submit(ctx context.Context, session *models.Session, req dto.NOCSubmitRequest) (*dto.ApplicationView, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid application payload")
	}
	if !req.DeclarationAccepted {
		return nil, appErrors.Clone(appErrors.ErrValidation, "the declaration must be accepted")
	}

	student, err := loadStudent(ctx, s.students, session.UserID)
	if err != nil {
		return nil, err
	}
	internship, err := s.internships.FindByStudentID(ctx, student.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "register the internship before applying")
		}
		return nil, appErrors.Store(err, "failed to load internship")
	}

	app := &models.NOCApplication{
		StudentID:           student.ID,
		InternshipID:        internship.ID,
		Purpose:             normalizeOptional(req.Purpose),
		DeclarationAccepted: true,
		Status:              models.NOCStatusPending,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "an application already exists for this internship")
		}
		return nil, appErrors.Store(err, "failed to submit application")
	}

	invalidateDashboards(ctx, s.cache, s.logger)
	s.logger.Info("noc application submitted", zap.String("application_id", app.ID), zap.String("student_id", student.ID))
	return dto.NewApplicationView(app, nil), nil
}

// Mine returns the session student's application regardless of status.
func (s *NOCService) Mine(ctx context.Context, session *models.Session) (*dto.ApplicationView, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	student, err := loadStudent(ctx, s.students, session.UserID)
	if err != nil {
		return nil, err
	}
	app, err := s.apps.FindByStudentID(ctx, student.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no application submitted")
		}
		return nil, appErrors.Store(err, "failed to load application")
	}
	return dto.NewApplicationView(app, nil), nil
}

// Queue returns the applications awaiting the session's decision: pending
// applications of a mentor's mentees, or every mentor-approved application
// for the HOD.
func (s *NOCService) Queue(ctx context.Context, session *models.Session) ([]dto.QueueEntry, error) {
	if session == nil {
		return nil, appErrors.ErrUnauthorized
	}
	stage, ok := models.StageForRole(session.Role)
	if !ok {
		return nil, appErrors.ErrForbidden
	}

	filter := models.NOCFilter{Status: models.NOCStatusMentorApproved}
	if stage == models.StageMentor {
		teacher, err := loadTeacher(ctx, s.teachers, session.UserID)
		if err != nil {
			return nil, err
		}
		filter = models.NOCFilter{Status: models.NOCStatusPending, MentorID: teacher.ID}
	}

	items, err := s.apps.ListQueue(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list applications")
	}
	entries := make([]dto.QueueEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, dto.QueueEntry{
			NOCQueueItem:   item,
			AllowedActions: models.AllowedDecisions(item.Status, stage),
		})
	}
	return entries, nil
}

// Decide applies the session's decision at its approval stage. Only edges of
// the transition table are accepted and the write succeeds only if the
// application still holds the status the decision was made against.
func (s *NOCService) Decide(ctx context.Context, session *models.Session, applicationID string, req dto.DecisionRequest) (*dto.ApplicationView, error) {
	if session == nil {
		return nil, appErrors.ErrUnauthorized
	}
	stage, ok := models.StageForRole(session.Role)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only mentors and the HOD decide applications")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid decision payload")
	}

	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Store(err, "failed to load application")
	}
	student, err := s.students.FindByID(ctx, app.StudentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Store(err, "failed to load student")
	}

	if stage == models.StageMentor {
		teacher, err := loadTeacher(ctx, s.teachers, session.UserID)
		if err != nil {
			return nil, err
		}
		if !student.HasMentor(teacher.ID) {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "only the assigned mentor can decide this application")
		}
	}

	if !app.DeclarationAccepted {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "the applicant has not accepted the declaration")
	}

	to, ok := models.NextNOCStatus(app.Status, stage, req.Decision)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			fmt.Sprintf("cannot %s at %s stage while application is %s", req.Decision, stage, app.Status))
	}

	now := s.now().UTC()
	remarks := normalizeOptional(req.Remarks)
	if remarks == nil && stage == models.StageMentor && req.Decision == models.DecisionReject {
		def := models.DefaultMentorRejectRemarks
		remarks = &def
	}
	var decidedAt *time.Time
	if req.Decision == models.DecisionApprove {
		decidedAt = &now
	}

	updated, err := s.apps.Transition(ctx, models.NOCTransition{
		ApplicationID: app.ID,
		From:          app.Status,
		To:            to,
		Stage:         stage,
		Remarks:       remarks,
		DecidedAt:     decidedAt,
		UpdatedAt:     now,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "application was decided by someone else")
		}
		return nil, appErrors.Store(err, "failed to record decision")
	}

	s.metrics.RecordNOCTransition(app.Status, to)
	invalidateDashboards(ctx, s.cache, s.logger)
	s.logger.Info("noc application decided",
		zap.String("application_id", app.ID),
		zap.String("from", string(app.Status)),
		zap.String("to", string(to)),
		zap.String("actor", session.UserID))

	if to == models.NOCStatusHODApproved {
		s.notifyApproved(ctx, updated, student)
	}
	return dto.NewApplicationView(updated, &stage), nil
}

// notifyApproved tells the student the NOC was granted. It never fails the
// decision.
func (s *NOCService) notifyApproved(ctx context.Context, app *models.NOCApplication, student *models.Student) {
	if s.notifier == nil || s.profiles == nil {
		return
	}
	profile, err := s.profiles.FindProfile(ctx, student.UserID)
	if err != nil {
		s.logger.Warn("cannot notify student without profile", zap.String("student_id", student.ID), zap.Error(err))
		return
	}

	body := "Your internship No-Objection Certificate has been approved by the HOD."
	if link, err := s.CertificateLink(app.ID); err == nil && link != "" {
		body += " Download it from " + link
	} else if err != nil {
		s.logger.Warn("failed to sign certificate link", zap.String("application_id", app.ID), zap.Error(err))
	}

	if err := s.notifier.Notify(Notification{
		Kind:    NotificationNOCApproved,
		To:      profile.Email,
		ToName:  profile.DisplayName(),
		Subject: "Your NOC has been approved",
		Body:    body,
	}); err != nil {
		s.logger.Warn("approval notification not queued", zap.String("application_id", app.ID), zap.Error(err))
	}
}

// CertificateLink returns a signed download URL for an application's
// certificate. It is empty when no signer is configured.
func (s *NOCService) CertificateLink(applicationID string) (string, error) {
	if s.signer == nil || s.certificateURL == "" {
		return "", nil
	}
	token, _, err := s.signer.Generate(CertificatePurpose, applicationID)
	if err != nil {
		return "", err
	}
	return s.certificateURL + "/" + token, nil
}
