package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

// Next steps shown on the student dashboard.
const (
	NextStepCompleteProfile     = "complete_profile"
	NextStepRegisterInternship  = "register_internship"
	NextStepApplyNOC            = "apply_noc"
	NextStepAwaitMentor         = "await_mentor_approval"
	NextStepAwaitHOD            = "await_hod_approval"
	NextStepDownloadCertificate = "download_certificate"
	NextStepContactMentor       = "contact_mentor"
)

type dashboardRepository interface {
	StudentView(ctx context.Context, userID string) (*models.StudentView, error)
	TeacherView(ctx context.Context, userID string) (*models.TeacherView, error)
	AllStudents(ctx context.Context) ([]models.StudentOverview, error)
}

type teacherLister interface {
	ListWithProfiles(ctx context.Context) ([]models.TeacherWithProfile, error)
}

type dashboardCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Repo     dashboardRepository
	Teachers teacherLister
	Cache    dashboardCache
	Logger   *zap.Logger
	Config   DashboardServiceConfig
}

// DashboardService composes the role dashboards. Each view is loaded by one
// aggregate query and cached per user until the next write.
type DashboardService struct {
	repo     dashboardRepository
	teachers teacherLister
	cache    dashboardCache
	logger   *zap.Logger
	cfg      DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Minute
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:     params.Repo,
		teachers: params.Teachers,
		cache:    params.Cache,
		logger:   logger,
		cfg:      cfg,
	}
}

// ForSession returns the dashboard of the session's role and whether it was
// served from cache.
func (s *DashboardService) ForSession(ctx context.Context, session *models.Session) (dto.Dashboard, bool, error) {
	if session == nil {
		return nil, false, appErrors.ErrUnauthorized
	}
	key := DashboardCacheKey(session.Role, session.UserID)

	switch session.Role {
	case models.RoleStudent:
		var cached dto.StudentDashboard
		if s.tryCache(ctx, key, &cached) {
			return &cached, true, nil
		}
		dash, err := s.Student(ctx, session)
		if err != nil {
			return nil, false, err
		}
		s.persistCache(ctx, key, dash)
		return dash, false, nil
	case models.RoleTeacher:
		var cached dto.TeacherDashboard
		if s.tryCache(ctx, key, &cached) {
			return &cached, true, nil
		}
		dash, err := s.Teacher(ctx, session)
		if err != nil {
			return nil, false, err
		}
		s.persistCache(ctx, key, dash)
		return dash, false, nil
	case models.RoleHOD:
		var cached dto.HODDashboard
		if s.tryCache(ctx, key, &cached) {
			return &cached, true, nil
		}
		dash, err := s.HOD(ctx, session)
		if err != nil {
			return nil, false, err
		}
		s.persistCache(ctx, key, dash)
		return dash, false, nil
	}
	return nil, false, appErrors.ErrProfileNotFound
}

// Student composes the student's own dashboard.
func (s *DashboardService) Student(ctx context.Context, session *models.Session) (*dto.StudentDashboard, error) {
	view, err := s.repo.StudentView(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrProfileNotFound
		}
		return nil, appErrors.Store(err, "failed to load student dashboard")
	}

	dash := &dto.StudentDashboard{Profile: profileInfo(view.Profile), NextStep: NextStepCompleteProfile}
	if view.Overview == nil {
		return dash, nil
	}
	ov := view.Overview
	dash.Student = &ov.Student
	dash.MentorName = ov.MentorName
	dash.Internship = ov.Internship
	dash.NOC = dto.NewApplicationView(ov.NOC, nil)
	dash.Evaluation = ov.Evaluation
	dash.NextStep = studentNextStep(ov)
	return dash, nil
}

// Teacher composes a mentor's dashboard.
func (s *DashboardService) Teacher(ctx context.Context, session *models.Session) (*dto.TeacherDashboard, error) {
	view, err := s.repo.TeacherView(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrProfileNotFound
		}
		return nil, appErrors.Store(err, "failed to load teacher dashboard")
	}

	stage := models.StageMentor
	dash := &dto.TeacherDashboard{
		Profile:          profileInfo(view.Profile),
		Teacher:          view.Teacher,
		Mentees:          make([]dto.StudentSummary, 0, len(view.Mentees)),
		PendingApprovals: []dto.StudentSummary{},
	}
	for _, ov := range view.Mentees {
		summary := summarize(ov, &stage)
		summary.CanEvaluate = ov.Internship != nil
		dash.Mentees = append(dash.Mentees, summary)
		if ov.NOC != nil && ov.NOC.Status == models.NOCStatusPending {
			dash.PendingApprovals = append(dash.PendingApprovals, summary)
		}
		if ov.Evaluation != nil {
			dash.Stats.Evaluated++
		}
	}
	dash.Stats.Mentees = len(dash.Mentees)
	dash.Stats.PendingApprovals = len(dash.PendingApprovals)
	return dash, nil
}

// HOD composes the department-wide dashboard.
func (s *DashboardService) HOD(ctx context.Context, session *models.Session) (*dto.HODDashboard, error) {
	overviews, err := s.repo.AllStudents(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to load student roster")
	}
	teachers, err := s.teachers.ListWithProfiles(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to load teachers")
	}

	stage := models.StageHOD
	dash := &dto.HODDashboard{
		Profile:          session.Info(),
		Teachers:         teachers,
		Students:         make([]dto.StudentSummary, 0, len(overviews)),
		PendingApprovals: []dto.StudentSummary{},
		Stats: dto.HODStats{
			Students:    len(overviews),
			Teachers:    len(teachers),
			NOCByStatus: map[models.NOCStatus]int{},
		},
	}
	if dash.Teachers == nil {
		dash.Teachers = []models.TeacherWithProfile{}
	}
	for _, status := range []models.NOCStatus{models.NOCStatusPending, models.NOCStatusMentorApproved, models.NOCStatusHODApproved, models.NOCStatusRejected} {
		dash.Stats.NOCByStatus[status] = 0
	}

	for _, ov := range overviews {
		summary := summarize(ov, &stage)
		dash.Students = append(dash.Students, summary)
		if ov.Internship != nil {
			dash.Stats.WithInternship++
		}
		if ov.Student.MentorID == nil {
			dash.Stats.WithoutMentor++
		}
		if ov.Evaluation != nil {
			dash.Stats.Evaluated++
		}
		if ov.NOC != nil {
			dash.Stats.NOCByStatus[ov.NOC.Status]++
			if ov.NOC.Status == models.NOCStatusMentorApproved {
				dash.PendingApprovals = append(dash.PendingApprovals, summary)
			}
		}
	}
	return dash, nil
}

func (s *DashboardService) tryCache(ctx context.Context, key string, dest interface{}) bool {
	if s.cache == nil {
		return false
	}
	hit, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		s.logger.Warn("dashboard cache read failed, loading from store", zap.String("key", key), zap.Error(err))
		return false
	}
	return hit
}

func (s *DashboardService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func summarize(ov models.StudentOverview, stage *models.ApprovalStage) dto.StudentSummary {
	return dto.StudentSummary{
		Student:    ov.Student,
		FullName:   ov.FullName,
		Email:      ov.Email,
		MentorName: ov.MentorName,
		Internship: ov.Internship,
		NOC:        dto.NewApplicationView(ov.NOC, stage),
		Evaluation: ov.Evaluation,
	}
}

func studentNextStep(ov *models.StudentOverview) string {
	switch {
	case ov.Internship == nil:
		return NextStepRegisterInternship
	case ov.NOC == nil:
		return NextStepApplyNOC
	}
	switch ov.NOC.Status {
	case models.NOCStatusPending:
		return NextStepAwaitMentor
	case models.NOCStatusMentorApproved:
		return NextStepAwaitHOD
	case models.NOCStatusHODApproved:
		return NextStepDownloadCertificate
	default:
		return NextStepContactMentor
	}
}

func profileInfo(p models.Profile) models.UserInfo {
	return models.UserInfo{ID: p.ID, Email: p.Email, FullName: p.DisplayName(), Role: p.Role}
}
