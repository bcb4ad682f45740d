package dto

import (
	"time"

	"github.com/noah-isme/internship-noc-api/internal/models"
)

// Dashboard is implemented by every role view. The concrete type is chosen
// once from the session role.
type Dashboard interface {
	Role() models.UserRole
}

// ApplicationView decorates a NOC application with the decisions the viewer
// may take on it right now.
type ApplicationView struct {
	models.NOCApplication
	AllowedActions []models.Decision `json:"allowed_actions"`
}

// NewApplicationView builds the view for a viewer acting at stage. A nil
// stage yields no actions.
func NewApplicationView(app *models.NOCApplication, stage *models.ApprovalStage) *ApplicationView {
	if app == nil {
		return nil
	}
	view := &ApplicationView{NOCApplication: *app, AllowedActions: []models.Decision{}}
	if stage != nil {
		view.AllowedActions = models.AllowedDecisions(app.Status, *stage)
	}
	return view
}

// QueueEntry is an application awaiting the viewer's decision.
type QueueEntry struct {
	models.NOCQueueItem
	AllowedActions []models.Decision `json:"allowed_actions"`
}

// StudentSummary is one student line on the teacher and HOD dashboards.
type StudentSummary struct {
	Student     models.Student     `json:"student"`
	FullName    *string            `json:"full_name,omitempty"`
	Email       string             `json:"email"`
	MentorName  *string            `json:"mentor_name,omitempty"`
	Internship  *models.Internship `json:"internship,omitempty"`
	NOC         *ApplicationView   `json:"noc,omitempty"`
	Evaluation  *models.Evaluation `json:"evaluation,omitempty"`
	CanEvaluate bool               `json:"can_evaluate"`
}

// StudentDashboard is the student's own view.
type StudentDashboard struct {
	Profile    models.UserInfo    `json:"profile"`
	Student    *models.Student    `json:"student,omitempty"`
	MentorName *string            `json:"mentor_name,omitempty"`
	Internship *models.Internship `json:"internship,omitempty"`
	NOC        *ApplicationView   `json:"noc,omitempty"`
	Evaluation *models.Evaluation `json:"evaluation,omitempty"`
	NextStep   string             `json:"next_step"`
}

// Role implements Dashboard.
func (StudentDashboard) Role() models.UserRole { return models.RoleStudent }

// TeacherStats counts mentee progress.
type TeacherStats struct {
	Mentees          int `json:"mentees"`
	PendingApprovals int `json:"pending_approvals"`
	Evaluated        int `json:"evaluated"`
}

// TeacherDashboard is a mentor's view of their mentees.
type TeacherDashboard struct {
	Profile          models.UserInfo  `json:"profile"`
	Teacher          *models.Teacher  `json:"teacher,omitempty"`
	Mentees          []StudentSummary `json:"mentees"`
	PendingApprovals []StudentSummary `json:"pending_approvals"`
	Stats            TeacherStats     `json:"stats"`
}

// Role implements Dashboard.
func (TeacherDashboard) Role() models.UserRole { return models.RoleTeacher }

// HODStats summarises the department.
type HODStats struct {
	Students       int                      `json:"students"`
	Teachers       int                      `json:"teachers"`
	WithInternship int                      `json:"with_internship"`
	WithoutMentor  int                      `json:"without_mentor"`
	Evaluated      int                      `json:"evaluated"`
	NOCByStatus    map[models.NOCStatus]int `json:"noc_by_status"`
}

// HODDashboard is the department-wide view.
type HODDashboard struct {
	Profile          models.UserInfo             `json:"profile"`
	Teachers         []models.TeacherWithProfile `json:"teachers"`
	Students         []StudentSummary            `json:"students"`
	PendingApprovals []StudentSummary            `json:"pending_approvals"`
	Stats            HODStats                    `json:"stats"`
}

// Role implements Dashboard.
func (HODDashboard) Role() models.UserRole { return models.RoleHOD }

// SystemMetrics is a lightweight snapshot of process counters.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	NOCTransitions           uint64    `json:"noc_transitions"`
	NotificationFailures     uint64    `json:"notification_failures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
