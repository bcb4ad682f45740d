package models

import "time"

// NOCStatus is the approval state of a NOC application.
type NOCStatus string

const (
	NOCStatusPending        NOCStatus = "pending"
	NOCStatusMentorApproved NOCStatus = "mentor_approved"
	NOCStatusHODApproved    NOCStatus = "hod_approved"
	NOCStatusRejected       NOCStatus = "rejected"
)

// Terminal reports whether no further transition can leave the status.
func (s NOCStatus) Terminal() bool {
	return s == NOCStatusHODApproved || s == NOCStatusRejected
}

// Valid reports whether s is a known status.
func (s NOCStatus) Valid() bool {
	switch s {
	case NOCStatusPending, NOCStatusMentorApproved, NOCStatusHODApproved, NOCStatusRejected:
		return true
	}
	return false
}

// ApprovalStage identifies who is deciding.
type ApprovalStage string

const (
	StageMentor ApprovalStage = "mentor"
	StageHOD    ApprovalStage = "hod"
)

// StageForRole maps a role to the approval stage it acts at.
func StageForRole(role UserRole) (ApprovalStage, bool) {
	switch role {
	case RoleTeacher:
		return StageMentor, true
	case RoleHOD:
		return StageHOD, true
	}
	return "", false
}

// Decision is the verdict of an approval stage.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

type transitionKey struct {
	from     NOCStatus
	stage    ApprovalStage
	decision Decision
}

// nocTransitions is the complete set of permitted edges.
var nocTransitions = map[transitionKey]NOCStatus{
	{NOCStatusPending, StageMentor, DecisionApprove}:     NOCStatusMentorApproved,
	{NOCStatusPending, StageMentor, DecisionReject}:      NOCStatusRejected,
	{NOCStatusMentorApproved, StageHOD, DecisionApprove}: NOCStatusHODApproved,
	{NOCStatusMentorApproved, StageHOD, DecisionReject}:  NOCStatusRejected,
}

// NextNOCStatus resolves the target status for a decision taken at stage
// while the application is in from. ok is false when the edge does not exist.
func NextNOCStatus(from NOCStatus, stage ApprovalStage, decision Decision) (NOCStatus, bool) {
	to, ok := nocTransitions[transitionKey{from: from, stage: stage, decision: decision}]
	return to, ok
}

// AllowedDecisions lists the decisions stage may take on an application in status.
func AllowedDecisions(status NOCStatus, stage ApprovalStage) []Decision {
	decisions := make([]Decision, 0, 2)
	for _, d := range []Decision{DecisionApprove, DecisionReject} {
		if _, ok := NextNOCStatus(status, stage, d); ok {
			decisions = append(decisions, d)
		}
	}
	return decisions
}

// DefaultMentorRejectRemarks is recorded when a mentor rejects without remarks.
const DefaultMentorRejectRemarks = "Rejected by mentor"

// NOCApplication is a student's request for a No-Objection-Certificate.
type NOCApplication struct {
	ID                  string     `db:"id" json:"id"`
	StudentID           string     `db:"student_id" json:"student_id"`
	InternshipID        string     `db:"internship_id" json:"internship_id"`
	Purpose             *string    `db:"purpose" json:"purpose,omitempty"`
	DeclarationAccepted bool       `db:"declaration_accepted" json:"declaration_accepted"`
	Status              NOCStatus  `db:"status" json:"status"`
	MentorRemarks       *string    `db:"mentor_remarks" json:"mentor_remarks,omitempty"`
	HODRemarks          *string    `db:"hod_remarks" json:"hod_remarks,omitempty"`
	MentorApprovedAt    *time.Time `db:"mentor_approved_at" json:"mentor_approved_at,omitempty"`
	HODApprovedAt       *time.Time `db:"hod_approved_at" json:"hod_approved_at,omitempty"`
	CreatedAt           time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at" json:"updated_at"`
}

// NOCTransition is the write produced by a decision. It is applied only when
// the stored status still equals From.
type NOCTransition struct {
	ApplicationID string        `db:"id"`
	From          NOCStatus     `db:"from_status"`
	To            NOCStatus     `db:"to_status"`
	Stage         ApprovalStage `db:"-"`
	Remarks       *string       `db:"remarks"`
	DecidedAt     *time.Time    `db:"decided_at"`
	UpdatedAt     time.Time     `db:"updated_at"`
}

// NOCQueueItem is a row of a mentor or HOD pending queue.
type NOCQueueItem struct {
	NOCApplication
	StudentName      *string `db:"student_name" json:"student_name,omitempty"`
	StudentEmail     string  `db:"student_email" json:"student_email"`
	EnrollmentNumber string  `db:"enrollment_number" json:"enrollment_number"`
	Department       string  `db:"department" json:"department"`
	Semester         int     `db:"semester" json:"semester"`
	CompanyName      string  `db:"company_name" json:"company_name"`
	JoiningDate      Date    `db:"joining_date" json:"joining_date"`
	CompletionDate   Date    `db:"completion_date" json:"completion_date"`
	MentorID         *string `db:"mentor_id" json:"mentor_id,omitempty"`
}

// NOCFilter scopes NOC queue queries.
type NOCFilter struct {
	Status   NOCStatus
	MentorID string
}
