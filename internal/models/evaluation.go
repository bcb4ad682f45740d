package models

import "time"

// Mark bounds per evaluation component.
const (
	MaxPresentationMarks = 30
	MaxReportMarks       = 40
	MaxVivaMarks         = 30
)

// Evaluation stores the marks awarded by a mentor for an internship.
type Evaluation struct {
	ID                string     `db:"id" json:"id"`
	StudentID         string     `db:"student_id" json:"student_id"`
	InternshipID      string     `db:"internship_id" json:"internship_id"`
	EvaluatorID       string     `db:"evaluator_id" json:"evaluator_id"`
	PresentationMarks float64    `db:"presentation_marks" json:"presentation_marks"`
	ReportMarks       float64    `db:"report_marks" json:"report_marks"`
	VivaMarks         float64    `db:"viva_marks" json:"viva_marks"`
	TotalMarks        float64    `db:"total_marks" json:"total_marks"`
	Grade             string     `db:"grade" json:"grade"`
	Feedback          *string    `db:"feedback" json:"feedback,omitempty"`
	EvaluatedAt       *time.Time `db:"evaluated_at" json:"evaluated_at,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
