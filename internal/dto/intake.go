package dto

import "github.com/noah-isme/internship-noc-api/internal/models"

// StudentProfileRequest upserts the caller's student record. The mentor is
// assigned by the HOD and cannot be set here.
type StudentProfileRequest struct {
	EnrollmentNumber  string   `json:"enrollment_number" validate:"required,max=32"`
	Semester          int      `json:"semester" validate:"required,min=1,max=10"`
	Section           *string  `json:"section" validate:"omitempty,max=8"`
	Department        string   `json:"department" validate:"required,max=120"`
	Address           *string  `json:"address" validate:"omitempty,max=500"`
	Phone             *string  `json:"phone" validate:"omitempty,max=20"`
	FathersName       *string  `json:"fathers_name" validate:"omitempty,max=120"`
	FathersContact    *string  `json:"fathers_contact" validate:"omitempty,max=20"`
	FathersOccupation *string  `json:"fathers_occupation" validate:"omitempty,max=120"`
	MothersName       *string  `json:"mothers_name" validate:"omitempty,max=120"`
	MothersContact    *string  `json:"mothers_contact" validate:"omitempty,max=20"`
	MothersOccupation *string  `json:"mothers_occupation" validate:"omitempty,max=120"`
	TenthPercentage   *float64 `json:"tenth_percentage" validate:"omitempty,min=0,max=100"`
	TenthBoard        *string  `json:"tenth_board" validate:"omitempty,max=120"`
	TenthYear         *int     `json:"tenth_year" validate:"omitempty,min=1950,max=2100"`
	TwelfthPercentage *float64 `json:"twelfth_percentage" validate:"omitempty,min=0,max=100"`
	TwelfthBoard      *string  `json:"twelfth_board" validate:"omitempty,max=120"`
	TwelfthYear       *int     `json:"twelfth_year" validate:"omitempty,min=1950,max=2100"`
	CGPA              *float64 `json:"cgpa" validate:"omitempty,min=0,max=10"`
}

// InternshipRequest upserts the caller's internship. Completion date and
// duration are always derived server-side; joining_date accepts YYYY-MM-DD
// or an RFC3339 timestamp.
type InternshipRequest struct {
	InternshipType           models.InternshipType `json:"internship_type" validate:"required,oneof=self_arranged tnp_arranged smit_inhouse"`
	CompanyName              string                `json:"company_name" validate:"required,max=200"`
	CompanyAddress           *string               `json:"company_address" validate:"omitempty,max=500"`
	CompanyWebsite           *string               `json:"company_website" validate:"omitempty,url"`
	GuideName                *string               `json:"guide_name" validate:"omitempty,max=120"`
	GuideEmail               *string               `json:"guide_email" validate:"omitempty,email"`
	GuideContact             *string               `json:"guide_contact" validate:"omitempty,max=20"`
	JoiningDate              string                `json:"joining_date" validate:"required"`
	Stipend                  *float64              `json:"stipend" validate:"omitempty,min=0"`
	OfferLetterURL           *string               `json:"offer_letter_url" validate:"omitempty,url"`
	CompletionCertificateURL *string               `json:"completion_certificate_url" validate:"omitempty,url"`
}

// NOCSubmitRequest creates the caller's NOC application.
type NOCSubmitRequest struct {
	Purpose             *string `json:"purpose" validate:"omitempty,max=1000"`
	DeclarationAccepted bool    `json:"declaration_accepted"`
}

// DecisionRequest approves or rejects an application at the caller's stage.
type DecisionRequest struct {
	Decision models.Decision `json:"decision" validate:"required,oneof=approve reject"`
	Remarks  *string         `json:"remarks" validate:"omitempty,max=1000"`
}

// EvaluationRequest records the mentor's marks for a mentee. Totals and
// grades sent by clients are ignored.
type EvaluationRequest struct {
	PresentationMarks *float64 `json:"presentation_marks" validate:"required"`
	ReportMarks       *float64 `json:"report_marks" validate:"required"`
	VivaMarks         *float64 `json:"viva_marks" validate:"required"`
	Feedback          *string  `json:"feedback" validate:"omitempty,max=2000"`
}

// TeacherProfileRequest upserts the caller's teacher record.
type TeacherProfileRequest struct {
	EmployeeID  string  `json:"employee_id" validate:"required,max=32"`
	Department  string  `json:"department" validate:"required,max=120"`
	Designation string  `json:"designation" validate:"required,max=120"`
	Phone       *string `json:"phone" validate:"omitempty,max=20"`
}

// AssignMentorRequest sets the mentor of a student.
type AssignMentorRequest struct {
	TeacherID string `json:"teacher_id" validate:"required"`
}
