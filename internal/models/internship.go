package models

import "time"

// InternshipDurationWeeks is fixed by institutional policy.
const InternshipDurationWeeks = 16

// InternshipType enumerates how an internship was arranged.
type InternshipType string

const (
	InternshipSelfArranged InternshipType = "self_arranged"
	InternshipTNPArranged  InternshipType = "tnp_arranged"
	InternshipSMITInhouse  InternshipType = "smit_inhouse"
)

// Internship is the single internship registered by a student.
type Internship struct {
	ID                       string         `db:"id" json:"id"`
	StudentID                string         `db:"student_id" json:"student_id"`
	InternshipType           InternshipType `db:"internship_type" json:"internship_type"`
	CompanyName              string         `db:"company_name" json:"company_name"`
	CompanyAddress           *string        `db:"company_address" json:"company_address,omitempty"`
	CompanyWebsite           *string        `db:"company_website" json:"company_website,omitempty"`
	GuideName                *string        `db:"guide_name" json:"guide_name,omitempty"`
	GuideEmail               *string        `db:"guide_email" json:"guide_email,omitempty"`
	GuideContact             *string        `db:"guide_contact" json:"guide_contact,omitempty"`
	JoiningDate              Date           `db:"joining_date" json:"joining_date"`
	CompletionDate           Date           `db:"completion_date" json:"completion_date"`
	DurationWeeks            int            `db:"duration_weeks" json:"duration_weeks"`
	Stipend                  *float64       `db:"stipend" json:"stipend,omitempty"`
	OfferLetterURL           *string        `db:"offer_letter_url" json:"offer_letter_url,omitempty"`
	CompletionCertificateURL *string        `db:"completion_certificate_url" json:"completion_certificate_url,omitempty"`
	CreatedAt                time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt                time.Time      `db:"updated_at" json:"updated_at"`
}

// CompletionDate returns the end of an internship starting on joining.
func CompletionDate(joining Date) Date {
	return joining.AddDays(InternshipDurationWeeks * 7)
}

// ApplySchedule derives the duration and completion date from the joining date.
func (i *Internship) ApplySchedule() {
	i.DurationWeeks = InternshipDurationWeeks
	i.CompletionDate = CompletionDate(i.JoiningDate)
}
