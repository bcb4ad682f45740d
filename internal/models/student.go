package models

import "time"

// Student holds the academic record of a student profile.
type Student struct {
	ID                string    `db:"id" json:"id"`
	UserID            string    `db:"user_id" json:"user_id"`
	EnrollmentNumber  string    `db:"enrollment_number" json:"enrollment_number"`
	Semester          int       `db:"semester" json:"semester"`
	Section           *string   `db:"section" json:"section,omitempty"`
	Department        string    `db:"department" json:"department"`
	Address           *string   `db:"address" json:"address,omitempty"`
	Phone             *string   `db:"phone" json:"phone,omitempty"`
	FathersName       *string   `db:"fathers_name" json:"fathers_name,omitempty"`
	FathersContact    *string   `db:"fathers_contact" json:"fathers_contact,omitempty"`
	FathersOccupation *string   `db:"fathers_occupation" json:"fathers_occupation,omitempty"`
	MothersName       *string   `db:"mothers_name" json:"mothers_name,omitempty"`
	MothersContact    *string   `db:"mothers_contact" json:"mothers_contact,omitempty"`
	MothersOccupation *string   `db:"mothers_occupation" json:"mothers_occupation,omitempty"`
	TenthPercentage   *float64  `db:"tenth_percentage" json:"tenth_percentage,omitempty"`
	TenthBoard        *string   `db:"tenth_board" json:"tenth_board,omitempty"`
	TenthYear         *int      `db:"tenth_year" json:"tenth_year,omitempty"`
	TwelfthPercentage *float64  `db:"twelfth_percentage" json:"twelfth_percentage,omitempty"`
	TwelfthBoard      *string   `db:"twelfth_board" json:"twelfth_board,omitempty"`
	TwelfthYear       *int      `db:"twelfth_year" json:"twelfth_year,omitempty"`
	CGPA              *float64  `db:"cgpa" json:"cgpa,omitempty"`
	MentorID          *string   `db:"mentor_id" json:"mentor_id,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// HasMentor reports whether teacherID is the assigned mentor.
func (s Student) HasMentor(teacherID string) bool {
	return s.MentorID != nil && *s.MentorID == teacherID
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Search     string
	Department string
	MentorID   string
	Page       int
	PageSize   int
	SortBy     string
	SortOrder  string
}

// StudentDetail joins the student record with profile and mentor names.
type StudentDetail struct {
	Student
	FullName   *string `db:"full_name" json:"full_name,omitempty"`
	Email      string  `db:"email" json:"email"`
	MentorName *string `db:"mentor_name" json:"mentor_name,omitempty"`
}
