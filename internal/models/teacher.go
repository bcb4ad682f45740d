package models

import "time"

// Teacher represents a faculty record. Teachers act as mentors.
type Teacher struct {
	ID          string    `db:"id" json:"id"`
	UserID      string    `db:"user_id" json:"user_id"`
	EmployeeID  string    `db:"employee_id" json:"employee_id"`
	Department  string    `db:"department" json:"department"`
	Designation string    `db:"designation" json:"designation"`
	Phone       *string   `db:"phone" json:"phone,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherWithProfile joins the teacher record with the profile name.
type TeacherWithProfile struct {
	Teacher
	FullName *string `db:"full_name" json:"full_name,omitempty"`
	Email    string  `db:"email" json:"email"`
}
