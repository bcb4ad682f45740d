package models

// StudentOverview is the denormalised read model of one student with the
// records hanging off it. Nil pointers mean the record does not exist yet.
type StudentOverview struct {
	Student    Student         `json:"student"`
	FullName   *string         `json:"full_name,omitempty"`
	Email      string          `json:"email"`
	MentorName *string         `json:"mentor_name,omitempty"`
	Internship *Internship     `json:"internship,omitempty"`
	NOC        *NOCApplication `json:"noc,omitempty"`
	Evaluation *Evaluation     `json:"evaluation,omitempty"`
}

// StudentView is the aggregate loaded for a student session.
type StudentView struct {
	Profile  Profile
	Overview *StudentOverview
}

// TeacherView is the aggregate loaded for a teacher session.
type TeacherView struct {
	Profile Profile
	Teacher *Teacher
	Mentees []StudentOverview
}
