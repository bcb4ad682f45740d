package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-noc-api/internal/models"
)

const studentColumns = `id, user_id, enrollment_number, semester, section, department, address, phone,
	fathers_name, fathers_contact, fathers_occupation, mothers_name, mothers_contact, mothers_occupation,
	tenth_percentage, tenth_board, tenth_year, twelfth_percentage, twelfth_board, twelfth_year, cgpa,
	mentor_id, created_at, updated_at`

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// FindByUserID returns the student record owned by a profile.
func (r *StudentRepository) FindByUserID(ctx context.Context, userID string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE user_id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student by user: %w", err)
	}
	return &student, nil
}

// FindByID returns a student by identifier.
func (r *StudentRepository) FindByID(ctx context.Context, id string) (*models.Student, error) {
	query := `SELECT ` + studentColumns + ` FROM students WHERE id = $1 LIMIT 1`
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return &student, nil
}

// Upsert creates or updates the student record keyed by user_id. The mentor
// assignment is owned by the HOD and is never overwritten here.
func (r *StudentRepository) Upsert(ctx context.Context, student *models.Student) error {
	if student.ID == "" {
		student.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if student.CreatedAt.IsZero() {
		student.CreatedAt = now
	}
	student.UpdatedAt = now

	query := `INSERT INTO students (` + studentColumns + `)
		VALUES (:id, :user_id, :enrollment_number, :semester, :section, :department, :address, :phone,
			:fathers_name, :fathers_contact, :fathers_occupation, :mothers_name, :mothers_contact, :mothers_occupation,
			:tenth_percentage, :tenth_board, :tenth_year, :twelfth_percentage, :twelfth_board, :twelfth_year, :cgpa,
			:mentor_id, :created_at, :updated_at)
		ON CONFLICT (user_id) DO UPDATE
		SET enrollment_number = EXCLUDED.enrollment_number,
		    semester = EXCLUDED.semester,
		    section = EXCLUDED.section,
		    department = EXCLUDED.department,
		    address = EXCLUDED.address,
		    phone = EXCLUDED.phone,
		    fathers_name = EXCLUDED.fathers_name,
		    fathers_contact = EXCLUDED.fathers_contact,
		    fathers_occupation = EXCLUDED.fathers_occupation,
		    mothers_name = EXCLUDED.mothers_name,
		    mothers_contact = EXCLUDED.mothers_contact,
		    mothers_occupation = EXCLUDED.mothers_occupation,
		    tenth_percentage = EXCLUDED.tenth_percentage,
		    tenth_board = EXCLUDED.tenth_board,
		    tenth_year = EXCLUDED.tenth_year,
		    twelfth_percentage = EXCLUDED.twelfth_percentage,
		    twelfth_board = EXCLUDED.twelfth_board,
		    twelfth_year = EXCLUDED.twelfth_year,
		    cgpa = EXCLUDED.cgpa,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, mentor_id, created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, student)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("upsert student: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&student.ID, &student.MentorID, &student.CreatedAt); err != nil {
			return fmt.Errorf("scan upserted student: %w", err)
		}
	}
	return rows.Err()
}

// AssignMentor sets the mentor of a student.
func (r *StudentRepository) AssignMentor(ctx context.Context, studentID, teacherID string) error {
	const query = `UPDATE students SET mentor_id = $2, updated_at = $3 WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, studentID, teacherID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("assign mentor: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check mentor assignment rows: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns students matching the provided filters.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	base := "FROM students s JOIN profiles p ON p.id = s.user_id LEFT JOIN teachers t ON t.id = s.mentor_id LEFT JOIN profiles mp ON mp.id = t.user_id"
	var args []interface{}
	conditions := []string{"1=1"}

	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("s.department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}
	if filter.MentorID != "" {
		conditions = append(conditions, fmt.Sprintf("s.mentor_id = $%d", len(args)+1))
		args = append(args, filter.MentorID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.full_name) LIKE $%d OR LOWER(s.enrollment_number) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	allowedSorts := map[string]string{
		"full_name":         "p.full_name",
		"enrollment_number": "s.enrollment_number",
		"semester":          "s.semester",
		"created_at":        "s.created_at",
	}
	column, ok := allowedSorts[filter.SortBy]
	if !ok {
		column = "s.created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s, p.full_name, p.email, mp.full_name AS mentor_name
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, prefixColumns("s", studentColumns), base, column, order, size, offset)

	var students []models.StudentDetail
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, args...); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}
	return students, total, nil
}

// prefixColumns qualifies a comma separated column list with a table alias.
func prefixColumns(alias, cols string) string {
	parts := strings.Split(cols, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, alias+"."+trimmed)
		}
	}
	return strings.Join(out, ", ")
}
