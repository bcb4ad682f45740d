package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-noc-api/internal/models"
)

const teacherColumns = `id, user_id, employee_id, department, designation, phone, created_at, updated_at`

// TeacherRepository handles persistence for teacher records.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// FindByUserID returns the teacher record owned by a profile.
func (r *TeacherRepository) FindByUserID(ctx context.Context, userID string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE user_id = $1 LIMIT 1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher by user: %w", err)
	}
	return &teacher, nil
}

// FindByID returns a teacher by identifier.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := `SELECT ` + teacherColumns + ` FROM teachers WHERE id = $1 LIMIT 1`
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find teacher: %w", err)
	}
	return &teacher, nil
}

// Upsert creates or updates the teacher record keyed by user_id.
func (r *TeacherRepository) Upsert(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	query := `INSERT INTO teachers (` + teacherColumns + `)
		VALUES (:id, :user_id, :employee_id, :department, :designation, :phone, :created_at, :updated_at)
		ON CONFLICT (user_id) DO UPDATE
		SET employee_id = EXCLUDED.employee_id,
		    department = EXCLUDED.department,
		    designation = EXCLUDED.designation,
		    phone = EXCLUDED.phone,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, teacher)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("upsert teacher: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&teacher.ID, &teacher.CreatedAt); err != nil {
			return fmt.Errorf("scan upserted teacher: %w", err)
		}
	}
	return rows.Err()
}

// ListWithProfiles returns every teacher with the profile name and email.
func (r *TeacherRepository) ListWithProfiles(ctx context.Context) ([]models.TeacherWithProfile, error) {
	query := `SELECT ` + prefixColumns("t", teacherColumns) + `, p.full_name, p.email
		FROM teachers t JOIN profiles p ON p.id = t.user_id
		ORDER BY p.full_name ASC NULLS LAST, t.employee_id ASC`
	var teachers []models.TeacherWithProfile
	if err := r.db.SelectContext(ctx, &teachers, query); err != nil {
		return nil, fmt.Errorf("list teachers: %w", err)
	}
	return teachers, nil
}
