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

const nocColumns = `id, student_id, internship_id, purpose, declaration_accepted, status, mentor_remarks, hod_remarks,
	mentor_approved_at, hod_approved_at, created_at, updated_at`

// NOCRepository persists NOC applications and applies status transitions.
type NOCRepository struct {
	db *sqlx.DB
}

// NewNOCRepository constructs a NOCRepository.
func NewNOCRepository(db *sqlx.DB) *NOCRepository {
	return &NOCRepository{db: db}
}

// Create inserts a new application. A second application for the same
// internship yields ErrDuplicate.
func (r *NOCRepository) Create(ctx context.Context, app *models.NOCApplication) error {
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	app.CreatedAt, app.UpdatedAt = now, now

	query := `INSERT INTO noc_applications (` + nocColumns + `)
		VALUES (:id, :student_id, :internship_id, :purpose, :declaration_accepted, :status, :mentor_remarks, :hod_remarks,
			:mentor_approved_at, :hod_approved_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, app); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create noc application: %w", err)
	}
	return nil
}

// FindByID returns an application by identifier.
func (r *NOCRepository) FindByID(ctx context.Context, id string) (*models.NOCApplication, error) {
	query := `SELECT ` + nocColumns + ` FROM noc_applications WHERE id = $1 LIMIT 1`
	var app models.NOCApplication
	if err := r.db.GetContext(ctx, &app, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find noc application: %w", err)
	}
	return &app, nil
}

// FindByStudentID returns the latest application of a student.
func (r *NOCRepository) FindByStudentID(ctx context.Context, studentID string) (*models.NOCApplication, error) {
	query := `SELECT ` + nocColumns + ` FROM noc_applications WHERE student_id = $1 ORDER BY created_at DESC LIMIT 1`
	var app models.NOCApplication
	if err := r.db.GetContext(ctx, &app, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find noc application by student: %w", err)
	}
	return &app, nil
}

// Transition applies a decision only when the stored status still equals
// t.From. sql.ErrNoRows means another decision already moved the application.
func (r *NOCRepository) Transition(ctx context.Context, t models.NOCTransition) (*models.NOCApplication, error) {
	var setRemarks string
	switch t.Stage {
	case models.StageMentor:
		setRemarks = "mentor_remarks = :remarks, mentor_approved_at = :decided_at"
	case models.StageHOD:
		setRemarks = "hod_remarks = :remarks, hod_approved_at = :decided_at"
	default:
		return nil, fmt.Errorf("unknown approval stage %q", t.Stage)
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = time.Now().UTC()
	}

	query := fmt.Sprintf(`UPDATE noc_applications SET status = :to_status, %s, updated_at = :updated_at
		WHERE id = :id AND status = :from_status
		RETURNING %s`, setRemarks, nocColumns)
	rows, err := r.db.NamedQueryContext(ctx, query, t)
	if err != nil {
		return nil, fmt.Errorf("transition noc application: %w", err)
	}
	defer rows.Close()
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("transition noc application: %w", err)
		}
		return nil, sql.ErrNoRows
	}
	var app models.NOCApplication
	if err := rows.StructScan(&app); err != nil {
		return nil, fmt.Errorf("scan transitioned noc application: %w", err)
	}
	return &app, nil
}

// ListQueue returns applications in a status, optionally restricted to the
// mentees of one mentor, oldest first.
func (r *NOCRepository) ListQueue(ctx context.Context, filter models.NOCFilter) ([]models.NOCQueueItem, error) {
	query := `SELECT ` + prefixColumns("n", nocColumns) + `,
		p.full_name AS student_name, p.email AS student_email, s.enrollment_number, s.department, s.semester,
		i.company_name, i.joining_date, i.completion_date, s.mentor_id
		FROM noc_applications n
		JOIN students s ON s.id = n.student_id
		JOIN profiles p ON p.id = s.user_id
		JOIN internships i ON i.id = n.internship_id
		WHERE n.status = $1`
	args := []interface{}{filter.Status}
	if filter.MentorID != "" {
		query += " AND s.mentor_id = $2"
		args = append(args, filter.MentorID)
	}
	query += " ORDER BY n.created_at ASC"

	var items []models.NOCQueueItem
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list noc queue: %w", err)
	}
	return items, nil
}
