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

const internshipColumns = `id, student_id, internship_type, company_name, company_address, company_website,
	guide_name, guide_email, guide_contact, joining_date, completion_date, duration_weeks, stipend,
	offer_letter_url, completion_certificate_url, created_at, updated_at`

// InternshipRepository persists the single internship of each student.
type InternshipRepository struct {
	db *sqlx.DB
}

// NewInternshipRepository constructs an InternshipRepository.
func NewInternshipRepository(db *sqlx.DB) *InternshipRepository {
	return &InternshipRepository{db: db}
}

// FindByStudentID returns the internship registered by a student.
func (r *InternshipRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Internship, error) {
	query := `SELECT ` + internshipColumns + ` FROM internships WHERE student_id = $1 LIMIT 1`
	var internship models.Internship
	if err := r.db.GetContext(ctx, &internship, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find internship: %w", err)
	}
	return &internship, nil
}

// Upsert creates or replaces the internship keyed by student_id.
func (r *InternshipRepository) Upsert(ctx context.Context, internship *models.Internship) error {
	if internship.ID == "" {
		internship.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if internship.CreatedAt.IsZero() {
		internship.CreatedAt = now
	}
	internship.UpdatedAt = now

	query := `INSERT INTO internships (` + internshipColumns + `)
		VALUES (:id, :student_id, :internship_type, :company_name, :company_address, :company_website,
			:guide_name, :guide_email, :guide_contact, :joining_date, :completion_date, :duration_weeks, :stipend,
			:offer_letter_url, :completion_certificate_url, :created_at, :updated_at)
		ON CONFLICT (student_id) DO UPDATE
		SET internship_type = EXCLUDED.internship_type,
		    company_name = EXCLUDED.company_name,
		    company_address = EXCLUDED.company_address,
		    company_website = EXCLUDED.company_website,
		    guide_name = EXCLUDED.guide_name,
		    guide_email = EXCLUDED.guide_email,
		    guide_contact = EXCLUDED.guide_contact,
		    joining_date = EXCLUDED.joining_date,
		    completion_date = EXCLUDED.completion_date,
		    duration_weeks = EXCLUDED.duration_weeks,
		    stipend = EXCLUDED.stipend,
		    offer_letter_url = EXCLUDED.offer_letter_url,
		    completion_certificate_url = EXCLUDED.completion_certificate_url,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, internship)
	if err != nil {
		return fmt.Errorf("upsert internship: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&internship.ID, &internship.CreatedAt); err != nil {
			return fmt.Errorf("scan upserted internship: %w", err)
		}
	}
	return rows.Err()
}
