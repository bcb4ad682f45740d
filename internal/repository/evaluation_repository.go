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

const evaluationColumns = `id, student_id, internship_id, evaluator_id, presentation_marks, report_marks, viva_marks,
	total_marks, grade, feedback, evaluated_at, created_at, updated_at`

// EvaluationRepository persists mentor evaluations.
type EvaluationRepository struct {
	db *sqlx.DB
}

// NewEvaluationRepository constructs an EvaluationRepository.
func NewEvaluationRepository(db *sqlx.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

// FindByStudentID returns the evaluation of a student.
func (r *EvaluationRepository) FindByStudentID(ctx context.Context, studentID string) (*models.Evaluation, error) {
	query := `SELECT ` + evaluationColumns + ` FROM evaluations WHERE student_id = $1 LIMIT 1`
	var evaluation models.Evaluation
	if err := r.db.GetContext(ctx, &evaluation, query, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find evaluation: %w", err)
	}
	return &evaluation, nil
}

// Upsert creates or replaces the evaluation keyed by student_id.
func (r *EvaluationRepository) Upsert(ctx context.Context, evaluation *models.Evaluation) error {
	if evaluation.ID == "" {
		evaluation.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if evaluation.CreatedAt.IsZero() {
		evaluation.CreatedAt = now
	}
	evaluation.UpdatedAt = now

	query := `INSERT INTO evaluations (` + evaluationColumns + `)
		VALUES (:id, :student_id, :internship_id, :evaluator_id, :presentation_marks, :report_marks, :viva_marks,
			:total_marks, :grade, :feedback, :evaluated_at, :created_at, :updated_at)
		ON CONFLICT (student_id) DO UPDATE
		SET internship_id = EXCLUDED.internship_id,
		    evaluator_id = EXCLUDED.evaluator_id,
		    presentation_marks = EXCLUDED.presentation_marks,
		    report_marks = EXCLUDED.report_marks,
		    viva_marks = EXCLUDED.viva_marks,
		    total_marks = EXCLUDED.total_marks,
		    grade = EXCLUDED.grade,
		    feedback = EXCLUDED.feedback,
		    evaluated_at = EXCLUDED.evaluated_at,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, created_at`
	rows, err := r.db.NamedQueryContext(ctx, query, evaluation)
	if err != nil {
		return fmt.Errorf("upsert evaluation: %w", err)
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&evaluation.ID, &evaluation.CreatedAt); err != nil {
			return fmt.Errorf("scan upserted evaluation: %w", err)
		}
	}
	return rows.Err()
}
