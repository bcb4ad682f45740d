package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/internship-noc-api/internal/models"
)

// DashboardRepository loads the per-role read models in a single round trip
// each. Related rows are returned as jsonb columns and decoded here.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

type overviewRow struct {
	Profile      []byte  `db:"profile"`
	Teacher      []byte  `db:"teacher"`
	Student      []byte  `db:"student"`
	StudentName  *string `db:"student_name"`
	StudentEmail *string `db:"student_email"`
	MentorName   *string `db:"mentor_name"`
	Internship   []byte  `db:"internship"`
	NOC          []byte  `db:"noc"`
	Evaluation   []byte  `db:"evaluation"`
}

const overviewJoins = `
	LEFT JOIN profiles sp ON sp.id = s.user_id
	LEFT JOIN teachers mt ON mt.id = s.mentor_id
	LEFT JOIN profiles mp ON mp.id = mt.user_id
	LEFT JOIN internships i ON i.student_id = s.id
	LEFT JOIN noc_applications n ON n.internship_id = i.id
	LEFT JOIN evaluations e ON e.student_id = s.id`

const overviewColumns = `
	CASE WHEN s.id IS NULL THEN NULL ELSE to_jsonb(s) END AS student,
	sp.full_name AS student_name,
	sp.email AS student_email,
	mp.full_name AS mentor_name,
	CASE WHEN i.id IS NULL THEN NULL ELSE to_jsonb(i) END AS internship,
	CASE WHEN n.id IS NULL THEN NULL ELSE to_jsonb(n) END AS noc,
	CASE WHEN e.id IS NULL THEN NULL ELSE to_jsonb(e) END AS evaluation`

// StudentView returns the profile of userID with its student overview.
// sql.ErrNoRows means the profile does not exist.
func (r *DashboardRepository) StudentView(ctx context.Context, userID string) (*models.StudentView, error) {
	query := `SELECT to_jsonb(p) AS profile, NULL::jsonb AS teacher,` + overviewColumns + `
	FROM profiles p
	LEFT JOIN students s ON s.user_id = p.id` + overviewJoins + `
	WHERE p.id = $1
	LIMIT 1`

	var row overviewRow
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("load student view: %w", err)
	}

	view := &models.StudentView{}
	if err := json.Unmarshal(row.Profile, &view.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	overview, err := row.overview()
	if err != nil {
		return nil, err
	}
	view.Overview = overview
	return view, nil
}

// TeacherView returns the profile of userID with its teacher record and one
// overview per mentee.
func (r *DashboardRepository) TeacherView(ctx context.Context, userID string) (*models.TeacherView, error) {
	query := `SELECT to_jsonb(p) AS profile,
	CASE WHEN t.id IS NULL THEN NULL ELSE to_jsonb(t) END AS teacher,` + overviewColumns + `
	FROM profiles p
	LEFT JOIN teachers t ON t.user_id = p.id
	LEFT JOIN students s ON s.mentor_id = t.id` + overviewJoins + `
	WHERE p.id = $1
	ORDER BY sp.full_name ASC NULLS LAST, s.enrollment_number ASC`

	var rows []overviewRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("load teacher view: %w", err)
	}
	if len(rows) == 0 {
		return nil, sql.ErrNoRows
	}

	view := &models.TeacherView{Mentees: make([]models.StudentOverview, 0, len(rows))}
	if err := json.Unmarshal(rows[0].Profile, &view.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	if len(rows[0].Teacher) > 0 {
		view.Teacher = &models.Teacher{}
		if err := json.Unmarshal(rows[0].Teacher, view.Teacher); err != nil {
			return nil, fmt.Errorf("decode teacher: %w", err)
		}
	}
	for _, row := range rows {
		overview, err := row.overview()
		if err != nil {
			return nil, err
		}
		if overview != nil {
			view.Mentees = append(view.Mentees, *overview)
		}
	}
	return view, nil
}

// AllStudents returns one overview per student in the department-wide roster.
func (r *DashboardRepository) AllStudents(ctx context.Context) ([]models.StudentOverview, error) {
	query := `SELECT NULL::jsonb AS profile, NULL::jsonb AS teacher,` + overviewColumns + `
	FROM students s` + overviewJoins + `
	ORDER BY s.department ASC, sp.full_name ASC NULLS LAST, s.enrollment_number ASC`

	var rows []overviewRow
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("load student roster: %w", err)
	}
	overviews := make([]models.StudentOverview, 0, len(rows))
	for _, row := range rows {
		overview, err := row.overview()
		if err != nil {
			return nil, err
		}
		if overview != nil {
			overviews = append(overviews, *overview)
		}
	}
	return overviews, nil
}

func (row overviewRow) overview() (*models.StudentOverview, error) {
	if len(row.Student) == 0 {
		return nil, nil
	}
	overview := &models.StudentOverview{FullName: row.StudentName, MentorName: row.MentorName}
	if row.StudentEmail != nil {
		overview.Email = *row.StudentEmail
	}
	if err := json.Unmarshal(row.Student, &overview.Student); err != nil {
		return nil, fmt.Errorf("decode student: %w", err)
	}
	if len(row.Internship) > 0 {
		overview.Internship = &models.Internship{}
		if err := json.Unmarshal(row.Internship, overview.Internship); err != nil {
			return nil, fmt.Errorf("decode internship: %w", err)
		}
	}
	if len(row.NOC) > 0 {
		overview.NOC = &models.NOCApplication{}
		if err := json.Unmarshal(row.NOC, overview.NOC); err != nil {
			return nil, fmt.Errorf("decode noc application: %w", err)
		}
	}
	if len(row.Evaluation) > 0 {
		overview.Evaluation = &models.Evaluation{}
		if err := json.Unmarshal(row.Evaluation, overview.Evaluation); err != nil {
			return nil, fmt.Errorf("decode evaluation: %w", err)
		}
	}
	return overview, nil
}
