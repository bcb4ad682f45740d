package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-noc-api/internal/models"
)

func TestInternshipUpsertReturnsStoredID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInternshipRepository(db)

	created := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (student_id) DO UPDATE")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("existing", created))

	internship := &models.Internship{
		StudentID:      "s1",
		InternshipType: models.InternshipSelfArranged,
		CompanyName:    "Acme",
		JoiningDate:    models.NewDate(2024, time.January, 1),
	}
	internship.ApplySchedule()
	require.NoError(t, repo.Upsert(context.Background(), internship))
	assert.Equal(t, "existing", internship.ID)
	assert.Equal(t, created, internship.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInternshipFindByStudent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewInternshipRepository(db)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "student_id", "internship_type", "company_name", "company_address", "company_website", "guide_name", "guide_email", "guide_contact", "joining_date", "completion_date", "duration_weeks", "stipend", "offer_letter_url", "completion_certificate_url", "created_at", "updated_at"}).
		AddRow("i1", "s1", "tnp_arranged", "Acme", nil, nil, nil, nil, nil, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 22, 0, 0, 0, 0, time.UTC), 16, 15000.0, nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM internships WHERE student_id = $1")).WithArgs("s1").WillReturnRows(rows)

	internship, err := repo.FindByStudentID(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, models.InternshipTNPArranged, internship.InternshipType)
	assert.Equal(t, "2024-04-22", internship.CompletionDate.String())
	require.NotNil(t, internship.Stipend)
	assert.Equal(t, 15000.0, *internship.Stipend)
	assert.NoError(t, mock.ExpectationsWereMet())
}
