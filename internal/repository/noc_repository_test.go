package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-noc-api/internal/models"
)

var nocRowColumns = []string{"id", "student_id", "internship_id", "purpose", "declaration_accepted", "status", "mentor_remarks", "hod_remarks", "mentor_approved_at", "hod_approved_at", "created_at", "updated_at"}

func TestNOCCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNOCRepository(db)

	mock.ExpectExec("INSERT INTO noc_applications").WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Create(context.Background(), &models.NOCApplication{StudentID: "s1", InternshipID: "i1", DeclarationAccepted: true, Status: models.NOCStatusPending})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNOCTransitionAppliesWhenStatusMatches(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNOCRepository(db)

	now := time.Date(2024, 1, 5, 10, 0, 0, 0, time.UTC)
	remarks := "ok"
	rows := sqlmock.NewRows(nocRowColumns).
		AddRow("n1", "s1", "i1", nil, true, "mentor_approved", remarks, nil, now, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("UPDATE noc_applications SET status = $1, mentor_remarks = $2, mentor_approved_at = $3, updated_at = $4") + ".*" + regexp.QuoteMeta("WHERE id = $5 AND status = $6")).
		WithArgs(models.NOCStatusMentorApproved, &remarks, &now, now, "n1", models.NOCStatusPending).
		WillReturnRows(rows)

	app, err := repo.Transition(context.Background(), models.NOCTransition{
		ApplicationID: "n1",
		From:          models.NOCStatusPending,
		To:            models.NOCStatusMentorApproved,
		Stage:         models.StageMentor,
		Remarks:       &remarks,
		DecidedAt:     &now,
		UpdatedAt:     now,
	})
	require.NoError(t, err)
	assert.Equal(t, models.NOCStatusMentorApproved, app.Status)
	require.NotNil(t, app.MentorApprovedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNOCTransitionLostRaceReturnsNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNOCRepository(db)

	mock.ExpectQuery("UPDATE noc_applications SET status = .*hod_remarks").
		WillReturnRows(sqlmock.NewRows(nocRowColumns))

	remarks := "incomplete"
	_, err := repo.Transition(context.Background(), models.NOCTransition{
		ApplicationID: "n1",
		From:          models.NOCStatusMentorApproved,
		To:            models.NOCStatusRejected,
		Stage:         models.StageHOD,
		Remarks:       &remarks,
	})
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNOCListQueueScopesToMentor(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewNOCRepository(db)

	now := time.Now().UTC()
	columns := append(append([]string{}, nocRowColumns...), "student_name", "student_email", "enrollment_number", "department", "semester", "company_name", "joining_date", "completion_date", "mentor_id")
	rows := sqlmock.NewRows(columns).
		AddRow("n1", "s1", "i1", nil, true, "pending", nil, nil, nil, nil, now, now, "Asha", "asha@example.com", "EN01", "CSE", 6, "Acme", "2024-01-01", "2024-04-22", "t1")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE n.status = $1 AND s.mentor_id = $2 ORDER BY n.created_at ASC")).
		WithArgs(models.NOCStatusPending, "t1").
		WillReturnRows(rows)

	items, err := repo.ListQueue(context.Background(), models.NOCFilter{Status: models.NOCStatusPending, MentorID: "t1"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Acme", items[0].CompanyName)
	assert.Equal(t, "2024-04-22", items[0].CompletionDate.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
