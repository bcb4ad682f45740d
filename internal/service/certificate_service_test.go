package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
	"github.com/noah-isme/internship-noc-api/pkg/signedurl"
)

type staticRoster []models.StudentOverview

func (r staticRoster) AllStudents(context.Context) ([]models.StudentOverview, error) {
	return r, nil
}

func newCertificateFixture(t *testing.T, status models.NOCStatus) (*CertificateService, *signedurl.Signer) {
	t.Helper()
	approvedAt := time.Date(2024, 2, 10, 9, 0, 0, 0, time.UTC)
	joining := models.NewDate(2024, time.January, 1)
	name := "Asha Rai"
	app := &models.NOCApplication{ID: "3f2a9c1e-0000-4000-8000-000000000001", StudentID: "stu-1", InternshipID: "int-1", DeclarationAccepted: true, Status: status}
	if status == models.NOCStatusHODApproved {
		app.HODApprovedAt = &approvedAt
	}
	internship := &models.Internship{ID: "int-1", StudentID: "stu-1", CompanyName: "Acme Labs", InternshipType: models.InternshipSelfArranged, JoiningDate: joining}
	internship.ApplySchedule()

	signer := signedurl.NewSigner("secret", time.Hour)
	svc := NewCertificateService(CertificateServiceParams{
		Applications: newMemApplications(app),
		Students:     newMemStudents(&models.Student{ID: "stu-1", UserID: "u1", EnrollmentNumber: "CSE/21/042", Department: "CSE", Semester: 6}),
		Internships:  newMemInternships(internship),
		Profiles:     stubProfiles{"u1": {ID: "u1", Role: models.RoleStudent, FullName: &name}},
		Tokens:       signer,
		Institution:  "Department of CSE",
	})
	return svc, signer
}

func TestCertificateServiceForStudent(t *testing.T) {
	svc, _ := newCertificateFixture(t, models.NOCStatusHODApproved)

	file, err := svc.ForStudent(context.Background(), studentSession("u1"))
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "noc-cse-21-042.pdf", file.Name)
	assert.True(t, bytes.HasPrefix(file.Body, []byte("%PDF")))
}

func TestCertificateServiceRequiresHODApproval(t *testing.T) {
	for _, status := range []models.NOCStatus{models.NOCStatusPending, models.NOCStatusMentorApproved, models.NOCStatusRejected} {
		svc, _ := newCertificateFixture(t, status)
		_, err := svc.ForStudent(context.Background(), studentSession("u1"))
		assert.ErrorIs(t, err, appErrors.ErrPreconditionFailed, string(status))
	}
}

func TestCertificateServiceForToken(t *testing.T) {
	svc, signer := newCertificateFixture(t, models.NOCStatusHODApproved)

	token, _, err := signer.Generate(CertificatePurpose, "3f2a9c1e-0000-4000-8000-000000000001")
	require.NoError(t, err)
	file, err := svc.ForToken(context.Background(), token)
	require.NoError(t, err)
	assert.NotEmpty(t, file.Body)

	_, err = svc.ForToken(context.Background(), token+"x")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)

	other, _, err := signer.Generate("other-purpose", "3f2a9c1e-0000-4000-8000-000000000001")
	require.NoError(t, err)
	_, err = svc.ForToken(context.Background(), other)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestCertificateServiceRoster(t *testing.T) {
	name := "Asha Rai"
	svc := NewCertificateService(CertificateServiceParams{Roster: staticRoster{
		{
			Student:    models.Student{EnrollmentNumber: "CSE-1", Department: "CSE", Semester: 6},
			FullName:   &name,
			Internship: &models.Internship{CompanyName: "Acme", JoiningDate: models.NewDate(2024, time.January, 1), CompletionDate: models.NewDate(2024, time.April, 22)},
			NOC:        &models.NOCApplication{Status: models.NOCStatusHODApproved},
			Evaluation: &models.Evaluation{TotalMarks: 88, Grade: "A"},
		},
		{Student: models.Student{EnrollmentNumber: "CSE-2", Department: "CSE", Semester: 6}},
	}})

	file, err := svc.Roster(context.Background(), hodSession, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)

	records, err := csv.NewReader(bytes.NewReader(file.Body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, rosterHeaders, records[0])
	assert.Equal(t, []string{"CSE-1", "Asha Rai", "CSE", "6", "", "Acme", "2024-01-01", "2024-04-22", "hod_approved", "88", "A"}, records[1])
	assert.Equal(t, "not_applied", records[2][8])

	file, err = svc.Roster(context.Background(), hodSession, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)

	_, err = svc.Roster(context.Background(), hodSession, "xlsx")
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Roster(context.Background(), mentorSession, "csv")
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
}
