package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
	"github.com/noah-isme/internship-noc-api/pkg/export"
	"github.com/noah-isme/internship-noc-api/pkg/signedurl"
)

// Export formats accepted by the roster export.
const (
	FormatCSV = "csv"
	FormatPDF = "pdf"
)

type certificateApplications interface {
	FindByID(ctx context.Context, id string) (*models.NOCApplication, error)
	FindByStudentID(ctx context.Context, studentID string) (*models.NOCApplication, error)
}

type certificateStudents interface {
	studentFinder
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

type rosterSource interface {
	AllStudents(ctx context.Context) ([]models.StudentOverview, error)
}

type tokenParser interface {
	Parse(purpose, token string) (string, time.Time, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	RenderCertificate(cert export.Certificate) ([]byte, error)
}

// CertificateServiceParams groups CertificateService dependencies.
type CertificateServiceParams struct {
	Applications certificateApplications
	Students     certificateStudents
	Internships  internshipFinder
	Profiles     profileFinder
	Roster       rosterSource
	Tokens       tokenParser
	CSV          csvRenderer
	PDF          pdfRenderer
	Institution  string
	Logger       *zap.Logger
}

// File is a rendered download.
type File struct {
	Name        string
	ContentType string
	Body        []byte
}

// CertificateService renders NOC certificates for approved applications and
// roster exports for the HOD.
type CertificateService struct {
	apps        certificateApplications
	students    certificateStudents
	internships internshipFinder
	profiles    profileFinder
	roster      rosterSource
	tokens      tokenParser
	csv         csvRenderer
	pdf         pdfRenderer
	institution string
	logger      *zap.Logger
	now         func() time.Time
}

// NewCertificateService constructs a CertificateService.
func NewCertificateService(params CertificateServiceParams) *CertificateService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	csv := params.CSV
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	pdf := params.PDF
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &CertificateService{
		apps:        params.Applications,
		students:    params.Students,
		internships: params.Internships,
		profiles:    params.Profiles,
		roster:      params.Roster,
		tokens:      params.Tokens,
		csv:         csv,
		pdf:         pdf,
		institution: params.Institution,
		logger:      logger,
		now:         time.Now,
	}
}

// ForStudent renders the certificate of the session student's application.
func (s *CertificateService) ForStudent(ctx context.Context, session *models.Session) (*File, error) {
	if err := requireRole(session, models.RoleStudent); err != nil {
		return nil, err
	}
	student, err := loadStudent(ctx, s.students, session.UserID)
	if err != nil {
		return nil, err
	}
	app, err := s.apps.FindByStudentID(ctx, student.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no application submitted")
		}
		return nil, appErrors.Store(err, "failed to load application")
	}
	return s.render(ctx, app, student)
}

// ForToken renders the certificate referenced by a signed download token.
func (s *CertificateService) ForToken(ctx context.Context, token string) (*File, error) {
	if s.tokens == nil {
		return nil, appErrors.ErrNotFound
	}
	applicationID, _, err := s.tokens.Parse(CertificatePurpose, token)
	if err != nil {
		if errors.Is(err, signedurl.ErrExpired) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "certificate link has expired")
		}
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "certificate link is invalid")
	}
	app, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Store(err, "failed to load application")
	}
	student, err := s.students.FindByID(ctx, app.StudentID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to load student")
	}
	return s.render(ctx, app, student)
}

func (s *CertificateService) render(ctx context.Context, app *models.NOCApplication, student *models.Student) (*File, error) {
	if app.Status != models.NOCStatusHODApproved {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "certificate is available once the HOD approves the application")
	}
	internship, err := s.internships.FindByStudentID(ctx, student.ID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to load internship")
	}
	profile, err := s.profiles.FindProfile(ctx, student.UserID)
	if err != nil {
		return nil, appErrors.Store(err, "failed to load profile")
	}

	cert := export.Certificate{
		Reference:        certificateReference(app),
		Institution:      s.institution,
		StudentName:      profile.DisplayName(),
		EnrollmentNumber: student.EnrollmentNumber,
		Department:       student.Department,
		Semester:         student.Semester,
		CompanyName:      internship.CompanyName,
		CompanyAddress:   deref(internship.CompanyAddress),
		InternshipType:   string(internship.InternshipType),
		JoiningDate:      internship.JoiningDate.Time,
		CompletionDate:   internship.CompletionDate.Time,
		DurationWeeks:    internship.DurationWeeks,
		MentorRemarks:    deref(app.MentorRemarks),
		HODRemarks:       deref(app.HODRemarks),
	}
	if app.HODApprovedAt != nil {
		cert.ApprovedAt = *app.HODApprovedAt
	}

	body, err := s.pdf.RenderCertificate(cert)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render certificate")
	}
	return &File{
		Name:        fmt.Sprintf("noc-%s.pdf", slug(student.EnrollmentNumber)),
		ContentType: "application/pdf",
		Body:        body,
	}, nil
}

// Roster renders every student with internship, NOC status and grade.
func (s *CertificateService) Roster(ctx context.Context, session *models.Session, format string) (*File, error) {
	if err := requireRole(session, models.RoleHOD); err != nil {
		return nil, err
	}
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	overviews, err := s.roster.AllStudents(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to load student roster")
	}
	data := rosterDataset(overviews)
	stamp := s.now().UTC().Format("20060102")

	if format == FormatPDF {
		body, err := s.pdf.Render(data, "Internship roster")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
		}
		return &File{Name: "roster-" + stamp + ".pdf", ContentType: "application/pdf", Body: body}, nil
	}
	body, err := s.csv.Render(data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render roster")
	}
	return &File{Name: "roster-" + stamp + ".csv", ContentType: "text/csv", Body: body}, nil
}

var rosterHeaders = []string{"Enrollment", "Name", "Department", "Semester", "Mentor", "Company", "Joining", "Completion", "NOC Status", "Total", "Grade"}

func rosterDataset(overviews []models.StudentOverview) export.Dataset {
	data := export.Dataset{Headers: rosterHeaders, Rows: make([]map[string]string, 0, len(overviews))}
	for _, ov := range overviews {
		row := map[string]string{
			"Enrollment": ov.Student.EnrollmentNumber,
			"Name":       deref(ov.FullName),
			"Department": ov.Student.Department,
			"Semester":   strconv.Itoa(ov.Student.Semester),
			"Mentor":     deref(ov.MentorName),
			"NOC Status": "not_applied",
		}
		if ov.Internship != nil {
			row["Company"] = ov.Internship.CompanyName
			row["Joining"] = ov.Internship.JoiningDate.String()
			row["Completion"] = ov.Internship.CompletionDate.String()
		}
		if ov.NOC != nil {
			row["NOC Status"] = string(ov.NOC.Status)
		}
		if ov.Evaluation != nil {
			row["Total"] = strconv.FormatFloat(ov.Evaluation.TotalMarks, 'f', -1, 64)
			row["Grade"] = ov.Evaluation.Grade
		}
		data.Rows = append(data.Rows, row)
	}
	return data
}

func certificateReference(app *models.NOCApplication) string {
	id := strings.ReplaceAll(app.ID, "-", "")
	if len(id) > 8 {
		id = id[:8]
	}
	year := app.CreatedAt.Year()
	if app.HODApprovedAt != nil {
		year = app.HODApprovedAt.Year()
	}
	return fmt.Sprintf("NOC/%d/%s", year, strings.ToUpper(id))
}

func slug(value string) string {
	value = strings.ToLower(strings.TrimSpace(value))
	var b strings.Builder
	for _, r := range value {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	if b.Len() == 0 {
		return "certificate"
	}
	return b.String()
}

func deref(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
