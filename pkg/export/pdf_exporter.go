package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets and NOC certificates into PDF documents.
type PDFExporter struct {
	now func() time.Time
}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{now: time.Now}
}

// Render creates a landscape PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 9)
	colWidth := 277.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			pdf.CellFormat(colWidth, 7, row[header], "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return output(pdf)
}

// Certificate holds the fields printed on a No-Objection-Certificate.
type Certificate struct {
	Reference        string
	Institution      string
	StudentName      string
	EnrollmentNumber string
	Department       string
	Semester         int
	CompanyName      string
	CompanyAddress   string
	InternshipType   string
	JoiningDate      time.Time
	CompletionDate   time.Time
	DurationWeeks    int
	MentorRemarks    string
	HODRemarks       string
	ApprovedAt       time.Time
}

// RenderCertificate lays out a single-page NOC certificate.
func (e *PDFExporter) RenderCertificate(cert Certificate) ([]byte, error) {
	if cert.StudentName == "" || cert.CompanyName == "" {
		return nil, fmt.Errorf("certificate requires student and company names")
	}
	const dateLayout = "02 January 2006"

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 13)
	pdf.CellFormat(0, 8, cert.Institution, "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "NO OBJECTION CERTIFICATE", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(85, 6, "Ref: "+cert.Reference, "", 0, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+cert.ApprovedAt.Format(dateLayout), "", 1, "R", false, 0, "")
	pdf.Ln(8)

	body := fmt.Sprintf(
		"This is to certify that %s (Enrollment No. %s), a student of semester %d, %s, "+
			"has been granted permission to undertake a %d-week internship (%s) at %s%s "+
			"from %s to %s. The department has no objection to the student pursuing this internship.",
		cert.StudentName,
		cert.EnrollmentNumber,
		cert.Semester,
		cert.Department,
		cert.DurationWeeks,
		humanize(cert.InternshipType),
		cert.CompanyName,
		suffix(", ", cert.CompanyAddress),
		cert.JoiningDate.Format(dateLayout),
		cert.CompletionDate.Format(dateLayout),
	)
	pdf.SetFont("Arial", "", 12)
	pdf.MultiCell(0, 7, body, "", "J", false)
	pdf.Ln(6)

	if cert.MentorRemarks != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 6, "Mentor remarks: "+cert.MentorRemarks, "", "L", false)
	}
	if cert.HODRemarks != "" {
		pdf.SetFont("Arial", "I", 10)
		pdf.MultiCell(0, 6, "HOD remarks: "+cert.HODRemarks, "", "L", false)
	}

	pdf.Ln(25)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 6, "Head of Department", "", 1, "R", false, 0, "")
	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(0, 5, "Generated "+e.now().UTC().Format(time.RFC3339), "", 1, "L", false, 0, "")

	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func humanize(value string) string {
	return strings.ReplaceAll(value, "_", " ")
}

func suffix(sep, value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	return sep + value
}
