package service

import (
	"fmt"

	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type gradeBand struct {
	min   float64
	grade string
}

// gradeBands is evaluated top-down; lower bounds are inclusive.
var gradeBands = []gradeBand{
	{90, "A+"},
	{80, "A"},
	{70, "B+"},
	{60, "B"},
	{50, "C"},
	{40, "D"},
}

const failingGrade = "F"

// GradeFor maps a total out of 100 to a letter grade.
func GradeFor(total float64) string {
	for _, band := range gradeBands {
		if total >= band.min {
			return band.grade
		}
	}
	return failingGrade
}

// ScoreEvaluation validates the three mark components and derives the total
// and grade. It never trusts a precomputed total.
func ScoreEvaluation(presentation, report, viva float64) (float64, string, error) {
	checks := []struct {
		name  string
		value float64
		max   float64
	}{
		{"presentation_marks", presentation, models.MaxPresentationMarks},
		{"report_marks", report, models.MaxReportMarks},
		{"viva_marks", viva, models.MaxVivaMarks},
	}
	for _, c := range checks {
		if c.value < 0 || c.value > c.max {
			return 0, "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s must be between 0 and %g", c.name, c.max))
		}
	}
	total := presentation + report + viva
	return total, GradeFor(total), nil
}
