package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

type studentService interface {
	Me(ctx context.Context, session *models.Session) (*models.Student, error)
	UpsertProfile(ctx context.Context, session *models.Session, req dto.StudentProfileRequest) (*models.Student, error)
	Internship(ctx context.Context, session *models.Session) (*models.Internship, error)
	UpsertInternship(ctx context.Context, session *models.Session, req dto.InternshipRequest) (*models.Internship, error)
}

// StudentHandler exposes the student's own records.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs a StudentHandler.
func NewStudentHandler(svc studentService) *StudentHandler {
	return &StudentHandler{service: svc}
}

// Me godoc
// @Summary Get own student record
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/me [get]
func (h *StudentHandler) Me(c *gin.Context) {
	student, err := h.service.Me(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// UpsertProfile godoc
// @Summary Create or update own student record
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.StudentProfileRequest true "Student record"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /students/me [put]
func (h *StudentHandler) UpsertProfile(c *gin.Context) {
	var req dto.StudentProfileRequest
	if !bindJSON(c, &req, "invalid student payload") {
		return
	}
	student, err := h.service.UpsertProfile(c.Request.Context(), sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// Internship godoc
// @Summary Get own internship
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/me/internship [get]
func (h *StudentHandler) Internship(c *gin.Context) {
	internship, err := h.service.Internship(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, internship, nil)
}

// UpsertInternship godoc
// @Summary Register or update own internship
// @Description Completion date and duration are derived from the joining date
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body dto.InternshipRequest true "Internship"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /students/me/internship [put]
func (h *StudentHandler) UpsertInternship(c *gin.Context) {
	var req dto.InternshipRequest
	if !bindJSON(c, &req, "invalid internship payload") {
		return
	}
	internship, err := h.service.UpsertInternship(c.Request.Context(), sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, internship, nil)
}
