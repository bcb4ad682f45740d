package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

type evaluationService interface {
	Save(ctx context.Context, session *models.Session, studentID string, req dto.EvaluationRequest) (*models.Evaluation, error)
	ForStudent(ctx context.Context, session *models.Session, studentID string) (*models.Evaluation, error)
	Mine(ctx context.Context, session *models.Session) (*models.Evaluation, error)
}

// EvaluationHandler exposes mentor evaluations.
type EvaluationHandler struct {
	service evaluationService
}

// NewEvaluationHandler constructs an EvaluationHandler.
func NewEvaluationHandler(svc evaluationService) *EvaluationHandler {
	return &EvaluationHandler{service: svc}
}

// Save godoc
// @Summary Record a mentee evaluation
// @Description Total and grade are computed from the marks
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.EvaluationRequest true "Marks"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /evaluations/{id} [put]
func (h *EvaluationHandler) Save(c *gin.Context) {
	var req dto.EvaluationRequest
	if !bindJSON(c, &req, "invalid evaluation payload") {
		return
	}
	evaluation, err := h.service.Save(c.Request.Context(), sessionFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluation, nil)
}

// ForStudent godoc
// @Summary Get a student's evaluation
// @Tags Evaluations
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /evaluations/{id} [get]
func (h *EvaluationHandler) ForStudent(c *gin.Context) {
	evaluation, err := h.service.ForStudent(c.Request.Context(), sessionFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluation, nil)
}

// Mine godoc
// @Summary Get own evaluation
// @Tags Evaluations
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/me/evaluation [get]
func (h *EvaluationHandler) Mine(c *gin.Context) {
	evaluation, err := h.service.Mine(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, evaluation, nil)
}
