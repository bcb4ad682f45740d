package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

type nocService interface {
	Submit(ctx context.Context, session *models.Session, req dto.NOCSubmitRequest) (*dto.ApplicationView, error)
	Mine(ctx context.Context, session *models.Session) (*dto.ApplicationView, error)
	Queue(ctx context.Context, session *models.Session) ([]dto.QueueEntry, error)
	Decide(ctx context.Context, session *models.Session, applicationID string, req dto.DecisionRequest) (*dto.ApplicationView, error)
}

// NOCHandler exposes the NOC application workflow.
type NOCHandler struct {
	service nocService
}

// NewNOCHandler constructs a NOCHandler.
func NewNOCHandler(svc nocService) *NOCHandler {
	return &NOCHandler{service: svc}
}

// Submit godoc
// @Summary Apply for a NOC
// @Description Requires an internship and the accepted declaration
// @Tags NOC
// @Accept json
// @Produce json
// @Param payload body dto.NOCSubmitRequest true "Application"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /students/me/noc [post]
func (h *NOCHandler) Submit(c *gin.Context) {
	var req dto.NOCSubmitRequest
	if !bindJSON(c, &req, "invalid application payload") {
		return
	}
	view, err := h.service.Submit(c.Request.Context(), sessionFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}

// Mine godoc
// @Summary Get own NOC application
// @Tags NOC
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/me/noc [get]
func (h *NOCHandler) Mine(c *gin.Context) {
	view, err := h.service.Mine(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Queue godoc
// @Summary Applications awaiting the caller
// @Description Mentors see pending applications of their mentees, the HOD sees mentor approved ones
// @Tags NOC
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /noc/queue [get]
func (h *NOCHandler) Queue(c *gin.Context) {
	entries, err := h.service.Queue(c.Request.Context(), sessionFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Decide godoc
// @Summary Approve or reject an application
// @Tags NOC
// @Accept json
// @Produce json
// @Param id path string true "Application ID"
// @Param payload body dto.DecisionRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /noc/{id}/decision [post]
func (h *NOCHandler) Decide(c *gin.Context) {
	var req dto.DecisionRequest
	if !bindJSON(c, &req, "invalid decision payload") {
		return
	}
	view, err := h.service.Decide(c.Request.Context(), sessionFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}
