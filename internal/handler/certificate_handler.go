package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/internal/service"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

type certificateService interface {
	ForStudent(ctx context.Context, session *models.Session) (*service.File, error)
	ForToken(ctx context.Context, token string) (*service.File, error)
	Roster(ctx context.Context, session *models.Session, format string) (*service.File, error)
}

// CertificateHandler streams rendered NOC certificates and rosters.
type CertificateHandler struct {
	service certificateService
}

// NewCertificateHandler constructs a CertificateHandler.
func NewCertificateHandler(svc certificateService) *CertificateHandler {
	return &CertificateHandler{service: svc}
}

// Mine godoc
// @Summary Download own NOC certificate
// @Tags Certificates
// @Produce application/pdf
// @Success 200 {file} file
// @Failure 412 {object} response.Envelope
// @Router /students/me/noc/certificate [get]
func (h *CertificateHandler) Mine(c *gin.Context) {
	file, err := h.service.ForStudent(c.Request.Context(), sessionFromContext(c))
	h.send(c, file, err)
}

// ByToken godoc
// @Summary Download a NOC certificate from a signed link
// @Tags Certificates
// @Produce application/pdf
// @Param token path string true "Signed token"
// @Success 200 {file} file
// @Failure 401 {object} response.Envelope
// @Router /certificates/{token} [get]
func (h *CertificateHandler) ByToken(c *gin.Context) {
	file, err := h.service.ForToken(c.Request.Context(), c.Param("token"))
	h.send(c, file, err)
}

// Roster godoc
// @Summary Export the student roster
// @Tags HOD
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /hod/students/export [get]
func (h *CertificateHandler) Roster(c *gin.Context) {
	format := strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", service.FormatCSV)))
	file, err := h.service.Roster(c.Request.Context(), sessionFromContext(c), format)
	h.send(c, file, err)
}

func (h *CertificateHandler) send(c *gin.Context, file *service.File, err error) {
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Name, file.ContentType, file.Body)
}
