package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/middleware"
	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

type dashboardService interface {
	ForSession(ctx context.Context, session *models.Session) (dto.Dashboard, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Get godoc
// @Summary Role dashboard
// @Description Student, teacher or HOD view chosen from the session role
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /dashboard [get]
func (h *DashboardHandler) Get(c *gin.Context) {
	h.render(c, sessionFromContext(c))
}

func (h *DashboardHandler) render(c *gin.Context, session *models.Session) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	start := time.Now()
	dashboard, cacheHit, err := h.service.ForSession(c.Request.Context(), session)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["role"] = dashboard.Role()
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, dashboard, nil, meta)
}
