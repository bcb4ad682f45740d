package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

type sessionResolver interface {
	Resolve(ctx context.Context, session *models.Session) (*models.Session, error)
	LandingPath(ctx context.Context, session *models.Session) (string, error)
}

// RouteHandler serves the page-level routes: the login entry point and the
// per-role dashboards, redirecting visitors to where they belong.
type RouteHandler struct {
	sessions   sessionResolver
	dashboards *DashboardHandler
	apiPrefix  string
}

// NewRouteHandler constructs a RouteHandler.
func NewRouteHandler(sessions sessionResolver, dashboards *DashboardHandler, apiPrefix string) *RouteHandler {
	return &RouteHandler{sessions: sessions, dashboards: dashboards, apiPrefix: apiPrefix}
}

// Login godoc
// @Summary Login entry point
// @Description Redirects an active session to its dashboard, otherwise describes the sign-in methods
// @Tags Pages
// @Produce json
// @Success 200 {object} response.Envelope
// @Success 302
// @Router /auth/login [get]
func (h *RouteHandler) Login(c *gin.Context) {
	session := sessionFromContext(c)
	if session != nil {
		path, err := h.sessions.LandingPath(c.Request.Context(), session)
		if err == nil {
			response.Redirect(c, path)
			return
		}
		if !errors.Is(err, appErrors.ErrProfileNotFound) {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, gin.H{
			"authenticated": true,
			"message":       appErrors.ErrProfileNotFound.Message,
		}, nil)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"authenticated": false,
		"methods": gin.H{
			"password":   h.apiPrefix + "/auth/signin",
			"otp":        h.apiPrefix + "/auth/otp",
			"magic_link": h.apiPrefix + "/auth/magic-link",
			"signup":     h.apiPrefix + "/auth/signup",
		},
	}, nil)
}

// Dashboard returns the page handler for one role dashboard. Anonymous
// visitors and sessions without a profile go to the login page. Sessions of
// another role go to their own dashboard.
func (h *RouteHandler) Dashboard(role models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessionFromContext(c)
		if session == nil {
			response.Redirect(c, models.LoginPath)
			return
		}
		resolved, err := h.sessions.Resolve(c.Request.Context(), session)
		if err != nil {
			// Without a profile the session routes like an anonymous one and
			// the login page explains why.
			if errors.Is(err, appErrors.ErrProfileNotFound) {
				response.Redirect(c, models.LoginPath)
				return
			}
			response.Error(c, err)
			return
		}
		if resolved.Role != role {
			response.Redirect(c, resolved.Role.DashboardPath())
			return
		}
		h.dashboards.render(c, resolved)
	}
}
