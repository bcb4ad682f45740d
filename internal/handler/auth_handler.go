package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

type authService interface {
	SignUp(ctx context.Context, req models.SignUpRequest, meta models.SignInRequest) (*models.SignUpResponse, error)
	SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthSession, error)
	RequestOTP(ctx context.Context, req models.OTPRequest) error
	VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.AuthSession, error)
	RequestMagicLink(ctx context.Context, req models.MagicLinkRequest) error
	VerifyMagicLink(ctx context.Context, req models.VerifyMagicLinkRequest) (*models.AuthSession, error)
	Refresh(ctx context.Context, req models.RefreshTokenRequest) (*models.AuthSession, error)
	SignOut(ctx context.Context, session *models.Session, refreshToken string, meta models.SignInRequest) error
}

// CookieConfig controls the session cookie mirrored from the access token.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookie  CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{service: svc, cookie: cookie}
}

// SignUp godoc
// @Summary Register account
// @Description Create an account together with its role profile
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.SignUpRequest true "Sign-up payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req models.SignUpRequest
	if !bindJSON(c, &req, "invalid sign-up payload") {
		return
	}

	res, err := h.service.SignUp(c.Request.Context(), req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if res.Session != nil {
		h.setCookie(c, res.Session)
	}

	response.Created(c, res)
}

// SignIn godoc
// @Summary Sign in with password
// @Description Authenticate by email and password and resolve the role dashboard
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.SignInRequest true "Sign-in payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /auth/signin [post]
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req models.SignInRequest
	if !bindJSON(c, &req, "invalid sign-in payload") {
		return
	}
	meta := requestMeta(c)
	req.IP, req.UserAgent = meta.IP, meta.UserAgent

	h.respondSession(c, func(ctx context.Context) (*models.AuthSession, error) {
		return h.service.SignIn(ctx, req)
	})
}

// RequestOTP godoc
// @Summary Request one-time code
// @Description Email a six digit sign-in code. Always accepted.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.OTPRequest true "Email"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/otp [post]
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req models.OTPRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	if err := h.service.RequestOTP(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"message": "if the email is registered, a code has been sent"}, nil)
}

// VerifyOTP godoc
// @Summary Verify one-time code
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.VerifyOTPRequest true "Email and code"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/otp/verify [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req models.VerifyOTPRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	meta := requestMeta(c)
	req.IP, req.UserAgent = meta.IP, meta.UserAgent

	h.respondSession(c, func(ctx context.Context) (*models.AuthSession, error) {
		return h.service.VerifyOTP(ctx, req)
	})
}

// RequestMagicLink godoc
// @Summary Request magic link
// @Description Email a sign-in link pointing at the application. Always accepted.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.MagicLinkRequest true "Email"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /auth/magic-link [post]
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req models.MagicLinkRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	if err := h.service.RequestMagicLink(c.Request.Context(), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"message": "if the email is registered, a sign-in link has been sent"}, nil)
}

// VerifyMagicLink godoc
// @Summary Verify magic link token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.VerifyMagicLinkRequest true "Token"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/magic-link/verify [post]
func (h *AuthHandler) VerifyMagicLink(c *gin.Context) {
	var req models.VerifyMagicLinkRequest
	if !bindJSON(c, &req, "invalid payload") {
		return
	}
	meta := requestMeta(c)
	req.IP, req.UserAgent = meta.IP, meta.UserAgent

	h.respondSession(c, func(ctx context.Context) (*models.AuthSession, error) {
		return h.service.VerifyMagicLink(ctx, req)
	})
}

// Refresh godoc
// @Summary Refresh access token
// @Description Exchange refresh token for new access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.RefreshTokenRequest true "Refresh payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if !bindJSON(c, &req, "invalid refresh payload") {
		return
	}
	meta := requestMeta(c)
	req.IP, req.UserAgent = meta.IP, meta.UserAgent

	h.respondSession(c, func(ctx context.Context) (*models.AuthSession, error) {
		return h.service.Refresh(ctx, req)
	})
}

// SignOut godoc
// @Summary Sign out
// @Description Revoke the given refresh token, or every token of the user when omitted, and clear the session cookie
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body map[string]string false "Refresh token"
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/signout [post]
func (h *AuthHandler) SignOut(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var payload struct {
		RefreshToken string `json:"refresh_token"`
	}
	if c.Request.ContentLength > 0 && !bindJSON(c, &payload, "invalid sign-out payload") {
		return
	}

	if err := h.service.SignOut(c.Request.Context(), session, payload.RefreshToken, requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}

	h.clearCookie(c)
	response.NoContent(c)
}

// Session godoc
// @Summary Current session
// @Description Returns the authenticated user and their dashboard path
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/session [get]
func (h *AuthHandler) Session(c *gin.Context) {
	session := sessionFromContext(c)
	if session == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{
		"user":        session.Info(),
		"expires_at":  session.ExpiresAt,
		"redirect_to": session.Role.DashboardPath(),
	}, nil)
}

func (h *AuthHandler) respondSession(c *gin.Context, issue func(ctx context.Context) (*models.AuthSession, error)) {
	res, err := issue(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setCookie(c, res)
	response.JSON(c, http.StatusOK, res, nil)
}

func (h *AuthHandler) setCookie(c *gin.Context, session *models.AuthSession) {
	if h.cookie.Name == "" {
		return
	}
	maxAge := int(time.Until(session.ExpiresAt).Seconds())
	if maxAge <= 0 {
		maxAge = int(session.ExpiresIn)
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, session.AccessToken, maxAge, "/", "", h.cookie.Secure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	if h.cookie.Name == "" {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, "", -1, "/", "", h.cookie.Secure, true)
}
