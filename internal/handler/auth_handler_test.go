package handler

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type fakeAuthService struct {
	session      *models.AuthSession
	err          error
	signInReq    models.SignInRequest
	signOutToken string
	signOutUser  string
	otpRequested string
}

func (f *fakeAuthService) SignUp(_ context.Context, req models.SignUpRequest, _ models.SignInRequest) (*models.SignUpResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.SignUpResponse{User: models.UserInfo{Email: req.Email, Role: req.Role}, Session: f.session}, nil
}

func (f *fakeAuthService) SignIn(_ context.Context, req models.SignInRequest) (*models.AuthSession, error) {
	f.signInReq = req
	return f.session, f.err
}

func (f *fakeAuthService) RequestOTP(_ context.Context, req models.OTPRequest) error {
	f.otpRequested = req.Email
	return nil
}

func (f *fakeAuthService) VerifyOTP(context.Context, models.VerifyOTPRequest) (*models.AuthSession, error) {
	return f.session, f.err
}

func (f *fakeAuthService) RequestMagicLink(context.Context, models.MagicLinkRequest) error {
	return nil
}

func (f *fakeAuthService) VerifyMagicLink(context.Context, models.VerifyMagicLinkRequest) (*models.AuthSession, error) {
	return f.session, f.err
}

func (f *fakeAuthService) Refresh(context.Context, models.RefreshTokenRequest) (*models.AuthSession, error) {
	return f.session, f.err
}

func (f *fakeAuthService) SignOut(_ context.Context, session *models.Session, refreshToken string, _ models.SignInRequest) error {
	f.signOutUser = session.UserID
	f.signOutToken = refreshToken
	return f.err
}

func issuedSession() *models.AuthSession {
	return &models.AuthSession{
		AccessToken:  "access",
		RefreshToken: "refresh",
		ExpiresIn:    3600,
		ExpiresAt:    time.Now().Add(time.Hour),
		User:         models.UserInfo{ID: "u-teacher", Role: models.RoleTeacher},
		RedirectTo:   "/dashboard/teacher",
	}
}

func TestAuthHandlerSignInSetsCookie(t *testing.T) {
	svc := &fakeAuthService{session: issuedSession()}
	router := newTestRouter(nil)
	h := NewAuthHandler(svc, CookieConfig{Name: "noc_session"})
	router.POST("/auth/signin", h.SignIn)

	rec := perform(router, http.MethodPost, "/auth/signin", map[string]string{"email": "t@example.com", "password": "secret"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "t@example.com", svc.signInReq.Email)
	assert.NotEmpty(t, svc.signInReq.IP)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "noc_session", cookies[0].Name)
	assert.Equal(t, "access", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Contains(t, rec.Body.String(), `"redirect_to":"/dashboard/teacher"`)
}

func TestAuthHandlerSignInErrors(t *testing.T) {
	router := newTestRouter(nil)
	h := NewAuthHandler(&fakeAuthService{err: appErrors.ErrProfileNotFound}, CookieConfig{Name: "noc_session"})
	router.POST("/auth/signin", h.SignIn)

	rec := perform(router, http.MethodPost, "/auth/signin", map[string]string{"email": "t@example.com", "password": "secret"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, appErrors.ErrProfileNotFound.Code, decodeEnvelope(rec).Error.Code)
	assert.Empty(t, rec.Result().Cookies())

	rec = perform(router, http.MethodPost, "/auth/signin", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerRequestOTPIsAccepted(t *testing.T) {
	svc := &fakeAuthService{}
	router := newTestRouter(nil)
	router.POST("/auth/otp", NewAuthHandler(svc, CookieConfig{}).RequestOTP)

	rec := perform(router, http.MethodPost, "/auth/otp", map[string]string{"email": "nobody@example.com"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "nobody@example.com", svc.otpRequested)
}

func TestAuthHandlerSignOutClearsCookie(t *testing.T) {
	svc := &fakeAuthService{}
	router := newTestRouter(teacherUser)
	router.POST("/auth/signout", NewAuthHandler(svc, CookieConfig{Name: "noc_session"}).SignOut)

	rec := perform(router, http.MethodPost, "/auth/signout", map[string]string{"refresh_token": "refresh"})

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u-teacher", svc.signOutUser)
	assert.Equal(t, "refresh", svc.signOutToken)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}

func TestAuthHandlerSignOutWithoutBody(t *testing.T) {
	svc := &fakeAuthService{}
	router := newTestRouter(studentUser)
	router.POST("/auth/signout", NewAuthHandler(svc, CookieConfig{}).SignOut)

	rec := perform(router, http.MethodPost, "/auth/signout", nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "u-student", svc.signOutUser)
	assert.Empty(t, svc.signOutToken)
}

func TestAuthHandlerSession(t *testing.T) {
	router := newTestRouter(hodUser)
	router.GET("/auth/session", NewAuthHandler(&fakeAuthService{}, CookieConfig{}).Session)

	rec := perform(router, http.MethodGet, "/auth/session", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redirect_to":"/dashboard/hod"`)
}
