package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SignUpRequest registers a new account with profile metadata.
type SignUpRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=6"`
	FullName string   `json:"full_name" validate:"required,max=120"`
	Role     UserRole `json:"role" validate:"required,oneof=student teacher hod"`
}

// SignInRequest holds credentials for password sign-in.
type SignInRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// OTPRequest asks for a one-time code to be sent to an email.
type OTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest exchanges a one-time code for a session.
type VerifyOTPRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Code      string `json:"code" validate:"required,len=6,numeric"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// MagicLinkRequest asks for a sign-in link to be sent to an email.
type MagicLinkRequest struct {
	Email      string `json:"email" validate:"required,email"`
	RedirectTo string `json:"redirect_to" validate:"omitempty,url"`
}

// VerifyMagicLinkRequest exchanges a magic link token for a session.
type VerifyMagicLinkRequest struct {
	Token     string `json:"token" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// RefreshTokenRequest exchanges a refresh token for a new session.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// SignUpResponse reports the created account. A session is only present
// when the account can be used immediately.
type SignUpResponse struct {
	User    UserInfo     `json:"user"`
	Session *AuthSession `json:"session,omitempty"`
}

// AuthSession returns the issued tokens and the resolved user.
type AuthSession struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    time.Time `json:"expires_at"`
	User         UserInfo  `json:"user"`
	RedirectTo   string    `json:"redirect_to"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name,omitempty"`
	Role     UserRole `json:"role"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID   string   `json:"user_id"`
	Role     UserRole `json:"role"`
	Email    string   `json:"email"`
	FullName string   `json:"full_name"`
	jwt.RegisteredClaims
}

// Session is the explicit per-request identity resolved once from a valid
// access token. Handlers and services receive it instead of reading ambient
// state.
type Session struct {
	UserID    string
	Email     string
	FullName  string
	Role      UserRole
	ExpiresAt time.Time
}

// Info converts the session into its public representation.
func (s Session) Info() UserInfo {
	return UserInfo{ID: s.UserID, Email: s.Email, FullName: s.FullName, Role: s.Role}
}
