package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

type profileFinder interface {
	FindProfile(ctx context.Context, id string) (*models.Profile, error)
}

// SessionService turns access tokens into sessions and resolves the role of
// a session against the stored profile.
type SessionService struct {
	tokens   tokenValidator
	profiles profileFinder
	logger   *zap.Logger
}

// NewSessionService constructs a SessionService.
func NewSessionService(tokens tokenValidator, profiles profileFinder, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{tokens: tokens, profiles: profiles, logger: logger}
}

// FromToken validates an access token and returns the session it carries.
func (s *SessionService) FromToken(token string) (*models.Session, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	session := &models.Session{
		UserID:   claims.UserID,
		Email:    claims.Email,
		FullName: claims.FullName,
		Role:     claims.Role,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	return session, nil
}

// Resolve looks the profile of the session up and returns the session with
// the stored role. A session whose profile is gone fails with
// PROFILE_NOT_FOUND.
func (s *SessionService) Resolve(ctx context.Context, session *models.Session) (*models.Session, error) {
	if session == nil {
		return nil, appErrors.ErrUnauthorized
	}
	profile, err := s.profiles.FindProfile(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrProfileNotFound
		}
		return nil, appErrors.Store(err, "failed to fetch profile")
	}
	if !profile.Role.Valid() {
		s.logger.Warn("profile carries unknown role", zap.String("user_id", profile.ID), zap.String("role", string(profile.Role)))
		return nil, appErrors.ErrProfileNotFound
	}

	resolved := *session
	if resolved.Role != profile.Role {
		s.logger.Info("session role differs from profile, using profile",
			zap.String("user_id", profile.ID),
			zap.String("token_role", string(session.Role)),
			zap.String("profile_role", string(profile.Role)))
	}
	resolved.Role = profile.Role
	resolved.Email = profile.Email
	resolved.FullName = profile.DisplayName()
	return &resolved, nil
}

// LandingPath returns where a visitor of the login page belongs.
func (s *SessionService) LandingPath(ctx context.Context, session *models.Session) (string, error) {
	if session == nil {
		return models.LoginPath, nil
	}
	resolved, err := s.Resolve(ctx, session)
	if err != nil {
		return models.LoginPath, err
	}
	return resolved.Role.DashboardPath(), nil
}
