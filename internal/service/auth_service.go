package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/internship-noc-api/internal/models"
	"github.com/noah-isme/internship-noc-api/internal/repository"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

const (
	codeKindOTP       = "otp"
	codeKindMagicLink = "magic"

	authMethodPassword  = "password"
	authMethodOTP       = "otp"
	authMethodMagicLink = "magic_link"
	authMethodRefresh   = "refresh"
)

type authAccountRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	CreateWithProfile(ctx context.Context, account *models.Account, profile *models.Profile) error
	FindProfile(ctx context.Context, id string) (*models.Profile, error)
	MarkSignedIn(ctx context.Context, id string, ts time.Time, emailConfirmed bool) error
	RevokeUserRefreshTokens(ctx context.Context, userID string) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type oneTimeCodeStore interface {
	Save(ctx context.Context, kind, subject, value string, ttl time.Duration) error
	Peek(ctx context.Context, kind, subject string) (string, bool, error)
	Consume(ctx context.Context, kind, subject string) (string, bool, error)
	RegisterAttempt(ctx context.Context, kind, subject string, ttl time.Duration) (int64, error)
	Discard(ctx context.Context, kind, subject string) error
}

type notifier interface {
	Notify(n Notification) error
}

type userCacheInvalidator interface {
	InvalidateUser(ctx context.Context, userID string) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
	Audience           []string
	SingleSession      bool
	OTPTTL             time.Duration
	MagicLinkTTL       time.Duration
	MaxOTPAttempts     int
	// AppBaseURL is the public application URL magic links point at.
	AppBaseURL string
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo      authAccountRepository
	codes     oneTimeCodeStore
	notifier  notifier
	cache     userCacheInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// AuthServiceParams groups constructor dependencies.
type AuthServiceParams struct {
	Repo      authAccountRepository
	Codes     oneTimeCodeStore
	Notifier  notifier
	Cache     userCacheInvalidator
	Metrics   *MetricsService
	Validator *validator.Validate
	Logger    *zap.Logger
	Config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(params AuthServiceParams) *AuthService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	cfg := params.Config
	if cfg.AccessTokenExpiry <= 0 {
		cfg.AccessTokenExpiry = time.Hour
	}
	if cfg.RefreshTokenExpiry <= 0 {
		cfg.RefreshTokenExpiry = 7 * 24 * time.Hour
	}
	if cfg.OTPTTL <= 0 {
		cfg.OTPTTL = 10 * time.Minute
	}
	if cfg.MagicLinkTTL <= 0 {
		cfg.MagicLinkTTL = 15 * time.Minute
	}
	if cfg.MaxOTPAttempts <= 0 {
		cfg.MaxOTPAttempts = 5
	}
	cfg.AppBaseURL = strings.TrimRight(cfg.AppBaseURL, "/")
	return &AuthService{
		repo:      params.Repo,
		codes:     params.Codes,
		notifier:  params.Notifier,
		cache:     params.Cache,
		metrics:   params.Metrics,
		validator: validate,
		logger:    logger,
		config:    cfg,
		now:       time.Now,
	}
}

// SignUp registers an account and its profile and signs the user in.
func (s *AuthService) SignUp(ctx context.Context, req models.SignUpRequest, meta models.SignInRequest) (*models.SignUpResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sign-up payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	fullName := strings.TrimSpace(req.FullName)
	account := &models.Account{Email: req.Email, PasswordHash: string(hash)}
	profile := &models.Profile{Role: req.Role, FullName: &fullName}
	if err := s.repo.CreateWithProfile(ctx, account, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "email is already registered")
		}
		return nil, appErrors.Store(err, "failed to create account")
	}

	s.audit(ctx, account.ID, models.AuditActionSignUp, `{"role":"`+string(req.Role)+`"}`, meta)

	session, err := s.issueSession(ctx, account, profile, meta, false)
	if err != nil {
		return nil, err
	}
	return &models.SignUpResponse{User: session.User, Session: session}, nil
}

// SignIn authenticates with email and password.
func (s *AuthService) SignIn(ctx context.Context, req models.SignInRequest) (*models.AuthSession, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid sign-in payload")
	}

	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		s.metrics.RecordAuthAttempt(authMethodPassword, false)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.Store(err, "failed to fetch account")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(req.Password)); err != nil {
		s.metrics.RecordAuthAttempt(authMethodPassword, false)
		return nil, appErrors.ErrInvalidCredentials
	}

	profile, err := s.loadProfile(ctx, account.ID)
	if err != nil {
		s.metrics.RecordAuthAttempt(authMethodPassword, false)
		return nil, err
	}

	session, err := s.issueSession(ctx, account, profile, req, false)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAuthAttempt(authMethodPassword, true)
	return session, nil
}

// RequestOTP sends a six digit sign-in code. Unknown emails get the same
// response without a code being sent.
func (s *AuthService) RequestOTP(ctx context.Context, req models.OTPRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid one-time code request")
	}

	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Info("one-time code requested for unknown email")
			return nil
		}
		return appErrors.Store(err, "failed to fetch account")
	}

	code, err := generateNumericCode(6)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate code")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash code")
	}
	if err := s.codes.Save(ctx, codeKindOTP, account.Email, string(hash), s.config.OTPTTL); err != nil {
		return appErrors.Store(err, "failed to store code")
	}

	s.notify(Notification{
		Kind:    NotificationOTP,
		To:      account.Email,
		Subject: "Your sign-in code",
		Body:    fmt.Sprintf("Your sign-in code is %s. It expires in %d minutes.", code, int(s.config.OTPTTL.Minutes())),
	})
	return nil
}

// VerifyOTP exchanges a one-time code for a session. Codes are single use
// and are discarded once the attempt limit is reached.
func (s *AuthService) VerifyOTP(ctx context.Context, req models.VerifyOTPRequest) (*models.AuthSession, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid one-time code payload")
	}

	// The attempt is counted before the comparison so concurrent guesses
	// cannot together exceed the limit.
	attempts, err := s.codes.RegisterAttempt(ctx, codeKindOTP, req.Email, s.config.OTPTTL)
	if err != nil {
		return nil, appErrors.Store(err, "failed to count code attempt")
	}
	if attempts > int64(s.config.MaxOTPAttempts) {
		s.metrics.RecordAuthAttempt(authMethodOTP, false)
		s.discardOTP(ctx, req.Email)
		return nil, appErrors.ErrInvalidOTP
	}

	stored, ok, err := s.codes.Peek(ctx, codeKindOTP, req.Email)
	if err != nil {
		return nil, appErrors.Store(err, "failed to read code")
	}
	if !ok {
		s.metrics.RecordAuthAttempt(authMethodOTP, false)
		return nil, appErrors.ErrInvalidOTP
	}
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte(req.Code)) != nil {
		s.metrics.RecordAuthAttempt(authMethodOTP, false)
		if attempts >= int64(s.config.MaxOTPAttempts) {
			s.discardOTP(ctx, req.Email)
		}
		return nil, appErrors.ErrInvalidOTP
	}
	if _, consumed, err := s.codes.Consume(ctx, codeKindOTP, req.Email); err != nil {
		return nil, appErrors.Store(err, "failed to consume code")
	} else if !consumed {
		// A concurrent verification already used the code.
		return nil, appErrors.ErrInvalidOTP
	}

	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrInvalidOTP
		}
		return nil, appErrors.Store(err, "failed to fetch account")
	}
	profile, err := s.loadProfile(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	session, err := s.issueSession(ctx, account, profile, models.SignInRequest{IP: req.IP, UserAgent: req.UserAgent}, true)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAuthAttempt(authMethodOTP, true)
	return session, nil
}

func (s *AuthService) discardOTP(ctx context.Context, email string) {
	if err := s.codes.Discard(ctx, codeKindOTP, email); err != nil {
		s.logger.Warn("failed to discard one-time code", zap.Error(err))
	}
}

// RequestMagicLink emails a single use sign-in link built from the public
// application URL.
func (s *AuthService) RequestMagicLink(ctx context.Context, req models.MagicLinkRequest) error {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid magic link request")
	}

	account, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Info("magic link requested for unknown email")
			return nil
		}
		return appErrors.Store(err, "failed to fetch account")
	}

	token, err := generateOpaqueToken()
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate link")
	}
	if err := s.codes.Save(ctx, codeKindMagicLink, token, account.ID, s.config.MagicLinkTTL); err != nil {
		return appErrors.Store(err, "failed to store link")
	}

	s.notify(Notification{
		Kind:    NotificationMagicLink,
		To:      account.Email,
		Subject: "Your sign-in link",
		Body:    fmt.Sprintf("Sign in by opening %s . The link expires in %d minutes.", s.MagicLinkURL(token, req.RedirectTo), int(s.config.MagicLinkTTL.Minutes())),
	})
	return nil
}

// MagicLinkURL builds the email redirect link. Redirect targets outside the
// application base URL are dropped.
func (s *AuthService) MagicLinkURL(token, redirectTo string) string {
	q := url.Values{}
	q.Set("token", token)
	if redirectTo != "" && s.config.AppBaseURL != "" && strings.HasPrefix(redirectTo, s.config.AppBaseURL+"/") {
		q.Set("redirect_to", redirectTo)
	}
	return s.config.AppBaseURL + "/auth/callback?" + q.Encode()
}

// VerifyMagicLink exchanges a magic link token for a session.
func (s *AuthService) VerifyMagicLink(ctx context.Context, req models.VerifyMagicLinkRequest) (*models.AuthSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid magic link payload")
	}

	accountID, ok, err := s.codes.Consume(ctx, codeKindMagicLink, req.Token)
	if err != nil {
		return nil, appErrors.Store(err, "failed to read link")
	}
	if !ok {
		s.metrics.RecordAuthAttempt(authMethodMagicLink, false)
		return nil, appErrors.Clone(appErrors.ErrInvalidOTP, "sign-in link is invalid or has expired")
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrInvalidOTP, "sign-in link is invalid or has expired")
		}
		return nil, appErrors.Store(err, "failed to fetch account")
	}
	profile, err := s.loadProfile(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	session, err := s.issueSession(ctx, account, profile, models.SignInRequest{IP: req.IP, UserAgent: req.UserAgent}, true)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAuthAttempt(authMethodMagicLink, true)
	return session, nil
}

// Refresh exchanges a refresh token for a new session, rotating the token.
func (s *AuthService) Refresh(ctx context.Context, req models.RefreshTokenRequest) (*models.AuthSession, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid refresh payload")
	}

	storedToken, err := s.repo.FindRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token not found")
		}
		return nil, appErrors.Store(err, "failed to fetch refresh token")
	}
	if !storedToken.Active(s.now().UTC()) {
		s.metrics.RecordAuthAttempt(authMethodRefresh, false)
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token is expired or revoked")
	}

	account, err := s.repo.FindByID(ctx, storedToken.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "associated account no longer exists")
		}
		return nil, appErrors.Store(err, "failed to load account")
	}
	profile, err := s.loadProfile(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RevokeRefreshToken(ctx, storedToken.ID, s.now().UTC()); err != nil {
		s.logger.Warn("failed to revoke used refresh token", zap.Error(err))
	}

	session, err := s.buildSession(ctx, account, profile, models.SignInRequest{IP: req.IP, UserAgent: req.UserAgent})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordAuthAttempt(authMethodRefresh, true)
	return session, nil
}

// SignOut revokes the given refresh token, or every token of the user when
// none is supplied, and drops the user's cached dashboards so nothing of the
// previous session can be served again.
func (s *AuthService) SignOut(ctx context.Context, session *models.Session, refreshToken string, meta models.SignInRequest) error {
	if session == nil {
		return appErrors.ErrUnauthorized
	}

	if refreshToken != "" {
		storedToken, err := s.repo.FindRefreshToken(ctx, refreshToken)
		switch {
		case errors.Is(err, sql.ErrNoRows):
			// Already gone; signing out is idempotent.
		case err != nil:
			return appErrors.Store(err, "failed to load refresh token")
		case storedToken.UserID != session.UserID:
			return appErrors.Clone(appErrors.ErrForbidden, "token does not belong to user")
		default:
			if err := s.repo.RevokeRefreshToken(ctx, storedToken.ID, s.now().UTC()); err != nil {
				return appErrors.Store(err, "failed to revoke refresh token")
			}
		}
	} else if err := s.repo.RevokeUserRefreshTokens(ctx, session.UserID); err != nil {
		return appErrors.Store(err, "failed to revoke refresh tokens")
	}

	if s.cache != nil {
		if err := s.cache.InvalidateUser(ctx, session.UserID); err != nil {
			s.logger.Warn("failed to drop cached dashboards on sign-out", zap.String("user_id", session.UserID), zap.Error(err))
		}
	}

	s.audit(ctx, session.UserID, models.AuditActionLogout, `{"status":"logout"}`, meta)
	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || !claims.Role.Valid() {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}

	return claims, nil
}

func (s *AuthService) loadProfile(ctx context.Context, accountID string) (*models.Profile, error) {
	profile, err := s.repo.FindProfile(ctx, accountID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.Warn("authenticated account has no profile", zap.String("user_id", accountID))
			return nil, appErrors.ErrProfileNotFound
		}
		return nil, appErrors.Store(err, "failed to fetch profile")
	}
	if !profile.Role.Valid() {
		return nil, appErrors.ErrProfileNotFound
	}
	return profile, nil
}

// issueSession records the sign-in and builds a fresh session.
func (s *AuthService) issueSession(ctx context.Context, account *models.Account, profile *models.Profile, meta models.SignInRequest, emailConfirmed bool) (*models.AuthSession, error) {
	if s.config.SingleSession {
		if err := s.repo.RevokeUserRefreshTokens(ctx, account.ID); err != nil {
			s.logger.Warn("failed to revoke previous refresh tokens", zap.Error(err))
		}
	}

	session, err := s.buildSession(ctx, account, profile, meta)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MarkSignedIn(ctx, account.ID, s.now().UTC(), emailConfirmed); err != nil {
		s.logger.Warn("failed to update last sign-in", zap.Error(err))
	}
	s.audit(ctx, account.ID, models.AuditActionLogin, `{"status":"success"}`, meta)
	return session, nil
}

func (s *AuthService) buildSession(ctx context.Context, account *models.Account, profile *models.Profile, meta models.SignInRequest) (*models.AuthSession, error) {
	user := models.UserInfo{ID: account.ID, Email: account.Email, FullName: profile.DisplayName(), Role: profile.Role}

	accessToken, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	refreshTokenValue, err := generateOpaqueToken()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create refresh token")
	}

	now := s.now().UTC()
	refreshToken := &models.RefreshToken{
		ID:        uuid.NewString(),
		UserID:    account.ID,
		Token:     refreshTokenValue,
		ExpiresAt: now.Add(s.config.RefreshTokenExpiry),
		CreatedAt: now,
		IPAddress: meta.IP,
		UserAgent: meta.UserAgent,
	}
	if err := s.repo.CreateRefreshToken(ctx, refreshToken); err != nil {
		return nil, appErrors.Store(err, "failed to persist refresh token")
	}

	return &models.AuthSession{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		ExpiresAt:    expiresAt,
		User:         user,
		RedirectTo:   profile.Role.DashboardPath(),
	}, nil
}

func (s *AuthService) generateAccessToken(user models.UserInfo) (string, time.Time, error) {
	issuedAt := s.now().UTC()
	expiresAt := issuedAt.Add(s.config.AccessTokenExpiry)
	claims := &models.JWTClaims{
		UserID:   user.ID,
		Role:     user.Role,
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   user.ID,
			Audience:  s.config.Audience,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.AccessTokenSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

func (s *AuthService) audit(ctx context.Context, userID, action, values string, meta models.SignInRequest) {
	if err := s.repo.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     action,
		Resource:   "auth",
		ResourceID: &userID,
		NewValues:  []byte(values),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record auth audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *AuthService) notify(n Notification) {
	if s.notifier == nil {
		s.logger.Warn("no notifier configured", zap.String("kind", n.Kind))
		return
	}
	// Delivery is best effort; the notifier logs failures itself.
	_ = s.notifier.Notify(n)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func generateOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func generateNumericCode(digits int) (string, error) {
	var b strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}
