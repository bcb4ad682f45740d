package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
	"github.com/noah-isme/internship-noc-api/pkg/logger"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

// ContextUserKey is the gin context key storing the resolved *models.Session.
const ContextUserKey = "currentUser"

type sessionSource interface {
	FromToken(token string) (*models.Session, error)
}

// Authenticate requires a valid access token from the Authorization header
// or the session cookie.
func Authenticate(sessions sessionSource, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFromRequest(c, cookieName)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		if token == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		session, err := sessions.FromToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		setSession(c, session)
		c.Next()
	}
}

// OptionalSession attaches the session when a valid token is present but
// never blocks. Page routes use it to decide where to redirect.
func OptionalSession(sessions sessionSource, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := tokenFromRequest(c, cookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}
		if session, err := sessions.FromToken(token); err == nil {
			setSession(c, session)
		}
		c.Next()
	}
}

// CurrentSession returns the session attached by Authenticate or
// OptionalSession, or nil.
func CurrentSession(c *gin.Context) *models.Session {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	session, _ := value.(*models.Session)
	return session
}

func setSession(c *gin.Context, session *models.Session) {
	c.Set(ContextUserKey, session)
	c.Set(logger.SessionFieldsKey, []zap.Field{
		zap.String("user_id", session.UserID),
		zap.String("role", string(session.Role)),
	})
}

func tokenFromRequest(c *gin.Context, cookieName string) (string, error) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header")
		}
		return strings.TrimSpace(parts[1]), nil
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil {
			return cookie, nil
		}
	}
	return "", nil
}
