package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/middleware"
	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
	"github.com/noah-isme/internship-noc-api/pkg/response"
)

func sessionFromContext(c *gin.Context) *models.Session {
	return middleware.CurrentSession(c)
}

// requestMeta captures caller details recorded on audit entries.
func requestMeta(c *gin.Context) models.SignInRequest {
	return models.SignInRequest{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}

// bindJSON decodes the body and writes a validation error on failure.
func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message))
		return false
	}
	return true
}
