package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/internship-noc-api/internal/models"
)

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sessions := fakeSessions{
		"hod":     {UserID: "h1", Role: models.RoleHOD},
		"student": {UserID: "s1", Role: models.RoleStudent},
	}
	router := gin.New()
	router.GET("/hod", Authenticate(sessions, ""), RequireRoles(models.RoleHOD), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	router.GET("/open", RequireRoles(models.RoleHOD), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	cases := []struct {
		path   string
		token  string
		status int
	}{
		{"/hod", "hod", http.StatusNoContent},
		{"/hod", "student", http.StatusForbidden},
		{"/open", "", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, tc.status, rec.Code, "%s as %q", tc.path, tc.token)
	}
}
