package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/internship-noc-api/internal/middleware"
	"github.com/noah-isme/internship-noc-api/internal/models"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// newTestRouter returns an engine that attaches session to every request.
func newTestRouter(session *models.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.WithResponseMeta())
	router.Use(func(c *gin.Context) {
		if session != nil {
			c.Set(middleware.ContextUserKey, session)
		}
		c.Next()
	})
	return router
}

func perform(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(rec *httptest.ResponseRecorder) responseEnvelope {
	var envelope responseEnvelope
	_ = json.Unmarshal(rec.Body.Bytes(), &envelope)
	return envelope
}

var (
	studentUser = &models.Session{UserID: "u-student", Email: "s@example.com", Role: models.RoleStudent}
	teacherUser = &models.Session{UserID: "u-teacher", Email: "t@example.com", Role: models.RoleTeacher}
	hodUser     = &models.Session{UserID: "u-hod", Email: "h@example.com", Role: models.RoleHOD}
)

