package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

func TestDashboardHandlerReportsCacheHit(t *testing.T) {
	router := newTestRouter(studentUser)
	router.GET("/dashboard", NewDashboardHandler(&fakeDashboardSrv{hit: true}).Get)

	rec := perform(router, http.MethodGet, "/dashboard", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(rec)
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	assert.Equal(t, "student", envelope.Meta["role"])
	assert.Contains(t, string(envelope.Data), `"next_step":"apply_noc"`)
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestDashboardHandlerErrors(t *testing.T) {
	router := newTestRouter(nil)
	router.GET("/dashboard", NewDashboardHandler(&fakeDashboardSrv{}).Get)
	rec := perform(router, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	router = newTestRouter(studentUser)
	router.GET("/dashboard", NewDashboardHandler(&fakeDashboardSrv{err: appErrors.ErrProfileNotFound}).Get)
	rec = perform(router, http.MethodGet, "/dashboard", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
