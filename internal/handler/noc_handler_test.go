package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-noc-api/internal/dto"
	"github.com/noah-isme/internship-noc-api/internal/models"
	appErrors "github.com/noah-isme/internship-noc-api/pkg/errors"
)

type fakeNOCService struct {
	decideErr error
	decidedID string
	decision  dto.DecisionRequest
	submitted *dto.NOCSubmitRequest
}

func (f *fakeNOCService) Submit(_ context.Context, _ *models.Session, req dto.NOCSubmitRequest) (*dto.ApplicationView, error) {
	f.submitted = &req
	app := &models.NOCApplication{ID: "app-1", Status: models.NOCStatusPending}
	return dto.NewApplicationView(app, nil), nil
}

func (f *fakeNOCService) Mine(context.Context, *models.Session) (*dto.ApplicationView, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "no application yet")
}

func (f *fakeNOCService) Queue(context.Context, *models.Session) ([]dto.QueueEntry, error) {
	return []dto.QueueEntry{}, nil
}

func (f *fakeNOCService) Decide(_ context.Context, _ *models.Session, id string, req dto.DecisionRequest) (*dto.ApplicationView, error) {
	f.decidedID = id
	f.decision = req
	if f.decideErr != nil {
		return nil, f.decideErr
	}
	stage := models.StageMentor
	app := &models.NOCApplication{ID: id, Status: models.NOCStatusMentorApproved}
	return dto.NewApplicationView(app, &stage), nil
}

func TestNOCHandlerDecide(t *testing.T) {
	svc := &fakeNOCService{}
	router := newTestRouter(teacherUser)
	router.POST("/noc/:id/decision", NewNOCHandler(svc).Decide)

	rec := perform(router, http.MethodPost, "/noc/app-9/decision", map[string]string{"decision": "approve", "remarks": "ok"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "app-9", svc.decidedID)
	assert.Equal(t, models.DecisionApprove, svc.decision.Decision)
	require.NotNil(t, svc.decision.Remarks)
	assert.Contains(t, rec.Body.String(), `"allowed_actions":[]`)
}

func TestNOCHandlerDecideConflict(t *testing.T) {
	svc := &fakeNOCService{decideErr: appErrors.Clone(appErrors.ErrInvalidTransition, "application already decided")}
	router := newTestRouter(hodUser)
	router.POST("/noc/:id/decision", NewNOCHandler(svc).Decide)

	rec := perform(router, http.MethodPost, "/noc/app-1/decision", map[string]string{"decision": "reject"})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, appErrors.ErrInvalidTransition.Code, decodeEnvelope(rec).Error.Code)
}

func TestNOCHandlerSubmitAndMine(t *testing.T) {
	svc := &fakeNOCService{}
	router := newTestRouter(studentUser)
	h := NewNOCHandler(svc)
	router.POST("/students/me/noc", h.Submit)
	router.GET("/students/me/noc", h.Mine)

	rec := perform(router, http.MethodPost, "/students/me/noc", map[string]interface{}{"declaration_accepted": true})
	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, svc.submitted)
	assert.True(t, svc.submitted.DeclarationAccepted)

	rec = perform(router, http.MethodGet, "/students/me/noc", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
