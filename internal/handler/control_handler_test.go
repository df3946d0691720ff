package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
)

type fakeControlSrv struct {
	controls    []models.Control
	getErr      error
	lastFilters models.FilterConfig
	lastUpdate  models.UpdateControlRequest
	lastDecide  models.RecommendationDecision
	lastRecID   string
}

func (f *fakeControlSrv) List(_ context.Context, filters models.FilterConfig, _ string, _ models.RequestMeta) []models.Control {
	f.lastFilters = filters
	return f.controls
}

func (f *fakeControlSrv) Get(_ context.Context, id string) (models.Control, error) {
	if f.getErr != nil {
		return models.Control{}, f.getErr
	}
	return models.Control{ID: id}, nil
}

func (f *fakeControlSrv) Update(_ context.Context, id string, req models.UpdateControlRequest, _ string, _ models.RequestMeta) (models.Control, error) {
	f.lastUpdate = req
	return models.Control{ID: id}, nil
}

func (f *fakeControlSrv) Decide(_ context.Context, controlID, recID string, decision models.RecommendationDecision, _ string, _ models.RequestMeta) (models.Control, error) {
	f.lastDecide = decision
	f.lastRecID = recID
	return models.Control{ID: controlID}, nil
}

func TestControlHandlerListParsesFilters(t *testing.T) {
	fake := &fakeControlSrv{controls: []models.Control{{ID: "c1"}, {ID: "c2"}}}
	handler := NewControlHandler(fake)

	c, rec := testContext(t, http.MethodGet, "/controls?region=EMEA,AMER&effectiveness=Effective&coraMatch=Gap", "")
	withClaims(c, &models.JWTClaims{UserID: "user-1"})
	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"EMEA", "AMER"}, fake.lastFilters.Regions)
	assert.Equal(t, []string{"Effective"}, fake.lastFilters.Effectiveness)
	assert.Equal(t, []string{"Gap"}, fake.lastFilters.MatchStatuses)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(2), envelope.Meta["total"])
	assert.Equal(t, true, envelope.Meta["filtered"])
}

func TestControlHandlerListRequiresAuth(t *testing.T) {
	handler := NewControlHandler(&fakeControlSrv{})

	c, rec := testContext(t, http.MethodGet, "/controls", "")
	handler.List(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestControlHandlerGetNotFound(t *testing.T) {
	handler := NewControlHandler(&fakeControlSrv{getErr: appErrors.ErrNotFound})

	c, rec := testContext(t, http.MethodGet, "/controls/ctrl-999", "")
	c.Params = []gin.Param{{Key: "id", Value: "ctrl-999"}}
	handler.Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestControlHandlerUpdate(t *testing.T) {
	fake := &fakeControlSrv{}
	handler := NewControlHandler(fake)

	c, rec := testContext(t, http.MethodPatch, "/controls/ctrl-002", `{"effectiveness":"Effective","finalScore":90}`)
	c.Params = []gin.Param{{Key: "id", Value: "ctrl-002"}}
	withClaims(c, &models.JWTClaims{UserID: "user-2"})
	handler.Update(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, fake.lastUpdate.Effectiveness)
	assert.Equal(t, models.EffectivenessEffective, *fake.lastUpdate.Effectiveness)
	require.NotNil(t, fake.lastUpdate.FinalScore)
	assert.Equal(t, 90, *fake.lastUpdate.FinalScore)
}

func TestControlHandlerDecision(t *testing.T) {
	fake := &fakeControlSrv{}
	handler := NewControlHandler(fake)

	c, rec := testContext(t, http.MethodPost, "/controls/ctrl-002/recommendations/rec-001/accept", "")
	c.Params = []gin.Param{{Key: "id", Value: "ctrl-002"}, {Key: "recID", Value: "rec-001"}}
	withClaims(c, &models.JWTClaims{UserID: "user-3"})
	handler.Decision(models.DecisionAccept)(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.DecisionAccept, fake.lastDecide)
	assert.Equal(t, "rec-001", fake.lastRecID)
}
