package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexgov/cortex-api/internal/middleware"
	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
)

type responseEnvelope struct {
	Data  json.RawMessage        `json:"data"`
	Error *appErrors.Error       `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

func testContext(t *testing.T, method, target string, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}
	return c, rec
}

func withClaims(c *gin.Context, claims *models.JWTClaims) {
	c.Set(middleware.ContextUserKey, claims)
}

type fakeAuthSrv struct {
	resp      *models.LoginResponse
	err       error
	loggedOut bool
}

func (f *fakeAuthSrv) Login(context.Context, models.LoginRequest) (*models.LoginResponse, error) {
	return f.resp, f.err
}

func (f *fakeAuthSrv) Logout(context.Context, *models.JWTClaims, models.RequestMeta) error {
	f.loggedOut = true
	return nil
}

func TestAuthHandlerLoginSuccess(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{resp: &models.LoginResponse{
		AccessToken: "token-abc",
		User:        models.UserInfo{Username: "john.smith"},
	}})

	c, rec := testContext(t, http.MethodPost, "/auth/login", `{"username":"john.smith","password":"password123"}`)
	handler.Login(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Contains(t, string(envelope.Data), "token-abc")
}

func TestAuthHandlerLoginRejectsBadPayload(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{})

	c, rec := testContext(t, http.MethodPost, "/auth/login", `{"username":`)
	handler.Login(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthHandlerLoginPropagatesServiceError(t *testing.T) {
	handler := NewAuthHandler(&fakeAuthSrv{err: appErrors.ErrInvalidCredentials})

	c, rec := testContext(t, http.MethodPost, "/auth/login", `{"username":"x","password":"y"}`)
	handler.Login(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerLogout(t *testing.T) {
	fake := &fakeAuthSrv{}
	handler := NewAuthHandler(fake)

	t.Run("requires claims", func(t *testing.T) {
		c, rec := testContext(t, http.MethodPost, "/auth/logout", "")
		handler.Logout(c)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("success", func(t *testing.T) {
		c, rec := testContext(t, http.MethodPost, "/auth/logout", "")
		withClaims(c, &models.JWTClaims{UserID: "user-1"})
		handler.Logout(c)
		c.Writer.WriteHeaderNow()
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.True(t, fake.loggedOut)
	})
}
