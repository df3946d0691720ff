package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/cortexgov/cortex-api/internal/models"
)

func runGuard(t *testing.T, guard gin.HandlerFunc, claims *models.JWTClaims) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/guarded", nil)
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}
	handled := false
	guard(c)
	if !c.IsAborted() {
		handled = true
		c.Status(http.StatusOK)
	}
	if handled {
		return http.StatusOK
	}
	return rec.Code
}

func TestRequireRoles(t *testing.T) {
	guard := RequireRoles(models.RoleSecondLine, models.RoleManager)

	assert.Equal(t, http.StatusOK, runGuard(t, guard, &models.JWTClaims{Role: models.RoleManager}))
	assert.Equal(t, http.StatusForbidden, runGuard(t, guard, &models.JWTClaims{Role: models.RoleFirstLine}))
	assert.Equal(t, http.StatusUnauthorized, runGuard(t, guard, nil))
}

func TestRequirePermission(t *testing.T) {
	guard := RequirePermission(models.PermExportData)

	allowed := &models.JWTClaims{Permissions: []string{models.PermViewDashboard, models.PermExportData}}
	denied := &models.JWTClaims{Permissions: []string{models.PermViewDashboard}}

	assert.Equal(t, http.StatusOK, runGuard(t, guard, allowed))
	assert.Equal(t, http.StatusForbidden, runGuard(t, guard, denied))
	assert.Equal(t, http.StatusUnauthorized, runGuard(t, guard, nil))
}
