package handler

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cortexgov/cortex-api/internal/middleware"
	"github.com/cortexgov/cortex-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

func requestMeta(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{
		IP:        c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}
}

// filtersFromQuery parses the shared filter query parameters. Multi-select
// fields accept both repeated parameters and comma-separated values.
func filtersFromQuery(c *gin.Context) models.FilterConfig {
	f := models.FilterConfig{
		Locations:       queryValues(c, "location"),
		BusinessLines:   queryValues(c, "businessLine"),
		Functions:       queryValues(c, "function"),
		ControlTypes:    queryValues(c, "controlType"),
		Frequencies:     queryValues(c, "controlFrequency"),
		AutomationTypes: queryValues(c, "automationType"),
		Effectiveness:   queryValues(c, "effectiveness"),
		MatchStatuses:   queryValues(c, "coraMatch"),
		Owners:          queryValues(c, "owner"),
		Regions:         queryValues(c, "region"),
	}
	if from, ok := queryDate(c, "createdFrom"); ok {
		f.CreatedFrom = &from
	}
	if to, ok := queryDate(c, "createdTo"); ok {
		f.CreatedTo = &to
	}
	return f
}

func queryValues(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, part := range strings.Split(raw, ",") {
			if v := strings.TrimSpace(part); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func queryDate(c *gin.Context, key string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return time.Time{}, false
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, true
	}
	if ts, err := time.Parse("2006-01-02", raw); err == nil {
		return ts, true
	}
	return time.Time{}, false
}
