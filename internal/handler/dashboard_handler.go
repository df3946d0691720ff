package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cortexgov/cortex-api/internal/models"
	"github.com/cortexgov/cortex-api/pkg/response"
)

type dashboardService interface {
	Metrics(ctx context.Context, filters models.FilterConfig) (models.DashboardMetrics, bool, error)
}

// DashboardHandler wires the dashboard aggregation to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc dashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Metrics returns the categorical tallies for the filtered control set.
func (h *DashboardHandler) Metrics(c *gin.Context) {
	start := time.Now()
	metrics, cacheHit, err := h.service.Metrics(c.Request.Context(), filtersFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, metrics, map[string]interface{}{
		"cache_hit":          cacheHit,
		"processing_time_ms": time.Since(start).Milliseconds(),
	})
}
