package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
	"github.com/cortexgov/cortex-api/pkg/response"
)

type controlService interface {
	List(ctx context.Context, filters models.FilterConfig, actingUserID string, meta models.RequestMeta) []models.Control
	Get(ctx context.Context, id string) (models.Control, error)
	Update(ctx context.Context, id string, req models.UpdateControlRequest, actingUserID string, meta models.RequestMeta) (models.Control, error)
	Decide(ctx context.Context, controlID, recID string, decision models.RecommendationDecision, actingUserID string, meta models.RequestMeta) (models.Control, error)
}

// ControlHandler wires the controls library to HTTP endpoints.
type ControlHandler struct {
	service controlService
}

// NewControlHandler constructs the handler.
func NewControlHandler(svc controlService) *ControlHandler {
	return &ControlHandler{service: svc}
}

// List returns controls matching the filter query.
func (h *ControlHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filters := filtersFromQuery(c)
	controls := h.service.List(c.Request.Context(), filters, claims.UserID, requestMeta(c))
	response.JSON(c, http.StatusOK, controls, map[string]interface{}{
		"total":    len(controls),
		"filtered": !filters.IsZero(),
	})
}

// Get returns a single control.
func (h *ControlHandler) Get(c *gin.Context) {
	control, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, control)
}

// Update applies a partial edit to a control.
func (h *ControlHandler) Update(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.UpdateControlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid control update payload"))
		return
	}
	control, err := h.service.Update(c.Request.Context(), c.Param("id"), req, claims.UserID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, control)
}

// Decision returns a handler that applies the given reviewer decision to a
// control recommendation.
func (h *ControlHandler) Decision(decision models.RecommendationDecision) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := claimsFromContext(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}
		control, err := h.service.Decide(c.Request.Context(), c.Param("id"), c.Param("recID"), decision, claims.UserID, requestMeta(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, control)
	}
}
