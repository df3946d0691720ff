package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cortexgov/cortex-api/internal/models"
	"github.com/cortexgov/cortex-api/internal/service"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
	"github.com/cortexgov/cortex-api/pkg/response"
)

type viewService interface {
	Save(ctx context.Context, req service.SaveViewRequest, actingUserID string, meta models.RequestMeta) (models.SavedView, error)
	ListForUser(ctx context.Context, actingUserID string) []models.SavedView
}

// ViewHandler wires saved filter views to HTTP endpoints.
type ViewHandler struct {
	service viewService
}

// NewViewHandler constructs the handler.
func NewViewHandler(svc viewService) *ViewHandler {
	return &ViewHandler{service: svc}
}

// List returns the acting user's saved views.
func (h *ViewHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, h.service.ListForUser(c.Request.Context(), claims.UserID))
}

// Create saves a new view for the acting user.
func (h *ViewHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req service.SaveViewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid view payload"))
		return
	}
	view, err := h.service.Save(c.Request.Context(), req, claims.UserID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, view)
}
