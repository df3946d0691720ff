package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cortexgov/cortex-api/internal/models"
	"github.com/cortexgov/cortex-api/pkg/response"
)

type auditService interface {
	Trail(ctx context.Context, entityID string, entityType string) ([]models.AuditEntry, error)
}

// AuditHandler wires the audit trail read side to HTTP endpoints.
type AuditHandler struct {
	service auditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(svc auditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// Trail returns audit entries, optionally scoped by entityId and entityType.
func (h *AuditHandler) Trail(c *gin.Context) {
	entityID := strings.TrimSpace(c.Query("entityId"))
	entityType := strings.TrimSpace(c.Query("entityType"))

	entries, err := h.service.Trail(c.Request.Context(), entityID, entityType)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, map[string]interface{}{
		"total": len(entries),
	})
}
