package handler

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
	"github.com/cortexgov/cortex-api/pkg/response"
)

type exportService interface {
	Create(ctx context.Context, req models.ExportRequest, actingUserID string, meta models.RequestMeta) (*models.ExportResult, error)
	Open(ctx context.Context, token string) (*os.File, string, error)
}

// ExportHandler wires export generation and download to HTTP endpoints.
type ExportHandler struct {
	service exportService
}

// NewExportHandler constructs the handler.
func NewExportHandler(svc exportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Create renders an export and returns a signed download token.
func (h *ExportHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req models.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid export payload"))
		return
	}
	result, err := h.service.Create(c.Request.Context(), req, claims.UserID, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Download streams a previously generated export. The token itself carries
// the authorization, so the route is not behind the JWT middleware.
func (h *ExportHandler) Download(c *gin.Context) {
	file, filename, err := h.service.Open(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.DataFromReader(http.StatusOK, info.Size(), contentType(filename), file, nil)
}

func contentType(filename string) string {
	switch {
	case strings.HasSuffix(filename, ".csv"):
		return "text/csv"
	case strings.HasSuffix(filename, ".xlsx"):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case strings.HasSuffix(filename, ".pdf"):
		return "application/pdf"
	case strings.HasSuffix(filename, ".ppt"):
		return "application/vnd.ms-powerpoint"
	default:
		return "application/octet-stream"
	}
}
