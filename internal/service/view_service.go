package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
)

type viewStore interface {
	SaveView(v models.SavedView, meta models.RequestMeta) (models.SavedView, error)
	ViewsByUser(userID string) []models.SavedView
}

// SaveViewRequest is the POST payload for saving a filter preset.
type SaveViewRequest struct {
	Name      string              `json:"name" validate:"required,min=1,max=120"`
	Filters   models.FilterConfig `json:"filters"`
	IsDefault bool                `json:"isDefault"`
}

// ViewService manages per-user saved filter views.
type ViewService struct {
	store     viewStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewViewService constructs a ViewService.
func NewViewService(st viewStore, validate *validator.Validate, logger *zap.Logger) *ViewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ViewService{store: st, validator: validate, logger: logger}
}

// Save persists a view for the acting user.
func (s *ViewService) Save(ctx context.Context, req SaveViewRequest, actingUserID string, meta models.RequestMeta) (models.SavedView, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return models.SavedView{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid view payload")
	}
	return s.store.SaveView(models.SavedView{
		Name:      req.Name,
		UserID:    actingUserID,
		Filters:   req.Filters,
		IsDefault: req.IsDefault,
	}, meta)
}

// ListForUser returns the acting user's saved views.
func (s *ViewService) ListForUser(ctx context.Context, actingUserID string) []models.SavedView {
	return s.store.ViewsByUser(actingUserID)
}
