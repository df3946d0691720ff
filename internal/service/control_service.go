package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/cortexgov/cortex-api/internal/models"
	"github.com/cortexgov/cortex-api/internal/store"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
)

type controlStore interface {
	ListControls(filters models.FilterConfig) []models.Control
	GetControl(id string) (models.Control, error)
	UpdateControl(id string, cmds []store.UpdateCommand, actingUserID string, meta models.RequestMeta) (models.Control, error)
	ResolveRecommendation(controlID, recID string, decision models.RecommendationDecision, actingUserID string, meta models.RequestMeta) (models.Control, error)
	AppendAudit(e models.AuditEntry) models.AuditEntry
}

// ControlService serves the controls library: listing, lookup and the
// command-based edit flow.
type ControlService struct {
	store     controlStore
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewControlService constructs a ControlService.
func NewControlService(st controlStore, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ControlService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ControlService{store: st, cache: cache, validator: validate, logger: logger}
}

// List returns controls matching the filter. Applying a non-empty filter is
// itself an audited action.
func (s *ControlService) List(ctx context.Context, filters models.FilterConfig, actingUserID string, meta models.RequestMeta) []models.Control {
	controls := s.store.ListControls(filters)
	if !filters.IsZero() && actingUserID != "" {
		applied, _ := json.Marshal(filters)
		s.store.AppendAudit(models.AuditEntry{
			UserID:     actingUserID,
			Action:     models.AuditActionFilterApplied,
			EntityType: models.EntitySystem,
			EntityID:   "dashboard",
			NewValue:   applied,
			IPAddress:  meta.IP,
			UserAgent:  meta.UserAgent,
		})
	}
	return controls
}

// Get returns a single control by id.
func (s *ControlService) Get(ctx context.Context, id string) (models.Control, error) {
	return s.store.GetControl(id)
}

// Update validates the PATCH payload, converts it into edit commands and
// applies them atomically. The dashboard cache is invalidated on success.
func (s *ControlService) Update(ctx context.Context, id string, req models.UpdateControlRequest, actingUserID string, meta models.RequestMeta) (models.Control, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return models.Control{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid control update payload")
	}

	updated, err := s.store.UpdateControl(id, buildCommands(req), actingUserID, meta)
	if err != nil {
		return models.Control{}, err
	}

	if err := s.cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
	return updated, nil
}

// Decide applies a reviewer decision to a control recommendation.
func (s *ControlService) Decide(ctx context.Context, controlID, recID string, decision models.RecommendationDecision, actingUserID string, meta models.RequestMeta) (models.Control, error) {
	switch decision {
	case models.DecisionAccept, models.DecisionReject, models.DecisionDefer:
	default:
		return models.Control{}, appErrors.Clone(appErrors.ErrValidation, "unknown recommendation decision")
	}

	updated, err := s.store.ResolveRecommendation(controlID, recID, decision, actingUserID, meta)
	if err != nil {
		return models.Control{}, err
	}
	if err := s.cache.Invalidate(ctx, dashboardCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
	return updated, nil
}

// buildCommands translates the PATCH payload into the closed command set.
// Field groups sharing a command are merged into one.
func buildCommands(req models.UpdateControlRequest) []store.UpdateCommand {
	var cmds []store.UpdateCommand

	if req.Name != nil || req.Description != nil {
		cmds = append(cmds, store.SetNarrative{Name: req.Name, Description: req.Description})
	}
	if req.Effectiveness != nil {
		cmds = append(cmds, store.SetEffectiveness{Value: *req.Effectiveness})
	}
	if req.MatchStatus != nil {
		cmds = append(cmds, store.SetMatchStatus{Value: *req.MatchStatus})
	}
	if req.Status != nil {
		cmds = append(cmds, store.SetStatus{Value: *req.Status})
	}
	if req.Owner != nil {
		cmds = append(cmds, store.SetOwner{Owner: *req.Owner})
	}
	if req.AssignedTo != nil {
		cmds = append(cmds, store.Assign{AssignedTo: *req.AssignedTo})
	}
	if req.BusinessLine != nil || req.Function != nil || req.Location != nil || req.Region != nil {
		cmds = append(cmds, store.SetClassification{
			BusinessLine: req.BusinessLine,
			Function:     req.Function,
			Location:     req.Location,
			Region:       req.Region,
		})
	}
	if req.Frequency != nil || req.AutomationType != nil || req.ControlType != nil {
		cmds = append(cmds, store.SetExecution{
			Frequency:      req.Frequency,
			AutomationType: req.AutomationType,
			ControlType:    req.ControlType,
		})
	}
	if req.FinalScore != nil || req.IndexScore != nil {
		cmds = append(cmds, store.SetScores{FinalScore: req.FinalScore, IndexScore: req.IndexScore})
	}
	if req.EnhancementStatus != nil || req.TargetDate != nil || req.RootCause != nil || req.Comments != nil {
		cmds = append(cmds, store.SetEnhancement{
			Status:     req.EnhancementStatus,
			TargetDate: req.TargetDate,
			RootCause:  req.RootCause,
			Comments:   req.Comments,
		})
	}
	if req.ParentControlID != nil {
		cmds = append(cmds, store.SetHierarchy{ParentControlID: *req.ParentControlID})
	}
	return cmds
}
