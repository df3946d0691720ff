package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
)

type auditStore interface {
	AuditTrail(entityID string, entityType models.EntityType) []models.AuditEntry
}

// AuditService serves the read side of the audit trail.
type AuditService struct {
	store  auditStore
	logger *zap.Logger
}

// NewAuditService constructs an AuditService.
func NewAuditService(st auditStore, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{store: st, logger: logger}
}

// Trail returns audit entries newest first, optionally scoped to an entity
// id and/or entity type.
func (s *AuditService) Trail(ctx context.Context, entityID string, entityType string) ([]models.AuditEntry, error) {
	switch models.EntityType(entityType) {
	case "", models.EntityControl, models.EntityUser, models.EntitySystem:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown entity type")
	}
	return s.store.AuditTrail(entityID, models.EntityType(entityType)), nil
}
