package store

import (
	"fmt"

	"github.com/google/uuid"

	appErrors "github.com/cortexgov/cortex-api/pkg/errors"

	"github.com/cortexgov/cortex-api/internal/models"
)

// SaveView persists a named filter preset for a user and audits the save.
// A view marked default clears the default flag on the user's other views.
func (s *Store) SaveView(v models.SavedView, meta models.RequestMeta) (models.SavedView, error) {
	if v.Name == "" {
		return models.SavedView{}, appErrors.Clone(appErrors.ErrValidation, "view name must not be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.userIdx[v.UserID]; !ok {
		return models.SavedView{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("user %s not found", v.UserID))
	}

	v.ID = uuid.NewString()
	v.CreatedAt = s.now()
	if v.IsDefault {
		for i := range s.views {
			if s.views[i].UserID == v.UserID {
				s.views[i].IsDefault = false
			}
		}
	}
	s.views = append(s.views, v)

	s.appendAuditLocked(models.AuditEntry{
		UserID:     v.UserID,
		Action:     models.AuditActionViewSaved,
		EntityType: models.EntitySystem,
		EntityID:   v.ID,
		Reason:     v.Name,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})
	return v, nil
}

// ViewsByUser lists a user's saved views in creation order.
func (s *Store) ViewsByUser(userID string) []models.SavedView {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.SavedView, 0)
	for _, v := range s.views {
		if v.UserID == userID {
			out = append(out, v)
		}
	}
	return out
}

func (s *Store) insertViewLocked(v models.SavedView) {
	s.views = append(s.views, v)
}
