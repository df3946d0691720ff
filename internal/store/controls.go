package store

import (
	"encoding/json"
	"errors"
	"fmt"

	appErrors "github.com/cortexgov/cortex-api/pkg/errors"

	"github.com/cortexgov/cortex-api/internal/models"
)

// ListControls returns the controls satisfying every populated filter field.
// AND across fields, OR within a multi-select field; an empty filter returns
// the full collection in insertion order.
func (s *Store) ListControls(filters models.FilterConfig) []models.Control {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Control, 0, len(s.controls))
	for _, c := range s.controls {
		if filters.Matches(c) {
			out = append(out, c.Clone())
		}
	}
	return out
}

// GetControl looks up a control by id.
func (s *Store) GetControl(id string) (models.Control, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.controlIdx[id]
	if !ok {
		return models.Control{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("control %s not found", id))
	}
	return s.controls[i].Clone(), nil
}

// UpdateControl applies the given commands to a control and unconditionally
// appends a CONTROL_UPDATED audit entry with before/after snapshots. An
// empty command list is a valid no-op edit and still audits. A failing
// command leaves the record untouched and nothing is audited.
func (s *Store) UpdateControl(id string, cmds []UpdateCommand, actingUserID string, meta models.RequestMeta) (models.Control, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.controlIdx[id]
	if !ok {
		return models.Control{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("control %s not found", id))
	}

	old := s.controls[i].Clone()
	updated := s.controls[i].Clone()
	idx := lockedIndex{s}
	for _, cmd := range cmds {
		if err := cmd.Apply(&updated, idx); err != nil {
			var typed *appErrors.Error
			if errors.As(err, &typed) {
				return models.Control{}, typed
			}
			return models.Control{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
				fmt.Sprintf("invalid %s update", cmd.Field()))
		}
	}
	updated.UpdatedAt = s.now()

	s.controls[i] = updated
	if old.ParentControlID != updated.ParentControlID {
		s.relinkLocked(old.ParentControlID, updated.ParentControlID, id)
	}

	s.appendAuditLocked(models.AuditEntry{
		UserID:     actingUserID,
		Action:     models.AuditActionControlUpdate,
		EntityType: models.EntityControl,
		EntityID:   id,
		OldValue:   marshalSnapshot(old),
		NewValue:   marshalSnapshot(updated),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})

	return updated.Clone(), nil
}

// ResolveRecommendation records a reviewer decision on a control's pending
// recommendation. Accepting applies the suggested value to the field the
// recommendation category maps to.
func (s *Store) ResolveRecommendation(controlID, recID string, decision models.RecommendationDecision, actingUserID string, meta models.RequestMeta) (models.Control, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.controlIdx[controlID]
	if !ok {
		return models.Control{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("control %s not found", controlID))
	}

	old := s.controls[i].Clone()
	updated := s.controls[i].Clone()

	var rec *models.Recommendation
	for r := range updated.Recommendations {
		if updated.Recommendations[r].ID == recID {
			rec = &updated.Recommendations[r]
			break
		}
	}
	if rec == nil {
		return models.Control{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("recommendation %s not found", recID))
	}
	if rec.Status != models.RecommendationPending && rec.Status != models.RecommendationDeferred {
		return models.Control{}, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("recommendation %s already %s", recID, rec.Status))
	}

	action := ""
	switch decision {
	case models.DecisionAccept:
		now := s.now()
		rec.Status = models.RecommendationAccepted
		rec.AcceptedBy = actingUserID
		rec.AcceptedAt = &now
		applySuggestion(&updated, *rec)
		action = models.AuditActionRecAccepted
	case models.DecisionReject:
		rec.Status = models.RecommendationRejected
		action = models.AuditActionRecRejected
	case models.DecisionDefer:
		rec.Status = models.RecommendationDeferred
		action = models.AuditActionRecDeferred
	default:
		return models.Control{}, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown decision %q", decision))
	}

	updated.UpdatedAt = s.now()
	s.controls[i] = updated

	s.appendAuditLocked(models.AuditEntry{
		UserID:     actingUserID,
		Action:     action,
		EntityType: models.EntityControl,
		EntityID:   controlID,
		OldValue:   marshalSnapshot(old),
		NewValue:   marshalSnapshot(updated),
		Reason:     rec.Title,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})

	return updated.Clone(), nil
}

// applySuggestion maps an accepted recommendation onto the edited field.
// Merge suggestions change no field; the reviewer merges manually.
func applySuggestion(c *models.Control, rec models.Recommendation) {
	switch rec.Type {
	case models.RecommendationRewrite, models.RecommendationImprove:
		c.Description = rec.SuggestedValue
	case models.RecommendationReassign:
		c.AssignedTo = rec.SuggestedValue
	case models.RecommendationFrequencyAdjust:
		c.Frequency = rec.SuggestedValue
	}
}

// insertControlLocked registers a control, wiring it into the hierarchy
// index. Seed-time integrity: a child's parent must already exist.
func (s *Store) insertControlLocked(c models.Control) error {
	if _, dup := s.controlIdx[c.ID]; dup {
		return fmt.Errorf("duplicate control id %s", c.ID)
	}
	if c.ParentControlID != "" {
		pi, ok := s.controlIdx[c.ParentControlID]
		if !ok {
			return fmt.Errorf("control %s references missing parent %s", c.ID, c.ParentControlID)
		}
		if s.controls[pi].HierarchyLevel != models.HierarchyParent {
			return fmt.Errorf("control %s references non-root parent %s", c.ID, c.ParentControlID)
		}
		if c.HierarchyLevel != models.HierarchyChild {
			return fmt.Errorf("control %s has a parent but is not a child", c.ID)
		}
	} else if c.HierarchyLevel != models.HierarchyParent {
		return fmt.Errorf("control %s has no parent but is not a root", c.ID)
	}

	s.controlIdx[c.ID] = len(s.controls)
	s.controls = append(s.controls, c)
	if c.ParentControlID != "" {
		pi := s.controlIdx[c.ParentControlID]
		s.controls[pi].ChildControlIDs = append(s.controls[pi].ChildControlIDs, c.ID)
	}
	return nil
}

// relinkLocked moves a child id between parent child-lists after a
// hierarchy edit.
func (s *Store) relinkLocked(oldParent, newParent, childID string) {
	if oldParent != "" {
		if pi, ok := s.controlIdx[oldParent]; ok {
			kids := s.controls[pi].ChildControlIDs
			for k, kid := range kids {
				if kid == childID {
					s.controls[pi].ChildControlIDs = append(kids[:k], kids[k+1:]...)
					break
				}
			}
		}
	}
	if newParent != "" {
		if pi, ok := s.controlIdx[newParent]; ok {
			s.controls[pi].ChildControlIDs = append(s.controls[pi].ChildControlIDs, childID)
		}
	}
}

func marshalSnapshot(c models.Control) json.RawMessage {
	raw, err := json.Marshal(c)
	if err != nil {
		return nil
	}
	return raw
}
