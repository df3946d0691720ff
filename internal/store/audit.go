package store

import (
	"sort"

	"github.com/google/uuid"

	"github.com/cortexgov/cortex-api/internal/models"
)

// AppendAudit records an audit entry, assigning its id and timestamp.
func (s *Store) AppendAudit(e models.AuditEntry) models.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendAuditLocked(e)
}

func (s *Store) appendAuditLocked(e models.AuditEntry) models.AuditEntry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = s.now()
	}
	s.audit = append(s.audit, e)
	return e
}

// AuditTrail returns audit entries newest first. Entries sharing a timestamp
// appear later-created first. Either filter may be empty; both filters must
// match a populated entry for it to be included.
func (s *Store) AuditTrail(entityID string, entityType models.EntityType) []models.AuditEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.AuditEntry, 0, len(s.audit))
	for j := len(s.audit) - 1; j >= 0; j-- {
		e := s.audit[j]
		if entityID != "" && e.EntityID != entityID {
			continue
		}
		if entityType != "" && e.EntityType != entityType {
			continue
		}
		out = append(out, e)
	}
	// out is already reverse-insertion order, so a stable sort keeps
	// later-created entries ahead of earlier ones on equal timestamps.
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Timestamp.After(out[b].Timestamp)
	})
	return out
}
