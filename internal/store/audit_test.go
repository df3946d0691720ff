package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexgov/cortex-api/internal/models"
)

func TestAppendAuditAssignsIdentityAndTimestamp(t *testing.T) {
	fixed := seedTime(15, 10)
	s := New(Options{Now: func() time.Time { return fixed }})

	e := s.AppendAudit(models.AuditEntry{
		UserID:     "user-1",
		Action:     models.AuditActionLogin,
		EntityType: models.EntityUser,
		EntityID:   "user-1",
	})
	assert.NotEmpty(t, e.ID)
	assert.Equal(t, fixed, e.Timestamp)
}

func TestAuditTrailOrdering(t *testing.T) {
	s := New(Options{})

	times := []time.Time{
		seedTime(5, 10),
		seedTime(7, 10),
		seedTime(6, 10),
	}
	for i, ts := range times {
		s.AppendAudit(models.AuditEntry{
			ID:         string(rune('a' + i)),
			Timestamp:  ts,
			UserID:     "user-1",
			Action:     models.AuditActionFilterApplied,
			EntityType: models.EntitySystem,
			EntityID:   "dashboard",
		})
	}

	trail := s.AuditTrail("", "")
	require.Len(t, trail, 3)
	assert.Equal(t, "b", trail[0].ID)
	assert.Equal(t, "c", trail[1].ID)
	assert.Equal(t, "a", trail[2].ID)
}

func TestAuditTrailTieBreakLaterCreatedFirst(t *testing.T) {
	s := New(Options{})
	same := seedTime(8, 8)

	for _, id := range []string{"first", "second", "third"} {
		s.AppendAudit(models.AuditEntry{
			ID:         id,
			Timestamp:  same,
			UserID:     "user-1",
			Action:     models.AuditActionFilterApplied,
			EntityType: models.EntitySystem,
			EntityID:   "dashboard",
		})
	}

	trail := s.AuditTrail("", "")
	require.Len(t, trail, 3)
	assert.Equal(t, "third", trail[0].ID)
	assert.Equal(t, "second", trail[1].ID)
	assert.Equal(t, "first", trail[2].ID)
}

func TestAuditTrailFilters(t *testing.T) {
	s := newSeededStore(t)
	_, err := s.UpdateControl("ctrl-001", nil, "user-2", models.RequestMeta{})
	require.NoError(t, err)

	t.Run("by entity id", func(t *testing.T) {
		for _, e := range s.AuditTrail("ctrl-001", "") {
			assert.Equal(t, "ctrl-001", e.EntityID)
		}
		assert.NotEmpty(t, s.AuditTrail("ctrl-001", ""))
	})

	t.Run("by entity type", func(t *testing.T) {
		for _, e := range s.AuditTrail("", models.EntitySystem) {
			assert.Equal(t, models.EntitySystem, e.EntityType)
		}
	})

	t.Run("unfiltered returns everything", func(t *testing.T) {
		assert.GreaterOrEqual(t, len(s.AuditTrail("", "")), 3)
	})
}
