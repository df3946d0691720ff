package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	appErrors "github.com/cortexgov/cortex-api/pkg/errors"

	"github.com/cortexgov/cortex-api/internal/models"
)

func newSeededStore(t *testing.T) *Store {
	t.Helper()
	s := New(Options{})
	require.NoError(t, s.Seed(SeedOptions{ControlCount: 12, RandSeed: 42, DemoPassword: "password123"}))
	return s
}

func fromCode(err error) string {
	return appErrors.FromError(err).Code
}

func TestSeedDeterministic(t *testing.T) {
	a := New(Options{})
	require.NoError(t, a.Seed(SeedOptions{ControlCount: 20, RandSeed: 7}))
	b := New(Options{})
	require.NoError(t, b.Seed(SeedOptions{ControlCount: 20, RandSeed: 7}))

	ca := a.ListControls(models.FilterConfig{})
	cb := b.ListControls(models.FilterConfig{})
	require.Len(t, ca, 20)
	require.Len(t, cb, 20)
	for i := range ca {
		require.Equal(t, ca[i].ID, cb[i].ID)
		require.Equal(t, ca[i].BusinessLine, cb[i].BusinessLine)
		require.Equal(t, ca[i].MatchStatus, cb[i].MatchStatus)
		require.Equal(t, ca[i].CreatedAt, cb[i].CreatedAt)
	}
}

func TestSeedHierarchyIntegrity(t *testing.T) {
	s := newSeededStore(t)

	child, err := s.GetControl("ctrl-002")
	require.NoError(t, err)
	require.Equal(t, models.HierarchyChild, child.HierarchyLevel)
	require.Equal(t, "ctrl-001", child.ParentControlID)

	parent, err := s.GetControl("ctrl-001")
	require.NoError(t, err)
	require.Contains(t, parent.ChildControlIDs, "ctrl-002")
}

func TestGetControlNotFound(t *testing.T) {
	s := newSeededStore(t)
	_, err := s.GetControl("ctrl-999")
	require.Error(t, err)
	require.Equal(t, "NOT_FOUND", fromCode(err))
}
