package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexgov/cortex-api/internal/models"
)

func TestSaveView(t *testing.T) {
	s := newSeededStore(t)

	saved, err := s.SaveView(models.SavedView{
		Name:   "AMER Detective",
		UserID: "user-1",
		Filters: models.FilterConfig{
			Regions:      []string{"AMER"},
			ControlTypes: []string{string(models.ControlTypeDetective)},
		},
	}, models.RequestMeta{})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.False(t, saved.CreatedAt.IsZero())

	views := s.ViewsByUser("user-1")
	require.Len(t, views, 2)
	assert.Equal(t, "AMER Detective", views[1].Name)

	trail := s.AuditTrail(saved.ID, models.EntitySystem)
	require.Len(t, trail, 1)
	assert.Equal(t, models.AuditActionViewSaved, trail[0].Action)
}

func TestSaveViewValidation(t *testing.T) {
	s := newSeededStore(t)

	_, err := s.SaveView(models.SavedView{UserID: "user-1"}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", fromCode(err))

	_, err = s.SaveView(models.SavedView{Name: "x", UserID: "user-999"}, models.RequestMeta{})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", fromCode(err))
}

func TestSaveViewDefaultFlagIsExclusive(t *testing.T) {
	s := newSeededStore(t)

	// user-1 seeds with a default view already set
	saved, err := s.SaveView(models.SavedView{
		Name: "New Default", UserID: "user-1", IsDefault: true,
	}, models.RequestMeta{})
	require.NoError(t, err)

	defaults := 0
	for _, v := range s.ViewsByUser("user-1") {
		if v.IsDefault {
			defaults++
			assert.Equal(t, saved.ID, v.ID)
		}
	}
	assert.Equal(t, 1, defaults)
}

func TestViewsByUserIsolation(t *testing.T) {
	s := newSeededStore(t)
	for _, v := range s.ViewsByUser("user-3") {
		assert.Equal(t, "user-3", v.UserID)
	}
	assert.Empty(t, s.ViewsByUser("user-4"))
}
