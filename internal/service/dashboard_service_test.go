package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
)

type fakeDashboardStore struct {
	controls []models.Control
	calls    int
}

func (f *fakeDashboardStore) ListControls(filters models.FilterConfig) []models.Control {
	f.calls++
	out := make([]models.Control, 0)
	for _, c := range f.controls {
		if filters.Matches(c) {
			out = append(out, c)
		}
	}
	return out
}

type memoryCacheRepo struct {
	data map[string][]byte
}

func newMemoryCacheRepo() *memoryCacheRepo {
	return &memoryCacheRepo{data: map[string][]byte{}}
}

func (m *memoryCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := m.data[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	m.data = map[string][]byte{}
	return nil
}

func demoControls() []models.Control {
	return []models.Control{
		{ID: "c1", Region: "EMEA", MatchStatus: models.MatchGap, Effectiveness: models.EffectivenessNeedsImprovement, AutomationType: models.AutomationSemiAutomated},
		{ID: "c2", Region: "EMEA", MatchStatus: models.MatchMatched, Effectiveness: models.EffectivenessEffective, AutomationType: models.AutomationAutomated},
		{ID: "c3", Region: "AMER", MatchStatus: models.MatchResolved, Effectiveness: models.EffectivenessNotRated, AutomationType: models.AutomationManual},
		{ID: "c4", Region: "APAC", MatchStatus: models.MatchUnmatched, Effectiveness: models.EffectivenessIneffective, AutomationType: models.AutomationITDependent},
	}
}

func TestDashboardMetricsPartition(t *testing.T) {
	st := &fakeDashboardStore{controls: demoControls()}
	svc := NewDashboardService(st, nil, time.Minute, nil)

	m, hit, err := svc.Metrics(context.Background(), models.FilterConfig{})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 4, m.TotalControls)

	// every control lands in exactly one bucket per category
	matchTotal := m.MatchStatus.Gap + m.MatchStatus.Unmatched + m.MatchStatus.Matched + m.MatchStatus.Resolved
	effTotal := m.Effectiveness.Effective + m.Effectiveness.Ineffective + m.Effectiveness.NeedsImprovement + m.Effectiveness.NotRated
	autoTotal := m.Automation.Manual + m.Automation.SemiAutomated + m.Automation.ITDependent + m.Automation.Automated
	assert.Equal(t, m.TotalControls, matchTotal)
	assert.Equal(t, m.TotalControls, effTotal)
	assert.Equal(t, m.TotalControls, autoTotal)
}

func TestDashboardMetricsFilteredGapScenario(t *testing.T) {
	st := &fakeDashboardStore{controls: demoControls()}
	svc := NewDashboardService(st, nil, time.Minute, nil)

	m, _, err := svc.Metrics(context.Background(), models.FilterConfig{Regions: []string{"EMEA"}})
	require.NoError(t, err)

	raw, err := json.Marshal(m)
	require.NoError(t, err)

	var payload struct {
		TotalControls int `json:"totalControls"`
		CoraMatch     struct {
			Gap int `json:"gap"`
		} `json:"coraMatch"`
	}
	require.NoError(t, json.Unmarshal(raw, &payload))
	assert.Equal(t, 2, payload.TotalControls)
	assert.Equal(t, 1, payload.CoraMatch.Gap)
}

func TestDashboardMetricsCaching(t *testing.T) {
	st := &fakeDashboardStore{controls: demoControls()}
	cache := NewCacheService(newMemoryCacheRepo(), nil, time.Minute, nil, true)
	svc := NewDashboardService(st, cache, time.Minute, nil)

	first, hit, err := svc.Metrics(context.Background(), models.FilterConfig{Regions: []string{"EMEA"}})
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := svc.Metrics(context.Background(), models.FilterConfig{Regions: []string{"EMEA"}})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, st.calls, "cached read must not recompute")

	t.Run("distinct filters use distinct slots", func(t *testing.T) {
		_, hit, err := svc.Metrics(context.Background(), models.FilterConfig{Regions: []string{"AMER"}})
		require.NoError(t, err)
		assert.False(t, hit)
	})
}

func TestDashboardCacheKeyStability(t *testing.T) {
	f := models.FilterConfig{Regions: []string{"EMEA"}, Functions: []string{"Payments"}}
	assert.Equal(t, dashboardCacheKey(f), dashboardCacheKey(f))
	assert.NotEqual(t, dashboardCacheKey(f), dashboardCacheKey(models.FilterConfig{Regions: []string{"AMER"}}))
	assert.Equal(t, "dash:metrics:all", dashboardCacheKey(models.FilterConfig{}))
}
