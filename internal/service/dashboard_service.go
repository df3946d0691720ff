package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/cortexgov/cortex-api/internal/models"
)

// dashboardCachePattern matches every cached dashboard payload; any control
// mutation invalidates all of them.
const dashboardCachePattern = "dash:metrics:*"

type dashboardStore interface {
	ListControls(filters models.FilterConfig) []models.Control
}

// DashboardService computes the categorical tallies shown on the dashboard,
// with a read-through cache keyed by the filter fingerprint.
type DashboardService struct {
	store    dashboardStore
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(st dashboardStore, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: st, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Metrics returns the dashboard tallies for the filtered control set. The
// second return reports whether the payload came from cache.
func (s *DashboardService) Metrics(ctx context.Context, filters models.FilterConfig) (models.DashboardMetrics, bool, error) {
	key := dashboardCacheKey(filters)

	var cached models.DashboardMetrics
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, true, nil
	}

	metrics := models.Aggregate(s.store.ListControls(filters))
	if err := s.cache.Set(ctx, key, metrics, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.Error(err))
	}
	return metrics, false, nil
}

// dashboardCacheKey fingerprints the filter so every distinct filter set has
// its own cache slot.
func dashboardCacheKey(filters models.FilterConfig) string {
	if filters.IsZero() {
		return "dash:metrics:all"
	}
	raw, err := json.Marshal(filters)
	if err != nil {
		return "dash:metrics:all"
	}
	sum := sha256.Sum256(raw)
	return "dash:metrics:" + hex.EncodeToString(sum[:8])
}
