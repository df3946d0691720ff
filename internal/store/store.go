// Package store holds the in-memory record collections backing the Cortex
// dashboard: controls, users, saved views and the append-only audit trail.
// It is the single source of truth for domain state and the sole writer of
// the audit log; there is no persistence layer behind it.
package store

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cortexgov/cortex-api/internal/models"
)

// Store owns all domain collections. Every mutating operation is atomic
// under the mutex; last writer wins, no conflict detection.
type Store struct {
	mu sync.RWMutex

	controls   []models.Control
	controlIdx map[string]int

	users       []models.User
	userIdx     map[string]int
	usernameIdx map[string]int

	views []models.SavedView
	audit []models.AuditEntry

	now    func() time.Time
	logger *zap.Logger
}

// Options tunes store construction.
type Options struct {
	Logger *zap.Logger
	Now    func() time.Time
}

// New returns an empty store. Call Seed to load fixtures.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := opts.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Store{
		controlIdx:  map[string]int{},
		userIdx:     map[string]int{},
		usernameIdx: map[string]int{},
		now:         now,
		logger:      logger,
	}
}

// Exists reports whether a control id is known. Part of ControlIndex.
func (s *Store) Exists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.existsLocked(id)
}

// IsParent reports whether a control id names a hierarchy root. Part of
// ControlIndex.
func (s *Store) IsParent(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isParentLocked(id)
}

func (s *Store) existsLocked(id string) bool {
	_, ok := s.controlIdx[id]
	return ok
}

func (s *Store) isParentLocked(id string) bool {
	i, ok := s.controlIdx[id]
	if !ok {
		return false
	}
	return s.controls[i].HierarchyLevel == models.HierarchyParent
}

// lockedIndex adapts the store to ControlIndex for use while the write lock
// is already held.
type lockedIndex struct{ s *Store }

func (l lockedIndex) Exists(id string) bool   { return l.s.existsLocked(id) }
func (l lockedIndex) IsParent(id string) bool { return l.s.isParentLocked(id) }
