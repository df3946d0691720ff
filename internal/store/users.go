package store

import (
	"fmt"
	"time"

	appErrors "github.com/cortexgov/cortex-api/pkg/errors"

	"github.com/cortexgov/cortex-api/internal/models"
)

// UserByUsername resolves a login name to its user record.
func (s *Store) UserByUsername(username string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.usernameIdx[username]
	if !ok {
		return models.User{}, appErrors.ErrInvalidCredentials
	}
	return s.users[i], nil
}

// GetUser looks up a user by id.
func (s *Store) GetUser(id string) (models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.userIdx[id]
	if !ok {
		return models.User{}, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("user %s not found", id))
	}
	return s.users[i], nil
}

// TouchLastLogin stamps the user's last successful login time.
func (s *Store) TouchLastLogin(id string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i, ok := s.userIdx[id]; ok {
		t := at
		s.users[i].LastLogin = &t
	}
}

func (s *Store) insertUserLocked(u models.User) error {
	if _, dup := s.userIdx[u.ID]; dup {
		return fmt.Errorf("duplicate user id %s", u.ID)
	}
	if _, dup := s.usernameIdx[u.Username]; dup {
		return fmt.Errorf("duplicate username %s", u.Username)
	}
	s.userIdx[u.ID] = len(s.users)
	s.usernameIdx[u.Username] = len(s.users)
	s.users = append(s.users, u)
	return nil
}
