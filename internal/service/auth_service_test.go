package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
)

type fakeAuthStore struct {
	users     map[string]models.User
	audit     []models.AuditEntry
	lastLogin map[string]time.Time
}

func newFakeAuthStore() *fakeAuthStore {
	return &fakeAuthStore{
		users: map[string]models.User{
			"john.smith": {
				ID: "user-1", Username: "john.smith", Email: "john.smith@corp.example",
				PasswordHash: "stored-hash", Role: models.RoleFirstLine,
				Permissions: []string{models.PermViewDashboard, models.PermExportData},
			},
		},
		lastLogin: map[string]time.Time{},
	}
}

func (f *fakeAuthStore) UserByUsername(username string) (models.User, error) {
	u, ok := f.users[username]
	if !ok {
		return models.User{}, appErrors.ErrInvalidCredentials
	}
	return u, nil
}

func (f *fakeAuthStore) GetUser(id string) (models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return models.User{}, appErrors.ErrNotFound
}

func (f *fakeAuthStore) TouchLastLogin(id string, at time.Time) {
	f.lastLogin[id] = at
}

func (f *fakeAuthStore) AppendAudit(e models.AuditEntry) models.AuditEntry {
	f.audit = append(f.audit, e)
	return e
}

type fakeVerifier struct{ password string }

func (f fakeVerifier) Verify(hash, password string) error {
	if password != f.password {
		return fmt.Errorf("mismatch")
	}
	return nil
}

func newTestAuthService(store *fakeAuthStore) *AuthService {
	return NewAuthService(store, fakeVerifier{password: "password123"}, nil, nil, nil, AuthConfig{
		Secret:     "test-secret",
		Expiration: time.Hour,
		Issuer:     "cortex-api",
	})
}

func TestLoginSuccess(t *testing.T) {
	store := newFakeAuthStore()
	svc := newTestAuthService(store)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "john.smith", Password: "password123", IP: "10.0.0.5", UserAgent: "test",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)
	assert.Equal(t, "john.smith", resp.User.Username)
	assert.Equal(t, models.RoleFirstLine, resp.User.Role)

	require.Len(t, store.audit, 1)
	assert.Equal(t, models.AuditActionLogin, store.audit[0].Action)
	assert.Equal(t, "user-1", store.audit[0].UserID)
	assert.Equal(t, "10.0.0.5", store.audit[0].IPAddress)
	assert.False(t, store.lastLogin["user-1"].IsZero())
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newFakeAuthStore()
	svc := newTestAuthService(store)

	_, errUnknown := svc.Login(context.Background(), models.LoginRequest{
		Username: "nobody", Password: "password123",
	})
	_, errWrongPassword := svc.Login(context.Background(), models.LoginRequest{
		Username: "john.smith", Password: "wrong",
	})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPassword)
	assert.Equal(t, appErrors.FromError(errUnknown).Message, appErrors.FromError(errWrongPassword).Message)
	assert.Equal(t, "INVALID_CREDENTIALS", appErrors.FromError(errUnknown).Code)
	assert.Empty(t, store.audit, "failed logins must not audit")
}

func TestLoginValidatesPayload(t *testing.T) {
	svc := newTestAuthService(newFakeAuthStore())

	_, err := svc.Login(context.Background(), models.LoginRequest{Username: "john.smith"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestValidateTokenRoundTrip(t *testing.T) {
	store := newFakeAuthStore()
	svc := newTestAuthService(store)

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Username: "john.smith", Password: "password123",
	})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleFirstLine, claims.Role)
	assert.True(t, claims.HasPermission(models.PermExportData))
	assert.False(t, claims.HasPermission(models.PermAuditTrail))

	t.Run("wrong secret rejected", func(t *testing.T) {
		other := NewAuthService(store, fakeVerifier{password: "password123"}, nil, nil, nil, AuthConfig{
			Secret: "other-secret", Expiration: time.Hour,
		})
		_, err := other.ValidateToken(resp.AccessToken)
		require.Error(t, err)
		assert.Equal(t, "UNAUTHORIZED", appErrors.FromError(err).Code)
	})

	t.Run("garbage rejected", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}

func TestLogoutAudits(t *testing.T) {
	store := newFakeAuthStore()
	svc := newTestAuthService(store)

	err := svc.Logout(context.Background(), &models.JWTClaims{UserID: "user-1"}, models.RequestMeta{IP: "10.0.0.5"})
	require.NoError(t, err)
	require.Len(t, store.audit, 1)
	assert.Equal(t, models.AuditActionLogout, store.audit[0].Action)

	t.Run("nil claims rejected", func(t *testing.T) {
		err := svc.Logout(context.Background(), nil, models.RequestMeta{})
		assert.Error(t, err)
	})
}
