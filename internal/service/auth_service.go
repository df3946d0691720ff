package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/cortexgov/cortex-api/internal/models"
	appErrors "github.com/cortexgov/cortex-api/pkg/errors"
)

type authStore interface {
	UserByUsername(username string) (models.User, error)
	GetUser(id string) (models.User, error)
	TouchLastLogin(id string, at time.Time)
	AppendAudit(e models.AuditEntry) models.AuditEntry
}

// CredentialVerifier checks a submitted password against a stored hash.
// The production verifier is bcrypt; tests substitute cheaper fakes.
type CredentialVerifier interface {
	Verify(hash, password string) error
}

// BcryptVerifier verifies passwords with bcrypt.
type BcryptVerifier struct{}

// Verify implements CredentialVerifier.
func (BcryptVerifier) Verify(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

// AuthService provides login, logout and token validation.
type AuthService struct {
	store     authStore
	verifier  CredentialVerifier
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(store authStore, verifier CredentialVerifier, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if verifier == nil {
		verifier = BcryptVerifier{}
	}
	if config.Expiration <= 0 {
		config.Expiration = 8 * time.Hour
	}
	return &AuthService{store: store, verifier: verifier, validator: validate, metrics: metrics, logger: logger, config: config}
}

// Login authenticates a user, records the LOGIN audit entry and issues an
// access token. Unknown usernames and bad passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.StructCtx(ctx, req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	user, err := s.store.UserByUsername(req.Username)
	if err != nil {
		s.metrics.RecordLogin(false)
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}
	if err := s.verifier.Verify(user.PasswordHash, req.Password); err != nil {
		s.metrics.RecordLogin(false)
		s.logger.Info("login rejected", zap.String("username", req.Username))
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "")
	}

	now := time.Now().UTC()
	token, err := s.generateAccessToken(user, now)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create access token")
	}

	s.store.TouchLastLogin(user.ID, now)
	s.store.AppendAudit(models.AuditEntry{
		UserID:     user.ID,
		Action:     models.AuditActionLogin,
		EntityType: models.EntityUser,
		EntityID:   user.ID,
		IPAddress:  req.IP,
		UserAgent:  req.UserAgent,
	})
	s.metrics.RecordLogin(true)

	return &models.LoginResponse{
		AccessToken: token,
		ExpiresIn:   int64(s.config.Expiration.Seconds()),
		IssuedAt:    now,
		User:        toUserInfo(user),
	}, nil
}

// Logout records the LOGOUT audit entry. Tokens are stateless, so the entry
// is the only server-side effect.
func (s *AuthService) Logout(ctx context.Context, claims *models.JWTClaims, meta models.RequestMeta) error {
	if claims == nil {
		return appErrors.Clone(appErrors.ErrUnauthorized, "")
	}
	s.store.AppendAudit(models.AuditEntry{
		UserID:     claims.UserID,
		Action:     models.AuditActionLogout,
		EntityType: models.EntityUser,
		EntityID:   claims.UserID,
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	})
	return nil
}

// ValidateToken parses and verifies an access token.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	claims := &models.JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) generateAccessToken(user models.User, now time.Time) (string, error) {
	claims := models.JWTClaims{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		Permissions: user.Permissions,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.Expiration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.Secret))
}

func toUserInfo(u models.User) models.UserInfo {
	return models.UserInfo{
		ID:           u.ID,
		Username:     u.Username,
		Email:        u.Email,
		Role:         u.Role,
		Permissions:  u.Permissions,
		BusinessLine: u.BusinessLine,
		Function:     u.Function,
		Region:       u.Region,
	}
}
