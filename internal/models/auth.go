package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest carries credentials submitted to the login endpoint.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// UserInfo is the public projection of a user returned after login.
type UserInfo struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	Email        string   `json:"email"`
	Role         UserRole `json:"role"`
	Permissions  []string `json:"permissions"`
	BusinessLine string   `json:"businessLine,omitempty"`
	Function     string   `json:"function,omitempty"`
	Region       string   `json:"region,omitempty"`
}

// LoginResponse is returned on successful authentication.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresIn   int64     `json:"expiresIn"`
	IssuedAt    time.Time `json:"issuedAt"`
	User        UserInfo  `json:"user"`
}

// JWTClaims are the access-token claims carried through request contexts.
type JWTClaims struct {
	UserID      string   `json:"userId"`
	Username    string   `json:"username"`
	Role        UserRole `json:"role"`
	Permissions []string `json:"permissions"`
	jwt.RegisteredClaims
}

// HasPermission reports whether the token carries the named permission.
func (c *JWTClaims) HasPermission(perm string) bool {
	if c == nil {
		return false
	}
	for _, p := range c.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}
