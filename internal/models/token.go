package models

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken is the persisted record backing a long-lived refresh token.
// The token value itself is the lookup key; the row is deleted the moment
// the token is rotated or revoked.
type RefreshToken struct {
	Token     string    `json:"-" db:"token"` // Never return in JSON
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	TenantID  uuid.UUID `json:"tenant_id" db:"tenant_id"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// TokenPair is returned to clients on register, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
