package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is the closed set of roles a user can hold within a tenant.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleUser   Role = "user"
	RoleViewer Role = "viewer"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleViewer:
		return true
	}
	return false
}

type User struct {
	ID                  uuid.UUID  `json:"id" db:"id"`
	TenantID            uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	Email               string     `json:"email" db:"email"`
	PasswordHash        string     `json:"-" db:"password_hash"` // Never serialize in JSON
	FirstName           string     `json:"first_name,omitempty" db:"first_name"`
	LastName            string     `json:"last_name,omitempty" db:"last_name"`
	Role                Role       `json:"role" db:"role"`
	IsActive            bool       `json:"is_active" db:"is_active"`
	EmailVerified       bool       `json:"email_verified" db:"email_verified"`
	FailedLoginAttempts int        `json:"-" db:"failed_login_attempts"`
	LockedUntil         *time.Time `json:"-" db:"locked_until"`
	CreatedAt           time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at" db:"updated_at"`
}

// IsLocked reports whether the account is inside a lockout window at now.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(now)
}
