package models

import (
	"time"

	"github.com/google/uuid"
)

// JSONB maps to a Postgres jsonb column.
type JSONB map[string]interface{}

// Security-relevant event names recorded in the audit log.
const (
	AuditTenantMismatch = "auth.tenant_mismatch"
	AuditAccountLocked  = "auth.account_locked"
	AuditLoginFailed    = "auth.login_failed"
	AuditTokenReplay    = "auth.token_replay"
)

type AuditLog struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	TenantID  uuid.UUID  `json:"tenant_id" db:"tenant_id"`
	UserID    *uuid.UUID `json:"user_id,omitempty" db:"user_id"`
	Event     string     `json:"event" db:"event"`
	IPAddress string     `json:"ip_address" db:"ip_address"`
	Detail    JSONB      `json:"detail" db:"detail"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

type AuditLogFilters struct {
	Event  string
	UserID *uuid.UUID
	Limit  int
	Offset int
}
