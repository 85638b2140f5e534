package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTenantPlanMaxUsers(t *testing.T) {
	assert.Equal(t, 10, PlanFree.MaxUsers())
	assert.Equal(t, 50, PlanStarter.MaxUsers())
	assert.Equal(t, 200, PlanProfessional.MaxUsers())
	assert.Equal(t, 1000, PlanEnterprise.MaxUsers())
	assert.Equal(t, 10, TenantPlan("unknown").MaxUsers())
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleUser.IsValid())
	assert.True(t, RoleViewer.IsValid())
	assert.False(t, Role("superadmin").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestUserIsLocked(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Minute)
	past := now.Add(-time.Minute)

	assert.False(t, (&User{}).IsLocked(now))
	assert.True(t, (&User{LockedUntil: &future}).IsLocked(now))
	assert.False(t, (&User{LockedUntil: &past}).IsLocked(now))
}

func TestUserJSONHidesSensitiveFields(t *testing.T) {
	lock := time.Now().Add(time.Minute)
	user := &User{
		ID:                  uuid.New(),
		TenantID:            uuid.New(),
		Email:               "alice@example.com",
		PasswordHash:        "$2a$12$secret",
		Role:                RoleUser,
		FailedLoginAttempts: 3,
		LockedUntil:         &lock,
	}

	data, err := json.Marshal(user)
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "secret")
	assert.NotContains(t, string(data), "failed_login_attempts")
	assert.NotContains(t, string(data), "locked_until")
	assert.Contains(t, string(data), "alice@example.com")
}

func TestTenantPublicOmitsPlanFields(t *testing.T) {
	tenant := &Tenant{
		ID:       uuid.New(),
		Name:     "Acme Corp",
		Slug:     "acme",
		Plan:     PlanEnterprise,
		MaxUsers: 1000,
		IsActive: true,
	}

	data, err := json.Marshal(tenant.Public())
	assert.NoError(t, err)
	assert.NotContains(t, string(data), "enterprise")
	assert.NotContains(t, string(data), "max_users")
	assert.Contains(t, string(data), "acme")
}
