package common

import (
	"context"

	"tenantauth/internal/models"

	"github.com/google/uuid"
)

type contextKey string

const (
	// ResolvedTenantKey holds the *models.Tenant resolved from the URL slug.
	ResolvedTenantKey contextKey = "resolved_tenant"

	// UserIDKey, TokenTenantIDKey, UserEmailKey and UserRoleKey hold the
	// verified access-token claims. TokenTenantIDKey is the authenticated
	// tenant; ResolvedTenantKey is the tenant the caller asked for. The two
	// are compared explicitly, never assumed equal.
	UserIDKey        contextKey = "user_id"
	TokenTenantIDKey contextKey = "token_tenant_id"
	UserEmailKey     contextKey = "user_email"
	UserRoleKey      contextKey = "user_role"
)

func WithResolvedTenant(ctx context.Context, tenant *models.Tenant) context.Context {
	return context.WithValue(ctx, ResolvedTenantKey, tenant)
}

func GetResolvedTenant(ctx context.Context) (*models.Tenant, bool) {
	tenant, ok := ctx.Value(ResolvedTenantKey).(*models.Tenant)
	return tenant, ok
}

func WithTokenClaims(ctx context.Context, userID, tenantID uuid.UUID, email string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	ctx = context.WithValue(ctx, TokenTenantIDKey, tenantID)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	return context.WithValue(ctx, UserRoleKey, role)
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return userID, ok
}

func GetTokenTenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	tenantID, ok := ctx.Value(TokenTenantIDKey).(uuid.UUID)
	return tenantID, ok
}

func GetUserEmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(UserEmailKey).(string)
	return email, ok
}

func GetUserRoleFromContext(ctx context.Context) (models.Role, bool) {
	role, ok := ctx.Value(UserRoleKey).(models.Role)
	return role, ok
}
