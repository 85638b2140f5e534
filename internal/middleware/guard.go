package middleware

import (
	"net/http"

	"tenantauth/internal/common"
	"tenantauth/internal/metrics"
	"tenantauth/internal/models"
	"tenantauth/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthGuard composes the per-request admission checks that run after
// tenant resolution and token verification.
type AuthGuard struct {
	auditSvc services.AuditLogsService
}

func NewAuthGuard(auditSvc services.AuditLogsService) *AuthGuard {
	return &AuthGuard{auditSvc: auditSvc}
}

// RequireTenantMatch enforces the hard equality between the token's tenant
// and the tenant resolved from the URL. The URL slug is the caller's stated
// intent, the token tenant is the authenticated fact; divergence is the
// attack signal and is always a 403, distinguishable from "not logged in".
func (g *AuthGuard) RequireTenantMatch() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()

			tenant, ok := common.GetResolvedTenant(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
			}
			tokenTenantID, ok := common.GetTokenTenantIDFromContext(ctx)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			if tokenTenantID != tenant.ID {
				userID, _ := common.GetUserIDFromContext(ctx)
				metrics.TenantMismatchTotal.Inc()
				g.auditSvc.LogSecurityEvent(ctx, tenant.ID, &userID, models.AuditTenantMismatch, c.RealIP(), models.JSONB{
					"url_tenant_id":   tenant.ID.String(),
					"token_tenant_id": tokenTenantID.String(),
					"path":            c.Path(),
				})
				return echo.NewHTTPError(http.StatusForbidden, "Tenant mismatch")
			}

			return next(c)
		}
	}
}

// RequireRole admits the request only when the token role is in the
// per-route allow-list.
func (g *AuthGuard) RequireRole(allowed ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := common.GetUserRoleFromContext(c.Request().Context())
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			for _, want := range allowed {
				if role == want {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "Insufficient permissions")
		}
	}
}
