package middleware

import (
	"errors"
	"net/http"

	"tenantauth/internal/common"
	"tenantauth/internal/repositories"
	"tenantauth/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantContext resolves the tenant from the :slug path parameter and
// attaches it to the request context. The tenant must exist and be active;
// everything downstream can rely on that.
func TenantContext(tenantSvc services.TenantService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			slug := c.Param("slug")
			if slug == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "Tenant slug is required")
			}

			tenant, err := tenantSvc.GetBySlug(c.Request().Context(), slug)
			if err != nil {
				if errors.Is(err, repositories.ErrNotFound) {
					return echo.NewHTTPError(http.StatusNotFound, "Tenant not found")
				}
				return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
			}

			if !tenant.IsActive {
				return echo.NewHTTPError(http.StatusForbidden, "Tenant is not active")
			}

			ctx := common.WithResolvedTenant(c.Request().Context(), tenant)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
