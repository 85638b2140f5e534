package handlers

import (
	"errors"
	"net/http"

	"tenantauth/internal/repositories"
	"tenantauth/internal/services"

	"github.com/labstack/echo/v4"
)

// toHTTPError maps service and repository errors onto the wire contract.
// Only the status code and a short generic message reach the client; the
// underlying error is logged by the request logger, never echoed back.
func toHTTPError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, services.ErrValidation),
		errors.Is(err, services.ErrInvalidSlug),
		errors.Is(err, services.ErrInvalidPlan),
		errors.Is(err, services.ErrInvalidRole):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrInvalidToken):
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, services.ErrAccountLocked):
		return echo.NewHTTPError(http.StatusLocked, "Account locked due to too many failed attempts")
	case errors.Is(err, services.ErrTenantMismatch):
		return echo.NewHTTPError(http.StatusForbidden, "Tenant mismatch")
	case errors.Is(err, services.ErrTenantInactive):
		return echo.NewHTTPError(http.StatusForbidden, "Tenant is not active")
	case errors.Is(err, repositories.ErrUserLimitReached):
		return echo.NewHTTPError(http.StatusForbidden, "User limit reached")
	case errors.Is(err, repositories.ErrSlugTaken):
		return echo.NewHTTPError(http.StatusConflict, "Slug already taken")
	case errors.Is(err, repositories.ErrDuplicateEmail):
		return echo.NewHTTPError(http.StatusConflict, "User already exists")
	case errors.Is(err, repositories.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "Not found")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
	}
}
