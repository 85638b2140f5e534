package middleware

import (
	"net/http"
	"strings"

	"tenantauth/internal/common"
	"tenantauth/internal/models"
	"tenantauth/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Authenticate verifies the bearer access token. Verification is pure
// signature+expiry work; no storage round trip happens here. The verified
// claims land in the request context for the guard middlewares.
func Authenticate(authSvc services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			claims, err := authSvc.VerifyAccessToken(tokenString)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			userID, err := uuid.Parse(claims.UserID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
			}
			tenantID, err := uuid.Parse(claims.TenantID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
			}
			role := models.Role(claims.Role)
			if !role.IsValid() {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token claims")
			}

			ctx := common.WithTokenClaims(c.Request().Context(), userID, tenantID, claims.Email, role)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
