package middleware

import (
	"fmt"
	"net/http"
	"time"

	"tenantauth/internal/caching"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// RateLimit is a best-effort guard in front of login and register. It is
// not a correctness mechanism: when redis is unreachable the request goes
// through and the failure is only logged.
func RateLimit(cacheSvc caching.CacheService, limit int, window time.Duration, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := fmt.Sprintf("%s:%s:%s", c.RealIP(), c.Param("slug"), c.Path())

			limited, err := cacheSvc.IsRateLimited(c.Request().Context(), key, limit, window)
			if err != nil {
				logger.Warn("rate limiter unavailable", zap.Error(err))
				return next(c)
			}
			if limited {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests")
			}

			return next(c)
		}
	}
}
