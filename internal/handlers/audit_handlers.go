package handlers

import (
	"net/http"
	"strconv"

	"tenantauth/internal/common"
	"tenantauth/internal/models"
	"tenantauth/internal/services"

	"github.com/labstack/echo/v4"
)

// AuditHandlers exposes the tenant's security audit trail to admins.
type AuditHandlers struct {
	auditService services.AuditLogsService
}

func NewAuditHandlers(auditService services.AuditLogsService) *AuditHandlers {
	return &AuditHandlers{auditService: auditService}
}

func (h *AuditHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	tenant, ok := common.GetResolvedTenant(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	entries, err := h.auditService.List(ctx, tenant.ID, &models.AuditLogFilters{
		Event:  c.QueryParam("event"),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"audit_logs": entries})
}
