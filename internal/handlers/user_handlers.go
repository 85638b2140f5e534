package handlers

import (
	"net/http"
	"strconv"

	"tenantauth/internal/common"
	"tenantauth/internal/models"
	"tenantauth/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// UserHandlers handles the tenant-scoped, admin-only user administration
// routes.
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// List returns the tenant's users.
func (h *UserHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	tenant, ok := common.GetResolvedTenant(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))

	users, err := h.userService.List(ctx, tenant.ID, limit, offset)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{"users": users})
}

type UpdateRoleRequest struct {
	Role models.Role `json:"role"`
}

// UpdateRole changes a user's role within the tenant.
func (h *UserHandlers) UpdateRole(c echo.Context) error {
	ctx := c.Request().Context()

	tenant, ok := common.GetResolvedTenant(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
	}

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user id")
	}

	var req UpdateRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := h.userService.UpdateRole(ctx, tenant.ID, userID, req.Role); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "User role updated successfully"})
}
