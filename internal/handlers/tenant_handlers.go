package handlers

import (
	"fmt"
	"net/http"

	"tenantauth/internal/common"
	"tenantauth/internal/repositories"
	"tenantauth/internal/services"

	"github.com/labstack/echo/v4"
)

// TenantHandlers handles tenant signup and the public branding surface.
type TenantHandlers struct {
	tenantService services.TenantService
	logoService   services.LogoService
}

func NewTenantHandlers(tenantService services.TenantService, logoService services.LogoService) *TenantHandlers {
	return &TenantHandlers{
		tenantService: tenantService,
		logoService:   logoService,
	}
}

// Create provisions a new tenant (company signup). Public route.
func (h *TenantHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	var req services.CreateTenantRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	tenant, err := h.tenantService.Create(ctx, &req)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message": "Tenant created successfully",
		"tenant": map[string]interface{}{
			"id":   tenant.ID,
			"name": tenant.Name,
			"slug": tenant.Slug,
			"plan": tenant.Plan,
		},
		"nextSteps": map[string]string{
			"loginUrl":    fmt.Sprintf("/t/%s/auth/login", tenant.Slug),
			"registerUrl": fmt.Sprintf("/t/%s/auth/register", tenant.Slug),
		},
	})
}

// GetBySlug returns the public branding fields for a tenant. Public route;
// inactive tenants still resolve here so the frontend can explain why.
func (h *TenantHandlers) GetBySlug(c echo.Context) error {
	tenant, err := h.tenantService.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return toHTTPError(err)
	}
	return c.JSON(http.StatusOK, tenant.Public())
}

// UpdateBranding changes the closed set of branding fields. Admin only.
func (h *TenantHandlers) UpdateBranding(c echo.Context) error {
	ctx := c.Request().Context()

	tenant, ok := common.GetResolvedTenant(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
	}

	var update repositories.BrandingUpdate
	if err := c.Bind(&update); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	updated, err := h.tenantService.UpdateBranding(ctx, tenant.ID, &update)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"message": "Tenant updated successfully",
		"tenant":  updated,
	})
}

// UploadLogo stores the tenant logo in object storage and records its URL.
// Admin only.
func (h *TenantHandlers) UploadLogo(c echo.Context) error {
	ctx := c.Request().Context()

	tenant, ok := common.GetResolvedTenant(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
	}

	file, err := c.FormFile("logo")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Logo file is required")
	}

	src, err := file.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Could not read logo file")
	}
	defer src.Close()

	url, err := h.logoService.UploadLogo(ctx, tenant.ID, file.Filename, file.Header.Get("Content-Type"), file.Size, src)
	if err != nil {
		return toHTTPError(err)
	}

	if _, err := h.tenantService.UpdateBranding(ctx, tenant.ID, &repositories.BrandingUpdate{LogoURL: &url}); err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message":  "Logo uploaded successfully",
		"logo_url": url,
	})
}
