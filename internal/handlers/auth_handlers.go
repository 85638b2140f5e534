package handlers

import (
	"errors"
	"net/http"

	"tenantauth/internal/common"
	"tenantauth/internal/metrics"
	"tenantauth/internal/models"
	"tenantauth/internal/services"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles authentication-related HTTP requests. Every route is
// tenant-scoped: the TenantContext middleware has already resolved the slug
// by the time these run.
type AuthHandlers struct {
	authService services.AuthService
	userService services.UserService
	auditSvc    services.AuditLogsService
}

func NewAuthHandlers(authService services.AuthService, userService services.UserService, auditSvc services.AuditLogsService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userService: userService,
		auditSvc:    auditSvc,
	}
}

type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    *models.User `json:"user"`
	models.TokenPair
}

// Register creates a user under the resolved tenant and returns a fresh
// token pair.
func (h *AuthHandlers) Register(c echo.Context) error {
	ctx := c.Request().Context()

	tenant, ok := common.GetResolvedTenant(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
	}

	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	user, err := h.userService.Register(ctx, tenant.ID, &services.RegisterRequest{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return toHTTPError(err)
	}

	pair, err := h.authService.IssuePair(ctx, user)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message:   "User registered successfully",
		User:      user,
		TokenPair: *pair,
	})
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials within the resolved tenant.
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	tenant, ok := common.GetResolvedTenant(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
	}

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.Email == "" || req.Password == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Email and password are required")
	}

	user, err := h.userService.Authenticate(ctx, tenant.ID, req.Email, req.Password, c.RealIP())
	if err != nil {
		if errors.Is(err, services.ErrAccountLocked) {
			metrics.AccountLockoutTotal.Inc()
		} else {
			metrics.LoginFailureTotal.Inc()
		}
		return toHTTPError(err)
	}

	pair, err := h.authService.IssuePair(ctx, user)
	if err != nil {
		return toHTTPError(err)
	}

	metrics.LoginSuccessTotal.Inc()
	return c.JSON(http.StatusOK, AuthResponse{
		Message:   "Login successful",
		User:      user,
		TokenPair: *pair,
	})
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh rotates a refresh token. A tenant mismatch here is a security
// event, not a login failure, and comes back as 403.
func (h *AuthHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	tenant, ok := common.GetResolvedTenant(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
	}

	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}
	if req.RefreshToken == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Refresh token required")
	}

	pair, err := h.authService.Refresh(ctx, req.RefreshToken, tenant.ID)
	if err != nil {
		if errors.Is(err, services.ErrTenantMismatch) {
			metrics.TenantMismatchTotal.Inc()
			h.auditSvc.LogSecurityEvent(ctx, tenant.ID, nil, models.AuditTenantMismatch, c.RealIP(), models.JSONB{
				"path": c.Path(),
			})
		}
		return toHTTPError(err)
	}

	metrics.TokenRefreshTotal.Inc()
	return c.JSON(http.StatusOK, pair)
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Logout revokes the supplied refresh token, or every token the user holds
// in this tenant when none is supplied ("log out everywhere").
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}
	tenantID, ok := common.GetTokenTenantIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		req.RefreshToken = ""
	}

	if req.RefreshToken != "" {
		if err := h.authService.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
			return toHTTPError(err)
		}
	} else {
		if err := h.authService.RevokeAllUserTokens(ctx, tenantID, userID); err != nil {
			return toHTTPError(err)
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out successfully"})
}

// Me returns the authenticated user's profile within the resolved tenant.
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}
	tenant, ok := common.GetResolvedTenant(ctx)
	if !ok {
		return echo.NewHTTPError(http.StatusBadRequest, "Missing tenant context")
	}

	user, err := h.userService.GetByID(ctx, tenant.ID, userID)
	if err != nil {
		return toHTTPError(err)
	}

	return c.JSON(http.StatusOK, user)
}
