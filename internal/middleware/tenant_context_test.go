package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tenantauth/internal/common"
	"tenantauth/internal/models"
	"tenantauth/internal/repositories"
	"tenantauth/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockTenantService struct {
	mock.Mock
}

func (m *mockTenantService) Create(ctx context.Context, req *services.CreateTenantRequest) (*models.Tenant, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantService) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantService) CanAcceptNewUser(ctx context.Context, tenantID uuid.UUID) (bool, error) {
	args := m.Called(ctx, tenantID)
	return args.Bool(0), args.Error(1)
}

func (m *mockTenantService) UpdateBranding(ctx context.Context, id uuid.UUID, update *repositories.BrandingUpdate) (*models.Tenant, error) {
	args := m.Called(ctx, id, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *mockTenantService) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func runTenantContext(svc services.TenantService, slug string, next echo.HandlerFunc) error {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/t/"+slug+"/auth/login", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("slug")
	c.SetParamValues(slug)

	return TenantContext(svc)(next)(c)
}

func TestTenantContext_ResolvesTenant(t *testing.T) {
	svc := &mockTenantService{}
	tenant := &models.Tenant{ID: uuid.New(), Slug: "acme", IsActive: true}
	svc.On("GetBySlug", mock.Anything, "acme").Return(tenant, nil)

	var resolved *models.Tenant
	next := func(c echo.Context) error {
		resolved, _ = common.GetResolvedTenant(c.Request().Context())
		return c.NoContent(http.StatusOK)
	}

	err := runTenantContext(svc, "acme", next)
	assert.NoError(t, err)
	assert.NotNil(t, resolved)
	assert.Equal(t, tenant.ID, resolved.ID)
}

func TestTenantContext_UnknownSlug(t *testing.T) {
	svc := &mockTenantService{}
	svc.On("GetBySlug", mock.Anything, "missing").Return(nil, repositories.ErrNotFound)

	err := runTenantContext(svc, "missing", okHandler)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Equal(t, "Tenant not found", httpErr.Message)
}

func TestTenantContext_InactiveTenant(t *testing.T) {
	svc := &mockTenantService{}
	tenant := &models.Tenant{ID: uuid.New(), Slug: "dormant", IsActive: false}
	svc.On("GetBySlug", mock.Anything, "dormant").Return(tenant, nil)

	err := runTenantContext(svc, "dormant", okHandler)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Equal(t, "Tenant is not active", httpErr.Message)
}
