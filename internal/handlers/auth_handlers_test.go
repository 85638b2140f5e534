package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tenantauth/internal/common"
	"tenantauth/internal/models"
	"tenantauth/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) IssuePair(ctx context.Context, user *models.User) (*models.TokenPair, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockAuthService) VerifyAccessToken(tokenString string) (*services.TokenClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.TokenClaims), args.Error(1)
}

func (m *MockAuthService) Refresh(ctx context.Context, refreshToken string, tenantID uuid.UUID) (*models.TokenPair, error) {
	args := m.Called(ctx, refreshToken, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TokenPair), args.Error(1)
}

func (m *MockAuthService) RevokeRefreshToken(ctx context.Context, refreshToken string) error {
	args := m.Called(ctx, refreshToken)
	return args.Error(0)
}

func (m *MockAuthService) RevokeAllUserTokens(ctx context.Context, tenantID, userID uuid.UUID) error {
	args := m.Called(ctx, tenantID, userID)
	return args.Error(0)
}

func (m *MockAuthService) CleanupExpiredTokens(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, tenantID uuid.UUID, req *services.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, tenantID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, tenantID uuid.UUID, email, password, ip string) (*models.User, error) {
	args := m.Called(ctx, tenantID, email, password, ip)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserService) UpdateRole(ctx context.Context, tenantID, id uuid.UUID, role models.Role) error {
	args := m.Called(ctx, tenantID, id, role)
	return args.Error(0)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) LogSecurityEvent(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, event, ip string, detail models.JSONB) {
	m.Called(ctx, tenantID, userID, event, ip, detail)
}

func (m *MockAuditService) List(ctx context.Context, tenantID uuid.UUID, filters *models.AuditLogFilters) ([]*models.AuditLog, error) {
	args := m.Called(ctx, tenantID, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.AuditLog), args.Error(1)
}

type authHandlersFixture struct {
	auth     *MockAuthService
	users    *MockUserService
	audit    *MockAuditService
	handlers *AuthHandlers
	tenant   *models.Tenant
}

func newAuthHandlersFixture() *authHandlersFixture {
	auth := &MockAuthService{}
	users := &MockUserService{}
	audit := &MockAuditService{}
	return &authHandlersFixture{
		auth:     auth,
		users:    users,
		audit:    audit,
		handlers: NewAuthHandlers(auth, users, audit),
		tenant:   &models.Tenant{ID: uuid.New(), Slug: "acme", IsActive: true},
	}
}

func (f *authHandlersFixture) newContext(method, target, body string, claims *models.User) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	ctx := common.WithResolvedTenant(req.Context(), f.tenant)
	if claims != nil {
		ctx = common.WithTokenClaims(ctx, claims.ID, claims.TenantID, claims.Email, claims.Role)
	}
	req = req.WithContext(ctx)

	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLogin_Success(t *testing.T) {
	f := newAuthHandlersFixture()
	user := &models.User{ID: uuid.New(), TenantID: f.tenant.ID, Email: "alice@example.com", Role: models.RoleUser, IsActive: true}
	pair := &models.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"}

	f.users.On("Authenticate", mock.Anything, f.tenant.ID, "alice@example.com", "supersecret", mock.Anything).
		Return(user, nil)
	f.auth.On("IssuePair", mock.Anything, user).Return(pair, nil)

	c, rec := f.newContext(http.MethodPost, "/t/acme/auth/login",
		`{"email":"alice@example.com","password":"supersecret"}`, nil)

	err := f.handlers.Login(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "access-jwt")
	assert.Contains(t, rec.Body.String(), "refresh-jwt")
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestLogin_InvalidCredentials(t *testing.T) {
	f := newAuthHandlersFixture()

	f.users.On("Authenticate", mock.Anything, f.tenant.ID, "alice@example.com", "wrong-password", mock.Anything).
		Return(nil, services.ErrInvalidCredentials)

	c, _ := f.newContext(http.MethodPost, "/t/acme/auth/login",
		`{"email":"alice@example.com","password":"wrong-password"}`, nil)

	err := f.handlers.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
	assert.Equal(t, "Invalid credentials", httpErr.Message)
}

func TestLogin_LockedAccount(t *testing.T) {
	f := newAuthHandlersFixture()

	f.users.On("Authenticate", mock.Anything, f.tenant.ID, "alice@example.com", "supersecret", mock.Anything).
		Return(nil, services.ErrAccountLocked)

	c, _ := f.newContext(http.MethodPost, "/t/acme/auth/login",
		`{"email":"alice@example.com","password":"supersecret"}`, nil)

	err := f.handlers.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusLocked, httpErr.Code)
}

func TestLogin_MissingFields(t *testing.T) {
	f := newAuthHandlersFixture()

	c, _ := f.newContext(http.MethodPost, "/t/acme/auth/login", `{"email":"alice@example.com"}`, nil)

	err := f.handlers.Login(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestRegister_Success(t *testing.T) {
	f := newAuthHandlersFixture()
	user := &models.User{ID: uuid.New(), TenantID: f.tenant.ID, Email: "bob@example.com", Role: models.RoleUser, IsActive: true}
	pair := &models.TokenPair{AccessToken: "access-jwt", RefreshToken: "refresh-jwt"}

	f.users.On("Register", mock.Anything, f.tenant.ID, mock.AnythingOfType("*services.RegisterRequest")).
		Return(user, nil)
	f.auth.On("IssuePair", mock.Anything, user).Return(pair, nil)

	c, rec := f.newContext(http.MethodPost, "/t/acme/auth/register",
		`{"email":"bob@example.com","password":"supersecret","first_name":"Bob"}`, nil)

	err := f.handlers.Register(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), "bob@example.com")
}

func TestRefresh_MissingToken(t *testing.T) {
	f := newAuthHandlersFixture()

	c, _ := f.newContext(http.MethodPost, "/t/acme/auth/refresh", `{}`, nil)

	err := f.handlers.Refresh(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, httpErr.Code)
}

func TestRefresh_TenantMismatchIsAudited(t *testing.T) {
	f := newAuthHandlersFixture()

	f.auth.On("Refresh", mock.Anything, "other-tenant-token", f.tenant.ID).
		Return(nil, services.ErrTenantMismatch)
	f.audit.On("LogSecurityEvent", mock.Anything, f.tenant.ID, (*uuid.UUID)(nil),
		models.AuditTenantMismatch, mock.Anything, mock.Anything).Return()

	c, _ := f.newContext(http.MethodPost, "/t/acme/auth/refresh",
		`{"refreshToken":"other-tenant-token"}`, nil)

	err := f.handlers.Refresh(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusForbidden, httpErr.Code)
	assert.Equal(t, "Tenant mismatch", httpErr.Message)
	f.audit.AssertExpectations(t)
}

func TestRefresh_Success(t *testing.T) {
	f := newAuthHandlersFixture()
	pair := &models.TokenPair{AccessToken: "new-access", RefreshToken: "new-refresh"}

	f.auth.On("Refresh", mock.Anything, "valid-refresh", f.tenant.ID).Return(pair, nil)

	c, rec := f.newContext(http.MethodPost, "/t/acme/auth/refresh",
		`{"refreshToken":"valid-refresh"}`, nil)

	err := f.handlers.Refresh(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "new-access")
	assert.Contains(t, rec.Body.String(), "new-refresh")
}

func TestLogout_SpecificToken(t *testing.T) {
	f := newAuthHandlersFixture()
	user := &models.User{ID: uuid.New(), TenantID: f.tenant.ID, Email: "alice@example.com", Role: models.RoleUser}

	f.auth.On("RevokeRefreshToken", mock.Anything, "the-refresh-token").Return(nil)

	c, rec := f.newContext(http.MethodPost, "/t/acme/auth/logout",
		`{"refreshToken":"the-refresh-token"}`, user)

	err := f.handlers.Logout(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	f.auth.AssertNotCalled(t, "RevokeAllUserTokens", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogout_NoTokenRevokesAll(t *testing.T) {
	f := newAuthHandlersFixture()
	user := &models.User{ID: uuid.New(), TenantID: f.tenant.ID, Email: "alice@example.com", Role: models.RoleUser}

	f.auth.On("RevokeAllUserTokens", mock.Anything, f.tenant.ID, user.ID).Return(nil)

	c, rec := f.newContext(http.MethodPost, "/t/acme/auth/logout", `{}`, user)

	err := f.handlers.Logout(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	f.auth.AssertExpectations(t)
}

func TestLogout_Unauthenticated(t *testing.T) {
	f := newAuthHandlersFixture()

	c, _ := f.newContext(http.MethodPost, "/t/acme/auth/logout", `{}`, nil)

	err := f.handlers.Logout(c)
	httpErr, ok := err.(*echo.HTTPError)
	assert.True(t, ok)
	assert.Equal(t, http.StatusUnauthorized, httpErr.Code)
}

func TestMe_ReturnsProfile(t *testing.T) {
	f := newAuthHandlersFixture()
	user := &models.User{ID: uuid.New(), TenantID: f.tenant.ID, Email: "alice@example.com", Role: models.RoleUser, IsActive: true}

	f.users.On("GetByID", mock.Anything, f.tenant.ID, user.ID).Return(user, nil)

	c, rec := f.newContext(http.MethodPost, "/t/acme/auth/me", "", user)

	err := f.handlers.Me(c)
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")
	assert.NotContains(t, rec.Body.String(), "password_hash")
}
