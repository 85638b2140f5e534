package repositories

import (
	"context"
	"testing"
	"time"

	"tenantauth/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type TenantRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     TenantRepository
	tenantID uuid.UUID
	context  context.Context
}

func (suite *TenantRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewTenantRepo(mock)
	suite.tenantID = uuid.New()
	suite.context = context.Background()
}

func (suite *TenantRepoTestSuite) TearDownTest() {
	suite.mock.Close()
}

func TestTenantRepoTestSuite(t *testing.T) {
	suite.Run(t, new(TenantRepoTestSuite))
}

func (suite *TenantRepoTestSuite) newTenant() *models.Tenant {
	return &models.Tenant{
		ID:             suite.tenantID,
		Name:           "Acme Corp",
		Slug:           "acme",
		PrimaryColor:   "#007bff",
		SecondaryColor: "#6c757d",
		Plan:           models.PlanFree,
		MaxUsers:       10,
		IsActive:       true,
	}
}

func (suite *TenantRepoTestSuite) tenantRows(tenant *models.Tenant) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "name", "slug", "logo_url", "primary_color", "secondary_color",
		"plan", "max_users", "is_active", "created_at", "updated_at",
	}).AddRow(
		tenant.ID, tenant.Name, tenant.Slug, tenant.LogoURL,
		tenant.PrimaryColor, tenant.SecondaryColor,
		tenant.Plan, tenant.MaxUsers, tenant.IsActive,
		time.Now(), time.Now(),
	)
}

func (suite *TenantRepoTestSuite) TestCreate_Success() {
	tenant := suite.newTenant()

	suite.mock.ExpectExec(`INSERT INTO tenants`).
		WithArgs(tenant.ID, tenant.Name, tenant.Slug, tenant.LogoURL,
			tenant.PrimaryColor, tenant.SecondaryColor,
			tenant.Plan, tenant.MaxUsers, tenant.IsActive).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := suite.repo.Create(suite.context, tenant)
	assert.NoError(suite.T(), err)
}

func (suite *TenantRepoTestSuite) TestCreate_SlugTaken() {
	tenant := suite.newTenant()

	suite.mock.ExpectExec(`INSERT INTO tenants`).
		WithArgs(tenant.ID, tenant.Name, tenant.Slug, tenant.LogoURL,
			tenant.PrimaryColor, tenant.SecondaryColor,
			tenant.Plan, tenant.MaxUsers, tenant.IsActive).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "tenants_slug_key"})

	err := suite.repo.Create(suite.context, tenant)
	assert.ErrorIs(suite.T(), err, ErrSlugTaken)
}

func (suite *TenantRepoTestSuite) TestGetBySlug_Success() {
	tenant := suite.newTenant()

	suite.mock.ExpectQuery(`SELECT .+ FROM tenants WHERE slug = \$1`).
		WithArgs("acme").
		WillReturnRows(suite.tenantRows(tenant))

	result, err := suite.repo.GetBySlug(suite.context, "acme")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), tenant.ID, result.ID)
	assert.Equal(suite.T(), "acme", result.Slug)
	assert.Equal(suite.T(), models.PlanFree, result.Plan)
}

func (suite *TenantRepoTestSuite) TestGetBySlug_NotFound() {
	suite.mock.ExpectQuery(`SELECT .+ FROM tenants WHERE slug = \$1`).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	result, err := suite.repo.GetBySlug(suite.context, "missing")
	assert.ErrorIs(suite.T(), err, ErrNotFound)
	assert.Nil(suite.T(), result)
}

func (suite *TenantRepoTestSuite) TestUpdateBranding_PartialUpdate() {
	name := "Acme Corporation"
	primary := "#112233"

	suite.mock.ExpectExec(`UPDATE tenants`).
		WithArgs(suite.tenantID, &name, (*string)(nil), &primary, (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.UpdateBranding(suite.context, suite.tenantID, &BrandingUpdate{
		Name:         &name,
		PrimaryColor: &primary,
	})
	assert.NoError(suite.T(), err)
}

func (suite *TenantRepoTestSuite) TestUpdateBranding_NotFound() {
	name := "Ghost"

	suite.mock.ExpectExec(`UPDATE tenants`).
		WithArgs(suite.tenantID, &name, (*string)(nil), (*string)(nil), (*string)(nil)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.UpdateBranding(suite.context, suite.tenantID, &BrandingUpdate{Name: &name})
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *TenantRepoTestSuite) TestDeactivate_Success() {
	suite.mock.ExpectExec(`UPDATE tenants SET is_active = FALSE`).
		WithArgs(suite.tenantID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := suite.repo.Deactivate(suite.context, suite.tenantID)
	assert.NoError(suite.T(), err)
}
