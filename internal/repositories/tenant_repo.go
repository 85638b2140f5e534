package repositories

import (
	"context"
	"errors"

	"tenantauth/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenantRepository interface {
	Create(ctx context.Context, tenant *models.Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	UpdateBranding(ctx context.Context, id uuid.UUID, update *BrandingUpdate) error
	SetLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*models.Tenant, error)
}

// BrandingUpdate is the closed set of tenant fields an admin may change.
// Each field is bound individually; nil means "leave unchanged".
type BrandingUpdate struct {
	Name           *string `json:"name"`
	LogoURL        *string `json:"logo_url"`
	PrimaryColor   *string `json:"primary_color"`
	SecondaryColor *string `json:"secondary_color"`
}

type tenantRepo struct {
	db DB
}

func NewTenantRepo(db DB) TenantRepository {
	return &tenantRepo{db: db}
}

const tenantColumns = `id, name, slug, logo_url, primary_color, secondary_color, plan, max_users, is_active, created_at, updated_at`

func (r *tenantRepo) Create(ctx context.Context, tenant *models.Tenant) error {
	query := `
		INSERT INTO tenants (id, name, slug, logo_url, primary_color, secondary_color, plan, max_users, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query,
		tenant.ID, tenant.Name, tenant.Slug, tenant.LogoURL,
		tenant.PrimaryColor, tenant.SecondaryColor,
		tenant.Plan, tenant.MaxUsers, tenant.IsActive,
	)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

func scanTenant(row pgx.Row) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	err := row.Scan(
		&tenant.ID, &tenant.Name, &tenant.Slug, &tenant.LogoURL,
		&tenant.PrimaryColor, &tenant.SecondaryColor,
		&tenant.Plan, &tenant.MaxUsers, &tenant.IsActive,
		&tenant.CreatedAt, &tenant.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return tenant, nil
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	return scanTenant(r.db.QueryRow(ctx, query, id))
}

func (r *tenantRepo) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = $1`
	return scanTenant(r.db.QueryRow(ctx, query, slug))
}

// UpdateBranding writes only the explicit branding fields. COALESCE keeps a
// column untouched when the corresponding field is nil, so no SET fragment is
// ever built from request input.
func (r *tenantRepo) UpdateBranding(ctx context.Context, id uuid.UUID, update *BrandingUpdate) error {
	query := `
		UPDATE tenants
		SET name = COALESCE($2, name),
		    logo_url = COALESCE($3, logo_url),
		    primary_color = COALESCE($4, primary_color),
		    secondary_color = COALESCE($5, secondary_color),
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.db.Exec(ctx, query, id, update.Name, update.LogoURL, update.PrimaryColor, update.SecondaryColor)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tenantRepo) SetLogoURL(ctx context.Context, id uuid.UUID, logoURL string) error {
	query := `UPDATE tenants SET logo_url = $2, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id, logoURL)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Deactivate soft-deletes a tenant. Rows are never hard-deleted here.
func (r *tenantRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE tenants SET is_active = FALSE, updated_at = NOW() WHERE id = $1`
	tag, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *tenantRepo) List(ctx context.Context, limit, offset int) ([]*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC LIMIT $1 OFFSET $2`
	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenants []*models.Tenant
	for rows.Next() {
		tenant := &models.Tenant{}
		if err := rows.Scan(
			&tenant.ID, &tenant.Name, &tenant.Slug, &tenant.LogoURL,
			&tenant.PrimaryColor, &tenant.SecondaryColor,
			&tenant.Plan, &tenant.MaxUsers, &tenant.IsActive,
			&tenant.CreatedAt, &tenant.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tenants = append(tenants, tenant)
	}
	return tenants, rows.Err()
}
